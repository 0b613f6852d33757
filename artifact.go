package sitesmith

import (
	"encoding/json"
	"maps"
	"sync"
)

// Page is one generated page: markup plus its page-scoped stylesheet.
type Page struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Artifact is the complete output of one pipeline run. Page-name keys
// ("home", "about") are stable identifiers used consistently across
// generation, editing and export.
type Artifact struct {
	Pages      map[string]Page   `json:"pages"`
	GlobalCSS  string            `json:"globalCss"`
	ImageURLs  map[string]string `json:"imageUrls,omitempty"`
	Plan       json.RawMessage   `json:"plan,omitempty"`
	FolderPath string            `json:"folderPath,omitempty"`
	SavedFiles map[string]string `json:"savedFiles,omitempty"`
}

// Clone returns a deep copy of the artifact.
func (a Artifact) Clone() Artifact {
	c := a
	c.Pages = maps.Clone(a.Pages)
	c.ImageURLs = maps.Clone(a.ImageURLs)
	c.SavedFiles = maps.Clone(a.SavedFiles)
	if a.Plan != nil {
		c.Plan = make(json.RawMessage, len(a.Plan))
		copy(c.Plan, a.Plan)
	}
	return c
}

// Store is the authoritative in-memory record of the generated artifact.
// It is mutated only through Replace (pipeline completion) and ApplyPatch
// (a committed edit). Readers receive copies and must re-read rather than
// cache, since ApplyPatch mutates in place.
type Store struct {
	mu  sync.RWMutex
	art Artifact
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// IsEmpty reports whether no artifact has been stored yet.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.art.Pages) == 0
}

// Pages returns a copy of the page mapping.
func (s *Store) Pages() map[string]Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.art.Pages == nil {
		return map[string]Page{}
	}
	return maps.Clone(s.art.Pages)
}

// GlobalCSS returns the shared stylesheet.
func (s *Store) GlobalCSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.art.GlobalCSS
}

// Snapshot returns a deep copy of the whole artifact.
func (s *Store) Snapshot() Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.art.Clone()
}

// Replace installs a freshly generated artifact, discarding any previous
// one. Called once per completed pipeline run.
func (s *Store) Replace(a Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.art = a.Clone()
}

// ApplyPatch merges updated pages by page-name key, leaving unmentioned
// pages untouched, and overwrites the global stylesheet when globalCSS is
// non-nil. It is the sole mutator used by committed edits.
func (s *Store) ApplyPatch(pages map[string]Page, globalCSS *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(pages) > 0 && s.art.Pages == nil {
		s.art.Pages = make(map[string]Page, len(pages))
	}
	for name, p := range pages {
		s.art.Pages[name] = p
	}
	if globalCSS != nil {
		s.art.GlobalCSS = *globalCSS
	}
}
