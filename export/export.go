// Package export writes a completed artifact to a local directory: one
// HTML file per page with the page stylesheet inlined, a shared
// styles.css, and a manifest with image references and the server's
// saved-file names.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sitesmith/sitesmith"
)

const (
	globalStylesheet = "styles.css"
	manifestFile     = "manifest.json"
)

// manifest is the sidecar written next to the exported pages.
type manifest struct {
	Pages      []string          `json:"pages"`
	ImageURLs  map[string]string `json:"imageUrls,omitempty"`
	SavedFiles map[string]string `json:"savedFiles,omitempty"`
	FolderPath string            `json:"folderPath,omitempty"`
}

// WriteSite writes the artifact's pages into dir. Patterns, when given,
// are doublestar globs over page names ("home", "about*"); a page is
// exported when any pattern matches. No patterns means every page.
// Returns the exported page names in sorted order.
func WriteSite(dir string, a sitesmith.Artifact, patterns ...string) ([]string, error) {
	if len(a.Pages) == 0 {
		return nil, fmt.Errorf("no pages to export: %w", sitesmith.ErrValidation)
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid page pattern %q: %w", p, sitesmith.ErrValidation)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	var names []string
	for name := range a.Pages {
		if matchAny(name, patterns) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no pages match the given patterns: %w", sitesmith.ErrValidation)
	}
	sort.Strings(names)

	for _, name := range names {
		page := a.Pages[name]
		if err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(renderPage(page)), 0o644); err != nil {
			return nil, fmt.Errorf("write page %s: %w", name, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, globalStylesheet), []byte(a.GlobalCSS), 0o644); err != nil {
		return nil, fmt.Errorf("write global stylesheet: %w", err)
	}

	m := manifest{
		Pages:      names,
		ImageURLs:  a.ImageURLs,
		SavedFiles: a.SavedFiles,
		FolderPath: a.FolderPath,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	return names, nil
}

func matchAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// renderPage inlines the page stylesheet and links the shared one. Pages
// arriving as full documents are passed through with only the stylesheet
// link injected into <head> when one exists.
func renderPage(p sitesmith.Page) string {
	link := fmt.Sprintf("<link rel=%q href=%q>", "stylesheet", globalStylesheet)
	var style string
	if p.CSS != "" {
		style = "<style>\n" + p.CSS + "\n</style>"
	}

	if idx := strings.Index(strings.ToLower(p.HTML), "<head>"); idx >= 0 {
		insert := "\n" + link
		if style != "" {
			insert += "\n" + style
		}
		at := idx + len("<head>")
		return p.HTML[:at] + insert + p.HTML[at:]
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(link)
	b.WriteString("\n")
	if style != "" {
		b.WriteString(style)
		b.WriteString("\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(p.HTML)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
