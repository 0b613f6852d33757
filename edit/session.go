// Package edit applies natural-language instructions to a generated
// artifact under a two-phase propose/commit discipline, so a bad
// AI-authored edit never silently clobbers the working artifact.
package edit

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sitesmith/sitesmith"
)

// Session holds at most one pending update against the artifact store.
// At most one Propose may be in flight at a time, and a new Propose is
// rejected while a pending update awaits Commit or Discard.
type Session struct {
	svc    sitesmith.Service
	store  *sitesmith.Store
	editor sitesmith.VisualEditor
	logger *zap.Logger

	mu       sync.Mutex
	pending  *sitesmith.UpdateResult
	inflight bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithEditor attaches the visual editor collaborator. Proposals then read
// the working pages from the editor instead of the store, picking up any
// manual tweaks made there, and committed changes are pushed back into it.
func WithEditor(e sitesmith.VisualEditor) Option {
	return func(s *Session) { s.editor = e }
}

// New creates a Session reading from and committing into store.
func New(svc sitesmith.Service, store *sitesmith.Store, opts ...Option) *Session {
	s := &Session{svc: svc, store: store, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Propose sends one edit instruction against the store's current pages
// and global stylesheet and holds the returned change as pending.
//
// When folderPath is non-empty the server persists the change to disk as
// part of this same call. The pending state is then display-level only:
// Discard rolls back the in-memory view but does not undo the server-side
// save, because the protocol has no revert call. Callers wanting
// approval-before-persistence pass an empty folderPath and save after
// Commit.
func (s *Session) Propose(ctx context.Context, instruction, folderPath string) (sitesmith.UpdateResult, error) {
	s.mu.Lock()
	if s.inflight || s.pending != nil {
		s.mu.Unlock()
		return sitesmith.UpdateResult{}, sitesmith.ErrBusy
	}
	req := sitesmith.UpdateRequest{
		Pages:       s.store.Pages(),
		GlobalCSS:   s.store.GlobalCSS(),
		EditRequest: instruction,
		FolderPath:  folderPath,
	}
	if s.editor != nil {
		if pages := s.editor.CurrentPages(); len(pages) > 0 {
			req.Pages = pages
			req.GlobalCSS = s.editor.GlobalCSS()
		}
	}
	if err := req.Validate(); err != nil {
		s.mu.Unlock()
		return sitesmith.UpdateResult{}, err
	}
	s.inflight = true
	s.mu.Unlock()

	res, err := s.svc.Update(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false
	if err != nil {
		return sitesmith.UpdateResult{}, err
	}
	s.pending = &res
	s.logger.Info("update proposed",
		zap.Int("updated_pages", len(res.UpdatedPages)),
		zap.Bool("global_css_changed", res.UpdatedGlobalCSS != nil),
		zap.Bool("auto_saved", folderPath != ""))
	return res, nil
}

// Pending returns the outstanding update, if any.
func (s *Session) Pending() (sitesmith.UpdateResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return sitesmith.UpdateResult{}, false
	}
	return *s.pending, true
}

// Commit merges the pending update into the store: updated pages
// overwrite by page-name key, unmentioned pages stay untouched, and a
// non-nil global stylesheet replaces the current one. Fails with
// sitesmith.ErrNoPendingUpdate when nothing is outstanding.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return sitesmith.ErrNoPendingUpdate
	}
	s.store.ApplyPatch(s.pending.UpdatedPages, s.pending.UpdatedGlobalCSS)
	if s.editor != nil {
		if len(s.pending.UpdatedPages) > 0 {
			s.editor.UpdatePages(s.pending.UpdatedPages)
		}
		if s.pending.UpdatedGlobalCSS != nil {
			s.editor.UpdateGlobalCSS(*s.pending.UpdatedGlobalCSS)
		}
	}
	s.pending = nil
	return nil
}

// Discard drops the pending update without touching the store. Fails
// with sitesmith.ErrNoPendingUpdate when nothing is outstanding.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return sitesmith.ErrNoPendingUpdate
	}
	s.pending = nil
	return nil
}
