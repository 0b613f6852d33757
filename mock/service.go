// Package mock provides test doubles for sitesmith interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/sitesmith/sitesmith"
)

// Interface compliance checks.
var (
	_ sitesmith.Service        = (*Service)(nil)
	_ sitesmith.VisualEditor   = (*Editor)(nil)
	_ sitesmith.TemplateSource = (*Templates)(nil)
)

// Service is a test double for sitesmith.Service.
// Set the function fields for the methods you need.
type Service struct {
	GenerateFn func(ctx context.Context, req sitesmith.GenerateRequest) (sitesmith.EventStream, error)
	UpdateFn   func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error)
}

// Generate delegates to GenerateFn.
func (s *Service) Generate(ctx context.Context, req sitesmith.GenerateRequest) (sitesmith.EventStream, error) {
	return s.GenerateFn(ctx, req)
}

// Update delegates to UpdateFn.
func (s *Service) Update(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
	return s.UpdateFn(ctx, req)
}

// Editor is a test double for sitesmith.VisualEditor. Read accessors are
// nil-safe so tests only set what they assert on.
type Editor struct {
	CurrentPagesFn    func() map[string]sitesmith.Page
	GlobalCSSFn       func() string
	UpdatePagesFn     func(pages map[string]sitesmith.Page)
	UpdateGlobalCSSFn func(css string)
	InitializeFn      func(ctx context.Context, html string) error
}

// CurrentPages delegates to CurrentPagesFn. Returns nil when unset.
func (e *Editor) CurrentPages() map[string]sitesmith.Page {
	if e.CurrentPagesFn == nil {
		return nil
	}
	return e.CurrentPagesFn()
}

// GlobalCSS delegates to GlobalCSSFn. Returns "" when unset.
func (e *Editor) GlobalCSS() string {
	if e.GlobalCSSFn == nil {
		return ""
	}
	return e.GlobalCSSFn()
}

// UpdatePages delegates to UpdatePagesFn. No-op when unset.
func (e *Editor) UpdatePages(pages map[string]sitesmith.Page) {
	if e.UpdatePagesFn != nil {
		e.UpdatePagesFn(pages)
	}
}

// UpdateGlobalCSS delegates to UpdateGlobalCSSFn. No-op when unset.
func (e *Editor) UpdateGlobalCSS(css string) {
	if e.UpdateGlobalCSSFn != nil {
		e.UpdateGlobalCSSFn(css)
	}
}

// Initialize delegates to InitializeFn. Returns nil when unset.
func (e *Editor) Initialize(ctx context.Context, html string) error {
	if e.InitializeFn == nil {
		return nil
	}
	return e.InitializeFn(ctx, html)
}

// Templates is a test double for sitesmith.TemplateSource.
type Templates struct {
	HTML string
}

// HasSelectedTemplate reports whether HTML is non-empty.
func (t *Templates) HasSelectedTemplate() bool { return t.HTML != "" }

// SelectedTemplateHTML returns HTML.
func (t *Templates) SelectedTemplateHTML() string { return t.HTML }
