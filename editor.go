package sitesmith

import "context"

// VisualEditor is the page-editor collaborator. The editor is opaque to
// this module: it can load, expose and accept HTML+CSS, nothing more is
// assumed about it.
type VisualEditor interface {
	CurrentPages() map[string]Page
	GlobalCSS() string
	UpdatePages(pages map[string]Page)
	UpdateGlobalCSS(css string)
	Initialize(ctx context.Context, html string) error
}

// TemplateSource supplies an optional template reference for generation.
type TemplateSource interface {
	HasSelectedTemplate() bool
	// SelectedTemplateHTML returns the selected template's HTML, or ""
	// when none is selected.
	SelectedTemplateHTML() string
}
