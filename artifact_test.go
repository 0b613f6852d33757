package sitesmith_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesmith/sitesmith"
)

func testArtifact() sitesmith.Artifact {
	return sitesmith.Artifact{
		Pages: map[string]sitesmith.Page{
			"home":  {HTML: "<h1>Home</h1>", CSS: "h1{color:red}"},
			"about": {HTML: "<h1>About</h1>", CSS: ""},
		},
		GlobalCSS: "body{margin:0}",
	}
}

func TestStore_EmptyUntilReplace(t *testing.T) {
	t.Parallel()
	s := sitesmith.NewStore()
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Pages())

	s.Replace(testArtifact())
	assert.False(t, s.IsEmpty())
	assert.Len(t, s.Pages(), 2)
	assert.Equal(t, "body{margin:0}", s.GlobalCSS())
}

func TestStore_ReadersGetCopies(t *testing.T) {
	t.Parallel()
	s := sitesmith.NewStore()
	s.Replace(testArtifact())

	pages := s.Pages()
	pages["home"] = sitesmith.Page{HTML: "mutated"}
	assert.Equal(t, "<h1>Home</h1>", s.Pages()["home"].HTML)

	snap := s.Snapshot()
	snap.Pages["about"] = sitesmith.Page{HTML: "mutated"}
	snap.GlobalCSS = "mutated"
	assert.Equal(t, "<h1>About</h1>", s.Pages()["about"].HTML)
	assert.Equal(t, "body{margin:0}", s.GlobalCSS())
}

func TestStore_ApplyPatch_MergesByKey(t *testing.T) {
	t.Parallel()
	s := sitesmith.NewStore()
	s.Replace(testArtifact())

	s.ApplyPatch(map[string]sitesmith.Page{
		"home":    {HTML: "<h1>New Home</h1>", CSS: "h1{color:blue}"},
		"contact": {HTML: "<h1>Contact</h1>"},
	}, nil)

	pages := s.Pages()
	require.Len(t, pages, 3)
	assert.Equal(t, "<h1>New Home</h1>", pages["home"].HTML)
	assert.Equal(t, "<h1>About</h1>", pages["about"].HTML, "unmentioned pages stay untouched")
	assert.Equal(t, "<h1>Contact</h1>", pages["contact"].HTML)
	assert.Equal(t, "body{margin:0}", s.GlobalCSS(), "nil globalCSS leaves the stylesheet alone")
}

func TestStore_ApplyPatch_GlobalCSS(t *testing.T) {
	t.Parallel()
	s := sitesmith.NewStore()
	s.Replace(testArtifact())

	css := "body{margin:1rem}"
	s.ApplyPatch(nil, &css)

	assert.Equal(t, css, s.GlobalCSS())
	assert.Len(t, s.Pages(), 2)
}

func TestArtifact_Clone_IsDeep(t *testing.T) {
	t.Parallel()
	a := testArtifact()
	a.ImageURLs = map[string]string{"hero": "https://img/hero.png"}
	a.Plan = []byte(`{"pages":2}`)

	c := a.Clone()
	c.Pages["home"] = sitesmith.Page{HTML: "mutated"}
	c.ImageURLs["hero"] = "mutated"
	c.Plan[0] = 'X'

	assert.Equal(t, "<h1>Home</h1>", a.Pages["home"].HTML)
	assert.Equal(t, "https://img/hero.png", a.ImageURLs["hero"])
	assert.Equal(t, byte('{'), a.Plan[0])
}
