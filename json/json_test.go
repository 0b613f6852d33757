package json_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesmith/sitesmith"
	sitejson "github.com/sitesmith/sitesmith/json"
)

func TestThread_SaveAndLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "thread.json")
	thread := sitesmith.Thread{
		ID: "t-42",
		Messages: []sitesmith.Message{
			{Role: sitesmith.RoleUser, Content: "a bakery website"},
			{Role: sitesmith.RoleAssistant, Content: "What is it called?"},
		},
	}

	require.NoError(t, sitejson.SaveThread(path, thread))

	loaded, err := sitejson.LoadThread(path)
	require.NoError(t, err)
	assert.Equal(t, thread, loaded)
}

func TestThread_LoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := sitejson.LoadThread(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestThread_UnsupportedVersion(t *testing.T) {
	t.Parallel()
	_, err := sitejson.UnmarshalThread([]byte(`{"version": 2, "thread_id": "t"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestArtifact_SaveAndLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "artifact.json")
	art := sitesmith.Artifact{
		Pages: map[string]sitesmith.Page{
			"home": {HTML: "<h1>Hi</h1>", CSS: "h1{}"},
		},
		GlobalCSS:  "body{}",
		ImageURLs:  map[string]string{"hero": "https://img/hero.png"},
		FolderPath: "sites/abc",
	}

	require.NoError(t, sitejson.SaveArtifact(path, art))

	loaded, err := sitejson.LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, art, loaded)
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "thread.json")

	require.NoError(t, sitejson.SaveThread(path, sitesmith.Thread{ID: "t"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "thread.json", entries[0].Name())
}

func TestSave_OverwritesExisting(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "thread.json")
	require.NoError(t, sitejson.SaveThread(path, sitesmith.Thread{ID: "first"}))
	require.NoError(t, sitejson.SaveThread(path, sitesmith.Thread{ID: "second"}))

	loaded, err := sitejson.LoadThread(path)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.ID)
}
