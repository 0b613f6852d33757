package edit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesmith/sitesmith"
	"github.com/sitesmith/sitesmith/edit"
	"github.com/sitesmith/sitesmith/mock"
)

func seededStore() *sitesmith.Store {
	s := sitesmith.NewStore()
	s.Replace(sitesmith.Artifact{
		Pages: map[string]sitesmith.Page{
			"home":  {HTML: "<h1>Home</h1>", CSS: "h1{color:red}"},
			"about": {HTML: "<h1>About</h1>"},
		},
		GlobalCSS: "body{margin:0}",
	})
	return s
}

func TestSession_ProposeCarriesCurrentArtifact(t *testing.T) {
	t.Parallel()
	var got sitesmith.UpdateRequest
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			got = req
			return sitesmith.UpdateResult{ChangesSummary: "Made the header blue."}, nil
		},
	}
	s := edit.New(svc, seededStore())

	res, err := s.Propose(context.Background(), "make the header blue", "")

	require.NoError(t, err)
	assert.Equal(t, "Made the header blue.", res.ChangesSummary)
	assert.Len(t, got.Pages, 2)
	assert.Equal(t, "body{margin:0}", got.GlobalCSS)
	assert.Equal(t, "make the header blue", got.EditRequest)
	assert.Empty(t, got.FolderPath)
}

func TestSession_CommitMergesIntoStore(t *testing.T) {
	t.Parallel()
	css := "body{margin:1rem}"
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			return sitesmith.UpdateResult{
				UpdatedPages:     map[string]sitesmith.Page{"home": {HTML: "<h1>New</h1>"}},
				UpdatedGlobalCSS: &css,
				ChangesSummary:   "Updated the home page.",
			}, nil
		},
	}
	store := seededStore()
	s := edit.New(svc, store)

	_, err := s.Propose(context.Background(), "make the header blue", "")
	require.NoError(t, err)

	// The store is untouched while the update is pending.
	assert.Equal(t, "<h1>Home</h1>", store.Pages()["home"].HTML)
	_, ok := s.Pending()
	assert.True(t, ok)

	require.NoError(t, s.Commit())

	assert.Equal(t, "<h1>New</h1>", store.Pages()["home"].HTML)
	assert.Equal(t, "<h1>About</h1>", store.Pages()["about"].HTML)
	assert.Equal(t, css, store.GlobalCSS())
	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestSession_DiscardLeavesStoreUntouched(t *testing.T) {
	t.Parallel()
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			return sitesmith.UpdateResult{
				UpdatedPages: map[string]sitesmith.Page{"home": {HTML: "<h1>New</h1>"}},
			}, nil
		},
	}
	store := seededStore()
	s := edit.New(svc, store)

	_, err := s.Propose(context.Background(), "make the header blue", "")
	require.NoError(t, err)
	require.NoError(t, s.Discard())

	assert.Equal(t, "<h1>Home</h1>", store.Pages()["home"].HTML)
	_, ok := s.Pending()
	assert.False(t, ok)
}

func TestSession_CommitAndDiscardRequirePending(t *testing.T) {
	t.Parallel()
	s := edit.New(&mock.Service{}, seededStore())

	assert.ErrorIs(t, s.Commit(), sitesmith.ErrNoPendingUpdate)
	assert.ErrorIs(t, s.Discard(), sitesmith.ErrNoPendingUpdate)
}

func TestSession_SecondDecisionFails(t *testing.T) {
	t.Parallel()
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			return sitesmith.UpdateResult{}, nil
		},
	}
	s := edit.New(svc, seededStore())

	_, err := s.Propose(context.Background(), "make the header blue", "")
	require.NoError(t, err)
	require.NoError(t, s.Commit())
	assert.ErrorIs(t, s.Commit(), sitesmith.ErrNoPendingUpdate)
	assert.ErrorIs(t, s.Discard(), sitesmith.ErrNoPendingUpdate)
}

func TestSession_ProposeWhilePendingIsBusy(t *testing.T) {
	t.Parallel()
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			return sitesmith.UpdateResult{}, nil
		},
	}
	s := edit.New(svc, seededStore())

	_, err := s.Propose(context.Background(), "make the header blue", "")
	require.NoError(t, err)

	_, err = s.Propose(context.Background(), "now make it green", "")
	assert.ErrorIs(t, err, sitesmith.ErrBusy)

	// Resolving the pending update unblocks the next proposal.
	require.NoError(t, s.Discard())
	_, err = s.Propose(context.Background(), "now make it green", "")
	assert.NoError(t, err)
}

func TestSession_ProposeWhileInFlightIsBusy(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	entered := make(chan struct{})
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			close(entered)
			<-release
			return sitesmith.UpdateResult{}, nil
		},
	}
	s := edit.New(svc, seededStore())

	done := make(chan error, 1)
	go func() {
		_, err := s.Propose(context.Background(), "make the header blue", "")
		done <- err
	}()
	<-entered

	_, err := s.Propose(context.Background(), "another change now", "")
	assert.ErrorIs(t, err, sitesmith.ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestSession_EditorSuppliesWorkingPages(t *testing.T) {
	t.Parallel()
	var got sitesmith.UpdateRequest
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			got = req
			return sitesmith.UpdateResult{}, nil
		},
	}
	editor := &mock.Editor{
		CurrentPagesFn: func() map[string]sitesmith.Page {
			return map[string]sitesmith.Page{"home": {HTML: "<h1>Tweaked</h1>"}}
		},
		GlobalCSSFn: func() string { return "body{font-size:18px}" },
	}
	s := edit.New(svc, seededStore(), edit.WithEditor(editor))

	_, err := s.Propose(context.Background(), "make the header blue", "")

	require.NoError(t, err)
	assert.Equal(t, "<h1>Tweaked</h1>", got.Pages["home"].HTML, "editor state wins over the store")
	assert.Equal(t, "body{font-size:18px}", got.GlobalCSS)
}

func TestSession_CommitPushesIntoEditor(t *testing.T) {
	t.Parallel()
	css := "body{margin:1rem}"
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			return sitesmith.UpdateResult{
				UpdatedPages:     map[string]sitesmith.Page{"home": {HTML: "<h1>New</h1>"}},
				UpdatedGlobalCSS: &css,
			}, nil
		},
	}
	var pushedPages map[string]sitesmith.Page
	var pushedCSS string
	editor := &mock.Editor{
		UpdatePagesFn:     func(pages map[string]sitesmith.Page) { pushedPages = pages },
		UpdateGlobalCSSFn: func(s string) { pushedCSS = s },
	}
	s := edit.New(svc, seededStore(), edit.WithEditor(editor))

	_, err := s.Propose(context.Background(), "make the header blue", "")
	require.NoError(t, err)
	require.NoError(t, s.Commit())

	assert.Equal(t, "<h1>New</h1>", pushedPages["home"].HTML)
	assert.Equal(t, css, pushedCSS)
}

func TestSession_ProposeValidation(t *testing.T) {
	t.Parallel()

	t.Run("short instruction", func(t *testing.T) {
		t.Parallel()
		s := edit.New(&mock.Service{}, seededStore())
		_, err := s.Propose(context.Background(), "fix", "")
		assert.ErrorIs(t, err, sitesmith.ErrValidation)
	})

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()
		s := edit.New(&mock.Service{}, sitesmith.NewStore())
		_, err := s.Propose(context.Background(), "make the header blue", "")
		assert.ErrorIs(t, err, sitesmith.ErrValidation)
	})
}

func TestSession_ServiceErrorClearsInFlight(t *testing.T) {
	t.Parallel()
	fail := true
	svc := &mock.Service{
		UpdateFn: func(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
			if fail {
				return sitesmith.UpdateResult{}, errors.New("server unavailable")
			}
			return sitesmith.UpdateResult{}, nil
		},
	}
	s := edit.New(svc, seededStore())

	_, err := s.Propose(context.Background(), "make the header blue", "")
	require.Error(t, err)
	_, ok := s.Pending()
	assert.False(t, ok, "a failed proposal leaves nothing pending")

	fail = false
	_, err = s.Propose(context.Background(), "make the header blue", "")
	assert.NoError(t, err)
}
