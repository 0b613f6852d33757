package httpapi_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesmith/sitesmith"
	"github.com/sitesmith/sitesmith/httpapi"
)

// streamFrom opens a generation stream against a server that writes the
// given chunks in order, flushing between them so records can straddle
// chunk boundaries.
func streamFrom(t *testing.T, chunks ...string) sitesmith.EventStream {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, c := range chunks {
			io.WriteString(w, c)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	t.Cleanup(srv.Close)

	client := httpapi.New(httpapi.WithBaseURL(srv.URL))
	stream, err := client.Generate(context.Background(), sitesmith.GenerateRequest{Description: "a bakery website"})
	require.NoError(t, err)
	t.Cleanup(func() { stream.Close() })
	return stream
}

func TestStream_DecodesRecords(t *testing.T) {
	t.Parallel()
	s := streamFrom(t,
		"data: {\"step\": \"planning\", \"status\": \"in_progress\", \"message\": \"Planning\"}\n",
		"data: {\"step\": \"planning\", \"status\": \"completed\"}\n",
	)

	events := collectEvents(t, s)

	require.Len(t, events, 2)
	assert.Equal(t, sitesmith.StepPlanning, events[0].Step)
	assert.Equal(t, sitesmith.StatusInProgress, events[0].Status)
	assert.Equal(t, "Planning", events[0].Message)
	assert.Equal(t, sitesmith.StatusCompleted, events[1].Status)
}

func TestStream_RecordSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	s := streamFrom(t,
		"data: {\"step\": \"image_gene",
		"ration\", \"status\": \"in_progress\"}\ndata: {\"step\": ",
		"\"html_generation\", \"status\": \"in_progress\"}\n",
	)

	events := collectEvents(t, s)

	require.Len(t, events, 2)
	assert.Equal(t, sitesmith.StepImageGeneration, events[0].Step)
	assert.Equal(t, sitesmith.StepHTMLGeneration, events[1].Step)
}

func TestStream_FinalUnterminatedLine(t *testing.T) {
	t.Parallel()
	s := streamFrom(t,
		"data: {\"step\": \"planning\", \"status\": \"in_progress\"}\n",
		"data: {\"step\": \"complete\", \"status\": \"completed\"}",
	)

	events := collectEvents(t, s)

	require.Len(t, events, 2)
	assert.True(t, events[1].Completed())
}

func TestStream_SkipsMalformedAndForeignLines(t *testing.T) {
	t.Parallel()
	s := streamFrom(t,
		": heartbeat comment\n",
		"event: progress\n",
		"data: {not valid json}\n",
		"\n",
		"data: {\"step\": \"planning\", \"status\": \"in_progress\"}\n",
	)

	events := collectEvents(t, s)

	require.Len(t, events, 1)
	assert.Equal(t, sitesmith.StepPlanning, events[0].Step)
}

func TestStream_HandlesCRLF(t *testing.T) {
	t.Parallel()
	s := streamFrom(t, "data: {\"step\": \"planning\", \"status\": \"in_progress\"}\r\n")

	events := collectEvents(t, s)

	require.Len(t, events, 1)
	assert.Equal(t, sitesmith.StepPlanning, events[0].Step)
}

func TestStream_LargeTerminalRecord(t *testing.T) {
	t.Parallel()
	// A terminal record well past the default bufio.Scanner token limit.
	big := make([]byte, 256*1024)
	for i := range big {
		big[i] = 'a'
	}
	record := fmt.Sprintf(
		"data: {\"step\": \"complete\", \"status\": \"completed\", \"data\": {\"pages\": {\"home\": {\"html\": \"%s\", \"css\": \"\"}}}}\n",
		big,
	)
	s := streamFrom(t, record)

	events := collectEvents(t, s)

	require.Len(t, events, 1)
	require.True(t, events[0].Completed())
	assert.Len(t, events[0].Data.Pages["home"].HTML, len(big))
}

func TestStream_NextAfterClose(t *testing.T) {
	t.Parallel()
	s := streamFrom(t, "data: {\"step\": \"planning\", \"status\": \"in_progress\"}\n")
	require.NoError(t, s.Close())

	_, err := s.Next()
	assert.Equal(t, io.EOF, err)
}
