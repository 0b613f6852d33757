package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/sitesmith/sitesmith"
)

// maxRecordSize bounds a single record line. Terminal records carry the
// full generated site, so the default bufio.Scanner limit is far too
// small.
const maxRecordSize = 16 * 1024 * 1024

// Interface compliance check.
var _ sitesmith.EventStream = (*stream)(nil)

// stream decodes "data: "-framed records from an HTTP response body. A
// record is parsed only once its full line has arrived; the scanner
// buffers any partial trailing line across chunks and surfaces a final
// unterminated line at end of stream.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *zap.Logger
	done    bool
}

func newStream(body io.ReadCloser, logger *zap.Logger) *stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	return &stream{body: body, scanner: sc, logger: logger}
}

// Next returns the next decoded record. Malformed records are logged and
// skipped rather than aborting the stream. Returns io.EOF when the stream
// ends normally.
func (s *stream) Next() (sitesmith.StreamEvent, error) {
	if s.done {
		return sitesmith.StreamEvent{}, io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if line == "" {
			continue
		}
		payload, ok := strings.CutPrefix(line, recordPrefix)
		if !ok {
			// Comments and unknown fields are ignored.
			continue
		}

		var evt sitesmith.StreamEvent
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			s.logger.Warn("skipping malformed stream record",
				zap.Error(err),
				zap.Int("record_bytes", len(payload)))
			continue
		}
		return evt, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return sitesmith.StreamEvent{}, fmt.Errorf("httpapi: read stream: %w", err)
	}
	return sitesmith.StreamEvent{}, io.EOF
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	s.done = true
	return s.body.Close()
}
