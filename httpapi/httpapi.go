// Package httpapi implements [sitesmith.Service] against the generation
// service's HTTP API: a streamed generation endpoint emitting newline-
// delimited "data: "-prefixed JSON records, and a single-shot update
// endpoint.
package httpapi

const (
	defaultBaseURL = "http://localhost:8000"

	generatePath = "/api/generate-website-stream"
	updatePath   = "/api/update-website"

	// recordPrefix marks a protocol record line in the stream.
	recordPrefix = "data: "
)
