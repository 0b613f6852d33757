// Package json persists conversation threads and artifact snapshots so a
// job can be resumed, and its output reloaded, across restarts.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitesmith/sitesmith"
)

// threadEnvelope is the v1 wire format for a persisted thread.
type threadEnvelope struct {
	Version  int                 `json:"version"`
	ThreadID string              `json:"thread_id"`
	Messages []sitesmith.Message `json:"messages"`
}

// artifactEnvelope is the v1 wire format for a persisted artifact.
type artifactEnvelope struct {
	Version  int                `json:"version"`
	Artifact sitesmith.Artifact `json:"artifact"`
}

// MarshalThread serializes a Thread to JSON in v1 envelope format.
func MarshalThread(t sitesmith.Thread) ([]byte, error) {
	env := threadEnvelope{Version: 1, ThreadID: t.ID, Messages: t.Messages}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalThread deserializes a Thread from JSON in v1 envelope format.
func UnmarshalThread(data []byte) (sitesmith.Thread, error) {
	var env threadEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return sitesmith.Thread{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return sitesmith.Thread{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	return sitesmith.Thread{ID: env.ThreadID, Messages: env.Messages}, nil
}

// SaveThread writes a Thread to a JSON file, creating parent directories
// as needed.
func SaveThread(path string, t sitesmith.Thread) error {
	data, err := MarshalThread(t)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeAtomic(path, data)
}

// LoadThread reads a Thread from a JSON file.
func LoadThread(path string) (sitesmith.Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sitesmith.Thread{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalThread(data)
}

// SaveArtifact writes an Artifact snapshot to a JSON file, creating
// parent directories as needed.
func SaveArtifact(path string, a sitesmith.Artifact) error {
	env := artifactEnvelope{Version: 1, Artifact: a}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeAtomic(path, data)
}

// LoadArtifact reads an Artifact snapshot from a JSON file.
func LoadArtifact(path string) (sitesmith.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sitesmith.Artifact{}, fmt.Errorf("read file: %w", err)
	}
	var env artifactEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return sitesmith.Artifact{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return sitesmith.Artifact{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	return env.Artifact, nil
}

// writeAtomic writes via a temp file and rename so readers never observe
// a partial file.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
