// Package store persists transcript records as one JSON file per video ID.
//
// Records are immutable once written: a re-run with the same ID reads the
// cached record; deleting the file causes the next run to replace it
// wholesale. Concurrent invocations against the same ID are not guarded.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Record is the persisted transcript document for one video.
type Record struct {
	VideoID    string `json:"video_id"`
	VideoTitle string `json:"video_title"`
	Transcript string `json:"transcript"`
}

// Store reads and writes transcript records under a single directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the record path for a video ID.
func (s *Store) Path(videoID string) string {
	return filepath.Join(s.dir, videoID+".json")
}

// Lookup returns the cached record for videoID.
// The second return value is false when no record exists.
// A record that exists but cannot be parsed returns ErrCorruptRecord:
// corruption must surface rather than silently trigger a re-transcription.
func (s *Store) Lookup(videoID string) (Record, bool, error) {
	data, err := os.ReadFile(s.Path(videoID)) // #nosec G304 -- path is derived from the validated video ID
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("cannot read transcript record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, s.Path(videoID), err)
	}

	return rec, true, nil
}

// Save writes the record as indented UTF-8 JSON, overwriting any existing
// file for the same video ID.
func (s *Store) Save(rec Record) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil { // #nosec G301 -- user cache dir
		return fmt.Errorf("cannot create transcript directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode transcript record: %w", err)
	}

	// #nosec G306 -- cached transcript with standard permissions
	if err := os.WriteFile(s.Path(rec.VideoID), data, 0644); err != nil {
		return fmt.Errorf("cannot write transcript record: %w", err)
	}

	return nil
}
