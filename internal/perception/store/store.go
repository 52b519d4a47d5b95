// Package store persists per-reading summary rows to SQLite so that
// downstream tooling can inspect what the pipeline ingested. Pixel data and
// descriptors stay in memory; only metadata and bounding boxes are stored.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/moreo-robotics/perception/internal/perception/reading"
)

// Summary is one persisted row describing a reading: identity, capture
// metadata, image dimensions, the raw bounding boxes, and feature counts.
type Summary struct {
	ReadingID     string          `json:"reading_id"`
	FrameID       string          `json:"frame_id"`
	StampUnixNano int64           `json:"stamp_unix_nano"`
	Height        int             `json:"height"`
	Width         int             `json:"width"`
	Channels      int             `json:"channels"`
	BboxCount     int             `json:"bbox_count"`
	BboxesJSON    json.RawMessage `json:"bboxes_json,omitempty"`
	FeatureBboxes int             `json:"feature_bboxes"`
	KeypointCount int             `json:"keypoint_count"`
	CreatedAt     int64           `json:"created_at"`
}

// Summarize derives a Summary from a reading via its accessor contract.
// Summarizing the empty reading fails with reading.ErrEmptyReading, which
// callers treat as "nothing to record yet".
func Summarize(r reading.Reading) (*Summary, error) {
	im, err := r.Image()
	if err != nil {
		return nil, err
	}
	hdr, err := r.ImageHeader()
	if err != nil {
		return nil, err
	}
	boxes, err := r.Bboxes()
	if err != nil {
		return nil, err
	}
	feats, err := r.FeaturesPerBbox()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		FrameID:       hdr.FrameID,
		StampUnixNano: hdr.Stamp.UnixNano(),
		Height:        im.Height(),
		Width:         im.Width(),
		Channels:      im.Channels(),
	}

	if boxes != nil {
		rows, cols := boxes.Dims()
		sum.BboxCount = rows
		grid := make([][]float64, rows)
		for i := 0; i < rows; i++ {
			grid[i] = make([]float64, cols)
			for j := 0; j < cols; j++ {
				grid[i][j] = boxes.At(i, j)
			}
		}
		raw, err := json.Marshal(grid)
		if err != nil {
			return nil, fmt.Errorf("marshalling bboxes: %w", err)
		}
		sum.BboxesJSON = raw
	}

	sum.FeatureBboxes = len(feats)
	for _, f := range feats {
		sum.KeypointCount += len(f.Keypoints)
	}
	return sum, nil
}

// Store provides SQLite persistence for reading summaries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// applies pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening reading store: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists a summary row. A missing ReadingID gets a generated UUID;
// a missing CreatedAt gets the current time.
func (s *Store) Insert(sum *Summary) error {
	if sum.ReadingID == "" {
		sum.ReadingID = uuid.New().String()
	}
	if sum.CreatedAt == 0 {
		sum.CreatedAt = time.Now().UnixNano()
	}

	var bboxesStr interface{}
	if len(sum.BboxesJSON) > 0 {
		bboxesStr = string(sum.BboxesJSON)
	}

	err := retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO readings (
				reading_id, frame_id, stamp_ns, height, width, channels,
				bbox_count, bboxes_json, feature_bboxes, keypoint_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sum.ReadingID, sum.FrameID, sum.StampUnixNano, sum.Height, sum.Width, sum.Channels,
			sum.BboxCount, bboxesStr, sum.FeatureBboxes, sum.KeypointCount, sum.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting reading %s: %w", sum.ReadingID, err)
	}
	return nil
}

// Get returns the summary with the given reading id, or sql.ErrNoRows.
func (s *Store) Get(readingID string) (*Summary, error) {
	row := s.db.QueryRow(`
		SELECT reading_id, frame_id, stamp_ns, height, width, channels,
		       bbox_count, bboxes_json, feature_bboxes, keypoint_count, created_at
		FROM readings
		WHERE reading_id = ?`, readingID)
	return scanSummary(row)
}

// ListByFrame returns all summaries recorded for a frame id, most recent
// capture first.
func (s *Store) ListByFrame(frameID string) ([]*Summary, error) {
	rows, err := s.db.Query(`
		SELECT reading_id, frame_id, stamp_ns, height, width, channels,
		       bbox_count, bboxes_json, feature_bboxes, keypoint_count, created_at
		FROM readings
		WHERE frame_id = ?
		ORDER BY stamp_ns DESC`, frameID)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var sums []*Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

// Count returns the total number of stored summaries.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return n, nil
}

// scanner abstracts sql.Row and sql.Rows for scanSummary.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row scanner) (*Summary, error) {
	var sum Summary
	var bboxes sql.NullString
	err := row.Scan(
		&sum.ReadingID, &sum.FrameID, &sum.StampUnixNano,
		&sum.Height, &sum.Width, &sum.Channels,
		&sum.BboxCount, &bboxes, &sum.FeatureBboxes, &sum.KeypointCount, &sum.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bboxes.Valid {
		sum.BboxesJSON = json.RawMessage(bboxes.String)
	}
	return &sum, nil
}
