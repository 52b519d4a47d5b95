// Package ingest builds sensor readings from synchronized camera, odometry,
// and detection inputs and publishes the latest one to downstream stages.
package ingest

import (
	"errors"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/moreo-robotics/perception/internal/monitoring"
	"github.com/moreo-robotics/perception/internal/perception/msg"
	"github.com/moreo-robotics/perception/internal/perception/reading"
	"github.com/moreo-robotics/perception/internal/timeutil"
)

// Frame is one synchronized tuple from the sensor-side collaborators.
type Frame struct {
	Image  msg.Image
	Odom   msg.Odometry
	Bboxes *mat.Dense
}

// Stats tracks ingestion counters for diagnostics.
type Stats struct {
	FramesIn  int64 // tuples offered to the ingestor
	Dropped   int64 // frames rejected for a malformed image buffer
	Published int64 // readings made available to consumers
}

// Config holds Ingestor configuration.
type Config struct {
	// Clock supplies wall time for ingest bookkeeping. Defaults to the real
	// clock.
	Clock timeutil.Clock

	// OnReading, when set, is invoked synchronously for every published
	// reading.
	OnReading func(reading.Reading)
}

// Ingestor constructs one SensorReading per incoming frame tuple and keeps
// the most recent one available to consumers. Until the first good frame
// arrives, Latest returns the empty reading, so downstream code always has
// a usable Reading value and premature access fails with
// reading.ErrEmptyReading rather than a nil dereference.
type Ingestor struct {
	clock     timeutil.Clock
	onReading func(reading.Reading)

	mu             sync.RWMutex
	latest         reading.Reading
	stats          Stats
	lastIngestWall time.Time
}

// NewIngestor creates an Ingestor. The zero Config is valid.
func NewIngestor(cfg Config) *Ingestor {
	clock := cfg.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Ingestor{
		clock:     clock,
		onReading: cfg.OnReading,
		latest:    reading.Empty{},
	}
}

// Ingest builds a reading from one frame tuple and publishes it. A frame
// whose image buffer cannot be reshaped is dropped, counted, and logged;
// the previously published reading stays current.
func (in *Ingestor) Ingest(f Frame) (reading.Reading, error) {
	in.mu.Lock()
	in.stats.FramesIn++
	in.mu.Unlock()

	r, err := reading.New(f.Image, f.Odom, f.Bboxes)
	if err != nil {
		in.mu.Lock()
		in.stats.Dropped++
		in.mu.Unlock()
		if errors.Is(err, reading.ErrMalformedImageBuffer) {
			monitoring.Logf("ingest: dropping frame %q: %v", f.Image.Header.FrameID, err)
		}
		return nil, err
	}

	in.mu.Lock()
	in.latest = r
	in.stats.Published++
	in.lastIngestWall = in.clock.Now()
	in.mu.Unlock()

	if in.onReading != nil {
		in.onReading(r)
	}
	return r, nil
}

// Latest returns the most recently published reading, or the empty reading
// if no frame has been ingested yet.
func (in *Ingestor) Latest() reading.Reading {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.latest
}

// AttachFeatures sets the feature mapping on the latest reading. Before the
// first frame this fails with reading.ErrEmptyReading, which the feature
// extraction stage treats as "nothing to annotate yet".
func (in *Ingestor) AttachFeatures(features map[string]reading.BboxFeatures) error {
	return in.Latest().SetFeaturesPerBbox(features)
}

// Stats returns a snapshot of the ingestion counters.
func (in *Ingestor) Stats() Stats {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.stats
}

// LastIngestWallTime returns the wall-clock time of the last published
// reading, zero if none.
func (in *Ingestor) LastIngestWallTime() time.Time {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.lastIngestWall
}
