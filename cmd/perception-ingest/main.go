// Command perception-ingest runs a synthetic camera/odometry/detector feed
// through the ingestion stage and records reading summaries to SQLite. It
// exists to exercise the pipeline end to end without sensor hardware.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/moreo-robotics/perception/internal/perception/ingest"
	"github.com/moreo-robotics/perception/internal/perception/msg"
	"github.com/moreo-robotics/perception/internal/perception/reading"
	"github.com/moreo-robotics/perception/internal/perception/store"
)

var (
	dbFile      = flag.String("db", "readings.db", "Path to the SQLite database file")
	frameID     = flag.String("frame-id", "camera_link", "Frame id stamped on synthetic images")
	height      = flag.Int("height", 480, "Synthetic image height in pixels")
	width       = flag.Int("width", 640, "Synthetic image width in pixels")
	channels    = flag.Int("channels", 3, "Synthetic image channels")
	frames      = flag.Int("frames", 0, "Number of frames to ingest (0 = run until interrupted)")
	interval    = flag.Duration("interval", 100*time.Millisecond, "Delay between synthetic frames")
	logInterval = flag.Duration("log-interval", 2*time.Second, "Statistics logging interval")
	seed        = flag.Int64("seed", 0, "Random seed for synthetic detections (0 = time-based)")
)

func main() {
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	st, err := store.Open(*dbFile)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	in := ingest.NewIngestor(ingest.Config{
		OnReading: func(r reading.Reading) {
			sum, err := store.Summarize(r)
			if err != nil {
				log.Printf("summarize failed: %v", err)
				return
			}
			if err := st.Insert(sum); err != nil {
				log.Printf("insert failed: %v", err)
			}
		},
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	statsTicker := time.NewTicker(*logInterval)
	defer statsTicker.Stop()

	log.Printf("ingesting synthetic %dx%dx%d frames into %s (seed %d)",
		*height, *width, *channels, *dbFile, *seed)

	frame := 0
	for {
		select {
		case <-stop:
			logStats(in, st)
			return
		case <-statsTicker.C:
			logStats(in, st)
		case <-ticker.C:
			if _, err := in.Ingest(syntheticFrame(rng, frame)); err != nil {
				log.Printf("frame %d rejected: %v", frame, err)
			}
			frame++
			if *frames > 0 && frame >= *frames {
				logStats(in, st)
				return
			}
		}
	}
}

func logStats(in *ingest.Ingestor, st *store.Store) {
	stats := in.Stats()
	stored, err := st.Count()
	if err != nil {
		log.Printf("stats: count failed: %v", err)
		return
	}
	log.Printf("stats: frames=%d dropped=%d published=%d stored=%d",
		stats.FramesIn, stats.Dropped, stats.Published, stored)
}

// syntheticFrame fabricates one frame tuple: a gradient image, a circular
// trajectory pose, and a handful of random detections.
func syntheticFrame(rng *rand.Rand, n int) ingest.Frame {
	now := time.Now()

	data := make([]byte, *height**width**channels)
	for i := range data {
		data[i] = byte((i + n) % 256)
	}

	angle := float64(n) * 0.05
	odom := msg.Odometry{
		Header: msg.Header{Stamp: now, FrameID: "odom"},
		Pose: msg.PoseWithCovariance{
			Pose: msg.Pose{
				Position: msg.Point{
					X: 5 * math.Cos(angle),
					Y: 5 * math.Sin(angle),
					Z: 1.2,
				},
				Orientation: msg.Quaternion{
					Z: math.Sin(angle / 2),
					W: math.Cos(angle / 2),
				},
			},
		},
	}

	nBoxes := 1 + rng.Intn(4)
	boxes := mat.NewDense(nBoxes, 4, nil)
	for i := 0; i < nBoxes; i++ {
		x := rng.Float64() * float64(*width-40)
		y := rng.Float64() * float64(*height-40)
		boxes.SetRow(i, []float64{x, y, x + 20 + rng.Float64()*20, y + 20 + rng.Float64()*20})
	}

	return ingest.Frame{
		Image: msg.Image{
			Header: msg.Header{Stamp: now, FrameID: *frameID},
			Height: *height,
			Width:  *width,
			Data:   data,
		},
		Odom:   odom,
		Bboxes: boxes,
	}
}
