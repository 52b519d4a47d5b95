package reading

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/moreo-robotics/perception/internal/perception/msg"
)

func testOdometry() msg.Odometry {
	return msg.Odometry{
		Header: msg.Header{Stamp: time.Unix(1700000000, 0), FrameID: "odom"},
		Pose: msg.PoseWithCovariance{
			Pose: msg.Pose{
				Position:    msg.Point{X: 1.5, Y: -2.25, Z: 0.75},
				Orientation: msg.Quaternion{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9},
			},
		},
	}
}

func testImage(h, w, c int) msg.Image {
	data := make([]byte, h*w*c)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return msg.Image{
		Header: msg.Header{Stamp: time.Unix(1700000001, 500), FrameID: "camera_link"},
		Height: h,
		Width:  w,
		Data:   data,
	}
}

func TestNewReshapesImage(t *testing.T) {
	t.Parallel()

	t.Run("rgb frame", func(t *testing.T) {
		t.Parallel()
		src := testImage(4, 6, 3)
		r, err := New(src, testOdometry(), nil)
		require.NoError(t, err)

		im, err := r.Image()
		require.NoError(t, err)
		assert.Equal(t, 4, im.Height())
		assert.Equal(t, 6, im.Width())
		assert.Equal(t, 3, im.Channels())
		assert.Equal(t, src.Data, im.Bytes())
	})

	t.Run("grayscale channel inference", func(t *testing.T) {
		t.Parallel()
		r, err := New(testImage(2, 2, 1), testOdometry(), nil)
		require.NoError(t, err)

		im, err := r.Image()
		require.NoError(t, err)
		assert.Equal(t, 2, im.Height())
		assert.Equal(t, 2, im.Width())
		assert.Equal(t, 1, im.Channels())
	})

	t.Run("indexing is row major", func(t *testing.T) {
		t.Parallel()
		src := testImage(3, 5, 2)
		r, err := New(src, testOdometry(), nil)
		require.NoError(t, err)

		im, err := r.Image()
		require.NoError(t, err)
		// sample (y=2, x=4, c=1) sits at flat offset (2*5+4)*2+1
		assert.Equal(t, src.Data[(2*5+4)*2+1], im.At(2, 4, 1))
	})
}

func TestNewMalformedBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		height  int
		width   int
		bufLen  int
		wantErr bool
	}{
		{name: "exact rgb", height: 10, width: 10, bufLen: 300, wantErr: false},
		{name: "one byte short", height: 10, width: 10, bufLen: 299, wantErr: true},
		{name: "one byte over", height: 10, width: 10, bufLen: 301, wantErr: true},
		{name: "zero height", height: 0, width: 10, bufLen: 0, wantErr: true},
		{name: "negative width", height: 10, width: -1, bufLen: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			img := msg.Image{Height: tt.height, Width: tt.width, Data: make([]byte, tt.bufLen)}
			r, err := New(img, testOdometry(), nil)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedImageBuffer)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, r)
		})
	}
}

func TestPoseExtraction(t *testing.T) {
	t.Parallel()

	r, err := New(testImage(2, 2, 3), testOdometry(), nil)
	require.NoError(t, err)

	pos, err := r.Position()
	require.NoError(t, err)
	rows, cols := pos.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 1, cols)
	assert.Equal(t, []float64{1.5, -2.25, 0.75}, pos.RawVector().Data)

	q, err := r.Orientation()
	require.NoError(t, err)
	require.Equal(t, 4, q.Len())
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.9}, q.RawVector().Data)
}

func TestBboxPassThrough(t *testing.T) {
	t.Parallel()

	boxes := mat.NewDense(2, 4, []float64{
		10, 20, 110, 220,
		30, 40, 130, 240,
	})
	r, err := New(testImage(2, 2, 3), testOdometry(), boxes)
	require.NoError(t, err)

	got, err := r.Bboxes()
	require.NoError(t, err)
	// Identity: the exact matrix supplied at construction, unmodified.
	assert.Same(t, boxes, got)

	t.Run("nil bboxes are relayed as-is", func(t *testing.T) {
		t.Parallel()
		r, err := New(testImage(2, 2, 3), testOdometry(), nil)
		require.NoError(t, err)
		got, err := r.Bboxes()
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestImageHeaderForwarded(t *testing.T) {
	t.Parallel()

	src := testImage(2, 3, 1)
	r, err := New(src, testOdometry(), nil)
	require.NoError(t, err)

	hdr, err := r.ImageHeader()
	require.NoError(t, err)
	assert.Equal(t, src.Header, hdr)
}

func TestFeaturesPerBbox(t *testing.T) {
	t.Parallel()

	newFeatures := func(seed float64) map[string]BboxFeatures {
		return map[string]BboxFeatures{
			"0": {
				Descriptors: mat.NewDense(2, 3, []float64{
					seed, seed + 1, seed + 2,
					seed + 3, seed + 4, seed + 5,
				}),
				Keypoints: []Keypoint{
					{X: 12.5, Y: 8.25, Size: 31, Angle: -1, Response: 0.002, Octave: 0, ClassID: -1},
					{X: 40, Y: 17, Size: 31, Angle: 90, Response: 0.004, Octave: 1, ClassID: -1},
				},
				Indices: []int32{0, 1},
			},
		}
	}

	t.Run("empty before first set", func(t *testing.T) {
		t.Parallel()
		r, err := New(testImage(2, 2, 3), testOdometry(), nil)
		require.NoError(t, err)

		feats, err := r.FeaturesPerBbox()
		require.NoError(t, err)
		assert.Empty(t, feats)
	})

	t.Run("set then get returns the same mapping", func(t *testing.T) {
		t.Parallel()
		r, err := New(testImage(2, 2, 3), testOdometry(), nil)
		require.NoError(t, err)

		want := newFeatures(1)
		require.NoError(t, r.SetFeaturesPerBbox(want))

		got, err := r.FeaturesPerBbox()
		require.NoError(t, err)
		require.Len(t, got, 1)
		if diff := cmp.Diff(want["0"].Keypoints, got["0"].Keypoints); diff != "" {
			t.Errorf("keypoints mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, want["0"].Indices, got["0"].Indices)
		assert.True(t, mat.Equal(want["0"].Descriptors, got["0"].Descriptors))
	})

	t.Run("second set replaces, no merge", func(t *testing.T) {
		t.Parallel()
		r, err := New(testImage(2, 2, 3), testOdometry(), nil)
		require.NoError(t, err)

		require.NoError(t, r.SetFeaturesPerBbox(newFeatures(1)))

		replacement := map[string]BboxFeatures{
			"1": {Indices: []int32{3}},
		}
		require.NoError(t, r.SetFeaturesPerBbox(replacement))

		got, err := r.FeaturesPerBbox()
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Contains(t, got, "1")
		assert.NotContains(t, got, "0")
	})
}
