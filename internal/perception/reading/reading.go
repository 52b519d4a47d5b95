package reading

import (
	"gonum.org/v1/gonum/mat"

	"github.com/moreo-robotics/perception/internal/perception/msg"
)

// Reading is the accessor contract shared by the empty and concrete
// variants. All getters are pure reads. The container provides no
// synchronization: the single SetFeaturesPerBbox call must happen-before
// any concurrent FeaturesPerBbox read, which is the caller's obligation.
type Reading interface {
	// Image returns the reshaped camera frame.
	Image() (Image, error)

	// Position returns the sensor position as a 3-element column vector
	// (x, y, z).
	Position() (*mat.VecDense, error)

	// Orientation returns the sensor orientation as a 4-element vector of
	// quaternion components (x, y, z, w).
	Orientation() (*mat.VecDense, error)

	// Bboxes returns the detector's bounding boxes exactly as supplied at
	// construction. Column semantics belong to the detector.
	Bboxes() (*mat.Dense, error)

	// FeaturesPerBbox returns the current feature mapping, empty until
	// SetFeaturesPerBbox is called.
	FeaturesPerBbox() (map[string]BboxFeatures, error)

	// SetFeaturesPerBbox replaces the entire feature mapping. No merge, no
	// key validation; repeated calls overwrite.
	SetFeaturesPerBbox(features map[string]BboxFeatures) error

	// ImageHeader returns the capture metadata forwarded from the image
	// source.
	ImageHeader() (msg.Header, error)
}

// SensorReading is the concrete variant: one frame's worth of perception
// data, built once by the ingestion stage. Everything except the feature
// mapping is immutable after construction.
type SensorReading struct {
	header      msg.Header
	image       Image
	position    *mat.VecDense
	orientation *mat.VecDense
	bboxes      *mat.Dense
	features    map[string]BboxFeatures
}

var _ Reading = (*SensorReading)(nil)

// New builds a SensorReading from one synchronized image, odometry, and
// detection tuple. The image buffer is reshaped using the declared
// dimensions; a buffer whose length is not an exact multiple of
// height*width fails with ErrMalformedImageBuffer. The pose is split into
// position and orientation vectors. Bounding boxes and header pass through
// unvalidated; the container is a relay, not a validator.
func New(img msg.Image, odom msg.Odometry, bboxes *mat.Dense) (*SensorReading, error) {
	im, err := newImage(img.Data, img.Height, img.Width)
	if err != nil {
		return nil, err
	}
	pose := odom.Pose.Pose
	return &SensorReading{
		header: img.Header,
		image:  im,
		position: mat.NewVecDense(3, []float64{
			pose.Position.X,
			pose.Position.Y,
			pose.Position.Z,
		}),
		orientation: mat.NewVecDense(4, []float64{
			pose.Orientation.X,
			pose.Orientation.Y,
			pose.Orientation.Z,
			pose.Orientation.W,
		}),
		bboxes:   bboxes,
		features: map[string]BboxFeatures{},
	}, nil
}

// Image returns the reshaped camera frame.
func (r *SensorReading) Image() (Image, error) {
	return r.image, nil
}

// Position returns the 3-element position column vector.
func (r *SensorReading) Position() (*mat.VecDense, error) {
	return r.position, nil
}

// Orientation returns the 4-element quaternion vector.
func (r *SensorReading) Orientation() (*mat.VecDense, error) {
	return r.orientation, nil
}

// Bboxes returns the bounding boxes passed at construction.
func (r *SensorReading) Bboxes() (*mat.Dense, error) {
	return r.bboxes, nil
}

// FeaturesPerBbox returns the current feature mapping.
func (r *SensorReading) FeaturesPerBbox() (map[string]BboxFeatures, error) {
	return r.features, nil
}

// SetFeaturesPerBbox replaces the feature mapping wholesale. Keys are
// assumed, not verified, to correspond to bounding-box entries.
func (r *SensorReading) SetFeaturesPerBbox(features map[string]BboxFeatures) error {
	r.features = features
	return nil
}

// ImageHeader returns the header copied from the source image message.
func (r *SensorReading) ImageHeader() (msg.Header, error) {
	return r.header, nil
}
