package reading

import (
	"gonum.org/v1/gonum/mat"

	"github.com/moreo-robotics/perception/internal/perception/msg"
)

// Empty is the null-object variant: a stateless placeholder exposing the
// full Reading interface whose every operation fails with ErrEmptyReading.
// Pipeline stages hold an Empty until the first real reading arrives so
// that premature access fails uniformly instead of dereferencing nil.
type Empty struct{}

var _ Reading = Empty{}

// Image always fails with ErrEmptyReading.
func (Empty) Image() (Image, error) {
	return Image{}, ErrEmptyReading
}

// Position always fails with ErrEmptyReading.
func (Empty) Position() (*mat.VecDense, error) {
	return nil, ErrEmptyReading
}

// Orientation always fails with ErrEmptyReading.
func (Empty) Orientation() (*mat.VecDense, error) {
	return nil, ErrEmptyReading
}

// Bboxes always fails with ErrEmptyReading.
func (Empty) Bboxes() (*mat.Dense, error) {
	return nil, ErrEmptyReading
}

// FeaturesPerBbox always fails with ErrEmptyReading.
func (Empty) FeaturesPerBbox() (map[string]BboxFeatures, error) {
	return nil, ErrEmptyReading
}

// SetFeaturesPerBbox always fails with ErrEmptyReading; there is no state
// to attach features to.
func (Empty) SetFeaturesPerBbox(map[string]BboxFeatures) error {
	return ErrEmptyReading
}

// ImageHeader always fails with ErrEmptyReading.
func (Empty) ImageHeader() (msg.Header, error) {
	return msg.Header{}, ErrEmptyReading
}
