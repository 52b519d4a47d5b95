package reading

import "gonum.org/v1/gonum/mat"

// Keypoint is one local feature location detected inside a bounding box,
// mirroring the fields the feature extractor reports per point.
type Keypoint struct {
	X        float64 // column coordinate within the image
	Y        float64 // row coordinate within the image
	Size     float64 // diameter of the meaningful neighbourhood
	Angle    float64 // orientation in degrees, -1 if not applicable
	Response float64 // detector response used for ranking
	Octave   int     // pyramid octave the keypoint was detected in
	ClassID  int     // object id the keypoint belongs to, -1 if unset
}

// BboxFeatures bundles the feature extractor output for one bounding box:
// the descriptor matrix (one row per keypoint), the keypoints themselves,
// and the extractor's index array relating descriptors to keypoints. The
// container does not interpret any of the three.
type BboxFeatures struct {
	Descriptors *mat.Dense
	Keypoints   []Keypoint
	Indices     []int32
}
