// Package msg defines the plain in-process records exchanged with the
// sensor-side collaborators: the camera driver, the odometry source, and the
// detector. They mirror the shape of the upstream middleware messages so that
// ingestion code can be written against a stable contract, but no marshalling
// or transport lives here.
package msg

import "time"

// Header carries the capture metadata attached to a sensor message. It is
// forwarded through the pipeline verbatim and never reconstructed.
type Header struct {
	Stamp   time.Time // capture time as reported by the sensor
	FrameID string    // coordinate frame the message is expressed in
}

// Image is one camera frame as delivered by the image source: a flat
// row-major byte buffer plus the declared dimensions. The channel count is
// not part of the contract; consumers infer it from the buffer length.
type Image struct {
	Header Header
	Height int
	Width  int
	Data   []byte
}

// Point is a position in 3D space.
type Point struct {
	X, Y, Z float64
}

// Quaternion is an orientation in quaternion form (x, y, z, w ordering).
type Quaternion struct {
	X, Y, Z, W float64
}

// Pose is a position and orientation pair.
type Pose struct {
	Position    Point
	Orientation Quaternion
}

// PoseWithCovariance wraps a pose with its 6x6 row-major covariance. The
// covariance is carried for contract fidelity with the odometry source; the
// perception pipeline does not read it.
type PoseWithCovariance struct {
	Pose       Pose
	Covariance [36]float64
}

// Odometry is a pose estimate from the odometry source. The nested
// Pose.Pose shape matches the upstream message layout.
type Odometry struct {
	Header       Header
	ChildFrameID string
	Pose         PoseWithCovariance
}
