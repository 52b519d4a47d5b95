// Package reading owns the canonical in-memory unit passed between
// perception pipeline stages: one camera frame, the pose it was captured at,
// the detector's bounding boxes, and (attached later by the feature
// extractor) per-box keypoints and descriptors.
//
// Two variants implement the Reading interface. SensorReading is the
// concrete container, immutable after construction except for the single
// feature-attachment extension point. Empty is a null-object placeholder:
// every operation fails with ErrEmptyReading, so pipeline code can hold a
// default reading and fail loudly on premature access instead of threading
// nil checks through every stage.
package reading
