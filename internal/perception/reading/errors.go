package reading

import "errors"

// ErrEmptyReading is returned by every operation on the Empty variant.
// Callers should treat it as "no data yet" and skip or retry.
var ErrEmptyReading = errors.New("trying to access an empty reading")

// ErrMalformedImageBuffer is returned at construction time when the image
// buffer length is not an exact multiple of height*width. The frame cannot
// be reshaped and should be dropped by the ingestion stage.
var ErrMalformedImageBuffer = errors.New("image buffer length does not match declared dimensions")
