package reading

import "fmt"

// Image is a row-major height x width x channels block of 8-bit samples,
// reshaped from the flat buffer the camera driver delivers. The channel
// count is inferred from the buffer length rather than declared, so a
// grayscale and an RGB frame travel through the same type.
type Image struct {
	data     []byte
	height   int
	width    int
	channels int
}

// newImage reshapes a flat buffer into an Image. The division of the buffer
// length by height*width must be exact; anything else means the driver and
// the declared dimensions disagree and the frame is unusable.
func newImage(data []byte, height, width int) (Image, error) {
	if height <= 0 || width <= 0 {
		return Image{}, fmt.Errorf("%w: declared %dx%d", ErrMalformedImageBuffer, height, width)
	}
	pixels := height * width
	if len(data)%pixels != 0 {
		return Image{}, fmt.Errorf("%w: %d bytes for %dx%d frame", ErrMalformedImageBuffer, len(data), height, width)
	}
	return Image{
		data:     data,
		height:   height,
		width:    width,
		channels: len(data) / pixels,
	}, nil
}

// Height returns the number of rows.
func (im Image) Height() int { return im.height }

// Width returns the number of columns.
func (im Image) Width() int { return im.width }

// Channels returns the inferred samples per pixel.
func (im Image) Channels() int { return im.channels }

// At returns the sample at row y, column x, channel c.
func (im Image) At(y, x, c int) byte {
	return im.data[(y*im.width+x)*im.channels+c]
}

// Bytes returns the flat row-major sample buffer. The slice is the
// reading's backing store; callers must not modify it.
func (im Image) Bytes() []byte { return im.data }
