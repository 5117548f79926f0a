// Package qoi implements a lossless encoder and decoder for the QOI image
// format.
//
// The codec works on raw, row-major, channel-interleaved 8-bit pixel buffers
// with 3 (RGB) or 4 (RGBA) channels through EncodePixels and DecodePixels.
// Encode, Decode and DecodeConfig adapt it to the image package.
//
// The QOI specification is at https://qoiformat.org/qoi-specification.pdf.
package qoi

import "fmt"

// ColorSpace is the color space byte of an image. It is not interpreted:
// values other than SRGB and Linear are written by the encoder and returned
// by the decoder unchanged.
type ColorSpace uint8

const (
	SRGB   ColorSpace = iota // sRGB with linear alpha
	Linear                   // all channels linear
)

// Channels represents channels present in an image.
type Channels int

const (
	RGB Channels = iota
	RGBA
)

// Count returns the number of bytes per pixel for c. The zero value of
// Channels maps to an actual channel count.
func (c Channels) Count() int {
	if c == RGB {
		return 3
	}
	return 4
}

func (c Channels) String() string {
	switch c {
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Channels(%d)", int(c))
	}
}

func channelsFromCount(n byte) (Channels, bool) {
	switch n {
	case 3:
		return RGB, true
	case 4:
		return RGBA, true
	default:
		return 0, false
	}
}

const magic = "qoif"

const headerLen = 14

// endMarker is the QOI end-of-stream marker.
const endMarker = "\x00\x00\x00\x00\x00\x00\x00\x01"

// minLen is the size of an encoded image with no chunks.
const minLen = headerLen + len(endMarker)

// A FormatError reports that the input is not a valid QOI image.
type FormatError string

func (e FormatError) Error() string {
	return "qoi: invalid format: " + string(e)
}

// Decoding failures. Compare with errors.Is.
const (
	ErrTooShort     FormatError = "input shorter than header and end marker"
	ErrMagic        FormatError = "not a QOI file"
	ErrChannels     FormatError = "invalid channel count"
	ErrEndMarker    FormatError = "missing end marker"
	ErrTruncated    FormatError = "truncated chunk"
	ErrTooLarge     FormatError = "image dimensions exceed chunk data"
	ErrTrailingData FormatError = "chunk data past last pixel"
	ErrPixelCount   FormatError = "pixel count does not match dimensions"
)
