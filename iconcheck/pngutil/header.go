package pngutil

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ColorType is the color model declared in IHDR.
type ColorType byte

const (
	ColorGray      ColorType = 0
	ColorRGB       ColorType = 2
	ColorPalette   ColorType = 3
	ColorGrayAlpha ColorType = 4
	ColorRGBA      ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case ColorGray:
		return "grayscale"
	case ColorRGB:
		return "truecolor"
	case ColorPalette:
		return "palette"
	case ColorGrayAlpha:
		return "grayscale+alpha"
	case ColorRGBA:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("unknown(%d)", byte(c))
}

// IHDR is always 13 bytes: width, height, bit depth, color type, then
// the compression, filter and interlace bytes, which complete the
// fixed record but are not interpreted here.
const headerSize = 13

var (
	// ErrMissingHeader means the first chunk is absent, is not IHDR,
	// or does not hold a valid fixed-size header record.
	ErrMissingHeader = errors.New("invalid or missing IHDR")

	// ErrUnsupportedBitDepth means a bit depth other than 8. The
	// checker only targets 8-bit icons.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrUnsupportedColorType means a color type outside the five
	// values the format defines.
	ErrUnsupportedColorType = errors.New("unsupported color type")
)

// Header carries the IHDR fields the checker needs.
type Header struct {
	Width     uint32
	Height    uint32
	BitDepth  byte
	ColorType ColorType
}

// ParseHeader decodes IHDR, which must be the first chunk of the file.
func ParseHeader(chunks []Chunk) (*Header, error) {
	if len(chunks) == 0 || chunks[0].Type != TypeIHDR || len(chunks[0].Data) != headerSize {
		return nil, ErrMissingHeader
	}

	d := chunks[0].Data
	h := &Header{
		Width:     binary.BigEndian.Uint32(d[0:4]),
		Height:    binary.BigEndian.Uint32(d[4:8]),
		BitDepth:  d[8],
		ColorType: ColorType(d[9]),
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: zero image dimension %dx%d", ErrMissingHeader, h.Width, h.Height)
	}
	if h.BitDepth != 8 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, h.BitDepth)
	}
	switch h.ColorType {
	case ColorGray, ColorRGB, ColorPalette, ColorGrayAlpha, ColorRGBA:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedColorType, byte(h.ColorType))
	}
	return h, nil
}

// BytesPerPixel returns the sample width for the two color models
// whose pixel data the transparency check reads, and 0 for models
// that cannot make an icon transparent for this check.
func (h *Header) BytesPerPixel() int {
	switch h.ColorType {
	case ColorRGBA:
		return 4
	case ColorPalette:
		return 1
	}
	return 0
}
