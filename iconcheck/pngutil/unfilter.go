package pngutil

import (
	"errors"
	"fmt"
)

// The five row filter types the format defines.
const (
	FilterNone = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
)

var (
	// ErrUnknownFilter means a row is tagged with a filter type
	// outside 0-4. Reconstruction cannot continue past it.
	ErrUnknownFilter = errors.New("unknown filter type")

	// ErrSizeMismatch means the decompressed stream does not hold
	// exactly one filter byte plus one row of samples per scanline.
	ErrSizeMismatch = errors.New("unexpected decompressed size")
)

// Reconstruct undoes per-row filtering and returns the raster of
// height*width*bpp sample bytes. Each row of raw is one filter-type
// byte followed by width*bpp filtered bytes. Rows are rebuilt top to
// bottom: Sub, Average and Paeth read back into already-reconstructed
// bytes of the same row, while Up, Average and Paeth read the previous
// reconstructed row. The first row sees an all-zero previous row, and
// positions closer than bpp to the row start see zero left and
// upper-left neighbors.
func Reconstruct(raw []byte, width, height, bpp int) ([]byte, error) {
	rowLen := width * bpp
	if len(raw) != height*(1+rowLen) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(raw), height*(1+rowLen))
	}

	out := make([]byte, height*rowLen)
	prev := make([]byte, rowLen) // stays zero for the first row
	pos := 0
	for y := 0; y < height; y++ {
		filterType := raw[pos]
		pos++
		row := out[y*rowLen : (y+1)*rowLen]
		copy(row, raw[pos:pos+rowLen])
		pos += rowLen

		switch filterType {
		case FilterNone:
		case FilterSub:
			for x := bpp; x < rowLen; x++ {
				row[x] += row[x-bpp]
			}
		case FilterUp:
			for x := 0; x < rowLen; x++ {
				row[x] += prev[x]
			}
		case FilterAverage:
			for x := 0; x < rowLen; x++ {
				var left int
				if x >= bpp {
					left = int(row[x-bpp])
				}
				row[x] += byte((left + int(prev[x])) / 2)
			}
		case FilterPaeth:
			for x := 0; x < rowLen; x++ {
				var left, upLeft int
				if x >= bpp {
					left = int(row[x-bpp])
					upLeft = int(prev[x-bpp])
				}
				row[x] += byte(paeth(left, int(prev[x]), upLeft))
			}
		default:
			return nil, fmt.Errorf("%w: %d at row %d", ErrUnknownFilter, filterType, y)
		}
		prev = row
	}
	return out, nil
}

// paeth picks whichever of left (a), up (b) and upper-left (c) is
// closest to a+b-c, preferring a, then b, on ties.
func paeth(a, b, c int) int {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
