package pngutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrInflate wraps zlib failures on the reassembled IDAT stream.
var ErrInflate = errors.New("inflate failed")

// Inflate decompresses the reassembled IDAT stream into the raw
// filtered scanline bytes.
func Inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInflate, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInflate, err)
	}
	return raw, nil
}
