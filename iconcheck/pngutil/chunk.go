package pngutil

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Signature is the fixed 8-byte marker that opens every PNG file.
var Signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Chunk types the checker interprets. Everything else is carried
// through ReadChunks untouched and ignored downstream.
const (
	TypeIHDR = "IHDR"
	TypeIDAT = "IDAT"
	TypeTRNS = "tRNS"
	TypeIEND = "IEND"
)

var (
	// ErrBadSignature means the input does not start with the PNG signature.
	ErrBadSignature = errors.New("missing png signature")

	// ErrTruncated means a chunk claims more bytes than the file holds.
	ErrTruncated = errors.New("truncated png")
)

// Chunk is one length-prefixed record of the container. The trailing
// 4-byte CRC is read past but never verified.
type Chunk struct {
	Type string
	Data []byte
}

// ReadChunks walks the chunk sequence in file order and returns every
// chunk up to and including IEND, plus the byte offset at which IEND
// starts (-1 when the file ends without one). Bytes after IEND are
// ignored.
func ReadChunks(data []byte) ([]Chunk, int, error) {
	if !bytes.HasPrefix(data, Signature) {
		return nil, -1, ErrBadSignature
	}

	var chunks []Chunk
	off := len(Signature)
	for off < len(data) {
		if off+8 > len(data) {
			return nil, -1, fmt.Errorf("%w: chunk header at offset %d", ErrTruncated, off)
		}
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		if off+8+length+4 > len(data) {
			return nil, -1, fmt.Errorf("%w: %s chunk at offset %d declares %d data bytes", ErrTruncated, typ, off, length)
		}
		chunks = append(chunks, Chunk{Type: typ, Data: data[off+8 : off+8+length]})
		if typ == TypeIEND {
			return chunks, off, nil
		}
		off += 8 + length + 4
	}
	return chunks, -1, nil
}

// JoinImageData concatenates every IDAT payload in encounter order.
// The format allows a single logical zlib stream to be split across
// any number of IDAT chunks at arbitrary byte boundaries.
func JoinImageData(chunks []Chunk) []byte {
	var joined []byte
	for _, c := range chunks {
		if c.Type == TypeIDAT {
			joined = append(joined, c.Data...)
		}
	}
	return joined
}

// TransparencyTable returns the tRNS payload, one alpha byte per
// palette index, or nil when the chunk is absent.
func TransparencyTable(chunks []Chunk) []byte {
	for _, c := range chunks {
		if c.Type == TypeTRNS {
			return c.Data
		}
	}
	return nil
}
