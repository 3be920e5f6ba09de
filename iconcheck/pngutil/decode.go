// Package pngutil decodes just enough of the PNG container to answer
// one question per file: does the image hold at least one non-opaque
// pixel? Chunk framing, IDAT reassembly and scanline unfiltering are
// implemented here; the zlib inflate itself is delegated to
// klauspost/compress.
package pngutil

// HasTransparency decodes one PNG asset from its raw bytes and reports
// whether it holds at least one non-opaque pixel.
func HasTransparency(data []byte) (bool, error) {
	chunks, _, err := ReadChunks(data)
	if err != nil {
		return false, err
	}
	header, err := ParseHeader(chunks)
	if err != nil {
		return false, err
	}
	return EvaluateTransparency(chunks, header)
}

// EvaluateTransparency runs the pixel pipeline over an already-parsed
// chunk list. Grayscale, truecolor and grayscale+alpha images report
// false without inflating: only truecolor+alpha and palette images can
// carry the transparency this check looks for.
func EvaluateTransparency(chunks []Chunk, header *Header) (bool, error) {
	bpp := header.BytesPerPixel()
	if bpp == 0 {
		return false, nil
	}

	raw, err := Inflate(JoinImageData(chunks))
	if err != nil {
		return false, err
	}
	raster, err := Reconstruct(raw, int(header.Width), int(header.Height), bpp)
	if err != nil {
		return false, err
	}

	switch header.ColorType {
	case ColorRGBA:
		for i := 3; i < len(raster); i += 4 {
			if raster[i] < 255 {
				return true, nil
			}
		}
		return false, nil
	case ColorPalette:
		return paletteHasTransparency(TransparencyTable(chunks)), nil
	}
	return false, nil
}

// paletteHasTransparency reports whether the palette could produce a
// non-opaque pixel. Absent tRNS, every palette entry is fully opaque.
// Any entry below 255 counts, whether or not a pixel references it.
func paletteHasTransparency(trns []byte) bool {
	for _, alpha := range trns {
		if alpha < 255 {
			return true
		}
	}
	return false
}
