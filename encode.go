package qoi

import (
	"image/color"
	"math/bits"
)

// next picks the cheapest chunk that turns s.prev into c. c must differ
// from s.prev; equal pixels belong to a run.
func (s *state) next(c color.NRGBA) chunk {
	if slot, ok := s.contains(c); ok {
		return indexChunk(slot)
	}

	if c.A != s.prev.A {
		return rgbaChunk(c)
	}

	// Deltas wrap around at 8 bits: 255 -> 0 is +1.
	dr := int(int8(c.R - s.prev.R))
	dg := int(int8(c.G - s.prev.G))
	db := int(int8(c.B - s.prev.B))

	if within(dr, -2, 1) && within(dg, -2, 1) && within(db, -2, 1) {
		return diffChunk(dr, dg, db)
	}

	drdg, dbdg := dr-dg, db-dg
	if within(dg, -32, 31) && within(drdg, -8, 7) && within(dbdg, -8, 7) {
		return lumaChunk(dg, drdg, dbdg)
	}

	return rgbChunk(c)
}

func within(v, lo, hi int) bool {
	return lo <= v && v <= hi
}

// pixelAt reads the pixel starting at pix[i]. Three-channel pixels are
// opaque.
func pixelAt(pix []byte, i, n int) color.NRGBA {
	c := color.NRGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: 255}
	if n == 4 {
		c.A = pix[i+3]
	}
	return c
}

// EncodePixels encodes a raw pixel buffer as a QOI image. pix holds
// h.Width*h.Height pixels, row-major, with h.Channels.Count() bytes per
// pixel.
func EncodePixels(h Header, pix []byte) ([]byte, error) {
	return AppendPixels(make([]byte, 0, minLen+len(pix)), h, pix)
}

// AppendPixels is like EncodePixels but appends the encoded image to dst.
func AppendPixels(dst []byte, h Header, pix []byte) ([]byte, error) {
	if h.Channels != RGB && h.Channels != RGBA {
		return dst, ErrChannels
	}

	n := h.Channels.Count()
	if hi, lo := bits.Mul64(h.pixels(), uint64(n)); hi != 0 || lo != uint64(len(pix)) {
		return dst, ErrPixelCount
	}

	dst = h.appendTo(dst)

	s := newState()
	run := 0

	for i := 0; i < len(pix); i += n {
		c := pixelAt(pix, i, n)

		if c == s.prev {
			run++
			if run == maxRun {
				dst = runChunk(run).appendTo(dst)
				run = 0
			}
			continue
		}

		if run > 0 {
			dst = runChunk(run).appendTo(dst)
			run = 0
		}

		dst = s.next(c).appendTo(dst)
		s.update(c)
	}

	if run > 0 {
		dst = runChunk(run).appendTo(dst)
	}

	return append(dst, endMarker...), nil
}
