package qoi

import "image/color"

// Start-of-chunk tag constant.
const (
	opIndex = 0b0000_0000
	opDiff  = 0b0100_0000
	opLuma  = 0b1000_0000
	opRun   = 0b1100_0000
	opRGB   = 0b1111_1110
	opRGBA  = 0b1111_1111

	// Mask for two-bit tags.
	opMask2 = 0b1100_0000
)

// maxRun is the longest run a single chunk can hold. Run lengths 63 and 64
// would collide with opRGB and opRGBA.
const maxRun = 62

// chunk is one decoded or to-be-encoded unit of the chunk stream. The op
// field selects which of the other fields are meaningful.
type chunk struct {
	op byte

	// n is the repeat count (1..62) of a run, or the slot of an index.
	n uint8

	// d holds dr, dg, db for a diff (each in [-2,1]) and dg, dr-dg, db-dg
	// for a luma ([-32,31], [-8,7], [-8,7]).
	d [3]int8

	// c is the new pixel of an RGB or RGBA chunk. For RGB the alpha is
	// ignored.
	c color.NRGBA
}

func runChunk(n int) chunk { return chunk{op: opRun, n: uint8(n)} }

func indexChunk(slot uint8) chunk { return chunk{op: opIndex, n: slot} }

func diffChunk(dr, dg, db int) chunk {
	return chunk{op: opDiff, d: [3]int8{int8(dr), int8(dg), int8(db)}}
}

func lumaChunk(dg, drdg, dbdg int) chunk {
	return chunk{op: opLuma, d: [3]int8{int8(dg), int8(drdg), int8(dbdg)}}
}

func rgbChunk(c color.NRGBA) chunk { return chunk{op: opRGB, c: c} }

func rgbaChunk(c color.NRGBA) chunk { return chunk{op: opRGBA, c: c} }

// size returns the number of bytes c occupies in the stream.
func (c chunk) size() int {
	switch c.op {
	case opLuma:
		return 2
	case opRGB:
		return 4
	case opRGBA:
		return 5
	default:
		return 1
	}
}

// appendTo appends the wire form of c to b.
func (c chunk) appendTo(b []byte) []byte {
	switch c.op {
	case opIndex:
		return append(b, opIndex|c.n&^opMask2)
	case opDiff:
		return append(b, opDiff|
			byte(c.d[0]+2)<<4|
			byte(c.d[1]+2)<<2|
			byte(c.d[2]+2))
	case opLuma:
		return append(b,
			opLuma|byte(c.d[0]+32),
			byte(c.d[1]+8)<<4|byte(c.d[2]+8))
	case opRun:
		return append(b, opRun|(c.n-1))
	case opRGB:
		return append(b, opRGB, c.c.R, c.c.G, c.c.B)
	default:
		return append(b, opRGBA, c.c.R, c.c.G, c.c.B, c.c.A)
	}
}

// parseChunk reads the chunk at the start of b, which must not extend past
// the end of the chunk stream. It returns the chunk and its length in bytes.
func parseChunk(b []byte) (chunk, int, error) {
	t := b[0]

	var c chunk
	switch {
	case t == opRGBA:
		if len(b) < 5 {
			return chunk{}, 0, ErrTruncated
		}
		c = rgbaChunk(color.NRGBA{R: b[1], G: b[2], B: b[3], A: b[4]})
	case t == opRGB:
		if len(b) < 4 {
			return chunk{}, 0, ErrTruncated
		}
		c = rgbChunk(color.NRGBA{R: b[1], G: b[2], B: b[3]})
	case t&opMask2 == opRun:
		c = runChunk(int(t&^opMask2) + 1)
	case t&opMask2 == opLuma:
		if len(b) < 2 {
			return chunk{}, 0, ErrTruncated
		}
		c = lumaChunk(
			int(t&^opMask2)-32,
			int(b[1]>>4)-8,
			int(b[1]&0xf)-8)
	case t&opMask2 == opDiff:
		c = diffChunk(
			int(t>>4&0x3)-2,
			int(t>>2&0x3)-2,
			int(t&0x3)-2)
	default:
		c = indexChunk(t)
	}

	return c, c.size(), nil
}
