package qoi

// apply reconstructs the pixel described by a non-run chunk and records it
// as the previous pixel.
func (s *state) apply(ch chunk) {
	c := s.prev

	switch ch.op {
	case opIndex:
		c = s.lookup(ch.n)
	case opDiff:
		c.R += uint8(ch.d[0])
		c.G += uint8(ch.d[1])
		c.B += uint8(ch.d[2])
	case opLuma:
		dg := ch.d[0]
		c.R += uint8(dg + ch.d[1])
		c.G += uint8(dg)
		c.B += uint8(dg + ch.d[2])
	case opRGB:
		c.R, c.G, c.B = ch.c.R, ch.c.G, ch.c.B
	case opRGBA:
		c = ch.c
	}

	s.update(c)
}

// DecodePixels decodes a complete QOI image. It returns the header and the
// raw pixels, row-major, with h.Channels.Count() bytes per pixel. For
// three-channel images alpha is dropped from the output.
func DecodePixels(data []byte) (Header, []byte, error) {
	h, err := parseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	if string(data[len(data)-len(endMarker):]) != endMarker {
		return Header{}, nil, ErrEndMarker
	}

	stream := data[headerLen : len(data)-len(endMarker)]

	// No chunk yields more than maxRun pixels.
	if h.pixels() > uint64(len(stream))*maxRun {
		return Header{}, nil, ErrTooLarge
	}

	n := h.Channels.Count()
	pix := make([]byte, h.pixels()*uint64(n))

	s := newState()
	p := 0

	for pos := 0; pos < len(stream); {
		ch, size, err := parseChunk(stream[pos:])
		if err != nil {
			return Header{}, nil, err
		}
		pos += size

		count := 1
		if ch.op == opRun {
			count = int(ch.n)
		} else {
			s.apply(ch)
		}

		if p+count*n > len(pix) {
			return Header{}, nil, ErrTrailingData
		}

		for ; count > 0; count-- {
			pix[p] = s.prev.R
			pix[p+1] = s.prev.G
			pix[p+2] = s.prev.B
			if n == 4 {
				pix[p+3] = s.prev.A
			}
			p += n
		}
	}

	if p != len(pix) {
		return Header{}, nil, ErrPixelCount
	}

	return h, pix, nil
}
