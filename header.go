package qoi

import "encoding/binary"

// Header is the fixed 14-byte preamble of a QOI image.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	ColorSpace ColorSpace
}

// pixels returns the number of pixels described by h.
func (h Header) pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

func (h Header) appendTo(b []byte) []byte {
	b = append(b, magic...)
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	return append(b, byte(h.Channels.Count()), byte(h.ColorSpace))
}

// parseHeader reads the header of a complete encoded image. b must hold the
// whole image, not just the header, so that a missing end marker is caught
// up front.
func parseHeader(b []byte) (Header, error) {
	if len(b) < minLen {
		return Header{}, ErrTooShort
	}
	return parseHeaderBytes(b[:headerLen])
}

func parseHeaderBytes(b []byte) (Header, error) {
	if string(b[:len(magic)]) != magic {
		return Header{}, ErrMagic
	}

	ch, ok := channelsFromCount(b[12])
	if !ok {
		return Header{}, ErrChannels
	}

	return Header{
		Width:      binary.BigEndian.Uint32(b[4:8]),
		Height:     binary.BigEndian.Uint32(b[8:12]),
		Channels:   ch,
		ColorSpace: ColorSpace(b[13]),
	}, nil
}
