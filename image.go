package qoi

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/draw"
)

func init() {
	image.RegisterFormat("qoi", magic, Decode, DecodeConfig)
}

// DecodeConfig returns the color model and dimensions of a QOI image without
// decoding the entire image. The color model is always color.NRGBAModel,
// regardless of QOI header metadata.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var b [headerLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return image.Config{}, err
	}

	h, err := parseHeaderBytes(b[:])
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Decode reads a QOI image from r and returns it as an image.Image. The type of
// Image returned is always image.NRGBA, regardless of QOI header metadata.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("qoi: reading data: %w", err)
	}

	h, pix, err := DecodePixels(data)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(h.Width), int(h.Height)))
	if h.Channels == RGBA {
		copy(img.Pix, pix)
		return img, nil
	}

	for i, j := 0, 0; i < len(pix); i, j = i+3, j+4 {
		img.Pix[j] = pix[i]
		img.Pix[j+1] = pix[i+1]
		img.Pix[j+2] = pix[i+2]
		img.Pix[j+3] = 255
	}

	return img, nil
}

// Encode writes the Image m to w in QOI format. Any Image may be encoded, but
// images that are not image.NRGBA might be encoded lossily.
func Encode(w io.Writer, m image.Image) error {
	var e Encoder
	return e.Encode(w, m)
}

// encoder holds the scratch buffers of one Encode call.
type encoder struct {
	img *image.NRGBA
	pix []byte
	out []byte
}

// nrgba returns the pixels of m as tightly packed NRGBA bytes, converting
// through e.img when needed.
func (e *encoder) nrgba(m image.Image) []byte {
	b := m.Bounds()
	if n, ok := m.(*image.NRGBA); ok && n.Stride == 4*b.Dx() {
		return n.Pix[:4*b.Dx()*b.Dy()]
	}

	r := image.Rect(0, 0, b.Dx(), b.Dy())
	if e.img == nil || cap(e.img.Pix) < 4*b.Dx()*b.Dy() {
		e.img = image.NewNRGBA(r)
	} else {
		e.img.Pix = e.img.Pix[:4*b.Dx()*b.Dy()]
		e.img.Stride = 4 * b.Dx()
		e.img.Rect = r
	}

	draw.Draw(e.img, r, m, b.Min, draw.Src)
	return e.img.Pix
}

// pixels fills e.pix with the raw pixels of m.
func (e *encoder) pixels(m image.Image, ch Channels) []byte {
	src := e.nrgba(m)
	if ch == RGBA {
		return src
	}

	e.pix = e.pix[:0]
	for i := 0; i < len(src); i += 4 {
		e.pix = append(e.pix, src[i], src[i+1], src[i+2])
	}
	return e.pix
}

// Encoder configures encoding QOI images.
type Encoder struct {
	Channels   Channels
	ColorSpace ColorSpace

	// BufferPool optionally specifies a buffer pool to get temporary
	// EncoderBuffers when encoding an image.
	BufferPool EncoderBufferPool
}

// Encode writes the Image m to w in QOI format. With Channels set to RGB the
// alpha channel of m is discarded.
func (enc *Encoder) Encode(w io.Writer, m image.Image) error {
	mw, mh := int64(m.Bounds().Dx()), int64(m.Bounds().Dy())
	if mw <= 0 || mh <= 0 || mw >= 1<<32 || mh >= 1<<32 {
		return FormatError(fmt.Sprintf("invalid image size: %dx%d", mw, mh))
	}

	var e *encoder
	if enc.BufferPool != nil {
		buffer := enc.BufferPool.Get()
		e = (*encoder)(buffer)
	}
	if e == nil {
		e = &encoder{}
	}
	if enc.BufferPool != nil {
		defer enc.BufferPool.Put((*EncoderBuffer)(e))
	}

	h := Header{
		Width:      uint32(mw),
		Height:     uint32(mh),
		Channels:   enc.Channels,
		ColorSpace: enc.ColorSpace,
	}
	if h.Channels != RGB {
		h.Channels = RGBA
	}

	out, err := AppendPixels(e.out[:0], h, e.pixels(m, h.Channels))
	e.out = out
	if err != nil {
		return err
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("qoi: writing image: %w", err)
	}
	return nil
}

// EncoderBufferPool is an interface for getting and returning temporary
// instances of the EncoderBuffer struct. This can be used to reuse buffers when
// encoding multiple images.
type EncoderBufferPool interface {
	Get() *EncoderBuffer
	Put(*EncoderBuffer)
}

// EncoderBuffer holds the buffers used for encoding QOI images.
type EncoderBuffer encoder
