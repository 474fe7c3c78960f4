package codec

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aretw0/framecast/pkg/domain"
)

// FromImage converts img to a non-premultiplied RGBA float buffer.
func FromImage(img image.Image) *domain.Buffer {
	b := img.Bounds()
	buf := domain.NewBuffer(domain.Spec{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 4,
		Format:   domain.FormatFloat,
	})

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[off : off+b.Dx()*4]
			out := buf.Pixels[y*b.Dx()*4:]
			for i, v := range row {
				out[i] = float32(v) / 255
			}
		}
		return buf
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			buf.Pixels[i+0] = float32(c.R) / 0xffff
			buf.Pixels[i+1] = float32(c.G) / 0xffff
			buf.Pixels[i+2] = float32(c.B) / 0xffff
			buf.Pixels[i+3] = float32(c.A) / 0xffff
			i += 4
		}
	}
	return buf
}

// ToImage converts buf to an 8-bit NRGBA image. Gray (1), gray+alpha (2),
// RGB (3) and RGBA (4) layouts are supported.
func ToImage(buf *domain.Buffer) (*image.NRGBA, error) {
	if buf == nil {
		return nil, &domain.EncodeError{Err: fmt.Errorf("nil buffer")}
	}
	if err := buf.Check(); err != nil {
		return nil, &domain.EncodeError{Spec: buf.Spec, Err: err}
	}

	spec := buf.Spec
	if spec.Channels > 4 {
		return nil, &domain.EncodeError{Spec: spec, Err: fmt.Errorf("unsupported channel count %d", spec.Channels)}
	}

	quant := Quantize
	if spec.Format == domain.FormatUint8 {
		quant = clampByte
	}

	img := image.NewNRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	n := spec.Width * spec.Height
	for p := 0; p < n; p++ {
		in := buf.Pixels[p*spec.Channels : (p+1)*spec.Channels]
		out := img.Pix[p*4 : p*4+4]
		switch spec.Channels {
		case 1:
			g := quant(in[0])
			out[0], out[1], out[2], out[3] = g, g, g, 255
		case 2:
			g := quant(in[0])
			out[0], out[1], out[2], out[3] = g, g, g, quant(in[1])
		case 3:
			out[0], out[1], out[2], out[3] = quant(in[0]), quant(in[1]), quant(in[2]), 255
		case 4:
			out[0], out[1], out[2], out[3] = quant(in[0]), quant(in[1]), quant(in[2]), quant(in[3])
		}
	}
	return img, nil
}

// Quantize maps a normalized sample to 8 bits, clamping to [0,1] and
// rounding to nearest.
func Quantize(v float32) uint8 {
	return clampByte(v * 255)
}

func clampByte(v float32) uint8 {
	if math.IsNaN(float64(v)) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(float64(v)))
}
