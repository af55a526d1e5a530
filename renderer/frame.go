package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/grid"
	"github.com/voxray/voxray/tracer"
)

// Frame is one rendered face view, pixels in row-major scan order over
// the face's two transverse axes.
type Frame struct {
	Face    tracer.Face
	W, H    int
	Pix     []r3.Vec
	Samples int
	Elapsed time.Duration
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) r3.Vec {
	return f.Pix[y*f.W+x]
}

// ToImage converts the frame to an 8-bit image, clamping each channel
// from [0,1] to [0,255].
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			c := f.Pix[y*f.W+x]
			img.SetNRGBA(x, y, color.NRGBA{R: quantize(c.X), G: quantize(c.Y), B: quantize(c.Z), A: 255})
		}
	}
	return img
}

// WritePNG encodes the frame to a PNG file.
func (f *Frame) WritePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: creating %s: %w", path, err)
	}
	if err = png.Encode(file, f.ToImage()); err != nil {
		file.Close()
		return fmt.Errorf("renderer: encoding %s: %w", path, err)
	}
	return file.Close()
}

// AlphaSlice flattens one corner plane of an opacity field into a
// grayscale image. axis fixes the lattice axis and index selects the
// corner plane along it.
func AlphaSlice(field *grid.Grid, axis, index int) (*image.Gray, error) {
	if field.Channels != 1 {
		return nil, fmt.Errorf("%w: opacity field carries %d channels", ErrShapeMismatch, field.Channels)
	}
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("%w: slice axis %d", ErrShapeMismatch, axis)
	}
	if index < 0 || index > field.Res[axis] {
		return nil, fmt.Errorf("%w: slice index %d outside [0,%d]", ErrShapeMismatch, index, field.Res[axis])
	}

	u, v := 1, 2
	switch axis {
	case 1:
		u, v = 0, 2
	case 2:
		u, v = 0, 1
	}

	img := image.NewGray(image.Rect(0, 0, field.Res[u]+1, field.Res[v]+1))
	var idx [3]int
	idx[axis] = index
	for y := 0; y <= field.Res[v]; y++ {
		idx[v] = y
		for x := 0; x <= field.Res[u]; x++ {
			idx[u] = x
			img.SetGray(x, y, color.Gray{Y: quantize(field.Corner(idx[0], idx[1], idx[2])[0])})
		}
	}
	return img, nil
}

// WriteGrayPNG encodes a grayscale image to a PNG file.
func WriteGrayPNG(img *image.Gray, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: creating %s: %w", path, err)
	}
	if err = png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("renderer: encoding %s: %w", path, err)
	}
	return file.Close()
}

func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
