package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	gomath "math"
	"os"

	"heliscene/core"
)

// Heightmap is a single-channel image. Row 0 is the bottom of the source
// image so that v = 0 samples the bottom edge, as GL texture coordinates do.
type Heightmap struct {
	Width  int
	Height int
	Pix    []byte // Width*Height bytes, row-major
}

// NewHeightmap keeps the red channel of img, flipped vertically.
func NewHeightmap(img image.Image) *Heightmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	hm := &Heightmap{Width: w, Height: h, Pix: make([]byte, w*h)}
	for y := 0; y < h; y++ {
		row := h - 1 - y
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			hm.Pix[row*w+x] = byte(r >> 8)
		}
	}
	return hm
}

// DecodeHeightmap decodes a PNG or JPEG image.
func DecodeHeightmap(r io.Reader) (*Heightmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode heightmap: %w", err)
	}
	return NewHeightmap(img), nil
}

// LoadHeightmap reads a heightmap image from disk. Failures are
// *core.AssetLoadFailure.
func LoadHeightmap(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.AssetLoadFailure{Path: path, Err: err}
	}
	defer f.Close()

	hm, err := DecodeHeightmap(f)
	if err != nil {
		return nil, &core.AssetLoadFailure{Path: path, Err: err}
	}
	return hm, nil
}

// FlatHeightmap returns a w x h map filled with level.
func FlatHeightmap(w, h int, level byte) *Heightmap {
	hm := &Heightmap{Width: w, Height: h, Pix: make([]byte, w*h)}
	for i := range hm.Pix {
		hm.Pix[i] = level
	}
	return hm
}

// HillsHeightmap returns a smooth procedural map used until a real one is loaded.
func HillsHeightmap(size int) *Heightmap {
	hm := &Heightmap{Width: size, Height: size, Pix: make([]byte, size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := float64(x) / float64(size)
			v := float64(y) / float64(size)
			h := 0.5 + 0.25*gomath.Sin(2*gomath.Pi*u*2)*gomath.Cos(2*gomath.Pi*v*1.5) +
				0.15*gomath.Sin(2*gomath.Pi*(u+v)*3)
			hm.Pix[y*size+x] = byte(clamp01(float32(h)) * 255)
		}
	}
	return hm
}

// At returns the texel at (x, y) normalised to [0,1], clamped to the edges.
func (h *Heightmap) At(x, y int) float32 {
	if h.Width == 0 || h.Height == 0 {
		return 0
	}
	x = clampInt(x, 0, h.Width-1)
	y = clampInt(y, 0, h.Height-1)
	return float32(h.Pix[y*h.Width+x]) / 255
}

// Sample filters the map bilinearly at texture coordinate (u, v) with
// clamp-to-edge addressing, matching a linear GL sampler.
func (h *Heightmap) Sample(u, v float32) float32 {
	fx := float64(u)*float64(h.Width) - 0.5
	fy := float64(v)*float64(h.Height) - 0.5
	x0, y0 := gomath.Floor(fx), gomath.Floor(fy)
	tx, ty := float32(fx-x0), float32(fy-y0)
	ix, iy := int(x0), int(y0)

	a := lerp(h.At(ix, iy), h.At(ix+1, iy), tx)
	b := lerp(h.At(ix, iy+1), h.At(ix+1, iy+1), tx)
	return lerp(a, b, ty)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
