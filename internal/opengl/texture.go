package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"heliscene/core"
)

// CreateTexture uploads a single-channel image as an R8 texture. Rows are
// tightly packed, so unpack alignment is dropped to one byte.
func (d *Device) CreateTexture(width, height int, pix []byte) (core.TextureID, error) {
	if width <= 0 || height <= 0 || len(pix) < width*height {
		return 0, &core.ResourceCreationError{
			Resource: "texture",
			Err:      fmt.Errorf("%dx%d needs %d bytes, got %d", width, height, width*height, len(pix)),
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, &core.ResourceCreationError{Resource: "texture", Err: glError()}
	}
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.R8,
		int32(width),
		int32(height),
		0,
		gl.RED,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pix),
	)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	d.textures = append(d.textures, id)
	return core.TextureID(id), nil
}

func (d *Device) DeleteTexture(tex core.TextureID) {
	if tex == 0 {
		return
	}
	for i, id := range d.textures {
		if id == uint32(tex) {
			d.textures = append(d.textures[:i], d.textures[i+1:]...)
			break
		}
	}
	id := uint32(tex)
	gl.DeleteTextures(1, &id)
}

// CreateSampler returns a clamp-to-edge sampler with the given filters.
func (d *Device) CreateSampler(min, mag core.Filter) (core.SamplerID, error) {
	var id uint32
	gl.GenSamplers(1, &id)
	if id == 0 {
		return 0, &core.ResourceCreationError{Resource: "sampler", Err: glError()}
	}
	gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, filter(min))
	gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, filter(mag))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	d.samplers = append(d.samplers, id)
	return core.SamplerID(id), nil
}

// BindTexture binds tex and sampler to unit. Zero values unbind.
func (d *Device) BindTexture(unit uint32, tex core.TextureID, sampler core.SamplerID) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.BindSampler(unit, uint32(sampler))
}

func filter(f core.Filter) int32 {
	if f == core.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}
