// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// At returns the RGBA texel at (x, y) normalized to [0, 1]. Coordinates are clamped to the image.
//
// Parameters:
//   - x, y: texel coordinates
//
// Returns:
//   - [4]float32: the normalized RGBA color
func (t TextureStagingData) At(x, y int) [4]float32 {
	if t.Width == 0 || t.Height == 0 {
		return [4]float32{}
	}
	x = min(max(x, 0), int(t.Width)-1)
	y = min(max(y, 0), int(t.Height)-1)
	i := (y*int(t.Width) + x) * 4
	return [4]float32{
		float32(t.Pixels[i]) / 255,
		float32(t.Pixels[i+1]) / 255,
		float32(t.Pixels[i+2]) / 255,
		float32(t.Pixels[i+3]) / 255,
	}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// PixelArtSampler returns sampler settings suited to voxel textures: nearest filtering so
// texels stay crisp, and repeat addressing so tiled UVs wrap.
//
// Returns:
//   - SamplerStagingData: nearest-filter sampler settings
func PixelArtSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
}

// TextureSource describes where texture image data comes from. Either Data (encoded image
// bytes) or Path (an image file on disk) must be set. PNG, JPEG, BMP and WebP are supported.
type TextureSource struct {
	// Name is an identifier for this texture (e.g., "diffuse", "normal").
	Name string

	// Path is the file path of the image. Ignored when Data is set.
	Path string

	// Data contains encoded image bytes.
	Data []byte

	// Width and Height, when both non-zero, resize the decoded image with nearest-neighbour
	// sampling. Voxel textures are small and must not be blurred by resampling.
	Width, Height uint32
}

// Decode decodes the texture into RGBA staging data ready for upload.
//
// Returns:
//   - TextureStagingData: the decoded (and optionally resized) RGBA pixels
//   - error: error if the source is empty, unreadable, or not a supported image format
func (t TextureSource) Decode() (TextureStagingData, error) {
	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded image %q: %w", t.Name, err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return TextureStagingData{}, fmt.Errorf("texture %q has neither data nor path", t.Name)
	}

	bounds := img.Bounds()
	dst := bounds
	if t.Width > 0 && t.Height > 0 {
		dst = image.Rect(0, 0, int(t.Width), int(t.Height))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	if dst == bounds {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.NearestNeighbor.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(rgba.Bounds().Dx()),
		Height: uint32(rgba.Bounds().Dy()),
	}, nil
}

// SolidTexture builds a single-colour RGBA texture. Used as the flat normal map
// (0.5, 0.5, 1.0) and as a white fallback when a material has no image.
//
// Parameters:
//   - width, height: texture dimensions in pixels
//   - rgba: the fill colour
//
// Returns:
//   - TextureStagingData: the filled texture
func SolidTexture(width, height uint32, rgba [4]uint8) TextureStagingData {
	pixels := make([]byte, int(width*height)*4)
	for i := 0; i < len(pixels); i += 4 {
		copy(pixels[i:i+4], rgba[:])
	}
	return TextureStagingData{Pixels: pixels, Width: width, Height: height}
}
