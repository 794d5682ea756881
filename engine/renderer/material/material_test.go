package material

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/common"
)

func pngBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFallsBackToFlatNormal(t *testing.T) {
	m := NewMaterial(
		WithName("stone"),
		WithDiffuseTexture(common.TextureSource{Name: "stone", Data: pngBytes(t, color.RGBA{R: 100, A: 255})}),
	)
	if _, ok := m.NormalSource(); ok {
		t.Fatal("material without a normal map reports one")
	}
	tex, err := m.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tex.Diffuse.Width != 2 || tex.Diffuse.Height != 2 {
		t.Fatalf("diffuse size: got %dx%d", tex.Diffuse.Width, tex.Diffuse.Height)
	}
	if tex.Normal.Width != 1 || !bytes.Equal(tex.Normal.Pixels, FlatNormal[:]) {
		t.Fatalf("normal fallback: got %v", tex.Normal.Pixels)
	}
}

func TestDecodeUsesNormalMapAndCaches(t *testing.T) {
	src := common.TextureSource{Name: "n", Data: pngBytes(t, color.RGBA{R: 10, G: 20, B: 30, A: 255})}
	m := NewMaterial(
		WithDiffuseTexture(common.TextureSource{Data: pngBytes(t, color.RGBA{A: 255})}),
		WithNormalTexture(src),
	)
	first, err := m.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Normal.Pixels[0] != 10 || first.Normal.Pixels[2] != 30 {
		t.Fatalf("normal map texel: got %v", first.Normal.Pixels[:4])
	}
	second, _ := m.Decode()
	if &first.Diffuse.Pixels[0] != &second.Diffuse.Pixels[0] {
		t.Fatal("second Decode did not reuse the cached images")
	}
}

func TestDecodeErrors(t *testing.T) {
	m := NewMaterial(WithName("broken"))
	if _, err := m.Decode(); err == nil {
		t.Fatal("material with no diffuse source: expected an error")
	}
}

func TestProviderLabels(t *testing.T) {
	named := NewMaterial(WithName("grass"))
	if got := named.BindGroupProvider().Label(); got != "material_grass" {
		t.Fatalf("label: got %q, want material_grass", got)
	}
	if NewMaterial().BindGroupProvider() == nil {
		t.Fatal("unnamed material has no provider")
	}
}
