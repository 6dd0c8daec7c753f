package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAllowedExt(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		ok   bool
	}{
		{"foto.JPG", ".jpg", true},
		{"foto.jpeg", ".jpeg", true},
		{"foto.png", ".png", true},
		{"foto.webp", ".webp", true},
		{"foto.gif", ".gif", true},
		{"doc.pdf", ".pdf", false},
		{"semextensao", "", false},
	}
	for _, c := range cases {
		ext, ok := AllowedExt(c.name)
		if ok != c.ok || ext != c.ext {
			t.Fatalf("%s: got %q/%v, want %q/%v", c.name, ext, ok, c.ext, c.ok)
		}
	}
}

func TestNormalize_LargeImageFitsBox(t *testing.T) {
	out, err := Normalize(pngBytes(t, 1600, 1200))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalize_PortraitScalesHeight(t *testing.T) {
	out, err := Normalize(pngBytes(t, 1000, 2000))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 800 {
		t.Fatalf("expected 400x800, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalize_SmallImageKeepsSize(t *testing.T) {
	out, err := Normalize(pngBytes(t, 320, 240))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Fatalf("expected 320x240 untouched, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("definitely not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, ew, eh int
	}{
		{800, 800, 800, 800},
		{801, 800, 800, 799},
		{2400, 800, 800, 266},
		{100, 4000, 20, 800},
		{1, 1, 1, 1},
	}
	for _, c := range cases {
		gw, gh := fit(c.w, c.h)
		if gw != c.ew || gh != c.eh {
			t.Fatalf("fit(%d,%d) = %d,%d; want %d,%d", c.w, c.h, gw, gh, c.ew, c.eh)
		}
	}
}
