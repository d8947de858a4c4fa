package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestPrepare_DownscalesLargeImages(t *testing.T) {
	res, err := Prepare("banner.png", pngBytes(t, 40, 20), 10)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if !res.Resized {
		t.Fatal("Resized = false, want true")
	}
	if res.Width != 10 || res.Height != 5 {
		t.Fatalf("size = %dx%d, want 10x5", res.Width, res.Height)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Payload.Content))
	if err != nil {
		t.Fatalf("re-encoded content is not PNG: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 5 {
		t.Fatalf("encoded size = %dx%d, want 10x5", cfg.Width, cfg.Height)
	}
	if res.MIME != "image/png" {
		t.Fatalf("MIME = %q, want image/png", res.MIME)
	}
}

func TestPrepare_SmallImageUntouched(t *testing.T) {
	content := pngBytes(t, 8, 8)
	res, err := Prepare("icon.png", content, 100)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if res.Resized || !bytes.Equal(res.Payload.Content, content) {
		t.Fatal("small image should pass through unchanged")
	}
}

func TestPrepare_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		want    error
	}{
		{"empty", nil, ErrEmpty},
		{"text", []byte("hello, not an image"), ErrNotImage},
		{"too large", bytes.Repeat([]byte{0}, MaxSize+1), ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Prepare("x.png", tc.content, 100)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Prepare error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPrepareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foto kegiatan (1).png")
	if err := os.WriteFile(path, pngBytes(t, 4, 4), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res, err := PrepareFile(path, 0)
	if err != nil {
		t.Fatalf("PrepareFile returned error: %v", err)
	}
	if res.Payload.Name != "foto_kegiatan_1_.png" {
		t.Fatalf("Name = %q, want %q", res.Payload.Name, "foto_kegiatan_1_.png")
	}
}

func TestSafeName(t *testing.T) {
	cases := []struct {
		in, ext, want string
	}{
		{"photo.jpg", ".jpg", "photo.jpg"},
		{"../../etc/passwd", ".png", "passwd.png"},
		{"  ", ".png", "image.png"},
		{"héllo wörld.gif", ".gif", "h_llo_w_rld.gif"},
	}
	for _, tc := range cases {
		if got := SafeName(tc.in, tc.ext); got != tc.want {
			t.Fatalf("SafeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
