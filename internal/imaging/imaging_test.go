package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error: %v", err)
	}
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxSize       int
		wantW, wantH  int
	}{
		{"already fits", 100, 50, 200, 100, 50},
		{"landscape", 400, 200, 100, 100, 50},
		{"portrait", 200, 400, 100, 50, 100},
		{"square", 300, 300, 150, 150, 150},
		{"no limit", 300, 300, 0, 300, 300},
		{"thin", 1000, 1, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.width, tt.height, tt.maxSize)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Fit(%d, %d, %d) = %dx%d, want %dx%d", tt.width, tt.height, tt.maxSize, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResize(t *testing.T) {
	data := encodePNG(t, testImage(200, 100))

	out, err := Resize(data, 50, 85)
	if err != nil {
		t.Fatalf("Resize() error: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected jpeg output, got %s", format)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 25 {
		t.Errorf("Expected 50x25, got %v", img.Bounds())
	}
}

func TestResize_InvalidData(t *testing.T) {
	if _, err := Resize([]byte("not an image"), 50, 85); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

func TestCrop(t *testing.T) {
	img := testImage(100, 100)

	got := Crop(img, image.Rect(90, 90, 120, 120))
	if got.Bounds() != image.Rect(90, 90, 100, 100) {
		t.Errorf("Expected crop clipped to image bounds, got %v", got.Bounds())
	}
}

func TestToRGBA_NormalizesOrigin(t *testing.T) {
	sub := testImage(100, 100).SubImage(image.Rect(10, 20, 30, 60))

	rgba := ToRGBA(sub)
	if rgba.Bounds() != image.Rect(0, 0, 20, 40) {
		t.Errorf("Expected bounds at origin, got %v", rgba.Bounds())
	}
	if got := rgba.RGBAAt(0, 0); got.R != 10 || got.G != 20 {
		t.Errorf("Expected pixel (10,20) at origin, got %v", got)
	}
}

func TestStillFrame(t *testing.T) {
	frame := NewStillFrame(testImage(64, 48), 90)
	defer frame.Close()

	if frame.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Errorf("Unexpected bounds %v", frame.Bounds())
	}

	crop, err := frame.Crop(image.Rect(8, 8, 24, 32))
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(crop))
	if err != nil {
		t.Fatalf("Failed to decode crop: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 24 {
		t.Errorf("Expected 16x24 crop, got %dx%d", cfg.Width, cfg.Height)
	}

	frame.Annotate(image.Rect(20, 20, 40, 40), "Person_0")
	if got := frame.img.RGBAAt(20, 30); got != overlayColor {
		t.Errorf("Expected box edge at (20,30), got %v", got)
	}
	if got := frame.img.RGBAAt(30, 30); got == overlayColor {
		t.Error("Expected box interior to stay untouched")
	}

	if _, err := frame.JPEG(); err != nil {
		t.Errorf("JPEG() error: %v", err)
	}
}
