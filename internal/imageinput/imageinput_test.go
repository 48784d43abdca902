package imageinput

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"signal-analyzer/internal/domain"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytesDetectsSupportedTypes(t *testing.T) {
	webp := append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"chart.png", testPNG(t), domain.MimePNG},
		{"chart.jpg", testJPEG(t), domain.MimeJPEG},
		{"chart.webp", webp, domain.MimeWEBP},
	}
	for _, tc := range cases {
		img, err := FromBytes(tc.name, tc.data)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if img.MimeType != tc.want || img.Name != tc.name {
			t.Fatalf("%s: unexpected image %+v", tc.name, img)
		}
	}
}

func TestFromBytesIgnoresMisleadingName(t *testing.T) {
	img, err := FromBytes("chart.webp", testPNG(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.MimeType != domain.MimePNG {
		t.Fatalf("expected sniffed png, got %s", img.MimeType)
	}
}

func TestFromBytesRejectsUnsupported(t *testing.T) {
	_, err := FromBytes("notes.txt", []byte("hello, this is plain text"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
	if _, err := FromBytes("empty.png", nil); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eurusd.png")
	if err := os.WriteFile(path, testPNG(t), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Name != "eurusd.png" || img.MimeType != domain.MimePNG || len(img.Data) == 0 {
		t.Fatalf("unexpected image: %+v", img)
	}
}

func TestLoadMissingAndDirectory(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}
