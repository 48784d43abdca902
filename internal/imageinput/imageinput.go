package imageinput

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"signal-analyzer/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes caps uploads at the inline-data limit of the model APIs.
const MaxImageBytes = 20 << 20

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrImageTooLarge    = errors.New("image exceeds 20MB")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// Extensions accepted by the file picker.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// Load reads an image from disk and validates its media type by content.
func Load(path string) (domain.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return domain.Image{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxImageBytes {
		return domain.Image{}, ErrImageTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("read image: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes builds an Image from raw bytes. The declared type is always the
// sniffed one; file extensions are not trusted.
func FromBytes(name string, data []byte) (domain.Image, error) {
	if len(data) == 0 {
		return domain.Image{}, ErrEmptyImage
	}
	if len(data) > MaxImageBytes {
		return domain.Image{}, ErrImageTooLarge
	}

	detected := mimetype.Detect(data)
	for _, supported := range domain.SupportedImageTypes {
		if detected.Is(supported) {
			return domain.Image{Name: name, MimeType: supported, Data: data}, nil
		}
	}
	return domain.Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, detected.String())
}
