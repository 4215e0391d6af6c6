package ocr

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ErrEmptyImage is returned for a zero-length image file or upload.
var ErrEmptyImage = errors.New("empty image")

// LoadImage reads an image file and checks it with CheckImage.
func LoadImage(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("image too large: %d bytes exceeds %d", info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if _, err := CheckImage(data, maxBytes); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// CheckImage validates size and sniffed content type and returns the type.
func CheckImage(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("image too large: %d bytes exceeds %d", len(data), maxBytes)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	return contentType, nil
}
