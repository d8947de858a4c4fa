// Package upload prepares gallery images before they are sent: size limit,
// MIME sniffing and downscaling of oversized pictures.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/arisanku/arisan-admin/internal/api"
)

// MaxSize is the largest file accepted, in bytes.
const MaxSize = 5 << 20

var (
	ErrTooLarge = errors.New("file exceeds 5 MiB")
	ErrNotImage = errors.New("file is not an image")
	ErrEmpty    = errors.New("file is empty")
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// Result describes what Prepare did to a file.
type Result struct {
	Payload  api.UploadPayload
	MIME     string
	Width    int
	Height   int
	Resized  bool
	Original int
}

// PrepareFile reads path and hands it to Prepare.
func PrepareFile(path string, maxDimension int) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxSize {
		return Result{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrTooLarge)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Prepare(filepath.Base(path), content, maxDimension)
}

// Prepare validates content and, when either side exceeds maxDimension,
// scales it down to fit and re-encodes it in its original format. Formats
// the encoder does not support are passed through unchanged. A non-positive
// maxDimension disables resizing.
func Prepare(name string, content []byte, maxDimension int) (Result, error) {
	if len(content) == 0 {
		return Result{}, ErrEmpty
	}
	if len(content) > MaxSize {
		return Result{}, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}

	mime := mimetype.Detect(content)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Result{}, fmt.Errorf("%s (%s): %w", name, mime.String(), ErrNotImage)
	}

	res := Result{
		Payload:  api.UploadPayload{Name: SafeName(name, mime.Extension()), Content: content},
		MIME:     mime.String(),
		Original: len(content),
	}

	format, encodable := encoderFormat(mime)
	if !encodable {
		return res, nil
	}

	img, err := imaging.Decode(bytes.NewReader(content), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", name, err)
	}
	bounds := img.Bounds()
	res.Width, res.Height = bounds.Dx(), bounds.Dy()

	if maxDimension <= 0 || (res.Width <= maxDimension && res.Height <= maxDimension) {
		return res, nil
	}

	resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	out, err := encode(resized, format)
	if err != nil {
		return Result{}, fmt.Errorf("encode %s: %w", name, err)
	}

	b := resized.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()
	res.Payload.Content = out
	res.Resized = true
	return res, nil
}

func encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	opts := []imaging.EncodeOption{}
	if format == imaging.JPEG {
		opts = append(opts, imaging.JPEGQuality(85))
	}
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encoderFormat(mime *mimetype.MIME) (imaging.Format, bool) {
	switch {
	case mime.Is("image/jpeg"):
		return imaging.JPEG, true
	case mime.Is("image/png"):
		return imaging.PNG, true
	case mime.Is("image/gif"):
		return imaging.GIF, true
	case mime.Is("image/bmp"):
		return imaging.BMP, true
	case mime.Is("image/tiff"):
		return imaging.TIFF, true
	default:
		return 0, false
	}
}

// SafeName replaces anything outside [A-Za-z0-9._-] with underscores and
// makes sure the name carries ext when it has no extension of its own.
func SafeName(name, ext string) string {
	safe := unsafeName.ReplaceAllString(strings.TrimSpace(filepath.Base(name)), "_")
	safe = strings.Trim(safe, "_")
	if safe == "" || safe == "." {
		safe = "image"
	}
	if filepath.Ext(safe) == "" {
		safe += ext
	}
	return safe
}
