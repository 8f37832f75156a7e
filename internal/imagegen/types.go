package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// SourceImage is one binary part of an edit request.
type SourceImage struct {
	Data     []byte
	MIMEType string
	Name     string
}

// EditRequest pairs a source image with its mask and the edit instruction.
type EditRequest struct {
	Image  SourceImage
	Mask   SourceImage
	Prompt string
}

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Editor submits an edit to an image model and returns the base64 payload
// of the first generated image.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (string, error)
}

var (
	ErrMissingAPIKey = errors.New("imagegen: API key is missing")
	ErrNoImageData   = errors.New("imagegen: no image data returned")
	ErrImageTooLarge = errors.New("imagegen: image exceeds size limit")
)

// StatusError reports a non-success HTTP response. Body holds the raw
// response text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("imagegen: http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// DetectImage fills in MIME type and a file name for raw image bytes.
func DetectImage(data []byte, base string) SourceImage {
	mimeType := http.DetectContentType(data)
	ext := ".png"
	switch mimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	case "image/png":
	default:
		mimeType = "image/png"
	}
	return SourceImage{Data: data, MIMEType: mimeType, Name: base + ext}
}
