package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-image-1"
	defaultOpenAISize    = "1024x1024"
	defaultEditTimeout   = 120 * time.Second
)

type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Size       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// OpenAIClient calls the images/edits endpoint with a multipart body of
// image, mask and prompt.
type OpenAIClient struct {
	client *resty.Client
	token  string
	model  string
	size   string
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultEditTimeout
	}
	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.
		SetBaseURL(base).
		SetTimeout(timeout).
		SetLogger(newRestyLogger(opts.Logger, "openai_images"))
	return &OpenAIClient{
		client: client,
		token:  strings.TrimSpace(opts.APIKey),
		model:  coalesce(opts.Model, defaultOpenAIModel),
		size:   coalesce(opts.Size, defaultOpenAISize),
	}
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Edit uploads the image and mask and returns data[0].b64_json. A non-2xx
// response yields a *StatusError carrying the upstream body verbatim.
func (c *OpenAIClient) Edit(ctx context.Context, req EditRequest) (string, error) {
	if c == nil {
		return "", errors.New("openai client not configured")
	}
	if c.token == "" {
		return "", ErrMissingAPIKey
	}
	if len(req.Image.Data) == 0 {
		return "", errors.New("imagegen: image data required")
	}
	if len(req.Mask.Data) == 0 {
		return "", errors.New("imagegen: mask data required")
	}
	image := withDefaults(req.Image, "image.png")
	mask := withDefaults(req.Mask, "mask.png")

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetHeader("Accept", "application/json").
		SetMultipartField("image", image.Name, image.MIMEType, bytes.NewReader(image.Data)).
		SetMultipartField("mask", mask.Name, mask.MIMEType, bytes.NewReader(mask.Data)).
		SetMultipartFormData(map[string]string{
			"model":  c.model,
			"prompt": req.Prompt,
			"size":   c.size,
		}).
		Post("/images/edits")
	if err != nil {
		return "", fmt.Errorf("openai: request: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	var out openAIImageResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoImageData, err)
	}
	if len(out.Data) == 0 || strings.TrimSpace(out.Data[0].B64JSON) == "" {
		return "", ErrNoImageData
	}
	return out.Data[0].B64JSON, nil
}

var _ Editor = (*OpenAIClient)(nil)

func withDefaults(img SourceImage, name string) SourceImage {
	if img.Name == "" {
		img.Name = name
	}
	if img.MIMEType == "" {
		img.MIMEType = "image/png"
	}
	return img
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
