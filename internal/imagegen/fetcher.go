package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultFetchTimeout = 20 * time.Second
	defaultMaxBytes     = 20 << 20
)

type FetcherOptions struct {
	Timeout    time.Duration
	MaxBytes   int64
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// HTTPFetcher downloads source images with a single GET. It does not retry.
type HTTPFetcher struct {
	client   *resty.Client
	maxBytes int64
}

func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.
		SetTimeout(timeout).
		SetLogger(newRestyLogger(opts.Logger, "image_fetcher")).
		SetHeader("Accept", "image/*")
	return &HTTPFetcher{client: client, maxBytes: maxBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f == nil {
		return nil, errors.New("imagegen: fetcher not configured")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("imagegen: image url required")
	}
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("imagegen: fetch image: %w", err)
	}
	body := resp.RawBody()
	defer func() {
		_ = body.Close()
	}()
	if !resp.IsSuccess() {
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: string(snippet)}
	}
	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imagegen: read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
