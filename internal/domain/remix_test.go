package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRemixRequestDefaultsMaskType(t *testing.T) {
	cases := []struct {
		name string
		body string
		want MaskType
	}{
		{name: "omitted", body: `{"image_url":"https://x/a.png","prompt":"p"}`, want: MaskSurface},
		{name: "null", body: `{"image_url":"https://x/a.png","prompt":"p","mask_type":null}`, want: MaskSurface},
		{name: "explicit", body: `{"image_url":"https://x/a.png","prompt":"p","mask_type":"logo_text"}`, want: MaskLogoText},
		{name: "empty string kept", body: `{"image_url":"https://x/a.png","prompt":"p","mask_type":""}`, want: MaskType("")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := DecodeRemixRequest([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, req.MaskType)
		})
	}
}

func TestDecodeRemixRequestRejectsGarbage(t *testing.T) {
	for _, body := range []string{"", "   ", "{", `{"prompt": 5}`} {
		_, err := DecodeRemixRequest([]byte(body))
		require.Error(t, err, "body %q", body)
		assert.True(t, errors.Is(err, ErrInvalidInput), "body %q", body)
	}
}

func TestRemixRequestValidate(t *testing.T) {
	long := strings.Repeat("a", MaxPromptLength+1)
	cases := []struct {
		name   string
		req    RemixRequest
		detail string
	}{
		{name: "valid", req: RemixRequest{ImageURL: "u", Prompt: "p", MaskType: MaskSurface}},
		{name: "max length", req: RemixRequest{ImageURL: "u", Prompt: strings.Repeat("a", MaxPromptLength), MaskType: MaskBackground}},
		{name: "missing url", req: RemixRequest{Prompt: "p", MaskType: MaskSurface}, detail: "image_url and prompt are required"},
		{name: "missing prompt", req: RemixRequest{ImageURL: "u", MaskType: MaskSurface}, detail: "image_url and prompt are required"},
		{name: "too long", req: RemixRequest{ImageURL: "u", Prompt: long, MaskType: MaskSurface}, detail: "prompt too long (max 300 chars)"},
		{name: "too long beats bad mask", req: RemixRequest{ImageURL: "u", Prompt: long, MaskType: "nope"}, detail: "prompt too long (max 300 chars)"},
		{name: "bad mask", req: RemixRequest{ImageURL: "u", Prompt: "p", MaskType: "nope"}, detail: "mask_type must be one of: background, surface, logo_text"},
		{name: "empty mask", req: RemixRequest{ImageURL: "u", Prompt: "p"}, detail: "mask_type must be one of: background, surface, logo_text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.detail == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, tc.detail, Detail(err))
		})
	}
}

func TestPromptLengthCountsCharacters(t *testing.T) {
	assert.Equal(t, 30, PromptLength("A red logo on white background"))
	assert.Equal(t, 4, PromptLength("café"))
	// "e" + combining acute composes to a single character.
	assert.Equal(t, 4, PromptLength("cafe\u0301"))

	prompt := strings.Repeat("é", MaxPromptLength)
	req := RemixRequest{ImageURL: "u", Prompt: prompt, MaskType: MaskSurface}
	assert.NoError(t, req.Validate())
}

func TestPNGDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,Zm9v", PNGDataURL("Zm9v"))
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := ProviderFailure("OpenAI error: boom", cause)

	assert.ErrorIs(t, err, ErrProviderFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "OpenAI error: boom", Detail(err))
	assert.Equal(t, "plain", Detail(errors.New("plain")))
}
