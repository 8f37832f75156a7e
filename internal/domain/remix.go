package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxPromptLength is the longest prompt accepted, in characters.
const MaxPromptLength = 300

// StatusDone is the only status a successful remix reports.
const StatusDone = "done"

// MaskType selects which pre-provisioned mask is paired with the source image.
type MaskType string

const (
	MaskBackground MaskType = "background"
	MaskSurface    MaskType = "surface"
	MaskLogoText   MaskType = "logo_text"
)

// DefaultMaskType is used when a request omits mask_type.
const DefaultMaskType = MaskSurface

// MaskTypes lists the supported mask types in display order.
func MaskTypes() []MaskType {
	return []MaskType{MaskBackground, MaskSurface, MaskLogoText}
}

// Valid reports whether m is one of the supported mask types.
func (m MaskType) Valid() bool {
	switch m {
	case MaskBackground, MaskSurface, MaskLogoText:
		return true
	default:
		return false
	}
}

func (m MaskType) String() string { return string(m) }

// RemixRequest is the body of POST /remix.
type RemixRequest struct {
	ImageURL string   `json:"image_url"`
	Prompt   string   `json:"prompt"`
	MaskType MaskType `json:"mask_type"`
}

// UnmarshalJSON applies the default mask type when the field is absent or null.
// An explicit empty string is kept so that validation rejects it.
func (r *RemixRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ImageURL string  `json:"image_url"`
		Prompt   string  `json:"prompt"`
		MaskType *string `json:"mask_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ImageURL = raw.ImageURL
	r.Prompt = raw.Prompt
	r.MaskType = DefaultMaskType
	if raw.MaskType != nil {
		r.MaskType = MaskType(*raw.MaskType)
	}
	return nil
}

// DecodeRemixRequest parses a request body. Unknown fields are ignored.
func DecodeRemixRequest(body []byte) (RemixRequest, error) {
	var req RemixRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, InvalidInput("invalid request body", nil)
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, InvalidInput("invalid request body", err)
	}
	return req, nil
}

// Validate checks the request fields in order: required fields, prompt
// length, then mask type.
func (r RemixRequest) Validate() error {
	if r.ImageURL == "" || r.Prompt == "" {
		return InvalidInput("image_url and prompt are required", nil)
	}
	if PromptLength(r.Prompt) > MaxPromptLength {
		return InvalidInput("prompt too long (max 300 chars)", nil)
	}
	if !r.MaskType.Valid() {
		names := make([]string, 0, len(MaskTypes()))
		for _, m := range MaskTypes() {
			names = append(names, string(m))
		}
		return InvalidInput("mask_type must be one of: "+strings.Join(names, ", "), nil)
	}
	return nil
}

// PromptLength counts characters after NFC normalization, so a letter with a
// combining accent counts once.
func PromptLength(prompt string) int {
	return utf8.RuneCountInString(norm.NFC.String(prompt))
}

// RemixResult is the body of a successful POST /remix.
type RemixResult struct {
	Status         string `json:"status"`
	OutputImageURL string `json:"output_image_url"`
}

// PNGDataURL wraps a base64 payload as an inline PNG data URL.
func PNGDataURL(b64 string) string {
	return "data:image/png;base64," + b64
}
