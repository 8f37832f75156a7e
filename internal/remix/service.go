package remix

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"relay/internal/domain"
	"relay/internal/imagegen"
	"relay/internal/storage"
)

type Options struct {
	// APIKey is only checked for presence; the Editor carries the credential.
	APIKey  string
	Fetcher imagegen.Fetcher
	Masks   storage.MaskLoader
	Editor  imagegen.Editor
	Logger  zerolog.Logger
}

// Service runs one remix per call: fetch the source image, load the mask,
// submit both to the editor and wrap the result as a data URL. Nothing is
// retried and nothing is shared between calls.
type Service struct {
	configured bool
	fetcher    imagegen.Fetcher
	masks      storage.MaskLoader
	editor     imagegen.Editor
	log        zerolog.Logger
}

func NewService(opts Options) *Service {
	return &Service{
		configured: opts.APIKey != "",
		fetcher:    opts.Fetcher,
		masks:      opts.Masks,
		editor:     opts.Editor,
		log:        opts.Logger,
	}
}

// CheckConfigured fails when the upstream credential is absent.
func (s *Service) CheckConfigured() error {
	if s == nil || !s.configured {
		return domain.Misconfigured("OPENAI_API_KEY not set", nil)
	}
	if s.fetcher == nil || s.masks == nil || s.editor == nil {
		return domain.Misconfigured("remix service not configured", nil)
	}
	return nil
}

func (s *Service) Remix(ctx context.Context, req domain.RemixRequest) (*domain.RemixResult, error) {
	if err := s.CheckConfigured(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := s.logger(ctx).With().Str("mask_type", req.MaskType.String()).Logger()

	start := time.Now()
	source, err := s.fetcher.Fetch(ctx, req.ImageURL)
	if err != nil {
		log.Warn().Err(err).Str("image_url", req.ImageURL).Msg("image download failed")
		return nil, domain.InvalidInput("Could not download image", err)
	}
	log.Debug().Int("bytes", len(source)).Dur("elapsed", time.Since(start)).Msg("image downloaded")

	mask, err := s.masks.Load(ctx, req.MaskType)
	if err != nil {
		if errors.Is(err, storage.ErrMaskNotFound) {
			log.Error().Err(err).Msg("mask asset missing")
			return nil, domain.Misconfigured("Mask file not found: "+s.masks.Path(req.MaskType), err)
		}
		log.Error().Err(err).Msg("mask asset unreadable")
		return nil, domain.Misconfigured("Could not read mask file: "+s.masks.Path(req.MaskType), err)
	}

	start = time.Now()
	b64, err := s.editor.Edit(ctx, imagegen.EditRequest{
		Image:  imagegen.DetectImage(source, "image"),
		Mask:   imagegen.SourceImage{Data: mask, MIMEType: "image/png", Name: "mask.png"},
		Prompt: req.Prompt,
	})
	if err != nil {
		return nil, s.editFailure(log, err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("remix generated")

	return &domain.RemixResult{
		Status:         domain.StatusDone,
		OutputImageURL: domain.PNGDataURL(b64),
	}, nil
}

// editFailure maps editor errors to provider failures. Upstream error text is
// passed through verbatim.
func (s *Service) editFailure(log zerolog.Logger, err error) error {
	var statusErr *imagegen.StatusError
	switch {
	case errors.As(err, &statusErr):
		log.Error().Int("upstream_status", statusErr.StatusCode).Str("upstream_body", statusErr.Body).Msg("openai rejected edit")
		return domain.ProviderFailure("OpenAI error: "+statusErr.Body, err)
	case errors.Is(err, imagegen.ErrNoImageData):
		log.Error().Err(err).Msg("openai response without image data")
		return domain.ProviderFailure("No b64_json returned", err)
	case errors.Is(err, imagegen.ErrMissingAPIKey):
		return domain.Misconfigured("OPENAI_API_KEY not set", err)
	default:
		log.Error().Err(err).Msg("openai request failed")
		return domain.ProviderFailure("OpenAI error: "+err.Error(), err)
	}
}

// logger prefers the request-scoped logger placed in ctx by the HTTP
// middleware, so entries carry the request id.
func (s *Service) logger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return s.log
}
