package gemini

import (
	"context"

	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/gemini/geminiclient"
	"github.com/dataconversa/data-analyst-api/internal/config"
)

type GeminiIntegrator interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type GeminiService struct {
	cfg    *config.Config
	Client geminiclient.Client
}

func New(cfg *config.Config, client geminiclient.Client) GeminiIntegrator {
	return &GeminiService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *GeminiService) Ask(ctx context.Context, prompt string) (string, error) {
	return s.Client.GenerateContent(ctx, prompt)
}
