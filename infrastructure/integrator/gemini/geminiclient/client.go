package geminiclient

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/dataconversa/data-analyst-api/internal/config"
)

type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewClient cria o cliente da API do Gemini com a chave configurada.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar cliente do Gemini")
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Gemini.Model,
	}, nil
}

// GenerateContent envia um prompt de texto único e devolve o texto livre
// da resposta. Sem streaming e sem contrato de function-calling.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", errors.Wrap(err, "erro na chamada ao Gemini")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("resposta vazia do modelo")
	}
	return text, nil
}
