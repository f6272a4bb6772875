// Package answering orquestra uma pergunta do usuário: monta o prompt com
// histórico + esquema + amostra, chama o Gemini, extrai o JSON da resposta
// e manda cada plano de gráfico para o interpretador.
package answering

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/gemini"
	"github.com/dataconversa/data-analyst-api/internal/domain"
	"github.com/dataconversa/data-analyst-api/internal/usecases/charting"
)

// Reply é a resposta completa de uma pergunta, no formato devolvido ao
// cliente.
type Reply struct {
	Answer      string              `json:"answer"`
	InsightText *string             `json:"insight_text"`
	ChartsJSON  []*domain.ChartSpec `json:"charts_json"`
}

// modelResponse é o JSON de três campos que o prompt instrui o modelo a
// produzir.
type modelResponse struct {
	Answer      string              `json:"answer"`
	InsightText *string             `json:"insight_text"`
	ChartPlans  []*domain.ChartPlan `json:"chart_plans"`
}

type Answerer interface {
	Answer(ctx context.Context, history *domain.History, question string, frame *domain.Frame) (*Reply, error)
}

type Service struct {
	geminiService gemini.GeminiIntegrator
	renderer      charting.Renderer
}

func NewService(geminiService gemini.GeminiIntegrator, renderer charting.Renderer) Answerer {
	return &Service{
		geminiService: geminiService,
		renderer:      renderer,
	}
}

// Answer responde uma pergunta sobre o dataset. Em caso de sucesso o
// turno é acrescentado ao histórico (limitado aos 3 mais recentes);
// falha de interpretação da resposta do modelo deixa o histórico intacto.
func (s *Service) Answer(ctx context.Context, history *domain.History, question string, frame *domain.Frame) (*Reply, error) {
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	prompt := BuildPrompt(history.Turns, frame, question)

	raw, err := s.geminiService.Ask(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "erro na chamada ao modelo")
	}

	payload := ExtractJSON(raw)
	if payload == nil {
		logrus.WithField("response", truncate(raw, 200)).Warn("Resposta do modelo sem objeto JSON")
		return nil, ErrModelResponse
	}

	var parsed modelResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		logrus.WithError(err).WithField("response", truncate(raw, 200)).Warn("JSON da resposta do modelo inválido")
		return nil, ErrModelResponse
	}

	// Cada plano vira no máximo um gráfico; planos que falham são
	// descartados em silêncio, preservando a ordem dos demais.
	charts := make([]*domain.ChartSpec, 0, len(parsed.ChartPlans))
	for _, plan := range parsed.ChartPlans {
		if spec := s.renderer.Render(plan, frame); spec != nil {
			charts = append(charts, spec)
		}
	}

	history.Append(question, parsed.Answer)

	return &Reply{
		Answer:      parsed.Answer,
		InsightText: parsed.InsightText,
		ChartsJSON:  charts,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
