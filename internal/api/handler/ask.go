package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/internal/domain"
	"github.com/dataconversa/data-analyst-api/internal/session"
	"github.com/dataconversa/data-analyst-api/internal/usecases/answering"
	"github.com/dataconversa/data-analyst-api/internal/usecases/loading"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer      string              `json:"answer"`
	InsightText *string             `json:"insight_text,omitempty"`
	ChartsJSON  []*domain.ChartSpec `json:"charts_json,omitempty"`
}

// Mensagens voltadas ao usuário final; o erro técnico fica só no log.
const (
	msgDataUnavailable = "Desculpe, os dados não estão disponíveis no momento para análise."
	msgEmptyQuestion   = "Por favor, faça uma pergunta."
	msgInvalidRequest  = "Requisição inválida. Envie a pergunta no formato JSON."
	msgModelFailure    = "Não consegui processar a resposta do modelo. Tente novamente."
	msgUnexpected      = "Ocorreu um erro inesperado ao processar sua pergunta."
)

// Ask responde uma pergunta em linguagem natural sobre o dataset. Toda
// resposta de erro mantém o formato {"answer": ...} para o frontend
// exibir a mensagem na conversa.
func Ask(
	loader loading.Loader,
	answerer answering.Answerer,
	sessions *session.Store,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - Ask")

		ctx := r.Context()

		sessionID := sessions.Resolve(w, r)

		frame, err := loader.Load(ctx)
		if err != nil {
			logrus.WithError(err).Error("Dataset indisponível para análise")
			writeAnswer(w, http.StatusServiceUnavailable, msgDataUnavailable)
			return
		}

		// Corpo malformado não é pergunta vazia: cada caso tem a sua
		// mensagem (VAL_001 e VAL_002 na taxonomia de erros).
		var request askRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			logrus.WithError(err).Warn("Corpo de requisição inválido em /ask")
			writeAnswer(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}

		history := sessions.History(sessionID)

		reply, err := answerer.Answer(ctx, &history, request.Question, frame)
		if err != nil {
			switch {
			case errors.Is(err, answering.ErrEmptyQuestion):
				writeAnswer(w, http.StatusBadRequest, msgEmptyQuestion)
			case errors.Is(err, answering.ErrModelResponse):
				logrus.WithError(err).Error("Resposta do modelo inválida")
				writeAnswer(w, http.StatusInternalServerError, msgModelFailure)
			default:
				logrus.WithError(err).Error("Erro inesperado ao responder pergunta")
				writeAnswer(w, http.StatusInternalServerError, msgUnexpected)
			}
			return
		}

		sessions.SetHistory(sessionID, history)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(askResponse{
			Answer:      reply.Answer,
			InsightText: reply.InsightText,
			ChartsJSON:  reply.ChartsJSON,
		}); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resposta de /ask")
		}
	}
}

func writeAnswer(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"answer": message}); err != nil {
		logrus.WithError(err).Error("Erro ao serializar resposta de erro")
	}
}
