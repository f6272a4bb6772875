package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dataconversa/data-analyst-api/internal/domain"
	"github.com/dataconversa/data-analyst-api/internal/session"
	"github.com/dataconversa/data-analyst-api/internal/usecases/answering"
	loadermocks "github.com/dataconversa/data-analyst-api/internal/usecases/loading/mocks"
)

type stubAnswerer struct {
	reply *answering.Reply
	err   error
}

func (s *stubAnswerer) Answer(_ context.Context, _ *domain.History, _ string, _ *domain.Frame) (*answering.Reply, error) {
	return s.reply, s.err
}

func emptyFrame() *domain.Frame {
	return domain.NewFrame("UF")
}

func TestAsk(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := loadermocks.NewMockLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).Return(emptyFrame(), nil)

	insight := "um insight"
	answerer := &stubAnswerer{
		reply: &answering.Reply{
			Answer:      "São 42 contas.",
			InsightText: &insight,
			ChartsJSON:  []*domain.ChartSpec{},
		},
	}

	h := Ask(mockLoader, answerer, session.NewStore("segredo"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question": "quantas contas?"}`))

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "São 42 contas.", body["answer"])
	assert.Equal(t, "um insight", body["insight_text"])
}

func TestAsk_Erros(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		loaderErr       error
		answererErr     error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "Dataset indisponível",
			body:            `{"question": "qual o total?"}`,
			loaderErr:       errors.New("drive fora do ar"),
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: "Desculpe, os dados não estão disponíveis no momento para análise.",
		},
		{
			name:            "Pergunta vazia",
			body:            `{"question": ""}`,
			answererErr:     answering.ErrEmptyQuestion,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Por favor, faça uma pergunta.",
		},
		{
			name:            "Corpo não é JSON",
			body:            `pergunta solta`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Requisição inválida. Envie a pergunta no formato JSON.",
		},
		{
			name:            "Resposta do modelo inválida",
			body:            `{"question": "qual o total?"}`,
			answererErr:     answering.ErrModelResponse,
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Não consegui processar a resposta do modelo. Tente novamente.",
		},
		{
			name:            "Erro inesperado",
			body:            `{"question": "qual o total?"}`,
			answererErr:     errors.New("falha de rede"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Ocorreu um erro inesperado ao processar sua pergunta.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLoader := loadermocks.NewMockLoader(ctrl)
			mockLoader.EXPECT().Load(gomock.Any()).Return(emptyFrame(), tt.loaderErr)

			h := Ask(mockLoader, &stubAnswerer{err: tt.answererErr}, session.NewStore("segredo"))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(tt.body))

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedMessage, body["answer"])
		})
	}
}
