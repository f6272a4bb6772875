package answering

import "github.com/pkg/errors"

var (
	// ErrEmptyQuestion indica pergunta vazia; nenhuma chamada ao modelo é
	// feita nesse caso.
	ErrEmptyQuestion = errors.New("pergunta vazia")

	// ErrModelResponse indica que o texto do modelo não continha um JSON
	// interpretável. O histórico não é atualizado quando isso acontece.
	ErrModelResponse = errors.New("resposta do modelo não pôde ser interpretada")
)
