package domain

// MaxHistoryTurns limita o histórico guardado por sessão.
const MaxHistoryTurns = 3

// Turn é um par pergunta/resposta de uma conversa.
type Turn struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// History é a sequência ordenada de turnos de uma sessão. Ao exceder a
// capacidade, o turno mais antigo é descartado.
type History struct {
	Turns []Turn `json:"turns"`
}

// Append registra um novo turno, descartando o mais antigo quando o
// limite é ultrapassado.
func (h *History) Append(question, answer string) {
	h.Turns = append(h.Turns, Turn{Question: question, Answer: answer})
	if len(h.Turns) > MaxHistoryTurns {
		h.Turns = h.Turns[len(h.Turns)-MaxHistoryTurns:]
	}
}
