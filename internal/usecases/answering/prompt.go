package answering

import (
	"fmt"
	"strings"

	"github.com/dataconversa/data-analyst-api/internal/domain"
)

// promptTemplate é o modelo de texto enviado ao Gemini. A estrutura fixa
// garante que a resposta volte no formato JSON de três campos que o
// extrator espera. Os %s são preenchidos, na ordem: histórico, esquema,
// amostra de dados e pergunta.
const promptTemplate = `
    Você é um assistente de análise de dados. Com base no histórico da conversa, esquema, dados e na nova pergunta, forneça:
    1. ` + "`answer`" + `: Uma resposta em texto.
    2. ` + "`insight_text`" + `: Uma observação ou insight interessante sobre a análise. Se não houver, deixe nulo.
    3. ` + "`chart_plans`" + `: UMA LISTA de planos de gráfico em JSON. Se nenhum gráfico for necessário, a lista deve ser vazia ` + "`[]`" + `.

    REGRAS IMPORTANTES:
    - Se o usuário pedir para agrupar por mês, use ` + "`group_by: [\"Ano-Mês\"]`" + `.
    - Para gráficos de barras agrupadas, use o campo ` + "`color`" + ` no plano para indicar a coluna de agrupamento secundária.
    - VOCÊ DEVE SEMPRE USAR O OBJETO ` + "`data_transformation`" + ` para descrever como os dados devem ser processados.

    O JSON 'chart_plan' deve ter a estrutura: ` + "`chart_type`, `title`, `color` (opcional), `data_transformation` (`filters`, `group_by`, `aggregation`), `x_axis`, `y_axis`" + `.
    ---
    Histórico da Conversa:
    %s
    ---
    Esquema do DataFrame (Tipos de Dados):
    %s
    ---
    Exemplo de Dados (5 primeiras linhas):
    %s
    ---
    Pergunta do Usuário:
    "%s"
    ---
    Sua Resposta (em formato JSON VÁLIDO):
    ` + "```json" + `
    {
    "answer": "Sua resposta em texto aqui.",
    "insight_text": null,
    "chart_plans": []
    }
`

// BuildPrompt monta o prompt completo: histórico serializado, esquema de
// colunas, amostra das 5 primeiras linhas e a pergunta literal.
func BuildPrompt(history []domain.Turn, frame *domain.Frame, question string) string {
	return fmt.Sprintf(promptTemplate,
		serializeHistory(history),
		frame.SchemaString(),
		frame.HeadString(5),
		question,
	)
}

func serializeHistory(history []domain.Turn) string {
	lines := make([]string, 0, len(history)*2)
	for _, turn := range history {
		lines = append(lines,
			fmt.Sprintf("Usuário: %s", turn.Question),
			fmt.Sprintf("Assistente: %s", turn.Answer),
		)
	}
	return strings.Join(lines, "\n")
}
