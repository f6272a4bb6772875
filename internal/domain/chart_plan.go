package domain

// AnoMesKey é a chave sintética de agrupamento ano-mês que o modelo usa
// para agrupamentos mensais (ex.: "2024-03").
const AnoMesKey = "Ano-Mês"

// Operadores de comparação aceitos no caminho genérico de filtro.
// O plano vem do modelo e não é confiável, então qualquer operador fora
// desta lista é rejeitado em vez de avaliado.
var AllowedOperators = map[string]bool{
	"==": true,
	"!=": true,
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
}

// ChartPlan é o plano de gráfico emitido pelo modelo para uma pergunta.
// É um registro semi-estruturado: campos podem faltar ou vir com grafias
// alternativas, e o interpretador precisa tolerar isso.
type ChartPlan struct {
	ChartType      string              `json:"chart_type"`
	Title          string              `json:"title"`
	Color          string              `json:"color,omitempty"`
	XAxis          string              `json:"x_axis,omitempty"`
	YAxis          string              `json:"y_axis,omitempty"`
	Transformation *DataTransformation `json:"data_transformation"`
}

// DataTransformation descreve como filtrar, agrupar e agregar os dados
// antes de desenhar o gráfico.
type DataTransformation struct {
	Filters     []PlanFilter   `json:"filters,omitempty"`
	GroupBy     []string       `json:"group_by,omitempty"`
	Aggregation map[string]any `json:"aggregation,omitempty"`
}

// PlanFilter é uma entrada de filtro. O modelo ora escreve operator/value,
// ora condition/values; os dois pares de apelidos são aceitos.
type PlanFilter struct {
	Column    string `json:"column"`
	Operator  string `json:"operator,omitempty"`
	Condition string `json:"condition,omitempty"`
	Value     any    `json:"value,omitempty"`
	Values    any    `json:"values,omitempty"`
}

// ResolveOperator devolve o operador do filtro, tentando os apelidos em
// ordem fixa de prioridade. Vazio quando nenhum está presente.
func (f PlanFilter) ResolveOperator() string {
	if f.Operator != "" {
		return f.Operator
	}
	return f.Condition
}

// ResolveValue devolve o valor de comparação, tentando os apelidos em
// ordem fixa de prioridade.
func (f PlanFilter) ResolveValue() any {
	if f.Value != nil {
		return f.Value
	}
	return f.Values
}

// NormalizeAggregation reduz as duas formas aceitas do descritor de
// agregação — {"coluna": "função"} ou {"column": ..., "function": ...} —
// ao par (coluna, função). ok indica se um par válido foi extraído.
func NormalizeAggregation(agg map[string]any) (column, function string, ok bool) {
	if len(agg) == 0 {
		return "", "", false
	}

	col, hasCol := agg["column"].(string)
	fn, hasFn := agg["function"].(string)
	if hasCol && hasFn {
		return col, fn, col != "" && fn != ""
	}

	if len(agg) == 1 {
		for k, v := range agg {
			fn, _ := v.(string)
			return k, fn, k != "" && fn != ""
		}
	}
	return "", "", false
}
