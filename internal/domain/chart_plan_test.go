package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFilter_ResolveOperator(t *testing.T) {
	tests := []struct {
		name     string
		filter   PlanFilter
		expected string
	}{
		{
			name:     "Campo operator tem prioridade",
			filter:   PlanFilter{Operator: "==", Condition: "!="},
			expected: "==",
		},
		{
			name:     "Campo condition como apelido",
			filter:   PlanFilter{Condition: "between"},
			expected: "between",
		},
		{
			name:     "Nenhum operador presente",
			filter:   PlanFilter{Column: "UF"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.ResolveOperator())
		})
	}
}

func TestPlanFilter_ResolveValue(t *testing.T) {
	tests := []struct {
		name     string
		filter   PlanFilter
		expected any
	}{
		{
			name:     "Campo value tem prioridade",
			filter:   PlanFilter{Value: "SP", Values: []any{"RJ"}},
			expected: "SP",
		},
		{
			name:     "Campo values como apelido",
			filter:   PlanFilter{Values: []any{"SP", "RJ"}},
			expected: []any{"SP", "RJ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.ResolveValue())
		})
	}
}

func TestNormalizeAggregation(t *testing.T) {
	tests := []struct {
		name             string
		agg              map[string]any
		expectedColumn   string
		expectedFunction string
		expectedOK       bool
	}{
		{
			name:             "Forma coluna para função",
			agg:              map[string]any{"Valor": "sum"},
			expectedColumn:   "Valor",
			expectedFunction: "sum",
			expectedOK:       true,
		},
		{
			name:             "Forma explícita column e function",
			agg:              map[string]any{"column": "Valor", "function": "count"},
			expectedColumn:   "Valor",
			expectedFunction: "count",
			expectedOK:       true,
		},
		{
			name:       "Descritor vazio",
			agg:        map[string]any{},
			expectedOK: false,
		},
		{
			name:       "Descritor nulo",
			agg:        nil,
			expectedOK: false,
		},
		{
			name:       "Função não textual",
			agg:        map[string]any{"Valor": 12},
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column, function, ok := NormalizeAggregation(tt.agg)

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedColumn, column)
				assert.Equal(t, tt.expectedFunction, function)
			}
		})
	}
}

func TestChartPlan_Unmarshal(t *testing.T) {
	raw := `{
		"chart_type": "bar",
		"title": "Movimentos por mês",
		"x_axis": "Ano-Mês",
		"data_transformation": {
			"filters": [
				{"column": "UF", "condition": "==", "values": "SP"}
			],
			"group_by": ["Ano-Mês"],
			"aggregation": {"Valor": "sum"}
		}
	}`

	var plan ChartPlan
	require.NoError(t, json.Unmarshal([]byte(raw), &plan))

	assert.Equal(t, "bar", plan.ChartType)
	require.NotNil(t, plan.Transformation)
	require.Len(t, plan.Transformation.Filters, 1)
	assert.Equal(t, "==", plan.Transformation.Filters[0].ResolveOperator())
	assert.Equal(t, "SP", plan.Transformation.Filters[0].ResolveValue())
}
