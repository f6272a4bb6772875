package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_LeftJoin(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (*Frame, *Frame)
		on       string
		validate func(t *testing.T, result *Frame)
	}{
		{
			name: "Junção preserva todas as linhas da esquerda",
			build: func() (*Frame, *Frame) {
				left := NewFrame("ID_Conta", "Valor")
				require.NoError(t, left.AppendRow("C1", 100.0))
				require.NoError(t, left.AppendRow("C2", 200.0))
				require.NoError(t, left.AppendRow("C3", 300.0))

				right := NewFrame("ID_Conta", "Tipo")
				require.NoError(t, right.AppendRow("C1", "corrente"))
				require.NoError(t, right.AppendRow("C2", "poupança"))
				return left, right
			},
			on: "ID_Conta",
			validate: func(t *testing.T, result *Frame) {
				assert.Equal(t, 3, result.NumRows())
				assert.Equal(t, "corrente", result.At(0, "Tipo"))
				// Sem correspondência à direita: colunas preenchidas com nulo
				assert.Nil(t, result.At(2, "Tipo"))
			},
		},
		{
			name: "Chave duplicada à direita não multiplica linhas",
			build: func() (*Frame, *Frame) {
				left := NewFrame("ID_Conta", "Valor")
				require.NoError(t, left.AppendRow("C1", 100.0))

				right := NewFrame("ID_Conta", "Tipo")
				require.NoError(t, right.AppendRow("C1", "primeira"))
				require.NoError(t, right.AppendRow("C1", "segunda"))
				return left, right
			},
			on: "ID_Conta",
			validate: func(t *testing.T, result *Frame) {
				assert.Equal(t, 1, result.NumRows())
				assert.Equal(t, "primeira", result.At(0, "Tipo"))
			},
		},
		{
			name: "Colisão de nomes recebe sufixos",
			build: func() (*Frame, *Frame) {
				left := NewFrame("ID_Conta", "Data_Movimento")
				require.NoError(t, left.AppendRow("C1", "2024-01-10"))

				right := NewFrame("ID_Conta", "Data_Movimento")
				require.NoError(t, right.AppendRow("C1", "2024-02-20"))
				return left, right
			},
			on: "ID_Conta",
			validate: func(t *testing.T, result *Frame) {
				assert.True(t, result.HasColumn("Data_Movimento_mov"))
				assert.True(t, result.HasColumn("Data_Movimento_class"))
				assert.Equal(t, "2024-01-10", result.At(0, "Data_Movimento_mov"))
				assert.Equal(t, "2024-02-20", result.At(0, "Data_Movimento_class"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := tt.build()

			var (
				result *Frame
				err    error
			)
			if tt.name == "Colisão de nomes recebe sufixos" {
				result, err = left.LeftJoin(right, tt.on, "_mov", "_class")
			} else {
				result, err = left.LeftJoin(right, tt.on)
			}

			require.NoError(t, err)
			tt.validate(t, result)
		})
	}
}

func TestFrame_LeftJoin_ChaveInexistente(t *testing.T) {
	left := NewFrame("A")
	right := NewFrame("B")

	_, err := left.LeftJoin(right, "ID_Conta")
	assert.Error(t, err)
}

func TestFrame_CoerceDates(t *testing.T) {
	df := NewFrame("Data_Movimento", "Saldo")
	require.NoError(t, df.AppendRow("2024-03-15", 10.0))
	require.NoError(t, df.AppendRow("não é data", 20.0))
	require.NoError(t, df.AppendRow(nil, 30.0))

	df.CoerceDates()

	// Data válida vira time.Time
	parsed, ok := df.At(0, "Data_Movimento").(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())

	// Valores não interpretáveis viram nulo, nunca erro
	assert.Nil(t, df.At(1, "Data_Movimento"))
	assert.Nil(t, df.At(2, "Data_Movimento"))

	// Colunas sem "Data" no nome ficam intactas
	assert.Equal(t, 20.0, df.At(1, "Saldo"))
}

func TestFrame_GroupByAggregate(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		validate func(t *testing.T, result *Frame)
	}{
		{
			name: "Soma por grupo",
			fn:   "sum",
			validate: func(t *testing.T, result *Frame) {
				require.Equal(t, 2, result.NumRows())
				assert.Equal(t, "SP", result.At(0, "UF"))
				assert.Equal(t, 300.0, result.At(0, "Valor"))
				assert.Equal(t, "RJ", result.At(1, "UF"))
				assert.Equal(t, 50.0, result.At(1, "Valor"))
			},
		},
		{
			name: "Contagem ignora nulos",
			fn:   "count",
			validate: func(t *testing.T, result *Frame) {
				require.Equal(t, 2, result.NumRows())
				assert.Equal(t, 2.0, result.At(0, "Valor"))
				assert.Equal(t, 1.0, result.At(1, "Valor"))
			},
		},
		{
			name: "Média por grupo",
			fn:   "mean",
			validate: func(t *testing.T, result *Frame) {
				assert.Equal(t, 150.0, result.At(0, "Valor"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := NewFrame("UF", "Valor")
			require.NoError(t, df.AppendRow("SP", 100.0))
			require.NoError(t, df.AppendRow("SP", 200.0))
			require.NoError(t, df.AppendRow("RJ", 50.0))

			result, err := df.GroupByAggregate([]string{"UF"}, "Valor", tt.fn)

			require.NoError(t, err)
			tt.validate(t, result)
		})
	}
}

func TestFrame_GroupByAggregate_FuncaoDesconhecida(t *testing.T) {
	df := NewFrame("UF", "Valor")
	require.NoError(t, df.AppendRow("SP", 100.0))

	_, err := df.GroupByAggregate([]string{"UF"}, "Valor", "median")
	assert.Error(t, err)
}

func TestFrame_SortByColumn(t *testing.T) {
	df := NewFrame("Ano-Mês", "Total")
	require.NoError(t, df.AppendRow("2024-03", 3.0))
	require.NoError(t, df.AppendRow("2024-01", 1.0))
	require.NoError(t, df.AppendRow(nil, 0.0))
	require.NoError(t, df.AppendRow("2024-02", 2.0))

	df.SortByColumn("Ano-Mês")

	assert.Equal(t, "2024-01", df.At(0, "Ano-Mês"))
	assert.Equal(t, "2024-02", df.At(1, "Ano-Mês"))
	assert.Equal(t, "2024-03", df.At(2, "Ano-Mês"))
	// Nulos sempre por último
	assert.Nil(t, df.At(3, "Ano-Mês"))
}

func TestFrameFromCSV(t *testing.T) {
	csv := "ID_Conta,Saldo,Cidade\nC1,1500.50,Campinas\nC2,,Santos\n"

	df, err := FrameFromCSV([]byte(csv))

	require.NoError(t, err)
	assert.Equal(t, []string{"ID_Conta", "Saldo", "Cidade"}, df.Columns())
	assert.Equal(t, 2, df.NumRows())
	// Números viram float64, texto permanece string, vazio vira nulo
	assert.Equal(t, 1500.50, df.At(0, "Saldo"))
	assert.Equal(t, "Campinas", df.At(0, "Cidade"))
	assert.Nil(t, df.At(1, "Saldo"))
}

func TestFrameFromCSV_Vazio(t *testing.T) {
	_, err := FrameFromCSV([]byte(""))
	assert.Error(t, err)
}

func TestFrameFromCSV_RegistroMalformado(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "Linha com campo a mais no meio do arquivo",
			csv:  "ID_Conta,Valor\nC1,100\nC2,200,EXTRA\nC3,300\n",
		},
		{
			name: "Linha com campo a menos",
			csv:  "ID_Conta,Valor,UF\nC1,100,SP\nC2,200\n",
		},
		{
			name: "Aspas quebradas",
			csv:  "ID_Conta,Nome\nC1,\"aber\nC2,fechado\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arquivo corrompido é erro, nunca uma tabela truncada
			_, err := FrameFromCSV([]byte(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestParseAnyDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "Data ISO", input: "2024-05-20", ok: true},
		{name: "Data com hora", input: "2024-05-20 14:30:00", ok: true},
		{name: "Data brasileira", input: "20/05/2024", ok: true},
		{name: "Texto qualquer", input: "ontem", ok: false},
		{name: "Vazio", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseAnyDate(tt.input)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, 2024, parsed.Year())
				assert.Equal(t, time.May, parsed.Month())
				assert.Equal(t, 20, parsed.Day())
			}
		})
	}
}

func TestFrame_Clone(t *testing.T) {
	df := NewFrame("A")
	require.NoError(t, df.AppendRow("original"))

	clone := df.Clone()
	clone.RenameColumn("A", "B")

	assert.True(t, df.HasColumn("A"))
	assert.False(t, df.HasColumn("B"))
	assert.True(t, clone.HasColumn("B"))
}
