// Package charting transforma um plano de gráfico emitido pelo modelo em
// uma especificação de figura renderizável. O plano não é confiável:
// qualquer malformação derruba apenas aquele gráfico, nunca a resposta.
package charting

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/internal/domain"
	"github.com/dataconversa/data-analyst-api/pkg/utils"
)

// Coluna de data primária dos movimentos após a junção (o sufixo _mov vem
// da colisão com a tabela de classificação). Base do agrupamento Ano-Mês.
const (
	movementDateColumn         = "Data_Movimento_mov"
	movementDateColumnFallback = "Data_Movimento"
)

type Renderer interface {
	Render(plan *domain.ChartPlan, frame *domain.Frame) *domain.ChartSpec
}

type Service struct{}

func NewService() Renderer {
	return &Service{}
}

// Render aplica filtros, agrupamento e agregação do plano sobre a tabela
// e monta a figura. Devolve nil quando o plano não produz gráfico — por
// filtro que esvazia a tabela, tipo não suportado ou malformação.
func (s *Service) Render(plan *domain.ChartPlan, frame *domain.Frame) (spec *domain.ChartSpec) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Erro fatal ao gerar gráfico dinâmico")
			spec = nil
		}
	}()

	if plan == nil || plan.Transformation == nil || frame == nil {
		return nil
	}

	logrus.WithField("plan", utils.PrettyJson(plan)).Debug("Iniciando geração de gráfico")

	// O interpretador altera colunas (coerção de datas, Ano-Mês); trabalha
	// sobre um clone para não tocar o dataset em cache.
	df := frame.Clone()

	df = applyFilters(df, plan.Transformation.Filters)
	if df == nil || df.NumRows() == 0 {
		return nil
	}

	groupBy := append([]string{}, plan.Transformation.GroupBy...)
	if plan.Color != "" && !contains(groupBy, plan.Color) {
		groupBy = append(groupBy, plan.Color)
	}

	aggCol, aggFunc, hasAgg := domain.NormalizeAggregation(plan.Transformation.Aggregation)

	if contains(groupBy, domain.AnoMesKey) {
		if !addAnoMesColumn(df) {
			return nil
		}
	}

	if len(groupBy) > 0 && hasAgg {
		agg, err := df.GroupByAggregate(dedup(groupBy), aggCol, aggFunc)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao agregar dados do plano de gráfico")
			return nil
		}
		df = agg
	}

	if df.NumRows() == 0 {
		return nil
	}

	xAxis := plan.XAxis
	yAxis := aggCol
	if yAxis == "" {
		yAxis = plan.YAxis
	}

	switch plan.ChartType {
	case "bar":
		// Se o agrupamento mensal foi feito, o eixo X é sempre Ano-Mês,
		// em ordem cronológica.
		if df.HasColumn(domain.AnoMesKey) {
			xAxis = domain.AnoMesKey
		}
		if !df.HasColumn(xAxis) || !df.HasColumn(yAxis) {
			logrus.WithFields(logrus.Fields{
				"x_axis": xAxis,
				"y_axis": yAxis,
			}).Warn("Eixos do gráfico de barras não existem na tabela agregada")
			return nil
		}
		df.SortByColumn(xAxis)
		return buildBarChart(df, plan, xAxis, yAxis)

	case "pie", "donut":
		if !df.HasColumn(xAxis) || !df.HasColumn(yAxis) {
			logrus.WithFields(logrus.Fields{
				"x_axis": xAxis,
				"y_axis": yAxis,
			}).Warn("Eixos do gráfico de fatias não existem na tabela agregada")
			return nil
		}
		return buildPieChart(df, plan, xAxis, yAxis)

	default:
		// Tipo não suportado não é erro: este plano só não vira gráfico.
		logrus.WithField("chart_type", plan.ChartType).Warn("Tipo de gráfico não suportado")
		return nil
	}
}

// applyFilters aplica as entradas de filtro em ordem. Filtro sem operador
// é pulado com aviso; coluna inexistente invalida o plano inteiro (nil).
func applyFilters(df *domain.Frame, filters []domain.PlanFilter) *domain.Frame {
	for _, f := range filters {
		if !df.HasColumn(f.Column) {
			logrus.WithField("column", f.Column).Warn("Filtro referencia coluna inexistente")
			return nil
		}

		operator := f.ResolveOperator()
		if operator == "" {
			logrus.WithField("column", f.Column).Warn("Filtro sem operador. Pulando.")
			continue
		}
		value := f.ResolveValue()

		if strings.Contains(f.Column, domain.DateMarker) {
			df.CoerceColumnDates(f.Column)
		}

		logrus.WithFields(logrus.Fields{
			"column":   f.Column,
			"operator": operator,
			"value":    value,
		}).Debug("Aplicando filtro")

		var next *domain.Frame
		switch {
		case operator == "between":
			next = filterBetween(df, f.Column, value)
		case operator == "in":
			next = filterIn(df, f.Column, value)
		default:
			next = filterCompare(df, f.Column, operator, value)
		}
		if next == nil {
			return nil
		}
		df = next
	}
	return df
}

// filterBetween mantém as linhas com data entre os dois limites,
// inclusive nas duas pontas.
func filterBetween(df *domain.Frame, column string, value any) *domain.Frame {
	bounds, ok := value.([]any)
	if !ok || len(bounds) != 2 {
		logrus.WithField("column", column).Warn("Filtro between sem dois limites")
		return nil
	}

	start, okS := domain.ParseAnyDate(domain.CellText(bounds[0]))
	end, okE := domain.ParseAnyDate(domain.CellText(bounds[1]))
	if !okS || !okE {
		logrus.WithField("column", column).Warn("Limites do between não são datas válidas")
		return nil
	}

	return df.Filter(func(row int) bool {
		t, ok := df.At(row, column).(time.Time)
		if !ok {
			return false
		}
		return !t.Before(start) && !t.After(end)
	})
}

// filterIn mantém as linhas cujo valor pertence à lista.
func filterIn(df *domain.Frame, column string, value any) *domain.Frame {
	list, ok := value.([]any)
	if !ok {
		logrus.WithField("column", column).Warn("Filtro in sem lista de valores")
		return nil
	}

	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[domain.CellText(v)] = true
	}

	return df.Filter(func(row int) bool {
		cell := df.At(row, column)
		if cell == nil {
			return false
		}
		return set[domain.CellText(cell)]
	})
}

// filterCompare aplica um operador genérico de comparação. Operadores
// fora da lista fixa são rejeitados — o plano vem do modelo e não é
// confiável o bastante para avaliar expressões arbitrárias.
func filterCompare(df *domain.Frame, column, operator string, value any) *domain.Frame {
	if !domain.AllowedOperators[operator] {
		logrus.WithFields(logrus.Fields{
			"column":   column,
			"operator": operator,
		}).Warn("Operador de filtro não permitido")
		return nil
	}

	return df.Filter(func(row int) bool {
		return compareCell(df.At(row, column), operator, value)
	})
}

// compareCell compara célula e valor conforme o tipo da célula: números
// como float, datas como time.Time (valor coagido), o resto como texto.
func compareCell(cell any, operator string, value any) bool {
	if cell == nil {
		return false
	}

	switch c := cell.(type) {
	case float64:
		v, ok := domain.ToFloat(value)
		if !ok {
			return false
		}
		return compareOrdered(c, v, operator)
	case time.Time:
		v, ok := domain.ParseAnyDate(domain.CellText(value))
		if !ok {
			return false
		}
		switch operator {
		case "==":
			return c.Equal(v)
		case "!=":
			return !c.Equal(v)
		case "<":
			return c.Before(v)
		case "<=":
			return !c.After(v)
		case ">":
			return c.After(v)
		case ">=":
			return !c.Before(v)
		}
		return false
	default:
		return compareOrdered(domain.CellText(cell), domain.CellText(value), operator)
	}
}

func compareOrdered[T float64 | string](a, b T, operator string) bool {
	switch operator {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// addAnoMesColumn deriva a coluna sintética Ano-Mês ("2024-03") da data
// primária de movimento, antes do agrupamento.
func addAnoMesColumn(df *domain.Frame) bool {
	dateCol := movementDateColumn
	if !df.HasColumn(dateCol) {
		dateCol = movementDateColumnFallback
	}
	if !df.HasColumn(dateCol) {
		logrus.Warn("Coluna de data de movimento ausente para derivar Ano-Mês")
		return false
	}

	values := make([]any, df.NumRows())
	for row := range values {
		if t, ok := df.At(row, dateCol).(time.Time); ok {
			values[row] = t.Format("2006-01")
		}
	}
	if err := df.AddColumn(domain.AnoMesKey, values); err != nil {
		logrus.WithError(err).Warn("Erro ao derivar coluna Ano-Mês")
		return false
	}
	return true
}

func buildBarChart(df *domain.Frame, plan *domain.ChartPlan, xAxis, yAxis string) *domain.ChartSpec {
	var traces []domain.Trace

	if plan.Color != "" && df.HasColumn(plan.Color) {
		// Barras agrupadas: uma trace por valor da dimensão secundária,
		// lado a lado em vez de empilhadas.
		traces = barTracesByColor(df, plan.Color, xAxis, yAxis)
	} else {
		x := make([]any, df.NumRows())
		y := make([]any, df.NumRows())
		for row := 0; row < df.NumRows(); row++ {
			x[row] = domain.CellText(df.At(row, xAxis))
			y[row] = df.At(row, yAxis)
		}
		traces = []domain.Trace{{Type: "bar", X: x, Y: y}}
	}

	// Rótulo inteiro com separador de milhar acima de cada barra.
	for i := range traces {
		traces[i].TextTemplate = "%{value:,.0f}"
		traces[i].TextPosition = "outside"
	}

	layout := domain.BaseLayout(plan.Title)
	layout.BarMode = "group"

	return &domain.ChartSpec{Data: traces, Layout: layout}
}

func barTracesByColor(df *domain.Frame, colorCol, xAxis, yAxis string) []domain.Trace {
	order := make([]string, 0)
	byColor := make(map[string]*domain.Trace)

	for row := 0; row < df.NumRows(); row++ {
		name := domain.CellText(df.At(row, colorCol))
		trace, ok := byColor[name]
		if !ok {
			trace = &domain.Trace{Type: "bar", Name: name}
			byColor[name] = trace
			order = append(order, name)
		}
		trace.X = append(trace.X, domain.CellText(df.At(row, xAxis)))
		trace.Y = append(trace.Y, df.At(row, yAxis))
	}

	traces := make([]domain.Trace, 0, len(order))
	for _, name := range order {
		traces = append(traces, *byColor[name])
	}
	return traces
}

func buildPieChart(df *domain.Frame, plan *domain.ChartPlan, xAxis, yAxis string) *domain.ChartSpec {
	labels := make([]any, df.NumRows())
	values := make([]any, df.NumRows())
	for row := 0; row < df.NumRows(); row++ {
		labels[row] = domain.CellText(df.At(row, xAxis))
		values[row] = df.At(row, yAxis)
	}

	trace := domain.Trace{
		Type:         "pie",
		Labels:       labels,
		Values:       values,
		TextInfo:     "percent+label",
		TextTemplate: "%{label}<br>%{percent:1.1%}",
	}
	// O donut difere do pie apenas pelo furo central.
	if plan.ChartType == "donut" {
		trace.Hole = domain.DonutHole
	}

	return &domain.ChartSpec{
		Data:   []domain.Trace{trace},
		Layout: domain.BaseLayout(plan.Title),
	}
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func dedup(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
