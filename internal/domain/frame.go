package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateMarker identifica colunas que devem ser tratadas como datas.
const DateMarker = "Data"

// Layouts aceitos ao coagir células de texto para data.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// Frame é uma tabela em memória com células de tipo dinâmico
// (string, float64, time.Time ou nil). É o resultado da junção dos
// arquivos remotos e a entrada do interpretador de gráficos.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

func NewFrame(cols ...string) *Frame {
	f := &Frame{cols: append([]string{}, cols...)}
	f.reindex()
	return f
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		f.index[c] = i
	}
}

func (f *Frame) Columns() []string { return append([]string{}, f.cols...) }

func (f *Frame) NumRows() int { return len(f.rows) }

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// At retorna a célula na linha row da coluna name (nil se a coluna não existe).
func (f *Frame) At(row int, name string) any {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return f.rows[row][i]
}

func (f *Frame) AppendRow(cells ...any) error {
	if len(cells) != len(f.cols) {
		return errors.Errorf("linha com %d células para %d colunas", len(cells), len(f.cols))
	}
	f.rows = append(f.rows, append([]any{}, cells...))
	return nil
}

func (f *Frame) RenameColumn(old, new string) {
	i, ok := f.index[old]
	if !ok {
		return
	}
	f.cols[i] = new
	f.reindex()
}

// AddColumn acrescenta uma coluna calculada. values deve ter uma célula por linha.
func (f *Frame) AddColumn(name string, values []any) error {
	if len(values) != len(f.rows) {
		return errors.Errorf("coluna %q com %d valores para %d linhas", name, len(values), len(f.rows))
	}
	f.cols = append(f.cols, name)
	f.reindex()
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], values[i])
	}
	return nil
}

// Clone devolve uma cópia profunda das linhas. O interpretador trabalha
// sempre sobre um clone para não alterar o dataset em cache.
func (f *Frame) Clone() *Frame {
	c := NewFrame(f.cols...)
	c.rows = make([][]any, len(f.rows))
	for i, r := range f.rows {
		c.rows[i] = append([]any{}, r...)
	}
	return c
}

// Filter devolve um novo Frame apenas com as linhas aprovadas pelo predicado.
func (f *Frame) Filter(pred func(row int) bool) *Frame {
	out := NewFrame(f.cols...)
	for i := range f.rows {
		if pred(i) {
			out.rows = append(out.rows, f.rows[i])
		}
	}
	return out
}

// LeftJoin junta right em f preservando todas as linhas de f (left outer).
// Chaves sem correspondência em right produzem células nil. Quando a chave
// de right se repete, vale a primeira ocorrência, mantendo a contagem de
// linhas do lado esquerdo. Colunas com nome repetido (exceto a chave)
// recebem os sufixos informados ("_x"/"_y" por omissão).
func (f *Frame) LeftJoin(right *Frame, on string, suffixes ...string) (*Frame, error) {
	if !f.HasColumn(on) {
		return nil, errors.Errorf("coluna de junção %q ausente no lado esquerdo", on)
	}
	if !right.HasColumn(on) {
		return nil, errors.Errorf("coluna de junção %q ausente no lado direito", on)
	}

	lsuffix, rsuffix := "_x", "_y"
	if len(suffixes) == 2 {
		lsuffix, rsuffix = suffixes[0], suffixes[1]
	}

	// Colunas em colisão (fora a chave) ganham sufixo dos dois lados.
	collisions := make(map[string]bool)
	for _, c := range right.cols {
		if c != on && f.HasColumn(c) {
			collisions[c] = true
		}
	}

	outCols := make([]string, 0, len(f.cols)+len(right.cols)-1)
	for _, c := range f.cols {
		if collisions[c] {
			outCols = append(outCols, c+lsuffix)
		} else {
			outCols = append(outCols, c)
		}
	}
	rightCols := make([]int, 0, len(right.cols)-1)
	for i, c := range right.cols {
		if c == on {
			continue
		}
		rightCols = append(rightCols, i)
		if collisions[c] {
			outCols = append(outCols, c+rsuffix)
		} else {
			outCols = append(outCols, c)
		}
	}

	// Índice da primeira ocorrência de cada chave do lado direito.
	byKey := make(map[string]int, len(right.rows))
	rightOn := right.index[on]
	for i, r := range right.rows {
		k := CellText(r[rightOn])
		if _, seen := byKey[k]; !seen {
			byKey[k] = i
		}
	}

	out := NewFrame(outCols...)
	leftOn := f.index[on]
	for _, lr := range f.rows {
		row := append([]any{}, lr...)
		if ri, ok := byKey[CellText(lr[leftOn])]; ok {
			for _, ci := range rightCols {
				row = append(row, right.rows[ri][ci])
			}
		} else {
			for range rightCols {
				row = append(row, nil)
			}
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// CoerceDates converte para time.Time toda coluna cujo nome contém o
// marcador de data. Valores que não puderem ser interpretados viram nil,
// nunca erro.
func (f *Frame) CoerceDates() {
	for _, c := range f.cols {
		if strings.Contains(c, DateMarker) {
			f.CoerceColumnDates(c)
		}
	}
}

// CoerceColumnDates converte uma única coluna para data (falhas viram nil).
func (f *Frame) CoerceColumnDates(name string) {
	i, ok := f.index[name]
	if !ok {
		return
	}
	for r := range f.rows {
		f.rows[r][i] = coerceDate(f.rows[r][i])
	}
}

func coerceDate(cell any) any {
	switch v := cell.(type) {
	case time.Time:
		return v
	case string:
		if t, ok := ParseAnyDate(v); ok {
			return t
		}
		return nil
	default:
		return nil
	}
}

// ParseAnyDate tenta os layouts de data conhecidos, na ordem.
func ParseAnyDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GroupByAggregate agrupa pelas colunas keys e aplica fn sobre aggCol,
// produzindo uma linha por combinação distinta de chaves, na ordem de
// primeira aparição. Funções aceitas: sum, mean/avg/average, count, min, max.
func (f *Frame) GroupByAggregate(keys []string, aggCol, fn string) (*Frame, error) {
	for _, k := range keys {
		if !f.HasColumn(k) {
			return nil, errors.Errorf("coluna de agrupamento %q não existe", k)
		}
	}
	if !f.HasColumn(aggCol) {
		return nil, errors.Errorf("coluna de agregação %q não existe", aggCol)
	}

	type bucket struct {
		keyCells []any
		values   []float64
		nonNil   int
	}

	order := make([]string, 0)
	buckets := make(map[string]*bucket)
	for r := range f.rows {
		parts := make([]string, len(keys))
		cells := make([]any, len(keys))
		for i, k := range keys {
			cells[i] = f.At(r, k)
			parts[i] = CellText(cells[i])
		}
		key := strings.Join(parts, "\x1f")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{keyCells: cells}
			buckets[key] = b
			order = append(order, key)
		}
		cell := f.At(r, aggCol)
		if cell != nil {
			b.nonNil++
		}
		if v, ok := ToFloat(cell); ok {
			b.values = append(b.values, v)
		}
	}

	out := NewFrame(append(append([]string{}, keys...), aggCol)...)
	for _, key := range order {
		b := buckets[key]
		v, err := aggregate(fn, b.values, b.nonNil)
		if err != nil {
			return nil, err
		}
		out.rows = append(out.rows, append(append([]any{}, b.keyCells...), v))
	}
	return out, nil
}

func aggregate(fn string, values []float64, nonNil int) (float64, error) {
	switch strings.ToLower(fn) {
	case "count":
		return float64(nonNil), nil
	case "sum":
		var total float64
		for _, v := range values {
			total += v
		}
		return total, nil
	case "mean", "avg", "average":
		if len(values) == 0 {
			return 0, nil
		}
		var total float64
		for _, v := range values {
			total += v
		}
		return total / float64(len(values)), nil
	case "min":
		if len(values) == 0 {
			return 0, nil
		}
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case "max":
		if len(values) == 0 {
			return 0, nil
		}
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	default:
		return 0, errors.Errorf("função de agregação desconhecida: %q", fn)
	}
}

// SortByColumn ordena as linhas pela coluna, ascendente. Células nil vão
// para o fim.
func (f *Frame) SortByColumn(name string) {
	i, ok := f.index[name]
	if !ok {
		return
	}
	sort.SliceStable(f.rows, func(a, b int) bool {
		return lessCell(f.rows[a][i], f.rows[b][i])
	})
}

func lessCell(a, b any) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	}
	return CellText(a) < CellText(b)
}

// SchemaString descreve nome e tipo de cada coluna, uma por linha,
// no formato enviado ao modelo no prompt.
func (f *Frame) SchemaString() string {
	var sb strings.Builder
	for _, c := range f.cols {
		sb.WriteString(fmt.Sprintf("%-30s %s\n", c, f.columnDType(c)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *Frame) columnDType(name string) string {
	i := f.index[name]
	for _, r := range f.rows {
		switch r[i].(type) {
		case float64:
			return "float64"
		case time.Time:
			return "datetime64"
		case string:
			return "object"
		}
	}
	return "object"
}

// HeadString devolve as n primeiras linhas em texto tabulado (amostra
// enviada ao modelo no prompt).
func (f *Frame) HeadString(n int) string {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(f.cols, "\t"))
	for r := 0; r < n; r++ {
		sb.WriteString("\n")
		parts := make([]string, len(f.cols))
		for i := range f.cols {
			parts[i] = CellText(f.rows[r][i])
		}
		sb.WriteString(strings.Join(parts, "\t"))
	}
	return sb.String()
}

// FrameFromCSV interpreta bytes CSV: primeira linha como cabeçalho, valores
// numéricos detectados como float64, campos vazios como nil.
func FrameFromCSV(data []byte) (*Frame, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler cabeçalho do CSV")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	frame := NewFrame(header...)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		// Registro malformado (contagem de campos errada, aspas quebradas)
		// invalida o arquivo inteiro; uma tabela truncada em silêncio
		// produziria análises sobre dados parciais.
		if err != nil {
			return nil, errors.Wrap(err, "erro ao ler registro do CSV")
		}
		cells := make([]any, len(record))
		for i, field := range record {
			cells[i] = parseCSVCell(field)
		}
		if err := frame.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func parseCSVCell(field string) any {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(field, 64); err == nil {
		return v
	}
	return field
}

// CellText formata uma célula como chave/texto estável.
func CellText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFloat converte células numéricas (ou texto numérico) para float64.
func ToFloat(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
