package domain

// ChartSpec é a figura pronta para o cliente, no formato de figura do
// Plotly (lista de traces + layout). Não é persistida.
type ChartSpec struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace é uma série de dados da figura (barras ou fatias).
type Trace struct {
	Type         string  `json:"type"`
	Name         string  `json:"name,omitempty"`
	X            []any   `json:"x,omitempty"`
	Y            []any   `json:"y,omitempty"`
	Labels       []any   `json:"labels,omitempty"`
	Values       []any   `json:"values,omitempty"`
	Hole         float64 `json:"hole,omitempty"`
	TextTemplate string  `json:"texttemplate,omitempty"`
	TextPosition string  `json:"textposition,omitempty"`
	TextInfo     string  `json:"textinfo,omitempty"`
}

type Layout struct {
	Title        Title   `json:"title"`
	BarMode      string  `json:"barmode,omitempty"`
	Margin       Margin  `json:"margin"`
	PaperBgColor string  `json:"paper_bgcolor"`
	PlotBgColor  string  `json:"plot_bgcolor"`
	Legend       *Legend `json:"legend,omitempty"`
}

type Title struct {
	Text string    `json:"text"`
	X    float64   `json:"x"`
	Font TitleFont `json:"font"`
}

type TitleFont struct {
	Size int `json:"size"`
}

type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

// Legend posiciona a legenda na horizontal, acima do gráfico e alinhada
// à esquerda.
type Legend struct {
	Orientation string      `json:"orientation"`
	YAnchor     string      `json:"yanchor"`
	Y           float64     `json:"y"`
	XAnchor     string      `json:"xanchor"`
	X           float64     `json:"x"`
	Title       LegendTitle `json:"title"`
}

type LegendTitle struct {
	Text string `json:"text"`
}

// DonutHole é a proporção do furo central para gráficos donut
// (0 para pie).
const DonutHole = 0.4

// BaseLayout monta o layout comum a todos os tipos de gráfico: título
// centralizado, fundos transparentes para embutir sobre qualquer página e
// margens fixas ajustadas para a visibilidade dos rótulos.
func BaseLayout(title string) Layout {
	return Layout{
		Title: Title{
			Text: title,
			X:    0.5,
			Font: TitleFont{Size: 15},
		},
		Margin:       Margin{T: 60, B: 80, L: 10, R: 40},
		PaperBgColor: "rgba(0,0,0,0)",
		PlotBgColor:  "rgba(0,0,0,0)",
		Legend: &Legend{
			Orientation: "h",
			YAnchor:     "top",
			Y:           1.1,
			XAnchor:     "left",
			X:           0.01,
		},
	}
}
