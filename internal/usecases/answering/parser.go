package answering

import "strings"

// ExtractJSON recorta o primeiro objeto JSON de um texto livre: do
// primeiro '{' ao último '}'. O modelo costuma envolver o JSON em cercas
// de markdown ou texto solto; este é o único ponto onde isso é tratado.
// Devolve nil quando não há um par de chaves — falha explícita, não
// exceção.
func ExtractJSON(text string) []byte {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil
	}
	return []byte(text[start : end+1])
}
