package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Home serve a página principal do chat.
func Home(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})
}

// StaticFiles serve os demais arquivos do frontend. Registrado como
// handler de rota não encontrada, então precisa devolver 404 de verdade
// quando o arquivo não existe.
func StaticFiles(staticDir string) http.Handler {
	fileServer := http.FileServer(http.Dir(staticDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}

		// Bloqueia tentativas de escapar do diretório de estáticos.
		cleaned := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
		if strings.HasPrefix(cleaned, "..") {
			http.NotFound(w, r)
			return
		}

		if _, err := os.Stat(filepath.Join(staticDir, cleaned)); err != nil {
			logrus.WithField("path", r.URL.Path).Debug("Arquivo estático não encontrado")
			http.NotFound(w, r)
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}
