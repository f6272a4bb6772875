package handler

import (
	"net/http"

	"github.com/dataconversa/data-analyst-api/internal/api/handler/router"
	"github.com/dataconversa/data-analyst-api/internal/session"
	"github.com/dataconversa/data-analyst-api/internal/usecases/answering"
	"github.com/dataconversa/data-analyst-api/internal/usecases/loading"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Conversation retorna as rotas do chat analítico.
func Conversation(
	loader loading.Loader,
	answerer answering.Answerer,
	sessions *session.Store,
) []router.Route {
	return []router.Route{
		{
			Path:    "/ask",
			Method:  http.MethodPost,
			Handler: Ask(loader, answerer, sessions),
		},
	}
}

// Frontend retorna as rotas que servem os arquivos do chat.
func Frontend(staticDir string) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: Home(staticDir),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/refresh",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
