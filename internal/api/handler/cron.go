package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/internal/scheduler"
	"github.com/dataconversa/data-analyst-api/pkg/apiErrors"
)

// CronJobServices contém as rotinas em segundo plano expostas para
// disparo e inspeção manuais.
type CronJobServices struct {
	DriveWatcherService *scheduler.DriveWatcherService
}

// RunCronJob dispara manualmente a verificação do Drive.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		if services.DriveWatcherService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Rotina de verificação do Drive não disponível", nil)
			return
		}

		services.DriveWatcherService.TriggerManualSync()

		response := map[string]any{
			"message": "Verificação do Drive iniciada com sucesso",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resposta de cron")
		}
	}
}

// GetCronStatus retorna o status das rotinas em segundo plano.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		if services.DriveWatcherService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Rotina de verificação do Drive não disponível", nil)
			return
		}

		status := map[string]any{
			"drive-watcher": services.DriveWatcherService.GetStatus(),
		}

		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("Erro ao serializar status de cron")
		}
	}
}
