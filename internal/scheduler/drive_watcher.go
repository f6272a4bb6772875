// Package scheduler contém a rotina de verificação em segundo plano que
// vigia a pasta do Drive por mudanças nos arquivos do dataset.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive"
	"github.com/dataconversa/data-analyst-api/internal/config"
	"github.com/dataconversa/data-analyst-api/internal/usecases/loading"
)

type DriveWatcherConfig struct {
	PollInterval time.Duration
	Enabled      bool
}

// DriveWatcherService compara, em intervalo fixo, as datas de modificação
// dos arquivos no Drive com as registradas na última carga. Ao detectar
// mudança, invalida o cache do dataset e dispara a recarga imediatamente,
// para a próxima requisição não pagar a carga fria.
type DriveWatcherService struct {
	scheduler    *gocron.Scheduler
	driveService drive.DriveIntegrator
	loader       loading.Loader
	config       DriveWatcherConfig

	checkRunning         bool
	checkMutex           sync.Mutex
	lastCheckStartedAt   time.Time
	lastCheckCompletedAt time.Time
	lastChangeDetectedAt time.Time
}

func NewDriveWatcherService(
	driveService drive.DriveIntegrator,
	loader loading.Loader,
	cfg *config.Config,
) *DriveWatcherService {
	watcherConfig := DriveWatcherConfig{
		PollInterval: cfg.Watcher.PollInterval, // Default: 60s
		Enabled:      cfg.Watcher.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"poll_interval": watcherConfig.PollInterval.String(),
	}).Info("Configuração da rotina de verificação do Drive carregada")

	return &DriveWatcherService{
		scheduler:    scheduler,
		driveService: driveService,
		loader:       loader,
		config:       watcherConfig,
	}
}

func (s *DriveWatcherService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Rotina de verificação do Drive desabilitada por configuração")
		return nil
	}

	logrus.WithField("poll_interval", s.config.PollInterval.String()).
		Info("Iniciando rotina de verificação de atualizações do Drive")

	_, err := s.scheduler.Every(s.config.PollInterval).Do(func() {
		s.CheckForUpdates(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()

	// Parada cooperativa quando o contexto da aplicação for cancelado.
	go func() {
		<-ctx.Done()
		logrus.Info("Parando rotina de verificação do Drive")
		s.scheduler.Stop()
	}()

	return nil
}

// CheckForUpdates faz uma verificação única: lista os arquivos do Drive e
// compara as datas de modificação com as registradas pelo carregador.
func (s *DriveWatcherService) CheckForUpdates(ctx context.Context) {
	s.checkMutex.Lock()
	if s.checkRunning {
		s.checkMutex.Unlock()
		logrus.Debug("Verificação do Drive já em execução; pulando")
		return
	}
	s.checkRunning = true
	s.lastCheckStartedAt = time.Now()
	s.checkMutex.Unlock()

	defer func() {
		s.checkMutex.Lock()
		s.checkRunning = false
		s.lastCheckCompletedAt = time.Now()
		s.checkMutex.Unlock()
	}()

	logrus.Debug("Verificando atualizações no Google Drive")

	if s.driveService == nil {
		return
	}

	files, err := s.driveService.ListCSVFiles(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro na rotina de verificação periódica")
		return
	}

	known := s.loader.ModificationTimes()
	for _, file := range files {
		previous, tracked := known[file.Name]
		if !tracked || previous == file.ModifiedTime {
			continue
		}

		logrus.WithField("file", file.Name).Info("Mudança detectada. Limpando o cache.")

		s.checkMutex.Lock()
		s.lastChangeDetectedAt = time.Now()
		s.checkMutex.Unlock()

		// Invalida tudo e recarrega já, atualizando também as datas de
		// modificação e evitando limpezas repetidas.
		s.loader.Invalidate()
		if _, err := s.loader.Refresh(ctx); err != nil {
			logrus.WithError(err).Error("Erro ao recarregar o dataset após mudança no Drive")
		}
		break
	}
}

// TriggerManualSync dispara manualmente uma verificação do Drive.
func (s *DriveWatcherService) TriggerManualSync() {
	logrus.Info("Iniciando verificação manual do Drive")
	go s.CheckForUpdates(context.Background())
}

// GetStatus retorna o estado atual da rotina de verificação.
func (s *DriveWatcherService) GetStatus() map[string]any {
	s.checkMutex.Lock()
	defer s.checkMutex.Unlock()

	return map[string]any{
		"enabled":                 s.config.Enabled,
		"poll_interval":           s.config.PollInterval.String(),
		"last_check_started_at":   s.lastCheckStartedAt,
		"last_check_completed_at": s.lastCheckCompletedAt,
		"last_change_detected_at": s.lastChangeDetectedAt,
	}
}
