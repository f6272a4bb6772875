package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/infrastructure/cache"
	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive"
	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive/driveclient"
	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/gemini"
	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/gemini/geminiclient"
	"github.com/dataconversa/data-analyst-api/internal/api"
	"github.com/dataconversa/data-analyst-api/internal/config"
	"github.com/dataconversa/data-analyst-api/internal/scheduler"
	"github.com/dataconversa/data-analyst-api/internal/session"
	"github.com/dataconversa/data-analyst-api/internal/usecases/answering"
	"github.com/dataconversa/data-analyst-api/internal/usecases/charting"
	"github.com/dataconversa/data-analyst-api/internal/usecases/loading"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A aplicação sobe mesmo sem o Drive configurado; as perguntas passam
	// a responder que os dados estão indisponíveis.
	var driveIntegrator drive.DriveIntegrator
	driveClient, err := driveclient.NewClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Error("Erro ao conectar ao Google Drive. O dataset ficará indisponível.")
	} else {
		driveIntegrator = drive.New(cfg, driveClient)
		logrus.Info("Conexão com o Google Drive estabelecida com sucesso")
	}

	geminiClient, err := geminiclient.NewClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar o cliente do Gemini")
	}
	geminiIntegrator := gemini.New(cfg, geminiClient)

	datasetCache := cache.New()

	loader := loading.NewService(driveIntegrator, datasetCache, cfg)

	// Aquecimento: carrega o dataset antes de aceitar requisições, para a
	// primeira pergunta não pagar o download dos CSVs.
	if _, err := loader.Load(ctx); err != nil {
		logrus.WithError(err).Warn("Dataset indisponível na inicialização; nova tentativa na primeira pergunta")
	}

	renderer := charting.NewService()
	answerer := answering.NewService(geminiIntegrator, renderer)

	sessions := session.NewStore(cfg.Session.SecretKey)

	driveWatcherService := scheduler.NewDriveWatcherService(driveIntegrator, loader, cfg)
	if err := driveWatcherService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar a rotina de verificação do Drive")
	} else {
		logrus.Info("Rotina de verificação do Drive iniciada com sucesso")
	}

	server, err := api.New(
		cfg,
		loader,
		answerer,
		sessions,
		driveWatcherService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
