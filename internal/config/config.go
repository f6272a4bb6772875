package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App     App     `mapstructure:",squash"`
	Server  Server  `mapstructure:",squash"`
	Gemini  Gemini  `mapstructure:",squash"`
	Drive   Drive   `mapstructure:",squash"`
	Dataset Dataset `mapstructure:",squash"`
	Watcher Watcher `mapstructure:",squash"`
	Session Session `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

type Gemini struct {
	APIKey string `mapstructure:"gemini_api_key"`
	Model  string `mapstructure:"gemini_model"`
}

type Drive struct {
	CredentialsFile string `mapstructure:"drive_credentials_file"`
	FolderID        string `mapstructure:"drive_folder_id"`
}

type Dataset struct {
	CacheTTL time.Duration `mapstructure:"dataset_cache_ttl"`
}

type Watcher struct {
	PollInterval time.Duration `mapstructure:"watcher_poll_interval"`
	Enabled      bool          `mapstructure:"watcher_enabled"`
}

type Session struct {
	SecretKey string `mapstructure:"session_secret_key"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", 5000)

	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	viper.SetDefault("DRIVE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("DRIVE_FOLDER_ID", "")

	viper.SetDefault("STATIC_DIR", "./static")

	// Recarga completa do Drive no máximo uma vez por hora, a menos que a
	// rotina de verificação detecte mudança antes.
	viper.SetDefault("DATASET_CACHE_TTL", "1h")

	viper.SetDefault("WATCHER_POLL_INTERVAL", "60s")
	viper.SetDefault("WATCHER_ENABLED", true)

	viper.SetDefault("SESSION_SECRET_KEY", "substitua-por-uma-chave-secreta-forte")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Gemini.APIKey == "" {
		logrus.Error("GEMINI_API_KEY não está configurada; as perguntas ao modelo vão falhar")
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Info("Nenhum arquivo .env encontrado; usando variáveis de ambiente")
}
