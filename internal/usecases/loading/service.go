// Package loading implementa a carga do dataset: busca os CSVs no Drive,
// junta tudo em uma única tabela ancorada nos movimentos e memoiza o
// resultado com expiração por tempo.
package loading

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/infrastructure/cache"
	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive"
	"github.com/dataconversa/data-analyst-api/internal/config"
	"github.com/dataconversa/data-analyst-api/internal/domain"
)

// Papéis lógicos das cinco tabelas, mapeados por nome de arquivo
// (minúsculo). Arquivos fora desta lista são ignorados.
const (
	roleParceiros     = "parceiros"
	roleClientes      = "clientes"
	roleContas        = "contas"
	roleMovimentos    = "movimentos"
	roleClassificacao = "classificacao"
)

var csvRoles = map[string]string{
	"parceiros.csv":                      roleParceiros,
	"clientes.csv":                       roleClientes,
	"contas.csv":                         roleContas,
	"movimentos_contas.csv":              roleMovimentos,
	"classificacao_ultimo_movimento.csv": roleClassificacao,
}

const datasetCacheKey = "dataset"

type Loader interface {
	Load(ctx context.Context) (*domain.Frame, error)
	Refresh(ctx context.Context) (*domain.Frame, error)
	Invalidate()
	ModificationTimes() map[string]string
}

type Service struct {
	driveService drive.DriveIntegrator
	cache        *cache.Cache
	cfg          *config.Config

	// Data de modificação por nome de arquivo, para a rotina de
	// verificação comparar com o que está no Drive.
	mu       sync.RWMutex
	modTimes map[string]string
}

func NewService(driveService drive.DriveIntegrator, cacheService *cache.Cache, cfg *config.Config) Loader {
	return &Service{
		driveService: driveService,
		cache:        cacheService,
		cfg:          cfg,
		modTimes:     make(map[string]string),
	}
}

// Load devolve o dataset do cache, recarregando do Drive quando a entrada
// expirou ou foi invalidada.
func (s *Service) Load(ctx context.Context) (*domain.Frame, error) {
	if v, ok := s.cache.Get(datasetCacheKey); ok {
		if frame, ok := v.(*domain.Frame); ok {
			return frame, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh faz a carga completa do Drive, ignorando o cache, e grava o
// resultado com o TTL configurado.
func (s *Service) Refresh(ctx context.Context) (*domain.Frame, error) {
	logrus.Info("Iniciando carga completa do Google Drive (não do cache)")

	if s.driveService == nil {
		logrus.Error("Conexão com o Drive não estabelecida; carga abortada")
		return nil, ErrDataUnavailable
	}

	files, err := s.driveService.ListCSVFiles(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar arquivos no Drive")
		return nil, ErrDataUnavailable
	}

	tables := make(map[string]*domain.Frame, len(csvRoles))
	for _, file := range files {
		role, ok := csvRoles[strings.ToLower(file.Name)]
		if !ok {
			continue
		}

		data, err := s.driveService.Download(ctx, file.ID)
		if err != nil {
			logrus.WithError(err).WithField("file", file.Name).Error("Erro ao baixar arquivo do Drive")
			return nil, ErrDataUnavailable
		}

		frame, err := domain.FrameFromCSV(data)
		if err != nil {
			logrus.WithError(err).WithField("file", file.Name).Error("Erro ao interpretar CSV")
			return nil, ErrDataUnavailable
		}

		s.setModTime(file.Name, file.ModifiedTime)
		tables[role] = frame
	}

	frame, err := mergeTables(tables)
	if err != nil {
		logrus.WithError(err).Error("Erro ao juntar as tabelas do dataset")
		return nil, ErrDataUnavailable
	}

	s.cache.SetWithTTL(datasetCacheKey, frame, s.cfg.Dataset.CacheTTL)
	logrus.WithField("rows", frame.NumRows()).Info("Dados carregados e processados com sucesso")

	return frame, nil
}

// mergeTables junta as cinco tabelas na ordem fixa, sempre com left join
// ancorado nos movimentos, e coage as colunas de data no final.
func mergeTables(tables map[string]*domain.Frame) (*domain.Frame, error) {
	for _, role := range []string{roleParceiros, roleClientes, roleContas, roleMovimentos, roleClassificacao} {
		if tables[role] == nil {
			return nil, errors.Errorf("tabela obrigatória ausente: %s", role)
		}
	}

	// Alinha a chave da classificação com a coluna correspondente dos
	// movimentos antes da junção.
	tables[roleClassificacao].RenameColumn("Data_Ultimo_Movimento", "Data_Movimento")

	frame, err := tables[roleMovimentos].LeftJoin(tables[roleContas], "ID_Conta")
	if err != nil {
		return nil, err
	}
	frame, err = frame.LeftJoin(tables[roleClientes], "ID_Cliente")
	if err != nil {
		return nil, err
	}
	frame, err = frame.LeftJoin(tables[roleClassificacao], "ID_Conta", "_mov", "_class")
	if err != nil {
		return nil, err
	}
	frame, err = frame.LeftJoin(tables[roleParceiros], "ID_Parceiro")
	if err != nil {
		return nil, err
	}

	frame.CoerceDates()
	return frame, nil
}

// Invalidate descarta o dataset em cache. Chamado pela rotina de
// verificação quando um arquivo muda no Drive.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}

// ModificationTimes devolve uma cópia do mapa nome → data de modificação
// registrado na última carga.
func (s *Service) ModificationTimes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.modTimes))
	for k, v := range s.modTimes {
		out[k] = v
	}
	return out
}

func (s *Service) setModTime(name, modified string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modTimes[name] = modified
}
