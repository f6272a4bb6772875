package drive

import (
	"context"

	"github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive/driveclient"
	drivedomain "github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive/domain"
	"github.com/dataconversa/data-analyst-api/internal/config"
)

// CSVMimeType é o único tipo de conteúdo considerado na pasta monitorada.
const CSVMimeType = "text/csv"

type DriveIntegrator interface {
	ListCSVFiles(ctx context.Context) ([]drivedomain.RemoteFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

type DriveService struct {
	cfg    *config.Config
	Client driveclient.Client
}

func New(cfg *config.Config, client driveclient.Client) DriveIntegrator {
	return &DriveService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *DriveService) ListCSVFiles(ctx context.Context) ([]drivedomain.RemoteFile, error) {
	return s.Client.ListFiles(ctx, s.cfg.Drive.FolderID, CSVMimeType)
}

func (s *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	return s.Client.DownloadFile(ctx, fileID)
}
