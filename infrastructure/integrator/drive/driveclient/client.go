package driveclient

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/dataconversa/data-analyst-api/internal/config"
	drivedomain "github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive/domain"
)

type Client interface {
	ListFiles(ctx context.Context, folderID, mimeType string) ([]drivedomain.RemoteFile, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type DriveClient struct {
	service *drive.Service
}

// NewClient autentica no Google Drive com a conta de serviço configurada,
// com permissão somente de leitura.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	service, err := drive.NewService(ctx,
		option.WithCredentialsFile(cfg.Drive.CredentialsFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao autenticar no Google Drive")
	}

	return &DriveClient{service: service}, nil
}

// ListFiles lista os arquivos de um tipo dentro da pasta, com id, nome e
// data de modificação.
func (c *DriveClient) ListFiles(ctx context.Context, folderID, mimeType string) ([]drivedomain.RemoteFile, error) {
	query := "'" + folderID + "' in parents and mimeType='" + mimeType + "'"

	result, err := c.service.Files.List().
		Q(query).
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar arquivos no Drive")
	}

	files := make([]drivedomain.RemoteFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, drivedomain.RemoteFile{
			ID:           f.Id,
			Name:         f.Name,
			ModifiedTime: f.ModifiedTime,
		})
	}
	return files, nil
}

// DownloadFile baixa os bytes brutos de um arquivo pelo id.
func (c *DriveClient) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao baixar arquivo %s do Drive", fileID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler conteúdo do arquivo %s", fileID)
	}
	return data, nil
}
