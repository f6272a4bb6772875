package loading

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dataconversa/data-analyst-api/infrastructure/cache"
	drivedomain "github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive/domain"
	drivemocks "github.com/dataconversa/data-analyst-api/infrastructure/integrator/drive/mocks"
	"github.com/dataconversa/data-analyst-api/internal/config"
)

var testCSVs = map[string]string{
	"parceiros.csv":                      "ID_Parceiro,Nome_Parceiro\nP1,Banco Azul\n",
	"clientes.csv":                       "ID_Cliente,Nome_Cliente,UF\nCL1,Ana,SP\nCL2,Bruno,RJ\n",
	"contas.csv":                         "ID_Conta,ID_Cliente,ID_Parceiro,Tipo_Conta\nC1,CL1,P1,corrente\nC2,CL2,P1,poupança\n",
	"movimentos_contas.csv":              "ID_Movimento,ID_Conta,Data_Movimento,Valor\nM1,C1,2024-01-10,100.50\nM2,C1,2024-02-20,200.00\nM3,C9,2024-03-05,50.00\n",
	"classificacao_ultimo_movimento.csv": "ID_Conta,Data_Ultimo_Movimento,Classificacao\nC1,2024-02-20,ativa\n",
}

func testConfig() *config.Config {
	return &config.Config{
		Dataset: config.Dataset{CacheTTL: time.Minute},
	}
}

func remoteFiles() []drivedomain.RemoteFile {
	files := make([]drivedomain.RemoteFile, 0, len(testCSVs))
	for name := range testCSVs {
		files = append(files, drivedomain.RemoteFile{
			ID:           "id-" + name,
			Name:         name,
			ModifiedTime: "2024-06-01T00:00:00.000Z",
		})
	}
	return files
}

func expectFullDownload(mockDrive *drivemocks.MockDriveIntegrator) {
	mockDrive.EXPECT().ListCSVFiles(gomock.Any()).Return(remoteFiles(), nil)
	for name, content := range testCSVs {
		mockDrive.EXPECT().Download(gomock.Any(), "id-"+name).Return([]byte(content), nil)
	}
}

func TestService_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDrive := drivemocks.NewMockDriveIntegrator(ctrl)
	expectFullDownload(mockDrive)

	service := NewService(mockDrive, cache.New(), testConfig())

	frame, err := service.Load(context.Background())

	require.NoError(t, err)
	// A junção preserva a contagem de linhas dos movimentos
	assert.Equal(t, 3, frame.NumRows())

	// Colisão Data_Movimento x classificação recebe sufixos
	assert.True(t, frame.HasColumn("Data_Movimento_mov"))
	assert.True(t, frame.HasColumn("Data_Movimento_class"))

	// Colunas de data coagidas para datetime
	_, ok := frame.At(0, "Data_Movimento_mov").(time.Time)
	assert.True(t, ok)

	// Movimento da conta C1 enriquecido por toda a cadeia de junções
	assert.Equal(t, "Ana", frame.At(0, "Nome_Cliente"))
	assert.Equal(t, "Banco Azul", frame.At(0, "Nome_Parceiro"))
	assert.Equal(t, "ativa", frame.At(0, "Classificacao"))

	// Conta C9 não existe: colunas da direita preenchidas com nulo
	assert.Nil(t, frame.At(2, "Nome_Cliente"))
	assert.Nil(t, frame.At(2, "Classificacao"))

	// Datas de modificação registradas para a rotina de verificação
	times := service.ModificationTimes()
	assert.Len(t, times, len(testCSVs))
	assert.Equal(t, "2024-06-01T00:00:00.000Z", times["movimentos_contas.csv"])
}

func TestService_Load_UsaCacheNaSegundaChamada(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDrive := drivemocks.NewMockDriveIntegrator(ctrl)
	// Uma única carga completa, apesar das duas chamadas
	expectFullDownload(mockDrive)

	service := NewService(mockDrive, cache.New(), testConfig())
	ctx := context.Background()

	first, err := service.Load(ctx)
	require.NoError(t, err)

	second, err := service.Load(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestService_Load_RecarregaAposInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDrive := drivemocks.NewMockDriveIntegrator(ctrl)
	expectFullDownload(mockDrive)
	expectFullDownload(mockDrive)

	service := NewService(mockDrive, cache.New(), testConfig())
	ctx := context.Background()

	_, err := service.Load(ctx)
	require.NoError(t, err)

	service.Invalidate()

	_, err = service.Load(ctx)
	require.NoError(t, err)
}

func TestService_Refresh_Erros(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mockDrive *drivemocks.MockDriveIntegrator)
	}{
		{
			name: "Erro ao listar arquivos",
			setup: func(mockDrive *drivemocks.MockDriveIntegrator) {
				mockDrive.EXPECT().
					ListCSVFiles(gomock.Any()).
					Return(nil, errors.New("drive fora do ar"))
			},
		},
		{
			name: "Arquivo obrigatório ausente",
			setup: func(mockDrive *drivemocks.MockDriveIntegrator) {
				files := []drivedomain.RemoteFile{
					{ID: "id-parceiros.csv", Name: "parceiros.csv", ModifiedTime: "2024-06-01T00:00:00.000Z"},
				}
				mockDrive.EXPECT().ListCSVFiles(gomock.Any()).Return(files, nil)
				mockDrive.EXPECT().
					Download(gomock.Any(), "id-parceiros.csv").
					Return([]byte(testCSVs["parceiros.csv"]), nil)
			},
		},
		{
			name: "CSV com linha corrompida",
			setup: func(mockDrive *drivemocks.MockDriveIntegrator) {
				mockDrive.EXPECT().ListCSVFiles(gomock.Any()).Return(remoteFiles(), nil)
				for name, content := range testCSVs {
					if name == "movimentos_contas.csv" {
						// Linha com campo a mais no meio do arquivo
						content = "ID_Movimento,ID_Conta,Data_Movimento,Valor\nM1,C1,2024-01-10,100.50\nM2,C1,2024-02-20,200.00,EXTRA\n"
					}
					mockDrive.EXPECT().
						Download(gomock.Any(), "id-"+name).
						Return([]byte(content), nil).
						AnyTimes()
				}
			},
		},
		{
			name: "Erro no download",
			setup: func(mockDrive *drivemocks.MockDriveIntegrator) {
				files := []drivedomain.RemoteFile{
					{ID: "id-clientes.csv", Name: "clientes.csv", ModifiedTime: "2024-06-01T00:00:00.000Z"},
				}
				mockDrive.EXPECT().ListCSVFiles(gomock.Any()).Return(files, nil)
				mockDrive.EXPECT().
					Download(gomock.Any(), "id-clientes.csv").
					Return(nil, errors.New("permissão negada"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDrive := drivemocks.NewMockDriveIntegrator(ctrl)
			tt.setup(mockDrive)

			service := NewService(mockDrive, cache.New(), testConfig())

			_, err := service.Load(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDataUnavailable)
		})
	}
}

func TestService_Load_SemConexaoComDrive(t *testing.T) {
	service := NewService(nil, cache.New(), testConfig())

	_, err := service.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestService_Refresh_IgnoraArquivosForaDoDataset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDrive := drivemocks.NewMockDriveIntegrator(ctrl)

	files := append(remoteFiles(), drivedomain.RemoteFile{
		ID:           "id-notas.csv",
		Name:         "notas.csv",
		ModifiedTime: "2024-06-01T00:00:00.000Z",
	})
	mockDrive.EXPECT().ListCSVFiles(gomock.Any()).Return(files, nil)
	for name, content := range testCSVs {
		mockDrive.EXPECT().Download(gomock.Any(), "id-"+name).Return([]byte(content), nil)
	}
	// Nenhum Download esperado para notas.csv

	service := NewService(mockDrive, cache.New(), testConfig())

	frame, err := service.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, frame.NumRows())
}
