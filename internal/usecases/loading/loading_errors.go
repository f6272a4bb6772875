package loading

import "github.com/pkg/errors"

var (
	// ErrDataUnavailable cobre qualquer falha de carga: conexão com o Drive
	// nunca estabelecida, tabela obrigatória ausente ou erro de
	// download/parse. O chamador mostra uma mensagem genérica ao usuário.
	ErrDataUnavailable = errors.New("dados não disponíveis para análise")
)
