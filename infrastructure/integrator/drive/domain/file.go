package domain

// RemoteFile é o metadado de um arquivo listado no Drive, suficiente para
// detecção de mudanças (ModifiedTime) e download posterior (ID).
type RemoteFile struct {
	ID           string
	Name         string
	ModifiedTime string
}
