package storage

import "io"

type FileRepository interface {
	SaveFile(docID string, reader io.Reader) (string, error)
	LoadFile(location string) (io.ReadCloser, error)
	DeleteFile(location string) error
}
