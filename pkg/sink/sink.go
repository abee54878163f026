// Package sink guarda los mensajes reconstruidos en archivos, uno por sesión.
package sink

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("sink")

// DefaultPrefix es el prefijo usado cuando no se configura otro
const DefaultPrefix = "default_file"

// FileSink escribe cada mensaje en Prefix seguido del id de sesión
type FileSink struct {
	Prefix string
}

// New crea un FileSink; un prefijo vacío usa DefaultPrefix
func New(prefix string) *FileSink {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &FileSink{Prefix: prefix}
}

// Path devuelve el archivo de la sesión id
func (s *FileSink) Path(id uint64) string {
	return s.Prefix + strconv.FormatUint(id, 10)
}

// Write guarda data para la sesión id y devuelve la ruta escrita
func (s *FileSink) Write(id uint64, data []byte) (string, error) {
	path := s.Path(id)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "creando %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "escribiendo %s", path)
	}
	log.Infof("sesión %d: %d bytes escritos en %s", id, len(data), path)
	return path, nil
}
