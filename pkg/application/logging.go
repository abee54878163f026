package application

import (
	"os"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{module} %{level:.4s} %{message}`,
)

// SetupLogging envía los logs de todos los módulos a stderr con el nivel indicado
func SetupLogging(level string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "nivel de log %q", level)
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), logFormat)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}
