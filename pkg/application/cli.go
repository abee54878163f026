package application

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
)

// ErrInvalidConfig indica un parámetro de configuración inválido
var ErrInvalidConfig = errors.New("configuración inválida")

// Role selecciona qué parámetros acepta y exige cada ejecutable
type Role int

const (
	RoleServer Role = iota
	RoleClient
	RoleSimulate
)

// Transportes soportados
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

// Valores por defecto
const (
	DefaultPort     = 9911
	DefaultWordSize = 33
)

// Config contiene la configuración de servidor, cliente y simulador.
// Se carga de un YAML opcional y luego se sobrescribe con flags.
type Config struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"`
	// File es el archivo a enviar (cliente, simulador) o el prefijo de salida (servidor)
	File     string `yaml:"file"`
	Text     string `yaml:"text"`
	WordSize int    `yaml:"word_size"`

	Errors      int     `yaml:"errors"`      // errores por bloque corrompido
	Probability float64 `yaml:"probability"` // probabilidad de corromper cada bloque
	BER         float64 `yaml:"ber"`         // probabilidad de error por bit
	Seed        int64   `yaml:"seed"`        // 0: semilla aleatoria

	ChunkSize int    `yaml:"chunk_size"`
	Count     int    `yaml:"count"`
	LogLevel  string `yaml:"log_level"`
}

// DefaultConfig devuelve la configuración por defecto
func DefaultConfig() *Config {
	return &Config{
		Host:      "localhost",
		Port:      DefaultPort,
		Transport: TransportTCP,
		WordSize:  DefaultWordSize,
		Count:     1,
		LogLevel:  "INFO",
	}
}

// LoadConfig lee un archivo YAML sobre los valores por defecto
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.load(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "leyendo configuración %s", path)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return errors.Wrapf(err, "interpretando configuración %s", path)
	}
	return nil
}

// Addr devuelve host:puerto
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL devuelve la URL WebSocket del receptor
func (c *Config) URL() string {
	return "ws://" + c.Addr() + "/"
}

// ParseFlags registra en fs los flags de role, los interpreta y devuelve la
// configuración validada. Si se indica -config, el archivo se carga primero
// y los flags explícitos tienen prioridad.
func ParseFlags(fs *flag.FlagSet, args []string, role Role) (*Config, error) {
	cfg := DefaultConfig()
	var configFile string

	fs.StringVar(&configFile, "config", "", "archivo de configuración YAML")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "puerto TCP")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transporte: tcp o ws")
	fs.IntVar(&cfg.WordSize, "n", cfg.WordSize, "bits de datos por palabra")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "nivel de log (DEBUG, INFO, WARNING, ERROR)")

	switch role {
	case RoleServer:
		fs.StringVar(&cfg.Host, "bind", "", "dirección donde escuchar")
		fs.StringVar(&cfg.File, "file", "", "prefijo de los archivos recibidos")
	case RoleClient, RoleSimulate:
		if role == RoleClient {
			fs.StringVar(&cfg.Host, "host", cfg.Host, "servidor destino")
		} else {
			fs.StringVar(&cfg.Text, "text", "", "mensaje a transmitir (si no hay -file)")
			fs.IntVar(&cfg.Count, "count", cfg.Count, "cantidad de transmisiones")
		}
		fs.StringVar(&cfg.File, "file", "", "archivo a enviar")
		fs.IntVar(&cfg.Errors, "errors", 0, "errores por bloque corrompido")
		fs.Float64Var(&cfg.Probability, "probability", 0, "probabilidad de corromper cada bloque")
		fs.Float64Var(&cfg.BER, "ber", 0, "probabilidad de error por bit")
		fs.Int64Var(&cfg.Seed, "seed", 0, "semilla del ruido (0: aleatoria)")
		fs.IntVar(&cfg.ChunkSize, "chunk", 0, "bytes por fragmento enviado (0: por defecto)")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configFile != "" {
		explicit := make(map[string]string)
		fs.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
		if err := cfg.load(configFile); err != nil {
			return nil, err
		}
		for name, value := range explicit {
			if err := fs.Set(name, value); err != nil {
				return nil, errors.Wrapf(err, "flag -%s", name)
			}
		}
	}

	if err := cfg.Validate(role); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica que la configuración sea válida para role
func (c *Config) Validate(role Role) error {
	if c == nil {
		return errors.Wrap(ErrInvalidConfig, "configuración es nil")
	}
	layout, err := frame.NewLayout(c.WordSize)
	if err != nil {
		return err
	}
	if c.WordSize < 1 {
		return errors.Wrapf(frame.ErrWordSizeTooSmall, "n=%d", c.WordSize)
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Wrapf(ErrInvalidConfig, "puerto %d fuera de rango", c.Port)
	}
	if c.Transport != TransportTCP && c.Transport != TransportWebSocket {
		return errors.Wrapf(ErrInvalidConfig, "transporte %q (usar tcp o ws)", c.Transport)
	}
	if _, err := logging.LogLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "nivel de log %q", c.LogLevel)
	}
	if role == RoleServer {
		return nil
	}

	if c.Errors < 0 || c.Errors > layout.BlockSize() {
		return errors.Wrapf(ErrInvalidConfig, "errores por bloque %d (debe estar entre 0 y %d)", c.Errors, layout.BlockSize())
	}
	if c.Probability < 0.0 || c.Probability > 1.0 {
		return errors.Wrapf(ErrInvalidConfig, "probabilidad %.3f (debe estar entre 0.0 y 1.0)", c.Probability)
	}
	if c.BER < 0.0 || c.BER > 1.0 {
		return errors.Wrapf(ErrInvalidConfig, "BER %.3f (debe estar entre 0.0 y 1.0)", c.BER)
	}
	if c.ChunkSize < 0 {
		return errors.Wrapf(ErrInvalidConfig, "tamaño de fragmento %d", c.ChunkSize)
	}

	switch role {
	case RoleClient:
		if c.File == "" {
			return errors.Wrap(ErrInvalidConfig, "falta el archivo a enviar")
		}
	case RoleSimulate:
		if c.Count <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "cantidad de iteraciones inválida: %d", c.Count)
		}
	}
	return nil
}

// ApplicationLayer maneja la interacción con el usuario
type ApplicationLayer struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewApplicationLayer crea una instancia sobre stdin y stdout
func NewApplicationLayer() *ApplicationLayer {
	return NewApplicationLayerWith(os.Stdin, os.Stdout)
}

// NewApplicationLayerWith crea una instancia sobre in y out
func NewApplicationLayerWith(in io.Reader, out io.Writer) *ApplicationLayer {
	return &ApplicationLayer{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// SolicitarMensaje pide al usuario el mensaje a transmitir
func (app *ApplicationLayer) SolicitarMensaje() (string, error) {
	fmt.Fprint(app.out, "Ingrese el mensaje a transmitir: ")
	if !app.scanner.Scan() {
		if err := app.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "error leyendo mensaje")
		}
		return "", errors.New("error leyendo mensaje")
	}
	text := strings.TrimSpace(app.scanner.Text())
	if text == "" {
		return "", errors.New("el mensaje no puede estar vacío")
	}
	return text, nil
}

// MostrarConfiguracion muestra la configuración seleccionada
func (app *ApplicationLayer) MostrarConfiguracion(cfg *Config, role Role) {
	layout, err := frame.NewLayout(cfg.WordSize)
	if err != nil {
		return
	}
	fmt.Fprintln(app.out, "\n📋 Configuración:")
	fmt.Fprintf(app.out, "   Palabra: %d bits, paridad: %d bits, bloque: %d bits\n",
		layout.WordSize(), layout.ParityBits(), layout.BlockSize())
	fmt.Fprintf(app.out, "   Transporte: %s (%s)\n", strings.ToUpper(cfg.Transport), cfg.Addr())
	if role != RoleServer {
		if cfg.File != "" {
			fmt.Fprintf(app.out, "   Archivo: %s\n", cfg.File)
		}
		fmt.Fprintf(app.out, "   Errores por bloque: %d, probabilidad: %.3f\n", cfg.Errors, cfg.Probability)
		fmt.Fprintf(app.out, "   BER: %.3f (%.1f%%)\n", cfg.BER, cfg.BER*100)
	}
	if role == RoleSimulate {
		fmt.Fprintf(app.out, "   Iteraciones: %d\n", cfg.Count)
	}
	fmt.Fprintln(app.out)
}

// MostrarResultado muestra el resultado de la transmisión
func (app *ApplicationLayer) MostrarResultado(success bool, details string) {
	if success {
		fmt.Fprintf(app.out, "✅ Transmisión exitosa: %s\n", details)
	} else {
		fmt.Fprintf(app.out, "❌ Error en transmisión: %s\n", details)
	}
}
