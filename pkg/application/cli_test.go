package application

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/stream"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.File = "mensaje.txt"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid client", role: RoleClient, modify: func(*Config) {}},
		{name: "valid server", role: RoleServer, modify: func(c *Config) { c.File = "" }},
		{name: "valid simulate", role: RoleSimulate, modify: func(c *Config) { c.Count = 100; c.BER = 0.01 }},
		{name: "errors equal block size", role: RoleClient, modify: func(c *Config) { c.Errors = 40 }},
		{name: "negative word size", role: RoleServer, modify: func(c *Config) { c.WordSize = -1 }, wantErr: frame.ErrNegativeWordSize},
		{name: "zero word size", role: RoleServer, modify: func(c *Config) { c.WordSize = 0 }, wantErr: frame.ErrWordSizeTooSmall},
		{name: "port out of range", role: RoleServer, modify: func(c *Config) { c.Port = 70000 }, wantErr: ErrInvalidConfig},
		{name: "unknown transport", role: RoleServer, modify: func(c *Config) { c.Transport = "udp" }, wantErr: ErrInvalidConfig},
		{name: "unknown log level", role: RoleServer, modify: func(c *Config) { c.LogLevel = "verbose" }, wantErr: ErrInvalidConfig},
		{name: "too many errors", role: RoleClient, modify: func(c *Config) { c.Errors = 41 }, wantErr: ErrInvalidConfig},
		{name: "negative errors", role: RoleClient, modify: func(c *Config) { c.Errors = -1 }, wantErr: ErrInvalidConfig},
		{name: "invalid probability", role: RoleClient, modify: func(c *Config) { c.Probability = 1.5 }, wantErr: ErrInvalidConfig},
		{name: "invalid BER - negative", role: RoleSimulate, modify: func(c *Config) { c.BER = -0.1 }, wantErr: ErrInvalidConfig},
		{name: "client without file", role: RoleClient, modify: func(c *Config) { c.File = "" }, wantErr: ErrInvalidConfig},
		{name: "simulate with zero count", role: RoleSimulate, modify: func(c *Config) { c.Count = 0 }, wantErr: ErrInvalidConfig},
		{name: "server ignores injection", role: RoleServer, modify: func(c *Config) { c.Errors = 1000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate(tt.role)
			if errors.Cause(err) != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateNil(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(RoleServer); errors.Cause(err) != ErrInvalidConfig {
		t.Errorf("Validate(nil) error = %v", err)
	}
}

func TestConfig_Addr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Addr(); got != "localhost:9911" {
		t.Errorf("Addr() = %q", got)
	}
	if got := cfg.URL(); got != "ws://localhost:9911/" {
		t.Errorf("URL() = %q", got)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "host: receptor\nport: 9000\nword_size: 4\ntransport: ws\nerrors: 1\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Host != "receptor" || cfg.Port != 9000 || cfg.WordSize != 4 || cfg.Transport != "ws" || cfg.Errors != 1 {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want default INFO", cfg.LogLevel)
	}

	if _, err := LoadConfig(writeFile(t, "bad.yaml", "palabra: 3\n")); err == nil {
		t.Error("LoadConfig() con campo desconocido: se esperaba error")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() sin archivo: se esperaba error")
	}
}

func TestParseFlags(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "host: receptor\nport: 9000\nword_size: 8\nfile: desde_yaml\n")

	tests := []struct {
		name  string
		role  Role
		args  []string
		check func(*testing.T, *Config)
	}{
		{
			name: "client defaults",
			role: RoleClient,
			args: []string{"-file", "a.txt"},
			check: func(t *testing.T, c *Config) {
				if c.Addr() != "localhost:9911" || c.WordSize != 33 || c.File != "a.txt" {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "server binds all interfaces",
			role: RoleServer,
			args: []string{"-file", "recibido_"},
			check: func(t *testing.T, c *Config) {
				if c.Host != "" || c.File != "recibido_" {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "flags override config file",
			role: RoleClient,
			args: []string{"-config", path, "-n", "16", "-errors", "2"},
			check: func(t *testing.T, c *Config) {
				if c.Host != "receptor" || c.Port != 9000 {
					t.Errorf("host/port = %s, want receptor:9000", c.Addr())
				}
				if c.WordSize != 16 || c.Errors != 2 || c.File != "desde_yaml" {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "simulate text",
			role: RoleSimulate,
			args: []string{"-text", "hola", "-count", "10", "-ber", "0.05", "-seed", "7"},
			check: func(t *testing.T, c *Config) {
				if c.Text != "hola" || c.Count != 10 || c.BER != 0.05 || c.Seed != 7 {
					t.Errorf("config = %+v", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			cfg, err := ParseFlags(fs, tt.args, tt.role)
			if err != nil {
				t.Fatalf("ParseFlags() error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		role Role
		args []string
	}{
		{name: "client without file", role: RoleClient, args: nil},
		{name: "unknown flag", role: RoleServer, args: []string{"-errors", "1"}},
		{name: "bad transport", role: RoleServer, args: []string{"-transport", "udp"}},
		{name: "missing config file", role: RoleServer, args: []string{"-config", "/no/existe.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			if _, err := ParseFlags(fs, tt.args, tt.role); err == nil {
				t.Error("ParseFlags() se esperaba error")
			}
		})
	}
}

func TestSolicitarMensaje(t *testing.T) {
	var out bytes.Buffer
	app := NewApplicationLayerWith(strings.NewReader("  Hola mundo  \n"), &out)
	text, err := app.SolicitarMensaje()
	if err != nil {
		t.Fatalf("SolicitarMensaje() error: %v", err)
	}
	if text != "Hola mundo" {
		t.Errorf("SolicitarMensaje() = %q", text)
	}
	if !strings.Contains(out.String(), "Ingrese el mensaje") {
		t.Errorf("prompt = %q", out.String())
	}

	for _, in := range []string{"", "   \n"} {
		app := NewApplicationLayerWith(strings.NewReader(in), io.Discard)
		if _, err := app.SolicitarMensaje(); err == nil {
			t.Errorf("SolicitarMensaje(%q) se esperaba error", in)
		}
	}
}

func TestApplicationLayer_Output(t *testing.T) {
	var out bytes.Buffer
	app := NewApplicationLayerWith(strings.NewReader(""), &out)

	app.MostrarConfiguracion(validConfig(), RoleClient)
	if !strings.Contains(out.String(), "bloque: 40 bits") {
		t.Errorf("MostrarConfiguracion() = %q", out.String())
	}

	out.Reset()
	app.MostrarResultado(true, "5 bytes")
	app.MostrarResultado(false, "conexión rechazada")
	if got := out.String(); !strings.Contains(got, "✅ Transmisión exitosa: 5 bytes") || !strings.Contains(got, "❌ Error en transmisión: conexión rechazada") {
		t.Errorf("MostrarResultado() = %q", got)
	}

	out.Reset()
	app.MostrarErrores(&stream.Message{
		Blocks:       4,
		Tally:        stream.Tally{frame.Clean: 2, frame.Corrected: 1, frame.Double: 1},
		TrailerValid: false,
	})
	got := out.String()
	for _, want := range []string{"Total de bloques: 4", "error doble detectado:", "Palabra final inválida", "1 bloques no confiables"} {
		if !strings.Contains(got, want) {
			t.Errorf("MostrarErrores() falta %q en %q", want, got)
		}
	}
}

func TestEstadisticas(t *testing.T) {
	var e Estadisticas
	e.Agregar(true, stream.Tally{frame.Clean: 3}, 10*time.Millisecond)
	e.Agregar(false, stream.Tally{frame.Clean: 1, frame.Double: 2}, 30*time.Millisecond)

	if e.Total != 2 || e.Successful != 1 || e.Failed != 1 {
		t.Errorf("Estadisticas = %+v", e)
	}
	if e.SuccessRate() != 0.5 {
		t.Errorf("SuccessRate() = %v", e.SuccessRate())
	}
	if e.Tally[frame.Clean] != 4 || e.Tally[frame.Double] != 2 {
		t.Errorf("Tally = %v", e.Tally)
	}

	var out bytes.Buffer
	NewApplicationLayerWith(strings.NewReader(""), &out).MostrarEstadisticas(&e)
	if !strings.Contains(out.String(), "Tasa de éxito: 50.00%") || !strings.Contains(out.String(), "Tiempo promedio: 20.00ms") {
		t.Errorf("MostrarEstadisticas() = %q", out.String())
	}
}

func TestSetupLogging(t *testing.T) {
	if err := SetupLogging("DEBUG"); err != nil {
		t.Errorf("SetupLogging(DEBUG) error: %v", err)
	}
	if err := SetupLogging("ruidoso"); errors.Cause(err) != ErrInvalidConfig {
		t.Errorf("SetupLogging(ruidoso) error = %v", err)
	}
}
