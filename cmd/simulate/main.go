package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/stream"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/transport"
)

// Simulator codifica, corrompe y decodifica mensajes sin salir del proceso
type Simulator struct {
	framer    *frame.Framer
	injector  *noise.Injector
	noise     *noise.NoiseLayer
	ber       float64
	chunkSize int
}

// TransmissionResult contiene el resultado de una transmisión simulada
type TransmissionResult struct {
	Original  []byte
	Received  *stream.Message
	Injection *noise.InjectionStats
	BitErrors int
	Success   bool
	Error     error
	TotalTime time.Duration
}

// NewSimulator crea un simulador con la configuración validada
func NewSimulator(cfg *application.Config) (*Simulator, error) {
	codec, err := frame.NewCodec(cfg.WordSize)
	if err != nil {
		return nil, err
	}
	framer, err := frame.NewFramer(codec)
	if err != nil {
		return nil, err
	}

	nl := noise.NewNoiseLayer()
	if cfg.Seed != 0 {
		nl = noise.NewNoiseLayerWithSeed(cfg.Seed)
	}
	injector, err := noise.NewInjector(nl, cfg.Errors, cfg.Probability)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		framer:    framer,
		injector:  injector,
		noise:     nl,
		ber:       cfg.BER,
		chunkSize: cfg.ChunkSize,
	}, nil
}

// ProcessMessage transmite message por el canal simulado
func (s *Simulator) ProcessMessage(ctx context.Context, message []byte) (*TransmissionResult, error) {
	start := time.Now()
	result := &TransmissionResult{Original: message}

	blocks, err := s.framer.EncodeBlocks(message)
	if err != nil {
		return nil, err
	}
	result.Injection, err = s.injector.InjectBlocks(blocks)
	if err != nil {
		return nil, err
	}

	bits := frame.Join(blocks)
	if s.ber > 0 {
		res, err := s.noise.AplicarRuido(bits, s.ber)
		if err != nil {
			return nil, err
		}
		bits = res.NoisyBits
		result.BitErrors = res.ErrorsInjected
	}

	dec, err := stream.NewDecoder(s.framer.Codec())
	if err != nil {
		return nil, err
	}
	wire := presentation.BitsToSymbols(bits)
	result.Received, result.Error = transport.Receive(ctx, bytes.NewReader(wire), dec, s.chunkSize)
	result.Success = result.Error == nil && bytes.Equal(result.Received.Data, message)
	result.TotalTime = time.Since(start)
	return result, nil
}

// RunBenchmark ejecuta count transmisiones y acumula las estadísticas
func (s *Simulator) RunBenchmark(ctx context.Context, message []byte, count int) (*application.Estadisticas, error) {
	stats := &application.Estadisticas{}
	for i := 0; i < count; i++ {
		if i%100 == 0 && i > 0 {
			fmt.Printf("   Progreso: %d/%d (%.1f%%)\n", i, count, float64(i)/float64(count)*100)
		}
		result, err := s.ProcessMessage(ctx, message)
		if err != nil {
			return nil, errors.Wrapf(err, "transmisión %d", i)
		}
		var tally stream.Tally
		if result.Received != nil {
			tally = result.Received.Tally
		}
		stats.Agregar(result.Success, tally, result.TotalTime)
	}
	return stats, nil
}

func main() {
	cfg, err := application.ParseFlags(flag.CommandLine, os.Args[1:], application.RoleSimulate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuración inválida: %v\n", err)
		os.Exit(2)
	}
	if err := application.SetupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(2)
	}

	app := application.NewApplicationLayer()
	var message []byte
	switch {
	case cfg.File != "":
		message, err = os.ReadFile(cfg.File)
	case cfg.Text != "":
		message = []byte(cfg.Text)
	default:
		var text string
		text, err = app.SolicitarMensaje()
		message = []byte(text)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error leyendo mensaje: %v\n", err)
		os.Exit(1)
	}

	sim, err := NewSimulator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error en configuración: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🚀 Simulador Hamming SECDED")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	app.MostrarConfiguracion(cfg, application.RoleSimulate)

	ctx := context.Background()
	if cfg.Count == 1 {
		result, err := sim.ProcessMessage(ctx, message)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Error en transmisión: %v\n", err)
			os.Exit(1)
		}
		app.MostrarInyeccion(result.Injection)
		if result.Error != nil {
			app.MostrarResultado(false, result.Error.Error())
			os.Exit(1)
		}
		app.MostrarErrores(result.Received)
		app.MostrarResultado(result.Success, fmt.Sprintf("%d bytes, %d errores de bit (%v)",
			len(result.Received.Data), result.BitErrors, result.TotalTime))
		return
	}

	stats, err := sim.RunBenchmark(ctx, message, cfg.Count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error en benchmark: %v\n", err)
		os.Exit(1)
	}
	app.MostrarEstadisticas(stats)
}
