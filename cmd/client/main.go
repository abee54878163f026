package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/transport"
)

var log = logging.MustGetLogger("client")

const sendTimeout = 30 * time.Second

func main() {
	cfg, err := application.ParseFlags(flag.CommandLine, os.Args[1:], application.RoleClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := application.SetupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	app := application.NewApplicationLayer()
	app.MostrarConfiguracion(cfg, application.RoleClient)

	if err := run(cfg, app); err != nil {
		app.MostrarResultado(false, err.Error())
		os.Exit(1)
	}
}

func run(cfg *application.Config, app *application.ApplicationLayer) error {
	message, err := os.ReadFile(cfg.File)
	if err != nil {
		return errors.Wrapf(err, "leyendo %s", cfg.File)
	}

	codec, err := frame.NewCodec(cfg.WordSize)
	if err != nil {
		return err
	}
	framer, err := frame.NewFramer(codec)
	if err != nil {
		return err
	}
	blocks, err := framer.EncodeBlocks(message)
	if err != nil {
		return err
	}

	var nl *noise.NoiseLayer
	if cfg.Seed != 0 {
		nl = noise.NewNoiseLayerWithSeed(cfg.Seed)
	} else {
		nl = noise.NewNoiseLayer()
	}
	injector, err := noise.NewInjector(nl, cfg.Errors, cfg.Probability)
	if err != nil {
		return err
	}
	if injector.Enabled() {
		stats, err := injector.InjectBlocks(blocks)
		if err != nil {
			return err
		}
		app.MostrarInyeccion(stats)
	}

	bits := frame.Join(blocks)
	if cfg.BER > 0 {
		res, err := nl.AplicarRuido(bits, cfg.BER)
		if err != nil {
			return err
		}
		log.Infof("%d errores de bit inyectados en %d bits (BER real: %.4f)",
			res.ErrorsInjected, res.TotalBits, res.ActualBER)
		bits = res.NoisyBits
	}
	wire := presentation.BitsToSymbols(bits)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	start := time.Now()
	switch cfg.Transport {
	case application.TransportWebSocket:
		err = transport.SendWebSocket(ctx, cfg.URL(), wire, cfg.ChunkSize)
	default:
		err = transport.Send(ctx, cfg.Addr(), wire)
	}
	if err != nil {
		return err
	}

	app.MostrarResultado(true, fmt.Sprintf("%d bytes en %d bloques de %d bits (%v)",
		len(message), len(blocks), codec.BlockSize(), time.Since(start)))
	return nil
}
