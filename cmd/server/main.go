package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/op/go-logging"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/sink"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/transport"
)

var log = logging.MustGetLogger("server")

func main() {
	cfg, err := application.ParseFlags(flag.CommandLine, os.Args[1:], application.RoleServer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := application.SetupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	codec, err := frame.NewCodec(cfg.WordSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error de configuración: %v\n", err)
		os.Exit(2)
	}
	files := sink.New(cfg.File)

	handler := func(s transport.Session) error {
		log.Infof("sesión %d (%s): bloques %d, simples: %d, dobles: %d, múltiples: %d",
			s.ID, s.Remote, s.Message.Blocks,
			s.Message.Tally[frame.Corrected], s.Message.Tally[frame.Double], s.Message.Tally[frame.Uncorrectable])
		_, err := files.Write(s.ID, s.Message.Data)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.NewApplicationLayer().MostrarConfiguracion(cfg, application.RoleServer)

	switch cfg.Transport {
	case application.TransportWebSocket:
		err = transport.NewWebSocketServer(codec, handler).ListenAndServe(ctx, cfg.Addr())
	default:
		err = transport.NewServer(cfg.Addr(), codec, handler).ListenAndServe(ctx)
	}
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	log.Info("servidor detenido")
}
