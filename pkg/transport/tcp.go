package transport

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
)

// Server acepta conexiones TCP; cada conexión es una sesión que termina
// cuando el emisor cierra su lado de escritura.
type Server struct {
	Addr string

	sessions
}

// NewServer crea un servidor TCP. codec se comparte entre todas las sesiones.
func NewServer(addr string, codec *frame.Codec, handler Handler) *Server {
	return &Server{
		Addr: addr,
		sessions: sessions{
			codec:   codec,
			handler: handler,
			bufSize: DefaultReadBufferSize,
		},
	}
}

// ListenAndServe escucha en s.Addr hasta que ctx se cancele
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "escuchando en %s", s.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve acepta conexiones de ln hasta que ctx se cancele. Espera a que
// terminen las sesiones en curso antes de volver.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	log.Infof("escuchando en %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "aceptando conexión")
		}

		id := s.newID()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			// una lectura bloqueada no mira ctx
			unblock := context.AfterFunc(ctx, func() { conn.Close() })
			defer unblock()
			s.run(ctx, id, conn.RemoteAddr().String(), conn)
		}()
	}
}

// Send envía wire completo a addr por TCP y cierra el lado de escritura,
// que el receptor interpreta como fin del flujo.
func Send(ctx context.Context, addr string, wire []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "conectando a %s", addr)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(wire); err != nil {
		return errors.Wrapf(err, "enviando %d bytes a %s", len(wire), addr)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			return errors.Wrap(err, "cerrando escritura")
		}
	}
	log.Debugf("enviados %d bytes a %s", len(wire), addr)
	return nil
}
