// Package transport lleva el flujo codificado entre emisor y receptor por TCP
// o WebSocket. Cada conexión aceptada es una sesión independiente con su
// propio stream.Decoder.
package transport

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/stream"
)

var log = logging.MustGetLogger("transport")

// DefaultReadBufferSize es el tamaño de lectura por defecto de cada sesión
const DefaultReadBufferSize = 64 * 1024

// Session es una sesión terminada correctamente
type Session struct {
	ID      uint64
	Remote  string
	Message *stream.Message
}

// Handler recibe cada sesión terminada. Se llama desde la goroutine de la sesión.
type Handler func(Session) error

// Receive lee r hasta io.EOF alimentando dec y devuelve el mensaje reconstruido
func Receive(ctx context.Context, r io.Reader, dec *stream.Decoder, bufSize int) (*stream.Message, error) {
	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}
	buf := make([]byte, bufSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := dec.Feed(buf[:n]); ferr != nil {
				return nil, ferr
			}
		}
		if err == io.EOF {
			return dec.Finish()
		}
		if err != nil {
			return nil, errors.Wrap(err, "error de lectura")
		}
	}
}

// sessions agrupa lo común a los servidores TCP y WebSocket
type sessions struct {
	codec   *frame.Codec
	handler Handler
	bufSize int
	nextID  atomic.Uint64
}

func (s *sessions) newID() uint64 {
	return s.nextID.Add(1) - 1
}

// run procesa una sesión completa; los errores se registran y no se propagan
func (s *sessions) run(ctx context.Context, id uint64, remote string, r io.Reader) {
	log.Infof("sesión %d: conexión desde %s", id, remote)

	dec, err := stream.NewDecoder(s.codec)
	if err != nil {
		log.Errorf("sesión %d: %v", id, err)
		return
	}
	msg, err := Receive(ctx, r, dec, s.bufSize)
	if err != nil {
		if stream.IsFramingError(err) {
			log.Errorf("sesión %d: error de trama: %v", id, err)
		} else {
			log.Errorf("sesión %d: %v", id, err)
		}
		return
	}

	log.Infof("sesión %d: %d bytes reconstruidos, errores simples: %d, dobles: %d, múltiples: %d",
		id, len(msg.Data), msg.Tally[frame.Corrected], msg.Tally[frame.Double], msg.Tally[frame.Uncorrectable])
	if s.handler == nil {
		return
	}
	if err := s.handler(Session{ID: id, Remote: remote, Message: msg}); err != nil {
		log.Errorf("sesión %d: %v", id, err)
	}
}
