package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
)

// DefaultChunkSize es el tamaño de cada mensaje binario que envía SendWebSocket
const DefaultChunkSize = 4096

const writeTimeout = 5 * time.Second

// WebSocketServer recibe sesiones por WebSocket. Cada mensaje binario es un
// fragmento del flujo; un cierre normal es el fin del flujo.
type WebSocketServer struct {
	sessions

	upgrader websocket.Upgrader
}

// NewWebSocketServer crea un http.Handler que decodifica con codec
func NewWebSocketServer(codec *frame.Codec, handler Handler) *WebSocketServer {
	return &WebSocketServer{
		sessions: sessions{
			codec:   codec,
			handler: handler,
			bufSize: DefaultReadBufferSize,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  DefaultReadBufferSize,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("upgrade desde %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	id := s.newID()
	s.run(r.Context(), id, conn.RemoteAddr().String(), &messageReader{conn: conn})
}

// ListenAndServe sirve WebSocket en addr hasta que ctx se cancele
func (s *WebSocketServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	stop := context.AfterFunc(ctx, func() { srv.Close() })
	defer stop()

	log.Infof("escuchando WebSocket en %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "escuchando en %s", addr)
	}
	return nil
}

// messageReader concatena los mensajes de conn como un io.Reader
type messageReader struct {
	conn *websocket.Conn
	cur  io.Reader
}

func (m *messageReader) Read(p []byte) (int, error) {
	for {
		if m.cur == nil {
			_, r, err := m.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return 0, io.EOF
				}
				return 0, err
			}
			m.cur = r
		}
		n, err := m.cur.Read(p)
		if err == io.EOF {
			m.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// SendWebSocket se conecta a url, envía wire en mensajes binarios de
// chunkSize bytes y cierra la conexión normalmente, esperando el cierre del receptor.
func SendWebSocket(ctx context.Context, url string, wire []byte, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return errors.Wrapf(err, "conectando a %s", url)
	}
	defer conn.Close()

	for off := 0; off < len(wire); off += chunkSize {
		end := off + chunkSize
		if end > len(wire) {
			end = len(wire)
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, wire[off:end]); err != nil {
			return errors.Wrapf(err, "enviando bytes %d-%d", off, end)
		}
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeTimeout)); err != nil {
		return errors.Wrap(err, "enviando cierre")
	}

	conn.SetReadDeadline(time.Now().Add(writeTimeout))
	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Debugf("enviados %d bytes a %s", len(wire), url)
				return nil
			}
			return errors.Wrap(err, "esperando cierre del receptor")
		}
	}
}
