package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	arenaerrors "github.com/vango-dev/snakearena/internal/errors"
	"github.com/vango-dev/snakearena/pkg/protocol"
)

// Transport carries protocol messages to and from the server.
type Transport interface {
	// Send writes one message. Sends are fire-and-forget; there is no acknowledgment.
	Send(msg protocol.Message) error

	// Receive blocks for the next server message.
	Receive() (protocol.Message, error)

	// Close ends the connection. Receive then returns an error.
	Close() error
}

const writeWait = 5 * time.Second

// wsTransport is a Transport over a gorilla websocket.
type wsTransport struct {
	conn  *websocket.Conn
	codec protocol.Codec

	// gorilla allows one concurrent writer.
	writeMu sync.Mutex
	closed  bool
}

// Dial connects to url asking for the named codec. The server may fall back to JSON.
func Dial(ctx context.Context, url, codec string) (Transport, error) {
	want, err := protocol.CodecByName(codec)
	if err != nil {
		return nil, err
	}

	d := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		Subprotocols:     []string{want.Name()},
	}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, arenaerrors.New("E301").
			WithDetailf("dial %s", url).
			WithSuggestion("check that `snakearena serve` is running and ARENA_SERVER_URL is correct").
			Wrap(err)
	}

	got, err := protocol.CodecByName(conn.Subprotocol())
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &wsTransport{conn: conn, codec: got}, nil
}

func (t *wsTransport) Send(msg protocol.Message) error {
	frame, err := protocol.Encode(t.codec, msg)
	if err != nil {
		return err
	}
	mt := websocket.TextMessage
	if t.codec.Binary() {
		mt = websocket.BinaryMessage
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if t.closed {
		return ErrTransportClosed
	}
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteMessage(mt, frame)
}

// Receive skips frames it cannot decode and returns the next valid message.
func (t *wsTransport) Receive() (protocol.Message, error) {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, arenaerrors.New("E302").WithDetail("server closed the channel").Wrap(err)
			}
			return nil, arenaerrors.New("E302").Wrap(err)
		}
		env, err := t.codec.DecodeEnvelope(data)
		if err != nil {
			continue
		}
		msg, err := protocol.DecodeOutbound(env)
		if err != nil {
			continue
		}
		return msg, nil
	}
}

func (t *wsTransport) Close() error {
	t.writeMu.Lock()
	if t.closed {
		t.writeMu.Unlock()
		return nil
	}
	t.closed = true
	t.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	t.writeMu.Unlock()

	err := t.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
