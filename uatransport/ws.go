package uatransport

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"opcuacore/uaerrors"
)

// wsTransport is the WebSocket backend. Each WS message already carries
// its own frame boundary, so one ReadMessage maps to exactly one
// OnMessage event (no reassembly needed at this layer, unlike tcpTransport).
type wsTransport struct {
	url    string
	events Events
	logger *zap.Logger

	state stateBox

	mu   sync.Mutex
	conn *websocket.Conn

	// writeMu serializes WriteMessage: the websocket connection supports
	// only one concurrent writer.
	writeMu sync.Mutex

	closeOnce sync.Once
}

func newWSTransport(wsURL string, events Events, logger *zap.Logger) *wsTransport {
	return &wsTransport{url: wsURL, events: events, logger: logger}
}

func (t *wsTransport) State() State {
	return t.state.get()
}

func (t *wsTransport) Open(ctx context.Context, openTimeout time.Duration) error {
	t.state.set(Opening)

	dialCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: openTimeout,
		Subprotocols:     []string{"opcua+uacp"},
	}
	conn, _, err := dialer.DialContext(dialCtx, t.url, nil)
	if err != nil {
		t.state.set(Closed)
		if dialCtx.Err() != nil {
			return uaerrors.New(uaerrors.KindTimeout, "websocket dial %s exceeded open_timeout", t.url)
		}
		return uaerrors.Wrap(uaerrors.KindCommunication, err, "websocket dial %s failed", t.url)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	t.state.set(Open)
	go t.readLoop()
	return nil
}

func (t *wsTransport) readLoop() {
	for {
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn == nil {
			return
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if t.state.get() != Closed {
				t.state.set(Closed)
				if t.logger != nil {
					t.logger.Debug("websocket transport read failed", zap.Error(err))
				}
				if t.events.OnError != nil {
					t.events.OnError(uaerrors.Wrap(uaerrors.KindCommunication, err, "websocket read failed"))
				}
				t.signalClose()
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		if t.events.OnMessage != nil {
			t.events.OnMessage(data)
		}
	}
}

func (t *wsTransport) Write(b []byte) error {
	if t.state.get() != Open {
		return uaerrors.New(uaerrors.KindServerNotConnected, "websocket transport is not open")
	}
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return uaerrors.New(uaerrors.KindServerNotConnected, "websocket transport is not open")
	}
	t.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, b)
	t.writeMu.Unlock()
	if err != nil {
		return uaerrors.Wrap(uaerrors.KindCommunication, err, "websocket write failed")
	}
	return nil
}

func (t *wsTransport) Close(err error) error {
	if t.state.get() == Closed {
		return nil
	}
	t.state.set(Closing)
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	var closeErr error
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		closeErr = conn.Close()
	}
	t.state.set(Closed)
	if err != nil && t.events.OnError != nil {
		if ue, ok := err.(*uaerrors.UaError); ok {
			t.events.OnError(ue)
		} else {
			t.events.OnError(uaerrors.Wrap(uaerrors.KindCommunication, err, "transport closed"))
		}
	}
	t.signalClose()
	return closeErr
}

func (t *wsTransport) signalClose() {
	t.closeOnce.Do(func() {
		if t.events.OnClose != nil {
			t.events.OnClose()
		}
	})
}
