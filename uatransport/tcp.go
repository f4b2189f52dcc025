package uatransport

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"opcuacore/uaerrors"
)

// tcpTransport is a raw TCP byte-stream backend. Unlike the teacher's
// length-prefixed ClientTransport, it does not interpret frames itself —
// it forwards whatever bytes Read returns as one OnMessage event and lets
// the uacp layer above accumulate and delimit them.
type tcpTransport struct {
	addr   string
	events Events
	logger *zap.Logger

	state stateBox

	mu   sync.Mutex // guards conn; net.Conn itself allows concurrent Write calls
	conn net.Conn

	closeOnce sync.Once
}

func newTCPTransport(addr string, events Events, logger *zap.Logger) *tcpTransport {
	return &tcpTransport{addr: addr, events: events, logger: logger}
}

func (t *tcpTransport) State() State {
	return t.state.get()
}

func (t *tcpTransport) Open(ctx context.Context, openTimeout time.Duration) error {
	t.state.set(Opening)

	dialer := net.Dialer{Timeout: openTimeout}
	type dialResult struct {
		conn net.Conn
		err  error
	}
	resCh := make(chan dialResult, 1)
	go func() {
		conn, err := dialer.DialContext(ctx, "tcp", t.addr)
		resCh <- dialResult{conn, err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			t.state.set(Closed)
			return uaerrors.Wrap(uaerrors.KindCommunication, res.err, "tcp dial %s failed", t.addr)
		}
		t.mu.Lock()
		t.conn = res.conn
		t.mu.Unlock()
		t.state.set(Open)
		go t.readLoop()
		return nil
	case <-time.After(openTimeout):
		t.state.set(Closed)
		return uaerrors.New(uaerrors.KindTimeout, "tcp dial %s exceeded open_timeout", t.addr)
	}
}

func (t *tcpTransport) readLoop() {
	buf := make([]byte, 64*1024)
	for {
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn == nil {
			return
		}
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if t.events.OnMessage != nil {
				t.events.OnMessage(chunk)
			}
		}
		if err != nil {
			if t.state.get() != Closed {
				t.state.set(Closed)
				if t.logger != nil {
					t.logger.Debug("tcp transport read failed", zap.Error(err))
				}
				if t.events.OnError != nil {
					t.events.OnError(uaerrors.Wrap(uaerrors.KindCommunication, err, "tcp read failed"))
				}
				t.signalClose()
			}
			return
		}
	}
}

func (t *tcpTransport) Write(b []byte) error {
	if t.state.get() != Open {
		return uaerrors.New(uaerrors.KindServerNotConnected, "tcp transport is not open")
	}
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return uaerrors.New(uaerrors.KindServerNotConnected, "tcp transport is not open")
	}
	if _, err := conn.Write(b); err != nil {
		return uaerrors.Wrap(uaerrors.KindCommunication, err, "tcp write failed")
	}
	return nil
}

func (t *tcpTransport) Close(err error) error {
	prev := t.state.get()
	if prev == Closed {
		return nil
	}
	t.state.set(Closing)
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	var closeErr error
	if conn != nil {
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

func (t *tcpTransport) signalClose() {
	t.closeOnce.Do(func() {
		if t.events.OnClose != nil {
			t.events.OnClose()
		}
	})
}
