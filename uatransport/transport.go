// Package uatransport is the L1 byte-stream layer: an asynchronous,
// message-oriented channel over either a raw TCP socket or a WebSocket,
// selected by the endpoint URL's scheme. It knows nothing about UACP
// framing or OPC-UA semantics — it only moves opaque byte slices and
// reports connection lifecycle events.
package uatransport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"opcuacore/uaerrors"
)

// State is the transport's connection lifecycle.
type State uint8

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Opening:
		return "Opening"
	case Open:
		return "Open"
	case Closing:
		return "Closing"
	default:
		return "Unknown"
	}
}

const defaultTCPPort = "4840"

// Events is the set of callbacks a Transport invokes as things happen.
// All three may be nil; a nil callback is simply not invoked. Callbacks
// run on the transport's own read goroutine, except that those fired by
// Close run on the goroutine calling Close — they must not block or
// call back into the Transport synchronously from within Close.
type Events struct {
	OnMessage func(b []byte)
	OnClose   func()
	OnError   func(err *uaerrors.UaError)
}

// Transport is the asynchronous byte-stream channel exposed to UACP.
type Transport interface {
	// Open dials the endpoint, enforcing openTimeout. It returns once the
	// connection is Open or fails with Timeout/CommunicationError.
	Open(ctx context.Context, openTimeout time.Duration) error
	// Write sends b atomically. Returns ServerNotConnected if not Open.
	Write(b []byte) error
	// Close tears down the connection. err, if non-nil, is passed to
	// OnError before OnClose; both run synchronously before Close returns.
	Close(err error) error
	State() State
}

// Dial selects a backend by the endpoint URL's scheme and returns an
// unopened Transport. Callers must call Open before Write.
func Dial(endpoint string, events Events, logger *zap.Logger) (Transport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, uaerrors.Wrap(uaerrors.KindInvalidArgument, err, "invalid endpoint url %q", endpoint)
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "opc.tcp":
		host := u.Hostname()
		port := u.Port()
		if port == "" {
			port = defaultTCPPort
		}
		return newTCPTransport(fmt.Sprintf("%s:%s", host, port), events, logger), nil
	case "opc.ws", "opc.wss", "ws", "wss":
		wsURL := endpoint
		if scheme == "opc.ws" {
			wsURL = "ws" + endpoint[len("opc.ws"):]
		} else if scheme == "opc.wss" {
			wsURL = "wss" + endpoint[len("opc.wss"):]
		}
		return newWSTransport(wsURL, events, logger), nil
	default:
		return nil, uaerrors.New(uaerrors.KindInvalidArgument, "unsupported endpoint scheme %q", u.Scheme)
	}
}

// stateBox guards State with a mutex shared by both backends; neither
// backend's Open/Close overlaps in practice (enforced by the caller, the
// uacp layer) but reads happen from arbitrary goroutines.
type stateBox struct {
	mu sync.RWMutex
	s  State
}

func (b *stateBox) get() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s
}

func (b *stateBox) set(s State) {
	b.mu.Lock()
	b.s = s
	b.mu.Unlock()
}
