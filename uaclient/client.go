// Package uaclient implements the session/client layer (L3): the
// Closed/Creating/Activating/Activated state machine, the standard
// service-call wrapper that stamps RequestHeader, the publish loop, the
// keep-alive loop, and auto-reconnect.
package uaclient

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"opcuacore/services"
	"opcuacore/subscription"
	"opcuacore/ua"
	"opcuacore/uaerrors"
	"opcuacore/uasc"
)

// State is the session lifecycle stage, per spec.md §4.5.
type State int

const (
	StateClosed State = iota
	StateCreating
	StateActivating
	StateActivated
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateCreating:
		return "Creating"
	case StateActivating:
		return "Activating"
	case StateActivated:
		return "Activated"
	default:
		return "Unknown"
	}
}

// Events lets a caller observe lifecycle transitions without polling.
type Events struct {
	OnConnected    func()
	OnDisconnected func()
	OnError        func(*uaerrors.UaError)
}

// Client is a single OPC-UA session bound to one secure conversation.
// All mutable state is owned by the goroutines spawned from Connect
// (publish loop, keep-alive loop, reconnect loop); external callers only
// ever go through Call, Connect, and Disconnect.
type Client struct {
	cfg    Config
	events Events
	logger *zap.Logger

	mu             sync.Mutex
	state          State
	sc             *uasc.SecureChannel
	sessionID      *ua.NodeID
	authToken      *ua.NodeID
	manuallyClosed bool

	subs *subscription.Manager

	ackMu       sync.Mutex
	pendingAcks map[uint32]uint32 // subscriptionId -> sequenceNumber awaiting acknowledgement

	stopKeepAlive chan struct{}
	stopPublish   chan struct{}
	loopsDone     sync.WaitGroup

	// reconnectLimiter throttles reconnect attempts to one per
	// ReconnectTimeout, the same token-bucket role RateLimitMiddleware
	// plays server-side, generalized here to gate outbound Connect
	// attempts instead of inbound requests.
	reconnectLimiter *rate.Limiter
}

// New builds a Client in state Closed. Call Connect to open it.
func New(cfg Config, events Events) *Client {
	return &Client{
		cfg:              cfg,
		events:           events,
		logger:           cfg.Logger,
		subs:             subscription.NewManager(),
		pendingAcks:      make(map[uint32]uint32),
		reconnectLimiter: rate.NewLimiter(rate.Every(cfg.ReconnectTimeout), 1),
	}
}

// Subscriptions returns the manager owning every live subscription on
// this client. Create subscriptions through it:
// client.Subscriptions().Create(ctx, client, params, events).
func (c *Client) Subscriptions() *subscription.Manager {
	return c.subs
}

// State returns the current lifecycle stage.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Connect opens the secure conversation, establishes or resumes a
// session, recreates known subscriptions, and starts the publish and
// keep-alive loops. Per spec.md §4.5 step 2, it tries ActivateSession
// first when a prior authenticationToken is held, falling back to
// CreateSession whenever ActivateSession fails; the cause of the failure
// is not inspected, so a fault other than an unknown session also leads
// to a fresh session.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	c.manuallyClosed = false
	c.mu.Unlock()

	c.setState(StateCreating)

	sc, err := uasc.Open(ctx, uasc.Config{
		EndpointURL:       c.cfg.EndpointURL,
		SecurityMode:      c.cfg.SecurityMode,
		RequestedLifetime: c.cfg.RequestedLifetime,
		OpenTimeout:       c.cfg.Timeout,
		Logger:            c.logger,
	}, c.onConversationFault)
	if err != nil {
		c.setState(StateClosed)
		return err
	}

	c.mu.Lock()
	c.sc = sc
	hadSession := c.authToken != nil
	c.mu.Unlock()

	if hadSession {
		if err := c.activateSession(ctx); err == nil {
			return c.finishConnect(ctx)
		}
		// ActivateSession failed (session unknown at the server, or any
		// other fault) — fall back to a fresh CreateSession below.
	}

	if err := c.createSession(ctx); err != nil {
		sc.Close()
		c.setState(StateClosed)
		return err
	}

	c.setState(StateActivating)
	if err := c.activateSession(ctx); err != nil {
		sc.Close()
		c.setState(StateClosed)
		return err
	}

	return c.finishConnect(ctx)
}

func (c *Client) finishConnect(ctx context.Context) error {
	c.setState(StateActivated)
	c.recreateSubscriptions(ctx)

	c.stopKeepAlive = make(chan struct{})
	c.stopPublish = make(chan struct{})
	c.loopsDone.Add(2)
	go c.keepAliveLoop()
	go c.publishLoop()

	if c.events.OnConnected != nil {
		c.events.OnConnected()
	}
	return nil
}

func (c *Client) createSession(ctx context.Context) error {
	c.setState(StateCreating)
	nonce, err := uuid.NewRandom()
	if err != nil {
		return uaerrors.Wrap(uaerrors.KindUnexpected, err, "generating client nonce")
	}

	req := &services.CreateSessionRequest{
		RequestHeader: services.NewRequestHeader(nil, c.cfg.Timeout),
		ClientDescription: services.ApplicationDescription{
			ApplicationURI:  c.cfg.ProductURI,
			ProductURI:      c.cfg.ProductURI,
			ApplicationName: ua.LocalizedText{Text: c.cfg.ApplicationName, TextPresent: true},
			ApplicationType: 1, // Client
		},
		EndpointURL:             c.cfg.EndpointURL,
		SessionName:             c.cfg.SessionName,
		ClientNonce:             nonce[:],
		RequestedSessionTimeout: float64(c.cfg.RequestedSessionTimeout.Milliseconds()),
		MaxResponseMessageSize:  0,
	}

	c.mu.Lock()
	sc := c.sc
	c.mu.Unlock()

	respVal, err := sc.SendRequest(ctx, req, services.TypeIDCreateSessionResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.CreateSessionResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected CreateSession response type")
	}

	c.mu.Lock()
	c.sessionID = resp.SessionID
	c.authToken = resp.AuthenticationToken
	c.mu.Unlock()
	return nil
}

func (c *Client) activateSession(ctx context.Context) error {
	c.setState(StateActivating)

	c.mu.Lock()
	sc := c.sc
	authToken := c.authToken
	c.mu.Unlock()

	req := &services.ActivateSessionRequest{
		RequestHeader:     services.NewRequestHeader(authToken, c.cfg.Timeout),
		LocaleIDs:         []string{"en"},
		UserIdentityToken: c.cfg.UserIdentityToken,
	}

	respVal, err := sc.SendRequest(ctx, req, services.TypeIDActivateSessionResponse)
	if err != nil {
		return err
	}
	if _, ok := respVal.(*services.ActivateSessionResponse); !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected ActivateSession response type")
	}
	return nil
}

// NewRequestHeader stamps a RequestHeader carrying the session's current
// authenticationToken, for callers (including the subscription package)
// that build their own request bodies.
func (c *Client) NewRequestHeader() *services.RequestHeader {
	return c.newRequestHeaderWithTimeout(c.cfg.Timeout)
}

func (c *Client) newRequestHeaderWithTimeout(timeoutHint time.Duration) *services.RequestHeader {
	c.mu.Lock()
	authToken := c.authToken
	c.mu.Unlock()
	return services.NewRequestHeader(authToken, timeoutHint)
}

// recreateSubscriptions runs the reconnect re-creation path (spec §4.6)
// against the just-(re)opened conversation. Logged, never fatal: losing
// a subscription here still leaves the session usable.
func (c *Client) recreateSubscriptions(ctx context.Context) {
	if err := c.subs.Reconnect(ctx, c); err != nil {
		c.logger.Warn("subscription recreation failed", zap.Error(err))
	}
}

// Call is the standard service wrapper: it forwards an already-headered
// req through the active secure conversation. It implements
// subscription.Conn, letting that package send requests without
// importing uaclient.
func (c *Client) Call(ctx context.Context, req ua.Encodable, respTypeID uint32) (ua.Encodable, error) {
	c.mu.Lock()
	sc := c.sc
	state := c.state
	c.mu.Unlock()

	if state != StateActivated || sc == nil {
		return nil, uaerrors.New(uaerrors.KindServerNotConnected, "client is not connected")
	}
	return sc.SendRequest(ctx, req, respTypeID)
}

func (c *Client) onConversationFault(err *uaerrors.UaError) {
	c.disconnect(err, false)
}

// Disconnect closes the session and conversation. It suppresses
// auto-reconnect: this is the user-initiated path spec.md §4.5/§5 calls
// the "manually closed" flag.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.manuallyClosed = true
	c.mu.Unlock()
	c.disconnect(nil, true)
}

func (c *Client) disconnect(cause *uaerrors.UaError, userInitiated bool) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	sc := c.sc
	c.sc = nil
	manuallyClosed := c.manuallyClosed
	c.mu.Unlock()

	if c.stopKeepAlive != nil {
		close(c.stopKeepAlive)
	}
	if c.stopPublish != nil {
		close(c.stopPublish)
	}
	c.loopsDone.Wait()

	if sc != nil {
		sc.Close()
	}

	if c.events.OnDisconnected != nil {
		c.events.OnDisconnected()
	}
	if cause != nil && c.events.OnError != nil {
		c.events.OnError(cause)
	}

	if c.cfg.AutoReconnect && !manuallyClosed && !userInitiated {
		go c.reconnectLoop()
	}
}

// reconnectLoop retries Connect: the first attempt immediate, subsequent
// attempts throttled to one per reconnect_timeout by reconnectLimiter,
// per spec.md §4.5.
func (c *Client) reconnectLoop() {
	first := true
	for {
		c.mu.Lock()
		manuallyClosed := c.manuallyClosed
		c.mu.Unlock()
		if manuallyClosed {
			return
		}
		if first {
			// The first attempt runs at once but still takes the limiter's
			// token, so the next attempt waits a full reconnect_timeout.
			c.reconnectLimiter.Reserve()
		} else if err := c.reconnectLimiter.Wait(context.Background()); err != nil {
			return
		}
		first = false

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
		err := c.Connect(ctx)
		cancel()
		if err == nil {
			return
		}
		c.logger.Warn("reconnect attempt failed", zap.Error(err))
	}
}
