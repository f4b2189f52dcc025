// Package uasc implements UASC (the OPC-UA Secure Conversation layer)
// atop uacp: chunking of request/response bodies into MSG frames, the
// OpenSecureChannel Issue/Renew lifecycle and its token-renewal timer,
// sequence-number and request-id bookkeeping, and request/response
// correlation. SecurityMode=None is the only mode implemented — Sign and
// SignAndEncrypt are reserved hooks.
package uasc

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"opcuacore/services"
	"opcuacore/ua"
	"opcuacore/uacp"
	"opcuacore/uaerrors"
)

const (
	// requestQueueCapacity/openQueueCapacity size the two request
	// semaphores: up to 10 ordinary requests may be outstanding (sent and
	// awaiting their response) at once, but OpenSecureChannel is always
	// serialized to exactly one at a time.
	requestQueueCapacity = 10
	openQueueCapacity    = 1

	// renewalFraction is when the renewal timer fires relative to the
	// token's revised lifetime.
	renewalFraction = 0.75

	secureHeaderHint = 16 // reserved per chunk for the symmetric header; channelId + tokenId use 8
)

// Config carries the parameters Open needs that aren't negotiated over
// the wire.
type Config struct {
	EndpointURL       string
	SecurityMode      services.MessageSecurityMode
	RequestedLifetime time.Duration
	OpenTimeout       time.Duration
	Logger            *zap.Logger
}

// SecureChannel is one open UASC conversation: a uacp.Connection plus
// chunk reassembly, the security token lifecycle, and per-request
// correlation.
type SecureChannel struct {
	cfg    Config
	conn   *uacp.Connection
	logger *zap.Logger

	mu           sync.Mutex
	channelID    uint32
	tokenID      uint32
	revisedLife  time.Duration
	tokenCreated time.Time
	closed       bool

	seqNum uint32 // sequence number counter, wraps at uint32 max, skips 0
	reqID  uint32 // request id counter, same wrap rule

	lastRecvSeq uint32 // last sequence number observed from the server; 0 means "none yet"

	pending sync.Map // map[uint32]chan response — keyed by requestId

	reqSem  *semaphore.Weighted
	openSem *semaphore.Weighted

	renewTimer *time.Timer
	renewOnce  sync.Once

	// assembling holds in-progress chunk reassembly state, keyed by
	// requestId (for MSG) — there is at most one outstanding assembly
	// per requestId because the server doesn't interleave chunks of the
	// same message with chunks of another.
	assembling sync.Map // map[uint32]*reassembly

	faultCh chan *uaerrors.UaError // fired when the whole conversation must die
	onFault func(*uaerrors.UaError)
}

type reassembly struct {
	body []byte
}

type response struct {
	body []byte
	err  *uaerrors.UaError
}

// Open dials uacp, then issues a fresh SecureChannel via
// OpenSecureChannelRequest{RequestType: Issue}.
func Open(ctx context.Context, cfg Config, onFault func(*uaerrors.UaError)) (*SecureChannel, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sc := &SecureChannel{
		cfg:     cfg,
		logger:  logger,
		reqSem:  semaphore.NewWeighted(requestQueueCapacity),
		openSem: semaphore.NewWeighted(openQueueCapacity),
		faultCh: make(chan *uaerrors.UaError, 1),
		onFault: onFault,
	}

	conn, err := uacp.Open(ctx, cfg.EndpointURL, cfg.OpenTimeout, uacp.FrameEvents{
		OnFrame: sc.onFrame,
		OnClose: sc.onTransportClose,
		OnError: sc.onTransportError,
	}, logger)
	if err != nil {
		return nil, err
	}
	sc.conn = conn

	if err := sc.openSecureChannel(ctx, services.RequestTypeIssue); err != nil {
		conn.Close(err)
		return nil, err
	}
	return sc, nil
}

func (sc *SecureChannel) nextSequenceNumber() uint32 {
	n := atomic.AddUint32(&sc.seqNum, 1)
	if n == 0 {
		n = atomic.AddUint32(&sc.seqNum, 1)
	}
	return n
}

func (sc *SecureChannel) nextRequestID() uint32 {
	n := atomic.AddUint32(&sc.reqID, 1)
	if n == 0 {
		n = atomic.AddUint32(&sc.reqID, 1)
	}
	return n
}

// openSecureChannel drives a single OpenSecureChannel exchange (Issue or
// Renew) over the OPN queue, then stores the returned token and arms the
// renewal timer.
func (sc *SecureChannel) openSecureChannel(ctx context.Context, reqType services.SecurityTokenRequestType) error {
	if err := sc.openSem.Acquire(ctx, openQueueCapacity); err != nil {
		return uaerrors.Wrap(uaerrors.KindTimeout, err, "waiting for OpenSecureChannel queue slot")
	}
	defer sc.openSem.Release(openQueueCapacity)

	req := &services.OpenSecureChannelRequest{
		RequestHeader:         services.NewRequestHeader(nil, sc.cfg.OpenTimeout),
		ClientProtocolVersion: 0,
		RequestType:           reqType,
		SecurityMode:          sc.cfg.SecurityMode,
		RequestedLifetime:     uint32(sc.cfg.RequestedLifetime.Milliseconds()),
	}

	reqID := sc.nextRequestID()
	respCh := make(chan response, 1)
	sc.pending.Store(reqID, respCh)
	defer sc.pending.Delete(reqID)

	if err := sc.writeOPN(req, reqID); err != nil {
		return err
	}

	select {
	case resp := <-respCh:
		if resp.err != nil {
			return resp.err
		}
		return sc.handleOpenResponse(resp.body)
	case <-ctx.Done():
		return uaerrors.New(uaerrors.KindTimeout, "OpenSecureChannel timed out")
	case err := <-sc.faultCh:
		return err
	}
}

func (sc *SecureChannel) handleOpenResponse(body []byte) error {
	decoded, err := ua.DecodeByID(services.TypeIDOpenSecureChannelResponse, body)
	if err != nil {
		if fault, ferr := decodeAsFault(body); ferr == nil {
			return faultToError(fault)
		}
		return uaerrors.Wrap(uaerrors.KindDecoding, err, "decoding OpenSecureChannelResponse")
	}
	resp, ok := decoded.(*services.OpenSecureChannelResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindDecoding, "unexpected response type for OpenSecureChannel")
	}

	sc.mu.Lock()
	sc.channelID = resp.SecurityToken.ChannelID
	sc.tokenID = resp.SecurityToken.TokenID
	sc.revisedLife = time.Duration(resp.SecurityToken.RevisedLifetime) * time.Millisecond
	sc.tokenCreated = resp.SecurityToken.CreatedAt
	sc.mu.Unlock()

	sc.armRenewalTimer()
	return nil
}

func (sc *SecureChannel) armRenewalTimer() {
	sc.mu.Lock()
	life := sc.revisedLife
	sc.mu.Unlock()
	if life <= 0 {
		return
	}
	delay := time.Duration(float64(life) * renewalFraction)

	sc.mu.Lock()
	if sc.renewTimer != nil {
		sc.renewTimer.Stop()
	}
	sc.renewTimer = time.AfterFunc(delay, sc.renew)
	sc.mu.Unlock()
}

func (sc *SecureChannel) renew() {
	sc.mu.Lock()
	closed := sc.closed
	sc.mu.Unlock()
	if closed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sc.cfg.OpenTimeout)
	defer cancel()
	if err := sc.openSecureChannel(ctx, services.RequestTypeRenew); err != nil {
		sc.logger.Warn("secure channel token renewal failed", zap.Error(err))
		sc.failConversation(uaerrors.Wrap(uaerrors.KindCommunication, err, "token renewal failed"))
	}
}

// SendRequest sends req as an MSG body (chunked as needed) and waits for
// the correlated response, decoding it into the registered type for
// respTypeID. Returns a ServiceFault-derived error if the server replies
// with one instead.
func (sc *SecureChannel) SendRequest(ctx context.Context, req ua.Encodable, respTypeID uint32) (ua.Encodable, error) {
	if err := sc.reqSem.Acquire(ctx, 1); err != nil {
		return nil, uaerrors.Wrap(uaerrors.KindTimeout, err, "waiting for request queue slot")
	}
	defer sc.reqSem.Release(1)

	reqID := sc.nextRequestID()
	respCh := make(chan response, 1)
	sc.pending.Store(reqID, respCh)
	defer sc.pending.Delete(reqID)

	if err := sc.writeMSG(req, reqID); err != nil {
		return nil, err
	}

	select {
	case resp := <-respCh:
		if resp.err != nil {
			return nil, resp.err
		}
		decoded, err := ua.DecodeByID(respTypeID, resp.body)
		if err != nil {
			if fault, ferr := decodeAsFault(resp.body); ferr == nil {
				return nil, faultToError(fault)
			}
			return nil, uaerrors.Wrap(uaerrors.KindDecoding, err, "decoding response body")
		}
		return decoded, nil
	case <-ctx.Done():
		err := uaerrors.New(uaerrors.KindTimeout, "request timed out")
		if ctx.Err() == context.DeadlineExceeded {
			// A request that outlives its deadline fails the whole
			// conversation, not only this request. Run asynchronously: the
			// fault handler may wait for the caller's goroutine to exit.
			go sc.failConversation(err)
		}
		return nil, err
	case err := <-sc.faultCh:
		return nil, err
	}
}

func decodeAsFault(body []byte) (*services.ServiceFault, error) {
	decoded, err := ua.DecodeByID(services.TypeIDServiceFault, body)
	if err != nil {
		return nil, err
	}
	fault, ok := decoded.(*services.ServiceFault)
	if !ok {
		return nil, uaerrors.New(uaerrors.KindDecoding, "not a ServiceFault")
	}
	return fault, nil
}

func faultToError(fault *services.ServiceFault) error {
	code := uint32(0)
	if fault.ResponseHeader != nil {
		code = uint32(fault.ResponseHeader.ServiceResult)
	}
	return uaerrors.New(uaerrors.KindServiceFault, "server returned ServiceFault").WithCode(code)
}

// Close sends CloseSecureChannelRequest best-effort and tears down the
// underlying uacp connection.
func (sc *SecureChannel) Close() error {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return nil
	}
	sc.closed = true
	if sc.renewTimer != nil {
		sc.renewTimer.Stop()
	}
	sc.mu.Unlock()

	reqID := sc.nextRequestID()
	req := &services.CloseSecureChannelRequest{RequestHeader: services.NewRequestHeader(nil, sc.cfg.OpenTimeout)}
	_ = sc.writeCLO(req, reqID) // best-effort; server may already be gone

	return sc.conn.Close(nil)
}

func (sc *SecureChannel) failConversation(err *uaerrors.UaError) {
	sc.pending.Range(func(key, value any) bool {
		ch := value.(chan response)
		select {
		case ch <- response{err: err}:
		default:
		}
		return true
	})
	select {
	case sc.faultCh <- err:
	default:
	}
	if sc.onFault != nil {
		sc.onFault(err)
	}
}

func (sc *SecureChannel) onTransportClose() {
	sc.failConversation(uaerrors.New(uaerrors.KindCommunication, "secure channel transport closed"))
}

func (sc *SecureChannel) onTransportError(err *uaerrors.UaError) {
	sc.failConversation(err)
}
