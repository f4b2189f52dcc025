// Package uacp implements the UACP (Universal Connection Protocol)
// framing layer atop uatransport: the 8-byte frame header, the
// Hello/Acknowledge opening handshake, and pass-through of unrecognized
// message types (MSG/OPN/CLO) to the secure-conversation layer above.
package uacp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"opcuacore/ua"
	"opcuacore/uaerrors"
	"opcuacore/uatransport"
)

const (
	headerSize = 8

	// helloBuffersUnbounded is offered in HEL for both buffer sizes before
	// negotiation; the server's ACK is authoritative afterwards.
	helloProtocolVersion = 0
	helloBuffersUnbounded = 0xFFFF_FFFF
)

// ChunkType is the 4th header byte: 'F'inal, 'C'ontinuation, 'A'bort.
type ChunkType byte

const (
	ChunkFinal        ChunkType = 'F'
	ChunkContinuation ChunkType = 'C'
	ChunkAbort        ChunkType = 'A'
)

// Message type tags. HEL/ACK/ERR/RHE are handled here; anything else
// (MSG/OPN/CLO in practice) is forwarded verbatim to OnFrame.
const (
	TypeHello          = "HEL"
	TypeAcknowledge    = "ACK"
	TypeError          = "ERR"
	TypeReverseHello   = "RHE"
)

// Limits is the negotiated set of buffer/message/chunk limits, populated
// from the server's ACK.
type Limits struct {
	ReceiveBufferSize uint32
	SendBufferSize    uint32
	MaxMessageSize    uint32
	MaxChunkCount     uint32
}

// FrameEvents mirrors uatransport.Events one layer up: OnFrame delivers
// every non-HEL/ACK/ERR/RHE message type, OnClose/OnError mirror the
// transport's own lifecycle events.
type FrameEvents struct {
	OnFrame func(msgType string, chunk ChunkType, body []byte)
	OnClose func()
	OnError func(err *uaerrors.UaError)
}

// Connection is an opened UACP channel: a Transport plus frame
// accumulation and the Hello/Ack handshake.
type Connection struct {
	endpointURL string
	transport   uatransport.Transport
	events      FrameEvents
	logger      *zap.Logger

	mu     sync.Mutex
	accum  []byte
	limits Limits

	handshakeOnce sync.Once
	handshakeCh   chan error
}

// Open dials the transport for endpointURL, enforces openTimeout across
// both the transport connect and the Hello/Ack exchange, and returns once
// ACK has been received and limits adopted.
func Open(ctx context.Context, endpointURL string, openTimeout time.Duration, events FrameEvents, logger *zap.Logger) (*Connection, error) {
	c := &Connection{
		endpointURL: endpointURL,
		events:      events,
		logger:      logger,
		handshakeCh: make(chan error, 1),
	}

	tr, err := uatransport.Dial(endpointURL, uatransport.Events{
		OnMessage: c.onTransportMessage,
		OnClose:   c.onTransportClose,
		OnError:   c.onTransportError,
	}, logger)
	if err != nil {
		return nil, err
	}
	c.transport = tr

	deadline := time.Now().Add(openTimeout)
	openCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if err := tr.Open(openCtx, openTimeout); err != nil {
		return nil, err
	}

	if err := c.sendHello(); err != nil {
		tr.Close(err)
		return nil, err
	}

	remaining := time.Until(deadline)
	if remaining <= 0 {
		tr.Close(uaerrors.New(uaerrors.KindTimeout, "open_timeout exceeded before Hello/Ack"))
		return nil, uaerrors.New(uaerrors.KindTimeout, "open_timeout exceeded before Hello/Ack")
	}
	select {
	case err := <-c.handshakeCh:
		if err != nil {
			tr.Close(err)
			return nil, err
		}
		return c, nil
	case <-time.After(remaining):
		err := uaerrors.New(uaerrors.KindTimeout, "Hello/Ack handshake exceeded open_timeout")
		tr.Close(err)
		return nil, err
	}
}

func (c *Connection) sendHello() error {
	enc := ua.NewEncoder(64)
	enc.WriteUint32(helloProtocolVersion)
	enc.WriteUint32(helloBuffersUnbounded) // receiveBufferSize
	enc.WriteUint32(helloBuffersUnbounded) // sendBufferSize
	enc.WriteUint32(0)                     // maxMessageSize: no preference
	enc.WriteUint32(0)                     // maxChunkCount: no preference
	if err := enc.WriteString(c.endpointURL); err != nil {
		return err
	}
	return c.writeFrame(TypeHello, ChunkFinal, enc.Bytes())
}

func (c *Connection) writeFrame(msgType string, chunk ChunkType, body []byte) error {
	if len(msgType) != 3 {
		return uaerrors.New(uaerrors.KindEncoding, "uacp message type must be 3 bytes, got %q", msgType)
	}
	total := headerSize + len(body)
	enc := ua.NewEncoder(total)
	enc.WriteBytes([]byte(msgType))
	enc.WriteByte(byte(chunk))
	enc.WriteUint32(uint32(total))
	enc.WriteBytes(body)
	return c.transport.Write(enc.Bytes())
}

// SendFrame is the upper layer's (uasc's) entry point for writing an
// already-encoded MSG/OPN/CLO frame body.
func (c *Connection) SendFrame(msgType string, chunk ChunkType, body []byte) error {
	return c.writeFrame(msgType, chunk, body)
}

// Limits returns the negotiated buffer/message/chunk limits. Only valid
// after Open returns successfully.
func (c *Connection) Limits() Limits {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limits
}

// Close best-effort closes the underlying transport.
func (c *Connection) Close(err error) error {
	return c.transport.Close(err)
}

func (c *Connection) onTransportMessage(b []byte) {
	c.mu.Lock()
	c.accum = append(c.accum, b...)
	frames := c.extractFrames()
	c.mu.Unlock()

	for _, f := range frames {
		c.dispatch(f.msgType, f.chunk, f.body)
	}
}

type rawFrame struct {
	msgType string
	chunk   ChunkType
	body    []byte
}

// extractFrames must be called with c.mu held. It consumes as many
// complete frames as are available in the accumulator.
func (c *Connection) extractFrames() []rawFrame {
	var out []rawFrame
	for {
		if len(c.accum) < headerSize {
			return out
		}
		size := uint32(c.accum[4]) | uint32(c.accum[5])<<8 | uint32(c.accum[6])<<16 | uint32(c.accum[7])<<24
		if uint32(len(c.accum)) < size {
			return out
		}
		frame := c.accum[:size]
		c.accum = c.accum[size:]
		out = append(out, rawFrame{
			msgType: string(frame[0:3]),
			chunk:   ChunkType(frame[3]),
			body:    frame[headerSize:size],
		})
	}
}

func (c *Connection) dispatch(msgType string, chunk ChunkType, body []byte) {
	switch msgType {
	case TypeAcknowledge:
		c.handleAck(body)
	case TypeError:
		c.handleErr(body)
	case TypeReverseHello:
		// Ignored by this client, per spec.
	default:
		if c.events.OnFrame != nil {
			c.events.OnFrame(msgType, chunk, body)
		}
	}
}

func (c *Connection) handleAck(body []byte) {
	dec := ua.NewDecoder(body)
	if _, err := dec.ReadUint32(); err != nil { // protocolVersion, unused
		c.completeHandshake(uaerrors.Wrap(uaerrors.KindDecoding, err, "ACK decode failed"))
		return
	}
	recvBuf, err := dec.ReadUint32()
	if err != nil {
		c.completeHandshake(uaerrors.Wrap(uaerrors.KindDecoding, err, "ACK decode failed"))
		return
	}
	sendBuf, err := dec.ReadUint32()
	if err != nil {
		c.completeHandshake(uaerrors.Wrap(uaerrors.KindDecoding, err, "ACK decode failed"))
		return
	}
	maxMsg, err := dec.ReadUint32()
	if err != nil {
		c.completeHandshake(uaerrors.Wrap(uaerrors.KindDecoding, err, "ACK decode failed"))
		return
	}
	maxChunks, err := dec.ReadUint32()
	if err != nil {
		c.completeHandshake(uaerrors.Wrap(uaerrors.KindDecoding, err, "ACK decode failed"))
		return
	}
	c.mu.Lock()
	c.limits = Limits{
		ReceiveBufferSize: recvBuf,
		SendBufferSize:    sendBuf,
		MaxMessageSize:    maxMsg,
		MaxChunkCount:     maxChunks,
	}
	c.mu.Unlock()
	c.completeHandshake(nil)
}

func (c *Connection) handleErr(body []byte) {
	dec := ua.NewDecoder(body)
	code, err := dec.ReadUint32()
	if err != nil {
		c.completeHandshake(uaerrors.Wrap(uaerrors.KindDecoding, err, "ERR decode failed"))
		return
	}
	reason, _, _ := dec.ReadString()
	ue := uaerrors.New(uaerrors.KindCommunication, "peer sent ERR: %s", reason).WithCode(code)
	c.completeHandshake(ue)
}

func (c *Connection) completeHandshake(err error) {
	c.handshakeOnce.Do(func() {
		c.handshakeCh <- err
	})
}

func (c *Connection) onTransportClose() {
	if c.events.OnClose != nil {
		c.events.OnClose()
	}
}

func (c *Connection) onTransportError(err *uaerrors.UaError) {
	if c.events.OnError != nil {
		c.events.OnError(err)
	}
}
