package uasc

import (
	"sync/atomic"

	"opcuacore/services"
	"opcuacore/ua"
	"opcuacore/uacp"
	"opcuacore/uaerrors"
)

// writeOPN encodes req as a full (unchunked) OPN message. OpenSecureChannel
// exchanges are small enough in this implementation (SecurityMode=None, no
// certificates) that they never need multi-chunk handling.
func (sc *SecureChannel) writeOPN(req ua.Encodable, reqID uint32) error {
	body := ua.Encode(req)
	enc := ua.NewEncoder(64 + len(body))
	enc.WriteUint32(sc.channelIDSnapshot())
	if err := enc.WriteString(services.SecurityPolicyNone); err != nil {
		return err
	}
	if err := enc.WriteByteString(nil); err != nil { // SenderCertificate
		return err
	}
	if err := enc.WriteByteString(nil); err != nil { // ReceiverCertificateThumbprint
		return err
	}
	enc.WriteUint32(sc.nextSequenceNumber())
	enc.WriteUint32(reqID)
	enc.WriteBytes(body)
	return sc.conn.SendFrame("OPN", uacp.ChunkFinal, enc.Bytes())
}

func (sc *SecureChannel) writeCLO(req ua.Encodable, reqID uint32) error {
	return sc.writeSymmetric("CLO", req, reqID)
}

// writeMSG encodes req as one or more MSG chunks, splitting the body
// across chunks when it doesn't fit in a single negotiated send buffer.
func (sc *SecureChannel) writeMSG(req ua.Encodable, reqID uint32) error {
	return sc.writeSymmetric("MSG", req, reqID)
}

func (sc *SecureChannel) writeSymmetric(msgType string, req ua.Encodable, reqID uint32) error {
	body := ua.Encode(req)
	limits := sc.conn.Limits()

	maxChunkBody := int(limits.SendBufferSize) - uacpFrameOverhead - secureHeaderHint - sequenceHeaderSize
	if maxChunkBody <= 0 || limits.SendBufferSize == 0 {
		maxChunkBody = len(body) // unbounded: negotiate-then-trust, or no limit advertised
	}

	if limits.MaxMessageSize > 0 && uint32(len(body)) > limits.MaxMessageSize {
		return uaerrors.New(uaerrors.KindRequestTooLarge, "request body %d bytes exceeds negotiated max message size %d", len(body), limits.MaxMessageSize)
	}

	chunkCount := (len(body) + maxChunkBody - 1) / maxChunkBody
	if chunkCount == 0 {
		chunkCount = 1
	}
	if limits.MaxChunkCount > 0 && uint32(chunkCount) > limits.MaxChunkCount {
		return uaerrors.New(uaerrors.KindRequestTooLarge, "request requires %d chunks, exceeding negotiated max chunk count %d", chunkCount, limits.MaxChunkCount)
	}

	seqNum := sc.nextSequenceNumber()
	for i := 0; i < chunkCount; i++ {
		start := i * maxChunkBody
		end := start + maxChunkBody
		if end > len(body) {
			end = len(body)
		}
		chunk := uacp.ChunkContinuation
		if i == chunkCount-1 {
			chunk = uacp.ChunkFinal
		}

		enc := ua.NewEncoder(secureHeaderHint + sequenceHeaderSize + (end - start))
		enc.WriteUint32(sc.channelIDSnapshot())
		enc.WriteUint32(sc.tokenIDSnapshot())
		enc.WriteUint32(seqNum)
		enc.WriteUint32(reqID)
		enc.WriteBytes(body[start:end])

		if err := sc.conn.SendFrame(msgType, chunk, enc.Bytes()); err != nil {
			return err
		}
		if i < chunkCount-1 {
			seqNum = sc.nextSequenceNumber()
		}
	}
	return nil
}

const (
	uacpFrameOverhead = 8
	sequenceHeaderSize = 8
)

// AbortMessageBody is the body of a finality-'A' chunk: the server's
// reason for abandoning the request in progress. The channel itself
// survives; only the pending request named by reqId is failed.
type AbortMessageBody struct {
	Error  ua.StatusCode
	Reason string
}

// decodeAbortMessageBody reads an AbortMessageBody and returns the
// UaError it names, carrying the server's StatusCode and reason text. A
// payload too short or malformed to decode still fails the request, with
// a decoding error rather than the lost server detail.
func decodeAbortMessageBody(payload []byte) *uaerrors.UaError {
	dec := ua.NewDecoder(payload)
	code, err := dec.ReadStatusCode()
	if err != nil {
		return uaerrors.Wrap(uaerrors.KindDecoding, err, "AbortMessageBody decode")
	}
	reason, _, err := dec.ReadString()
	if err != nil {
		return uaerrors.Wrap(uaerrors.KindDecoding, err, "AbortMessageBody decode")
	}
	return uaerrors.New(uaerrors.KindCommunication, "server aborted message: %s", reason).WithCode(uint32(code))
}

func (sc *SecureChannel) channelIDSnapshot() uint32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.channelID
}

func (sc *SecureChannel) tokenIDSnapshot() uint32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.tokenID
}

// onFrame is uacp's callback for every non-HEL/ACK/ERR/RHE frame: it
// strips the channel/sequence header, reassembles multi-chunk bodies by
// requestId, validates strictly-increasing sequence numbers (failing the
// whole conversation on violation, per spec), and delivers completed
// bodies to the waiting SendRequest/openSecureChannel caller.
func (sc *SecureChannel) onFrame(msgType string, chunk uacp.ChunkType, body []byte) {
	dec := ua.NewDecoder(body)

	var reqID uint32
	var seqNum uint32
	var payload []byte

	if msgType == "OPN" {
		if _, err := dec.ReadUint32(); err != nil { // secureChannelId
			sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "OPN header decode"))
			return
		}
		if _, _, err := dec.ReadString(); err != nil { // securityPolicyUri
			sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "OPN header decode"))
			return
		}
		if _, err := dec.ReadByteString(); err != nil { // senderCertificate
			sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "OPN header decode"))
			return
		}
		if _, err := dec.ReadByteString(); err != nil { // receiverCertificateThumbprint
			sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "OPN header decode"))
			return
		}
	} else {
		if _, err := dec.ReadUint32(); err != nil { // secureChannelId
			sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "header decode"))
			return
		}
		if _, err := dec.ReadUint32(); err != nil { // tokenId
			sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "header decode"))
			return
		}
	}

	var err error
	if seqNum, err = dec.ReadUint32(); err != nil {
		sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "sequence header decode"))
		return
	}
	if reqID, err = dec.ReadUint32(); err != nil {
		sc.failConversation(uaerrors.Wrap(uaerrors.KindDecoding, err, "sequence header decode"))
		return
	}
	payload = body[dec.Offset():]

	if !sc.checkSequenceNumber(seqNum) {
		sc.failConversation(uaerrors.New(uaerrors.KindSequenceNumberInvalid, "received out-of-order sequence number %d", seqNum))
		return
	}

	if chunk == uacp.ChunkAbort {
		sc.assembling.Delete(reqID)
		sc.deliverToPending(reqID, response{err: decodeAbortMessageBody(payload)})
		return
	}

	var full []byte
	if v, ok := sc.assembling.LoadAndDelete(reqID); ok {
		asm := v.(*reassembly)
		full = append(asm.body, payload...)
	} else {
		full = payload
	}

	if chunk == uacp.ChunkContinuation {
		sc.assembling.Store(reqID, &reassembly{body: full})
		return
	}

	sc.deliverToPending(reqID, response{body: full})
}

func (sc *SecureChannel) deliverToPending(reqID uint32, resp response) {
	if v, ok := sc.pending.LoadAndDelete(reqID); ok {
		ch := v.(chan response)
		select {
		case ch <- resp:
		default:
		}
	}
}

// checkSequenceNumber enforces the strictly-increasing-with-wraparound
// rule: the first sequence number observed seeds lastSeq, every
// subsequent one must be exactly lastSeq+1 (wrapping past uint32 max back
// to 1, skipping 0), matching the counter this same SecureChannel uses for
// its own outgoing numbers.
func (sc *SecureChannel) checkSequenceNumber(seqNum uint32) bool {
	for {
		last := atomic.LoadUint32(&sc.lastRecvSeq)
		if last == 0 {
			if atomic.CompareAndSwapUint32(&sc.lastRecvSeq, 0, seqNum) {
				return true
			}
			continue
		}
		want := last + 1
		if want == 0 {
			want = 1
		}
		if seqNum != want {
			return false
		}
		if atomic.CompareAndSwapUint32(&sc.lastRecvSeq, last, seqNum) {
			return true
		}
	}
}
