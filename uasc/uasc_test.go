package uasc

import (
	"strings"
	"testing"

	"opcuacore/uacp"
	"opcuacore/uaerrors"
)

func TestSequenceNumberCounterSkipsZeroOnWrap(t *testing.T) {
	sc := &SecureChannel{}
	sc.seqNum = ^uint32(0) // next AddUint32 wraps to 0
	n := sc.nextSequenceNumber()
	if n == 0 {
		t.Fatalf("nextSequenceNumber must never return 0, got %d", n)
	}
}

func TestRequestIDCounterSkipsZeroOnWrap(t *testing.T) {
	sc := &SecureChannel{}
	sc.reqID = ^uint32(0)
	n := sc.nextRequestID()
	if n == 0 {
		t.Fatalf("nextRequestID must never return 0, got %d", n)
	}
}

func TestCheckSequenceNumberAcceptsStrictIncrement(t *testing.T) {
	sc := &SecureChannel{}
	if !sc.checkSequenceNumber(5) {
		t.Fatalf("first observed sequence number should always be accepted")
	}
	if !sc.checkSequenceNumber(6) {
		t.Fatalf("strictly incrementing sequence number should be accepted")
	}
	if sc.checkSequenceNumber(6) {
		t.Fatalf("repeated sequence number must be rejected")
	}
	if sc.checkSequenceNumber(20) {
		t.Fatalf("skipped-ahead sequence number must be rejected")
	}
}

func TestCheckSequenceNumberWrapsPastZero(t *testing.T) {
	sc := &SecureChannel{}
	sc.lastRecvSeq = ^uint32(0)
	if !sc.checkSequenceNumber(1) {
		t.Fatalf("sequence numbers must wrap uint32 max -> 1, skipping 0")
	}
}

// TestOnFrameReassemblesMultiChunkMessage exercises the chunk-reassembly path of onFrame directly,
// bypassing the network: a continuation chunk followed by a final chunk
// for the same requestId must be concatenated before delivery.
func TestOnFrameReassemblesMultiChunkMessage(t *testing.T) {
	sc := &SecureChannel{}
	respCh := make(chan response, 1)
	const reqID = uint32(42)
	sc.pending.Store(reqID, respCh)

	// Build two MSG frames (channelId + tokenId + seq + reqId + partial body).
	frame := func(seq uint32, body []byte, final bool) []byte {
		out := make([]byte, 0, 16+len(body))
		out = append(out, 0, 0, 0, 0) // channelId
		out = append(out, 0, 0, 0, 0) // tokenId
		out = append(out, byte(seq), byte(seq>>8), byte(seq>>16), byte(seq>>24))
		out = append(out, byte(reqID), byte(reqID>>8), byte(reqID>>16), byte(reqID>>24))
		out = append(out, body...)
		return out
	}

	sc.onFrame("MSG", uacp.ChunkContinuation, frame(1, []byte("hello-"), false))
	sc.onFrame("MSG", uacp.ChunkFinal, frame(2, []byte("world"), true))

	select {
	case resp := <-respCh:
		if resp.err != nil {
			t.Fatalf("unexpected error: %v", resp.err)
		}
		if string(resp.body) != "hello-world" {
			t.Fatalf("reassembled body = %q, want %q", resp.body, "hello-world")
		}
	default:
		t.Fatal("expected a delivered response after the final chunk")
	}
}

func TestOnFrameAbortFailsOnlyThatRequest(t *testing.T) {
	sc := &SecureChannel{}
	respCh := make(chan response, 1)
	sc.pending.Store(uint32(7), respCh)

	const wantCode = uint32(0x800A0000) // StatusBadTimeout
	const wantReason = "deadline exceeded"

	body := make([]byte, 0, 32)
	body = append(body, 0, 0, 0, 0, 0, 0, 0, 0) // channelId + tokenId
	body = append(body, 1, 0, 0, 0)             // seq
	body = append(body, 7, 0, 0, 0)             // reqId
	body = append(body, byte(wantCode), byte(wantCode>>8), byte(wantCode>>16), byte(wantCode>>24))
	body = append(body, byte(len(wantReason)), 0, 0, 0)
	body = append(body, []byte(wantReason)...)
	sc.onFrame("MSG", uacp.ChunkAbort, body)

	select {
	case resp := <-respCh:
		if resp.err == nil {
			t.Fatal("aborted request should surface an error")
		}
		uaErr, ok := resp.err.(*uaerrors.UaError)
		if !ok {
			t.Fatalf("expected a *uaerrors.UaError, got %T", resp.err)
		}
		if uaErr.Code != wantCode {
			t.Fatalf("Code = 0x%08X, want 0x%08X", uaErr.Code, wantCode)
		}
		if !strings.Contains(uaErr.Reason, wantReason) {
			t.Fatalf("Reason = %q, want it to contain %q", uaErr.Reason, wantReason)
		}
	default:
		t.Fatal("expected the aborted request's channel to receive a response")
	}

	select {
	case <-sc.faultCh:
		t.Fatal("an abort must not fail the whole conversation")
	default:
	}
}
