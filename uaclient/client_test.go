package uaclient

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"opcuacore/services"
	"opcuacore/ua"
	"opcuacore/uaerrors"
)

func testClient() *Client {
	cfg := NewConfig("opc.tcp://localhost:4840", WithLogger(zap.NewNop()))
	return New(cfg, Events{})
}

func TestStateStringCoversEveryValue(t *testing.T) {
	cases := map[State]string{
		StateClosed:     "Closed",
		StateCreating:   "Creating",
		StateActivating: "Activating",
		StateActivated:  "Activated",
		State(99):       "Unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestCallRejectsWhenNotActivated(t *testing.T) {
	c := testClient()
	_, err := c.Call(context.Background(), &services.ReadRequest{}, services.TypeIDReadResponse)
	if err == nil {
		t.Fatalf("expected an error when the client has never connected")
	}
	uaErr, ok := err.(*uaerrors.UaError)
	if !ok {
		t.Fatalf("expected a *uaerrors.UaError, got %T", err)
	}
	if uaErr.Kind != uaerrors.KindServerNotConnected {
		t.Fatalf("Kind = %v, want KindServerNotConnected", uaErr.Kind)
	}
}

func TestNewRequestHeaderCarriesCurrentAuthToken(t *testing.T) {
	c := testClient()
	h := c.NewRequestHeader()
	if h.AuthenticationToken != nil {
		t.Fatalf("expected a nil authenticationToken before any session is created")
	}

	token := ua.NewNumericNodeID(0, 42)
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()

	h = c.NewRequestHeader()
	if h.AuthenticationToken != token {
		t.Fatalf("NewRequestHeader must stamp the client's current authenticationToken")
	}
}

func TestPendingAcksDrainIsEmptiedAndOrderless(t *testing.T) {
	c := testClient()
	if acks := c.drainPendingAcks(); acks != nil {
		t.Fatalf("expected nil acks before any are recorded, got %v", acks)
	}

	c.recordPendingAck(1, 10)
	c.recordPendingAck(2, 20)

	acks := c.drainPendingAcks()
	if len(acks) != 2 {
		t.Fatalf("expected 2 pending acks, got %d", len(acks))
	}
	seen := map[uint32]uint32{}
	for _, ack := range acks {
		seen[ack.SubscriptionID] = ack.SequenceNumber
	}
	if seen[1] != 10 || seen[2] != 20 {
		t.Fatalf("unexpected acks: %v", acks)
	}

	if acks := c.drainPendingAcks(); acks != nil {
		t.Fatalf("drainPendingAcks must empty the pending set, got %v", acks)
	}
}

func TestDisconnectIsIdempotentWhenNeverConnected(t *testing.T) {
	c := testClient()
	c.Disconnect()
	c.Disconnect()
}
