package uatransport

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestTCPTransportOpenWriteReceive(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	serverMsgs := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 1024)
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		serverMsgs <- buf[:n]
		conn.Write([]byte("pong"))
	}()

	received := make(chan []byte, 1)
	tr, err := Dial("opc.tcp://"+ln.Addr().String(), Events{
		OnMessage: func(b []byte) { received <- b },
	}, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	if err := tr.Open(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tr.State() != Open {
		t.Fatalf("state = %v, want Open", tr.State())
	}

	if err := tr.Write([]byte("ping")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case got := <-serverMsgs:
		if string(got) != "ping" {
			t.Fatalf("server received %q, want ping", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server to receive write")
	}

	select {
	case got := <-received:
		if string(got) != "pong" {
			t.Fatalf("client received %q, want pong", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for OnMessage")
	}

	tr.Close(nil)
}

func TestTCPTransportWriteWhenClosedFails(t *testing.T) {
	tr, err := Dial("opc.tcp://127.0.0.1:1", Events{}, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if err := tr.Write([]byte("x")); err == nil {
		t.Fatalf("Write on unopened transport should fail")
	}
}

func TestTCPTransportOpenTimeout(t *testing.T) {
	// 203.0.113.0/24 is TEST-NET-3 (RFC 5737) — guaranteed unroutable, so
	// the dial will hang until our timeout fires rather than failing fast.
	tr, err := Dial("opc.tcp://203.0.113.1:4840", Events{}, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	start := time.Now()
	err = tr.Open(context.Background(), 200*time.Millisecond)
	if err == nil {
		t.Fatalf("Open should have failed")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Open took %v, open_timeout should have bounded it", elapsed)
	}
}

func TestDialSelectsBackendByScheme(t *testing.T) {
	tcp, err := Dial("opc.tcp://localhost:4840", Events{}, nil)
	if err != nil {
		t.Fatalf("Dial tcp: %v", err)
	}
	if _, ok := tcp.(*tcpTransport); !ok {
		t.Fatalf("opc.tcp:// should select tcpTransport, got %T", tcp)
	}

	ws, err := Dial("opc.ws://localhost:4840/path", Events{}, nil)
	if err != nil {
		t.Fatalf("Dial ws: %v", err)
	}
	if _, ok := ws.(*wsTransport); !ok {
		t.Fatalf("opc.ws:// should select wsTransport, got %T", ws)
	}

	if _, err := Dial("http://localhost", Events{}, nil); err == nil {
		t.Fatalf("unsupported scheme should fail")
	}
}
