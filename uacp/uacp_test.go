package uacp

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"opcuacore/ua"
)

// fakeServerAck accepts one connection, reads the HEL frame, and replies
// with an ACK advertising the given limits.
func fakeServerAck(t *testing.T, ln net.Listener, limits Limits) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	header := make([]byte, headerSize)
	if _, err := readFull(conn, header); err != nil {
		t.Logf("fake server: read header: %v", err)
		return
	}
	size := binary.LittleEndian.Uint32(header[4:8])
	body := make([]byte, int(size)-headerSize)
	if _, err := readFull(conn, body); err != nil {
		t.Logf("fake server: read body: %v", err)
		return
	}

	enc := ua.NewEncoder(32)
	enc.WriteUint32(0)
	enc.WriteUint32(limits.ReceiveBufferSize)
	enc.WriteUint32(limits.SendBufferSize)
	enc.WriteUint32(limits.MaxMessageSize)
	enc.WriteUint32(limits.MaxChunkCount)
	ackBody := enc.Bytes()

	out := ua.NewEncoder(headerSize + len(ackBody))
	out.WriteBytes([]byte(TypeAcknowledge))
	out.WriteByte(byte(ChunkFinal))
	out.WriteUint32(uint32(headerSize + len(ackBody)))
	out.WriteBytes(ackBody)
	conn.Write(out.Bytes())
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestOpenHandshakeAdoptsLimits(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	want := Limits{ReceiveBufferSize: 65536, SendBufferSize: 65536, MaxMessageSize: 4194304, MaxChunkCount: 512}
	go fakeServerAck(t, ln, want)

	conn, err := Open(context.Background(), "opc.tcp://"+ln.Addr().String(), 2*time.Second, FrameEvents{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close(nil)

	if got := conn.Limits(); got != want {
		t.Fatalf("Limits = %+v, want %+v", got, want)
	}
}

func TestOpenFailsOnErrFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		header := make([]byte, headerSize)
		readFull(conn, header)
		size := binary.LittleEndian.Uint32(header[4:8])
		body := make([]byte, int(size)-headerSize)
		readFull(conn, body)

		enc := ua.NewEncoder(16)
		enc.WriteUint32(0x80760000) // BadTcpEndpointUrlInvalid-ish
		enc.WriteString("bad endpoint")
		errBody := enc.Bytes()

		out := ua.NewEncoder(headerSize + len(errBody))
		out.WriteBytes([]byte(TypeError))
		out.WriteByte(byte(ChunkFinal))
		out.WriteUint32(uint32(headerSize + len(errBody)))
		out.WriteBytes(errBody)
		conn.Write(out.Bytes())
	}()

	_, err = Open(context.Background(), "opc.tcp://"+ln.Addr().String(), 2*time.Second, FrameEvents{}, nil)
	if err == nil {
		t.Fatalf("Open should fail when server replies with ERR")
	}
}

func TestOpenTimesOutWithoutAck(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// Accept the connection but never reply — the client must time out.
		time.Sleep(2 * time.Second)
	}()

	start := time.Now()
	_, err = Open(context.Background(), "opc.tcp://"+ln.Addr().String(), 200*time.Millisecond, FrameEvents{}, nil)
	if err == nil {
		t.Fatalf("Open should time out without an ACK")
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Fatalf("Open took %v, want bounded by open_timeout", elapsed)
	}
}

func TestUnknownFrameTypeForwardedToOnFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	forwarded := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		header := make([]byte, headerSize)
		readFull(conn, header)
		size := binary.LittleEndian.Uint32(header[4:8])
		body := make([]byte, int(size)-headerSize)
		readFull(conn, body)

		// Reply with ACK first so Open() succeeds.
		fakeServerAck2(conn, Limits{ReceiveBufferSize: 1024, SendBufferSize: 1024, MaxMessageSize: 1024, MaxChunkCount: 1})

		// Then send an OPN-tagged frame, which this layer doesn't
		// recognize and must pass through untouched.
		out := ua.NewEncoder(headerSize + 4)
		out.WriteBytes([]byte("OPN"))
		out.WriteByte(byte(ChunkFinal))
		out.WriteUint32(uint32(headerSize + 4))
		out.WriteBytes([]byte{1, 2, 3, 4})
		conn.Write(out.Bytes())
	}()

	conn, err := Open(context.Background(), "opc.tcp://"+ln.Addr().String(), 2*time.Second, FrameEvents{
		OnFrame: func(msgType string, chunk ChunkType, body []byte) {
			forwarded <- msgType
		},
	}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close(nil)

	select {
	case msgType := <-forwarded:
		if msgType != "OPN" {
			t.Fatalf("forwarded msgType = %q, want OPN", msgType)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded frame")
	}
}

func fakeServerAck2(conn net.Conn, limits Limits) {
	enc := ua.NewEncoder(32)
	enc.WriteUint32(0)
	enc.WriteUint32(limits.ReceiveBufferSize)
	enc.WriteUint32(limits.SendBufferSize)
	enc.WriteUint32(limits.MaxMessageSize)
	enc.WriteUint32(limits.MaxChunkCount)
	ackBody := enc.Bytes()
	out := ua.NewEncoder(headerSize + len(ackBody))
	out.WriteBytes([]byte(TypeAcknowledge))
	out.WriteByte(byte(ChunkFinal))
	out.WriteUint32(uint32(headerSize + len(ackBody)))
	out.WriteBytes(ackBody)
	conn.Write(out.Bytes())
}
