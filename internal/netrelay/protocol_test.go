package netrelay

import (
	"bytes"
	"testing"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := InputMessage{Frame: 42, Player: 1, Input: 7}

	if err := WriteMessage(&buf, MsgTypeInput, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgType, body, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgType != MsgTypeInput {
		t.Fatalf("expected MsgTypeInput, got %d", msgType)
	}

	decoded, err := DecodeInput(body)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if decoded.Frame != 42 || decoded.Player != 1 {
		t.Fatalf("round trip mismatch: got %+v", decoded)
	}
}

func TestWriteMessageRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	oversized := make([]byte, MaxMessageSize+1)
	err := WriteMessage(&buf, MsgTypeInput, oversized)
	if err == nil {
		t.Fatal("expected an error for an oversized payload")
	}
}

func TestReadMessageRejectsVersionMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, MsgTypePing, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw := buf.Bytes()
	raw[0] = 0xFF // corrupt the version field

	_, _, err := ReadMessage(bytes.NewReader(raw))
	if err == nil {
		t.Fatal("expected a version mismatch error")
	}
}

func TestWriteMessageNilPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, MsgTypePing, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgType, body, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgType != MsgTypePing {
		t.Fatalf("expected MsgTypePing, got %d", msgType)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty body, got %d bytes", len(body))
	}
}

func TestHashMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := HashMessage{Frame: 7, Hash: 0xCAFEBABE}
	if err := WriteMessage(&buf, MsgTypeHash, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgType, body, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgType != MsgTypeHash {
		t.Fatalf("expected MsgTypeHash, got %d", msgType)
	}
	decoded, err := DecodeHash(body)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if decoded.Frame != 7 || decoded.Hash != 0xCAFEBABE {
		t.Fatalf("round trip mismatch: got %+v", decoded)
	}
}
