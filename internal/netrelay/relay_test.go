package netrelay

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func testSocketPath(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("/tmp/fightcore-relay-test-%d.sock", time.Now().UnixNano())
}

func TestPublisherSubscriberInputRoundTrip(t *testing.T) {
	path := testSocketPath(t)

	pub := NewPublisher(path)
	if err := pub.Start(); err != nil {
		t.Fatalf("failed to start publisher: %v", err)
	}
	defer pub.Stop()

	sub := NewSubscriber(path)

	var mu sync.Mutex
	var received []InputMessage
	got := make(chan struct{}, 1)

	sub.OnInput(func(msg InputMessage) {
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
		select {
		case got <- struct{}{}:
		default:
		}
	})

	if err := sub.Start(); err != nil {
		t.Fatalf("failed to start subscriber: %v", err)
	}
	defer sub.Stop()

	deadline := time.After(2 * time.Second)
	for !sub.IsConnected() {
		select {
		case <-deadline:
			t.Fatal("subscriber never connected to publisher")
		case <-time.After(5 * time.Millisecond):
		}
	}

	pub.PublishInput(InputMessage{Frame: 3, Player: 0, Input: 9})

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscriber to receive input message")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected exactly one received message, got %d", len(received))
	}
	if received[0].Frame != 3 || received[0].Player != 0 || received[0].Input != 9 {
		t.Fatalf("unexpected message contents: %+v", received[0])
	}
}

func TestPublisherSubscriberHashRoundTrip(t *testing.T) {
	path := testSocketPath(t)

	pub := NewPublisher(path)
	if err := pub.Start(); err != nil {
		t.Fatalf("failed to start publisher: %v", err)
	}
	defer pub.Stop()

	sub := NewSubscriber(path)
	got := make(chan HashMessage, 1)
	sub.OnHash(func(msg HashMessage) {
		got <- msg
	})

	if err := sub.Start(); err != nil {
		t.Fatalf("failed to start subscriber: %v", err)
	}
	defer sub.Stop()

	deadline := time.After(2 * time.Second)
	for !sub.IsConnected() {
		select {
		case <-deadline:
			t.Fatal("subscriber never connected to publisher")
		case <-time.After(5 * time.Millisecond):
		}
	}

	pub.PublishHash(HashMessage{Frame: 10, Hash: 0x1234})

	select {
	case msg := <-got:
		if msg.Frame != 10 || msg.Hash != 0x1234 {
			t.Fatalf("unexpected hash message: %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hash message")
	}
}

func TestPublisherStatsTracksConnectedPeers(t *testing.T) {
	path := testSocketPath(t)

	pub := NewPublisher(path)
	if err := pub.Start(); err != nil {
		t.Fatalf("failed to start publisher: %v", err)
	}
	defer pub.Stop()

	sub := NewSubscriber(path)
	if err := sub.Start(); err != nil {
		t.Fatalf("failed to start subscriber: %v", err)
	}
	defer sub.Stop()

	deadline := time.After(2 * time.Second)
	for {
		peers, _, _ := pub.Stats()
		if peers >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("publisher never registered the connecting subscriber")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
