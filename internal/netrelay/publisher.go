package netrelay

import (
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Publisher broadcasts this side's confirmed InputMessage/HashMessage
// traffic to whichever peer connections have dialed in, over a Unix
// socket. Exactly one side of a match runs a Publisher; the other
// runs a matching Subscriber (or both run one of each, for a
// symmetric two-socket relay).
type Publisher struct {
	socketPath string
	listener   net.Listener

	clients   map[net.Conn]struct{}
	clientsMu sync.RWMutex

	outCh chan outgoingMessage

	sentCount    int64 // atomic
	droppedCount int64 // atomic

	running int32 // atomic
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

type outgoingMessage struct {
	msgType byte
	payload interface{}
}

// NewPublisher constructs a Publisher bound to socketPath (or
// DefaultSocketPath if empty). Call Start to begin listening.
func NewPublisher(socketPath string) *Publisher {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Publisher{
		socketPath: socketPath,
		clients:    make(map[net.Conn]struct{}),
		outCh:      make(chan outgoingMessage, 64),
		stopCh:     make(chan struct{}),
	}
}

// Start opens the listener and begins accepting peer connections.
func (p *Publisher) Start() error {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return nil
	}

	listener, err := CreateListener(p.socketPath)
	if err != nil {
		atomic.StoreInt32(&p.running, 0)
		return err
	}
	p.listener = listener

	p.wg.Add(2)
	go p.acceptLoop()
	go p.broadcastLoop()

	return nil
}

// Stop closes the listener, disconnects all peers, and waits for the
// background loops to exit.
func (p *Publisher) Stop() {
	if !atomic.CompareAndSwapInt32(&p.running, 1, 0) {
		return
	}

	close(p.stopCh)
	if p.listener != nil {
		p.listener.Close()
	}

	p.clientsMu.Lock()
	for conn := range p.clients {
		conn.Close()
	}
	p.clients = make(map[net.Conn]struct{})
	p.clientsMu.Unlock()

	p.wg.Wait()
	CleanupSocket(p.socketPath)
}

// PublishInput queues an input message for broadcast. Non-blocking: if
// the outgoing queue is full, the oldest queued message is dropped to
// make room, since a stale prediction is worse than a stall.
func (p *Publisher) PublishInput(msg InputMessage) {
	p.enqueue(outgoingMessage{msgType: MsgTypeInput, payload: msg})
}

// PublishHash queues a state-hash message for broadcast.
func (p *Publisher) PublishHash(msg HashMessage) {
	p.enqueue(outgoingMessage{msgType: MsgTypeHash, payload: msg})
}

func (p *Publisher) enqueue(m outgoingMessage) {
	if atomic.LoadInt32(&p.running) == 0 {
		return
	}

	select {
	case p.outCh <- m:
		return
	default:
	}

	select {
	case <-p.outCh:
		atomic.AddInt64(&p.droppedCount, 1)
	default:
	}
	select {
	case p.outCh <- m:
	default:
	}
}

// Stats returns connected peer count, total messages broadcast, and
// total messages dropped under backpressure.
func (p *Publisher) Stats() (peers int, sent int64, dropped int64) {
	p.clientsMu.RLock()
	peers = len(p.clients)
	p.clientsMu.RUnlock()
	return peers, atomic.LoadInt64(&p.sentCount), atomic.LoadInt64(&p.droppedCount)
}

func (p *Publisher) acceptLoop() {
	defer p.wg.Done()

	for atomic.LoadInt32(&p.running) == 1 {
		conn, err := p.listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&p.running) == 0 {
				return
			}
			log.Printf("netrelay: accept error: %v", err)
			continue
		}
		p.clientsMu.Lock()
		p.clients[conn] = struct{}{}
		p.clientsMu.Unlock()
	}
}

func (p *Publisher) broadcastLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case m := <-p.outCh:
			p.broadcast(m)
		}
	}
}

func (p *Publisher) broadcast(m outgoingMessage) {
	p.clientsMu.RLock()
	conns := make([]net.Conn, 0, len(p.clients))
	for conn := range p.clients {
		conns = append(conns, conn)
	}
	p.clientsMu.RUnlock()

	var failed []net.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := WriteMessage(conn, m.msgType, m.payload); err != nil {
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		p.removeClient(conn)
	}

	if len(conns) > 0 && len(failed) < len(conns) {
		atomic.AddInt64(&p.sentCount, 1)
	}
}

func (p *Publisher) removeClient(conn net.Conn) {
	p.clientsMu.Lock()
	defer p.clientsMu.Unlock()
	if _, ok := p.clients[conn]; ok {
		delete(p.clients, conn)
		conn.Close()
	}
}
