package simcore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/time/rate"
)

const (
	EventBufferSize    = 1024                   // circular buffer size
	MaxEventsPerSec    = 2000                   // global rate limit
	MaxEventsPerPlayer = 200                    // per-player rate limit per second
	BatchFlushSize     = 64                     // events per batch write
	BatchFlushInterval = 100 * time.Millisecond // how often to flush
	PlayerLimiterCleanup = 5 * time.Minute       // cleanup interval for player limiters
)

// EventLog provides bounded, rate-limited diagnostic event logging
// for the rollback controller: desyncs, rollbacks, and dropped
// remote inputs. A flood of any one of these (a misbehaving or
// malicious peer resending garbage, for instance) must never be able
// to grow memory unboundedly or stall the simulation thread, so the
// buffer is fixed-size and producers never block.
type EventLog struct {
	buffer    [EventBufferSize]Event
	writeHead uint64 // atomic - producer position
	readHead  uint64 // atomic - consumer position

	globalLimiter  *rate.Limiter
	playerLimiters sync.Map // map[string]*playerLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

type playerLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewEventLog constructs an EventLog. Call Start to begin the
// background writer before emitting events that should reach disk.
func NewEventLog() *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the async writer and limiter-cleanup goroutines. If
// filePath is empty, events are still buffered and countable via
// GetStats but nothing is written to disk.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	return nil
}

// Stop gracefully shuts down the event log, flushing any buffered
// events first.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event, subject to global and per-player rate limits.
// Returns false if the log is not running or the event was
// rate-limited. When the buffer is full the oldest entry is dropped
// (and counted as dropped) to make room, and the new event is still
// accepted.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	if event.PlayerID != "" {
		limiter := el.getPlayerLimiter(event.PlayerID)
		if !limiter.Allow() {
			atomic.AddUint64(&el.droppedCount, 1)
			return false
		}
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)

	if head-tail >= EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	el.buffer[head%EventBufferSize] = event

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple builds and emits an event in one call.
func (el *EventLog) EmitSimple(eventType EventType, frame int32, playerID string, payload interface{}) bool {
	return el.Emit(NewEvent(eventType, frame, playerID, payload))
}

func (el *EventLog) getPlayerLimiter(playerID string) *rate.Limiter {
	if entry, ok := el.playerLimiters.Load(playerID); ok {
		e := entry.(*playerLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}

	entry := &playerLimiterEntry{
		limiter:  rate.NewLimiter(MaxEventsPerPlayer, MaxEventsPerPlayer/10),
		lastUsed: time.Now(),
	}
	actual, _ := el.playerLimiters.LoadOrStore(playerID, entry)
	return actual.(*playerLimiterEntry).limiter
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
			return
		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(PlayerLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupPlayerLimiters()
		}
	}
}

func (el *EventLog) cleanupPlayerLimiters() {
	cutoff := time.Now().Add(-PlayerLimiterCleanup)
	el.playerLimiters.Range(func(key, value interface{}) bool {
		entry := value.(*playerLimiterEntry)
		if entry.lastUsed.Before(cutoff) {
			el.playerLimiters.Delete(key)
		}
		return true
	})
}

func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.buffer[i%EventBufferSize])
	}

	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}

	return batch
}

// flushBatch writes one line of JSON per event followed by a trailer
// line carrying an xxhash checksum of the batch's bytes, so a reader
// replaying events.jsonl can detect truncation or corruption from a
// crash mid-write without needing the canonical FNV-1a state hash
// (that one is reserved for cross-peer desync detection, spec.md
// §4.8/§9 — this is a much cheaper on-disk integrity check).
func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}

	digest := xxhash.New()
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		digest.Write(data)
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}

	trailer := fmt.Sprintf("{\"batch_checksum\":\"%016x\",\"count\":%d}\n", digest.Sum64(), len(batch))
	el.file.Write([]byte(trailer))
}

// GetStats reports counters useful for a debug/metrics endpoint.
func (el *EventLog) GetStats() map[string]interface{} {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	return map[string]interface{}{
		"total":   atomic.LoadUint64(&el.totalCount),
		"dropped": atomic.LoadUint64(&el.droppedCount),
		"pending": head - tail,
		"running": el.running.Load(),
	}
}

// GetDroppedCount returns the number of events dropped to rate
// limiting or buffer backpressure.
func (el *EventLog) GetDroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// GetTotalCount returns the total number of events accepted.
func (el *EventLog) GetTotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}
