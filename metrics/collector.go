// Package metrics provides per-session metrics collection.
//
// The Collector accumulates counters during a single encode or decode
// session. It is a leaf package with no internal dependencies; the
// session snapshot is rendered by the CLI at session end.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all session metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Framing
	FramesEncoded int64 `json:"frames_encoded"`
	FramesDecoded int64 `json:"frames_decoded"`

	// Decode validation
	DecodeRetries   int64 `json:"decode_retries"`
	IndexMismatches int64 `json:"index_mismatches"`

	// Storage (per-call)
	StoreWriteSuccess int64 `json:"store_write_success"`
	StoreWriteFailure int64 `json:"store_write_failure"`
	StoreReadSuccess  int64 `json:"store_read_success"`
	StoreReadFailure  int64 `json:"store_read_failure"`

	// Payload volume
	BytesIn  int64 `json:"bytes_in"`
	BytesOut int64 `json:"bytes_out"`

	// Dimensions (informational, set at construction)
	Mode      string `json:"mode"`
	Backend   string `json:"backend"`
	SessionID string `json:"session_id"`
}

// Collector accumulates metrics during a single session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so optional collection never forces nil checks on callers.
type Collector struct {
	mu sync.Mutex

	framesEncoded int64
	framesDecoded int64

	decodeRetries   int64
	indexMismatches int64

	storeWriteSuccess int64
	storeWriteFailure int64
	storeReadSuccess  int64
	storeReadFailure  int64

	bytesIn  int64
	bytesOut int64

	mode      string
	backend   string
	sessionID string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(mode, backend, sessionID string) *Collector {
	return &Collector{
		mode:      mode,
		backend:   backend,
		sessionID: sessionID,
	}
}

// IncFrameEncoded records one frame rendered and handed to the store.
func (c *Collector) IncFrameEncoded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesEncoded++
	c.mu.Unlock()
}

// IncFrameDecoded records one frame accepted by the reassembler.
func (c *Collector) IncFrameDecoded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesDecoded++
	c.mu.Unlock()
}

// IncDecodeRetry records a rejected frame being re-acquired for the
// same arrival position.
func (c *Collector) IncDecodeRetry() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.decodeRetries++
	c.mu.Unlock()
}

// IncIndexMismatch records a declared-vs-arrival index conflict.
func (c *Collector) IncIndexMismatch() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.indexMismatches++
	c.mu.Unlock()
}

// IncStoreWriteSuccess records a successful store write (per-call).
func (c *Collector) IncStoreWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeWriteSuccess++
	c.mu.Unlock()
}

// IncStoreWriteFailure records a failed store write (per-call).
func (c *Collector) IncStoreWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeWriteFailure++
	c.mu.Unlock()
}

// IncStoreReadSuccess records a successful store read (per-call).
func (c *Collector) IncStoreReadSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeReadSuccess++
	c.mu.Unlock()
}

// IncStoreReadFailure records a failed store read (per-call).
func (c *Collector) IncStoreReadFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeReadFailure++
	c.mu.Unlock()
}

// AddBytesIn records source bytes entering the encoder.
func (c *Collector) AddBytesIn(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.bytesIn += n
	c.mu.Unlock()
}

// AddBytesOut records decoded bytes leaving the materializer.
func (c *Collector) AddBytesOut(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.bytesOut += n
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all metrics.
// The Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		FramesEncoded: c.framesEncoded,
		FramesDecoded: c.framesDecoded,

		DecodeRetries:   c.decodeRetries,
		IndexMismatches: c.indexMismatches,

		StoreWriteSuccess: c.storeWriteSuccess,
		StoreWriteFailure: c.storeWriteFailure,
		StoreReadSuccess:  c.storeReadSuccess,
		StoreReadFailure:  c.storeReadFailure,

		BytesIn:  c.bytesIn,
		BytesOut: c.bytesOut,

		Mode:      c.mode,
		Backend:   c.backend,
		SessionID: c.sessionID,
	}
}
