package core

// Frame is a raw signaling payload, forwarded without interpretation.
type Frame []byte

// SessionID identifies a live transport connection. Unique per connection,
// never reused while the connection is alive.
type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
