// Package session stamps each compiler invocation with a UUID, surfaced in
// -trace diagnostic output and in the optional debug bundle header (§13).
package session

import "github.com/google/uuid"

// DebugMagic is the 4-byte marker spec §13 puts at the start of a debug
// bundle header, ahead of the INIT block the external VM actually reads.
const DebugMagic = "SMPL"

// DebugVersion is the debug header format version byte. Bump it if the
// header's layout ever changes shape.
const DebugVersion byte = 1

// Session identifies one compiler run.
type Session struct {
	ID uuid.UUID
}

// New stamps a fresh session with a random UUID.
func New() *Session {
	return &Session{ID: uuid.New()}
}

// TraceID renders the session id for -trace diagnostic output.
func (s *Session) TraceID() string {
	return s.ID.String()
}

// DebugHeader builds the 16-byte header: 4-byte magic, 1 version byte, 3
// bytes of padding, and the first 8 bytes of the session UUID. Only
// `translate -debug` emits this; `check` and the default `translate` path
// never do, so the documented wire format is untouched by default.
func (s *Session) DebugHeader() [16]byte {
	var h [16]byte
	copy(h[0:4], DebugMagic)
	h[4] = DebugVersion
	copy(h[8:16], s.ID[:8])
	return h
}
