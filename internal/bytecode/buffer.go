package bytecode

import (
	"math"
	"unicode/utf8"
)

// Buffer accumulates an opcode stream, mirroring the teacher's chunk.go
// append-and-shift idiom rather than reaching for encoding/binary: every
// multi-byte write is a manual big-endian shift, one byte at a time.
type Buffer struct {
	Code []byte
}

// NewBuffer returns an empty buffer with teacher-style initial capacity.
func NewBuffer() *Buffer {
	return &Buffer{Code: make([]byte, 0, 256)}
}

// Len reports the current byte length.
func (b *Buffer) Len() int { return len(b.Code) }

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(v byte) { b.Code = append(b.Code, v) }

// WriteOp appends an opcode.
func (b *Buffer) WriteOp(op Op) { b.WriteByte(byte(op)) }

// WriteU16 appends a 16-bit value, big-endian.
func (b *Buffer) WriteU16(v uint16) {
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

// WriteI32 appends a 32-bit signed integer, big-endian, the width the
// original generator used for integer literals.
func (b *Buffer) WriteI32(v int32) {
	u := uint32(v)
	b.WriteByte(byte(u >> 24))
	b.WriteByte(byte(u >> 16))
	b.WriteByte(byte(u >> 8))
	b.WriteByte(byte(u))
}

// WriteF64 appends a 64-bit float, big-endian.
func (b *Buffer) WriteF64(v float64) {
	u := math.Float64bits(v)
	for shift := 56; shift >= 0; shift -= 8 {
		b.WriteByte(byte(u >> uint(shift)))
	}
}

// WriteBool appends a boolean as one byte: 0 for false, 255 for true,
// per spec §6.
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.WriteByte(255)
		return
	}
	b.WriteByte(0)
}

// WriteString appends a 16-bit length prefix followed by the string's
// bytes, truncating at the nearest whole-codepoint boundary if the
// string exceeds (1<<16)-1 bytes, per spec §4.H/§6.
func (b *Buffer) WriteString(s string) {
	const maxLen = (1 << 16) - 1
	if len(s) > maxLen {
		s = truncateToCodepointBoundary(s, maxLen)
	}
	b.WriteU16(uint16(len(s)))
	b.Code = append(b.Code, s...)
}

// truncateToCodepointBoundary returns the longest prefix of s, at most
// maxBytes long, that ends on a whole rune.
func truncateToCodepointBoundary(s string, maxBytes int) string {
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
