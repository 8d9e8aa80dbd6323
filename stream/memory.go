package stream

import (
	"github.com/pkg/errors"
)

// Memory is growable in-memory stream.
// Writes at position inside buffer overwrite data, writes at the end grow it.
type Memory struct {
	codec
	buf []byte
	off int
}

var _ Stream = (*Memory)(nil)

func NewMemory(data []byte) *Memory {
	m := &Memory{buf: data}
	m.codec.b = m
	return m
}

func (m *Memory) readRaw(n int) ([]byte, error) {
	if n > len(m.buf)-m.off {
		return nil, errors.Wrapf(ErrDecode, "read of %d bytes at 0x%x past the end of %d bytes buffer",
			n, m.off, len(m.buf))
	}
	b := m.buf[m.off : m.off+n]
	m.off += n
	return b, nil
}

func (m *Memory) writeRaw(p []byte) error {
	if m.off == len(m.buf) {
		m.buf = append(m.buf, p...)
	} else {
		n := copy(m.buf[m.off:], p)
		m.buf = append(m.buf, p[n:]...)
	}
	m.off += len(p)
	return nil
}

func (m *Memory) skipRaw(n int64) error {
	if n > int64(len(m.buf)-m.off) {
		return errors.Wrapf(ErrDecode, "skip of %d bytes at 0x%x past the end of %d bytes buffer",
			n, m.off, len(m.buf))
	}
	m.off += int(n)
	return nil
}

func (m *Memory) pos() int64 {
	return int64(m.off)
}

func (m *Memory) remaining() int64 {
	return int64(len(m.buf) - m.off)
}

// Bytes returns whole buffer regardless of position
func (m *Memory) Bytes() []byte {
	return m.buf
}

func (m *Memory) Len() int {
	return len(m.buf)
}

// Seek moves position inside buffer
func (m *Memory) Seek(pos int) {
	if pos < 0 || pos > len(m.buf) {
		m.SetErr(errors.Wrapf(ErrDecode, "seek to 0x%x outside of %d bytes buffer", pos, len(m.buf)))
		return
	}
	m.off = pos
}

// Reset truncates buffer and clears error
func (m *Memory) Reset() {
	m.buf = m.buf[:0]
	m.off = 0
	m.err = nil
}
