// Package stream implements byte level cursors used by gmk codec.
// Two backends exist: Memory (growable buffer) and File (buffered os.File).
// Both share typed primitive codecs and nested block helpers.
//
// Errors are sticky: after the first failure every read returns zero value
// and every write is dropped. Check Err() after a batch of operations.
package stream

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/utils"
)

var (
	// ErrDecode reported on reads past the end of data,
	// on broken length prefixes and on corrupted compressed blocks
	ErrDecode = errors.New("decode error")
	// ErrIO reported when underlying file cannot be opened or accessed
	ErrIO = errors.New("stream i/o error")
)

const (
	BitmapOldAbsent  = 0xffffffff
	BitmapOldPresent = 0x10
)

type Stream interface {
	ReadUint8() uint8
	ReadWord() uint16
	ReadDword() uint32
	ReadInt() int32
	ReadQword() uint64
	ReadFloat() float32
	ReadDouble() float64
	ReadBool() bool
	ReadString() string
	ReadTime() time.Time
	ReadData(n int) []byte
	ReadCount(minElemSize int) int
	Skip(n int64)

	WriteUint8(v uint8)
	WriteWord(v uint16)
	WriteDword(v uint32)
	WriteInt(v int32)
	WriteQword(v uint64)
	WriteFloat(v float32)
	WriteDouble(v float64)
	WriteBool(v bool)
	WriteString(s string)
	WriteTime(t time.Time)
	WriteData(p []byte)

	Serialize(sub *Memory, compress bool)
	Deserialize(decompress bool) *Memory
	ReadBitmap() []byte
	WriteBitmap(data []byte)
	ReadBitmapOld() []byte
	WriteBitmapOld(data []byte)

	Pos() int64
	Remaining() int64
	Err() error
	SetErr(err error)
}

// backend is raw byte access provided by concrete streams
type backend interface {
	readRaw(n int) ([]byte, error)
	writeRaw(p []byte) error
	skipRaw(n int64) error
	pos() int64
	remaining() int64
}

// codec implements typed primitives on top of backend
type codec struct {
	b   backend
	err error
}

func (c *codec) Err() error {
	return c.err
}

// SetErr records error if none recorded yet
func (c *codec) SetErr(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

func (c *codec) Pos() int64 {
	return c.b.pos()
}

func (c *codec) Remaining() int64 {
	return c.b.remaining()
}

func (c *codec) read(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 {
		c.err = errors.Wrapf(ErrDecode, "negative read size %d at 0x%x", n, c.b.pos())
		return nil
	}
	buf, err := c.b.readRaw(n)
	if err != nil {
		c.err = err
		return nil
	}
	return buf
}

func (c *codec) write(p []byte) {
	if c.err != nil {
		return
	}
	if err := c.b.writeRaw(p); err != nil {
		c.err = err
	}
}

func (c *codec) Skip(n int64) {
	if c.err != nil {
		return
	}
	if n < 0 {
		c.err = errors.Wrapf(ErrDecode, "negative skip %d at 0x%x", n, c.b.pos())
		return
	}
	if err := c.b.skipRaw(n); err != nil {
		c.err = err
	}
}

func (c *codec) ReadUint8() uint8 {
	if b := c.read(1); b != nil {
		return b[0]
	}
	return 0
}

func (c *codec) ReadWord() uint16 {
	if b := c.read(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (c *codec) ReadDword() uint32 {
	if b := c.read(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (c *codec) ReadInt() int32 {
	return int32(c.ReadDword())
}

func (c *codec) ReadQword() uint64 {
	if b := c.read(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (c *codec) ReadFloat() float32 {
	return math.Float32frombits(c.ReadDword())
}

func (c *codec) ReadDouble() float64 {
	return math.Float64frombits(c.ReadQword())
}

// ReadBool decodes dword, any value >= 1 is true
func (c *codec) ReadBool() bool {
	return c.ReadDword() >= 1
}

// ReadCount reads array length and verifies that remaining data
// can hold that many elements of minElemSize bytes
func (c *codec) ReadCount(minElemSize int) int {
	pos := c.b.pos()
	count := c.ReadDword()
	if c.err != nil {
		return 0
	}
	if minElemSize > 0 && int64(count)*int64(minElemSize) > c.b.remaining() {
		c.err = errors.Wrapf(ErrDecode, "count %d at 0x%x requires more than %d remaining bytes",
			count, pos, c.b.remaining())
		return 0
	}
	return int(count)
}

func (c *codec) checkLength(length uint32, pos int64) bool {
	if c.err != nil {
		return false
	}
	if int64(length) > c.b.remaining() {
		c.err = errors.Wrapf(ErrDecode, "length prefix %d at 0x%x exceeds %d remaining bytes",
			length, pos, c.b.remaining())
		return false
	}
	return true
}

// ReadData reads n raw bytes into new slice
func (c *codec) ReadData(n int) []byte {
	b := c.read(n)
	if c.err != nil {
		return nil
	}
	result := make([]byte, len(b))
	copy(result, b)
	return result
}

func (c *codec) ReadString() string {
	pos := c.b.pos()
	length := c.ReadDword()
	if !c.checkLength(length, pos) {
		return ""
	}
	raw := c.read(int(length))
	if raw == nil {
		return ""
	}
	return utils.BytesToString(raw)
}

func (c *codec) ReadTime() time.Time {
	return DaysToTime(c.ReadDouble())
}

func (c *codec) WriteUint8(v uint8) {
	c.write([]byte{v})
}

func (c *codec) WriteWord(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	c.write(buf[:])
}

func (c *codec) WriteDword(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	c.write(buf[:])
}

func (c *codec) WriteInt(v int32) {
	c.WriteDword(uint32(v))
}

func (c *codec) WriteQword(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	c.write(buf[:])
}

func (c *codec) WriteFloat(v float32) {
	c.WriteDword(math.Float32bits(v))
}

func (c *codec) WriteDouble(v float64) {
	c.WriteQword(math.Float64bits(v))
}

func (c *codec) WriteBool(v bool) {
	if v {
		c.WriteDword(1)
	} else {
		c.WriteDword(0)
	}
}

func (c *codec) WriteData(p []byte) {
	c.write(p)
}

func (c *codec) WriteString(s string) {
	raw, err := utils.StringToBytes(s)
	if err != nil {
		c.SetErr(err)
		return
	}
	c.WriteDword(uint32(len(raw)))
	c.write(raw)
}

func (c *codec) WriteTime(t time.Time) {
	c.WriteDouble(TimeToDays(t))
}
