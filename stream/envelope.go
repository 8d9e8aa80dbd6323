package stream

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/config"
)

// Deflate compresses data with zlib framing
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, config.GetCompressionLevel())
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create zlib writer")
	}
	if _, err := zw.Write(data); err != nil {
		return nil, errors.Wrapf(err, "Failed to deflate")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrapf(err, "Failed to finish deflate")
	}
	return buf.Bytes(), nil
}

// Inflate decompresses zlib framed data
func Inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "zlib header: %v", err)
	}
	defer zr.Close()

	result, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "inflate: %v", err)
	}
	return result, nil
}

// Serialize writes content of sub as length prefixed block,
// deflated first when compress is set
func (c *codec) Serialize(sub *Memory, compress bool) {
	if c.err != nil {
		return
	}
	if err := sub.Err(); err != nil {
		c.err = err
		return
	}
	data := sub.Bytes()
	if compress {
		deflated, err := Deflate(data)
		if err != nil {
			c.err = err
			return
		}
		data = deflated
	}
	c.WriteDword(uint32(len(data)))
	c.write(data)
}

// Deserialize reads length prefixed block and returns it as new stream at position zero.
// On failure returned stream carries the same error as parent.
func (c *codec) Deserialize(decompress bool) *Memory {
	pos := c.b.pos()
	length := c.ReadDword()
	if !c.checkLength(length, pos) {
		return c.failedSub()
	}
	data := c.ReadData(int(length))
	if c.err != nil {
		return c.failedSub()
	}
	if decompress {
		inflated, err := Inflate(data)
		if err != nil {
			c.err = errors.Wrapf(err, "block at 0x%x", pos)
			return c.failedSub()
		}
		data = inflated
	}
	return NewMemory(data)
}

func (c *codec) failedSub() *Memory {
	m := NewMemory(nil)
	m.err = c.err
	return m
}

// ReadBitmap reads bool presence flag and compressed block. Returns nil when absent.
func (c *codec) ReadBitmap() []byte {
	if !c.ReadBool() {
		return nil
	}
	sub := c.Deserialize(true)
	if c.err != nil {
		return nil
	}
	return sub.Bytes()
}

func (c *codec) WriteBitmap(data []byte) {
	c.WriteBool(data != nil)
	if data != nil {
		c.Serialize(NewMemory(data), true)
	}
}

// ReadBitmapOld reads legacy presence tag and uncompressed block. Returns nil when absent.
func (c *codec) ReadBitmapOld() []byte {
	pos := c.b.pos()
	switch tag := c.ReadDword(); tag {
	case BitmapOldAbsent:
		return nil
	case BitmapOldPresent:
		sub := c.Deserialize(false)
		if c.err != nil {
			return nil
		}
		return sub.Bytes()
	default:
		if c.err == nil {
			c.err = errors.Wrapf(ErrDecode, "unknown bitmap tag 0x%x at 0x%x", tag, pos)
		}
		return nil
	}
}

func (c *codec) WriteBitmapOld(data []byte) {
	if data == nil {
		c.WriteDword(BitmapOldAbsent)
		return
	}
	c.WriteDword(BitmapOldPresent)
	c.Serialize(NewMemory(data), false)
}
