package stream

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// File is buffered file backed stream opened either for reading or for writing
type File struct {
	codec
	f    *os.File
	r    *bufio.Reader
	w    *bufio.Writer
	size int64
	off  int64
	buf  []byte
}

var _ Stream = (*File)(nil)

func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "Failed to open %q: %v", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(ErrIO, "Failed to stat %q: %v", path, err)
	}
	fs := &File{f: f, r: bufio.NewReader(f), size: st.Size()}
	fs.codec.b = fs
	return fs, nil
}

func CreateFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "Failed to create %q: %v", path, err)
	}
	fs := &File{f: f, w: bufio.NewWriter(f)}
	fs.codec.b = fs
	return fs, nil
}

func (fs *File) Name() string {
	return fs.f.Name()
}

func (fs *File) Size() int64 {
	return fs.size
}

func (fs *File) readRaw(n int) ([]byte, error) {
	if fs.r == nil {
		return nil, errors.Wrapf(ErrIO, "%q opened for writing", fs.f.Name())
	}
	if int64(n) > fs.size-fs.off {
		return nil, errors.Wrapf(ErrDecode, "read of %d bytes at 0x%x past the end of %q (%d bytes)",
			n, fs.off, fs.f.Name(), fs.size)
	}
	if cap(fs.buf) < n {
		fs.buf = make([]byte, n)
	}
	buf := fs.buf[:n]
	if _, err := io.ReadFull(fs.r, buf); err != nil {
		return nil, errors.Wrapf(ErrDecode, "read of %d bytes at 0x%x: %v", n, fs.off, err)
	}
	fs.off += int64(n)
	return buf, nil
}

func (fs *File) writeRaw(p []byte) error {
	if fs.w == nil {
		return errors.Wrapf(ErrIO, "%q opened for reading", fs.f.Name())
	}
	if _, err := fs.w.Write(p); err != nil {
		return errors.Wrapf(ErrIO, "write to %q: %v", fs.f.Name(), err)
	}
	fs.off += int64(len(p))
	if fs.off > fs.size {
		fs.size = fs.off
	}
	return nil
}

func (fs *File) skipRaw(n int64) error {
	if fs.r == nil {
		return errors.Wrapf(ErrIO, "%q opened for writing", fs.f.Name())
	}
	if n > fs.size-fs.off {
		return errors.Wrapf(ErrDecode, "skip of %d bytes at 0x%x past the end of %q", n, fs.off, fs.f.Name())
	}
	if _, err := fs.r.Discard(int(n)); err != nil {
		return errors.Wrapf(ErrDecode, "skip of %d bytes at 0x%x: %v", n, fs.off, err)
	}
	fs.off += n
	return nil
}

func (fs *File) pos() int64 {
	return fs.off
}

func (fs *File) remaining() int64 {
	if fs.r == nil {
		return 0
	}
	return fs.size - fs.off
}

// Close flushes pending writes and closes file.
// Sticky stream error takes precedence over close error.
func (fs *File) Close() error {
	if fs.w != nil {
		if err := fs.w.Flush(); err != nil {
			fs.SetErr(errors.Wrapf(ErrIO, "flush %q: %v", fs.f.Name(), err))
		}
	}
	if err := fs.f.Close(); err != nil {
		fs.SetErr(errors.Wrapf(ErrIO, "close %q: %v", fs.f.Name(), err))
	}
	return fs.err
}
