package stream

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/gmk_browser/config"
)

func dword(v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf[:]
}

func TestPrimitives(t *testing.T) {
	now := DaysToTime(44444.25)

	w := NewMemory(nil)
	w.WriteUint8(0xab)
	w.WriteWord(0x1234)
	w.WriteDword(0xdeadbeef)
	w.WriteInt(-100)
	w.WriteQword(0x0102030405060708)
	w.WriteFloat(1.5)
	w.WriteDouble(-2.25)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteString("obj_player")
	w.WriteString("")
	w.WriteTime(now)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	r := NewMemory(w.Bytes())
	if v := r.ReadUint8(); v != 0xab {
		t.Errorf("ReadUint8()=%x", v)
	}
	if v := r.ReadWord(); v != 0x1234 {
		t.Errorf("ReadWord()=%x", v)
	}
	if v := r.ReadDword(); v != 0xdeadbeef {
		t.Errorf("ReadDword()=%x", v)
	}
	if v := r.ReadInt(); v != -100 {
		t.Errorf("ReadInt()=%d", v)
	}
	if v := r.ReadQword(); v != 0x0102030405060708 {
		t.Errorf("ReadQword()=%x", v)
	}
	if v := r.ReadFloat(); v != 1.5 {
		t.Errorf("ReadFloat()=%v", v)
	}
	if v := r.ReadDouble(); v != -2.25 {
		t.Errorf("ReadDouble()=%v", v)
	}
	if !r.ReadBool() || r.ReadBool() {
		t.Errorf("ReadBool mismatch")
	}
	if s := r.ReadString(); s != "obj_player" {
		t.Errorf("ReadString()=%q", s)
	}
	if s := r.ReadString(); s != "" {
		t.Errorf("ReadString()=%q", s)
	}
	if tm := r.ReadTime(); !tm.Equal(now) {
		t.Errorf("ReadTime()=%v; expected %v", tm, now)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining()=%d", r.Remaining())
	}
	if err := r.Err(); err != nil {
		t.Error(err)
	}
}

func TestBoolAnyPositive(t *testing.T) {
	for _, v := range []uint32{1, 2, 0x80, 0xffffffff} {
		r := NewMemory(dword(v))
		if !r.ReadBool() {
			t.Errorf("ReadBool(%d) = false", v)
		}
	}
}

func TestStringCharmap(t *testing.T) {
	// windows-1252: 0xe9 is é, 0x80 is euro sign
	r := NewMemory([]byte{3, 0, 0, 0, 'c', 0xe9, 0x80})
	if s := r.ReadString(); s != "cé€" {
		t.Errorf("ReadString()=%q", s)
	}

	w := NewMemory(nil)
	w.WriteString("cé€")
	if !bytes.Equal(w.Bytes(), []byte{3, 0, 0, 0, 'c', 0xe9, 0x80}) {
		t.Errorf("WriteString produced %x", w.Bytes())
	}
}

func TestStringAllBytes(t *testing.T) {
	defer config.SetEncoding(config.GetEncoding().String())

	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i)
	}
	data := append(dword(uint32(len(raw))), raw...)

	for _, cm := range []*charmap.Charmap{
		charmap.Windows1252, charmap.Windows1251, charmap.Windows1250,
		charmap.ISO8859_1, charmap.CodePage437, charmap.Macintosh,
	} {
		t.Run(cm.String(), func(t *testing.T) {
			if err := config.SetEncoding(cm.String()); err != nil {
				t.Fatal(err)
			}
			r := NewMemory(data)
			s := r.ReadString()
			if err := r.Err(); err != nil {
				t.Fatalf("ReadString: %v", err)
			}

			w := NewMemory(nil)
			w.WriteString(s)
			if err := w.Err(); err != nil {
				t.Fatalf("WriteString: %v", err)
			}
			if !bytes.Equal(w.Bytes(), data) {
				t.Errorf("bytes changed:\nwant %x\ngot  %x", data, w.Bytes())
			}
		})
	}
}

func TestStringUnsupportedRune(t *testing.T) {
	w := NewMemory(nil)
	w.WriteString("日本")
	if w.Err() == nil {
		t.Errorf("rune outside of codepage was written")
	}
}

func TestReadPastEnd(t *testing.T) {
	r := NewMemory([]byte{1, 2, 3})
	if v := r.ReadDword(); v != 0 {
		t.Errorf("ReadDword()=%d on short buffer", v)
	}
	if !errors.Is(r.Err(), ErrDecode) {
		t.Fatalf("expected decode error, got %v", r.Err())
	}
	// sticky
	if v := r.ReadUint8(); v != 0 {
		t.Errorf("ReadUint8()=%d after error", v)
	}
	if r.Pos() != 0 {
		t.Errorf("Pos()=%d after failed read", r.Pos())
	}
}

func TestBrokenLengths(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		r := NewMemory([]byte{0xff, 0xff, 0xff, 0x7f, 'a'})
		r.ReadString()
		if !errors.Is(r.Err(), ErrDecode) {
			t.Errorf("expected decode error, got %v", r.Err())
		}
	})
	t.Run("Block", func(t *testing.T) {
		r := NewMemory([]byte{0x10, 0, 0, 0, 1, 2})
		sub := r.Deserialize(false)
		if !errors.Is(r.Err(), ErrDecode) || !errors.Is(sub.Err(), ErrDecode) {
			t.Errorf("expected decode error, got %v / %v", r.Err(), sub.Err())
		}
	})
	t.Run("Count", func(t *testing.T) {
		r := NewMemory([]byte{0x00, 0x00, 0x01, 0x00, 0, 0, 0, 0})
		if n := r.ReadCount(4); n != 0 {
			t.Errorf("ReadCount()=%d", n)
		}
		if !errors.Is(r.Err(), ErrDecode) {
			t.Errorf("expected decode error, got %v", r.Err())
		}
	})
	t.Run("Compressed", func(t *testing.T) {
		r := NewMemory([]byte{4, 0, 0, 0, 1, 2, 3, 4})
		r.Deserialize(true)
		if !errors.Is(r.Err(), ErrDecode) {
			t.Errorf("expected decode error, got %v", r.Err())
		}
	})
}

func TestEnvelope(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	random := make([]byte, 4096)
	rnd.Read(random)

	withMagic := make([]byte, 0, 64)
	for i := 0; i < 8; i++ {
		withMagic = append(withMagic, dword(1234321)...)
	}

	inputs := map[string][]byte{
		"single":    {0x42},
		"text":      []byte("Hello, World! This is test data for compression."),
		"random":    random,
		"withMagic": withMagic,
		"zeroes":    make([]byte, 100000),
	}

	for name, input := range inputs {
		for _, compress := range []bool{false, true} {
			w := NewMemory(nil)
			w.WriteDword(7)
			w.Serialize(NewMemory(input), compress)
			w.WriteDword(9)
			if err := w.Err(); err != nil {
				t.Fatalf("%s/%v: %v", name, compress, err)
			}

			r := NewMemory(w.Bytes())
			r.ReadDword()
			sub := r.Deserialize(compress)
			if err := r.Err(); err != nil {
				t.Fatalf("%s/%v: %v", name, compress, err)
			}
			if sub.Pos() != 0 {
				t.Errorf("%s/%v: sub stream at %d", name, compress, sub.Pos())
			}
			if !bytes.Equal(sub.Bytes(), input) {
				t.Errorf("%s/%v: block content mismatch", name, compress)
			}
			if v := r.ReadDword(); v != 9 {
				t.Errorf("%s/%v: trailing dword %d", name, compress, v)
			}
		}
	}
}

func TestBitmaps(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	w := NewMemory(nil)
	w.WriteBitmap(data)
	w.WriteBitmap(nil)
	w.WriteBitmapOld(data)
	w.WriteBitmapOld(nil)

	r := NewMemory(w.Bytes())
	if b := r.ReadBitmap(); !bytes.Equal(b, data) {
		t.Errorf("ReadBitmap()=%v", b)
	}
	if b := r.ReadBitmap(); b != nil {
		t.Errorf("ReadBitmap()=%v; expected absent", b)
	}
	if b := r.ReadBitmapOld(); !bytes.Equal(b, data) {
		t.Errorf("ReadBitmapOld()=%v", b)
	}
	if b := r.ReadBitmapOld(); b != nil {
		t.Errorf("ReadBitmapOld()=%v; expected absent", b)
	}
	if err := r.Err(); err != nil {
		t.Error(err)
	}

	bad := NewMemory([]byte{0x11, 0, 0, 0})
	bad.ReadBitmapOld()
	if !errors.Is(bad.Err(), ErrDecode) {
		t.Errorf("expected decode error for unknown tag, got %v", bad.Err())
	}
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory(nil)
	m.WriteDword(0)
	m.WriteDword(2)
	m.Seek(0)
	m.WriteDword(1)
	if !bytes.Equal(m.Bytes(), []byte{1, 0, 0, 0, 2, 0, 0, 0}) {
		t.Errorf("unexpected buffer %x", m.Bytes())
	}
}

func TestTime(t *testing.T) {
	for _, days := range []float64{0, 1, 36526.5, 44197.123456789, -0.5} {
		tm := DaysToTime(days)
		back := DaysToTime(TimeToDays(tm))
		if !back.Equal(tm) {
			t.Errorf("days %v: %v != %v", days, back, tm)
		}
	}
	if d := TimeToDays(time.Date(1900, time.January, 1, 12, 0, 0, 0, time.UTC)); d != 2.5 {
		t.Errorf("TimeToDays(1900-01-01 12:00)=%v", d)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.bin")

	w, err := CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	w.WriteDword(1234321)
	w.WriteString("file")
	w.Serialize(NewMemory([]byte("payload")), true)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if v := r.ReadDword(); v != 1234321 {
		t.Errorf("ReadDword()=%d", v)
	}
	if s := r.ReadString(); s != "file" {
		t.Errorf("ReadString()=%q", s)
	}
	if sub := r.Deserialize(true); string(sub.Bytes()) != "payload" {
		t.Errorf("Deserialize()=%q", sub.Bytes())
	}
	r.ReadUint8()
	if !errors.Is(r.Err(), ErrDecode) {
		t.Errorf("expected decode error at end of file, got %v", r.Err())
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := OpenFile(filepath.Join(os.TempDir(), "definitely", "missing.gmk"))
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected i/o error, got %v", err)
	}
}
