package gmkrypt

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

// encrypt is inverse of DecryptBytes, used to build test fixtures only
func encrypt(g *Gmkrypt, plain []byte) []byte {
	fwd := g.Forward()
	out := make([]byte, len(plain))
	for p := range plain {
		if p == 0 {
			out[p] = plain[p]
		} else {
			out[p] = fwd[plain[p]+byte(p)]
		}
	}
	return out
}

var seeds = []uint32{0, 1, 249, 250, 12345, 0x7fffffff, 0xffffffff}

func TestTables(t *testing.T) {
	for _, seed := range seeds {
		g := New(seed)
		fwd, inv := g.Forward(), g.Inverse()

		if fwd != New(seed).Forward() {
			t.Errorf("seed %d: forward table is not deterministic", seed)
		}
		if fwd[0] != 0 {
			t.Errorf("seed %d: table[0][0]=%d", seed, fwd[0])
		}

		seen := make(map[byte]bool)
		for i := 0; i < TableSize; i++ {
			seen[fwd[i]] = true
		}
		if len(seen) != TableSize {
			t.Errorf("seed %d: forward table is not permutation", seed)
		}

		for i := 1; i < TableSize; i++ {
			if got := inv[fwd[i]]; int(got) != i {
				t.Errorf("seed %d: table[1][table[0][%d]]=%d", seed, i, got)
			}
		}
	}

	if New(1).Forward() == New(2).Forward() {
		t.Errorf("different seeds produced same table")
	}
}

func TestDecrypt(t *testing.T) {
	plain := make([]byte, 1000)
	for i := range plain {
		plain[i] = byte(i * 7)
	}

	for _, seed := range seeds {
		g := New(seed)
		enc := encrypt(g, plain)
		if enc[0] != plain[0] {
			t.Errorf("seed %d: header byte changed", seed)
		}

		s := stream.NewMemory(enc)
		dec, err := g.Decrypt(s)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !bytes.Equal(dec.Bytes(), plain) {
			t.Errorf("seed %d: decrypted data mismatch", seed)
		}
		if s.Remaining() != 0 {
			t.Errorf("seed %d: %d bytes left", seed, s.Remaining())
		}
	}
}

// key offset counts from first byte of encrypted region, not from file start
func TestDecryptOffsetFromRegionStart(t *testing.T) {
	g := New(1234)
	fwd := g.Forward()
	region := []byte{0xaa, fwd[byte(5+1)], fwd[byte(9+2)]}
	s := stream.NewMemory(append([]byte{1, 2, 3, 4, 5, 6, 7, 8}, region...))
	s.Skip(8)

	dec, err := g.Decrypt(s)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xaa, 5, 9}; !bytes.Equal(dec.Bytes(), want) {
		t.Errorf("decrypted %v, want %v", dec.Bytes(), want)
	}
}

func TestReadSeedFromJunkyard(t *testing.T) {
	w := stream.NewMemory(nil)
	w.WriteDword(3) // bill
	w.WriteDword(2) // fred
	w.WriteDword(0xaaaaaaaa)
	w.WriteDword(0xbbbbbbbb)
	w.WriteDword(0xcccccccc)
	w.WriteDword(777)
	w.WriteDword(0xdddddddd)
	w.WriteDword(0xeeeeeeee)
	w.WriteUint8(0x55)

	r := stream.NewMemory(w.Bytes())
	seed, err := ReadSeedFromJunkyard(r)
	if err != nil {
		t.Fatal(err)
	}
	if seed != 777 {
		t.Errorf("seed=%d; expected 777", seed)
	}
	if v := r.ReadUint8(); v != 0x55 {
		t.Errorf("stream not positioned after junkyard: %x", v)
	}

	t.Run("Truncated", func(t *testing.T) {
		w := stream.NewMemory(nil)
		w.WriteDword(1000)
		w.WriteDword(0)
		w.WriteDword(1)
		if _, err := ReadSeedFromJunkyard(stream.NewMemory(w.Bytes())); !errors.Is(err, stream.ErrDecode) {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}
