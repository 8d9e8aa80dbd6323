// Package gmkrypt implements substitution cipher protecting GameMaker 7 projects.
//
// Stream layout after container version:
//
//	bill:u32 fred:u32 junk[bill]:u32 seed:u32 junk[fred]:u32 encrypted...
//
// Only decryption is implemented.
package gmkrypt

import (
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

const (
	TableSize = 256
	swapCount = 10000
)

type Gmkrypt struct {
	seed uint32
	// forward and inverse substitution tables
	table [2][TableSize]byte
}

// ReadSeedFromJunkyard skips junk dwords around seed and returns seed
func ReadSeedFromJunkyard(s stream.Stream) (uint32, error) {
	bill := s.ReadDword()
	fred := s.ReadDword()
	if err := s.Err(); err != nil {
		return 0, errors.Wrapf(err, "Failed to read junkyard size")
	}

	s.Skip(int64(bill) * 4)
	seed := s.ReadDword()
	s.Skip(int64(fred) * 4)
	if err := s.Err(); err != nil {
		return 0, errors.Wrapf(err, "Failed to skip junkyard (%d+%d dwords)", bill, fred)
	}
	return seed, nil
}

func New(seed uint32) *Gmkrypt {
	g := &Gmkrypt{seed: seed}
	g.generateSwapTable()
	return g
}

func (g *Gmkrypt) Seed() uint32 {
	return g.seed
}

func (g *Gmkrypt) generateSwapTable() {
	a := int64(g.seed%250) + 6
	b := int64(g.seed / 250)

	for i := range g.table[0] {
		g.table[0][i] = byte(i)
	}

	for i := int64(1); i <= swapCount; i++ {
		j := ((i*a + b) % 254) + 1
		g.table[0][j], g.table[0][j+1] = g.table[0][j+1], g.table[0][j]
	}

	for i := 1; i < TableSize; i++ {
		g.table[1][g.table[0][i]] = byte(i)
	}
}

// Forward returns substitution table used by encoder
func (g *Gmkrypt) Forward() [TableSize]byte {
	return g.table[0]
}

// Inverse returns substitution table used by decoder
func (g *Gmkrypt) Inverse() [TableSize]byte {
	return g.table[1]
}

// DecryptBytes decodes data in place. First byte is header and stays untouched.
func (g *Gmkrypt) DecryptBytes(data []byte) {
	for p := 1; p < len(data); p++ {
		data[p] = g.table[1][data[p]] - byte(p)
	}
}

// Decrypt consumes all remaining bytes of s and returns decoded stream
func (g *Gmkrypt) Decrypt(s stream.Stream) (*stream.Memory, error) {
	remaining := s.Remaining()
	data := s.ReadData(int(remaining))
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "Failed to read %d encrypted bytes", remaining)
	}
	g.DecryptBytes(data)
	return stream.NewMemory(data), nil
}
