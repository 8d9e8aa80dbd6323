package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type Font struct {
	ResourceBase
	FontName   string
	Size       uint32
	Bold       bool
	Italic     bool
	RangeBegin uint32
	RangeEnd   uint32
	// stored only since 8.1, packed into high bytes of RangeBegin
	Charset      uint8
	AntiAliasing uint8
}

func (*Font) Kind() ResourceKind {
	return KindFont
}

var fontCodecs = codecTable[Font]{
	Ver8:  {read: (*Font).readVer8, write: (*Font).writeVer8},
	Ver81: {read: (*Font).readVer81, write: (*Font).writeVer81},
}

func (fnt *Font) readStyle(s *stream.Memory) {
	fnt.readHeader(s)
	fnt.FontName = s.ReadString()
	fnt.Size = s.ReadDword()
	fnt.Bold = s.ReadBool()
	fnt.Italic = s.ReadBool()
}

func (fnt *Font) writeStyle(s *stream.Memory) {
	fnt.writeHeader(s)
	s.WriteString(fnt.FontName)
	s.WriteDword(fnt.Size)
	s.WriteBool(fnt.Bold)
	s.WriteBool(fnt.Italic)
}

func (fnt *Font) readVer8(s *stream.Memory) error {
	fnt.readStyle(s)
	fnt.RangeBegin = s.ReadDword()
	fnt.RangeEnd = s.ReadDword()
	return s.Err()
}

func (fnt *Font) writeVer8(s *stream.Memory) error {
	fnt.writeStyle(s)
	s.WriteDword(fnt.RangeBegin)
	s.WriteDword(fnt.RangeEnd)
	return s.Err()
}

// PackRange packs range begin with charset and antialiasing levels as 8.1 stores them
func PackRange(begin uint32, charset, antiAliasing uint8) uint32 {
	return begin&0xffff | uint32(charset)<<16 | uint32(antiAliasing)<<24
}

func UnpackRange(packed uint32) (begin uint32, charset, antiAliasing uint8) {
	return packed & 0xffff, uint8(packed >> 16), uint8(packed >> 24)
}

func (fnt *Font) readVer81(s *stream.Memory) error {
	fnt.readStyle(s)
	fnt.RangeBegin, fnt.Charset, fnt.AntiAliasing = UnpackRange(s.ReadDword())
	fnt.RangeEnd = s.ReadDword()
	return s.Err()
}

func (fnt *Font) writeVer81(s *stream.Memory) error {
	fnt.writeStyle(s)
	s.WriteDword(PackRange(fnt.RangeBegin, fnt.Charset, fnt.AntiAliasing))
	s.WriteDword(fnt.RangeEnd)
	return s.Err()
}
