package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type Background struct {
	ResourceBase
	UseAsTileset bool
	TileWidth    uint32
	TileHeight   uint32
	HOffset      uint32
	VOffset      uint32
	HSep         uint32
	VSep         uint32
	Image        Image

	// legacy flags, stored only by version 7
	Transparent bool
	Smooth      bool
	Preload     bool
}

func (*Background) Kind() ResourceKind {
	return KindBackground
}

var backgroundCodecs = codecTable[Background]{
	Ver7:  {read: (*Background).readVer7, write: (*Background).writeVer7},
	Ver8:  {read: (*Background).readVer81, write: (*Background).writeVer81},
	Ver81: {read: (*Background).readVer81, write: (*Background).writeVer81},
}

func (bg *Background) readTileset(s *stream.Memory) {
	bg.UseAsTileset = s.ReadBool()
	bg.TileWidth = s.ReadDword()
	bg.TileHeight = s.ReadDword()
	bg.HOffset = s.ReadDword()
	bg.VOffset = s.ReadDword()
	bg.HSep = s.ReadDword()
	bg.VSep = s.ReadDword()
}

func (bg *Background) writeTileset(s *stream.Memory) {
	s.WriteBool(bg.UseAsTileset)
	s.WriteDword(bg.TileWidth)
	s.WriteDword(bg.TileHeight)
	s.WriteDword(bg.HOffset)
	s.WriteDword(bg.VOffset)
	s.WriteDword(bg.HSep)
	s.WriteDword(bg.VSep)
}

func (bg *Background) readVer81(s *stream.Memory) error {
	bg.readHeader(s)
	bg.readTileset(s)
	bg.Image.read(s)
	return s.Err()
}

func (bg *Background) writeVer81(s *stream.Memory) error {
	bg.writeHeader(s)
	bg.writeTileset(s)
	bg.Image.write(s)
	return s.Err()
}

func (bg *Background) readVer7(s *stream.Memory) error {
	bg.readHeader(s)
	bg.Image.Width = s.ReadDword()
	bg.Image.Height = s.ReadDword()
	bg.Transparent = s.ReadBool()
	bg.Smooth = s.ReadBool()
	bg.Preload = s.ReadBool()
	bg.readTileset(s)
	bg.Image.Data = s.ReadBitmapOld()
	return s.Err()
}

func (bg *Background) writeVer7(s *stream.Memory) error {
	bg.writeHeader(s)
	s.WriteDword(bg.Image.Width)
	s.WriteDword(bg.Image.Height)
	s.WriteBool(bg.Transparent)
	s.WriteBool(bg.Smooth)
	s.WriteBool(bg.Preload)
	bg.writeTileset(s)
	s.WriteBitmapOld(bg.Image.Data)
	return s.Err()
}
