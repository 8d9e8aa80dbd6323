package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

// Image is raw 32bit BGRA bitmap
type Image struct {
	Width  uint32
	Height uint32
	Data   []byte `json:"-" yaml:"-"`
}

func (img *Image) read(s *stream.Memory) {
	img.Width = s.ReadDword()
	img.Height = s.ReadDword()
	if img.Width != 0 && img.Height != 0 {
		img.Data = s.Deserialize(false).Bytes()
	}
}

func (img *Image) write(s *stream.Memory) {
	s.WriteDword(img.Width)
	s.WriteDword(img.Height)
	if img.Width != 0 && img.Height != 0 {
		s.Serialize(stream.NewMemory(img.Data), false)
	}
}

type MaskShape uint32

const (
	MaskShapePrecise MaskShape = iota
	MaskShapeRectangle
	MaskShapeDisk
	MaskShapeDiamond
)

type BBoxMode uint32

const (
	BBoxModeAutomatic BBoxMode = iota
	BBoxModeFullImage
	BBoxModeManual
)

type BBox struct {
	Left   int32
	Right  int32
	Bottom int32
	Top    int32
}

type Sprite struct {
	ResourceBase
	OriginX   int32
	OriginY   int32
	Subimages []Image

	Shape          MaskShape
	AlphaTolerance uint32
	SeparateMasks  bool
	BBoxMode       BBoxMode
	BBox           BBox

	// legacy flags, stored only by version 7
	Transparent bool
	Smooth      bool
	Preload     bool
}

func (*Sprite) Kind() ResourceKind {
	return KindSprite
}

var spriteCodecs = codecTable[Sprite]{
	Ver7:  {read: (*Sprite).readVer7, write: (*Sprite).writeVer7},
	Ver8:  {read: (*Sprite).readVer81, write: (*Sprite).writeVer81},
	Ver81: {read: (*Sprite).readVer81, write: (*Sprite).writeVer81},
}

func (spr *Sprite) readBBox(s *stream.Memory) {
	spr.BBox.Left = s.ReadInt()
	spr.BBox.Right = s.ReadInt()
	spr.BBox.Bottom = s.ReadInt()
	spr.BBox.Top = s.ReadInt()
}

func (spr *Sprite) writeBBox(s *stream.Memory) {
	s.WriteInt(spr.BBox.Left)
	s.WriteInt(spr.BBox.Right)
	s.WriteInt(spr.BBox.Bottom)
	s.WriteInt(spr.BBox.Top)
}

func (spr *Sprite) readVer81(s *stream.Memory) error {
	spr.readHeader(s)
	spr.OriginX = s.ReadInt()
	spr.OriginY = s.ReadInt()

	spr.Subimages = newList[Image](s.ReadCount(8))
	for i := range spr.Subimages {
		spr.Subimages[i].read(s)
	}

	spr.Shape = MaskShape(s.ReadDword())
	spr.AlphaTolerance = s.ReadDword()
	spr.SeparateMasks = s.ReadBool()
	spr.BBoxMode = BBoxMode(s.ReadDword())
	spr.readBBox(s)
	return s.Err()
}

func (spr *Sprite) writeVer81(s *stream.Memory) error {
	spr.writeHeader(s)
	s.WriteInt(spr.OriginX)
	s.WriteInt(spr.OriginY)

	s.WriteDword(uint32(len(spr.Subimages)))
	for i := range spr.Subimages {
		spr.Subimages[i].write(s)
	}

	s.WriteDword(uint32(spr.Shape))
	s.WriteDword(spr.AlphaTolerance)
	s.WriteBool(spr.SeparateMasks)
	s.WriteDword(uint32(spr.BBoxMode))
	spr.writeBBox(s)
	return s.Err()
}

// version 7 keeps whole strip size, subimages carry only bitmap
func (spr *Sprite) readVer7(s *stream.Memory) error {
	spr.readHeader(s)
	width := s.ReadDword()
	height := s.ReadDword()
	spr.BBox.Left = s.ReadInt()
	spr.BBox.Right = s.ReadInt()
	spr.BBox.Bottom = s.ReadInt()
	spr.BBox.Top = s.ReadInt()
	spr.Transparent = s.ReadBool()
	spr.Smooth = s.ReadBool()
	spr.Preload = s.ReadBool()
	spr.BBoxMode = BBoxMode(s.ReadDword())
	spr.SeparateMasks = s.ReadBool()
	spr.OriginX = s.ReadInt()
	spr.OriginY = s.ReadInt()

	spr.Subimages = newList[Image](s.ReadCount(4))
	for i := range spr.Subimages {
		spr.Subimages[i] = Image{
			Width:  width,
			Height: height,
			Data:   s.ReadBitmapOld(),
		}
	}
	return s.Err()
}

func (spr *Sprite) writeVer7(s *stream.Memory) error {
	spr.writeHeader(s)
	var width, height uint32
	if len(spr.Subimages) != 0 {
		width, height = spr.Subimages[0].Width, spr.Subimages[0].Height
	}
	s.WriteDword(width)
	s.WriteDword(height)
	spr.writeBBox(s)
	s.WriteBool(spr.Transparent)
	s.WriteBool(spr.Smooth)
	s.WriteBool(spr.Preload)
	s.WriteDword(uint32(spr.BBoxMode))
	s.WriteBool(spr.SeparateMasks)
	s.WriteInt(spr.OriginX)
	s.WriteInt(spr.OriginY)

	s.WriteDword(uint32(len(spr.Subimages)))
	for i := range spr.Subimages {
		s.WriteBitmapOld(spr.Subimages[i].Data)
	}
	return s.Err()
}
