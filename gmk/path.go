package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type PathConnection uint32

const (
	PathConnectionStraight PathConnection = iota
	PathConnectionSmooth
)

type PathPoint struct {
	X     float64
	Y     float64
	Speed float64
}

type Path struct {
	ResourceBase
	Connection PathConnection
	Closed     bool
	Precision  uint32
	// Room is shown as editor backdrop
	Room      *Room `json:"-" yaml:"-"`
	roomIndex int32
	SnapX     uint32
	SnapY     uint32
	Points    []PathPoint
}

func (*Path) Kind() ResourceKind {
	return KindPath
}

var pathCodecs = codecTable[Path]{
	Ver8:  {read: (*Path).readVer81, write: (*Path).writeVer81},
	Ver81: {read: (*Path).readVer81, write: (*Path).writeVer81},
}

func (p *Path) readVer81(s *stream.Memory) error {
	p.readHeader(s)
	p.Connection = PathConnection(s.ReadDword())
	p.Closed = s.ReadBool()
	p.Precision = s.ReadDword()
	p.roomIndex = s.ReadInt()
	p.SnapX = s.ReadDword()
	p.SnapY = s.ReadDword()

	p.Points = newList[PathPoint](s.ReadCount(24))
	for i := range p.Points {
		p.Points[i].X = s.ReadDouble()
		p.Points[i].Y = s.ReadDouble()
		p.Points[i].Speed = s.ReadDouble()
	}
	return s.Err()
}

func (p *Path) writeVer81(s *stream.Memory) error {
	p.writeHeader(s)
	s.WriteDword(uint32(p.Connection))
	s.WriteBool(p.Closed)
	s.WriteDword(p.Precision)
	writeRef(p.file, s, p.Room, RoomIndexNone)
	s.WriteDword(p.SnapX)
	s.WriteDword(p.SnapY)

	s.WriteDword(uint32(len(p.Points)))
	for _, pt := range p.Points {
		s.WriteDouble(pt.X)
		s.WriteDouble(pt.Y)
		s.WriteDouble(pt.Speed)
	}
	return s.Err()
}

func (p *Path) finalize(f *File) {
	p.Room = at(f.Rooms, p.roomIndex)
}
