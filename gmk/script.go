package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type Script struct {
	ResourceBase
	Code string
}

func (*Script) Kind() ResourceKind {
	return KindScript
}

var scriptCodecs = codecTable[Script]{
	Ver8:  {read: (*Script).readVer81, write: (*Script).writeVer81},
	Ver81: {read: (*Script).readVer81, write: (*Script).writeVer81},
}

func (scr *Script) readVer81(s *stream.Memory) error {
	scr.readHeader(s)
	scr.Code = s.ReadString()
	return s.Err()
}

func (scr *Script) writeVer81(s *stream.Memory) error {
	scr.writeHeader(s)
	s.WriteString(scr.Code)
	return s.Err()
}
