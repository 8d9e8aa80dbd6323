package gmk

import (
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

type Moment struct {
	Position uint32
	Actions  []*Action
}

type Timeline struct {
	ResourceBase
	Moments []*Moment
}

func (*Timeline) Kind() ResourceKind {
	return KindTimeline
}

var timelineCodecs = codecTable[Timeline]{
	Ver8:  {read: (*Timeline).readVer81, write: (*Timeline).writeVer81},
	Ver81: {read: (*Timeline).readVer81, write: (*Timeline).writeVer81},
}

func (tl *Timeline) readVer81(s *stream.Memory) error {
	tl.readHeader(s)
	// position and empty action list
	tl.Moments = newList[*Moment](s.ReadCount(8))
	for i := range tl.Moments {
		m := &Moment{Position: s.ReadDword()}
		actions, err := readActions(s)
		if err != nil {
			return errors.Wrapf(err, "moment %d", i)
		}
		m.Actions = actions
		tl.Moments[i] = m
	}
	return s.Err()
}

func (tl *Timeline) writeVer81(s *stream.Memory) error {
	tl.writeHeader(s)
	s.WriteDword(uint32(len(tl.Moments)))
	for i, m := range tl.Moments {
		s.WriteDword(m.Position)
		if err := writeActions(tl.file, s, m.Actions); err != nil {
			return errors.Wrapf(err, "moment %d", i)
		}
	}
	return s.Err()
}

func (tl *Timeline) finalize(f *File) {
	for _, m := range tl.Moments {
		finalizeActions(f, m.Actions)
	}
}
