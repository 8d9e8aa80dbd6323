package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type TriggerMoment uint32

const (
	TriggerMomentBeginStep TriggerMoment = iota
	TriggerMomentStep
	TriggerMomentEndStep
)

// Trigger is user defined event, it carries no change timestamp
type Trigger struct {
	ResourceBase
	Condition    string
	Moment       TriggerMoment
	ConstantName string
}

func (*Trigger) Kind() ResourceKind {
	return KindTrigger
}

var triggerCodecs = codecTable[Trigger]{
	Ver8:  {read: (*Trigger).readVer81, write: (*Trigger).writeVer81},
	Ver81: {read: (*Trigger).readVer81, write: (*Trigger).writeVer81},
}

func (tr *Trigger) readVer81(s *stream.Memory) error {
	tr.Name = s.ReadString()
	tr.Condition = s.ReadString()
	tr.Moment = TriggerMoment(s.ReadDword())
	tr.ConstantName = s.ReadString()
	return s.Err()
}

func (tr *Trigger) writeVer81(s *stream.Memory) error {
	s.WriteString(tr.Name)
	s.WriteString(tr.Condition)
	s.WriteDword(uint32(tr.Moment))
	s.WriteString(tr.ConstantName)
	return s.Err()
}

type Constant struct {
	Name  string
	Value string
}

func readConstants(s stream.Stream) ([]Constant, error) {
	constants := newList[Constant](s.ReadCount(8))
	for i := range constants {
		constants[i].Name = s.ReadString()
		constants[i].Value = s.ReadString()
	}
	return constants, s.Err()
}

func writeConstants(s stream.Stream, constants []Constant) error {
	s.WriteDword(uint32(len(constants)))
	for _, c := range constants {
		s.WriteString(c.Name)
		s.WriteString(c.Value)
	}
	return s.Err()
}
