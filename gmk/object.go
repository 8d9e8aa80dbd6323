package gmk

import (
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

type EventKind uint32

const (
	EventCreate EventKind = iota
	EventDestroy
	EventAlarm
	EventStep
	EventCollision
	EventKeyboard
	EventMouse
	EventOther
	EventDraw
	EventKeyPress
	EventKeyRelease
	EventTrigger

	EventKindCount = 12
)

var eventKindNames = [EventKindCount]string{
	"create", "destroy", "alarm", "step", "collision", "keyboard",
	"mouse", "other", "draw", "keypress", "keyrelease", "trigger",
}

func (ek EventKind) String() string {
	if ek < EventKindCount {
		return eventKindNames[ek]
	}
	return "unknown"
}

const eventListEnd = -1

type Event struct {
	Kind EventKind
	// Number is event subtype. For collision events it is index of other object.
	Number uint32
	// Other is resolved collision partner
	Other   *Object `json:"-" yaml:"-"`
	Actions []*Action
}

type Object struct {
	ResourceBase
	Sprite      *Sprite `json:"-" yaml:"-"`
	spriteIndex int32
	Solid       bool
	Visible     bool
	Depth       int32
	Persistent  bool
	Parent      *Object `json:"-" yaml:"-"`
	parentIndex int32
	Mask        *Sprite `json:"-" yaml:"-"`
	maskIndex   int32
	// Events are ordered by kind, order inside kind is preserved
	Events []*Event
}

func (*Object) Kind() ResourceKind {
	return KindObject
}

var objectCodecs = codecTable[Object]{
	Ver8:  {read: (*Object).readVer81, write: (*Object).writeVer81},
	Ver81: {read: (*Object).readVer81, write: (*Object).writeVer81},
}

func (obj *Object) readVer81(s *stream.Memory) error {
	obj.readHeader(s)
	obj.spriteIndex = s.ReadInt()
	obj.Solid = s.ReadBool()
	obj.Visible = s.ReadBool()
	obj.Depth = s.ReadInt()
	obj.Persistent = s.ReadBool()
	obj.parentIndex = s.ReadInt()
	obj.maskIndex = s.ReadInt()

	lastKind := s.ReadDword()
	if s.Err() == nil && lastKind >= EventKindCount {
		return errors.Wrapf(stream.ErrDecode, "object declares %d event kinds", lastKind+1)
	}

	obj.Events = nil
	for kind := EventKind(0); kind <= EventKind(lastKind); kind++ {
		for {
			number := s.ReadInt()
			if err := s.Err(); err != nil {
				return err
			}
			if number == eventListEnd {
				break
			}
			actions, err := readActions(s)
			if err != nil {
				return errors.Wrapf(err, "%v event %d", kind, number)
			}
			obj.Events = append(obj.Events, &Event{
				Kind:    kind,
				Number:  uint32(number),
				Actions: actions,
			})
		}
	}
	return s.Err()
}

func (obj *Object) writeVer81(s *stream.Memory) error {
	f := obj.file
	obj.writeHeader(s)
	writeRef(f, s, obj.Sprite, IndexNone)
	s.WriteBool(obj.Solid)
	s.WriteBool(obj.Visible)
	s.WriteInt(obj.Depth)
	s.WriteBool(obj.Persistent)
	writeRef(f, s, obj.Parent, ParentIndexNone)
	writeRef(f, s, obj.Mask, IndexNone)

	for i, ev := range obj.Events {
		if ev.Kind >= EventKindCount {
			return errors.Wrapf(ErrBadEvent, "event %d has kind %d", i, uint32(ev.Kind))
		}
	}

	s.WriteDword(EventKindCount - 1)
	for kind := EventKind(0); kind < EventKindCount; kind++ {
		for _, ev := range obj.Events {
			if ev.Kind != kind {
				continue
			}
			if kind == EventCollision {
				if ev.Other == nil {
					return errors.Wrapf(ErrMissingReference, "collision event without object")
				}
				writeRef(f, s, ev.Other, IndexNone)
			} else {
				s.WriteDword(ev.Number)
			}
			if err := writeActions(f, s, ev.Actions); err != nil {
				return errors.Wrapf(err, "%v event %d", kind, ev.Number)
			}
		}
		s.WriteInt(eventListEnd)
	}
	return s.Err()
}

func (obj *Object) finalize(f *File) {
	obj.Sprite = at(f.Sprites, obj.spriteIndex)
	obj.Parent = at(f.Objects, obj.parentIndex)
	obj.Mask = at(f.Sprites, obj.maskIndex)
	for _, ev := range obj.Events {
		ev.Other = nil
		if ev.Kind == EventCollision {
			ev.Other = at(f.Objects, int32(ev.Number))
		}
		finalizeActions(f, ev.Actions)
	}
}

// EventsOf returns events of given kind in stored order
func (obj *Object) EventsOf(kind EventKind) []*Event {
	var result []*Event
	for _, ev := range obj.Events {
		if ev.Kind == kind {
			result = append(result, ev)
		}
	}
	return result
}
