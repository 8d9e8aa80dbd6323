package gmk

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

const MaxArguments = 8

type ActionKind uint32

const (
	ActionKindNormal ActionKind = iota
	ActionKindBeginGroup
	ActionKindEndGroup
	ActionKindElse
	ActionKindExit
	ActionKindRepeat
	ActionKindVariable
	ActionKindCode
	ActionKindPlaceholder
	ActionKindSeparator
	ActionKindLabel
)

type ActionExecution uint32

const (
	ActionExecNone ActionExecution = iota
	ActionExecFunction
	ActionExecCode
)

type ArgumentKind uint32

const (
	ArgumentExpression ArgumentKind = iota
	ArgumentString
	ArgumentBoth
	ArgumentBoolean
	ArgumentMenu
	ArgumentSprite
	ArgumentSound
	ArgumentBackground
	ArgumentPath
	ArgumentScript
	ArgumentObject
	ArgumentRoom
	ArgumentFont
	ArgumentColor
	ArgumentTimeline
	ArgumentFontString
)

// ResourceKind returns kind of resource referenced by argument value
func (ak ArgumentKind) ResourceKind() (ResourceKind, bool) {
	switch ak {
	case ArgumentSprite:
		return KindSprite, true
	case ArgumentSound:
		return KindSound, true
	case ArgumentBackground:
		return KindBackground, true
	case ArgumentPath:
		return KindPath, true
	case ArgumentScript:
		return KindScript, true
	case ArgumentObject:
		return KindObject, true
	case ArgumentRoom:
		return KindRoom, true
	case ArgumentFont:
		return KindFont, true
	case ArgumentTimeline:
		return KindTimeline, true
	}
	return KindNone, false
}

type AppliesTo int

const (
	AppliesToSelf AppliesTo = iota
	AppliesToOther
	AppliesToObject
)

// stored values of action target
const (
	AppliesToIndexSelf  = -1
	AppliesToIndexOther = -2
)

type Argument struct {
	Kind  ArgumentKind
	Value string
	// Link is resolved resource for resource kinds, authoritative once loaded
	Link Resource `json:"-" yaml:"-"`
}

type Action struct {
	LibraryID          uint32
	ActionID           uint32
	Kind               ActionKind
	MayBeRelative      bool
	Question           bool
	AppliesToSomething bool
	Execution          ActionExecution
	FunctionName       string
	FunctionCode       string
	ArgumentsUsed      uint32
	Arguments          [MaxArguments]Argument

	AppliesTo       AppliesTo
	AppliesToObject *Object `json:"-" yaml:"-"`
	appliesToIndex  int32

	Relative bool
	Not      bool
}

func (a *Action) read(s *stream.Memory) error {
	a.LibraryID = s.ReadDword()
	a.ActionID = s.ReadDword()
	a.Kind = ActionKind(s.ReadDword())
	a.MayBeRelative = s.ReadBool()
	a.Question = s.ReadBool()
	a.AppliesToSomething = s.ReadBool()
	a.Execution = ActionExecution(s.ReadDword())
	a.FunctionName = s.ReadString()
	a.FunctionCode = s.ReadString()
	a.ArgumentsUsed = s.ReadDword()

	kinds := s.ReadCount(4)
	if kinds > MaxArguments {
		return errors.Wrapf(stream.ErrDecode, "action has %d argument kinds", kinds)
	}
	for i := 0; i < kinds; i++ {
		a.Arguments[i].Kind = ArgumentKind(s.ReadDword())
	}

	a.appliesToIndex = s.ReadInt()
	a.Relative = s.ReadBool()

	values := s.ReadCount(4)
	if values > MaxArguments {
		return errors.Wrapf(stream.ErrDecode, "action has %d argument values", values)
	}
	for i := 0; i < values; i++ {
		a.Arguments[i].Value = s.ReadString()
	}
	a.Not = s.ReadBool()
	return s.Err()
}

func (a *Action) write(f *File, s *stream.Memory) error {
	s.WriteDword(a.LibraryID)
	s.WriteDword(a.ActionID)
	s.WriteDword(uint32(a.Kind))
	s.WriteBool(a.MayBeRelative)
	s.WriteBool(a.Question)
	s.WriteBool(a.AppliesToSomething)
	s.WriteDword(uint32(a.Execution))
	s.WriteString(a.FunctionName)
	s.WriteString(a.FunctionCode)
	s.WriteDword(a.ArgumentsUsed)

	s.WriteDword(MaxArguments)
	for i := range a.Arguments {
		s.WriteDword(uint32(a.Arguments[i].Kind))
	}

	switch a.AppliesTo {
	case AppliesToOther:
		s.WriteInt(AppliesToIndexOther)
	case AppliesToObject:
		if a.AppliesToObject == nil {
			s.WriteInt(AppliesToIndexSelf)
		} else {
			writeRef(f, s, a.AppliesToObject, AppliesToIndexSelf)
		}
	default:
		s.WriteInt(AppliesToIndexSelf)
	}
	s.WriteBool(a.Relative)

	s.WriteDword(MaxArguments)
	for i := range a.Arguments {
		arg := &a.Arguments[i]
		if arg.Link != nil {
			index, err := f.indexOf(arg.Link)
			if err != nil {
				return errors.Wrapf(err, "argument %d", i)
			}
			s.WriteString(strconv.Itoa(int(index)))
		} else {
			s.WriteString(arg.Value)
		}
	}
	s.WriteBool(a.Not)
	return s.Err()
}

// finalize resolves action target and resource arguments
func (a *Action) finalize(f *File) {
	a.AppliesToObject = nil
	switch a.appliesToIndex {
	case AppliesToIndexSelf:
		a.AppliesTo = AppliesToSelf
	case AppliesToIndexOther:
		a.AppliesTo = AppliesToOther
	default:
		a.AppliesTo = AppliesToObject
		a.AppliesToObject = at(f.Objects, a.appliesToIndex)
	}

	for i := range a.Arguments {
		arg := &a.Arguments[i]
		arg.Link = nil
		kind, ok := arg.Kind.ResourceKind()
		if !ok {
			continue
		}
		index, err := strconv.Atoi(arg.Value)
		if err != nil {
			continue
		}
		arg.Link = f.GetResource(kind, int32(index))
	}
}

func readActions(s *stream.Memory) ([]*Action, error) {
	// action without arguments occupies 60 bytes
	count := s.ReadCount(60)
	if err := s.Err(); err != nil {
		return nil, err
	}
	actions := newList[*Action](count)
	for i := range actions {
		actions[i] = &Action{}
		if err := actions[i].read(s); err != nil {
			return nil, errors.Wrapf(err, "action %d", i)
		}
	}
	return actions, nil
}

func writeActions(f *File, s *stream.Memory, actions []*Action) error {
	s.WriteDword(uint32(len(actions)))
	for i, a := range actions {
		if err := a.write(f, s); err != nil {
			return errors.Wrapf(err, "action %d", i)
		}
	}
	return s.Err()
}

func finalizeActions(f *File, actions []*Action) {
	for _, a := range actions {
		a.finalize(f)
	}
}
