package gmk

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

// ResourceKind values match group tags stored in resource tree
type ResourceKind uint32

const (
	KindNone              ResourceKind = 0
	KindObject            ResourceKind = 1
	KindSprite            ResourceKind = 2
	KindSound             ResourceKind = 3
	KindRoom              ResourceKind = 4
	KindBackground        ResourceKind = 6
	KindScript            ResourceKind = 7
	KindPath              ResourceKind = 8
	KindFont              ResourceKind = 9
	KindGameInformation   ResourceKind = 10
	KindGameSettings      ResourceKind = 11
	KindTimeline          ResourceKind = 12
	KindExtensionPackages ResourceKind = 13
	KindTrigger           ResourceKind = 100
	KindIncludeFile       ResourceKind = 101
)

var kindNames = map[ResourceKind]string{
	KindObject:            "object",
	KindSprite:            "sprite",
	KindSound:             "sound",
	KindRoom:              "room",
	KindBackground:        "background",
	KindScript:            "script",
	KindPath:              "path",
	KindFont:              "font",
	KindGameInformation:   "gameinformation",
	KindGameSettings:      "settings",
	KindTimeline:          "timeline",
	KindExtensionPackages: "packages",
	KindTrigger:           "trigger",
	KindIncludeFile:       "includefile",
}

func (k ResourceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

func KindFromString(name string) (ResourceKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindNone, false
}

// Sentinel index values
const (
	IndexNone       = -1
	ParentIndexNone = -100
	RoomIndexNone   = -1
)

type Resource interface {
	Kind() ResourceKind
	Base() *ResourceBase
}

// ResourceBase is common part of every stored resource.
// Placeholder (Exists == false) carries no other data.
type ResourceBase struct {
	Exists      bool
	Name        string
	LastChanged time.Time
	file        *File
}

func (rb *ResourceBase) Base() *ResourceBase {
	return rb
}

func (rb *ResourceBase) File() *File {
	return rb.file
}

func (rb *ResourceBase) readHeader(s *stream.Memory) {
	rb.Name = s.ReadString()
	rb.LastChanged = s.ReadTime()
}

func (rb *ResourceBase) writeHeader(s *stream.Memory) {
	s.WriteString(rb.Name)
	s.WriteTime(rb.LastChanged)
}

type resourcePtr[T any] interface {
	*T
	Resource
}

type codecFunc[T any] func(res *T, s *stream.Memory) error

type codec[T any] struct {
	read  codecFunc[T]
	write codecFunc[T]
}

// codecTable holds one codec per implemented container version
type codecTable[T any] map[Version]codec[T]

func (ct codecTable[T]) get(v Version, kind ResourceKind) (codec[T], error) {
	c, ok := ct[v]
	if !ok {
		return c, errors.Wrapf(ErrUnsupportedVersion, "%v codec for version %v", kind, v)
	}
	return c, nil
}

func (ct codecTable[T]) read(v Version, kind ResourceKind, res *T, s *stream.Memory) error {
	c, err := ct.get(v, kind)
	if err != nil {
		return err
	}
	if err := c.read(res, s); err != nil {
		return err
	}
	return s.Err()
}

func (ct codecTable[T]) write(v Version, kind ResourceKind, res *T, s *stream.Memory) error {
	c, err := ct.get(v, kind)
	if err != nil {
		return err
	}
	if err := c.write(res, s); err != nil {
		return err
	}
	return s.Err()
}

// readRecord decodes one enveloped record
func readRecord[T any, PT resourcePtr[T]](f *File, s stream.Stream, ct codecTable[T]) (PT, error) {
	var none PT
	res := PT(new(T))
	base := res.Base()
	base.file = f

	sub := s.Deserialize(f.Version.compressed())
	base.Exists = sub.ReadBool()
	if err := sub.Err(); err != nil {
		return none, err
	}
	if base.Exists {
		if err := ct.read(f.Version, res.Kind(), (*T)(res), sub); err != nil {
			return none, errors.Wrapf(err, "%q", base.Name)
		}
	}
	return res, nil
}

// readRecords decodes count prefixed array of records
func readRecords[T any, PT resourcePtr[T]](f *File, s stream.Stream, ct codecTable[T]) ([]PT, error) {
	kind := PT(new(T)).Kind()
	if _, err := ct.get(f.Version, kind); err != nil {
		return nil, err
	}

	count := s.ReadCount(4)
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "Failed to read %v count", kind)
	}

	var list []PT
	for i := 0; i < count; i++ {
		res, err := readRecord[T, PT](f, s, ct)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read %v %d", kind, i)
		}
		list = append(list, res)
		f.progressRead(s)
	}
	return list, nil
}

func writeRecord[T any, PT resourcePtr[T]](f *File, s stream.Stream, ct codecTable[T], res PT) error {
	base := res.Base()
	base.file = f
	sub := stream.NewMemory(nil)
	sub.WriteBool(base.Exists)
	if base.Exists {
		if err := ct.write(f.Version, res.Kind(), (*T)(res), sub); err != nil {
			return errors.Wrapf(err, "%q", base.Name)
		}
	}
	s.Serialize(sub, f.Version.compressed())
	return s.Err()
}

func writeRecords[T any, PT resourcePtr[T]](f *File, s stream.Stream, ct codecTable[T], list []PT) error {
	kind := PT(new(T)).Kind()
	s.WriteDword(uint32(len(list)))
	for i, res := range list {
		if err := writeRecord[T, PT](f, s, ct, res); err != nil {
			return errors.Wrapf(err, "Failed to write %v %d", kind, i)
		}
		f.progressWrite()
	}
	return nil
}

// newList allocates list of n elements, nil for empty one
func newList[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, n)
}

// at performs bounds checked lookup, negative sentinels give nil
func at[T any](list []*T, index int32) *T {
	if index < 0 || int(index) >= len(list) {
		return nil
	}
	return list[index]
}

// GetResource returns resource of kind stored at index or nil when index is out of range
func (f *File) GetResource(kind ResourceKind, index int32) Resource {
	// explicit nil checks avoid typed nil inside interface
	switch kind {
	case KindSprite:
		if r := at(f.Sprites, index); r != nil {
			return r
		}
	case KindSound:
		if r := at(f.Sounds, index); r != nil {
			return r
		}
	case KindBackground:
		if r := at(f.Backgrounds, index); r != nil {
			return r
		}
	case KindPath:
		if r := at(f.Paths, index); r != nil {
			return r
		}
	case KindScript:
		if r := at(f.Scripts, index); r != nil {
			return r
		}
	case KindFont:
		if r := at(f.Fonts, index); r != nil {
			return r
		}
	case KindTimeline:
		if r := at(f.Timelines, index); r != nil {
			return r
		}
	case KindObject:
		if r := at(f.Objects, index); r != nil {
			return r
		}
	case KindRoom:
		if r := at(f.Rooms, index); r != nil {
			return r
		}
	case KindTrigger:
		if r := at(f.Triggers, index); r != nil {
			return r
		}
	case KindIncludeFile:
		if r := at(f.IncludeFiles, index); r != nil {
			return r
		}
	}
	return nil
}

// Resources returns collection of kind as generic list
func (f *File) Resources(kind ResourceKind) []Resource {
	var result []Resource
	add := func(n int, get func(i int) Resource) {
		result = make([]Resource, n)
		for i := range result {
			result[i] = get(i)
		}
	}
	switch kind {
	case KindSprite:
		add(len(f.Sprites), func(i int) Resource { return f.Sprites[i] })
	case KindSound:
		add(len(f.Sounds), func(i int) Resource { return f.Sounds[i] })
	case KindBackground:
		add(len(f.Backgrounds), func(i int) Resource { return f.Backgrounds[i] })
	case KindPath:
		add(len(f.Paths), func(i int) Resource { return f.Paths[i] })
	case KindScript:
		add(len(f.Scripts), func(i int) Resource { return f.Scripts[i] })
	case KindFont:
		add(len(f.Fonts), func(i int) Resource { return f.Fonts[i] })
	case KindTimeline:
		add(len(f.Timelines), func(i int) Resource { return f.Timelines[i] })
	case KindObject:
		add(len(f.Objects), func(i int) Resource { return f.Objects[i] })
	case KindRoom:
		add(len(f.Rooms), func(i int) Resource { return f.Rooms[i] })
	case KindTrigger:
		add(len(f.Triggers), func(i int) Resource { return f.Triggers[i] })
	case KindIncludeFile:
		add(len(f.IncludeFiles), func(i int) Resource { return f.IncludeFiles[i] })
	}
	return result
}

// buildIndices snapshots current position of every resource.
// Saved references are taken from it instead of stale loaded indices.
func (f *File) buildIndices() {
	f.indices = make(map[Resource]int32)
	for _, kind := range storedKinds {
		for i, r := range f.Resources(kind) {
			f.indices[r] = int32(i)
		}
	}
}

var storedKinds = []ResourceKind{
	KindTrigger, KindSound, KindSprite, KindBackground, KindPath, KindScript,
	KindFont, KindTimeline, KindObject, KindRoom, KindIncludeFile,
}

// indexOf returns current index of referenced resource
func (f *File) indexOf(r Resource) (int32, error) {
	if f.indices == nil {
		f.buildIndices()
	}
	if index, ok := f.indices[r]; ok {
		return index, nil
	}
	return IndexNone, errors.Wrapf(ErrMissingReference, "%v %q is not part of project", r.Kind(), r.Base().Name)
}

// writeRef writes index of resource or none sentinel for nil reference
func writeRef[T any, PT resourcePtr[T]](f *File, s stream.Stream, res PT, none int32) {
	if res == nil {
		s.WriteInt(none)
		return
	}
	index, err := f.indexOf(res)
	if err != nil {
		s.SetErr(err)
		return
	}
	s.WriteInt(index)
}
