package gmk

import (
	"log"
	"math"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/config"
	"github.com/mogaika/gmk_browser/gmkrypt"
	"github.com/mogaika/gmk_browser/stream"
)

// Placement ids start values
const (
	InstanceIDMin = 100001
	TileIDMin     = 10000001
)

// File is whole project. Collections keep placeholders (Exists == false) at their slots.
// File must not be modified from different goroutines, only GetProgress is safe to call concurrently.
type File struct {
	Version Version
	GameID  uint32
	GUID    uuid.UUID

	Settings     *Settings
	Triggers     []*Trigger
	Constants    []Constant
	Sounds       []*Sound
	Sprites      []*Sprite
	Backgrounds  []*Background
	Paths        []*Path
	Scripts      []*Script
	Fonts        []*Font
	Timelines    []*Timeline
	Objects      []*Object
	Rooms        []*Room
	IncludeFiles []*IncludeFile
	Packages     []string

	LastInstancePlacedID uint32
	LastTilePlacedID     uint32

	GameInformation *GameInformation
	Tree            *Tree

	// OnProgress is called from Load and Save goroutine after each record
	OnProgress func(progress float64)

	progress      uint64
	progressTotal int64
	progressDone  int64
	loaded        bool
	indices       map[Resource]int32
}

func NewFile() *File {
	return &File{
		Version:         VerUnknown,
		GUID:            uuid.New(),
		Settings:        &Settings{},
		GameInformation: &GameInformation{},
		Tree:            NewTree(),
	}
}

func (f *File) IsLoaded() bool {
	return f.loaded
}

// GetProgress returns progress of running Load or Save in range [0, 1]
func (f *File) GetProgress() float64 {
	return math.Float64frombits(atomic.LoadUint64(&f.progress))
}

func (f *File) setProgress(p float64) {
	if p > 1 {
		p = 1
	}
	atomic.StoreUint64(&f.progress, math.Float64bits(p))
	if f.OnProgress != nil {
		f.OnProgress(p)
	}
}

func (f *File) progressRead(s stream.Stream) {
	if f.progressTotal > 0 {
		f.setProgress(float64(s.Pos()) / float64(f.progressTotal))
	}
}

func (f *File) progressWrite() {
	f.progressDone++
	if f.progressTotal > 0 {
		f.setProgress(float64(f.progressDone) / float64(f.progressTotal))
	}
}

// CleanMemory drops every resource
func (f *File) CleanMemory() {
	f.Settings = nil
	f.Triggers = nil
	f.Constants = nil
	f.Sounds = nil
	f.Sprites = nil
	f.Backgrounds = nil
	f.Paths = nil
	f.Scripts = nil
	f.Fonts = nil
	f.Timelines = nil
	f.Objects = nil
	f.Rooms = nil
	f.IncludeFiles = nil
	f.Packages = nil
	f.GameInformation = nil
	f.Tree = nil
	f.LastInstancePlacedID = 0
	f.LastTilePlacedID = 0
	f.indices = nil
	f.loaded = false
}

func (f *File) Load(path string) error {
	fs, err := stream.OpenFile(path)
	if err != nil {
		f.Version = VerUnknown
		f.loaded = false
		return err
	}
	defer fs.Close()
	return errors.Wrapf(f.LoadFrom(fs), "Failed to load %q", path)
}

// LoadFrom reads whole project from s. On failure version becomes unknown,
// partially read collections are left as is and file should be discarded.
func (f *File) LoadFrom(s stream.Stream) error {
	f.CleanMemory()
	f.Version = VerUnknown
	f.progressTotal = s.Pos() + s.Remaining()
	f.setProgress(0)

	if err := f.load(s); err != nil {
		f.Version = VerUnknown
		f.loaded = false
		log.Printf("[gmk] Load failed: %v", err)
		return err
	}
	f.loaded = true
	f.setProgress(1)
	return nil
}

func (f *File) load(s stream.Stream) error {
	magic := s.ReadDword()
	if err := s.Err(); err != nil {
		return err
	}
	if magic != Magic {
		return errors.Wrapf(ErrBadMagic, "got %d", magic)
	}

	version, err := VersionFromCode(s.ReadDword())
	if err := s.Err(); err != nil {
		return err
	}
	if err != nil {
		return err
	}
	f.Version = version
	log.Printf("[gmk] Loading project version %v", version)

	switch version {
	case Ver8, Ver81:
		return f.loadVer8(s)
	case Ver7:
		return f.loadVer7(s)
	default:
		return errors.Wrapf(ErrUnsupportedVersion, "container version %v", version)
	}
}

func (f *File) readIdentity(s stream.Stream) error {
	f.GameID = s.ReadDword()
	guid := s.ReadData(len(f.GUID))
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "Failed to read game identity")
	}
	copy(f.GUID[:], guid)
	return nil
}

func (f *File) writeIdentity(s stream.Stream) {
	s.WriteDword(f.GameID)
	s.WriteData(f.GUID[:])
}

func (f *File) loadVer7(s stream.Stream) error {
	seed, err := gmkrypt.ReadSeedFromJunkyard(s)
	if err != nil {
		return err
	}
	decrypted, err := gmkrypt.New(seed).Decrypt(s)
	if err != nil {
		return err
	}
	f.progressTotal = int64(decrypted.Len())

	decrypted.ReadUint8()
	if err := f.readIdentity(decrypted); err != nil {
		return err
	}
	return f.loadSections(decrypted)
}

func (f *File) loadVer8(s stream.Stream) error {
	if err := f.readIdentity(s); err != nil {
		return err
	}
	return f.loadSections(s)
}

func (f *File) loadSections(s stream.Stream) (err error) {
	if f.Settings, err = readSettings(f, s); err != nil {
		return errors.Wrap(err, "Failed to read settings")
	}
	if f.Version != Ver7 {
		if f.Triggers, err = readRecords[Trigger](f, s, triggerCodecs); err != nil {
			return err
		}
		if f.Constants, err = readConstants(s); err != nil {
			return errors.Wrap(err, "Failed to read constants")
		}
	}
	if f.Sounds, err = readRecords[Sound](f, s, soundCodecs); err != nil {
		return err
	}
	if f.Sprites, err = readRecords[Sprite](f, s, spriteCodecs); err != nil {
		return err
	}
	if f.Backgrounds, err = readRecords[Background](f, s, backgroundCodecs); err != nil {
		return err
	}
	if f.Paths, err = readRecords[Path](f, s, pathCodecs); err != nil {
		return err
	}
	if f.Scripts, err = readRecords[Script](f, s, scriptCodecs); err != nil {
		return err
	}
	if f.Fonts, err = readRecords[Font](f, s, fontCodecs); err != nil {
		return err
	}
	if f.Timelines, err = readRecords[Timeline](f, s, timelineCodecs); err != nil {
		return err
	}
	if f.Objects, err = readRecords[Object](f, s, objectCodecs); err != nil {
		return err
	}
	if f.Rooms, err = readRecords[Room](f, s, roomCodecs); err != nil {
		return err
	}

	f.LastInstancePlacedID = s.ReadDword()
	f.LastTilePlacedID = s.ReadDword()

	if f.IncludeFiles, err = readRecords[IncludeFile](f, s, includeFileCodecs); err != nil {
		return err
	}

	f.Packages = newList[string](s.ReadCount(4))
	for i := range f.Packages {
		f.Packages[i] = s.ReadString()
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "Failed to read packages")
	}

	if f.GameInformation, err = readGameInformation(f, s); err != nil {
		return errors.Wrap(err, "Failed to read game information")
	}

	// legacy creation code and room order are not used by 8.x runner
	for i, n := 0, s.ReadCount(4); i < n; i++ {
		s.ReadString()
	}
	s.Skip(int64(s.ReadCount(4)) * 4)
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "Failed to skip legacy blocks")
	}

	if f.Tree, err = ReadRecursiveTree(s); err != nil {
		return err
	}

	f.finalize()
	log.Printf("[gmk] Loaded %d objects, %d rooms, %d sprites", len(f.Objects), len(f.Rooms), len(f.Sprites))
	return nil
}

// finalize resolves indices just read from stream into references.
// Stored indices are not kept in sync with collections afterwards,
// so it runs once per Load and never on edited project.
func (f *File) finalize() {
	for _, p := range f.Paths {
		if p.Exists {
			p.finalize(f)
		}
	}
	for _, tl := range f.Timelines {
		if tl.Exists {
			tl.finalize(f)
		}
	}
	for _, obj := range f.Objects {
		if obj.Exists {
			obj.finalize(f)
		}
	}
	for _, r := range f.Rooms {
		if r.Exists {
			r.finalize(f)
		}
	}
	if f.Tree != nil {
		f.Tree.finalize(f)
	}
}

// saveVersion picks container version used for writing
func (f *File) saveVersion() (Version, error) {
	if f.Version.savable() {
		return f.Version, nil
	}
	v, err := VersionFromCode(uint32(config.GetSaveVersion()))
	if err != nil {
		return VerUnknown, err
	}
	if !v.savable() {
		return VerUnknown, errors.Wrapf(ErrUnsupportedVersion, "save version %v", v)
	}
	return v, nil
}

// Save writes project into temporary file and replaces path with it on success
func (f *File) Save(path string) error {
	tmpPath := path + ".tmp"
	fs, err := stream.CreateFile(tmpPath)
	if err != nil {
		f.Version = VerUnknown
		return err
	}
	err = f.SaveTo(fs)
	if closeErr := fs.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		f.Version = VerUnknown
		os.Remove(tmpPath)
		return errors.Wrapf(err, "Failed to save %q", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		f.Version = VerUnknown
		return errors.Wrapf(stream.ErrIO, "rename %q: %v", tmpPath, err)
	}
	log.Printf("[gmk] Saved %q", path)
	return nil
}

// SaveTo writes whole project into s. On failure version becomes unknown.
func (f *File) SaveTo(s stream.Stream) error {
	version, err := f.saveVersion()
	if err != nil {
		f.Version = VerUnknown
		return err
	}
	f.Version = version

	f.buildIndices()
	defer func() { f.indices = nil }()

	f.progressDone = 0
	f.progressTotal = int64(2 + len(f.Triggers) + len(f.Sounds) + len(f.Sprites) +
		len(f.Backgrounds) + len(f.Paths) + len(f.Scripts) + len(f.Fonts) +
		len(f.Timelines) + len(f.Objects) + len(f.Rooms) + len(f.IncludeFiles))
	f.setProgress(0)

	if err := f.save(s); err != nil {
		f.Version = VerUnknown
		log.Printf("[gmk] Save failed: %v", err)
		return err
	}
	f.setProgress(1)
	return nil
}

func (f *File) save(s stream.Stream) error {
	if f.Settings == nil || f.GameInformation == nil || f.Tree == nil {
		return errors.Wrap(ErrMissingReference, "project has no settings, game information or tree")
	}

	s.WriteDword(Magic)
	s.WriteDword(f.Version.Code())
	f.writeIdentity(s)

	if err := writeSettings(f, s, f.Settings); err != nil {
		return errors.Wrap(err, "Failed to write settings")
	}
	if err := writeRecords(f, s, triggerCodecs, f.Triggers); err != nil {
		return err
	}
	if err := writeConstants(s, f.Constants); err != nil {
		return err
	}
	if err := writeRecords(f, s, soundCodecs, f.Sounds); err != nil {
		return err
	}
	if err := writeRecords(f, s, spriteCodecs, f.Sprites); err != nil {
		return err
	}
	if err := writeRecords(f, s, backgroundCodecs, f.Backgrounds); err != nil {
		return err
	}
	if err := writeRecords(f, s, pathCodecs, f.Paths); err != nil {
		return err
	}
	if err := writeRecords(f, s, scriptCodecs, f.Scripts); err != nil {
		return err
	}
	if err := writeRecords(f, s, fontCodecs, f.Fonts); err != nil {
		return err
	}
	if err := writeRecords(f, s, timelineCodecs, f.Timelines); err != nil {
		return err
	}
	if err := writeRecords(f, s, objectCodecs, f.Objects); err != nil {
		return err
	}
	if err := writeRecords(f, s, roomCodecs, f.Rooms); err != nil {
		return err
	}

	s.WriteDword(f.LastInstancePlacedID)
	s.WriteDword(f.LastTilePlacedID)

	if err := writeRecords(f, s, includeFileCodecs, f.IncludeFiles); err != nil {
		return err
	}

	s.WriteDword(uint32(len(f.Packages)))
	for _, p := range f.Packages {
		s.WriteString(p)
	}

	if err := writeGameInformation(f, s, f.GameInformation); err != nil {
		return errors.Wrap(err, "Failed to write game information")
	}

	// empty legacy creation code and room order
	s.WriteDword(0)
	s.WriteDword(0)

	if err := WriteRecursiveTree(f, s, f.Tree); err != nil {
		return errors.Wrap(err, "Failed to write tree")
	}
	return s.Err()
}
