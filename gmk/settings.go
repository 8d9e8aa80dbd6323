package gmk

import (
	"time"

	"github.com/mogaika/gmk_browser/stream"
)

type LoadingBar uint32

const (
	LoadingBarNone LoadingBar = iota
	LoadingBarDefault
	LoadingBarCustom
)

type Priority uint32

const (
	PriorityNormal Priority = iota
	PriorityHigh
	PriorityHighest
)

// bits of 8.1 vsync field
const (
	settingsVsync               = 1 << 0
	settingsDisableScreensavers = 1 << 1
)

// bits of 8.1 error flags field
const (
	settingsTreatUninitializedAsZero = 1 << 0
	settingsErrorOnArgumentCount     = 1 << 1
)

// Settings is global game settings singleton.
// It is stored as one block without exists flag.
type Settings struct {
	Fullscreen          bool
	Interpolate         bool
	DontDrawBorder      bool
	DisplayCursor       bool
	Scaling             int32
	AllowWindowResize   bool
	AlwaysOnTop         bool
	ColorOutsideRoom    uint32
	SetResolution       bool
	ColorDepth          uint32
	Resolution          uint32
	Frequency           uint32
	DontShowButtons     bool
	Vsync               bool
	DisableScreensavers bool

	LetF4SwitchFullscreen bool
	LetF1ShowGameInfo     bool
	LetEscEndGame         bool
	LetF5SaveF6Load       bool
	LetF9Screenshot       bool
	TreatCloseAsEscape    bool
	Priority              Priority
	FreezeOnLoseFocus     bool

	LoadingBar                       LoadingBar
	LoadingBarBack                   []byte `json:"-" yaml:"-"`
	LoadingBarFront                  []byte `json:"-" yaml:"-"`
	ShowCustomLoadImage              bool
	LoadingImage                     []byte `json:"-" yaml:"-"`
	LoadingImagePartiallyTransparent bool
	LoadingImageAlpha                uint32
	ScaleProgressBar                 bool
	// Icon is raw .ico file, nil when empty
	Icon []byte `json:"-" yaml:"-"`

	DisplayErrors            bool
	WriteToLog               bool
	AbortOnError             bool
	TreatUninitializedAsZero bool
	ErrorOnArgumentCount     bool

	Author      string
	Version     string
	LastChanged time.Time
	Information string

	VersionMajor   uint32
	VersionMinor   uint32
	VersionRelease uint32
	VersionBuild   uint32
	Company        string
	Product        string
	Copyright      string
	Description    string

	LastSettingsChanged time.Time
}

var settingsCodecs = codecTable[Settings]{
	Ver7:  {read: (*Settings).readVer7, write: (*Settings).writeVer7},
	Ver8:  {read: (*Settings).readVer8, write: (*Settings).writeVer8},
	Ver81: {read: (*Settings).readVer81, write: (*Settings).writeVer81},
}

func readSettings(f *File, s stream.Stream) (*Settings, error) {
	st := &Settings{}
	sub := s.Deserialize(f.Version.compressed())
	if err := sub.Err(); err != nil {
		return nil, err
	}
	if err := settingsCodecs.read(f.Version, KindGameSettings, st, sub); err != nil {
		return nil, err
	}
	f.progressRead(s)
	return st, nil
}

func writeSettings(f *File, s stream.Stream, st *Settings) error {
	sub := stream.NewMemory(nil)
	if err := settingsCodecs.write(f.Version, KindGameSettings, st, sub); err != nil {
		return err
	}
	s.Serialize(sub, f.Version.compressed())
	f.progressWrite()
	return s.Err()
}

// bitmap reader/writer pair differs between versions
type settingsBitmaps struct {
	read  func(s *stream.Memory) []byte
	write func(s *stream.Memory, data []byte)
}

var (
	bitmapsNew = settingsBitmaps{
		read:  func(s *stream.Memory) []byte { return s.ReadBitmap() },
		write: func(s *stream.Memory, data []byte) { s.WriteBitmap(data) },
	}
	bitmapsOld = settingsBitmaps{
		read:  func(s *stream.Memory) []byte { return s.ReadBitmapOld() },
		write: func(s *stream.Memory, data []byte) { s.WriteBitmapOld(data) },
	}
)

func (st *Settings) readDisplay(s *stream.Memory) {
	st.Fullscreen = s.ReadBool()
	st.Interpolate = s.ReadBool()
	st.DontDrawBorder = s.ReadBool()
	st.DisplayCursor = s.ReadBool()
	st.Scaling = s.ReadInt()
	st.AllowWindowResize = s.ReadBool()
	st.AlwaysOnTop = s.ReadBool()
	st.ColorOutsideRoom = s.ReadDword()
	st.SetResolution = s.ReadBool()
	st.ColorDepth = s.ReadDword()
	st.Resolution = s.ReadDword()
	st.Frequency = s.ReadDword()
	st.DontShowButtons = s.ReadBool()
}

func (st *Settings) writeDisplay(s *stream.Memory) {
	s.WriteBool(st.Fullscreen)
	s.WriteBool(st.Interpolate)
	s.WriteBool(st.DontDrawBorder)
	s.WriteBool(st.DisplayCursor)
	s.WriteInt(st.Scaling)
	s.WriteBool(st.AllowWindowResize)
	s.WriteBool(st.AlwaysOnTop)
	s.WriteDword(st.ColorOutsideRoom)
	s.WriteBool(st.SetResolution)
	s.WriteDword(st.ColorDepth)
	s.WriteDword(st.Resolution)
	s.WriteDword(st.Frequency)
	s.WriteBool(st.DontShowButtons)
}

func (st *Settings) readKeys(s *stream.Memory, bm settingsBitmaps) {
	st.LetF4SwitchFullscreen = s.ReadBool()
	st.LetF1ShowGameInfo = s.ReadBool()
	st.LetEscEndGame = s.ReadBool()
	st.LetF5SaveF6Load = s.ReadBool()
	st.LetF9Screenshot = s.ReadBool()
	st.TreatCloseAsEscape = s.ReadBool()
	st.Priority = Priority(s.ReadDword())
	st.FreezeOnLoseFocus = s.ReadBool()

	st.LoadingBar = LoadingBar(s.ReadDword())
	st.LoadingBarBack, st.LoadingBarFront = nil, nil
	if st.LoadingBar == LoadingBarCustom {
		st.LoadingBarBack = bm.read(s)
		st.LoadingBarFront = bm.read(s)
	}
	st.ShowCustomLoadImage = s.ReadBool()
	st.LoadingImage = nil
	if st.ShowCustomLoadImage {
		st.LoadingImage = bm.read(s)
	}
	st.LoadingImagePartiallyTransparent = s.ReadBool()
	st.LoadingImageAlpha = s.ReadDword()
	st.ScaleProgressBar = s.ReadBool()
}

func (st *Settings) writeKeys(s *stream.Memory, bm settingsBitmaps) {
	s.WriteBool(st.LetF4SwitchFullscreen)
	s.WriteBool(st.LetF1ShowGameInfo)
	s.WriteBool(st.LetEscEndGame)
	s.WriteBool(st.LetF5SaveF6Load)
	s.WriteBool(st.LetF9Screenshot)
	s.WriteBool(st.TreatCloseAsEscape)
	s.WriteDword(uint32(st.Priority))
	s.WriteBool(st.FreezeOnLoseFocus)

	s.WriteDword(uint32(st.LoadingBar))
	if st.LoadingBar == LoadingBarCustom {
		bm.write(s, st.LoadingBarBack)
		bm.write(s, st.LoadingBarFront)
	}
	s.WriteBool(st.ShowCustomLoadImage)
	if st.ShowCustomLoadImage {
		bm.write(s, st.LoadingImage)
	}
	s.WriteBool(st.LoadingImagePartiallyTransparent)
	s.WriteDword(st.LoadingImageAlpha)
	s.WriteBool(st.ScaleProgressBar)
}

func (st *Settings) readIcon(s *stream.Memory) {
	st.Icon = s.Deserialize(false).Bytes()
	if len(st.Icon) == 0 {
		st.Icon = nil
	}
}

func (st *Settings) readInfo(s *stream.Memory) {
	st.Author = s.ReadString()
	st.Version = s.ReadString()
	st.LastChanged = s.ReadTime()
	st.Information = s.ReadString()
}

func (st *Settings) writeInfo(s *stream.Memory) {
	s.WriteString(st.Author)
	s.WriteString(st.Version)
	s.WriteTime(st.LastChanged)
	s.WriteString(st.Information)
}

func (st *Settings) readVersionInfo(s *stream.Memory) {
	st.VersionMajor = s.ReadDword()
	st.VersionMinor = s.ReadDword()
	st.VersionRelease = s.ReadDword()
	st.VersionBuild = s.ReadDword()
	st.Company = s.ReadString()
	st.Product = s.ReadString()
	st.Copyright = s.ReadString()
	st.Description = s.ReadString()
}

func (st *Settings) writeVersionInfo(s *stream.Memory) {
	s.WriteDword(st.VersionMajor)
	s.WriteDword(st.VersionMinor)
	s.WriteDword(st.VersionRelease)
	s.WriteDword(st.VersionBuild)
	s.WriteString(st.Company)
	s.WriteString(st.Product)
	s.WriteString(st.Copyright)
	s.WriteString(st.Description)
}

func (st *Settings) readErrors(s *stream.Memory) {
	st.DisplayErrors = s.ReadBool()
	st.WriteToLog = s.ReadBool()
	st.AbortOnError = s.ReadBool()
}

func (st *Settings) writeErrors(s *stream.Memory) {
	s.WriteBool(st.DisplayErrors)
	s.WriteBool(st.WriteToLog)
	s.WriteBool(st.AbortOnError)
}

func (st *Settings) readVer8(s *stream.Memory) error {
	st.readDisplay(s)
	st.Vsync = s.ReadBool()
	st.readKeys(s, bitmapsNew)
	st.readIcon(s)
	st.readErrors(s)
	st.TreatUninitializedAsZero = s.ReadBool()
	st.readInfo(s)
	st.readVersionInfo(s)
	return s.Err()
}

func (st *Settings) writeVer8(s *stream.Memory) error {
	st.writeDisplay(s)
	s.WriteBool(st.Vsync)
	st.writeKeys(s, bitmapsNew)
	s.Serialize(stream.NewMemory(st.Icon), false)
	st.writeErrors(s)
	s.WriteBool(st.TreatUninitializedAsZero)
	st.writeInfo(s)
	st.writeVersionInfo(s)
	return s.Err()
}

func (st *Settings) readVer81(s *stream.Memory) error {
	st.readDisplay(s)
	flags := s.ReadDword()
	st.Vsync = flags&settingsVsync != 0
	st.DisableScreensavers = flags&settingsDisableScreensavers != 0
	st.readKeys(s, bitmapsNew)
	st.readIcon(s)
	st.readErrors(s)
	errFlags := s.ReadDword()
	st.TreatUninitializedAsZero = errFlags&settingsTreatUninitializedAsZero != 0
	st.ErrorOnArgumentCount = errFlags&settingsErrorOnArgumentCount != 0
	st.readInfo(s)
	st.readVersionInfo(s)
	st.LastSettingsChanged = s.ReadTime()
	return s.Err()
}

func (st *Settings) writeVer81(s *stream.Memory) error {
	st.writeDisplay(s)
	var flags uint32
	if st.Vsync {
		flags |= settingsVsync
	}
	if st.DisableScreensavers {
		flags |= settingsDisableScreensavers
	}
	s.WriteDword(flags)
	st.writeKeys(s, bitmapsNew)
	s.Serialize(stream.NewMemory(st.Icon), false)
	st.writeErrors(s)
	var errFlags uint32
	if st.TreatUninitializedAsZero {
		errFlags |= settingsTreatUninitializedAsZero
	}
	if st.ErrorOnArgumentCount {
		errFlags |= settingsErrorOnArgumentCount
	}
	s.WriteDword(errFlags)
	st.writeInfo(s)
	st.writeVersionInfo(s)
	s.WriteTime(st.LastSettingsChanged)
	return s.Err()
}

// version 7 has no version info block and keeps bitmaps in legacy form
func (st *Settings) readVer7(s *stream.Memory) error {
	st.readDisplay(s)
	st.Vsync = s.ReadBool()
	st.readKeys(s, bitmapsOld)
	st.Icon = s.ReadBitmapOld()
	st.readErrors(s)
	st.TreatUninitializedAsZero = s.ReadBool()
	st.readInfo(s)
	return s.Err()
}

func (st *Settings) writeVer7(s *stream.Memory) error {
	st.writeDisplay(s)
	s.WriteBool(st.Vsync)
	st.writeKeys(s, bitmapsOld)
	s.WriteBitmapOld(st.Icon)
	st.writeErrors(s)
	s.WriteBool(st.TreatUninitializedAsZero)
	st.writeInfo(s)
	return s.Err()
}
