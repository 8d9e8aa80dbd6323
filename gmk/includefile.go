package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type ExportKind uint32

const (
	ExportNone ExportKind = iota
	ExportTempDirectory
	ExportWorkingDirectory
	ExportFolder
)

// IncludeFile is external file shipped with game. Name holds its file name.
type IncludeFile struct {
	ResourceBase
	FilePath     string
	OriginalFile bool
	OriginalSize uint32
	// Data is nil when file is not stored inside project
	Data            []byte `json:"-" yaml:"-"`
	Export          ExportKind
	ExportFolder    string
	Overwrite       bool
	FreeMemory      bool
	RemoveAtGameEnd bool
}

func (*IncludeFile) Kind() ResourceKind {
	return KindIncludeFile
}

var includeFileCodecs = codecTable[IncludeFile]{
	Ver8:  {read: (*IncludeFile).readVer81, write: (*IncludeFile).writeVer81},
	Ver81: {read: (*IncludeFile).readVer81, write: (*IncludeFile).writeVer81},
}

func (inc *IncludeFile) readVer81(s *stream.Memory) error {
	inc.LastChanged = s.ReadTime()
	inc.Name = s.ReadString()
	inc.FilePath = s.ReadString()
	inc.OriginalFile = s.ReadBool()
	inc.OriginalSize = s.ReadDword()
	if s.ReadBool() {
		inc.Data = s.Deserialize(false).Bytes()
	}
	inc.Export = ExportKind(s.ReadDword())
	inc.ExportFolder = s.ReadString()
	inc.Overwrite = s.ReadBool()
	inc.FreeMemory = s.ReadBool()
	inc.RemoveAtGameEnd = s.ReadBool()
	return s.Err()
}

func (inc *IncludeFile) writeVer81(s *stream.Memory) error {
	s.WriteTime(inc.LastChanged)
	s.WriteString(inc.Name)
	s.WriteString(inc.FilePath)
	s.WriteBool(inc.OriginalFile)
	s.WriteDword(inc.OriginalSize)
	s.WriteBool(inc.Data != nil)
	if inc.Data != nil {
		s.Serialize(stream.NewMemory(inc.Data), false)
	}
	s.WriteDword(uint32(inc.Export))
	s.WriteString(inc.ExportFolder)
	s.WriteBool(inc.Overwrite)
	s.WriteBool(inc.FreeMemory)
	s.WriteBool(inc.RemoveAtGameEnd)
	return s.Err()
}
