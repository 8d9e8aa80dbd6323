package gmk

import (
	"time"

	"github.com/mogaika/gmk_browser/stream"
)

// GameInformation is help window shown by F1, Information is RTF text
type GameInformation struct {
	BackgroundColor uint32
	MimicGameWindow bool
	Caption         string
	Left            int32
	Top             int32
	Width           uint32
	Height          uint32
	ShowBorder      bool
	AllowResize     bool
	StayOnTop       bool
	PauseGame       bool
	LastChanged     time.Time
	Information     string
}

var gameInformationCodecs = codecTable[GameInformation]{
	Ver8:  {read: (*GameInformation).readVer81, write: (*GameInformation).writeVer81},
	Ver81: {read: (*GameInformation).readVer81, write: (*GameInformation).writeVer81},
}

func readGameInformation(f *File, s stream.Stream) (*GameInformation, error) {
	gi := &GameInformation{}
	sub := s.Deserialize(f.Version.compressed())
	if err := sub.Err(); err != nil {
		return nil, err
	}
	if err := gameInformationCodecs.read(f.Version, KindGameInformation, gi, sub); err != nil {
		return nil, err
	}
	f.progressRead(s)
	return gi, nil
}

func writeGameInformation(f *File, s stream.Stream, gi *GameInformation) error {
	sub := stream.NewMemory(nil)
	if err := gameInformationCodecs.write(f.Version, KindGameInformation, gi, sub); err != nil {
		return err
	}
	s.Serialize(sub, f.Version.compressed())
	f.progressWrite()
	return s.Err()
}

func (gi *GameInformation) readVer81(s *stream.Memory) error {
	gi.BackgroundColor = s.ReadDword()
	gi.MimicGameWindow = s.ReadBool()
	gi.Caption = s.ReadString()
	gi.Left = s.ReadInt()
	gi.Top = s.ReadInt()
	gi.Width = s.ReadDword()
	gi.Height = s.ReadDword()
	gi.ShowBorder = s.ReadBool()
	gi.AllowResize = s.ReadBool()
	gi.StayOnTop = s.ReadBool()
	gi.PauseGame = s.ReadBool()
	gi.LastChanged = s.ReadTime()
	gi.Information = s.ReadString()
	return s.Err()
}

func (gi *GameInformation) writeVer81(s *stream.Memory) error {
	s.WriteDword(gi.BackgroundColor)
	s.WriteBool(gi.MimicGameWindow)
	s.WriteString(gi.Caption)
	s.WriteInt(gi.Left)
	s.WriteInt(gi.Top)
	s.WriteDword(gi.Width)
	s.WriteDword(gi.Height)
	s.WriteBool(gi.ShowBorder)
	s.WriteBool(gi.AllowResize)
	s.WriteBool(gi.StayOnTop)
	s.WriteBool(gi.PauseGame)
	s.WriteTime(gi.LastChanged)
	s.WriteString(gi.Information)
	return s.Err()
}
