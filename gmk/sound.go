package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type SoundKind uint32

const (
	SoundKindNormal SoundKind = iota
	SoundKindBackground
	SoundKind3D
	SoundKindMultimedia
)

// Sound effects bitmask
const (
	SoundEffectChorus = 1 << iota
	SoundEffectEcho
	SoundEffectFlanger
	SoundEffectGargle
	SoundEffectReverb
)

type Sound struct {
	ResourceBase
	SoundKind SoundKind
	Extension string
	FileName  string
	// Data is nil when sound has no embedded file
	Data    []byte `json:"-" yaml:"-"`
	Effects uint32
	Volume  float64
	Pan     float64
	Preload bool
}

func (*Sound) Kind() ResourceKind {
	return KindSound
}

var soundCodecs = codecTable[Sound]{
	Ver7:  {read: (*Sound).readVer7, write: (*Sound).writeVer7},
	Ver8:  {read: (*Sound).readVer81, write: (*Sound).writeVer81},
	Ver81: {read: (*Sound).readVer81, write: (*Sound).writeVer81},
}

func (snd *Sound) readVer81(s *stream.Memory) error {
	snd.readHeader(s)
	snd.SoundKind = SoundKind(s.ReadDword())
	snd.Extension = s.ReadString()
	snd.FileName = s.ReadString()
	if s.ReadBool() {
		snd.Data = s.Deserialize(false).Bytes()
	}
	snd.Effects = s.ReadDword()
	snd.Volume = s.ReadDouble()
	snd.Pan = s.ReadDouble()
	snd.Preload = s.ReadBool()
	return s.Err()
}

func (snd *Sound) writeVer81(s *stream.Memory) error {
	snd.writeHeader(s)
	s.WriteDword(uint32(snd.SoundKind))
	s.WriteString(snd.Extension)
	s.WriteString(snd.FileName)
	s.WriteBool(snd.Data != nil)
	if snd.Data != nil {
		s.Serialize(stream.NewMemory(snd.Data), false)
	}
	s.WriteDword(snd.Effects)
	s.WriteDouble(snd.Volume)
	s.WriteDouble(snd.Pan)
	s.WriteBool(snd.Preload)
	return s.Err()
}

func (snd *Sound) readVer7(s *stream.Memory) error {
	snd.readHeader(s)
	snd.SoundKind = SoundKind(s.ReadDword())
	snd.Extension = s.ReadString()
	snd.FileName = s.ReadString()
	snd.Data = s.ReadBitmapOld()
	snd.Effects = s.ReadDword()
	snd.Volume = s.ReadDouble()
	snd.Pan = s.ReadDouble()
	snd.Preload = s.ReadBool()
	return s.Err()
}

func (snd *Sound) writeVer7(s *stream.Memory) error {
	snd.writeHeader(s)
	s.WriteDword(uint32(snd.SoundKind))
	s.WriteString(snd.Extension)
	s.WriteString(snd.FileName)
	s.WriteBitmapOld(snd.Data)
	s.WriteDword(snd.Effects)
	s.WriteDouble(snd.Volume)
	s.WriteDouble(snd.Pan)
	s.WriteBool(snd.Preload)
	return s.Err()
}
