package gmk

import (
	"github.com/mogaika/gmk_browser/stream"
)

type RoomBackground struct {
	Visible         bool
	Foreground      bool
	Background      *Background `json:"-" yaml:"-"`
	backgroundIndex int32
	X               int32
	Y               int32
	TileH           bool
	TileV           bool
	HSpeed          int32
	VSpeed          int32
	Stretch         bool
}

type RoomView struct {
	Visible bool
	ViewX   int32
	ViewY   int32
	ViewW   uint32
	ViewH   uint32
	PortX   int32
	PortY   int32
	PortW   uint32
	PortH   uint32
	BorderH int32
	BorderV int32
	SpeedH  int32
	SpeedV  int32

	Following      *Object `json:"-" yaml:"-"`
	followingIndex int32
}

type RoomInstance struct {
	X            int32
	Y            int32
	Object       *Object `json:"-" yaml:"-"`
	objectIndex  int32
	ID           uint32
	CreationCode string
	Locked       bool
}

type RoomTile struct {
	X               int32
	Y               int32
	Background      *Background `json:"-" yaml:"-"`
	backgroundIndex int32
	TileX           int32
	TileY           int32
	Width           uint32
	Height          uint32
	Depth           int32
	ID              uint32
	Locked          bool
}

type RoomEditorState struct {
	RememberWindowSize      bool
	EditorWidth             uint32
	EditorHeight            uint32
	ShowGrid                bool
	ShowObjects             bool
	ShowTiles               bool
	ShowBackgrounds         bool
	ShowForegrounds         bool
	ShowViews               bool
	DeleteUnderlyingObjects bool
	DeleteUnderlyingTiles   bool
	Tab                     uint32
	XScroll                 uint32
	YScroll                 uint32
}

type Room struct {
	ResourceBase
	Caption             string
	Width               uint32
	Height              uint32
	SnapX               uint32
	SnapY               uint32
	Isometric           bool
	Speed               uint32
	Persistent          bool
	Color               uint32
	DrawBackgroundColor bool
	CreationCode        string

	Backgrounds []RoomBackground
	EnableViews bool
	Views       []RoomView
	Instances   []RoomInstance
	Tiles       []RoomTile

	Editor RoomEditorState
}

const RoomLayers = 8

func (*Room) Kind() ResourceKind {
	return KindRoom
}

var roomCodecs = codecTable[Room]{
	Ver8:  {read: (*Room).readVer81, write: (*Room).writeVer81},
	Ver81: {read: (*Room).readVer81, write: (*Room).writeVer81},
}

func (r *Room) readVer81(s *stream.Memory) error {
	r.readHeader(s)
	r.Caption = s.ReadString()
	r.Width = s.ReadDword()
	r.Height = s.ReadDword()
	r.SnapY = s.ReadDword()
	r.SnapX = s.ReadDword()
	r.Isometric = s.ReadBool()
	r.Speed = s.ReadDword()
	r.Persistent = s.ReadBool()
	r.Color = s.ReadDword()
	r.DrawBackgroundColor = s.ReadBool()
	r.CreationCode = s.ReadString()

	r.Backgrounds = newList[RoomBackground](s.ReadCount(40))
	for i := range r.Backgrounds {
		bg := &r.Backgrounds[i]
		bg.Visible = s.ReadBool()
		bg.Foreground = s.ReadBool()
		bg.backgroundIndex = s.ReadInt()
		bg.X = s.ReadInt()
		bg.Y = s.ReadInt()
		bg.TileH = s.ReadBool()
		bg.TileV = s.ReadBool()
		bg.HSpeed = s.ReadInt()
		bg.VSpeed = s.ReadInt()
		bg.Stretch = s.ReadBool()
	}

	r.EnableViews = s.ReadBool()
	r.Views = newList[RoomView](s.ReadCount(56))
	for i := range r.Views {
		v := &r.Views[i]
		v.Visible = s.ReadBool()
		v.ViewX = s.ReadInt()
		v.ViewY = s.ReadInt()
		v.ViewW = s.ReadDword()
		v.ViewH = s.ReadDword()
		v.PortX = s.ReadInt()
		v.PortY = s.ReadInt()
		v.PortW = s.ReadDword()
		v.PortH = s.ReadDword()
		v.BorderH = s.ReadInt()
		v.BorderV = s.ReadInt()
		v.SpeedH = s.ReadInt()
		v.SpeedV = s.ReadInt()
		v.followingIndex = s.ReadInt()
	}

	r.Instances = newList[RoomInstance](s.ReadCount(24))
	for i := range r.Instances {
		inst := &r.Instances[i]
		inst.X = s.ReadInt()
		inst.Y = s.ReadInt()
		inst.objectIndex = s.ReadInt()
		inst.ID = s.ReadDword()
		inst.CreationCode = s.ReadString()
		inst.Locked = s.ReadBool()
	}

	r.Tiles = newList[RoomTile](s.ReadCount(40))
	for i := range r.Tiles {
		t := &r.Tiles[i]
		t.X = s.ReadInt()
		t.Y = s.ReadInt()
		t.backgroundIndex = s.ReadInt()
		t.TileX = s.ReadInt()
		t.TileY = s.ReadInt()
		t.Width = s.ReadDword()
		t.Height = s.ReadDword()
		t.Depth = s.ReadInt()
		t.ID = s.ReadDword()
		t.Locked = s.ReadBool()
	}

	e := &r.Editor
	e.RememberWindowSize = s.ReadBool()
	e.EditorWidth = s.ReadDword()
	e.EditorHeight = s.ReadDword()
	e.ShowGrid = s.ReadBool()
	e.ShowObjects = s.ReadBool()
	e.ShowTiles = s.ReadBool()
	e.ShowBackgrounds = s.ReadBool()
	e.ShowForegrounds = s.ReadBool()
	e.ShowViews = s.ReadBool()
	e.DeleteUnderlyingObjects = s.ReadBool()
	e.DeleteUnderlyingTiles = s.ReadBool()
	e.Tab = s.ReadDword()
	e.XScroll = s.ReadDword()
	e.YScroll = s.ReadDword()
	return s.Err()
}

func (r *Room) writeVer81(s *stream.Memory) error {
	f := r.file
	r.writeHeader(s)
	s.WriteString(r.Caption)
	s.WriteDword(r.Width)
	s.WriteDword(r.Height)
	s.WriteDword(r.SnapY)
	s.WriteDword(r.SnapX)
	s.WriteBool(r.Isometric)
	s.WriteDword(r.Speed)
	s.WriteBool(r.Persistent)
	s.WriteDword(r.Color)
	s.WriteBool(r.DrawBackgroundColor)
	s.WriteString(r.CreationCode)

	s.WriteDword(uint32(len(r.Backgrounds)))
	for i := range r.Backgrounds {
		bg := &r.Backgrounds[i]
		s.WriteBool(bg.Visible)
		s.WriteBool(bg.Foreground)
		writeRef(f, s, bg.Background, IndexNone)
		s.WriteInt(bg.X)
		s.WriteInt(bg.Y)
		s.WriteBool(bg.TileH)
		s.WriteBool(bg.TileV)
		s.WriteInt(bg.HSpeed)
		s.WriteInt(bg.VSpeed)
		s.WriteBool(bg.Stretch)
	}

	s.WriteBool(r.EnableViews)
	s.WriteDword(uint32(len(r.Views)))
	for i := range r.Views {
		v := &r.Views[i]
		s.WriteBool(v.Visible)
		s.WriteInt(v.ViewX)
		s.WriteInt(v.ViewY)
		s.WriteDword(v.ViewW)
		s.WriteDword(v.ViewH)
		s.WriteInt(v.PortX)
		s.WriteInt(v.PortY)
		s.WriteDword(v.PortW)
		s.WriteDword(v.PortH)
		s.WriteInt(v.BorderH)
		s.WriteInt(v.BorderV)
		s.WriteInt(v.SpeedH)
		s.WriteInt(v.SpeedV)
		writeRef(f, s, v.Following, IndexNone)
	}

	s.WriteDword(uint32(len(r.Instances)))
	for i := range r.Instances {
		inst := &r.Instances[i]
		s.WriteInt(inst.X)
		s.WriteInt(inst.Y)
		writeRef(f, s, inst.Object, IndexNone)
		s.WriteDword(inst.ID)
		s.WriteString(inst.CreationCode)
		s.WriteBool(inst.Locked)
	}

	s.WriteDword(uint32(len(r.Tiles)))
	for i := range r.Tiles {
		t := &r.Tiles[i]
		s.WriteInt(t.X)
		s.WriteInt(t.Y)
		writeRef(f, s, t.Background, IndexNone)
		s.WriteInt(t.TileX)
		s.WriteInt(t.TileY)
		s.WriteDword(t.Width)
		s.WriteDword(t.Height)
		s.WriteInt(t.Depth)
		s.WriteDword(t.ID)
		s.WriteBool(t.Locked)
	}

	e := &r.Editor
	s.WriteBool(e.RememberWindowSize)
	s.WriteDword(e.EditorWidth)
	s.WriteDword(e.EditorHeight)
	s.WriteBool(e.ShowGrid)
	s.WriteBool(e.ShowObjects)
	s.WriteBool(e.ShowTiles)
	s.WriteBool(e.ShowBackgrounds)
	s.WriteBool(e.ShowForegrounds)
	s.WriteBool(e.ShowViews)
	s.WriteBool(e.DeleteUnderlyingObjects)
	s.WriteBool(e.DeleteUnderlyingTiles)
	s.WriteDword(e.Tab)
	s.WriteDword(e.XScroll)
	s.WriteDword(e.YScroll)
	return s.Err()
}

func (r *Room) finalize(f *File) {
	for i := range r.Backgrounds {
		bg := &r.Backgrounds[i]
		bg.Background = at(f.Backgrounds, bg.backgroundIndex)
	}
	for i := range r.Views {
		v := &r.Views[i]
		v.Following = at(f.Objects, v.followingIndex)
	}
	for i := range r.Instances {
		inst := &r.Instances[i]
		inst.Object = at(f.Objects, inst.objectIndex)
	}
	for i := range r.Tiles {
		t := &r.Tiles[i]
		t.Background = at(f.Backgrounds, t.backgroundIndex)
	}
}
