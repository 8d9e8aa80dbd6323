package gmk

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mogaika/gmk_browser/stream"
	"github.com/mogaika/gmk_browser/utils"
)

// generator fills project with random but consistent content
type generator struct {
	rng *utils.RandomNameGenerator
	f   *File
}

// Generate creates random project of version 8.1. Same seed gives same project.
// Every collection contains at least one placeholder.
func Generate(seed int64) *File {
	g := &generator{
		rng: &utils.RandomNameGenerator{Seed: seed},
		f:   NewFile(),
	}
	g.fill()
	g.f.finalize()
	return g.f
}

// n returns random number in [min, max]
func (g *generator) n(min, max int) int {
	return g.rng.Number(min, max+1)
}

func (g *generator) b() bool {
	return g.rng.Boolean()
}

func (g *generator) time() time.Time {
	days := float64(g.n(36000, 46000)) + float64(g.n(0, 86399999))/(24*60*60*1000)
	return stream.DaysToTime(days)
}

func (g *generator) data(size int) []byte {
	d := make([]byte, size)
	for i := range d {
		d[i] = byte(g.n(0, 255))
	}
	return d
}

// index returns random index into collection of count or none
func (g *generator) index(count int, none int32) int32 {
	if count == 0 || g.n(0, 3) == 0 {
		return none
	}
	return int32(g.n(0, count-1))
}

// count returns collection size and index of placeholder in it
func (g *generator) count() (int, int) {
	c := g.n(2, 5)
	return c, g.n(0, c-1)
}

func (g *generator) base(kind ResourceKind, exists bool) ResourceBase {
	if !exists {
		return ResourceBase{file: g.f}
	}
	return ResourceBase{
		Exists:      true,
		Name:        g.rng.RandomName(kind.String() + "_"),
		LastChanged: g.time(),
		file:        g.f,
	}
}

func (g *generator) fill() {
	f := g.f
	f.Version = Ver81
	f.GameID = uint32(g.n(1, 100000000))
	f.GUID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.Itoa(int(f.GameID))))

	// referenced collections are created first, their sizes are needed for indices
	var ph int
	var count int

	count, ph = g.count()
	for i := 0; i < count; i++ {
		t := &Trigger{ResourceBase: g.base(KindTrigger, i != ph)}
		if t.Exists {
			t.LastChanged = time.Time{}
			t.Condition = "return " + strconv.FormatBool(g.b())
			t.Moment = TriggerMoment(g.n(0, 2))
			t.ConstantName = "ev_" + t.Name
		}
		f.Triggers = append(f.Triggers, t)
	}

	for i := g.n(0, 3); i > 0; i-- {
		f.Constants = append(f.Constants, Constant{Name: g.rng.RandomName("c_"), Value: strconv.Itoa(g.n(0, 999))})
	}

	count, ph = g.count()
	for i := 0; i < count; i++ {
		snd := &Sound{ResourceBase: g.base(KindSound, i != ph)}
		if snd.Exists {
			snd.SoundKind = SoundKind(g.n(0, 3))
			snd.Extension = ".wav"
			snd.FileName = snd.Name + snd.Extension
			if g.b() {
				snd.Data = g.data(g.n(1, 64))
			}
			snd.Effects = uint32(g.n(0, 31))
			snd.Volume = float64(g.n(0, 100)) / 100
			snd.Pan = float64(g.n(-100, 100)) / 100
			snd.Preload = g.b()
		}
		f.Sounds = append(f.Sounds, snd)
	}

	count, ph = g.count()
	for i := 0; i < count; i++ {
		spr := &Sprite{ResourceBase: g.base(KindSprite, i != ph)}
		if spr.Exists {
			spr.OriginX = int32(g.n(-8, 8))
			spr.OriginY = int32(g.n(-8, 8))
			w, h := uint32(g.n(1, 4)), uint32(g.n(1, 4))
			for j := g.n(0, 3); j > 0; j-- {
				spr.Subimages = append(spr.Subimages, Image{Width: w, Height: h, Data: g.data(int(w * h * 4))})
			}
			spr.Shape = MaskShape(g.n(0, 3))
			spr.AlphaTolerance = uint32(g.n(0, 255))
			spr.SeparateMasks = g.b()
			spr.BBoxMode = BBoxMode(g.n(0, 2))
			spr.BBox = BBox{Left: 0, Right: int32(w) - 1, Bottom: int32(h) - 1, Top: 0}
		}
		f.Sprites = append(f.Sprites, spr)
	}

	count, ph = g.count()
	for i := 0; i < count; i++ {
		bg := &Background{ResourceBase: g.base(KindBackground, i != ph)}
		if bg.Exists {
			bg.UseAsTileset = g.b()
			bg.TileWidth = uint32(g.n(1, 32))
			bg.TileHeight = uint32(g.n(1, 32))
			bg.HSep = uint32(g.n(0, 2))
			bg.VSep = uint32(g.n(0, 2))
			if g.b() {
				bg.Image = Image{Width: 2, Height: 2, Data: g.data(16)}
			}
		}
		f.Backgrounds = append(f.Backgrounds, bg)
	}

	// rooms and objects are referenced before they are filled
	roomCount, roomPh := g.count()
	objectCount, objectPh := g.count()
	timelineCount, timelinePh := g.count()
	pathCount, pathPh := g.count()

	for i := 0; i < pathCount; i++ {
		p := &Path{ResourceBase: g.base(KindPath, i != pathPh)}
		if p.Exists {
			p.Connection = PathConnection(g.n(0, 1))
			p.Closed = g.b()
			p.Precision = uint32(g.n(1, 8))
			p.roomIndex = g.index(roomCount, RoomIndexNone)
			p.SnapX, p.SnapY = 16, 16
			for j := g.n(0, 4); j > 0; j-- {
				p.Points = append(p.Points, PathPoint{
					X: float64(g.n(0, 640)), Y: float64(g.n(0, 480)), Speed: 100,
				})
			}
		}
		f.Paths = append(f.Paths, p)
	}

	count, ph = g.count()
	for i := 0; i < count; i++ {
		scr := &Script{ResourceBase: g.base(KindScript, i != ph)}
		if scr.Exists {
			scr.Code = "// " + g.rng.Paragraph() + "\nreturn argument0;"
		}
		f.Scripts = append(f.Scripts, scr)
	}

	count, ph = g.count()
	for i := 0; i < count; i++ {
		fnt := &Font{ResourceBase: g.base(KindFont, i != ph)}
		if fnt.Exists {
			fnt.FontName = "Arial"
			fnt.Size = uint32(g.n(6, 48))
			fnt.Bold = g.b()
			fnt.Italic = g.b()
			fnt.RangeBegin = 32
			fnt.RangeEnd = uint32(g.n(127, 1024))
			fnt.Charset = uint8(g.n(0, 255))
			fnt.AntiAliasing = uint8(g.n(0, 3))
		}
		f.Fonts = append(f.Fonts, fnt)
	}

	for i := 0; i < timelineCount; i++ {
		tl := &Timeline{ResourceBase: g.base(KindTimeline, i != timelinePh)}
		if tl.Exists {
			pos := uint32(0)
			for j := g.n(0, 3); j > 0; j-- {
				pos += uint32(g.n(1, 60))
				tl.Moments = append(tl.Moments, &Moment{Position: pos, Actions: g.actions(objectCount)})
			}
		}
		f.Timelines = append(f.Timelines, tl)
	}

	for i := 0; i < objectCount; i++ {
		obj := &Object{ResourceBase: g.base(KindObject, i != objectPh)}
		if obj.Exists {
			obj.spriteIndex = g.index(len(f.Sprites), IndexNone)
			obj.Solid = g.b()
			obj.Visible = g.b()
			obj.Depth = int32(g.n(-100, 100))
			obj.Persistent = g.b()
			obj.parentIndex = g.index(objectCount, ParentIndexNone)
			obj.maskIndex = g.index(len(f.Sprites), IndexNone)
			for kind := EventKind(0); kind < EventKindCount; kind++ {
				if g.n(0, 2) != 0 {
					continue
				}
				number := uint32(g.n(0, 11))
				if kind == EventCollision {
					number = uint32(g.n(0, objectCount-1))
				}
				obj.Events = append(obj.Events, &Event{Kind: kind, Number: number, Actions: g.actions(objectCount)})
			}
		}
		f.Objects = append(f.Objects, obj)
	}

	instanceID := uint32(InstanceIDMin)
	tileID := uint32(TileIDMin)
	for i := 0; i < roomCount; i++ {
		r := &Room{ResourceBase: g.base(KindRoom, i != roomPh)}
		if r.Exists {
			g.room(r, objectCount, &instanceID, &tileID)
		}
		f.Rooms = append(f.Rooms, r)
	}
	f.LastInstancePlacedID = instanceID - 1
	f.LastTilePlacedID = tileID - 1

	count, ph = g.count()
	for i := 0; i < count; i++ {
		inc := &IncludeFile{ResourceBase: g.base(KindIncludeFile, i != ph)}
		if inc.Exists {
			inc.Name += ".txt"
			inc.FilePath = `C:\data\` + inc.Name
			inc.OriginalFile = true
			if g.b() {
				inc.Data = g.data(g.n(1, 32))
				inc.OriginalSize = uint32(len(inc.Data))
			}
			inc.Export = ExportKind(g.n(0, 3))
			inc.Overwrite = g.b()
			inc.FreeMemory = g.b()
			inc.RemoveAtGameEnd = g.b()
		}
		f.IncludeFiles = append(f.IncludeFiles, inc)
	}

	if g.b() {
		f.Packages = []string{"Windows dialogs", "Data structures"}
	}

	g.settings()
	g.gameInformation()
	g.tree()
}

var generatedArgumentKinds = []ArgumentKind{
	ArgumentExpression, ArgumentString, ArgumentBoolean, ArgumentColor,
	ArgumentSprite, ArgumentSound, ArgumentObject, ArgumentRoom, ArgumentScript,
}

func (g *generator) actions(objectCount int) []*Action {
	var actions []*Action
	for i := g.n(0, 3); i > 0; i-- {
		a := &Action{
			LibraryID:          1,
			ActionID:           uint32(g.n(100, 700)),
			Kind:               ActionKind(g.n(0, 7)),
			MayBeRelative:      g.b(),
			Question:           g.b(),
			AppliesToSomething: g.b(),
			Execution:          ActionExecution(g.n(0, 2)),
			appliesToIndex:     AppliesToIndexSelf,
			Relative:           g.b(),
			Not:                g.b(),
		}
		if a.Execution == ActionExecFunction {
			a.FunctionName = "action_" + strconv.Itoa(int(a.ActionID))
		}
		if a.Execution == ActionExecCode {
			a.FunctionCode = "instance_destroy()"
		}
		switch g.n(0, 2) {
		case 1:
			a.appliesToIndex = AppliesToIndexOther
		case 2:
			a.appliesToIndex = g.index(objectCount, AppliesToIndexSelf)
		}

		a.ArgumentsUsed = uint32(g.n(0, MaxArguments))
		for j := 0; j < int(a.ArgumentsUsed); j++ {
			arg := &a.Arguments[j]
			arg.Kind = generatedArgumentKinds[g.n(0, len(generatedArgumentKinds)-1)]
			if kind, ok := arg.Kind.ResourceKind(); ok {
				arg.Value = strconv.Itoa(int(g.index(len(g.f.Resources(kind)), IndexNone)))
			} else {
				arg.Value = strconv.Itoa(g.n(0, 1000))
			}
		}
		actions = append(actions, a)
	}
	return actions
}

func (g *generator) room(r *Room, objectCount int, instanceID, tileID *uint32) {
	f := g.f
	r.Caption = g.rng.RandomName("Level ")
	r.Width = uint32(g.n(320, 1280))
	r.Height = uint32(g.n(240, 960))
	r.SnapX, r.SnapY = 16, 16
	r.Isometric = g.b()
	r.Speed = 30
	r.Persistent = g.b()
	r.Color = uint32(g.n(0, 0xffffff))
	r.DrawBackgroundColor = g.b()
	r.CreationCode = "global.level = " + strconv.Itoa(g.n(1, 9))

	r.Backgrounds = make([]RoomBackground, RoomLayers)
	for i := range r.Backgrounds {
		r.Backgrounds[i] = RoomBackground{
			Visible:         g.b(),
			Foreground:      g.b(),
			backgroundIndex: g.index(len(f.Backgrounds), IndexNone),
			X:               int32(g.n(0, 64)),
			TileH:           g.b(),
			TileV:           g.b(),
			HSpeed:          int32(g.n(-2, 2)),
			Stretch:         g.b(),
		}
	}

	r.EnableViews = g.b()
	r.Views = make([]RoomView, RoomLayers)
	for i := range r.Views {
		r.Views[i] = RoomView{
			Visible:        i == 0,
			ViewW:          640,
			ViewH:          480,
			PortW:          640,
			PortH:          480,
			BorderH:        32,
			BorderV:        32,
			SpeedH:         -1,
			SpeedV:         -1,
			followingIndex: g.index(objectCount, IndexNone),
		}
	}

	for i := g.n(0, 4); i > 0; i-- {
		r.Instances = append(r.Instances, RoomInstance{
			X:            int32(g.n(0, int(r.Width))),
			Y:            int32(g.n(0, int(r.Height))),
			objectIndex:  g.index(objectCount, IndexNone),
			ID:           *instanceID,
			CreationCode: "hp = " + strconv.Itoa(g.n(1, 100)),
			Locked:       g.b(),
		})
		*instanceID++
	}

	for i := g.n(0, 4); i > 0; i-- {
		r.Tiles = append(r.Tiles, RoomTile{
			X:               int32(g.n(0, int(r.Width))),
			Y:               int32(g.n(0, int(r.Height))),
			backgroundIndex: g.index(len(f.Backgrounds), IndexNone),
			Width:           16,
			Height:          16,
			Depth:           1000000,
			ID:              *tileID,
			Locked:          g.b(),
		})
		*tileID++
	}

	r.Editor = RoomEditorState{
		RememberWindowSize: true,
		EditorWidth:        800,
		EditorHeight:       600,
		ShowGrid:           g.b(),
		ShowObjects:        true,
		ShowTiles:          true,
		ShowBackgrounds:    true,
		ShowForegrounds:    true,
		ShowViews:          g.b(),
		Tab:                uint32(g.n(0, 4)),
	}
}

func (g *generator) settings() {
	st := g.f.Settings
	st.Fullscreen = g.b()
	st.Interpolate = g.b()
	st.DisplayCursor = true
	st.Scaling = -1
	st.ColorDepth = uint32(g.n(0, 2))
	st.Vsync = g.b()
	st.DisableScreensavers = g.b()
	st.LetF4SwitchFullscreen = true
	st.LetEscEndGame = true
	st.Priority = Priority(g.n(0, 2))
	st.LoadingBar = LoadingBar(g.n(0, 2))
	if st.LoadingBar == LoadingBarCustom {
		st.LoadingBarBack = g.data(g.n(1, 32))
		st.LoadingBarFront = g.data(g.n(1, 32))
	}
	st.ShowCustomLoadImage = g.b()
	if st.ShowCustomLoadImage {
		st.LoadingImage = g.data(g.n(1, 32))
	}
	st.LoadingImageAlpha = 255
	if g.b() {
		st.Icon = g.data(g.n(1, 64))
	}
	st.DisplayErrors = true
	st.TreatUninitializedAsZero = g.b()
	st.ErrorOnArgumentCount = g.b()
	st.Author = g.rng.RandomName("")
	st.Version = "1.0"
	st.LastChanged = g.time()
	st.Information = g.rng.Paragraph()
	st.VersionMajor = 1
	st.VersionBuild = uint32(g.n(0, 100))
	st.Company = g.rng.RandomName("")
	st.Product = g.rng.RandomName("")
	st.LastSettingsChanged = g.time()
}

func (g *generator) gameInformation() {
	gi := g.f.GameInformation
	gi.BackgroundColor = 0xe1ffff
	gi.Caption = "Game Information"
	gi.Left, gi.Top = -1, -1
	gi.Width, gi.Height = 600, 400
	gi.ShowBorder = true
	gi.AllowResize = true
	gi.PauseGame = true
	gi.LastChanged = g.time()
	gi.Information = `{\rtf1\ansi ` + g.rng.Paragraph() + `}`
}

// tree puts every existing resource into its root, some into subgroups
func (g *generator) tree() {
	for _, root := range g.f.Tree.Roots {
		var folder *Node
		for i, r := range g.f.Resources(root.Group) {
			if !r.Base().Exists {
				continue
			}
			leaf := &Node{Status: NodeSecondary, Group: root.Group, Name: r.Base().Name, index: int32(i)}
			if folder == nil && g.b() {
				folder = &Node{Status: NodeGroup, Group: root.Group, Name: g.rng.RandomName("folder ")}
				root.Children = append(root.Children, folder)
			}
			if folder != nil && g.b() {
				folder.Children = append(folder.Children, leaf)
			} else {
				root.Children = append(root.Children, leaf)
			}
		}
	}
}
