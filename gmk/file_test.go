package gmk

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/config"
	"github.com/mogaika/gmk_browser/gmkrypt"
	"github.com/mogaika/gmk_browser/stream"
	"github.com/mogaika/gmk_browser/utils"
)

// detach drops back references so files can be compared field by field
func detach(f *File) {
	for _, kind := range storedKinds {
		for _, r := range f.Resources(kind) {
			r.Base().file = nil
		}
	}
}

func compareFiles(t *testing.T, want, got *File) {
	t.Helper()
	detach(want)
	detach(got)

	check := func(name string, a, b interface{}) {
		t.Helper()
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s differs\nwant: %s\ngot:  %s", name, utils.SDump(a), utils.SDump(b))
		}
	}
	check("version", want.Version, got.Version)
	check("game id", want.GameID, got.GameID)
	check("guid", want.GUID, got.GUID)
	check("settings", want.Settings, got.Settings)
	check("triggers", want.Triggers, got.Triggers)
	check("constants", want.Constants, got.Constants)
	check("sounds", want.Sounds, got.Sounds)
	check("sprites", want.Sprites, got.Sprites)
	check("backgrounds", want.Backgrounds, got.Backgrounds)
	check("paths", want.Paths, got.Paths)
	check("scripts", want.Scripts, got.Scripts)
	check("fonts", want.Fonts, got.Fonts)
	check("timelines", want.Timelines, got.Timelines)
	check("objects", want.Objects, got.Objects)
	check("rooms", want.Rooms, got.Rooms)
	check("include files", want.IncludeFiles, got.IncludeFiles)
	check("packages", want.Packages, got.Packages)
	check("last instance id", want.LastInstancePlacedID, got.LastInstancePlacedID)
	check("last tile id", want.LastTilePlacedID, got.LastTilePlacedID)
	check("game information", want.GameInformation, got.GameInformation)
	check("tree", want.Tree, got.Tree)
}

func saveToMemory(t *testing.T, f *File) *stream.Memory {
	t.Helper()
	mem := stream.NewMemory(nil)
	if err := f.SaveTo(mem); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	mem.Seek(0)
	return mem
}

func TestRoundTripVer81(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		f := Generate(seed)
		loaded := &File{}
		if err := loaded.LoadFrom(saveToMemory(t, f)); err != nil {
			t.Fatalf("seed %d: LoadFrom: %v", seed, err)
		}
		if !loaded.IsLoaded() {
			t.Errorf("seed %d: not loaded", seed)
		}
		compareFiles(t, f, loaded)
	}
}

// version 8.0 has no storage for these fields
func dropVer81Fields(f *File) {
	for _, fnt := range f.Fonts {
		fnt.Charset, fnt.AntiAliasing = 0, 0
	}
	f.Settings.DisableScreensavers = false
	f.Settings.ErrorOnArgumentCount = false
	f.Settings.LastSettingsChanged = time.Time{}
}

func TestRoundTripVer8(t *testing.T) {
	f := Generate(42)
	f.Version = Ver8
	dropVer81Fields(f)
	mem := saveToMemory(t, f)

	header := mem.Bytes()[:8]
	if !bytes.Equal(header, []byte{0x91, 0xd5, 0x12, 0, 0x20, 0x03, 0, 0}) {
		t.Errorf("header % x", header)
	}

	loaded := &File{}
	if err := loaded.LoadFrom(mem); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	compareFiles(t, f, loaded)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.gmk")
	f := Generate(7)
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left: %v", err)
	}

	loaded := &File{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	compareFiles(t, f, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	f := &File{}
	err := f.Load(filepath.Join(t.TempDir(), "missing.gmk"))
	if !errors.Is(err, stream.ErrIO) {
		t.Errorf("got %v, want i/o error", err)
	}
	if f.IsLoaded() {
		t.Errorf("file is loaded")
	}
}

func TestPlaceholders(t *testing.T) {
	f := Generate(3)
	loaded := &File{}
	if err := loaded.LoadFrom(saveToMemory(t, f)); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	for _, kind := range storedKinds {
		want, got := f.Resources(kind), loaded.Resources(kind)
		if len(want) != len(got) {
			t.Fatalf("%v: %d resources, want %d", kind, len(got), len(want))
		}
		placeholders := 0
		for i := range want {
			if want[i].Base().Exists != got[i].Base().Exists {
				t.Errorf("%v %d: exists %v, want %v", kind, i, got[i].Base().Exists, want[i].Base().Exists)
			}
			if !got[i].Base().Exists {
				placeholders++
				if got[i].Base().Name != "" {
					t.Errorf("%v %d: placeholder has name %q", kind, i, got[i].Base().Name)
				}
			}
		}
		if placeholders == 0 {
			t.Errorf("%v: no placeholders", kind)
		}
	}
}

func header(version uint32) *stream.Memory {
	mem := stream.NewMemory(nil)
	mem.WriteDword(Magic)
	mem.WriteDword(version)
	mem.WriteData(make([]byte, 64))
	mem.Seek(0)
	return mem
}

func TestVersionGating(t *testing.T) {
	for _, test := range []struct {
		version uint32
		want    error
	}{
		{999, ErrUnknownVersion},
		{0, ErrUnknownVersion},
		{530, ErrUnsupportedVersion},
		{600, ErrUnsupportedVersion},
	} {
		f := &File{}
		err := f.LoadFrom(header(test.version))
		if !errors.Is(err, test.want) {
			t.Errorf("version %d: got %v, want %v", test.version, err, test.want)
		}
		if f.IsLoaded() || f.Version != VerUnknown {
			t.Errorf("version %d: loaded=%v version=%v", test.version, f.IsLoaded(), f.Version)
		}
	}

	mem := stream.NewMemory(nil)
	mem.WriteDword(Magic + 1)
	mem.WriteDword(810)
	mem.Seek(0)
	f := &File{}
	if err := f.LoadFrom(mem); !errors.Is(err, ErrBadMagic) {
		t.Errorf("bad magic: got %v", err)
	}
	if mem.Pos() != 4 {
		t.Errorf("bad magic: read up to %d", mem.Pos())
	}
	if f.IsLoaded() {
		t.Errorf("bad magic: file is loaded")
	}
}

func TestTruncated(t *testing.T) {
	data := saveToMemory(t, Generate(5)).Bytes()
	for _, size := range []int{0, 6, 30, len(data) / 2, len(data) - 1} {
		f := &File{}
		err := f.LoadFrom(stream.NewMemory(append([]byte(nil), data[:size]...)))
		if !errors.Is(err, stream.ErrDecode) {
			t.Errorf("size %d: got %v, want decode error", size, err)
		}
		if f.IsLoaded() {
			t.Errorf("size %d: file is loaded", size)
		}
	}
}

func TestStringBytesSurviveResave(t *testing.T) {
	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i)
	}
	f := NewFile()
	f.Scripts = []*Script{{ResourceBase: exists("scr_bytes"), Code: utils.BytesToString(raw)}}

	loaded := &File{}
	if err := loaded.LoadFrom(saveToMemory(t, f)); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	resaved := &File{}
	if err := resaved.LoadFrom(saveToMemory(t, loaded)); err != nil {
		t.Fatalf("LoadFrom after resave: %v", err)
	}

	stored, err := utils.StringToBytes(resaved.Scripts[0].Code)
	if err != nil {
		t.Fatalf("StringToBytes: %v", err)
	}
	if !bytes.Equal(stored, raw) {
		t.Errorf("script bytes changed:\nwant %x\ngot  %x", raw, stored)
	}
}

func TestMissingReference(t *testing.T) {
	f := Generate(9)
	for _, root := range f.Tree.Roots {
		if len(root.Children) != 0 {
			root.Children = append(root.Children, &Node{Status: NodeSecondary, Group: root.Group, Name: "lost"})
			break
		}
	}
	if err := f.SaveTo(stream.NewMemory(nil)); !errors.Is(err, ErrMissingReference) {
		t.Errorf("nil tree leaf: got %v", err)
	}
	if f.Version != VerUnknown {
		t.Errorf("nil tree leaf: version %v after failed save", f.Version)
	}

	f = Generate(9)
	for _, obj := range f.Objects {
		if obj.Exists {
			obj.Sprite = &Sprite{ResourceBase: ResourceBase{Exists: true, Name: "foreign"}}
			break
		}
	}
	if err := f.SaveTo(stream.NewMemory(nil)); !errors.Is(err, ErrMissingReference) {
		t.Errorf("foreign sprite: got %v", err)
	}
	if f.Version != VerUnknown {
		t.Errorf("foreign sprite: version %v after failed save", f.Version)
	}

	f = Generate(9)
	f.Version = VerUnknown
	f.Tree = nil
	if err := f.SaveTo(stream.NewMemory(nil)); !errors.Is(err, ErrMissingReference) {
		t.Errorf("no tree: got %v", err)
	}
	if f.Version != VerUnknown {
		t.Errorf("no tree: version %v after failed save of unknown version project", f.Version)
	}
}

func TestSaveVersion(t *testing.T) {
	defer config.SetSaveVersion(config.GetSaveVersion())

	f := Generate(11)
	f.Version = VerUnknown
	dropVer81Fields(f)
	config.SetSaveVersion(config.GMKVer8)
	mem := saveToMemory(t, f)
	mem.Skip(4)
	if v := mem.ReadDword(); v != config.GMKVer8 {
		t.Errorf("saved version %d", v)
	}

	config.SetSaveVersion(701)
	f.Version = VerUnknown
	if err := f.SaveTo(stream.NewMemory(nil)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("save as 7: got %v", err)
	}
}

func TestProgress(t *testing.T) {
	f := Generate(13)
	var saved []float64
	f.OnProgress = func(p float64) { saved = append(saved, p) }
	mem := saveToMemory(t, f)

	loaded := &File{}
	var read []float64
	loaded.OnProgress = func(p float64) { read = append(read, p) }
	if err := loaded.LoadFrom(mem); err != nil {
		t.Fatal(err)
	}

	for name, steps := range map[string][]float64{"save": saved, "load": read} {
		if len(steps) < 3 {
			t.Errorf("%s: %d progress steps", name, len(steps))
			continue
		}
		for i := 1; i < len(steps); i++ {
			if steps[i] < steps[i-1] {
				t.Errorf("%s: progress goes back %v -> %v", name, steps[i-1], steps[i])
			}
		}
		if last := steps[len(steps)-1]; last != 1 {
			t.Errorf("%s: final progress %v", name, last)
		}
	}
	if loaded.GetProgress() != 1 {
		t.Errorf("GetProgress=%v", loaded.GetProgress())
	}
}

func TestCleanMemory(t *testing.T) {
	f := Generate(2)
	f.CleanMemory()
	for _, kind := range storedKinds {
		if n := len(f.Resources(kind)); n != 0 {
			t.Errorf("%v: %d resources left", kind, n)
		}
	}
	if f.Tree != nil || f.Settings != nil || f.IsLoaded() {
		t.Errorf("singletons left")
	}
}

// encrypt mirrors gmkrypt decoding for fixtures
func encrypt(g *gmkrypt.Gmkrypt, plain []byte) []byte {
	fwd := g.Forward()
	out := make([]byte, len(plain))
	out[0] = plain[0]
	for p := 1; p < len(plain); p++ {
		out[p] = fwd[plain[p]+byte(p)]
	}
	return out
}

func TestLoadVer7(t *testing.T) {
	src := &File{Version: Ver7, GameID: 777}
	src.Settings = &Settings{Fullscreen: true, Author: "author", LastChanged: stream.DaysToTime(40000.5)}
	src.Sounds = []*Sound{
		{ResourceBase: ResourceBase{Exists: true, Name: "snd_jump", LastChanged: stream.DaysToTime(40001)},
			Extension: ".wav", Data: []byte("RIFF"), Volume: 1},
		{},
	}
	src.Sprites = []*Sprite{
		{ResourceBase: ResourceBase{Exists: true, Name: "spr_player", LastChanged: stream.DaysToTime(40002)},
			Subimages: []Image{{Width: 1, Height: 1, Data: []byte{1, 2, 3, 4}}}},
	}

	plain := stream.NewMemory(nil)
	plain.WriteUint8(0x55)
	src.writeIdentity(plain)
	if err := writeSettings(src, plain, src.Settings); err != nil {
		t.Fatal(err)
	}
	if err := writeRecords(src, plain, soundCodecs, src.Sounds); err != nil {
		t.Fatal(err)
	}
	if err := writeRecords(src, plain, spriteCodecs, src.Sprites); err != nil {
		t.Fatal(err)
	}
	if err := writeRecords(src, plain, backgroundCodecs, src.Backgrounds); err != nil {
		t.Fatal(err)
	}
	plain.WriteDword(0) // paths

	const seed = 31337
	mem := stream.NewMemory(nil)
	mem.WriteDword(Magic)
	mem.WriteDword(701)
	mem.WriteDword(2)
	mem.WriteDword(1)
	mem.WriteData(make([]byte, 8))
	mem.WriteDword(seed)
	mem.WriteData(make([]byte, 4))
	mem.WriteData(encrypt(gmkrypt.New(seed), plain.Bytes()))
	mem.Seek(0)

	f := &File{}
	err := f.LoadFrom(mem)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("got %v, want unsupported version", err)
	}
	if f.GameID != 777 || f.GUID != src.GUID {
		t.Errorf("identity %d %v", f.GameID, f.GUID)
	}
	if f.Settings == nil || !f.Settings.Fullscreen || f.Settings.Author != "author" {
		t.Errorf("settings %+v", f.Settings)
	}
	if len(f.Sounds) != 2 || f.Sounds[0].Name != "snd_jump" || string(f.Sounds[0].Data) != "RIFF" || f.Sounds[1].Exists {
		t.Errorf("sounds %s", utils.SDump(f.Sounds))
	}
	if len(f.Sprites) != 1 || len(f.Sprites[0].Subimages) != 1 || f.Sprites[0].Subimages[0].Width != 1 {
		t.Errorf("sprites %s", utils.SDump(f.Sprites))
	}
	if f.IsLoaded() || f.Version != VerUnknown {
		t.Errorf("loaded=%v version=%v", f.IsLoaded(), f.Version)
	}
}
