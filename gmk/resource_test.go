package gmk

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

func exists(name string) ResourceBase {
	return ResourceBase{Exists: true, Name: name, LastChanged: stream.DaysToTime(41000)}
}

func TestSentinelResolution(t *testing.T) {
	f := NewFile()
	f.Version = Ver81
	f.Sprites = []*Sprite{{ResourceBase: exists("spr")}}
	f.Backgrounds = []*Background{{ResourceBase: exists("bg")}}
	f.Objects = []*Object{
		{ResourceBase: exists("none"), spriteIndex: IndexNone, parentIndex: ParentIndexNone, maskIndex: IndexNone},
		{ResourceBase: exists("all"), spriteIndex: 0, parentIndex: 0, maskIndex: 0},
		{ResourceBase: exists("outside"), spriteIndex: 5, parentIndex: 3, maskIndex: -7},
	}
	f.Rooms = []*Room{{
		ResourceBase: exists("room"),
		Instances:    []RoomInstance{{objectIndex: IndexNone}, {objectIndex: 1}},
		Tiles:        []RoomTile{{backgroundIndex: IndexNone}, {backgroundIndex: 0}},
		Backgrounds:  []RoomBackground{{backgroundIndex: IndexNone}},
		Views:        []RoomView{{followingIndex: 2}},
	}}
	f.Paths = []*Path{
		{ResourceBase: exists("nowhere"), roomIndex: RoomIndexNone},
		{ResourceBase: exists("somewhere"), roomIndex: 0},
	}
	// resources built by hand carry no back reference to file
	f.finalize()

	none, all, outside := f.Objects[0], f.Objects[1], f.Objects[2]
	if none.Sprite != nil || none.Parent != nil || none.Mask != nil {
		t.Errorf("sentinels resolved to %v %v %v", none.Sprite, none.Parent, none.Mask)
	}
	if all.Sprite != f.Sprites[0] || all.Parent != none || all.Mask != f.Sprites[0] {
		t.Errorf("indices resolved to %v %v %v", all.Sprite, all.Parent, all.Mask)
	}
	if outside.Sprite != nil || outside.Parent != nil || outside.Mask != nil {
		t.Errorf("out of range indices resolved")
	}

	room := f.Rooms[0]
	if room.Instances[0].Object != nil || room.Instances[1].Object != all {
		t.Errorf("instances resolved to %v %v", room.Instances[0].Object, room.Instances[1].Object)
	}
	if room.Tiles[0].Background != nil || room.Tiles[1].Background != f.Backgrounds[0] {
		t.Errorf("tiles resolved wrong")
	}
	if room.Backgrounds[0].Background != nil || room.Views[0].Following != outside {
		t.Errorf("layers resolved wrong")
	}
	if f.Paths[0].Room != nil || f.Paths[1].Room != room {
		t.Errorf("paths resolved to %v %v", f.Paths[0].Room, f.Paths[1].Room)
	}

	if r := f.GetResource(KindSprite, 1); r != nil {
		t.Errorf("GetResource out of range returned %v", r)
	}
	if r := f.GetResource(KindSprite, -1); r != nil {
		t.Errorf("GetResource(-1) returned %v", r)
	}
	if r := f.GetResource(KindGameSettings, 0); r != nil {
		t.Errorf("GetResource of singleton kind returned %v", r)
	}
}

func TestActionResolve(t *testing.T) {
	f := NewFile()
	f.Scripts = []*Script{{ResourceBase: exists("scr")}}
	f.Objects = []*Object{{ResourceBase: exists("obj")}}

	a := &Action{appliesToIndex: 0}
	a.Arguments[0] = Argument{Kind: ArgumentScript, Value: "0"}
	a.Arguments[1] = Argument{Kind: ArgumentScript, Value: "4"}
	a.Arguments[2] = Argument{Kind: ArgumentExpression, Value: "0"}
	a.Arguments[3] = Argument{Kind: ArgumentObject, Value: "not a number"}
	a.finalize(f)

	if a.AppliesTo != AppliesToObject || a.AppliesToObject != f.Objects[0] {
		t.Errorf("applies to %v %v", a.AppliesTo, a.AppliesToObject)
	}
	if a.Arguments[0].Link != f.Scripts[0] {
		t.Errorf("script argument not linked")
	}
	for i := 1; i < MaxArguments; i++ {
		if a.Arguments[i].Link != nil {
			t.Errorf("argument %d linked to %v", i, a.Arguments[i].Link)
		}
	}

	for _, test := range []struct {
		index int32
		want  AppliesTo
	}{
		{AppliesToIndexSelf, AppliesToSelf},
		{AppliesToIndexOther, AppliesToOther},
	} {
		a := &Action{appliesToIndex: test.index}
		a.finalize(f)
		if a.AppliesTo != test.want || a.AppliesToObject != nil {
			t.Errorf("index %d: applies to %v %v", test.index, a.AppliesTo, a.AppliesToObject)
		}
	}
}

func TestFontRangePacking(t *testing.T) {
	packed := PackRange(0x20, 0xcc, 3)
	if packed != 0x03cc0020 {
		t.Errorf("PackRange=0x%x", packed)
	}
	if begin, charset, aa := UnpackRange(packed); begin != 0x20 || charset != 0xcc || aa != 3 {
		t.Errorf("UnpackRange=0x%x 0x%x %d", begin, charset, aa)
	}

	fnt := &Font{ResourceBase: exists("fnt"), FontName: "Tahoma", Size: 12, RangeBegin: 32, RangeEnd: 127, Charset: 1, AntiAliasing: 2}
	mem := stream.NewMemory(nil)
	if err := fnt.writeVer81(mem); err != nil {
		t.Fatal(err)
	}

	// 8.0 layout reads packed dword as is
	mem.Seek(0)
	var raw Font
	if err := raw.readVer8(mem); err != nil {
		t.Fatal(err)
	}
	if raw.RangeBegin != 0x02010020 {
		t.Errorf("stored range begin 0x%x", raw.RangeBegin)
	}

	mem.Seek(0)
	var got Font
	if err := got.readVer81(mem); err != nil {
		t.Fatal(err)
	}
	if got.RangeBegin != 32 || got.Charset != 1 || got.AntiAliasing != 2 || got.RangeEnd != 127 {
		t.Errorf("read back %+v", got)
	}
}

func TestCollisionEvents(t *testing.T) {
	f := NewFile()
	f.Version = Ver81
	f.Objects = []*Object{
		{ResourceBase: exists("obj_player"), spriteIndex: IndexNone, parentIndex: ParentIndexNone, maskIndex: IndexNone,
			Events: []*Event{
				{Kind: EventCreate},
				{Kind: EventCollision, Number: 1},
				{Kind: EventCollision, Number: 2},
			}},
		{ResourceBase: exists("obj_wall"), spriteIndex: IndexNone, parentIndex: ParentIndexNone, maskIndex: IndexNone},
		{ResourceBase: exists("obj_coin"), spriteIndex: IndexNone, parentIndex: ParentIndexNone, maskIndex: IndexNone},
	}
	for _, obj := range f.Objects {
		obj.file = f
	}
	f.finalize()

	player := f.Objects[0]
	if player.Events[1].Other != f.Objects[1] || player.Events[2].Other != f.Objects[2] {
		t.Fatalf("collision resolved to %v %v", player.Events[1].Other, player.Events[2].Other)
	}
	if player.Events[0].Other != nil {
		t.Errorf("create event has collision object")
	}
	if n := len(player.EventsOf(EventCollision)); n != 2 {
		t.Errorf("%d collision events", n)
	}

	// collision number follows object position on save
	f.Objects[1], f.Objects[2] = f.Objects[2], f.Objects[1]
	loaded := &File{}
	if err := loaded.LoadFrom(saveToMemory(t, f)); err != nil {
		t.Fatal(err)
	}
	events := loaded.Objects[0].EventsOf(EventCollision)
	if len(events) != 2 || events[0].Other.Name != "obj_wall" || events[1].Other.Name != "obj_coin" {
		t.Errorf("collision events after reorder: %+v", events)
	}
	if events[0].Number != 2 || events[1].Number != 1 {
		t.Errorf("collision numbers %d %d", events[0].Number, events[1].Number)
	}
}

func TestUnknownEventKind(t *testing.T) {
	f := Generate(12)
	for _, obj := range f.Objects {
		if obj.Exists {
			obj.Events = append(obj.Events, &Event{Kind: EventKindCount})
			break
		}
	}
	if err := f.SaveTo(stream.NewMemory(nil)); !errors.Is(err, ErrBadEvent) {
		t.Errorf("event of unknown kind: got %v", err)
	}
}
