package gmk

import (
	"testing"

	"github.com/mogaika/gmk_browser/stream"
)

func TestDefragmentResources(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		f := Generate(seed)
		existing := make(map[ResourceKind]int)
		for _, kind := range storedKinds {
			for _, r := range f.Resources(kind) {
				if r.Base().Exists {
					existing[kind]++
				}
			}
		}

		f.DefragmentResources()

		for _, kind := range storedKinds {
			list := f.Resources(kind)
			if len(list) != existing[kind] {
				t.Errorf("seed %d %v: %d resources, want %d", seed, kind, len(list), existing[kind])
			}
			for i, r := range list {
				if !r.Base().Exists {
					t.Errorf("seed %d %v %d: placeholder left", seed, kind, i)
				}
			}
		}

		instanceID, tileID := uint32(InstanceIDMin), uint32(TileIDMin)
		for _, r := range f.Rooms {
			for _, inst := range r.Instances {
				if inst.ID != instanceID {
					t.Errorf("seed %d: instance id %d, want %d", seed, inst.ID, instanceID)
				}
				instanceID++
			}
			for _, tile := range r.Tiles {
				if tile.ID != tileID {
					t.Errorf("seed %d: tile id %d, want %d", seed, tile.ID, tileID)
				}
				tileID++
			}
		}
		if f.LastInstancePlacedID != instanceID-1 || f.LastTilePlacedID != tileID-1 {
			t.Errorf("seed %d: last ids %d %d", seed, f.LastInstancePlacedID, f.LastTilePlacedID)
		}

		// every remaining reference points into project
		loaded := &File{}
		if err := loaded.LoadFrom(saveToMemory(t, f)); err != nil {
			t.Fatalf("seed %d: reload: %v", seed, err)
		}
		compareLinks(t, f, loaded)
	}
}

// compareLinks checks that references survive save by resource name
func compareLinks(t *testing.T, want, got *File) {
	t.Helper()
	name := func(r Resource) string {
		if r == nil {
			return "<nil>"
		}
		return r.Base().Name
	}
	for i, obj := range want.Objects {
		other := got.Objects[i]
		if name(nilSprite(obj.Sprite)) != name(nilSprite(other.Sprite)) ||
			name(nilObject(obj.Parent)) != name(nilObject(other.Parent)) {
			t.Errorf("object %q links differ", obj.Name)
		}
		if len(obj.Events) != len(other.Events) {
			t.Errorf("object %q: %d events, want %d", obj.Name, len(other.Events), len(obj.Events))
		}
	}
	wantLeaves, gotLeaves := leafNames(want), leafNames(got)
	if len(wantLeaves) != len(gotLeaves) {
		t.Errorf("%d tree leaves, want %d", len(gotLeaves), len(wantLeaves))
	}
	for i := 0; i < len(wantLeaves) && i < len(gotLeaves); i++ {
		if wantLeaves[i] != gotLeaves[i] {
			t.Errorf("tree leaf %d points to %q, want %q", i, gotLeaves[i], wantLeaves[i])
		}
	}
	for i, r := range want.Rooms {
		for j, inst := range r.Instances {
			if name(nilObject(inst.Object)) != name(nilObject(got.Rooms[i].Instances[j].Object)) {
				t.Errorf("room %q instance %d object differs", r.Name, j)
			}
		}
	}
}

// leafNames lists "node name -> resource name" of every tree leaf in walk order
func leafNames(f *File) []string {
	var result []string
	f.Tree.Walk(func(n *Node, _ int) bool {
		if n.Status == NodeSecondary {
			name := "<nil>"
			if n.Resource != nil {
				name = n.Resource.Base().Name
			}
			result = append(result, n.Name+" -> "+name)
		}
		return true
	})
	return result
}

func nilSprite(s *Sprite) Resource {
	if s == nil {
		return nil
	}
	return s
}

func nilObject(o *Object) Resource {
	if o == nil {
		return nil
	}
	return o
}

func TestDefragmentClearsReferences(t *testing.T) {
	f := NewFile()
	f.Version = Ver81
	f.Sprites = []*Sprite{{}, {ResourceBase: exists("spr_kept")}}
	f.Backgrounds = []*Background{{}}
	f.Objects = []*Object{
		{},
		{ResourceBase: exists("obj"), spriteIndex: 0, parentIndex: 0, maskIndex: 1,
			Events: []*Event{
				{Kind: EventCollision, Number: 0},
				{Kind: EventCollision, Number: 1},
				{Kind: EventStep, Actions: []*Action{{appliesToIndex: 0}}},
			}},
	}
	f.Rooms = []*Room{{
		ResourceBase: exists("room"),
		Instances:    []RoomInstance{{objectIndex: 0, ID: 5}, {objectIndex: 1, ID: 3}},
		Tiles:        []RoomTile{{backgroundIndex: 0, ID: 9}},
	}}
	for _, kind := range storedKinds {
		for _, r := range f.Resources(kind) {
			r.Base().file = f
		}
	}
	sprites := f.Tree.Root(KindSprite)
	sprites.Children = []*Node{
		{Status: NodeSecondary, Group: KindSprite, Name: "removed", index: 0},
		{Status: NodeGroup, Group: KindSprite, Name: "folder", Children: []*Node{
			{Status: NodeSecondary, Group: KindSprite, Name: "kept", index: 1},
		}},
	}
	f.finalize()
	f.DefragmentResources()

	obj := f.Objects[0]
	if obj.Name != "obj" || obj.Sprite != nil || obj.Parent != nil || obj.Mask != f.Sprites[0] {
		t.Errorf("object links %v %v %v", obj.Sprite, obj.Parent, obj.Mask)
	}
	if len(obj.Events) != 2 || obj.Events[0].Other != obj || obj.Events[0].Number != 0 {
		t.Errorf("events %+v", obj.Events)
	}
	if a := obj.Events[1].Actions[0]; a.AppliesToObject != nil {
		t.Errorf("action applies to removed object")
	}

	room := f.Rooms[0]
	if room.Instances[0].Object != nil || room.Instances[1].Object != obj || room.Tiles[0].Background != nil {
		t.Errorf("room links not cleared")
	}
	if room.Instances[0].ID != InstanceIDMin || room.Instances[1].ID != InstanceIDMin+1 || room.Tiles[0].ID != TileIDMin {
		t.Errorf("ids %d %d %d", room.Instances[0].ID, room.Instances[1].ID, room.Tiles[0].ID)
	}

	if len(sprites.Children) != 1 || len(sprites.Children[0].Children) != 1 ||
		sprites.Children[0].Children[0].Resource != f.Sprites[0] {
		t.Errorf("tree not pruned")
	}

	if err := f.SaveTo(stream.NewMemory(nil)); err != nil {
		t.Errorf("save after defragment: %v", err)
	}
}
