package gmk

import (
	"log"
	"strconv"
)

func compact[T any, PT resourcePtr[T]](list []PT, removed map[Resource]bool) []PT {
	result := list[:0]
	for _, r := range list {
		if r.Base().Exists {
			result = append(result, r)
		} else {
			removed[r] = true
		}
	}
	for i := len(result); i < len(list); i++ {
		list[i] = nil
	}
	return result
}

// drop returns nil when res was removed
func drop[T any, PT resourcePtr[T]](res PT, removed map[Resource]bool) PT {
	if res != nil && removed[res] {
		return nil
	}
	return res
}

// DefragmentResources removes placeholders from every collection, clears references to them
// and renumbers instance and tile ids in room order
func (f *File) DefragmentResources() {
	removed := make(map[Resource]bool)
	f.Triggers = compact(f.Triggers, removed)
	f.Sounds = compact(f.Sounds, removed)
	f.Sprites = compact(f.Sprites, removed)
	f.Backgrounds = compact(f.Backgrounds, removed)
	f.Paths = compact(f.Paths, removed)
	f.Scripts = compact(f.Scripts, removed)
	f.Fonts = compact(f.Fonts, removed)
	f.Timelines = compact(f.Timelines, removed)
	f.Objects = compact(f.Objects, removed)
	f.Rooms = compact(f.Rooms, removed)
	f.IncludeFiles = compact(f.IncludeFiles, removed)

	f.indices = nil
	f.buildIndices()
	defer func() { f.indices = nil }()

	for _, p := range f.Paths {
		p.Room = drop(p.Room, removed)
	}
	for _, tl := range f.Timelines {
		for _, m := range tl.Moments {
			f.defragActions(m.Actions, removed)
		}
	}
	for _, obj := range f.Objects {
		f.defragObject(obj, removed)
	}

	instanceID := uint32(InstanceIDMin)
	tileID := uint32(TileIDMin)
	for _, r := range f.Rooms {
		for i := range r.Backgrounds {
			r.Backgrounds[i].Background = drop(r.Backgrounds[i].Background, removed)
		}
		for i := range r.Views {
			r.Views[i].Following = drop(r.Views[i].Following, removed)
		}
		for i := range r.Instances {
			inst := &r.Instances[i]
			inst.Object = drop(inst.Object, removed)
			inst.ID = instanceID
			instanceID++
		}
		for i := range r.Tiles {
			t := &r.Tiles[i]
			t.Background = drop(t.Background, removed)
			t.ID = tileID
			tileID++
		}
	}
	f.LastInstancePlacedID = instanceID - 1
	f.LastTilePlacedID = tileID - 1

	if f.Tree != nil {
		for _, root := range f.Tree.Roots {
			root.prune(func(r Resource) bool { return !removed[r] })
		}
	}

	log.Printf("[gmk] Defragment removed %d placeholders, %d instances, %d tiles",
		len(removed), instanceID-InstanceIDMin, tileID-TileIDMin)
}

func (f *File) defragObject(obj *Object, removed map[Resource]bool) {
	obj.Sprite = drop(obj.Sprite, removed)
	obj.Parent = drop(obj.Parent, removed)
	obj.Mask = drop(obj.Mask, removed)

	events := obj.Events[:0]
	for _, ev := range obj.Events {
		if ev.Kind == EventCollision {
			ev.Other = drop(ev.Other, removed)
			if ev.Other == nil {
				continue
			}
			ev.Number = uint32(f.indices[ev.Other])
		}
		f.defragActions(ev.Actions, removed)
		events = append(events, ev)
	}
	obj.Events = events
}

func (f *File) defragActions(actions []*Action, removed map[Resource]bool) {
	for _, a := range actions {
		if a.AppliesTo == AppliesToObject {
			a.AppliesToObject = drop(a.AppliesToObject, removed)
		}
		for i := range a.Arguments {
			arg := &a.Arguments[i]
			if arg.Link == nil {
				continue
			}
			if removed[arg.Link] {
				arg.Link = nil
				arg.Value = "-1"
			} else {
				arg.Value = strconv.Itoa(int(f.indices[arg.Link]))
			}
		}
	}
}
