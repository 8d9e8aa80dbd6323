package gmk

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yaml manifest of project, references are written as names with index comment

type yamlRef struct {
	f   *File
	res Resource
}

func (r yamlRef) MarshalYAML() (interface{}, error) {
	if r.res == nil {
		return nil, nil
	}
	comment := r.res.Kind().String()
	if index, err := r.f.indexOf(r.res); err == nil {
		comment = fmt.Sprintf("%v %d", r.res.Kind(), index)
	}
	return &yaml.Node{
		Kind:        yaml.ScalarNode,
		Value:       r.res.Base().Name,
		LineComment: comment,
	}, nil
}

type yamlAction struct {
	Library   uint32    `yaml:"library"`
	Action    uint32    `yaml:"action"`
	Function  string    `yaml:"function,omitempty"`
	Code      string    `yaml:"code,omitempty"`
	AppliesTo string    `yaml:"applies_to"`
	Object    *yamlRef  `yaml:"object,omitempty"`
	Relative  bool      `yaml:"relative,omitempty"`
	Not       bool      `yaml:"not,omitempty"`
	Arguments []string  `yaml:"arguments,omitempty"`
	Links     []yamlRef `yaml:"links,omitempty"`
}

type yamlEvent struct {
	Kind    string       `yaml:"kind"`
	Number  uint32       `yaml:"number"`
	Other   *yamlRef     `yaml:"other,omitempty"`
	Actions []yamlAction `yaml:"actions,omitempty"`
}

type yamlMoment struct {
	Position uint32       `yaml:"position"`
	Actions  []yamlAction `yaml:"actions,omitempty"`
}

type yamlResource struct {
	Kind    string       `yaml:"kind"`
	Name    string       `yaml:"name"`
	Exists  bool         `yaml:"exists"`
	Changed string       `yaml:"changed,omitempty"`
	Refs    *yaml.Node   `yaml:"refs,omitempty"`
	Events  []yamlEvent  `yaml:"events,omitempty"`
	Moments []yamlMoment `yaml:"moments,omitempty"`
	Room    *yamlRoom    `yaml:"room,omitempty"`
}

type yamlInstance struct {
	ID     uint32  `yaml:"id"`
	X      int32   `yaml:"x"`
	Y      int32   `yaml:"y"`
	Object yamlRef `yaml:"object"`
}

type yamlTile struct {
	ID         uint32  `yaml:"id"`
	X          int32   `yaml:"x"`
	Y          int32   `yaml:"y"`
	Background yamlRef `yaml:"background"`
}

type yamlRoom struct {
	Caption   string         `yaml:"caption"`
	Width     uint32         `yaml:"width"`
	Height    uint32         `yaml:"height"`
	Instances []yamlInstance `yaml:"instances,omitempty"`
	Tiles     []yamlTile     `yaml:"tiles,omitempty"`
}

type yamlTreeNode struct {
	Name     yaml.Node       `yaml:"name"`
	Resource *yamlRef        `yaml:"resource,omitempty"`
	Children []*yamlTreeNode `yaml:"children,omitempty"`
}

type yamlProject struct {
	Version      string            `yaml:"version"`
	GameID       uint32            `yaml:"game_id"`
	GUID         string            `yaml:"guid"`
	LastInstance uint32            `yaml:"last_instance_id"`
	LastTile     uint32            `yaml:"last_tile_id"`
	Constants    map[string]string `yaml:"constants,omitempty"`
	Packages     []string          `yaml:"packages,omitempty"`
	Resources    []yamlResource    `yaml:"resources"`
	Tree         []*yamlTreeNode   `yaml:"tree"`
}

func (f *File) yamlActions(actions []*Action) []yamlAction {
	result := make([]yamlAction, len(actions))
	for i, a := range actions {
		ya := yamlAction{
			Library:  a.LibraryID,
			Action:   a.ActionID,
			Function: a.FunctionName,
			Code:     a.FunctionCode,
			Relative: a.Relative,
			Not:      a.Not,
		}
		switch a.AppliesTo {
		case AppliesToOther:
			ya.AppliesTo = "other"
		case AppliesToObject:
			ya.AppliesTo = "object"
			ya.Object = &yamlRef{f, nil}
			if a.AppliesToObject != nil {
				ya.Object.res = a.AppliesToObject
			}
		default:
			ya.AppliesTo = "self"
		}
		for j := 0; j < int(a.ArgumentsUsed) && j < MaxArguments; j++ {
			arg := &a.Arguments[j]
			ya.Arguments = append(ya.Arguments, arg.Value)
			if arg.Link != nil {
				ya.Links = append(ya.Links, yamlRef{f, arg.Link})
			}
		}
		result[i] = ya
	}
	return result
}

func refsNode(pairs ...interface{}) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		var value yaml.Node
		if err := value.Encode(pairs[i+1]); err != nil {
			continue
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: pairs[i].(string)}, &value)
	}
	return node
}

func (f *File) yamlResource(r Resource) yamlResource {
	base := r.Base()
	yr := yamlResource{
		Kind:   r.Kind().String(),
		Name:   base.Name,
		Exists: base.Exists,
	}
	if !base.Exists {
		return yr
	}
	if !base.LastChanged.IsZero() {
		yr.Changed = base.LastChanged.Format("2006-01-02 15:04:05")
	}

	switch res := r.(type) {
	case *Path:
		var room Resource
		if res.Room != nil {
			room = res.Room
		}
		yr.Refs = refsNode("room", yamlRef{f, room})
	case *Timeline:
		for _, m := range res.Moments {
			yr.Moments = append(yr.Moments, yamlMoment{Position: m.Position, Actions: f.yamlActions(m.Actions)})
		}
	case *Object:
		var sprite, parent, mask Resource
		if res.Sprite != nil {
			sprite = res.Sprite
		}
		if res.Parent != nil {
			parent = res.Parent
		}
		if res.Mask != nil {
			mask = res.Mask
		}
		yr.Refs = refsNode("sprite", yamlRef{f, sprite}, "parent", yamlRef{f, parent}, "mask", yamlRef{f, mask})
		for _, ev := range res.Events {
			ye := yamlEvent{Kind: ev.Kind.String(), Number: ev.Number, Actions: f.yamlActions(ev.Actions)}
			if ev.Other != nil {
				ye.Other = &yamlRef{f, ev.Other}
			}
			yr.Events = append(yr.Events, ye)
		}
	case *Room:
		room := &yamlRoom{Caption: res.Caption, Width: res.Width, Height: res.Height}
		for _, inst := range res.Instances {
			yi := yamlInstance{ID: inst.ID, X: inst.X, Y: inst.Y, Object: yamlRef{f: f}}
			if inst.Object != nil {
				yi.Object.res = inst.Object
			}
			room.Instances = append(room.Instances, yi)
		}
		for _, t := range res.Tiles {
			yt := yamlTile{ID: t.ID, X: t.X, Y: t.Y, Background: yamlRef{f: f}}
			if t.Background != nil {
				yt.Background.res = t.Background
			}
			room.Tiles = append(room.Tiles, yt)
		}
		yr.Room = room
	}
	return yr
}

func (f *File) yamlTree(n *Node) *yamlTreeNode {
	yn := &yamlTreeNode{
		Name: yaml.Node{Kind: yaml.ScalarNode, Value: n.Name, LineComment: n.Group.String()},
	}
	if n.Resource != nil {
		yn.Resource = &yamlRef{f, n.Resource}
	}
	for _, c := range n.Children {
		yn.Children = append(yn.Children, f.yamlTree(c))
	}
	return yn
}

// ExportYAML writes readable manifest of resolved project graph
func (f *File) ExportYAML(w io.Writer) error {
	f.buildIndices()
	defer func() { f.indices = nil }()

	p := yamlProject{
		Version:      f.Version.String(),
		GameID:       f.GameID,
		GUID:         f.GUID.String(),
		LastInstance: f.LastInstancePlacedID,
		LastTile:     f.LastTilePlacedID,
		Packages:     f.Packages,
	}
	if len(f.Constants) != 0 {
		p.Constants = make(map[string]string, len(f.Constants))
		for _, c := range f.Constants {
			p.Constants[c.Name] = c.Value
		}
	}
	for _, kind := range storedKinds {
		for _, r := range f.Resources(kind) {
			p.Resources = append(p.Resources, f.yamlResource(r))
		}
	}
	if f.Tree != nil {
		for _, root := range f.Tree.Roots {
			p.Tree = append(p.Tree, f.yamlTree(root))
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&p); err != nil {
		return errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return nil
}
