package gmk

import (
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/stream"
)

type NodeStatus uint32

const (
	NodePrimary   NodeStatus = 1
	NodeGroup     NodeStatus = 2
	NodeSecondary NodeStatus = 3
)

// Node is resource tree entry. Secondary nodes point to resource, others hold only children.
type Node struct {
	Status   NodeStatus
	Group    ResourceKind
	Name     string
	Children []*Node
	Resource Resource `json:"-" yaml:"-"`
	index    int32
}

type Tree struct {
	Roots []*Node
}

type treeRoot struct {
	group ResourceKind
	name  string
}

var treeRoots = [...]treeRoot{
	{KindSprite, "Sprites"},
	{KindSound, "Sounds"},
	{KindBackground, "Backgrounds"},
	{KindPath, "Paths"},
	{KindScript, "Scripts"},
	{KindFont, "Fonts"},
	{KindTimeline, "Time Lines"},
	{KindObject, "Objects"},
	{KindRoom, "Rooms"},
	{KindGameInformation, "Game Information"},
	{KindGameSettings, "Global Game Settings"},
	{KindExtensionPackages, "Extension Packages"},
}

const TreeRootCount = len(treeRoots)

// NewTree creates tree with empty canonical roots
func NewTree() *Tree {
	t := &Tree{Roots: make([]*Node, TreeRootCount)}
	for i, r := range treeRoots {
		t.Roots[i] = &Node{Status: NodePrimary, Group: r.group, Name: r.name}
	}
	return t
}

// Root returns top level node of group
func (t *Tree) Root(group ResourceKind) *Node {
	for _, n := range t.Roots {
		if n.Group == group {
			return n
		}
	}
	return nil
}

// Walk calls cb for every node in depth first order, stops on false
func (t *Tree) Walk(cb func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int) bool
	walk = func(n *Node, depth int) bool {
		if !cb(n, depth) {
			return false
		}
		for _, c := range n.Children {
			if !walk(c, depth+1) {
				return false
			}
		}
		return true
	}
	for _, r := range t.Roots {
		if !walk(r, 0) {
			return
		}
	}
}

// node without children takes 20 bytes with empty name
const nodeMinSize = 20

func readNode(s stream.Stream) (*Node, error) {
	n := &Node{
		Status: NodeStatus(s.ReadDword()),
		Group:  ResourceKind(s.ReadDword()),
		index:  s.ReadInt(),
		Name:   s.ReadString(),
	}
	count := s.ReadCount(nodeMinSize)
	if err := s.Err(); err != nil {
		return nil, err
	}
	if count != 0 {
		n.Children = make([]*Node, count)
	}
	for i := range n.Children {
		child, err := readNode(s)
		if err != nil {
			return nil, errors.Wrapf(err, "%q child %d", n.Name, i)
		}
		n.Children[i] = child
	}
	return n, nil
}

// ReadRecursiveTree reads all canonical roots with their subtrees
func ReadRecursiveTree(s stream.Stream) (*Tree, error) {
	t := &Tree{Roots: make([]*Node, TreeRootCount)}
	for i := range t.Roots {
		root, err := readNode(s)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read tree root %d", i)
		}
		t.Roots[i] = root
	}
	return t, nil
}

func writeNode(f *File, s stream.Stream, n *Node) error {
	var index int32
	if n.Status == NodeSecondary {
		if n.Resource == nil {
			return errors.Wrapf(ErrMissingReference, "tree leaf %q has no resource", n.Name)
		}
		i, err := f.indexOf(n.Resource)
		if err != nil {
			return errors.Wrapf(err, "tree leaf %q", n.Name)
		}
		index = i
	}
	s.WriteDword(uint32(n.Status))
	s.WriteDword(uint32(n.Group))
	s.WriteInt(index)
	s.WriteString(n.Name)
	s.WriteDword(uint32(len(n.Children)))
	for _, c := range n.Children {
		if err := writeNode(f, s, c); err != nil {
			return err
		}
	}
	return s.Err()
}

// WriteRecursiveTree writes tree with leaf indices taken from current collections
func WriteRecursiveTree(f *File, s stream.Stream, t *Tree) error {
	if len(t.Roots) != TreeRootCount {
		return errors.Errorf("tree has %d roots, want %d", len(t.Roots), TreeRootCount)
	}
	for _, r := range t.Roots {
		if err := writeNode(f, s, r); err != nil {
			return err
		}
	}
	return s.Err()
}

// finalize resolves leaf indices to resources
func (t *Tree) finalize(f *File) {
	t.Walk(func(n *Node, _ int) bool {
		n.Resource = nil
		if n.Status == NodeSecondary {
			n.Resource = f.GetResource(n.Group, n.index)
		}
		return true
	})
}

// prune drops leaves whose resource is not accepted by keep
func (n *Node) prune(keep func(r Resource) bool) {
	children := n.Children[:0]
	for _, c := range n.Children {
		if c.Status == NodeSecondary && (c.Resource == nil || !keep(c.Resource)) {
			continue
		}
		c.prune(keep)
		children = append(children, c)
	}
	for i := len(children); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	if len(children) == 0 {
		children = nil
	}
	n.Children = children
}
