// Package taxonomy holds the static two-level label hierarchy used for triage.
package taxonomy

import (
	"fmt"
	"strings"
	"sync"
)

const noParent = -1

// Node is one label in the tree. Children and Parent are indices into the arena.
type Node struct {
	Name        string
	Description string
	Children    []int
	Parent      int
}

// Tree is an immutable arena of label nodes keyed by unique name
type Tree struct {
	nodes []Node
	index map[string]int
}

// Info summarizes the size of the hierarchy
type Info struct {
	TotalLabels    int `json:"total_labels" yaml:"total_labels"`
	MainCategories int `json:"main_categories" yaml:"main_categories"`
	Leaves         int `json:"final_sublabels" yaml:"final_sublabels"`
}

// ExportNode is the serializable form of a label and its sublabels
type ExportNode struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Sublabels   []ExportNode `json:"sublabels,omitempty" yaml:"sublabels,omitempty"`
}

var (
	defaultTree *Tree
	defaultOnce sync.Once
)

// Default returns the process-wide label tree
func Default() *Tree {
	defaultOnce.Do(func() {
		defaultTree = build(hierarchy)
	})
	return defaultTree
}

func build(root def) *Tree {
	t := &Tree{index: make(map[string]int)}
	t.add(root, noParent)
	return t
}

func (t *Tree) add(d def, parent int) int {
	if _, dup := t.index[d.name]; dup {
		panic(fmt.Sprintf("duplicate label %q", d.name))
	}
	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{Name: d.name, Description: d.desc, Parent: parent})
	t.index[d.name] = id
	for _, c := range d.children {
		child := t.add(c, id)
		t.nodes[id].Children = append(t.nodes[id].Children, child)
	}
	return id
}

func (t *Tree) lookup(name string) (int, bool) {
	id, ok := t.index[name]
	return id, ok
}

// AllLabels returns every label name in pre-order, root first
func (t *Tree) AllLabels() []string {
	names := make([]string, len(t.nodes))
	for i, n := range t.nodes {
		names[i] = n.Name
	}
	return names
}

// Path returns the names from the root down to the label, or nil if unknown
func (t *Tree) Path(name string) []string {
	id, ok := t.lookup(name)
	if !ok {
		return nil
	}
	var rev []string
	for ; id != noParent; id = t.nodes[id].Parent {
		rev = append(rev, t.nodes[id].Name)
	}
	path := make([]string, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

// Children returns the direct sublabels of a label
func (t *Tree) Children(name string) []string {
	id, ok := t.lookup(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.nodes[id].Children))
	for _, c := range t.nodes[id].Children {
		out = append(out, t.nodes[c].Name)
	}
	return out
}

// Parent returns the parent label name
func (t *Tree) Parent(name string) (string, bool) {
	id, ok := t.lookup(name)
	if !ok || t.nodes[id].Parent == noParent {
		return "", false
	}
	return t.nodes[t.nodes[id].Parent].Name, true
}

// Description returns the description of a label
func (t *Tree) Description(name string) string {
	id, ok := t.lookup(name)
	if !ok {
		return ""
	}
	return t.nodes[id].Description
}

// IsValid reports whether the label exists
func (t *Tree) IsValid(name string) bool {
	_, ok := t.lookup(name)
	return ok
}

// IsLeaf reports whether the label exists and has no children
func (t *Tree) IsLeaf(name string) bool {
	id, ok := t.lookup(name)
	return ok && id != 0 && len(t.nodes[id].Children) == 0
}

// MainCategories returns the children of the root
func (t *Tree) MainCategories() []string {
	return t.Children(Root)
}

// Leaves returns every terminal label, root excluded
func (t *Tree) Leaves() []string {
	var out []string
	for i, n := range t.nodes {
		if i != 0 && len(n.Children) == 0 {
			out = append(out, n.Name)
		}
	}
	return out
}

// Validate checks a category/subcategory pair. The category must lie on the
// subcategory's path; an empty subcategory only requires a known category.
func (t *Tree) Validate(category, subcategory string) bool {
	if !t.IsValid(category) {
		return false
	}
	if subcategory == "" {
		return true
	}
	for _, name := range t.Path(subcategory) {
		if name == category {
			return true
		}
	}
	return false
}

// TopLevel returns the main category that contains the label
func (t *Tree) TopLevel(name string) (string, bool) {
	id, ok := t.lookup(name)
	if !ok || id == 0 {
		return "", false
	}
	for t.nodes[id].Parent != 0 {
		id = t.nodes[id].Parent
	}
	return t.nodes[id].Name, true
}

// Search finds labels whose name or description contains the term
func (t *Tree) Search(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []string
	for _, n := range t.nodes {
		if strings.Contains(strings.ToLower(n.Name), term) ||
			strings.Contains(strings.ToLower(n.Description), term) {
			out = append(out, n.Name)
		}
	}
	return out
}

// Info returns basic hierarchy statistics
func (t *Tree) Info() Info {
	return Info{
		TotalLabels:    len(t.nodes),
		MainCategories: len(t.MainCategories()),
		Leaves:         len(t.Leaves()),
	}
}

// Export returns the hierarchy as a nested structure
func (t *Tree) Export() ExportNode {
	return t.export(0)
}

func (t *Tree) export(id int) ExportNode {
	n := t.nodes[id]
	out := ExportNode{Name: n.Name, Description: n.Description}
	for _, c := range n.Children {
		out.Sublabels = append(out.Sublabels, t.export(c))
	}
	return out
}
