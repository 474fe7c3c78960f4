package domain

import "fmt"

// Role values used by project files to tag timeline nodes.
const (
	RoleFolder = "folder"
	RoleClip   = "clip"
)

// Node is a timeline entry. It is implemented by *Folder and *Clip only;
// consumers must handle both variants explicitly.
type Node interface {
	// Role returns the project-file tag of the variant.
	Role() string
	// Offset returns the start frame relative to the parent.
	Offset() int

	node()
}

// Track is an ordered sequence of nodes. Order is significant.
type Track []Node

// Folder nests tracks under a cumulative time offset.
type Folder struct {
	Start  int
	Tracks []Track
}

// Clip maps a half-open frame range to a source asset.
type Clip struct {
	Start  int
	Length int
	// Source is the asset path relative to the asset folder.
	// It is only meaningful when HasSource is true.
	Source    string
	HasSource bool
}

func (f *Folder) Role() string { return RoleFolder }
func (f *Folder) Offset() int  { return f.Start }
func (f *Folder) node()        {}

func (c *Clip) Role() string { return RoleClip }
func (c *Clip) Offset() int  { return c.Start }
func (c *Clip) node()        {}

// NewClip builds a clip with a source asset.
func NewClip(start, length int, source string) *Clip {
	return &Clip{Start: start, Length: length, Source: source, HasSource: source != ""}
}

// NewFolder builds a folder from its tracks.
func NewFolder(start int, tracks ...Track) *Folder {
	return &Folder{Start: start, Tracks: tracks}
}

// Project is a loaded timeline. It is immutable after loading and shared
// read-only by every session.
type Project struct {
	Name string
	Root Node
}

// Walk visits every node depth-first in declaration order.
// It stops at the first error returned by fn.
func Walk(n Node, fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	switch v := n.(type) {
	case *Folder:
		for _, track := range v.Tracks {
			for _, child := range track {
				if err := Walk(child, fn); err != nil {
					return err
				}
			}
		}
		return nil
	case *Clip:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownNode, n)
	}
}

// Validate checks the structural invariants of a timeline.
func Validate(root Node) error {
	if root == nil {
		return fmt.Errorf("%w: empty timeline", ErrProjectLoad)
	}
	return Walk(root, func(n Node) error {
		if c, ok := n.(*Clip); ok && c.Length < 0 {
			return fmt.Errorf("%w: clip at start %d has negative length %d", ErrProjectLoad, c.Start, c.Length)
		}
		return nil
	})
}

// CountClips returns the number of clips reachable from n.
func CountClips(n Node) int {
	count := 0
	_ = Walk(n, func(n Node) error {
		if _, ok := n.(*Clip); ok {
			count++
		}
		return nil
	})
	return count
}
