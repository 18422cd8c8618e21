/*
Package selector implements compiled CSS-like selectors for styled node
trees: parsing, specificity scoring, and two-phase matching (a cheap
broadphase filter over element/id/class, then the full combinator walk).

Selectors match against any tree exposing the small NodeView interface, so
the package carries no dependency on a concrete styled-tree implementation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package selector

import (
	"math/bits"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexdom.selector'.
func tracer() tracing.Trace {
	return tracing.Select("flexdom.selector")
}

// Pseudo is a bitset of pseudo-class flags (and the two pseudo-element
// flags) a node may carry and a selector may require.
type Pseudo uint32

const (
	PseudoHover Pseudo = 1 << iota
	PseudoActive
	PseudoFocus
	PseudoFocusWithin
	PseudoDisabled
	PseudoEnabled
	PseudoChecked
	PseudoVisited
	PseudoFirstChild
	PseudoLastChild
	PseudoEmpty
	PseudoBefore // pseudo-element ::before
	PseudoAfter  // pseudo-element ::after
)

var pseudoNames = map[string]Pseudo{
	"hover":        PseudoHover,
	"active":       PseudoActive,
	"focus":        PseudoFocus,
	"focus-within": PseudoFocusWithin,
	"disabled":     PseudoDisabled,
	"enabled":      PseudoEnabled,
	"checked":      PseudoChecked,
	"visited":      PseudoVisited,
	"first-child":  PseudoFirstChild,
	"last-child":   PseudoLastChild,
	"empty":        PseudoEmpty,
	"before":       PseudoBefore,
	"after":        PseudoAfter,
}

func (p Pseudo) String() string {
	var names []string
	for name, flag := range pseudoNames {
		if p&flag > 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// Combinator is the relational operator linking a selector part to its
// parent part.
type Combinator uint8

//go:generate stringer -type=Combinator
const (
	NoCombinator    Combinator = iota
	Descendant                 // whitespace
	Child                      // '>'
	AdjacentSibling            // '+'
	GeneralSibling             // '~'
)

// NodeView is the read-only view of a tree node a selector matches
// against. Implementations must return untyped nil from Parent for the
// root of a tree.
type NodeView interface {
	Element() string          // element/tag name, lower case
	ID() string               // id attribute or ""
	HasClass(string) bool     // class membership
	PseudoState() Pseudo      // currently active pseudo flags
	Parent() NodeView         // parent view or nil
	Children() []NodeView     // child views in tree order
	ChildIndex() int          // position within parent, -1 for the root
}

// Selector is a compiled selector part. A selector chain "a > b.x" is
// represented by the subject part (for "b.x") holding a parent link to the
// part for "a", tagged with the combinator kind. Selectors own their
// sub-selectors; there are no back-references.
type Selector struct {
	Source   string     // the selector text this part chain was compiled from
	Element  string     // required element name; "" matches any
	ID       string     // required id; "" matches any
	Classes  []string   // required classes
	Pseudo   Pseudo     // required pseudo flags
	NthChild int        // 1-based required child position
	HasNth   bool       // wether NthChild is required
	Parent   *Selector  // ancestor/sibling part, tagged by Rel
	Rel      Combinator // relation of this part to Parent
	Not      []*Selector
	Has      []*Selector
	AnyOf    []*Selector // alternatives; the part matches if any matches

	specificity int64 // computed once at compile time
}

func (sel *Selector) String() string {
	if sel == nil {
		return "<nil selector>"
	}
	return sel.Source
}

// Specificity returns the numeric weight of this selector, used to rank
// competing rules during cascading. The score is a pure function of the
// compiled selector, computed once at compile time and cached.
func (sel *Selector) Specificity() int64 {
	return sel.specificity
}

func (sel *Selector) computeSpecificity() int64 {
	if sel == nil {
		return 0
	}
	var s int64
	if sel.ID != "" {
		s += 1000
	}
	if sel.Element != "" {
		s++
	}
	s += 10 * int64(len(sel.Classes))
	s += 10 * int64(bits.OnesCount32(uint32(sel.Pseudo)))
	if sel.HasNth {
		s += 10
	}
	s += maxSpecificity(sel.Not)
	s += maxSpecificity(sel.AnyOf)
	s += maxSpecificity(sel.Has)
	s += sel.Parent.computeSpecificity()
	return s
}

func maxSpecificity(list []*Selector) int64 {
	var max int64
	for _, sub := range list {
		if s := sub.computeSpecificity(); s > max {
			max = s
		}
	}
	return max
}
