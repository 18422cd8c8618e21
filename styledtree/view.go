package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/flexdom/style/selector"
)

// View returns the node's read-only view for selector matching. The
// structural pseudo classes (:first-child, :last-child, :empty) are
// derived from tree position on the fly; only interaction state
// (:hover, :focus, …) lives in the node's pseudo bitset.
func (sn *StyNode) View() selector.NodeView {
	if sn == nil {
		return nil
	}
	return nodeView{sn}
}

type nodeView struct {
	sn *StyNode
}

var _ selector.NodeView = nodeView{}

func (v nodeView) Element() string {
	return v.sn.element
}

func (v nodeView) ID() string {
	return v.sn.id
}

func (v nodeView) HasClass(class string) bool {
	return v.sn.HasClass(class)
}

func (v nodeView) PseudoState() selector.Pseudo {
	p := v.sn.pseudo
	idx := v.sn.Node.ChildIndex()
	if idx == 0 {
		p |= selector.PseudoFirstChild
	}
	if parent := v.sn.ParentNode(); parent != nil && idx == parent.ChildCount()-1 {
		p |= selector.PseudoLastChild
	}
	if v.sn.ChildCount() == 0 {
		p |= selector.PseudoEmpty
	}
	return p
}

func (v nodeView) Parent() selector.NodeView {
	parent := v.sn.ParentNode()
	if parent == nil {
		return nil
	}
	return nodeView{parent}
}

func (v nodeView) Children() []selector.NodeView {
	children := v.sn.Node.Children()
	views := make([]selector.NodeView, len(children))
	for i, ch := range children {
		views[i] = nodeView{Node(ch)}
	}
	return views
}

func (v nodeView) ChildIndex() int {
	return v.sn.Node.ChildIndex()
}
