/*
Package layout synchronizes resolved styles with the external flexbox
engine and reads computed geometry back into the styled tree.

The bridge is a two-phase protocol per pass: PushToEngine translates a
node's resolved property bag into engine setter calls, Calculate runs
the engine's solver exactly once for the whole tree, and PullFromEngine
walks the tree again, converting the engine's relative positions into
absolute Box rectangles. Both walks are depth-first pre-order and rely
on the styled tree's invariant that tree child order and engine child
order are identical.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package layout

import (
	"github.com/kjk/flex"
	"github.com/npillmayer/flexdom/style"
	"github.com/npillmayer/flexdom/styledtree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexdom.layout'.
func tracer() tracing.Trace {
	return tracing.Select("flexdom.layout")
}

// Layouter drives layout passes over a styled tree. It is not safe for
// concurrent use; the engine's node graph is not presumed thread-safe,
// so all pushes and the Calculate call run on one goroutine.
type Layouter struct {
	busy bool // a pass is in flight
}

// NewLayouter creates a layouter.
func NewLayouter() *Layouter {
	return &Layouter{}
}

// Layout runs one full pass: push all layout-dirty nodes pre-order,
// calculate once at the root with the given viewport size, then pull
// geometry pre-order. Style resolution must have happened before.
//
// Layout panics when re-entered while a pass is in flight; this is a
// synchronization invariant violation, not recoverable input.
func (l *Layouter) Layout(root *styledtree.StyNode, width float32, height float32) {
	if root == nil {
		return
	}
	if l.busy {
		panic("layout: pass re-entered while in flight")
	}
	l.busy = true
	defer func() { l.busy = false }()
	pushTree(root)
	flex.CalculateLayout(root.Handle(), width, height, flex.DirectionLTR)
	PullFromEngine(root, 0, 0)
}

// Calculate invokes the engine's solver once for the whole tree. Part
// of a Layout pass; exposed for callers driving push and pull manually.
// Calculate panics when invoked while a pass is in flight.
func (l *Layouter) Calculate(root *styledtree.StyNode, width float32, height float32) {
	if l.busy {
		panic("layout: Calculate while a pass is in flight")
	}
	l.busy = true
	defer func() { l.busy = false }()
	flex.CalculateLayout(root.Handle(), width, height, flex.DirectionLTR)
}

func pushTree(sn *styledtree.StyNode) {
	if sn.LayoutDirty() {
		PushToEngine(sn)
	}
	for i := 0; i < sn.ChildCount(); i++ {
		pushTree(sn.ChildNode(i))
	}
}

// PushToEngine maps a node's resolved property bag onto the paired
// engine node's settable properties. It is a pure mapping without side
// effects on the styled tree. Nodes with display:none are still mapped;
// the engine collapses the subtree itself. A node not yet resolved by
// the cascade is skipped.
func PushToEngine(sn *styledtree.StyNode) {
	bag := sn.Styles()
	if bag == nil {
		tracer().Debugf("push for unresolved node %q skipped", sn.Element())
		return
	}
	h := sn.Handle()
	if h == nil {
		return
	}
	if bag.Keyword("display") == "none" {
		h.StyleSetDisplay(flex.DisplayNone)
	} else {
		h.StyleSetDisplay(flex.DisplayFlex)
	}
	h.StyleSetFlexDirection(flexDirection(bag.Keyword("flex-direction")))
	h.StyleSetFlexWrap(flexWrap(bag.Keyword("flex-wrap")))
	h.StyleSetJustifyContent(justify(bag.Keyword("justify-content")))
	h.StyleSetAlignItems(align(bag.Keyword("align-items"), flex.AlignStretch))
	h.StyleSetAlignSelf(align(bag.Keyword("align-self"), flex.AlignAuto))
	h.StyleSetAlignContent(align(bag.Keyword("align-content"), flex.AlignStretch))
	h.StyleSetFlexGrow(bag.Number("flex-grow", 0))
	h.StyleSetFlexShrink(bag.Number("flex-shrink", 0))
	if basis := bag.Dimension("flex-basis"); basis.IsPercent() {
		h.StyleSetFlexBasisPercent(basis.Percent())
	} else if basis.IsAbsolute() {
		h.StyleSetFlexBasis(basis.Px())
	}
	pushDimension(bag.Dimension("width"),
		h.StyleSetWidth, h.StyleSetWidthPercent, h.StyleSetWidthAuto)
	pushDimension(bag.Dimension("height"),
		h.StyleSetHeight, h.StyleSetHeightPercent, h.StyleSetHeightAuto)
	pushMinMax(bag.Dimension("min-width"), h.StyleSetMinWidth, h.StyleSetMinWidthPercent)
	pushMinMax(bag.Dimension("min-height"), h.StyleSetMinHeight, h.StyleSetMinHeightPercent)
	pushMinMax(bag.Dimension("max-width"), h.StyleSetMaxWidth, h.StyleSetMaxWidthPercent)
	pushMinMax(bag.Dimension("max-height"), h.StyleSetMaxHeight, h.StyleSetMaxHeightPercent)
	pushPosition(h, bag)
	pushEdges(bag, "margin-", func(edge flex.Edge, d style.DimenT) {
		switch {
		case d.IsAuto():
			h.StyleSetMarginAuto(edge)
		case d.IsPercent():
			h.StyleSetMarginPercent(edge, d.Percent())
		case d.IsAbsolute() && d.Px() != 0:
			h.StyleSetMargin(edge, d.Px())
		}
	})
	pushEdges(bag, "padding-", func(edge flex.Edge, d style.DimenT) {
		switch {
		case d.IsPercent():
			h.StyleSetPaddingPercent(edge, d.Percent())
		case d.IsAbsolute() && d.Px() != 0:
			h.StyleSetPadding(edge, d.Px())
		}
	})
	pushBorders(h, bag)
	h.StyleSetOverflow(overflow(bag.Keyword("overflow")))
}

func pushDimension(d style.DimenT, set func(float32), setPercent func(float32), setAuto func()) {
	switch {
	case d.IsPercent():
		setPercent(d.Percent())
	case d.IsAbsolute():
		set(d.Px())
	default:
		setAuto()
	}
}

func pushMinMax(d style.DimenT, set func(float32), setPercent func(float32)) {
	// min/max have no auto; unset stays at the engine default (undefined)
	switch {
	case d.IsPercent():
		setPercent(d.Percent())
	case d.IsAbsolute():
		set(d.Px())
	}
}

var edgeNames = [4]string{"top", "right", "bottom", "left"}
var edges = [4]flex.Edge{flex.EdgeTop, flex.EdgeRight, flex.EdgeBottom, flex.EdgeLeft}

func pushEdges(bag *style.PropertyBag, prefix string, push func(flex.Edge, style.DimenT)) {
	for i, name := range edgeNames {
		push(edges[i], bag.Dimension(prefix+name))
	}
}

func pushPosition(h *flex.Node, bag *style.PropertyBag) {
	switch bag.Keyword("position") {
	case "absolute", "fixed":
		h.StyleSetPositionType(flex.PositionTypeAbsolute)
	default:
		h.StyleSetPositionType(flex.PositionTypeRelative)
	}
	for i, name := range edgeNames {
		d := bag.Dimension(name)
		switch {
		case d.IsPercent():
			h.StyleSetPositionPercent(edges[i], d.Percent())
		case d.IsAbsolute():
			h.StyleSetPosition(edges[i], d.Px())
		}
	}
}

func pushBorders(h *flex.Node, bag *style.PropertyBag) {
	for i, name := range edgeNames {
		// a border only takes space when its style is not none
		if s := bag.Keyword("border-" + name + "-style"); s == "" || s == "none" {
			continue
		}
		if d := bag.Dimension("border-" + name + "-width"); d.IsAbsolute() {
			h.StyleSetBorder(edges[i], d.Px())
		}
	}
}

func flexDirection(keyword string) flex.FlexDirection {
	switch keyword {
	case "row":
		return flex.FlexDirectionRow
	case "row-reverse":
		return flex.FlexDirectionRowReverse
	case "column-reverse":
		return flex.FlexDirectionColumnReverse
	}
	return flex.FlexDirectionColumn
}

func flexWrap(keyword string) flex.Wrap {
	switch keyword {
	case "wrap":
		return flex.WrapWrap
	case "wrap-reverse":
		return flex.WrapWrapReverse
	}
	return flex.WrapNoWrap
}

func justify(keyword string) flex.Justify {
	switch keyword {
	case "flex-end", "end":
		return flex.JustifyFlexEnd
	case "center":
		return flex.JustifyCenter
	case "space-between":
		return flex.JustifySpaceBetween
	case "space-around", "space-evenly":
		// the engine predates space-evenly; space-around is the nearest fit
		return flex.JustifySpaceAround
	}
	return flex.JustifyFlexStart
}

func align(keyword string, fallback flex.Align) flex.Align {
	switch keyword {
	case "auto":
		return flex.AlignAuto
	case "flex-start":
		return flex.AlignFlexStart
	case "flex-end":
		return flex.AlignFlexEnd
	case "center":
		return flex.AlignCenter
	case "baseline":
		return flex.AlignBaseline
	case "stretch":
		return flex.AlignStretch
	case "space-between":
		return flex.AlignSpaceBetween
	case "space-around":
		return flex.AlignSpaceAround
	}
	return fallback
}

func overflow(keyword string) flex.Overflow {
	switch keyword {
	case "hidden":
		return flex.OverflowHidden
	case "scroll", "auto":
		return flex.OverflowScroll
	}
	return flex.OverflowVisible
}

// PullFromEngine reads a node's computed geometry from the engine,
// converts it into an absolute Box using the parent's origin, and
// recurses into the children. Child traversal follows tree child order,
// which the styled tree keeps identical to the engine's child order.
// Pulling clears the node's layout-dirty flag.
func PullFromEngine(sn *styledtree.StyNode, parentOffsetX float32, parentOffsetY float32) {
	h := sn.Handle()
	if h == nil {
		return
	}
	box := styledtree.Box{
		X:      parentOffsetX + h.LayoutGetLeft(),
		Y:      parentOffsetY + h.LayoutGetTop(),
		Width:  h.LayoutGetWidth(),
		Height: h.LayoutGetHeight(),
		Padding: [4]float32{
			h.LayoutGetPadding(flex.EdgeTop),
			h.LayoutGetPadding(flex.EdgeRight),
			h.LayoutGetPadding(flex.EdgeBottom),
			h.LayoutGetPadding(flex.EdgeLeft),
		},
	}
	sn.SetBox(box)
	sn.ClearLayoutDirty()
	for i := 0; i < sn.ChildCount(); i++ {
		PullFromEngine(sn.ChildNode(i), box.X, box.Y)
	}
}

// ScrollExtent returns how far a node's content overflows its box, per
// axis. It is zero unless the node's overflow mode allows scrolling.
func ScrollExtent(sn *styledtree.StyNode) (x float32, y float32) {
	bag := sn.Styles()
	if bag == nil {
		return 0, 0
	}
	switch bag.Keyword("overflow") {
	case "scroll", "auto":
	default:
		return 0, 0
	}
	box := sn.Box()
	var maxRight, maxBottom float32
	for i := 0; i < sn.ChildCount(); i++ {
		cb := sn.ChildNode(i).Box()
		if r := cb.Right() - box.X; r > maxRight {
			maxRight = r
		}
		if b := cb.Bottom() - box.Y; b > maxBottom {
			maxBottom = b
		}
	}
	if maxRight > box.Width {
		x = maxRight - box.Width
	}
	if maxBottom > box.Height {
		y = maxBottom - box.Height
	}
	return x, y
}
