/*
Package styledtree implements the styled node tree: a tree of widget
nodes carrying style-relevant state (element name, classes, id,
pseudo-state flags, inline declarations), a cached computed property
bag, and a paired layout-engine handle.

Mutators only flip dirty flags; recomputation is lazy and performed by
the next layout pass. Each node exclusively owns one flex-engine node,
created at construction and released exactly once by Dispose. Child
add/remove operations mirror themselves onto the engine's node graph in
the same operation, keeping both child orderings identical at all
times.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package styledtree

import (
	"strings"
	"sync/atomic"

	"github.com/kjk/flex"
	"github.com/npillmayer/flexdom/style"
	"github.com/npillmayer/flexdom/style/selector"
	"github.com/npillmayer/flexdom/tree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexdom.styledtree'.
func tracer() tracing.Trace {
	return tracing.Select("flexdom.styledtree")
}

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree

	element string
	id      string
	classes []string
	pseudo  selector.Pseudo
	inline  string

	computed   *style.PropertyBag // cached result of the last cascade
	styleDirty bool
	// layoutDirty is accessed atomically: marking propagates to the root,
	// and parallel subtree resolution may mark shared ancestors.
	layoutDirty int32

	// rule-applicability cache, managed by the cascade; revision 0 = empty
	cacheRev  uint64
	cacheData interface{}

	box Box // geometry as of the last layout pass

	handle   *flex.Node // paired layout-engine node, owned
	disposed bool
}

// NewElement creates a styled node with an element name and optional
// classes, paired with a fresh layout-engine node. New nodes start out
// style- and layout-dirty.
func NewElement(name string, classes ...string) *StyNode {
	sn := &StyNode{
		element:     strings.ToLower(name),
		handle:      flex.NewNode(),
		styleDirty:  true,
		layoutDirty: 1,
	}
	sn.Payload = sn // Payload will always reference the node itself
	sn.classes = append(sn.classes, classes...)
	return sn
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// ParentNode returns the parent styled node, or nil for the root.
func (sn *StyNode) ParentNode() *StyNode {
	return Node(sn.Parent())
}

// ChildNode returns the styled node of child number n, or nil.
func (sn *StyNode) ChildNode(n int) *StyNode {
	ch, ok := sn.Child(n)
	if !ok {
		return nil
	}
	return Node(ch)
}

// Element returns the node's element name, lower case.
func (sn *StyNode) Element() string {
	return sn.element
}

// ID returns the node's id attribute, or "".
func (sn *StyNode) ID() string {
	return sn.id
}

// SetID sets the node's id attribute.
func (sn *StyNode) SetID(id string) {
	if sn.id == id {
		return
	}
	sn.id = id
	sn.styleDirty = true
	sn.clearRuleCache()
}

// Classes returns the node's classes.
func (sn *StyNode) Classes() []string {
	return sn.classes
}

// HasClass checks class membership.
func (sn *StyNode) HasClass(class string) bool {
	for _, c := range sn.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class to the node's class set. Adding an already
// present class is a no-op and keeps the node clean.
func (sn *StyNode) AddClass(class string) {
	if sn.HasClass(class) {
		return
	}
	sn.classes = append(sn.classes, class)
	sn.styleDirty = true
	sn.clearRuleCache()
}

// RemoveClass removes a class from the node's class set.
func (sn *StyNode) RemoveClass(class string) {
	for i, c := range sn.classes {
		if c == class {
			sn.classes = append(sn.classes[:i], sn.classes[i+1:]...)
			sn.styleDirty = true
			sn.clearRuleCache()
			return
		}
	}
}

// PseudoState returns the node's currently active pseudo flags.
func (sn *StyNode) PseudoState() selector.Pseudo {
	return sn.pseudo
}

// SetPseudo switches a pseudo flag (or a set of flags) on or off.
// Pseudo-state changes do not touch the rule-applicability cache: the
// candidate rules stay the same, only their match outcome changes.
func (sn *StyNode) SetPseudo(flags selector.Pseudo, on bool) {
	var p selector.Pseudo
	if on {
		p = sn.pseudo | flags
	} else {
		p = sn.pseudo &^ flags
	}
	if p == sn.pseudo {
		return
	}
	sn.pseudo = p
	sn.styleDirty = true
}

// InlineStyles returns the node's inline declaration text.
func (sn *StyNode) InlineStyles() string {
	return sn.inline
}

// SetInlineStyles sets the node's inline declaration text, e.g.
// "width: 10px; color: red".
func (sn *StyNode) SetInlineStyles(declarations string) {
	if sn.inline == declarations {
		return
	}
	sn.inline = declarations
	sn.styleDirty = true
}

// Styles returns the node's cached computed property bag, or nil if no
// cascade has resolved this node yet.
func (sn *StyNode) Styles() *style.PropertyBag {
	return sn.computed
}

// SetStyles commits a resolved property bag as the node's computed
// styles and clears the style-dirty flag. Called by the cascade after a
// successful resolve; the cache keeps its last-good state if a pass
// aborts before this point.
func (sn *StyNode) SetStyles(styles *style.PropertyBag) {
	sn.computed = styles
	sn.styleDirty = false
}

// StyleDirty returns wether the node needs a cascade resolve.
func (sn *StyNode) StyleDirty() bool {
	return sn.styleDirty
}

// MarkStyleDirty flags the node for recomputation by the next pass.
// The flag is set on this node only, never on descendants.
func (sn *StyNode) MarkStyleDirty() {
	sn.styleDirty = true
}

// LayoutDirty returns wether the node (or a descendant) needs a fresh
// geometry pass.
func (sn *StyNode) LayoutDirty() bool {
	return atomic.LoadInt32(&sn.layoutDirty) != 0
}

// MarkLayoutDirty flags the node and all its ancestors up to the root.
// Ancestors need not recompute styles themselves, but the root must
// know a descendant changed so a batched layout pass runs.
func (sn *StyNode) MarkLayoutDirty() {
	for n := sn; n != nil; n = n.ParentNode() {
		if atomic.SwapInt32(&n.layoutDirty, 1) == 1 {
			break // ancestors already flagged
		}
	}
}

// ClearLayoutDirty resets the layout-dirty flag, called by the layout
// pass after geometry has been pulled.
func (sn *StyNode) ClearLayoutDirty() {
	atomic.StoreInt32(&sn.layoutDirty, 0)
}

// RuleCache returns the node's rule-applicability cache together with
// the revision it was computed for. Revision 0 means no cache.
func (sn *StyNode) RuleCache() (uint64, interface{}) {
	return sn.cacheRev, sn.cacheData
}

// SetRuleCache commits a rule-applicability cache for a given registry
// revision. The cache is opaque to the styled tree.
func (sn *StyNode) SetRuleCache(revision uint64, data interface{}) {
	sn.cacheRev = revision
	sn.cacheData = data
}

func (sn *StyNode) clearRuleCache() {
	sn.cacheRev = 0
	sn.cacheData = nil
}

// --- Children and engine linkage -------------------------------------------

// AppendChild appends ch as the last child of sn and links ch's engine
// node at the same position. ch must not be attached elsewhere.
func (sn *StyNode) AppendChild(ch *StyNode) {
	if ch == nil || ch.disposed {
		return
	}
	idx := sn.ChildCount()
	sn.Node.AddChild(&ch.Node)
	sn.handle.InsertChild(ch.handle, idx)
	ch.styleDirty = true
	ch.clearRuleCache() // ancestor chain changed
	sn.MarkLayoutDirty()
}

// InsertChild inserts ch at position i, shifting later children, and
// links ch's engine node at the same index.
func (sn *StyNode) InsertChild(i int, ch *StyNode) {
	if ch == nil || ch.disposed {
		return
	}
	if i < 0 {
		i = 0
	}
	if n := sn.ChildCount(); i > n {
		i = n
	}
	sn.Node.InsertChildAt(i, &ch.Node)
	sn.handle.InsertChild(ch.handle, i)
	ch.styleDirty = true
	ch.clearRuleCache()
	sn.MarkLayoutDirty()
}

// RemoveChild detaches ch from sn and unlinks the engine-side child in
// the same operation. Leaving the engine child linked would make every
// geometry pulled afterwards stale.
func (sn *StyNode) RemoveChild(ch *StyNode) {
	if ch == nil || ch.Parent() != &sn.Node {
		return
	}
	sn.handle.RemoveChild(ch.handle)
	ch.Node.Isolate()
	ch.styleDirty = true
	ch.clearRuleCache()
	sn.MarkLayoutDirty()
}

// --- Lifecycle -------------------------------------------------------------

// Handle returns the node's paired layout-engine node. The handle is
// owned by the styled node; callers must not re-parent or free it.
func (sn *StyNode) Handle() *flex.Node {
	return sn.handle
}

// Disposed returns wether the node's engine handle has been released.
func (sn *StyNode) Disposed() bool {
	return sn.disposed
}

// Dispose releases the node's engine handle and those of all its
// descendants, exactly once each, and detaches the node from its
// parent. A disposed node must not be reattached; disposing an already
// disposed node is a no-op.
func (sn *StyNode) Dispose() {
	if sn == nil || sn.disposed {
		return
	}
	if parent := sn.ParentNode(); parent != nil {
		parent.RemoveChild(sn)
	}
	sn.dispose()
}

func (sn *StyNode) dispose() {
	if sn.disposed {
		tracer().Errorf("dispose of already disposed node %s", sn.element)
		return
	}
	for _, ch := range sn.Children() {
		c := Node(ch)
		sn.handle.RemoveChild(c.handle)
		ch.Isolate()
		c.dispose()
	}
	sn.handle.Reset() // handle is detached by now, reset releases its state
	sn.handle = nil
	sn.disposed = true
}
