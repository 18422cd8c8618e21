/*
Package flexdom resolves declarative style rules against a widget node
tree and synchronizes the resolved styles with a flexbox layout engine.

An Engine owns the registered rule sets—an explicit value held by the
application root, not a global registry—and drives the per-frame
pipeline: resolve the cascade for every style-dirty node, push the
layout-affecting subset into the flex engine, calculate once, and pull
absolute box geometry back into the tree.

	engine := flexdom.NewEngine()
	engine.AddStylesheetSource(".button { width: 200px; }", cssom.Permissive)
	root := styledtree.NewElement("panel")
	button := styledtree.NewElement("div", "button")
	root.AppendChild(button)
	engine.Layout(root, 800, 600)
	box := button.Box()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package flexdom

import (
	"runtime"

	"github.com/npillmayer/flexdom/layout"
	"github.com/npillmayer/flexdom/style"
	"github.com/npillmayer/flexdom/style/cssom"
	"github.com/npillmayer/flexdom/style/selector"
	"github.com/npillmayer/flexdom/styledtree"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
)

// tracer traces with key 'flexdom.engine'.
func tracer() tracing.Trace {
	return tracing.Select("flexdom.engine")
}

// Engine is the styling and layout engine for one widget tree (or
// several trees sharing one set of stylesheets). The engine is not safe
// for concurrent use; all calls run on the goroutine driving the UI.
type Engine struct {
	sheets   []*cssom.RuleSet
	revision uint64 // bumped on every sheet add/remove
	layouter *layout.Layouter
	parallel bool
}

// NewEngine creates an engine with an empty stylesheet registry.
func NewEngine() *Engine {
	return &Engine{
		revision: 1, // revision 0 is reserved for "no cache" on nodes
		layouter: layout.NewLayouter(),
	}
}

// SetParallel enables resolving the cascades of the root's child
// subtrees in parallel during Layout. All resolution joins before any
// engine push; the flex engine itself is only ever driven by one
// goroutine.
func (e *Engine) SetParallel(on bool) {
	e.parallel = on
}

// AddStylesheet registers a parsed rule set. Every node's rule
// applicability changes potentially, so the registry revision is
// bumped, lazily invalidating all node-local broadphase caches.
func (e *Engine) AddStylesheet(rs *cssom.RuleSet) {
	if rs == nil {
		return
	}
	e.sheets = append(e.sheets, rs)
	e.revision++
}

// AddStylesheetSource parses stylesheet text and registers the
// resulting rule set, which is returned so callers can remove it later.
func (e *Engine) AddStylesheetSource(source string, mode cssom.Mode) (*cssom.RuleSet, error) {
	rs, err := cssom.Parse(source, mode)
	if err != nil {
		return nil, err
	}
	e.AddStylesheet(rs)
	return rs, nil
}

// RemoveStylesheet unregisters a rule set previously added. It returns
// false if the rule set is not registered.
func (e *Engine) RemoveStylesheet(rs *cssom.RuleSet) bool {
	for i, sheet := range e.sheets {
		if sheet == rs {
			e.sheets = append(e.sheets[:i], e.sheets[i+1:]...)
			e.revision++
			return true
		}
	}
	return false
}

// Clear unregisters all rule sets, e.g. between application sessions.
func (e *Engine) Clear() {
	if len(e.sheets) == 0 {
		return
	}
	e.sheets = nil
	e.revision++
}

// Stylesheets returns the registered rule sets in registration order.
func (e *Engine) Stylesheets() []*cssom.RuleSet {
	return e.sheets
}

func (e *Engine) cascade() cssom.Cascade {
	return cssom.Cascade{Sheets: e.sheets, Revision: e.revision}
}

// ResolveStyle resolves and returns the final property bag of a node.
// Dirty ancestors are resolved first, top-down, so inherited properties
// are taken from up-to-date parent bags. Renderers and widgets call
// this for paint decisions outside of a layout pass.
func (e *Engine) ResolveStyle(sn *styledtree.StyNode) *style.PropertyBag {
	if sn == nil {
		return nil
	}
	var chain []*styledtree.StyNode
	for n := sn; n != nil; n = n.ParentNode() {
		chain = append(chain, n)
	}
	c := e.cascade()
	var inherited *style.PropertyBag
	for i := len(chain) - 1; i >= 0; i-- {
		inherited, _ = c.BuildFinal(chain[i], inherited)
	}
	return inherited
}

// QueryStyle resolves the property bag a node would have with the given
// pseudo flags forced active (e.g. hover styles for a node not
// currently hovered). Nothing is committed to the node.
func (e *Engine) QueryStyle(sn *styledtree.StyNode, forced selector.Pseudo) *style.PropertyBag {
	if sn == nil {
		return nil
	}
	var inherited *style.PropertyBag
	if parent := sn.ParentNode(); parent != nil {
		inherited = e.ResolveStyle(parent)
	}
	return e.cascade().Query(sn, inherited, forced)
}

// Layout runs one frame's styling and layout: resolve the cascade for
// all style-dirty nodes of the tree, push the layout-affecting style
// subset into the flex engine, run the engine's solver once with the
// given viewport size, and pull absolute box geometry back.
func (e *Engine) Layout(root *styledtree.StyNode, width float32, height float32) {
	if root == nil {
		return
	}
	e.resolveTree(root)
	e.layouter.Layout(root, width, height)
}

// resolveTree resolves the cascade pre-order. With parallel resolution
// enabled, the root's child subtrees resolve concurrently: each
// subtree's rule matching only reads its own ancestors, which no other
// goroutine mutates. All workers join before resolveTree returns, so
// pushes never overlap with resolution.
func (e *Engine) resolveTree(root *styledtree.StyNode) {
	c := e.cascade()
	rootStyles, _ := c.BuildFinal(root, nil)
	n := root.ChildCount()
	if !e.parallel || n < 2 || runtime.NumCPU() < 2 {
		for i := 0; i < n; i++ {
			resolveSubtree(c, root.ChildNode(i), rootStyles)
		}
		return
	}
	g := new(errgroup.Group)
	for i := 0; i < n; i++ {
		child := root.ChildNode(i)
		g.Go(func() error {
			resolveSubtree(c, child, rootStyles)
			return nil
		})
	}
	g.Wait() // resolution never errors; Wait only joins the workers
}

func resolveSubtree(c cssom.Cascade, sn *styledtree.StyNode, inherited *style.PropertyBag) {
	styles, _ := c.BuildFinal(sn, inherited)
	for i := 0; i < sn.ChildCount(); i++ {
		resolveSubtree(c, sn.ChildNode(i), styles)
	}
}
