package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sort"

	"github.com/npillmayer/flexdom/style"
	"github.com/npillmayer/flexdom/style/selector"
	"github.com/npillmayer/flexdom/styledtree"
)

// Cascade is a view onto an application's registered rule sets, handed
// into BuildFinal by the owner of the registry (see the engine in the
// module root). Revision identifies the registry state: it is bumped
// whenever a rule set is added or removed, which lazily invalidates
// every node's rule-applicability cache.
type Cascade struct {
	Sheets   []*RuleSet // in registration order
	Revision uint64
}

// candidate is one selector alternative which passed the broadphase for
// a node, kept in the node's rule-applicability cache.
type candidate struct {
	sel   *selector.Selector
	decls *style.PropertyBag
	order int // global source order over all registered sheets
}

// BuildFinal resolves the final property bag of a styled node.
//
// A node which is not style-dirty returns its cached bag with
// changed=false. Otherwise all rules whose selectors match the node are
// collected and their declaration bags merged field-wise in precedence
// order: higher specificity wins per property, ties go to the later
// registered rule, inline declarations beat every stylesheet rule.
// Inherited properties of the parent's computed bag fill fields still
// unset, and FillDefaults completes the bag. The result is committed as
// the node's computed styles—only then, so an aborted pass leaves the
// cache in its last-good state—and the node's layout-dirty flag is set
// if any layout-affecting field changed.
func (c Cascade) BuildFinal(sn *styledtree.StyNode, inherited *style.PropertyBag) (*style.PropertyBag, bool) {
	if !sn.StyleDirty() && sn.Styles() != nil {
		// a registry revision newer than the node's rule cache means a
		// sheet was added or removed since the last resolve
		if rev, _ := sn.RuleCache(); rev == c.Revision {
			return sn.Styles(), false
		}
	}
	final := c.resolve(sn, inherited, 0)
	if old := sn.Styles(); old == nil || !old.LayoutEqual(final) {
		sn.MarkLayoutDirty()
	}
	sn.SetStyles(final)
	return final, true
}

// Query resolves the property bag a node would have with the given
// pseudo flags forced active, without committing anything to the node.
// Widgets use this to inspect e.g. hover styles without mutating node
// state.
func (c Cascade) Query(sn *styledtree.StyNode, inherited *style.PropertyBag, forced selector.Pseudo) *style.PropertyBag {
	return c.resolve(sn, inherited, forced)
}

func (c Cascade) resolve(sn *styledtree.StyNode, inherited *style.PropertyBag, forced selector.Pseudo) *style.PropertyBag {
	view := sn.View()
	matched := make([]candidate, 0, 8)
	for _, cand := range c.candidatesFor(sn, view) {
		if cand.sel.Matches(view, forced) {
			matched = append(matched, cand)
		}
	}
	// Descending precedence: merging with Add keeps fields already set,
	// so the first bag to claim a property wins.
	sort.SliceStable(matched, func(i, j int) bool {
		si, sj := matched[i].sel.Specificity(), matched[j].sel.Specificity()
		if si != sj {
			return si > sj
		}
		return matched[i].order > matched[j].order
	})
	final := ParseInline(sn.InlineStyles()) // inline always wins
	for _, m := range matched {
		final.Add(m.decls)
	}
	final.InheritFrom(inherited)
	final.FillDefaults()
	tracer().Debugf("resolved %d matching rules for %s", len(matched), sn.Element())
	return final
}

// candidatesFor returns the broadphase-filtered rule candidates for a
// node, served from the node's cache when it is still valid for the
// current registry revision.
func (c Cascade) candidatesFor(sn *styledtree.StyNode, view selector.NodeView) []candidate {
	if rev, data := sn.RuleCache(); rev == c.Revision {
		if cands, ok := data.([]candidate); ok {
			return cands
		}
	}
	var cands []candidate
	order := 0
	for _, sheet := range c.Sheets {
		for _, rule := range sheet.Rules() {
			for _, sel := range rule.Selectors {
				if sel.MatchesBroadphase(view) {
					cands = append(cands, candidate{
						sel:   sel,
						decls: rule.Declarations,
						order: order,
					})
				}
			}
			order++
		}
	}
	sn.SetRuleCache(c.Revision, cands)
	return cands
}
