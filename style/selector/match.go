package selector

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// MatchesBroadphase is the cheap necessary-but-not-sufficient pre-filter
// of the two-phase selector test. It checks element name, id and class
// membership of the subject part only—no pseudo flags, no combinator
// walks. A selector which would fully match is guaranteed to pass the
// broadphase; the converse does not hold.
func (sel *Selector) MatchesBroadphase(v NodeView) bool {
	if sel == nil || v == nil {
		return false
	}
	// A part requiring ::before/::after tests the host (parent) node, which
	// the broadphase cannot see; let it pass to the full test.
	if sel.Pseudo&(PseudoBefore|PseudoAfter) > 0 {
		return true
	}
	if !sel.subjectMatches(v) {
		return false
	}
	if len(sel.AnyOf) > 0 {
		for _, alt := range sel.AnyOf {
			if alt.MatchesBroadphase(v) {
				return true
			}
		}
		return false
	}
	return true
}

func (sel *Selector) subjectMatches(v NodeView) bool {
	if sel.Element != "" && sel.Element != v.Element() {
		return false
	}
	if sel.ID != "" && sel.ID != v.ID() {
		return false
	}
	for _, class := range sel.Classes {
		if !v.HasClass(class) {
			return false
		}
	}
	return true
}

// Matches runs the full selector test against a node. forcedPseudo is a
// set of pseudo flags treated as active on the node for the duration of
// the test (e.g. to query hover styles without mutating node state).
//
// A combinator which cannot find a matching ancestor or sibling is a
// normal non-match, not an error.
func (sel *Selector) Matches(v NodeView, forcedPseudo Pseudo) bool {
	if sel == nil || v == nil {
		return false
	}
	return sel.matches(v, forcedPseudo)
}

func (sel *Selector) matches(v NodeView, forced Pseudo) bool {
	// ::before/::after redirect the test to the parent node with the pseudo
	// flag injected: a node carrying the flag stands for generated content,
	// and the subject constraints apply to its host. With the flag forced by
	// the caller, the host is tested directly (generated-content queries).
	if pe := sel.Pseudo & (PseudoBefore | PseudoAfter); pe > 0 && forced&pe != pe {
		if v.PseudoState()&pe != pe {
			return false
		}
		parent := v.Parent()
		if parent == nil {
			return false
		}
		return sel.matches(parent, forced|pe)
	}
	// Required pseudo flags must all be active (superset-compatible).
	if sel.Pseudo&^(v.PseudoState()|forced) != 0 {
		return false
	}
	if !sel.subjectMatches(v) {
		return false
	}
	if sel.HasNth && v.ChildIndex()+1 != sel.NthChild {
		return false
	}
	if sel.Parent != nil && !sel.matchesRelation(v) {
		return false
	}
	for _, not := range sel.Not {
		if not.Matches(v, forced) {
			return false
		}
	}
	for _, has := range sel.Has {
		if !matchesHasClause(has, v) {
			return false
		}
	}
	if len(sel.AnyOf) > 0 {
		anyMatched := false
		for _, alt := range sel.AnyOf {
			if alt.matches(v, forced) {
				anyMatched = true
				break
			}
		}
		if !anyMatched {
			return false
		}
	}
	return true
}

// matchesRelation tests the parent link of a selector part against the
// appropriate tree relation of node v.
func (sel *Selector) matchesRelation(v NodeView) bool {
	switch sel.Rel {
	case Child:
		parent := v.Parent()
		return parent != nil && sel.Parent.matches(parent, 0)
	case Descendant, NoCombinator:
		for anc := v.Parent(); anc != nil; anc = anc.Parent() {
			if sel.Parent.matches(anc, 0) {
				return true
			}
		}
		return false
	case AdjacentSibling:
		sib := previousSibling(v)
		return sib != nil && sel.Parent.matches(sib, 0)
	case GeneralSibling:
		for sib := previousSibling(v); sib != nil; sib = previousSibling(sib) {
			if sel.Parent.matches(sib, 0) {
				return true
			}
		}
		return false
	}
	return false
}

// matchesHasClause tests a :has() sub-selector against node v. The
// sub-selector's own combinator kind selects the scanned relation:
// ":has(> x)" looks at children, ":has(+ x)" at the next sibling,
// ":has(~ x)" at all following siblings, and a plain ":has(x)" at all
// descendants.
func matchesHasClause(sub *Selector, v NodeView) bool {
	switch sub.Rel {
	case Child:
		for _, ch := range v.Children() {
			if sub.matches(ch, 0) {
				return true
			}
		}
		return false
	case AdjacentSibling:
		sib := nextSibling(v)
		return sib != nil && sub.matches(sib, 0)
	case GeneralSibling:
		for sib := nextSibling(v); sib != nil; sib = nextSibling(sib) {
			if sub.matches(sib, 0) {
				return true
			}
		}
		return false
	default:
		return anyDescendantMatches(sub, v)
	}
}

func anyDescendantMatches(sub *Selector, v NodeView) bool {
	for _, ch := range v.Children() {
		if sub.matches(ch, 0) || anyDescendantMatches(sub, ch) {
			return true
		}
	}
	return false
}

func previousSibling(v NodeView) NodeView {
	parent := v.Parent()
	i := v.ChildIndex()
	if parent == nil || i <= 0 {
		return nil
	}
	siblings := parent.Children()
	if i-1 >= len(siblings) {
		return nil
	}
	return siblings[i-1]
}

func nextSibling(v NodeView) NodeView {
	parent := v.Parent()
	i := v.ChildIndex()
	if parent == nil || i < 0 {
		return nil
	}
	siblings := parent.Children()
	if i+1 >= len(siblings) {
		return nil
	}
	return siblings[i+1]
}
