package styledtree

import (
	"testing"

	"github.com/npillmayer/flexdom/style/selector"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func buildTree() (root, group, a, b *StyNode) {
	root = NewElement("panel", "toolbar")
	group = NewElement("group")
	a = NewElement("button", "first")
	b = NewElement("button", "second")
	root.AppendChild(group)
	group.AppendChild(a)
	group.AppendChild(b)
	return
}

func engineOrderMatches(sn *StyNode) bool {
	for i := 0; i < sn.ChildCount(); i++ {
		ch := sn.ChildNode(i)
		if sn.Handle().GetChild(i) != ch.Handle() {
			return false
		}
		if !engineOrderMatches(ch) {
			return false
		}
	}
	return sn.Handle().GetChild(sn.ChildCount()) == nil
}

func TestEngineChildOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.styledtree")
	defer teardown()
	//
	root, group, a, b := buildTree()
	if !engineOrderMatches(root) {
		t.Fatal("engine child order does not mirror tree child order")
	}
	c := NewElement("button", "third")
	group.InsertChild(1, c) // between a and b
	if group.ChildNode(1) != c || group.ChildNode(2) != b {
		t.Error("expected insert at position 1 to shift later children")
	}
	if !engineOrderMatches(root) {
		t.Error("engine child order lost after insert")
	}
	group.RemoveChild(a)
	if group.ChildCount() != 2 || group.ChildNode(0) != c {
		t.Error("expected removal to compact children")
	}
	if !engineOrderMatches(root) {
		t.Error("engine child order lost after removal")
	}
	if a.Handle().Parent != nil {
		t.Error("expected removed child to be unlinked from engine parent")
	}
}

func TestDirtyFlagsStayLocal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.styledtree")
	defer teardown()
	//
	root, group, a, b := buildTree()
	for _, sn := range []*StyNode{root, group, a, b} {
		sn.SetStyles(nil) // clears style-dirty
		sn.ClearLayoutDirty()
	}
	a.AddClass("active")
	if !a.StyleDirty() {
		t.Error("expected class toggle to set style-dirty on the node")
	}
	if b.StyleDirty() || group.StyleDirty() || root.StyleDirty() {
		t.Error("expected siblings and ancestors to stay clean")
	}
}

func TestLayoutDirtyPropagatesToRoot(t *testing.T) {
	root, group, a, b := buildTree()
	for _, sn := range []*StyNode{root, group, a, b} {
		sn.ClearLayoutDirty()
	}
	a.MarkLayoutDirty()
	if !a.LayoutDirty() || !group.LayoutDirty() || !root.LayoutDirty() {
		t.Error("expected layout-dirty to propagate to the root")
	}
	if b.LayoutDirty() {
		t.Error("expected sibling to stay layout-clean")
	}
}

func TestMutatorNoopsKeepNodeClean(t *testing.T) {
	sn := NewElement("button", "primary")
	sn.SetStyles(nil)
	sn.AddClass("primary") // already present
	sn.SetPseudo(selector.PseudoHover, false)
	sn.SetInlineStyles("")
	if sn.StyleDirty() {
		t.Error("expected no-op mutations to keep the node clean")
	}
}

func TestRuleCacheClearedOnClassChange(t *testing.T) {
	sn := NewElement("button")
	sn.SetRuleCache(7, "candidates")
	sn.AddClass("primary")
	if rev, data := sn.RuleCache(); rev != 0 || data != nil {
		t.Error("expected class change to clear the rule cache")
	}
	sn.SetRuleCache(7, "candidates")
	sn.SetPseudo(selector.PseudoHover, true)
	if rev, _ := sn.RuleCache(); rev != 7 {
		t.Error("expected pseudo-state change to keep the rule cache")
	}
}

func TestDisposeReleasesHandleOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.styledtree")
	defer teardown()
	//
	root, group, a, b := buildTree()
	group.Dispose()
	for _, sn := range []*StyNode{group, a, b} {
		if !sn.Disposed() {
			t.Error("expected subtree dispose to release descendant handles")
		}
		if sn.Handle() != nil {
			t.Error("expected disposed node's handle to be gone")
		}
	}
	if root.Disposed() {
		t.Error("expected parent of disposed subtree to stay alive")
	}
	if root.ChildCount() != 0 || root.Handle().GetChild(0) != nil {
		t.Error("expected disposed subtree to be detached on both sides")
	}
	group.Dispose() // second dispose must be a no-op
}

func TestViewStructuralPseudoClasses(t *testing.T) {
	_, _, a, b := buildTree()
	if p := a.View().PseudoState(); p&selector.PseudoFirstChild == 0 {
		t.Error("expected first child to carry :first-child")
	}
	if p := b.View().PseudoState(); p&selector.PseudoLastChild == 0 {
		t.Error("expected last child to carry :last-child")
	}
	if p := a.View().PseudoState(); p&selector.PseudoEmpty == 0 {
		t.Error("expected leaf to carry :empty")
	}
}

func TestViewSelectorMatching(t *testing.T) {
	root, _, a, _ := buildTree()
	sel, err := selector.Compile("panel button.first")
	if err != nil {
		t.Fatal(err)
	}
	if !sel.Matches(a.View(), 0) {
		t.Errorf("expected descendant selector to match, tree is\n%s", root.Dump())
	}
}
