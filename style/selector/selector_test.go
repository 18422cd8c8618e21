package selector

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// testNode is a minimal NodeView implementation for matching tests.
type testNode struct {
	element  string
	id       string
	classes  []string
	pseudo   Pseudo
	parent   *testNode
	children []*testNode
}

func elem(name string, classes ...string) *testNode {
	return &testNode{element: name, classes: classes}
}

func (n *testNode) add(ch *testNode) *testNode {
	ch.parent = n
	n.children = append(n.children, ch)
	return n
}

func (n *testNode) Element() string { return n.element }
func (n *testNode) ID() string      { return n.id }
func (n *testNode) HasClass(c string) bool {
	for _, cl := range n.classes {
		if cl == c {
			return true
		}
	}
	return false
}
func (n *testNode) PseudoState() Pseudo { return n.pseudo }
func (n *testNode) Parent() NodeView {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *testNode) Children() []NodeView {
	views := make([]NodeView, len(n.children))
	for i, ch := range n.children {
		views[i] = ch
	}
	return views
}
func (n *testNode) ChildIndex() int {
	if n.parent == nil {
		return -1
	}
	for i, ch := range n.parent.children {
		if ch == n {
			return i
		}
	}
	return -1
}

func mustCompile(t *testing.T, text string) *Selector {
	t.Helper()
	sel, err := Compile(text)
	if err != nil {
		t.Fatalf("cannot compile selector %q: %v", text, err)
	}
	return sel
}

func TestSpecificityIDBeatsClasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.selector")
	defer teardown()
	//
	idSel := mustCompile(t, "#app")
	classes := make([]string, 99)
	for i := range classes {
		classes[i] = ".c"
	}
	classSel := mustCompile(t, strings.Join(classes, ""))
	if idSel.Specificity() <= classSel.Specificity() {
		t.Errorf("expected id specificity %d to beat 99 classes (%d)",
			idSel.Specificity(), classSel.Specificity())
	}
}

func TestSpecificityIsCachedAndDeterministic(t *testing.T) {
	sel := mustCompile(t, "div.button:hover")
	s1 := sel.Specificity()
	s2 := sel.Specificity()
	if s1 != s2 {
		t.Error("expected specificity to be stable")
	}
	// 1 (element) + 10 (class) + 10 (pseudo flag)
	if s1 != 21 {
		t.Errorf("expected specificity 21 for div.button:hover, is %d", s1)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, bad := range []string{"", "div >", ":not(.a", "div:frobnicate", "a ?? b"} {
		if _, err := Compile(bad); err == nil {
			t.Errorf("expected selector %q to flag a parse error", bad)
		}
	}
}

func TestMatchSimple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.selector")
	defer teardown()
	//
	button := elem("div", "button")
	button.id = "ok"
	cases := []struct {
		text  string
		match bool
	}{
		{"*", true},
		{"div", true},
		{"span", false},
		{".button", true},
		{".missing", false},
		{"#ok", true},
		{"#nope", false},
		{"div.button#ok", true},
	}
	for _, c := range cases {
		sel := mustCompile(t, c.text)
		if got := sel.Matches(button, 0); got != c.match {
			t.Errorf("selector %q: expected match=%v, got %v", c.text, c.match, got)
		}
	}
}

func TestBroadphaseNeverFalseNegative(t *testing.T) {
	root := elem("panel")
	child := elem("div", "button")
	root.add(child)
	for _, text := range []string{"div", ".button", "panel div", "panel > div", "div:hover"} {
		sel := mustCompile(t, text)
		if sel.Matches(child, PseudoHover) && !sel.MatchesBroadphase(child) {
			t.Errorf("selector %q fully matches but fails broadphase", text)
		}
	}
}

func TestMatchCombinators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.selector")
	defer teardown()
	//
	root := elem("panel", "toolbar")
	mid := elem("group")
	a := elem("button", "first")
	b := elem("button", "second")
	c := elem("button", "third")
	root.add(mid)
	mid.add(a).add(b).add(c)

	cases := []struct {
		text  string
		node  *testNode
		match bool
	}{
		{"panel button", b, true},     // descendant across levels
		{"panel > button", b, false},  // not an immediate child
		{"group > button", b, true},   //
		{".first + button", b, true},  // adjacent sibling
		{".first + button", c, false}, // not adjacent
		{".first ~ button", c, true},  // general sibling
		{".second ~ button", a, false},
	}
	for _, cse := range cases {
		sel := mustCompile(t, cse.text)
		if got := sel.Matches(cse.node, 0); got != cse.match {
			t.Errorf("selector %q on .%s: expected %v, got %v",
				cse.text, cse.node.classes[0], cse.match, got)
		}
	}
}

func TestMatchMissingAncestorIsNormalNonMatch(t *testing.T) {
	orphan := elem("button")
	sel := mustCompile(t, "panel > button")
	if sel.Matches(orphan, 0) {
		t.Error("expected selector with missing ancestor not to match")
	}
}

func TestMatchPseudo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.selector")
	defer teardown()
	//
	button := elem("div", "button")
	sel := mustCompile(t, ".button:hover")
	if sel.Matches(button, 0) {
		t.Error("expected hover selector not to match without hover state")
	}
	button.pseudo = PseudoHover
	if !sel.Matches(button, 0) {
		t.Error("expected hover selector to match with hover state")
	}
	button.pseudo = 0
	if !sel.Matches(button, PseudoHover) {
		t.Error("expected hover selector to match with forced pseudo flag")
	}
}

func TestMatchNot(t *testing.T) {
	plain := elem("button")
	primary := elem("button", "primary")
	sel := mustCompile(t, "button:not(.primary)")
	if !sel.Matches(plain, 0) {
		t.Error("expected :not(.primary) to match plain button")
	}
	if sel.Matches(primary, 0) {
		t.Error("expected :not(.primary) not to match primary button")
	}
}

func TestMatchHas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.selector")
	defer teardown()
	//
	panel := elem("panel")
	group := elem("group")
	icon := elem("icon")
	panel.add(group)
	group.add(icon)

	if sel := mustCompile(t, "panel:has(icon)"); !sel.Matches(panel, 0) {
		t.Error("expected :has(icon) to find descendant icon")
	}
	if sel := mustCompile(t, "panel:has(> icon)"); sel.Matches(panel, 0) {
		t.Error("expected :has(> icon) not to match: icon is no direct child")
	}
	if sel := mustCompile(t, "group:has(> icon)"); !sel.Matches(group, 0) {
		t.Error("expected :has(> icon) to match group")
	}
}

func TestMatchNthChild(t *testing.T) {
	root := elem("list")
	first := elem("item")
	second := elem("item")
	root.add(first).add(second)
	sel := mustCompile(t, "item:nth-child(2)")
	if sel.Matches(first, 0) {
		t.Error("expected :nth-child(2) not to match first item")
	}
	if !sel.Matches(second, 0) {
		t.Error("expected :nth-child(2) to match second item")
	}
}

func TestMatchSelectorList(t *testing.T) {
	button := elem("button")
	label := elem("label")
	divider := elem("hr")
	sel := mustCompile(t, "button, label")
	if !sel.Matches(button, 0) || !sel.Matches(label, 0) {
		t.Error("expected selector list to match both alternatives")
	}
	if sel.Matches(divider, 0) {
		t.Error("expected selector list not to match hr")
	}
}

func TestMatchPseudoElement(t *testing.T) {
	host := elem("div", "badge")
	generated := elem("")
	generated.pseudo = PseudoAfter
	host.add(generated)
	sel := mustCompile(t, ".badge::after")
	if !sel.Matches(generated, 0) {
		t.Error("expected ::after selector to match generated content node")
	}
	if sel.Matches(host, 0) {
		t.Error("expected ::after selector not to match the host itself")
	}
	if !sel.Matches(host, PseudoAfter) {
		t.Error("expected ::after selector to match host with forced flag")
	}
}
