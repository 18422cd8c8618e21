package cssom

import (
	"testing"

	"github.com/npillmayer/flexdom/style"
	"github.com/npillmayer/flexdom/style/selector"
	"github.com/npillmayer/flexdom/styledtree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *RuleSet {
	t.Helper()
	rs, err := Parse(source, Strict)
	require.NoError(t, err)
	return rs
}

func TestParseRuleSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	rs := mustParse(t, `
.button {
    width: 200px;
    height: 50px;
    background-color: #ff0000;
}
panel > .button:hover { width: 120px; }
`)
	require.Equal(t, 2, len(rs.Rules()))
	r := rs.Rules()[0]
	require.Equal(t, 0, r.Index)
	require.True(t, r.Declarations.IsSet("width"))
	require.True(t, r.Declarations.IsSet("background-color"))
}

func TestParseVariableSubstitution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	rs := mustParse(t, `
$accent: #ff0000;
$accent-dark: #880000;

.button { background-color: $accent; border-color: $accent-dark; }
`)
	require.Equal(t, 1, len(rs.Rules()))
	decls := rs.Rules()[0].Declarations
	c, ok := decls.Value("background-color")
	require.True(t, ok)
	col, _ := c.Color()
	require.EqualValues(t, 0xff, col.R)
	// $accent-dark must not be clobbered by the shorter $accent
	d, ok := decls.Value("border-top-color")
	require.True(t, ok)
	dark, _ := d.Color()
	require.EqualValues(t, 0x88, dark.R)
}

func TestParseUnresolvedVariableDropsProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	rs := mustParse(t, `.button { width: $undefined; height: 50px; }`)
	require.Equal(t, 1, len(rs.Rules()))
	decls := rs.Rules()[0].Declarations
	require.False(t, decls.IsSet("width"))
	require.True(t, decls.IsSet("height"))
}

func TestParseModes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	broken := `.button { width: 10px; ` // unbalanced block
	rs, err := Parse(broken, Permissive)
	require.NoError(t, err)
	require.True(t, rs.Empty())
	_, err = Parse(broken, Strict)
	require.Error(t, err)

	badSelector := `div >< { width: 10px; }`
	rs, err = Parse(badSelector, Permissive)
	require.NoError(t, err)
	require.True(t, rs.Empty())
	_, err = Parse(badSelector, Strict)
	require.Error(t, err)
}

func TestParseInlineDeclarations(t *testing.T) {
	bag := ParseInline("width: 10px; color: red")
	if !bag.IsSet("width") || !bag.IsSet("color") {
		t.Error("expected inline declarations to be parsed into the bag")
	}
	if bag := ParseInline(""); bag.Size() != 0 {
		t.Error("expected empty inline text to yield an empty bag")
	}
}

// --- Cascade ---------------------------------------------------------------

func cascadeFor(sheets ...*RuleSet) Cascade {
	return Cascade{Sheets: sheets, Revision: 1}
}

func TestCascadeUniversalRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t, `* { width: 150px; }`))
	root := styledtree.NewElement("panel")
	child := styledtree.NewElement("button")
	root.AppendChild(child)
	rootStyles, _ := c.BuildFinal(root, nil)
	childStyles, _ := c.BuildFinal(child, rootStyles)
	for _, bag := range []*style.PropertyBag{rootStyles, childStyles} {
		if w := bag.Dimension("width"); !w.IsAbsolute() || w.Px() != 150 {
			t.Errorf("expected width 150px on every node, got %s", w)
		}
	}
	// a node added later resolves the rule on the next pass as well
	late := styledtree.NewElement("button")
	root.AppendChild(late)
	lateStyles, _ := c.BuildFinal(late, rootStyles)
	if w := lateStyles.Dimension("width"); w.Px() != 150 {
		t.Errorf("expected late-added node to resolve width 150px, got %s", w)
	}
}

func TestCascadeClassScoped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t,
		`.button { background-color: #ff0000; width: 200px; height: 50px; }`))
	button := styledtree.NewElement("div", "button")
	plain := styledtree.NewElement("div")
	styles, _ := c.BuildFinal(button, nil)
	col, ok := mustValue(t, styles, "background-color").Color()
	require.True(t, ok)
	require.EqualValues(t, 0xff, col.R)
	require.EqualValues(t, 0x00, col.G)
	require.EqualValues(t, 0x00, col.B)
	require.EqualValues(t, 200, styles.Dimension("width").Px())
	require.EqualValues(t, 50, styles.Dimension("height").Px())

	plainStyles, _ := c.BuildFinal(plain, nil)
	if plainStyles.Dimension("width").IsAbsolute() {
		t.Error("expected node without the class to resolve none of the rule")
	}
}

func TestCascadePseudoState(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t, `.button:hover { width: 120px; }`))
	button := styledtree.NewElement("div", "button")
	styles, _ := c.BuildFinal(button, nil)
	if styles.Dimension("width").IsAbsolute() {
		t.Error("expected hover rule not to apply without hover state")
	}
	button.SetPseudo(selector.PseudoHover, true)
	styles, _ = c.BuildFinal(button, nil)
	if w := styles.Dimension("width"); w.Px() != 120 {
		t.Errorf("expected hover rule to resolve width 120px, got %s", w)
	}
}

func TestCascadeIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t, `.button { width: 200px; }`))
	button := styledtree.NewElement("div", "button")
	first, changed := c.BuildFinal(button, nil)
	require.True(t, changed)
	second, changed := c.BuildFinal(button, nil)
	require.False(t, changed)
	require.True(t, first.Equal(second))
}

func TestCascadeSpecificityOrdering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t, `
#app { width: 300px; }
.button { width: 200px; height: 50px; }
div { width: 100px; color: red; }
`))
	node := styledtree.NewElement("div", "button")
	node.SetID("app")
	styles, _ := c.BuildFinal(node, nil)
	// higher specificity wins per property, not per whole rule
	require.EqualValues(t, 300, styles.Dimension("width").Px())
	require.EqualValues(t, 50, styles.Dimension("height").Px())
	col, _ := mustValue(t, styles, "color").Color()
	require.EqualValues(t, 0xff, col.R)
}

func TestCascadeTieBreakLastRegisteredWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	// equal specificity within one sheet: later rule wins
	c := cascadeFor(mustParse(t, `
.button { width: 100px; }
.button { width: 200px; }
`))
	node := styledtree.NewElement("div", "button")
	styles, _ := c.BuildFinal(node, nil)
	require.EqualValues(t, 200, styles.Dimension("width").Px())

	// equal specificity across sheets: later registered sheet wins
	c = cascadeFor(
		mustParse(t, `.button { width: 100px; }`),
		mustParse(t, `.button { width: 200px; }`))
	node = styledtree.NewElement("div", "button")
	styles, _ = c.BuildFinal(node, nil)
	require.EqualValues(t, 200, styles.Dimension("width").Px())
}

func TestCascadeInlineWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t, `#app.button { width: 200px; }`))
	node := styledtree.NewElement("div", "button")
	node.SetID("app")
	node.SetInlineStyles("width: 50px")
	styles, _ := c.BuildFinal(node, nil)
	require.EqualValues(t, 50, styles.Dimension("width").Px())
}

func TestCascadeInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	c := cascadeFor(mustParse(t, `panel { color: #00ff00; width: 300px; }`))
	root := styledtree.NewElement("panel")
	child := styledtree.NewElement("button")
	root.AppendChild(child)
	rootStyles, _ := c.BuildFinal(root, nil)
	childStyles, _ := c.BuildFinal(child, rootStyles)
	col, _ := mustValue(t, childStyles, "color").Color()
	require.EqualValues(t, 0xff, col.G, "color is inherited")
	require.False(t, childStyles.Dimension("width").IsAbsolute(),
		"width is not inherited")
}

func TestCascadeRuleCacheInvalidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	node := styledtree.NewElement("div", "button")
	c := cascadeFor(mustParse(t, `.button { width: 100px; }`))
	styles, _ := c.BuildFinal(node, nil)
	require.EqualValues(t, 100, styles.Dimension("width").Px())

	// adding a sheet bumps the revision; the stale candidate cache on the
	// node must not survive
	c2 := Cascade{
		Sheets:   append(c.Sheets, mustParse(t, `.button { width: 250px; }`)),
		Revision: c.Revision + 1,
	}
	node.MarkStyleDirty()
	styles, _ = c2.BuildFinal(node, nil)
	require.EqualValues(t, 250, styles.Dimension("width").Px())
}

func TestCascadeSetsLayoutDirty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexdom.cssom")
	defer teardown()
	//
	node := styledtree.NewElement("div", "button")
	c := cascadeFor(mustParse(t, `.button { width: 100px; }`))
	c.BuildFinal(node, nil)
	node.ClearLayoutDirty()

	// a non-layout-affecting change must not flag layout
	node.SetInlineStyles("color: red")
	c.BuildFinal(node, nil)
	require.False(t, node.LayoutDirty())

	// a layout-affecting change must
	node.SetInlineStyles("color: red; width: 500px")
	c.BuildFinal(node, nil)
	require.True(t, node.LayoutDirty())
}

func mustValue(t *testing.T, bag *style.PropertyBag, key string) style.Value {
	t.Helper()
	v, ok := bag.Value(key)
	require.True(t, ok, "property %q unset", key)
	return v
}
