package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexdom.style'.
func tracer() tracing.Trace {
	return tracing.Select("flexdom.style")
}

// KeyValue is a container for a raw style declaration.
type KeyValue struct {
	Key   string
	Value string
}

// propSpec declares a property of the fixed property table: its value kind,
// wether it is inherited from the parent node during cascading, its initial
// (user-agent default) value, and—for enum properties—the allowed keywords.
type propSpec struct {
	kind      ValueKind
	inherited bool
	initial   string
	keywords  string // '|'-separated keyword set for EnumKind
}

func dim(initial string) propSpec { return propSpec{kind: DimensionKind, initial: initial} }
func col(initial string) propSpec { return propSpec{kind: ColorKind, initial: initial} }
func num(initial string) propSpec { return propSpec{kind: NumberKind, initial: initial} }
func txt(initial string) propSpec { return propSpec{kind: TextKind, initial: initial} }
func enum(initial string, keywords string) propSpec {
	return propSpec{kind: EnumKind, initial: initial, keywords: keywords}
}
func inh(p propSpec) propSpec { p.inherited = true; return p }

// properties is the fixed table of properties a bag may hold. Unknown keys
// are rejected by Set. Keys not listed here but understood by Set are the
// compound (shorthand) properties, which expand to table keys.
var properties = map[string]propSpec{
	// margins & padding
	"margin-top":     dim("0"),
	"margin-right":   dim("0"),
	"margin-bottom":  dim("0"),
	"margin-left":    dim("0"),
	"padding-top":    dim("0"),
	"padding-right":  dim("0"),
	"padding-bottom": dim("0"),
	"padding-left":   dim("0"),
	// border
	"border-top-width":           dim("medium"),
	"border-right-width":         dim("medium"),
	"border-bottom-width":        dim("medium"),
	"border-left-width":          dim("medium"),
	"border-top-color":           col("transparent"),
	"border-right-color":         col("transparent"),
	"border-bottom-color":        col("transparent"),
	"border-left-color":          col("transparent"),
	"border-top-style":           enum("none", borderStyles),
	"border-right-style":         enum("none", borderStyles),
	"border-bottom-style":        enum("none", borderStyles),
	"border-left-style":          enum("none", borderStyles),
	"border-top-left-radius":     dim("0"),
	"border-top-right-radius":    dim("0"),
	"border-bottom-left-radius":  dim("0"),
	"border-bottom-right-radius": dim("0"),
	// dimensions & position offsets
	"width":      dim("auto"),
	"height":     dim("auto"),
	"min-width":  dim("auto"),
	"min-height": dim("auto"),
	"max-width":  dim("none"),
	"max-height": dim("none"),
	"top":        dim("auto"),
	"right":      dim("auto"),
	"bottom":     dim("auto"),
	"left":       dim("auto"),
	// display & box behavior
	"display":    enum("flex", "none|flex|block|inline|inline-block|inline-flex|grid"),
	"position":   enum("relative", "static|relative|absolute|fixed|sticky"),
	"float":      enum("none", "none|left|right"),
	"clear":      enum("none", "none|left|right|both"),
	"visibility": enum("visible", "visible|hidden|collapse"),
	"overflow":   enum("visible", overflowKinds),
	"overflow-x": enum("visible", overflowKinds),
	"overflow-y": enum("visible", overflowKinds),
	"z-index":    num("0"),
	"box-sizing": enum("border-box", "content-box|border-box"),
	"opacity":    num("1"),
	// flex container & item
	"flex-direction": enum("column", "row|row-reverse|column|column-reverse"),
	"flex-wrap":      enum("nowrap", "nowrap|wrap|wrap-reverse"),
	"flex-grow":      num("0"),
	"flex-shrink":    num("0"),
	"flex-basis":     dim("auto"),
	"justify-content": enum("flex-start",
		"flex-start|flex-end|center|space-between|space-around|space-evenly|start|end"),
	"align-items":   enum("stretch", "stretch|flex-start|flex-end|center|baseline"),
	"align-self":    enum("auto", "auto|stretch|flex-start|flex-end|center|baseline"),
	"align-content": enum("stretch", "stretch|flex-start|flex-end|center|space-between|space-around"),
	"order":         num("0"),
	"row-gap":       dim("0"),
	"column-gap":    dim("0"),
	// color & background
	"color":                 inh(col("black")),
	"background-color":      col("transparent"),
	"background-image":      txt("none"),
	"background-size":       enum("auto", "auto|cover|contain"),
	"background-repeat":     enum("repeat", "repeat|repeat-x|repeat-y|no-repeat"),
	"background-position":   txt("0% 0%"),
	"background-clip":       enum("border-box", boxKinds),
	"background-origin":     enum("padding-box", boxKinds),
	"background-attachment": enum("scroll", "scroll|fixed|local"),
	// fonts & text
	"font-family": inh(txt("sans-serif")),
	"font-size":   inh(dim("16px")),
	"font-weight": inh(enum("normal",
		"normal|bold|bolder|lighter|100|200|300|400|500|600|700|800|900")),
	"font-style":      enum("normal", "normal|italic|oblique"),
	"font-stretch":    enum("normal", "normal|condensed|expanded"),
	"font-variant":    txt("normal"),
	"line-height":     dim("none"),
	"letter-spacing":  dim("0"),
	"word-spacing":    dim("0"),
	"text-align":      enum("start", "left|right|center|justify|start|end"),
	"text-decoration": enum("none", "none|underline|overline|line-through"),
	"text-transform":  enum("none", "none|capitalize|uppercase|lowercase"),
	"text-overflow":   enum("clip", "clip|ellipsis"),
	"text-indent":     dim("0"),
	"text-shadow":     txt("none"),
	"white-space":     enum("normal", "normal|nowrap|pre|pre-wrap|pre-line"),
	"word-break":      enum("normal", "normal|break-all|keep-all|break-word"),
	"word-wrap":       enum("normal", "normal|break-word"),
	"overflow-wrap":   enum("normal", "normal|break-word|anywhere"),
	"hyphens":         enum("manual", "none|manual|auto"),
	"direction":       enum("ltr", "ltr|rtl"),
	"unicode-bidi":    enum("normal", "normal|embed|isolate|bidi-override"),
	"vertical-align":  txt("baseline"),
	// interaction & effects
	"cursor":          enum("auto", "auto|default|pointer|text|move|grab|not-allowed|crosshair|wait"),
	"outline-width":   dim("medium"),
	"outline-color":   col("transparent"),
	"outline-style":   enum("none", borderStyles),
	"outline-offset":  dim("0"),
	"box-shadow":      txt("none"),
	"content":         txt(""),
	"quotes":          txt("auto"),
	"pointer-events":  enum("auto", "auto|none"),
	"user-select":     enum("auto", "auto|none|text|all"),
	"touch-action":    enum("auto", "auto|none|pan-x|pan-y|manipulation"),
	"resize":          enum("none", "none|both|horizontal|vertical"),
	"transition":      txt("none"),
	"transform":       txt("none"),
	"transform-origin": txt("50% 50%"),
	"animation":       txt("none"),
	"will-change":     txt("auto"),
	"filter":          txt("none"),
	"backdrop-filter": txt("none"),
	"clip-path":       txt("none"),
	"isolation":       enum("auto", "auto|isolate"),
	"mix-blend-mode":  txt("normal"),
	"caret-color":     col("black"),
	"accent-color":    col("black"),
	"scroll-behavior": enum("auto", "auto|smooth"),
	"tab-size":        num("8"),
	// lists, regions, misc
	"list-style-type":     enum("disc", "none|disc|circle|square|decimal"),
	"list-style-position": enum("outside", "inside|outside"),
	"flow-into":           txt("none"),
	"flow-from":           txt("none"),
	"object-fit":          enum("fill", "fill|contain|cover|none|scale-down"),
	"aspect-ratio":        txt("auto"),
	"contain":             txt("none"),
	// scroll margins & padding
	"scroll-margin-top":     dim("0"),
	"scroll-margin-right":   dim("0"),
	"scroll-margin-bottom":  dim("0"),
	"scroll-margin-left":    dim("0"),
	"scroll-padding-top":    dim("auto"),
	"scroll-padding-right":  dim("auto"),
	"scroll-padding-bottom": dim("auto"),
	"scroll-padding-left":   dim("auto"),
}

const (
	borderStyles  = "none|hidden|solid|dashed|dotted|double|groove|ridge|inset|outset"
	overflowKinds = "visible|hidden|scroll|auto"
	boxKinds      = "border-box|padding-box|content-box"
)

// KnownProperty is a predicate wether key is part of the fixed property
// table (shorthands not included).
func KnownProperty(key string) bool {
	_, ok := properties[key]
	return ok
}

// IsInherited is a predicate wether the standard behaviour for a property
// is to be inherited from the parent node's resolved style.
func IsInherited(key string) bool {
	return properties[key].inherited
}

// InitialValue returns the declared default value for a property, or the
// unset value for unknown keys (and for defaults which deliberately have no
// in-memory representation).
func InitialValue(key string) Value {
	defaultsOnce.Do(buildDefaults)
	return defaultValues[key]
}

var (
	defaultsOnce  sync.Once
	defaultValues map[string]Value
)

func buildDefaults() {
	defaultValues = make(map[string]Value, len(properties))
	for key, spec := range properties {
		if v, ok := parseValue(spec, spec.initial); ok && !v.IsUnset() {
			defaultValues[key] = v
		}
	}
}

// parseValue parses a raw declaration value according to the declared kind
// of its property.
func parseValue(spec propSpec, raw string) (Value, bool) {
	raw = strings.TrimSpace(raw)
	switch spec.kind {
	case DimensionKind:
		if raw == "normal" { // line-height et al.
			return Value{}, true
		}
		d, err := ParseDimen(raw)
		if err != nil {
			return Value{}, false
		}
		if d.IsNone() {
			return Value{}, true // 'none' is a valid way of saying unset
		}
		return DimensionValue(d), true
	case ColorKind:
		c, err := ParseColor(raw)
		if err != nil {
			return Value{}, false
		}
		return ColorValue(c), true
	case EnumKind:
		kw := strings.ToLower(raw)
		for _, allowed := range strings.Split(spec.keywords, "|") {
			if kw == allowed {
				return EnumValue(kw), true
			}
		}
		return Value{}, false
	case NumberKind:
		n, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Value{}, false
		}
		return NumberValue(float32(n)), true
	case TextKind:
		return TextValue(raw), true
	}
	return Value{}, false
}

// --- Property Bag -----------------------------------------------------

// PropertyBag holds style property values for the fixed property table.
// The zero value is not usable; create bags with NewPropertyBag. A key
// missing from the bag means "not specified", which is distinct from a key
// carrying its declared default.
type PropertyBag struct {
	values map[string]Value
}

// NewPropertyBag returns a new empty property bag.
func NewPropertyBag() *PropertyBag {
	return &PropertyBag{values: make(map[string]Value)}
}

// Set parses a raw declaration value and stores it under key. Compound
// (shorthand) keys are expanded into their longhand fields. Set returns
// false—without raising an error—for unknown property names and for values
// which do not parse under the property's declared kind; the bag is left
// unchanged in that case. This deliberately permissive behavior lets a
// stylesheet with unsupported declarations style a tree with the rest.
func (bag *PropertyBag) Set(key string, raw string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	raw = strings.TrimSpace(raw)
	if fields, ok := SplitCompoundProperty(key, raw); ok {
		any := false
		for _, kv := range fields {
			if bag.Set(kv.Key, kv.Value) {
				any = true
			}
		}
		return any
	}
	spec, ok := properties[key]
	if !ok {
		tracer().Debugf("unknown style property %q dropped", key)
		return false
	}
	v, ok := parseValue(spec, raw)
	if !ok {
		tracer().Debugf("cannot parse value %q for property %q", raw, key)
		return false
	}
	if v.IsUnset() {
		delete(bag.values, key)
		return true
	}
	bag.values[key] = v
	return true
}

// SetValue stores an already-typed value under key. The value's kind must
// agree with the property's declared kind; SetValue returns false otherwise.
func (bag *PropertyBag) SetValue(key string, v Value) bool {
	spec, ok := properties[key]
	if !ok || spec.kind != v.Kind() {
		return false
	}
	bag.values[key] = v
	return true
}

// Value returns the value stored under key, together with an indicator
// wether the property is set in this bag.
func (bag *PropertyBag) Value(key string) (Value, bool) {
	if bag == nil {
		return Value{}, false
	}
	v, ok := bag.values[key]
	return v, ok
}

// IsSet is a predicate wether a property is set within this bag.
func (bag *PropertyBag) IsSet(key string) bool {
	_, ok := bag.Value(key)
	return ok
}

// Unset removes a property from the bag.
func (bag *PropertyBag) Unset(key string) {
	delete(bag.values, key)
}

// Size returns the number of properties set in this bag.
func (bag *PropertyBag) Size() int {
	if bag == nil {
		return 0
	}
	return len(bag.values)
}

// Keys returns the keys of all set properties, sorted.
func (bag *PropertyBag) Keys() []string {
	keys := make([]string, 0, len(bag.values))
	for k := range bag.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add transfers property values from another bag, on a per-field basis.
// Values already set in this bag are kept, i.e., Add does nothing for
// fields the receiving bag already carries. The cascade merges declaration
// bags in descending precedence order with exactly this operation.
func (bag *PropertyBag) Add(other *PropertyBag) *PropertyBag {
	if other == nil {
		return bag
	}
	for k, v := range other.values {
		if _, exists := bag.values[k]; !exists {
			bag.values[k] = v
		}
	}
	return bag
}

// From makes this bag a full copy of another bag, dropping all previously
// held values.
func (bag *PropertyBag) From(other *PropertyBag) *PropertyBag {
	bag.values = make(map[string]Value, other.Size())
	if other != nil {
		for k, v := range other.values {
			bag.values[k] = v
		}
	}
	return bag
}

// Clone returns a fresh copy of this bag.
func (bag *PropertyBag) Clone() *PropertyBag {
	return NewPropertyBag().From(bag)
}

// InheritFrom copies inherited properties (color, font-size, font-family,
// font-weight) from a parent bag into fields still unset in this bag.
func (bag *PropertyBag) InheritFrom(parent *PropertyBag) *PropertyBag {
	if parent == nil {
		return bag
	}
	for k, v := range parent.values {
		if !properties[k].inherited {
			continue
		}
		if _, exists := bag.values[k]; !exists {
			bag.values[k] = v
		}
	}
	return bag
}

// FillDefaults sets every property of the fixed table which is still unset
// to its declared default value.
func (bag *PropertyBag) FillDefaults() *PropertyBag {
	defaultsOnce.Do(buildDefaults)
	for k, v := range defaultValues {
		if _, exists := bag.values[k]; !exists {
			bag.values[k] = v
		}
	}
	return bag
}

// Equal compares two bags field by field.
func (bag *PropertyBag) Equal(other *PropertyBag) bool {
	if bag.Size() != other.Size() {
		return false
	}
	if bag == nil || other == nil {
		return bag.Size() == other.Size()
	}
	for k, v := range bag.values {
		w, ok := other.values[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

func (bag *PropertyBag) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, k := range bag.Keys() {
		v := bag.values[k]
		b.WriteString("  " + k + ": " + v.String() + ";\n")
	}
	b.WriteString("}")
	return b.String()
}

// --- Typed accessors ---------------------------------------------------

// Dimension returns the dimension stored under key, or an unset dimension.
func (bag *PropertyBag) Dimension(key string) DimenT {
	if v, ok := bag.Value(key); ok {
		if d, ok := v.Dimension(); ok {
			return d
		}
	}
	return DimenT{}
}

// Keyword returns the enum keyword stored under key, or "".
func (bag *PropertyBag) Keyword(key string) string {
	if v, ok := bag.Value(key); ok {
		return v.Keyword()
	}
	return ""
}

// Number returns the number stored under key, or a fallback.
func (bag *PropertyBag) Number(key string, fallback float32) float32 {
	if v, ok := bag.Value(key); ok {
		if n, ok := v.Number(); ok {
			return n
		}
	}
	return fallback
}

// --- Layout-affecting classification -----------------------------------

var layoutAffecting = map[string]bool{
	"display": true, "position": true, "overflow": true,
	"top": true, "right": true, "bottom": true, "left": true,
	"width": true, "height": true,
	"min-width": true, "min-height": true, "max-width": true, "max-height": true,
	"justify-content": true, "align-items": true, "align-self": true,
	"align-content": true, "order": true, "row-gap": true, "column-gap": true,
}

// IsLayoutAffecting is a predicate wether a change of the property's value
// requires the external layout engine to recompute geometry.
func IsLayoutAffecting(key string) bool {
	if layoutAffecting[key] {
		return true
	}
	for _, prefix := range []string{"margin-", "padding-", "flex-"} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return strings.HasPrefix(key, "border-") && strings.HasSuffix(key, "-width")
}

// LayoutEqual compares only the layout-affecting fields of two bags.
func (bag *PropertyBag) LayoutEqual(other *PropertyBag) bool {
	return layoutSubsetContained(bag, other) && layoutSubsetContained(other, bag)
}

func layoutSubsetContained(a, b *PropertyBag) bool {
	if a == nil {
		return true
	}
	for k, v := range a.values {
		if !IsLayoutAffecting(k) {
			continue
		}
		w, ok := b.Value(k)
		if !ok || v != w {
			return false
		}
	}
	return true
}
