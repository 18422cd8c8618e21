package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/flexdom/style"
	"github.com/npillmayer/flexdom/style/selector"
)

// Mode selects the error policy for stylesheet parsing.
type Mode int

const (
	// Permissive drops broken rules with a log entry and keeps going.
	// This is the default policy for styling: a bad rule should not take
	// the rest of the sheet down with it.
	Permissive Mode = iota
	// Strict aborts the parse at the first broken rule.
	Strict
)

// Rule pairs a compiled selector list with a declaration bag. Index is
// the rule's source-order position within its rule set, the cascade's
// tie-break key for rules of equal specificity.
type Rule struct {
	Selectors    []*selector.Selector
	Declarations *style.PropertyBag
	Index        int
}

func (r Rule) String() string {
	sels := make([]string, len(r.Selectors))
	for i, sel := range r.Selectors {
		sels[i] = sel.String()
	}
	return fmt.Sprintf("rule[%d] %s (%d properties)", r.Index,
		strings.Join(sels, ", "), r.Declarations.Size())
}

// RuleSet is an ordered list of rules parsed from one stylesheet
// source, plus the variable table used during parsing. Variables are
// resolved before rule storage and never re-resolved at cascade time.
type RuleSet struct {
	rules []Rule
	vars  map[string]string
}

// Parse parses stylesheet text into a rule set. Variables ($name:
// value; at sheet top level) are extracted first and substituted
// textually into the remaining source, longest variable name first.
//
// In Permissive mode rules with uncompilable selectors are dropped with
// a log entry and an unparsable sheet yields an empty rule set; in
// Strict mode both flag an error. Broken individual declarations are
// always dropped silently (style.PropertyBag.Set logs them), matching
// CSS error-recovery behavior.
func Parse(source string, mode Mode) (*RuleSet, error) {
	vars, stripped := extractVariables(source)
	substituted := substituteVariables(stripped, vars)
	rs := &RuleSet{vars: vars}
	sheet, err := parser.Parse(substituted)
	if err != nil {
		if mode == Strict {
			return nil, fmt.Errorf("cannot parse stylesheet: %w", err)
		}
		tracer().Errorf("cannot parse stylesheet, proceeding without its rules: %v", err)
		return rs, nil
	}
	for _, r := range sheet.Rules {
		if r.Kind != css.QualifiedRule {
			tracer().Infof("skipping unsupported at-rule %q", r.Name)
			continue
		}
		sels, err := selector.CompileList(r.Prelude)
		if err != nil {
			if mode == Strict {
				return nil, err
			}
			tracer().Errorf("dropping rule: %v", err)
			continue
		}
		bag := style.NewPropertyBag()
		for _, d := range r.Declarations {
			if strings.Contains(d.Value, "$") {
				tracer().Infof("unresolved variable in %q: %q", d.Property, d.Value)
			}
			bag.Set(d.Property, d.Value)
		}
		rs.rules = append(rs.rules, Rule{
			Selectors:    sels,
			Declarations: bag,
			Index:        len(rs.rules),
		})
	}
	return rs, nil
}

// ParseInline parses a node's inline declaration text ("width: 10px;
// color: red") into a property bag. Broken declarations are dropped.
func ParseInline(declarations string) *style.PropertyBag {
	bag := style.NewPropertyBag()
	if strings.TrimSpace(declarations) == "" {
		return bag
	}
	decls, err := parser.ParseDeclarations(declarations)
	if err != nil {
		tracer().Errorf("cannot parse inline declarations %q: %v", declarations, err)
		return bag
	}
	for _, d := range decls {
		bag.Set(d.Property, d.Value)
	}
	return bag
}

// Rules returns all the rules of a rule set, in source order.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// Empty checks if this rule set contains any rules.
func (rs *RuleSet) Empty() bool {
	return rs == nil || len(rs.rules) == 0
}

// Append appends rules from another rule set, re-indexing them to keep
// source order continuous.
func (rs *RuleSet) Append(other *RuleSet) {
	if other == nil {
		return
	}
	for _, r := range other.rules {
		r.Index = len(rs.rules)
		rs.rules = append(rs.rules, r)
	}
}

// Variable returns the parse-time value of a $variable, mainly for
// diagnostics.
func (rs *RuleSet) Variable(name string) (string, bool) {
	v, ok := rs.vars[name]
	return v, ok
}

// extractVariables pulls $name: value; lines at sheet top level out of
// the source, returning the variable table and the source without the
// definition lines. Lines inside rule blocks are left alone.
func extractVariables(source string) (map[string]string, string) {
	vars := make(map[string]string)
	var rest strings.Builder
	depth := 0
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if depth == 0 && strings.HasPrefix(trimmed, "$") {
			if name, value, ok := parseVariableLine(trimmed); ok {
				vars[name] = value
				continue
			}
			tracer().Infof("cannot parse variable definition %q", trimmed)
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		rest.WriteString(line)
		rest.WriteString("\n")
	}
	return vars, rest.String()
}

func parseVariableLine(line string) (name string, value string, ok bool) {
	line = strings.TrimPrefix(line, "$")
	name, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";"))
	if name == "" || value == "" {
		return "", "", false
	}
	return name, value, true
}

// substituteVariables replaces $name tokens by textual substring match,
// longest variable name first to avoid partial-name collisions ($color
// must not clobber $colorful).
func substituteVariables(source string, vars map[string]string) string {
	if len(vars) == 0 {
		return source
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		source = strings.ReplaceAll(source, "$"+name, vars[name])
	}
	return source
}
