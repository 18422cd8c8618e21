/*
Package cssom implements rule sets and the cascade for CSS-like styling
of widget trees.

Overview

A RuleSet is an ordered collection of rules, each pairing a selector list
with a declaration bag. Rule sets are parsed from stylesheet text by the
douceur parser, after a simple variable-substitution pass ($name
variables, resolved once at parse time). The Cascader then resolves the
final property bag of a styled node: it collects all rules whose
selectors match the node, ranks them by specificity and source order,
merges their declarations field-wise, applies inline declarations and
inherited properties, and fills the remaining fields with declared
defaults.

Styling is permissive by default: broken declarations and rules are
logged and dropped, and the rest of the sheet proceeds. Callers which
prefer to fail loudly on malformed input parse with mode Strict.

A good explanation of styling may be found in

   https://hacks.mozilla.org/2017/08/inside-a-super-fast-css-engine-quantum-css-aka-stylo/

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'flexdom.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("flexdom.cssom")
}
