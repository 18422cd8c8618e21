package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders the subtree rooted at sn as an indented ASCII tree, for
// debugging and test output.
func (sn *StyNode) Dump() string {
	if sn == nil {
		return "<nil>"
	}
	tp := treeprint.NewWithRoot(label(sn))
	dumpChildren(tp, sn)
	return tp.String()
}

func dumpChildren(tp treeprint.Tree, sn *StyNode) {
	for _, ch := range sn.Children() {
		c := Node(ch)
		branch := tp.AddBranch(label(c))
		dumpChildren(branch, c)
	}
}

func label(sn *StyNode) string {
	var b strings.Builder
	if sn.element == "" {
		b.WriteString("*")
	} else {
		b.WriteString(sn.element)
	}
	if sn.id != "" {
		b.WriteString("#")
		b.WriteString(sn.id)
	}
	for _, class := range sn.classes {
		b.WriteString(".")
		b.WriteString(class)
	}
	if sn.styleDirty {
		b.WriteString(" (style-dirty)")
	}
	if sn.LayoutDirty() {
		b.WriteString(" (layout-dirty)")
	}
	return b.String()
}
