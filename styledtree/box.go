package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Box is a node's computed geometry, in absolute coordinates relative
// to the tree root's origin. Padding insets the border box to the
// content box. Boxes are written by the layout pass and consumed by
// painting and hit-testing.
type Box struct {
	X, Y          float32
	Width, Height float32
	Padding       [4]float32 // top, right, bottom, left
}

// Right returns the x coordinate of the box's right edge.
func (b Box) Right() float32 {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the box's bottom edge.
func (b Box) Bottom() float32 {
	return b.Y + b.Height
}

// InnerBox returns the box inset by its padding.
func (b Box) InnerBox() Box {
	return Box{
		X:      b.X + b.Padding[3],
		Y:      b.Y + b.Padding[0],
		Width:  b.Width - b.Padding[3] - b.Padding[1],
		Height: b.Height - b.Padding[0] - b.Padding[2],
	}
}

// Contains is a predicate wether a point lies within the box.
func (b Box) Contains(x, y float32) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Box returns the node's geometry as of the last layout pass.
func (sn *StyNode) Box() Box {
	return sn.box
}

// SetBox commits a node's geometry, called by the layout pass when
// pulling results back from the engine.
func (sn *StyNode) SetBox(box Box) {
	sn.box = box
}
