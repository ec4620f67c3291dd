// Package layout assigns screen coordinates to every node of a mind map.
//
// # Algorithm
//
// [Compute] walks the tree depth-first in pre-order. A node's children are
// placed one column to the right (Options.ColumnOffset) and stacked
// vertically one row apart (Options.RowHeight). Every subtree reserves a
// vertical band of
//
//	max(1, descendantCount) * RowHeight
//
// where descendantCount counts nodes at every depth below it. The bands of a
// node's children are laid end to end, so each child's band starts where the
// previous sibling's band ends, and the whole group is centered on the
// parent's row. A child box is centered in its own band. The reservation is a
// coarse upper bound rather than a tight bounding-box packing: deep subtrees
// get more room than they strictly need.
//
// With only leaf children the band of a node with k children is exactly
// k*RowHeight and child i sits at parentY - band/2 + i*RowHeight (measured
// between row centers).
//
// # Strategies
//
//   - [StrategyBanded] (default): the algorithm above. Sibling bands never
//     overlap and every descendant lies inside its ancestors' bands.
//   - [StrategyClassic]: children of a node start at
//     y - k*RowHeight/2 + RowHeight/2 and are shifted by the reserved height
//     of the node's own earlier siblings. It reproduces an older placement
//     and does not guarantee the no-overlap property.
//
// # Connectors
//
// Each child gets a straight [Link] from the right-center of the parent box
// to the left-center of the child box.
//
// # Failure Semantics
//
// Layout never fails. The tree model cannot express cycles, so none are
// guarded against.
package layout
