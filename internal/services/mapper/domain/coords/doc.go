// Package coords maps grid cells to screen positions and back.
//
// Map coordinates address grid cells with (0,0) at the top-left corner of the
// stored grid. Screen coordinates are in cell units: a renderer multiplies them
// by its tile size. The origin corner decides which stored cell is displayed
// first on each axis, and offset and margin translate the result.
package coords
