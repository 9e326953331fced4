package torus

// Toroidal 3D lattice with wraparound addressing on every axis.
// Wrapping eliminates boundary edge cases: every integer coordinate maps to
// exactly one of Size^3 cells.

const (
	// Size is the grid dimension per axis. Every fixed pool in the kernel is
	// sized against Size^3, so changing it means rebuilding all bounded
	// structures that index the lattice.
	Size = 32

	// LatticeSize is the total cell count (Size^3).
	LatticeSize = Size * Size * Size
)

// Coord is a wrapped lattice coordinate. Each axis is in [0, Size).
// Construct via Wrap or FromIndex; a zero Coord is the origin cell.
type Coord struct {
	X, Y, Z int32
}

// Wrap maps arbitrary integer coordinates onto the lattice using a
// mathematical (non-negative) modulo, so negative inputs wrap correctly.
func Wrap(x, y, z int32) Coord {
	return Coord{wrapAxis(x), wrapAxis(y), wrapAxis(z)}
}

func wrapAxis(v int32) int32 {
	return ((v % Size) + Size) % Size
}

// Index returns the flat node id of a wrapped coordinate, in [0, LatticeSize).
// The encoding is x*1024 + y*32 + z and is part of the external contract:
// process ids handed out by the kernel are node ids under this mapping.
func (c Coord) Index() uint32 {
	return uint32(c.X)*Size*Size + uint32(c.Y)*Size + uint32(c.Z)
}

// FromIndex decodes a flat node id back into its lattice coordinate.
// The id is wrapped into range first, so any uint32 is accepted.
func FromIndex(node uint32) Coord {
	node %= LatticeSize
	return Coord{
		X: int32(node / (Size * Size)),
		Y: int32((node / Size) % Size),
		Z: int32(node % Size),
	}
}

// Valid reports whether node is a representable cell id.
func Valid(node uint32) bool {
	return node < LatticeSize
}

// Offset returns the cell at c translated by (dx,dy,dz), wrapped.
func (c Coord) Offset(dx, dy, dz int32) Coord {
	return Wrap(c.X+dx, c.Y+dy, c.Z+dz)
}

// Neighbors returns the 26-connected Moore neighborhood of c, each wrapped.
// The order is deterministic: dx, then dy, then dz, ascending, with the
// center cell skipped.
func (c Coord) Neighbors() [26]Coord {
	var out [26]Coord
	i := 0
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out[i] = c.Offset(dx, dy, dz)
				i++
			}
		}
	}
	return out
}
