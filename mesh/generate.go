package mesh

import (
	"fmt"
	"strconv"
	"strings"
)

// GridKind selects the cell shape of a generated structured grid
type GridKind uint8

const (
	HexGrid   GridKind = iota
	TetGrid            // Kuhn subdivision, 6 tets per hex
	WedgeGrid          // 2 wedges per hex, split along the xy diagonal
)

func (k GridKind) String() string {
	return [...]string{"hex", "tet", "wedge"}[k]
}

func ParseGridKind(s string) (GridKind, error) {
	switch strings.ToLower(s) {
	case "hex":
		return HexGrid, nil
	case "tet":
		return TetGrid, nil
	case "wedge":
		return WedgeGrid, nil
	}
	return 0, fmt.Errorf("unknown grid kind %q, want hex, tet or wedge", s)
}

// GridSpec describes a unit cube split into Nx*Ny*Nz blocks
type GridSpec struct {
	Kind       GridKind
	Nx, Ny, Nz int
}

// ParseGridSpec reads "kind:NXxNYxNZ", for example "tet:10x10x4"
func ParseGridSpec(spec string) (gs GridSpec, err error) {
	kind, dims, found := strings.Cut(spec, ":")
	if !found {
		return gs, fmt.Errorf("grid spec %q is not of the form kind:NXxNYxNZ", spec)
	}
	if gs.Kind, err = ParseGridKind(kind); err != nil {
		return
	}
	fields := strings.Split(strings.ToLower(dims), "x")
	if len(fields) != 3 {
		return gs, fmt.Errorf("grid spec %q needs three dimensions", spec)
	}
	var n [3]int
	for i, f := range fields {
		if n[i], err = strconv.Atoi(f); err != nil {
			return gs, fmt.Errorf("grid spec %q: %v", spec, err)
		}
		if n[i] < 1 {
			return gs, fmt.Errorf("grid spec %q: dimension %d must be at least 1", spec, n[i])
		}
	}
	gs.Nx, gs.Ny, gs.Nz = n[0], n[1], n[2]
	return
}

func (gs GridSpec) String() string {
	return fmt.Sprintf("%s:%dx%dx%d", gs.Kind, gs.Nx, gs.Ny, gs.Nz)
}

// NumBlocks is the number of hexahedral blocks before any subdivision
func (gs GridSpec) NumBlocks() int { return gs.Nx * gs.Ny * gs.Nz }

// NewStructuredGrid builds the grid over [0,1]^3
func NewStructuredGrid(gs GridSpec) *Grid {
	var (
		nx, ny, nz = gs.Nx, gs.Ny, gs.Nz
		np         = (nx + 1) * (ny + 1) * (nz + 1)
		pt         = func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
		coords     = make([][3]float64, np)
	)
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				coords[pt(i, j, k)] = [3]float64{
					float64(i) / float64(nx),
					float64(j) / float64(ny),
					float64(k) / float64(nz),
				}
			}
		}
	}
	cellsPerBlock := [...]int{1, 6, 2}[gs.Kind]
	b := NewCellSetBuilder(gs.NumBlocks() * cellsPerBlock)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				// Block corner c has bit 0 in x, bit 1 in y, bit 2 in z
				var c [8]int
				for bits := 0; bits < 8; bits++ {
					c[bits] = pt(i+bits&1, j+(bits>>1)&1, k+(bits>>2)&1)
				}
				switch gs.Kind {
				case HexGrid:
					b.AddCell(Hex, c[0], c[1], c[3], c[2], c[4], c[5], c[7], c[6])
				case TetGrid:
					// Walk from corner 0 to corner 7 along each axis ordering
					for _, axes := range [6][3]int{
						{1, 2, 4}, {1, 4, 2}, {2, 1, 4}, {2, 4, 1}, {4, 1, 2}, {4, 2, 1},
					} {
						b.AddCell(Tet, c[0], c[axes[0]], c[axes[0]|axes[1]], c[7])
					}
				case WedgeGrid:
					b.AddCell(Wedge, c[0], c[1], c[3], c[4], c[5], c[7])
					b.AddCell(Wedge, c[0], c[3], c[2], c[4], c[7], c[6])
				}
			}
		}
	}
	return &Grid{
		Coordinates: coords,
		Cells:       b.Build(np),
	}
}

// ExpectedBoundaryFaces is the number of external faces of the generated
// grid, counted from its geometry alone
func (gs GridSpec) ExpectedBoundaryFaces() (triangles, quads int) {
	var (
		xy = gs.Nx * gs.Ny
		yz = gs.Ny * gs.Nz
		xz = gs.Nx * gs.Nz
	)
	switch gs.Kind {
	case HexGrid:
		quads = 2 * (xy + yz + xz)
	case TetGrid:
		triangles = 4 * (xy + yz + xz)
	case WedgeGrid:
		triangles = 4 * xy
		quads = 2 * (yz + xz)
	}
	return
}
