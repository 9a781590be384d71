package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/extfaces/mesh"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*mesh.Grid, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".su2":
		return ReadSU2(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
