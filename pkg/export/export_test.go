package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanrig/carve/pkg/mesh"
)

func testMesh() *mesh.Mesh {
	triangles := []*sdf.Triangle3{
		{v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1}},
	}
	return &mesh.Mesh{
		Triangles: triangles,
		Normals:   mesh.SurfaceNormals(triangles),
	}
}

func TestWriteOBJEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteOBJ(&buf, &mesh.Mesh{}), ErrEmptyMesh)
	assert.ErrorIs(t, WriteOBJ(&buf, nil), ErrEmptyMesh)
	assert.Zero(t, buf.Len(), "nothing may be written on a failed precondition")
}

func TestWriteOBJNormalCountMismatch(t *testing.T) {
	m := testMesh()
	m.Normals = m.Normals[:2]
	var buf bytes.Buffer
	assert.Error(t, WriteOBJ(&buf, m))
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, testMesh()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"v 0 0 0",
		"v 1 0 0",
		"v 0 1 0",
		"vn 0 0 1",
		"vn 0 0 1",
		"vn 0 0 1",
		"f 1//1 2//2 3//3",
	}
	assert.Equal(t, want, lines)
}

func TestToDiskEmptyMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hull.obj")
	assert.ErrorIs(t, ToDisk(path, &mesh.Mesh{}), ErrEmptyMesh)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file may be created for an empty mesh")
}

func TestToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hull.obj")
	require.NoError(t, ToDisk(path, testMesh()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "v 1 0 0\n")
	assert.Contains(t, string(data), "f 1//1 2//2 3//3\n")
}
