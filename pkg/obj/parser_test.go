package obj

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksoft/optiobj/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeFragment = `# exported by a modeling tool
mtllib cube.mtl
o Cube
v 0 0 0
v 1 1 1
v 0 0 0
v 1 1 1
v 0.0 0.0 0.0
vt 0.5 0.5
vt 0.5 0.5
vn 0 0 1
vn 0 0 1
s off
usemtl Red
f 1/1/1 2/2/2 3/1/1
f 4//2 5//1 1//2
`

func TestReadDeduplicates(t *testing.T) {
	model, err := Read(strings.NewReader(cubeFragment))
	require.NoError(t, err)

	assert.True(t, model.HasMaterialLib)
	assert.Equal(t, "cube.mtl", model.MaterialLib)

	assert.Equal(t, 5, model.Positions.Occurrences())
	assert.Equal(t, 2, model.Positions.Len())
	assert.Equal(t, 2, model.UVs.Occurrences())
	assert.Equal(t, 1, model.UVs.Len())
	assert.Equal(t, 2, model.Normals.Occurrences())
	assert.Equal(t, 1, model.Normals.Len())

	// "o Cube" and "s off"
	assert.Equal(t, 2, model.Ignored)
}

func TestReadFaces(t *testing.T) {
	model, err := Read(strings.NewReader(cubeFragment))
	require.NoError(t, err)

	groups := model.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Red", groups[0].Material)
	require.Len(t, groups[0].Faces, 2)

	assert.Equal(t, []VertexRef{
		{Position: 0, UV: 0, Normal: 0},
		{Position: 1, UV: 1, Normal: 1},
		{Position: 2, UV: 0, Normal: 0},
	}, groups[0].Faces[0].Vertices)

	assert.Equal(t, []VertexRef{
		{Position: 3, UV: Absent, Normal: 1},
		{Position: 4, UV: Absent, Normal: 0},
		{Position: 0, UV: Absent, Normal: 1},
	}, groups[0].Faces[1].Vertices)

	assert.Equal(t, 2, model.FaceCount())
	assert.Equal(t, 6, model.VertexRefCount())
}

func TestReadVertexRefShapes(t *testing.T) {
	tests := []struct {
		token    string
		expected VertexRef
	}{
		{"3", VertexRef{Position: 2, UV: Absent, Normal: Absent}},
		{"3/4", VertexRef{Position: 2, UV: 3, Normal: Absent}},
		{"3//5", VertexRef{Position: 2, UV: Absent, Normal: 4}},
		{"3/4/5", VertexRef{Position: 2, UV: 3, Normal: 4}},
		{"3/", VertexRef{Position: 2, UV: Absent, Normal: Absent}},
		{"3/4/", VertexRef{Position: 2, UV: 3, Normal: Absent}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			ref, err := parseVertexRef(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestReadPolygonOrder(t *testing.T) {
	model, err := Read(strings.NewReader("f 6 5 4 3 2 1\n"))
	require.NoError(t, err)

	face := model.Groups()[0].Faces[0]
	require.Len(t, face.Vertices, 6)
	for i, v := range face.Vertices {
		assert.Equal(t, 5-i, v.Position)
	}
}

func TestReadMaterialGroups(t *testing.T) {
	input := `f 1 2 3
usemtl B
f 1 2 3
usemtl A
f 1 2 3
usemtl B
f 3 2 1
usemtl
f 1 2 3
`
	model, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	var names []string
	for _, g := range model.Groups() {
		names = append(names, g.Material)
	}
	// "usemtl" without a trailing space is not a directive, so the last face stays in B
	assert.Equal(t, []string{"", "B", "A"}, names)

	groups := model.Groups()
	assert.Len(t, groups[0].Faces, 1)
	assert.Len(t, groups[1].Faces, 3)
	assert.Len(t, groups[2].Faces, 1)
	assert.Equal(t, 2, groups[1].Faces[1].Vertices[0].Position)
}

func TestReadBareUseMtlKeepsCurrentMaterial(t *testing.T) {
	input := `usemtl B
f 1 2 3
usemtl A
f 1 2 3
usemtl
f 3 2 1
`
	model, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	groups := model.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[1].Material)
	require.Len(t, groups[1].Faces, 2)
	assert.Equal(t, 2, groups[1].Faces[1].Vertices[0].Position)
	assert.Equal(t, 1, model.Ignored)
}

func TestReadByteOrderMark(t *testing.T) {
	model, err := Read(strings.NewReader("\ufeffv 9 9 9\nv 0 0 0\nv 1 0 0\nf 1 2 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, model.Positions.Occurrences())
	assert.Equal(t, 0, model.Ignored)
	assert.True(t, model.Positions.Values()[0].Equal(geometry.NewVector3(9, 9, 9)))

	model, err = Read(strings.NewReader("\ufeffmtllib scene.mtl\n"))
	require.NoError(t, err)
	assert.True(t, model.HasMaterialLib)
	assert.Equal(t, "scene.mtl", model.MaterialLib)

	// Only a leading mark is stripped
	model, err = Read(strings.NewReader("v 0 0 0\n\ufeffv 1 1 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, model.Positions.Occurrences())
	assert.Equal(t, 1, model.Ignored)
}

func TestReadOutOfRangeFloat(t *testing.T) {
	model, err := Read(strings.NewReader("v 1e39 -1e39 0\n"))
	require.NoError(t, err)

	v := model.Positions.Values()[0]
	assert.True(t, math.IsInf(float64(v.X()), 1))
	assert.True(t, math.IsInf(float64(v.Y()), -1))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model))
	assert.Contains(t, buf.String(), "v +Inf -Inf 0\n")

	reread, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, reread.Positions.Values()[0].Equal(v))
}

func TestReadMaterialLibLastWins(t *testing.T) {
	model, err := Read(strings.NewReader("mtllib first.mtl\nmtllib second.mtl\n"))
	require.NoError(t, err)

	assert.True(t, model.HasMaterialLib)
	assert.Equal(t, "second.mtl", model.MaterialLib)
}

func TestReadWhitespace(t *testing.T) {
	input := "   v  1\t2   3   \n\t# comment\n\n   \nvt\t0.5 0.5\nv\t1 2 3\n"
	model, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, model.Positions.Len())
	assert.True(t, model.Positions.Values()[0].Equal(geometry.NewVector3(1, 2, 3)))
	// Directives separated from their arguments by a tab are not recognized
	assert.Equal(t, 0, model.UVs.Occurrences())
	assert.Equal(t, 2, model.Ignored)
}

func TestReadExtraComponentsIgnored(t *testing.T) {
	model, err := Read(strings.NewReader("v 1 2 3 1.0 0.5 0.5 0.5\nvt 0.1 0.2 0.0\n"))
	require.NoError(t, err)

	assert.True(t, model.Positions.Values()[0].Equal(geometry.NewVector3(1, 2, 3)))
	assert.True(t, model.UVs.Values()[0].Equal(geometry.NewVector2(0.1, 0.2)))
}

func TestReadEmpty(t *testing.T) {
	model, err := Read(strings.NewReader("# nothing here\n\n"))
	require.NoError(t, err)

	assert.False(t, model.HasMaterialLib)
	assert.Equal(t, 0, model.Positions.Len())
	assert.Empty(t, model.Groups())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		err   error
	}{
		{"vertex too short", "v 1 2\n", 1, ErrMalformedVertex},
		{"vertex not a float", "v 1 2 x\n", 1, ErrMalformedVertex},
		{"uv too short", "vt 1\n", 1, ErrMalformedVertex},
		{"normal not a float", "v 1 2 3\nvn 0 1 one\n", 2, ErrMalformedVertex},
		{"face missing position", "f 1 /2 3\n", 1, ErrMalformedFace},
		{"face not an integer", "f 1 2 x\n", 1, ErrMalformedFace},
		{"face uv not an integer", "f 1 2/a 3\n", 1, ErrMalformedFace},
		{"face too many slashes", "f 1 2 3/1/1/1\n", 1, ErrMalformedFace},
		{"face too few vertices", "f 1 2\n", 1, ErrMalformedFace},
		{"face negative index", "v 0 0 0\nf -1 -2 -3\n", 2, ErrUnsupportedIndexForm},
		{"face zero index", "f 0 1 2\n", 1, ErrUnsupportedIndexForm},
		{"face negative normal", "f 1//-1 2 3\n", 1, ErrUnsupportedIndexForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "expected %v, got %v", tt.err, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	require.NoError(t, os.WriteFile(path, []byte(cubeFragment), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 2, model.Positions.Len())
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.obj"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
}
