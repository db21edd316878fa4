package obj

import (
	"github.com/ksoft/optiobj/pkg/dedup"
	"github.com/ksoft/optiobj/pkg/geometry"
)

// Absent marks a UV or normal index that a face vertex does not reference
const Absent = -1

// DefaultMaterial is the group name of faces read before any usemtl
const DefaultMaterial = ""

// VertexRef holds zero-based occurrence indices into the attribute streams
type VertexRef struct {
	Position int
	UV       int
	Normal   int
}

// HasUV reports whether the vertex references a texture coordinate
func (r VertexRef) HasUV() bool {
	return r.UV != Absent
}

// HasNormal reports whether the vertex references a normal
func (r VertexRef) HasNormal() bool {
	return r.Normal != Absent
}

// Face is an ordered polygon of vertex references
type Face struct {
	Vertices []VertexRef
}

// MaterialGroup holds the faces assigned to one material, in file order
type MaterialGroup struct {
	Material string
	Faces    []Face
}

// PositionTable deduplicates positions and normals
type PositionTable = dedup.Table[geometry.Vector3Key, geometry.Vector3]

// UVTable deduplicates texture coordinates
type UVTable = dedup.Table[geometry.Vector2Key, geometry.Vector2]

// Model is the deduplicated in-memory form of an OBJ file
type Model struct {
	MaterialLib    string
	HasMaterialLib bool

	Positions *PositionTable
	UVs       *UVTable
	Normals   *PositionTable

	// Ignored counts lines with an unsupported directive
	Ignored int

	groups     []*MaterialGroup
	groupIndex map[string]int
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{
		Positions:  dedup.NewTable[geometry.Vector3Key, geometry.Vector3](),
		UVs:        dedup.NewTable[geometry.Vector2Key, geometry.Vector2](),
		Normals:    dedup.NewTable[geometry.Vector3Key, geometry.Vector3](),
		groups:     make([]*MaterialGroup, 0),
		groupIndex: make(map[string]int),
	}
}

// SetMaterialLib records the material library reference. Later calls overwrite earlier ones.
func (m *Model) SetMaterialLib(name string) {
	m.MaterialLib = name
	m.HasMaterialLib = true
}

// AddFace appends a face to the group of the given material, creating the group on first use
func (m *Model) AddFace(material string, face Face) {
	idx, ok := m.groupIndex[material]
	if !ok {
		idx = len(m.groups)
		m.groups = append(m.groups, &MaterialGroup{Material: material})
		m.groupIndex[material] = idx
	}
	group := m.groups[idx]
	group.Faces = append(group.Faces, face)
}

// Groups returns the material groups in first-seen order
func (m *Model) Groups() []*MaterialGroup {
	return m.groups
}

// FaceCount returns the number of faces across all groups
func (m *Model) FaceCount() int {
	count := 0
	for _, g := range m.groups {
		count += len(g.Faces)
	}
	return count
}

// VertexRefCount returns the number of face-vertex references across all faces
func (m *Model) VertexRefCount() int {
	count := 0
	for _, g := range m.groups {
		for _, f := range g.Faces {
			count += len(f.Vertices)
		}
	}
	return count
}
