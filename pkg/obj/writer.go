package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Watermark is the only comment written to optimized files
const Watermark = "# Optimized by KSoft OptiOBJ 1.0"

// OutputVertex holds 1-based storage indices of a face vertex. Zero means absent.
type OutputVertex struct {
	Position int
	UV       int
	Normal   int
}

// Token renders the vertex in the p, p//n, p/t or p/t/n form matching its attributes
func (v OutputVertex) Token() string {
	pos := strconv.Itoa(v.Position)
	switch {
	case v.UV == 0 && v.Normal == 0:
		return pos
	case v.UV == 0:
		return pos + "//" + strconv.Itoa(v.Normal)
	case v.Normal == 0:
		return pos + "/" + strconv.Itoa(v.UV)
	default:
		return pos + "/" + strconv.Itoa(v.UV) + "/" + strconv.Itoa(v.Normal)
	}
}

// OutputGroup is a material group with faces remapped to storage indices
type OutputGroup struct {
	Material string
	Faces    [][]OutputVertex
}

// Remap resolves every face vertex through the redirection lists of the model
func Remap(m *Model) ([]OutputGroup, error) {
	groups := make([]OutputGroup, 0, len(m.Groups()))
	for _, g := range m.Groups() {
		out := OutputGroup{Material: g.Material, Faces: make([][]OutputVertex, 0, len(g.Faces))}
		for fi, face := range g.Faces {
			vertices := make([]OutputVertex, 0, len(face.Vertices))
			for vi, ref := range face.Vertices {
				v, err := remapVertex(m, ref)
				if err != nil {
					return nil, &RemapError{Material: g.Material, Face: fi, Vertex: vi, Err: err}
				}
				vertices = append(vertices, v)
			}
			out.Faces = append(out.Faces, vertices)
		}
		groups = append(groups, out)
	}
	return groups, nil
}

func remapVertex(m *Model, ref VertexRef) (OutputVertex, error) {
	var out OutputVertex

	pos, ok := m.Positions.Resolve(ref.Position)
	if !ok {
		return out, rangeError("position", ref.Position, m.Positions.Occurrences())
	}
	out.Position = pos + 1

	if ref.HasUV() {
		uv, ok := m.UVs.Resolve(ref.UV)
		if !ok {
			return out, rangeError("uv", ref.UV, m.UVs.Occurrences())
		}
		out.UV = uv + 1
	}

	if ref.HasNormal() {
		n, ok := m.Normals.Resolve(ref.Normal)
		if !ok {
			return out, rangeError("normal", ref.Normal, m.Normals.Occurrences())
		}
		out.Normal = n + 1
	}

	return out, nil
}

func rangeError(kind string, index, count int) error {
	return fmt.Errorf("%w: %s index %d out of range (%d defined)", ErrUnsupportedIndexForm, kind, index+1, count)
}

// Write serializes the model as optimized OBJ text
func Write(w io.Writer, m *Model) error {
	groups, err := Remap(m)
	if err != nil {
		return err
	}
	return write(w, m, groups)
}

func write(w io.Writer, m *Model, groups []OutputGroup) error {
	bw := bufio.NewWriter(w)
	writeLine := func(s string) {
		bw.WriteString(s)
		bw.WriteByte('\n')
	}

	writeLine(Watermark)
	if m.HasMaterialLib {
		writeLine(prefixMtlLib + m.MaterialLib)
	}

	for _, v := range m.Positions.Values() {
		writeLine(prefixVertex + formatFloat(v.X()) + " " + formatFloat(v.Y()) + " " + formatFloat(v.Z()))
	}
	for _, v := range m.UVs.Values() {
		writeLine(prefixUV + formatFloat(v.X()) + " " + formatFloat(v.Y()))
	}
	for _, v := range m.Normals.Values() {
		writeLine(prefixNormal + formatFloat(v.X()) + " " + formatFloat(v.Y()) + " " + formatFloat(v.Z()))
	}

	var sb strings.Builder
	for _, g := range groups {
		if g.Material != DefaultMaterial {
			writeLine(prefixUseMtl + g.Material)
		}
		for _, face := range g.Faces {
			sb.Reset()
			sb.WriteString("f")
			for _, v := range face {
				sb.WriteByte(' ')
				sb.WriteString(v.Token())
			}
			writeLine(sb.String())
		}
	}

	return bw.Flush()
}

// WriteFile writes the optimized model to filename, removing the file again if writing fails
func WriteFile(filename string, m *Model) error {
	// Resolve indices before touching the filesystem
	groups, err := Remap(m)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	if err := write(file, m, groups); err != nil {
		file.Close()
		os.Remove(filename)
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(filename)
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	return nil
}

// formatFloat returns the shortest text that parses back to the same float32
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
