package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/ksoft/optiobj/pkg/geometry"
)

const (
	prefixMtlLib = "mtllib "
	prefixVertex = "v "
	prefixUV     = "vt "
	prefixNormal = "vn "
	prefixUseMtl = "usemtl "
	prefixFace   = "f "
)

// byteOrderMark is dropped from the start of the first line
const byteOrderMark = "\ufeff"

// maxLineSize bounds a single line; large n-gons produce long face lines
const maxLineSize = 16 * 1024 * 1024

// Parse reads an OBJ file and returns the deduplicated Model
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses OBJ text from reader in a single forward pass
func Read(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	p := &parser{model: NewModel(), material: DefaultMaterial}

	for scanner.Scan() {
		p.line++
		text := scanner.Text()
		if p.line == 1 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}
		if err := p.parseLine(text); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	return p.model, nil
}

// parser holds the state of one forward pass
type parser struct {
	model    *Model
	material string
	line     int
}

func (p *parser) parseLine(raw string) error {
	line := strings.TrimSpace(raw)
	if len(line) == 0 || line[0] == '#' {
		return nil
	}

	switch {
	case strings.HasPrefix(line, prefixMtlLib):
		p.model.SetMaterialLib(line[len(prefixMtlLib):])

	case strings.HasPrefix(line, prefixVertex):
		v, err := parseVector3(line[len(prefixVertex):])
		if err != nil {
			return p.fail(line, err)
		}
		p.model.Positions.Intern(v)

	case strings.HasPrefix(line, prefixUV):
		fields := splitFields(line[len(prefixUV):])
		c, err := parseFloats(fields, 2)
		if err != nil {
			return p.fail(line, err)
		}
		p.model.UVs.Intern(geometry.NewVector2(c[0], c[1]))

	case strings.HasPrefix(line, prefixNormal):
		v, err := parseVector3(line[len(prefixNormal):])
		if err != nil {
			return p.fail(line, err)
		}
		p.model.Normals.Intern(v)

	case strings.HasPrefix(line, prefixUseMtl):
		p.material = line[len(prefixUseMtl):]

	case strings.HasPrefix(line, prefixFace):
		face, err := parseFace(line[len(prefixFace):])
		if err != nil {
			return p.fail(line, err)
		}
		p.model.AddFace(p.material, face)

	default:
		p.model.Ignored++
	}

	return nil
}

func (p *parser) fail(line string, err error) error {
	return &ParseError{Line: p.line, Text: line, Err: err}
}

// splitFields splits on runs of spaces and tabs
func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}

func parseVector3(s string) (geometry.Vector3, error) {
	c, err := parseFloats(splitFields(s), 3)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// parseFloats parses the first n fields as float32; extra fields are ignored.
// Values beyond the float32 range become infinities.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrMalformedVertex, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedVertex, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseFace(s string) (Face, error) {
	tokens := splitFields(s)
	if len(tokens) < 3 {
		return Face{}, fmt.Errorf("%w: expected at least 3 vertices, got %d", ErrMalformedFace, len(tokens))
	}

	face := Face{Vertices: make([]VertexRef, 0, len(tokens))}
	for _, token := range tokens {
		ref, err := parseVertexRef(token)
		if err != nil {
			return Face{}, err
		}
		face.Vertices = append(face.Vertices, ref)
	}
	return face, nil
}

// parseVertexRef parses p, p/t, p//n or p/t/n into zero-based indices
func parseVertexRef(token string) (VertexRef, error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 {
		return VertexRef{}, fmt.Errorf("%w: too many components in %q", ErrMalformedFace, token)
	}
	if parts[0] == "" {
		return VertexRef{}, fmt.Errorf("%w: missing position in %q", ErrMalformedFace, token)
	}

	ref := VertexRef{UV: Absent, Normal: Absent}

	var err error
	if ref.Position, err = parseIndex(parts[0]); err != nil {
		return VertexRef{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.UV, err = parseIndex(parts[1]); err != nil {
			return VertexRef{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.Normal, err = parseIndex(parts[2]); err != nil {
			return VertexRef{}, err
		}
	}
	return ref, nil
}

// parseIndex converts a positive 1-based index to zero-based
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedFace, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: index %d", ErrUnsupportedIndexForm, n)
	}
	return n - 1, nil
}
