package analysis

import (
	"fmt"
	"io"

	"github.com/ksoft/optiobj/pkg/dedup"
	"github.com/ksoft/optiobj/pkg/obj"
)

// Report summarizes how much an OBJ model was reduced by deduplication
type Report struct {
	Positions dedup.Stats
	UVs       dedup.Stats
	Normals   dedup.Stats

	FaceCount      int
	VertexRefCount int
	GroupCount     int
	IgnoredLines   int
	MaterialLib    string
}

// AnalyzeModel collects the occurrence and unique counts of a parsed model
func AnalyzeModel(model *obj.Model) *Report {
	return &Report{
		Positions:      model.Positions.Stats(),
		UVs:            model.UVs.Stats(),
		Normals:        model.Normals.Stats(),
		FaceCount:      model.FaceCount(),
		VertexRefCount: model.VertexRefCount(),
		GroupCount:     len(model.Groups()),
		IgnoredLines:   model.Ignored,
		MaterialLib:    model.MaterialLib,
	}
}

// TotalRemoved returns the number of attribute lines removed across all streams
func (r *Report) TotalRemoved() int {
	return r.Positions.Removed() + r.UVs.Removed() + r.Normals.Removed()
}

// FormatCountLine formats one stream as "label: occurrences -> unique (-removed)"
func FormatCountLine(label string, s dedup.Stats) string {
	return fmt.Sprintf("  %-9s: %d -> %d (-%d)", label, s.Occurrences, s.Unique, s.Removed())
}

// WriteSummary prints the optimization report
func WriteSummary(w io.Writer, r *Report) {
	fmt.Fprintln(w, "== Optimization Report ==")
	fmt.Fprintln(w, FormatCountLine("Positions", r.Positions))
	fmt.Fprintln(w, FormatCountLine("UVs", r.UVs))
	fmt.Fprintln(w, FormatCountLine("Normals", r.Normals))
}

// WriteDetails prints the model statistics shown by the info command
func WriteDetails(w io.Writer, r *Report) {
	fmt.Fprintln(w, "Model Statistics:")
	fmt.Fprintf(w, "  Faces: %d\n", r.FaceCount)
	fmt.Fprintf(w, "  Face vertices: %d\n", r.VertexRefCount)
	fmt.Fprintf(w, "  Material groups: %d\n", r.GroupCount)
	if r.MaterialLib != "" {
		fmt.Fprintf(w, "  Material library: %s\n", r.MaterialLib)
	}
	if r.IgnoredLines > 0 {
		fmt.Fprintf(w, "  Ignored lines: %d\n", r.IgnoredLines)
	}
}
