package optimizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ksoft/optiobj/pkg/analysis"
	"github.com/ksoft/optiobj/pkg/obj"
)

// OutputSuffix is inserted between the input base name and the extension
const OutputSuffix = "_opti"

// Options configures one optimization run
type Options struct {
	Input string
	// Output defaults to OutputPath(Input)
	Output string
}

// Result describes a completed optimization run
type Result struct {
	Input     string
	Output    string
	Report    *analysis.Report
	ParseTime time.Duration
	TotalTime time.Duration
}

// OutputPath returns the optimized file path next to the input, e.g. dir/mesh.OBJ -> dir/mesh_opti.obj
func OutputPath(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), name+OutputSuffix+".obj")
}

// Optimize parses opts.Input, deduplicates it and writes the optimized file.
// The input file is never modified.
func Optimize(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	if err := checkInput(opts.Input); err != nil {
		return nil, err
	}

	output := opts.Output
	if output == "" {
		output = OutputPath(opts.Input)
	}
	if err := checkOutput(opts.Input, output); err != nil {
		return nil, err
	}

	model, err := obj.Parse(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", opts.Input, err)
	}
	parseTime := time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := obj.WriteFile(output, model); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	return &Result{
		Input:     opts.Input,
		Output:    output,
		Report:    analysis.AnalyzeModel(model),
		ParseTime: parseTime,
		TotalTime: time.Since(start),
	}, nil
}

// Inspect parses input and reports its statistics without writing anything
func Inspect(input string) (*analysis.Report, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	model, err := obj.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", input, err)
	}
	return analysis.AnalyzeModel(model), nil
}

// checkInput verifies that input names an existing regular file
func checkInput(input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %s", obj.ErrInputNotFound, input)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", obj.ErrInputNotFound, input)
	}
	return nil
}

// checkOutput refuses to overwrite the input file
func checkOutput(input, output string) error {
	absInput, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", input, err)
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", output, err)
	}
	if absInput == absOutput {
		return fmt.Errorf("%w: output %s would overwrite the input", obj.ErrOutputWrite, output)
	}
	return nil
}
