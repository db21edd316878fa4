package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ksoft/optiobj/internal/optimizer"
	"github.com/ksoft/optiobj/pkg/analysis"
	"github.com/ksoft/optiobj/pkg/obj"
	"github.com/ksoft/optiobj/pkg/watcher"
	"github.com/ksoft/optiobj/version"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	auto     bool
	quiet    bool
	watch    bool
	output   string
	debounce time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "optiobj <file>",
		Short: "Deduplicate vertex data in Wavefront OBJ files",
		Long: `optiobj removes duplicate positions, texture coordinates and normals from an
OBJ file and rewrites every face to reference the remaining values.

The optimized mesh is written next to the input as <name>_opti.obj.
The original single-dash options -auto and -? are accepted as well.`,
		Version:       version.GetFullVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// Arguments after the input path are ignored
			return runOptimize(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Do not wait for a key press after optimizing")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print errors")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default <name>_opti.obj next to the input)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-optimize whenever the input file changes")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Delay before re-optimizing in watch mode")

	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

func runOptimize(cmd *cobra.Command, input string, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	if opts.quiet {
		out = io.Discard
	}

	fmt.Fprintln(out, version.Banner())

	if opts.watch {
		return runWatch(cmd, input, opts, out)
	}

	if !opts.auto {
		defer waitForKey(cmd, out)
	}

	return optimizeOnce(cmd.Context(), input, opts, out)
}

func optimizeOnce(ctx context.Context, input string, opts *rootOptions, out io.Writer) error {
	fmt.Fprintf(out, "Reading %s\n", input)

	result, err := optimizer.Optimize(ctx, optimizer.Options{Input: input, Output: opts.output})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Done processing, took %dms\n", result.ParseTime.Milliseconds())
	analysis.WriteSummary(out, result.Report)
	fmt.Fprintf(out, "Wrote %s in %dms\n", result.Output, result.TotalTime.Milliseconds())
	fmt.Fprintln(out, "Done!")
	return nil
}

func runWatch(cmd *cobra.Command, input string, opts *rootOptions, out io.Writer) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A broken mesh is reported and watched until it is fixed; anything else ends the run
	if err := optimizeOnce(ctx, input, opts, out); err != nil {
		if !isMeshError(err) {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	fw, err := watcher.NewFileWatcher(opts.debounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(input); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", input)

	var mu sync.Mutex
	report := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	err = fw.Run(ctx, func(string) {
		mu.Lock()
		err := optimizeOnce(ctx, input, opts, out)
		mu.Unlock()
		if err != nil && !errors.Is(err, context.Canceled) {
			report(err)
		}
	}, func(err error) {
		report(fmt.Errorf("watcher: %w", err))
	})

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// waitForKey blocks until a line is read from the command's input
func waitForKey(cmd *cobra.Command, out io.Writer) {
	fmt.Fprintln(out, "Press enter to close...")
	bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
}

func isMeshError(err error) bool {
	return errors.Is(err, obj.ErrMalformedVertex) ||
		errors.Is(err, obj.ErrMalformedFace) ||
		errors.Is(err, obj.ErrUnsupportedIndexForm)
}
