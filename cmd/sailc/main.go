// Command sailc is the command-line driver (C8): it selects the source
// file, resolves the output path, wires up verbosity, and reports the
// compiler's diagnostics or writes the emitted C.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sailc/internal/compiler"
	"sailc/internal/diag"
	"sailc/internal/runtimec"
	"sailc/internal/term"
)

var (
	outputPath   string
	verbose      bool
	emitRuntime  bool
	log          = logrus.New()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sailc <source>",
		Short: "compile a single source file to portable C",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: source name with extension replaced by .c)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log compilation progress to standard error")
	cmd.Flags().BoolVar(&emitRuntime, "emit-runtime", false, "also write the bundled C runtime shims (stdlib_c.c/.h) next to the output")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	sourcePath := args[0]
	out := outputPath
	if out == "" {
		ext := filepath.Ext(sourcePath)
		out = strings.TrimSuffix(sourcePath, ext) + ".c"
	}

	log.Debugf("reading %s", sourcePath)
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	log.Debugf("compiling %s -> %s", sourcePath, out)
	res, err := compiler.Compile(sourcePath, string(src))
	if err != nil {
		if ab, ok := err.(*diag.Abort); ok {
			term.FormatDiagnostic(os.Stderr, ab.Err.File, ab.Err.Line, ab.Err.Col, ab.Err.Kind.String(), ab.Err.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	for _, d := range res.Declarations {
		log.Debugf("parsed %s", d)
	}
	for _, w := range res.Warnings {
		term.Note(os.Stderr, w)
	}

	if err := os.WriteFile(out, []byte(res.Code), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if emitRuntime {
		log.Debug("writing bundled C runtime shims")
		if err := runtimec.WriteNextTo(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
	}

	term.OK(os.Stderr, "wrote "+out)
	return nil
}
