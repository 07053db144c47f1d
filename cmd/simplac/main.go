// Command simplac is the CLI driver for the Simpla compiler core: check,
// translate and compile a single source file per invocation (spec §5/§6).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/simpla-lang/simplac/internal/bytecode"
	"github.com/simpla-lang/simplac/internal/cgen"
	"github.com/simpla-lang/simplac/internal/check"
	"github.com/simpla-lang/simplac/internal/config"
	"github.com/simpla-lang/simplac/internal/diag"
	"github.com/simpla-lang/simplac/internal/layout"
	"github.com/simpla-lang/simplac/internal/parser"
	"github.com/simpla-lang/simplac/internal/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <check|translate|compile> <source%s> [output] [-debug] [-trace]\n",
		filepath.Base(os.Args[0]), config.SourceFileExt)
}

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	sourcePath := os.Args[2]
	rest := os.Args[3:]

	debug := false
	trace := false
	var outPath string
	for _, a := range rest {
		switch a {
		case "-debug", "--debug":
			debug = true
		case "-trace", "--trace":
			trace = true
		default:
			if outPath == "" {
				outPath = a
			}
		}
	}

	sess := session.New()
	if trace {
		fmt.Fprintf(os.Stderr, "trace: session=%s\n", sess.TraceID())
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	prog, perr := parser.Parse(string(source))
	if perr != nil {
		reportError(string(source), perr)
		os.Exit(1)
	}
	if _, cerr := check.AnalyzeProgram(prog); cerr != nil {
		reportError(string(source), cerr)
		os.Exit(1)
	}

	switch cmd {
	case "check":
		fmt.Println("ok")
	case "translate":
		lay := layout.Build(prog)
		code := bytecode.Emit(prog, lay)
		if outPath == "" {
			outPath = config.DefaultOutputName(sourcePath)
		}
		if err := writeOutput(outPath, code, debug, sess); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s)\n", outPath, humanize.Bytes(uint64(len(code))))
	case "compile":
		out := cgen.Generate(prog)
		if outPath == "" {
			outPath = config.TrimSourceExt(sourcePath) + ".c"
		}
		if err := writeOutput(outPath, []byte(out), false, sess); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s)\n", outPath, humanize.Bytes(uint64(len(out))))
	default:
		usage()
		os.Exit(1)
	}
}

// writeOutput writes payload to path, optionally prefixed by the §13 debug
// bundle header (additive, never required by the external VM).
func writeOutput(path string, payload []byte, debug bool, sess *session.Session) error {
	if !debug {
		return os.WriteFile(path, payload, 0o644)
	}
	hdr := sess.DebugHeader()
	buf := make([]byte, 0, len(hdr)+len(payload))
	buf = append(buf, hdr[:]...)
	buf = append(buf, payload...)
	return os.WriteFile(path, buf, 0o644)
}

// reportError prints a diagnostic's span-anchored source excerpt (spec
// §4.B), ANSI-colored when stderr is a terminal.
func reportError(source string, err diag.Error) {
	excerpt := diag.FormatSpan(source, err.Span())
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n%s\n", err.Error(), excerpt)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n%s\n", err.Error(), excerpt)
}
