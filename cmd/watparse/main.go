// Command watparse parses WebAssembly text files and reports syntax
// errors.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/wat-syntax/errors"
	"github.com/wippyai/wat-syntax/wat"
	"github.com/wippyai/wat-syntax/wat/report"
	"github.com/wippyai/wat-syntax/wat/source"
)

// Exit codes.
const (
	exitOK     = 0
	exitErrors = 1 // diagnostics or unreadable inputs
	exitUsage  = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o := defaultOptions()
	fs := flag.NewFlagSet("watparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.TextVar(&o.entry, "entry", wat.EntryFile, "grammar entry point")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "rule nesting limit (0 default, negative unlimited)")
	fs.IntVar(&o.jobs, "j", o.jobs, "parallel jobs")
	fs.IntVar(&o.context, "context", 0, "source lines shown before each diagnostic")
	fs.StringVar(&o.format, "format", formatText, "output format: text or short")
	fs.StringVar(&o.color, "color", colorAuto, "color output: auto, always or never")
	fs.BoolVar(&o.tree, "tree", false, "print the syntax tree")
	fs.BoolVar(&o.verbose, "v", false, "verbose (debug logging)")
	fs.BoolVar(&o.interactive, "i", false, "interactive tree browser (single file)")
	configPath := fs.String("config", "", "YAML config file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: watparse [flags] <file|glob>...")
		fmt.Fprintln(stderr, "       watparse -i <file>  (interactive mode)")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Entries: "+strings.Join(entryNames(), ", "))
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	o.include = fs.Args()
	if *configPath != "" {
		fc, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		fc.apply(&o, set)
	}
	if err := o.validate(); err != nil {
		for _, e := range errors.Flatten(err) {
			fmt.Fprintf(stderr, "Error: %v\n", e)
		}
		return exitUsage
	}
	if len(o.include) == 0 {
		fs.Usage()
		return exitUsage
	}

	log := newLogger(o.verbose, stderr)
	defer func() { _ = log.Sync() }()
	wat.SetLogger(log)
	defer wat.SetLogger(nil)

	files, expandErr := expand(o.include, o.exclude)

	if o.interactive {
		if len(files) != 1 {
			fmt.Fprintf(stderr, "Error: -i needs exactly one file, got %d\n", len(files))
			return exitUsage
		}
		src, err := readSource(files[0], stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitErrors
		}
		if err := runInteractive(files[0], src, &o); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitErrors
		}
		return exitOK
	}

	if o.color == colorAlways {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	styled := useColor(o.color, stdout)

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.jobs)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = process(name, stdin, &o, styled)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitErrors
	}

	errs := []error{expandErr}
	diags := 0
	for i, r := range results {
		if _, err := stdout.Write(r.out); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitErrors
		}
		diags += r.diags
		errs = append(errs, r.err)
		log.Debug("file done",
			zap.String("file", files[i]),
			zap.Int("diagnostics", r.diags),
			zap.Error(r.err))
	}
	failed := errors.Combine(errs...)
	for _, err := range errors.Flatten(failed) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	log.Debug("finished",
		zap.Int("files", len(files)),
		zap.Int("diagnostics", diags))

	if failed != nil || diags > 0 {
		return exitErrors
	}
	return exitOK
}

type fileResult struct {
	out   []byte
	diags int
	err   error
}

func process(name string, stdin io.Reader, o *options, styled bool) fileResult {
	src, err := readSource(name, stdin)
	if err != nil {
		return fileResult{err: err}
	}
	res := wat.ParseWithConfig(src, &wat.Config{Entry: o.entry, MaxDepth: o.maxDepth})

	var buf bytes.Buffer
	if o.tree {
		if err := res.Root.Dump(&buf); err != nil {
			return fileResult{err: err}
		}
	}
	switch o.format {
	case formatShort:
		idx := source.NewIndex(src)
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&buf, "%s:%s: %s\n", name, idx.Position(d.Start), d.Message)
		}
	default:
		r := report.Renderer{Styled: styled, Context: o.context}
		if err := r.Render(&buf, name, src, res.Diagnostics); err != nil {
			return fileResult{err: err}
		}
	}
	return fileResult{out: buf.Bytes(), diags: len(res.Diagnostics)}
}

// readSource reads a file, or stdin when name is "-".
func readSource(name string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", errors.ReadFailed(name, err)
	}
	return string(data), nil
}

// expand resolves glob patterns to files in argument order, dropping
// duplicates and excluded paths. Matches of one pattern are sorted. Plain
// paths are kept as given so that a missing file is reported when it is
// read.
func expand(patterns, exclude []string) ([]string, error) {
	var (
		files []string
		errs  error
	)
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches := []string{p}
		if p != "-" && strings.ContainsAny(p, "*?[{") {
			m, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				errs = errors.Append(errs, errors.Wrap(errors.PhaseIO, errors.KindInvalidInput, err, "glob "+p))
				continue
			}
			if len(m) == 0 {
				errs = errors.Append(errs, errors.NotFound(errors.PhaseIO, "match for", p))
				continue
			}
			slices.Sort(m)
			matches = m
		}
		for _, f := range matches {
			if seen[f] || excluded(f, exclude) {
				continue
			}
			seen[f] = true
			files = append(files, f)
		}
	}
	return files, errs
}

func excluded(file string, exclude []string) bool {
	for _, p := range exclude {
		if ok, _ := doublestar.PathMatch(p, file); ok {
			return true
		}
	}
	return false
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newLogger logs to w: debug and up when verbose, warnings otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func entryNames() []string {
	var names []string
	for _, e := range wat.Entries() {
		names = append(names, e.String())
	}
	return names
}
