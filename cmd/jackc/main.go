package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/teris-io/cli"
	"golang.org/x/sync/errgroup"

	"jackc.dev/compiler/pkg/compiler"
	"jackc.dev/compiler/pkg/config"
	"jackc.dev/compiler/pkg/diag"
	"jackc.dev/compiler/pkg/parsetree"
	"jackc.dev/compiler/pkg/token"
)

var Description = strings.ReplaceAll(`
jackc compiles programs (one or more classes/files) written in the source
language into VM modules, in a single pass per file: tokenizing, symbol
resolution and code generation all happen together, with no intermediate
whole-program AST. Each input may be a single file or a directory; output
is written next to its inputs, under a 'vm' subdirectory.
`, "\n", " ")

var JackCompiler = cli.New(Description).
	WithArg(cli.NewArg("inputs", "Source files or directories to compile").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("xml", "Also emit the parse tree as <name>.xml").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("symbols", "Also emit class/subroutine symbol table dumps").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("stdlib-hints", "Warn (non-blocking) on stdlib call sites with a suspicious argument count").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("no-color", "Disable colorized diagnostics").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("jobs", "Number of files to compile concurrently (default 1)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("watch", "Recompile a directory's sources whenever one changes").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("config", "Path to a .jackc.yaml overriding the defaults").
		WithType(cli.TypeString)).
	WithAction(Handler)

// settings is the merged result of .jackc.yaml defaults and CLI options,
// CLI always winning when the flag was actually passed.
type settings struct {
	xml, symbols, hints, noColor, watch bool
	jobs                                int
}

func resolveSettings(inputs []string, options map[string]string) (settings, error) {
	var cfg config.Config
	var err error
	if path, ok := options["config"]; ok {
		cfg, err = config.LoadFile(path)
	} else {
		dir := "."
		if len(inputs) > 0 {
			dir = inputs[0]
			if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
				dir = filepath.Dir(dir)
			}
		}
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return settings{}, err
	}

	s := settings{
		xml: cfg.EmitXML, symbols: cfg.EmitSymbols, hints: cfg.StdlibHints,
		noColor: cfg.NoColor, jobs: cfg.Jobs,
	}
	if s.jobs < 1 {
		s.jobs = 1
	}

	if _, ok := options["xml"]; ok {
		s.xml = true
	}
	if _, ok := options["symbols"]; ok {
		s.symbols = true
	}
	if _, ok := options["stdlib-hints"]; ok {
		s.hints = true
	}
	if _, ok := options["no-color"]; ok {
		s.noColor = true
	}
	if _, ok := options["watch"]; ok {
		s.watch = true
	}
	if raw, ok := options["jobs"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return settings{}, fmt.Errorf("--jobs must be a positive integer, got %q", raw)
		}
		s.jobs = n
	}
	return s, nil
}

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Println("ERROR: no inputs given, use --help")
		return -1
	}

	cfg, err := resolveSettings(args, options)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return -1
	}
	colorizer := diag.NewColorizer(!cfg.noColor)

	build := func() int { return compileAll(args, cfg, colorizer) }

	if !cfg.watch {
		return build()
	}

	if build() != 0 {
		fmt.Println("watch: initial build failed, watching for changes anyway")
	}
	return watch(args, cfg, colorizer, build)
}

// discoverTUs enumerates the .jack files under each input. Directories are
// walked non-recursively (each is its own translation unit group); a bare
// file input is taken as-is.
func discoverTUs(inputs []string) ([]string, error) {
	var tus []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("opening input %s: %w", input, err)
		}
		if !info.IsDir() {
			tus = append(tus, input)
			continue
		}
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", input, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".jack" {
				continue
			}
			tus = append(tus, filepath.Join(input, entry.Name()))
		}
	}
	return tus, nil
}

func compileAll(inputs []string, cfg settings, colorizer *diag.Colorizer) int {
	tus, err := discoverTUs(inputs)
	if err != nil {
		fmt.Println(colorizer.Error(err))
		return -1
	}

	buildID := uuid.NewString()
	results := make([]error, len(tus))

	group := errgroup.Group{}
	group.SetLimit(cfg.jobs)
	for i, tu := range tus {
		i, tu := i, tu
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = fmt.Errorf("%s: internal error: panic: %v", tu, r)
				}
			}()
			results[i] = compileOne(tu, cfg, buildID)
			return nil
		})
	}
	_ = group.Wait()

	failed := 0
	for _, err := range results {
		if err != nil {
			failed++
			fmt.Println(colorizer.Error(err))
		}
	}
	if failed > 0 {
		fmt.Printf("jackc: %d/%d file(s) failed (build %s)\n", failed, len(tus), buildID)
		return -1
	}
	fmt.Printf("jackc: compiled %d file(s) (build %s)\n", len(tus), buildID)
	return 0
}

func compileOne(tu string, cfg settings, buildID string) error {
	content, err := os.ReadFile(tu)
	if err != nil {
		return &diag.Error{Kind: diag.IO, File: tu, Cause: err}
	}

	tokens, err := token.Lex(content)
	if err != nil {
		return &diag.Error{Kind: diag.Lexical, File: tu, Cause: err}
	}

	ext := filepath.Ext(tu)
	basename := strings.TrimSuffix(filepath.Base(tu), ext)

	var tree parsetree.Recorder = parsetree.Noop{}
	var xmlTree *parsetree.Tree
	if cfg.xml {
		xmlTree = parsetree.NewTree(basename)
		tree = xmlTree
	}

	engine := compiler.New(tu, basename, tokens, tree)
	emitter, err := engine.Compile()
	if err != nil {
		return err
	}

	outDir := filepath.Join(filepath.Dir(tu), "vm")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &diag.Error{Kind: diag.IO, File: tu, Cause: err}
	}

	vmPath := filepath.Join(outDir, basename+".vm")
	if err := emitter.Close(vmPath); err != nil {
		return &diag.Error{Kind: diag.IO, File: tu, Cause: err}
	}

	if cfg.hints {
		for _, warning := range hintStdlibCalls(emitter.Lines()) {
			fmt.Printf("%s: %s\n", tu, warning)
		}
	}

	if cfg.xml {
		data, err := xmlTree.XML()
		if err != nil {
			return &diag.Error{Kind: diag.IO, File: tu, Cause: err}
		}
		if err := os.WriteFile(filepath.Join(outDir, basename+".xml"), data, 0o644); err != nil {
			return &diag.Error{Kind: diag.IO, File: tu, Cause: err}
		}
	}

	if cfg.symbols {
		if err := dumpSymbols(outDir, basename, engine, buildID); err != nil {
			return err
		}
	}

	return nil
}

func watch(inputs []string, cfg settings, colorizer *diag.Colorizer, build func() int) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Println(colorizer.Error(fmt.Errorf("starting watcher: %w", err)))
		return -1
	}
	defer watcher.Close()

	for _, input := range inputs {
		dir := input
		if info, err := os.Stat(input); err == nil && !info.IsDir() {
			dir = filepath.Dir(input)
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Println(colorizer.Error(fmt.Errorf("watching %s: %w", dir, err)))
			return -1
		}
	}

	fmt.Println("watch: watching for changes, ctrl-c to stop")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if filepath.Ext(event.Name) != ".jack" {
				continue
			}
			// Always a full recompile of the given inputs, never an
			// incremental one: the compiler has no cross-file cache to
			// invalidate, and a single pass per file is already fast.
			fmt.Printf("watch: %s changed, recompiling\n", event.Name)
			build()
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Println(colorizer.Error(err))
		}
	}
}

func main() { os.Exit(JackCompiler.Run(os.Args, os.Stdout)) }
