// bcgen CLI - compiles statement-language programs to stack bytecode,
// writes the compilation artifacts and optionally runs the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/chazu/bcgen/compiler"
	"github.com/chazu/bcgen/manifest"
	"github.com/chazu/bcgen/server"
	"github.com/chazu/bcgen/store"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Int("v", 0, "Log verbosity (0 quiet, 1 info, 2 debug)")
	interactive := flag.Bool("i", false, "Start interactive REPL")
	lspMode := flag.Bool("lsp", false, "Start language server on stdio")
	runFlag := flag.Bool("run", false, "Execute generated bytecode")
	foldFlag := flag.String("fold", "", "Constant folding: none, cache or tree (default from bcgen.toml)")
	outDir := flag.String("o", "", "Output directory for artifacts (default from bcgen.toml)")
	configDir := flag.String("config", ".", "Directory to search for bcgen.toml")
	dbPath := flag.String("db", "", "Run log database path (default from bcgen.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bcgen [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles each file independently and writes <name>_* artifacts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bcgen -i                        # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  bcgen -run input1.txt input2.txt # Compile and run two programs\n")
		fmt.Fprintf(os.Stderr, "  bcgen -fold tree -o out prog.txt # Fold constants, write to out/\n")
		fmt.Fprintf(os.Stderr, "  bcgen -lsp                      # Language server for editors\n")
	}
	flag.Parse()

	// commonlog: 0 logs errors only, 3 adds info, 4 adds debug.
	if *verbose > 0 {
		commonlog.Configure(*verbose+2, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	if *lspMode {
		if err := server.NewLSP().Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := manifest.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if err := overrideManifest(cfg, *outDir, *foldFlag, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fold, err := compiler.ParseFoldMode(cfg.Compile.Fold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths := flag.Args()
	if *interactive || len(paths) == 0 {
		runREPL(newSession(fold, os.Stdout))
		return
	}

	d := newDriver(cfg, fold, os.Stdout)
	d.run = *runFlag
	if p := cfg.StorePath(); p != "" {
		runs, err := store.Open(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening run log: %v\n", err)
			os.Exit(1)
		}
		d.runs = runs
	}

	failed := d.processAll(paths)
	if d.runs != nil {
		d.runs.Close()
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// overrideManifest applies command-line settings to cfg. Paths given on the
// command line are relative to the working directory, not to the directory
// bcgen.toml was found in, so they are made absolute first.
func overrideManifest(cfg *manifest.Manifest, outDir, fold, dbPath string) error {
	if outDir != "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return fmt.Errorf("resolving output dir %s: %w", outDir, err)
		}
		cfg.Output.Dir = abs
	}
	if fold != "" {
		cfg.Compile.Fold = fold
	}
	if dbPath != "" {
		if dbPath != ":memory:" {
			abs, err := filepath.Abs(dbPath)
			if err != nil {
				return fmt.Errorf("resolving run log path %s: %w", dbPath, err)
			}
			dbPath = abs
		}
		cfg.Store.Path = dbPath
	}
	return nil
}
