// Command flipper-gen generates typed Go bindings for the modules of a
// catalog.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"

	"github.com/wastevensv/flipper/pkg/catalog"
)

func main() {
	catalogPath := flag.String("catalog", "", "Module catalog YAML (default: built-in catalog)")
	pkgName := flag.String("package", "modules", "Package name of the generated files")
	outputDir := flag.String("output", "", "Output directory for generated Go files")
	flag.Parse()

	if *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: flipper-gen -output <dir> [-catalog <path>] [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*catalogPath, *pkgName, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogPath, pkgName, outputDir string) error {
	cat := catalog.Default()
	if catalogPath != "" {
		var err error
		cat, err = catalog.Load(catalogPath)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, e := range cat.Modules {
		code, err := GenerateModule(e, pkgName)
		if err != nil {
			return fmt.Errorf("generating %s: %w", e.Name, err)
		}
		outPath := filepath.Join(outputDir, fileName(e.Name)+"_gen.go")
		if err := writeFormatted(outPath, code); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(outPath), err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the raw output around for debugging the templates.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
