package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ears-workbench/internal/batch"
	"ears-workbench/internal/config"
	"ears-workbench/internal/layers"
	"ears-workbench/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N skins for testing")
	only := flag.String("skin", "", "Render only the skin with this name")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	inputDir := flag.String("input", "", "Directory of skins (default: current directory)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/layers)")
	format := flag.String("format", "", "Layer format: webp, png or tga (default: webp)")
	layerList := flag.String("layers", "", "Comma separated layers to write (default: all)")
	previewScale := flag.Int("preview", -1, "Preview sheet scale, 0 to disable")
	thumb := flag.Int("thumb", 0, "Base layer thumbnail size, 0 to disable")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:     *inputDir,
		OutputDir:    *outputDir,
		Format:       *format,
		Layers:       *layerList,
		PreviewScale: *previewScale,
		ThumbSize:    *thumb,
		Workers:      *workers,
	})

	outFormat, err := texture.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var filter []layers.Name
	for _, l := range cfg.Layers {
		n, err := layers.ParseName(l)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (want one of %v)\n", err, layers.Order)
			os.Exit(1)
		}
		filter = append(filter, n)
	}

	// Build skin index
	index := texture.BuildIndex(cfg.InputDir)
	fmt.Printf("Skins: %d indexed\n", index.Len())

	// Skip our own output when it lives under the input dir
	skip := filepath.Clean(cfg.OutputDir) + string(filepath.Separator)
	var items []batch.Item
	for _, name := range index.Names() {
		path, _ := index.ResolvePath(name)
		if strings.HasPrefix(path, skip) {
			continue
		}
		if *only != "" && !strings.EqualFold(name, *only) {
			continue
		}
		items = append(items, batch.Item{Name: name, Path: path})
	}

	// Limit for testing
	if *testN > 0 && *testN < len(items) {
		items = items[:*testN]
	}

	if len(items) == 0 {
		fmt.Println("No skins to render.")
		os.Exit(0)
	}

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Ears skin layers → %s%s\n", outFormat, mode)
	fmt.Printf("Skins: %d, Workers: %d\n", len(items), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:    cfg.OutputDir,
		Format:       outFormat,
		Layers:       filter,
		PreviewScale: cfg.PreviewScale,
		ThumbSize:    cfg.ThumbSize,
		Workers:      cfg.Workers,
		Progress:     os.Stdout,
	}, items)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Decomposed: %d/%d\n", success, len(items))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
