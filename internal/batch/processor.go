package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"ears-workbench/internal/layers"
	"ears-workbench/internal/preview"
	"ears-workbench/internal/texture"

	"golang.org/x/exp/slices"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir    string
	Format       texture.Format
	Layers       []layers.Name // empty means every layer
	PreviewScale int
	ThumbSize    int
	Workers      int
	Progress     io.Writer // nil disables progress lines
}

// Item is one skin to decompose.
type Item struct {
	Name string
	Path string
}

// Result holds the outcome of processing one skin.
type Result struct {
	Name    string
	Source  string
	Files   map[string]string // layer → path relative to OutputDir
	Keys    []string          // container keys
	Success bool
	Error   string
}

// Run processes all items using a worker pool.
func Run(cfg Config, items []Item) []Result {
	total := len(items)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		if cfg.Progress == nil {
			return
		}
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f skins/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := max(cfg.Workers, 1)
	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				results[idx] = processItem(cfg, items[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range items {
		itemChan <- i
	}
	close(itemChan)

	wg.Wait()
	close(done)

	return results
}

func processItem(cfg Config, item Item) Result {
	res := Result{Name: item.Name, Source: item.Path}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	raw, err := os.ReadFile(item.Path)
	if err != nil {
		return fail(err)
	}
	dec, err := layers.Decompose(raw)
	if err != nil {
		return fail(err)
	}
	res.Keys = dec.Container.Keys()
	res.Files = make(map[string]string)

	write := func(label string, img *image.NRGBA) error {
		rel := filepath.Join(item.Name, label+cfg.Format.Ext())
		if err := texture.WriteFile(filepath.Join(cfg.OutputDir, rel), img, cfg.Format); err != nil {
			return err
		}
		res.Files[label] = filepath.ToSlash(rel)
		return nil
	}

	var sheet []*image.NRGBA
	for _, name := range dec.Names() {
		if !wanted(cfg.Layers, name) {
			continue
		}
		img := dec.Layers[name]
		if err := write(string(name), img); err != nil {
			return fail(err)
		}
		sheet = append(sheet, img)
	}

	if cfg.PreviewScale > 0 && len(sheet) > 0 {
		if err := write("preview", preview.Sheet(sheet, cfg.PreviewScale)); err != nil {
			return fail(err)
		}
	}
	if cfg.ThumbSize > 0 {
		if err := write("thumb", preview.Thumbnail(dec.Layers[layers.Base], cfg.ThumbSize)); err != nil {
			return fail(err)
		}
	}

	res.Success = true
	return res
}

func wanted(filter []layers.Name, name layers.Name) bool {
	return len(filter) == 0 || slices.Contains(filter, name)
}
