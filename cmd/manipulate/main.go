package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/features"
	"ears-workbench/internal/layers"
	"ears-workbench/internal/skinerr"

	"golang.org/x/term"
)

func main() {
	apply := flag.String("apply", "", "Apply the feature document in this JSON file")
	wing := flag.String("wing", "", "Wing image to store (with -apply)")
	cape := flag.String("cape", "", "Cape image to store (with -apply)")
	output := flag.String("o", "", "Output skin for -apply (default: overwrite input, - for stdout)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: manipulate [-apply doc.json [-wing w.png] [-cape c.png] [-o out.png]] skin.png")
		fmt.Fprintln(os.Stderr, "Without -apply the feature document of the skin is printed.")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s, err := layers.Open(raw)
	if err != nil {
		fail(err)
	}

	if *apply == "" {
		if !s.HasFeatures() {
			fmt.Fprintln(os.Stderr, "Skin has no Ears features.")
		}
		c, err := s.Container()
		if err != nil {
			fail(err)
		}
		doc := features.NewDocument(s.Features()).WithAlfalfa(c).WithEmissive(s.Palette())
		out, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Println(string(out))
		return
	}

	data, err := os.ReadFile(*apply)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var doc features.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *apply, err)
		os.Exit(1)
	}
	for _, img := range []struct {
		path string
		dst  *[]byte
	}{{*wing, &doc.Wings.Wings}, {*cape, &doc.Cape}} {
		if img.path == "" {
			continue
		}
		if *img.dst, err = os.ReadFile(img.path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	m, err := doc.Model()
	if err != nil {
		fail(err)
	}
	s.SetFeatures(m)
	s.SetPalette(doc.Palette())
	s.SetWing(doc.Wings.Wings)
	s.SetCape(doc.Cape)

	// Without an alfalfa section the skin keeps its erase regions and
	// custom entries.
	if doc.Alfalfa != nil {
		c, err := doc.Container()
		if err != nil {
			fail(err)
		}
		regions, _, err := c.EraseRegions()
		if err != nil {
			fail(err)
		}
		s.SetContainerVersion(c.Version())
		s.SetRegions(regions)
		for _, k := range s.EntryKeys() {
			s.DeleteEntry(k)
		}
		for _, k := range c.Keys() {
			switch k {
			case alfalfa.KeyWing, alfalfa.KeyCape, alfalfa.KeyErase:
				continue
			}
			v, _ := c.Get(k)
			if err := s.SetEntry(k, v); err != nil {
				fail(err)
			}
		}
	}

	skin, err := s.Save()
	if err != nil {
		fail(err)
	}
	dst := *output
	if dst == "" {
		dst = path
	}
	if err := writeOutput(dst, skin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if dst != "-" {
		f := s.Features()
		fmt.Printf("Wrote %s (ears %s, wings %v, cape %v, emissive %v)\n",
			dst, f.Ear.Mode, f.WingEnabled(), f.CapeEnabled, f.Emissive)
	}
}

func writeOutput(path string, data []byte) error {
	if path != "-" {
		return os.WriteFile(path, data, 0644)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("refusing to write a PNG to a terminal")
	}
	_, err := os.Stdout.Write(data)
	return err
}

func fail(err error) {
	if skinerr.IsCorrupt(err) {
		fmt.Fprintf(os.Stderr, "Error: unreadable or corrupt skin data: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
