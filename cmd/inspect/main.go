package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/layers"
	"ears-workbench/internal/skinerr"
	"ears-workbench/internal/texture"

	"golang.org/x/term"
)

type dump struct {
	Version uint8                    `json:"version"`
	Entries map[string]alfalfa.Entry `json:"entries"`
}

func main() {
	writeMap := flag.String("write", "", "Replace the container with the entries in this JSON file")
	output := flag.String("o", "", "Output skin for -write (default: overwrite input, - for stdout)")
	version := flag.Int("version", -1, "Container version for -write (default: keep)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-write entries.json [-o out.png] [-version N]] skin.png")
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

	if *writeMap == "" {
		printContainer(raw)
		return
	}

	s, err := layers.Open(raw)
	if err != nil {
		fail(err)
	}
	var in dump
	data, err := os.ReadFile(*writeMap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Accept either {"version":..,"entries":{..}} or a bare entry map.
	if err := json.Unmarshal(data, &in); err != nil || in.Entries == nil {
		in = dump{Version: s.ContainerVersion()}
		if err := json.Unmarshal(data, &in.Entries); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *writeMap, err)
			os.Exit(1)
		}
	}
	if *version >= 0 {
		in.Version = uint8(*version)
	}
	if err := replace(s, in); err != nil {
		fail(err)
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
		fmt.Printf("Wrote %d entries to %s\n", len(in.Entries), dst)
	}
}

func printContainer(raw []byte) {
	img, err := texture.Decode(raw)
	if err != nil {
		fail(err)
	}
	d, err := alfalfa.Read(img)
	if err != nil {
		fail(err)
	}
	if d == nil {
		fmt.Println("No container.")
		return
	}
	entries, err := d.Entries()
	if err != nil {
		fail(err)
	}
	out, _ := json.MarshalIndent(dump{Version: d.Version(), Entries: entries}, "", "  ")
	fmt.Println(string(out))
}

// replace swaps the session's container contents for in.
func replace(s *layers.Session, in dump) error {
	s.SetContainerVersion(in.Version)
	for _, k := range s.EntryKeys() {
		s.DeleteEntry(k)
	}
	s.SetWing(nil)
	s.SetCape(nil)
	s.SetRegions(nil)

	for k, e := range in.Entries {
		switch {
		case e.Kind == alfalfa.KindErase:
			s.SetRegions(e.Regions)
		case k == alfalfa.KeyWing:
			s.SetWing(e.Data)
		case k == alfalfa.KeyCape:
			s.SetCape(e.Data)
		default:
			if err := s.SetEntry(k, e.Data); err != nil {
				return err
			}
		}
	}
	return nil
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
