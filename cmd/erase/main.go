package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ears-workbench/internal/erase"
	"ears-workbench/internal/layers"
	"ears-workbench/internal/skinerr"

	"golang.org/x/term"
)

func main() {
	set := flag.String("set", "", `Replace the erase regions, e.g. "0,0,8,8;8,8,4,4"`)
	clearAll := flag.Bool("clear", false, "Remove every erase region")
	output := flag.String("o", "", "Output skin (default: overwrite input, - for stdout)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: erase [-set regions | -clear] [-o out.png] skin.png")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 || (*set != "" && *clearAll) {
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

	if *set == "" && !*clearAll {
		regions := s.Regions()
		if len(regions) == 0 {
			fmt.Println("No erase regions.")
			return
		}
		for i, r := range regions {
			fmt.Printf("  [%d] %s\n", i, r)
		}
		return
	}

	var regions []erase.Region
	if *set != "" {
		regions, err = parseRegions(*set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}
	s.SetRegions(regions)

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
		fmt.Printf("Wrote %d regions to %s\n", len(regions), dst)
	}
}

// parseRegions reads "x,y,w,h;x,y,w,h;...".
func parseRegions(s string) ([]erase.Region, error) {
	var out []erase.Region
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("region %q: want x,y,w,h", part)
		}
		var v [4]int
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("region %q: %w", part, err)
			}
			v[i] = n
		}
		r, err := erase.NewRegion(v[0], v[1], v[2], v[3])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
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
