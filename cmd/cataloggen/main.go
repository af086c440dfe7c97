// v2
// cmd/cataloggen/main.go
//
// cataloggen converts a buildings CSV snapshot into the category-grouped
// catalog JSON consumed by the game client. It is a pure transform from an
// explicit input file to an explicit output artifact; nothing is patched
// in place.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/whatifwestudios/the-commons/internal/catalog"
	"github.com/whatifwestudios/the-commons/internal/civic"
)

type options struct {
	inPath    string
	outPath   string
	pretty    bool
	breakdown bool
}

func main() {
	var opts options
	flag.StringVar(&opts.inPath, "in", "buildings-data.csv", "input buildings CSV snapshot")
	flag.StringVar(&opts.outPath, "out", "buildings-data.json", "output catalog JSON path")
	flag.BoolVar(&opts.pretty, "pretty", true, "indent the output JSON")
	flag.BoolVar(&opts.breakdown, "breakdown", false, "print per-building civic score breakdowns")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer) error {
	f, err := os.Open(opts.inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	table, err := catalog.ReadRows(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// Build runs the structural column check, so a malformed snapshot
	// fails here before anything is printed or written.
	cat, err := catalog.Build(table)
	if err != nil {
		return err
	}

	if opts.breakdown {
		writeBreakdowns(stdout, table)
	}

	var raw []byte
	if opts.pretty {
		raw, err = json.MarshalIndent(cat, "", "  ")
	} else {
		raw, err = json.Marshal(cat)
	}
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	raw = append(raw, '\n')

	if err := os.WriteFile(opts.outPath, raw, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(stdout, "Converted %s to %s\n", opts.inPath, opts.outPath)
	fmt.Fprintf(stdout, "Categories: %s\n", strings.Join(cat.Categories(), ", "))
	fmt.Fprintf(stdout, "Total buildings: %d\n", cat.Len())
	return nil
}

// writeBreakdowns emits the content-review report: every building's civic
// score with its per-dimension contributions, followed by all buildings
// ranked by score.
func writeBreakdowns(w io.Writer, table *catalog.Table) {
	type scored struct {
		name     string
		category string
		score    float64
	}
	var ranked []scored

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "CIVIC SCORE CALCULATIONS")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)

	for _, row := range table.Rows {
		if row["id"] == "" {
			continue
		}
		total, lines := civic.Calculate(row)
		fmt.Fprintf(w, "%s (%s)\n", row["name"], row["category"])
		fmt.Fprintf(w, "  Civic Score: %.1f\n", total)
		for _, line := range lines {
			fmt.Fprintf(w, "    %s\n", line)
		}
		fmt.Fprintln(w)
		ranked = append(ranked, scored{name: row["name"], category: row["category"], score: total})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "BUILDINGS RANKED BY CIVIC SCORE")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	for _, b := range ranked {
		fmt.Fprintf(w, "%7.1f  %-25s (%s)\n", b.score, b.name, b.category)
	}
	fmt.Fprintln(w)
}
