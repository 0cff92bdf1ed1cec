// Command genmock reads a wind turbine release CSV and generates the project
// and trend JSON fixtures used by downstream tests. It runs the real domain
// package so the fixtures match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/wind-turbine.csv \
//	  -projects-out data/mock/projects.json \
//	  -trend-out data/mock/trend.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wind-turbine-etl/internal/adapter/tidytuesday"
	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// generatedAt stamps every fixture so reruns are byte-identical.
var generatedAt = time.Date(2020, time.October, 27, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	csvPath := fs.String("csv", "", "path to the wind-turbine release CSV")
	projectsOut := fs.String("projects-out", "", "output path for the projects JSON fixture")
	trendOut := fs.String("trend-out", "", "output path for the trend JSON fixture")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *csvPath == "" || *projectsOut == "" || *trendOut == "" {
		fs.Usage()
		return fmt.Errorf("missing required flags: -csv, -projects-out, -trend-out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(generatedAt))
	defer domain.SetClock(nil)

	df, err := tidytuesday.NewFileSource(*csvPath).Fetch(context.Background(), domain.DefaultDatasetKey)
	if err != nil {
		return err
	}
	records, err := domain.NormalizeTable(df)
	if err != nil {
		return err
	}
	projects, err := domain.Aggregate(records)
	if err != nil {
		return err
	}
	summary := domain.Summarize(projects, domain.BuildTrend(projects))
	log.Printf("%d turbines, %d projects, %d years", len(records), len(summary.Projects), len(summary.Trend))

	if err := writeJSON(*projectsOut, summary.Projects); err != nil {
		return fmt.Errorf("writing projects fixture: %w", err)
	}
	log.Printf("wrote projects fixture: %s", *projectsOut)

	if err := writeJSON(*trendOut, summary.Trend); err != nil {
		return fmt.Errorf("writing trend fixture: %w", err)
	}
	log.Printf("wrote trend fixture: %s", *trendOut)

	printStats(summary)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(s domain.Summary) {
	var undated, turbines int
	largest := domain.ProjectRecord{}
	for _, p := range s.Projects {
		turbines += p.Turbines
		if p.Year == nil {
			undated++
		}
		if p.CapacityProject > largest.CapacityProject {
			largest = p
		}
	}

	fmt.Println()
	fmt.Println("=== Fixture Statistics ===")
	fmt.Printf("  projects:        %d (%d without a year)\n", len(s.Projects), undated)
	fmt.Printf("  turbines:        %d\n", turbines)
	fmt.Printf("  total capacity:  %.1f MW\n", s.TotalCapacity)
	if largest.ProjectName != "" {
		fmt.Printf("  largest project: %s (%.1f MW)\n", largest.ProjectName, largest.CapacityProject)
	}

	// Top five years by added capacity.
	trend := append([]domain.YearlyCapacityPoint(nil), s.Trend...)
	sort.Slice(trend, func(i, j int) bool { return trend[i].Capacity > trend[j].Capacity })
	if len(trend) > 5 {
		trend = trend[:5]
	}
	fmt.Println("  busiest years:")
	for _, pt := range trend {
		fmt.Printf("    %d  +%.1f MW\n", pt.Year, pt.Capacity)
	}
}
