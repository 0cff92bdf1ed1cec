// Command validate performs data integrity checks on a wind turbine release:
// the correction table, project aggregation, the cumulative trend, and
// normalization idempotence. When genmock fixtures are supplied it also
// verifies they still match what the domain package produces.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/wind-turbine.csv \
//	  -projects-json data/mock/projects.json \
//	  -trend-json data/mock/trend.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/wind-turbine-etl/internal/adapter/tidytuesday"
	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the wind-turbine release CSV")
	projectsJSON := flag.String("projects-json", "", "optional projects fixture from genmock")
	trendJSON := flag.String("trend-json", "", "optional trend fixture from genmock")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *projectsJSON, *trendJSON); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, projectsPath, trendPath string) int {
	fmt.Println("=== Wind Turbine Data Integrity Validation ===")
	fmt.Println()

	df, err := tidytuesday.NewFileSource(csvPath).Fetch(context.Background(), domain.DefaultDatasetKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}
	records, err := domain.NormalizeTable(df)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: normalize: %v\n", err)
		return 1
	}
	projects, err := domain.Aggregate(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: aggregate: %v\n", err)
		return 1
	}
	trend := domain.BuildTrend(projects)

	phases := []*phase{
		validateCorrections(records),
		validateAggregation(records, projects),
		validateTrend(projects, trend),
		validateIdempotence(records),
		validateTimeline(domain.DefaultAnimationConfig()),
	}

	if projectsPath != "" || trendPath != "" {
		fixtures, err := validateFixtures(projectsPath, trendPath, projects, trend)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load fixtures: %v\n", err)
			return 1
		}
		phases = append(phases, fixtures)
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d turbines, %d projects, %d trend years\n", len(records), len(projects), len(trend))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateCorrections(records []domain.TurbineRecord) *phase {
	p := &phase{name: "Phase 1: Correction table"}
	for _, c := range domain.Corrections {
		for _, r := range records {
			if r.ID == c.ID && r.ProjectName != c.ProjectName {
				p.errorf("id %s: project_name %q, want %q", r.ID, r.ProjectName, c.ProjectName)
			}
		}
	}
	return p
}

func validateAggregation(records []domain.TurbineRecord, projects []domain.ProjectRecord) *phase {
	p := &phase{name: "Phase 2: Project aggregation"}

	members := make(map[string][]domain.TurbineRecord)
	for _, r := range records {
		members[r.ProjectName] = append(members[r.ProjectName], r)
	}
	if len(members) != len(projects) {
		p.errorf("project count: got %d, want %d distinct names", len(projects), len(members))
	}

	for _, pr := range projects {
		group, ok := members[pr.ProjectName]
		if !ok {
			p.errorf("%q: no constituent turbines", pr.ProjectName)
			continue
		}
		var lat, lon float64
		capMax := math.Inf(-1)
		for _, r := range group {
			lat += r.Lat
			lon += r.Lon
			capMax = math.Max(capMax, r.CapacityProject)
		}
		n := float64(len(group))
		if !floatEq(pr.Lat, lat/n) || !floatEq(pr.Lon, lon/n) {
			p.errorf("%q: centroid (%.6f, %.6f), want (%.6f, %.6f)", pr.ProjectName, pr.Lat, pr.Lon, lat/n, lon/n)
		}
		if !floatEq(pr.CapacityProject, capMax) {
			p.errorf("%q: capacity %.3f, want max %.3f", pr.ProjectName, pr.CapacityProject, capMax)
		}
		if pr.Turbines != len(group) {
			p.errorf("%q: %d turbines, want %d", pr.ProjectName, pr.Turbines, len(group))
		}
	}
	return p
}

func validateTrend(projects []domain.ProjectRecord, trend []domain.YearlyCapacityPoint) *phase {
	p := &phase{name: "Phase 3: Cumulative trend"}

	var dated float64
	for _, pr := range projects {
		if pr.Year != nil {
			dated += pr.CapacityProject
		}
	}

	for i := 1; i < len(trend); i++ {
		if trend[i].Year <= trend[i-1].Year {
			p.errorf("years out of order at %d: %d after %d", i, trend[i].Year, trend[i-1].Year)
		}
		if trend[i].CapacityCum < trend[i-1].CapacityCum {
			p.errorf("capacity_cum decreases at %d: %.3f after %.3f", trend[i].Year, trend[i].CapacityCum, trend[i-1].CapacityCum)
		}
	}

	var final float64
	if len(trend) > 0 {
		final = trend[len(trend)-1].CapacityCum
	}
	if !floatEq(final, dated) {
		p.errorf("final capacity_cum %.3f, want %.3f (sum of dated projects)", final, dated)
	}
	return p
}

func validateIdempotence(records []domain.TurbineRecord) *phase {
	p := &phase{name: "Phase 4: Normalization idempotence"}
	if diff := cmp.Diff(records, domain.NormalizeRecords(records)); diff != "" {
		p.errorf("renormalizing changed the table (-first +second):\n%s", diff)
	}
	return p
}

func validateTimeline(cfg domain.AnimationConfig) *phase {
	p := &phase{name: "Phase 5: Animation timeline"}
	years := cfg.Timeline()
	if len(years) != cfg.Frames {
		p.errorf("timeline has %d frames, want %d", len(years), cfg.Frames)
		return p
	}
	if !slices.IsSorted(years) {
		p.errorf("timeline is not non-decreasing")
	}
	for i := range min(cfg.StartPause, len(years)) {
		if years[i] != float64(cfg.YearFrom) {
			p.errorf("frame %d: year %.2f during start pause, want %d", i, years[i], cfg.YearFrom)
		}
	}
	for i := max(cfg.Frames-cfg.EndPause, 0); i < cfg.Frames; i++ {
		if years[i] != float64(cfg.YearTo) {
			p.errorf("frame %d: year %.2f during end pause, want %d", i, years[i], cfg.YearTo)
		}
	}
	return p
}

func validateFixtures(projectsPath, trendPath string, projects []domain.ProjectRecord, trend []domain.YearlyCapacityPoint) (*phase, error) {
	p := &phase{name: "Phase 6: Fixture parity"}
	approx := cmpopts.EquateApprox(0, 1e-9)

	if projectsPath != "" {
		want, err := loadJSON[domain.ProjectRecord](projectsPath)
		if err != nil {
			return nil, err
		}
		if diff := cmp.Diff(want, projects, approx); diff != "" {
			p.errorf("projects differ from %s (-fixture +computed):\n%s", projectsPath, diff)
		}
	}
	if trendPath != "" {
		want, err := loadJSON[domain.YearlyCapacityPoint](trendPath)
		if err != nil {
			return nil, err
		}
		if diff := cmp.Diff(want, trend, approx); diff != "" {
			p.errorf("trend differs from %s (-fixture +computed):\n%s", trendPath, diff)
		}
	}
	return p, nil
}

// ── Helpers ──

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
