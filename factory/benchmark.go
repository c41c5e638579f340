/*
Package factory converts JSON/TOML benchmark definitions into
aggregator.Benchmark values.

PURPOSE:
  Reference spending amounts change more often than code does. The factory
  lets operators define additional benchmark sets (regional averages, a
  household profile) in JSON or in the config file, and the API picks one
  by name when comparing a user's spending.

JSON SCHEMA:
  {
    "name": "urban",
    "categories": [
      {"category": "Housing", "average": 2400, "color": "#27ae60"},
      {"category": "Food", "average": 900}
    ]
  }

VALIDATION:
  - name is required and unique within a set
  - every category needs a label, no label may repeat (case-insensitive)
  - averages must not be negative
  - a missing color falls back to aggregator.DefaultColor

USAGE:
  f := factory.NewBenchmarkFactory()
  bench, err := f.ParseBenchmark(jsonString)

  set := factory.NewBenchmarkSet()          // contains "national"
  err = set.Register(bench)
  b := set.Get("urban")                     // falls back to national

SEE ALSO:
  - aggregator/benchmark.go: Benchmark and the national averages
  - config/config.go: [[benchmarks]] tables in the config file
*/
package factory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shashwat106/the-financial-blueprint/aggregator"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// BenchmarkJSON is the serialized form of a benchmark.
type BenchmarkJSON struct {
	Name       string         `json:"name" toml:"name"`
	Categories []CategoryJSON `json:"categories" toml:"categories"`
}

// CategoryJSON is one reference amount.
type CategoryJSON struct {
	Category string  `json:"category" toml:"category"`
	Average  float64 `json:"average" toml:"average"`
	Color    string  `json:"color,omitempty" toml:"color"`
}

// =============================================================================
// BENCHMARK FACTORY
// =============================================================================

// BenchmarkFactory converts serialized benchmarks to aggregator values.
type BenchmarkFactory struct{}

func NewBenchmarkFactory() *BenchmarkFactory {
	return &BenchmarkFactory{}
}

// ParseBenchmark parses a JSON document into a Benchmark.
func (f *BenchmarkFactory) ParseBenchmark(jsonStr string) (aggregator.Benchmark, error) {
	var bj BenchmarkJSON
	if err := json.Unmarshal([]byte(jsonStr), &bj); err != nil {
		return aggregator.Benchmark{}, fmt.Errorf("failed to parse benchmark JSON: %w", err)
	}
	return f.FromJSON(bj)
}

// FromJSON validates a BenchmarkJSON and builds the Benchmark.
func (f *BenchmarkFactory) FromJSON(bj BenchmarkJSON) (aggregator.Benchmark, error) {
	name := strings.TrimSpace(bj.Name)
	if name == "" {
		return aggregator.Benchmark{}, finance.Missing("benchmark.name")
	}

	b := aggregator.Benchmark{Name: name}
	seen := make(map[string]bool, len(bj.Categories))
	for i, cj := range bj.Categories {
		label := strings.TrimSpace(cj.Category)
		if label == "" {
			return aggregator.Benchmark{}, finance.Missing(fmt.Sprintf("benchmark.categories[%d].category", i))
		}
		key := strings.ToLower(label)
		if seen[key] {
			return aggregator.Benchmark{}, &finance.InvalidInputError{
				Field: "benchmark.categories", Value: label, Reason: "duplicate category",
			}
		}
		seen[key] = true

		if cj.Average < 0 {
			return aggregator.Benchmark{}, &finance.InvalidInputError{
				Field: "benchmark.categories." + label, Value: fmt.Sprint(cj.Average), Reason: "average must not be negative",
			}
		}

		color := cj.Color
		if color == "" {
			color = aggregator.DefaultColor
		}
		b.Entries = append(b.Entries, aggregator.BenchmarkEntry{
			Category: label,
			Average:  decimal.NewFromFloat(cj.Average),
			Color:    color,
		})
	}
	return b, nil
}

// ToJSON converts a Benchmark back to its serialized form.
func (f *BenchmarkFactory) ToJSON(b aggregator.Benchmark) BenchmarkJSON {
	bj := BenchmarkJSON{Name: b.Name}
	for _, e := range b.Entries {
		avg, _ := e.Average.Float64()
		bj.Categories = append(bj.Categories, CategoryJSON{Category: e.Category, Average: avg, Color: e.Color})
	}
	return bj
}

// =============================================================================
// BENCHMARK SET
// =============================================================================

// DefaultBenchmark is the name of the built-in national averages.
const DefaultBenchmark = "national"

// BenchmarkSet is a named collection of benchmarks. Safe for concurrent use.
type BenchmarkSet struct {
	mu         sync.RWMutex
	benchmarks map[string]aggregator.Benchmark
}

// NewBenchmarkSet returns a set holding the national averages.
func NewBenchmarkSet() *BenchmarkSet {
	national := aggregator.NationalBenchmark()
	return &BenchmarkSet{benchmarks: map[string]aggregator.Benchmark{national.Name: national}}
}

// Register adds or replaces a benchmark.
func (s *BenchmarkSet) Register(b aggregator.Benchmark) error {
	if b.Name == "" {
		return finance.Missing("benchmark.name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benchmarks[b.Name] = b
	return nil
}

// RegisterJSON converts and registers each definition, stopping at the
// first invalid one.
func (s *BenchmarkSet) RegisterJSON(defs ...BenchmarkJSON) error {
	f := NewBenchmarkFactory()
	for _, bj := range defs {
		b, err := f.FromJSON(bj)
		if err != nil {
			return err
		}
		if err := s.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the named benchmark if registered.
func (s *BenchmarkSet) Lookup(name string) (aggregator.Benchmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.benchmarks[name]
	return b, ok
}

// Get returns the named benchmark, or the national one when the name is
// empty or unknown.
func (s *BenchmarkSet) Get(name string) aggregator.Benchmark {
	if b, ok := s.Lookup(name); ok {
		return b
	}
	b, _ := s.Lookup(DefaultBenchmark)
	return b
}

// Names lists registered benchmark names alphabetically.
func (s *BenchmarkSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.benchmarks))
	for n := range s.benchmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
