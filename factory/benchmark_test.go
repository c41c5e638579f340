package factory_test

import (
	"testing"

	"github.com/shashwat106/the-financial-blueprint/aggregator"
	"github.com/shashwat106/the-financial-blueprint/factory"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBenchmark(t *testing.T) {
	// GIVEN: A JSON benchmark with one color omitted
	jsonStr := `{
		"name": "urban",
		"categories": [
			{"category": "Housing", "average": 2400, "color": "#111111"},
			{"category": " Food ", "average": 912.5}
		]
	}`

	// WHEN: Parsing
	b, err := factory.NewBenchmarkFactory().ParseBenchmark(jsonStr)

	// THEN: Entries keep their order, labels are trimmed, colors default
	require.NoError(t, err)
	assert.Equal(t, "urban", b.Name)
	require.Len(t, b.Entries, 2)
	assert.Equal(t, "Housing", b.Entries[0].Category)
	assert.True(t, b.Entries[0].Average.Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, "#111111", b.Entries[0].Color)
	assert.Equal(t, "Food", b.Entries[1].Category)
	assert.True(t, b.Entries[1].Average.Equal(decimal.RequireFromString("912.5")))
	assert.Equal(t, aggregator.DefaultColor, b.Entries[1].Color)
}

func TestParseBenchmark_Invalid(t *testing.T) {
	f := factory.NewBenchmarkFactory()

	cases := map[string]string{
		"malformed":          `{"name": `,
		"missing name":       `{"categories": []}`,
		"empty category":     `{"name": "x", "categories": [{"category": "", "average": 1}]}`,
		"duplicate category": `{"name": "x", "categories": [{"category": "Food", "average": 1}, {"category": "food", "average": 2}]}`,
		"negative average":   `{"name": "x", "categories": [{"category": "Food", "average": -1}]}`,
	}

	for name, jsonStr := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ParseBenchmark(jsonStr)
			assert.Error(t, err)
		})
	}

	_, err := f.ParseBenchmark(`{"categories": []}`)
	assert.ErrorIs(t, err, finance.ErrInvalidInput)
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewBenchmarkFactory()
	national := aggregator.NationalBenchmark()

	back, err := f.FromJSON(f.ToJSON(national))

	require.NoError(t, err)
	assert.Equal(t, national.Name, back.Name)
	require.Len(t, back.Entries, len(national.Entries))
	for i := range national.Entries {
		assert.True(t, national.Entries[i].Average.Equal(back.Entries[i].Average))
		assert.Equal(t, national.Entries[i].Color, back.Entries[i].Color)
	}
}

func TestBenchmarkSet(t *testing.T) {
	// GIVEN: A fresh set
	set := factory.NewBenchmarkSet()
	assert.Equal(t, []string{factory.DefaultBenchmark}, set.Names())

	// WHEN: Registering a custom benchmark from config-style definitions
	err := set.RegisterJSON(factory.BenchmarkJSON{
		Name:       "frugal",
		Categories: []factory.CategoryJSON{{Category: "Food", Average: 300}},
	})
	require.NoError(t, err)

	// THEN: It is returned by name and unknown names fall back to national
	assert.Equal(t, []string{"frugal", "national"}, set.Names())
	assert.Equal(t, "frugal", set.Get("frugal").Name)
	assert.Equal(t, factory.DefaultBenchmark, set.Get("nope").Name)
	assert.Equal(t, factory.DefaultBenchmark, set.Get("").Name)

	assert.Error(t, set.Register(aggregator.Benchmark{}))
	assert.Error(t, set.RegisterJSON(factory.BenchmarkJSON{Name: ""}))
}
