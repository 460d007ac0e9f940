package ical

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

type fakeLinkSource struct {
	groups []catalog.DateGroup
	since  time.Time
}

func (f *fakeLinkSource) GroupedSince(_ context.Context, since time.Time) ([]catalog.DateGroup, error) {
	f.since = since
	return f.groups, nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestGenerator(groups []catalog.DateGroup) (*Generator, *fakeLinkSource) {
	source := &fakeLinkSource{groups: groups}
	clock := &fakeClock{now: time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)}
	gen := New(source, clock, Config{BaseURL: "https://recepten.example"}, zap.NewNop())
	return gen, source
}

func TestGenerateAllDayEvent(t *testing.T) {
	t.Parallel()

	gen, _ := newTestGenerator([]catalog.DateGroup{
		{
			Date:    day(2024, 6, 1),
			Recipes: []catalog.Recipe{{ID: "r1", Name: "Soup", Description: "Hot soup"}},
		},
	})

	feed, err := gen.Generate(context.Background(), day(2024, 6, 15))
	require.NoError(t, err)

	require.Contains(t, feed, "BEGIN:VCALENDAR\r\n")
	require.Contains(t, feed, "VERSION:2.0\r\n")
	require.Contains(t, feed, "CALSCALE:GREGORIAN\r\n")
	require.Contains(t, feed, "METHOD:PUBLISH\r\n")
	require.Contains(t, feed, "DTSTART;VALUE=DATE:20240601\r\n")
	// All-day convention: end is exclusive, one day after start.
	require.Contains(t, feed, "DTEND;VALUE=DATE:20240602\r\n")
	require.Contains(t, feed, "SUMMARY:Soup\r\n")
	require.Contains(t, feed, "UID:r1-20240601@receptenapi\r\n")
	// Issue timestamp is truncated to the minute.
	require.Contains(t, feed, "DTSTAMP:20240615T103000Z\r\n")
	require.Contains(t, feed, "https://recepten.example/recipes/get/r1")
	require.True(t, strings.HasSuffix(feed, "END:VCALENDAR\r\n"))
}

func TestGenerateQueriesFromPreviousMonth(t *testing.T) {
	t.Parallel()

	gen, source := newTestGenerator(nil)
	_, err := gen.Generate(context.Background(), time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, day(2024, 2, 1), source.since)

	// January rolls back into December of the previous year.
	_, err = gen.Generate(context.Background(), day(2024, 1, 5))
	require.NoError(t, err)
	require.Equal(t, day(2023, 12, 1), source.since)
}

func TestGeneratePlaceholdersForMissingText(t *testing.T) {
	t.Parallel()

	gen, _ := newTestGenerator([]catalog.DateGroup{
		{Date: day(2024, 6, 1), Recipes: []catalog.Recipe{{ID: "r1"}}},
	})
	feed, err := gen.Generate(context.Background(), day(2024, 6, 15))
	require.NoError(t, err)
	require.Contains(t, feed, "SUMMARY:"+summaryPlaceholder)
	require.Contains(t, feed, "DESCRIPTION:"+descriptionPlaceholder)
}

func TestGenerateSkipsDanglingLinks(t *testing.T) {
	t.Parallel()

	gen, _ := newTestGenerator([]catalog.DateGroup{
		{
			Date: day(2024, 6, 1),
			Recipes: []catalog.Recipe{
				{}, // dangling recipe reference
				{ID: "r2", Name: "Bread"},
			},
		},
	})
	feed, err := gen.Generate(context.Background(), day(2024, 6, 15))
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(feed, "BEGIN:VEVENT"))
	require.Contains(t, feed, "SUMMARY:Bread")
}

func TestGenerateUIDStableAcrossRuns(t *testing.T) {
	t.Parallel()

	groups := []catalog.DateGroup{
		{Date: day(2024, 6, 1), Recipes: []catalog.Recipe{{ID: "r1", Name: "Soup"}}},
	}
	gen, _ := newTestGenerator(groups)

	first, err := gen.Generate(context.Background(), day(2024, 6, 15))
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), day(2024, 6, 16))
	require.NoError(t, err)

	uid := "UID:r1-20240601@receptenapi"
	require.Contains(t, first, uid)
	require.Contains(t, second, uid)
}

func TestGenerateFoldsLongDescription(t *testing.T) {
	t.Parallel()

	gen, _ := newTestGenerator([]catalog.DateGroup{
		{
			Date: day(2024, 6, 1),
			Recipes: []catalog.Recipe{{
				ID:          "r1",
				Name:        "Soup",
				Description: strings.Repeat("x", 200),
			}},
		},
	})
	feed, err := gen.Generate(context.Background(), day(2024, 6, 15))
	require.NoError(t, err)

	for _, line := range strings.Split(feed, "\r\n") {
		require.LessOrEqual(t, len(line), 75, "line %q exceeds fold width", line)
	}
	require.Contains(t, feed, "\r\n x")
}

func TestEscapingPrecedesFolding(t *testing.T) {
	t.Parallel()

	// Commas near the fold boundary must already be escaped when the
	// line is folded, so the escape sequence may itself be split.
	desc := strings.Repeat("a,", 60)
	gen, _ := newTestGenerator([]catalog.DateGroup{
		{Date: day(2024, 6, 1), Recipes: []catalog.Recipe{{ID: "r1", Name: "Soup", Description: desc}}},
	})
	feed, err := gen.Generate(context.Background(), day(2024, 6, 15))
	require.NoError(t, err)

	unfolded := strings.ReplaceAll(feed, "\r\n ", "")
	require.Contains(t, unfolded, "DESCRIPTION:"+strings.Repeat(`a\,`, 60))
}
