// Package ical emits an RFC5545 calendar document from scheduled recipe
// links.
package ical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

// Placeholder values used when a recipe is missing cosmetic fields.
// Missing text degrades to these, it never aborts feed generation.
const (
	summaryPlaceholder     = "Untitled recipe"
	descriptionPlaceholder = "No description available"
)

const (
	dateStampLayout = "20060102"
	timeStampLayout = "20060102T150405Z"
)

// Config controls the static calendar headers and the recipe deep links
// appended to event descriptions.
type Config struct {
	ProductID    string
	CalendarName string
	Category     string
	// BaseURL is the public address of this service, used to build the
	// per-recipe deep link, e.g. https://recepten.example.
	BaseURL string
}

// DateLinkSource is the date-link lookup collaborator the generator
// reads from.
type DateLinkSource interface {
	GroupedSince(ctx context.Context, since time.Time) ([]catalog.DateGroup, error)
}

// Generator builds the calendar feed from date-grouped recipe links.
type Generator struct {
	links  DateLinkSource
	clock  catalog.Clock
	cfg    Config
	logger *zap.Logger
}

// New constructs a Generator.
func New(links DateLinkSource, clock catalog.Clock, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProductID == "" {
		cfg.ProductID = "-//receptenapi//recipe calendar//EN"
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = "Recipes"
	}
	if cfg.Category == "" {
		cfg.Category = "Recipes"
	}
	return &Generator{links: links, clock: clock, cfg: cfg, logger: logger}
}

// Generate renders the complete calendar document. The feed covers every
// link dated on or after the first day of the month before asOf. All-day
// events use the UTC calendar day throughout: dates are stored at UTC
// midnight and rendered as UTC, so a link never shifts across a day
// boundary between storage and feed.
func (g *Generator) Generate(ctx context.Context, asOf time.Time) (string, error) {
	since := startOfPreviousMonth(asOf)
	groups, err := g.links.GroupedSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("query date links: %w", err)
	}

	stamp := g.clock.Now().UTC().Truncate(time.Minute).Format(timeStampLayout)

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+g.cfg.ProductID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	writeLine(&b, "X-WR-CALNAME:"+g.cfg.CalendarName)

	for _, group := range groups {
		start := catalog.DayStart(group.Date)
		end := start.AddDate(0, 0, 1)
		for _, recipe := range group.Recipes {
			if recipe.ID == "" {
				// Dangling link rows degrade to a warning, never a
				// broken feed.
				g.logger.Warn("skipping date link with missing recipe",
					zap.Time("date", group.Date))
				continue
			}
			g.writeEvent(&b, recipe, start, end, stamp)
		}
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String(), nil
}

func (g *Generator) writeEvent(b *strings.Builder, recipe catalog.Recipe, start, end time.Time, stamp string) {
	startDate := start.Format(dateStampLayout)

	summary := recipe.Name
	if summary == "" {
		summary = summaryPlaceholder
	}
	description := recipe.Description
	if description == "" {
		description = descriptionPlaceholder
	}
	description += "\n" + g.deepLink(recipe.ID)

	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, "CATEGORIES:"+escapeText(g.cfg.Category))
	writeLine(b, "DESCRIPTION:"+escapeText(description))
	writeLine(b, "DTSTAMP:"+stamp)
	writeLine(b, "DTSTART;VALUE=DATE:"+startDate)
	writeLine(b, "DTEND;VALUE=DATE:"+end.Format(dateStampLayout))
	writeLine(b, "STATUS:CONFIRMED")
	writeLine(b, "SUMMARY:"+escapeText(summary))
	// Stable across regenerations for the same recipe and day, so
	// calendar clients deduplicate instead of duplicating.
	writeLine(b, "UID:"+recipe.ID+"-"+startDate+"@receptenapi")
	writeLine(b, "END:VEVENT")
}

func (g *Generator) deepLink(recipeID string) string {
	base := strings.TrimSuffix(g.cfg.BaseURL, "/")
	return base + "/recipes/get/" + recipeID
}

func startOfPreviousMonth(asOf time.Time) time.Time {
	asOf = asOf.UTC()
	return time.Date(asOf.Year(), asOf.Month()-1, 1, 0, 0, 0, 0, time.UTC)
}

// writeLine folds and terminates one content line. Folding operates on
// the fully-prefixed, already-escaped line per RFC5545.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(foldLine(line))
	b.WriteString("\r\n")
}
