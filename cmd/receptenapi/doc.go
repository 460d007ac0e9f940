// Package main hosts the recipe catalog service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health, metrics, recipe CRUD,
//     search, scraping, image, and scheduling endpoints. Request bodies are
//     decoded into the raw recipe shape and run through the normalizer before
//     persistence.
//   - Normalization: internal/catalog coerces the loosely-typed schema.org
//     input (string-or-list fields, free-text or nested instructions,
//     human-readable durations) into one canonical recipe document.
//   - Scraping: internal/scrape fetches external recipe pages, preferring a
//     cheap Colly fetch of ld+json markup and falling back to a headless
//     Chromedp render with fixed DOM selectors. One scrape-and-save round trip
//     is bounded by config.Scrape.OverallBudgetSec.
//   - Persistence: internal/storage/postgres keeps recipes as JSONB documents,
//     date links in a relational table with a (date, recipe) uniqueness
//     constraint, and images as bytea rows, all over a shared pgx pool.
//   - Scheduling & calendar: internal/service links recipes to calendar days
//     and internal/ical renders the linked days as an RFC 5545 text/calendar
//     feed with folded, escaped content lines.
//   - Configuration & plumbing: Viper populates config from env/files; zap
//     provides structured logging; Prometheus metrics are exported via the
//     metrics middleware and /metrics handler.
//
// Operational notes:
//   - Concurrency model: request-scoped; the normalizer and calendar writer
//     are pure, and the pgx pool bounds database concurrency. The headless
//     browser is shared across requests with per-request tabs.
//   - Shutdown: the process reacts to SIGTERM, drains the HTTP server, and
//     tears down the headless browser.
//
// Quick checklist:
//   - Configure env vars: RECIPES_SERVER_PORT, RECIPES_DB_DSN,
//     RECIPES_SCRAPE_HEADLESS_ENABLED, RECIPES_AUTH_API_KEY, and
//     RECIPES_ICAL_BASE_URL for calendar deep links.
//   - Run locally: go run ./cmd/receptenapi -config config.yaml (or rely
//     solely on env overrides).
package main
