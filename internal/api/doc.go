// Package api hosts the HTTP server, middleware, and REST handlers for the
// recipe catalog. Notable routes:
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - /recipes/... for recipe CRUD, search and images.
//   - GET /scrape?url= for scrape-and-save of external recipe pages.
//   - /dates/... for day scheduling and the text/calendar feed.
package api
