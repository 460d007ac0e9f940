// Package postgres provides Postgres-backed persistence for recipes,
// date links and recipe images. Recipes are stored document-style in a
// JSONB column so the canonical shape can evolve without migrations.
//
// Expected schema:
//
//	CREATE TABLE recipes (
//		id TEXT PRIMARY KEY,
//		doc JSONB NOT NULL,
//		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
//	CREATE TABLE date_links (
//		id TEXT PRIMARY KEY,
//		date TIMESTAMPTZ NOT NULL,
//		recipe_id TEXT NOT NULL,
//		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//		UNIQUE (date, recipe_id)
//	);
//
//	CREATE TABLE recipe_images (
//		recipe_id TEXT PRIMARY KEY,
//		content_type TEXT NOT NULL,
//		image BYTEA NOT NULL
//	);
package postgres
