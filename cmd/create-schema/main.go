package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ruraldraft-backend/internal/config"
	"ruraldraft-backend/internal/logger"
)

// tables lists the schema in dependency order.
var tables = []struct {
	name string
	sql  string
}{
	{
		name: "documents",
		sql: `
CREATE TABLE IF NOT EXISTS documents (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    code VARCHAR(40) NOT NULL,
    agent_type VARCHAR(100) NOT NULL,
    doc_type VARCHAR(255) NOT NULL DEFAULT '',
    provider VARCHAR(50) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL CHECK (status IN ('generated', 'unstructured', 'exported')),
    client_name VARCHAR(255) NOT NULL DEFAULT '',
    case_data JSONB NOT NULL DEFAULT '{}'::jsonb,
    result JSONB NOT NULL DEFAULT '{}'::jsonb,
    html TEXT NOT NULL,
    generated_by VARCHAR(255) NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT documents_code_unique UNIQUE (code)
);`,
	},
	{
		name: "generation_jobs",
		sql: `
CREATE TABLE IF NOT EXISTS generation_jobs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    document_id UUID REFERENCES documents(id) ON DELETE SET NULL,
    agent_type VARCHAR(100) NOT NULL,
    status VARCHAR(20) NOT NULL CHECK (status IN ('pending', 'in_progress', 'completed', 'failed')),
    current_step VARCHAR(50),
    steps JSONB NOT NULL DEFAULT '[]'::jsonb,
    error_message TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMP
);`,
	},
	{
		name: "document_exports",
		sql: `
CREATE TABLE IF NOT EXISTS document_exports (
    id UUID PRIMARY KEY,
    document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    filename VARCHAR(255) NOT NULL,
    mime_type VARCHAR(100) NOT NULL,
    size BIGINT NOT NULL,
    checksum CHAR(64) NOT NULL,
    storage_path TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "knowledge_base",
		sql: `
CREATE TABLE IF NOT EXISTS knowledge_base (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title VARCHAR(255) NOT NULL,
    content TEXT NOT NULL,
    category VARCHAR(50) NOT NULL DEFAULT 'legislacao',
    tags TEXT[] NOT NULL DEFAULT '{}',
    is_active BOOLEAN NOT NULL DEFAULT true,
    embedding vector(768),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT knowledge_title_unique UNIQUE (title)
);`,
	},
	{
		name: "judicial_sections",
		sql: `
CREATE TABLE IF NOT EXISTS judicial_sections (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    uf CHAR(2) NOT NULL UNIQUE,
    region VARCHAR(10) NOT NULL
);`,
	},
	{
		name: "judicial_subsections",
		sql: `
CREATE TABLE IF NOT EXISTS judicial_subsections (
    id SERIAL PRIMARY KEY,
    section_id INTEGER NOT NULL REFERENCES judicial_sections(id),
    name VARCHAR(255) NOT NULL,
    court_city VARCHAR(255) NOT NULL,
    has_jef BOOLEAN NOT NULL DEFAULT true
);`,
	},
	{
		name: "municipalities",
		sql: `
CREATE TABLE IF NOT EXISTS municipalities (
    id SERIAL PRIMARY KEY,
    ibge_code CHAR(7) UNIQUE,
    name VARCHAR(255) NOT NULL,
    normalized_name VARCHAR(255) NOT NULL,
    uf CHAR(2) NOT NULL
);`,
	},
	{
		name: "jurisdiction_map",
		sql: `
CREATE TABLE IF NOT EXISTS jurisdiction_map (
    municipality_id INTEGER PRIMARY KEY REFERENCES municipalities(id),
    subsection_id INTEGER NOT NULL REFERENCES judicial_subsections(id),
    legal_basis TEXT
);`,
	},
}

var indexes = []struct {
	name string
	sql  string
}{
	{
		name: "Knowledge vector similarity (HNSW)",
		sql: `CREATE INDEX IF NOT EXISTS idx_knowledge_embedding_hnsw ON knowledge_base
USING hnsw (embedding vector_cosine_ops)
WITH (m = 16, ef_construction = 64);`,
	},
	{
		name: "Knowledge tag overlap",
		sql:  "CREATE INDEX IF NOT EXISTS idx_knowledge_tags ON knowledge_base USING gin (tags);",
	},
	{
		name: "Active knowledge items",
		sql:  "CREATE INDEX IF NOT EXISTS idx_knowledge_active ON knowledge_base(category, title) WHERE is_active = true;",
	},
	{
		name: "Municipality lookup",
		sql:  "CREATE INDEX IF NOT EXISTS idx_municipalities_name_uf ON municipalities(normalized_name, uf);",
	},
	{
		name: "Documents by creation",
		sql:  "CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);",
	},
	{
		name: "Exports by document",
		sql:  "CREATE INDEX IF NOT EXISTS idx_document_exports_document ON document_exports(document_id);",
	},
	{
		name: "Jobs by document",
		sql:  "CREATE INDEX IF NOT EXISTS idx_generation_jobs_document ON generation_jobs(document_id) WHERE document_id IS NOT NULL;",
	},
}

func main() {
	drop := flag.Bool("drop", false, "drop existing tables first (development only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("failed to connect to database", map[string]interface{}{"error": err.Error()})
		return
	}
	defer pool.Close()

	for _, ext := range []string{"vector", "unaccent"} {
		if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS "+ext); err != nil {
			log.Warn("failed to create extension", map[string]interface{}{
				"extension": ext,
				"error":     err.Error(),
			})
			continue
		}
		log.Info("extension enabled", map[string]interface{}{"extension": ext})
	}

	if *drop {
		for i := len(tables) - 1; i >= 0; i-- {
			if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables[i].name+" CASCADE"); err != nil {
				log.Error("failed to drop table", map[string]interface{}{
					"table": tables[i].name,
					"error": err.Error(),
				})
				return
			}
		}
		log.Info("dropped existing tables", nil)
	}

	for _, t := range tables {
		if _, err := pool.Exec(ctx, t.sql); err != nil {
			log.Error("failed to create table", map[string]interface{}{
				"table": t.name,
				"error": err.Error(),
			})
			return
		}
		log.Info("table ready", map[string]interface{}{"table": t.name})
	}

	created := 0
	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx.sql); err != nil {
			log.Warn("failed to create index", map[string]interface{}{
				"index": idx.name,
				"error": err.Error(),
			})
			continue
		}
		created++
	}

	log.Info("database schema created", map[string]interface{}{
		"tables":  len(tables),
		"indexes": created,
	})
}
