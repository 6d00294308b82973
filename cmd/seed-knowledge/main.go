package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"ruraldraft-backend/internal/config"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/llm"
	"ruraldraft-backend/models"
	"ruraldraft-backend/repository"
)

func main() {
	dir := flag.String("dir", "./knowledge", "directory of .txt/.md knowledge files")
	category := flag.String("category", "legislacao", "category for files without a Category header")
	skipEmbeddings := flag.Bool("skip-embeddings", false, "store items without embeddings")
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
		os.Exit(1)
	}
	defer pool.Close()

	var tableExists bool
	err = pool.QueryRow(ctx, "SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'knowledge_base')").Scan(&tableExists)
	if err != nil || !tableExists {
		log.Error("knowledge_base table does not exist, run cmd/create-schema first", nil)
		os.Exit(1)
	}

	var embedder *llm.GenAIEmbedder
	if !*skipEmbeddings {
		e, err := llm.NewGenAIEmbedder(ctx, cfg.LLM.GeminiAPIKey, cfg.Embedding.Model, cfg.Embedding.Dimensions)
		if err != nil {
			log.Error("failed to create embedder", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		embedder = e.ForDocuments()
	}

	files, err := os.ReadDir(*dir)
	if err != nil {
		log.Error("failed to read directory", map[string]interface{}{"dir": *dir, "error": err.Error()})
		os.Exit(1)
	}

	repo := repository.NewKnowledgeRepository(pool)
	stored, failed := 0, 0
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if file.IsDir() || (ext != ".txt" && ext != ".md") {
			continue
		}

		path := filepath.Join(*dir, file.Name())
		fields := map[string]interface{}{"file": file.Name()}

		item, err := readItem(path, *category)
		if err != nil {
			log.Warn("skipping unreadable file", mergeFields(fields, "error", err.Error()))
			failed++
			continue
		}

		if embedder != nil {
			vec, err := embedWithRetry(ctx, embedder, item.Title+"\n\n"+item.Content)
			if err != nil {
				log.Warn("embedding failed, storing without vector", mergeFields(fields, "error", err.Error()))
			} else {
				v := pgvector.NewVector(vec)
				item.Embedding = &v
			}
		}

		if err := repo.Upsert(ctx, item); err != nil {
			log.Error("failed to store item", mergeFields(fields, "error", err.Error()))
			failed++
			continue
		}
		stored++
		log.Info("stored knowledge item", mergeFields(fields, "title", item.Title))
	}

	log.Info("knowledge base seeded", map[string]interface{}{
		"stored": stored,
		"failed": failed,
	})
	if failed > 0 {
		os.Exit(1)
	}
}

// readItem parses a knowledge file. Leading "Title:", "Category:" and
// "Tags:" lines are optional headers ending at the first blank line; the
// title defaults to the file name and tags to its words.
func readItem(path, defaultCategory string) (*models.KnowledgeItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	item := &models.KnowledgeItem{
		Title:    strings.ReplaceAll(base, "_", " "),
		Category: defaultCategory,
		IsActive: true,
	}

	var body []string
	inHeader := true
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if inHeader {
			key, value, ok := strings.Cut(line, ":")
			if ok {
				switch strings.ToLower(strings.TrimSpace(key)) {
				case "title":
					item.Title = strings.TrimSpace(value)
					continue
				case "category":
					item.Category = strings.ToLower(strings.TrimSpace(value))
					continue
				case "tags":
					item.Tags = splitTags(value)
					continue
				}
			}
			inHeader = false
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	item.Content = strings.TrimSpace(strings.Join(body, "\n"))
	if item.Content == "" {
		return nil, fmt.Errorf("%s has no content", path)
	}
	if len(item.Tags) == 0 {
		item.Tags = splitTags(strings.ReplaceAll(base, "_", ","))
	}
	return item, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func embedWithRetry(ctx context.Context, e llm.Embedder, text string) ([]float32, error) {
	var lastErr error
	backoff := time.Second
	for attempt := 0; attempt < 3; attempt++ {
		vec, err := e.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, lastErr
}

func mergeFields(base map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[key] = value
	return out
}
