// Package rag retrieves school knowledge chunks by embedding similarity
// and feeds them to the chat model. It backs the QA fallback: whatever no
// scripted flow claims ends up here.
package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/models"
)

const defaultLimit = 3

// Opts configures a Retriever.
type Opts struct {
	DB    *gorm.DB
	AI    *ai.Service
	Limit int // documents per query, defaults to 3
}

// Retriever searches the documents table by vector distance.
type Retriever struct {
	db    *gorm.DB
	ai    *ai.Service
	limit int
}

// NewRetriever validates opts and builds a Retriever.
func NewRetriever(o Opts) (*Retriever, error) {
	if o.DB == nil {
		return nil, errors.New("rag: db handle is required")
	}
	if o.AI == nil {
		return nil, errors.New("rag: ai service is required")
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	return &Retriever{db: o.DB, ai: o.AI, limit: o.Limit}, nil
}

// SearchRelevantContext embeds the query and returns the closest document
// chunks, nearest first. An empty slice means the knowledge base has
// nothing useful.
func (r *Retriever) SearchRelevantContext(ctx context.Context, query string) ([]string, error) {
	embedding, err := r.ai.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rag: embed query: %w", err)
	}

	var docs []models.Document
	err = r.db.WithContext(ctx).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <-> ?",
			Vars: []interface{}{pgvector.NewVector(embedding)},
		}}).
		Limit(r.limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("rag: search documents: %w", err)
	}

	chunks := make([]string, 0, len(docs))
	for _, doc := range docs {
		chunks = append(chunks, FormatChunk(doc))
	}
	return chunks, nil
}

// FormatChunk renders a document the way the QA prompt expects it.
func FormatChunk(doc models.Document) string {
	if doc.Title != "" {
		return fmt.Sprintf("## %s\n%s", doc.Title, doc.Content)
	}
	return doc.Content
}

// Answer runs the full QA pipeline: rewrite the question into a
// standalone one, retrieve context, and generate the reply. found is
// false when the knowledge base had no matching chunks, so the caller
// can send its no-data message instead.
func (r *Retriever) Answer(ctx context.Context, question string, history []ai.Turn) (answer string, found bool, err error) {
	standalone, err := r.ai.ContextualizeQuestion(ctx, question, history)
	if err != nil {
		return "", false, err
	}
	chunks, err := r.SearchRelevantContext(ctx, standalone)
	if err != nil {
		return "", false, err
	}
	if len(chunks) == 0 {
		return "", false, nil
	}
	answer, err = r.ai.Answer(ctx, question, chunks, history)
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}

// ReplaceSource reindexes one knowledge source: embeds every chunk in a
// single batch, then swaps the source's rows inside a transaction.
func (r *Retriever) ReplaceSource(ctx context.Context, source string, docs []models.Document) error {
	if source == "" {
		return errors.New("rag: source name is required")
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	embeddings, err := r.ai.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("rag: embed source %s: %w", source, err)
	}
	for i := range docs {
		docs[i].Source = source
		docs[i].Embedding = pgvector.NewVector(embeddings[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", source).Delete(&models.Document{}).Error; err != nil {
			return fmt.Errorf("rag: clear source %s: %w", source, err)
		}
		if len(docs) == 0 {
			return nil
		}
		if err := tx.Create(&docs).Error; err != nil {
			return fmt.Errorf("rag: insert source %s: %w", source, err)
		}
		return nil
	})
}
