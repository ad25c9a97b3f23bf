package rag

import (
	"strings"

	"github.com/sdnsembar01/aska/internal/models"
)

// DefaultChunkSize matches the knowledge-base ingest default.
const DefaultChunkSize = 500

// separators in strength order: table rows, section headings, paragraph
// breaks, lines, words. A chunk is split on the strongest separator that
// actually occurs in it.
var separators = []string{"\n|", "\n## ", "\n\n", "\n", " "}

// SplitContent cuts markdown content into chunks of at most chunkSize
// bytes, preferring to break at structural boundaries. Separators stay
// attached to the start of the following chunk so headings and table
// rows survive splitting.
func SplitContent(content string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var chunks []string
	for _, piece := range splitRecursive(strings.TrimSpace(content), chunkSize, 0) {
		if piece = strings.TrimSpace(piece); piece != "" {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

func splitRecursive(text string, chunkSize, sepIdx int) []string {
	if len(text) <= chunkSize || sepIdx >= len(separators) {
		return []string{text}
	}
	parts := splitKeep(text, separators[sepIdx])
	if len(parts) == 1 {
		return splitRecursive(text, chunkSize, sepIdx+1)
	}

	var out []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	for _, part := range parts {
		if len(part) > chunkSize {
			flush()
			out = append(out, splitRecursive(part, chunkSize, sepIdx+1)...)
			continue
		}
		if buf.Len()+len(part) > chunkSize {
			flush()
		}
		buf.WriteString(part)
	}
	flush()
	return out
}

// splitKeep splits on sep and reattaches sep to the start of each later
// part.
func splitKeep(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	out = append(out, parts[0])
	for _, part := range parts[1:] {
		out = append(out, sep+part)
	}
	return out
}

// LoadMarkdown chunks a markdown knowledge file into documents ready for
// ReplaceSource. A chunk that starts with a "## " heading keeps that
// heading as its title.
func LoadMarkdown(source, content string, chunkSize int) []models.Document {
	chunks := SplitContent(content, chunkSize)
	docs := make([]models.Document, 0, len(chunks))
	for _, chunk := range chunks {
		doc := models.Document{Source: source, Content: chunk}
		if strings.HasPrefix(chunk, "## ") {
			heading, rest, found := strings.Cut(chunk, "\n")
			if found {
				doc.Title = strings.TrimSpace(strings.TrimPrefix(heading, "## "))
				doc.Content = strings.TrimSpace(rest)
			}
		}
		if doc.Content == "" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
