package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdnsembar01/aska/internal/rag"
)

const defaultChunkSize = 1200

func newKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Knowledge base commands",
	}

	cmd.AddCommand(newKBLoadCmd())
	return cmd
}

func newKBLoadCmd() *cobra.Command {
	var (
		configPath string
		source     string
		chunkSize  int
	)

	cmd := &cobra.Command{
		Use:   "load <file.md>",
		Short: "Index a markdown file into the knowledge base",
		Long:  "Chunks the markdown file, embeds every chunk, and replaces the named source's rows so re-running a load never duplicates documents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKBLoad(cmd, configPath, args[0], source, chunkSize)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "aska.yaml", "path to ASKA config file")
	cmd.Flags().StringVarP(&source, "source", "s", "", "source name (defaults to the file name without extension)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", defaultChunkSize, "maximum characters per chunk")
	return cmd
}

func runKBLoad(cmd *cobra.Command, configPath, path, source string, chunkSize int) error {
	out := cmd.OutOrStdout()

	if source == "" {
		source = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	aiSvc, err := newAIService(cfg)
	if err != nil {
		return err
	}
	if aiSvc == nil {
		return fmt.Errorf("an OpenAI API key is required to embed documents (openai.api_key or OPENAI_API_KEY)")
	}
	retriever, err := rag.NewRetriever(rag.Opts{DB: gormDB, AI: aiSvc})
	if err != nil {
		return err
	}

	docs := rag.LoadMarkdown(source, string(content), chunkSize)
	if len(docs) == 0 {
		return fmt.Errorf("%s produced no chunks", path)
	}
	fmt.Fprintf(out, "Chunked %s into %d documents\n", path, len(docs))

	if err := retriever.ReplaceSource(context.Background(), source, docs); err != nil {
		return err
	}
	fmt.Fprintf(out, "Source %q indexed (%d documents embedded)\n", source, len(docs))
	return nil
}
