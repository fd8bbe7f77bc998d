// Package main is the Kotae CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/answer"
	"github.com/hyperjump/kotae/internal/cli"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/keyword"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/registry"
	"github.com/hyperjump/kotae/internal/rerank"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/server"
	"github.com/hyperjump/kotae/internal/watcher"
	"github.com/hyperjump/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "kotae server" from the project dir uses the project's
// config. When no file exists at all, built-in defaults plus environment
// overrides are used. Returns the config and the path actually loaded ("" for
// defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Local development keeps credentials in .env; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "ingest":
		runIngest()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var watchCancel context.CancelFunc
	if cfg.Watch.Enabled && len(cfg.Watch.Directories) > 0 {
		svc := components.Ingest
		watchSvc := watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if _, err := svc.IngestFile(context.Background(), path); err != nil {
					logger.Warn("watched file ingestion failed", zap.String("path", path), zap.Error(err))
				}
			},
			logger,
		)
		var watchCtx context.Context
		watchCtx, watchCancel = context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(server.Deps{
		Retriever: components.Retriever,
		Composer:  components.Composer,
		Ingest:    components.Ingest,
		Registry:  components.Registry,
		Keyword:   components.Keyword,
		Spell:     components.Spell,
		Store:     components.Store,
		Embedder:  components.Embedder,
		Generator: components.Generator,
	}, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchCancel != nil {
		watchCancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path")
	topK := fs.Int("top-k", 0, "number of context chunks to retrieve (default from service)")
	noRerank := fs.Bool("no-rerank", false, "skip cross-encoder re-ranking, keep distance order")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	_, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	results, err := components.Retriever.Search(ctx, question, *topK, !*noRerank)
	if err != nil {
		if errors.Is(err, index.ErrIndexNotFound) {
			fmt.Println("The knowledge base is empty. Please ingest documents before asking questions.")
			return
		}
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.Text)
	}
	resp := &models.QueryResponse{Sources: sources}
	resp.Answer, err = components.Composer.Compose(ctx, question, sources)
	if err != nil {
		if !errors.Is(err, answer.ErrGenerationUnavailable) {
			fmt.Fprintf(os.Stderr, "Answer generation failed: %v\n", err)
			os.Exit(1)
		}
		resp.Answer = "Answer generation is currently unavailable. The most relevant passages are listed as sources."
	}
	if err := cli.WriteAnswer(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	_, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		report, err := components.Ingest.IngestDirectory(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteIngestReport(os.Stdout, report, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		if len(report.Failures) > 0 {
			os.Exit(1)
		}
		return
	}
	result, err := components.Ingest.IngestFile(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteIngestResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// statusResponse mirrors the shape of GET /api/v1/status.
type statusResponse struct {
	Chunks         int                    `json:"chunks"`
	Documents      int64                  `json:"documents"`
	KeywordChunks  uint64                 `json:"keyword_chunks"`
	DiskUsageBytes int64                  `json:"disk_usage_bytes"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path")
	serverURL := fs.String("server", "", "server URL (empty = read local state directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		_, logger, components := mustInitialize(*configPath)
		defer logger.Sync()
		defer components.Close()

		if n, err := components.Store.Count(); err == nil {
			status.Chunks = n
		}
		status.DiskUsageBytes = components.Store.DiskUsageBytes()
		if components.Registry != nil {
			if n, err := components.Registry.Count(context.Background()); err == nil {
				status.Documents = n
			}
		}
		if components.Keyword != nil {
			if n, err := components.Keyword.Count(); err == nil {
				status.KeywordChunks = n
			}
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("chunks:            %d   # vectors in the semantic index\n", status.Chunks)
		fmt.Printf("documents:         %d   # documents in the registry\n", status.Documents)
		fmt.Printf("keyword_chunks:    %d   # chunks in the keyword index\n", status.KeywordChunks)
		fmt.Printf("disk_usage_bytes:  %d\n", status.DiskUsageBytes)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// configPathDefault lets deployments point at a config file without a flag.
func configPathDefault() string {
	if v := os.Getenv("KOTAE_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// mustInitialize loads config, builds a logger, and initializes all
// components, exiting on failure. Shared by the one-shot subcommands.
func mustInitialize(configPath string) (*config.Config, *zap.Logger, *Components) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, logger, components
}

// Components holds initialized services.
type Components struct {
	Store     *index.Store
	Embedder  embedding.Embedder
	Reranker  rerank.Reranker
	Retriever *retrieval.Retriever
	Generator answer.Generator
	Composer  *answer.Composer
	Registry  *registry.Registry
	Keyword   *keyword.Index
	Spell     *keyword.SpellChecker
	Ingest    *ingest.Service
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Reranker != nil {
		_ = c.Reranker.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
	if c.Registry != nil {
		_ = c.Registry.Close()
	}
	if c.Keyword != nil {
		_ = c.Keyword.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	embedder := embedding.NewFromConfig(ctx, &cfg.Embedding, cfg.GeminiAPIKey, logger)
	store := index.NewStore(cfg.Index.VectorPath, cfg.Index.MetadataPath, embedder, logger)
	reranker := rerank.NewFromConfig(&cfg.Rerank, logger)
	retriever := retrieval.New(store, embedder, reranker, logger)
	generator := answer.NewGeneratorFromConfig(ctx, &cfg.Generation, cfg.GeminiAPIKey, logger)
	composer := answer.NewComposer(generator, logger)

	// Registry and keyword index are supporting state; their absence degrades
	// the document listing and keyword search endpoints, not question answering.
	var reg *registry.Registry
	if cfg.Registry.DatabasePath != "" {
		r, err := registry.Open(cfg.Registry.DatabasePath)
		if err != nil {
			logger.Warn("document registry unavailable", zap.String("path", cfg.Registry.DatabasePath), zap.Error(err))
		} else {
			reg = r
		}
	}
	var kw *keyword.Index
	var spell *keyword.SpellChecker
	if cfg.Keyword.IndexPath != "" {
		ix, err := keyword.Open(cfg.Keyword.IndexPath)
		if err != nil {
			logger.Warn("keyword index unavailable", zap.String("path", cfg.Keyword.IndexPath), zap.Error(err))
		} else {
			kw = ix
			spell = keyword.NewSpellChecker(ix)
		}
	}

	chunker := ingest.NewChunker(cfg.Chunking.Window, cfg.Chunking.Overlap)
	svc := ingest.NewService(extract.NewExtractor(), chunker, store, reg, kw, logger)

	return &Components{
		Store:     store,
		Embedder:  embedder,
		Reranker:  reranker,
		Retriever: retriever,
		Generator: generator,
		Composer:  composer,
		Registry:  reg,
		Keyword:   kw,
		Spell:     spell,
		Ingest:    svc,
	}, nil
}

func printUsage() {
	fmt.Println(`kotae - Local retrieval-augmented question answering

Usage:
  kotae server [flags]              Start the HTTP server
  kotae ask [flags] <question>      Ask a question against the knowledge base
  kotae ingest [flags] <path>       Ingest a document file or directory
  kotae status [flags]              Show index and registry status
  kotae version                     Show version
  kotae help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml, or $KOTAE_CONFIG)
  --debug            Enable debug logging

Ask Flags:
  --config string    Config file path
  --top-k int        Number of context chunks to retrieve (default: 4)
  --no-rerank        Skip cross-encoder re-ranking, keep distance order
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path
  --server string    Server URL (empty = read local state directly)
  --output string    Output format: text or json (default: text)

Examples:
  kotae server
  kotae ingest ./docs
  kotae ask "what does the quarterly report say about revenue?"
  kotae ask --top-k 8 --no-rerank "deployment steps"
  kotae status --output json`)
}
