// Package main is the HireFlow CLI entry point.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hireflow/hireflow/internal/chat"
	"github.com/hireflow/hireflow/internal/cli"
	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/embedding"
	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/fileid"
	"github.com/hireflow/hireflow/internal/indexer"
	"github.com/hireflow/hireflow/internal/keyword"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/models"
	"github.com/hireflow/hireflow/internal/report"
	"github.com/hireflow/hireflow/internal/search"
	"github.com/hireflow/hireflow/internal/server"
	"github.com/hireflow/hireflow/internal/storage"
	"github.com/hireflow/hireflow/internal/vector"
	"github.com/hireflow/hireflow/internal/watcher"
	"github.com/hireflow/hireflow/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/hireflow/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
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
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "rank":
		runRank()
	case "keywords":
		runKeywords()
	case "chat":
		runChat()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("hireflow version %s\n", version)
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
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (resume directory changes, ingestion, etc.)")
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

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	idx := components.Indexer
	exts := cfg.Watch.Extensions
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		exts,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if err := idx.IngestFile(context.Background(), path, exts); err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := idx.DeleteDocument(context.Background(), fileid.DocID(path)); err != nil {
				logger.Warn("watch delete failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExisting()

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Storage,
		components.Generator,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if cfg.Storage.VectorIndexPath != "" && components.VectorIndex != nil {
		if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector index save failed",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	watchCancel()
	watchSvc.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printRankUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: hireflow rank [flags] <job description>\n\n")
	fmt.Fprintf(fs.Output(), "The job description is all remaining arguments joined by spaces; use --job-file to read it from a file instead.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  hireflow rank senior Go engineer with Kubernetes
  hireflow rank --top-n 5 --boost CPA,audit "staff accountant"
  hireflow rank --job-file ./posting.txt --output json
  hireflow rank --detailed "backend engineer"   # adds an LLM-written assessment
`)
}

// buildQueryText joins all positional args with spaces so multi-word job
// descriptions work the same with or without shell quoting.
func buildQueryText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func splitBoostTerms(s string) []string {
	if s == "" {
		return nil
	}
	var terms []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func runRank() {
	rankArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	topK := fs.Int("top-k", 0, "candidate pool size (0 = config default)")
	topN := fs.Int("top-n", 0, "number of ranked candidates to return (0 = config default)")
	boost := fs.String("boost", "", "comma-separated must-have terms; each occurrence boosts a candidate's score")
	jobFile := fs.String("job-file", "", "read the job description from this file")
	detailed := fs.Bool("detailed", false, "include an LLM-written evaluation of the top candidates")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printRankUsage(fs) }
	_ = fs.Parse(rankArgs)

	queryStr := buildQueryText(fs.Args())
	if *jobFile != "" {
		data, err := os.ReadFile(*jobFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read job file: %v\n", err)
			os.Exit(1)
		}
		queryStr = strings.TrimSpace(string(data))
	}
	if queryStr == "" {
		printRankUsage(fs)
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	query := &models.RankQuery{
		Query:      queryStr,
		TopK:       *topK,
		TopN:       *topN,
		BoostTerms: splitBoostTerms(*boost),
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids Bleve/SQLite lock conflict).
		response, evaluation, err := rankViaHTTP(*serverURL, query, *detailed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ranking failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteRankResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		if evaluation != "" && format == cli.OutputText {
			fmt.Printf("\n%s\n", evaluation)
		}
		return
	}

	components, cfg := mustInitialize(*configPath)
	defer components.Close()

	response, err := components.Engine.Rank(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ranking failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRankResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if *detailed {
		if components.Generator == nil {
			fmt.Fprintln(os.Stderr, "Detailed evaluation needs an LLM; set llm.api_key_env in config")
			os.Exit(1)
		}
		builder := report.NewBuilder(components.Generator, cfg.Chat.EvaluationTokenBudget).
			WithThreshold(cfg.Search.SimilarityThreshold)
		evaluation, err := builder.Evaluate(context.Background(), queryStr, response)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s\n", evaluation)
	}
}

func rankViaHTTP(serverURL string, query *models.RankQuery, detailed bool) (*models.RankResponse, string, error) {
	if !detailed {
		body, err := json.Marshal(query)
		if err != nil {
			return nil, "", err
		}
		resp, err := http.Post(serverURL+"/api/v1/rank", "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, "", fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return nil, "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
		}
		var response models.RankResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return nil, "", fmt.Errorf("decode response: %w", err)
		}
		return &response, "", nil
	}

	payload := struct {
		*models.RankQuery
		Detailed bool `json:"detailed"`
	}{query, true}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	resp, err := http.Post(serverURL+"/api/v1/evaluate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Ranking    *models.RankResponse `json:"ranking"`
		Evaluation string               `json:"evaluation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}
	return out.Ranking, out.Evaluation, nil
}

func runKeywords() {
	kwArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("keywords", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	limit := fs.Int("limit", 10, "number of matches")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(kwArgs)

	queryStr := buildQueryText(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: hireflow keywords [flags] <terms>")
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var hits []*models.KeywordHit
	if *serverURL != "" {
		hits, err = keywordsViaHTTP(*serverURL, queryStr, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Keyword search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, _ := mustInitialize(*configPath)
		defer components.Close()
		hits, err = components.Engine.Keywords(context.Background(), queryStr, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Keyword search failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteKeywordHits(os.Stdout, hits, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func keywordsViaHTTP(serverURL, query string, limit int) ([]*models.KeywordHit, error) {
	u := fmt.Sprintf("%s/api/v1/keywords?q=%s&limit=%d", serverURL, url.QueryEscape(query), limit)
	resp, err := http.Get(u)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Hits []*models.KeywordHit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Hits, nil
}

func runChat() {
	chatArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jobFile := fs.String("job-file", "", "read the job description from this file")
	_ = fs.Parse(chatArgs)

	jobContext := buildQueryText(fs.Args())
	if *jobFile != "" {
		data, err := os.ReadFile(*jobFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read job file: %v\n", err)
			os.Exit(1)
		}
		jobContext = strings.TrimSpace(string(data))
	}
	components, cfg := mustInitialize(*configPath)
	defer components.Close()
	if components.Generator == nil {
		fmt.Fprintln(os.Stderr, "Chat needs an LLM; set llm.api_key_env in config")
		os.Exit(1)
	}

	session := chat.NewSession(components.Engine, components.Generator, &cfg.Chat)
	if err := session.Start(jobContext); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		os.Exit(1)
	}
	defer session.End()

	if jobContext != "" {
		fmt.Println("Chatting about this opening. Ask about the candidates; type 'exit' or 'quit' to leave.")
	} else {
		fmt.Println("Chatting about the indexed candidates. Ask away; type 'exit' or 'quit' to leave.")
	}
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		reply, err := session.SubmitTurn(context.Background(), line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", reply)
	}
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: hireflow index [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	components, cfg := mustInitialize(*configPath)
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		exts := cfg.Watch.Extensions
		if exts == nil {
			exts = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}
		}
		n, err := components.Indexer.IngestDirectory(ctx, path, exts)
		if err != nil {
			fmt.Printf("Ingesting directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ingested %d resume(s) from %s\n", n, path)
		saveVectorIndex(components, cfg)
		return
	}
	// Single file: no extension filter
	if err := components.Indexer.IngestFile(ctx, path, nil); err != nil {
		fmt.Printf("Ingesting failed: %v\n", err)
		os.Exit(1)
	}
	absPath, _ := filepath.Abs(path)
	fmt.Printf("Resume ingested: %s\n", fileid.DocID(absPath))
	saveVectorIndex(components, cfg)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: hireflow delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	components, cfg := mustInitialize(*configPath)
	defer components.Close()

	if err := components.Indexer.DeleteDocument(context.Background(), docID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
	saveVectorIndex(components, cfg)
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Documents      int64                  `json:"documents"`
	Chunks         int64                  `json:"chunks"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
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
		components, cfg := mustInitialize(*configPath)
		defer components.Close()
		ctx := context.Background()
		docCount, err := components.Storage.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Storage.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents: docCount,
			Chunks:    chunkCount,
			Config: map[string]interface{}{
				"embedding_model":      components.Embedder.ModelName(),
				"embedding_dimensions": components.Embedder.Dimensions(),
				"chunk_size":           cfg.Search.ChunkSize,
				"chunk_overlap":        cfg.Search.ChunkOverlap,
				"top_k_candidates":     cfg.Search.TopKCandidates,
				"top_n":                cfg.Search.TopN,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(
			cfg.Storage.DatabasePath, cfg.Storage.VectorIndexPath, cfg.Storage.KeywordIndexPath)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
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
		fmt.Printf("documents:  %d\n", status.Documents)
		fmt.Printf("chunks:     %d\n", status.Chunks)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_bytes: %d\n", *status.DiskUsageBytes)
		}
		if len(status.Config) > 0 {
			fmt.Println("\n# configuration")
			for _, k := range []string{"embedding_model", "embedding_dimensions", "chunk_size", "chunk_overlap", "top_k_candidates", "top_n"} {
				if v, ok := status.Config[k]; ok {
					fmt.Printf("%-21s %v\n", k+":", v)
				}
			}
		}
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

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  vector.VectorIndex
	KeywordIndex keyword.KeywordIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
	Generator    llm.Generator
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// mustInitialize loads config, builds a logger, and wires all components,
// exiting on failure. Used by the direct-storage CLI paths.
func mustInitialize(configPath string) (*Components, *config.Config) {
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
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg
}

func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "gemini":
		apiKey := os.Getenv(cfg.Embedding.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("gemini embedder: environment variable %s is not set", cfg.Embedding.APIKeyEnv)
		}
		return embedding.NewGeminiEmbedder(embedding.GeminiConfig{
			APIKey:     apiKey,
			Model:      cfg.Embedding.ModelName,
			Dimensions: cfg.Embedding.Dimensions,
			CacheSize:  cfg.Embedding.CacheSize,
		})
	case "onnx":
		embedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.ModelName,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			// The hash embedder keeps the pipeline usable without the model.
			logger.Warn("ONNX embedder unavailable, using hash embedder", zap.Error(err))
			return embedding.NewHashEmbedder(cfg.Embedding.Dimensions), nil
		}
		return embedder, nil
	default:
		return embedding.NewHashEmbedder(cfg.Embedding.Dimensions), nil
	}
}

func newGenerator(cfg *config.Config, logger *zap.Logger) llm.Generator {
	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
	if apiKey == "" {
		logger.Info("no LLM API key; chat and detailed evaluation disabled",
			zap.String("api_key_env", cfg.LLM.APIKeyEnv))
		return nil
	}
	generator, err := llm.NewGeminiGenerator(llm.Config{
		APIKey:  apiKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Warn("generator init failed; chat disabled", zap.Error(err))
		return nil
	}
	return generator
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}

	vectorIndex, err := vector.NewVectorIndex("memory", embedder.Dimensions(), embedder.ModelName())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vectorIndex.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			if errors.Is(loadErr, vector.ErrIndexNotFound) {
				logger.Info("no saved vector index; starting empty",
					zap.String("path", cfg.Storage.VectorIndexPath))
			} else {
				logger.Warn("vector index load failed; re-ingest to rebuild",
					zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
			}
		}
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.KeywordIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	engine := search.NewEngine(store, embedder, vectorIndex, keywordIndex, &cfg.Search)

	idxOpts := []indexer.IndexerOption{}
	if debug {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, embedder, vectorIndex, keywordIndex, &cfg.Search, extract.NewExtractor(), idxOpts...)

	return &Components{
		Storage:      store,
		Embedder:     embedder,
		VectorIndex:  vectorIndex,
		KeywordIndex: keywordIndex,
		Engine:       engine,
		Indexer:      idx,
		Generator:    newGenerator(cfg, logger),
	}, nil
}

func saveVectorIndex(components *Components, cfg *config.Config) {
	if cfg.Storage.VectorIndexPath == "" {
		return
	}
	if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: vector index save failed: %v\n", err)
	}
}

func printUsage() {
	fmt.Println(`hireflow - Semantic candidate ranking for hiring teams

Usage:
  hireflow server [flags]           Start the HTTP server
  hireflow rank [flags] <job>       Rank candidates against a job description
  hireflow keywords [flags] <terms> Exact keyword search over resumes
  hireflow chat [flags] [job]       Interactive Q&A about the candidate pool
  hireflow index [flags] <path>     Ingest a resume file or directory
  hireflow delete [flags] <id>      Delete a resume by document ID
  hireflow status [flags]           Show storage and index status
  hireflow version                  Show version
  hireflow help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/hireflow/config.yaml)
  --debug            Enable debug logging

Rank Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct storage.
  --top-k int        Candidate pool size before re-ranking (0 = config default)
  --top-n int        Ranked candidates to return (0 = config default)
  --boost string     Comma-separated must-have terms that boost matching candidates
  --job-file string  Read the job description from a file
  --detailed         Include an LLM-written evaluation
  --output string    Output format: text or json (default: text)

Examples:
  hireflow server
  hireflow index ./resumes
  hireflow rank senior Go engineer with Kubernetes experience
  hireflow rank --boost CPA,audit --top-n 5 "staff accountant"
  hireflow keywords CPA
  hireflow chat --job-file ./posting.txt
  hireflow status --output json`)
}
