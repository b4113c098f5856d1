// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sumanth-CBRE/Weatherbot/internal/agent"
	"github.com/Sumanth-CBRE/Weatherbot/internal/config"
	"github.com/Sumanth-CBRE/Weatherbot/internal/logging"
)

var (
	aiProvider   = flag.String("ai-provider", "", "AI provider: openai, anthropic, groq or llama (default: groq)")
	aiModel      = flag.String("ai-model", "", "Model ID to use (default: per-provider)")
	aiBaseURL    = flag.String("ai-base-url", "", "Custom base URL for OpenAI-compatible endpoints (e.g. Ollama, vLLM, LiteLLM)")
	maxRounds    = flag.Int("max-rounds", 0, "Maximum model/tool rounds per query")
	queryTimeout = flag.Duration("query-timeout", 2*time.Minute, "Timeout for a single query")
	logLevel     = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	query        = flag.String("query", "", "Run a single query and exit instead of starting the interactive loop")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path to server script (.py or .js)>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := loadConfig()

	logger := logging.New(logging.Options{
		Output: os.Stderr,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
	logging.SetDefaultLogger(logger)

	// Cancel everything on interrupt so the server subprocess dies with us
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scriptPath := flag.Arg(0)
	name, args, err := agent.ServerCommand(scriptPath)
	if err != nil {
		log.Fatalf("Invalid server script: %v", err)
	}

	session, err := agent.ConnectServer(ctx, name, args, logger)
	if err != nil {
		log.Fatalf("Failed to connect to tool server: %v", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warnf("Error closing server session: %v", err)
		}
	}()

	executor := agent.NewQueryExecutor(cfg, session, logger)

	if *query != "" {
		result := executor.ExecuteQuery(ctx, *query, *queryTimeout)
		fmt.Println(result.Answer)
		if result.Error != "" {
			os.Exit(1)
		}
		return
	}

	chatLoop(ctx, executor)
}

// loadConfig loads configuration from the environment and command line flags
func loadConfig() *config.Config {
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	config.FromEnv(cfg)

	if *aiProvider != "" {
		cfg.AI.Provider = *aiProvider
	}
	if *aiModel != "" {
		cfg.AI.Model = *aiModel
	}
	if *aiBaseURL != "" {
		cfg.AI.BaseURL = *aiBaseURL
	}
	if *maxRounds > 0 {
		cfg.AI.MaxToolIterations = *maxRounds
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// chatLoop reads queries from stdin until EOF or "quit" and prints each answer.
func chatLoop(ctx context.Context, executor *agent.QueryExecutor) {
	fmt.Println("Weather agent started. Type your queries or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nQuery: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") {
			break
		}
		if ctx.Err() != nil {
			break
		}

		result := executor.ExecuteQuery(ctx, line, *queryTimeout)
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println(result.Answer)
		fmt.Println(strings.Repeat("=", 50))
	}

	if err := scanner.Err(); err != nil {
		logging.GetDefaultLogger().Errorf("Error reading input: %v", err)
	}
}
