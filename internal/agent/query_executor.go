// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Sumanth-CBRE/Weatherbot/internal/config"
	"github.com/Sumanth-CBRE/Weatherbot/internal/logging"
)

// Result captures the outcome of one executed query.
type Result struct {
	Query     string
	Answer    string
	StartTime time.Time
	EndTime   time.Time
	Duration  string
	Error     string
}

// QueryExecutor handles executing user queries against the agent loop.
type QueryExecutor struct {
	config  *config.Config
	session ToolDispatcher
	logger  *logging.Logger
}

// NewQueryExecutor creates a new query executor.
func NewQueryExecutor(cfg *config.Config, session ToolDispatcher, logger *logging.Logger) *QueryExecutor {
	return &QueryExecutor{
		config:  cfg,
		session: session,
		logger:  logger,
	}
}

// ExecuteQuery runs one query through the tool loop with a timeout and
// returns a display-ready result.
func (qe *QueryExecutor) ExecuteQuery(ctx context.Context, query string, timeout time.Duration) *Result {
	result := &Result{
		Query:     query,
		StartTime: time.Now(),
	}

	// Create a context with timeout
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome, err := RunQuery(execCtx, query, qe.config, qe.session)

	// Update result fields
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime).String()

	if err != nil {
		result.Error = err.Error()
		result.Answer = fmt.Sprintf("Error processing query: %v", err)
		qe.logger.Errorf("Query failed after %s: %v", result.Duration, err)
	} else {
		result.Answer = CleanAnswer(outcome.Answer, outcome.LastToolResult)
		qe.logger.Debugf("Query completed in %s over %d rounds", result.Duration, outcome.Rounds)
	}

	return result
}
