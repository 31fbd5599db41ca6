// Copyright 2025 TraceMatrix Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	tracematrix "github.com/PanagiotisDrakatos/TraceMatrix"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tracematrix",
		Usage: "Search fusion and fallback orchestration for OSINT investigations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the orchestration plan YAML",
				EnvVars: []string{"ORCH_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Run a fused web search across the configured engines",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum fused results",
						Value: 15,
					},
				},
			},
			{
				Name:   "orchestrate",
				Usage:  "Run the staged fallback pipeline for a subject",
				Action: orchestrateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Subject name",
					},
					&cli.StringSliceFlag{
						Name:    "keyword",
						Aliases: []string{"k"},
						Usage:   "Query keyword (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "url",
						Usage: "Explicit target URL, skips web search (repeatable)",
					},
					&cli.StringFlag{
						Name:  "phone",
						Usage: "Known phone number for the subject",
					},
					&cli.BoolFlag{
						Name:  "fallback",
						Usage: "Allow the search-driven fallback pipeline",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "ingest-limit",
						Usage: "Maximum URLs submitted for ingestion (0 = default)",
					},
					&cli.IntFlag{
						Name:  "export-limit",
						Usage: "Maximum exported rows (0 = default)",
					},
				},
			},
			{
				Name:   "media",
				Usage:  "Preview image and document hits for a subject",
				Action: mediaCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Subject name",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "keyword",
						Aliases: []string{"k"},
						Usage:   "Query keyword (repeatable)",
					},
				},
			},
			{
				Name:   "lookup",
				Usage:  "Resolve a username and/or email to accounts across sites",
				Action: lookupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Username to enumerate",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Email address to probe",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openService(c *cli.Context) (*tracematrix.Service, error) {
	svc, err := tracematrix.NewService(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble service: %w", err)
	}
	return svc, nil
}

func searchCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	hits, err := svc.Search(context.Background(), c.String("query"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	type row struct {
		URL        string  `json:"url"`
		Title      string  `json:"title,omitempty"`
		Source     string  `json:"source"`
		FusedScore float64 `json:"fused_score"`
	}
	rows := make([]row, len(hits))
	for i, h := range hits {
		rows[i] = row{URL: h.URL, Title: h.Title, Source: h.Source.String(), FusedScore: h.FusedScore}
	}
	return printJSON(rows)
}

func orchestrateCommand(c *cli.Context) error {
	req := &core.OrchestrateRequest{
		Name:        c.String("name"),
		Keywords:    c.StringSlice("keyword"),
		URLs:        c.StringSlice("url"),
		Phone:       c.String("phone"),
		Fallback:    c.Bool("fallback"),
		IngestLimit: c.Int("ingest-limit"),
		ExportLimit: c.Int("export-limit"),
	}
	if err := core.ValidateOrchestrateRequest(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	result, nextLimits, err := svc.Orchestrate(context.Background(), req, core.DefaultLimits())
	if err != nil {
		return fmt.Errorf("orchestration failed: %w", err)
	}

	return printJSON(map[string]any{
		"mode":            result.StageReached.String(),
		"exported_rows":   result.ExportedRows,
		"export_paths":    result.ExportPaths,
		"results_preview": result.ResultsPreview,
		"phones_found":    result.PhonesFound,
		"next_limits":     nextLimits,
	})
}

func mediaCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	hits, err := svc.DiscoverMedia(context.Background(), c.String("name"), c.StringSlice("keyword"))
	if err != nil {
		return fmt.Errorf("media discovery failed: %w", err)
	}

	type row struct {
		URL    string `json:"url"`
		Title  string `json:"title,omitempty"`
		Source string `json:"media_type"`
	}
	rows := make([]row, len(hits))
	for i, h := range hits {
		rows[i] = row{URL: h.URL, Title: h.Title, Source: h.Source.String()}
	}
	return printJSON(rows)
}

func lookupCommand(c *cli.Context) error {
	username, email := c.String("username"), c.String("email")
	if username == "" && email == "" {
		return fmt.Errorf("provide --username and/or --email")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	hits, err := svc.Lookup(context.Background(), username, email)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	return printJSON(hits)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
