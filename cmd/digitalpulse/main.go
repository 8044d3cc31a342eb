// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/digitalpulse/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "digitalpulse",
		Usage: "Find, classify and summarize opinions related to a topic",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				EnvVars: []string{"DP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				EnvVars: []string{"DP_LOG_LEVEL"},
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Set logging format (text, json)",
				EnvVars: []string{"DP_LOG_FORMAT"},
				Value:   "text",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add-opinion",
				Usage:  "Store a new opinion",
				Action: addOpinionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Opinion text", Required: true},
					&cli.StringFlag{Name: "topic", Usage: "Key of the topic the opinion belongs to"},
					&cli.StringFlag{Name: "type", Usage: "Category: Claim, Counterclaim, Rebuttal or Evidence"},
					&cli.StringFlag{Name: "effectiveness", Usage: "Effectiveness rating"},
				},
			},
			{
				Name:   "add-topic",
				Usage:  "Store a new topic and print its key",
				Action: addTopicCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Topic text", Required: true},
					&cli.StringFlag{Name: "type", Usage: "Topic type (default \"Position\")"},
					&cli.StringFlag{Name: "effectiveness", Usage: "Effectiveness rating"},
				},
			},
			{
				Name:   "add-conclusion",
				Usage:  "Store a conclusion for a topic",
				Action: addConclusionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "topic", Usage: "Topic key", Required: true},
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Conclusion text", Required: true},
					&cli.StringFlag{Name: "type", Usage: "Conclusion type (default \"Concluding Statement\")"},
					&cli.StringFlag{Name: "effectiveness", Usage: "Effectiveness rating"},
				},
			},
			{
				Name:   "topics",
				Usage:  "List stored topics",
				Action: topicsCommand,
			},
			{
				Name:   "analyze",
				Usage:  "Classify the opinions related to a topic and generate a conclusion",
				Action: analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Free topic text to analyze"},
					&cli.StringFlag{Name: "topic", Usage: "Key of a stored topic to analyze"},
					&cli.BoolFlag{Name: "save", Usage: "Store the generated conclusion (requires --topic)"},
					&cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"},
				},
			},
			{
				Name:   "annotate",
				Usage:  "Link and classify every stored opinion related to a topic",
				Action: annotateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "topic", Usage: "Topic key", Required: true},
					&cli.IntFlag{Name: "limit", Usage: "Classify at most this many matches (0 = all)"},
					&cli.IntFlag{Name: "report-interval", Usage: "Report progress every N opinions", Value: 1},
				},
			},
			{
				Name:   "update-opinion",
				Usage:  "Set the topic, category and effectiveness of an opinion",
				Action: updateOpinionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Opinion id", Required: true},
					&cli.StringFlag{Name: "topic", Usage: "Topic key"},
					&cli.StringFlag{Name: "type", Usage: "Category"},
					&cli.StringFlag{Name: "effectiveness", Usage: "Effectiveness rating (default \"Adequate\")"},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show collection sizes",
				Action: statsCommand,
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides server.addr)"},
				},
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write a configuration file with the default settings",
						Action: configInitCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path", Value: config.DefaultPath},
						},
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(c.String("log-format")) {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.String("log-format"))
	}
	slog.SetDefault(slog.New(handler))

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", "err", err)
	}
	return nil
}
