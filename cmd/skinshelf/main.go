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
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "skinshelf",
		Usage: "Local mirror of a remote skincare catalog",
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
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Storage backend (badger, sqlite, memory)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the badger directory or sqlite file",
			},
			&cli.StringFlag{
				Name:    "remote",
				Aliases: []string{"r"},
				Usage:   "Base URL of the remote catalog",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Load the local mirror or bootstrap it from the remote",
				Action: syncCommand,
			},
			{
				Name:   "refresh",
				Usage:  "Merge remote changes into the local mirror",
				Action: refreshCommand,
			},
			{
				Name:   "download",
				Usage:  "Replace the local mirror with the full remote catalog",
				Action: downloadCommand,
			},
			{
				Name:   "metadata",
				Usage:  "Show cache metadata",
				Action: metadataCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the mirror by name, brand and category",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					limitFlag(20),
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Log the score of every matching record",
					},
				},
			},
			{
				Name:   "filter",
				Usage:  "Filter the mirror by attributes",
				Action: filterCommand,
				Flags: append([]cli.Flag{
					limitFlag(0),
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category name or label",
					},
					&cli.Float64Flag{
						Name:  "min-quality",
						Usage: "Minimum quality score",
					},
					&cli.Float64Flag{
						Name:  "max-price",
						Usage: "Maximum price",
					},
					&cli.StringFlag{
						Name:  "brand",
						Usage: "Brand name",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Record ids to leave out",
					},
				}, profileFlags()...),
			},
			{
				Name:   "recommend",
				Usage:  "Rank the mirror for a user profile",
				Action: recommendCommand,
				Flags: append([]cli.Flag{
					limitFlag(10),
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Record ids to leave out",
					},
				}, profileFlags()...),
			},
			{
				Name:   "similar",
				Usage:  "Rank the mirror against concern weights",
				Action: similarCommand,
				Flags: append([]cli.Flag{
					limitFlag(10),
					&cli.StringSliceFlag{
						Name:     "weight",
						Aliases:  []string{"w"},
						Usage:    "Concern weight as concern=value",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Record ids to leave out",
					},
				}, profileFlags()...),
			},
			{
				Name:   "trending",
				Usage:  "Pick quality-weighted random records",
				Action: trendingCommand,
				Flags: []cli.Flag{
					limitFlag(10),
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Seed for repeatable picks (0 means random)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the mirror over HTTP so other instances can sync from it",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.DurationFlag{
						Name:  "refresh-interval",
						Usage: "How often to refresh from the remote (0 disables)",
						Value: 5 * time.Minute,
					},
				},
			},
		},
	}
}

func limitFlag(value int) cli.Flag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of results (0 means unlimited)",
		Value:   value,
	}
}

func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "skin-type",
			Usage: "Skin type (dry, oily, combination, normal, sensitive)",
		},
		&cli.StringSliceFlag{
			Name:  "concern",
			Usage: "Desired concern, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "avoid",
			Usage: "Excluded sensitivity, repeatable",
		},
		&cli.IntFlag{
			Name:  "sensitivity-level",
			Usage: "Sensitivity level from 0 to 3",
		},
	}
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
