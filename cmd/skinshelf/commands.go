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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/skinshelf"
	"github.com/poiesic/skinshelf/config"
	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/query"
	"github.com/poiesic/skinshelf/search"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// loadConfig reads the config file and environment, then applies the
// global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("backend") {
		cfg.Storage.Backend = c.String("backend")
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("remote") {
		cfg.Remote.BaseURL = c.String("remote")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openShelf opens the configured shelf and initializes its cache.
func openShelf(c *cli.Context) (*skinshelf.Shelf, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	shelf, err := skinshelf.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open shelf: %w", err)
	}
	if err := shelf.InitializeCache(c.Context); err != nil {
		shelf.Close()
		return nil, err
	}
	return shelf, nil
}

func withShelf(c *cli.Context, fn func(*skinshelf.Shelf) error) error {
	shelf, err := openShelf(c)
	if err != nil {
		return err
	}
	defer shelf.Close()
	return fn(shelf)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func syncCommand(c *cli.Context) error {
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		return writeJSON(c.App.Writer, shelf.GetCacheMetadata(c.Context))
	})
}

func refreshCommand(c *cli.Context) error {
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		updated, err := shelf.CheckAndUpdateProducts(c.Context)
		if err != nil {
			return err
		}
		return writeJSON(c.App.Writer, struct {
			Updated  bool                `json:"updated"`
			Metadata *core.CacheMetadata `json:"metadata"`
		}{updated, shelf.GetCacheMetadata(c.Context)})
	})
}

func downloadCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	shelf, err := skinshelf.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open shelf: %w", err)
	}
	defer shelf.Close()

	count, err := shelf.DownloadAllProducts(c.Context)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, struct {
		Count int `json:"count"`
	}{count})
}

func metadataCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	shelf, err := skinshelf.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open shelf: %w", err)
	}
	defer shelf.Close()
	return writeJSON(c.App.Writer, shelf.GetCacheMetadata(c.Context))
}

func searchCommand(c *cli.Context) error {
	q := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(q) == "" {
		return errors.New("search query is required")
	}
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		if c.Bool("explain") {
			results := search.SearchWithMonitor(shelf.Records(), q, c.Int("limit"), &explainMonitor{logger: slog.Default()})
			return writeJSON(c.App.Writer, results)
		}
		return writeJSON(c.App.Writer, shelf.Search(q, c.Int("limit")))
	})
}

// explainMonitor logs every scored record.
type explainMonitor struct {
	logger *slog.Logger
}

func (m *explainMonitor) Start(q string) {
	m.logger.Info("searching", "query", q)
}

func (m *explainMonitor) Scored(r *core.ItemRecord, score float64) {
	m.logger.Info("scored", "id", r.ID, "name", r.Name, "score", score, "quality", r.QualityScore)
}

func (m *explainMonitor) Finish(results []*core.ItemRecord) {
	m.logger.Info("search complete", "results", len(results))
}

func filterCommand(c *cli.Context) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		return writeJSON(c.App.Writer, limit(shelf.Filter(criteria), c.Int("limit")))
	})
}

func recommendCommand(c *cli.Context) error {
	profile, err := parseProfile(c)
	if err != nil {
		return err
	}
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		return writeJSON(c.App.Writer, shelf.Recommend(profile, c.StringSlice("exclude"), c.Int("limit")))
	})
}

func similarCommand(c *cli.Context) error {
	weights, err := parseWeights(c.StringSlice("weight"))
	if err != nil {
		return err
	}
	profile, err := parseProfile(c)
	if err != nil {
		return err
	}
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		ids := shelf.RecommendBySimilarity(&weights, profile, c.StringSlice("exclude"), c.Int("limit"))
		return writeJSON(c.App.Writer, ids)
	})
}

func trendingCommand(c *cli.Context) error {
	var rng query.RandSource
	if seed := c.Uint64("seed"); seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		return writeJSON(c.App.Writer, shelf.Trending(c.Int("limit"), rng))
	})
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withShelf(c, func(shelf *skinshelf.Shelf) error {
		srv := &http.Server{
			Addr:              c.String("addr"),
			Handler:           shelf.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if interval := c.Duration("refresh-interval"); interval > 0 {
			go refreshLoop(ctx, shelf, interval)
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("serving catalog", "addr", srv.Addr, "records", len(shelf.Records()))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
}

func refreshLoop(ctx context.Context, shelf *skinshelf.Shelf, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updated, err := shelf.CheckAndUpdateProducts(ctx)
			if err != nil {
				slog.Warn("refresh failed", "err", err)
				continue
			}
			if updated {
				slog.Info("catalog refreshed", "records", len(shelf.Records()))
			}
		}
	}
}

func parseCriteria(c *cli.Context) (query.Criteria, error) {
	var criteria query.Criteria
	criteria.ExcludeIDs = c.StringSlice("exclude")
	criteria.Brand = c.String("brand")

	if name := c.String("category"); name != "" {
		category, ok := core.ParseCategory(name)
		if !ok {
			return criteria, fmt.Errorf("unknown category %q", name)
		}
		criteria.Category = category
	}
	if c.IsSet("min-quality") {
		v := c.Float64("min-quality")
		criteria.MinQuality = &v
	}
	if c.IsSet("max-price") {
		v := c.Float64("max-price")
		criteria.MaxPrice = &v
	}

	profile, err := parseProfile(c)
	if err != nil {
		return criteria, err
	}
	criteria.SkinType = profile.PreferredSkinType
	criteria.Concerns = profile.DesiredConcerns
	criteria.ExcludedSensitivities = profile.ExcludedSensitivities
	return criteria, nil
}

func parseProfile(c *cli.Context) (*core.UserProfile, error) {
	profile := &core.UserProfile{
		PreferredSkinType: core.SkinType(strings.ToLower(c.String("skin-type"))),
		SensitivityLevel:  c.Int("sensitivity-level"),
	}
	if profile.PreferredSkinType != "" && !profile.PreferredSkinType.Valid() {
		return nil, fmt.Errorf("unknown skin type %q", profile.PreferredSkinType)
	}
	for _, s := range c.StringSlice("concern") {
		profile.DesiredConcerns = append(profile.DesiredConcerns, core.Concern(strings.ToLower(s)))
	}
	for _, s := range c.StringSlice("avoid") {
		sens := core.Sensitivity(strings.ToLower(s))
		if !sens.Valid() {
			return nil, fmt.Errorf("unknown sensitivity %q", s)
		}
		profile.ExcludedSensitivities = append(profile.ExcludedSensitivities, sens)
	}
	if err := core.ValidateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// parseWeights parses concern=value pairs into a concern vector.
func parseWeights(pairs []string) (core.ConcernVector, error) {
	weights := make(map[core.Concern]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return core.ConcernVector{}, fmt.Errorf("invalid weight %q: want concern=value", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return core.ConcernVector{}, fmt.Errorf("invalid weight %q: %w", pair, err)
		}
		weights[core.Concern(strings.ToLower(strings.TrimSpace(name)))] = w
	}
	v, err := core.NewConcernVector(weights)
	if err != nil {
		return v, fmt.Errorf("%w: %v", err, pairs)
	}
	return v, nil
}

func limit(records []*core.ItemRecord, n int) []*core.ItemRecord {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}
