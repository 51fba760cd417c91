package main

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/remote/httpcatalog"
	"github.com/poiesic/skinshelf/remote/mock"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func product(id, brand, name string, category core.Category, quality float64) *core.ItemRecord {
	return &core.ItemRecord{
		ID:           id,
		Brand:        brand,
		Name:         name,
		Category:     category,
		QualityScore: quality,
		ConcernTags:  []core.Concern{core.ConcernAcne},
		CreatedAt:    core.TimestampOf(base),
		UpdatedAt:    core.TimestampOf(base),
	}
}

// runApp runs the CLI against an in-memory store mirroring a test server.
func runApp(t *testing.T, args ...string) []byte {
	t.Helper()
	cat := mock.NewMockCatalog(
		product("A", "Glow", "Gentle Cleanser", core.CategoryCleanser, 90),
		product("B", "Glow", "Night Serum", core.CategorySerum, 70),
		product("C", "Pure", "Gentle Serum", core.CategorySerum, 95),
	)
	srv := httptest.NewServer(httpcatalog.NewHandler(cat, nil))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	global := []string{"skinshelf", "--backend", "memory", "--remote", srv.URL}
	require.NoError(t, app.Run(append(global, args...)))
	return out.Bytes()
}

func findFlag[T cli.Flag](t *testing.T, cmd *cli.Command, name string) T {
	t.Helper()
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok && flag.Names()[0] == name {
			return f
		}
	}
	t.Fatalf("flag %q not found on %s", name, cmd.Name)
	var zero T
	return zero
}

func command(t *testing.T, name string) *cli.Command {
	t.Helper()
	cmd := newApp().Command(name)
	require.NotNil(t, cmd, name)
	return cmd
}

func TestCommandFlags(t *testing.T) {
	t.Run("search limit defaults to 20", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](t, command(t, "search"), "limit")
		assert.Equal(t, 20, f.Value)
		assert.Equal(t, []string{"n"}, f.Aliases)
	})

	t.Run("search usage names the matched fields", func(t *testing.T) {
		assert.Equal(t, "Search the mirror by name, brand and category", command(t, "search").Usage)
	})

	t.Run("filter limit defaults to unlimited", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](t, command(t, "filter"), "limit")
		assert.Equal(t, 0, f.Value)
	})

	t.Run("similar requires weights", func(t *testing.T) {
		f := findFlag[*cli.StringSliceFlag](t, command(t, "similar"), "weight")
		assert.True(t, f.Required)
	})

	t.Run("serve has default address", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, command(t, "serve"), "addr")
		assert.Equal(t, ":8080", f.Value)
	})

	t.Run("profile flags are shared", func(t *testing.T) {
		for _, name := range []string{"filter", "recommend", "similar"} {
			findFlag[*cli.StringFlag](t, command(t, name), "skin-type")
			findFlag[*cli.StringSliceFlag](t, command(t, name), "concern")
		}
	})
}

func TestCommandValidation(t *testing.T) {
	t.Run("similar without weights fails", func(t *testing.T) {
		err := newApp().Run([]string{"skinshelf", "--backend", "memory", "similar"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weight")
	})

	t.Run("missing remote fails", func(t *testing.T) {
		t.Setenv("SKINSHELF_REMOTE_BASE_URL", "")
		err := newApp().Run([]string{"skinshelf", "--backend", "memory", "sync"})
		require.Error(t, err)
	})

	t.Run("search without a query fails", func(t *testing.T) {
		err := newApp().Run([]string{"skinshelf", "--backend", "memory", "--remote", "http://127.0.0.1:1", "search"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query is required")
	})

	t.Run("unknown skin type fails", func(t *testing.T) {
		err := newApp().Run([]string{"skinshelf", "--backend", "memory", "--remote", "http://127.0.0.1:1", "recommend", "--skin-type", "scaly"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scaly")
	})
}

func TestParseWeights(t *testing.T) {
	v, err := parseWeights([]string{"acne=0.8", " Aging = 0.2"})
	require.NoError(t, err)
	assert.Equal(t, 0.8, v.Get(core.ConcernAcne))
	assert.Equal(t, 0.2, v.Get(core.ConcernAging))
	assert.Zero(t, v.Get(core.ConcernPores))

	_, err = parseWeights([]string{"acne"})
	assert.Error(t, err)

	_, err = parseWeights([]string{"acne=lots"})
	assert.Error(t, err)

	_, err = parseWeights([]string{"freckles=1"})
	assert.ErrorIs(t, err, core.ErrUnknownConcern)
}

func TestCommands(t *testing.T) {
	t.Run("sync prints metadata", func(t *testing.T) {
		var meta core.CacheMetadata
		require.NoError(t, json.Unmarshal(runApp(t, "sync"), &meta))
		assert.Equal(t, 3, meta.TotalCount)
	})

	t.Run("search ranks matches", func(t *testing.T) {
		var results []*core.ItemRecord
		require.NoError(t, json.Unmarshal(runApp(t, "search", "serum"), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "C", results[0].ID)
		assert.Equal(t, "B", results[1].ID)
	})

	t.Run("search explain returns the same ranking", func(t *testing.T) {
		var results []*core.ItemRecord
		require.NoError(t, json.Unmarshal(runApp(t, "search", "--explain", "serum"), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "C", results[0].ID)
	})

	t.Run("filter by brand", func(t *testing.T) {
		var results []*core.ItemRecord
		require.NoError(t, json.Unmarshal(runApp(t, "filter", "--brand", "glow", "--limit", "1"), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "A", results[0].ID)
	})

	t.Run("similar returns ids", func(t *testing.T) {
		var ids []string
		require.NoError(t, json.Unmarshal(runApp(t, "similar", "--weight", "acne=1", "--exclude", "C"), &ids))
		assert.NotContains(t, ids, "C")
		assert.NotEmpty(t, ids)
	})

	t.Run("trending with a seed is repeatable", func(t *testing.T) {
		var first, second []string
		require.NoError(t, json.Unmarshal(runApp(t, "trending", "--seed", "42"), &first))
		require.NoError(t, json.Unmarshal(runApp(t, "trending", "--seed", "42"), &second))
		assert.Equal(t, first, second)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, first)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						assert.True(t, slog.Default().Enabled(c.Context, tc.expected))
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"skinshelf", "--log-level", "invalid", "metadata"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				assert.Equal(t, "debug", c.String("log-level"))
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	os.Exit(code)
}
