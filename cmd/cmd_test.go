package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/generate"
)

// writeConfig writes a config over the shared test dataset and returns
// globals pointing at it with captured output.
func writeConfig(t *testing.T, withEmbeddings bool) (*Globals, *bytes.Buffer, string) {
	t.Helper()
	dataDir, err := filepath.Abs(filepath.Join("..", "internal", "index", "testdata"))
	require.NoError(t, err)

	dir := t.TempDir()
	indexDir := filepath.Join(dir, ".flavornet")
	body := "data_dir: " + dataDir + "\n" +
		"index_dir: " + indexDir + "\n" +
		"sources:\n  recipes: [recipes.txt]\n" +
		"thresholds:\n  ocn: 1\n  fph: 1\n  ucn: 1\n" +
		"workers: 2\n" +
		"seed: 1\n" +
		"log:\n  level: error\n"
	if withEmbeddings {
		body += "embeddings_dir: " + filepath.Join(dataDir, "embeddings") + "\n"
	}
	path := filepath.Join(dir, "flavornet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	var buf bytes.Buffer
	return &Globals{Config: path, out: &buf}, &buf, indexDir
}

// builtGlobals returns globals over a finished build with embeddings.
func builtGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()
	g, buf, _ := writeConfig(t, true)
	require.NoError(t, (&BuildCmd{}).Run(g))
	buf.Reset()
	return g, buf
}

func TestBuildCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("BuildsIndex", func(t *testing.T) {
		t.Parallel()
		g, buf, indexDir := writeConfig(t, false)

		require.NoError(t, (&BuildCmd{}).Run(g))
		assert.Contains(t, buf.String(), "Build complete")
		assert.Contains(t, buf.String(), "Ingredients:    4 (1 pruned)")

		metaBytes, err := os.ReadFile(filepath.Join(indexDir, MetaFile))
		require.NoError(t, err)
		var meta Meta
		require.NoError(t, json.Unmarshal(metaBytes, &meta))
		assert.Equal(t, Version, meta.Version)
		require.NotNil(t, meta.Stats)
		assert.Len(t, meta.Stats.Networks, 4)
	})

	t.Run("ThresholdOverride", func(t *testing.T) {
		t.Parallel()
		g, _, indexDir := writeConfig(t, false)
		high := 3

		require.NoError(t, (&BuildCmd{Threshold: &high}).Run(g))
		metaBytes, err := os.ReadFile(filepath.Join(indexDir, MetaFile))
		require.NoError(t, err)
		var meta Meta
		require.NoError(t, json.Unmarshal(metaBytes, &meta))
		assert.Equal(t, 0, meta.Stats.Networks[0].Edges)
	})

	t.Run("NegativeThreshold", func(t *testing.T) {
		t.Parallel()
		g, _, _ := writeConfig(t, false)
		negative := -1

		err := (&BuildCmd{Threshold: &negative}).Run(g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "thresholds.ocn")
	})

	t.Run("MissingData", func(t *testing.T) {
		t.Parallel()
		g, _, _ := writeConfig(t, false)

		err := (&BuildCmd{DataDir: t.TempDir()}).Run(g)
		assert.Error(t, err)
	})
}

func TestEmbeddingsImportCmd_Run(t *testing.T) {
	t.Parallel()

	g, buf, _ := writeConfig(t, false)
	require.NoError(t, (&BuildCmd{}).Run(g))
	buf.Reset()

	dir := filepath.Join("..", "internal", "index", "testdata", "embeddings")
	require.NoError(t, (&EmbeddingsImportCmd{Dir: dir}).Run(g))
	assert.Contains(t, buf.String(), "ocn: 4 ingredients, 2 dimensions")
	assert.Contains(t, buf.String(), "Imported 4 embedding spaces")

	t.Run("NoDirectory", func(t *testing.T) {
		err := (&EmbeddingsImportCmd{}).Run(g)
		assert.Error(t, err)
	})
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("ConfigErrorBeforeStoreAccess", func(t *testing.T) {
		t.Parallel()
		// No config and no index: the request is rejected first.
		cases := []GenerateCmd{
			{Network: "ucn", Min: 3, Max: 3, Accent: 1},
			{Network: "ocn_fph", Min: 2, Max: 3, Accent: 3},
			{Network: "ucn", Min: 5, Max: 3},
			{Network: "fph", Min: 3, Max: 3},
		}
		for _, c := range cases {
			err := c.Run(&Globals{IndexDir: t.TempDir()})
			var cfgErr *generate.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "%+v: %v", c, err)
		}
	})

	t.Run("Generates", func(t *testing.T) {
		t.Parallel()
		g, buf := builtGlobals(t)

		cmd := &GenerateCmd{Seeds: []string{"garlic"}, Network: "ucn", Min: 3, Max: 3, RngSeed: 7, Spread: true}
		require.NoError(t, cmd.Run(g))
		assert.Contains(t, buf.String(), "Recipe (ucn, 3 ingredients)")
		assert.Contains(t, buf.String(), "  garlic\n")
		assert.Contains(t, buf.String(), "Spread: ")
	})

	t.Run("Accents", func(t *testing.T) {
		t.Parallel()
		g, buf := builtGlobals(t)

		cmd := &GenerateCmd{Network: "ocn_fph", Min: 3, Max: 3, Accent: 1, RngSeed: 7}
		require.NoError(t, cmd.Run(g))
		assert.Equal(t, 1, strings.Count(buf.String(), "(accent)"))
	})

	t.Run("JSON", func(t *testing.T) {
		t.Parallel()
		g, buf := builtGlobals(t)

		cmd := &GenerateCmd{Network: "ucn", Min: 4, Max: 4, Avoid: []string{"ginger"}, JSON: true}
		require.NoError(t, cmd.Run(g))

		var res generate.Result
		require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
		assert.Len(t, res.Items, 4)
		assert.True(t, res.MayContainAvoided)
	})

	t.Run("UnknownCuisine", func(t *testing.T) {
		t.Parallel()
		g, _ := builtGlobals(t)

		err := (&GenerateCmd{Network: "ucn", Min: 2, Max: 2, Cuisine: "martian"}).Run(g)
		assert.Error(t, err)
	})
}

func TestSubstituteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("InvalidFanout", func(t *testing.T) {
		t.Parallel()
		err := (&SubstituteCmd{Ingredients: []string{"garlic"}, K: 0}).Run(&Globals{})
		var cfgErr *generate.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("Lists", func(t *testing.T) {
		t.Parallel()
		g, buf := builtGlobals(t)

		require.NoError(t, (&SubstituteCmd{Ingredients: []string{"garlic"}, K: 1}).Run(g))
		assert.Contains(t, buf.String(), "1. ginger")
		assert.NotContains(t, buf.String(), "basil")
	})
}

func TestCompareCmd_Run(t *testing.T) {
	t.Parallel()

	g, buf := builtGlobals(t)

	require.NoError(t, (&CompareCmd{A: "ginger", B: "basil"}).Run(g))
	assert.Contains(t, buf.String(), "Shared recipes:  0")
	assert.Contains(t, buf.String(), "PMI:             n/a")

	buf.Reset()
	require.NoError(t, (&CompareCmd{A: "garlic", B: "ginger"}).Run(g))
	assert.Contains(t, buf.String(), "Shared recipes:  2")
	assert.Contains(t, buf.String(), "PMI:             0.2877")
}

func TestAnalyzeCmd_Run(t *testing.T) {
	t.Parallel()

	g, buf := builtGlobals(t)

	t.Run("Text", func(t *testing.T) {
		require.NoError(t, (&AnalyzeCmd{Network: "sn", Top: 3}).Run(g))
		assert.Contains(t, buf.String(), "## Network sn")
		assert.Contains(t, buf.String(), "1. garlic - ginger (0.6000)")
	})

	t.Run("UnknownNetwork", func(t *testing.T) {
		err := (&AnalyzeCmd{Network: "xyz", Top: 3}).Run(g)
		assert.Error(t, err)
	})
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	g, _ := builtGlobals(t)
	out := t.TempDir()

	require.NoError(t, (&ExportCmd{Out: out}).Run(g))
	for _, kind := range []string{"ocn", "fph", "ucn", "sn"} {
		_, err := os.Stat(filepath.Join(out, kind+"_edgelist.txt"))
		assert.NoError(t, err, kind)
	}

	data, err := os.ReadFile(filepath.Join(out, "sn_edgelist.txt"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
	assert.True(t, strings.HasPrefix(string(data), "0 1 0.6\n"))
}

func TestStatusCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("StatusWithNoIndex", func(t *testing.T) {
		t.Parallel()
		g, _, _ := writeConfig(t, false)

		err := (&StatusCmd{}).Run(g)
		assert.Error(t, err) // Should error because no index exists
	})

	t.Run("StatusAfterBuild", func(t *testing.T) {
		t.Parallel()
		g, buf := builtGlobals(t)

		require.NoError(t, (&StatusCmd{}).Run(g))
		assert.Contains(t, buf.String(), "Recipes:        4")
		assert.Contains(t, buf.String(), "Embeddings:     fph, ocn, sn, ucn")
		assert.Contains(t, buf.String(), "2 graphs, 4 networks")
		assert.Contains(t, buf.String(), "4 embeddings")
	})
}

func TestCleanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("CleanWithNoIndex", func(t *testing.T) {
		t.Parallel()
		g, _, _ := writeConfig(t, false)

		err := (&CleanCmd{Force: true}).Run(g)
		assert.Error(t, err)
	})

	t.Run("CleanForce", func(t *testing.T) {
		t.Parallel()
		g, _, indexDir := writeConfig(t, false)
		require.NoError(t, (&BuildCmd{}).Run(g))

		require.NoError(t, (&CleanCmd{Force: true}).Run(g))
		_, err := os.Stat(indexDir)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestCLI_Execute(t *testing.T) {
	t.Parallel()

	t.Run("UnknownCommand", func(t *testing.T) {
		err := NewCLI().Execute([]string{"bake"})
		assert.Error(t, err)
	})

	t.Run("GlobalsReachCommand", func(t *testing.T) {
		g, _, _ := writeConfig(t, false)
		err := NewCLI().Execute([]string{"--config", g.Config, "status"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no index found")
	})
}
