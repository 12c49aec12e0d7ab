package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/config"
)

const (
	testIngredients = "# id\tingredient name\tcategory\n" +
		"0\tgarlic\tvegetable\n" +
		"1\tginger\tspice\n" +
		"2\tsoy_sauce\tplant derivative\n" +
		"3\tbasil\therb\n" +
		"4\tsaffron\tspice\n"

	testFlavors = "# id\tCompound name\tCAS number\n" +
		"10\tallyl disulfide\t2179-57-9\n" +
		"11\tlinalool\t78-70-6\n" +
		"12\tmethional\t3268-49-3\n"

	testLinks = "# ingredient id\tcompound id\n" +
		"0\t10\n0\t11\n" +
		"1\t10\n1\t11\n" +
		"2\t12\n" +
		"3\t11\n3\t12\n" +
		"4\t10\n"

	testRecipesA = "China garlic ginger soy_sauce\n" +
		"chinese garlic ginger\n"

	testRecipesB = "# comment\n\n" +
		"Italian garlic basil\n" +
		"italy basil soy_sauce\n"

	testRegions = "chinese East_Asian\n" +
		"Italy Southern_European\n" +
		"malformed line with extra fields\n"
)

// writeTestSources lays out a small data directory:
//
//	recipes: r0 chinese {garlic ginger soy_sauce}, r1 chinese {garlic ginger},
//	         r2 italian {garlic basil},           r3 italian {basil soy_sauce}
//	flavors: garlic {10 11}, ginger {10 11}, soy_sauce {12}, basil {11 12},
//	         saffron {10} (used by no recipe)
func writeTestSources(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"ingr_info.tsv": testIngredients,
		"comp_info.tsv": testFlavors,
		"ingr_comp.tsv": testLinks,
		"a_recipes.txt": testRecipesA,
		"b_recipes.txt": testRecipesB,
		"map.txt":       testRegions,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.IndexDir = filepath.Join(dir, config.DefaultIndexDir)
	cfg.Sources.Recipes = []string{"a_recipes.txt", "b_recipes.txt"}
	cfg.Thresholds = config.Thresholds{OriginalComplement: 1, FoodPairing: 1, UpdatedComplement: 1}
	cfg.Workers = 2
	return cfg
}

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	cfg := writeTestSources(t)
	src, err := LoadSources(cfg.DataDir, cfg.Sources)
	require.NoError(t, err)
	ds, err := BuildDataset(src)
	require.NoError(t, err)
	return ds
}
