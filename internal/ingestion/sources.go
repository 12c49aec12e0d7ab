package ingestion

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Benny93/flavornet/internal/config"
	"github.com/Benny93/flavornet/internal/graph"
)

// ErrMalformedRecord is returned for a source line that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed record")

// FlavorLink joins an ingredient to one of its flavor compounds.
type FlavorLink struct {
	Ingredient graph.NodeID
	Flavor     graph.NodeID
}

// RawRecipe is a recipe line before ingredient names are resolved.
type RawRecipe struct {
	Cuisine     string
	Ingredients []string
}

// Sources is everything read from the raw data files.
type Sources struct {
	Ingredients []graph.Ingredient
	Flavors     []graph.FlavorCompound
	Links       []FlavorLink
	Recipes     []RawRecipe
	Regions     []graph.CuisineRegion
}

// cuisineAliases maps country names used by some recipe sources to the
// cuisine adjective used everywhere else.
var cuisineAliases = map[string]string{
	"china":       "chinese",
	"france":      "french",
	"germany":     "german",
	"india":       "indian",
	"italy":       "italian",
	"japan":       "japanese",
	"korea":       "korean",
	"mexico":      "mexican",
	"scandinavia": "scandinavian",
	"thailand":    "thai",
	"vietnam":     "vietnamese",
}

// CleanCuisine lower-cases a cuisine label and maps country names to their
// cuisine adjective.
func CleanCuisine(cuisine string) string {
	cuisine = strings.ToLower(cuisine)
	if alias, ok := cuisineAliases[cuisine]; ok {
		return alias
	}
	return cuisine
}

// LoadSources reads every source file named in the configuration.
func LoadSources(dataDir string, src config.Sources) (*Sources, error) {
	out := &Sources{}
	path := func(name string) string { return filepath.Join(dataDir, name) }

	err := readFile(path(src.Ingredients), func(r io.Reader) (err error) {
		out.Ingredients, err = ReadIngredients(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = readFile(path(src.Flavors), func(r io.Reader) (err error) {
		out.Flavors, err = ReadFlavors(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = readFile(path(src.IngredientFlavors), func(r io.Reader) (err error) {
		out.Links, err = ReadFlavorLinks(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, name := range src.Recipes {
		err = readFile(path(name), func(r io.Reader) error {
			recipes, err := ReadRecipes(r)
			out.Recipes = append(out.Recipes, recipes...)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	if src.Regions != "" {
		err = readFile(path(src.Regions), func(r io.Reader) (err error) {
			out.Regions, err = ReadRegions(r)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadIngredients reads tab-separated "id name category" rows after a header.
func ReadIngredients(r io.Reader) ([]graph.Ingredient, error) {
	var out []graph.Ingredient
	err := readTSV(r, 3, func(line int, rec []string) error {
		id, err := parseID(rec[0], line)
		if err != nil {
			return err
		}
		out = append(out, graph.Ingredient{ID: id, Name: strings.TrimSpace(rec[1]), Category: strings.TrimSpace(rec[2])})
		return nil
	})
	return out, err
}

// ReadFlavors reads tab-separated "id name cas" rows after a header.
func ReadFlavors(r io.Reader) ([]graph.FlavorCompound, error) {
	var out []graph.FlavorCompound
	err := readTSV(r, 3, func(line int, rec []string) error {
		id, err := parseID(rec[0], line)
		if err != nil {
			return err
		}
		out = append(out, graph.FlavorCompound{ID: id, Name: strings.TrimSpace(rec[1]), CAS: strings.TrimSpace(rec[2])})
		return nil
	})
	return out, err
}

// ReadFlavorLinks reads tab-separated "ingredient_id compound_id" rows after
// a header.
func ReadFlavorLinks(r io.Reader) ([]FlavorLink, error) {
	var out []FlavorLink
	err := readTSV(r, 2, func(line int, rec []string) error {
		ing, err := parseID(rec[0], line)
		if err != nil {
			return err
		}
		fl, err := parseID(rec[1], line)
		if err != nil {
			return err
		}
		out = append(out, FlavorLink{Ingredient: ing, Flavor: fl})
		return nil
	})
	return out, err
}

// ReadRecipes reads whitespace-separated "cuisine ingredient..." lines.
// Blank lines and lines starting with '#' are skipped; cuisines are cleaned.
func ReadRecipes(r io.Reader) ([]RawRecipe, error) {
	var out []RawRecipe
	err := scanFields(r, func(fields []string) {
		out = append(out, RawRecipe{Cuisine: CleanCuisine(fields[0]), Ingredients: fields[1:]})
	})
	return out, err
}

// ReadRegions reads "cuisine region" lines; lines with any other number of
// fields are skipped.
func ReadRegions(r io.Reader) ([]graph.CuisineRegion, error) {
	var out []graph.CuisineRegion
	err := scanFields(r, func(fields []string) {
		if len(fields) != 2 {
			return
		}
		out = append(out, graph.CuisineRegion{Cuisine: CleanCuisine(fields[0]), Region: fields[1]})
	})
	return out, err
}

func readTSV(r io.Reader, fields int, row func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = fields
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	// Header.
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: header: %v", ErrMalformedRecord, err)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if err := row(line, rec); err != nil {
			return err
		}
	}
}

func scanFields(r io.Reader, line func(fields []string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		line(fields)
	}
	return scanner.Err()
}

func parseID(s string, line int) (graph.NodeID, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: id %q", ErrMalformedRecord, line, s)
	}
	return graph.NodeID(v), nil
}
