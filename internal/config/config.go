// Package config loads flavornet's YAML configuration.
//
// Values start from DefaultConfig; a file only overrides what it names, and
// unknown keys are rejected. Struct tags drive validation through
// go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultIndexDir is where the store and meta.json live unless overridden.
const DefaultIndexDir = ".flavornet"

// DefaultRecipeThreshold is the minimum common recipe count for the
// complement and food pairing networks.
const DefaultRecipeThreshold = 20

// Config is the full configuration.
type Config struct {
	DataDir       string     `yaml:"data_dir" validate:"required"`
	IndexDir      string     `yaml:"index_dir" validate:"required"`
	EmbeddingsDir string     `yaml:"embeddings_dir"`
	Sources       Sources    `yaml:"sources"`
	Thresholds    Thresholds `yaml:"thresholds"`
	Workers       int        `yaml:"workers" validate:"gte=0"`
	Seed          int64      `yaml:"seed"`
	Log           Log        `yaml:"log"`
}

// Sources names the raw data files, relative to DataDir.
type Sources struct {
	Ingredients       string   `yaml:"ingredients" validate:"required"`
	Flavors           string   `yaml:"flavors" validate:"required"`
	IngredientFlavors string   `yaml:"ingredient_flavors" validate:"required"`
	Recipes           []string `yaml:"recipes" validate:"required,min=1,dive,required"`
	Regions           string   `yaml:"regions"`
}

// Thresholds are the per-network admission thresholds.
type Thresholds struct {
	OriginalComplement int `yaml:"ocn" validate:"gte=0"`
	FoodPairing        int `yaml:"fph" validate:"gte=0"`
	UpdatedComplement  int `yaml:"ucn" validate:"gte=0"`

	// SubstitutionFlavor is the common flavor count the substitution network
	// requires; nil uses the mean common flavor count of all pairs.
	SubstitutionFlavor *float64 `yaml:"substitution_flavor" validate:"omitempty,gte=0"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		DataDir:  "data",
		IndexDir: DefaultIndexDir,
		Sources: Sources{
			Ingredients:       "ingr_info.tsv",
			Flavors:           "comp_info.tsv",
			IngredientFlavors: "ingr_comp.tsv",
			Recipes:           []string{"menu_recipes.txt", "epic_recipes.txt", "allr_recipes.txt"},
			Regions:           "map.txt",
		},
		Thresholds: Thresholds{
			OriginalComplement: DefaultRecipeThreshold,
			FoodPairing:        DefaultRecipeThreshold,
			UpdatedComplement:  DefaultRecipeThreshold,
		},
		Workers: runtime.GOMAXPROCS(0),
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults using strict
// parsing. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = describe(fe)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SubstitutionThreshold returns the configured substitution flavor threshold
// and whether one is set.
func (t Thresholds) SubstitutionThreshold() (float64, bool) {
	if t.SubstitutionFlavor == nil {
		return 0, false
	}
	return *t.SubstitutionFlavor, true
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report yaml key names rather than Go field names.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
