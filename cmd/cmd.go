// Package cmd provides CLI command implementations for flavornet.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Benny93/flavornet/internal/analysis"
	"github.com/Benny93/flavornet/internal/config"
	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/generate"
	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/index"
	"github.com/Benny93/flavornet/internal/ingestion"
	"github.com/Benny93/flavornet/internal/logging"
	"github.com/Benny93/flavornet/internal/metrics"
	"github.com/Benny93/flavornet/internal/storage"
	"github.com/Benny93/flavornet/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// MetaFile is the build summary written next to the store.
const MetaFile = "meta.json"

// Meta is the content of meta.json.
type Meta struct {
	Version   string                    `json:"version"`
	DataDir   string                    `json:"data_dir"`
	Stats     *ingestion.PipelineResult `json:"stats"`
	IndexedAt string                    `json:"indexed_at"`
}

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `help:"Path to YAML config file" type:"path"`
	IndexDir  string `help:"Override the index directory"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	LogFormat string `help:"Log format (console|json)"`

	out io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

// load reads the configuration, applies global overrides and configures
// logging.
func (g *Globals) load() (config.Config, error) {
	cfg, err := config.LoadConfig(g.Config)
	if err != nil {
		return cfg, err
	}
	if g.IndexDir != "" {
		cfg.IndexDir = g.IndexDir
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

// openRepository opens the badger store of cfg.
func openRepository(cfg config.Config, readOnly bool) (*storage.Repository, func(), error) {
	dbPath := filepath.Join(cfg.IndexDir, "badger")
	if readOnly {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("no index found at %s. Run 'flavornet build' first", cfg.IndexDir)
		}
	}

	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, readOnly); err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return storage.NewRepository(store), func() { _ = store.Close() }, nil
}

// openIndex opens the store read-only and loads the query index.
func openIndex(ctx context.Context, cfg config.Config, seed int64) (*index.Index, func(), error) {
	repo, closeRepo, err := openRepository(cfg, true)
	if err != nil {
		return nil, nil, err
	}
	if seed == 0 {
		seed = cfg.Seed
	}
	ix, err := index.Open(ctx, repo, seed, logging.Logger())
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	return ix, closeRepo, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// BuildCmd ingests the sources and builds the four ingredient networks.
type BuildCmd struct {
	DataDir   string `help:"Directory of the source tables (overrides config)" type:"path"`
	Threshold *int   `help:"Recipe threshold for ocn, fph and ucn (overrides config)"`
	Workers   int    `help:"Pair scoring workers (overrides config)"`
}

// Run executes the build command.
func (c *BuildCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.Threshold != nil {
		cfg.Thresholds.OriginalComplement = *c.Threshold
		cfg.Thresholds.FoodPairing = *c.Threshold
		cfg.Thresholds.UpdatedComplement = *c.Threshold
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := g.stdout()
	color.New(color.FgGreen).Fprintf(out, "Building networks from %s\n", cfg.DataDir)

	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	repo, closeRepo, err := openRepository(cfg, false)
	if err != nil {
		return err
	}
	defer closeRepo()

	progress := func(phase string, pct float64) {
		fmt.Fprintf(out, "\r\033[K%s (%.0f%%)", phase, pct*100)
	}

	_, result, err := ingestion.RunPipeline(ctx, cfg, repo, progress, logging.Logger())
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}
	fmt.Fprintln(out) // Newline after progress

	if cfg.EmbeddingsDir != "" {
		spaces, err := index.ImportEmbeddings(ctx, repo, cfg.EmbeddingsDir)
		if err != nil {
			return fmt.Errorf("importing embeddings: %w", err)
		}
		logging.Info().Int("networks", len(spaces)).Str("dir", cfg.EmbeddingsDir).Msg("embeddings imported")
	}

	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}
	meta := Meta{
		Version:   Version,
		DataDir:   dataDir,
		Stats:     result,
		IndexedAt: time.Now().UTC().Format(time.RFC3339),
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", MetaFile, err)
	}
	if err := os.WriteFile(filepath.Join(cfg.IndexDir, MetaFile), metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", MetaFile, err)
	}

	color.New(color.FgGreen).Fprintln(out, "\n✓ Build complete")
	fmt.Fprintf(out, "  Ingredients:    %d (%d pruned)\n", result.Ingredients, result.Pruned)
	fmt.Fprintf(out, "  Flavors:        %d\n", result.Flavors)
	fmt.Fprintf(out, "  Recipes:        %d\n", result.Recipes)
	fmt.Fprintf(out, "  Cuisines:       %d\n", result.Cuisines)
	for _, nb := range result.Networks {
		fmt.Fprintf(out, "  %-15s %d edges\n", strings.ToUpper(string(nb.Kind))+":", nb.Edges)
	}
	fmt.Fprintf(out, "  Duration:       %.2fs\n", result.DurationSecs)
	return nil
}

// EmbeddingsCmd groups embedding space commands.
type EmbeddingsCmd struct {
	Import EmbeddingsImportCmd `cmd:"" help:"Load <network>.emb files into the index"`
}

// EmbeddingsImportCmd imports embedding files.
type EmbeddingsImportCmd struct {
	Dir string `arg:"" optional:"" help:"Directory of .emb files (default: embeddings_dir)" type:"path"`
}

// Run executes the embeddings import command.
func (c *EmbeddingsImportCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	dir := c.Dir
	if dir == "" {
		dir = cfg.EmbeddingsDir
	}
	if dir == "" {
		return errors.New("no embeddings directory given and none configured")
	}

	repo, closeRepo, err := openRepository(cfg, false)
	if err != nil {
		return err
	}
	defer closeRepo()

	spaces, err := index.ImportEmbeddings(context.Background(), repo, dir)
	if err != nil {
		return err
	}

	out := g.stdout()
	for _, kind := range graph.NetworkKinds {
		if s, ok := spaces[kind]; ok {
			fmt.Fprintf(out, "  %s: %d ingredients, %d dimensions\n", kind, s.Len(), s.Dim())
		}
	}
	color.New(color.FgGreen).Fprintf(out, "Imported %d embedding spaces\n", len(spaces))
	return nil
}

// ExportCmd writes the networks as edge lists.
type ExportCmd struct {
	Out     string `help:"Output directory" default:"." type:"path"`
	Network string `help:"Export a single network (ocn|fph|ucn|sn)"`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	kinds := graph.NetworkKinds
	if c.Network != "" {
		kind, err := graph.ParseNetworkKind(c.Network)
		if err != nil {
			return err
		}
		kinds = []graph.NetworkKind{kind}
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(cfg, true)
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	ctx := context.Background()
	for _, kind := range kinds {
		n, err := repo.LoadNetwork(ctx, kind)
		if err != nil {
			return err
		}
		path := filepath.Join(c.Out, string(kind)+"_edgelist.txt")
		if err := writeEdgeList(path, n); err != nil {
			return err
		}
		fmt.Fprintf(g.stdout(), "  %s: %d edges -> %s\n", kind, n.EdgeCount(), path)
	}
	return nil
}

func writeEdgeList(path string, n *graph.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := graph.WriteEdgeList(f, n); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// GenerateCmd generates a recipe.
type GenerateCmd struct {
	Seeds   []string `short:"s" name:"seed" help:"Seed ingredient (repeatable)"`
	Cuisine string   `help:"Restrict to a cuisine, or 'random'"`
	Network string   `help:"Embedding network (ocn_fph|ucn)" default:"ucn"`
	Min     int      `help:"Minimum ingredient count" default:"7"`
	Max     int      `help:"Maximum ingredient count" default:"7"`
	Accent  int      `help:"Accent ingredients (network ocn_fph only)"`
	Avoid   []string `short:"a" help:"Ingredient to avoid (repeatable)"`
	RngSeed int64    `help:"Random seed (0 = config seed, then clock)"`
	Spread  bool     `help:"Report the recipe spread in embedding space"`
	JSON    bool     `help:"Print the recipe as JSON"`
}

func (c *GenerateCmd) request() generate.Request {
	return generate.Request{
		Seeds:   c.Seeds,
		Cuisine: c.Cuisine,
		Mode:    generate.Mode(c.Network),
		Min:     c.Min,
		Max:     c.Max,
		Accent:  c.Accent,
		Avoid:   c.Avoid,
	}
}

// Run executes the generate command.
func (c *GenerateCmd) Run(g *Globals) error {
	req := c.request().WithDefaults()
	if err := req.Validate(); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	ix, closeIndex, err := openIndex(ctx, cfg, c.RngSeed)
	if err != nil {
		return err
	}
	defer closeIndex()

	res, err := ix.Generate(ctx, req)
	if err != nil {
		return err
	}

	out := g.stdout()
	if c.JSON {
		return printJSON(out, res)
	}

	header := fmt.Sprintf("Recipe (%s, %d ingredients", res.Mode, len(res.Items))
	if res.Cuisine != "" {
		header += ", " + res.Cuisine
	}
	color.New(color.Bold).Fprintln(out, header+")")

	accent := color.New(color.FgYellow)
	for _, it := range res.Items {
		fmt.Fprintf(out, "  %s", it.Name)
		if it.Accent {
			accent.Fprint(out, " (accent)")
		}
		if it.Replaces != "" {
			fmt.Fprintf(out, " (replaces %s)", it.Replaces)
		}
		fmt.Fprintln(out)
	}
	if res.MayContainAvoided {
		color.New(color.FgRed).Fprintf(out, "Warning: no substitutes for %s; the recipe may still contain avoided ingredients\n", strings.Join(res.Kept, ", "))
	}

	if c.Spread {
		spread, err := ix.Spread(res)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Spread: %.4f\n", spread)
	}
	return nil
}

// SubstituteCmd lists substitutes.
type SubstituteCmd struct {
	Ingredients []string `short:"i" name:"ingredient" required:"" help:"Ingredient to substitute (repeatable)"`
	K           int      `short:"k" help:"Substitutes per ingredient" default:"5"`
	JSON        bool     `help:"Print as JSON"`
}

// Run executes the substitute command.
func (c *SubstituteCmd) Run(g *Globals) error {
	if err := generate.ValidateFanout(c.K); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	ix, closeIndex, err := openIndex(context.Background(), cfg, 0)
	if err != nil {
		return err
	}
	defer closeIndex()

	lists, err := ix.Substitutes(c.Ingredients, c.K)
	if err != nil {
		return err
	}

	out := g.stdout()
	if c.JSON {
		return printJSON(out, lists)
	}
	for _, l := range lists {
		color.New(color.Bold).Fprintln(out, l.Ingredient)
		if len(l.Substitutes) == 0 {
			fmt.Fprintln(out, "  no substitutes")
			continue
		}
		for i, sub := range l.Substitutes {
			fmt.Fprintf(out, "  %d. %-24s %.4f\n", i+1, sub.Name, sub.Weight)
		}
	}
	return nil
}

// CompareCmd scores an ingredient pair.
type CompareCmd struct {
	A string `arg:"" help:"First ingredient"`
	B string `arg:"" help:"Second ingredient"`
}

// Run executes the compare command.
func (c *CompareCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ix, closeIndex, err := openIndex(context.Background(), cfg, 0)
	if err != nil {
		return err
	}
	defer closeIndex()

	cmp, err := ix.Compare(c.A, c.B)
	if err != nil {
		return err
	}
	printComparison(g.stdout(), c.A, c.B, cmp)
	return nil
}

func printComparison(out io.Writer, a, b string, c analysis.Comparison) {
	color.New(color.Bold).Fprintf(out, "%s + %s\n", a, b)
	fmt.Fprintf(out, "  Shared flavors:  %d\n", c.CommonFlavors)
	fmt.Fprintf(out, "  Shared recipes:  %d\n", c.CommonRecipes)
	fmt.Fprintf(out, "  FF:              %.4f (MedFF %.4f)\n", c.FF, c.MedFF)
	fmt.Fprintf(out, "  RF:              %.4f\n", c.RF)
	fmt.Fprintf(out, "  FPHF:            %.4f\n", c.FPHF)
	fmt.Fprintf(out, "  PMI:             %s\n", formatScore(c.PMI))
	fmt.Fprintf(out, "  COF:             %s\n", formatScore(c.COF))
}

func formatScore(v float64) string {
	if math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

// AnalyzeCmd reports the structure of a network.
type AnalyzeCmd struct {
	Network string `arg:"" help:"Network to analyze (ocn|fph|ucn|sn)"`
	Top     int    `short:"n" help:"Ranked nodes and edges to show" default:"10"`
	Cuisine string `help:"Only rank edges between ingredients of this cuisine"`
	JSON    bool   `help:"Print the report as JSON"`
}

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(g *Globals) error {
	kind, err := graph.ParseNetworkKind(c.Network)
	if err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	ix, closeIndex, err := openIndex(ctx, cfg, 0)
	if err != nil {
		return err
	}
	defer closeIndex()

	report, err := ix.Analyze(ctx, kind, c.Top, c.Cuisine, cfg.Seed)
	if err != nil {
		return err
	}

	out := g.stdout()
	if c.JSON {
		return printJSON(out, report)
	}

	cat := ix.Catalog()
	bold := color.New(color.Bold)
	bold.Fprintf(out, "## Network %s\n", report.Network)
	fmt.Fprintf(out, "  Nodes:               %d\n", report.Nodes)
	fmt.Fprintf(out, "  Edges:               %d\n", report.Edges)
	fmt.Fprintf(out, "  Average clustering:  %.4f\n", report.AverageClustering)
	fmt.Fprintf(out, "  Communities:         %d (modularity %.4f)\n", len(report.Communities), report.Modularity)

	bold.Fprintln(out, "\n## Degree distribution")
	for _, b := range report.Degrees {
		fmt.Fprintf(out, "  %4d: %d\n", b.Degree, b.Count)
	}

	bold.Fprintln(out, "\n## PageRank")
	for i, r := range report.PageRank {
		fmt.Fprintf(out, "  %d. %-24s %.5f\n", i+1, cat.IngredientName(r.ID), r.Score)
	}

	bold.Fprintln(out, "\n## Weighted degree")
	for i, r := range report.WeightedDegree {
		fmt.Fprintf(out, "  %d. %-24s %.4f\n", i+1, cat.IngredientName(r.ID), r.Score)
	}

	bold.Fprintln(out, "\n## Strongest pairs")
	for i, e := range report.TopEdges {
		fmt.Fprintf(out, "  %d. %s - %s (%.4f)\n", i+1, cat.IngredientName(e.A), cat.IngredientName(e.B), e.Weight)
	}

	bold.Fprintln(out, "\n## Largest communities")
	for _, comm := range report.Communities[:min(len(report.Communities), c.Top)] {
		names := cat.IngredientNames(comm.Members[:min(len(comm.Members), c.Top)])
		suffix := ""
		if len(comm.Members) > c.Top {
			suffix = fmt.Sprintf(" (+%d more)", len(comm.Members)-c.Top)
		}
		fmt.Fprintf(out, "  %d. %s%s\n", comm.ID+1, strings.Join(names, ", "), suffix)
	}
	return nil
}

// StatusCmd shows the status of the index.
type StatusCmd struct{}

// Run executes the status command.
func (c *StatusCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	metaPath := filepath.Join(cfg.IndexDir, MetaFile)
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no index found at %s. Run 'flavornet build' first", cfg.IndexDir)
		}
		return fmt.Errorf("reading %s: %w", MetaFile, err)
	}
	var meta Meta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return fmt.Errorf("parsing %s: %w", MetaFile, err)
	}

	repo, closeRepo, err := openRepository(cfg, true)
	if err != nil {
		return err
	}
	defer closeRepo()
	ctx := context.Background()
	embedded, err := repo.StoredSpaces(ctx)
	if err != nil {
		return err
	}
	inv, err := repo.Inventory(ctx)
	if err != nil {
		return err
	}

	out := g.stdout()
	fmt.Fprintf(out, "Index status for %s\n", cfg.IndexDir)
	fmt.Fprintf(out, "  Version:        %s\n", meta.Version)
	fmt.Fprintf(out, "  Data:           %s\n", meta.DataDir)
	fmt.Fprintf(out, "  Last built:     %s\n", meta.IndexedAt)
	if s := meta.Stats; s != nil {
		fmt.Fprintf(out, "  Run:            %s\n", s.RunID)
		fmt.Fprintf(out, "  Ingredients:    %d\n", s.Ingredients)
		fmt.Fprintf(out, "  Recipes:        %d\n", s.Recipes)
		for _, nb := range s.Networks {
			fmt.Fprintf(out, "  %-15s %d edges (threshold %g)\n", strings.ToUpper(string(nb.Kind))+":", nb.Edges, nb.Threshold)
		}
	}
	fmt.Fprintf(out, "  Records:        %d graphs, %d networks, %d tables, %d embeddings, %d documents\n",
		inv["graphs"], inv["networks"], inv["tables"], inv["embeddings"], inv["documents"])
	if len(embedded) == 0 {
		color.New(color.FgYellow).Fprintln(out, "  Embeddings:     none (run 'flavornet embeddings import')")
	} else {
		names := make([]string, len(embedded))
		for i, k := range embedded {
			names[i] = string(k)
		}
		fmt.Fprintf(out, "  Embeddings:     %s\n", strings.Join(names, ", "))
	}
	return nil
}

// ServeCmd starts the MCP server.
type ServeCmd struct {
	Watch       bool   `short:"w" help:"Reload embedding files when they change"`
	MetricsAddr string `help:"Serve prometheus metrics on this address (e.g. :9090)"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Watch && cfg.EmbeddingsDir == "" {
		return errors.New("--watch needs embeddings_dir in the config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ix, closeIndex, err := openIndex(ctx, cfg, 0)
	if err != nil {
		return err
	}
	defer closeIndex()

	log := logging.With("serve")

	if c.MetricsAddr != "" {
		srv := &http.Server{Addr: c.MetricsAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
		log.Info().Str("addr", c.MetricsAddr).Msg("serving metrics")
	}

	if c.Watch {
		go watchEmbeddings(ctx, cfg.EmbeddingsDir, ix, log)
	}

	// Note: No output to stdout - MCP server uses stdio for JSON-RPC only
	log.Info().Bool("watch", c.Watch).Msg("starting MCP server")
	return mcp.NewServer(ix, Version).Run(ctx)
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func watchEmbeddings(ctx context.Context, dir string, ix *index.Index, log zerolog.Logger) {
	err := embeddings.Watch(ctx, dir, embeddings.DefaultDebounce, log, ix.ReloadSpaces)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("watching embeddings")
	}
}

// CleanCmd deletes the index.
type CleanCmd struct {
	Force bool `short:"f" help:"Skip confirmation"`
}

// Run executes the clean command.
func (c *CleanCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.IndexDir); os.IsNotExist(err) {
		return fmt.Errorf("no index found at %s. Nothing to clean", cfg.IndexDir)
	}

	out := g.stdout()
	if !c.Force {
		fmt.Fprintf(out, "Delete index at %s? [y/N] ", cfg.IndexDir)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	if err := os.RemoveAll(cfg.IndexDir); err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}

	color.New(color.FgGreen).Fprintf(out, "Deleted %s\n", cfg.IndexDir)
	return nil
}

// CLI is the root Kong command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Build      BuildCmd      `cmd:"" help:"Ingest source tables and build the ingredient networks"`
	Embeddings EmbeddingsCmd `cmd:"" help:"Manage embedding spaces"`
	Export     ExportCmd     `cmd:"" help:"Write the networks as edge lists"`
	Generate   GenerateCmd   `cmd:"" help:"Generate a recipe"`
	Substitute SubstituteCmd `cmd:"" help:"List ingredient substitutes"`
	Compare    CompareCmd    `cmd:"" help:"Score an ingredient pair"`
	Analyze    AnalyzeCmd    `cmd:"" help:"Report the structure of a network"`
	Status     StatusCmd     `cmd:"" help:"Show index status"`
	Serve      ServeCmd      `cmd:"" help:"Start MCP server (stdio transport)"`
	Clean      CleanCmd      `cmd:"" help:"Delete the index"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("flavornet"),
		kong.Description("Ingredient networks and embedding-guided recipe generation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run(&c.Globals)
}
