// Package mcp provides the MCP (Model Context Protocol) server for flavornet.
package mcp

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Benny93/flavornet/internal/analysis"
	"github.com/Benny93/flavornet/internal/generate"
	"github.com/Benny93/flavornet/internal/index"
)

// Resource URIs.
const (
	OverviewURI = "flavornet://overview"
	CuisinesURI = "flavornet://cuisines"
)

// Backend is the query surface the tools run against. *index.Index
// satisfies it.
type Backend interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
	Substitutes(names []string, k int) ([]generate.SubstituteList, error)
	Compare(a, b string) (analysis.Comparison, error)
	Overview() []index.NetworkSummary
	Cuisines() []string
}

var _ Backend = (*index.Index)(nil)

// Server represents the MCP server.
type Server struct {
	backend Backend
	server  *mcp.Server
}

// NewServer creates a server with every tool and resource registered.
func NewServer(backend Backend, version string) *Server {
	s := &Server{backend: backend}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "flavornet",
		Version: version,
	}, nil)

	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Run serves over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "flavornet_generate",
		Description: "Generate a recipe by sampling ingredient embeddings. Optionally seed ingredients, restrict to a cuisine, add accents (network ocn_fph) and avoid ingredients.",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "flavornet_substitutes",
		Description: "List the strongest substitutes of each ingredient from the substitution network.",
	}, s.handleSubstitutes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "flavornet_compare",
		Description: "Score an ingredient pair with every pairing function: flavor and recipe Jaccard, PMI, food pairing and co-occurrence factors.",
	}, s.handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "flavornet_overview",
		Description: "Show node and edge counts of the four ingredient networks and whether embeddings are loaded.",
	}, s.handleOverview)
}

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         OverviewURI,
		Name:        "Network Overview",
		Description: "Node and edge counts of the derived ingredient networks",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(OverviewURI, formatOverview(s.backend.Overview())), nil
	})

	s.server.AddResource(&mcp.Resource{
		URI:         CuisinesURI,
		Name:        "Cuisines",
		Description: "Cuisine labels accepted by flavornet_generate",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(CuisinesURI, strings.Join(s.backend.Cuisines(), "\n")), nil
	})
}

func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/plain", Text: text}},
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// Tool Handlers

func (s *Server) handleGenerate(ctx context.Context, req *mcp.CallToolRequest, args GenerateArgs) (*mcp.CallToolResult, generate.Result, error) {
	res, err := s.backend.Generate(ctx, generate.Request{
		Seeds:   args.Seeds,
		Cuisine: args.Cuisine,
		Mode:    generate.Mode(args.Network),
		Min:     args.Min,
		Max:     args.Max,
		Accent:  args.Accent,
		Avoid:   args.Avoid,
	})
	if err != nil {
		return nil, generate.Result{}, err
	}
	return textResult(formatRecipe(res)), *res, nil
}

func (s *Server) handleSubstitutes(ctx context.Context, req *mcp.CallToolRequest, args SubstitutesArgs) (*mcp.CallToolResult, SubstitutesOutput, error) {
	k := args.K
	if k == 0 {
		k = DefaultSubstitutes
	}
	lists, err := s.backend.Substitutes(args.Ingredients, k)
	if err != nil {
		return nil, SubstitutesOutput{}, err
	}
	return textResult(formatSubstitutes(lists)), SubstitutesOutput{Ingredients: lists}, nil
}

func (s *Server) handleCompare(ctx context.Context, req *mcp.CallToolRequest, args CompareArgs) (*mcp.CallToolResult, CompareOutput, error) {
	c, err := s.backend.Compare(args.A, args.B)
	if err != nil {
		return nil, CompareOutput{}, err
	}
	out := newCompareOutput(args.A, args.B, c)
	return textResult(formatComparison(out)), out, nil
}

func (s *Server) handleOverview(ctx context.Context, req *mcp.CallToolRequest, args OverviewArgs) (*mcp.CallToolResult, OverviewOutput, error) {
	networks := s.backend.Overview()
	return textResult(formatOverview(networks)), OverviewOutput{Networks: networks}, nil
}

// newCompareOutput drops the -Inf sentinels of pairs that share no recipe,
// which JSON cannot carry.
func newCompareOutput(a, b string, c analysis.Comparison) CompareOutput {
	out := CompareOutput{
		A:             a,
		B:             b,
		MedFF:         c.MedFF,
		FF:            c.FF,
		RF:            c.RF,
		FPHF:          c.FPHF,
		CommonFlavors: c.CommonFlavors,
		CommonRecipes: c.CommonRecipes,
	}
	if c.PMIAdmitted && !math.IsInf(c.PMI, 0) {
		pmi, cof := c.PMI, c.COF
		out.PMI, out.COF = &pmi, &cof
	}
	return out
}

func formatRecipe(res *generate.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recipe (%s, %d ingredients", res.Mode, len(res.Items)))
	if res.Cuisine != "" {
		sb.WriteString(", " + res.Cuisine)
	}
	sb.WriteString("):\n\n")

	for i, it := range res.Items {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, it.Name))
		if it.Accent {
			sb.WriteString(" (accent)")
		}
		if it.Replaces != "" {
			sb.WriteString(fmt.Sprintf(" (replaces %s)", it.Replaces))
		}
		sb.WriteString("\n")
	}

	if res.MayContainAvoided {
		sb.WriteString(fmt.Sprintf("\nWarning: no substitutes for %s; the recipe may still contain avoided ingredients.\n", strings.Join(res.Kept, ", ")))
	}
	sb.WriteString("\nNext: Use `flavornet_substitutes` to swap out an ingredient.")
	return sb.String()
}

func formatSubstitutes(lists []generate.SubstituteList) string {
	var sb strings.Builder
	for i, l := range lists {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(l.Substitutes) == 0 {
			sb.WriteString(fmt.Sprintf("**%s**: no substitutes\n", l.Ingredient))
			continue
		}
		sb.WriteString(fmt.Sprintf("**%s** (%d substitutes):\n", l.Ingredient, len(l.Substitutes)))
		for j, sub := range l.Substitutes {
			sb.WriteString(fmt.Sprintf("%d. %s (%.3f)\n", j+1, sub.Name, sub.Weight))
		}
	}
	return sb.String()
}

func formatComparison(c CompareOutput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pairing of **%s** and **%s**\n\n", c.A, c.B))
	sb.WriteString(fmt.Sprintf("Shared flavor compounds: %d\n", c.CommonFlavors))
	sb.WriteString(fmt.Sprintf("Shared recipes: %d\n", c.CommonRecipes))
	sb.WriteString(fmt.Sprintf("Flavor Jaccard (FF): %.4f (median %.4f)\n", c.FF, c.MedFF))
	sb.WriteString(fmt.Sprintf("Recipe Jaccard (RF): %.4f\n", c.RF))
	sb.WriteString(fmt.Sprintf("Food pairing factor: %.4f\n", c.FPHF))
	if c.PMI == nil {
		sb.WriteString("PMI: n/a (never cooked together)\n")
		sb.WriteString("Co-occurrence factor: n/a\n")
	} else {
		sb.WriteString(fmt.Sprintf("PMI: %.4f\n", *c.PMI))
		sb.WriteString(fmt.Sprintf("Co-occurrence factor: %.4f\n", *c.COF))
	}
	return sb.String()
}

func formatOverview(networks []index.NetworkSummary) string {
	var sb strings.Builder
	sb.WriteString("Ingredient networks:\n\n")
	for _, n := range networks {
		embedded := "no embeddings"
		if n.Embedded {
			embedded = "embedded"
		}
		sb.WriteString(fmt.Sprintf("- %s: %d nodes, %d edges, threshold %g, %s\n", n.Kind, n.Nodes, n.Edges, n.Threshold, embedded))
	}
	return sb.String()
}
