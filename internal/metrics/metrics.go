// Package metrics exposes prometheus instrumentation for network
// construction and recipe generation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PairsScored counts pair evaluations, labeled by network.
	PairsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavornet_pairs_scored_total",
			Help: "Total number of ingredient pairs scored during network construction",
		},
		[]string{"network"},
	)

	// EdgesAdmitted counts pairs that passed their admission rule.
	EdgesAdmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavornet_edges_admitted_total",
			Help: "Total number of edges admitted into derived networks",
		},
		[]string{"network"},
	)

	// BuildDuration measures how long each network took to build.
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flavornet_network_build_duration_seconds",
			Help:    "Duration of derived network construction in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"network"},
	)

	// RecipesGenerated counts generation requests by mode and outcome.
	RecipesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavornet_recipes_generated_total",
			Help: "Total number of recipe generation requests",
		},
		[]string{"mode", "status"},
	)

	// Substitutions counts avoided ingredients, labeled by whether a
	// replacement was found.
	Substitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavornet_substitutions_total",
			Help: "Total number of avoided ingredients processed by the substitution resolver",
		},
		[]string{"result"},
	)

	// EmbeddingReloads counts embedding spaces reloaded by the watcher.
	EmbeddingReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flavornet_embedding_reloads_total",
			Help: "Total number of embedding spaces reloaded from disk",
		},
	)
)

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
