// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package prover

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindBalance      = "balance"
	kindTransfer     = "transfer"
	kindTransferFrom = "transfer_from"

	cacheHit  = "hit"
	cacheMiss = "miss"
)

type metrics struct {
	proofs *prometheus.CounterVec
	cache  *prometheus.CounterVec
	build  prometheus.Histogram
}

// newMetrics creates the prover metrics and registers them if a registerer
// is given.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		proofs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smt",
			Subsystem: "prover",
			Name:      "proofs_total",
			Help:      "Number of proof bundles produced, by kind.",
		}, []string{"kind"}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smt",
			Subsystem: "prover",
			Name:      "engine_cache_total",
			Help:      "Number of engine cache lookups, by result.",
		}, []string{"result"}),
		build: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smt",
			Subsystem: "prover",
			Name:      "build_seconds",
			Help:      "Time spent building balance trees from snapshots.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
}
