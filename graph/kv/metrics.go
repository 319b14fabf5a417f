// Copyright 2016 The Cayley Authors. All rights reserved.
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

package kv

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gizmograph/gizmodb/graph"
)

// Metrics instrumentation for a QuadStore. All series are labeled by the
// backend's Type() so a process running both badger and leveldb stores
// reports each separately.
var (
	deltasApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gizmodb",
		Subsystem: "kv",
		Name:      "deltas_applied_total",
		Help:      "Number of individual add/delete deltas successfully applied.",
	}, []string{"backend", "action"})

	deltasFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gizmodb",
		Subsystem: "kv",
		Name:      "deltas_failed_total",
		Help:      "Number of ApplyDeltas calls that returned an error.",
	}, []string{"backend"})

	applyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gizmodb",
		Subsystem: "kv",
		Name:      "apply_deltas_seconds",
		Help:      "Latency of one ApplyDeltas transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})

	hashIndexLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gizmodb",
		Subsystem: "kv",
		Name:      "hash_index_lookups_total",
		Help:      "Value-hash lookups, split by whether the bloom filter short-circuited them.",
	}, []string{"backend", "outcome"})

	storeNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gizmodb",
		Subsystem: "kv",
		Name:      "nodes",
		Help:      "Count of interned value primitives, as of the last Stats call.",
	}, []string{"backend"})

	storeQuads = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gizmodb",
		Subsystem: "kv",
		Name:      "quads",
		Help:      "Count of stored quads, as of the last Stats call.",
	}, []string{"backend"})
)

// recordDelta increments the per-action applied counter for this store's
// backend type.
func (qs *QuadStore) recordDelta(action string) {
	deltasApplied.WithLabelValues(qs.db.Type(), action).Inc()
}

// recordApplyFailure increments the failed-transaction counter.
func (qs *QuadStore) recordApplyFailure() {
	deltasFailed.WithLabelValues(qs.db.Type()).Inc()
}

// timeApply returns a func to defer that records the elapsed time of one
// ApplyDeltas call.
func (qs *QuadStore) timeApply() func() {
	start := time.Now()
	backend := qs.db.Type()
	return func() {
		applyDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	}
}

// recordHashLookup records whether the bloom filter's negative answer let a
// resolveVal/findQuad call skip the hash-index read entirely.
func (qs *QuadStore) recordHashLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	hashIndexLookups.WithLabelValues(qs.db.Type(), outcome).Inc()
}

// recordStats publishes the latest node/quad counts as gauges.
func (qs *QuadStore) recordStats(st graph.Stats) {
	backend := qs.db.Type()
	storeNodes.WithLabelValues(backend).Set(float64(st.Nodes.Value))
	storeQuads.WithLabelValues(backend).Set(float64(st.Quads.Value))
}
