// Package metrics exports the shape of compiled tries to Prometheus.
package metrics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aglyzov/go-trie/radix"
)

// Statser is implemented by *radix.Table of any payload type.
type Statser interface {
	Stats() radix.Stats
}

// Collector reports the Stats of registered tables as gauges labelled by the
// table name and its strategy.
type Collector struct {
	mu     sync.RWMutex
	tables map[string]Statser

	nodes      *prometheus.Desc
	edges      *prometheus.Desc
	payloads   *prometheus.Desc
	labelBytes *prometheus.Desc
	maxFanout  *prometheus.Desc
	denseNodes *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns an empty collector. Metric names are prefixed with
// namespace when it is not empty.
func NewCollector(namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "trie", name),
			help,
			[]string{"table", "strategy"},
			nil,
		)
	}

	return &Collector{
		tables:     make(map[string]Statser),
		nodes:      desc("nodes", "Number of nodes including the root."),
		edges:      desc("edges", "Number of edges."),
		payloads:   desc("payloads", "Number of keys."),
		labelBytes: desc("label_bytes", "Total size of edge labels in bytes."),
		maxFanout:  desc("max_fanout", "Largest number of edges of a single node."),
		denseNodes: desc("dense_nodes", "Number of nodes with a bitmap index."),
	}
}

// Register starts reporting the table under name.
func (c *Collector) Register(name string, tab Statser) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[name]; ok {
		return fmt.Errorf("table %q is already registered", name)
	}

	c.tables[name] = tab

	return nil
}

// Unregister stops reporting the table and reports whether it was registered.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.tables[name]
	delete(c.tables, name)

	return ok
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.edges
	ch <- c.payloads
	ch <- c.labelBytes
	ch <- c.maxFanout
	ch <- c.denseNodes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var (
			stats    = c.tables[name].Stats()
			strategy = stats.Strategy.String()
		)

		for _, m := range []struct {
			desc *prometheus.Desc
			val  int
		}{
			{c.nodes, stats.Nodes},
			{c.edges, stats.Edges},
			{c.payloads, stats.Payloads},
			{c.labelBytes, stats.LabelBytes},
			{c.maxFanout, stats.MaxFanout},
			{c.denseNodes, stats.DenseNodes},
		} {
			ch <- prometheus.MustNewConstMetric(m.desc, prometheus.GaugeValue, float64(m.val), name, strategy)
		}
	}
}
