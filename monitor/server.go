// Copyright (C) 2015  Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package monitor provides an embedded HTTP server to expose metrics for
// monitoring: a pollable snapshot of zmalloc's used-memory counter and
// every tracked dict's table sizes and rehash progress, published as
// Prometheus gauges.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Go documentation recommended usage
	"time"

	corekvglog "github.com/aristanetworks/corekv/glog"
	"github.com/aristanetworks/corekv/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// log is the logger used to report server and poller failures; it's a var
// rather than a Logger field threaded through every constructor because
// none of this package's exported types' shapes should change just to let
// a caller swap loggers in the uncommon case.
var log logger.Logger = &corekvglog.Glog{}

// ShardStats is one dict's worth of introspection, shaped after
// dict.Stats so monitor doesn't need to import dict (monitor is meant to
// watch any number of differently-typed Dicts, which Go generics can't
// name uniformly without type parameters of their own).
type ShardStats struct {
	Name          string
	Ht0Size       int
	Ht0Used       int
	Ht1Size       int
	Ht1Used       int
	Rehashing     bool
	SafeIterators int
}

// Snapshot is one poll's worth of process state: the tracked allocator's
// live-byte counter plus every registered shard's stats.
type Snapshot struct {
	ZmallocUsed int64
	Shards      []ShardStats
}

// Source produces a Snapshot on demand. It returns an error when the
// snapshot couldn't be taken this cycle (e.g. a shard's owner is mid
// rehash-with-iterator and chose not to block) rather than blocking the
// poller indefinitely.
type Source func() (Snapshot, error)

// Server represents a monitoring server.
type Server interface {
	Run()
}

// server contains information for the monitoring server.
type server struct {
	serverName string
	poller     *Poller
}

// NewMonitorServer creates a new monitoring server that serves Prometheus
// metrics at /metrics (registered by poller, if non-nil), pprof at
// /debug/pprof, and an index page at /debug.
func NewMonitorServer(serverName string, poller *Poller) Server {
	return &server{
		serverName: serverName,
		poller:     poller,
	}
}

func debugHandler(w http.ResponseWriter, r *http.Request) {
	indexTmpl := `<html>
	<head>
	<title>/debug</title>
	</head>
	<body>
	<p>/debug</p>
	<div><a href="/debug/vars">vars</a></div>
	<div><a href="/debug/pprof">pprof</a></div>
	<div><a href="/metrics">metrics</a></div>
	</body>
	</html>
	`
	fmt.Fprint(w, indexTmpl)
}

// Run sets up the HTTP server and any handlers, then blocks. If a Poller
// was supplied it is started on its own goroutine and stopped when the
// server returns.
func (s *server) Run() {
	http.HandleFunc("/debug", debugHandler)
	http.HandleFunc("/debug/vars", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, VarsToString())
	})
	if s.poller != nil {
		http.Handle("/metrics", promhttp.HandlerFor(s.poller.registry, promhttp.HandlerOpts{}))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.poller.Run(ctx)
	}

	err := http.ListenAndServe(s.serverName, nil)
	if err != nil {
		log.Errorf("monitor: could not start monitor server: %s", err)
	}
}

// Poller periodically calls a Source and republishes the result as
// Prometheus gauges. A failed Source call is retried with exponential
// backoff (up to 5 retries) rather than surfacing a stale or zeroed
// snapshot to scrapers.
type Poller struct {
	source   Source
	interval time.Duration
	registry *prometheus.Registry

	zmallocUsed prometheus.Gauge
	ht0Size     *prometheus.GaugeVec
	ht0Used     *prometheus.GaugeVec
	ht1Size     *prometheus.GaugeVec
	ht1Used     *prometheus.GaugeVec
	rehashing   *prometheus.GaugeVec
	iterators   *prometheus.GaugeVec
}

// NewPoller builds a Poller around source that refreshes every interval,
// registering its gauges on a fresh, private registry (so a process
// embedding corekv can mount /metrics alongside its own metrics registry
// without collisions).
func NewPoller(source Source, interval time.Duration) *Poller {
	reg := prometheus.NewRegistry()
	p := &Poller{
		source:   source,
		interval: interval,
		registry: reg,
		zmallocUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "corekv",
			Name:      "zmalloc_used_bytes",
			Help:      "Bytes currently accounted by the tracked allocator.",
		}),
		ht0Size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corekv", Name: "dict_ht0_size", Help: "Primary table bucket count.",
		}, []string{"shard"}),
		ht0Used: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corekv", Name: "dict_ht0_used", Help: "Primary table entry count.",
		}, []string{"shard"}),
		ht1Size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corekv", Name: "dict_ht1_size", Help: "Secondary (rehash target) table bucket count.",
		}, []string{"shard"}),
		ht1Used: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corekv", Name: "dict_ht1_used", Help: "Secondary table entry count.",
		}, []string{"shard"}),
		rehashing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corekv", Name: "dict_rehashing", Help: "1 if the shard is mid incremental rehash.",
		}, []string{"shard"}),
		iterators: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corekv", Name: "dict_safe_iterators", Help: "Live safe-iterator count.",
		}, []string{"shard"}),
	}
	reg.MustRegister(p.zmallocUsed, p.ht0Size, p.ht0Used, p.ht1Size, p.ht1Used, p.rehashing, p.iterators)
	return p
}

// Run polls at p.interval until ctx is cancelled. Each cycle's Source
// call is retried with exponential backoff (capped at 5 retries) rather
// than publishing a stale snapshot on a transient
// failure; a cycle that never recovers is logged and skipped, leaving the
// previous gauge values in place for that scrape.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	b := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(), 5), ctx)
	var snap Snapshot
	err := backoff.Retry(func() error {
		s, err := p.source()
		if err != nil {
			return err
		}
		snap = s
		return nil
	}, b)
	if err != nil {
		log.Errorf("monitor: snapshot failed after backoff: %s", err)
		return
	}
	p.publish(snap)
}

func (p *Poller) publish(snap Snapshot) {
	p.zmallocUsed.Set(float64(snap.ZmallocUsed))
	for _, s := range snap.Shards {
		p.ht0Size.WithLabelValues(s.Name).Set(float64(s.Ht0Size))
		p.ht0Used.WithLabelValues(s.Name).Set(float64(s.Ht0Used))
		p.ht1Size.WithLabelValues(s.Name).Set(float64(s.Ht1Size))
		p.ht1Used.WithLabelValues(s.Name).Set(float64(s.Ht1Used))
		p.iterators.WithLabelValues(s.Name).Set(float64(s.SafeIterators))
		rehashing := 0.0
		if s.Rehashing {
			rehashing = 1.0
		}
		p.rehashing.WithLabelValues(s.Name).Set(rehashing)
	}
}
