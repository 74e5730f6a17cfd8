// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Command corekv-bench builds a handful of independent dict.Dict shards,
// loads them concurrently and reports their table shape and the tracked
// allocator's footprint through the monitor package. It exists to
// exercise dict, sds and zmalloc end to end the way a real caller would,
// not to be a server or a wire protocol for the core itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	corekvglog "github.com/aristanetworks/corekv/glog"
	"github.com/aristanetworks/corekv/monitor"
	"github.com/aristanetworks/corekv/sliceutils"
	semutil "github.com/aristanetworks/corekv/sync/semaphore"
	"github.com/aristanetworks/corekv/zmalloc"
	"github.com/aristanetworks/glog"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML run configuration")
	flag.Parse()
	if *configPath == "" {
		glog.Fatal("corekv-bench: -config is required")
	}
	raw, err := os.ReadFile(*configPath)
	if err != nil {
		glog.Fatalf("corekv-bench: reading config %q: %v", *configPath, err)
	}
	cfg, err := parseConfig(raw)
	if err != nil {
		glog.Fatal(err)
	}

	log := &corekvglog.Glog{}
	rt := zmalloc.New()
	rt.SetLogger(log)
	rt.SetOOMHandler(func(requested int) {
		log.Errorf("corekv-bench: allocation of %d bytes failed", requested)
	})

	shards := make([]*shard, cfg.Shards)
	for i := range shards {
		shards[i] = newShard(fmt.Sprintf("shard-%d", i), rt)
		if cfg.OOMCeilingBytes > 0 {
			shards[i].setCeiling(cfg.OOMCeilingBytes)
		}
	}

	if err := loadShards(shards, cfg); err != nil {
		glog.Fatalf("corekv-bench: %v", err)
	}
	log.Infof("corekv-bench: loaded %d shards, %d keys each (%d bytes tracked)",
		cfg.Shards, cfg.KeysPerShard, rt.UsedMemory())

	if cfg.SampleDraws > 0 {
		reportChainBias(shards, cfg.SampleDraws, log)
	}

	poller := monitor.NewPoller(snapshotSource(rt, shards), 5*time.Second)
	if cfg.MetricsAddr == "" {
		snap, _ := snapshotSource(rt, shards)()
		fmt.Printf("zmalloc used: %d bytes\n", snap.ZmallocUsed)
		for _, s := range snap.Shards {
			fmt.Printf("%s: ht0=%d/%d ht1=%d/%d rehashing=%v\n",
				s.Name, s.Ht0Used, s.Ht0Size, s.Ht1Used, s.Ht1Size, s.Rehashing)
		}
		return
	}
	srv := monitor.NewMonitorServer(cfg.MetricsAddr, poller)
	log.Infof("corekv-bench: serving metrics on %s", cfg.MetricsAddr)
	srv.Run()
}

// loadShards drives every shard's load concurrently, bounded by a
// Weighted semaphore so a large Shards count doesn't spin up unbounded
// goroutines, and waits for them with an errgroup. The load goroutines
// always return nil and do not recover panics.
func loadShards(shards []*shard, cfg *Config) error {
	sem := semutil.NewWeighted(int64(cfg.Concurrency))
	var g errgroup.Group
	ctx := context.Background()
	for _, s := range shards {
		s := s
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			s.load(cfg.KeysPerShard, cfg.ValueSize)
			return nil
		})
	}
	return g.Wait()
}

func snapshotSource(rt *zmalloc.Runtime, shards []*shard) monitor.Source {
	return func() (monitor.Snapshot, error) {
		snap := monitor.Snapshot{
			ZmallocUsed: rt.UsedMemory(),
			Shards:      make([]monitor.ShardStats, len(shards)),
		}
		for i, s := range shards {
			snap.Shards[i] = s.stats()
		}
		return snap, nil
	}
}

// reportChainBias logs, per shard, how many of SampleDraws random draws
// landed in each bucket (empty buckets show 0), an empirical look at the
// bucket-then-chain-position sampler, whose bias favours keys in shorter
// chains.
func reportChainBias(shards []*shard, draws int, log *corekvglog.Glog) {
	for _, s := range shards {
		counts := s.chainLengthHistogram(draws)
		args := []interface{}{s.name, "chain-length histogram:"}
		args = append(args, sliceutils.ToAnySlice(counts)...)
		log.Info(args...)
	}
}
