// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Config is the representation of corekv-bench's YAML config file.
type Config struct {
	// Shards is the number of independent dict.Dict instances to build.
	// Each shard is driven by exactly one goroutine, since dict.Dict is
	// not safe for concurrent use; sharding is how this harness gets
	// concurrency without violating that.
	Shards int `yaml:"shards"`

	// KeysPerShard is how many keys each shard receives.
	KeysPerShard int `yaml:"keys-per-shard"`

	// ValueSize is the byte length of each random value.
	ValueSize int `yaml:"value-size"`

	// OOMCeilingBytes stops the run early (rather than letting
	// zmalloc.Runtime panic) once the tracked allocator's counter has
	// reached this many bytes. The check runs before each insert, so the
	// counter can end slightly above it. Zero means no ceiling.
	OOMCeilingBytes int64 `yaml:"oom-ceiling-bytes"`

	// Concurrency bounds how many shards run at once, via
	// sync/semaphore.Weighted. Defaults to Shards (fully parallel) when
	// zero or negative.
	Concurrency int `yaml:"concurrency"`

	// SampleDraws is how many random draws sample.WeightedByChainLength
	// takes per shard when reporting bucket-selection bias after the
	// load phase. Zero disables the sampling report.
	SampleDraws int `yaml:"sample-draws"`

	// MetricsAddr, if non-empty, serves Prometheus metrics at this
	// address (e.g. ":9090") instead of exiting after one report.
	MetricsAddr string `yaml:"metrics-addr"`
}

func parseConfig(raw []byte) (*Config, error) {
	cfg := &Config{
		Shards:       4,
		KeysPerShard: 10000,
		ValueSize:    64,
		Concurrency:  0,
		SampleDraws:  0,
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("corekv-bench: parsing config: %w", err)
	}
	if cfg.Shards <= 0 {
		return nil, fmt.Errorf("corekv-bench: shards must be positive, got %d", cfg.Shards)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = cfg.Shards
	}
	return cfg, nil
}
