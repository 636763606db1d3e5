/*
Package config provides type-safe configuration extraction from map[string]any
and the engine settings derived from it.

# Overview

Config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches by returning default values. Keys may be
dotted paths into nested maps, so "cache.capacity" reads

	cache:
	  capacity: 512

# Basic Usage

	cfg := config.New(map[string]any{
	    "cache":   map[string]any{"capacity": 512},
	    "metrics": true,
	})

	capacity := cfg.Int("cache.capacity", 0) // 512
	tracing := cfg.Bool("tracing", false)    // false

# Settings

Settings decodes the keys the engine understands:

	cache.capacity  int     0 keeps every compiled expression; >0 bounds an LRU
	metrics         bool    record OpenTelemetry metrics
	tracing         bool    record OpenTelemetry spans
	log.level       string  debug, info, warn or error
	vars            map     default variables for the command line tool

# File Loading

	cfg, err := config.FromFile("lambda.yaml")
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
