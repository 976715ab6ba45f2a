// Package config loads terminal profiles from YAML, re-targeting the
// reference corpus's model-config inheritance (resolveModelConfig,
// ExtraBody merge-with-override) onto ring/buffer/scheduler parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigCycle is returned by Resolve when a profile's Extends chain
// loops back on itself, directly or transitively.
var ErrConfigCycle = errors.New("config: circular Extends chain")

// Profile describes one named terminal configuration. Pointer fields are
// nil when unset in YAML, matching the reference corpus's ModelConfig so
// that Resolve can tell "not set" apart from "set to the zero value".
type Profile struct {
	Extends         *string        `yaml:"extends,omitempty"`
	RingCapacity    *int           `yaml:"ring_capacity,omitempty"`
	BufferCapacity  *int           `yaml:"buffer_capacity,omitempty"`
	HistoryCapacity *int           `yaml:"history_capacity,omitempty"`
	Prompt          *string        `yaml:"prompt,omitempty"`
	TickPeriodMS    *int           `yaml:"tick_period_ms,omitempty"`
	AuditDBPath     *string        `yaml:"audit_db_path,omitempty"`
	ExtraBody       map[string]any `yaml:"extra,omitempty"`
}

// File is the top-level shape of a profiles YAML document: a named map of
// profiles plus the name of the one to use when none is requested.
type File struct {
	Default  string             `yaml:"default,omitempty"`
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Resolved is a Profile after Extends has been fully applied, with
// defaults substituted for anything still unset.
type Resolved struct {
	RingCapacity    int
	BufferCapacity  int
	HistoryCapacity int
	Prompt          string
	TickPeriod      time.Duration
	AuditDBPath     string
	ExtraBody       map[string]any
}

// Defaults mirrors the sizes already exercised elsewhere in this module's
// tests: a 1024-byte ring, a 1024-byte line buffer, 10 history entries, a
// one-second scheduler tick and the conventional "> " prompt.
var Defaults = Resolved{
	RingCapacity:    1024,
	BufferCapacity:  1024,
	HistoryCapacity: 10,
	Prompt:          "\n\x1b[2K> ",
	TickPeriod:      time.Second,
	AuditDBPath:     "audit.db",
}

// Load reads and parses a profiles file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// Resolve walks name's Extends chain, merging ancestors first so nearer
// profiles override farther ones, then fills anything still unset from
// Defaults. An empty name selects f.Default; if that is empty too, the
// result is Defaults unchanged.
func Resolve(f *File, name string) (Resolved, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" {
		return Defaults, nil
	}
	merged, err := resolveRec(f, name, map[string]bool{})
	if err != nil {
		return Resolved{}, err
	}
	return applyDefaults(merged), nil
}

func resolveRec(f *File, name string, visited map[string]bool) (Profile, error) {
	if visited[name] {
		return Profile{}, fmt.Errorf("config: profile %q: %w", name, ErrConfigCycle)
	}
	visited[name] = true

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("config: profile %q not found", name)
	}

	if p.Extends == nil {
		return p, nil
	}

	parent, err := resolveRec(f, *p.Extends, visited)
	if err != nil {
		return Profile{}, err
	}

	merged := parent // start from parent, child overrides below

	if p.RingCapacity != nil {
		merged.RingCapacity = p.RingCapacity
	}
	if p.BufferCapacity != nil {
		merged.BufferCapacity = p.BufferCapacity
	}
	if p.HistoryCapacity != nil {
		merged.HistoryCapacity = p.HistoryCapacity
	}
	if p.Prompt != nil {
		merged.Prompt = p.Prompt
	}
	if p.TickPeriodMS != nil {
		merged.TickPeriodMS = p.TickPeriodMS
	}
	if p.AuditDBPath != nil {
		merged.AuditDBPath = p.AuditDBPath
	}
	merged.ExtraBody = mergeExtra(merged.ExtraBody, p.ExtraBody)
	merged.Extends = p.Extends

	return merged, nil
}

func mergeExtra(base, override map[string]any) map[string]any {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		result[k] = v
	}
	return result
}

func applyDefaults(p Profile) Resolved {
	r := Defaults
	if p.RingCapacity != nil {
		r.RingCapacity = *p.RingCapacity
	}
	if p.BufferCapacity != nil {
		r.BufferCapacity = *p.BufferCapacity
	}
	if p.HistoryCapacity != nil {
		r.HistoryCapacity = *p.HistoryCapacity
	}
	if p.Prompt != nil {
		r.Prompt = *p.Prompt
	}
	if p.TickPeriodMS != nil {
		r.TickPeriod = time.Duration(*p.TickPeriodMS) * time.Millisecond
	}
	if p.AuditDBPath != nil {
		r.AuditDBPath = *p.AuditDBPath
	}
	r.ExtraBody = p.ExtraBody
	return r
}
