// Copyright 2025 TraceMatrix Authors
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


// Package config loads the orchestration plan from a YAML file into a typed
// structure with explicit defaults. A missing or unparsable file yields the
// default configuration, never an error: a deployment without a plan file
// still runs with sane fallback behavior.
package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPerStepTimeout bounds each orchestration stage when the plan
	// does not set guardrails.timeouts.per_step_s.
	DefaultPerStepTimeout = 20 * time.Second

	// DefaultHybridK is the result count requested from the hybrid search
	// collaborator when no plan step configures one.
	DefaultHybridK = 20

	// DefaultFilenameTemplate names export files when the export step does
	// not carry its own template. The ".ext" suffix is replaced per format.
	DefaultFilenameTemplate = "run_{yyyy}{mm}{dd}_{HH}{MM}{SS}_{slug(name)}.ext"

	// DefaultExportDir receives export files when the plan sets no dir.
	DefaultExportDir = "exports"
)

// Config is the typed orchestration plan.
type Config struct {
	Fallback   Fallback   `yaml:"fallback"`
	Guardrails Guardrails `yaml:"guardrails"`
	Plan       Plan       `yaml:"plan"`
}

// Fallback gates the search-driven pipeline that runs when a request
// carries no explicit target URLs.
type Fallback struct {
	Enabled bool `yaml:"enabled"`
}

type Guardrails struct {
	Timeouts Timeouts `yaml:"timeouts"`
}

type Timeouts struct {
	PerStepS int `yaml:"per_step_s"`
}

// Plan is the ordered list of pipeline steps with per-step tuning.
type Plan struct {
	Steps []Step `yaml:"steps"`
}

// Step configures one pipeline stage. Only the fields relevant to a given
// step name are read; the rest stay at their zero values.
type Step struct {
	Name             string   `yaml:"name"`
	Engines          Engines  `yaml:"engines"`
	Dir              string   `yaml:"dir"`
	FilenameTemplate string   `yaml:"filename_template"`
	Formats          []string `yaml:"formats"`
	SplitByEntity    *bool    `yaml:"split_by_entity"`
}

type Engines struct {
	Opensearch Opensearch `yaml:"opensearch"`
}

type Opensearch struct {
	K int `yaml:"k"`
}

// Default returns the configuration used when no plan file is present:
// fallback enabled, default timeouts, empty plan.
func Default() Config {
	return Config{
		Fallback:   Fallback{Enabled: true},
		Guardrails: Guardrails{Timeouts: Timeouts{PerStepS: int(DefaultPerStepTimeout / time.Second)}},
	}
}

// Load reads the plan at path, expands ${NAME} environment references in the
// raw document, and unmarshals it over the defaults. Any failure degrades to
// Default(): configuration problems must never take the service down.
func Load(path string, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Default()
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("config file unreadable, using defaults", "path", path, "error", err)
		return cfg
	}
	expanded := ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		logger.Warn("config file unparsable, using defaults", "path", path, "error", err)
		return Default()
	}
	return cfg
}

// PerStepTimeout returns the configured per-stage deadline.
func (c Config) PerStepTimeout() time.Duration {
	if c.Guardrails.Timeouts.PerStepS <= 0 {
		return DefaultPerStepTimeout
	}
	return time.Duration(c.Guardrails.Timeouts.PerStepS) * time.Second
}

// HybridK returns the hybrid search result count from the first plan step
// that configures one.
func (c Config) HybridK() int {
	for _, s := range c.Plan.Steps {
		if s.Engines.Opensearch.K > 0 {
			return s.Engines.Opensearch.K
		}
	}
	return DefaultHybridK
}

// ExportStep returns the "export" plan step with all unset fields filled
// with defaults, so callers never re-check them.
func (c Config) ExportStep() Step {
	step := Step{Name: "export"}
	for _, s := range c.Plan.Steps {
		if s.Name == "export" {
			step = s
			break
		}
	}
	if step.Dir == "" {
		step.Dir = DefaultExportDir
	}
	if step.FilenameTemplate == "" {
		step.FilenameTemplate = DefaultFilenameTemplate
	}
	if len(step.Formats) == 0 {
		step.Formats = []string{"csv", "json"}
	}
	return step
}

// SplitEnabled reports whether export output is split into per-entity-kind
// files. Unset means split.
func (s Step) SplitEnabled() bool {
	if s.SplitByEntity == nil {
		return true
	}
	return *s.SplitByEntity
}
