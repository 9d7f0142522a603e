// Package config loads deliberation settings from YAML files. Parsed values
// are converted into core configuration types and validated before use, so
// malformed settings are rejected at load time rather than mid-round.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/symposium-ai/symposium/core"
)

// Duration is a time.Duration that unmarshals from YAML duration strings
// like "90s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"90s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// AgentSpec describes one agent in the configuration file.
type AgentSpec struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Personality   string  `yaml:"personality"`
	Temperature   float64 `yaml:"temperature"`
	MaxSteps      int     `yaml:"max_steps"`
	ThinkingDepth string  `yaml:"thinking_depth"`
}

// File is the on-disk configuration shape.
type File struct {
	Debate struct {
		MaxRounds          int      `yaml:"max_rounds"`
		ConsensusThreshold float64  `yaml:"consensus_threshold"`
		MinAgents          int      `yaml:"min_agents"`
		StagnationEpsilon  float64  `yaml:"stagnation_epsilon"`
		RoundTimeout       Duration `yaml:"round_timeout"`
		AgentTimeout       Duration `yaml:"agent_timeout"`
	} `yaml:"debate"`
	Agents  []AgentSpec `yaml:"agents"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &f, nil
}

// DebateConfig converts the file's debate section into a validated
// core.DebateConfig, filling unset fields with defaults.
func (f *File) DebateConfig() (core.DebateConfig, error) {
	cfg := core.DefaultDebateConfig()
	if f.Debate.MaxRounds != 0 {
		cfg.MaxRounds = f.Debate.MaxRounds
	}
	if f.Debate.ConsensusThreshold != 0 {
		cfg.ConsensusThreshold = f.Debate.ConsensusThreshold
	}
	if f.Debate.MinAgents != 0 {
		cfg.MinAgents = f.Debate.MinAgents
	}
	if f.Debate.StagnationEpsilon != 0 {
		cfg.StagnationEpsilon = f.Debate.StagnationEpsilon
	}
	if f.Debate.RoundTimeout != 0 {
		cfg.RoundTimeout = time.Duration(f.Debate.RoundTimeout)
	}
	if f.Debate.AgentTimeout != 0 {
		cfg.AgentTimeout = time.Duration(f.Debate.AgentTimeout)
	}
	if err := cfg.Validate(); err != nil {
		return core.DebateConfig{}, err
	}
	return cfg, nil
}

// AgentProfiles converts and validates the file's agent specs. Agents are
// registered active and opted into auto-participation.
func (f *File) AgentProfiles() ([]core.AgentProfile, error) {
	profiles := make([]core.AgentProfile, 0, len(f.Agents))
	for _, spec := range f.Agents {
		if spec.ID == "" {
			return nil, core.NewFailure(core.ErrKindValidation, "agent spec missing id (name %q)", spec.Name)
		}
		p := core.AgentProfile{
			ID:              spec.ID,
			Name:            spec.Name,
			Personality:     core.Personality(spec.Personality),
			Temperature:     spec.Temperature,
			Active:          true,
			AutoParticipate: true,
			Config:          core.DefaultAgentConfig(),
		}
		if p.Personality == "" {
			p.Personality = core.PersonalityGeneralist
		}
		if !p.Personality.Valid() {
			return nil, core.NewFailure(core.ErrKindValidation, "agent %s: unknown personality %q", spec.ID, spec.Personality)
		}
		if spec.MaxSteps != 0 {
			p.Config.MaxSteps = spec.MaxSteps
		}
		if spec.ThinkingDepth != "" {
			p.Config.ThinkingDepth = core.ThinkingDepth(spec.ThinkingDepth)
		}
		if err := p.Config.Validate(); err != nil {
			return nil, fmt.Errorf("agent %s: %w", spec.ID, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
