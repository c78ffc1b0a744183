package agent

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/stillmatic/bobaline/pkg/audio"
)

// Settings is the configuration message sent once at connection open. The
// audio section is owned by the bridge (it must match the resampler rates);
// the agent section can be overridden from a YAML file.
type Settings struct {
	Type  string      `json:"type" yaml:"-"`
	Audio AudioConfig `json:"audio" yaml:"-"`
	Agent AgentConfig `json:"agent" yaml:"agent"`
}

type AudioConfig struct {
	Input  AudioFormat `json:"input"`
	Output AudioFormat `json:"output"`
}

type AudioFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
	Container  string `json:"container,omitempty"`
}

type AgentConfig struct {
	Language string       `json:"language" yaml:"language"`
	Listen   ListenConfig `json:"listen" yaml:"listen"`
	Think    ThinkConfig  `json:"think" yaml:"think"`
	Speak    SpeakConfig  `json:"speak" yaml:"speak"`
	Greeting string       `json:"greeting,omitempty" yaml:"greeting"`
}

type ListenConfig struct {
	Provider Provider `json:"provider" yaml:"provider"`
}

type SpeakConfig struct {
	Provider Provider `json:"provider" yaml:"provider"`
}

type ThinkConfig struct {
	Provider Provider `json:"provider" yaml:"provider"`
	Prompt   string   `json:"prompt,omitempty" yaml:"prompt"`
	// Functions is injected by the bridge, not configurable from YAML.
	Functions []FunctionDef `json:"functions,omitempty" yaml:"-"`
}

type Provider struct {
	Type        string  `json:"type" yaml:"type"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature"`
}

// DefaultSettings returns the stock boba-line configuration. The input rate
// is what the uplink resampler produces and the output rate is what the
// downlink resampler expects.
func DefaultSettings() Settings {
	return Settings{
		Type: TypeSettings,
		Audio: AudioConfig{
			Input:  AudioFormat{Encoding: "linear16", SampleRate: audio.AgentInRate},
			Output: AudioFormat{Encoding: "linear16", SampleRate: audio.AgentOutRate, Container: "none"},
		},
		Agent: AgentConfig{
			Language: "en",
			Listen:   ListenConfig{Provider: Provider{Type: "deepgram", Model: "nova-3"}},
			Think: ThinkConfig{
				Provider: Provider{Type: "google", Model: "gemini-2.5-flash"},
				Prompt:   OrderingPrompt,
			},
			Speak:    SpeakConfig{Provider: Provider{Type: "deepgram", Model: "aura-2-odysseus-en"}},
			Greeting: "Hey! I am your BobaRista. What would you like to order?",
		},
	}
}

// LoadSettings reads a YAML settings file over the defaults. Only the agent
// section is configurable; audio formats stay pinned to the bridge's
// resampler rates. An empty path returns the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading agent settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing agent settings: %w", err)
	}
	return s, nil
}
