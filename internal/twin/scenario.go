package twin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kiroskirin/firefox-ios/marketing"
)

// Scenario declares the twin's canned campaign behavior: which action
// templates every session start triggers and which credentials are
// accepted.
type Scenario struct {
	// StartActions are template names returned by every session start.
	StartActions []string `yaml:"start_actions"`

	// Apps restricts which API keys the twin accepts. Empty accepts
	// any key, including none.
	Apps []AppCredential `yaml:"apps"`
}

// AppCredential is one accepted app registration.
type AppCredential struct {
	AppID string `yaml:"app_id"`
	Key   string `yaml:"key"`
}

func defaultScenario() *Scenario {
	return &Scenario{
		StartActions: []string{marketing.ActionPrePushPermission},
	}
}

// LoadScenario reads a YAML scenario from path, layering it over the
// defaults. An empty path returns the defaults unchanged.
func LoadScenario(path string) (*Scenario, error) {
	s := defaultScenario()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("twin: read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("twin: parse scenario: %w", err)
	}
	return s, nil
}

// allowsKey reports whether requests presenting key may use the SDK
// API. With no configured apps the twin accepts anything.
func (s *Scenario) allowsKey(key string) bool {
	if len(s.Apps) == 0 {
		return true
	}
	for _, app := range s.Apps {
		if app.Key == key {
			return true
		}
	}
	return false
}
