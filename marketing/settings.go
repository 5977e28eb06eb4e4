package marketing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Environment selects which Engage backend the browser talks to.
type Environment string

const (
	// EnvDevelopment registers the device explicitly so it can be
	// targeted from the Engage dashboard.
	EnvDevelopment Environment = "development"

	// EnvProduction is the release configuration.
	EnvProduction Environment = "production"
)

func (e Environment) valid() bool {
	return e == EnvDevelopment || e == EnvProduction
}

// Settings carries the Engage credentials bundled with the build. They
// are read once at startup and never change at runtime.
type Settings struct {
	// Environment is "development" or "production".
	Environment Environment `json:"environment"`

	// AppID identifies the app registration on the Engage dashboard.
	AppID string `json:"app_id"`

	// Key is the API key matching the environment: a development key
	// for development builds, a production key for release builds.
	Key string `json:"key"`
}

// ParseSettings decodes the settings blob embedded in the build. It
// fails on malformed JSON or missing fields; callers treat a failure as
// "marketing stays off" rather than a fatal error.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse marketing settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if !s.Environment.valid() {
		return fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, s.Environment)
	}
	if s.AppID == "" {
		return fmt.Errorf("app_id is required")
	}
	if s.Key == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}

// supportedLocales lists the device locales marketing campaigns are
// produced for. Everything else keeps the integration dormant.
var supportedLocales = map[string]struct{}{
	"en_US": {},
	"en_GB": {},
	"en_CA": {},
	"en_AU": {},
	"en_NZ": {},
	"de_DE": {},
	"de_AT": {},
	"de_CH": {},
	"fr_FR": {},
	"it_IT": {},
	"es_ES": {},
	"pt_BR": {},
	"pl_PL": {},
	"ru_RU": {},
	"ja_JP": {},
	"zh_TW": {},
	"id_ID": {},
}

// localeSupported normalizes BCP 47 style tags ("en-US") to the POSIX
// form the table uses before looking them up.
func localeSupported(locale string) bool {
	_, ok := supportedLocales[strings.ReplaceAll(locale, "-", "_")]
	return ok
}
