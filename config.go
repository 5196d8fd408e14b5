package tbashell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/frc492/go-tbashell/webapi"
	"github.com/jimsnab/go-lane"
	"github.com/titanous/json5"
)

const (
	DefaultConfigFile = "config.json5"
	DefaultBaseURL    = "https://www.thebluealliance.com/api/v3"
	authKeyEnv        = "TBA_AUTH_KEY"
)

type (
	Config struct {
		BaseURL    string `json:"base_url"`
		AuthKey    string `json:"auth_key"`
		AuthorID   string `json:"author_id"`
		AppName    string `json:"app_name"`
		AppVersion string `json:"app_version"`
	}
)

func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		AuthorID:   "frc492",
		AppName:    "TBAShell",
		AppVersion: "v0.1",
	}
}

// LoadConfig reads <name> and then <name-without-ext>.local.<ext> over the
// defaults. Missing files are skipped. The TBA_AUTH_KEY environment
// variable overrides auth_key.
func LoadConfig(l lane.Lane, name string) (cfg Config, err error) {
	cfg = DefaultConfig()

	ext := filepath.Ext(name)
	localName := strings.TrimSuffix(name, ext) + ".local" + ext

	for _, fileName := range []string{name, localName} {
		var loaded bool
		if loaded, err = mergeConfigFile(&cfg, fileName); err != nil {
			return
		}
		if loaded {
			l.Tracef("merged config from %s", fileName)
		}
	}

	if key := os.Getenv(authKeyEnv); key != "" {
		cfg.AuthKey = key
	}

	if cfg.AuthKey == "" {
		l.Warnf("no TBA auth key configured; set auth_key in %s or %s", name, authKeyEnv)
	}
	return
}

func mergeConfigFile(cfg *Config, fileName string) (loaded bool, err error) {
	contents, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
		}
		return
	}
	if len(contents) == 0 {
		return
	}

	var override Config
	if err = json5.Unmarshal(contents, &override); err != nil {
		err = fmt.Errorf("can't parse %s: %w", fileName, err)
		return
	}
	if err = mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
		return
	}
	loaded = true
	return
}

// RequestProperties are the headers sent with every TBA request.
func (cfg Config) RequestProperties() []webapi.RequestProperty {
	return []webapi.RequestProperty{
		{Key: "User-Agent", Value: cfg.AppName},
		{Key: "X-TBA-App-Id", Value: fmt.Sprintf("%s:%s:%s", cfg.AuthorID, cfg.AppName, cfg.AppVersion)},
		{Key: "X-TBA-Auth-Key", Value: cfg.AuthKey},
	}
}
