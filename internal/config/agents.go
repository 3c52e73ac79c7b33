package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadAgentConfig reads a single agent definition from a YAML file.
// A missing name defaults to the file stem; a missing type defaults to custom.
func LoadAgentConfig(path string) (AgentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AgentConfig{}, err
	}

	// Enabled defaults to true when the key is absent.
	cfg := AgentConfig{Enabled: true}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AgentConfig{}, &ConfigError{Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if cfg.Type == "" {
		cfg.Type = AgentTypeCustom
	}
	cfg.Path = path
	return cfg, nil
}

// LoadAgentConfigs reads every *.yaml file in dir, one agent per file.
// Files that fail to parse are reported in errs and skipped; a partial load
// is not an error. A missing directory yields no agents.
func LoadAgentConfigs(dir string) (configs []AgentConfig, errs []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	// Deterministic load order regardless of directory iteration order.
	sort.Strings(files)

	for _, name := range files {
		cfg, err := LoadAgentConfig(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		configs = append(configs, cfg)
	}
	return configs, errs
}
