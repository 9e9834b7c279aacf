package config

import (
	"path/filepath"

	yaml "github.com/goccy/go-yaml"
)

// CfgPath is a path from the config file. Relative paths are relative to
// the directory holding the config file once resolved.
type CfgPath string

func (c *CfgPath) UnmarshalYAML(b []byte) error {
	var path string

	err := yaml.Unmarshal(b, &path)
	if err != nil {
		return err
	}
	*c = CfgPath(filepath.Clean(path))
	return nil
}

func (c CfgPath) Resolve(base string) CfgPath {
	if c == "" || filepath.IsAbs(string(c)) {
		return c
	}
	return CfgPath(filepath.Join(base, string(c)))
}
