package questions

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/signs.yaml
var defaultSignsYAML []byte

type poolFile struct {
	Groups []SignGroup `yaml:"groups"`
}

// Load loads the sign pool.
// Search order: customPath -> ~/.signrun/configs/signs.yaml -> ./configs/signs.yaml -> embedded default
func Load(customPath string) (*Pool, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("questions: failed to read %s: %w", customPath, err)
		}
		pool, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("questions: %s: %w", customPath, err)
		}
		return pool, nil
	}

	candidates := []string{"configs/signs.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append([]string{filepath.Join(home, ".signrun", "configs", "signs.yaml")}, candidates...)
	}
	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			if pool, err := Parse(data); err == nil {
				return pool, nil
			}
		}
	}

	return Parse(defaultSignsYAML)
}

// Parse decodes a YAML sign pool.
func Parse(data []byte) (*Pool, error) {
	var f poolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("questions: failed to parse pool: %w", err)
	}
	return NewPool(f.Groups)
}

// Default returns the embedded pool.
func Default() *Pool {
	pool, err := Parse(defaultSignsYAML)
	if err != nil {
		panic(fmt.Sprintf("questions: embedded pool is invalid: %v", err))
	}
	return pool
}
