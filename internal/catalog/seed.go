package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type SeedStack struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// SeedData is the initial catalog every deployment starts with.
type SeedData struct {
	TechStacks    []SeedStack `yaml:"tech_stacks"`
	JobCategories []string    `yaml:"job_categories"`
}

// LoadSeed parses the embedded seed file.
func LoadSeed() (*SeedData, error) {
	return parseSeed(seedYAML)
}

func parseSeed(data []byte) (*SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	for i, s := range seed.TechStacks {
		if NormalizeName(s.Name) == "" {
			return nil, fmt.Errorf("catalog seed: tech stack %d has no name", i)
		}
		if s.Category == "" {
			seed.TechStacks[i].Category = DefaultStackCategory
		}
	}
	return &seed, nil
}
