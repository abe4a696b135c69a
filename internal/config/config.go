package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selection is the YAML form of the caller-held generation choices: which
// arrays to unnest, which fields key each table, and how nested arrays bind
// to their parents. The flattening pipeline reads one immutable snapshot of
// this per pass; editing the file and regenerating is the feedback loop.
type Selection struct {
	RootTable    string            `yaml:"root_table"`
	Dialect      string            `yaml:"dialect"`
	Unnest       []string          `yaml:"unnest"`
	NaturalKeys  map[string]string `yaml:"natural_keys"` // "root" or array path -> field path
	Relations    map[string]string `yaml:"relations"`    // array path -> root | parent
	CommonFields []CommonField     `yaml:"common_fields"`
}

// CommonField is one caller-supplied column added to every table.
type CommonField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadFile loads a YAML selection file from path.
func LoadFile(path string) (Selection, error) {
	var sel Selection
	data, err := os.ReadFile(path)
	if err != nil {
		return sel, err
	}
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return sel, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := sel.validate(); err != nil {
		return sel, fmt.Errorf("invalid selection in %s: %w", path, err)
	}
	return sel, nil
}

func (s Selection) validate() error {
	for path, rel := range s.Relations {
		switch rel {
		case "root", "parent":
		default:
			return fmt.Errorf("relation for %s must be root or parent, got %q", path, rel)
		}
	}
	for _, cf := range s.CommonFields {
		if cf.Name == "" || cf.Type == "" {
			return fmt.Errorf("common fields need both name and type")
		}
	}
	return nil
}
