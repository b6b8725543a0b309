package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/ginjaninja78/inventorygen/internal/types"
	"gopkg.in/yaml.v3"
)

// yamlManifest is the on-disk layout of a YAML manifest:
//
//	project: BnL
//	documents:
//	  - id: doc-1
//	    paperInfo:
//	      title: Le Journal
//	      year: "1912"
//	      languages: [fr]
type yamlManifest struct {
	Project   string         `yaml:"project"`
	Documents []yamlDocument `yaml:"documents"`
}

type yamlDocument struct {
	ID        string        `yaml:"id"`
	PaperInfo yamlPaperInfo `yaml:"paperInfo"`
}

type yamlPaperInfo struct {
	Languages []string          `yaml:"languages"`
	Fields    map[string]string `yaml:",inline"`
}

// LoadYAML reads a YAML manifest.
func LoadYAML(path string) (*types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	m, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	m.SourceFile = path
	return m, nil
}

// ParseYAML parses YAML manifest data.
func ParseYAML(data []byte) (*types.Manifest, error) {
	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &types.Manifest{Project: raw.Project}
	for i, doc := range raw.Documents {
		entry := types.Entry{
			ID:        doc.ID,
			Fields:    make(map[string]string, len(doc.PaperInfo.Fields)),
			Languages: doc.PaperInfo.Languages,
			SourceRow: i + 1,
		}

		// Sorted so that the first unknown key reported is stable.
		keys := make([]string, 0, len(doc.PaperInfo.Fields))
		for key := range doc.PaperInfo.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			name, ok := canonicalColumn(key)
			if !ok || name == ColumnID || name == ColumnLanguages {
				return nil, fmt.Errorf("document %d: unknown paperInfo field %q", i+1, key)
			}
			entry.Fields[name] = doc.PaperInfo.Fields[key]
		}

		m.Entries = append(m.Entries, entry)
	}

	return m, nil
}
