package transforms

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed definitions/*.yml
var definitionFiles embed.FS

// MissionTable maps the first character of a line's mission codes to the terminus they serve
type MissionTable struct {
	Line         string            `yaml:"line"`
	Destinations map[string]string `yaml:"destinations"`
}

type DefinitionsFile struct {
	Missions    []MissionTable         `yaml:"missions"`
	Definitions []*TransformDefinition `yaml:"definitions"`
}

// Expand turns the mission tables into plain definitions
func (f *DefinitionsFile) Expand() []*TransformDefinition {
	var definitions []*TransformDefinition

	for _, table := range f.Missions {
		missions := make([]string, 0, len(table.Destinations))
		for mission := range table.Destinations {
			missions = append(missions, mission)
		}
		sort.Strings(missions)

		for _, mission := range missions {
			definitions = append(definitions, &TransformDefinition{
				Name: fmt.Sprintf("mission:%s:%s", table.Line, mission),
				When: fmt.Sprintf("Line == %q && Mission == %q", table.Line, mission),
				Set: map[string]string{
					"LineDirection": table.Destinations[mission],
				},
			})
		}
	}

	return append(definitions, f.Definitions...)
}

func ParseDefinitions(contents []byte) ([]*TransformDefinition, error) {
	var file DefinitionsFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, err
	}

	return file.Expand(), nil
}

// Setup loads the built in definitions followed by the ones in extraPath, when given
func Setup(extraPath string) (*Transforms, error) {
	var definitions []*TransformDefinition

	entries, err := definitionFiles.ReadDir("definitions")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		contents, err := definitionFiles.ReadFile("definitions/" + entry.Name())
		if err != nil {
			return nil, err
		}

		fileDefinitions, err := ParseDefinitions(contents)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		definitions = append(definitions, fileDefinitions...)
	}

	if extraPath != "" {
		contents, err := os.ReadFile(extraPath)
		if err != nil {
			return nil, err
		}

		fileDefinitions, err := ParseDefinitions(contents)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", extraPath, err)
		}

		definitions = append(definitions, fileDefinitions...)
	}

	transforms, err := New(definitions...)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("definitions", transforms.Len()).Msg("Loaded transforms")

	return transforms, nil
}
