package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/idfmboard/idfmboard/pkg/localize"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

const DefaultRefreshInterval = 30 * time.Second

// File is the on-disk board configuration
type File struct {
	Language        string `yaml:"language" validate:"omitempty,min=2"`
	RefreshInterval string `yaml:"refreshInterval"`
	Transforms      string `yaml:"transforms"`

	Cards []*Card `yaml:"cards" validate:"required,min=1"`
}

// Interval parses RefreshInterval as an ISO-8601 duration (PT30S), falling back to DefaultRefreshInterval
func (f *File) Interval() (time.Duration, error) {
	if f.RefreshInterval == "" {
		return DefaultRefreshInterval, nil
	}

	parsed, err := iso8601.ParseISO8601(f.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("%w: refreshInterval %q: %s", ErrInvalidConfiguration, f.RefreshInterval, err)
	}

	start := time.Now()
	interval := parsed.Shift(start).Sub(start)
	if interval <= 0 {
		return 0, fmt.Errorf("%w: refreshInterval %q must be positive", ErrInvalidConfiguration, f.RefreshInterval)
	}

	return interval, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return file, nil
}

// Parse decodes a configuration document and prepares every card: URLs are applied, defaults filled and each card
// validated. The language is selected before defaults so card names come out localised.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}

	if file.Language != "" {
		localize.SetLanguage(file.Language)
	}

	for index, card := range file.Cards {
		if card == nil {
			return nil, fmt.Errorf("%w: card %d is empty", ErrInvalidConfiguration, index)
		}

		if card.URL != "" && !card.ApplyURL(card.URL) {
			log.Warn().Str("card", card.Name).Str("url", card.URL).Msg("URL does not contain both a line and a station, ignoring it")
		}

		card.ApplyDefaults()
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", index, card.Name, err)
		}
	}

	if len(file.Cards) > 1 {
		deduplicateNames(file.Cards)
	}

	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}

	if _, err := file.Interval(); err != nil {
		return nil, err
	}

	return &file, nil
}

// deduplicateNames suffixes repeated names with the first unused number so every board can be addressed by name
func deduplicateNames(cards []*Card) {
	used := map[string]bool{}
	for _, card := range cards {
		used[card.Name] = true
	}

	claimed := map[string]bool{}
	for _, card := range cards {
		if !claimed[card.Name] {
			claimed[card.Name] = true
			continue
		}

		suffix := 2
		for used[fmt.Sprintf("%s %d", card.Name, suffix)] {
			suffix++
		}

		card.Name = fmt.Sprintf("%s %d", card.Name, suffix)
		used[card.Name] = true
		claimed[card.Name] = true
	}
}
