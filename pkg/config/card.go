package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/idfmboard/idfmboard/pkg/localize"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Card is one departure board as configured by the user. Line and Station are mandatory, a zero MaxTrainsShown or
// MaxWaitMinutes means no limit.
type Card struct {
	Name           string         `yaml:"name" json:"name,omitempty"`
	Line           string         `yaml:"line" json:"line" validate:"required"`
	Station        string         `yaml:"station" json:"station" validate:"required"`
	ArrivalStation string         `yaml:"arrivalStation" json:"arrivalStation,omitempty"`
	Direction      ctdf.Direction `yaml:"direction" json:"direction,omitempty" validate:"omitempty,oneof=A R AR"`
	MaxTrainsShown int            `yaml:"maxTrainsShown" json:"maxTrainsShown,omitempty" validate:"gte=0"`
	MaxWaitMinutes int            `yaml:"maxWaitMinutes" json:"maxWaitMinutes,omitempty" validate:"gte=0"`

	// URL is a journey planner link the line and stops are read from, see ApplyURL
	URL string `yaml:"url" json:"url,omitempty"`
}

var validate = validator.New()

// Validate returns an error wrapping ErrInvalidConfiguration when the card cannot be started
func (c *Card) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
		}

		fields := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s (%s)", fieldError.Field(), fieldError.Tag()))
		}

		return fmt.Errorf("%w: %s: %s", ErrInvalidConfiguration, localize.Localize("common.invalid_configuration"), strings.Join(fields, ", "))
	}

	return nil
}

// ApplyDefaults fills in the display name
func (c *Card) ApplyDefaults() {
	if c.Name == "" {
		c.Name = localize.Localize("common.card.name")
	}
}
