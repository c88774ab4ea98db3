package transforms

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

// Environment is what a definition's When expression can see
type Environment struct {
	Line        string
	ShortName   string
	VehicleName string
	Mission     string
}

type TransformDefinition struct {
	Name string            `yaml:"name"`
	When string            `yaml:"when"`
	Set  map[string]string `yaml:"set"`

	program *vm.Program
}

func (t *TransformDefinition) Compile() error {
	program, err := expr.Compile(t.When, expr.Env(Environment{}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile transform %q: %w", t.Name, err)
	}

	t.program = program

	return nil
}

func (t *TransformDefinition) Matches(environment Environment) bool {
	if t.program == nil {
		return false
	}

	output, err := expr.Run(t.program, environment)
	if err != nil {
		log.Debug().Err(err).Str("transform", t.Name).Msg("Transform expression failed")
		return false
	}

	matched, _ := output.(bool)
	return matched
}

// Transform fills the departure fields named in Set, fields that already hold a value are left alone
func (t *TransformDefinition) Transform(departure *ctdf.Departure) {
	inputValue := reflect.ValueOf(departure).Elem()

	for key, value := range t.Set {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || field.Kind() != reflect.String || !field.CanSet() {
			continue
		}

		if field.String() == "" {
			field.SetString(value)
		}
	}
}

type Transforms struct {
	definitions []*TransformDefinition
}

func New(definitions ...*TransformDefinition) (*Transforms, error) {
	t := &Transforms{}

	for _, definition := range definitions {
		if err := definition.Compile(); err != nil {
			return nil, err
		}

		t.definitions = append(t.definitions, definition)
	}

	return t, nil
}

func (t *Transforms) Len() int {
	return len(t.definitions)
}

// Enrich applies every matching definition to the departure of the given line
func (t *Transforms) Enrich(lineID string, departure *ctdf.Departure) {
	if t == nil {
		return
	}

	environment := Environment{
		Line:        lineID,
		ShortName:   departure.ShortName,
		VehicleName: departure.VehicleName,
		Mission:     departure.Mission(),
	}

	for _, definition := range t.definitions {
		if definition.Matches(environment) {
			definition.Transform(departure)
		}
	}
}
