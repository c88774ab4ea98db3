package config

import (
	"net/url"
	"regexp"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
)

var (
	lineRegex      = regexp.MustCompile(`(line[:\w]+)`)
	departureRegex = regexp.MustCompile(`(?:stop|departure)Id=(stop_(?:area|point)[:\w]+)`)
	arrivalRegex   = regexp.MustCompile(`arrivalId=(stop_(?:area|point)[:\w]+)`)
	directionRegex = regexp.MustCompile(`direction=(-?1)`)
)

// Extracted holds the identifiers found in a journey planner URL, fields that were not found are empty
type Extracted struct {
	Line           string         `json:"line,omitempty"`
	Station        string         `json:"station,omitempty"`
	ArrivalStation string         `json:"arrivalStation,omitempty"`
	Direction      ctdf.Direction `json:"direction,omitempty"`
}

// Complete is true when both the line and the departure stop were found
func (e Extracted) Complete() bool {
	return e.Line != "" && e.Station != ""
}

// ParseURL percent-decodes raw and looks for each identifier independently. The boolean reports whether the
// result is complete enough to be applied to a card.
func ParseURL(raw string) (Extracted, bool) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}

	var extracted Extracted

	if match := lineRegex.FindStringSubmatch(decoded); match != nil {
		extracted.Line = match[1]
	}
	if match := departureRegex.FindStringSubmatch(decoded); match != nil {
		extracted.Station = match[1]
	}
	if match := arrivalRegex.FindStringSubmatch(decoded); match != nil {
		extracted.ArrivalStation = match[1]
	}
	if match := directionRegex.FindStringSubmatch(decoded); match != nil {
		extracted.Direction = ctdf.DirectionFromSens(match[1])
	}

	return extracted, extracted.Complete()
}

// ApplyURL overwrites the line, stops and direction of the card with what raw contains. Nothing is changed unless
// both a line and a departure stop were found.
func (c *Card) ApplyURL(raw string) bool {
	extracted, ok := ParseURL(raw)
	if !ok {
		return false
	}

	c.Line = extracted.Line
	c.Station = extracted.Station
	c.ArrivalStation = extracted.ArrivalStation
	c.Direction = extracted.Direction

	return true
}
