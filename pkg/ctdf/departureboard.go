package ctdf

import (
	"strconv"
	"time"
)

// DepartureBoard is the render-ready view of a card, what the host dashboard draws
type DepartureBoard struct {
	Name   string                `groups:"basic" json:"name"`
	Header *DepartureBoardHeader `groups:"basic" json:"header,omitempty"`
	Rows   []DepartureBoardRow   `groups:"basic" json:"rows"`

	LastUpdated time.Time `groups:"basic" json:"lastUpdated"`
	Error       bool      `groups:"basic" json:"error"`
	Failure     string    `groups:"basic" json:"failure,omitempty"`

	Routes []*RouteStops `groups:"detailed" json:"routes,omitempty"`
}

type DepartureBoardHeader struct {
	Badge       string        `groups:"basic" json:"badge"`
	BadgeLetter string        `groups:"basic" json:"badgeLetter,omitempty"`
	BadgeStyle  BadgeStyle    `groups:"basic" json:"badgeStyle"`
	Mode        TransportMode `groups:"basic" json:"mode"`
	Origin      string        `groups:"basic" json:"origin"`
	Destination string        `groups:"basic" json:"destination,omitempty"`
	Operator    string        `groups:"detailed" json:"operator,omitempty"`
}

type DepartureBoardRow struct {
	Vehicle     string `groups:"basic" json:"vehicle"`
	Destination string `groups:"basic" json:"destination"`
	Minutes     string `groups:"basic" json:"minutes"`
	Message     string `groups:"basic" json:"message"`
}

func NewDepartureBoardHeader(line *Line, origin *Stop, destination *Stop) *DepartureBoardHeader {
	if line == nil {
		return nil
	}

	badge, letter := line.Badge()
	header := &DepartureBoardHeader{
		Badge:       badge,
		BadgeLetter: letter,
		BadgeStyle:  line.BadgeStyle(),
		Mode:        line.Mode,
		Operator:    line.Operator,
	}

	if origin != nil {
		header.Origin = origin.Name
	}
	if destination != nil {
		header.Destination = destination.Name
	}

	return header
}

// NewDepartureBoardRow leaves the minutes blank when the upstream gave none
func NewDepartureBoardRow(departure *Departure) DepartureBoardRow {
	row := DepartureBoardRow{
		Vehicle:     departure.VehicleName,
		Destination: departure.LineDirection,
		Message:     departure.Schedule,
	}

	if minutes, ok := departure.Minutes(); ok {
		row.Minutes = strconv.Itoa(minutes)
	} else {
		row.Minutes = departure.Time
	}

	return row
}
