package idfmdepartures

import (
	"time"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
)

// Snapshot is the complete state of a card at one point in time. Trackers replace snapshots, never edit them.
type Snapshot struct {
	Card       config.Card
	Topology   *Topology
	Departures []*ctdf.Departure

	LastUpdated time.Time
	// Error is set while the latest realtime fetch failed
	Error bool
	// Failure explains why the card could not be set up, the card never refreshes when it is set
	Failure string

	Sequence uint64
}

// Ready is true once the topology is resolved and departures can be fetched
func (s *Snapshot) Ready() bool {
	return s.Topology != nil && s.Failure == ""
}

func (s *Snapshot) Board() *ctdf.DepartureBoard {
	board := &ctdf.DepartureBoard{
		Name:        s.Card.Name,
		Rows:        make([]ctdf.DepartureBoardRow, 0, len(s.Departures)),
		LastUpdated: s.LastUpdated,
		Error:       s.Error || s.Failure != "",
		Failure:     s.Failure,
	}

	if s.Topology != nil {
		board.Header = ctdf.NewDepartureBoardHeader(s.Topology.Line, s.Topology.DepartureStop, s.Topology.ArrivalStop)
		board.Routes = s.Topology.Routes
	}

	for _, departure := range s.Departures {
		board.Rows = append(board.Rows, ctdf.NewDepartureBoardRow(departure))
	}

	return board
}
