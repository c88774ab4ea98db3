package idfmdepartures

import (
	"context"
	"errors"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var ErrNoRoutes = errors.New("no route matches the configured stations and direction")

// LineSource is the part of the upstream API the resolver needs
type LineSource interface {
	GetLine(ctx context.Context, lineID string) (*ctdf.Line, error)
	GetRouteStops(ctx context.Context, lineID string) ([]*ctdf.RouteStops, error)
}

// Topology is the resolved view of a line for one card. It is never modified once returned.
type Topology struct {
	Line          *ctdf.Line
	DepartureStop *ctdf.Stop
	ArrivalStop   *ctdf.Stop
	Routes        []*ctdf.RouteStops

	// Narrowed is set when the routes were filtered down by arrival station or direction
	Narrowed bool
}

// StopAreaNames lists the stop area names of every stop on the retained routes, in route order
func (t *Topology) StopAreaNames() []string {
	var names []string
	for _, route := range t.Routes {
		for _, stop := range route.Stops {
			if name := stop.AreaName(); name != "" && !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	return names
}

type Resolver struct {
	Source LineSource
}

// Resolve fetches the line and its routes, in that order, then keeps the routes consistent with the card. Fetch
// failures are logged and end up as ErrNoRoutes, as does a card that no route can serve.
func (r *Resolver) Resolve(ctx context.Context, card *config.Card) (*Topology, error) {
	topology := &Topology{}

	line, err := r.Source.GetLine(ctx, card.Line)
	if err != nil {
		log.Error().Err(err).Str("line", card.Line).Msg("Failed to fetch line information")
	} else {
		topology.Line = line
	}

	upstreamRoutes, err := r.Source.GetRouteStops(ctx, card.Line)
	if err != nil {
		log.Error().Err(err).Str("line", card.Line).Msg("Failed to fetch line routes")
	}

	// Trimming works on a private copy, the upstream data may be shared with other cards
	var routes []*ctdf.RouteStops
	if len(upstreamRoutes) > 0 {
		if err := copier.CopyWithOption(&routes, &upstreamRoutes, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}
	}

	topology.DepartureStop = findStopArea(routes, card.Station)
	if card.ArrivalStation != "" {
		topology.ArrivalStop = findStopArea(routes, card.ArrivalStation)
	}

	if card.ArrivalStation != "" || card.Direction.IsExplicit() {
		topology.Narrowed = true
		routes = narrowRoutes(routes, topology, card)
	}

	if len(routes) == 0 {
		return topology, ErrNoRoutes
	}
	topology.Routes = routes

	log.Debug().
		Str("line", card.Line).
		Str("station", card.Station).
		Int("routes", len(routes)).
		Bool("narrowed", topology.Narrowed).
		Msg("Resolved route topology")

	return topology, nil
}

// findStopArea returns the stop area of the first stop that is, or belongs to, identifier
func findStopArea(routes []*ctdf.RouteStops, identifier string) *ctdf.Stop {
	for _, route := range routes {
		for _, stop := range route.Stops {
			if stop.Matches(identifier) {
				return stop.Area()
			}
		}
	}

	return nil
}

func narrowRoutes(routes []*ctdf.RouteStops, topology *Topology, card *config.Card) []*ctdf.RouteStops {
	// Nothing can be kept without knowing where the journey starts, or where it ends when that was asked for
	if topology.DepartureStop == nil || (card.ArrivalStation != "" && topology.ArrivalStop == nil) {
		return nil
	}

	narrowed := make([]*ctdf.RouteStops, 0, len(routes))
	for _, route := range routes {
		start := route.IndexOfArea(topology.DepartureStop.ID)
		if start < 0 {
			continue
		}
		route.Stops = route.Stops[start:]

		switch {
		case topology.ArrivalStop != nil:
			if !route.ContainsArea(topology.ArrivalStop.ID) {
				continue
			}
		case card.Direction.IsExplicit():
			if route.Sens != card.Direction.Sens() {
				continue
			}
		}

		narrowed = append(narrowed, route)
	}

	return narrowed
}
