package idfmdepartures

import (
	"strconv"
	"strings"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/idfmboard/idfmboard/pkg/idfm"
	"github.com/idfmboard/idfmboard/pkg/localize"
	"github.com/idfmboard/idfmboard/pkg/util"
)

// Enricher fills in missing departure details, see transforms.Transforms
type Enricher interface {
	Enrich(lineID string, departure *ctdf.Departure)
}

// ScheduleFilter turns a realtime response into the departures a card shows
type ScheduleFilter struct {
	// Line is the configured line:IDFM: reference, enrichment is keyed on it
	Line     string
	Topology *Topology

	Direction      ctdf.Direction
	MaxWaitMinutes int
	MaxTrainsShown int

	Enricher Enricher
}

// Apply keeps the upstream order. The response is not modified.
func (f *ScheduleFilter) Apply(response *idfm.RealtimeResponse) []*ctdf.Departure {
	if response.Kind == idfm.RealtimeNoSchedules {
		return []*ctdf.Departure{f.synthetic(localize.Localize("timetable.no_departures"))}
	}

	departures := make([]*ctdf.Departure, 0, len(response.Departures))
	for _, departure := range response.Departures {
		if departure == nil {
			continue
		}
		copied := *departure
		departures = append(departures, &copied)
	}

	if f.Enricher != nil {
		lineCode := f.lineCode()
		for _, departure := range departures {
			f.Enricher.Enrich(lineCode, departure)
		}
	}

	util.InPlaceFilter(&departures, f.withinWait)

	if f.filtersByDestination() {
		stopNames := f.Topology.StopAreaNames()
		util.InPlaceFilter(&departures, func(departure *ctdf.Departure) bool {
			return f.keep(departure, stopNames)
		})
	}

	if len(departures) == 0 && f.MaxWaitMinutes > 0 {
		message := localize.LocalizeReplace("timetable.no_departures_in", "%maxwait%", strconv.Itoa(f.MaxWaitMinutes))
		departures = []*ctdf.Departure{f.synthetic(message)}
	}

	if f.MaxTrainsShown > 0 && len(departures) > f.MaxTrainsShown {
		departures = departures[:f.MaxTrainsShown]
	}

	return departures
}

// filtersByDestination is false for the both-ways card without arrival station, where every departure at the
// station is relevant
func (f *ScheduleFilter) filtersByDestination() bool {
	return f.Direction.IsExplicit() || (f.Topology != nil && f.Topology.ArrivalStop != nil)
}

func (f *ScheduleFilter) withinWait(departure *ctdf.Departure) bool {
	if f.MaxWaitMinutes <= 0 {
		return true
	}

	minutes, ok := departure.Minutes()

	return !ok || minutes <= f.MaxWaitMinutes
}

func (f *ScheduleFilter) keep(departure *ctdf.Departure, stopNames []string) bool {
	if f.Direction.IsExplicit() && departure.Sens != "" {
		return departure.Sens == f.Direction.Sens()
	}

	if strings.TrimSpace(departure.LineDirection) == "" {
		return true
	}

	return DestinationMatches(departure.LineDirection, stopNames)
}

func (f *ScheduleFilter) synthetic(message string) *ctdf.Departure {
	departure := &ctdf.Departure{LineDirection: message}

	if f.Topology != nil && f.Topology.Line != nil {
		departure.LineID = f.Topology.Line.ID
		departure.ShortName = f.Topology.Line.ShortName
	}

	return departure
}

// lineCode is the line:IDFM:C01728 reference the enrichment definitions are keyed on
func (f *ScheduleFilter) lineCode() string {
	if f.Line != "" {
		return idfm.LineRef(f.Line)
	}
	if f.Topology != nil && f.Topology.Line != nil {
		return idfm.LineRef(f.Topology.Line.ID)
	}

	return ""
}
