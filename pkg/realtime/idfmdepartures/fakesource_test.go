package idfmdepartures

import (
	"context"
	"sync"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/idfmboard/idfmboard/pkg/idfm"
)

const (
	testLine = "line:IDFM:C01728"

	areaGareDeLyon = "stop_area:IDFM:71"
	areaMaisons    = "stop_area:IDFM:72"
	areaMelun      = "stop_area:IDFM:73"
	areaCorbeil    = "stop_area:IDFM:74"
	areaCreil      = "stop_area:IDFM:75"
)

func stopPoint(number string, areaID string, name string) *ctdf.Stop {
	return &ctdf.Stop{
		ID:       "stop_point:IDFM:" + number,
		Type:     "stop_point",
		Name:     name,
		StopArea: &ctdf.Stop{ID: areaID, Type: "stop_area", Name: name},
	}
}

// testRoutes is a small RER D: Creil - Gare de Lyon - Maisons-Alfort - Melun with a Corbeil branch
func testRoutes() []*ctdf.RouteStops {
	return []*ctdf.RouteStops{
		{
			RouteID: "route:south",
			Sens:    ctdf.SensOutward,
			Stops: []*ctdf.Stop{
				stopPoint("1", areaCreil, "Creil"),
				stopPoint("2", areaGareDeLyon, "Gare de Lyon"),
				stopPoint("3", areaMaisons, "Maisons-Alfort - Alfortville"),
				stopPoint("4", areaMelun, "Melun"),
			},
		},
		{
			RouteID: "route:north",
			Sens:    ctdf.SensReturn,
			Stops: []*ctdf.Stop{
				stopPoint("14", areaMelun, "Melun"),
				stopPoint("13", areaMaisons, "Maisons-Alfort - Alfortville"),
				stopPoint("12", areaGareDeLyon, "Gare de Lyon"),
				stopPoint("11", areaCreil, "Creil"),
			},
		},
		{
			RouteID: "route:corbeil",
			Sens:    ctdf.SensOutward,
			Stops: []*ctdf.Stop{
				stopPoint("2", areaGareDeLyon, "Gare de Lyon"),
				stopPoint("5", areaCorbeil, "Corbeil-Essonnes"),
			},
		},
	}
}

func testLineInfo() *ctdf.Line {
	return &ctdf.Line{
		ID:        "C01728",
		Label:     "RER D",
		ShortName: "D",
		Mode:      ctdf.TransportModeRER,
		Color:     "00814F",
		TextColor: "FFFFFF",
		Operator:  "SNCF",
	}
}

type realtimeResult struct {
	response *idfm.RealtimeResponse
	err      error
}

type fakeSource struct {
	mutex sync.Mutex

	line      *ctdf.Line
	lineErr   error
	routes    []*ctdf.RouteStops
	routesErr error

	realtime      []realtimeResult
	realtimeCalls int

	// hook runs before a realtime call returns, with the zero based call number
	hook func(call int)

	calls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		line:   testLineInfo(),
		routes: testRoutes(),
	}
}

func (f *fakeSource) GetLine(ctx context.Context, lineID string) (*ctdf.Line, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls = append(f.calls, "line")
	return f.line, f.lineErr
}

func (f *fakeSource) GetRouteStops(ctx context.Context, lineID string) ([]*ctdf.RouteStops, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls = append(f.calls, "routes")
	return f.routes, f.routesErr
}

func (f *fakeSource) GetRealtime(ctx context.Context, lineID string, stationID string, arrivalID string) (*idfm.RealtimeResponse, error) {
	f.mutex.Lock()
	call := f.realtimeCalls
	f.realtimeCalls++
	f.calls = append(f.calls, "realtime")

	result := realtimeResult{response: departuresResponse()}
	if len(f.realtime) > 0 {
		result = f.realtime[min(call, len(f.realtime)-1)]
	}
	hook := f.hook
	f.mutex.Unlock()

	if hook != nil {
		hook(call)
	}

	return result.response, result.err
}

func (f *fakeSource) realtimeCallCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.realtimeCalls
}

func departuresResponse(departures ...*ctdf.Departure) *idfm.RealtimeResponse {
	return &idfm.RealtimeResponse{
		Kind:       idfm.RealtimeDepartures,
		Format:     idfm.RealtimeFormatNextDepartures,
		Departures: departures,
	}
}

func departure(vehicle string, destination string, sens string, time string) *ctdf.Departure {
	return &ctdf.Departure{
		LineID:        "C01728",
		ShortName:     "D",
		VehicleName:   vehicle,
		LineDirection: destination,
		Sens:          sens,
		Time:          time,
	}
}

type recordingPublisher struct {
	mutex  sync.Mutex
	boards []*ctdf.DepartureBoard
}

func (p *recordingPublisher) Publish(ctx context.Context, board *ctdf.DepartureBoard) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.boards = append(p.boards, board)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.boards)
}
