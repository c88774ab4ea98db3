package idfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
)

type routeRecord struct {
	RouteID flexibleString `json:"routeId"`
	Sens    flexibleString `json:"sens"`
	Stops   []*stopRecord  `json:"stops"`
}

type stopRecord struct {
	Type     string      `json:"type"`
	ID       string      `json:"id"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Name     string      `json:"name"`
	ZipCode  string      `json:"zipCode"`
	City     string      `json:"city"`
	Elevator bool        `json:"elevator"`
	StopArea *stopRecord `json:"stopArea"`
}

func (s *stopRecord) toCTDF() *ctdf.Stop {
	if s == nil {
		return nil
	}

	return &ctdf.Stop{
		ID:       s.ID,
		Type:     s.Type,
		X:        s.X,
		Y:        s.Y,
		Name:     s.Name,
		ZipCode:  s.ZipCode,
		City:     s.City,
		Elevator: s.Elevator,
		StopArea: s.StopArea.toCTDF(),
	}
}

// GetRouteStops fetches every route of the line with its stops in travel order
func (c *Client) GetRouteStops(ctx context.Context, lineID string) ([]*ctdf.RouteStops, error) {
	endpoint := fmt.Sprintf("/lines/%s/stops", url.PathEscape(lineID))

	body, err := c.get(ctx, endpoint, url.Values{
		"stopPoints": {"true"},
		"routes":     {"true"},
	})
	if err != nil {
		return nil, err
	}

	var records []routeRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}

	routes := make([]*ctdf.RouteStops, 0, len(records))
	for _, record := range records {
		route := &ctdf.RouteStops{
			RouteID: string(record.RouteID),
			Sens:    string(record.Sens),
		}

		for _, stop := range record.Stops {
			if stop == nil {
				continue
			}
			route.Stops = append(route.Stops, stop.toCTDF())
		}

		routes = append(routes, route)
	}

	return routes, nil
}
