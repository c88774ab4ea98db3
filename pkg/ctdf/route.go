package ctdf

import "golang.org/x/exp/slices"

// RouteStops is one directional path of a line, stops are in travel order
type RouteStops struct {
	RouteID string  `groups:"basic" json:"routeId"`
	Sens    string  `groups:"basic" json:"sens"`
	Stops   []*Stop `groups:"detailed" json:"stops"`
}

// IndexOfArea returns the position of the first stop belonging to the stop area, or -1
func (r *RouteStops) IndexOfArea(areaID string) int {
	return slices.IndexFunc(r.Stops, func(s *Stop) bool {
		return s.AreaID() == areaID
	})
}

func (r *RouteStops) ContainsArea(areaID string) bool {
	return r.IndexOfArea(areaID) >= 0
}
