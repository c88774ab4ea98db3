package ctdf

type Stop struct {
	ID       string  `groups:"basic" json:"id"`
	Type     string  `groups:"detailed" json:"type"`
	X        float64 `groups:"detailed" json:"x"`
	Y        float64 `groups:"detailed" json:"y"`
	Name     string  `groups:"basic" json:"name"`
	ZipCode  string  `groups:"detailed" json:"zipCode"`
	City     string  `groups:"detailed" json:"city"`
	Elevator bool    `groups:"detailed" json:"elevator"`

	StopArea *Stop `groups:"detailed" json:"stopArea,omitempty"`
}

// Area returns the stop area this stop belongs to. A stop without a parent is a stop area itself.
func (s *Stop) Area() *Stop {
	if s.StopArea != nil {
		return s.StopArea
	}

	return s
}

func (s *Stop) AreaID() string {
	return s.Area().ID
}

func (s *Stop) AreaName() string {
	return s.Area().Name
}

// Matches reports whether the stop is the given stop point or belongs to the given stop area
func (s *Stop) Matches(identifier string) bool {
	if identifier == "" {
		return false
	}

	return s.ID == identifier || (s.StopArea != nil && s.StopArea.ID == identifier)
}
