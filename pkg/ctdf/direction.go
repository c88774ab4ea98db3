package ctdf

type Direction string

const (
	DirectionOutward Direction = "A"
	DirectionReturn  Direction = "R"
	DirectionBoth    Direction = "AR"
)

const (
	SensOutward = "1"
	SensReturn  = "-1"
)

// IsExplicit is false for both ways, which is also what an empty direction means
func (d Direction) IsExplicit() bool {
	return d == DirectionOutward || d == DirectionReturn
}

// Sens is the upstream direction code for the direction, empty for both ways
func (d Direction) Sens() string {
	switch d {
	case DirectionOutward:
		return SensOutward
	case DirectionReturn:
		return SensReturn
	default:
		return ""
	}
}

func DirectionFromSens(sens string) Direction {
	switch sens {
	case SensOutward:
		return DirectionOutward
	case SensReturn:
		return DirectionReturn
	default:
		return DirectionBoth
	}
}
