package ctdf

type TransportMode string

//goland:noinspection GoUnusedConst
const (
	TransportModeBus     TransportMode = "Bus"
	TransportModeTER     TransportMode = "TER"
	TransportModeRER     TransportMode = "RER"
	TransportModeMetro   TransportMode = "Metro"
	TransportModeTramway TransportMode = "Tramway"
	TransportModeTrain   TransportMode = "Train"
	TransportModeNavette TransportMode = "Navette"
	TransportModeUnknown TransportMode = "UNKNOWN"
)

var transportModes = []TransportMode{
	TransportModeBus,
	TransportModeTER,
	TransportModeRER,
	TransportModeMetro,
	TransportModeTramway,
	TransportModeTrain,
	TransportModeNavette,
}

func ParseTransportMode(label string) TransportMode {
	for _, mode := range transportModes {
		if string(mode) == label {
			return mode
		}
	}

	return TransportModeUnknown
}
