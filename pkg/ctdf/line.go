package ctdf

import "strings"

type Line struct {
	ID        string        `groups:"basic" json:"id"`
	Label     string        `groups:"basic" json:"label"`
	ShortName string        `groups:"basic" json:"shortName"`
	Mode      TransportMode `groups:"basic" json:"mode"`
	Color     string        `groups:"basic" json:"color"`
	TextColor string        `groups:"basic" json:"textColor"`
	Operator  string        `groups:"detailed" json:"operator"`
}

// Badge returns the text of the line pictogram. Tramway lines such as T3a/T3b carry their branch letter
// separately so it can be drawn smaller.
func (l *Line) Badge() (number string, letter string) {
	if l.Mode == TransportModeTramway && len(l.ShortName) > 1 {
		last := l.ShortName[len(l.ShortName)-1:]
		if last == "a" || last == "b" {
			return l.ShortName[:len(l.ShortName)-1], last
		}
	}

	return l.ShortName, ""
}

type BadgeStyle struct {
	TextColor       string `groups:"basic" json:"textColor"`
	BackgroundColor string `groups:"basic" json:"backgroundColor,omitempty"`
	BorderColor     string `groups:"basic" json:"borderColor,omitempty"`
}

// BadgeStyle gives the pictogram colours: tramways use the line colour for their borders, every other mode fills
// the background with it
func (l *Line) BadgeStyle() BadgeStyle {
	style := BadgeStyle{
		TextColor: hexColour(l.TextColor),
	}

	if l.Mode == TransportModeTramway {
		style.BorderColor = hexColour(l.Color)
	} else {
		style.BackgroundColor = hexColour(l.Color)
	}

	return style
}

func hexColour(colour string) string {
	if colour == "" || strings.HasPrefix(colour, "#") {
		return colour
	}

	return "#" + colour
}
