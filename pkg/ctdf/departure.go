package ctdf

import "github.com/idfmboard/idfmboard/pkg/util"

// Departure is one upcoming vehicle at the departure station. LineDirection and Sens are only as good as the
// upstream data and are often missing.
type Departure struct {
	LineID        string `groups:"basic" json:"lineId"`
	ShortName     string `groups:"basic" json:"shortName"`
	VehicleName   string `groups:"basic" json:"vehicleName"`
	LineDirection string `groups:"basic" json:"lineDirection"`
	Sens          string `groups:"basic" json:"sens,omitempty"`
	Code          string `groups:"detailed" json:"code,omitempty"`
	Time          string `groups:"basic" json:"time,omitempty"`
	Schedule      string `groups:"basic" json:"schedule,omitempty"`
}

// Minutes is the number of minutes until arrival, ok is false when the upstream did not give a usable value
func (d *Departure) Minutes() (int, bool) {
	if d.Time == "" {
		return 0, false
	}

	return util.LeadingInt(d.Time)
}

// Mission is the first character of the vehicle code, which encodes the terminus on some rail lines
func (d *Departure) Mission() string {
	if d.VehicleName == "" {
		return ""
	}

	return string([]rune(d.VehicleName)[0])
}
