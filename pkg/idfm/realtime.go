package idfm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
)

const NoRealtimeSchedulesFound = "NO_REALTIME_SCHEDULES_FOUND"

type RealtimeResponseKind int

const (
	// RealtimeDepartures carries a (possibly empty) list of departures
	RealtimeDepartures RealtimeResponseKind = iota
	// RealtimeNoSchedules is the upstream telling us it has nothing for this stop right now
	RealtimeNoSchedules
)

type RealtimeFormat string

const (
	RealtimeFormatNextDepartures RealtimeFormat = "nextDepartures"
	RealtimeFormatLegacyArray    RealtimeFormat = "legacy-array"
	RealtimeFormatLegacyMessage  RealtimeFormat = "legacy-message"
)

type RealtimeResponse struct {
	Kind       RealtimeResponseKind
	Format     RealtimeFormat
	Departures []*ctdf.Departure
}

type departureRecord struct {
	LineID        string         `json:"lineId"`
	ShortName     string         `json:"shortName"`
	VehicleName   string         `json:"vehicleName"`
	LineDirection string         `json:"lineDirection"`
	Sens          flexibleString `json:"sens"`
	Code          string         `json:"code"`
	Time          flexibleString `json:"time"`
	Schedule      string         `json:"schedule"`
}

func (d *departureRecord) toCTDF() *ctdf.Departure {
	return &ctdf.Departure{
		LineID:        d.LineID,
		ShortName:     d.ShortName,
		VehicleName:   d.VehicleName,
		LineDirection: d.LineDirection,
		Sens:          string(d.Sens),
		Code:          d.Code,
		Time:          string(d.Time),
		Schedule:      d.Schedule,
	}
}

type realtimeEnvelope struct {
	NextDepartures *struct {
		ErrorMessage string            `json:"errorMessage"`
		Data         []departureRecord `json:"data"`
	} `json:"nextDepartures"`

	Message *string `json:"message"`
}

// DecodeRealtime turns one of the known realtime payload shapes into a RealtimeResponse:
//
//	{"nextDepartures": {"errorMessage": "...", "data": [...]}}
//	[...]
//	{"message": "NO_REALTIME_SCHEDULES_FOUND"}
//
// Anything else is rejected with ErrUnrecognisedResponse.
func DecodeRealtime(body []byte) (*RealtimeResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnrecognisedResponse)
	}

	switch body[0] {
	case '[':
		var records []departureRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, err
		}

		return newDeparturesResponse(RealtimeFormatLegacyArray, records), nil
	case '{':
		var envelope realtimeEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}

		if envelope.NextDepartures != nil {
			errorMessage := envelope.NextDepartures.ErrorMessage

			if errorMessage == NoRealtimeSchedulesFound {
				return &RealtimeResponse{Kind: RealtimeNoSchedules, Format: RealtimeFormatNextDepartures}, nil
			}
			if errorMessage != "" && len(envelope.NextDepartures.Data) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrUnrecognisedResponse, errorMessage)
			}

			return newDeparturesResponse(RealtimeFormatNextDepartures, envelope.NextDepartures.Data), nil
		}

		if envelope.Message != nil {
			if *envelope.Message == NoRealtimeSchedulesFound {
				return &RealtimeResponse{Kind: RealtimeNoSchedules, Format: RealtimeFormatLegacyMessage}, nil
			}

			return nil, fmt.Errorf("%w: %s", ErrUnrecognisedResponse, *envelope.Message)
		}
	}

	return nil, ErrUnrecognisedResponse
}

func newDeparturesResponse(format RealtimeFormat, records []departureRecord) *RealtimeResponse {
	response := &RealtimeResponse{
		Kind:       RealtimeDepartures,
		Format:     format,
		Departures: make([]*ctdf.Departure, 0, len(records)),
	}

	for i := range records {
		response.Departures = append(response.Departures, records[i].toCTDF())
	}

	return response
}

// GetRealtime fetches the next departures of the line at the station, restricted to vehicles calling at
// arrivalID when it is not empty
func (c *Client) GetRealtime(ctx context.Context, lineID string, stationID string, arrivalID string) (*RealtimeResponse, error) {
	endpoint := fmt.Sprintf("/lines/%s/stops/%s", url.PathEscape(lineID), url.PathEscape(stationID))
	if arrivalID != "" {
		endpoint += fmt.Sprintf("/to/%s", url.PathEscape(arrivalID))
	}
	endpoint += "/realtime"

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	response, err := DecodeRealtime(body)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}

	return response, nil
}
