package idfm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineRERD = "line:IDFM:C01728"

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL)
}

func TestGetLine(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lines", r.URL.Path)
		assert.Equal(t, lineRERD, r.URL.Query().Get("lineEC"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Write([]byte(`{"lines":[{"id":"C01728","label":"RER D","shortName":"D","modeLabel":"RER",
			"color":"00814F","textColor":"FFFFFF","companies":[{"label":"SNCF"}]}]}`))
	})

	line, err := client.GetLine(context.Background(), lineRERD)
	require.NoError(t, err)

	assert.Equal(t, &ctdf.Line{
		ID:        "C01728",
		Label:     "RER D",
		ShortName: "D",
		Mode:      ctdf.TransportModeRER,
		Color:     "00814F",
		TextColor: "FFFFFF",
		Operator:  "SNCF",
	}, line)
}

func TestGetLineRequiresExactlyOneLine(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lines":[]}`))
	})

	_, err := client.GetLine(context.Background(), lineRERD)
	require.Error(t, err)

	var fetchError *FetchError
	require.ErrorAs(t, err, &fetchError)
	assert.ErrorIs(t, err, ErrUnrecognisedResponse)
}

func TestGetLineHTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetLine(context.Background(), lineRERD)

	var fetchError *FetchError
	require.ErrorAs(t, err, &fetchError)
	assert.Equal(t, http.StatusServiceUnavailable, fetchError.StatusCode)
	assert.Equal(t, "/lines", fetchError.Endpoint)
}

func TestGetRouteStops(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lines/"+lineRERD+"/stops", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("stopPoints"))
		assert.Equal(t, "true", r.URL.Query().Get("routes"))

		w.Write([]byte(`[
			{"routeId":"route:1","sens":"1","stops":[
				{"id":"stop_point:IDFM:1","name":"Gare de Lyon","type":"stop_point",
				 "stopArea":{"id":"stop_area:IDFM:71","name":"Gare de Lyon","type":"stop_area"}},
				{"id":"stop_point:IDFM:2","name":"Melun","elevator":true,"zipCode":"77000","city":"Melun",
				 "stopArea":{"id":"stop_area:IDFM:72","name":"Melun"}}
			]},
			{"routeId":42,"sens":-1,"stops":[null]}
		]`))
	})

	routes, err := client.GetRouteStops(context.Background(), lineRERD)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "route:1", routes[0].RouteID)
	assert.Equal(t, ctdf.SensOutward, routes[0].Sens)
	require.Len(t, routes[0].Stops, 2)
	assert.Equal(t, "stop_area:IDFM:72", routes[0].Stops[1].AreaID())
	assert.Equal(t, "Melun", routes[0].Stops[1].City)
	assert.True(t, routes[0].Stops[1].Elevator)

	assert.Equal(t, "42", routes[1].RouteID)
	assert.Equal(t, ctdf.SensReturn, routes[1].Sens)
	assert.Empty(t, routes[1].Stops)
}

func TestGetRouteStopsMalformed(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := client.GetRouteStops(context.Background(), lineRERD)

	var fetchError *FetchError
	assert.ErrorAs(t, err, &fetchError)
}

func TestGetRealtimePaths(t *testing.T) {
	var paths []string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[]`))
	})

	_, err := client.GetRealtime(context.Background(), lineRERD, "stop_area:IDFM:71", "")
	require.NoError(t, err)
	_, err = client.GetRealtime(context.Background(), lineRERD, "stop_area:IDFM:71", "stop_area:IDFM:72")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/lines/line:IDFM:C01728/stops/stop_area:IDFM:71/realtime",
		"/lines/line:IDFM:C01728/stops/stop_area:IDFM:71/to/stop_area:IDFM:72/realtime",
	}, paths)
}

func TestGetRealtimeUnrecognised(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"somethingElse":true}`))
	})

	_, err := client.GetRealtime(context.Background(), lineRERD, "stop_area:IDFM:71", "")

	var fetchError *FetchError
	require.ErrorAs(t, err, &fetchError)
	assert.True(t, errors.Is(err, ErrUnrecognisedResponse))
}

func TestDecodeRealtimeNextDepartures(t *testing.T) {
	response, err := DecodeRealtime([]byte(`{"nextDepartures":{"statusCode":200,"data":[
		{"lineId":"C01728","shortName":"D","vehicleName":"ZOVA","lineDirection":"Malesherbes","sens":"1","time":"4","schedule":"À l'heure"},
		{"lineId":"C01728","shortName":"D","vehicleName":"GOLF","time":12,"sens":-1}
	]}}`))
	require.NoError(t, err)

	assert.Equal(t, RealtimeDepartures, response.Kind)
	assert.Equal(t, RealtimeFormatNextDepartures, response.Format)
	require.Len(t, response.Departures, 2)
	assert.Equal(t, &ctdf.Departure{
		LineID:        "C01728",
		ShortName:     "D",
		VehicleName:   "ZOVA",
		LineDirection: "Malesherbes",
		Sens:          "1",
		Time:          "4",
		Schedule:      "À l'heure",
	}, response.Departures[0])
	assert.Equal(t, "12", response.Departures[1].Time)
	assert.Equal(t, "-1", response.Departures[1].Sens)
}

func TestDecodeRealtimeNoSchedules(t *testing.T) {
	for name, body := range map[string]string{
		"nextDepartures": `{"nextDepartures":{"errorMessage":"NO_REALTIME_SCHEDULES_FOUND","data":[]}}`,
		"legacy":         `{"message":"NO_REALTIME_SCHEDULES_FOUND"}`,
	} {
		t.Run(name, func(t *testing.T) {
			response, err := DecodeRealtime([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, RealtimeNoSchedules, response.Kind)
			assert.Empty(t, response.Departures)
		})
	}
}

func TestDecodeRealtimeLegacyArray(t *testing.T) {
	response, err := DecodeRealtime([]byte(` [{"vehicleName":"A1","lineDirection":"Here"}]`))
	require.NoError(t, err)

	assert.Equal(t, RealtimeFormatLegacyArray, response.Format)
	require.Len(t, response.Departures, 1)
	assert.Equal(t, "Here", response.Departures[0].LineDirection)
}

func TestDecodeRealtimeRejects(t *testing.T) {
	for name, body := range map[string]string{
		"empty":           ``,
		"null":            `null`,
		"unknown object":  `{"foo":"bar"}`,
		"other message":   `{"message":"INTERNAL_ERROR"}`,
		"other error":     `{"nextDepartures":{"errorMessage":"STOP_NOT_FOUND"}}`,
		"scalar":          `"hello"`,
		"broken document": `{"nextDepartures":`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRealtime([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLineRef(t *testing.T) {
	assert.Equal(t, lineRERD, LineRef("C01728"))
	assert.Equal(t, lineRERD, LineRef(lineRERD))
	assert.Empty(t, LineRef(""))
}
