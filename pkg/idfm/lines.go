package idfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
)

// LineRefPrefix is how cards and the realtime endpoints reference a line, the /lines endpoint answers with the
// bare code
const LineRefPrefix = "line:IDFM:"

// LineRef turns a bare line code (C01728) into the line:IDFM:C01728 form, references are returned as they are
func LineRef(id string) string {
	if id == "" || strings.HasPrefix(id, LineRefPrefix) {
		return id
	}

	return LineRefPrefix + id
}

type linesResponse struct {
	Lines []lineRecord `json:"lines"`
}

type lineRecord struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	ShortName string `json:"shortName"`
	ModeLabel string `json:"modeLabel"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
	Companies []struct {
		Label string `json:"label"`
	} `json:"companies"`
}

func (l *lineRecord) toCTDF() *ctdf.Line {
	line := &ctdf.Line{
		ID:        l.ID,
		Label:     l.Label,
		ShortName: l.ShortName,
		Mode:      ctdf.ParseTransportMode(l.ModeLabel),
		Color:     l.Color,
		TextColor: l.TextColor,
	}

	if len(l.Companies) > 0 {
		line.Operator = l.Companies[0].Label
	}

	return line
}

// GetLine fetches the metadata of a line, the API is expected to answer with exactly one line
func (c *Client) GetLine(ctx context.Context, lineID string) (*ctdf.Line, error) {
	endpoint := "/lines"

	body, err := c.get(ctx, endpoint, url.Values{"lineEC": {lineID}})
	if err != nil {
		return nil, err
	}

	var response linesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}

	if len(response.Lines) != 1 {
		return nil, &FetchError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("%w: got %d lines for %s", ErrUnrecognisedResponse, len(response.Lines), lineID),
		}
	}

	return response.Lines[0].toCTDF(), nil
}
