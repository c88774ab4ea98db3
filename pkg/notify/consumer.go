package notify

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

// BoardUpdate is a decoded queue payload
type BoardUpdate struct {
	Name        string                   `json:"name"`
	Rows        []ctdf.DepartureBoardRow `json:"rows"`
	Error       bool                     `json:"error"`
	Failure     string                   `json:"failure"`
	LastUpdated string                   `json:"lastUpdated"`
}

type NotifyBatchConsumer struct {
	Handler func(update *BoardUpdate)
}

func NewNotifyBatchConsumer() *NotifyBatchConsumer {
	return &NotifyBatchConsumer{
		Handler: logUpdate,
	}
}

func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var update BoardUpdate
		if err := json.Unmarshal([]byte(payload), &update); err != nil {
			log.Error().Err(err).Msg("Failed to decode board update")
			continue
		}

		if c.Handler != nil {
			c.Handler(&update)
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to acknowledge board update")
		}
	}
}

func logUpdate(update *BoardUpdate) {
	event := log.Info()
	if update.Error {
		event = log.Warn().Str("failure", update.Failure)
	}

	event.
		Str("board", update.Name).
		Int("rows", len(update.Rows)).
		Str("lastupdated", update.LastUpdated).
		Msg("Board updated")
}
