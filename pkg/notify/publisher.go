package notify

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
)

const QueueName = "board-updates"

// DefaultMaxBacklog bounds the ready updates kept while no consumer is running
const DefaultMaxBacklog = 1000

// QueuePublisher pushes every committed board onto the board update queue. Once more than MaxBacklog updates are
// waiting the oldest ones are dropped.
type QueuePublisher struct {
	MaxBacklog int64

	connection rmq.Connection
	queue      rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{
		MaxBacklog: DefaultMaxBacklog,
		connection: connection,
		queue:      queue,
	}, nil
}

func (p *QueuePublisher) Publish(ctx context.Context, board *ctdf.DepartureBoard) error {
	payload, err := EncodeBoard(board)
	if err != nil {
		return err
	}

	if err := p.queue.PublishBytes(payload); err != nil {
		return err
	}

	return p.trimBacklog()
}

func (p *QueuePublisher) trimBacklog() error {
	if p.MaxBacklog <= 0 {
		return nil
	}

	stats, err := p.connection.CollectStats([]string{QueueName})
	if err != nil {
		return err
	}

	excess := stats.QueueStats[QueueName].ReadyCount - p.MaxBacklog
	if excess <= 0 {
		return nil
	}

	if _, err := p.queue.Drain(excess); err != nil {
		return err
	}
	log.Debug().Int64("dropped", excess).Str("queue", QueueName).Msg("Dropped unconsumed board updates")

	return nil
}

// EncodeBoard is the queue payload: the basic board view, without the resolved routes
func EncodeBoard(board *ctdf.DepartureBoard) ([]byte, error) {
	reducedBoard, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, board)
	if err != nil {
		return nil, err
	}

	return json.Marshal(reducedBoard)
}
