package idfmdepartures

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/idfmboard/idfmboard/pkg/idfm"
	"github.com/idfmboard/idfmboard/pkg/localize"
	"github.com/rs/zerolog/log"
)

const DefaultRefreshRate = 30 * time.Second

var ErrNotReady = errors.New("board is not set up")

// Source is everything a card needs from the upstream API
type Source interface {
	LineSource
	GetRealtime(ctx context.Context, lineID string, stationID string, arrivalID string) (*idfm.RealtimeResponse, error)
}

// Publisher is told about every board the tracker commits
type Publisher interface {
	Publish(ctx context.Context, board *ctdf.DepartureBoard) error
}

type CardTracker struct {
	Card        *config.Card
	Source      Source
	Enricher    Enricher
	Publisher   Publisher
	RefreshRate time.Duration

	snapshot atomic.Pointer[Snapshot]
	issued   atomic.Uint64
	stopped  atomic.Bool

	commitMutex sync.Mutex
	committed   uint64
}

func NewCardTracker(card *config.Card, source Source) *CardTracker {
	tracker := &CardTracker{
		Card:        card,
		Source:      source,
		RefreshRate: DefaultRefreshRate,
	}
	tracker.snapshot.Store(&Snapshot{Card: *card})

	return tracker
}

// Snapshot returns the latest committed state
func (t *CardTracker) Snapshot() *Snapshot {
	return t.snapshot.Load()
}

// Run sets the card up then refreshes it straight away and every RefreshRate until ctx is done. Configuration
// and topology errors are returned immediately and leave a failed snapshot behind.
func (t *CardTracker) Run(ctx context.Context) error {
	t.stopped.Store(false)
	defer t.stopped.Store(true)

	if err := t.Setup(ctx); err != nil {
		return err
	}

	log.Info().
		Str("card", t.Card.Name).
		Str("line", t.Card.Line).
		Str("station", t.Card.Station).
		Dur("refresh", t.RefreshRate).
		Msg("Registering new departure board")

	t.Refresh(ctx)

	refreshRate := t.RefreshRate
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("card", t.Card.Name).Msg("Stopping departure board")
			return nil
		case <-ticker.C:
			t.Refresh(ctx)
		}
	}
}

// Setup validates the card and resolves its topology
func (t *CardTracker) Setup(ctx context.Context) error {
	if err := t.Card.Validate(); err != nil {
		t.fail(err, err.Error())
		return err
	}

	resolver := Resolver{Source: t.Source}
	topology, err := resolver.Resolve(ctx, t.Card)
	if err != nil {
		t.fail(err, localize.Localize("common.no_routes"))
		return err
	}

	t.commit(func(snapshot *Snapshot) {
		snapshot.Topology = topology
		snapshot.Failure = ""
		snapshot.Error = false
	})

	return nil
}

func (t *CardTracker) fail(err error, message string) {
	log.Error().Err(err).Str("card", t.Card.Name).Msg("Failed setting up departure board")

	t.commit(func(snapshot *Snapshot) {
		snapshot.Failure = message
	})
}

// Refresh fetches the realtime departures once and commits the filtered result. A failed fetch keeps the
// previous departures and flags the board until a later fetch succeeds.
func (t *CardTracker) Refresh(ctx context.Context) error {
	current := t.Snapshot()
	if !current.Ready() {
		return ErrNotReady
	}

	sequence := t.issued.Add(1)
	response, fetchErr := t.Source.GetRealtime(ctx, t.Card.Line, t.Card.Station, t.Card.ArrivalStation)

	filter := ScheduleFilter{
		Line:           t.Card.Line,
		Topology:       current.Topology,
		Direction:      t.Card.Direction,
		MaxWaitMinutes: t.Card.MaxWaitMinutes,
		MaxTrainsShown: t.Card.MaxTrainsShown,
		Enricher:       t.Enricher,
	}

	var departures []*ctdf.Departure
	if fetchErr == nil {
		departures = filter.Apply(response)
	}

	committed := t.commitSequence(sequence, func(snapshot *Snapshot) {
		if fetchErr != nil {
			snapshot.Error = true
			return
		}

		snapshot.Departures = departures
		snapshot.LastUpdated = time.Now()
		snapshot.Error = false
	})

	if fetchErr != nil {
		log.Warn().Err(fetchErr).Str("card", t.Card.Name).Msg("Failed to fetch realtime departures")
		return fetchErr
	}

	if committed {
		log.Debug().Str("card", t.Card.Name).Int("departures", len(departures)).Msg("Refreshed departure board")
	}

	return nil
}

func (t *CardTracker) commit(update func(*Snapshot)) {
	t.commitSequence(0, update)
}

// commitSequence derives a new snapshot from the current one. Refresh results are discarded when a later refresh
// has already been committed or the tracker has stopped. The board is published after the commit lock is released.
func (t *CardTracker) commitSequence(sequence uint64, update func(*Snapshot)) bool {
	next, ok := t.store(sequence, update)
	if !ok {
		return false
	}

	if t.Publisher != nil {
		if err := t.Publisher.Publish(context.Background(), next.Board()); err != nil {
			log.Error().Err(err).Str("card", t.Card.Name).Msg("Failed to publish board update")
		}
	}

	return true
}

func (t *CardTracker) store(sequence uint64, update func(*Snapshot)) (*Snapshot, bool) {
	t.commitMutex.Lock()
	defer t.commitMutex.Unlock()

	if sequence != 0 {
		if t.stopped.Load() {
			log.Debug().Str("card", t.Card.Name).Uint64("sequence", sequence).Msg("Discarding refresh finished after shutdown")
			return nil, false
		}
		if sequence <= t.committed {
			log.Debug().Str("card", t.Card.Name).Uint64("sequence", sequence).Msg("Discarding out of order refresh")
			return nil, false
		}
		t.committed = sequence
	}

	next := *t.snapshot.Load()
	next.Sequence = t.committed
	update(&next)
	t.snapshot.Store(&next)

	return &next, true
}
