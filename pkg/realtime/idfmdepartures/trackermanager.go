package idfmdepartures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

var ErrUnknownBoard = errors.New("unknown board")

// TrackerManager runs one CardTracker per configured card
type TrackerManager struct {
	trackers []*CardTracker
	byName   map[string]*CardTracker
}

type TrackerOptions struct {
	Source      Source
	Enricher    Enricher
	Publisher   Publisher
	RefreshRate time.Duration
}

func NewTrackerManager(cards []*config.Card, options TrackerOptions) *TrackerManager {
	manager := &TrackerManager{
		byName: map[string]*CardTracker{},
	}

	for _, card := range cards {
		tracker := NewCardTracker(card, options.Source)
		tracker.Enricher = options.Enricher
		tracker.Publisher = options.Publisher
		if options.RefreshRate > 0 {
			tracker.RefreshRate = options.RefreshRate
		}

		manager.trackers = append(manager.trackers, tracker)
		manager.byName[card.Name] = tracker
	}

	return manager
}

// Run blocks until ctx is done. Cards that fail to set up stay visible with their failure and do not stop the
// others, their errors are returned once everything has stopped.
func (m *TrackerManager) Run(ctx context.Context) error {
	log.Info().Int("boards", len(m.trackers)).Msg("Starting departure boards")

	p := pool.New().WithErrors()
	for _, tracker := range m.trackers {
		tracker := tracker
		p.Go(func() error {
			if err := tracker.Run(ctx); err != nil {
				return fmt.Errorf("%s: %w", tracker.Card.Name, err)
			}
			return nil
		})
	}

	return p.Wait()
}

func (m *TrackerManager) Tracker(name string) (*CardTracker, error) {
	tracker, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBoard, name)
	}

	return tracker, nil
}

// Boards returns the current board of every card in configuration order
func (m *TrackerManager) Boards() []*ctdf.DepartureBoard {
	boards := make([]*ctdf.DepartureBoard, 0, len(m.trackers))
	for _, tracker := range m.trackers {
		boards = append(boards, tracker.Snapshot().Board())
	}

	return boards
}

func (m *TrackerManager) Board(name string) (*ctdf.DepartureBoard, error) {
	tracker, err := m.Tracker(name)
	if err != nil {
		return nil, err
	}

	return tracker.Snapshot().Board(), nil
}

// Refresh refreshes a board outside of its schedule and returns the result
func (m *TrackerManager) Refresh(ctx context.Context, name string) (*ctdf.DepartureBoard, error) {
	tracker, err := m.Tracker(name)
	if err != nil {
		return nil, err
	}

	if err := tracker.Refresh(ctx); errors.Is(err, ErrNotReady) {
		return nil, err
	}

	return tracker.Snapshot().Board(), nil
}
