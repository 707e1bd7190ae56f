package harvester

import (
	"context"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

// SetState is the lifecycle state of one set within a harvest job
type SetState string

const (
	StateReceived   SetState = "received"
	StateFetching   SetState = "fetching"
	StateParsed     SetState = "parsed"
	StateReconciled SetState = "reconciled"
	StateCompleted  SetState = "completed"
	StateFailed     SetState = "failed"
	StateRequeued   SetState = "requeued"
)

var transitions = map[SetState][]SetState{
	StateReceived:   {StateFetching, StateFailed, StateRequeued},
	StateFetching:   {StateParsed, StateFailed, StateRequeued},
	StateParsed:     {StateReconciled, StateFailed, StateRequeued},
	StateReconciled: {StateCompleted},
}

// CanTransition reports whether a set may move from one state to another
func CanTransition(from, to SetState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// setRun tracks one attempt at a set
type setRun struct {
	setName string
	state   SetState
	rows    []domain.EditionRow
}

func newSetRun(setName string) *setRun {
	return &setRun{setName: setName, state: StateReceived}
}

func (r *setRun) transition(ctx context.Context, to SetState) {
	if !CanTransition(r.state, to) {
		logger.WarnCtx(ctx, "Unexpected set state transition",
			zap.String("setName", r.setName),
			zap.String("from", string(r.state)),
			zap.String("to", string(to)))
	}
	logger.DebugCtx(ctx, "Set state changed",
		zap.String("setName", r.setName),
		zap.String("from", string(r.state)),
		zap.String("to", string(to)))
	r.state = to
}
