package workers

import (
	"context"
	"log/slog"

	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/storage"
)

// ResultsWorker persists match results published by the engine
type ResultsWorker struct {
	storage storage.Storage
	results <-chan model.MatchResult
	logger  *slog.Logger
}

type NewResultsWorkerOptions struct {
	Storage storage.Storage
	Results <-chan model.MatchResult
	Logger  *slog.Logger
}

// NewResultsWorker creates a new ResultsWorker.
// The worker saves every result it receives until its context is cancelled,
// then flushes whatever is still buffered.
func NewResultsWorker(opts NewResultsWorkerOptions) *ResultsWorker {
	return &ResultsWorker{
		storage: opts.Storage,
		results: opts.Results,
		logger:  opts.Logger.With(slog.String("component", "results_worker")),
	}
}

func (w *ResultsWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return
		case result := <-w.results:
			w.save(ctx, result)
		}
	}
}

func (w *ResultsWorker) drain(ctx context.Context) {
	for {
		select {
		case result := <-w.results:
			w.save(ctx, result)
		default:
			return
		}
	}
}

func (w *ResultsWorker) save(ctx context.Context, result model.MatchResult) {
	if err := w.storage.SaveMatchResult(ctx, &result); err != nil {
		w.logger.Error("failed to save match result",
			slog.String("result_id", string(result.ID)),
			slog.String("game_id", string(result.GameID)),
			slog.String("error", err.Error()),
		)
		return
	}
	w.logger.Info("match result saved",
		slog.String("result_id", string(result.ID)),
		slog.String("status", string(result.Status)),
	)
}
