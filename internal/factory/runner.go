package factory

import (
	"context"
	"log/slog"
)

// Runner drives the engine and the results worker in the background.
// Each has its own context so they can be stopped in order.
type Runner struct {
	app    *App
	logger *slog.Logger

	stopEngine context.CancelFunc
	stopWorker context.CancelFunc
	engineDone chan struct{}
	workerDone chan struct{}
}

// Start launches the engine loop and the results worker
func (a *App) Start(logger *slog.Logger) *Runner {
	engineCtx, stopEngine := context.WithCancel(context.Background())
	workerCtx, stopWorker := context.WithCancel(context.Background())

	r := &Runner{
		app:        a,
		logger:     logger,
		stopEngine: stopEngine,
		stopWorker: stopWorker,
		engineDone: make(chan struct{}),
		workerDone: make(chan struct{}),
	}

	go func() {
		defer close(r.engineDone)
		if err := a.Engine.Run(engineCtx); err != nil {
			logger.Error("engine error", slog.String("error", err.Error()))
		}
	}()
	go func() {
		defer close(r.workerDone)
		a.ResultsWorker.Start(workerCtx)
	}()

	return r
}

// Stop disconnects every websocket client and lets the engine apply those
// disconnects, so matches still in flight are recorded as abandoned. It then
// stops the engine and lets the worker flush the remaining results.
// Call it once the HTTP server has stopped accepting connections.
// If ctx expires while waiting for clients, shutdown continues regardless.
func (r *Runner) Stop(ctx context.Context) {
	r.app.Hub.Close()
	if err := r.app.WebSocket.Wait(ctx); err != nil {
		r.logger.Warn("websocket clients did not finish", slog.String("error", err.Error()))
	}

	r.stopEngine()
	<-r.engineDone

	r.stopWorker()
	<-r.workerDone
}
