// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/iamrajpal/goodfood/internal/config"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Enqueuer is the producer half of asynq. *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	enqueuer Enqueuer
	server   *asynq.Server
	nrApp    *newrelic.Application
	logger   *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
// nrApp may be nil.
//
// Ten workers are split across queues by weight: critical 6, default 3,
// low 1.
func NewJobService(logger *zerolog.Logger, cfg *config.Config, nrApp *newrelic.Application) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client:   client,
		enqueuer: client,
		server:   server,
		nrApp:    nrApp,
		logger:   logger,
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRecipeEvent, j.handleRecipeEventTask)
	return mux
}

// Start registers task handlers and starts the workers in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(j.mux()); err != nil {
		return err
	}

	return nil
}

// Stop waits for in-flight tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}

// PublishRecipeEvent enqueues ev for the workers.
func (j *JobService) PublishRecipeEvent(ctx context.Context, ev RecipeEvent) error {
	task, err := NewRecipeEventTask(ev)
	if err != nil {
		return fmt.Errorf("building recipe event task: %w", err)
	}

	info, err := j.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing recipe event: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("action", string(ev.Action)).
		Msg("recipe event enqueued")

	return nil
}
