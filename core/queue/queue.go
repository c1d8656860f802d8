package queue

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"today-scheduler/core/config"
	"today-scheduler/core/logger"
)

// Queue enqueues background tasks for the worker side of the process.
type Queue interface {
	Enqueue(ctx context.Context, taskType string, payload []byte) error
	Close() error
}

type asynqQueue struct {
	client *asynq.Client
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewQueue(cfg config.RedisConfig) Queue {
	return &asynqQueue{client: asynq.NewClient(redisOpt(cfg))}
}

func (q *asynqQueue) Enqueue(ctx context.Context, taskType string, payload []byte) error {
	task := asynq.NewTask(taskType, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return err
	}
	logger.Debug("Queue:Enqueue", "task_type", taskType, "task_id", info.ID)
	return nil
}

func (q *asynqQueue) Close() error {
	return q.client.Close()
}

// Server wraps the asynq consumer. Handlers are registered on the mux before
// Start.
type Server struct {
	srv *asynq.Server
	Mux *asynq.ServeMux
}

func NewServer(cfg config.RedisConfig) *Server {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
	})
	return &Server{srv: srv, Mux: asynq.NewServeMux()}
}

func (s *Server) Start() error {
	return s.srv.Start(s.Mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
