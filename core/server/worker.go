package server

import (
	"fmt"
	"os"

	"social-calendar-api/core/config"
	"social-calendar-api/core/constants"
	"social-calendar-api/core/logger"

	"github.com/hibiken/asynq"
)

func newWorker(redisOpt asynq.RedisClientOpt, cfg config.WorkerConfig) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
		Logger:      workerLogger{},
	})
}

// workerLogger routes asynq's own logs through the process logger.
type workerLogger struct{}

func (workerLogger) Debug(args ...any) { logger.Debug("Worker", "msg", fmt.Sprint(args...)) }
func (workerLogger) Info(args ...any)  { logger.Info("Worker", "msg", fmt.Sprint(args...)) }
func (workerLogger) Warn(args ...any)  { logger.Warn("Worker", "msg", fmt.Sprint(args...)) }
func (workerLogger) Error(args ...any) { logger.Error("Worker", "msg", fmt.Sprint(args...)) }

func (workerLogger) Fatal(args ...any) {
	logger.Error("Worker:Fatal", "msg", fmt.Sprint(args...))
	os.Exit(1)
}
