// Package trigger is the client edge of the out-of-scope job queue
// (spec.md §1): a kafka-go consumer reading "run now" signals off the
// trigger topic and invoking the orchestrator.
package trigger

import (
	"context"
	"encoding/json"
	"errors"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/orchestrator"
)

// triggerMessage is the wire shape of a trigger-batch signal, per
// spec.md §6's "trigger-batch <jobType>" runtime surface.
type triggerMessage struct {
	JobType orchestrator.JobType `json:"job_type"`
}

// Consumer is a suture.Service wrapping a kafka-go reader. Serve
// returns only on context cancellation or an unrecoverable reader
// error; individual malformed messages are logged and skipped rather
// than aborting the consumer.
type Consumer struct {
	cfg  config.KafkaConfig
	orch *orchestrator.Orchestrator
	log  *logging.Logger
}

// New builds a Consumer. It does not connect until Serve runs.
func New(cfg config.KafkaConfig, orch *orchestrator.Orchestrator, log *logging.Logger) *Consumer {
	return &Consumer{cfg: cfg, orch: orch, log: log}
}

// Serve implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.Brokers,
		Topic:   c.cfg.Topic,
		GroupID: c.cfg.GroupID,
	})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return err
		}

		var trigger triggerMessage
		if err := json.Unmarshal(msg.Value, &trigger); err != nil {
			c.log.Warn("discarding malformed trigger message", zap.Error(err))
			continue
		}

		result, err := c.orch.TriggerBatch(ctx, trigger.JobType)
		if err != nil {
			c.log.Error("triggered batch failed", zap.String("job_type", string(trigger.JobType)), zap.Error(err))
			continue
		}
		c.log.Info("triggered batch completed",
			zap.String("job_type", string(trigger.JobType)),
			zap.String("version", result.Version),
		)
	}
}
