package queue

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const retryHeader = "x-retry-count"

// Consumer drains dispatch jobs from the durable queue. Jobs are acked
// manually; a failed job is republished with an incremented retry header up to
// MaxRetries, then dropped (the broadcast row itself records the failure).
type Consumer struct {
	q          *AMQPQueue
	MaxRetries int
	Logger     zerolog.Logger
}

func NewConsumer(q *AMQPQueue, logger zerolog.Logger) *Consumer {
	return &Consumer{q: q, MaxRetries: 3, Logger: logger}
}

// Run blocks, feeding each job to handler. It returns when the delivery
// channel closes (connection loss or Close).
func (c *Consumer) Run(handler func(job DispatchJob) error) error {
	msgs, err := c.q.ch.Consume(
		c.q.queue.Name,
		"",
		false, // autoAck off for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for d := range msgs {
		var job DispatchJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			c.Logger.Warn().Err(err).Msg("invalid dispatch job, dropping")
			d.Ack(false)
			continue
		}

		if err := handler(job); err != nil {
			retries := retryCount(d.Headers)
			log := c.Logger.Error().Err(err).Int("broadcast_id", job.BroadcastID).Int("retries", retries)
			if retries < c.MaxRetries {
				log.Msg("dispatch failed, requeueing")
				if pubErr := c.republish(d.Body, retries+1); pubErr != nil {
					c.Logger.Error().Err(pubErr).Int("broadcast_id", job.BroadcastID).Msg("requeue failed")
				}
			} else {
				log.Msg("dispatch failed permanently")
			}
		}

		d.Ack(false)
	}
	return nil
}

func (c *Consumer) republish(body []byte, retries int) error {
	return c.q.ch.Publish(
		"",
		c.q.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: int32(retries)},
			Body:         body,
		},
	)
}

func retryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}
