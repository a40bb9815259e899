/*
Copyright 2025 The Timer Service Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package kafka is an EventBus adapter over Kafka, using the
// (tenantId, aggregateId) pair as the partition key so Kafka's
// partition-level ordering gives per-aggregate FIFO.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-logr/logr"

	"github.com/kedacore/timer-service/internal/apperrors"
	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/ports"
)

// Bus is an EventBus adapter over a sarama SyncProducer and, on Subscribe,
// a sarama ConsumerGroup.
type Bus struct {
	brokers  []string
	config   *sarama.Config
	producer sarama.SyncProducer
	groupID  string
	logger   logr.Logger
}

// Connect builds a sarama.Config suitable for both producing and
// consuming and opens a synchronous producer against brokers. groupID
// names the consumer group later Subscribe calls join.
func Connect(brokers []string, groupID string, logger logr.Logger) (*Bus, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, apperrors.NewPublishError(fmt.Errorf("open producer: %w", err))
	}

	return &Bus{brokers: brokers, config: config, producer: producer, groupID: groupID, logger: logger}, nil
}

// Close shuts down the producer.
func (b *Bus) Close() error { return b.producer.Close() }

// Publish sends every envelope in envs to its logical topic
// (envelope.TopicCommands for ScheduleTimer, envelope.TopicEvents for
// DueTimeReached, the type name for any other type), keyed on
// "<tenantId>.<aggregateId>". Envelopes are sent one at a time: if one
// fails, the envelopes before it stay published and the rest are not sent.
func (b *Bus) Publish(_ context.Context, envs ...envelope.Envelope) error {
	for _, env := range envs {
		body, err := json.Marshal(env)
		if err != nil {
			return apperrors.NewPublishError(fmt.Errorf("marshal envelope %s: %w", env.ID, err))
		}

		key := env.TenantID.String()
		if env.AggregateID != nil {
			key = fmt.Sprintf("%s.%s", env.TenantID, *env.AggregateID)
		}

		topic := string(env.Type)
		switch env.Type {
		case envelope.TypeScheduleTimer:
			topic = envelope.TopicCommands
		case envelope.TypeDueTimeReached:
			topic = envelope.TopicEvents
		}

		msg := &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(key),
			Value: sarama.ByteEncoder(body),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			return apperrors.NewPublishError(fmt.Errorf("send envelope %s: %w", env.ID, err))
		}
	}
	return nil
}

// Subscribe joins the adapter's consumer group on topics and delivers
// each message to handler, committing the offset only after handler
// returns nil. It blocks until ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, topics []string, handler ports.Handler) error {
	group, err := sarama.NewConsumerGroup(b.brokers, b.groupID, b.config)
	if err != nil {
		return apperrors.NewSubscribeError(fmt.Errorf("join consumer group %s: %w", b.groupID, err))
	}
	defer group.Close()

	h := &consumerHandler{handler: handler, logger: b.logger}
	for {
		if err := group.Consume(ctx, topics, h); err != nil {
			return apperrors.NewSubscribeError(fmt.Errorf("consume: %w", err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type consumerHandler struct {
	handler ports.Handler
	logger  logr.Logger
}

func (consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.deliver(session, msg)
		}
	}
}

func (h *consumerHandler) deliver(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage) {
	var env envelope.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		h.logger.Error(err, "failed to decode envelope, skipping", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		session.MarkMessage(msg, "")
		return
	}

	if err := h.handler(session.Context(), env); err != nil {
		h.logger.Error(err, "handler failed, leaving offset uncommitted for redelivery", "envelopeId", env.ID)
		return
	}

	session.MarkMessage(msg, "")
}
