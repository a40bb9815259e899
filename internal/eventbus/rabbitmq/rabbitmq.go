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

// Package rabbitmq is an EventBus adapter over RabbitMQ, using routing
// keys to realize per-aggregate ordering on top of a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kedacore/timer-service/internal/apperrors"
	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/ports"
)

// Exchange is the topic exchange every queue in this adapter binds to.
const Exchange = "timer.events"

// Bus is an EventBus adapter over a single AMQP connection/channel pair.
type Bus struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  logr.Logger
}

// Connect dials url, opens a channel, and declares Exchange as a durable
// topic exchange.
func Connect(url string, logger logr.Logger) (*Bus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, apperrors.NewPublishError(fmt.Errorf("dial rabbitmq: %w", err))
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, apperrors.NewPublishError(fmt.Errorf("open channel: %w", err))
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, apperrors.NewPublishError(fmt.Errorf("declare exchange: %w", err))
	}

	return &Bus{conn: conn, channel: ch, logger: logger}, nil
}

// Close tears down the channel and connection.
func (b *Bus) Close() {
	b.channel.Close()
	b.conn.Close()
}

// Publish places every envelope in envs on Exchange, routed by
// "<topic>.<tenantId>.<aggregateId>", where topic is envelope.TopicCommands
// for ScheduleTimer, envelope.TopicEvents for DueTimeReached, and the type
// name otherwise. A queue bound with "<topic>.#" (as Subscribe binds)
// receives every envelope of that topic; a binding on
// "<topic>.<tenantId>.#" narrows it to one tenant. Envelopes are placed one
// at a time: if one fails, the envelopes before it stay placed and the rest
// are not sent.
func (b *Bus) Publish(ctx context.Context, envs ...envelope.Envelope) error {
	for _, env := range envs {
		body, err := json.Marshal(env)
		if err != nil {
			return apperrors.NewPublishError(fmt.Errorf("marshal envelope %s: %w", env.ID, err))
		}

		topic := string(env.Type)
		switch env.Type {
		case envelope.TypeScheduleTimer:
			topic = envelope.TopicCommands
		case envelope.TypeDueTimeReached:
			topic = envelope.TopicEvents
		}

		routingKey := fmt.Sprintf("%s.%s", topic, env.TenantID)
		if env.AggregateID != nil {
			routingKey = fmt.Sprintf("%s.%s.%s", topic, env.TenantID, *env.AggregateID)
		}

		err = b.channel.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.ID.String(),
			Body:         body,
		})
		if err != nil {
			return apperrors.NewPublishError(fmt.Errorf("publish envelope %s: %w", env.ID, err))
		}
	}
	return nil
}

// Subscribe declares a durable queue bound to every topic in topics and
// delivers messages to handler one at a time, acking on success and
// nacking (with requeue) on failure. It blocks until ctx is cancelled or
// the underlying channel is closed.
func (b *Bus) Subscribe(ctx context.Context, topics []string, handler ports.Handler) error {
	queue, err := b.channel.QueueDeclare("", true, false, false, false, nil)
	if err != nil {
		return apperrors.NewSubscribeError(fmt.Errorf("declare queue: %w", err))
	}

	for _, topic := range topics {
		if err := b.channel.QueueBind(queue.Name, topic+".#", Exchange, false, nil); err != nil {
			return apperrors.NewSubscribeError(fmt.Errorf("bind queue to %s: %w", topic, err))
		}
	}

	deliveries, err := b.channel.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return apperrors.NewSubscribeError(fmt.Errorf("consume from %s: %w", queue.Name, err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return apperrors.NewSubscribeError(fmt.Errorf("delivery channel closed for queue %s", queue.Name))
			}
			b.deliver(ctx, d, handler)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, d amqp.Delivery, handler ports.Handler) {
	var env envelope.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		b.logger.Error(err, "failed to decode envelope, discarding", "deliveryTag", d.DeliveryTag)
		_ = d.Nack(false, false)
		return
	}

	if err := handler(ctx, env); err != nil {
		b.logger.Error(err, "handler failed, requeueing", "envelopeId", env.ID)
		_ = d.Nack(false, true)
		return
	}

	if err := d.Ack(false); err != nil {
		b.logger.Error(err, "failed to ack delivery", "envelopeId", env.ID)
	}
}
