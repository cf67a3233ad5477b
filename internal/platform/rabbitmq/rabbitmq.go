package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// HandlerFunc is function which handles messages.
type HandlerFunc func(ctx context.Context, message []byte) error

// RabbitMQ consumes commands and publishes commands and audit events over AMQP.
type RabbitMQ struct {
	channel   *amqp.Channel
	exchange  string
	isRunning chan struct{}
}

// NewRabbitMQ returns new RabbitMQ. Prefetch limits number of unacknowledged deliveries handled at once.
func NewRabbitMQ(connection *amqp.Connection, exchange string, prefetch int) (*RabbitMQ, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("can't open channel: %w", err)
	}

	if err := channel.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("can't set prefetch: %w", err)
	}

	mq := RabbitMQ{
		channel:  channel,
		exchange: exchange,
	}

	return &mq, nil
}

// Setup declares durable topic exchange and queue bound to it with provided routing keys.
func (mq *RabbitMQ) Setup(queue string, routingKeys ...string) error {
	err := mq.channel.ExchangeDeclare(mq.exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("can't declare exchange %q: %w", mq.exchange, err)
	}

	if _, err := mq.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("can't declare queue %q: %w", queue, err)
	}

	for _, key := range routingKeys {
		if err := mq.channel.QueueBind(queue, key, mq.exchange, false, nil); err != nil {
			return fmt.Errorf("can't bind queue %q to %q: %w", queue, key, err)
		}
	}

	return nil
}

// Close closes channel.
func (mq *RabbitMQ) Close() error {
	return mq.channel.Close()
}

// Publish publishes message to routing key.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey string, message []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         message,
	}

	return mq.channel.PublishWithContext(
		ctx,
		mq.exchange,
		routingKey,
		false,
		false,
		msg,
	)
}

// Consume consumes messages from queue and passes deliveries to provided handler function.
// At most concurrency deliveries are handled at once.
// It returns channel with errors from handler function and consuming process, the channel is closed once consuming finishes.
// Function works asynchronously, it consumes messages in background as long as context is not closed.
// After context is closed no new deliveries are taken. Handlers in progress get the closed context,
// so they can wind down, and their deliveries are still acked or nacked.
func (mq *RabbitMQ) Consume(ctx context.Context, queue string, concurrency int, handler HandlerFunc) (<-chan error, error) {
	consumerID, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("can't create consumer ID: %w", err)
	}

	deliveries, err := mq.channel.Consume(
		queue,
		consumerID.String(),
		false, // auto acknowledge
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("can't start consuming: %w", err)
	}

	consumingErrors := make(chan error)
	mq.isRunning = make(chan struct{})
	go func() {
		defer close(mq.isRunning)
		defer close(consumingErrors)
		mq.consumeMessages(ctx, consumerID.String(), deliveries, concurrency, consumingErrors, handler)
	}()

	return consumingErrors, nil
}

func (mq *RabbitMQ) consumeMessages(
	ctx context.Context,
	consumerID string,
	deliveries <-chan amqp.Delivery,
	concurrency int,
	consumingErrors chan error,
	handler HandlerFunc,
) {
	errGroup := errgroup.Group{}
	errGroup.SetLimit(max(concurrency, 1))
	defer func() { _ = errGroup.Wait() }()

	// acks and errors of in-flight deliveries outlive shutdown, handlers don't
	handlingCtx := context.WithoutCancel(ctx)

	for {
		var delivery amqp.Delivery
		var ok bool
		select {
		case <-ctx.Done():
			if err := mq.channel.Cancel(consumerID, false); err != nil {
				_ = pushError(handlingCtx, fmt.Errorf("can't cancel consumer: %w", err), consumingErrors)
			}
			return
		case delivery, ok = <-deliveries:
			if !ok {
				return
			}
		}

		errGroup.Go(func() error {
			if err := handler(ctx, delivery.Body); err != nil {
				_ = pushError(handlingCtx, err, consumingErrors)
				return mq.nackMessage(handlingCtx, &delivery, consumingErrors)
			}

			return mq.ackMessage(handlingCtx, &delivery, consumingErrors)
		})
	}
}

func (mq *RabbitMQ) ackMessage(
	ctx context.Context,
	delivery *amqp.Delivery,
	consumingErrors chan error,
) error {
	if err := delivery.Ack(false); err != nil {
		if pushErr := pushError(ctx, fmt.Errorf("can't ack message: %w", err), consumingErrors); pushErr != nil {
			return pushErr
		}
	}
	return nil
}

func (mq *RabbitMQ) nackMessage(
	ctx context.Context,
	delivery *amqp.Delivery,
	consumingErrors chan error,
) error {
	if err := delivery.Nack(false, false); err != nil {
		if pushErr := pushError(ctx, fmt.Errorf("can't nack message: %w", err), consumingErrors); pushErr != nil {
			return pushErr
		}
	}
	return nil
}

// Done returns channel which will be closed when consuming will be finished.
func (mq *RabbitMQ) Done() chan struct{} {
	return mq.isRunning
}

func pushError(ctx context.Context, err error, errChan chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case errChan <- err:
	}
	return nil
}
