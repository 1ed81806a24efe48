package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/foodgram/internal/config"
	"github.com/GoArmGo/foodgram/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ для очереди импорта ингредиентов.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к брокеру, открывает канал и объявляет очередь.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	client := &Client{logger: logger}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	// Объявление идемпотентно: очередь создаётся, только если её ещё нет.
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	client.queue = q

	// Воркер берёт по одному файлу за раз.
	if err := ch.Qos(1, 0, false); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	logger.Info("RabbitMQ queue declared", "queue", q.Name, "messages", q.Messages)
	return client, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			c.logger.Error("failed to close RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			c.logger.Error("failed to close RabbitMQ connection", "error", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
}

// PublishIngredientImport публикует задачу на импорт ингредиентов.
// Реализует ports.IngredientImportPublisher.
func (c *Client) PublishIngredientImport(ctx context.Context, payload payloads.IngredientImportPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		c.logger.Error("failed to publish message", "queue", c.queue.Name, "error", err)
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Info("message published", "queue", c.queue.Name, "object_key", payload.ObjectKey)
	return nil
}

// StartConsumingIngredientImports начинает потребление сообщений из очереди.
// Реализует ports.IngredientImportConsumer.
func (c *Client) StartConsumingIngredientImports(ctx context.Context, handler func(context.Context, payloads.IngredientImportPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				c.handleDelivery(ctx, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// handleDelivery разбирает сообщение и подтверждает его по итогам обработки.
// Битое сообщение отбрасывается без возврата в очередь.
// Ошибка валидации файла тоже не ретраится: повтор даст тот же результат.
func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.IngredientImportPayload) error) {
	var payload payloads.IngredientImportPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.logger.Error("failed to unmarshal message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		requeue := !IsPermanent(err)
		c.logger.Error("failed to process message",
			"object_key", payload.ObjectKey,
			"requeue", requeue,
			"error", err,
		)
		if err := msg.Nack(false, requeue); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
		return
	}
	c.logger.Info("message processed", "object_key", payload.ObjectKey)
}
