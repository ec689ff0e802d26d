package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grocery-catalog-crawlers/pkg/limitgroup"
	"grocery-catalog-crawlers/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Queue names. Listing tasks restart a category walk, product tasks parse a
// single discovered product page.
const (
	ListingQueue = "listing"
	ProductQueue = "product"
)

var queueNames = map[string]string{
	ListingQueue: "listing_tasks",
	ProductQueue: "product_tasks",
}

// Client wraps one AMQP connection with the crawl task queues declared.
type Client struct {
	logger.Logger
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   map[string]amqp091.Queue
}

func NewClient(url string, lg logger.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queues := make(map[string]amqp091.Queue, len(queueNames))
	for key, name := range queueNames {
		q, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
		queues[key] = q
	}

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queues,
		Logger:  lg,
	}, nil
}

func (c *Client) Close() error {
	if err := c.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// PublishTask puts a task on the named queue.
func (c *Client) PublishTask(ctx context.Context, queueName string, task *Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(ctx,
		"",                      // exchange
		c.queue[queueName].Name, // routing key
		false,                   // mandatory
		false,                   // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}

	return nil
}

// ConsumeTasks feeds queued tasks to the handler, at most ten in flight.
func (c *Client) ConsumeTasks(ctx context.Context, queueName string, handler func(*Task) error) error {
	msgs, err := c.channel.Consume(
		c.queue[queueName].Name, // queue
		"",                      // consumer
		true,                    // auto-ack
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	lg, _ := limitgroup.New(ctx, 10)
	for msg := range msgs {
		lg.Go(func() error {
			var task Task
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				c.Logger.Errorf("Failed to unmarshal task: %v", err)
				return nil
			}
			if err := handler(&task); err != nil {
				c.Logger.Errorf("Failed to handle task: %v", err)
			}
			return nil
		})
	}
	return lg.Wait()
}
