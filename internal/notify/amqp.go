package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Veraticus/autobill/internal/model"
)

// publishTimeout bounds a single publish.
const publishTimeout = 5 * time.Second

// Message is the JSON body published for every recorded bill.
type Message struct {
	Time      time.Time       `json:"time"`
	Title     string          `json:"title"`
	Amount    string          `json:"amount"`
	Direction model.Direction `json:"direction"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
}

// NewMessage builds the message for note.
func NewMessage(note model.Notification, now time.Time) Message {
	return Message{
		Time:      now,
		Title:     Title(note),
		Amount:    note.Amount.StringFixed(2),
		Direction: note.Direction,
		Category:  note.Category,
		Note:      note.Note,
	}
}

// publisher is the subset of *amqp091.Channel used for publishing.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier publishes notifications to a RabbitMQ exchange so other
// devices or services can pick them up.
type AMQPNotifier struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	pub        publisher
	now        func() time.Time
	logger     *slog.Logger
	exchange   string
	routingKey string
}

// NewAMQPNotifier dials url and declares a durable direct exchange with a
// queue bound under the queue's name.
func NewAMQPNotifier(url, exchange, queue string, logger *slog.Logger) (*AMQPNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:       conn,
		channel:    channel,
		pub:        channel,
		now:        time.Now,
		logger:     logger,
		exchange:   exchange,
		routingKey: queue,
	}

	if err := n.setup(queue); err != nil {
		_ = n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) setup(queue string) error {
	if err := n.channel.ExchangeDeclare(
		n.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := n.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := n.channel.QueueBind(queue, queue, n.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Notify implements service.Notifier.
func (n *AMQPNotifier) Notify(ctx context.Context, note model.Notification) error {
	body, err := json.Marshal(NewMessage(note, n.now()))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = n.pub.PublishWithContext(
		ctx,
		n.exchange,   // exchange
		n.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    n.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	n.logger.DebugContext(ctx, "published bill notification",
		"exchange", n.exchange,
		"routing_key", n.routingKey)

	return nil
}

// Close closes the channel and connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
