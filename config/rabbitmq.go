package config

import (
	"os"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventsExchange carries every state-change event; role screens bind
// their own queues with routing keys like "<businessId>.kitchen:*".
const EventsExchange = "pos_events"

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// ConnectRabbitMQ dials the broker and declares the topic exchange.
// Returns nil with no error when RABBITMQ_URL is unset so the app can
// run without a broker (events are then dropped).
func ConnectRabbitMQ(log *zap.Logger) (*RabbitMQ, error) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Warn("RABBITMQ_URL not set, events disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("connected to RabbitMQ", zap.String("exchange", EventsExchange))
	return &RabbitMQ{Conn: conn, Channel: channel}, nil
}

func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}
