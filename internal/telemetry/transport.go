package telemetry

import (
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// Transport is one live consume stream from the broker. Messages yields
// raw payloads until the stream dies; Closed reports the terminal
// transport error. Close is safe to call more than once.
type Transport interface {
	Messages() <-chan []byte
	Closed() <-chan error
	Close() error
}

// DialFunc establishes a Transport. The subscriber owns reconnection;
// a DialFunc only ever makes a single attempt.
type DialFunc func() (Transport, error)

type amqpTransport struct {
	conn      *amqp.Connection
	messages  chan []byte
	closed    chan error
	done      chan struct{}
	closeOnce sync.Once
}

// AMQPDial returns a DialFunc that connects to the configured AMQP
// broker, declares an exclusive auto-delete queue bound to the topic
// exchange and starts consuming.
func AMQPDial(cfg Config) DialFunc {
	return func() (Transport, error) {
		var (
			conn *amqp.Connection
			err  error
		)
		if cfg.TLS {
			conn, err = amqp.DialTLS(cfg.DSN, nil)
		} else {
			conn, err = amqp.Dial(cfg.DSN)
		}
		if err != nil {
			return nil, fmt.Errorf("dial broker: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open channel: %w", err)
		}

		if err := ch.ExchangeDeclare(
			cfg.Exchange,
			"topic",
			true,  // durable
			false, // autoDelete
			false, // internal
			false, // noWait
			nil,
		); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("declare exchange %q: %w", cfg.Exchange, err)
		}

		q, err := ch.QueueDeclare(
			"",    // server-named
			false, // durable
			true,  // autoDelete
			true,  // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("declare queue: %w", err)
		}

		if err := ch.QueueBind(q.Name, cfg.Topic, cfg.Exchange, false, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("bind queue to %q: %w", cfg.Topic, err)
		}

		deliveries, err := ch.Consume(
			q.Name,
			"",    // consumer tag
			true,  // autoAck: best-effort live feed, no redelivery wanted
			true,  // exclusive
			false, // noLocal
			false, // noWait
			nil,
		)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("consume: %w", err)
		}

		t := &amqpTransport{
			conn:     conn,
			messages: make(chan []byte),
			closed:   make(chan error, 1),
			done:     make(chan struct{}),
		}
		notify := conn.NotifyClose(make(chan *amqp.Error, 1))
		go t.pump(deliveries, notify)
		return t, nil
	}
}

// pump forwards delivery bodies until the connection dies, then reports
// the terminal error on closed.
func (t *amqpTransport) pump(deliveries <-chan amqp.Delivery, notify <-chan *amqp.Error) {
	defer close(t.messages)
	for {
		select {
		case <-t.done:
			return
		case d, ok := <-deliveries:
			if !ok {
				t.closed <- fmt.Errorf("delivery channel closed")
				return
			}
			select {
			case t.messages <- d.Body:
			case <-t.done:
				return
			}
		case err := <-notify:
			if err != nil {
				t.closed <- err
			} else {
				t.closed <- fmt.Errorf("connection closed")
			}
			return
		}
	}
}

func (t *amqpTransport) Messages() <-chan []byte { return t.messages }
func (t *amqpTransport) Closed() <-chan error    { return t.closed }

func (t *amqpTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		if !t.conn.IsClosed() {
			err = t.conn.Close()
		}
	})
	return err
}
