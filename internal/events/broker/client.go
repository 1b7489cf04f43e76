// Package broker forwards kitchen events to a RabbitMQ topic exchange.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/smallbiznis/pizzaria/internal/events"
	"go.uber.org/zap"
)

const maxReconnectBackoff = 30 * time.Second

// Client keeps one publishing channel open and re-dials when it drops.
type Client struct {
	url      string
	exchange string
	log      *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	pubChan *amqp.Channel

	closed    chan struct{}
	closeOnce sync.Once
	reconnect chan struct{}
}

// Dial connects once and starts the reconnect watcher.
func Dial(ctx context.Context, url, exchange string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := &Client{
		url:       url,
		exchange:  exchange,
		log:       log.Named("events.amqp"),
		closed:    make(chan struct{}),
		reconnect: make(chan struct{}, 1),
	}
	if err := client.connectOnce(ctx); err != nil {
		return nil, err
	}
	go client.watch()
	return client, nil
}

// RoutingKey maps an event type to kitchen.<type>.
func RoutingKey(typ events.Type) string {
	return "kitchen." + string(typ)
}

func (c *Client) Name() string { return "amqp" }

// Deliver implements events.Sink.
func (c *Client) Deliver(ctx context.Context, evt events.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	c.mu.RLock()
	ch := c.pubChan
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return errors.New("rabbitmq: connection is not open")
	}
	if ch == nil || ch.IsClosed() {
		return errors.New("rabbitmq: publish channel is not open")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(ctx,
		c.exchange, RoutingKey(evt.Type), false, false,
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   "application/json",
			MessageId:     evt.ID,
			CorrelationId: evt.Metadata.CorrelationID,
			Timestamp:     evt.OccurredAt,
			Type:          string(evt.Type),
			Body:          body,
		})
}

// Tail binds a throwaway queue to pattern and hands every event to fn until ctx ends.
func (c *Client) Tail(ctx context.Context, pattern string, fn func(events.Event)) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil || conn.IsClosed() {
		return errors.New("rabbitmq: connection is not ready")
	}

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(16, 0, false); err != nil {
		return err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err := ch.QueueBind(q.Name, pattern, c.exchange, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq: delivery channel closed")
			}
			var evt events.Event
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				c.log.Warn("skip undecodable event", zap.String("routing_key", d.RoutingKey), zap.Error(err))
				continue
			}
			fn(evt)
		}
	}
}

// Close stops the watcher and closes AMQP resources.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.closed) })

	c.mu.Lock()
	if c.pubChan != nil {
		_ = c.pubChan.Close()
		c.pubChan = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

func (c *Client) connectOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := declareTopology(ch, c.exchange); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	if c.pubChan != nil {
		_ = c.pubChan.Close()
	}
	c.pubChan = ch
	c.mu.Unlock()

	go func() {
		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-c.closed:
			return
		case <-connClosed:
		case <-chClosed:
		}
		select {
		case c.reconnect <- struct{}{}:
		default:
		}
	}()

	c.log.Info("rabbitmq connected",
		zap.String("exchange", c.exchange),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func (c *Client) watch() {
	backoff := time.Second
	for {
		select {
		case <-c.closed:
			return
		case <-c.reconnect:
		}

		for {
			select {
			case <-c.closed:
				return
			default:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := c.connectOnce(ctx)
			cancel()
			if err == nil {
				backoff = time.Second
				c.log.Info("rabbitmq reconnected")
				break
			}

			c.log.Error("rabbitmq reconnect failed", zap.Duration("backoff", backoff), zap.Error(err))
			select {
			case <-c.closed:
				return
			case <-time.After(backoff):
			}
			backoff = nextBackoff(backoff)
		}
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxReconnectBackoff {
		return maxReconnectBackoff
	}
	return next
}

// declareTopology keeps a durable audit queue so events survive without live consumers.
func declareTopology(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare("kitchen_audit_queue", true, false, false, false, amqp.Table{
		"x-max-length": int32(10000),
	}); err != nil {
		return err
	}
	return ch.QueueBind("kitchen_audit_queue", "kitchen.#", exchange, false, nil)
}

var _ events.Sink = (*Client)(nil)
