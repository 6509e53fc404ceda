package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig - конфигурация производителя событий.
type PublisherConfig struct {
	URL          string
	ExchangeName string
	ExchangeType string // direct, fanout, topic, headers

	// Если false, производитель полагается на то, что обменник уже существует.
	DeclareExchangeIfMissing bool

	Logger port.LoggerPort
}

// Publisher - тонкая обертка над каналом AMQP: одно соединение, один канал,
// публикация сериализуется мьютексом (канал amqp не потокобезопасен).
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.Mutex
	logger     port.LoggerPort
}

// NewPublisher создает нового производителя и, при необходимости, обменник.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("publisher: RabbitMQ URL is required")
	}
	if cfg.DeclareExchangeIfMissing && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("publisher: exchange name and type are required when DeclareExchangeIfMissing is true")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("publisher: failed to open a channel: %w", err)
	}

	if cfg.DeclareExchangeIfMissing {
		err = ch.ExchangeDeclare(
			cfg.ExchangeName,
			cfg.ExchangeType,
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("publisher: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("RabbitMQ publisher connected", port.Fields{"exchange": cfg.ExchangeName})
	}

	return &Publisher{
		config:     cfg,
		connection: conn,
		channel:    ch,
		logger:     cfg.Logger,
	}, nil
}

// Publish публикует сообщение с указанным ключом маршрутизации.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("publisher: not connected or channel/connection is closed")
	}

	err := p.channel.PublishWithContext(ctx,
		p.config.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publisher: failed to publish to '%s' with key '%s': %w", p.config.ExchangeName, routingKey, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.channel = nil
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.connection = nil
	}
	return firstErr
}
