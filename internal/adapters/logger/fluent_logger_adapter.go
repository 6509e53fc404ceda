package logger_adapter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig хранит конфигурацию для подключения к Fluent Bit.
type FluentConfig struct {
	Host      string // например, "127.0.0.1" или "fluent-bit" в Docker
	Port      int    // например, 24224
	TagPrefix string // общий префикс тегов логов этого сервиса
}

// NewFluentClient создает и возвращает новый клиент для Fluent Bit.
// Успешное создание клиента не гарантирует соединение: ошибки всплывут
// при первой отправке лога.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return client, nil
}

// FluentLoggerAdapter реализует LoggerPort поверх клиента Fluent Bit.
type FluentLoggerAdapter struct {
	client   *fluent.Fluent
	fields   port.Fields
	minLevel slog.Level
}

func NewFluentLoggerAdapter(client *fluent.Fluent, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}

	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}

	return &FluentLoggerAdapter{
		client:   client,
		fields:   make(port.Fields),
		minLevel: level,
	}, nil
}

func (a *FluentLoggerAdapter) mergeFields(fields port.Fields) port.Fields {
	merged := make(port.Fields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *FluentLoggerAdapter) post(level string, msg string, data port.Fields) {
	data["level"] = level
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	_ = a.client.Post(level, data)
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	if a.minLevel > slog.LevelInfo {
		return
	}
	a.post("info", msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	if a.minLevel > slog.LevelWarn {
		return
	}
	a.post("warn", msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	if a.minLevel > slog.LevelError {
		return
	}
	data := a.mergeFields(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	a.post("error", msg, data)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	if a.minLevel > slog.LevelDebug {
		return
	}
	a.post("debug", msg, a.mergeFields(fields))
}

// WithFields создает новый логгер с расширенным контекстом.
func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &FluentLoggerAdapter{
		client:   a.client,
		fields:   a.mergeFields(fields),
		minLevel: a.minLevel,
	}
}

func (a *FluentLoggerAdapter) Close() error {
	return a.client.Close()
}
