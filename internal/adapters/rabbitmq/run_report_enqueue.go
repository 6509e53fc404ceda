package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/YOOYEONGHO/naver-land-collector/internal/contextkeys"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RunReporterAdapter реализует RunReporterPort: публикует итог прогона сбора
// в обменник сборщика, чтобы внешние потребители (уведомления, дашборд)
// узнавали о новых снимках без опроса хранилища.
type RunReporterAdapter struct {
	publisher  *Publisher
	routingKey string
}

// NewRunReporterAdapter создает новый экземпляр адаптера.
func NewRunReporterAdapter(publisher *Publisher, routingKey string) (*RunReporterAdapter, error) {
	if publisher == nil {
		return nil, fmt.Errorf("run reporter: publisher cannot be nil")
	}
	return &RunReporterAdapter{
		publisher:  publisher,
		routingKey: routingKey,
	}, nil
}

// runCompletedEvent - полезная нагрузка события.
type runCompletedEvent struct {
	RunID       string    `json:"run_id"`
	TraceID     string    `json:"trace_id,omitempty"`
	ComplexID   string    `json:"complex_id"`
	TradeType   string    `json:"trade_type"`
	CollectedAt time.Time `json:"collected_at"`
	Stored      int       `json:"stored"`
	Failed      int       `json:"failed"`
	Duplicates  int       `json:"duplicates"`
}

// ReportRun публикует событие о завершенном прогоне.
func (a *RunReporterAdapter) ReportRun(ctx context.Context, result *domain.CollectionResult) error {
	event := runCompletedEvent{
		RunID:       result.RunID.String(),
		TraceID:     contextkeys.TraceIDFromContext(ctx),
		ComplexID:   result.ComplexID,
		TradeType:   result.TradeType,
		CollectedAt: result.CollectedAt,
		Stored:      result.Stored,
		Failed:      result.Failed,
		Duplicates:  result.Duplicates,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("run reporter: failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := a.publisher.Publish(ctx, a.routingKey, msg); err != nil {
		return fmt.Errorf("run reporter: failed to publish run-completed event: %w", err)
	}
	return nil
}
