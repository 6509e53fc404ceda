package constants

// Имена сущностей RabbitMQ для событий сборщика.
const (
	CollectorExchange = "collector_exchange"

	RoutingKeyRunCompleted = "collector.run.completed"
)
