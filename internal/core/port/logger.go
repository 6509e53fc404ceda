package port

// Fields - произвольные структурированные поля лога.
type Fields map[string]interface{}

// LoggerPort - порт логгера, чтобы ядро не зависело от конкретной реализации.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает новый логгер с добавленным контекстом.
	WithFields(fields Fields) LoggerPort
}
