package logger_adapter

import (
	"fmt"
	"log/slog"
	"time"

	"realty-service/internal/core/port"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// fluentPoster - часть *fluent.Fluent, которая нужна адаптеру
type fluentPoster interface {
	Post(tag string, message interface{}) error
}

// FluentLoggerAdapter отправляет записи в Fluent Bit
type FluentLoggerAdapter struct {
	client   fluentPoster
	fields   port.Fields
	minLevel slog.Level
}

// NewFluentLoggerAdapter создает новый экземпляр адаптера.
func NewFluentLoggerAdapter(client *fluent.Fluent, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}
	return newFluentLoggerAdapter(client, minLevel), nil
}

func newFluentLoggerAdapter(client fluentPoster, minLevel slog.Leveler) *FluentLoggerAdapter {
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}
	return &FluentLoggerAdapter{
		client:   client,
		fields:   make(port.Fields),
		minLevel: level,
	}
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

// post отправляет запись; тег = уровень, префикс сервиса добавляет клиент
func (a *FluentLoggerAdapter) post(level slog.Level, msg string, data port.Fields) {
	if level < a.minLevel {
		return
	}
	tag := levelTag(level)
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	// ошибка отправки не должна ронять приложение
	_ = a.client.Post(tag, data)
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.post(slog.LevelInfo, msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.post(slog.LevelWarn, msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	data := a.mergeFields(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	a.post(slog.LevelError, msg, data)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.post(slog.LevelDebug, msg, a.mergeFields(fields))
}

// WithFields не меняет текущий экземпляр
func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &FluentLoggerAdapter{
		client:   a.client,
		fields:   a.mergeFields(fields),
		minLevel: a.minLevel,
	}
}
