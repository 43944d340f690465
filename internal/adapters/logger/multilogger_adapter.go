package logger_adapter

import (
	"fmt"

	"realty-service/internal/core/port"
)

// MultiLoggerAdapter пишет каждую запись во все вложенные логгеры
type MultiLoggerAdapter struct {
	loggers []port.LoggerPort
}

func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	active := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			active = append(active, l)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("multilogger: at least one logger is required")
	}
	if len(active) == 1 {
		return active[0], nil
	}
	return &MultiLoggerAdapter{loggers: active}, nil
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	for _, logger := range m.loggers {
		logger.Info(msg, fields)
	}
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	for _, logger := range m.loggers {
		logger.Warn(msg, fields)
	}
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	for _, logger := range m.loggers {
		logger.Error(msg, err, fields)
	}
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	for _, logger := range m.loggers {
		logger.Debug(msg, fields)
	}
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	enriched := make([]port.LoggerPort, 0, len(m.loggers))
	for _, logger := range m.loggers {
		enriched = append(enriched, logger.WithFields(fields))
	}
	return &MultiLoggerAdapter{loggers: enriched}
}
