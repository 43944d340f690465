package rabbitmq_adapter

import (
	"fmt"
	"time"

	"realty-service/internal/core/port"
	"realty-service/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge адаптирует LoggerPort к key-value логгеру pkg/rabbitmq
type PkgLoggerBridge struct {
	internalLogger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &PkgLoggerBridge{internalLogger: logger}
}

// toFields: нестроковый ключ превращается в строку, ключ без значения пишется как "extra"
func toFields(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			fields["extra"] = keysAndValues[i]
			break
		}
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		switch v := keysAndValues[i+1].(type) {
		case time.Duration:
			fields[key] = v.String()
		case error:
			fields[key] = v.Error()
		default:
			fields[key] = v
		}
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Debug(msg, toFields(keysAndValues))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Info(msg, toFields(keysAndValues))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Warn(msg, toFields(keysAndValues))
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.internalLogger.Error(msg, err, toFields(keysAndValues))
}
