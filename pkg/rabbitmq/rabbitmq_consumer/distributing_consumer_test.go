package rabbitmq_consumer

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestDecideAction(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		err          error
		retryEnabled bool
		deaths       int64
		maxRetries   int
		want         deliveryAction
	}{
		{"success acks", nil, true, 0, 3, actionAck},
		{"no retry drops", boom, false, 0, 3, actionDrop},
		{"transient retries", boom, true, 1, 3, actionRetry},
		{"retries exhausted", boom, true, 3, 3, actionDeadLetter},
		{"permanent skips retries", Permanent(boom), true, 0, 3, actionDeadLetter},
		{"permanent without retry drops", Permanent(boom), false, 0, 3, actionDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decideAction(tt.err, tt.retryEnabled, tt.deaths, tt.maxRetries))
		})
	}
}

func TestPermanentWrapsCause(t *testing.T) {
	cause := errors.New("bad payload")
	err := Permanent(cause)

	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsPermanent(cause))
	assert.NoError(t, Permanent(nil))
}

func TestDeathCount(t *testing.T) {
	headers := amqp.Table{
		"x-death": []interface{}{
			amqp.Table{"queue": "acts.incoming_retry_wait_10s", "count": int64(5)},
			amqp.Table{"queue": "acts.incoming", "count": int64(2)},
		},
	}

	assert.Equal(t, int64(2), deathCount(headers, "acts.incoming"))
	assert.Equal(t, int64(0), deathCount(headers, "other"))
	assert.Equal(t, int64(0), deathCount(nil, "acts.incoming"))
	assert.Equal(t, int64(0), deathCount(amqp.Table{"x-death": "garbage"}, "acts.incoming"))
}
