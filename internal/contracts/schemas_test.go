package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromPath(t *testing.T) {
	assert.Equal(t, "DealChangedEvent/1.0.0", keyFromPath("schemas/events/deal-changed/v1.json"))
	assert.Equal(t, "ActScheduledEvent/2.0.0", keyFromPath("schemas/events/act-scheduled/v2.json"))
	assert.Equal(t, "", keyFromPath("schemas/events/broken.json"))
}

func TestValidateDealChangedEvent(t *testing.T) {
	valid := []byte(`{
		"event_id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		"event_type": "deal.created",
		"deal_id": 1, "need_id": 2, "offer_id": 3,
		"occurred_at": "2026-01-02T10:00:00Z"
	}`)
	require.NoError(t, ValidateEvent(DealChangedEvent, CurrentEventVersion, valid))

	missing := []byte(`{"event_id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "event_type": "deal.created"}`)
	assert.Error(t, ValidateEvent(DealChangedEvent, CurrentEventVersion, missing))

	wrongType := []byte(`{
		"event_id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		"event_type": "deal.updated",
		"deal_id": 1, "need_id": 2, "offer_id": 3,
		"occurred_at": "2026-01-02T10:00:00Z"
	}`)
	assert.Error(t, ValidateEvent(DealChangedEvent, CurrentEventVersion, wrongType))
}

func TestValidateActScheduledEvent(t *testing.T) {
	valid := []byte(`{"date_time": "2026-03-01T09:30:00+03:00", "duration": 45, "act_type": "Показ", "comment": "ключи у консьержа"}`)
	require.NoError(t, ValidateEvent(ActScheduledEvent, CurrentEventVersion, valid))

	badFormat := []byte(`{"date_time": "tomorrow", "duration": 45, "act_type": "Показ"}`)
	assert.Error(t, ValidateEvent(ActScheduledEvent, CurrentEventVersion, badFormat))

	zeroDuration := []byte(`{"date_time": "2026-03-01T09:30:00Z", "duration": 0, "act_type": "Показ"}`)
	assert.Error(t, ValidateEvent(ActScheduledEvent, CurrentEventVersion, zeroDuration))
}

func TestValidateEventUnknownSchemaAndBadJSON(t *testing.T) {
	assert.Error(t, ValidateEvent("UnknownEvent", CurrentEventVersion, []byte(`{}`)))
	assert.Error(t, ValidateEvent(ActScheduledEvent, "9.0.0", []byte(`{}`)))
	assert.Error(t, ValidateEvent(ActScheduledEvent, CurrentEventVersion, []byte(`{not json`)))
}
