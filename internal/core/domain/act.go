package domain

import (
	"strings"
	"time"
)

// ActType - вид мероприятия
type ActType string

const (
	ActTypeClientMeeting ActType = "Встреча с клиентом"
	ActTypeShowing       ActType = "Показ"
	ActTypeScheduledCall ActType = "Запланированный звонок"
)

func (t ActType) IsValid() bool {
	switch t {
	case ActTypeClientMeeting, ActTypeShowing, ActTypeScheduledCall:
		return true
	}
	return false
}

// Act - запись о встрече, показе или звонке
type Act struct {
	ID       int64
	DateTime time.Time
	// Duration в минутах
	Duration int
	Type     ActType
	Comment  string

	// ExternalID - id сообщения во внешнем календаре, пусто для актов из API
	ExternalID string
}

func (a *Act) Normalize() {
	a.Comment = strings.TrimSpace(a.Comment)
	a.ExternalID = strings.TrimSpace(a.ExternalID)
	a.Type = ActType(strings.TrimSpace(string(a.Type)))
}

func (a *Act) Validate() error {
	verr := NewValidationError()
	if a.DateTime.IsZero() {
		verr.Add("date_time", "this field is required")
	}
	if a.Duration <= 0 {
		verr.Add("duration", "must be positive")
	}
	if !a.Type.IsValid() {
		verr.Add("act_type", "unknown act type")
	}
	if len(a.ExternalID) > 128 {
		verr.Add("external_id", "must be at most 128 characters")
	}
	return verr.OrNil()
}
