package constants

// Обменник сервиса
const (
	RealtyExchange     = "realty_exchange"
	RealtyExchangeType = "topic"
)

// Очереди
const (
	QueueIncomingActs = "acts.incoming"
)

// Ключи маршрутизации
const (
	RoutingKeyIncomingActs = "acts.incoming"
	RoutingKeyDealCreated  = "deal.created"
	RoutingKeyDealDeleted  = "deal.deleted"
)

// Ретраи и финальная DLQ для входящих мероприятий
const (
	ActsRetryExchange  = "acts_retry_exchange"
	ActsRetryQueue     = "acts.incoming_retry_wait_10s"
	ActsRetryTTL       = 10000
	ActsMaxRetries     = 3
	FinalDLXExchange   = "acts_final_dlx"
	FinalDLQ           = "acts_final_dlq"
	FinalDLQRoutingKey = "acts.dlq.key"
)

// Заголовки сообщений
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)
