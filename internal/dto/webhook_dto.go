package dto

// WebhookEnvelope is the outer payload Meta POSTs to the webhook endpoint.
// The same shape covers both "instagram" and "page" objects.
type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	Id        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
	Changes   []ChangeEvent    `json:"changes"`
}

// MessagingEvent carries a direct message.
type MessagingEvent struct {
	Sender    Participant      `json:"sender"`
	Recipient Participant      `json:"recipient"`
	Timestamp int64            `json:"timestamp"`
	Message   *IncomingMessage `json:"message"`
}

type Participant struct {
	Id       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type IncomingMessage struct {
	Mid    string `json:"mid"`
	Text   string `json:"text"`
	IsEcho bool   `json:"is_echo"`
}

// ChangeEvent carries a field-level change, e.g. a new comment.
type ChangeEvent struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	Id   string      `json:"id"`
	Verb string      `json:"verb"`
	Text string      `json:"text"`
	From Participant `json:"from"`
}
