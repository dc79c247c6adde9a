package request

// PaymentNotificationRequest mirrors the YooKassa webhook payload shape.
// Only event and object.id are mandatory; everything else degrades gracefully
// because the processor evolves its payloads over time.
type PaymentNotificationRequest struct {
	Event  string                    `json:"event"`
	Object PaymentNotificationObject `json:"object"`
}

type PaymentNotificationObject struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	Paid       bool              `json:"paid"`
	CapturedAt *string           `json:"captured_at"`
	Metadata   map[string]string `json:"metadata"`
}
