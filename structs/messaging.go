package structs

// InboundMessage is the provider webhook form after decoding.
type InboundMessage struct {
	From          string `validate:"required"`
	Body          string
	ButtonPayload string
	MessageSid    string
}

// Text returns what the conversation should react to. Button replies are
// treated exactly like a typed option.
func (im InboundMessage) Text() string {
	if im.ButtonPayload != "" {
		return im.ButtonPayload
	}
	return im.Body
}

// DeliveryReceipt is the handle returned for an outbound message.
type DeliveryReceipt struct {
	Sid       string `json:"sid"`
	Status    string `json:"status"`
	Simulated bool   `json:"simulated"`
}

type StartOrderRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type SendMessageRequest struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required,max=1600"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered rejected cancelled"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
}
