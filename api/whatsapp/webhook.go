package whatsapp

import (
	"context"
	"errors"
	"net/http"

	"foodorder_server/lib"
	"foodorder_server/services"
	"foodorder_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleWebhook receives inbound WhatsApp messages. The provider retries on
// anything but a 200, so every outcome is acknowledged and failures are only logged.
func (wrm *WhatsAppRoutesManager) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	// The reply must go out even if the provider hangs up first
	ctx := context.WithoutCancel(r.Context())
	var from string

	defer func() {
		if rec := recover(); rec != nil {
			wrm.logger.Error("Webhook handler panicked", gecho.Field("panic", rec), gecho.Field("from", from))
			wrm.apologize(ctx, from)
		}
		acknowledge(w)
	}()

	if err := r.ParseForm(); err != nil {
		wrm.logger.Warn("Failed to parse webhook form", gecho.Field("error", err))
		return
	}

	msg := structs.InboundMessage{
		From:          r.PostForm.Get("From"),
		Body:          r.PostForm.Get("Body"),
		ButtonPayload: r.PostForm.Get("ButtonPayload"),
		MessageSid:    r.PostForm.Get("MessageSid"),
	}
	if err := lib.ValidateStruct(msg); err != nil {
		wrm.logger.Warn("Webhook payload rejected", gecho.Field("error", err))
		return
	}

	from = msg.From
	if err := wrm.conversation.HandleInbound(ctx, msg); err != nil {
		if errors.Is(err, services.ErrEmptyMessage) || errors.Is(err, lib.ErrInvalidPhone) {
			wrm.logger.Debug("Webhook message ignored", gecho.Field("error", err), gecho.Field("sid", msg.MessageSid))
			return
		}
		wrm.logger.Error("Failed to handle inbound message",
			gecho.Field("error", err),
			gecho.Field("sid", msg.MessageSid),
		)
	}
}

// apologize swallows its own panics so the webhook still acknowledges.
func (wrm *WhatsAppRoutesManager) apologize(ctx context.Context, from string) {
	if from == "" {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			wrm.logger.Error("Failed to apologize after panic", gecho.Field("panic", rec))
		}
	}()
	wrm.conversation.Apologize(ctx, from)
}

func acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
