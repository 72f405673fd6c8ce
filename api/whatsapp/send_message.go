package whatsapp

import (
	"errors"
	"net/http"

	"foodorder_server/api/middleware"
	"foodorder_server/handling"
	"foodorder_server/lib"
	"foodorder_server/services"
	"foodorder_server/structs"

	"github.com/MonkyMars/gecho"
)

func (wrm *WhatsAppRoutesManager) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SendMessageRequest](r)
	if err != nil {
		wrm.logger.Warn("Invalid send-message request", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Recipient and message are required"), gecho.Send())
		return
	}

	receipt, err := wrm.conversation.SendMessage(r.Context(), body.To, body.Message)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidPhone) {
			gecho.BadRequest(w, gecho.WithMessage("Recipient must be a valid 10-digit phone number"), gecho.Send())
			return
		}
		var twErr *services.TwilioError
		if errors.As(err, &twErr) {
			wrm.logger.Warn("Provider refused message", gecho.Field("error", err))
			gecho.ServiceUnavailable(w, gecho.WithMessage("Failed to send message"), gecho.Send())
			return
		}
		handling.HandleError(w, r, wrm.logger, err, "failed to send message")
		return
	}

	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		wrm.logger.Info("Manual message sent",
			gecho.Field("sender", claims.Sub),
			gecho.Field("sid", receipt.Sid),
		)
	}

	gecho.Success(w,
		gecho.WithMessage("Message sent successfully"),
		gecho.WithData(receipt),
		gecho.Send(),
	)
}
