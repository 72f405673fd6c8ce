package whatsapp

import (
	"errors"
	"net/http"

	"foodorder_server/handling"
	"foodorder_server/lib"
	"foodorder_server/structs"

	"github.com/MonkyMars/gecho"
)

func (wrm *WhatsAppRoutesManager) HandleStartOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.StartOrderRequest](r)
	if err != nil {
		wrm.logger.Warn("Invalid start-order request", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Phone number is required"), gecho.Send())
		return
	}

	if err := wrm.conversation.StartOrderingFlow(r.Context(), body.Phone); err != nil {
		if errors.Is(err, lib.ErrInvalidPhone) {
			gecho.BadRequest(w,
				gecho.WithMessage("The number "+body.Phone+" is not a valid 10-digit Indian phone number."),
				gecho.Send(),
			)
			return
		}
		handling.HandleError(w, r, wrm.logger, err, "failed to start ordering flow")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("WhatsApp ordering flow started"),
		gecho.WithData(map[string]any{"phone": lib.NormalizePhone(body.Phone)}),
		gecho.Send(),
	)
}
