package whatsapp

import (
	"context"

	"foodorder_server/api/middleware"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// Conversation is the part of the conversation service these routes drive.
type Conversation interface {
	HandleInbound(ctx context.Context, msg structs.InboundMessage) error
	StartOrderingFlow(ctx context.Context, rawPhone string) error
	SendMessage(ctx context.Context, rawPhone, body string) (*structs.DeliveryReceipt, error)
	Apologize(ctx context.Context, rawFrom string)
}

type WhatsAppRoutesManager struct {
	logger       *gecho.Logger
	conversation Conversation
	mw           *middleware.Middleware
}

func NewWhatsAppRoutesManager(logger *gecho.Logger, conversation Conversation, mw *middleware.Middleware) *WhatsAppRoutesManager {
	return &WhatsAppRoutesManager{
		logger:       logger,
		conversation: conversation,
		mw:           mw,
	}
}

func (wrm *WhatsAppRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/whatsapp", func(r chi.Router) {
		// Provider callback, answered with 200 no matter what
		r.Post("/webhook", wrm.HandleWebhook)
		r.Post("/start-order", wrm.HandleStartOrder)

		r.Group(func(r chi.Router) {
			r.Use(wrm.mw.UserAuthMiddleware)
			r.Use(wrm.mw.RequireRoles(tables.RoleRestaurantOwner, tables.RoleSuperAdmin))
			r.Post("/send-message", wrm.HandleSendMessage)
		})
	})
}
