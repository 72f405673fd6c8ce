package api

import (
	"foodorder_server/api/auth"
	"foodorder_server/api/health"
	"foodorder_server/api/middleware"
	"foodorder_server/api/restaurant"
	"foodorder_server/api/whatsapp"
	"foodorder_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes     *health.HealthRoutesManager
	authRoutes       *auth.AuthRoutesManager
	whatsappRoutes   *whatsapp.WhatsAppRoutesManager
	restaurantRoutes *restaurant.RestaurantRoutesManager
}

func NewRouterManager(logger *gecho.Logger, svc *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		healthRoutes:     health.NewHealthRoutesManager(svc.HealthService, svc.Metrics),
		authRoutes:       auth.NewAuthRoutesManager(logger, svc.AuthService, mw),
		whatsappRoutes:   whatsapp.NewWhatsAppRoutesManager(logger, svc.ConversationService, mw),
		restaurantRoutes: restaurant.NewRestaurantRoutesManager(logger, svc.OrderService, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.whatsappRoutes.RegisterRoutes(r)
	rm.restaurantRoutes.RegisterRoutes(r)
}
