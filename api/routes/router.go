package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucaspaiva/bazario-backend/api/controllers"
	"github.com/lucaspaiva/bazario-backend/api/middleware"
	"github.com/lucaspaiva/bazario-backend/internal/chat"
	"github.com/lucaspaiva/bazario-backend/internal/notifications"
	"github.com/lucaspaiva/bazario-backend/internal/orders"
	"github.com/lucaspaiva/bazario-backend/pkg/config"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
	pkgredis "github.com/lucaspaiva/bazario-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	ordersService orders.Service,
	chatService chat.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersService, logg))
			r.Get("/", controllers.ListMyOrders(ordersService, logg))
			r.Get("/{orderID}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderID}/cancel", controllers.CancelOrder(ordersService, logg))
			r.Post("/{orderID}/refund-request", controllers.RequestRefund(ordersService, logg))
			r.Post("/{orderID}/confirm-delivery", controllers.ConfirmDelivery(ordersService, logg))
			r.Post("/{orderID}/verify-payment", controllers.VerifyPayment(ordersService, logg))
		})

		r.Route("/v1/seller", func(r chi.Router) {
			r.Get("/orders", controllers.ListSellerOrders(ordersService, logg))
			r.Get("/orders/stats", controllers.SellerStats(ordersService, logg))
			r.Patch("/orders/{orderID}/status", controllers.UpdateOrderStatus(ordersService, logg))
			r.Post("/orders/{orderID}/notes", controllers.AddOrderNote(ordersService, logg))
		})

		r.Route("/v1/conversations", func(r chi.Router) {
			r.Post("/", controllers.OpenConversation(chatService, logg))
			r.Get("/{conversationID}/messages", controllers.ListMessages(chatService, logg))
			r.Post("/{conversationID}/messages", controllers.SendMessage(chatService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(notificationsService, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/internal/v1", func(r chi.Router) {
			r.Post("/orders/auto-confirm", controllers.RunAutoConfirm(ordersService, logg))
		})
	})

	return r
}
