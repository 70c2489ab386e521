package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRoutes(router chi.Router, _ *middlewares.Middlewares, ctrl *controllers.WebhookController) {
	// no auth middleware: the payload HMAC is the credential
	router.Post("/settlement", ctrl.SettlementCallback)
}
