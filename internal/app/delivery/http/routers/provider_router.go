package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachProviderRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrl *controllers.ProviderController) {
	// public catalogue surface
	router.Get("/", ctrl.ListProviders)
	router.Get("/{providerID}/slots", ctrl.GetProviderSlots)

	// administrative surface, gated by the static API key
	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAdminAPIKey)
		r.Post("/", ctrl.CreateProvider)
		r.Patch("/{providerID}/availability", ctrl.SetAvailability)
		r.Post("/{providerID}/image", ctrl.UploadProviderImage)
	})
}
