package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrl *controllers.AppointmentController, paymentCtrl *controllers.PaymentController) {
	router.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate)
		r.Use(middlewares.RequirePatient)
		r.Post("/", ctrl.ReserveSlot)
		r.Get("/", ctrl.ListMyAppointments)
		r.Post("/{appointmentID}/pay", paymentCtrl.InitiateSettlement)
	})

	router.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate)
		r.Use(middlewares.RequireProvider)
		r.Get("/mine", ctrl.ListProviderAppointments)
		r.Post("/{appointmentID}/complete", ctrl.CompleteAppointment)
	})

	// patients cancel their own records; the admin key may cancel any
	router.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate)
		r.Delete("/{appointmentID}", ctrl.CancelAppointment)
	})
	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAdminAPIKey)
		r.Delete("/admin/{appointmentID}", ctrl.CancelAppointment)
	})
}
