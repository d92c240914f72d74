package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/CelestialBrain/sms-scheduler/internal/api/handlers/account"
	"github.com/CelestialBrain/sms-scheduler/internal/api/handlers/customer"
	"github.com/CelestialBrain/sms-scheduler/internal/api/handlers/message"
	"github.com/CelestialBrain/sms-scheduler/internal/middlewares"
)

// New wires all routes. accountHandler may be nil when no gateway is
// configured (callback sender mode).
func New(messages *message.Handler, customers *customer.Handler, accountHandler *account.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api")

	msgs := api.Group("/messages")
	{
		msgs.POST("/", messages.Schedule)
		msgs.GET("/", messages.List)
		msgs.GET("/status/:status", messages.ListByStatus)
		msgs.GET("/:id", messages.Get)
		msgs.GET("/:id/status", messages.GetStatus)
		msgs.PUT("/:id", messages.Update)
		msgs.DELETE("/:id", messages.Delete)
		msgs.POST("/:id/cancel", messages.Cancel)
		msgs.POST("/:id/enable", messages.Enable)
		msgs.POST("/:id/disable", messages.Disable)
		msgs.POST("/:id/reschedule", messages.Reschedule)
	}

	custs := api.Group("/customers")
	{
		custs.POST("/", customers.Create)
		custs.GET("/", customers.List)
		custs.GET("/:id", customers.Get)
		custs.PUT("/:id", customers.Update)
		custs.DELETE("/:id", customers.Delete)
		custs.GET("/:id/messages", messages.ListForCustomer)
	}

	if accountHandler != nil {
		api.GET("/account", accountHandler.Get)
	}

	return e
}
