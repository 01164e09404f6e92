// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carona/internal/http/handlers"
	"carona/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	routeHandler := handlers.NewRouteHandler(deps.Planner)
	api.POST("/routes/quote", routeHandler.Quote)

	tripHandler := handlers.NewTripHandler(deps.Trips)
	api.GET("/trips", tripHandler.List)
	api.POST("/trips", tripHandler.Create)
	api.GET("/trips/nearby", tripHandler.Nearby)
	api.GET("/trips/destination/:destination", tripHandler.SearchByDestination)
	api.GET("/trips/:id", tripHandler.Get)
	api.PUT("/trips/:id", tripHandler.Update)
	api.DELETE("/trips/:id", tripHandler.Delete)

	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles)
	api.GET("/vehicles", vehicleHandler.List)
	api.POST("/vehicles", vehicleHandler.Create)
	api.GET("/vehicles/model/:model", vehicleHandler.SearchByModel)
	api.GET("/vehicles/:id", vehicleHandler.Get)
	api.PUT("/vehicles/:id", vehicleHandler.Update)
	api.DELETE("/vehicles/:id", vehicleHandler.Delete)

	return r
}
