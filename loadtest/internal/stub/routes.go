package stub

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.POST("/reset", h.HandleReset)
	r.POST("/webhook", h.HandleWebhook)
	r.POST("/tasks", h.HandleRegisterTask)
	r.POST("/tasks/:queue", h.HandleRegisterTask)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/deliveries", h.HandleGetDeliveries)
		v1.POST("/seed", h.HandleSeed)
		v1.GET("/devices/:device_id/samples", h.HandleGetSamples)
	}
}
