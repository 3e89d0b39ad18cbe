package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and guards used by the routes.
type HandlerBundle struct {
	Auth    *AuthHandler
	User    *UserHandler
	Worker  *WorkerHandler
	Catalog *CatalogHandler
	Booking *BookingHandler
	Review  *ReviewHandler
	Admin   *AdminHandler

	UserAuth   gin.HandlerFunc
	WorkerAuth gin.HandlerFunc
	AdminAuth  gin.HandlerFunc
}
