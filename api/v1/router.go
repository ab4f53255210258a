package v1

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a controller's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// Controllers groups every v1 controller
type Controllers struct {
	Auth        *AuthController
	Users       *UserController
	Departments *DepartmentController
	Projects    *ProjectController
	Roles       *RoleController
	Catalogs    []RouteRegistrar
}

// RegisterRoutes registers all v1 API routes. Everything except health and
// the public auth endpoints sits behind gate.
func RegisterRoutes(router *gin.RouterGroup, gate gin.HandlerFunc, health gin.HandlerFunc, ctl Controllers) {
	// Health check endpoint
	router.GET("/health", health)

	// Login, refresh and password reset
	ctl.Auth.RegisterPublicRoutes(router)

	protected := router.Group("")
	protected.Use(gate)
	{
		ctl.Auth.RegisterRoutes(protected)
		ctl.Users.RegisterRoutes(protected)
		ctl.Departments.RegisterRoutes(protected)
		ctl.Projects.RegisterRoutes(protected)
		ctl.Roles.RegisterRoutes(protected)
		for _, catalog := range ctl.Catalogs {
			catalog.RegisterRoutes(protected)
		}
	}
}
