package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/openwall/openwall-be/app"
	"github.com/openwall/openwall-be/middleware"
	"github.com/openwall/openwall-be/util"
)

type userRoutes struct {
	app *app.App
}

func AddUserRoutes(group *gin.RouterGroup, a *app.App) {
	routes := userRoutes{app: a}
	me := group.Group("/me")
	me.GET("/stats", util.HandlerWrapper(routes.stats, &util.HandlerOpts{}))
}

func (ur *userRoutes) stats(c *gin.Context) (interface{}, *util.HTTPError) {
	return ur.app.Stats(c, middleware.MustGetIdentity(c))
}
