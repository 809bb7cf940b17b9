package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openwall/openwall-be/app"
	"github.com/openwall/openwall-be/middleware"
	"github.com/openwall/openwall-be/util"
)

type trendingRoutes struct {
	app *app.App
}

func AddTrendingRoutes(group *gin.RouterGroup, a *app.App) {
	routes := trendingRoutes{app: a}
	trending := group.Group("/trending")
	trending.GET("/hashtags", util.HandlerWrapper(routes.hashtags, &util.HandlerOpts{}))
	trending.GET("/posts", util.HandlerWrapper(routes.posts, &util.HandlerOpts{}))
}

func (tr *trendingRoutes) hashtags(c *gin.Context) (interface{}, *util.HTTPError) {
	return tr.app.TrendingHashtags(c, intQuery(c, "limit"))
}

func (tr *trendingRoutes) posts(c *gin.Context) (interface{}, *util.HTTPError) {
	window := time.Duration(intQuery(c, "hours")) * time.Hour
	return tr.app.TrendingPosts(c, middleware.MustGetIdentity(c), window, intQuery(c, "limit"))
}

// intQuery returns 0 for absent or malformed values; the app layer
// substitutes its defaults for 0.
func intQuery(c *gin.Context, name string) int {
	val, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return val
}
