package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/openwall/openwall-be/app"
	"github.com/openwall/openwall-be/middleware"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

type adminRoutes struct {
	app *app.App
}

func AddAdminRoutes(group *gin.RouterGroup, a *app.App, adminToken string) {
	routes := adminRoutes{app: a}
	admin := group.Group("/admin", middleware.AdminAuth(adminToken))
	admin.GET("/reports", util.HandlerWrapper(routes.listReports, &util.HandlerOpts{}))
	admin.POST("/reports/:id", util.HandlerWrapper(routes.resolveReport, &util.HandlerOpts{}))
	admin.GET("/banned", util.HandlerWrapper(routes.listBanned, &util.HandlerOpts{}))
	admin.PUT("/banned", util.HandlerWrapper(routes.banIdentity, &util.HandlerOpts{}))
	admin.DELETE("/banned/:id", util.HandlerWrapper(routes.unbanIdentity, &util.HandlerOpts{}))
}

func (ar *adminRoutes) listReports(c *gin.Context) (interface{}, *util.HTTPError) {
	return ar.app.ListReports(c)
}

type resolveReportReq struct {
	Status model.ReportStatus `json:"status"`
}

func (ar *adminRoutes) resolveReport(c *gin.Context) (interface{}, *util.HTTPError) {
	var req resolveReportReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if httpErr := ar.app.ResolveReport(c, c.Param("id"), req.Status); httpErr != nil {
		return nil, httpErr
	}
	return nil, nil
}

func (ar *adminRoutes) listBanned(c *gin.Context) (interface{}, *util.HTTPError) {
	return ar.app.BannedIdentities(c)
}

type banIdentityReq struct {
	IdentityId  string `json:"identityId"`
	DeletePosts bool   `json:"deletePosts"`
}

func (ar *adminRoutes) banIdentity(c *gin.Context) (interface{}, *util.HTTPError) {
	var req banIdentityReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.IdentityId == "" {
		return nil, util.InvalidArgumentHTTPErr("identityId must not be empty")
	}
	if httpErr := ar.app.BanIdentity(c, req.IdentityId, req.DeletePosts); httpErr != nil {
		return nil, httpErr
	}
	return nil, nil
}

func (ar *adminRoutes) unbanIdentity(c *gin.Context) (interface{}, *util.HTTPError) {
	if httpErr := ar.app.UnbanIdentity(c, c.Param("id")); httpErr != nil {
		return nil, httpErr
	}
	return nil, nil
}
