package routes

import (
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/openwall/openwall-be/app"
	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/middleware"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/services"
	"github.com/openwall/openwall-be/util"
)

type postRoutes struct {
	app   *app.App
	media *services.MediaStore
}

func AddPostRoutes(group *gin.RouterGroup, a *app.App, media *services.MediaStore, database db.Database, adminToken string) {
	routes := postRoutes{app: a, media: media}
	posts := group.Group("/posts", middleware.AdminFlag(adminToken))
	posts.GET("", util.HandlerWrapper(routes.listPosts, &util.HandlerOpts{}))
	posts.PUT("", middleware.BanGate(database), util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	posts.DELETE("/:id", middleware.BanGate(database), util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	posts.POST("/:id/votes", middleware.BanGate(database), util.HandlerWrapper(routes.castVote, &util.HandlerOpts{}))
	posts.POST("/:id/bookmark", middleware.BanGate(database), util.HandlerWrapper(routes.toggleBookmark, &util.HandlerOpts{}))
	posts.PUT("/:id/comments", middleware.BanGate(database), util.HandlerWrapper(routes.addComment, &util.HandlerOpts{}))
	posts.PUT("/:id/reports", middleware.BanGate(database), util.HandlerWrapper(routes.submitReport, &util.HandlerOpts{}))
}

func (pr *postRoutes) listPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	return pr.app.ListPosts(c, middleware.MustGetIdentity(c))
}

type createPostReq struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var content string
	var tags []string
	var media []model.MediaRef

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		content = c.PostForm("content")
		tags = form.Value["tags"]
		for _, header := range form.File["files"] {
			ref, err := pr.media.Save(c, header)
			if err != nil {
				pr.discardMedia(c, media)
				return nil, util.InvalidArgumentHTTPErr(err.Error())
			}
			media = append(media, *ref)
		}
	} else {
		var req createPostReq
		if err := c.BindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		content, tags = req.Content, req.Tags
	}

	identity := middleware.MustGetIdentity(c)
	post, httpErr := pr.app.CreatePost(c, &app.CreatePost{
		Content: content,
		Tags:    tags,
		Media:   media,
		OwnerId: identity,
	})
	if httpErr != nil {
		// the post never existed, so the files it would have owned are
		// already orphans
		pr.discardMedia(c, media)
		return nil, httpErr
	}
	return app.NewPostView(post, identity), nil
}

func (pr *postRoutes) discardMedia(c *gin.Context, media []model.MediaRef) {
	for _, ref := range media {
		if err := pr.media.Remove(c, ref.FileUrl); err != nil {
			log.WithError(err).WithField("fileUrl", ref.FileUrl).
				Warn("could not discard uploaded file")
		}
	}
}

func (pr *postRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	if httpErr := pr.app.DeletePost(c, c.Param("id"),
		middleware.MustGetIdentity(c), middleware.IsAdmin(c)); httpErr != nil {
		return nil, httpErr
	}
	return nil, nil
}

type castVoteReq struct {
	Direction model.VoteDirection `json:"direction"`
}

func (pr *postRoutes) castVote(c *gin.Context) (interface{}, *util.HTTPError) {
	var req castVoteReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return pr.app.CastVote(c, c.Param("id"), middleware.MustGetIdentity(c), req.Direction)
}

func (pr *postRoutes) toggleBookmark(c *gin.Context) (interface{}, *util.HTTPError) {
	return pr.app.ToggleBookmark(c, c.Param("id"), middleware.MustGetIdentity(c))
}

type addCommentReq struct {
	Content string `json:"content"`
}

func (pr *postRoutes) addComment(c *gin.Context) (interface{}, *util.HTTPError) {
	var req addCommentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return pr.app.AddComment(c, c.Param("id"), req.Content, middleware.MustGetIdentity(c))
}

type submitReportReq struct {
	Reason string `json:"reason"`
}

func (pr *postRoutes) submitReport(c *gin.Context) (interface{}, *util.HTTPError) {
	var req submitReportReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return pr.app.SubmitReport(c, c.Param("id"), middleware.MustGetIdentity(c), req.Reason)
}
