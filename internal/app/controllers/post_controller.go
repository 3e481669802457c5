package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/services"
	"github.com/AngelaEmileJose/KNU-Link/internal/middleware"
)

// PostController handles feed and post operations
type PostController struct {
	postService services.PostService
	chatService services.ChatService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, chatService services.ChatService) *PostController {
	return &PostController{
		postService: postService,
		chatService: chatService,
	}
}

// List returns the feed: active posts newest first, optionally filtered by
// category (?category=study). Expired posts are excluded at read time.
func (c *PostController) List(ctx *gin.Context) {
	var req dto.ListPostsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid category filter").WithDetails(err.Error())))
		return
	}

	posts, err := c.postService.ListActive(ctx, models.Category(req.Category))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if posts == nil {
		posts = []*models.Post{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(posts))
}

// Create publishes a new activity post.
func (c *PostController) Create(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	post, err := c.postService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// Get retrieves one post by id, or 404.
func (c *PostController) Get(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	post, err := c.postService.GetByID(ctx, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// Join records a participation for (user, post). A duplicate pair returns
// 409 so the caller can recognize "already joined" without parsing text.
func (c *PostController) Join(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	var req dto.JoinPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	if err := c.chatService.Join(ctx, postID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(nil))
}

// parsePostID parses the :id path segment, writing the 400 itself on
// failure.
func parsePostID(ctx *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid post ID")))
		return 0, false
	}
	return postID, true
}
