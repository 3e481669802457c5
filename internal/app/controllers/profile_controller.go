package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/services"
	"github.com/AngelaEmileJose/KNU-Link/internal/middleware"
)

// ProfileController handles profile registration and lookup
type ProfileController struct {
	profileService services.ProfileService
	postService    services.PostService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, postService services.PostService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		postService:    postService,
	}
}

// Register creates a new pseudonymous profile. Returns 409 when the student
// ID is already registered; the store's uniqueness constraint is the only
// arbitration between devices racing on the same ID.
func (c *ProfileController) Register(ctx *gin.Context) {
	var req dto.RegisterProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	profile, err := c.profileService.Register(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewProfileResponse(profile)))
}

// Lookup finds the profile registered under a student ID, or 404.
func (c *ProfileController) Lookup(ctx *gin.Context) {
	profile, err := c.profileService.Lookup(ctx, ctx.Param("studentID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProfileResponse(profile)))
}

// ListJoined returns the posts whose chatrooms the profile has entered,
// most recent first.
func (c *ProfileController) ListJoined(ctx *gin.Context) {
	profile, err := c.profileService.Lookup(ctx, ctx.Param("studentID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	posts, err := c.postService.ListJoined(ctx, profile.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(posts))
}
