package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/models/dto"
	"github.com/AngelaEmileJose/KNU-Link/internal/app/services"
	"github.com/AngelaEmileJose/KNU-Link/internal/middleware"
)

// ChatController handles per-post chatroom operations
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// ListMessages returns a post's messages in created_at ascending order.
func (c *ChatController) ListMessages(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	messages, err := c.chatService.Messages(ctx, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if messages == nil {
		messages = []*models.Message{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// SendMessage appends a message to the post's room. The created row comes
// back in the response, but clients render it from the realtime echo so the
// optimistic path never duplicates it.
func (c *ChatController) SendMessage(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	message, err := c.chatService.Send(ctx, postID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}
