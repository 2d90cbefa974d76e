package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LogoutRequest 退出登录请求
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"` // Refresh Token（必填）
}

// Logout 退出登录
// @Summary      退出登录
// @Description  删除Refresh Token，使其失效
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LogoutRequest  true  "退出登录请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "退出登录失败",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已退出登录",
	})
}
