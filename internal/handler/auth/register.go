package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"` // 用户名（必填）
	Email    string `json:"email" binding:"required,email"`           // 邮箱（必填）
	Password string `json:"password" binding:"required,min=8"`        // 密码（必填，至少8位）
	Nickname string `json:"nickname"`                                 // 昵称（可选）
}

// RegisterResponseData 注册响应数据
type RegisterResponseData struct {
	UserID   string `json:"user_id"`  // 用户ID
	Username string `json:"username"` // 用户名
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新用户，注册成功后即可登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.authService.Register(ctx, req.Username, req.Email, req.Password, req.Nickname)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err.Error() {
		case "用户已存在":
			code = http.StatusConflict
			errorCode = 40901
		case "邮箱已被注册":
			code = http.StatusConflict
			errorCode = 40902
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "注册成功",
		"data": RegisterResponseData{
			UserID:   resp.UserID,
			Username: resp.Username,
		},
	})
}
