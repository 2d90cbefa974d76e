package book

import (
	"github.com/gin-gonic/gin"

	"fable/internal/model/book"
	booksvc "fable/internal/service/book"
)

// CreateStoryRequest 创建故事请求
type CreateStoryRequest struct {
	Title           string `json:"title" binding:"required"`       // 标题（必填）
	Description     string `json:"description" binding:"required"` // 简介（必填）
	BackgroundSetup string `json:"background_setup"`               // 背景设定
}

// CreateStory 在书中新建故事
// @Summary      创建故事
// @Tags         故事
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string              true  "书籍ID"
// @Param        request  body      CreateStoryRequest  true  "创建故事请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	st, err := h.bookService.CreateStory(c.Request.Context(), userID,
		c.Param("book_id"), req.Title, req.Description, req.BackgroundSetup)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "创建成功", toStoryInfo(st))
}

// GetStory 获取故事详情
// @Summary      故事详情
// @Tags         故事
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/stories/{story_id} [get]
func (h *Handler) GetStory(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	st, err := h.bookService.GetStory(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", toStoryInfo(st))
}

// UpdateStoryRequest 更新故事请求（nil字段保持原值）
type UpdateStoryRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	BackgroundSetup *string `json:"background_setup"`
}

// UpdateStory 更新故事基本信息
// @Summary      更新故事
// @Tags         故事
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string              true  "书籍ID"
// @Param        story_id  path      string              true  "故事ID"
// @Param        request   body      UpdateStoryRequest  true  "更新故事请求"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id} [put]
func (h *Handler) UpdateStory(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	st, err := h.bookService.UpdateStory(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), booksvc.StoryUpdate{
			Title:           req.Title,
			Description:     req.Description,
			BackgroundSetup: req.BackgroundSetup,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "更新成功", toStoryInfo(st))
}

// DeleteStory 删除故事
// @Summary      删除故事
// @Description  删除故事及其下所有场景
// @Tags         故事
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id} [delete]
func (h *Handler) DeleteStory(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.DeleteStory(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "删除成功", nil)
}

// SetStoryLayoutRequest 设置故事版面请求
type SetStoryLayoutRequest struct {
	Layout *book.LayoutOverride `json:"layout" binding:"required"` // 版面覆盖（必填）
}

// SetStoryLayout 设置故事级版面覆盖
// @Summary      设置故事版面
// @Tags         版面
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string                 true  "书籍ID"
// @Param        story_id  path      string                 true  "故事ID"
// @Param        request   body      SetStoryLayoutRequest  true  "版面"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/layout [put]
func (h *Handler) SetStoryLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req SetStoryLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.bookService.SetStoryLayout(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), req.Layout); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "设置成功", nil)
}

// ClearStoryLayout 清除故事级版面覆盖
// @Summary      清除故事版面
// @Tags         版面
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/layout [delete]
func (h *Handler) ClearStoryLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.ClearStoryLayout(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "已清除", nil)
}
