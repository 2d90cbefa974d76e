package book

import (
	"github.com/gin-gonic/gin"

	"fable/internal/model/book"
	booksvc "fable/internal/service/book"
)

// CreateSceneRequest 创建场景请求
type CreateSceneRequest struct {
	Title       string `json:"title" binding:"required"`       // 标题（必填）
	Description string `json:"description" binding:"required"` // 描述（必填）
}

// CreateScene 在故事中新建场景
// @Summary      创建场景
// @Tags         场景
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string              true  "书籍ID"
// @Param        story_id  path      string              true  "故事ID"
// @Param        request   body      CreateSceneRequest  true  "创建场景请求"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes [post]
func (h *Handler) CreateScene(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req CreateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sc, err := h.bookService.CreateScene(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "创建成功", toSceneInfo(sc))
}

// GetScene 获取场景详情
// @Summary      场景详情
// @Tags         场景
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Param        scene_id  path      string  true  "场景ID"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id} [get]
func (h *Handler) GetScene(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	sc, err := h.bookService.GetScene(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", toSceneInfo(sc))
}

// UpdateSceneRequest 更新场景请求（nil字段保持原值）
type UpdateSceneRequest struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	TextPanel    *string            `json:"text_panel"`
	DiagramPanel *book.DiagramPanel `json:"diagram_panel"`
	ClearDiagram bool               `json:"clear_diagram"` // true时移除图示面板
	Characters   *[]string          `json:"characters"`    // 整体替换角色引用
	Elements     *[]string          `json:"elements"`      // 整体替换元素引用
}

// UpdateScene 更新场景内容与引用列表
// @Summary      更新场景
// @Description  更新场景文本、面板与角色/元素引用；悬空引用会被校验拒绝
// @Tags         场景
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string              true  "书籍ID"
// @Param        story_id  path      string              true  "故事ID"
// @Param        scene_id  path      string              true  "场景ID"
// @Param        request   body      UpdateSceneRequest  true  "更新场景请求"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id} [put]
func (h *Handler) UpdateScene(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req UpdateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sc, err := h.bookService.UpdateScene(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id"), booksvc.SceneUpdate{
			Title:        req.Title,
			Description:  req.Description,
			TextPanel:    req.TextPanel,
			DiagramPanel: req.DiagramPanel,
			ClearDiagram: req.ClearDiagram,
			Characters:   req.Characters,
			Elements:     req.Elements,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "更新成功", toSceneInfo(sc))
}

// DeleteScene 删除场景
// @Summary      删除场景
// @Tags         场景
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Param        scene_id  path      string  true  "场景ID"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id} [delete]
func (h *Handler) DeleteScene(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.DeleteScene(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "删除成功", nil)
}

// GetSceneLayout 解析场景实际生效的版面
// @Summary      解析场景版面
// @Description  按 场景>故事>书籍默认 的优先级解析版面并返回来源层级
// @Tags         版面
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Param        scene_id  path      string  true  "场景ID"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id}/layout [get]
func (h *Handler) GetSceneLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	resolved, err := h.bookService.GetSceneLayout(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", resolved)
}

// SetSceneLayoutRequest 设置场景版面请求
type SetSceneLayoutRequest struct {
	Layout *book.LayoutOverride `json:"layout" binding:"required"` // 版面覆盖（必填）
}

// SetSceneLayout 设置场景级版面覆盖
// @Summary      设置场景版面
// @Tags         版面
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string                 true  "书籍ID"
// @Param        story_id  path      string                 true  "故事ID"
// @Param        scene_id  path      string                 true  "场景ID"
// @Param        request   body      SetSceneLayoutRequest  true  "版面"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id}/layout [put]
func (h *Handler) SetSceneLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req SetSceneLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.bookService.SetSceneLayout(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id"), req.Layout); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "设置成功", nil)
}

// ClearSceneLayout 清除场景级版面覆盖
// @Summary      清除场景版面
// @Tags         版面
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Param        scene_id  path      string  true  "场景ID"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id}/layout [delete]
func (h *Handler) ClearSceneLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.ClearSceneLayout(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "已清除", nil)
}
