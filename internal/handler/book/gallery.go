package book

import (
	"github.com/gin-gonic/gin"
)

// GetGallery 加载角色画廊
// @Summary      角色画廊
// @Description  返回画廊记录与访问URL；资产已丢失的记录会被清理并持久化修正
// @Tags         画廊
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true   "书籍ID"
// @Param        name      path      string  true   "角色名"
// @Param        story_id  query     string  false  "故事ID，为空查书级"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters/{name}/gallery [get]
func (h *Handler) GetGallery(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	images, err := h.bookService.LoadGallery(c.Request.Context(), userID,
		c.Param("book_id"), c.Query("story_id"), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", gin.H{"images": images})
}

// GenerateCharacterImageRequest 生成角色图片请求
type GenerateCharacterImageRequest struct {
	Prompt  string `json:"prompt"`   // 为空时按书籍风格与角色设定自动草拟
	StoryID string `json:"story_id"` // 为空时操作书级角色
}

// GenerateCharacterImage 为角色生成一张画廊图片
// @Summary      生成角色图片
// @Description  生成结果入画廊并落资产存储；超出上限时最旧的一张被淘汰
// @Tags         画廊
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                         true  "书籍ID"
// @Param        name     path      string                         true  "角色名"
// @Param        request  body      GenerateCharacterImageRequest  true  "生成请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      503      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters/{name}/generate [post]
func (h *Handler) GenerateCharacterImage(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req GenerateCharacterImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	image, err := h.bookService.GenerateCharacterImage(c.Request.Context(), userID,
		c.Param("book_id"), req.StoryID, c.Param("name"), req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "生成成功", image)
}

// GenerateSceneImageRequest 生成场景插图请求
type GenerateSceneImageRequest struct {
	Prompt string `json:"prompt"` // 为空时按场景内容与引用的角色设定自动草拟
}

// GenerateSceneImage 为场景生成一张插图
// @Summary      生成场景插图
// @Description  生成结果计入场景历史；历史超出上限时最旧的一条被淘汰
// @Tags         画廊
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string                     true  "书籍ID"
// @Param        story_id  path      string                     true  "故事ID"
// @Param        scene_id  path      string                     true  "场景ID"
// @Param        request   body      GenerateSceneImageRequest  true  "生成请求"
// @Success      200       {object}  map[string]interface{}
// @Failure      503       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/stories/{story_id}/scenes/{scene_id}/generate [post]
func (h *Handler) GenerateSceneImage(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req GenerateSceneImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	image, err := h.bookService.GenerateSceneImage(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("scene_id"), req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "生成成功", image)
}
