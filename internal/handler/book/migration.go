package book

import (
	"github.com/gin-gonic/gin"

	booksvc "fable/internal/service/book"
)

// PromoteCharacterRequest 角色上升请求
type PromoteCharacterRequest struct {
	StoryID string `json:"story_id" binding:"required"` // 角色当前所在的故事（必填）
}

// PromoteCharacter 把故事级角色上升为书级角色
// @Summary      角色上升
// @Description  把角色连同画廊资产从故事级迁移到书级；书级已有同名角色时拒绝
// @Tags         角色迁移
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                   true  "书籍ID"
// @Param        name     path      string                   true  "角色名（忽略大小写）"
// @Param        request  body      PromoteCharacterRequest  true  "上升请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters/{name}/promote [post]
func (h *Handler) PromoteCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req PromoteCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.bookService.PromoteCharacter(c.Request.Context(), userID,
		c.Param("book_id"), req.StoryID, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "上升成功", result)
}

// DemoteCharacterRequest 角色下放请求
type DemoteCharacterRequest struct {
	TargetStoryID string `json:"target_story_id"` // 为空时按使用情况自动推断目标故事
}

// DemoteCharacter 把书级角色下放到故事
// @Summary      角色下放
// @Description  恰好一个故事在用时自动选为目标；多个故事在用需要显式指定；
// @Description  没有故事在用且未指定目标时拒绝
// @Tags         角色迁移
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                  true  "书籍ID"
// @Param        name     path      string                  true  "角色名（忽略大小写）"
// @Param        request  body      DemoteCharacterRequest  true  "下放请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters/{name}/demote [post]
func (h *Handler) DemoteCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req DemoteCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.bookService.DemoteCharacter(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("name"), req.TargetStoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "下放成功", result)
}

// GetCharacterUsage 查询角色使用情况
// @Summary      角色使用情况
// @Description  统计每个故事通过场景引用该角色名的次数，供下放前消歧
// @Tags         角色迁移
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "书籍ID"
// @Param        name     path      string  true  "角色名"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/characters/{name}/usage [get]
func (h *Handler) GetCharacterUsage(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	b, err := h.bookService.GetBook(c.Request.Context(), userID, c.Param("book_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", booksvc.ComputeUsage(b, c.Param("name")))
}
