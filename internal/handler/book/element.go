package book

import (
	"github.com/gin-gonic/gin"
)

// AddElementRequest 新增元素请求
type AddElementRequest struct {
	Name        string `json:"name" binding:"required"`        // 元素名（必填，故事内忽略大小写唯一）
	Description string `json:"description" binding:"required"` // 描述（必填）
	Category    string `json:"category"`                       // 分类（可选）
}

// AddElement 新增故事元素
// @Summary      新增元素
// @Description  元素只有故事级作用域
// @Tags         元素
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string             true  "书籍ID"
// @Param        story_id  path      string             true  "故事ID"
// @Param        request   body      AddElementRequest  true  "新增元素请求"
// @Success      200       {object}  map[string]interface{}
// @Failure      409       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/stories/{story_id}/elements [post]
func (h *Handler) AddElement(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req AddElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	el, err := h.bookService.AddElement(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), req.Name, req.Description, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "创建成功", ElementInfo{Name: el.Name, Description: el.Description, Category: el.Category})
}

// UpdateElementRequest 更新元素请求（nil字段保持原值）
type UpdateElementRequest struct {
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// UpdateElement 更新元素描述与分类
// @Summary      更新元素
// @Tags         元素
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string                true  "书籍ID"
// @Param        story_id  path      string                true  "故事ID"
// @Param        name      path      string                true  "元素名"
// @Param        request   body      UpdateElementRequest  true  "更新元素请求"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/elements/{name} [put]
func (h *Handler) UpdateElement(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req UpdateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	el, err := h.bookService.UpdateElement(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("name"), req.Description, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "更新成功", ElementInfo{Name: el.Name, Description: el.Description, Category: el.Category})
}

// RenameElementRequest 元素改名请求
type RenameElementRequest struct {
	NewName string `json:"new_name" binding:"required"` // 新名称（必填）
}

// RenameElement 元素改名
// @Summary      元素改名
// @Description  改名会同步重写故事内所有场景的名称引用
// @Tags         元素
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string                true  "书籍ID"
// @Param        story_id  path      string                true  "故事ID"
// @Param        name      path      string                true  "原名称"
// @Param        request   body      RenameElementRequest  true  "改名请求"
// @Success      200       {object}  map[string]interface{}
// @Failure      409       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/stories/{story_id}/elements/{name}/rename [post]
func (h *Handler) RenameElement(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req RenameElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	el, err := h.bookService.RenameElement(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("name"), req.NewName)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "改名成功", ElementInfo{Name: el.Name, Description: el.Description, Category: el.Category})
}

// DeleteElement 删除元素
// @Summary      删除元素
// @Description  删除元素并级联清理场景引用
// @Tags         元素
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true  "书籍ID"
// @Param        story_id  path      string  true  "故事ID"
// @Param        name      path      string  true  "元素名"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/stories/{story_id}/elements/{name} [delete]
func (h *Handler) DeleteElement(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.DeleteElement(c.Request.Context(), userID,
		c.Param("book_id"), c.Param("story_id"), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "删除成功", nil)
}
