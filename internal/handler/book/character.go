package book

import (
	"github.com/gin-gonic/gin"
)

// 角色接口同时服务书级与故事级：story_id 查询参数为空表示书级角色。

// AddCharacterRequest 新增角色请求
type AddCharacterRequest struct {
	Name        string `json:"name" binding:"required"`        // 角色名（必填，范围内忽略大小写唯一）
	Description string `json:"description" binding:"required"` // 描述（必填）
	StoryID     string `json:"story_id"`                       // 为空时创建书级角色
}

// AddCharacter 新增角色
// @Summary      新增角色
// @Description  story_id为空时创建书级角色（全书共享），否则创建故事级角色
// @Tags         角色
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string               true  "书籍ID"
// @Param        request  body      AddCharacterRequest  true  "新增角色请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      409      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters [post]
func (h *Handler) AddCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req AddCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	bookID := c.Param("book_id")

	var err error
	var result *CharacterInfo
	if req.StoryID == "" {
		ch, addErr := h.bookService.AddBookCharacter(ctx, userID, bookID, req.Name, req.Description)
		if addErr == nil {
			info := toCharacterInfo(ch)
			result = &info
		}
		err = addErr
	} else {
		ch, addErr := h.bookService.AddStoryCharacter(ctx, userID, bookID, req.StoryID, req.Name, req.Description)
		if addErr == nil {
			info := toCharacterInfo(ch)
			result = &info
		}
		err = addErr
	}
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "创建成功", result)
}

// GetCharacter 获取角色详情
// @Summary      角色详情
// @Tags         角色
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true   "书籍ID"
// @Param        name      path      string  true   "角色名（忽略大小写）"
// @Param        story_id  query     string  false  "故事ID，为空查书级"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters/{name} [get]
func (h *Handler) GetCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	ch, err := h.bookService.GetCharacter(c.Request.Context(), userID,
		c.Param("book_id"), c.Query("story_id"), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", toCharacterInfo(ch))
}

// UpdateCharacterRequest 更新角色请求
type UpdateCharacterRequest struct {
	Description string `json:"description" binding:"required"` // 描述（必填）
	StoryID     string `json:"story_id"`                       // 为空时操作书级角色
}

// UpdateCharacter 更新角色描述
// @Summary      更新角色描述
// @Tags         角色
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                  true  "书籍ID"
// @Param        name     path      string                  true  "角色名"
// @Param        request  body      UpdateCharacterRequest  true  "更新角色请求"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/characters/{name} [put]
func (h *Handler) UpdateCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ch, err := h.bookService.UpdateCharacterDescription(c.Request.Context(), userID,
		c.Param("book_id"), req.StoryID, c.Param("name"), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "更新成功", toCharacterInfo(ch))
}

// RenameCharacterRequest 角色改名请求
type RenameCharacterRequest struct {
	NewName string `json:"new_name" binding:"required"` // 新名称（必填）
	StoryID string `json:"story_id"`                    // 为空时操作书级角色
}

// RenameCharacter 角色改名
// @Summary      角色改名
// @Description  改名会同步重写同范围内所有场景的名称引用
// @Tags         角色
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                  true  "书籍ID"
// @Param        name     path      string                  true  "原名称"
// @Param        request  body      RenameCharacterRequest  true  "改名请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      409      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/characters/{name}/rename [post]
func (h *Handler) RenameCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req RenameCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ch, err := h.bookService.RenameCharacter(c.Request.Context(), userID,
		c.Param("book_id"), req.StoryID, c.Param("name"), req.NewName)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "改名成功", toCharacterInfo(ch))
}

// DeleteCharacter 删除角色
// @Summary      删除角色
// @Description  删除角色并级联清理场景引用与画廊资产
// @Tags         角色
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true   "书籍ID"
// @Param        name      path      string  true   "角色名"
// @Param        story_id  query     string  false  "故事ID，为空删书级"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/characters/{name} [delete]
func (h *Handler) DeleteCharacter(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.DeleteCharacter(c.Request.Context(), userID,
		c.Param("book_id"), c.Query("story_id"), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "删除成功", nil)
}

// SelectImageRequest 选择画廊图片请求
type SelectImageRequest struct {
	ImageID string `json:"image_id" binding:"required"` // 画廊图片ID（必填）
	StoryID string `json:"story_id"`                    // 为空时操作书级角色
}

// SelectCharacterImage 设置角色当前选中的画廊图片
// @Summary      选择角色图片
// @Tags         角色
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string              true  "书籍ID"
// @Param        name     path      string              true  "角色名"
// @Param        request  body      SelectImageRequest  true  "选择图片请求"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/characters/{name}/select-image [post]
func (h *Handler) SelectCharacterImage(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.bookService.SelectCharacterImage(c.Request.Context(), userID,
		c.Param("book_id"), req.StoryID, c.Param("name"), req.ImageID); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "已选择", nil)
}

// SetReferenceImageRequest 设置参考图请求
type SetReferenceImageRequest struct {
	ImageID string `json:"image_id"` // 为空时清除参考图
	StoryID string `json:"story_id"` // 为空时操作书级角色
}

// SetCharacterReferenceImage 设置角色参考图
// @Summary      设置角色参考图
// @Tags         角色
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                    true  "书籍ID"
// @Param        name     path      string                    true  "角色名"
// @Param        request  body      SetReferenceImageRequest  true  "参考图请求"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/characters/{name}/reference-image [put]
func (h *Handler) SetCharacterReferenceImage(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req SetReferenceImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.bookService.SetCharacterReferenceImage(c.Request.Context(), userID,
		c.Param("book_id"), req.StoryID, c.Param("name"), req.ImageID); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "已设置", nil)
}

// DeleteCharacterImage 删除角色画廊中的一张图片
// @Summary      删除角色图片
// @Tags         角色
// @Produce      json
// @Security     BearerAuth
// @Param        book_id   path      string  true   "书籍ID"
// @Param        name      path      string  true   "角色名"
// @Param        image_id  path      string  true   "图片ID"
// @Param        story_id  query     string  false  "故事ID，为空操作书级"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/characters/{name}/images/{image_id} [delete]
func (h *Handler) DeleteCharacterImage(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.DeleteCharacterImage(c.Request.Context(), userID,
		c.Param("book_id"), c.Query("story_id"), c.Param("name"), c.Param("image_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "删除成功", nil)
}
