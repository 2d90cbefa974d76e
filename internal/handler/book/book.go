package book

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fable/internal/model/book"
	booksvc "fable/internal/service/book"
)

// CreateBookRequest 创建书籍请求
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required"`            // 书名（必填）
	Description     string `json:"description" binding:"required"`      // 简介（必填）
	BackgroundSetup string `json:"background_setup" binding:"required"` // 背景设定（必填）
	AspectRatio     string `json:"aspect_ratio"`                        // 画幅，如 16:9
	Style           string `json:"style"`                               // 画风描述
}

// CreateBook 创建书籍
// @Summary      创建书籍
// @Description  创建一本新书，书名、简介、背景设定为必填
// @Tags         书籍
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateBookRequest  true  "创建书籍请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Router       /api/v1/books [post]
func (h *Handler) CreateBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.bookService.CreateBook(c.Request.Context(), userID,
		req.Title, req.Description, req.BackgroundSetup, req.AspectRatio, req.Style)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "创建成功", toBookInfo(b))
}

// ListBooks 分页列出当前用户的书籍
// @Summary      书籍列表
// @Tags         书籍
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "页码（默认1）"
// @Param        page_size  query     int  false  "每页数量（默认20）"
// @Success      200        {object}  map[string]interface{}
// @Router       /api/v1/books [get]
func (h *Handler) ListBooks(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)

	books, total, err := h.bookService.ListBooks(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", gin.H{
		"items": toBookSummaryList(books),
		"total": total,
		"page":  page,
	})
}

// GetBook 获取书籍详情
// @Summary      书籍详情
// @Tags         书籍
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "书籍ID"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id} [get]
func (h *Handler) GetBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	b, err := h.bookService.GetBook(c.Request.Context(), userID, c.Param("book_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", toBookInfo(b))
}

// UpdateBookRequest 更新书籍请求（nil字段保持原值）
type UpdateBookRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	BackgroundSetup *string `json:"background_setup"`
	AspectRatio     *string `json:"aspect_ratio"`
	Style           *string `json:"style"`
}

// UpdateBook 更新书籍基本信息
// @Summary      更新书籍
// @Tags         书籍
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string             true  "书籍ID"
// @Param        request  body      UpdateBookRequest  true  "更新书籍请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id} [put]
func (h *Handler) UpdateBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.bookService.UpdateBook(c.Request.Context(), userID, c.Param("book_id"), booksvc.BookUpdate{
		Title:           req.Title,
		Description:     req.Description,
		BackgroundSetup: req.BackgroundSetup,
		AspectRatio:     req.AspectRatio,
		Style:           req.Style,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "更新成功", toBookInfo(b))
}

// DeleteBook 删除书籍
// @Summary      删除书籍
// @Description  软删除整本书，其下所有故事与场景随之不可见
// @Tags         书籍
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "书籍ID"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id} [delete]
func (h *Handler) DeleteBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), userID, c.Param("book_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "删除成功", nil)
}

// SetDefaultLayoutRequest 设置书籍默认版面请求
type SetDefaultLayoutRequest struct {
	Layout *book.LayoutOverride `json:"layout" binding:"required"` // 版面覆盖（必填）
}

// SetDefaultLayout 设置书籍默认版面
// @Summary      设置书籍默认版面
// @Tags         版面
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string                   true  "书籍ID"
// @Param        request  body      SetDefaultLayoutRequest  true  "版面"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/layout [put]
func (h *Handler) SetDefaultLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var req SetDefaultLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.bookService.SetBookDefaultLayout(c.Request.Context(), userID, c.Param("book_id"), req.Layout); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "设置成功", nil)
}

// ClearDefaultLayout 清除书籍默认版面
// @Summary      清除书籍默认版面
// @Tags         版面
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "书籍ID"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/layout [delete]
func (h *Handler) ClearDefaultLayout(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	if err := h.bookService.ClearBookDefaultLayout(c.Request.Context(), userID, c.Param("book_id")); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "已清除", nil)
}

// ValidateBook 校验整本书的引用完整性
// @Summary      校验书籍
// @Description  检查必填字段、重名与场景引用完整性，返回全部违规与警告
// @Tags         书籍
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "书籍ID"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/books/{book_id}/validate [get]
func (h *Handler) ValidateBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	result, err := h.bookService.ValidateBookByID(c.Request.Context(), userID, c.Param("book_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", result)
}
