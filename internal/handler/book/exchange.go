package book

import (
	"github.com/gin-gonic/gin"

	booksvc "fable/internal/service/book"
)

// ExportBook 导出书籍为交换格式
// @Summary      导出书籍
// @Description  导出可移植载荷：不含内部ID与生成历史，画廊只保留角色名与描述
// @Tags         导入导出
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "书籍ID"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/books/{book_id}/export [get]
func (h *Handler) ExportBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	payload, err := h.bookService.ExportBook(c.Request.Context(), userID, c.Param("book_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", payload)
}

// ImportBook 从交换格式导入一本新书
// @Summary      导入书籍
// @Description  所有ID重新生成，导入结果是一本全新的书，不会覆盖已有书籍
// @Tags         导入导出
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      booksvc.BookExchange  true  "交换载荷"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Router       /api/v1/books/import [post]
func (h *Handler) ImportBook(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		return
	}

	var payload booksvc.BookExchange
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.bookService.ImportBook(c.Request.Context(), userID, &payload)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "导入成功", toBookInfo(b))
}
