package book

import (
	"github.com/gin-gonic/gin"

	booksvc "fable/internal/service/book"
)

// Handler 书籍处理器
// 所有book相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	bookService *booksvc.Service
}

// NewHandler 创建书籍处理器
func NewHandler(bookService *booksvc.Service) *Handler {
	return &Handler{
		bookService: bookService,
	}
}

// RegisterRoutes 挂载书籍路由
// rg 应当已经套上认证中间件
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.POST("", h.CreateBook)
		books.GET("", h.ListBooks)
		books.POST("/import", h.ImportBook)
		books.GET("/:book_id", h.GetBook)
		books.PUT("/:book_id", h.UpdateBook)
		books.DELETE("/:book_id", h.DeleteBook)
		books.GET("/:book_id/export", h.ExportBook)
		books.PUT("/:book_id/layout", h.SetDefaultLayout)
		books.DELETE("/:book_id/layout", h.ClearDefaultLayout)
		books.POST("/:book_id/validate", h.ValidateBook)

		// 故事
		books.POST("/:book_id/stories", h.CreateStory)
		books.GET("/:book_id/stories/:story_id", h.GetStory)
		books.PUT("/:book_id/stories/:story_id", h.UpdateStory)
		books.DELETE("/:book_id/stories/:story_id", h.DeleteStory)
		books.PUT("/:book_id/stories/:story_id/layout", h.SetStoryLayout)
		books.DELETE("/:book_id/stories/:story_id/layout", h.ClearStoryLayout)

		// 场景
		books.POST("/:book_id/stories/:story_id/scenes", h.CreateScene)
		books.GET("/:book_id/stories/:story_id/scenes/:scene_id", h.GetScene)
		books.PUT("/:book_id/stories/:story_id/scenes/:scene_id", h.UpdateScene)
		books.DELETE("/:book_id/stories/:story_id/scenes/:scene_id", h.DeleteScene)
		books.GET("/:book_id/stories/:story_id/scenes/:scene_id/layout", h.GetSceneLayout)
		books.PUT("/:book_id/stories/:story_id/scenes/:scene_id/layout", h.SetSceneLayout)
		books.DELETE("/:book_id/stories/:story_id/scenes/:scene_id/layout", h.ClearSceneLayout)
		books.POST("/:book_id/stories/:story_id/scenes/:scene_id/generate", h.GenerateSceneImage)

		// 角色
		books.POST("/:book_id/characters", h.AddCharacter)
		books.GET("/:book_id/characters/:name", h.GetCharacter)
		books.PUT("/:book_id/characters/:name", h.UpdateCharacter)
		books.POST("/:book_id/characters/:name/rename", h.RenameCharacter)
		books.DELETE("/:book_id/characters/:name", h.DeleteCharacter)
		books.GET("/:book_id/characters/:name/usage", h.GetCharacterUsage)
		books.POST("/:book_id/characters/:name/promote", h.PromoteCharacter)
		books.POST("/:book_id/characters/:name/demote", h.DemoteCharacter)
		books.GET("/:book_id/characters/:name/gallery", h.GetGallery)
		books.POST("/:book_id/characters/:name/generate", h.GenerateCharacterImage)
		books.POST("/:book_id/characters/:name/select-image", h.SelectCharacterImage)
		books.PUT("/:book_id/characters/:name/reference-image", h.SetCharacterReferenceImage)
		books.DELETE("/:book_id/characters/:name/images/:image_id", h.DeleteCharacterImage)

		// 元素（故事级）
		books.POST("/:book_id/stories/:story_id/elements", h.AddElement)
		books.PUT("/:book_id/stories/:story_id/elements/:name", h.UpdateElement)
		books.POST("/:book_id/stories/:story_id/elements/:name/rename", h.RenameElement)
		books.DELETE("/:book_id/stories/:story_id/elements/:name", h.DeleteElement)
	}
}
