package book

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fable/internal/model/book"
	"fable/internal/pkg/ctxutil"
	bookrepo "fable/internal/repository/book"
	booksvc "fable/internal/service/book"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int                     `json:"code"`
	Message string                  `json:"message"`
	Detail  string                  `json:"detail,omitempty"`
	Errors  []string                `json:"errors,omitempty"` // 校验违规明细
	Usage   *booksvc.CharacterUsage `json:"usage,omitempty"`  // 迁移消歧所需的使用清单
}

// ok 统一成功响应
func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

// currentUserID 从请求上下文取当前用户ID
func currentUserID(c *gin.Context) (string, bool) {
	userID, found := ctxutil.GetUserID(c.Request.Context())
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return "", false
	}
	return userID, true
}

// respondError 把service层错误映射为HTTP响应
func respondError(c *gin.Context, err error) {
	var migErr *booksvc.MigrationError
	if errors.As(err, &migErr) {
		status, code := http.StatusInternalServerError, 50001
		switch migErr.Code {
		case booksvc.MigrationNotFound:
			status, code = http.StatusNotFound, 40401
		case booksvc.MigrationNotFoundInScope:
			status, code = http.StatusNotFound, 40402
		case booksvc.MigrationConflict:
			status, code = http.StatusConflict, 40901
		case booksvc.MigrationAmbiguousTarget:
			status, code = http.StatusConflict, 40902
		case booksvc.MigrationTargetRequired:
			status, code = http.StatusBadRequest, 40003
		case booksvc.MigrationValidationFailed:
			status, code = http.StatusBadRequest, 40002
		}
		c.JSON(status, ErrorResponse{
			Code:    code,
			Message: migErr.Message,
			Usage:   migErr.Usage,
		})
		return
	}

	var vErr *booksvc.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40002,
			Message: "校验失败",
			Errors:  vErr.Result.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, bookrepo.ErrNotFound),
		errors.Is(err, booksvc.ErrStoryNotFound),
		errors.Is(err, booksvc.ErrSceneNotFound),
		errors.Is(err, booksvc.ErrCharacterNotFound),
		errors.Is(err, booksvc.ErrElementNotFound),
		errors.Is(err, book.ErrImageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    40401,
			Message: err.Error(),
		})
	case errors.Is(err, booksvc.ErrDuplicateCharacter),
		errors.Is(err, booksvc.ErrDuplicateElement),
		errors.Is(err, book.ErrDuplicateName):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    40901,
			Message: err.Error(),
		})
	case errors.Is(err, booksvc.ErrImageGenUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    50301,
			Message: err.Error(),
		})
	case errors.Is(err, booksvc.ErrPromptRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40004,
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "服务器内部错误",
			Detail:  err.Error(),
		})
	}
}

// badRequest 请求体解析失败
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    40001,
		Message: "Invalid request body",
		Detail:  err.Error(),
	})
}

// ---- DTO ----

// ImageRecordInfo 图片记录 DTO
type ImageRecordInfo struct {
	ID         string `json:"id"`
	ModelName  string `json:"model_name"`
	Timestamp  string `json:"timestamp"`
	PromptHash string `json:"prompt_hash,omitempty"`
}

func toImageRecordInfo(rec book.ImageRecord) ImageRecordInfo {
	return ImageRecordInfo{
		ID:         rec.ID,
		ModelName:  rec.ModelName,
		Timestamp:  rec.Timestamp.Format(time.RFC3339),
		PromptHash: rec.PromptHash,
	}
}

func toImageRecordInfoList(recs []book.ImageRecord) []ImageRecordInfo {
	list := make([]ImageRecordInfo, len(recs))
	for i, rec := range recs {
		list[i] = toImageRecordInfo(rec)
	}
	return list
}

// CharacterInfo 角色信息 DTO
type CharacterInfo struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ImageGallery     []ImageRecordInfo `json:"image_gallery"`
	SelectedImageID  string            `json:"selected_image_id,omitempty"`
	ReferenceImageID string            `json:"reference_image_id,omitempty"`
}

func toCharacterInfo(ch *book.Character) CharacterInfo {
	return CharacterInfo{
		Name:             ch.Name,
		Description:      ch.Description,
		ImageGallery:     toImageRecordInfoList(ch.ImageGallery),
		SelectedImageID:  ch.SelectedImageID,
		ReferenceImageID: ch.ReferenceImageID,
	}
}

func toCharacterInfoList(chs []book.Character) []CharacterInfo {
	list := make([]CharacterInfo, len(chs))
	for i := range chs {
		list[i] = toCharacterInfo(&chs[i])
	}
	return list
}

// ElementInfo 元素信息 DTO
type ElementInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

func toElementInfoList(els []book.Element) []ElementInfo {
	list := make([]ElementInfo, len(els))
	for i, el := range els {
		list[i] = ElementInfo{Name: el.Name, Description: el.Description, Category: el.Category}
	}
	return list
}

// SceneInfo 场景信息 DTO
type SceneInfo struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	TextPanel    string               `json:"text_panel,omitempty"`
	DiagramPanel *book.DiagramPanel   `json:"diagram_panel,omitempty"`
	Layout       *book.LayoutOverride `json:"layout,omitempty"`
	Characters   []string             `json:"characters"`
	Elements     []string             `json:"elements"`
	ImageHistory []ImageRecordInfo    `json:"image_history"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

func toSceneInfo(sc *book.Scene) SceneInfo {
	return SceneInfo{
		ID:           sc.ID,
		Title:        sc.Title,
		Description:  sc.Description,
		TextPanel:    sc.TextPanel,
		DiagramPanel: sc.DiagramPanel,
		Layout:       sc.Layout,
		Characters:   sc.Characters,
		Elements:     sc.Elements,
		ImageHistory: toImageRecordInfoList(sc.ImageHistory),
		CreatedAt:    sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    sc.UpdatedAt.Format(time.RFC3339),
	}
}

// StoryInfo 故事信息 DTO
type StoryInfo struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	BackgroundSetup string               `json:"background_setup"`
	Characters      []CharacterInfo      `json:"characters"`
	Elements        []ElementInfo        `json:"elements"`
	Scenes          []SceneInfo          `json:"scenes"`
	Layout          *book.LayoutOverride `json:"layout,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

func toStoryInfo(st *book.Story) StoryInfo {
	scenes := make([]SceneInfo, len(st.Scenes))
	for i := range st.Scenes {
		scenes[i] = toSceneInfo(&st.Scenes[i])
	}
	return StoryInfo{
		ID:              st.ID,
		Title:           st.Title,
		Description:     st.Description,
		BackgroundSetup: st.BackgroundSetup,
		Characters:      toCharacterInfoList(st.Characters),
		Elements:        toElementInfoList(st.Elements),
		Scenes:          scenes,
		Layout:          st.Layout,
		CreatedAt:       st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       st.UpdatedAt.Format(time.RFC3339),
	}
}

// BookInfo 书籍详情 DTO
type BookInfo struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	BackgroundSetup string               `json:"background_setup"`
	AspectRatio     string               `json:"aspect_ratio"`
	Style           string               `json:"style"`
	DefaultLayout   *book.LayoutOverride `json:"default_layout,omitempty"`
	Characters      []CharacterInfo      `json:"characters"`
	Stories         []StoryInfo          `json:"stories"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

func toBookInfo(b *book.Book) BookInfo {
	stories := make([]StoryInfo, len(b.Stories))
	for i := range b.Stories {
		stories[i] = toStoryInfo(&b.Stories[i])
	}
	return BookInfo{
		ID:              b.ID,
		Title:           b.Title,
		Description:     b.Description,
		BackgroundSetup: b.BackgroundSetup,
		AspectRatio:     b.AspectRatio,
		Style:           b.Style,
		DefaultLayout:   b.DefaultLayout,
		Characters:      toCharacterInfoList(b.Characters),
		Stories:         stories,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

// BookSummary 书籍列表项 DTO
type BookSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Style       string `json:"style"`
	StoryCount  int    `json:"story_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toBookSummaryList(books []*book.Book) []BookSummary {
	list := make([]BookSummary, len(books))
	for i, b := range books {
		list[i] = BookSummary{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			Style:       b.Style,
			StoryCount:  len(b.Stories),
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
		}
	}
	return list
}
