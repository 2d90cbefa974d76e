package book

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
	"fable/internal/pkg/ctxutil"
	"fable/internal/pkg/storage/local"
	bookrepo "fable/internal/repository/book"
	booksvc "fable/internal/service/book"
)

const testUserID = "user-1"

// memBookRepo 内存书籍仓库，读写深拷贝模拟读隔离
type memBookRepo struct {
	mu    sync.Mutex
	books map[string]*book.Book
}

func cloneBook(b *book.Book) *book.Book {
	data, _ := json.Marshal(b)
	var out book.Book
	_ = json.Unmarshal(data, &out)
	return &out
}

func (r *memBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = cloneBook(b)
	return nil
}

func (r *memBookRepo) FindByID(ctx context.Context, id string) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.DeletedAt != nil {
		return nil, bookrepo.ErrNotFound
	}
	return cloneBook(b), nil
}

func (r *memBookRepo) FindByUserID(ctx context.Context, userID string, page, pageSize int64) ([]*book.Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*book.Book
	for _, b := range r.books {
		if b.UserID == userID && b.DeletedAt == nil {
			out = append(out, cloneBook(b))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return bookrepo.ErrNotFound
	}
	r.books[b.ID] = cloneBook(b)
	return nil
}

func (r *memBookRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.DeletedAt != nil {
		return bookrepo.ErrNotFound
	}
	now := b.UpdatedAt
	b.DeletedAt = &now
	return nil
}

// newTestRouter 构造挂好书籍路由的引擎，用固定用户替代JWT中间件
func newTestRouter(t *testing.T) (*gin.Engine, *booksvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := local.NewLocalStorage(t.TempDir(), "http://localhost:7080/files", 3600)
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	svc := booksvc.NewService(
		&memBookRepo{books: make(map[string]*book.Book)},
		assets.NewStore(backend), nil, nil,
	)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(
			ctxutil.WithUserID(c.Request.Context(), testUserID))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(v1)
	return engine, svc
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func seedBook(t *testing.T, svc *booksvc.Service) (*book.Book, *book.Story) {
	t.Helper()
	ctx := context.Background()
	b, err := svc.CreateBook(ctx, testUserID, "灯塔之约", "海滨小镇群像", "近代海滨小镇", "16:9", "水彩插画")
	if err != nil {
		t.Fatalf("创建书籍失败: %v", err)
	}
	st, err := svc.CreateStory(ctx, testUserID, b.ID, "第一卷", "故事的起点", "港口")
	if err != nil {
		t.Fatalf("创建故事失败: %v", err)
	}
	return b, st
}

func TestElementRoutes(t *testing.T) {
	Convey("元素路由挂在故事层级下", t, func() {
		engine, svc := newTestRouter(t)
		b, st := seedBook(t, svc)

		Convey("按故事路径新增元素成功", func() {
			w := doJSON(engine, http.MethodPost,
				"/api/v1/books/"+b.ID+"/stories/"+st.ID+"/elements",
				gin.H{"name": "灯塔", "description": "镇口的旧灯塔", "category": "地点"})
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Code int `json:"code"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, 0)

			updated, err := svc.GetStory(context.Background(), testUserID, b.ID, st.ID)
			So(err, ShouldBeNil)
			So(updated.Element("灯塔"), ShouldNotBeNil)
		})

		Convey("更新、改名、删除同样走故事路径", func() {
			w := doJSON(engine, http.MethodPost,
				"/api/v1/books/"+b.ID+"/stories/"+st.ID+"/elements",
				gin.H{"name": "灯塔", "description": "镇口的旧灯塔"})
			So(w.Code, ShouldEqual, http.StatusOK)

			w = doJSON(engine, http.MethodPut,
				"/api/v1/books/"+b.ID+"/stories/"+st.ID+"/elements/灯塔",
				gin.H{"description": "翻修后的灯塔"})
			So(w.Code, ShouldEqual, http.StatusOK)

			w = doJSON(engine, http.MethodPost,
				"/api/v1/books/"+b.ID+"/stories/"+st.ID+"/elements/灯塔/rename",
				gin.H{"new_name": "老灯塔"})
			So(w.Code, ShouldEqual, http.StatusOK)

			w = doJSON(engine, http.MethodDelete,
				"/api/v1/books/"+b.ID+"/stories/"+st.ID+"/elements/老灯塔", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("不带故事段的旧路径没有路由", func() {
			w := doJSON(engine, http.MethodPost,
				"/api/v1/books/"+b.ID+"/elements",
				gin.H{"name": "灯塔", "description": "镇口的旧灯塔"})
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRenameMissingCharacterOverHTTP(t *testing.T) {
	Convey("改名不存在的书级角色返回404而不是崩溃", t, func() {
		engine, svc := newTestRouter(t)
		b, _ := seedBook(t, svc)

		w := doJSON(engine, http.MethodPost,
			"/api/v1/books/"+b.ID+"/characters/Ghost/rename",
			gin.H{"new_name": "Knight"})
		So(w.Code, ShouldEqual, http.StatusNotFound)

		var resp struct {
			Code int `json:"code"`
		}
		So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
		So(resp.Code, ShouldEqual, 40401)
	})
}
