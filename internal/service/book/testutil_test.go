package book

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
	"fable/internal/pkg/storage/local"
	bookrepo "fable/internal/repository/book"
)

// memBookRepo 内存书籍仓库，读写都经过深拷贝，模拟真实仓库的读隔离
type memBookRepo struct {
	mu    sync.Mutex
	books map[string]*book.Book
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{books: make(map[string]*book.Book)}
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

const testUserID = "user-1"

// newTestService 构造带内存仓库与本地资产存储的服务
func newTestService(t *testing.T) (*Service, *memBookRepo, *assets.Store) {
	t.Helper()
	repo := newMemBookRepo()
	backend, err := local.NewLocalStorage(t.TempDir(), "http://localhost:7080/files", 3600)
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	store := assets.NewStore(backend)
	return NewService(repo, store, nil, nil), repo, store
}

// seedBook 造一本含一个故事一个场景的有效书并入库
func seedBook(t *testing.T, svc *Service) (*book.Book, *book.Story, *book.Scene) {
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
	sc, err := svc.CreateScene(ctx, testUserID, b.ID, st.ID, "相遇", "两人在码头初次相遇")
	if err != nil {
		t.Fatalf("创建场景失败: %v", err)
	}

	b, err = svc.GetBook(ctx, testUserID, b.ID)
	if err != nil {
		t.Fatalf("读取书籍失败: %v", err)
	}
	return b, b.Story(st.ID), b.Story(st.ID).Scene(sc.ID)
}
