// Package book 实现书籍层级（Book → Story → Scene）的业务编排：
// 增删改查、版面解析、引用完整性校验、角色跨级迁移与导入导出。
package book

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/id"
	"fable/internal/pkg/imagegen"
	bookrepo "fable/internal/repository/book"
)

// PromptDrafter 提示词草拟能力（可选依赖）
// 未配置文本模型时为 nil，生成接口回落到调用方提供的提示词
type PromptDrafter interface {
	DraftCharacterPrompt(ctx context.Context, b *book.Book, ch *book.Character) (string, error)
	DraftScenePrompt(ctx context.Context, b *book.Book, st *book.Story, sc *book.Scene) (string, error)
}

// Service 书籍服务
type Service struct {
	repo   bookrepo.BookRepository
	assets *assets.Store

	// 可选依赖：未配置时相应接口返回不可用错误
	imageProvider imagegen.Provider
	drafter       PromptDrafter

	// 可选的访问URL缓存，缓存TTL短于预签名有效期
	urlCache *cache.RedisCache

	// 同一本书的迁移请求串行化，避免两次promote/demote竞争同一份角色列表
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService 创建书籍服务
func NewService(repo bookrepo.BookRepository, assetStore *assets.Store, provider imagegen.Provider, drafter PromptDrafter) *Service {
	return &Service{
		repo:          repo,
		assets:        assetStore,
		imageProvider: provider,
		drafter:       drafter,
		locks:         make(map[string]*sync.Mutex),
	}
}

// SetURLCache 启用资产访问URL的Redis缓存
func (s *Service) SetURLCache(c *cache.RedisCache) {
	s.urlCache = c
}

// assetURL 生成资产访问URL，启用缓存时优先读缓存
func (s *Service) assetURL(ctx context.Context, scope, name, assetID string) (string, error) {
	key := cache.AssetURLCacheKey(scope, name, assetID)
	if s.urlCache != nil {
		var cached string
		if err := s.urlCache.Get(ctx, key, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	url, err := s.assets.URL(ctx, scope, name, assetID)
	if err != nil {
		return "", err
	}
	if s.urlCache != nil {
		if err := s.urlCache.Set(ctx, key, url, cache.AssetURLCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("写入URL缓存失败")
		}
	}
	return url, nil
}

// bookLock 取得某本书的迁移锁
func (s *Service) bookLock(bookID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[bookID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[bookID] = l
	}
	return l
}

// loadOwnedBook 加载书籍并校验归属
func (s *Service) loadOwnedBook(ctx context.Context, userID, bookID string) (*book.Book, error) {
	b, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, bookrepo.ErrNotFound
	}
	return b, nil
}

// save 校验后持久化聚合
// 校验错误阻断写入：引用完整性问题必须修复后才能落库
func (s *Service) save(ctx context.Context, b *book.Book) error {
	if result := ValidateBook(b); !result.IsValid {
		return &ValidationError{Result: result}
	}
	b.Touch()
	return s.repo.Update(ctx, b)
}

// ValidationError 校验失败错误，携带全部违规项
type ValidationError struct {
	Result *ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("校验失败：%d处违规", len(e.Result.Errors))
}

// newID 生成实体ID
func newID() string {
	return id.New()
}
