// Package assets 管理角色画廊的图片资产
// 资产按作用域组织：书级资产和故事级资产分开存放，
// 角色在书与故事之间迁移时需要在两个作用域之间搬移资产。
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"fable/internal/pkg/storage"
)

const (
	// keyPrefix 资产key前缀
	keyPrefix = "galleries"

	// defaultURLExpiry 预签名URL默认有效期
	defaultURLExpiry = 1 * time.Hour

	// defaultContentType 画廊图片默认类型
	defaultContentType = "image/png"
)

// BookScope 书级资产作用域
// 故事级作用域直接使用storyID，加"book:"前缀避免两者冲突
func BookScope(bookID string) string {
	return "book:" + bookID
}

// StoryScope 故事级资产作用域
func StoryScope(storyID string) string {
	return storyID
}

// Store 图片资产存储
// 底层复用storage.Storage，key按 galleries/<scope>/<name>/<assetID> 组织
type Store struct {
	backend storage.Storage
}

// NewStore 创建资产存储
func NewStore(backend storage.Storage) *Store {
	return &Store{backend: backend}
}

// key 拼接资产key
// 角色名统一转小写，保证大小写不敏感的名字引用落到同一目录
func (s *Store) key(scope, name, assetID string) string {
	return fmt.Sprintf("%s/%s/%s/%s",
		keyPrefix,
		url.PathEscape(scope),
		url.PathEscape(strings.ToLower(name)),
		assetID,
	)
}

// Put 写入一张画廊图片
func (s *Store) Put(ctx context.Context, scope, name, assetID string, data []byte) error {
	_, err := s.backend.Upload(ctx, s.key(scope, name, assetID), bytes.NewReader(data), defaultContentType)
	if err != nil {
		return fmt.Errorf("上传资产失败: %w", err)
	}
	return nil
}

// Get 读取一张画廊图片
func (s *Store) Get(ctx context.Context, scope, name, assetID string) ([]byte, error) {
	rc, err := s.backend.Download(ctx, s.key(scope, name, assetID))
	if err != nil {
		return nil, fmt.Errorf("下载资产失败: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("读取资产失败: %w", err)
	}
	return data, nil
}

// Exists 检查资产是否存在
func (s *Store) Exists(ctx context.Context, scope, name, assetID string) (bool, error) {
	return s.backend.Exists(ctx, s.key(scope, name, assetID))
}

// Delete 删除一张画廊图片
// 资产不存在时不报错（清理操作需要幂等）
func (s *Store) Delete(ctx context.Context, scope, name, assetID string) error {
	if err := s.backend.Delete(ctx, s.key(scope, name, assetID)); err != nil {
		return fmt.Errorf("删除资产失败: %w", err)
	}
	return nil
}

// URL 获取资产的预签名访问URL
func (s *Store) URL(ctx context.Context, scope, name, assetID string) (string, error) {
	return s.backend.GetPresignedDownloadURL(ctx, s.key(scope, name, assetID), defaultURLExpiry)
}

// Copy 在两个作用域之间复制一张资产
// 迁移时先写目标再删源，任何一步失败都不影响已写入的数据
func (s *Store) Copy(ctx context.Context, srcScope, srcName, dstScope, dstName, assetID string) error {
	data, err := s.Get(ctx, srcScope, srcName, assetID)
	if err != nil {
		return err
	}
	return s.Put(ctx, dstScope, dstName, assetID, data)
}

// Move 在两个作用域之间搬移一张资产（先写后删）
// 删除源失败只记日志：目标副本已经可用，残留的源副本由陈旧清理兜底
func (s *Store) Move(ctx context.Context, srcScope, srcName, dstScope, dstName, assetID string) error {
	if err := s.Copy(ctx, srcScope, srcName, dstScope, dstName, assetID); err != nil {
		return err
	}
	if err := s.Delete(ctx, srcScope, srcName, assetID); err != nil {
		log.Warn().Err(err).
			Str("scope", srcScope).
			Str("name", srcName).
			Str("asset_id", assetID).
			Msg("迁移后删除源资产失败，等待陈旧清理回收")
	}
	return nil
}
