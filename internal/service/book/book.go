package book

import (
	"context"

	"fable/internal/model/book"
)

// CreateBook 创建书籍
func (s *Service) CreateBook(ctx context.Context, userID, title, description, backgroundSetup, aspectRatio, style string) (*book.Book, error) {
	b := book.NewBook(userID, title, description, backgroundSetup)
	b.ID = newID()
	b.AspectRatio = aspectRatio
	b.Style = style

	if result := ValidateBook(b); !result.IsValid {
		return nil, &ValidationError{Result: result}
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBook 获取书籍详情
func (s *Service) GetBook(ctx context.Context, userID, bookID string) (*book.Book, error) {
	return s.loadOwnedBook(ctx, userID, bookID)
}

// ListBooks 分页列出用户的书籍
func (s *Service) ListBooks(ctx context.Context, userID string, page, pageSize int64) ([]*book.Book, int64, error) {
	return s.repo.FindByUserID(ctx, userID, page, pageSize)
}

// BookUpdate 书籍可更新字段，nil表示保持原值
type BookUpdate struct {
	Title           *string
	Description     *string
	BackgroundSetup *string
	AspectRatio     *string
	Style           *string
}

// UpdateBook 更新书籍基本信息
func (s *Service) UpdateBook(ctx context.Context, userID, bookID string, upd BookUpdate) (*book.Book, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.BackgroundSetup != nil {
		b.BackgroundSetup = *upd.BackgroundSetup
	}
	if upd.AspectRatio != nil {
		b.AspectRatio = *upd.AspectRatio
	}
	if upd.Style != nil {
		b.Style = *upd.Style
	}

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook 删除书籍（软删除，连同其下所有故事与场景）
// 书下所有画廊与场景历史的资产一并尽力清理
func (s *Service) DeleteBook(ctx context.Context, userID, bookID string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, bookID); err != nil {
		return err
	}
	s.cleanupBookAssets(ctx, b)
	return nil
}

// SetBookDefaultLayout 设置书籍默认版面
func (s *Service) SetBookDefaultLayout(ctx context.Context, userID, bookID string, layout *book.LayoutOverride) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	b.DefaultLayout = layout
	return s.save(ctx, b)
}

// ClearBookDefaultLayout 清除书籍默认版面
func (s *Service) ClearBookDefaultLayout(ctx context.Context, userID, bookID string) error {
	return s.SetBookDefaultLayout(ctx, userID, bookID, nil)
}

// ValidateBookByID 校验整本书的引用完整性（只读）
func (s *Service) ValidateBookByID(ctx context.Context, userID, bookID string) (*ValidationResult, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return ValidateBook(b), nil
}
