package book

import (
	"context"

	"fable/internal/model/book"
)

// CreateStory 在书中新建故事
func (s *Service) CreateStory(ctx context.Context, userID, bookID, title, description, backgroundSetup string) (*book.Story, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	st := book.NewStory(title, description, backgroundSetup)
	st.ID = newID()
	b.AddStory(*st)

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return b.Story(st.ID), nil
}

// GetStory 获取故事详情
func (s *Service) GetStory(ctx context.Context, userID, bookID, storyID string) (*book.Story, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	return st, nil
}

// StoryUpdate 故事可更新字段，nil表示保持原值
type StoryUpdate struct {
	Title           *string
	Description     *string
	BackgroundSetup *string
}

// UpdateStory 更新故事基本信息
func (s *Service) UpdateStory(ctx context.Context, userID, bookID, storyID string, upd StoryUpdate) (*book.Story, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}

	if upd.Title != nil {
		st.Title = *upd.Title
	}
	if upd.Description != nil {
		st.Description = *upd.Description
	}
	if upd.BackgroundSetup != nil {
		st.BackgroundSetup = *upd.BackgroundSetup
	}
	st.Touch()

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteStory 删除故事（连同其下所有场景）
func (s *Service) DeleteStory(ctx context.Context, userID, bookID, storyID string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	st := b.Story(storyID)
	if st == nil {
		return ErrStoryNotFound
	}
	removed := *st
	b.RemoveStory(storyID)
	if err := s.save(ctx, b); err != nil {
		return err
	}
	s.cleanupStoryAssets(ctx, &removed)
	return nil
}

// SetStoryLayout 设置故事级版面覆盖
func (s *Service) SetStoryLayout(ctx context.Context, userID, bookID, storyID string, layout *book.LayoutOverride) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	st := b.Story(storyID)
	if st == nil {
		return ErrStoryNotFound
	}
	st.Layout = layout
	st.Touch()
	return s.save(ctx, b)
}

// ClearStoryLayout 清除故事级版面覆盖
func (s *Service) ClearStoryLayout(ctx context.Context, userID, bookID, storyID string) error {
	return s.SetStoryLayout(ctx, userID, bookID, storyID, nil)
}
