package book

import (
	"context"
	"errors"

	"fable/internal/model/book"
)

// 元素相关错误
var (
	ErrDuplicateElement = errors.New("同名元素已存在")
	ErrElementNotFound  = errors.New("元素不存在")
)

// AddElement 新增故事元素（元素只有故事级）
func (s *Service) AddElement(ctx context.Context, userID, bookID, storyID, name, description, category string) (*book.Element, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	if err := st.AddElement(book.Element{Name: name, Description: description, Category: category}); err != nil {
		return nil, ErrDuplicateElement
	}
	st.Touch()
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return st.Element(name), nil
}

// UpdateElement 更新元素描述与分类
func (s *Service) UpdateElement(ctx context.Context, userID, bookID, storyID, name string, description, category *string) (*book.Element, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	el := st.Element(name)
	if el == nil {
		return nil, ErrElementNotFound
	}
	if description != nil {
		el.Description = *description
	}
	if category != nil {
		el.Category = *category
	}
	st.Touch()
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return el, nil
}

// RenameElement 重命名元素，同步改写故事里所有场景的引用
func (s *Service) RenameElement(ctx context.Context, userID, bookID, storyID, oldName, newName string) (*book.Element, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	if st.Element(oldName) == nil {
		return nil, ErrElementNotFound
	}
	if err := st.RenameElement(oldName, newName); err != nil {
		return nil, ErrDuplicateElement
	}
	st.Touch()
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return st.Element(newName), nil
}

// DeleteElement 删除元素并清理其所有场景引用
func (s *Service) DeleteElement(ctx context.Context, userID, bookID, storyID, name string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	st := b.Story(storyID)
	if st == nil {
		return ErrStoryNotFound
	}
	if !st.RemoveElement(name) {
		return ErrElementNotFound
	}
	st.Touch()
	return s.save(ctx, b)
}
