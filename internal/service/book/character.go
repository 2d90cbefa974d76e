package book

import (
	"context"
	"errors"

	"fable/internal/model/book"
)

// ErrDuplicateCharacter 目标范围已存在同名角色
var ErrDuplicateCharacter = errors.New("同名角色已存在")

// AddBookCharacter 新增书级角色（全书共享）
func (s *Service) AddBookCharacter(ctx context.Context, userID, bookID, name, description string) (*book.Character, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if err := b.AddCharacter(book.Character{Name: name, Description: description}); err != nil {
		return nil, ErrDuplicateCharacter
	}
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return b.Character(name), nil
}

// AddStoryCharacter 新增故事级角色
func (s *Service) AddStoryCharacter(ctx context.Context, userID, bookID, storyID, name, description string) (*book.Character, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	if err := st.AddCharacter(book.Character{Name: name, Description: description}); err != nil {
		return nil, ErrDuplicateCharacter
	}
	st.Touch()
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return st.Character(name), nil
}

// GetCharacter 按名称查找角色（storyID为空查书级）
func (s *Service) GetCharacter(ctx context.Context, userID, bookID, storyID, name string) (*book.Character, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	ch, _, err := s.locateCharacter(b, storyID, name)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// UpdateCharacterDescription 更新角色描述
func (s *Service) UpdateCharacterDescription(ctx context.Context, userID, bookID, storyID, name, description string) (*book.Character, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	ch, _, err := s.locateCharacter(b, storyID, name)
	if err != nil {
		return nil, err
	}
	ch.Description = description
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return ch, nil
}

// RenameCharacter 重命名角色
// 改名会同步改写同一故事里所有场景的引用；书级角色改名改写全书，
// 但持有同名故事级角色的故事除外（场景在那里解析到的是故事级角色）。
func (s *Service) RenameCharacter(ctx context.Context, userID, bookID, storyID, oldName, newName string) (*book.Character, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if storyID == "" {
		if b.Character(oldName) == nil {
			return nil, ErrCharacterNotFound
		}
		if err := b.RenameCharacter(oldName, newName); err != nil {
			return nil, ErrDuplicateCharacter
		}
		if err := s.save(ctx, b); err != nil {
			return nil, err
		}
		return b.Character(newName), nil
	}

	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	if st.Character(oldName) == nil {
		return nil, ErrCharacterNotFound
	}
	if err := st.RenameCharacter(oldName, newName); err != nil {
		return nil, ErrDuplicateCharacter
	}
	st.Touch()
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return st.Character(newName), nil
}

// DeleteCharacter 删除角色并清理其所有场景引用与画廊资产
func (s *Service) DeleteCharacter(ctx context.Context, userID, bookID, storyID, name string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}

	ch, scope, err := s.locateCharacter(b, storyID, name)
	if err != nil {
		return err
	}
	gallery := append([]book.ImageRecord{}, ch.ImageGallery...)
	chName := ch.Name

	if storyID == "" {
		if !b.RemoveCharacter(name) {
			return ErrCharacterNotFound
		}
	} else {
		st := b.Story(storyID)
		if !st.RemoveCharacter(name) {
			return ErrCharacterNotFound
		}
		st.Touch()
	}

	if err := s.save(ctx, b); err != nil {
		return err
	}

	// 元数据已删，资产清理失败只记日志
	s.deleteEvictedAssets(ctx, scope, chName, gallery)
	return nil
}

// SelectCharacterImage 设置角色当前选中的画廊图片
func (s *Service) SelectCharacterImage(ctx context.Context, userID, bookID, storyID, name, imageID string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	ch, _, err := s.locateCharacter(b, storyID, name)
	if err != nil {
		return err
	}
	if err := ch.SelectImage(imageID); err != nil {
		return err
	}
	return s.save(ctx, b)
}

// SetCharacterReferenceImage 设置角色参考图（生成时的引导图）
func (s *Service) SetCharacterReferenceImage(ctx context.Context, userID, bookID, storyID, name, imageID string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	ch, _, err := s.locateCharacter(b, storyID, name)
	if err != nil {
		return err
	}
	if imageID != "" && ch.Image(imageID) == nil {
		return book.ErrImageNotFound
	}
	ch.SetReferenceImage(imageID)
	return s.save(ctx, b)
}

// DeleteCharacterImage 删除角色画廊中的一张图片
func (s *Service) DeleteCharacterImage(ctx context.Context, userID, bookID, storyID, name, imageID string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	ch, scope, err := s.locateCharacter(b, storyID, name)
	if err != nil {
		return err
	}
	if !ch.RemoveImage(imageID) {
		return book.ErrImageNotFound
	}
	if err := s.save(ctx, b); err != nil {
		return err
	}
	s.deleteEvictedAssets(ctx, scope, ch.Name, []book.ImageRecord{{ID: imageID}})
	return nil
}
