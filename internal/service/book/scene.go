package book

import (
	"context"

	"fable/internal/model/book"
)

// CreateScene 在故事中新建场景
func (s *Service) CreateScene(ctx context.Context, userID, bookID, storyID, title, description string) (*book.Scene, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}

	sc := book.NewScene(title, description)
	sc.ID = newID()
	st.AddScene(*sc)
	st.Touch()

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return st.Scene(sc.ID), nil
}

// GetScene 获取场景详情
func (s *Service) GetScene(ctx context.Context, userID, bookID, storyID, sceneID string) (*book.Scene, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	sc := st.Scene(sceneID)
	if sc == nil {
		return nil, ErrSceneNotFound
	}
	return sc, nil
}

// SceneUpdate 场景可更新字段，nil表示保持原值
type SceneUpdate struct {
	Title        *string
	Description  *string
	TextPanel    *string
	DiagramPanel *book.DiagramPanel
	ClearDiagram bool
	Characters   *[]string
	Elements     *[]string
}

// UpdateScene 更新场景内容与引用列表
// 引用列表整体替换，悬空引用由落库前的校验拦截
func (s *Service) UpdateScene(ctx context.Context, userID, bookID, storyID, sceneID string, upd SceneUpdate) (*book.Scene, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	sc := st.Scene(sceneID)
	if sc == nil {
		return nil, ErrSceneNotFound
	}

	if upd.Title != nil {
		sc.Title = *upd.Title
	}
	if upd.Description != nil {
		sc.Description = *upd.Description
	}
	if upd.TextPanel != nil {
		sc.TextPanel = *upd.TextPanel
	}
	if upd.ClearDiagram {
		sc.DiagramPanel = nil
	} else if upd.DiagramPanel != nil {
		sc.DiagramPanel = upd.DiagramPanel
	}
	if upd.Characters != nil {
		sc.Characters = append([]string{}, (*upd.Characters)...)
	}
	if upd.Elements != nil {
		sc.Elements = append([]string{}, (*upd.Elements)...)
	}
	sc.Touch()
	st.Touch()

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return sc, nil
}

// DeleteScene 删除场景
func (s *Service) DeleteScene(ctx context.Context, userID, bookID, storyID, sceneID string) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	st := b.Story(storyID)
	if st == nil {
		return ErrStoryNotFound
	}
	sc := st.Scene(sceneID)
	if sc == nil {
		return ErrSceneNotFound
	}
	removed := *sc
	st.RemoveScene(sceneID)
	st.Touch()
	if err := s.save(ctx, b); err != nil {
		return err
	}
	s.cleanupSceneAssets(ctx, st.ID, &removed)
	return nil
}

// ResolvedLayout 场景版面解析结果
type ResolvedLayout struct {
	Layout *book.LayoutOverride `json:"layout,omitempty"` // nil时前端使用系统默认(overlay)
	Source LayoutSource         `json:"source"`
}

// GetSceneLayout 解析场景实际生效的版面及其来源
func (s *Service) GetSceneLayout(ctx context.Context, userID, bookID, storyID, sceneID string) (*ResolvedLayout, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, ErrStoryNotFound
	}
	sc := st.Scene(sceneID)
	if sc == nil {
		return nil, ErrSceneNotFound
	}
	return &ResolvedLayout{
		Layout: ResolveLayout(sc, st, b),
		Source: LayoutSourceOf(sc, st, b),
	}, nil
}

// SetSceneLayout 设置场景级版面覆盖
func (s *Service) SetSceneLayout(ctx context.Context, userID, bookID, storyID, sceneID string, layout *book.LayoutOverride) error {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	st := b.Story(storyID)
	if st == nil {
		return ErrStoryNotFound
	}
	sc := st.Scene(sceneID)
	if sc == nil {
		return ErrSceneNotFound
	}
	if layout == nil {
		sc.ClearLayout()
	} else {
		sc.SetLayout(layout)
	}
	st.Touch()
	return s.save(ctx, b)
}

// ClearSceneLayout 清除场景级版面覆盖
func (s *Service) ClearSceneLayout(ctx context.Context, userID, bookID, storyID, sceneID string) error {
	return s.SetSceneLayout(ctx, userID, bookID, storyID, sceneID, nil)
}
