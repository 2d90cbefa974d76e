package book

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
	"fable/internal/pkg/imagegen"
)

// 画廊相关错误
var (
	ErrImageGenUnavailable = errors.New("图片生成未配置")
	ErrCharacterNotFound   = errors.New("角色不存在")
	ErrStoryNotFound       = errors.New("故事不存在")
	ErrSceneNotFound       = errors.New("场景不存在")
	ErrPromptRequired      = errors.New("缺少提示词，且未配置提示词草拟模型")
)

// GalleryImage 画廊条目（元数据 + 访问URL）
type GalleryImage struct {
	Record book.ImageRecord `json:"record"`
	URL    string           `json:"url"`
}

// LoadGallery 加载角色画廊并做陈旧引用清理
// storyID 为空表示书级角色。资产已丢失的记录被移除，选中图
// 失效时重指向剩余的第一张（或清空），修正只持久化一次。
func (s *Service) LoadGallery(ctx context.Context, userID, bookID, storyID, characterName string) ([]GalleryImage, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	ch, scope, err := s.locateCharacter(b, storyID, characterName)
	if err != nil {
		return nil, err
	}

	if s.cleanStaleRecords(ctx, ch, scope) {
		if err := s.save(ctx, b); err != nil {
			return nil, err
		}
	}

	images := make([]GalleryImage, 0, len(ch.ImageGallery))
	for _, rec := range ch.ImageGallery {
		url, err := s.assetURL(ctx, scope, ch.Name, rec.ID)
		if err != nil {
			log.Warn().Err(err).Str("asset_id", rec.ID).Msg("生成资产访问URL失败")
			continue
		}
		images = append(images, GalleryImage{Record: rec, URL: url})
	}
	return images, nil
}

// cleanStaleRecords 清掉资产已不存在的画廊记录，返回是否有修正
func (s *Service) cleanStaleRecords(ctx context.Context, ch *book.Character, scope string) bool {
	if s.assets == nil {
		return false
	}

	kept := ch.ImageGallery[:0]
	removed := 0
	for _, rec := range ch.ImageGallery {
		ok, err := s.assets.Exists(ctx, scope, ch.Name, rec.ID)
		if err != nil {
			// 存储暂时不可达时保守起见不清理
			log.Warn().Err(err).Str("asset_id", rec.ID).Msg("检查资产存在性失败，跳过清理")
			kept = append(kept, rec)
			continue
		}
		if !ok {
			removed++
			log.Info().
				Str("character", ch.Name).
				Str("asset_id", rec.ID).
				Msg("画廊记录对应的资产已丢失，移除记录")
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return false
	}
	ch.ImageGallery = kept

	if ch.SelectedImageID != "" && ch.Image(ch.SelectedImageID) == nil {
		if len(ch.ImageGallery) > 0 {
			ch.SelectedImageID = ch.ImageGallery[0].ID
		} else {
			ch.SelectedImageID = ""
		}
	}
	if ch.ReferenceImageID != "" && ch.Image(ch.ReferenceImageID) == nil {
		ch.ReferenceImageID = ""
	}
	return true
}

// locateCharacter 在书级或故事级定位角色，返回角色与资产作用域
func (s *Service) locateCharacter(b *book.Book, storyID, characterName string) (*book.Character, string, error) {
	if storyID == "" {
		ch := b.Character(characterName)
		if ch == nil {
			return nil, "", ErrCharacterNotFound
		}
		return ch, assets.BookScope(b.ID), nil
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, "", ErrStoryNotFound
	}
	ch := st.Character(characterName)
	if ch == nil {
		return nil, "", ErrCharacterNotFound
	}
	return ch, assets.StoryScope(st.ID), nil
}

// GenerateCharacterImage 为角色生成一张画廊图片
// prompt 为空时用文本模型按书籍风格和角色设定草拟。
// 入库超出上限时最旧的记录被淘汰，对应资产一并删除。
func (s *Service) GenerateCharacterImage(ctx context.Context, userID, bookID, storyID, characterName, prompt string) (*GalleryImage, error) {
	if s.imageProvider == nil {
		return nil, ErrImageGenUnavailable
	}

	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	ch, scope, err := s.locateCharacter(b, storyID, characterName)
	if err != nil {
		return nil, err
	}

	if prompt == "" {
		if s.drafter == nil {
			return nil, ErrPromptRequired
		}
		prompt, err = s.drafter.DraftCharacterPrompt(ctx, b, ch)
		if err != nil {
			return nil, err
		}
	}

	data, err := s.imageProvider.GenerateImage(ctx, prompt, imageSizeFor(b.AspectRatio))
	if err != nil {
		return nil, err
	}

	rec := book.ImageRecord{
		ID:         newID(),
		ModelName:  s.imageProvider.ModelName(),
		Timestamp:  time.Now(),
		PromptHash: imagegen.PromptHash(prompt),
	}
	if err := s.assets.Put(ctx, scope, ch.Name, rec.ID, data); err != nil {
		return nil, err
	}

	evicted := ch.AddImage(rec)
	s.deleteEvictedAssets(ctx, scope, ch.Name, evicted)

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}

	url, err := s.assetURL(ctx, scope, ch.Name, rec.ID)
	if err != nil {
		return nil, err
	}
	return &GalleryImage{Record: rec, URL: url}, nil
}

// GenerateSceneImage 为场景生成一张插图并记入生成历史
// 历史超出上限时最旧的条目被淘汰，对应资产一并删除。
func (s *Service) GenerateSceneImage(ctx context.Context, userID, bookID, storyID, sceneID, prompt string) (*GalleryImage, error) {
	if s.imageProvider == nil {
		return nil, ErrImageGenUnavailable
	}

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

	if prompt == "" {
		if s.drafter == nil {
			return nil, ErrPromptRequired
		}
		var err error
		prompt, err = s.drafter.DraftScenePrompt(ctx, b, st, sc)
		if err != nil {
			return nil, err
		}
	}

	data, err := s.imageProvider.GenerateImage(ctx, prompt, imageSizeFor(b.AspectRatio))
	if err != nil {
		return nil, err
	}

	scope := assets.StoryScope(st.ID)
	rec := book.ImageRecord{
		ID:         newID(),
		ModelName:  s.imageProvider.ModelName(),
		Timestamp:  time.Now(),
		PromptHash: imagegen.PromptHash(prompt),
	}
	// 场景资产以场景ID为名组织，标题改名不影响资产定位
	if err := s.assets.Put(ctx, scope, sc.ID, rec.ID, data); err != nil {
		return nil, err
	}

	evicted := sc.AppendImageHistory(rec)
	s.deleteEvictedAssets(ctx, scope, sc.ID, evicted)
	sc.Touch()
	st.Touch()

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}

	url, err := s.assetURL(ctx, scope, sc.ID, rec.ID)
	if err != nil {
		return nil, err
	}
	return &GalleryImage{Record: rec, URL: url}, nil
}

// deleteEvictedAssets 删除被淘汰记录对应的资产，失败只记日志
func (s *Service) deleteEvictedAssets(ctx context.Context, scope, name string, evicted []book.ImageRecord) {
	for _, ev := range evicted {
		if err := s.assets.Delete(ctx, scope, name, ev.ID); err != nil {
			log.Warn().Err(err).Str("asset_id", ev.ID).Msg("删除被淘汰的资产失败")
		}
	}
}

// 级联删除后的资产清理，尽力而为：删除失败只记录，不影响元数据结果
func (s *Service) cleanupSceneAssets(ctx context.Context, storyID string, sc *book.Scene) {
	s.deleteEvictedAssets(ctx, assets.StoryScope(storyID), sc.ID, sc.ImageHistory)
}

func (s *Service) cleanupStoryAssets(ctx context.Context, st *book.Story) {
	scope := assets.StoryScope(st.ID)
	for i := range st.Characters {
		s.deleteEvictedAssets(ctx, scope, st.Characters[i].Name, st.Characters[i].ImageGallery)
	}
	for i := range st.Scenes {
		s.deleteEvictedAssets(ctx, scope, st.Scenes[i].ID, st.Scenes[i].ImageHistory)
	}
}

func (s *Service) cleanupBookAssets(ctx context.Context, b *book.Book) {
	scope := assets.BookScope(b.ID)
	for i := range b.Characters {
		s.deleteEvictedAssets(ctx, scope, b.Characters[i].Name, b.Characters[i].ImageGallery)
	}
	for i := range b.Stories {
		s.cleanupStoryAssets(ctx, &b.Stories[i])
	}
}

// imageSizeFor 按全书画幅换算生成图片尺寸，未知画幅交给Provider默认
func imageSizeFor(aspectRatio string) string {
	switch aspectRatio {
	case "16:9":
		return "1280x720"
	case "9:16":
		return "720x1280"
	case "4:3":
		return "1024x768"
	case "1:1":
		return "1024x1024"
	default:
		return ""
	}
}
