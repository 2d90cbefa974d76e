package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
)

// MigrationErrorCode 迁移错误码
type MigrationErrorCode string

const (
	// MigrationNotFound 书籍或故事不存在
	MigrationNotFound MigrationErrorCode = "NotFound"
	// MigrationNotFoundInScope 角色在预期的归属范围内不存在
	MigrationNotFoundInScope MigrationErrorCode = "NotFoundInScope"
	// MigrationConflict 目标范围已存在同名角色
	MigrationConflict MigrationErrorCode = "Conflict"
	// MigrationAmbiguousTarget 角色被多个故事使用，下放目标不唯一
	MigrationAmbiguousTarget MigrationErrorCode = "AmbiguousTarget"
	// MigrationTargetRequired 无法推断下放目标，需要显式指定
	MigrationTargetRequired MigrationErrorCode = "TargetRequired"
	// MigrationValidationFailed 业务规则校验失败
	MigrationValidationFailed MigrationErrorCode = "ValidationFailed"
)

// MigrationError 迁移失败错误
// 带上受影响的名称与使用情况，调用方可以直接呈现或引导用户消歧
type MigrationError struct {
	Code          MigrationErrorCode `json:"code"`
	Message       string             `json:"message"`
	CharacterName string             `json:"character_name,omitempty"`
	Usage         *CharacterUsage    `json:"usage,omitempty"`
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StoryUsage 单个故事对角色的使用情况
type StoryUsage struct {
	StoryID    string `json:"story_id"`
	StoryTitle string `json:"story_title"`
	SceneCount int    `json:"scene_count"`
}

// CharacterUsage 角色在整本书中的使用情况汇总
type CharacterUsage struct {
	StoriesUsing    []StoryUsage `json:"stories_using"`
	TotalSceneCount int          `json:"total_scene_count"`
}

// ComputeUsage 统计书中每个故事通过场景引用该角色名的次数（忽略大小写）
func ComputeUsage(b *book.Book, characterName string) *CharacterUsage {
	usage := &CharacterUsage{StoriesUsing: []StoryUsage{}}
	for i := range b.Stories {
		st := &b.Stories[i]
		count := 0
		for j := range st.Scenes {
			for _, ref := range st.Scenes[j].Characters {
				if strings.EqualFold(ref, characterName) {
					count++
					break
				}
			}
		}
		if count > 0 {
			usage.StoriesUsing = append(usage.StoriesUsing, StoryUsage{
				StoryID:    st.ID,
				StoryTitle: st.Title,
				SceneCount: count,
			})
			usage.TotalSceneCount += count
		}
	}
	return usage
}

// MigrationResult 迁移结果
type MigrationResult struct {
	CharacterName string          `json:"character_name"`
	FromScope     string          `json:"from_scope"` // book / story:<id>
	ToScope       string          `json:"to_scope"`
	MovedAssets   int             `json:"moved_assets"`  // 成功搬移的资产数
	FailedAssets  int             `json:"failed_assets"` // 搬移失败的资产数（元数据照常迁移）
	Usage         *CharacterUsage `json:"usage,omitempty"`
}

// PromoteCharacter 把故事级角色上升为书级角色
// 同一本书的迁移串行执行；元数据移动是权威结果，
// 个别资产搬移失败只记日志，由下次画廊加载时的陈旧清理兜底。
func (s *Service) PromoteCharacter(ctx context.Context, userID, bookID, storyID, characterName string) (*MigrationResult, error) {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, &MigrationError{Code: MigrationNotFound, Message: "书籍不存在"}
	}
	st := b.Story(storyID)
	if st == nil {
		return nil, &MigrationError{Code: MigrationNotFound, Message: "故事不存在"}
	}

	if st.Character(characterName) == nil {
		return nil, &MigrationError{
			Code:          MigrationNotFoundInScope,
			Message:       fmt.Sprintf("故事「%s」中没有角色「%s」", st.Title, characterName),
			CharacterName: characterName,
		}
	}
	// 书级已有同名角色时拒绝：上升绝不静默合并或覆盖
	if existing := b.Character(characterName); existing != nil {
		return nil, &MigrationError{
			Code:          MigrationConflict,
			Message:       fmt.Sprintf("书级已存在同名角色「%s」", existing.Name),
			CharacterName: characterName,
		}
	}

	ch, _ := st.DetachCharacter(characterName)
	normalizeImageRecords(ch.ImageGallery)
	if err := b.AddCharacter(ch); err != nil {
		return nil, &MigrationError{Code: MigrationConflict, Message: err.Error(), CharacterName: characterName}
	}
	st.Touch()

	moved, failed := s.migrateGalleryAssets(ctx, ch,
		assets.StoryScope(st.ID), assets.BookScope(b.ID))

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}

	return &MigrationResult{
		CharacterName: ch.Name,
		FromScope:     "story:" + st.ID,
		ToScope:       "book",
		MovedAssets:   moved,
		FailedAssets:  failed,
	}, nil
}

// DemoteCharacter 把书级角色下放到某个故事
// targetStoryID 为空时按使用情况自动推断：恰好一个故事在用则选它，
// 多个故事在用拒绝（需要人工消歧），没有故事在用则要求显式指定。
func (s *Service) DemoteCharacter(ctx context.Context, userID, bookID, characterName, targetStoryID string) (*MigrationResult, error) {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, &MigrationError{Code: MigrationNotFound, Message: "书籍不存在"}
	}

	if b.Character(characterName) == nil {
		return nil, &MigrationError{
			Code:          MigrationNotFoundInScope,
			Message:       fmt.Sprintf("书级没有角色「%s」", characterName),
			CharacterName: characterName,
		}
	}

	usage := ComputeUsage(b, characterName)

	var target *book.Story
	if targetStoryID != "" {
		// 显式指定目标时不看使用情况，但目标必须存在且无同名角色
		target = b.Story(targetStoryID)
		if target == nil {
			return nil, &MigrationError{Code: MigrationNotFound, Message: "目标故事不存在"}
		}
	} else {
		switch len(usage.StoriesUsing) {
		case 1:
			target = b.Story(usage.StoriesUsing[0].StoryID)
		case 0:
			return nil, &MigrationError{
				Code:          MigrationTargetRequired,
				Message:       fmt.Sprintf("没有故事使用角色「%s」，请显式指定目标故事", characterName),
				CharacterName: characterName,
				Usage:         usage,
			}
		default:
			return nil, &MigrationError{
				Code:          MigrationAmbiguousTarget,
				Message:       fmt.Sprintf("角色「%s」被%d个故事使用，无法自动选择下放目标", characterName, len(usage.StoriesUsing)),
				CharacterName: characterName,
				Usage:         usage,
			}
		}
	}

	if existing := target.Character(characterName); existing != nil {
		return nil, &MigrationError{
			Code:          MigrationConflict,
			Message:       fmt.Sprintf("故事「%s」已存在同名角色「%s」", target.Title, existing.Name),
			CharacterName: characterName,
			Usage:         usage,
		}
	}

	ch, _ := b.DetachCharacter(characterName)
	normalizeImageRecords(ch.ImageGallery)
	if err := target.AddCharacter(ch); err != nil {
		return nil, &MigrationError{Code: MigrationConflict, Message: err.Error(), CharacterName: characterName}
	}
	target.Touch()

	moved, failed := s.migrateGalleryAssets(ctx, ch,
		assets.BookScope(b.ID), assets.StoryScope(target.ID))

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}

	return &MigrationResult{
		CharacterName: ch.Name,
		FromScope:     "book",
		ToScope:       "story:" + target.ID,
		MovedAssets:   moved,
		FailedAssets:  failed,
		Usage:         usage,
	}, nil
}

// migrateGalleryAssets 把角色图库资产从源作用域搬到目标作用域
// 逐张顺序处理，每张先写目标再删源：中途崩溃也不会出现
// 源已删而目标未写成的状态。单张失败不终止整体迁移。
func (s *Service) migrateGalleryAssets(ctx context.Context, ch book.Character, srcScope, dstScope string) (moved, failed int) {
	if s.assets == nil {
		return 0, 0
	}
	for _, rec := range ch.ImageGallery {
		if err := s.assets.Move(ctx, srcScope, ch.Name, dstScope, ch.Name, rec.ID); err != nil {
			failed++
			log.Warn().Err(err).
				Str("character", ch.Name).
				Str("asset_id", rec.ID).
				Str("from", srcScope).
				Str("to", dstScope).
				Msg("迁移画廊资产失败，元数据照常迁移")
			continue
		}
		moved++
	}
	return moved, failed
}

// normalizeImageRecords 补齐来源不明的图片记录的模型名
func normalizeImageRecords(recs []book.ImageRecord) {
	for i := range recs {
		if recs[i].ModelName == "" {
			recs[i].ModelName = book.UnknownModelName
		}
	}
}
