package book

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
)

func addGalleryAsset(t *testing.T, store *assets.Store, scope, name string, rec book.ImageRecord, data string) {
	t.Helper()
	if err := store.Put(context.Background(), scope, name, rec.ID, []byte(data)); err != nil {
		t.Fatalf("写入资产失败: %v", err)
	}
}

func TestPromoteCharacter(t *testing.T) {
	Convey("角色上升（故事级→书级）", t, func() {
		ctx := context.Background()
		svc, _, store := newTestService(t)
		b, st, sc := seedBook(t, svc)

		hero := book.Character{
			Name:        "Hero",
			Description: "主角",
			ImageGallery: []book.ImageRecord{
				{ID: "img-1", ModelName: "doubao-seedream"},
			},
			SelectedImageID: "img-1",
		}
		_, err := svc.AddStoryCharacter(ctx, testUserID, b.ID, st.ID, hero.Name, hero.Description)
		So(err, ShouldBeNil)

		Convey("上升后角色归属书级，资产搬到书级作用域", func() {
			// 画廊与资产直接准备在故事作用域
			loaded, _ := svc.GetBook(ctx, testUserID, b.ID)
			loaded.Story(st.ID).Character("Hero").ImageGallery = hero.ImageGallery
			loaded.Story(st.ID).Character("Hero").SelectedImageID = hero.SelectedImageID
			So(svc.save(ctx, loaded), ShouldBeNil)
			addGalleryAsset(t, store, assets.StoryScope(st.ID), "Hero", hero.ImageGallery[0], "png")

			result, err := svc.PromoteCharacter(ctx, testUserID, b.ID, st.ID, "hero")
			So(err, ShouldBeNil)
			So(result.CharacterName, ShouldEqual, "Hero")
			So(result.MovedAssets, ShouldEqual, 1)
			So(result.FailedAssets, ShouldEqual, 0)

			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			So(after.Character("Hero"), ShouldNotBeNil)
			So(after.Story(st.ID).Character("Hero"), ShouldBeNil)
			// 场景引用保留，改由书级角色解析
			So(after.Story(st.ID).Scene(sc.ID), ShouldNotBeNil)

			ok, _ := store.Exists(ctx, assets.BookScope(b.ID), "Hero", "img-1")
			So(ok, ShouldBeTrue)
			ok, _ = store.Exists(ctx, assets.StoryScope(st.ID), "Hero", "img-1")
			So(ok, ShouldBeFalse)
		})

		Convey("书级已有同名角色时拒绝，两边都不动", func() {
			_, err := svc.AddBookCharacter(ctx, testUserID, b.ID, "HERO", "书级同名")
			So(err, ShouldBeNil)

			_, err = svc.PromoteCharacter(ctx, testUserID, b.ID, st.ID, "Hero")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationConflict)

			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			So(after.Story(st.ID).Character("Hero"), ShouldNotBeNil)
			So(after.Character("HERO").Name, ShouldEqual, "HERO")
		})

		Convey("角色不在故事中报NotFoundInScope", func() {
			_, err := svc.PromoteCharacter(ctx, testUserID, b.ID, st.ID, "Nobody")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationNotFoundInScope)
		})

		Convey("书或故事不存在报NotFound", func() {
			_, err := svc.PromoteCharacter(ctx, testUserID, "missing", st.ID, "Hero")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationNotFound)

			_, err = svc.PromoteCharacter(ctx, testUserID, b.ID, "missing", "Hero")
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationNotFound)
		})

		Convey("个别资产缺失不阻断元数据迁移", func() {
			loaded, _ := svc.GetBook(ctx, testUserID, b.ID)
			loaded.Story(st.ID).Character("Hero").ImageGallery = []book.ImageRecord{
				{ID: "gone", ModelName: "doubao-seedream"},
			}
			So(svc.save(ctx, loaded), ShouldBeNil)

			result, err := svc.PromoteCharacter(ctx, testUserID, b.ID, st.ID, "Hero")
			So(err, ShouldBeNil)
			So(result.FailedAssets, ShouldEqual, 1)

			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			So(after.Character("Hero"), ShouldNotBeNil)
		})
	})
}

func TestDemoteCharacter(t *testing.T) {
	Convey("角色下放（书级→故事级）", t, func() {
		ctx := context.Background()
		svc, _, store := newTestService(t)
		b, st, sc := seedBook(t, svc)

		_, err := svc.AddBookCharacter(ctx, testUserID, b.ID, "Hero", "主角")
		So(err, ShouldBeNil)

		useHeroInScene := func(storyID, sceneID string) {
			chars := []string{"Hero"}
			_, err := svc.UpdateScene(ctx, testUserID, b.ID, storyID, sceneID, SceneUpdate{Characters: &chars})
			So(err, ShouldBeNil)
		}

		Convey("恰好一个故事在用时自动选为目标", func() {
			useHeroInScene(st.ID, sc.ID)

			result, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "hero", "")
			So(err, ShouldBeNil)
			So(result.ToScope, ShouldEqual, "story:"+st.ID)

			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			So(after.Character("Hero"), ShouldBeNil)
			So(after.Story(st.ID).Character("Hero"), ShouldNotBeNil)
		})

		Convey("两个故事在用时报AmbiguousTarget并返回使用清单", func() {
			useHeroInScene(st.ID, sc.ID)
			st2, err := svc.CreateStory(ctx, testUserID, b.ID, "第二卷", "续篇", "远洋")
			So(err, ShouldBeNil)
			sc2, err := svc.CreateScene(ctx, testUserID, b.ID, st2.ID, "重逢", "多年后再次相遇")
			So(err, ShouldBeNil)
			useHeroInScene(st2.ID, sc2.ID)

			_, err = svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", "")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationAmbiguousTarget)
			So(len(migErr.Usage.StoriesUsing), ShouldEqual, 2)
			So(migErr.Usage.StoriesUsing[0].SceneCount, ShouldEqual, 1)
			So(migErr.Usage.StoriesUsing[1].SceneCount, ShouldEqual, 1)
			So(migErr.Usage.TotalSceneCount, ShouldEqual, 2)
		})

		Convey("没有故事在用且未指定目标时报TargetRequired", func() {
			_, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", "")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationTargetRequired)
		})

		Convey("显式指定目标时不看使用情况", func() {
			result, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", st.ID)
			So(err, ShouldBeNil)
			So(result.ToScope, ShouldEqual, "story:"+st.ID)
		})

		Convey("显式目标不存在报NotFound，目标有同名角色报Conflict", func() {
			_, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", "missing")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationNotFound)

			_, err = svc.AddStoryCharacter(ctx, testUserID, b.ID, st.ID, "hero", "故事级同名")
			So(err, ShouldBeNil)
			_, err = svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", st.ID)
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationConflict)
		})

		Convey("书级没有该角色报NotFoundInScope", func() {
			_, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Nobody", "")
			var migErr *MigrationError
			So(errors.As(err, &migErr), ShouldBeTrue)
			So(migErr.Code, ShouldEqual, MigrationNotFoundInScope)
		})

		Convey("上升再下放回到原处，另一侧作用域清空", func() {
			useHeroInScene(st.ID, sc.ID)
			// 先下放到st，再上升回书级，再次下放仍回st
			_, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", "")
			So(err, ShouldBeNil)
			_, err = svc.PromoteCharacter(ctx, testUserID, b.ID, st.ID, "Hero")
			So(err, ShouldBeNil)
			result, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", "")
			So(err, ShouldBeNil)
			So(result.ToScope, ShouldEqual, "story:"+st.ID)

			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			So(after.Character("Hero"), ShouldBeNil)
			So(after.Story(st.ID).Character("Hero"), ShouldNotBeNil)
		})

		Convey("下放时资产从书级作用域搬到故事作用域", func() {
			useHeroInScene(st.ID, sc.ID)
			loaded, _ := svc.GetBook(ctx, testUserID, b.ID)
			loaded.Character("Hero").ImageGallery = []book.ImageRecord{
				{ID: "img-9", ModelName: "doubao-seedream"},
			}
			So(svc.save(ctx, loaded), ShouldBeNil)
			addGalleryAsset(t, store, assets.BookScope(b.ID), "Hero",
				book.ImageRecord{ID: "img-9"}, "png")

			result, err := svc.DemoteCharacter(ctx, testUserID, b.ID, "Hero", "")
			So(err, ShouldBeNil)
			So(result.MovedAssets, ShouldEqual, 1)

			ok, _ := store.Exists(ctx, assets.StoryScope(st.ID), "Hero", "img-9")
			So(ok, ShouldBeTrue)
			ok, _ = store.Exists(ctx, assets.BookScope(b.ID), "Hero", "img-9")
			So(ok, ShouldBeFalse)
		})
	})
}
