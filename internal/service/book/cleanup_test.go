package book

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
)

func TestCascadeAssetCleanup(t *testing.T) {
	Convey("级联删除清理资产", t, func() {
		ctx := context.Background()
		svc, _, store := newTestService(t)
		b, st, sc := seedBook(t, svc)
		scope := assets.StoryScope(st.ID)

		_, err := svc.AddStoryCharacter(ctx, testUserID, b.ID, st.ID, "Hero", "主角")
		So(err, ShouldBeNil)
		_, err = svc.AddBookCharacter(ctx, testUserID, b.ID, "Alice", "贯穿全书的角色")
		So(err, ShouldBeNil)

		loaded, _ := svc.GetBook(ctx, testUserID, b.ID)
		loaded.Story(st.ID).Character("Hero").ImageGallery = []book.ImageRecord{{ID: "h1", ModelName: "m"}}
		loaded.Story(st.ID).Scene(sc.ID).ImageHistory = []book.ImageRecord{{ID: "s1", ModelName: "m"}}
		loaded.Character("Alice").ImageGallery = []book.ImageRecord{{ID: "a1", ModelName: "m"}}
		So(svc.save(ctx, loaded), ShouldBeNil)

		addGalleryAsset(t, store, scope, "Hero", book.ImageRecord{ID: "h1"}, "png-h")
		addGalleryAsset(t, store, scope, sc.ID, book.ImageRecord{ID: "s1"}, "png-s")
		addGalleryAsset(t, store, assets.BookScope(b.ID), "Alice", book.ImageRecord{ID: "a1"}, "png-a")

		Convey("删除场景移除其历史图，角色画廊不受影响", func() {
			So(svc.DeleteScene(ctx, testUserID, b.ID, st.ID, sc.ID), ShouldBeNil)

			gone, err := store.Exists(ctx, scope, sc.ID, "s1")
			So(err, ShouldBeNil)
			So(gone, ShouldBeFalse)

			kept, err := store.Exists(ctx, scope, "Hero", "h1")
			So(err, ShouldBeNil)
			So(kept, ShouldBeTrue)
		})

		Convey("删除故事连同角色画廊与场景历史一并移除", func() {
			So(svc.DeleteStory(ctx, testUserID, b.ID, st.ID), ShouldBeNil)

			for _, name := range []string{"Hero", sc.ID} {
				id := "h1"
				if name == sc.ID {
					id = "s1"
				}
				exists, err := store.Exists(ctx, scope, name, id)
				So(err, ShouldBeNil)
				So(exists, ShouldBeFalse)
			}

			kept, err := store.Exists(ctx, assets.BookScope(b.ID), "Alice", "a1")
			So(err, ShouldBeNil)
			So(kept, ShouldBeTrue)
		})

		Convey("删除书移除书级与故事级的全部资产", func() {
			So(svc.DeleteBook(ctx, testUserID, b.ID), ShouldBeNil)

			for _, it := range []struct {
				scope, name, id string
			}{
				{assets.BookScope(b.ID), "Alice", "a1"},
				{scope, "Hero", "h1"},
				{scope, sc.ID, "s1"},
			} {
				exists, err := store.Exists(ctx, it.scope, it.name, it.id)
				So(err, ShouldBeNil)
				So(exists, ShouldBeFalse)
			}
		})
	})
}
