package book

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
	"fable/internal/pkg/assets"
)

func TestLoadGallery(t *testing.T) {
	Convey("画廊加载与陈旧引用清理", t, func() {
		ctx := context.Background()
		svc, _, store := newTestService(t)
		b, st, _ := seedBook(t, svc)

		_, err := svc.AddStoryCharacter(ctx, testUserID, b.ID, st.ID, "Hero", "主角")
		So(err, ShouldBeNil)

		scope := assets.StoryScope(st.ID)
		setGallery := func(recs []book.ImageRecord, selected, reference string) {
			loaded, _ := svc.GetBook(ctx, testUserID, b.ID)
			ch := loaded.Story(st.ID).Character("Hero")
			ch.ImageGallery = recs
			ch.SelectedImageID = selected
			ch.ReferenceImageID = reference
			So(svc.save(ctx, loaded), ShouldBeNil)
		}

		Convey("资产齐全时原样返回并带访问URL", func() {
			recs := []book.ImageRecord{
				{ID: "a", ModelName: "m"},
				{ID: "b", ModelName: "m"},
			}
			setGallery(recs, "b", "")
			addGalleryAsset(t, store, scope, "Hero", recs[0], "png-a")
			addGalleryAsset(t, store, scope, "Hero", recs[1], "png-b")

			images, err := svc.LoadGallery(ctx, testUserID, b.ID, st.ID, "Hero")
			So(err, ShouldBeNil)
			So(len(images), ShouldEqual, 2)
			So(images[0].URL, ShouldNotBeEmpty)
		})

		Convey("资产丢失的记录被移除，选中图重指向剩余第一张", func() {
			recs := []book.ImageRecord{
				{ID: "gone", ModelName: "m"},
				{ID: "kept", ModelName: "m"},
			}
			setGallery(recs, "gone", "gone")
			addGalleryAsset(t, store, scope, "Hero", recs[1], "png")

			images, err := svc.LoadGallery(ctx, testUserID, b.ID, st.ID, "Hero")
			So(err, ShouldBeNil)
			So(len(images), ShouldEqual, 1)
			So(images[0].Record.ID, ShouldEqual, "kept")

			// 修正已持久化
			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			ch := after.Story(st.ID).Character("Hero")
			So(len(ch.ImageGallery), ShouldEqual, 1)
			So(ch.SelectedImageID, ShouldEqual, "kept")
			So(ch.ReferenceImageID, ShouldBeEmpty)
		})

		Convey("所有资产都丢失时画廊清空，选中图清除", func() {
			setGallery([]book.ImageRecord{{ID: "gone", ModelName: "m"}}, "gone", "")

			images, err := svc.LoadGallery(ctx, testUserID, b.ID, st.ID, "Hero")
			So(err, ShouldBeNil)
			So(images, ShouldBeEmpty)

			after, _ := svc.GetBook(ctx, testUserID, b.ID)
			So(after.Story(st.ID).Character("Hero").SelectedImageID, ShouldBeEmpty)
		})

		Convey("书级角色的画廊走书级作用域", func() {
			_, err := svc.AddBookCharacter(ctx, testUserID, b.ID, "Alice", "主角")
			So(err, ShouldBeNil)
			loaded, _ := svc.GetBook(ctx, testUserID, b.ID)
			loaded.Character("Alice").ImageGallery = []book.ImageRecord{{ID: "x", ModelName: "m"}}
			So(svc.save(ctx, loaded), ShouldBeNil)
			addGalleryAsset(t, store, assets.BookScope(b.ID), "Alice", book.ImageRecord{ID: "x"}, "png")

			images, err := svc.LoadGallery(ctx, testUserID, b.ID, "", "Alice")
			So(err, ShouldBeNil)
			So(len(images), ShouldEqual, 1)
		})
	})
}
