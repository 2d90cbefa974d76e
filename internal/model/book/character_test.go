package book

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCharacterGallery(t *testing.T) {
	Convey("角色图库", t, func() {
		ch := &Character{Name: "Hero"}

		Convey("超过上限时从头部淘汰最旧的", func() {
			for i := 0; i < MaxGalleryImages; i++ {
				evicted := ch.AddImage(ImageRecord{ID: fmt.Sprintf("img-%d", i)})
				So(evicted, ShouldBeEmpty)
			}
			So(len(ch.ImageGallery), ShouldEqual, MaxGalleryImages)

			evicted := ch.AddImage(ImageRecord{ID: "img-new"})
			So(len(evicted), ShouldEqual, 1)
			So(evicted[0].ID, ShouldEqual, "img-0")
			So(len(ch.ImageGallery), ShouldEqual, MaxGalleryImages)
			So(ch.ImageGallery[0].ID, ShouldEqual, "img-1")
			So(ch.ImageGallery[MaxGalleryImages-1].ID, ShouldEqual, "img-new")
		})

		Convey("选中图被淘汰时选中状态清除", func() {
			for i := 0; i < MaxGalleryImages; i++ {
				ch.AddImage(ImageRecord{ID: fmt.Sprintf("img-%d", i)})
			}
			So(ch.SelectImage("img-0"), ShouldBeNil)

			ch.AddImage(ImageRecord{ID: "img-new"})
			So(ch.SelectedImageID, ShouldBeEmpty)
		})

		Convey("选中不存在的图片报错", func() {
			ch.AddImage(ImageRecord{ID: "img-1"})
			So(ch.SelectImage("missing"), ShouldEqual, ErrImageNotFound)
			So(ch.SelectImage("img-1"), ShouldBeNil)
			So(ch.SelectedImageID, ShouldEqual, "img-1")
		})

		Convey("删除选中的图片时选中状态清除", func() {
			ch.AddImage(ImageRecord{ID: "img-1"})
			So(ch.SelectImage("img-1"), ShouldBeNil)
			So(ch.RemoveImage("img-1"), ShouldBeTrue)
			So(ch.SelectedImageID, ShouldBeEmpty)
			So(ch.RemoveImage("img-1"), ShouldBeFalse)
		})
	})
}
