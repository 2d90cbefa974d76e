package book

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSceneImageHistory(t *testing.T) {
	Convey("场景生成历史", t, func() {
		sc := NewScene("相遇", "码头")

		Convey("超过上限时淘汰最旧的", func() {
			for i := 0; i < MaxImageHistory; i++ {
				evicted := sc.AppendImageHistory(ImageRecord{ID: fmt.Sprintf("h-%d", i)})
				So(evicted, ShouldBeEmpty)
			}

			evicted := sc.AppendImageHistory(ImageRecord{ID: "h-new"})
			So(len(evicted), ShouldEqual, 1)
			So(evicted[0].ID, ShouldEqual, "h-0")
			So(len(sc.ImageHistory), ShouldEqual, MaxImageHistory)
			So(sc.ImageHistory[MaxImageHistory-1].ID, ShouldEqual, "h-new")
		})
	})
}

func TestSceneReferences(t *testing.T) {
	Convey("场景引用列表", t, func() {
		sc := NewScene("相遇", "码头")

		Convey("重复添加同名引用（忽略大小写）不生效", func() {
			sc.AddCharacterRef("Hero")
			sc.AddCharacterRef("hero")
			So(sc.Characters, ShouldResemble, []string{"Hero"})
		})

		Convey("删除引用忽略大小写", func() {
			sc.AddCharacterRef("Hero")
			So(sc.RemoveCharacterRef("HERO"), ShouldBeTrue)
			So(sc.Characters, ShouldBeEmpty)
		})

		Convey("改名重写引用", func() {
			sc.AddCharacterRef("Hero")
			So(sc.RenameCharacterRef("hero", "Knight"), ShouldBeTrue)
			So(sc.Characters, ShouldResemble, []string{"Knight"})
		})

		Convey("修改刷新更新时间", func() {
			before := sc.UpdatedAt
			time.Sleep(time.Millisecond)
			sc.AddElementRef("灯塔")
			sc.Touch()
			So(sc.UpdatedAt.After(before), ShouldBeTrue)
		})
	})
}
