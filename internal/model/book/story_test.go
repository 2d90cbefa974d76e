package book

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func storyFixture() *Story {
	st := NewStory("第一卷", "起点", "港口")
	st.ID = "story-1"
	_ = st.AddCharacter(Character{Name: "Hero", Description: "主角"})
	_ = st.AddElement(Element{Name: "灯塔", Description: "旧灯塔"})

	sc := NewScene("相遇", "码头")
	sc.ID = "scene-1"
	sc.AddCharacterRef("hero")
	sc.AddElementRef("灯塔")
	st.AddScene(*sc)
	return st
}

func TestStoryCharacters(t *testing.T) {
	Convey("故事级角色", t, func() {
		st := storyFixture()

		Convey("名称查找忽略大小写", func() {
			So(st.Character("HERO"), ShouldNotBeNil)
			So(st.Character("nobody"), ShouldBeNil)
		})

		Convey("添加大小写不同的同名角色被拒绝", func() {
			err := st.AddCharacter(Character{Name: "hero"})
			So(err, ShouldEqual, ErrDuplicateName)
			So(len(st.Characters), ShouldEqual, 1)
		})

		Convey("改名同步重写所有场景引用", func() {
			So(st.RenameCharacter("hero", "Knight"), ShouldBeNil)
			So(st.Character("Knight"), ShouldNotBeNil)
			So(st.Scenes[0].Characters, ShouldResemble, []string{"Knight"})
		})

		Convey("改成其他角色的名字被拒绝", func() {
			_ = st.AddCharacter(Character{Name: "Mentor"})
			So(st.RenameCharacter("Hero", "MENTOR"), ShouldEqual, ErrDuplicateName)
			So(st.Character("Hero"), ShouldNotBeNil)
		})

		Convey("仅改大小写允许", func() {
			So(st.RenameCharacter("Hero", "HERO"), ShouldBeNil)
			So(st.Characters[0].Name, ShouldEqual, "HERO")
		})

		Convey("删除角色级联清理场景引用", func() {
			So(st.RemoveCharacter("HERO"), ShouldBeTrue)
			So(st.Character("Hero"), ShouldBeNil)
			So(st.Scenes[0].Characters, ShouldBeEmpty)
		})

		Convey("摘除角色保留场景引用", func() {
			ch, ok := st.DetachCharacter("hero")
			So(ok, ShouldBeTrue)
			So(ch.Name, ShouldEqual, "Hero")
			So(st.Character("Hero"), ShouldBeNil)
			So(st.Scenes[0].Characters, ShouldResemble, []string{"hero"})
		})
	})
}

func TestStoryElements(t *testing.T) {
	Convey("故事元素", t, func() {
		st := storyFixture()

		Convey("同名元素（忽略大小写）被拒绝", func() {
			_ = st.AddElement(Element{Name: "Map"})
			So(st.AddElement(Element{Name: "map"}), ShouldEqual, ErrDuplicateName)
		})

		Convey("改名同步重写场景引用", func() {
			So(st.RenameElement("灯塔", "老灯塔"), ShouldBeNil)
			So(st.Scenes[0].Elements, ShouldResemble, []string{"老灯塔"})
		})

		Convey("删除元素级联清理场景引用", func() {
			So(st.RemoveElement("灯塔"), ShouldBeTrue)
			So(st.Scenes[0].Elements, ShouldBeEmpty)
		})
	})
}

func TestStoryScenes(t *testing.T) {
	Convey("故事场景", t, func() {
		st := storyFixture()

		Convey("按ID查找与删除", func() {
			So(st.Scene("scene-1"), ShouldNotBeNil)
			So(st.RemoveScene("scene-1"), ShouldBeTrue)
			So(st.Scene("scene-1"), ShouldBeNil)
			So(st.RemoveScene("scene-1"), ShouldBeFalse)
		})
	})
}
