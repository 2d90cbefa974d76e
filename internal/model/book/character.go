package book

import (
	"errors"
	"strings"
)

// 模型层错误
var (
	ErrDuplicateName = errors.New("同名实体已存在")
	ErrImageNotFound = errors.New("图片记录不存在")
)

// Character 角色实体
// 角色要么归属于 Book（全书共享），要么归属于某一个 Story，二者不会同时成立。
// 场景通过名称引用角色，名称在归属范围内大小写不敏感唯一。
type Character struct {
	Name             string        `json:"name"`                         // 角色名称（范围内唯一，忽略大小写）
	Description      string        `json:"description"`                  // 角色描述
	ImageGallery     []ImageRecord `json:"image_gallery,omitempty"`      // 图库（上限10，先进先出淘汰）
	SelectedImageID  string        `json:"selected_image_id,omitempty"`  // 当前选中的图片ID
	ReferenceImageID string        `json:"reference_image_id,omitempty"` // 参考图ID（生成时的引导图）
}

// sameName 名称比较统一忽略大小写
func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// AddImage 向图库追加图片记录
// 超出上限时从头部淘汰最旧的记录并返回，调用方负责清理被淘汰记录对应的资产。
// 若被淘汰的记录正是当前选中图片，选中状态被清除。
func (c *Character) AddImage(rec ImageRecord) []ImageRecord {
	c.ImageGallery = append(c.ImageGallery, rec)

	var evicted []ImageRecord
	for len(c.ImageGallery) > MaxGalleryImages {
		evicted = append(evicted, c.ImageGallery[0])
		c.ImageGallery = c.ImageGallery[1:]
	}

	for _, ev := range evicted {
		if c.SelectedImageID == ev.ID {
			c.SelectedImageID = ""
		}
	}
	return evicted
}

// Image 按ID查找图库记录
func (c *Character) Image(id string) *ImageRecord {
	for i := range c.ImageGallery {
		if c.ImageGallery[i].ID == id {
			return &c.ImageGallery[i]
		}
	}
	return nil
}

// RemoveImage 删除图库记录
// 若删除的是当前选中图片，选中状态被清除。
func (c *Character) RemoveImage(id string) bool {
	for i := range c.ImageGallery {
		if c.ImageGallery[i].ID == id {
			c.ImageGallery = append(c.ImageGallery[:i], c.ImageGallery[i+1:]...)
			if c.SelectedImageID == id {
				c.SelectedImageID = ""
			}
			return true
		}
	}
	return false
}

// SelectImage 设置选中图片，目标必须存在于图库中
func (c *Character) SelectImage(id string) error {
	if c.Image(id) == nil {
		return ErrImageNotFound
	}
	c.SelectedImageID = id
	return nil
}

// SetReferenceImage 设置参考图ID，传空字符串表示清除
func (c *Character) SetReferenceImage(id string) {
	c.ReferenceImageID = id
}
