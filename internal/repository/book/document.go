package book

import (
	"time"

	"fable/internal/model/book"
)

// 存储文档结构
// 实体与持久化文档之间的映射是显式的：每个字段都在这里出现一次，
// 新增实体字段时必须同步扩展这组结构，避免字段被静默丢弃。

type imageRecordDocument struct {
	ID         string    `bson:"id"`
	ModelName  string    `bson:"model_name"`
	Timestamp  time.Time `bson:"timestamp"`
	PromptHash string    `bson:"prompt_hash,omitempty"`
}

type characterDocument struct {
	Name             string                `bson:"name"`
	Description      string                `bson:"description"`
	ImageGallery     []imageRecordDocument `bson:"image_gallery,omitempty"`
	SelectedImageID  string                `bson:"selected_image_id,omitempty"`
	ReferenceImageID string                `bson:"reference_image_id,omitempty"`
}

type elementDocument struct {
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Category    string `bson:"category,omitempty"`
}

type canvasDocument struct {
	Width       int    `bson:"width"`
	Height      int    `bson:"height"`
	AspectRatio string `bson:"aspect_ratio"`
}

type positionedRectDocument struct {
	X           float64 `bson:"x"`
	Y           float64 `bson:"y"`
	Width       float64 `bson:"width"`
	Height      float64 `bson:"height"`
	ZIndex      int     `bson:"z_index"`
	AspectRatio string  `bson:"aspect_ratio,omitempty"`
}

type layoutElementsDocument struct {
	Image        positionedRectDocument  `bson:"image"`
	TextPanel    *positionedRectDocument `bson:"text_panel,omitempty"`
	DiagramPanel *positionedRectDocument `bson:"diagram_panel,omitempty"`
}

type layoutOverrideDocument struct {
	Type     string                 `bson:"type"`
	Canvas   canvasDocument         `bson:"canvas"`
	Elements layoutElementsDocument `bson:"elements"`
}

type diagramPanelDocument struct {
	Format  string `bson:"format"`
	Content string `bson:"content"`
}

type sceneDocument struct {
	ID           string                  `bson:"id"`
	Title        string                  `bson:"title"`
	Description  string                  `bson:"description"`
	TextPanel    string                  `bson:"text_panel,omitempty"`
	DiagramPanel *diagramPanelDocument   `bson:"diagram_panel,omitempty"`
	Layout       *layoutOverrideDocument `bson:"layout,omitempty"`
	Characters   []string                `bson:"characters"`
	Elements     []string                `bson:"elements"`
	ImageHistory []imageRecordDocument   `bson:"image_history,omitempty"`
	CreatedAt    time.Time               `bson:"created_at"`
	UpdatedAt    time.Time               `bson:"updated_at"`
}

type storyDocument struct {
	ID              string                  `bson:"id"`
	Title           string                  `bson:"title"`
	Description     string                  `bson:"description"`
	BackgroundSetup string                  `bson:"background_setup"`
	Characters      []characterDocument     `bson:"characters"`
	Elements        []elementDocument       `bson:"elements"`
	Scenes          []sceneDocument         `bson:"scenes"`
	Layout          *layoutOverrideDocument `bson:"layout,omitempty"`
	CreatedAt       time.Time               `bson:"created_at"`
	UpdatedAt       time.Time               `bson:"updated_at"`
}

type bookDocument struct {
	ID              string                  `bson:"id"`
	UserID          string                  `bson:"user_id"`
	Title           string                  `bson:"title"`
	Description     string                  `bson:"description"`
	BackgroundSetup string                  `bson:"background_setup"`
	AspectRatio     string                  `bson:"aspect_ratio"`
	Style           string                  `bson:"style"`
	DefaultLayout   *layoutOverrideDocument `bson:"default_layout,omitempty"`
	Characters      []characterDocument     `bson:"characters"`
	Stories         []storyDocument         `bson:"stories"`
	CreatedAt       time.Time               `bson:"created_at"`
	UpdatedAt       time.Time               `bson:"updated_at"`
	DeletedAt       *time.Time              `bson:"deleted_at"`
}

// ---- 实体 -> 文档 ----

func imageRecordToDocument(rec book.ImageRecord) imageRecordDocument {
	return imageRecordDocument{
		ID:         rec.ID,
		ModelName:  rec.ModelName,
		Timestamp:  rec.Timestamp,
		PromptHash: rec.PromptHash,
	}
}

func imageRecordsToDocument(recs []book.ImageRecord) []imageRecordDocument {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]imageRecordDocument, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, imageRecordToDocument(rec))
	}
	return docs
}

func characterToDocument(ch book.Character) characterDocument {
	return characterDocument{
		Name:             ch.Name,
		Description:      ch.Description,
		ImageGallery:     imageRecordsToDocument(ch.ImageGallery),
		SelectedImageID:  ch.SelectedImageID,
		ReferenceImageID: ch.ReferenceImageID,
	}
}

func charactersToDocument(chs []book.Character) []characterDocument {
	docs := make([]characterDocument, 0, len(chs))
	for _, ch := range chs {
		docs = append(docs, characterToDocument(ch))
	}
	return docs
}

func elementsToDocument(els []book.Element) []elementDocument {
	docs := make([]elementDocument, 0, len(els))
	for _, el := range els {
		docs = append(docs, elementDocument{
			Name:        el.Name,
			Description: el.Description,
			Category:    el.Category,
		})
	}
	return docs
}

func positionedRectToDocument(r book.PositionedRect) positionedRectDocument {
	return positionedRectDocument{
		X:           r.X,
		Y:           r.Y,
		Width:       r.Width,
		Height:      r.Height,
		ZIndex:      r.ZIndex,
		AspectRatio: r.AspectRatio,
	}
}

func layoutToDocument(l *book.LayoutOverride) *layoutOverrideDocument {
	if l == nil {
		return nil
	}
	doc := &layoutOverrideDocument{
		Type: string(l.Type),
		Canvas: canvasDocument{
			Width:       l.Canvas.Width,
			Height:      l.Canvas.Height,
			AspectRatio: l.Canvas.AspectRatio,
		},
		Elements: layoutElementsDocument{
			Image: positionedRectToDocument(l.Elements.Image),
		},
	}
	if l.Elements.TextPanel != nil {
		tp := positionedRectToDocument(*l.Elements.TextPanel)
		doc.Elements.TextPanel = &tp
	}
	if l.Elements.DiagramPanel != nil {
		dp := positionedRectToDocument(*l.Elements.DiagramPanel)
		doc.Elements.DiagramPanel = &dp
	}
	return doc
}

func sceneToDocument(sc book.Scene) sceneDocument {
	doc := sceneDocument{
		ID:           sc.ID,
		Title:        sc.Title,
		Description:  sc.Description,
		TextPanel:    sc.TextPanel,
		Layout:       layoutToDocument(sc.Layout),
		Characters:   append([]string{}, sc.Characters...),
		Elements:     append([]string{}, sc.Elements...),
		ImageHistory: imageRecordsToDocument(sc.ImageHistory),
		CreatedAt:    sc.CreatedAt,
		UpdatedAt:    sc.UpdatedAt,
	}
	if sc.DiagramPanel != nil {
		doc.DiagramPanel = &diagramPanelDocument{
			Format:  sc.DiagramPanel.Format,
			Content: sc.DiagramPanel.Content,
		}
	}
	return doc
}

func storyToDocument(st book.Story) storyDocument {
	scenes := make([]sceneDocument, 0, len(st.Scenes))
	for _, sc := range st.Scenes {
		scenes = append(scenes, sceneToDocument(sc))
	}
	return storyDocument{
		ID:              st.ID,
		Title:           st.Title,
		Description:     st.Description,
		BackgroundSetup: st.BackgroundSetup,
		Characters:      charactersToDocument(st.Characters),
		Elements:        elementsToDocument(st.Elements),
		Scenes:          scenes,
		Layout:          layoutToDocument(st.Layout),
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
	}
}

// toDocument 实体转存储文档
func toDocument(b *book.Book) *bookDocument {
	stories := make([]storyDocument, 0, len(b.Stories))
	for _, st := range b.Stories {
		stories = append(stories, storyToDocument(st))
	}
	return &bookDocument{
		ID:              b.ID,
		UserID:          b.UserID,
		Title:           b.Title,
		Description:     b.Description,
		BackgroundSetup: b.BackgroundSetup,
		AspectRatio:     b.AspectRatio,
		Style:           b.Style,
		DefaultLayout:   layoutToDocument(b.DefaultLayout),
		Characters:      charactersToDocument(b.Characters),
		Stories:         stories,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		DeletedAt:       b.DeletedAt,
	}
}

// ---- 文档 -> 实体 ----

func imageRecordFromDocument(doc imageRecordDocument) book.ImageRecord {
	modelName := doc.ModelName
	if modelName == "" {
		// 兼容旧数据：来源模型缺失时用占位值补齐
		modelName = book.UnknownModelName
	}
	return book.ImageRecord{
		ID:         doc.ID,
		ModelName:  modelName,
		Timestamp:  doc.Timestamp,
		PromptHash: doc.PromptHash,
	}
}

func imageRecordsFromDocument(docs []imageRecordDocument) []book.ImageRecord {
	if len(docs) == 0 {
		return nil
	}
	recs := make([]book.ImageRecord, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, imageRecordFromDocument(doc))
	}
	return recs
}

func characterFromDocument(doc characterDocument) book.Character {
	return book.Character{
		Name:             doc.Name,
		Description:      doc.Description,
		ImageGallery:     imageRecordsFromDocument(doc.ImageGallery),
		SelectedImageID:  doc.SelectedImageID,
		ReferenceImageID: doc.ReferenceImageID,
	}
}

func charactersFromDocument(docs []characterDocument) []book.Character {
	chs := make([]book.Character, 0, len(docs))
	for _, doc := range docs {
		chs = append(chs, characterFromDocument(doc))
	}
	return chs
}

func elementsFromDocument(docs []elementDocument) []book.Element {
	els := make([]book.Element, 0, len(docs))
	for _, doc := range docs {
		els = append(els, book.Element{
			Name:        doc.Name,
			Description: doc.Description,
			Category:    doc.Category,
		})
	}
	return els
}

func positionedRectFromDocument(doc positionedRectDocument) book.PositionedRect {
	return book.PositionedRect{
		X:           doc.X,
		Y:           doc.Y,
		Width:       doc.Width,
		Height:      doc.Height,
		ZIndex:      doc.ZIndex,
		AspectRatio: doc.AspectRatio,
	}
}

func layoutFromDocument(doc *layoutOverrideDocument) *book.LayoutOverride {
	if doc == nil {
		return nil
	}
	l := &book.LayoutOverride{
		Type: book.LayoutType(doc.Type),
		Canvas: book.Canvas{
			Width:       doc.Canvas.Width,
			Height:      doc.Canvas.Height,
			AspectRatio: doc.Canvas.AspectRatio,
		},
		Elements: book.LayoutElements{
			Image: positionedRectFromDocument(doc.Elements.Image),
		},
	}
	if doc.Elements.TextPanel != nil {
		tp := positionedRectFromDocument(*doc.Elements.TextPanel)
		l.Elements.TextPanel = &tp
	}
	if doc.Elements.DiagramPanel != nil {
		dp := positionedRectFromDocument(*doc.Elements.DiagramPanel)
		l.Elements.DiagramPanel = &dp
	}
	return l
}

func sceneFromDocument(doc sceneDocument) book.Scene {
	sc := book.Scene{
		ID:           doc.ID,
		Title:        doc.Title,
		Description:  doc.Description,
		TextPanel:    doc.TextPanel,
		Layout:       layoutFromDocument(doc.Layout),
		Characters:   doc.Characters,
		Elements:     doc.Elements,
		ImageHistory: imageRecordsFromDocument(doc.ImageHistory),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if sc.Characters == nil {
		sc.Characters = []string{}
	}
	if sc.Elements == nil {
		sc.Elements = []string{}
	}
	if doc.DiagramPanel != nil {
		sc.DiagramPanel = &book.DiagramPanel{
			Format:  doc.DiagramPanel.Format,
			Content: doc.DiagramPanel.Content,
		}
	}
	return sc
}

func storyFromDocument(doc storyDocument) book.Story {
	scenes := make([]book.Scene, 0, len(doc.Scenes))
	for _, sc := range doc.Scenes {
		scenes = append(scenes, sceneFromDocument(sc))
	}
	return book.Story{
		ID:              doc.ID,
		Title:           doc.Title,
		Description:     doc.Description,
		BackgroundSetup: doc.BackgroundSetup,
		Characters:      charactersFromDocument(doc.Characters),
		Elements:        elementsFromDocument(doc.Elements),
		Scenes:          scenes,
		Layout:          layoutFromDocument(doc.Layout),
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// fromDocument 存储文档转实体
func fromDocument(doc *bookDocument) *book.Book {
	stories := make([]book.Story, 0, len(doc.Stories))
	for _, st := range doc.Stories {
		stories = append(stories, storyFromDocument(st))
	}
	return &book.Book{
		ID:              doc.ID,
		UserID:          doc.UserID,
		Title:           doc.Title,
		Description:     doc.Description,
		BackgroundSetup: doc.BackgroundSetup,
		AspectRatio:     doc.AspectRatio,
		Style:           doc.Style,
		DefaultLayout:   layoutFromDocument(doc.DefaultLayout),
		Characters:      charactersFromDocument(doc.Characters),
		Stories:         stories,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		DeletedAt:       doc.DeletedAt,
	}
}
