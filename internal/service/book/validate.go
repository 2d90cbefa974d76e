package book

import (
	"fmt"
	"strings"

	"fable/internal/model/book"
)

// ValidationResult 校验结果
// Errors 阻断持久化，Warnings 仅提示
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if !other.IsValid {
		r.IsValid = false
	}
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

// duplicateNames 找出大小写不敏感的重名（全部报告，不止第一个）
func duplicateNames(names []string) []string {
	seen := make(map[string]int, len(names))
	reported := make(map[string]bool)
	var dups []string
	for _, name := range names {
		key := strings.ToLower(name)
		seen[key]++
		if seen[key] > 1 && !reported[key] {
			dups = append(dups, name)
			reported[key] = true
		}
	}
	return dups
}

func characterNames(chs []book.Character) []string {
	names := make([]string, 0, len(chs))
	for _, ch := range chs {
		names = append(names, ch.Name)
	}
	return names
}

// nameSet 名称集合，键统一转小写
func nameSet(names ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, group := range names {
		for _, name := range group {
			set[strings.ToLower(name)] = true
		}
	}
	return set
}

// ValidateBook 校验整本书的引用完整性
// 书级角色名并集会下传到每个故事，供场景角色引用解析
func ValidateBook(b *book.Book) *ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(b.Title) == "" {
		result.addError("书籍标题不能为空")
	}
	if strings.TrimSpace(b.Description) == "" {
		result.addError("书籍简介不能为空")
	}
	if strings.TrimSpace(b.BackgroundSetup) == "" {
		result.addError("书籍背景设定不能为空")
	}

	for _, dup := range duplicateNames(characterNames(b.Characters)) {
		result.addError("书级角色名重复：%s", dup)
	}

	bookNames := characterNames(b.Characters)
	for i := range b.Stories {
		result.merge(validateStory(&b.Stories[i], bookNames))
	}
	return result
}

// ValidateStory 单独校验一个故事
// 孤立校验时不传书级角色名并集，场景只能引用故事自己的角色
func ValidateStory(st *book.Story) *ValidationResult {
	return validateStory(st, nil)
}

func validateStory(st *book.Story, bookCharacterNames []string) *ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(st.Title) == "" {
		result.addError("故事「%s」标题不能为空", st.ID)
	}
	if strings.TrimSpace(st.Description) == "" {
		result.addError("故事「%s」简介不能为空", st.Title)
	}
	if strings.TrimSpace(st.BackgroundSetup) == "" {
		result.addError("故事「%s」背景设定不能为空", st.Title)
	}

	for _, dup := range duplicateNames(characterNames(st.Characters)) {
		result.addError("故事「%s」角色名重复：%s", st.Title, dup)
	}

	elementNames := make([]string, 0, len(st.Elements))
	for _, el := range st.Elements {
		elementNames = append(elementNames, el.Name)
	}
	for _, dup := range duplicateNames(elementNames) {
		result.addError("故事「%s」元素名重复：%s", st.Title, dup)
	}

	// 场景角色引用在故事级与书级角色并集中解析，元素只在故事内解析
	resolvableCharacters := nameSet(characterNames(st.Characters), bookCharacterNames)
	resolvableElements := nameSet(elementNames)

	for i := range st.Scenes {
		result.merge(validateScene(&st.Scenes[i], st.Title, resolvableCharacters, resolvableElements))
	}
	return result
}

// ValidateScene 单独校验一个场景
func ValidateScene(sc *book.Scene, st *book.Story, b *book.Book) *ValidationResult {
	var bookNames []string
	if b != nil {
		bookNames = characterNames(b.Characters)
	}
	var storyNames []string
	var elementNames []string
	storyTitle := ""
	if st != nil {
		storyNames = characterNames(st.Characters)
		for _, el := range st.Elements {
			elementNames = append(elementNames, el.Name)
		}
		storyTitle = st.Title
	}
	return validateScene(sc, storyTitle, nameSet(storyNames, bookNames), nameSet(elementNames))
}

func validateScene(sc *book.Scene, storyTitle string, characters, elements map[string]bool) *ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(sc.Title) == "" {
		result.addError("故事「%s」中的场景「%s」标题不能为空", storyTitle, sc.ID)
	}
	if strings.TrimSpace(sc.Description) == "" {
		result.addError("场景「%s」描述不能为空", sc.Title)
	}

	// 悬空引用是错误而不是静默丢弃
	for _, name := range sc.Characters {
		if !characters[strings.ToLower(name)] {
			result.addError("场景「%s」引用了不存在的角色：%s", sc.Title, name)
		}
	}
	for _, name := range sc.Elements {
		if !elements[strings.ToLower(name)] {
			result.addError("场景「%s」引用了不存在的元素：%s", sc.Title, name)
		}
	}

	if len(sc.Characters) == 0 && len(sc.Elements) == 0 {
		result.addWarning("场景「%s」没有引用任何角色或元素", sc.Title)
	}

	return result
}
