package service

import "strings"

const defaultCategory = "Politics"

// 优先级从高到低，命中即返回
var categoryFamilies = []struct {
	name     string
	keywords []string
}{
	{"Sports", []string{"sport"}},
	{"Crypto", []string{"crypto", "bitcoin", "ethereum", "blockchain"}},
	{"Economics", []string{"econ", "fed", "rate", "gdp", "inflation", "recession"}},
	{"Politics", []string{"politic", "election", "president", "congress", "senate"}},
	{"Entertainment", []string{"pop", "culture", "entertainment"}},
	{"Science", []string{"science", "technology"}},
}

// Classify 先匹配显式分类和标签，再匹配标题，都不命中归为 Politics。纯函数
func Classify(category string, tags []string, title string) string {
	explicit := strings.ToLower(category + " " + strings.Join(tags, " "))
	if c, ok := matchFamily(explicit); ok {
		return c
	}
	if c, ok := matchFamily(strings.ToLower(title)); ok {
		return c
	}
	return defaultCategory
}

func matchFamily(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, f := range categoryFamilies {
		for _, kw := range f.keywords {
			if strings.Contains(text, kw) {
				return f.name, true
			}
		}
	}
	return "", false
}

// CategoryMatches 路由上的分类参数不区分大小写
func CategoryMatches(marketCategory, requested string) bool {
	return strings.EqualFold(strings.TrimSpace(marketCategory), strings.TrimSpace(requested))
}
