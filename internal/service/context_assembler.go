package service

import (
	"strings"
	"unicode/utf8"

	"ai-studio-go/internal/config"
	"ai-studio-go/internal/model"
)

// 知识上下文前导语，拼装在系统提示词之后。
const contextPreamble = "Use the following context to answer the user's questions if relevant:"

const (
	defaultMaxSources       = 3
	defaultMaxCharsPerEntry = 5000
)

// ContextAssembler 负责把项目的系统提示词和最新资料拼装成对话的系统消息。
type ContextAssembler struct {
	maxSources       int
	maxCharsPerEntry int
}

// NewContextAssembler 创建拼装器，配置缺省时回落到内置默认值。
func NewContextAssembler(cfg config.ContextConfig) *ContextAssembler {
	maxSources := cfg.MaxSources
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}
	maxChars := cfg.MaxCharsPerEntry
	if maxChars <= 0 {
		maxChars = defaultMaxCharsPerEntry
	}
	return &ContextAssembler{
		maxSources:       maxSources,
		maxCharsPerEntry: maxChars,
	}
}

// MaxSources 返回参与拼装的资料条数上限。
func (a *ContextAssembler) MaxSources() int {
	return a.maxSources
}

// truncateRunes 按字符数截断字符串，保证不会把多字节字符切到一半。
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// Build 生成系统消息内容。sources 必须按创建时间从新到旧排列，
// 只取前 maxSources 条，每条正文截断到 maxCharsPerEntry 个字符。
// 没有资料时只返回系统提示词本身。
func (a *ContextAssembler) Build(project *model.Project, sources []model.Source) string {
	if len(sources) == 0 {
		return project.SystemPrompt
	}
	if len(sources) > a.maxSources {
		sources = sources[:a.maxSources]
	}

	entries := make([]string, 0, len(sources))
	for _, source := range sources {
		content := truncateRunes(source.Content, a.maxCharsPerEntry)
		entries = append(entries, "[Source: "+source.FileName+"]\n"+content)
	}

	var sb strings.Builder
	sb.WriteString(project.SystemPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(contextPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(entries, "\n\n"))
	return sb.String()
}
