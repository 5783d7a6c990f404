package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ai-studio-go/internal/config"
	"ai-studio-go/internal/model"
)

func TestBuildWithoutSources(t *testing.T) {
	assembler := NewContextAssembler(config.ContextConfig{})
	project := &model.Project{SystemPrompt: "You are a pirate."}

	got := assembler.Build(project, nil)
	if got != "You are a pirate." {
		t.Errorf("got %q, want bare system prompt", got)
	}
}

func TestBuildTakesThreeNewestSources(t *testing.T) {
	assembler := NewContextAssembler(config.ContextConfig{})
	project := &model.Project{SystemPrompt: "prompt"}

	// 新的在前，模拟仓储的排序契约
	now := time.Now()
	sources := []model.Source{
		{FileName: "e.txt", Content: "EEE", CreatedAt: now},
		{FileName: "d.txt", Content: "DDD", CreatedAt: now.Add(-time.Minute)},
		{FileName: "c.txt", Content: "CCC", CreatedAt: now.Add(-2 * time.Minute)},
		{FileName: "b.txt", Content: "BBB", CreatedAt: now.Add(-3 * time.Minute)},
		{FileName: "a.txt", Content: "AAA", CreatedAt: now.Add(-4 * time.Minute)},
	}

	got := assembler.Build(project, sources)
	for _, want := range []string{"[Source: e.txt]", "[Source: d.txt]", "[Source: c.txt]", "EEE", "DDD", "CCC"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	for _, absent := range []string{"b.txt", "a.txt", "BBB", "AAA"} {
		if strings.Contains(got, absent) {
			t.Errorf("output contains %q, only 3 newest sources allowed", absent)
		}
	}
	if !strings.Contains(got, "Use the following context to answer the user's questions if relevant:") {
		t.Error("missing context preamble")
	}
	if !strings.HasPrefix(got, "prompt\n\n") {
		t.Errorf("output does not start with system prompt: %q", got[:20])
	}
}

func TestBuildTruncatesLongSource(t *testing.T) {
	assembler := NewContextAssembler(config.ContextConfig{})
	project := &model.Project{SystemPrompt: "p"}
	sources := []model.Source{
		{FileName: "big.txt", Content: strings.Repeat("x", 12000)},
	}

	got := assembler.Build(project, sources)
	runLen := strings.Count(got, "x")
	if runLen != 5000 {
		t.Errorf("included %d chars of source content, want 5000", runLen)
	}
}

func TestBuildTruncatesByCharacterNotByte(t *testing.T) {
	assembler := NewContextAssembler(config.ContextConfig{})
	project := &model.Project{SystemPrompt: "p"}
	// 4999 个 ASCII 字符加多字节中文，按字节截断会把字符切到一半
	content := strings.Repeat("x", 4999) + "中文内容"
	sources := []model.Source{{FileName: "cn.txt", Content: content}}

	got := assembler.Build(project, sources)
	if !utf8.ValidString(got) {
		t.Fatal("assembled system instruction contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(got, "中") {
		t.Error("5000th character dropped, cap applied in bytes instead of characters")
	}
	if strings.Contains(got, "文") {
		t.Error("5001st character included, cap not applied")
	}
}

func TestBuildMultibyteContentCountsCharacters(t *testing.T) {
	assembler := NewContextAssembler(config.ContextConfig{MaxCharsPerEntry: 4})
	project := &model.Project{SystemPrompt: "p"}
	sources := []model.Source{{FileName: "cn.txt", Content: "一二三四五六"}}

	got := assembler.Build(project, sources)
	if !strings.Contains(got, "一二三四") {
		t.Errorf("multi-byte content truncated short: %q", got)
	}
	if strings.Contains(got, "五") {
		t.Errorf("content over the character cap included: %q", got)
	}
}

func TestBuildHonorsConfiguredLimits(t *testing.T) {
	assembler := NewContextAssembler(config.ContextConfig{MaxSources: 1, MaxCharsPerEntry: 3})
	if assembler.MaxSources() != 1 {
		t.Fatalf("MaxSources = %d, want 1", assembler.MaxSources())
	}
	project := &model.Project{SystemPrompt: "p"}
	sources := []model.Source{
		{FileName: "a.txt", Content: "abcdef"},
		{FileName: "b.txt", Content: "ghijkl"},
	}

	got := assembler.Build(project, sources)
	if !strings.Contains(got, "abc") || strings.Contains(got, "abcd") {
		t.Errorf("per-entry cap not applied: %q", got)
	}
	if strings.Contains(got, "b.txt") {
		t.Errorf("source cap not applied: %q", got)
	}
}
