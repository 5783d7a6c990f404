package model

import (
	"bytes"
	"encoding/json"
)

// IncomingMessage 是聊天请求中的一轮对话。
// Content 可能是纯字符串，也可能是结构化的分段列表，由 ContentNode 统一承载。
type IncomingMessage struct {
	Role    string      `json:"role"`
	Content ContentNode `json:"content"`
}

// ContentNode 是消息内容的带标签联合：
// 叶子节点携带 Text，结构化节点携带 Parts。
// Flatten 对两种形态做完整遍历，保证任何输入都能坍缩为一个扁平字符串。
type ContentNode struct {
	Text  string
	Parts []ContentNode
}

// Flatten 将节点树按顺序拼接为纯文本。
func (n ContentNode) Flatten() string {
	if len(n.Parts) == 0 {
		return n.Text
	}
	var buf bytes.Buffer
	buf.WriteString(n.Text)
	for _, p := range n.Parts {
		buf.WriteString(p.Flatten())
	}
	return buf.String()
}

// UnmarshalJSON 接受字符串、分段数组或携带 text/content 字段的对象。
// 无法识别的对象按其原始 JSON 文本保留，null 视为空串。
func (n *ContentNode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = ContentNode{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = ContentNode{Text: s}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		parts := make([]ContentNode, 0, len(raw))
		for _, item := range raw {
			var child ContentNode
			if err := child.UnmarshalJSON(item); err != nil {
				return err
			}
			parts = append(parts, child)
		}
		*n = ContentNode{Parts: parts}
		return nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if textRaw, ok := obj["text"]; ok {
			var s string
			if err := json.Unmarshal(textRaw, &s); err == nil {
				*n = ContentNode{Text: s}
				return nil
			}
			// 非字符串的 text 值（数字、布尔等）按字面文本收下
			var child ContentNode
			if err := child.UnmarshalJSON(textRaw); err == nil {
				*n = child
				return nil
			}
		}
		if contentRaw, ok := obj["content"]; ok {
			var child ContentNode
			if err := child.UnmarshalJSON(contentRaw); err == nil {
				*n = child
				return nil
			}
		}
		// 未识别的对象保留原始 JSON 文本
		*n = ContentNode{Text: string(trimmed)}
		return nil
	default:
		// 数字、布尔等标量按字面文本处理
		*n = ContentNode{Text: string(trimmed)}
		return nil
	}
}
