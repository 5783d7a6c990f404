// Package extract 负责从上传的文件中提取纯文本内容。
// 仅支持 PDF、纯文本与 Markdown 三种类型，其余类型一律拒绝。
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedType 表示文件的 MIME 类型不在白名单内。
	ErrUnsupportedType = errors.New("不支持的文件类型，仅支持 PDF 和文本/Markdown")
	// ErrEmptyContent 表示提取出的文本为空。
	ErrEmptyContent = errors.New("文件内容为空")
)

// IsSupportedType 判断 Content-Type 是否在白名单内。
// 形如 "text/plain; charset=utf-8" 的参数部分会被忽略。
func IsSupportedType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "application/pdf", "text/plain", "text/markdown":
		return true
	}
	return false
}

// ExtractText 根据 Content-Type 提取文本。
// 返回的文本已去除首尾空白；提取结果为空时返回 ErrEmptyContent。
func ExtractText(data []byte, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	var content string
	switch mediaType {
	case "application/pdf":
		content, err = extractPDF(data)
		if err != nil {
			return "", err
		}
	case "text/plain", "text/markdown":
		content = string(data)
	default:
		return "", ErrUnsupportedType
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}

// extractPDF 逐页提取 PDF 的纯文本，解析失败的页面跳过而不是整体报错。
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("解析 PDF 失败: %w", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
