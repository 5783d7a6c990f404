// Package service 包含了应用的业务逻辑层。
package service

import "errors"

// 业务层的哨兵错误，由 handler 映射为对应的 HTTP 状态码。
var (
	// ErrValidation 表示请求参数不合法（缺失字段、长度超限等），映射为 400。
	ErrValidation = errors.New("请求参数不合法")
	// ErrEmailTaken 表示注册邮箱已被占用，映射为 409。
	ErrEmailTaken = errors.New("该邮箱已被注册")
	// ErrInvalidCredentials 表示邮箱或密码错误，映射为 401。
	// 不区分“用户不存在”与“密码错误”，避免泄露账号是否存在。
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	// ErrNotFound 表示记录不存在或不属于当前用户，映射为 404。
	// 存在性与归属刻意不作区分。
	ErrNotFound = errors.New("记录不存在")
	// ErrUnsupportedFile 表示上传文件类型不在白名单内，映射为 400。
	ErrUnsupportedFile = errors.New("不支持的文件类型，仅支持 PDF 和文本/Markdown")
	// ErrEmptyFile 表示提取出的文本内容为空，映射为 400。
	ErrEmptyFile = errors.New("文件内容为空")
)
