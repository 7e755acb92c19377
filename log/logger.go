package log

import (
	"context"
)

// Logger 库内部使用的日志接口，只包含各包实际用到的方法
//
// 模型变换等同步操作不带 context，ddl 和 bind 这类在请求链路上执行的操作使用 Context 版本
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	// WarnContext 用于绑定失败这类调用方需要关注的情况
	WarnContext(ctx context.Context, msg string, args ...any)

	// With 返回附带固定字段的日志器
	With(args ...any) Logger
	// WithGroup 返回把后续字段归入 name 分组的日志器
	WithGroup(name string) Logger
}
