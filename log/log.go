package log

import "sync/atomic"

var defaultLogger atomic.Pointer[loggerHolder]

type loggerHolder struct {
	Logger
}

func init() {
	// 默认向 stderr 输出 text 格式日志
	l, err := NewLogWithOptions(&Options{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	SetDefault(l)
}

func Default() Logger {
	return defaultLogger.Load().Logger
}

// SetDefault 替换包级默认日志器，nil 会被忽略
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(&loggerHolder{Logger: l})
}
