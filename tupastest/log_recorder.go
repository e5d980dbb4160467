package tupastest

import (
	"fmt"
	"strings"

	"github.com/cmstar/go-logx"
)

// NewLogRecorder 创建一个 LogRecorder 的新实例。
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

// LogRecorder 实现 logx.Logger ，将收到的日志逐条记录下来，用于断言校验过程输出的日志。
type LogRecorder struct {
	entries []LogEntry
}

// LogEntry 记录一条日志。
type LogEntry struct {
	Level   logx.Level // Level 日志的级别。
	Message string     // Message 日志的消息。

	// KeyValues 按收到的顺序记录键值对，展开存放，偶数下标是键，奇数下标是值。
	// 值使用 fmt.Sprintf("%v") 格式化。
	KeyValues []string
}

// Get 获取当前日志中指定的键对应的值。键不存在时返回空字符串。
func (e LogEntry) Get(key string) string {
	for i := 0; i < len(e.KeyValues)-1; i += 2 {
		if e.KeyValues[i] == key {
			return e.KeyValues[i+1]
		}
	}
	return ""
}

var _ logx.Logger = (*LogRecorder)(nil)

// Log 实现 Logger.Log() 。
func (l *LogRecorder) Log(level logx.Level, message string, keyValues ...interface{}) error {
	entry := LogEntry{
		Level:   level,
		Message: message,
	}

	length := len(keyValues)
	for i := 0; i < length-1; i += 2 {
		entry.KeyValues = append(entry.KeyValues,
			fmt.Sprintf("%v", keyValues[i]),
			fmt.Sprintf("%v", keyValues[i+1]),
		)
	}

	// 键值对落单时，把最后一个值记录在 UNKNOWN 键上。
	if length%2 != 0 {
		entry.KeyValues = append(entry.KeyValues, "UNKNOWN", fmt.Sprintf("%v", keyValues[length-1]))
	}

	l.entries = append(l.entries, entry)
	return nil
}

// LogFn 实现 Logger.LogFn() 。
func (l *LogRecorder) LogFn(level logx.Level, messageFactory func() (string, []interface{})) error {
	m, kv := messageFactory()
	return l.Log(level, m, kv...)
}

// Entries 返回当前记录的全部日志。
func (l *LogRecorder) Entries() []LogEntry {
	return l.entries
}

// String 返回当前记录的完整日志，一条一行，格式为：
//
//	level={LEVEL} message={MESSAGE} KEY1=VALUE1 KEY2=VALUE2 ...
func (l *LogRecorder) String() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString("level=")
		sb.WriteString(logx.LevelToString(e.Level))

		sb.WriteString(" message=")
		sb.WriteString(e.Message)

		for i := 0; i < len(e.KeyValues)-1; i += 2 {
			sb.WriteByte(' ')
			sb.WriteString(e.KeyValues[i])
			sb.WriteByte('=')
			sb.WriteString(e.KeyValues[i+1])
		}

		sb.WriteByte('\n')
	}
	return sb.String()
}
