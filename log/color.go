package log

import "strings"

const ansiReset = "\033[0m"

// Terminal colors per level; Silent never prints, so it has none.
var levelColors = map[LogLevel]string{
	Debug: "\033[34m",
	Info:  "\033[32m",
	Warn:  "\033[33m",
	Error: "\033[31m",
}

// colorize wraps a whole log line in the color of its level.
func colorize(l LogLevel, line string) string {
	color, ok := levelColors[l]
	if !ok {
		return line
	}

	var sb strings.Builder
	sb.Grow(len(color) + len(line) + len(ansiReset))
	sb.WriteString(color)
	sb.WriteString(line)
	sb.WriteString(ansiReset)
	return sb.String()
}
