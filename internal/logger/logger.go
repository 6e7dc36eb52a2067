// Package logger 基于 zap 提供 cagent 的结构化日志。
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cagent/internal/config"
)

// Logger 在 zap.SugaredLogger 之上附加阶段、根目录等上下文字段。
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New 按日志配置创建 Logger。日志文件无法打开时返回错误。
func New(cfg *config.LoggingConfig) (*Logger, error) {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sink, parseLevel(cfg.Level))
	return wrap(zap.New(core)), nil
}

// NewNop 返回丢弃所有输出的 Logger，供库调用方与测试使用。
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel 把配置中的级别字符串转换为 zapcore.Level，未知值按 info 处理。
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// newEncoder 根据格式选择编码器：json 用于采集，text 用于终端阅读。
// 不记录调用位置，阶段信息由 stage 字段承担。
func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// openSink 打开日志输出目标。
// 标准输出留给命令结果，因此默认写标准错误；写文件时同时镜像到标准错误。
func openSink(output string) (zapcore.WriteSyncer, error) {
	switch strings.TrimSpace(output) {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}

	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", output, err)
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(file), zapcore.Lock(os.Stderr)), nil
}

// WithStage 返回带流水线阶段字段的 Logger。
func (l *Logger) WithStage(stage string) *Logger {
	return l.with("stage", stage)
}

// WithRoot 返回带扫描根目录字段的 Logger。
func (l *Logger) WithRoot(root string) *Logger {
	return l.with("root", root)
}

func (l *Logger) with(key string, value any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(key, value), base: l.base}
}

// Sync 刷新缓冲中的日志。
func (l *Logger) Sync() error {
	return l.base.Sync()
}
