package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mdemidenko/homework-bot/config"
)

// New создает zap логгер: консоль плюс файл с ротацией по размеру.
// Строки файла имеют вид "<время> - <имя> - <уровень> - <сообщение>".
func New(cfg config.LoggingConfig, name string) (*zap.Logger, error) {
	return build(cfg, name, zapcore.Lock(os.Stderr), fileSink(cfg))
}

// fileSink возвращает ротируемый файл или nil, если файл не задан
func fileSink(cfg config.LoggingConfig) zapcore.WriteSyncer {
	if cfg.File == "" {
		return nil
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
}

func build(cfg config.LoggingConfig, name string, console, file zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(cfg.Format), console, level),
	}
	if file != nil {
		// в файл всегда пишется человекочитаемый текст
		cores = append(cores, zapcore.NewCore(newEncoder("console"), file, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(name), nil
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000")
	if format == "json" {
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.ConsoleSeparator = " - "
	encCfg.CallerKey = zapcore.OmitKey
	return zapcore.NewConsoleEncoder(encCfg)
}
