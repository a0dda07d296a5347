package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestPrepare_FileLogger(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "folio.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}
	log, closer, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden message")
	log.Info("layout finished", zap.Int("texts", 3))
	_ = log.Sync()
	closer()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "layout finished") || !strings.Contains(out, AppName) {
		t.Errorf("log file is missing entry:\n%s", out)
	}
	if strings.Contains(out, "hidden message") {
		t.Errorf("debug entry written at normal level:\n%s", out)
	}
}

func TestPrepare_BadDestination(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(t.TempDir(), "missing", "dir", "x.log")},
	}
	if _, _, err := conf.Prepare(); err == nil {
		t.Fatal("expected error for inaccessible destination")
	}
}

// TestConsoleEncoderFlattensErrors 验证控制台编码器只输出错误的单行消息。
func TestConsoleEncoderFlattensErrors(t *testing.T) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = zapcore.OmitKey
	enc := newEncoder(ec)
	err := multierr.Combine(errors.New("first"), errors.New("second"))
	buf, encErr := enc.EncodeEntry(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "failed"}, []zapcore.Field{zap.Error(err)})
	if encErr != nil {
		t.Fatalf("EncodeEntry() error = %v", encErr)
	}
	out := buf.String()
	if !strings.Contains(out, "first; second") {
		t.Errorf("missing error message: %s", out)
	}
	if strings.Contains(out, "errorVerbose") {
		t.Errorf("verbose error leaked to console: %s", out)
	}
}
