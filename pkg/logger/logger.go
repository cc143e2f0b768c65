// Package logger глобальный структурированный логгер сервисов на zerolog.
package logger

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

func newLogger(w io.Writer, serviceName string, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func Init(serviceName string, level string) {
	log = newLogger(os.Stdout, serviceName, level)
}

func InitWithWriter(serviceName string, level string, w io.Writer) {
	log = newLogger(w, serviceName, level)
}

// InitLogstash дублирует логи в Logstash по TCP
func InitLogstash(addr string, serviceName string, level string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}

	log = newLogger(zerolog.MultiLevelWriter(os.Stdout, conn), serviceName, level)
	return nil
}

// Setup инициализирует логгер из LOG_LEVEL и LOGSTASH_ADDR
func Setup(serviceName string) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr == "" {
		return
	}
	if err := InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
		Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		return
	}
	Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
}

func Info() *zerolog.Event {
	return log.Info()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

func With() zerolog.Context {
	return log.With()
}

func WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

// PrintfLogger логгер для библиотек, принимающих Printf (cron, kafka-go)
type PrintfLogger interface {
	Printf(format string, args ...interface{})
}

type levelPrintf struct {
	level zerolog.Level
}

func (l levelPrintf) Printf(format string, args ...interface{}) {
	log.WithLevel(l.level).Msgf(format, args...)
}

// NewPrintfLogger пишет сообщения библиотеки в общий логгер на уровне level
func NewPrintfLogger(level zerolog.Level) PrintfLogger {
	return levelPrintf{level: level}
}
