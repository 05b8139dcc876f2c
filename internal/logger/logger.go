// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger configuration
type Config struct {
	LogsDirectory string
	LogFileFormat string
	TimeZone      string
	Level         string
}

var (
	initialized int32 // 0 = not initialized, 1 = initialized
	logger      *logrus.Logger
	timeZone    *time.Location
	logFilePath string
	mu          sync.Mutex // protect against concurrent initialization
)

// zoneFormatter stamps entries in the configured zone instead of the host zone.
type zoneFormatter struct {
	logrus.TextFormatter
}

func (f *zoneFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if timeZone != nil {
		entry.Time = entry.Time.In(timeZone)
	}
	return f.TextFormatter.Format(entry)
}

// SetupLogger initializes the logger with file and console output.
func SetupLogger(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	if atomic.LoadInt32(&initialized) == 1 {
		return fmt.Errorf("logger already initialized")
	}

	if config.TimeZone == "" {
		config.TimeZone = "Asia/Kolkata"
	}
	if config.LogFileFormat == "" {
		config.LogFileFormat = "server_%s.log"
	}

	loc, err := time.LoadLocation(config.TimeZone)
	if err != nil {
		logrus.Warnf("Failed to load time zone '%s', falling back to Local: %v", config.TimeZone, err)
		loc = time.Local
	}
	timeZone = loc

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	if err := os.MkdirAll(config.LogsDirectory, 0775); err != nil {
		return fmt.Errorf("failed to create logs directory '%s': %w", config.LogsDirectory, err)
	}

	logFileName := fmt.Sprintf(config.LogFileFormat, time.Now().In(loc).Format("2006-01-02"))

	// Respect whether LogFileFormat is an absolute path or not
	if filepath.IsAbs(logFileName) {
		logFilePath = logFileName
	} else {
		logFilePath = filepath.Join(config.LogsDirectory, logFileName)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0664)
	if err != nil {
		return fmt.Errorf("failed to open log file '%s': %w", logFilePath, err)
	}

	l := logrus.New()
	l.SetOutput(io.MultiWriter(os.Stdout, logFile))
	l.SetLevel(level)
	l.SetFormatter(&zoneFormatter{logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05 MST",
		DisableColors:   true,
	}})
	logger = l

	atomic.StoreInt32(&initialized, 1)
	LogInfo("Logger initialized, writing to %s", logFilePath)
	return nil
}

func GetLogFilePath() string {
	return logFilePath
}

func IsInitialized() bool {
	return atomic.LoadInt32(&initialized) == 1
}

// Entry returns the active logrus logger, or the standard one before setup.
func Entry() *logrus.Entry {
	if !IsInitialized() {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.NewEntry(logger)
}

func LogMessage(level logrus.Level, message string, v ...interface{}) {
	entry := Entry()
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, fmt.Sprintf(message, v...))
}

func LogDebug(message string, v ...interface{}) { LogMessage(logrus.DebugLevel, message, v...) }
func LogInfo(message string, v ...interface{})  { LogMessage(logrus.InfoLevel, message, v...) }
func LogWarn(message string, v ...interface{})  { LogMessage(logrus.WarnLevel, message, v...) }
func LogError(message string, v ...interface{}) { LogMessage(logrus.ErrorLevel, message, v...) }
func LogFatal(message string, v ...interface{}) {
	LogMessage(logrus.FatalLevel, message, v...)
	os.Exit(1)
}

// WithFields starts a structured entry, used by the request middleware.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Entry().WithFields(fields)
}

func LogHTTPError(r *http.Request, status int, err error) {
	clientIP := GetClientIP(r)
	LogError("HTTP %d error for %s %s from %s: %v", status, r.Method, r.URL.Path, clientIP, err)
}

func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
