package logger

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SetupLogger(Config{
		LogsDirectory: dir,
		LogFileFormat: "pos_%s.log",
		TimeZone:      "UTC",
		Level:         "debug",
	}))
	assert.True(t, IsInitialized())
	assert.Equal(t, dir, filepath.Dir(GetLogFilePath()))

	LogWarn("stock of %s is low", "Tea")
	body, err := os.ReadFile(GetLogFilePath())
	require.NoError(t, err)
	assert.Contains(t, string(body), "stock of Tea is low")
	assert.Contains(t, string(body), "level=warning")

	assert.Error(t, SetupLogger(Config{LogsDirectory: dir}), "second setup must fail")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "1.2.3.4:80", "10.0.0.9"},
		{"remote addr", nil, "1.2.3.4:5555", "1.2.3.4"},
		{"no port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}
