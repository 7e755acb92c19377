package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		options *Options
		wantErr bool
	}{
		{name: "nil options", options: nil, wantErr: true},
		{name: "default", options: &Options{}},
		{name: "json", options: &Options{Level: "debug", Format: "json", Target: "discard"}},
		{name: "invalid level", options: &Options{Level: "trace"}, wantErr: true},
		{name: "invalid format", options: &Options{Format: "xml"}, wantErr: true},
		{name: "invalid target", options: &Options{Target: "file"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogWithOptions(tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestSLogLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogWithOptions(&Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	l.Debug("debug message")
	l.Info("info message")
	l.InfoContext(context.Background(), "info context message")
	l.WarnContext(context.Background(), "warn message", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.NotContains(t, out, "info context message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "key=value")
}

func TestSLogJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogWithOptions(&Options{
		Format:     "json",
		TimeFormat: "2006-01-02",
		Fields:     map[string]any{"service": "typedef"},
		Writer:     &buf,
	})
	require.NoError(t, err)

	l.With("model", "user").WithGroup("index").Info("index replaced", "name", "ind_id")

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
	assert.Equal(t, "index replaced", record["msg"])
	assert.Equal(t, "typedef", record["service"])
	assert.Equal(t, "user", record["model"])
	assert.Equal(t, map[string]any{"name": "ind_id"}, record["index"])
	assert.Len(t, record["time"], len("2006-01-02"))
}

func TestDefault(t *testing.T) {
	old := Default()
	require.NotNil(t, old)
	defer SetDefault(old)

	var buf bytes.Buffer
	l, err := NewLogWithOptions(&Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	SetDefault(l)
	SetDefault(nil)
	Default().Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
