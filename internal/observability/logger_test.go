package observability

import (
	"bytes"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	entries [][]Field
}

func (r *recordingLogger) Debug(_ string, fields ...Field) { r.entries = append(r.entries, fields) }
func (r *recordingLogger) Info(_ string, fields ...Field)  { r.entries = append(r.entries, fields) }
func (r *recordingLogger) Warn(_ string, fields ...Field)  { r.entries = append(r.entries, fields) }
func (r *recordingLogger) Error(_ string, fields ...Field) { r.entries = append(r.entries, fields) }

func TestWithPrependsFields(t *testing.T) {
	rec := &recordingLogger{}
	scoped := With(With(rec, F("component", "stream")), F("ws", "Authenticated"))

	scoped.Info("opened", F("attempt", 1))

	require.Len(t, rec.entries, 1)
	require.Equal(t, []Field{
		{Key: "component", Value: "stream"},
		{Key: "ws", Value: "Authenticated"},
		{Key: "attempt", Value: 1},
	}, rec.entries[0])
}

func TestOrNopHandlesNil(t *testing.T) {
	require.NotPanics(t, func() {
		OrNop(nil).Error("ignored", F("k", "v"))
		With(nil, F("k", "v")).Info("ignored")
	})
}

func TestLogrusAdapterMapsFields(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetLevel(logrus.DebugLevel)

	logger := NewLogrusFrom(base)
	logger.Warn("retrying", F("ret_code", 10006), F("err", errors.New("rate limited")))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "retrying", decoded["msg"])
	require.Equal(t, "warning", decoded["level"])
	require.EqualValues(t, 10006, decoded["ret_code"])
	require.Equal(t, "rate limited", decoded["err"])
	require.NoError(t, logger.Close())
}
