package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camerodev/wabridge/internal/bridge_service/adapters/filelog"
	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

type stubResolver struct {
	record *domain.ResolvedMessage
	err    error
	calls  int
}

func (r *stubResolver) Resolve(ctx context.Context, ev *domain.MessageEvent, dir domain.Direction) (*domain.ResolvedMessage, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	rec := *r.record
	rec.Direction = dir
	rec.Type = dir.String()
	return &rec, nil
}

type stubDeliverer struct {
	records []*domain.ResolvedMessage
}

func (d *stubDeliverer) Deliver(ctx context.Context, record *domain.ResolvedMessage, raw *domain.MessageEvent) {
	d.records = append(d.records, record)
}

func TestProcessor_Process(t *testing.T) {
	t.Run("Delivered", func(t *testing.T) {
		resolver := &stubResolver{record: &domain.ResolvedMessage{ID: uuid.New()}}
		fanout := &stubDeliverer{}
		proc := NewProcessor(resolver, fanout, nil, testLogger())

		require.NoError(t, proc.Process(context.Background(), baseEvent()))
		require.Len(t, fanout.records, 1)
		assert.Equal(t, domain.TypeInbound, fanout.records[0].Type)
	})

	t.Run("OutboundDirection", func(t *testing.T) {
		resolver := &stubResolver{record: &domain.ResolvedMessage{ID: uuid.New()}}
		fanout := &stubDeliverer{}
		proc := NewProcessor(resolver, fanout, nil, testLogger())

		ev := baseEvent()
		ev.FromMe = true
		require.NoError(t, proc.Process(context.Background(), ev))
		require.Len(t, fanout.records, 1)
		assert.Equal(t, domain.TypeOutbound, fanout.records[0].Type)
	})

	t.Run("RejectedEventSkipsPipeline", func(t *testing.T) {
		resolver := &stubResolver{record: &domain.ResolvedMessage{ID: uuid.New()}}
		fanout := &stubDeliverer{}
		proc := NewProcessor(resolver, fanout, nil, testLogger())

		ev := baseEvent()
		ev.IsStatus = true
		require.NoError(t, proc.Process(context.Background(), ev))
		assert.Zero(t, resolver.calls)
		assert.Empty(t, fanout.records)
	})

	t.Run("ResolveErrorIsRecorded", func(t *testing.T) {
		resolveErr := errors.New("contact lookup failed")
		resolver := &stubResolver{err: resolveErr}
		fanout := &stubDeliverer{}

		dataDir := filepath.Join(t.TempDir(), "data")
		store, err := filelog.NewStore(dataDir, testLogger())
		require.NoError(t, err)

		proc := NewProcessor(resolver, fanout, store, testLogger())

		err = proc.Process(context.Background(), baseEvent())
		require.Error(t, err)
		assert.ErrorIs(t, err, resolveErr)
		assert.Empty(t, fanout.records)

		// The failed event is dumped next to the day's logs.
		content := readErrorLog(t, dataDir)
		assert.Contains(t, content, "contact lookup failed")
		assert.Contains(t, content, "ABC123")
	})
}

func readErrorLog(t *testing.T, dataDir string) string {
	t.Helper()
	var content string
	err := filepath.WalkDir(dataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, "error_messages.log") {
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return readErr
			}
			content = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, content)
	return content
}

// Exercises the pipeline end to end with real resolution against flat
// files and in-memory sinks.
func TestProcessor_EndToEnd(t *testing.T) {
	fix := newResolverFixture(t, "Juan Perez:5551234\n", "Team A:ProjectX\n", "Cuenta Obra", "")

	fileSink := &captureSink{name: "file"}
	dbSink := &captureSink{name: "postgres"}
	fanout := NewFanout([]domain.Sink{fileSink, dbSink}, testLogger())
	proc := NewProcessor(fix.resolver, fanout, nil, testLogger())

	ev := &domain.MessageEvent{
		MessageID: "ABC123",
		Chat:      domain.ChatInfo{ID: "1203630@g.us", Name: "Team A", IsGroup: true},
		From:      "1203630@g.us",
		Author:    "5215551234@c.us",
		Timestamp: time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC).Unix(),
		Body:      "avance del día",
	}

	require.NoError(t, proc.Process(context.Background(), ev))

	require.Len(t, fileSink.delivered, 1)
	require.Len(t, dbSink.delivered, 1)

	rec := dbSink.delivered[0]
	assert.Equal(t, "Juan Perez", rec.SenderName)
	assert.Equal(t, "Cuenta Obra", rec.RecipientName)
	assert.Equal(t, "Team A", rec.GroupName)
	assert.Equal(t, "ProjectX", rec.ProjectID)
	assert.Equal(t, domain.TypeInbound, rec.Type)
	assert.Equal(t, "avance del día", rec.Body)
}
