package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wind-turbine-etl/internal/config"
	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2020, 10, 27, 12, 0, 0, 0, time.UTC)
	project := domain.ProjectRecord{
		ProjectName:     "Newfoundland Project",
		Year:            domain.IntPtr(2001),
		Lat:             47.0,
		Lon:             -53.0,
		CapacityProject: 0.39,
		Turbines:        1,
	}

	msg, err := serializeToMessage(project, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("Newfoundland Project"), msg.Key)
	assert.JSONEq(t,
		`{"project_name":"Newfoundland Project","year":2001,"lat":47,"lon":-53,"capacity_project":0.39,"turbines":1}`,
		string(msg.Value),
	)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "year", msg.Headers[0].Key)
	assert.Equal(t, []byte("2001"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_NoYear(t *testing.T) {
	msg, err := serializeToMessage(domain.ProjectRecord{ProjectName: "Undated"}, time.Now())
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"year":null`)
	assert.Empty(t, msg.Headers[0].Value)
}

func TestWriter_EmptySummary(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "wind-projects"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "kafka", w.Name())
	require.NoError(t, w.WriteSummary(context.Background(), domain.Summary{}))
}
