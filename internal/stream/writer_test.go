package stream

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go-jobdb-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNDJSONWriterKeepsEmissionOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	w.Emit(Log(LevelInfo, "jobins: 自動ログインを実行中..."))
	w.Emit(CaptchaRequired("careerbank", "https://example.com/captcha.png"))
	w.Emit(JobFound(models.EnrichedJob{
		JobListing: models.JobListing{Source: "jobins", Title: "法人営業"},
		ID:         "job_abc123def",
		Detail:     models.NewJobDetail(),
	}))
	w.Emit(Complete())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	var first Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "log", first.Type)
	assert.Equal(t, LevelInfo, first.Level)

	var second Event
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "captcha_required", second.Type)
	assert.Equal(t, "careerbank", second.Source)
	assert.Equal(t, "https://example.com/captcha.png", second.Image)

	var third Event
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	require.NotNil(t, third.Job)
	assert.Equal(t, "法人営業", third.Job.Title)
	assert.Equal(t, models.NoDetail, third.Job.Detail.Requirements)

	// the terminal event carries nothing but its tag
	assert.Equal(t, `{"type":"complete"}`, lines[3])
}

func TestCaptchaEventUsesDBKeyOnTheWire(t *testing.T) {
	data, err := json.Marshal(CaptchaRequired("careerbank", "img"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"db":"careerbank"`)
}
