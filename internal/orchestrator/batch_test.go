package orchestrator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go-jobdb-automation/internal/auth"
	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	ctx playwright.BrowserContext
	err error
}

func (s stubProvider) Context(bool) (playwright.BrowserContext, error) {
	return s.ctx, s.err
}

func collectEvents(o *Orchestrator, req Request) []stream.Event {
	var events []stream.Event
	o.Run(req, func(ev stream.Event) {
		events = append(events, ev)
	})
	return events
}

func TestRunEndsWithSingleCompleteWhenContextFails(t *testing.T) {
	o := New(stubProvider{err: errors.New("browser gone")}, auth.NewController(auth.NewCaptchaMailbox()), true)

	events := collectEvents(o, Request{
		FilterCriteria: models.FilterCriteria{Query: "営業"},
		Databases:      []string{"jobins", "careerbank"},
	})

	require.Len(t, events, 2)
	assert.Equal(t, "log", events[0].Type)
	assert.Equal(t, stream.LevelError, events[0].Level)
	assert.Contains(t, events[0].Message, "システムエラー")
	assert.Equal(t, "complete", events[1].Type)
}

func TestRunEndsWithSingleCompleteForUnknownSources(t *testing.T) {
	o := New(stubProvider{}, auth.NewController(auth.NewCaptchaMailbox()), true)

	events := collectEvents(o, Request{Databases: []string{"monster", "indeed", ""}})

	// unknown keys are skipped; the stream still closes with its terminal event
	require.Len(t, events, 1)
	assert.Equal(t, "complete", events[0].Type)
}

func TestRunEmitsExactlyOneComplete(t *testing.T) {
	o := New(stubProvider{err: errors.New("browser gone")}, auth.NewController(auth.NewCaptchaMailbox()), true)

	events := collectEvents(o, Request{Databases: []string{"jobins"}})

	completes := 0
	for _, ev := range events {
		if ev.Type == "complete" {
			completes++
		}
	}
	assert.Equal(t, 1, completes)
	assert.Equal(t, "complete", events[len(events)-1].Type)
}

func TestRequestBindsFlatCriteriaAndCredentials(t *testing.T) {
	body := `{
		"query": "営業 東京",
		"location": "東京",
		"minSalary": "500",
		"databases": ["jobins", "careerbank"],
		"credentials": {
			"jobins": {"email": "agent@example.com", "password": "s3cret"},
			"careerbank": {"user": "cb-user", "pass": "cb-pass"}
		}
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "営業 東京", req.Query)
	assert.Equal(t, "東京", req.Location)
	assert.Equal(t, "500", req.MinSalary)
	assert.Equal(t, []string{"jobins", "careerbank"}, req.Databases)

	// both credential key spellings resolve to the same accessors
	jobins := req.Credentials["jobins"]
	assert.Equal(t, "agent@example.com", jobins.Username())
	assert.Equal(t, "s3cret", jobins.Secret())

	careerbank := req.Credentials["careerbank"]
	assert.Equal(t, "cb-user", careerbank.Username())
	assert.Equal(t, "cb-pass", careerbank.Secret())
}

func TestRequestWithoutCredentialsBinds(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"query":"engineer","databases":["jobmiru"]}`), &req))
	assert.Empty(t, req.Credentials)
	_, ok := req.Credentials["jobmiru"]
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "営業", 15, "営業"},
		{"exactly at limit", "abcde", 5, "abcde"},
		{"ascii over limit", "abcdefgh", 5, "abcde"},
		{"multibyte over limit", "法人営業マネージャー候補", 4, "法人営業"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestNewJobIDShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := newJobID()
		require.True(t, strings.HasPrefix(id, "job_"), id)
		suffix := strings.TrimPrefix(id, "job_")
		require.Len(t, suffix, 9, id)
		for _, r := range suffix {
			assert.Contains(t, jobIDAlphabet, string(r))
		}
		seen[id] = true
	}
	// 50 draws over a 36^9 space should not collide
	assert.Greater(t, len(seen), 45)
}
