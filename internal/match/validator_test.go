package match

import (
	"testing"

	"go-jobdb-automation/internal/models"

	"github.com/stretchr/testify/assert"
)

func job(title, company, location, salary, description string) models.EnrichedJob {
	return models.EnrichedJob{
		JobListing: models.JobListing{
			Title:    title,
			Company:  company,
			Location: location,
			Salary:   salary,
		},
		Detail: models.JobDetail{
			Description:  description,
			Requirements: models.NoDetail,
			Conditions:   models.NoDetail,
			Process:      models.NoDetail,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		job        models.EnrichedJob
		criteria   models.FilterCriteria
		wantMatch  bool
		wantReason string
	}{
		{
			name:      "empty criteria always passes",
			job:       job("営業職", "株式会社テスト", "大阪", "300万円", "法人営業"),
			criteria:  models.FilterCriteria{},
			wantMatch: true,
		},
		{
			name:      "empty query passes keyword check",
			job:       job("営業職", "株式会社テスト", "東京", "300万円", "法人営業"),
			criteria:  models.FilterCriteria{Query: "", Location: "東京"},
			wantMatch: true,
		},
		{
			name:       "missing keyword fails with term named",
			job:        job("Backend Engineer", "Acme", "東京都", "500万円", "We use Go"),
			criteria:   models.FilterCriteria{Query: "engineer rust"},
			wantMatch:  false,
			wantReason: "キーワード「rust」が見つかりません",
		},
		{
			name:      "keyword match is case-insensitive across fields",
			job:       job("Backend Engineer", "Acme", "東京都", "500万円", "We use Python daily"),
			criteria:  models.FilterCriteria{Query: "ENGINEER python"},
			wantMatch: true,
		},
		{
			name:      "comma-separated terms are split",
			job:       job("Backend Engineer", "Acme", "東京都", "500万円", "Python shop"),
			criteria:  models.FilterCriteria{Query: "engineer,python"},
			wantMatch: true,
		},
		{
			name:      "ideographic-space-separated terms match independently",
			job:       job("法人営業", "株式会社テスト", "東京都", "500万円", "東京勤務の法人営業ポジション"),
			criteria:  models.FilterCriteria{Query: "営業　東京"},
			wantMatch: true,
		},
		{
			name:       "salary below floor fails with both values",
			job:        job("Backend Engineer (Python)", "Acme", "東京都", "450万円～600万円", "Python"),
			criteria:   models.FilterCriteria{Query: "engineer python", Location: "東京", MinSalary: "500"},
			wantMatch:  false,
			wantReason: "年収(450万)が希望(500万)を下回っています",
		},
		{
			name:      "unparsable salary never fails the salary check",
			job:       job("Backend Engineer", "Acme", "東京都", "応相談", "Python"),
			criteria:  models.FilterCriteria{Query: "engineer", MinSalary: "800"},
			wantMatch: true,
		},
		{
			name:      "salary at the floor passes",
			job:       job("Backend Engineer", "Acme", "東京都", "500万円～700万円", "Python"),
			criteria:  models.FilterCriteria{MinSalary: "500"},
			wantMatch: true,
		},
		{
			name:       "location mismatch fails with both values",
			job:        job("Backend Engineer (Python)", "Acme", "神奈川", "600万円～800万円", "Python"),
			criteria:   models.FilterCriteria{Query: "engineer python", Location: "東京", MinSalary: "500"},
			wantMatch:  false,
			wantReason: "勤務地「神奈川」が条件「東京」に合致しません",
		},
		{
			name:      "criterion contained in listing location passes",
			job:       job("Backend Engineer", "Acme", "東京都", "600万円", "Python"),
			criteria:  models.FilterCriteria{Location: "東京"},
			wantMatch: true,
		},
		{
			name:      "listing location contained in criterion passes",
			job:       job("Backend Engineer", "Acme", "東京", "600万円", "Python"),
			criteria:  models.FilterCriteria{Location: "東京都"},
			wantMatch: true,
		},
		{
			name:      "nationwide sentinel skips the location check",
			job:       job("Backend Engineer", "Acme", "福岡県", "600万円", "Python"),
			criteria:  models.FilterCriteria{Location: models.Nationwide},
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.job, tt.criteria)
			assert.Equal(t, tt.wantMatch, got.Match)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	j := job("Backend Engineer (Python)", "Acme", "東京都", "450万円～600万円", "Python")
	criteria := models.FilterCriteria{Query: "engineer python", Location: "東京", MinSalary: "500"}

	first := Validate(j, criteria)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Validate(j, criteria))
	}
}

func TestMinListedSalary(t *testing.T) {
	tests := []struct {
		salary string
		want   int
		ok     bool
	}{
		{"450万円～600万円", 450, true},
		{"600万円", 600, true},
		{"年収 720万円以上", 720, true},
		{"応相談", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := MinListedSalary(tt.salary)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MinListedSalary(%q) = (%d, %v), want (%d, %v)", tt.salary, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"engineer python", []string{"engineer", "python"}},
		{"engineer,python", []string{"engineer", "python"}},
		{"engineer，python", []string{"engineer", "python"}},
		{"営業　東京", []string{"営業", "東京"}},
		{"営業 　東京", []string{"営業", "東京"}},
		{"  engineer  ", []string{"engineer"}},
		{"　営業　", []string{"営業"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := Keywords(tt.query)
		assert.Equal(t, tt.want, got, "Keywords(%q)", tt.query)
	}
}

func TestNormalizeFoldsWidth(t *testing.T) {
	// full-width latin in listings must match half-width criteria
	assert.Equal(t, normalize("ｅｎｇｉｎｅｅｒ"), normalize("Engineer"))
}
