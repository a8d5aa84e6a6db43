package extract

import (
	"testing"

	"go-jobdb-automation/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	listings := []models.JobListing{
		{URL: "https://example.com/1", Title: "営業職", Company: "A社"},
		{URL: "https://example.com/1", Title: "営業職", Company: "B社"}, // same URL+title
		{URL: "https://example.com/1", Title: "事務職"},                 // same URL, different title
		{URL: "https://example.com/2", Title: "営業職"},                 // same title, different URL
	}

	got := Dedupe(listings)

	assert.Len(t, got, 3)
	// first occurrence wins
	assert.Equal(t, "A社", got[0].Company)
	assert.Equal(t, "事務職", got[1].Title)
	assert.Equal(t, "https://example.com/2", got[2].URL)
}

func TestDedupeEmpty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestDecodeInto(t *testing.T) {
	// shape handed back by page.Evaluate: loosely-typed maps
	raw := []interface{}{
		map[string]interface{}{
			"source":   "jobins",
			"title":    "法人営業",
			"url":      "https://jobins.jp/agent/job/click_index=0",
			"company":  "社名非公開",
			"location": "東京",
			"salary":   "400万円～600万円",
		},
	}

	var listings []models.JobListing
	err := decodeInto(raw, &listings)

	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, "法人営業", listings[0].Title)
	assert.Equal(t, "400万円～600万円", listings[0].Salary)
}

func TestLabelsForFallback(t *testing.T) {
	known := labelsFor("jobins")
	assert.Contains(t, known.Description, "仕事内容")
	assert.Contains(t, known.Process, "選考プロセス")

	unknown := labelsFor("somewhere-else")
	assert.Equal(t, fallbackLabels, unknown)
}
