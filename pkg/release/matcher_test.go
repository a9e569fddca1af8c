package release

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchConfidenceString(t *testing.T) {
	tests := []struct {
		conf     MatchConfidence
		expected string
	}{
		{ConfidenceHigh, "high"},
		{ConfidenceMedium, "medium"},
		{ConfidenceLow, "low"},
		{ConfidenceNone, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.conf.String())
		})
	}
}

func TestMatchConfidence_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]MatchConfidence{"c": ConfidenceMedium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"medium"}`, string(data))

	var got map[string]MatchConfidence
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ConfidenceMedium, got["c"])

	assert.Error(t, json.Unmarshal([]byte(`{"c":"certain"}`), &got))
}

func TestMatchTitle(t *testing.T) {
	candidates := []string{"Frieren: Beyond Journey's End", "Sousou no Frieren"}

	got := MatchTitle("Sousou no Frieren", candidates)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
	assert.Equal(t, "Sousou no Frieren", got.Title)

	got = MatchTitle("Completely Different Show", candidates)
	assert.Equal(t, ConfidenceNone, got.Confidence)
	assert.Empty(t, got.Title)

	got = MatchTitle("Anything", nil)
	assert.Equal(t, ConfidenceNone, got.Confidence)
}

func TestMatchTitle_SequenceNumbers(t *testing.T) {
	same := MatchTitle("Mushoku Tensei 2", []string{"Mushoku Tensei 2"})
	different := MatchTitle("Mushoku Tensei 2", []string{"Mushoku Tensei 3"})
	missing := MatchTitle("Mushoku Tensei 2", []string{"Mushoku Tensei"})

	assert.Greater(t, same.Score, different.Score)
	assert.Greater(t, same.Score, missing.Score)
}
