package services

import (
	"testing"
	"time"

	"legalcase_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2026-01-27",
			expected: time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Surrounding spaces",
			input:    " 1966-06-13 ",
			expected: time.Date(1966, 6, 13, 0, 0, 0, 0, time.UTC),
		},
		{name: "Invalid format", input: "27-01-2026", wantErr: true},
		{name: "Invalid day", input: "2026-01-32", wantErr: true},
		{name: "Empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate("from", tt.input)
			if tt.wantErr {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "from", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got))
		})
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2024, 2, 28, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 28, 23, 59, 59, 999999999, time.UTC), got)
}
