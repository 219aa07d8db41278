package period

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryMake(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{name: "january", year: 2024, month: 1},
		{name: "december", year: 1901, month: 12},
		{name: "month zero", year: 2024, month: 0, wantErr: true},
		{name: "month thirteen", year: 2024, month: 13, wantErr: true},
		{name: "five digit year", year: 10000, month: 1, wantErr: true},
		{name: "negative year", year: -1, month: 1, wantErr: true},
		{name: "year zero", year: 0, month: 1, wantErr: true},
		{name: "last year", year: 9999, month: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := TryMake(tt.year, tt.month)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, m.Year)
			assert.Equal(t, time.Month(tt.month), m.Month)
		})
	}
}

func TestMake_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { Make(2024, 13) })
	assert.NotPanics(t, func() { Make(2024, 12) })
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Month
		wantErr bool
	}{
		{input: "2024-01-01", want: Make(2024, 1)},
		{input: "2023-06-15", want: Make(2023, 6)},
		{input: "2024-02-29", want: Make(2024, 2)},
		{input: "2023-02-29", wantErr: true},
		{input: "2024-1-01", wantErr: true},
		{input: "2024-01-1", wantErr: true},
		{input: "24-01-01", wantErr: true},
		{input: "2024/01/01", wantErr: true},
		{input: "2024-13-01", wantErr: true},
		{input: " 2024-01-01", wantErr: true},
		{input: "2024-01-01T00:00:00Z", wantErr: true},
		{input: "Jan 2024", wantErr: true},
		{input: "0000-01-01", wantErr: true},
		{input: "0001-01-01", want: Make(1, 1)},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name    string
		start   Month
		n       int
		want    string
		wantErr bool
	}{
		{name: "next month", start: Make(2024, 1), n: 1, want: "2024-02-01"},
		{name: "year rollover", start: Make(2024, 12), n: 1, want: "2025-01-01"},
		{name: "twelve months", start: Make(2023, 6), n: 12, want: "2024-06-01"},
		{name: "backwards across year", start: Make(2024, 1), n: -1, want: "2023-12-01"},
		{name: "zero", start: Make(2024, 5), n: 0, want: "2024-05-01"},
		{name: "many years", start: Make(1999, 11), n: 26, want: "2002-01-01"},
		{name: "into last month", start: Make(9999, 11), n: 1, want: "9999-12-01"},
		{name: "past year 9999", start: Make(9999, 12), n: 1, wantErr: true},
		{name: "before year 1", start: Make(1, 1), n: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.AddMonths(tt.n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.FirstDayString())
		})
	}
}

func TestFormatting(t *testing.T) {
	m := Make(987, 3)
	assert.Equal(t, "0987-03", m.String())
	assert.Equal(t, "0987-03-01", m.FirstDayString())
	assert.Equal(t, time.Date(987, time.March, 1, 0, 0, 0, 0, time.UTC), m.FirstDay())
}

func TestTextMarshaling(t *testing.T) {
	data, err := json.Marshal(map[string]Month{"start": Make(2024, 7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-07-01"}`, string(data))

	var decoded struct {
		Start Month `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2021-11-30"}`), &decoded))
	assert.Equal(t, Make(2021, 11), decoded.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"2021-11"}`), &decoded))
}
