package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr error
	}{
		{name: "plain", input: "08:15", want: "08:15"},
		{name: "db format", input: "17:30:00", want: "17:30"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "single digit hour", input: "8:15", wantErr: ErrInvalidFormat},
		{name: "bad minutes", input: "08:75", wantErr: ErrInvalidFormat},
		{name: "after midnight", input: "24:30", wantErr: ErrOutOfRange},
		{name: "non zero seconds", input: "08:00:15", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	start := MustTimeString("08:45")

	next, err := start.AddMinutes(15)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00"), next)
	assert.Equal(t, 540, next.Minutes())

	assert.True(t, start.IsBefore(next))
	assert.True(t, next.IsAfter(start))
	assert.False(t, start.IsBefore(start))

	_, err = MustTimeString("23:50").AddMinutes(15)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("13:00:00"))
	assert.Equal(t, TimeString("13:00"), ts)

	require.NoError(t, ts.Scan([]byte("07:05:00")))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
