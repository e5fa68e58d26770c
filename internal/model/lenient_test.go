package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountUnmarshalLooseValues(t *testing.T) {
	var rows []struct {
		N Count `json:"n"`
	}
	body := `[{"n":2},{"n":"5"},{"n":null},{"n":"abc"},{"n":3.9},{"n":"4 people"},{}]`
	require.NoError(t, json.Unmarshal([]byte(body), &rows))

	got := make([]int, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.N.Int())
	}
	assert.Equal(t, []int{2, 5, 0, 0, 3, 4, 0}, got)
}

func TestCountScan(t *testing.T) {
	cases := []struct {
		src  any
		want int
	}{
		{int64(7), 7},
		{[]byte("12"), 12},
		{"3", 3},
		{nil, 0},
		{float64(2), 2},
	}
	for _, tc := range cases {
		var c Count
		require.NoError(t, c.Scan(tc.src))
		assert.Equal(t, tc.want, c.Int(), "src=%v", tc.src)
	}
}

func TestAmountNullIsZero(t *testing.T) {
	var a struct {
		P Amount `json:"p"`
		D Amount `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":null,"d":"150.50"}`), &a))
	assert.Equal(t, 0.0, a.P.Float64())
	assert.Equal(t, 150.5, a.D.Float64())

	var s Amount
	require.NoError(t, s.Scan([]byte("999.99")))
	assert.Equal(t, 999.99, s.Float64())
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, 0.0, s.Float64())
}

func TestBookingPublicDropsInternalFields(t *testing.T) {
	b := Booking{ID: 9, CustomerName: "Asha", InternalNotes: "vip", LastModifiedBy: "ops@example.com", NumberOfPeople: 2}
	out, err := json.Marshal(b.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "internal_notes")
	assert.NotContains(t, string(out), "last_modified_by")
	assert.Contains(t, string(out), `"number_of_people":2`)
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, ValidBookingStatus("confirmed"))
	assert.False(t, ValidBookingStatus("Confirmed"))
	assert.True(t, ValidPaymentStatus("partial"))
	assert.False(t, ValidPaymentStatus("all"))
}
