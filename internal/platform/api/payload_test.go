package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestItems(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantN  int
		wantOK bool
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2, true},
		{"envelope", `{"count":1,"next":null,"results":[{"id":1}]}`, 1, true},
		{"empty envelope", `{"results":[]}`, 0, true},
		{"object", `{"id":1}`, 0, false},
		{"null", `null`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := Items(gjson.Parse(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, items, tt.wantN)
		})
	}
}

func TestNumericCoercion(t *testing.T) {
	doc := gjson.Parse(`{"a": 12, "b": "34", "c": null, "d": "x", "e": {"id": 9, "name": "n"}, "f": "1500.00", "g": 7.5}`)

	assert.Equal(t, int64(12), Int64(doc.Get("a")))
	assert.Equal(t, int64(34), Int64(doc.Get("b")))
	assert.Nil(t, OptInt64(doc.Get("c")))
	assert.Nil(t, OptInt64(doc.Get("d")))
	assert.Nil(t, OptInt64(doc.Get("missing")))
	require.NotNil(t, OptInt64(doc.Get("e")))
	assert.Equal(t, int64(9), *OptInt64(doc.Get("e")))

	price := OptFloat64(doc.Get("f"))
	require.NotNil(t, price)
	assert.InDelta(t, 1500.0, *price, 0.001)
	assert.InDelta(t, 7.5, *OptFloat64(doc.Get("g")), 0.001)
	assert.Nil(t, OptFloat64(doc.Get("c")))
	assert.Nil(t, OptFloat64(doc.Get("d")))
}

func TestStringAndBool(t *testing.T) {
	doc := gjson.Parse(`{"s": "x", "n": 5, "z": null, "t": "true", "b": false, "num": 1}`)

	assert.Equal(t, "x", String(doc.Get("s")))
	assert.Equal(t, "5", String(doc.Get("n")))
	assert.Equal(t, "", String(doc.Get("z")))

	assert.True(t, Bool(doc.Get("t"), false))
	assert.False(t, Bool(doc.Get("b"), true))
	assert.True(t, Bool(doc.Get("num"), false))
	assert.True(t, Bool(doc.Get("missing"), true))
}

func TestFirst(t *testing.T) {
	doc := gjson.Parse(`{"reserved_by": null, "reserved_by_id": 4}`)
	assert.Equal(t, int64(4), First(doc, "reserved_by", "reserved_by_id").Int())
	assert.False(t, First(doc, "gifted_by", "gifted_by_id").Exists())
}

func TestTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-03-15T14:30:00Z"`, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{`"2024-03-15T14:30:00.123456+03:00"`, time.Date(2024, 3, 15, 11, 30, 0, 123456000, time.UTC)},
		{`"2024-03-15 14:30:00"`, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{`"2024-03-15"`, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Time(gjson.Parse(tt.in))), Time(gjson.Parse(tt.in)))
		})
	}

	assert.True(t, Time(gjson.Parse(`"yesterday"`)).IsZero())
	assert.Nil(t, OptTime(gjson.Parse(`null`)))
}
