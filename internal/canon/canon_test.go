package canon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"sorted keys", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"no html escaping", map[string]string{"x": "<a&b>"}, `{"x":"<a&b>"}`},
		{"nfc", "e\u0301", "\"\u00e9\""},
		{"float", 1.50, `1.5`},
		{"null", []any{nil, true}, `[null,true]`},
		{
			"struct tags",
			struct {
				Zed   string `json:"zed"`
				Alpha []int  `json:"alpha"`
			}{"z", []int{3, 1}},
			`{"alpha":[3,1],"zed":"z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	v := map[string]any{"k3": "c", "k1": []string{"a"}, "k2": map[string]int{"y": 1, "x": 2}}
	first := MustMarshal(v)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, MustMarshal(v))
	}
}

func TestMarshal_Unencodable(t *testing.T) {
	_, err := Marshal(math.NaN())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode")

	assert.Panics(t, func() { MustMarshal(math.Inf(1)) })
}
