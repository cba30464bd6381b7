package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Params
		want       Params
		wantOffset int
	}{
		{"defaults", Params{}, Params{Page: 1, Limit: 6}, 0},
		{"third page", Params{Page: 3, Limit: 10}, Params{Page: 3, Limit: 10}, 20},
		{"limit capped", Params{Page: 1, Limit: 1000}, Params{Page: 1, Limit: 100}, 0},
		{"negative page", Params{Page: -2, Limit: 5}, Params{Page: 1, Limit: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestPage_Navigation(t *testing.T) {
	first := NewPage([]int{1, 2}, 5, Params{Page: 1, Limit: 2})
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	last := NewPage([]int{5}, 5, Params{Page: 3, Limit: 2})
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())

	empty := NewPage[int](nil, 0, Params{Page: 1, Limit: 6})
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNext())
}
