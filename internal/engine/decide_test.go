package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	e := MustNew()

	tests := []struct {
		name string
		tags TagMap
		want bool
	}{
		{
			name: "empty tag map",
			tags: TagMap{},
			want: false,
		},
		{
			name: "all ordinary",
			tags: TagMap{"a": {Kind: KindOrdinary}, "b": {Kind: KindOrdinary}},
			want: false,
		},
		{
			name: "standalone dominates everything",
			tags: TagMap{
				"phone": {Kind: KindStandalone, Type: "phone"},
				"x":     {Kind: KindOrdinary},
			},
			want: true,
		},
		{
			name: "single combinatorial category is not pii",
			tags: TagMap{
				"email": {Kind: KindCombinatorial, Category: CategoryEmail, Type: "email"},
			},
			want: false,
		},
		{
			name: "two distinct categories are pii",
			tags: TagMap{
				"name":  {Kind: KindCombinatorial, Category: CategoryName, Type: "name"},
				"email": {Kind: KindCombinatorial, Category: CategoryEmail, Type: "email"},
			},
			want: true,
		},
		{
			name: "repeats of one category count once",
			tags: TagMap{
				"device_id": {Kind: KindCombinatorial, Category: CategoryDeviceOrLocation, Type: "device_id"},
				"latitude":  {Kind: KindCombinatorial, Category: CategoryDeviceOrLocation, Type: "location"},
				"longitude": {Kind: KindCombinatorial, Category: CategoryDeviceOrLocation, Type: "location"},
			},
			want: false,
		},
		{
			name: "two emails still one category",
			tags: TagMap{
				"email":     {Kind: KindCombinatorial, Category: CategoryEmail, Type: "email"},
				"alt_email": {Kind: KindCombinatorial, Category: CategoryEmail, Type: "email"},
			},
			want: false,
		},
		{
			name: "address plus device crosses the threshold",
			tags: TagMap{
				"address":   {Kind: KindCombinatorial, Category: CategoryAddress, Type: "address"},
				"device_id": {Kind: KindCombinatorial, Category: CategoryDeviceOrLocation, Type: "device_id"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Decide(tt.tags))
		})
	}
}
