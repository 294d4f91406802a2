package crawl

import (
	"reflect"
	"testing"
)

func TestShards(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		width      int
		want       [][]int
	}{
		{
			name:       "interleaved assignment",
			totalPages: 7,
			width:      3,
			want:       [][]int{{1, 4, 7}, {2, 5}, {3, 6}},
		},
		{
			name:       "width clamps to total pages",
			totalPages: 2,
			width:      8,
			want:       [][]int{{1}, {2}},
		},
		{
			name:       "single shard gets everything",
			totalPages: 4,
			width:      1,
			want:       [][]int{{1, 2, 3, 4}},
		},
		{
			name:       "zero pages clamps to one",
			totalPages: 0,
			width:      4,
			want:       [][]int{{1}},
		},
		{
			name:       "zero width clamps to one",
			totalPages: 3,
			width:      0,
			want:       [][]int{{1, 2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shards(tt.totalPages, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Shards(%d, %d) = %v, want %v", tt.totalPages, tt.width, got, tt.want)
			}
		})
	}
}

// Every page in 1..totalPages must appear in exactly one shard.
func TestShardsCoverEveryPageOnce(t *testing.T) {
	for totalPages := 1; totalPages <= 40; totalPages++ {
		for width := 1; width <= 10; width++ {
			seen := make(map[int]int)
			for _, shard := range Shards(totalPages, width) {
				for _, page := range shard {
					seen[page]++
				}
			}
			if len(seen) != totalPages {
				t.Fatalf("total=%d width=%d: covered %d pages, want %d", totalPages, width, len(seen), totalPages)
			}
			for page := 1; page <= totalPages; page++ {
				if seen[page] != 1 {
					t.Fatalf("total=%d width=%d: page %d assigned %d times", totalPages, width, page, seen[page])
				}
			}
		}
	}
}
