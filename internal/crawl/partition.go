package crawl

// Shards splits pages 1..totalPages into at most width interleaved shards:
// shard i gets pages i+1, i+1+width, i+1+2*width, … Interleaving balances
// shards regardless of where dense listing pages fall; contiguous chunks
// would let one shard drag behind on a dense stretch.
func Shards(totalPages, width int) [][]int {
	if totalPages < 1 {
		totalPages = 1
	}
	if width < 1 {
		width = 1
	}
	if width > totalPages {
		width = totalPages
	}

	shards := make([][]int, width)
	for i := 0; i < width; i++ {
		for page := i + 1; page <= totalPages; page += width {
			shards[i] = append(shards[i], page)
		}
	}
	return shards
}
