package utils

// Partition splits items into consecutive groups of at most size elements.
// Order is preserved and the last group may be shorter. A size < 1 yields
// nil so callers cannot loop forever on bad input.
func Partition[T any](items []T, size int) [][]T {
	if size < 1 || len(items) == 0 {
		return nil
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
