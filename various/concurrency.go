package various

import "sync"

// KickOffChunkWorkers splits totalItems into contiguous chunks and calls fn
// for each chunk on its own goroutine, returning once all are done.
func KickOffChunkWorkers(totalItems int, fn func(start, end int)) {
	numWorkers := 8

	var wg sync.WaitGroup
	var chunkStart int
	chunkSize := (totalItems / numWorkers) + 1
	for i := 0; i < numWorkers; i++ {
		curChunk := chunkSize
		if rem := totalItems - chunkStart; rem < curChunk {
			curChunk = rem
		}
		if curChunk <= 0 {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			fn(start, end)
			wg.Done()
		}(chunkStart, chunkStart+curChunk)
		chunkStart += curChunk
	}
	wg.Wait()
}

// ForEachChunk runs fn over [0, totalItems) either on the calling goroutine
// or split across chunk workers.
func ForEachChunk(totalItems int, parallel bool, fn func(start, end int)) {
	if !parallel {
		fn(0, totalItems)
		return
	}
	KickOffChunkWorkers(totalItems, fn)
}
