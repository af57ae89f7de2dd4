package huffman

import (
	"context"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// NbSymbs is the size of the byte alphabet.
const NbSymbs = 256

// below this size counting is done on the calling goroutine
const minParallelSize = 1 << 12

// Frequencies holds the number of occurrences of every byte value.
type Frequencies [NbSymbs]uint64

// Count returns the frequency table of d.
func Count(d []byte) Frequencies {
	var f Frequencies
	for _, c := range d {
		f[c]++
	}
	return f
}

// CountParallel splits d in up to nbTasks contiguous ranges, counts them
// concurrently and sums the partial tables. The result is the one Count returns.
func CountParallel(ctx context.Context, d []byte, nbTasks int) (Frequencies, error) {
	if err := ctx.Err(); err != nil {
		return Frequencies{}, err
	}
	if nbTasks <= 1 || len(d) < minParallelSize {
		return Count(d), nil
	}

	// every task gets at least minParallelSize bytes
	nbTasks = min(nbTasks, (len(d)+minParallelSize-1)/minParallelSize)
	chunkSize := (len(d) + nbTasks - 1) / nbTasks
	partials := make([]Frequencies, nbTasks)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < nbTasks; i++ {
		start := i * chunkSize
		if start >= len(d) {
			break
		}
		end := min(start+chunkSize, len(d))
		partial := &partials[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			*partial = Count(d[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Frequencies{}, err
	}

	var f Frequencies
	for i := range partials {
		for s, c := range partials[i] {
			f[s] += c
		}
	}
	return f, nil
}

// Total returns the sum of all counts, i.e. the length of the counted input.
func (f *Frequencies) Total() uint64 {
	var total uint64
	for _, c := range f {
		total += c
	}
	return total
}

// NbSymbols returns the number of distinct symbols with a nonzero count.
func (f *Frequencies) NbSymbols() int {
	n := 0
	for _, c := range f {
		if c != 0 {
			n++
		}
	}
	return n
}

// Present returns the set of symbols with a nonzero count.
func (f *Frequencies) Present() *bitset.BitSet {
	s := bitset.New(NbSymbs)
	for i, c := range f {
		if c != 0 {
			s.Set(uint(i))
		}
	}
	return s
}
