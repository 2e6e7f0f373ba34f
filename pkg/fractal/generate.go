package fractal

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Generate renders cfg one row at a time on the calling goroutine.
//
// It is the reference implementation: Generator produces identical bytes.
func Generate(cfg Config) (*Frame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	v, d := cfg.Viewport(), cfg.Dimensions()
	frame := newFrame(d)

	for y := 0; y < d.Height; y++ {
		inSet, iterations := renderRow(frame.row(y), y, v, d, cfg.MaxIterations)
		frame.Stats.InSet += inSet
		frame.Stats.Iterations += iterations
	}

	frame.Stats.Elapsed = time.Since(start)
	return frame, nil
}

// A Generator renders frames with rows spread over several goroutines.
type Generator struct {
	// Workers is the number of goroutines rendering rows.
	// Zero or less means runtime.NumCPU().
	Workers int
}

func (g Generator) workers(height int) int {
	n := g.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > height {
		n = height
	}
	return n
}

// Generate renders cfg. Each worker owns the rows it takes, so no two
// goroutines ever write the same bytes of the frame.
//
// If ctx is cancelled before every row has been handed out, Generate returns
// ctx.Err() and no frame.
func (g Generator) Generate(ctx context.Context, cfg Config) (*Frame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parallel := g.workers(cfg.Height)
	if parallel == 1 {
		return Generate(cfg)
	}

	start := time.Now()
	v, d := cfg.Viewport(), cfg.Dimensions()
	frame := newFrame(d)

	yChannel := make(chan int)
	complete := false

	go func() {
		defer close(yChannel)
		for y := 0; y < d.Height; y++ {
			select {
			case yChannel <- y:
			case <-ctx.Done():
				return
			}
		}
		complete = true
	}()

	var inSet, iterations atomic.Int64

	ywg := sync.WaitGroup{}
	ywg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer ywg.Done()

			var rowsInSet int
			var rowsIterations int64
			for y := range yChannel {
				in, it := renderRow(frame.row(y), y, v, d, cfg.MaxIterations)
				rowsInSet += in
				rowsIterations += it
			}

			inSet.Add(int64(rowsInSet))
			iterations.Add(rowsIterations)
		}()
	}
	ywg.Wait()

	// complete was written before yChannel closed, and every worker saw the close.
	if !complete {
		return nil, ctx.Err()
	}

	frame.Stats = Stats{
		InSet:      int(inSet.Load()),
		Iterations: iterations.Load(),
		Elapsed:    time.Since(start),
	}
	return frame, nil
}

// renderRow fills pix, the bytes of row y, and reports how many of its pixels
// are in the set and how many iterations the row took.
func renderRow(pix []byte, y int, v Viewport, d Dimensions, maxIterations int) (int, int64) {
	inSet := 0
	var total int64

	for x := 0; x < d.Width; x++ {
		i := EscapeTime(Map(x, y, v, d), maxIterations)
		if i == maxIterations {
			inSet++
		}
		total += int64(i)

		c := ColorFor(i, maxIterations)
		o := x * BytesPerPixel
		pix[o] = c.B
		pix[o+1] = c.G
		pix[o+2] = c.R
		pix[o+3] = c.A
	}

	return inSet, total
}
