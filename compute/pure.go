package compute

import (
	"runtime"
	"sync"
)

// Pure is the direct-summation reference backend.
type Pure struct {
	workers int
}

// NewPure returns the reference backend.
func NewPure() *Pure {
	return &Pure{workers: runtime.NumCPU()}
}

func (p *Pure) Name() string    { return "pure" }
func (p *Pure) Available() bool { return true }

func (p *Pure) Autocovariance(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	m := mean(x)
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		s := 0.0
		for i := 0; i+t < n; i++ {
			s += (x[i] - m) * (x[i+t] - m)
		}
		out[t] = s / float64(n)
	}
	return out
}

func (p *Pure) CovarianceMatrix(vars [][]float64) [][]float64 {
	k := len(vars)
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
	}
	if k == 0 || len(vars[0]) < 2 {
		return out
	}
	means := make([]float64, k)
	for i, v := range vars {
		means[i] = mean(v)
	}

	fill := func(i int) {
		for j := i; j < k; j++ {
			s := 0.0
			for t := range vars[i] {
				s += (vars[i][t] - means[i]) * (vars[j][t] - means[j])
			}
			c := s / float64(len(vars[i])-1)
			out[i][j] = c
			out[j][i] = c
		}
	}

	if k < 16 {
		for i := 0; i < k; i++ {
			fill(i)
		}
		return out
	}

	var wg sync.WaitGroup
	rows := make(chan int)
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				fill(i)
			}
		}()
	}
	for i := 0; i < k; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()
	return out
}

func mean(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}
