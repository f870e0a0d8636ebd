package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/davin-cb/bayeslab/compute"
)

// splitChains halves every chain, dropping the middle draw of odd-length
// chains, so between-half drift shows up as a between-chain effect.
func splitChains(chains [][]float64) ([][]float64, error) {
	if len(chains) == 0 {
		return nil, ErrChains
	}
	n := len(chains[0])
	for _, c := range chains {
		if len(c) != n {
			return nil, ErrChains
		}
	}
	if n < 4 {
		return nil, ErrChains
	}
	half := n / 2
	out := make([][]float64, 0, 2*len(chains))
	for _, c := range chains {
		out = append(out, c[:half], c[len(c)-half:])
	}
	return out, nil
}

// RHat returns the split potential-scale-reduction statistic. Each chain is
// halved before comparing within-chain to between-chain variance, so a single
// unconverged chain still registers.
func RHat(chains [][]float64) (float64, error) {
	splits, err := splitChains(chains)
	if err != nil {
		return 0, err
	}
	m := float64(len(splits))
	n := float64(len(splits[0]))

	means := make([]float64, len(splits))
	vars := make([]float64, len(splits))
	for i, c := range splits {
		means[i] = stat.Mean(c, nil)
		vars[i] = stat.Variance(c, nil)
	}
	grand := stat.Mean(means, nil)

	b := 0.0
	for _, mu := range means {
		b += (mu - grand) * (mu - grand)
	}
	b *= n / (m - 1)
	w := stat.Mean(vars, nil)
	if w == 0 {
		return math.NaN(), nil
	}
	varHat := (n-1)/n*w + b/n
	return math.Sqrt(varHat / w), nil
}

// ESS returns the effective sample size of the pooled draws, from split
// chains and Geyer's initial monotone sequence over paired autocorrelation
// sums. The estimate is clamped to the actual draw count.
func ESS(chains [][]float64, backend compute.Backend) (float64, error) {
	splits, err := splitChains(chains)
	if err != nil {
		return 0, err
	}
	b := backend
	if b == nil {
		b = compute.Auto()
	}
	m := len(splits)
	n := len(splits[0])

	acov := make([][]float64, m)
	vars := make([]float64, m)
	means := make([]float64, m)
	for i, c := range splits {
		acov[i] = b.Autocovariance(c)
		vars[i] = acov[i][0] * float64(n) / float64(n-1)
		means[i] = stat.Mean(c, nil)
	}
	w := stat.Mean(vars, nil)

	grand := stat.Mean(means, nil)
	between := 0.0
	for _, mu := range means {
		between += (mu - grand) * (mu - grand)
	}
	between *= float64(n) / float64(m-1)
	varPlus := w*float64(n-1)/float64(n) + between/float64(n)
	if varPlus == 0 {
		return math.NaN(), nil
	}

	meanAcov := func(t int) float64 {
		s := 0.0
		for i := range acov {
			s += acov[i][t]
		}
		return s / float64(m)
	}

	rho := make([]float64, n)
	rho[0] = 1
	rhoEven, rhoOdd := 1.0, 1.0-(w-meanAcov(1))/varPlus
	rho[1] = rhoOdd
	t := 1
	for t < n-3 && rhoEven+rhoOdd > 0 {
		rhoEven = 1.0 - (w-meanAcov(t+1))/varPlus
		rhoOdd = 1.0 - (w-meanAcov(t+2))/varPlus
		if rhoEven+rhoOdd >= 0 {
			rho[t+1] = rhoEven
			rho[t+2] = rhoOdd
		}
		t += 2
	}
	maxT := t - 2
	if rhoEven > 0 {
		rho[maxT+1] = rhoEven
	}

	// Enforce monotone non-increasing pair sums.
	for t = 1; t <= maxT-2; t += 2 {
		if rho[t+1]+rho[t+2] > rho[t-1]+rho[t] {
			rho[t+1] = (rho[t-1] + rho[t]) / 2
			rho[t+2] = rho[t+1]
		}
	}

	tau := -1.0 + rho[maxT+1]
	for t = 0; t <= maxT; t++ {
		tau += 2 * rho[t]
	}
	if tau <= 0 {
		return math.NaN(), nil
	}
	ess := float64(m) * float64(n) / tau
	if total := float64(m) * float64(n); ess > total {
		ess = total
	}
	return ess, nil
}

// Geweke compares the mean of an early fraction of the series against the
// mean of a late fraction, at interval start points spread over the part of
// the series before the late fraction. Each returned pair is {start index,
// z-score}; scores within about two indicate agreement.
func Geweke(x []float64, first, last float64, intervals int) ([][2]float64, error) {
	if first <= 0 || first >= 1 || last <= 0 || last >= 1 || first+last >= 1 {
		return nil, ErrGewekeInterval
	}
	if intervals < 2 || len(x) < 4*intervals {
		return nil, ErrGewekeSpan
	}

	end := len(x) - 1
	lastStart := (1 - last) * float64(end)
	out := make([][2]float64, 0, intervals)
	for i := 0; i < intervals; i++ {
		start := int(float64(i) * lastStart / float64(intervals-1))
		h := int(first * float64(end-start))
		if h < 1 {
			return nil, ErrGewekeSpan
		}
		head := x[start : start+h]
		tail := x[end-int(last*float64(end-start)):]
		z := (stat.Mean(head, nil) - stat.Mean(tail, nil)) /
			math.Sqrt(popVariance(head)+popVariance(tail))
		out = append(out, [2]float64{float64(start), z})
	}
	return out, nil
}

// popVariance is the population (n divisor) variance.
func popVariance(x []float64) float64 {
	m := stat.Mean(x, nil)
	s := 0.0
	for _, v := range x {
		s += (v - m) * (v - m)
	}
	return s / float64(len(x))
}
