package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/davin-cb/bayeslab/compute"
)

func normalChains(seed int64, nChain, nDraw int, shift func(chain int) float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	chains := make([][]float64, nChain)
	for c := range chains {
		chains[c] = make([]float64, nDraw)
		off := 0.0
		if shift != nil {
			off = shift(c)
		}
		for i := range chains[c] {
			chains[c][i] = rng.NormFloat64() + off
		}
	}
	return chains
}

func TestRHatWellMixed(t *testing.T) {
	chains := normalChains(3, 4, 400, nil)
	r, err := RHat(chains)
	if err != nil {
		t.Fatalf("RHat: %v", err)
	}
	if math.Abs(r-1) > 0.1 {
		t.Errorf("rhat = %v, want close to 1", r)
	}
}

func TestRHatDetectsShift(t *testing.T) {
	chains := normalChains(5, 2, 400, func(c int) float64 { return float64(c) * 20 })
	r, err := RHat(chains)
	if err != nil {
		t.Fatalf("RHat: %v", err)
	}
	if r < 2 {
		t.Errorf("rhat = %v, want far above 1 for shifted chains", r)
	}
}

func TestRHatInputChecks(t *testing.T) {
	if _, err := RHat(nil); !errors.Is(err, ErrChains) {
		t.Errorf("empty input: got %v, want ErrChains", err)
	}
	if _, err := RHat([][]float64{{1, 2, 3, 4}, {1, 2}}); !errors.Is(err, ErrChains) {
		t.Errorf("ragged input: got %v, want ErrChains", err)
	}
	if _, err := RHat([][]float64{{1, 2}, {1, 2}}); !errors.Is(err, ErrChains) {
		t.Errorf("too few draws: got %v, want ErrChains", err)
	}
}

func TestESSIndependentDraws(t *testing.T) {
	chains := normalChains(7, 4, 100, nil)
	ess, err := ESS(chains, nil)
	if err != nil {
		t.Fatalf("ESS: %v", err)
	}
	if ess <= 100 || ess >= 800 {
		t.Errorf("ess = %v, want within (100, 800) for 400 independent draws", ess)
	}
}

func TestESSCorrelatedDrawsShrink(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	chains := make([][]float64, 4)
	for c := range chains {
		chains[c] = make([]float64, 500)
		v := 0.0
		for i := range chains[c] {
			// AR(1) with strong persistence.
			v = 0.95*v + rng.NormFloat64()
			chains[c][i] = v
		}
	}
	ess, err := ESS(chains, nil)
	if err != nil {
		t.Fatalf("ESS: %v", err)
	}
	if ess > 500 {
		t.Errorf("ess = %v, want well below the 2000 total draws", ess)
	}
}

func TestESSBackendsAgree(t *testing.T) {
	chains := normalChains(13, 2, 200, nil)

	pureESS, err := ESS(chains, compute.NewPure())
	if err != nil {
		t.Fatalf("ESS(pure): %v", err)
	}
	accelESS, err := ESS(chains, nil)
	if err != nil {
		t.Fatalf("ESS(auto): %v", err)
	}
	if math.Abs(pureESS-accelESS) > 1e-6*math.Max(pureESS, 1) {
		t.Errorf("backends disagree: pure %v vs auto %v", pureESS, accelESS)
	}
}

func TestGeweke(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	x := make([]float64, 10000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}

	scores, err := Geweke(x, 0.1, 0.5, 100)
	if err != nil {
		t.Fatalf("Geweke: %v", err)
	}
	if len(scores) != 100 {
		t.Fatalf("intervals = %d, want 100", len(scores))
	}
	if got := scores[len(scores)-1][0]; 10000*0.5-got != 1 {
		t.Errorf("last start = %v, want 4999", got)
	}
	for _, s := range scores {
		if math.Abs(s[1]) >= 1 {
			t.Errorf("z at start %v = %v, want |z| < 1 for stationary draws", s[0], s[1])
		}
	}
}

func TestGewekeValidation(t *testing.T) {
	x := make([]float64, 1000)
	cases := []struct {
		name        string
		first, last float64
		intervals   int
		err         error
	}{
		{"first too low", 0, 0.5, 20, ErrGewekeInterval},
		{"first too high", 1, 0.5, 20, ErrGewekeInterval},
		{"overlapping", 0.6, 0.5, 20, ErrGewekeInterval},
		{"one interval", 0.1, 0.5, 1, ErrGewekeSpan},
		{"too few draws", 0.1, 0.5, 500, ErrGewekeSpan},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Geweke(x, tc.first, tc.last, tc.intervals)
			if !errors.Is(err, tc.err) {
				t.Errorf("got %v, want %v", err, tc.err)
			}
		})
	}
}
