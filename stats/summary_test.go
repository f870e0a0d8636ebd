package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/davin-cb/bayeslab/labeled"
)

func summaryDataset(t *testing.T) *labeled.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(41))
	nChain, nDraw := 2, 200

	muData := make([]float64, nChain*nDraw)
	for i := range muData {
		muData[i] = 3 + rng.NormFloat64()
	}
	mu, err := labeled.NewArray("mu", muData, []int{nChain, nDraw}, []string{"chain", "draw"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	thetaData := make([]float64, nChain*nDraw*2)
	for i := range thetaData {
		thetaData[i] = rng.NormFloat64()
	}
	theta, err := labeled.NewArray("theta", thetaData, []int{nChain, nDraw, 2},
		[]string{"chain", "draw", "school"}, map[string][]string{"school": {"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}

	ds, err := labeled.NewDataset(mu, theta)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestSummaryRows(t *testing.T) {
	ds := summaryDataset(t)

	rows, warns, err := Summary(ds, SummaryOptions{})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("warnings = %v", warns)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (mu, theta[a], theta[b])", len(rows))
	}
	if rows[0].Name != "mu" || rows[1].Name != "theta[a]" || rows[2].Name != "theta[b]" {
		t.Fatalf("row names = %v %v %v", rows[0].Name, rows[1].Name, rows[2].Name)
	}

	mu := rows[0]
	if math.Abs(mu.Mean-3) > 0.2 {
		t.Errorf("mu mean = %v, want about 3", mu.Mean)
	}
	if math.Abs(mu.SD-1) > 0.2 {
		t.Errorf("mu sd = %v, want about 1", mu.SD)
	}
	if !(mu.HDILo < mu.Mean && mu.Mean < mu.HDIHi) {
		t.Errorf("mean outside HDI: [%v, %v] vs %v", mu.HDILo, mu.HDIHi, mu.Mean)
	}
	if mu.ESS <= 0 || mu.ESS > 400 {
		t.Errorf("mu ess = %v, want within (0, 400]", mu.ESS)
	}
	if math.Abs(mu.RHat-1) > 0.1 {
		t.Errorf("mu rhat = %v, want close to 1", mu.RHat)
	}
}

func TestSummarySelectsVariables(t *testing.T) {
	ds := summaryDataset(t)

	rows, _, err := Summary(ds, SummaryOptions{VarNames: []string{"theta"}, Filter: labeled.FilterLike})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	_, _, err = Summary(ds, SummaryOptions{VarNames: []string{"tau"}})
	if !errors.Is(err, labeled.ErrVarNotFound) {
		t.Errorf("unknown var: got %v, want ErrVarNotFound", err)
	}

	_, _, err = Summary(ds, SummaryOptions{CredibleInterval: 1.5})
	if !errors.Is(err, ErrCredibleInterval) {
		t.Errorf("bad interval: got %v, want ErrCredibleInterval", err)
	}
}
