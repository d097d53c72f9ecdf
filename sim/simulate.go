package sim

import "fmt"

// SampleBatch holds K x N reward samples: row = arm, column = trial.
type SampleBatch struct {
	rows [][]float64
}

// Simulate plays every arm of b n times and returns the samples.
//
// Arms are visited in the same order for every trial (trial 0: arm 0..K-1,
// trial 1: arm 0..K-1, ...), so exactly K*n rewards are drawn.
func Simulate(b *Bandit, n int) (*SampleBatch, error) {
	if n < 0 {
		return nil, fmt.Errorf("trial count %d is negative: %w", n, ErrInvalidParameter)
	}

	k := b.Arms()
	rows := make([][]float64, k)
	for a := range rows {
		rows[a] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for a := 0; a < k; a++ {
			r, err := b.Play(a)
			if err != nil {
				return nil, err
			}
			rows[a][i] = r
		}
	}
	return &SampleBatch{rows: rows}, nil
}

// Arms returns the number of rows.
func (s *SampleBatch) Arms() int {
	return len(s.rows)
}

// Trials returns the number of columns.
func (s *SampleBatch) Trials() int {
	if len(s.rows) == 0 {
		return 0
	}
	return len(s.rows[0])
}

// At returns the reward of arm a in trial i.
func (s *SampleBatch) At(a, i int) float64 {
	return s.rows[a][i]
}

// Row returns a copy of arm a's samples.
func (s *SampleBatch) Row(a int) []float64 {
	cp := make([]float64, len(s.rows[a]))
	copy(cp, s.rows[a])
	return cp
}

// Means returns the per-arm sample mean. Arms with no trials have mean 0.
func (s *SampleBatch) Means() []float64 {
	means := make([]float64, len(s.rows))
	for a, row := range s.rows {
		if len(row) == 0 {
			continue
		}
		var sum float64
		for _, r := range row {
			sum += r
		}
		means[a] = sum / float64(len(row))
	}
	return means
}

// Flatten returns all samples row by row: arm 0's trials, then arm 1's, ...
func (s *SampleBatch) Flatten() []float64 {
	out := make([]float64, 0, s.Arms()*s.Trials())
	for _, row := range s.rows {
		out = append(out, row...)
	}
	return out
}

// Sum returns the total of all samples.
func (s *SampleBatch) Sum() float64 {
	var sum float64
	for _, row := range s.rows {
		for _, r := range row {
			sum += r
		}
	}
	return sum
}
