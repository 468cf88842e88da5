package stats

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultTrials is the number of random starting subsets tried by FastMCD.
	DefaultTrials = 30

	candidateSteps = 2
	refineSteps    = 30
	refineBest     = 10
)

var (
	// ErrTooFewSamples is returned when a matrix has no more rows than columns.
	ErrTooFewSamples = errors.New("stats: need more samples than features")
	// ErrZeroCovariance is returned when the rows a robust estimate is
	// computed from are all identical while other rows differ from them.
	ErrZeroCovariance = errors.New("stats: covariance matrix of the support data is equal to 0")
)

// MinCovDet estimates a robust location and covariance with the Minimum
// Covariance Determinant method (FastMCD), followed by a consistency
// correction and a reweighting step.
type MinCovDet struct {
	// SupportSize is the number of rows the raw estimate is computed from.
	// Zero selects ceil((n+p+1)/2). Values outside [p+1, n] are clamped.
	SupportSize int
	// Trials is the number of random starting subsets. Zero selects DefaultTrials.
	Trials int
	// Rand is the random source for starting subsets. Nil uses a source seeded with 0.
	Rand *rand.Rand
}

type candidate struct {
	support []int
	loc     []float64
	cov     *mat.SymDense
	prec    *mat.SymDense
	logDet  float64
}

// DefaultSupportSize returns the breakdown-optimal support size for n rows and p features.
func DefaultSupportSize(n, p int) int {
	return int(math.Ceil(0.5 * float64(n+p+1)))
}

// Fit estimates the robust covariance of the rows of X.
func (m MinCovDet) Fit(X *mat.Dense) (*Covariance, error) {
	n, p := X.Dims()
	if p == 0 || n <= p {
		return nil, errors.Wrapf(ErrTooFewSamples, "%d rows for %d features", n, p)
	}

	h := m.SupportSize
	if h == 0 {
		h = DefaultSupportSize(n, p)
	}
	h = max(h, p+1)
	h = min(h, n)

	var raw candidate
	if p == 1 {
		raw = univariateMCD(X, h)
	} else {
		trials := m.Trials
		if trials <= 0 {
			trials = DefaultTrials
		}
		rng := m.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(0))
		}
		raw = fastMCD(X, h, trials, rng)
	}

	if isZero(raw.cov) && len(raw.support) < n {
		return nil, errors.Wrapf(ErrZeroCovariance, "raw support of %d rows", len(raw.support))
	}

	chi := distuv.ChiSquared{K: float64(p)}

	// Consistency correction.
	d := squaredMahalanobis(X, raw.loc, raw.prec)
	if med := Median(d); med > 0 && !math.IsInf(raw.logDet, -1) {
		corr := med / chi.Quantile(0.5)
		raw.cov.ScaleSym(corr, raw.cov)
		raw.prec.ScaleSym(1/corr, raw.prec)
		raw.logDet += float64(p) * math.Log(corr)
		floats.Scale(1/corr, d)
	}

	// Reweighting.
	cut := chi.Quantile(0.975)
	keep := make([]int, 0, n)
	for i, v := range d {
		if v < cut {
			keep = append(keep, i)
		}
	}
	final := raw
	if len(keep) > p {
		loc, cov := empirical(X, keep)
		prec, logDet := precisionOf(cov)
		final = candidate{support: keep, loc: loc, cov: cov, prec: prec, logDet: logDet}
	}
	if isZero(final.cov) && len(final.support) < n {
		return nil, errors.Wrapf(ErrZeroCovariance, "reweighted support of %d rows", len(final.support))
	}

	return &Covariance{
		Location:   final.loc,
		Covariance: final.cov,
		Precision:  final.prec,
		Support:    final.support,
		LogDet:     final.logDet,
	}, nil
}

func fastMCD(X *mat.Dense, h, trials int, rng *rand.Rand) candidate {
	n, _ := X.Dims()
	cands := make([]candidate, 0, trials)
	for trial := 0; trial < trials; trial++ {
		start := rng.Perm(n)[:h]
		sort.Ints(start)
		cands = append(cands, cstep(X, start, h, candidateSteps))
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].logDet < cands[j].logDet })

	best := candidate{logDet: math.Inf(1)}
	for _, c := range cands[:min(refineBest, len(cands))] {
		r := cstep(X, c.support, h, refineSteps)
		if r.logDet < best.logDet || best.cov == nil {
			best = r
		}
	}
	return best
}

// cstep runs concentration steps from the given support until the covariance
// determinant stops decreasing or maxIter is reached.
func cstep(X *mat.Dense, support []int, h, maxIter int) candidate {
	loc, cov := empirical(X, support)
	prec, logDet := precisionOf(cov)
	cur := candidate{support: support, loc: loc, cov: cov, prec: prec, logDet: logDet}

	for iter := 0; iter < maxIter; iter++ {
		// exact fit, cannot improve
		if math.IsInf(cur.logDet, -1) {
			break
		}
		d := squaredMahalanobis(X, cur.loc, cur.prec)
		next := smallest(d, h)
		loc, cov := empirical(X, next)
		prec, logDet := precisionOf(cov)
		if logDet > cur.logDet {
			break
		}
		converged := math.Abs(logDet-cur.logDet) <= 1e-12*math.Max(1, math.Abs(cur.logDet))
		cur = candidate{support: next, loc: loc, cov: cov, prec: prec, logDet: logDet}
		if converged {
			break
		}
	}
	return cur
}

// univariateMCD finds the window of h consecutive sorted values with the
// smallest variance.
func univariateMCD(X *mat.Dense, h int) candidate {
	n, _ := X.Dims()
	vals := mat.Col(nil, 0, X)
	idx := make([]int, n)
	sorted := make([]float64, n)
	copy(sorted, vals)
	floats.Argsort(sorted, idx)

	var sum, sumSq float64
	for _, v := range sorted[:h] {
		sum += v
		sumSq += v * v
	}
	bestStart := 0
	bestVar := sumSq/float64(h) - (sum/float64(h))*(sum/float64(h))
	for s := 1; s+h <= n; s++ {
		out, in := sorted[s-1], sorted[s+h-1]
		sum += in - out
		sumSq += in*in - out*out
		mean := sum / float64(h)
		if v := sumSq/float64(h) - mean*mean; v < bestVar {
			bestVar, bestStart = v, s
		}
	}

	support := make([]int, h)
	copy(support, idx[bestStart:bestStart+h])
	sort.Ints(support)
	loc, cov := empirical(X, support)
	prec, logDet := precisionOf(cov)
	return candidate{support: support, loc: loc, cov: cov, prec: prec, logDet: logDet}
}

// smallest returns the sorted indices of the k smallest values of d.
func smallest(d []float64, k int) []int {
	cp := make([]float64, len(d))
	copy(cp, d)
	idx := make([]int, len(d))
	floats.Argsort(cp, idx)
	out := make([]int, k)
	copy(out, idx[:k])
	sort.Ints(out)
	return out
}

func isZero(a *mat.SymDense) bool {
	p := a.SymmetricDim()
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			if a.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}
