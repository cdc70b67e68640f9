package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"maritime-forecast/internal/model"
)

// TrendParams are the hyper-parameters of TrendModel. Defaults mirror the
// usual additive trend/seasonality settings: up to 25 changepoints in the
// first 80% of history, yearly Fourier order 10, 80% intervals.
type TrendParams struct {
	// ChangepointPriorScale bounds how much the slope may change at each
	// changepoint. Smaller = stiffer trend.
	ChangepointPriorScale float64
	// SeasonalityPriorScale bounds the Fourier coefficients.
	SeasonalityPriorScale float64
	// ChangepointRange is the leading fraction of history eligible for changepoints.
	ChangepointRange float64
	MaxChangepoints  int

	YearlySeasonality bool
	FourierOrder      int

	// IntervalWidth is the coverage of [Lower, Upper], e.g. 0.8.
	IntervalWidth float64
}

func DefaultTrendParams() TrendParams {
	return TrendParams{
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		ChangepointRange:      0.8,
		MaxChangepoints:       25,
		YearlySeasonality:     true,
		FourierOrder:          10,
		IntervalWidth:         0.8,
	}
}

func (p TrendParams) Validate() error {
	if p.ChangepointPriorScale <= 0 || p.SeasonalityPriorScale <= 0 {
		return errors.New("trend params: prior scales must be > 0")
	}
	if p.ChangepointRange <= 0 || p.ChangepointRange > 1 {
		return errors.New("trend params: changepoint range must be in (0, 1]")
	}
	if p.MaxChangepoints < 0 {
		return errors.New("trend params: max changepoints must be >= 0")
	}
	if p.YearlySeasonality && p.FourierOrder <= 0 {
		return errors.New("trend params: fourier order must be > 0 when yearly seasonality is on")
	}
	if p.IntervalWidth <= 0 || p.IntervalWidth >= 1 {
		return errors.New("trend params: interval width must be in (0, 1)")
	}
	return nil
}

// yearPeriodDays is the period of the yearly seasonal component.
const yearPeriodDays = 365.25

// TrendModel is an additive model y(t) = g(t) + s(t):
//   - g is a piecewise-linear trend whose slope may change at changepoints
//     spread over the first ChangepointRange of history;
//   - s is a yearly Fourier series over days since the Unix epoch.
//
// Weekly and daily seasonality are not modelled; observations are one per year,
// dated January 1st. The fit is a penalized least-squares (MAP with Gaussian
// priors) problem on max-abs scaled values, solved with a Cholesky factorization,
// so it is deterministic.
type TrendModel struct {
	Params TrendParams
}

func NewTrendModel(p TrendParams) (*TrendModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &TrendModel{Params: p}, nil
}

func (m *TrendModel) Name() string { return "additive-trend" }

// fit is a trained model ready to evaluate features at arbitrary years.
type fit struct {
	params       TrendParams
	startDays    float64
	tScale       float64
	yScale       float64
	changepoints []float64 // scaled t
	beta         *mat.VecDense
	sigma        float64 // residual std, original units
	nHistory     int
	lastYear     int
}

func (m *TrendModel) Predict(ctx context.Context, trend model.YearlyTrend, years []int) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkHistory(trend); err != nil {
		return nil, err
	}
	f, err := m.fit(trend)
	if err != nil {
		return nil, err
	}

	z := distuv.UnitNormal.Quantile(0.5 + m.Params.IntervalWidth/2)
	out := make([]Prediction, 0, len(years))
	for _, y := range years {
		yhat := mat.Dot(f.features(y), f.beta) * f.yScale
		steps := math.Max(0, float64(y-f.lastYear))
		half := z * f.sigma * math.Sqrt(1+steps/float64(f.nHistory))
		out = append(out, Prediction{Year: y, Yhat: yhat, Lower: yhat - half, Upper: yhat + half})
	}
	return out, nil
}

func (m *TrendModel) fit(trend model.YearlyTrend) (*fit, error) {
	n := len(trend)
	f := &fit{
		params:    m.Params,
		startDays: epochDays(trend.FirstYear()),
		nHistory:  n,
		lastYear:  trend.LastYear(),
	}
	f.tScale = epochDays(trend.LastYear()) - f.startDays

	for _, p := range trend {
		f.yScale = math.Max(f.yScale, math.Abs(p.TotalVolume))
	}
	if f.yScale == 0 {
		f.yScale = 1
	}

	// Changepoints sit on evenly spaced history points within the changepoint
	// range, excluding the first point.
	histSize := int(math.Floor(float64(n) * m.Params.ChangepointRange))
	nCP := min(m.Params.MaxChangepoints, histSize-1)
	for i := 1; i <= nCP; i++ {
		idx := int(math.Round(float64(i) * float64(histSize-1) / float64(nCP)))
		f.changepoints = append(f.changepoints, f.scaledT(trend[idx].Year))
	}

	nFeat := f.numFeatures()
	X := mat.NewDense(n, nFeat, nil)
	y := mat.NewVecDense(n, nil)
	for i, p := range trend {
		X.SetRow(i, f.features(p.Year).RawVector().Data)
		y.SetVec(i, p.TotalVolume/f.yScale)
	}

	// A = X'X + diag(penalty), b = X'y.
	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	for j, lambda := range f.penalties() {
		xtx.SetSym(j, j, xtx.At(j, j)+lambda)
	}
	var b mat.VecDense
	b.MulVec(X.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, errors.New("trend model: design matrix is not positive definite")
	}
	f.beta = mat.NewVecDense(nFeat, nil)
	if err := chol.SolveVecTo(f.beta, &b); err != nil {
		return nil, fmt.Errorf("trend model: solve: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(X, f.beta)
	ss := 0.0
	for i := 0; i < n; i++ {
		r := (y.AtVec(i) - fitted.AtVec(i)) * f.yScale
		ss += r * r
	}
	f.sigma = math.Sqrt(ss / float64(max(n-2, 1)))
	return f, nil
}

// Feature layout: [1, t, hinge(cp_1)..hinge(cp_k), sin_1, cos_1, ..., sin_N, cos_N].
func (f *fit) numFeatures() int {
	n := 2 + len(f.changepoints)
	if f.params.YearlySeasonality {
		n += 2 * f.params.FourierOrder
	}
	return n
}

func (f *fit) features(year int) *mat.VecDense {
	v := mat.NewVecDense(f.numFeatures(), nil)
	t := f.scaledT(year)
	v.SetVec(0, 1)
	v.SetVec(1, t)
	col := 2
	for _, cp := range f.changepoints {
		if t > cp {
			v.SetVec(col, t-cp)
		}
		col++
	}
	if f.params.YearlySeasonality {
		days := epochDays(year)
		for k := 1; k <= f.params.FourierOrder; k++ {
			x := 2 * math.Pi * float64(k) * days / yearPeriodDays
			v.SetVec(col, math.Sin(x))
			v.SetVec(col+1, math.Cos(x))
			col += 2
		}
	}
	return v
}

// penalties returns the ridge term for each feature: 1/scale^2 for slope
// changes and seasonal coefficients; intercept and base slope are free.
func (f *fit) penalties() []float64 {
	p := make([]float64, f.numFeatures())
	cp := 1 / (f.params.ChangepointPriorScale * f.params.ChangepointPriorScale)
	seas := 1 / (f.params.SeasonalityPriorScale * f.params.SeasonalityPriorScale)
	col := 2
	for range f.changepoints {
		p[col] = cp
		col++
	}
	for ; col < len(p); col++ {
		p[col] = seas
	}
	return p
}

func (f *fit) scaledT(year int) float64 {
	return (epochDays(year) - f.startDays) / f.tScale
}

// epochDays is the number of days from the Unix epoch to January 1st of year.
func epochDays(year int) float64 {
	return float64(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()) / 86400
}
