package linkpred

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// probability clamp for the log terms of the loss
const eps = 1e-12

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// scaler standardises feature columns to zero mean and unit variance.
type scaler struct {
	mean, std []float64
}

func fitScaler(rows [][]float64) *scaler {
	if len(rows) == 0 {
		return &scaler{}
	}
	d := len(rows[0])
	s := &scaler{mean: make([]float64, d), std: make([]float64, d)}
	col := make([]float64, len(rows))
	for j := 0; j < d; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		m, sd := stat.MeanStdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		s.mean[j], s.std[j] = m, sd
	}
	return s
}

// apply returns the standardised row with a trailing bias term.
func (s *scaler) apply(r []float64) []float64 {
	out := make([]float64, len(r)+1)
	for j, v := range r {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	out[len(r)] = 1
	return out
}

// logReg is a logistic regression trained by full-batch gradient descent on
// the binary cross-entropy.
type logReg struct {
	w     []float64
	x     [][]float64
	y     []float64
	scale *scaler
	grad  []float64
}

func newLogReg(rows [][]float64, labels []float64) *logReg {
	sc := fitScaler(rows)
	x := make([][]float64, len(rows))
	for i, r := range rows {
		x[i] = sc.apply(r)
	}
	d := 1
	if len(x) > 0 {
		d = len(x[0])
	}
	return &logReg{
		w:     make([]float64, d),
		x:     x,
		y:     labels,
		scale: sc,
		grad:  make([]float64, d),
	}
}

// step applies one gradient update and returns the loss before it.
func (m *logReg) step(lr float64) float64 {
	for j := range m.grad {
		m.grad[j] = 0
	}
	loss := 0.0
	for i, xi := range m.x {
		p := sigmoid(floats.Dot(m.w, xi))
		y := m.y[i]
		loss -= y*math.Log(math.Max(p, eps)) + (1-y)*math.Log(math.Max(1-p, eps))
		floats.AddScaled(m.grad, p-y, xi)
	}
	n := float64(len(m.x))
	if n == 0 {
		return 0
	}
	floats.AddScaled(m.w, -lr/n, m.grad)
	return loss / n
}

func (m *logReg) predict(raw []float64) float64 {
	return sigmoid(floats.Dot(m.w, m.scale.apply(raw)))
}

// pairModel scores pairs with a logistic regression over pair features.
type pairModel struct {
	name    string
	feature func(Pair) []float64
	reg     *logReg
}

func newPairModel(name string, s *Split, feature func(Pair) []float64) *pairModel {
	pairs, labels := s.trainSet()
	rows := make([][]float64, len(pairs))
	for i, p := range pairs {
		rows[i] = feature(p)
	}
	return &pairModel{name: name, feature: feature, reg: newLogReg(rows, labels)}
}

func (m *pairModel) Name() string { return m.name }

func (m *pairModel) Epoch(learningRate float64) float64 {
	return m.reg.step(learningRate)
}

func (m *pairModel) Score(pairs []Pair) []float64 {
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = m.reg.predict(m.feature(p))
	}
	return out
}
