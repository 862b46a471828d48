package linkpred

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// AUC returns the area under the ROC curve of scores against binary labels.
// Tied scores count half. It is NaN when either class is empty.
func AUC(scores, labels []float64) float64 {
	y, classes := sortedByScore(scores, labels)
	var nPos int
	for _, c := range classes {
		if c {
			nPos++
		}
	}
	if nPos == 0 || nPos == len(classes) {
		return math.NaN()
	}
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	area := 0.0
	for i := 1; i < len(fpr); i++ {
		area += (fpr[i] - fpr[i-1]) * (tpr[i] + tpr[i-1]) / 2
	}
	return area
}

// AP returns the average precision: the sum over descending score
// thresholds of the recall gained times the precision at that threshold.
func AP(scores, labels []float64) float64 {
	y, classes := sortedByScore(scores, labels)
	var nPos float64
	for _, c := range classes {
		if c {
			nPos++
		}
	}
	if nPos == 0 {
		return math.NaN()
	}
	var tp, fp, recall, ap float64
	for i := len(y) - 1; i >= 0; i-- {
		if classes[i] {
			tp++
		} else {
			fp++
		}
		if i > 0 && y[i-1] == y[i] {
			continue
		}
		r := tp / nPos
		ap += (r - recall) * tp / (tp + fp)
		recall = r
	}
	return ap
}

// sortedByScore returns copies of scores and labels sorted ascending by score.
func sortedByScore(scores, labels []float64) ([]float64, []bool) {
	y := make([]float64, len(scores))
	copy(y, scores)
	classes := make([]bool, len(labels))
	for i, l := range labels {
		classes[i] = l > 0.5
	}
	stat.SortWeightedLabeled(y, classes, nil)
	return y, classes
}
