package game

import (
	"math"
	"sort"
)

// Sum ...
func Sum(data []float64) (result float64) {
	for _, v := range data {
		result += v
	}
	return result
}

// Mean ...
func Mean(data []float64) float64 {
	count := float64(len(data))
	if count == 0 {
		return 0
	}
	return Sum(data) / count
}

// Median returns the middle value of the data set. The input is left
// untouched.
func Median(data []float64) float64 {
	count := len(data)
	if count == 0 {
		return 0.0
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	median := (sorted[(count-1)/2] + sorted[count/2]) * 0.5
	if count%2 != 0 {
		median = sorted[count/2]
	}
	return median
}

// Variance ...
func Variance(data []float64) (variance float64) {
	count := float64(len(data))
	if count == 0 {
		return 0.0
	}
	mean := Sum(data) / count

	for _, number := range data {
		variance += math.Pow(number-mean, 2)
	}
	return variance / count
}

// StandardDeviation ...
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Outliers counts the values falling outside 1.5 interquartile ranges of the
// quartiles.
func Outliers(collection []float64) int {
	count := len(collection)
	if count < 4 {
		return 0
	}
	sorted := append([]float64(nil), collection...)
	sort.Float64s(sorted)

	half := int(math.Ceil(float64(count) * 0.5))
	q1 := Median(sorted[:half])
	q3 := Median(sorted[half:])

	iqr := math.Abs(q1 - q3)
	lowThreshold := q1 - 1.5*iqr
	highThreshold := q3 + 1.5*iqr

	var outliers int
	for _, value := range sorted {
		if value < lowThreshold || value > highThreshold {
			outliers++
		}
	}
	return outliers
}
