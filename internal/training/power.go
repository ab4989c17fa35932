package training

import "math"

const (
	rollingWindowSeconds = 30
	normalizedPowerOrder = 4
)

// NormalizedPower is the fourth root of the mean fourth power of the 30 second rolling average of 1 Hz
// samples. Shorter streams fall back to the average.
func NormalizedPower(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if len(samples) < rollingWindowSeconds {
		return average(samples)
	}

	sum := 0.0
	for _, s := range samples[:rollingWindowSeconds] {
		sum += s
	}
	total, count := 0.0, 0
	for i := rollingWindowSeconds - 1; i < len(samples); i++ {
		if i >= rollingWindowSeconds {
			sum += samples[i] - samples[i-rollingWindowSeconds]
		}
		total += math.Pow(sum/rollingWindowSeconds, normalizedPowerOrder)
		count++
	}
	return math.Pow(total/float64(count), 1.0/normalizedPowerOrder)
}

func average(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}
