package calculator

import "errors"

// RSIPeriod is the lookback used for region summaries.
const RSIPeriod = 14

// neutralRSI is reported when there are too few closes to seed the averages.
const neutralRSI = 50.0

// CalculateRSI returns the Wilder-smoothed RSI of the closes. It needs period+1
// closes to seed the averages and reports neutralRSI with fewer.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return neutralRSI, nil
	}
	for _, c := range closes {
		if !finite(c) {
			return 0, errors.New("non-finite close in RSI input")
		}
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := move(closes[i-1], closes[i])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	n := float64(period)
	for i := period + 1; i < len(closes); i++ {
		gain, loss := move(closes[i-1], closes[i])
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}

	if avgLoss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+avgGain/avgLoss), nil
}

// move splits a close-to-close change into its gain and loss parts.
func move(prev, cur float64) (gain, loss float64) {
	d := cur - prev
	if d > 0 {
		return d, 0
	}
	return 0, -d
}
