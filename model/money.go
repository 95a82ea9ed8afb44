package model

import "math"

// Round2 金额四舍五入到分
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
