package common

import (
	"fmt"
	"math"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// CacheKey joins a cache prefix and an id.
func CacheKey(prefix string, id string) string {
	return prefix + id
}
