package cache

import "math"

// heightKey converts a vehicle height in meters to whole millimeters so
// cache keys never compare floats. Bridge risk depends on vehicle height,
// so the height is part of every leg-cache key.
func heightKey(vehicleHeightMeters float64) int64 {
	return int64(math.Round(vehicleHeightMeters * 1000))
}
