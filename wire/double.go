package wire

import "math"

func doubleBits(f float64) uint64 { return math.Float64bits(f) }
func bitsToDouble(v uint64) float64 { return math.Float64frombits(v) }
