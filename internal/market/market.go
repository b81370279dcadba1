// Package market provides the price-formation and adoption-curve logic for
// the simulation. Everything here is a pure function of its inputs plus a
// caller-supplied random generator, which keeps runs reproducible under a
// fixed seed.
package market

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
)

// Tuning constants for the bounded random walk and the adoption drift.
// The walk perturbs price by at most ShockRange per interval at maximum
// volatility; the drift term scales with the adoption fraction and tapers
// exponentially as the run ages, so early-adoption momentum fades.
const (
	ShockRange      = 0.10
	DriftScale      = 0.02
	AdoptionDamping = 0.05
)

// NextPrice computes the next interval's price from the previous price.
//
// next = prev * (1 + drift + shock), where shock is a uniform draw in
// [-volatility*ShockRange, +volatility*ShockRange] and drift is the
// adoption-weighted term DriftScale * adoption * exp(-AdoptionDamping*elapsed).
// Volatility zero makes the walk fully deterministic.
//
// The result is rounded at precision and floored at the smallest positive
// representable value; the returned bool reports whether the floor clamped.
func NextPrice(prev, volatility, adoption decimal.Decimal, elapsed int, precision int32, rng *rand.Rand) (decimal.Decimal, bool) {
	shock := 0.0
	if vol := volatility.InexactFloat64(); vol > 0 {
		shock = vol * ShockRange * (2*rng.Float64() - 1)
	}
	drift := DriftScale * adoption.InexactFloat64() * math.Exp(-AdoptionDamping*float64(elapsed))

	next := prev.Mul(decimal.NewFromFloat(1 + drift + shock)).Round(precision)

	floor := decimal.New(1, -precision)
	if next.LessThan(floor) {
		return floor, true
	}
	return next, false
}

// ActiveTarget returns how many users should be active at the given tick
// under the exponential adoption curve round(N * (1 - exp(-growth*t/D))).
// The curve is monotone non-decreasing in t and bounded above by totalUsers,
// with diminishing growth as the run progresses.
func ActiveTarget(totalUsers, tick, duration int, growth float64) int {
	if totalUsers <= 0 || tick <= 0 {
		return 0
	}
	fraction := 1 - math.Exp(-growth*float64(tick)/float64(duration))
	target := int(math.Round(float64(totalUsers) * fraction))
	if target > totalUsers {
		target = totalUsers
	}
	return target
}

// SubSeed derives a per-user, per-interval seed from the run seed using a
// splitmix64-style mix. Each user's trade draws come from an independent
// generator, so results do not depend on the order users are processed in.
func SubSeed(seed int64, interval, user int) int64 {
	x := uint64(seed)
	x ^= (uint64(interval) + 1) * 0x9E3779B97F4A7C15
	x ^= (uint64(user) + 1) * 0xD6E8FEB86659FD93
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}
