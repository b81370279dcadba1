// Package engine implements the simulation core: a stochastic, stateful,
// multi-interval computation that grows an active-user population, evolves a
// token price through a volatility-bounded random walk, applies fees and
// burn to the circulating supply, and aggregates per-interval reports.
package engine

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
	"tokensim/internal/market"
	"tokensim/internal/models"
)

// Status is the lifecycle state of a simulation. A simulation instance
// represents exactly one run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Trade-generation constants: each active user trades with probability
// tradeProbability per interval, for at most maxTradeFraction of their
// funding base, scaled up with volatility.
const (
	tradeProbability = 0.5
	maxTradeFraction = 0.10
)

var hundred = decimal.NewFromInt(100)

// Simulation owns the token, population, options, and report sequence for
// the duration of one run. No external mutation is permitted once Run
// begins.
type Simulation struct {
	ID   uuid.UUID
	Name string

	token   models.Token
	users   []*models.User
	opts    models.SimulationOptions
	status  Status
	seed    int64
	rng     *rand.Rand
	feeSink decimal.Decimal
	vested  decimal.Decimal

	reports []models.IntervalReport
	report  *models.SimulationReport

	log       zerolog.Logger
	createdAt time.Time
	updatedAt time.Time
}

// New creates a pending simulation over the given token and options.
// Optional fields of the options are filled with defaults; validation
// happens when Run is called.
func New(name string, token models.Token, opts models.SimulationOptions) *Simulation {
	now := time.Now()
	return &Simulation{
		ID:        uuid.New(),
		Name:      name,
		token:     token,
		opts:      opts.WithDefaults(),
		status:    StatusPending,
		log:       zerolog.Nop(),
		createdAt: now,
		updatedAt: now,
	}
}

// WithLogger attaches a structured logger used for tick-level diagnostics.
func (s *Simulation) WithLogger(logger zerolog.Logger) *Simulation {
	s.log = logger.With().Str("simulation", s.Name).Str("run_id", s.ID.String()).Logger()
	return s
}

// Status returns the lifecycle state.
func (s *Simulation) Status() Status { return s.status }

// Seed returns the seed that drove the run. Meaningful after Run starts.
func (s *Simulation) Seed() int64 { return s.seed }

// Token returns a copy of the token's current state.
func (s *Simulation) Token() models.Token { return s.token }

// Options returns the run configuration.
func (s *Simulation) Options() models.SimulationOptions { return s.opts }

// IntervalReports returns the ordered report sequence recorded so far.
func (s *Simulation) IntervalReports() []models.IntervalReport { return s.reports }

// Report returns the final simulation report, or nil before the run ends.
func (s *Simulation) Report() *models.SimulationReport { return s.report }

// CreatedAt returns the creation time of the simulation.
func (s *Simulation) CreatedAt() time.Time { return s.createdAt }

// Run validates the configuration, then drives one tick per configured
// interval, feeding each report to the aggregator, and finalizes the
// overall report.
//
// Configuration errors surface before any tick executes. A burn demand
// against an exhausted supply stops the run early: reports emitted so far
// are preserved, the final report is synthesized from them with DurationRun
// below the configured duration, and the supply error is returned. A second
// call on the same instance returns ErrAlreadyRun.
func (s *Simulation) Run() error {
	if s.status != StatusPending {
		return errors.ErrAlreadyRun
	}
	if err := s.opts.Validate(); err != nil {
		s.setStatus(StatusFailed)
		return err
	}
	if err := s.token.Validate(); err != nil {
		s.setStatus(StatusFailed)
		return err
	}

	s.seed = s.opts.Seed
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(s.seed))

	// Run-wide rounding follows the options; the token carries the same
	// precision so supply arithmetic agrees with report arithmetic.
	prec := s.opts.DecimalPrecision
	s.token.DecimalPrecision = prec
	s.token.CirculatingSupply = s.token.TotalSupply

	// Airdrop recipients start active; without an airdrop the whole
	// population starts inactive and joins through the adoption curve.
	allocation := s.token.AirdropAllocation(s.opts.TotalUsers)
	s.users = models.GenerateUsers(s.opts.TotalUsers, allocation, allocation.Sign() > 0)

	s.setStatus(StatusRunning)
	s.log.Debug().
		Int64("seed", s.seed).
		Int("users", s.opts.TotalUsers).
		Int("duration", s.opts.Duration).
		Str("airdrop_per_user", allocation.String()).
		Msg("simulation started")

	agg := NewAggregator()
	price := s.token.InitialPrice.Round(prec)

	for tick := 1; tick <= s.opts.Duration; tick++ {
		report, err := s.processInterval(tick, &price)
		if err != nil {
			s.finish(agg, false)
			s.log.Warn().Err(err).Int("interval", tick).Msg("simulation stopped early")
			return err
		}
		if err := agg.Record(report); err != nil {
			s.finish(agg, false)
			return err
		}
		s.reports = append(s.reports, report)
	}

	if err := s.finish(agg, true); err != nil {
		return err
	}
	s.log.Debug().Int("intervals", len(s.reports)).Msg("simulation completed")
	return nil
}

// finish synthesizes the final report from whatever the aggregator has
// recorded and moves the simulation to its terminal status.
func (s *Simulation) finish(agg *Aggregator, completed bool) error {
	report, err := agg.Finalize(s.token, s.users, s.opts, completed)
	s.report = report
	if completed && err == nil {
		s.setStatus(StatusCompleted)
	} else {
		s.setStatus(StatusFailed)
	}
	return err
}

func (s *Simulation) setStatus(status Status) {
	s.status = status
	s.updatedAt = time.Now()
}

// processInterval performs one discrete tick: adoption, vesting unlocks,
// price step, trade generation, fee and burn application, and report
// assembly. Ticks are strictly sequential; price and population state are
// loop-carried.
func (s *Simulation) processInterval(tick int, price *decimal.Decimal) (models.IntervalReport, error) {
	prec := s.opts.DecimalPrecision
	total := s.opts.TotalUsers

	// Adoption step: activate users up to the curve's target.
	target := market.ActiveTarget(total, tick, s.opts.Duration, s.opts.AdoptionRate)
	active := models.CountActive(s.users)
	newUsers := 0
	for _, u := range s.users {
		if active+newUsers >= target {
			break
		}
		if !u.Active {
			u.Activate(tick)
			newUsers++
		}
	}
	active += newUsers
	adoption := decimal.NewFromInt(int64(active)).Div(decimal.NewFromInt(int64(total)))

	s.applyVesting(tick, active)

	// Price step: previous price, configured volatility, this interval's
	// adoption fraction.
	next, clamped := market.NextPrice(*price, s.opts.MarketVolatility, adoption, tick-1, prec, s.rng)
	if clamped {
		s.log.Debug().Int("interval", tick).Str("price", next.String()).Msg("price clamped at positive floor")
	}
	*price = next

	// Trade generation and fee application.
	volume, fees := s.generateTrades(tick, active)
	s.feeSink = s.feeSink.Add(fees)

	// Burn application: burn rate percent of traded volume, saturating at
	// the remaining supply. Burning against an exhausted supply is the one
	// runtime invariant violation.
	expected := volume.Mul(s.token.BurnRate).Div(hundred).Round(prec)
	burned, err := s.token.Burn(expected)
	if err != nil {
		return models.IntervalReport{}, errors.NewSupplyError(tick, expected.String())
	}

	report := models.IntervalReport{
		Index:             tick,
		Label:             s.opts.IntervalType.Label(tick),
		Price:             *price,
		VolumeTraded:      volume,
		ActiveUsers:       active,
		NewUsers:          newUsers,
		CirculatingSupply: s.token.CirculatingSupply,
		BurnedAmount:      burned,
		FeesCollected:     fees,
	}

	s.log.Debug().
		Int("interval", tick).
		Str("price", next.String()).
		Str("volume", volume.String()).
		Int("active_users", active).
		Str("burned", burned.String()).
		Msg("interval processed")

	return report, nil
}

type tradeResult struct {
	amount decimal.Decimal
	fee    decimal.Decimal
	delta  decimal.Decimal
	traded bool
}

// generateTrades draws one trade decision per active user and returns the
// interval's traded volume and collected fees.
//
// Per-user draws come from generators sub-seeded by (run seed, interval,
// user index), so the work fans out across workers without affecting the
// outcome. Buys are funded from the tick-start treasury, capped at an equal
// per-capita share so the total can never overdraw it; sells are capped at
// the user's balance. Fees are withheld from the traded value before
// crediting: buyers receive net of fee, seller proceeds return to the
// treasury net of fee.
func (s *Simulation) generateTrades(tick, active int) (decimal.Decimal, decimal.Decimal) {
	if active == 0 {
		return decimal.Zero, decimal.Zero
	}

	prec := s.opts.DecimalPrecision
	perCapita := decimal.Zero
	if treasury := s.treasury(); treasury.Sign() > 0 {
		perCapita = treasury.Div(decimal.NewFromInt(int64(active)))
	}
	feeFraction := s.opts.TransactionFee.Fraction()
	scale := maxTradeFraction * (0.25 + 0.75*s.opts.MarketVolatility.InexactFloat64())

	results := make([]tradeResult, len(s.users))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(s.users) {
		workers = len(s.users)
	}
	chunk := (len(s.users) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(s.users))
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				u := s.users[i]
				if !u.Active {
					continue
				}
				rng := rand.New(rand.NewSource(market.SubSeed(s.seed, tick, i)))
				if rng.Float64() >= tradeProbability {
					continue
				}
				buy := rng.Float64() < 0.5
				fraction := decimal.NewFromFloat(rng.Float64() * scale)

				var amount decimal.Decimal
				if buy {
					amount = perCapita.Mul(fraction)
				} else {
					amount = u.Balance.Mul(fraction)
				}
				amount = amount.Round(prec)
				if amount.Sign() <= 0 {
					continue
				}

				fee := amount.Mul(feeFraction).Round(prec)
				delta := amount.Sub(fee)
				if !buy {
					delta = amount.Neg()
				}
				results[i] = tradeResult{amount: amount, fee: fee, delta: delta, traded: true}
			}
		}(start, end)
	}
	wg.Wait()

	// Reduce in user-index order so the mutation sequence is deterministic.
	volume := decimal.Zero
	fees := decimal.Zero
	for i, r := range results {
		if !r.traded {
			continue
		}
		volume = volume.Add(r.amount)
		fees = fees.Add(r.fee)

		u := s.users[i]
		u.Balance = u.Balance.Add(r.delta)
		if u.Balance.Sign() < 0 {
			// No borrowing: a trade may never take a balance below zero.
			u.Balance = decimal.Zero
		}
	}
	return volume, fees
}

// treasury is the unallocated circulating supply: tokens neither held by a
// user nor sitting in the fee sink. Buys and vesting unlocks draw from it.
func (s *Simulation) treasury() decimal.Decimal {
	t := s.token.CirculatingSupply.Sub(models.SumBalances(s.users)).Sub(s.feeSink)
	if t.Sign() < 0 {
		return decimal.Zero
	}
	return t
}

// applyVesting distributes newly unlocked treasury tokens equally across the
// active population. Unlocks redistribute supply within circulation; they
// never change the circulating total.
func (s *Simulation) applyVesting(tick, active int) {
	if s.token.Vesting == nil || active == 0 {
		return
	}
	unlocked := s.token.Vesting.UnlockedTokens(s.token.TotalSupply, tick)
	newly := unlocked.Sub(s.vested)
	if newly.Sign() <= 0 {
		return
	}
	amount := decimal.Min(newly, s.treasury())
	if amount.Sign() <= 0 {
		return
	}
	perUser := amount.Div(decimal.NewFromInt(int64(active))).Round(s.opts.DecimalPrecision)
	for _, u := range s.users {
		if u.Active {
			u.Balance = u.Balance.Add(perUser)
		}
	}
	s.vested = unlocked
	s.log.Debug().Int("interval", tick).Str("unlocked", amount.String()).Msg("vesting unlock distributed")
}
