package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver finds the largest principal of an act that a budget can carry.
// Act totals never decrease as the principal grows, so bisection applies.
type Solver struct {
	Registry *acts.Registry
	Options  SolverOptions
	logger   calculation.Logger
}

// NewSolver creates a new budget solver
func NewSolver(registry *acts.Registry, options SolverOptions) *Solver {
	return &Solver{
		Registry: registry,
		Options:  options,
		logger:   calculation.NopLogger{},
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(registry *acts.Registry) *Solver {
	return NewSolver(registry, DefaultSolverOptions())
}

// SetLogger sets the solver logger
func (s *Solver) SetLogger(l calculation.Logger) {
	s.logger = calculation.OrNop(l)
}

// probe is one evaluation of the act at a given principal
type probe struct {
	principal decimal.Decimal
	breakdown *domain.Breakdown
	outlay    decimal.Decimal
	fits      bool
}

// Solve runs the bisection for one request
func (s *Solver) Solve(ctx context.Context, req BudgetRequest) (*BudgetResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Goal == "" {
		req.Goal = GoalTotalOutlay
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	calc, err := s.Registry.Calculator(req.Act)
	if err != nil {
		return nil, err
	}
	if calc.Principal == "" {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("act %s has no principal amount to solve for", req.Act),
		}
	}

	places := s.Registry.Rulebook().RoundingPlaces
	unit := decimal.New(1, -places)
	tolerance := decimal.Max(req.Tolerance, unit)

	result := &BudgetResult{Request: req, PrincipalField: calc.Principal}

	eval := func(p decimal.Decimal) (probe, error) {
		result.Iterations++
		if err := ctx.Err(); err != nil {
			return probe{}, err
		}
		params := make(map[string]string, len(req.Params)+1)
		for k, v := range req.Params {
			params[k] = v
		}
		params[calc.Principal] = p.String()

		b, err := s.Registry.CalculateParams(req.Act, params)
		if err != nil {
			return probe{}, &BreakEvenError{
				Operation: "evaluate",
				Message:   fmt.Sprintf("%s=%s", calc.Principal, p),
				Cause:     err,
			}
		}
		outlay := b.Total
		if req.Goal == GoalTotalOutlay {
			outlay = outlay.Add(p)
		}
		return probe{principal: p, breakdown: b, outlay: outlay, fits: outlay.LessThanOrEqual(req.Budget)}, nil
	}

	loValue := unit
	if req.Constraints.MinPrincipal != nil {
		loValue = req.Constraints.MinPrincipal.Truncate(places)
	}
	lo, err := eval(loValue)
	if err != nil {
		return nil, err
	}
	if !lo.fits {
		result.ConvergenceInfo = fmt.Sprintf("budget %s does not cover the outlay %s at %s=%s",
			req.Budget, lo.outlay, calc.Principal, lo.principal)
		s.fill(result, lo, req.Budget)
		result.Principal = decimal.Zero
		s.logger.Debugf("budget %s: infeasible at minimum principal", req.Act)
		return result, nil
	}

	hi, err := s.upperBound(req, places, eval)
	if err != nil {
		return nil, err
	}
	if hi.fits {
		result.Success = true
		result.ConvergenceInfo = "upper bound fits the budget"
		s.fill(result, hi, req.Budget)
		return result, nil
	}

	two := decimal.NewFromInt(2)
	for hi.principal.Sub(lo.principal).GreaterThan(tolerance) && result.Iterations < req.MaxIterations {
		mid := lo.principal.Add(hi.principal).Div(two).Truncate(places)
		if mid.LessThanOrEqual(lo.principal) {
			break
		}
		p, err := eval(mid)
		if err != nil {
			return nil, err
		}
		if p.fits {
			lo = p
		} else {
			hi = p
		}
	}

	gap := hi.principal.Sub(lo.principal)
	result.Success = gap.LessThanOrEqual(tolerance)
	if result.Success {
		result.ConvergenceInfo = fmt.Sprintf("converged within %s", tolerance)
	} else {
		result.ConvergenceInfo = fmt.Sprintf("stopped after %d iterations with a gap of %s", result.Iterations, gap)
	}
	s.fill(result, lo, req.Budget)
	s.logger.Debugf("budget %s: %s=%s after %d evaluations", req.Act, calc.Principal, lo.principal, result.Iterations)

	return result, nil
}

// upperBound returns the first probe that exceeds the budget, or a fitting probe
// when the search space is exhausted
func (s *Solver) upperBound(req BudgetRequest, places int32, eval func(decimal.Decimal) (probe, error)) (probe, error) {
	if req.Constraints.MaxPrincipal != nil {
		return eval(req.Constraints.MaxPrincipal.Truncate(places))
	}

	// The principal alone already exhausts the budget.
	if req.Goal == GoalTotalOutlay {
		return eval(req.Budget.Truncate(places))
	}

	hi := req.Budget.Truncate(places)
	for i := 0; ; i++ {
		p, err := eval(hi)
		if err != nil || !p.fits || i >= s.Options.ExpandLimit {
			return p, err
		}
		hi = hi.Mul(decimal.NewFromInt(2))
	}
}

func (s *Solver) fill(result *BudgetResult, p probe, budget decimal.Decimal) {
	result.Principal = p.principal
	result.Breakdown = p.breakdown
	result.Charges = p.breakdown.Total
	result.Outlay = p.outlay
	result.Remaining = budget.Sub(p.outlay)
}
