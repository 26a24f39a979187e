package breakeven

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetGoal defines what the budget has to cover
type BudgetGoal string

const (
	GoalTotalOutlay BudgetGoal = "total_outlay" // principal + charges within budget
	GoalChargesOnly BudgetGoal = "charges_only" // charges alone within budget
)

// Valid reports whether g is a known goal
func (g BudgetGoal) Valid() bool {
	return g == GoalTotalOutlay || g == GoalChargesOnly
}

// Constraints bound the principal the solver may try
type Constraints struct {
	MinPrincipal *decimal.Decimal `json:"min_principal,omitempty"`
	MaxPrincipal *decimal.Decimal `json:"max_principal,omitempty"`
}

// BudgetRequest asks for the largest principal of an act that fits a budget
type BudgetRequest struct {
	Act    domain.ActType    `json:"act"`
	Params map[string]string `json:"params,omitempty"` // the other fields of the act
	Budget decimal.Decimal   `json:"budget"`
	Goal   BudgetGoal        `json:"goal"`

	Constraints   Constraints     `json:"constraints"`
	MaxIterations int             `json:"max_iterations,omitempty"`
	Tolerance     decimal.Decimal `json:"tolerance,omitempty"`
}

// BudgetResult is the outcome of one solve
type BudgetResult struct {
	Request         BudgetRequest `json:"request"`
	Success         bool          `json:"success"`
	Iterations      int           `json:"iterations"`
	ConvergenceInfo string        `json:"convergence_info,omitempty"`

	PrincipalField string            `json:"principal_field"`
	Principal      decimal.Decimal   `json:"principal"`
	Charges        decimal.Decimal   `json:"charges"`
	Outlay         decimal.Decimal   `json:"outlay"`
	Remaining      decimal.Decimal   `json:"remaining"`
	Breakdown      *domain.Breakdown `json:"breakdown,omitempty"`
}

// MultiGoalResult holds one solve per goal for the same act and budget
type MultiGoalResult struct {
	Results         []BudgetResult `json:"results"`
	Recommendations []string       `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance on the principal
	MaxIterations int             // Maximum bisection steps
	// ExpandLimit caps how many times the upper bound may double for charges_only.
	ExpandLimit int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1), // one currency unit
		MaxIterations: 200,
		ExpandLimit:   60,
	}
}

// Validate checks the request before any evaluation
func (r *BudgetRequest) Validate() error {
	if !r.Act.Valid() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "unknown act type: " + string(r.Act),
			Cause:     domain.ErrUnknownActType,
		}
	}
	if !r.Budget.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "budget must be positive",
		}
	}
	if r.Goal != "" && !r.Goal.Valid() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "unknown goal: " + string(r.Goal),
		}
	}
	if r.Tolerance.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "tolerance cannot be negative",
		}
	}

	c := r.Constraints
	if c.MinPrincipal != nil && !c.MinPrincipal.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_principal must be positive",
		}
	}
	if c.MinPrincipal != nil && c.MaxPrincipal != nil && c.MinPrincipal.GreaterThan(*c.MaxPrincipal) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_principal cannot be greater than max_principal",
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
