package breakeven

import (
	"context"
	"fmt"
)

// SolveGoals runs the request once per goal and compares the principals found
func (s *Solver) SolveGoals(ctx context.Context, req BudgetRequest, goals []BudgetGoal) (*MultiGoalResult, error) {
	if len(goals) == 0 {
		goals = []BudgetGoal{GoalTotalOutlay, GoalChargesOnly}
	}

	var results []BudgetResult
	for _, goal := range goals {
		r := req
		r.Goal = goal
		result, err := s.Solve(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("goal %s: %w", goal, err)
		}
		results = append(results, *result)
	}

	return &MultiGoalResult{
		Results:         results,
		Recommendations: generateRecommendations(results),
	}, nil
}

func generateRecommendations(results []BudgetResult) []string {
	recommendations := []string{}

	for _, r := range results {
		if !r.Success {
			recommendations = append(recommendations,
				fmt.Sprintf("%s: no %s fits a budget of %s", r.Request.Goal, r.PrincipalField, r.Request.Budget))
			continue
		}
		switch r.Request.Goal {
		case GoalTotalOutlay:
			recommendations = append(recommendations,
				fmt.Sprintf("A budget of %s covers a %s of up to %s including %s of charges",
					r.Request.Budget, r.PrincipalField, r.Principal, r.Charges))
		case GoalChargesOnly:
			recommendations = append(recommendations,
				fmt.Sprintf("Charges stay within %s up to a %s of %s",
					r.Request.Budget, r.PrincipalField, r.Principal))
		}
	}

	return recommendations
}
