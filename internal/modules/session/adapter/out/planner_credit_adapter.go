package out

import (
	"context"

	plannerdto "studyhub/internal/modules/planner/dto"
	plannerin "studyhub/internal/modules/planner/port/in"
	sessionout "studyhub/internal/modules/session/port/out"
)

type PlannerCreditAdapter struct {
	planner plannerin.Usecase
}

func NewPlannerCreditAdapter(planner plannerin.Usecase) sessionout.StudyCrediter {
	return &PlannerCreditAdapter{planner: planner}
}

func (a *PlannerCreditAdapter) CreditStudyTime(ctx context.Context, subjectID int64, seconds int) error {
	_, err := a.planner.CreditStudyTime(ctx, plannerdto.CreditInput{SubjectID: subjectID, Seconds: seconds})
	return err
}
