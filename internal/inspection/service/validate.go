package service

import (
	"strings"

	"github.com/czttgd/breakinfo/internal/inspection/domain"
)

// validateForm checks the create/update form. Values are stored exactly
// as given; whitespace only matters for deciding whether a required
// text field is blank.
func validateForm(form domain.InspectionForm) error {
	switch {
	case form.Creator <= 0:
		return domain.ErrInvalidCreator
	case form.DeviceCode <= 0:
		return domain.ErrInvalidDeviceCode
	case form.BreakCauseA <= 0:
		return domain.ErrInvalidBreakCause
	case blank(form.CreationTime):
		return domain.ErrInvalidCreationTime
	case blank(form.BreakSpec):
		return domain.ErrInvalidBreakSpec
	}
	return checkBreakpoints(form)
}

// checkBreakpoints allows at most one breakpoint, and only the one the
// break flag selects.
func checkBreakpoints(form domain.InspectionForm) error {
	if form.BreakpointA != nil && form.BreakpointB != nil {
		return domain.ErrConflictingBreakpoints
	}
	if form.BreakFlag && form.BreakpointA != nil {
		return domain.ErrConflictingBreakpoints
	}
	if !form.BreakFlag && form.BreakpointB != nil {
		return domain.ErrConflictingBreakpoints
	}
	return nil
}

func validateFinal(final domain.FinalInspection) error {
	switch final.InspectionFlag {
	case domain.InspectionFlagInitial, domain.InspectionFlagFinal:
	default:
		return domain.ErrInvalidInspectionFlag
	}

	present := 0
	if final.BreakCauseB != nil {
		if *final.BreakCauseB <= 0 {
			return domain.ErrInvalidBreakCause
		}
		present++
	}
	if final.Inspector != nil {
		if *final.Inspector <= 0 {
			return domain.ErrInvalidFinalInspection
		}
		present++
	}
	if final.InspectionTime != nil {
		if blank(*final.InspectionTime) {
			return domain.ErrInvalidFinalInspection
		}
		present++
	}

	switch {
	case final.InspectionFlag == domain.InspectionFlagFinal && present == 3:
	case final.InspectionFlag == domain.InspectionFlagInitial && present == 0:
	default:
		return domain.ErrInvalidFinalInspection
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
