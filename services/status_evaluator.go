package services

import "ecm-api/models"

// EvaluateEcrStatus computes the overall ECR status from the record's flags
// and the given approvals, which must already include the decision currently
// being processed. It never mutates its inputs.
//
// Returns the new status and true when the overall status should change;
// otherwise ("", false).
//
// The order of the checks is load-bearing: a rejection anywhere wins before
// the required-department set is consulted, so a department that rejected and
// was later unmarked as required still keeps the ECR rejected.
func EvaluateEcrStatus(ecr *models.Ecr, approvals []models.EcrApproval, incomingDecision string) (string, bool) {
	if ecr.Status != models.EcrStatusPending {
		return "", false
	}

	for _, a := range approvals {
		if a.Status == models.DecisionRejected {
			return models.EcrStatusRejected, true
		}
	}
	if incomingDecision == models.DecisionRejected {
		return models.EcrStatusRejected, true
	}

	byDept := make(map[string]string, len(approvals))
	for _, a := range approvals {
		byDept[a.Department] = a.Status
	}

	required := ecr.RequiredDepartments()
	if len(required) == 0 {
		// No department is affected: the ECR approves vacuously.
		return models.EcrStatusApproved, true
	}

	for _, dept := range required {
		if byDept[dept] != models.DecisionApproved {
			return "", false
		}
	}
	return models.EcrStatusApproved, true
}
