package echoapi

import (
	"github.com/shulehub/shule/core/onboarding"
)

type SuccessResponse struct {
	Success string `json:"success"`
}

// WorkflowResponse is the wizard state payload returned by every onboarding
// endpoint, so the UI can redraw from any action's response.
type WorkflowResponse struct {
	SchoolID    string                 `json:"school_id"`
	Status      onboarding.Status      `json:"status"`
	ActiveStep  onboarding.StepID      `json:"active_step"`
	CanFinalize bool                   `json:"can_finalize"`
	Finished    bool                   `json:"finished"`
	Degraded    bool                   `json:"degraded"`
	Steps       []onboarding.StepState `json:"steps"`
}

func newWorkflowResponse(schoolID string, wf *onboarding.Workflow) WorkflowResponse {
	return WorkflowResponse{
		SchoolID:    schoolID,
		Status:      wf.Status(),
		ActiveStep:  wf.ActiveStepID(),
		CanFinalize: wf.CanFinalize(),
		Finished:    wf.Finished(),
		Degraded:    wf.Degraded(),
		Steps:       wf.StepStates(),
	}
}
