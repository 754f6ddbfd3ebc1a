package onboarding

import "math"

type StepID string

const (
	StepProfile      StepID = "profile"
	StepDepartments  StepID = "departments"
	StepStaff        StepID = "staff"
	StepCourses      StepID = "courses"
	StepStudents     StepID = "students"
	StepIntegrations StepID = "integrations"
	StepAnalytics    StepID = "analytics"

	// StepFinished is the terminal pseudo-step reported once onboarding has
	// been finalized. It is not part of the registry.
	StepFinished StepID = "finished"
)

// Step is a single onboarding step definition. Required steps block
// finalization; optional steps never do. The done predicate derives the
// step's completion from the Status record; a nil predicate marks a pure
// opt-in step (integrations, analytics) that completes only by an explicit
// acknowledgment, without a persisted flag.
type Step struct {
	ID       StepID `json:"id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Required bool   `json:"required"`

	done func(Status) bool
}

// Complete reports whether the step is complete given the status record.
// Opt-in steps always report false.
func (s Step) Complete(st Status) bool {
	if s.done == nil {
		return false
	}
	return s.done(st)
}

// steps is the canonical ordered registry. Built once; read-only.
var steps = []Step{
	{
		ID: StepProfile, Title: "School profile", Order: 1, Required: true,
		done: func(s Status) bool { return s.ProfileCompleted },
	},
	{
		ID: StepDepartments, Title: "Departments", Order: 2, Required: true,
		done: func(s Status) bool { return s.DepartmentsCreated },
	},
	{
		// staffing is substitutable: either category of staff will do
		ID: StepStaff, Title: "Staff", Order: 3, Required: true,
		done: func(s Status) bool { return s.AdminStaffInvited || s.ProfessorsInvited },
	},
	{
		ID: StepCourses, Title: "Courses & classes", Order: 4, Required: true,
		done: func(s Status) bool { return s.CoursesCreated },
	},
	{
		ID: StepStudents, Title: "Students", Order: 5, Required: true,
		done: func(s Status) bool { return s.StudentsImported },
	},
	{ID: StepIntegrations, Title: "Integrations", Order: 6},
	{ID: StepAnalytics, Title: "Analytics", Order: 7},
}

// Steps returns a copy of the step registry in canonical order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// IncompleteRequiredSteps returns the required steps still blocking
// finalization, in canonical order.
func IncompleteRequiredSteps(st Status) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if s.Required && !s.Complete(st) {
			out = append(out, s)
		}
	}
	return out
}

// Progress computes the completion percentage: complete required steps over
// total required steps, rounded.
func Progress(st Status) int {
	var total, complete int
	for _, s := range steps {
		if !s.Required {
			continue
		}
		total++
		if s.Complete(st) {
			complete++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(complete) / float64(total) * 100))
}
