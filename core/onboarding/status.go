package onboarding

// Status is the school's onboarding status record: one boolean flag per
// tracked setup area, each proven by a domain fact (a saved profile, created
// departments, sent invitations...), never by a mere page visit.
//
// OnboardingCompleted is distinct from the per-step flags: it is set only by
// the finalize operation, never by a step.
type Status struct {
	ProfileCompleted    bool `json:"profile_completed" db:"profile_completed"`
	DepartmentsCreated  bool `json:"departments_created" db:"departments_created"`
	AdminStaffInvited   bool `json:"admin_staff_invited" db:"admin_staff_invited"`
	ProfessorsInvited   bool `json:"professors_invited" db:"professors_invited"`
	CoursesCreated      bool `json:"courses_created" db:"courses_created"`
	ClassesCreated      bool `json:"classes_created" db:"classes_created"`
	StudentsImported    bool `json:"students_imported" db:"students_imported"`
	OnboardingCompleted bool `json:"onboarding_completed" db:"onboarding_completed"`

	// CompletionPercentage is derived from the required steps; it is a progress
	// indicator only and plays no part in gating.
	CompletionPercentage int `json:"completion_percentage" db:"-"`
}

// Patch is the subset of Status flags a completed step action proves true.
// Merging is monotonic: a flag already true is never reverted, so applying the
// same patch twice yields the same record.
type Patch struct {
	ProfileCompleted   bool `json:"profile_completed,omitempty"`
	DepartmentsCreated bool `json:"departments_created,omitempty"`
	AdminStaffInvited  bool `json:"admin_staff_invited,omitempty"`
	ProfessorsInvited  bool `json:"professors_invited,omitempty"`
	CoursesCreated     bool `json:"courses_created,omitempty"`
	ClassesCreated     bool `json:"classes_created,omitempty"`
	StudentsImported   bool `json:"students_imported,omitempty"`
}

func (p Patch) IsZero() bool {
	return p == Patch{}
}

// Merge returns a copy of the record with the patch's true flags applied and
// the completion percentage recomputed.
func (s Status) Merge(p Patch) Status {
	if p.ProfileCompleted {
		s.ProfileCompleted = true
	}
	if p.DepartmentsCreated {
		s.DepartmentsCreated = true
	}
	if p.AdminStaffInvited {
		s.AdminStaffInvited = true
	}
	if p.ProfessorsInvited {
		s.ProfessorsInvited = true
	}
	if p.CoursesCreated {
		s.CoursesCreated = true
	}
	if p.ClassesCreated {
		s.ClassesCreated = true
	}
	if p.StudentsImported {
		s.StudentsImported = true
	}
	s.CompletionPercentage = Progress(s)
	return s
}

// WithProgress returns a copy of the record with CompletionPercentage
// recomputed. Storage only persists the raw flags.
func (s Status) WithProgress() Status {
	s.CompletionPercentage = Progress(s)
	return s
}

// CanCompleteOnboarding is the gate deciding whether a school may be marked
// onboarded: every required setup step must be complete, except staffing which
// is substitutable. Inviting admin staff OR professors satisfies the staff
// requirement; the two categories are not both mandatory.
//
// Kept as a named predicate (instead of a generic "all required flags" fold)
// so future substitution groups have a single place to land.
func CanCompleteOnboarding(s Status) bool {
	staffed := s.AdminStaffInvited || s.ProfessorsInvited
	return s.ProfileCompleted &&
		s.DepartmentsCreated &&
		staffed &&
		s.CoursesCreated &&
		s.StudentsImported
}
