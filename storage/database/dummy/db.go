package dummydb

import (
	"sync"

	"github.com/shulehub/shule/core/academics"
	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
	"github.com/shulehub/shule/core/staff"
	"github.com/shulehub/shule/core/student"
)

type (
	DB struct {
		school     *schoolTable
		onboarding *onboardingTable
		staff      *staffTable
		academics  *academicsTables
		student    *studentTable
	}

	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}

	onboardingTable struct {
		sync.RWMutex
		table map[string]*onboarding.Status // keyed by school id
	}

	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Member
	}

	academicsTables struct {
		sync.RWMutex
		departments map[string]*academics.Department
		courses     map[string]*academics.Course
		classes     map[string]*academics.Class
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}
)

func Open() (*DB, error) {
	db := &DB{
		school:     &schoolTable{table: make(map[string]*school.School)},
		onboarding: &onboardingTable{table: make(map[string]*onboarding.Status)},
		staff:      &staffTable{table: make(map[string]*staff.Member)},
		academics: &academicsTables{
			departments: make(map[string]*academics.Department),
			courses:     make(map[string]*academics.Course),
			classes:     make(map[string]*academics.Class),
		},
		student: &studentTable{table: make(map[string]*student.Student)},
	}
	return db, nil
}
