package dummydb

import (
	"context"
	"sort"

	"github.com/shulehub/shule/core/academics"
)

type academicsRepository struct {
	db *academicsTables
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) *academicsRepository {
	return &academicsRepository{db: db.academics}
}

func (repo *academicsRepository) CheckDepartmentNameUniqueness(ctx context.Context, schoolID, name string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, dept := range repo.db.departments {
		if dept.SchoolID == schoolID && dept.Name == name {
			return academics.ErrNameExists
		}
	}
	return nil
}

func (repo *academicsRepository) CreateDepartment(ctx context.Context, dept academics.Department) (academics.Department, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.departments[dept.ID] = &dept
	return dept, nil
}

func (repo *academicsRepository) GetDepartmentByID(ctx context.Context, id string) (academics.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	if dept, ok := repo.db.departments[id]; ok {
		return *dept, nil
	}
	return academics.Department{}, academics.ErrDepartmentNotFound
}

func (repo *academicsRepository) QuerySchoolDepartments(ctx context.Context, schoolID string) ([]academics.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	var depts []academics.Department
	for _, dept := range repo.db.departments {
		if dept.SchoolID == schoolID {
			depts = append(depts, *dept)
		}
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
	return depts, nil
}

func (repo *academicsRepository) CreateCourse(ctx context.Context, crs academics.Course) (academics.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *academicsRepository) GetCourseByID(ctx context.Context, id string) (academics.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return academics.Course{}, academics.ErrCourseNotFound
}

func (repo *academicsRepository) QuerySchoolCourses(ctx context.Context, schoolID string) ([]academics.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	var courses []academics.Course
	for _, crs := range repo.db.courses {
		if crs.SchoolID == schoolID {
			courses = append(courses, *crs)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *academicsRepository) QuerySchoolClasses(ctx context.Context, schoolID string) ([]academics.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	var classes []academics.Class
	for _, cls := range repo.db.classes {
		if cls.SchoolID == schoolID {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}
