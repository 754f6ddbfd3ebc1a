package student

import "time"

// Student is a learner enrolled at a school.
type Student struct {
	ID        string    `json:"id" db:"id"`
	SchoolID  string    `json:"school_id" db:"school_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Level     string    `json:"level,omitempty" db:"level"`    // grade or year, free-form
	CreatedAt time.Time `json:"created_at" db:"created_at"`    // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`    // UTC
}

type (
	// ImportError pins a rejected row to its position in the uploaded file.
	// Row is 1-based and counts the header.
	ImportError struct {
		Row   int    `json:"row"`
		Error string `json:"error"`
	}

	// ImportReport summarizes a roster import. An import may partially
	// succeed; rejected rows are listed in Errors.
	ImportReport struct {
		Imported int           `json:"imported"`
		Failed   int           `json:"failed"`
		Errors   []ImportError `json:"errors,omitempty"`
	}
)
