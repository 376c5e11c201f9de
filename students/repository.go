package students

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrStudentNotFound is returned when no student has the requested id
	ErrStudentNotFound = errors.New("student not found")
	// ErrDuplicateStudent is returned when adding a student whose id is taken
	ErrDuplicateStudent = errors.New("duplicate student id")
)

// Repository is an in-memory student store owned by whoever constructs it.
// It is safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	students map[uuid.UUID]Student
}

// NewRepository creates a repository holding the given students.
func NewRepository(initial ...Student) (*Repository, error) {
	r := &Repository{
		students: make(map[uuid.UUID]Student, len(initial)),
	}
	for _, s := range initial {
		if err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewSampleRepository creates a repository seeded with the demo students.
func NewSampleRepository() *Repository {
	r, _ := NewRepository(
		Student{ID: uuid.New(), Name: "Bob", Age: 34, Country: "Italy", IsActive: true, Credits: 45.56},
		Student{ID: uuid.New(), Name: "Alice", Age: 25, Country: "France", IsActive: true, Credits: 34.98},
		Student{ID: uuid.New(), Name: "Jack", Age: 49, Country: "Germany", IsActive: false, Credits: 76.78},
	)
	return r
}

// Add stores a student. A zero id is replaced with a fresh one.
func (r *Repository) Add(s Student) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("student name is required")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.students[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStudent, s.ID)
	}
	r.students[s.ID] = s
	return nil
}

// GetAll returns every student ordered by name
func (r *Repository) GetAll(ctx context.Context) ([]Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	all := make([]Student, 0, len(r.students))
	for _, s := range r.students {
		all = append(all, s)
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return all, nil
}

// GetByID returns the student with the given id
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Student, error) {
	if err := ctx.Err(); err != nil {
		return Student{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return Student{}, fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}
	return s, nil
}

// Len returns the number of stored students
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students)
}
