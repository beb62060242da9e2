package school

import (
	"context"

	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/store"
)

func (s *Service) Student(ctx context.Context, id string) (*roster.Student, error) {
	st, err := s.repos.Students.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrStudentNotFound)
	}
	return st, nil
}

func (s *Service) Students(ctx context.Context, f store.StudentFilter) ([]roster.Student, error) {
	return s.repos.Students.List(ctx, f)
}

// AddStudent validates and stores a new student. A non-empty GroupID must
// name an existing group.
func (s *Service) AddStudent(ctx context.Context, st *roster.Student) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if st.GroupID != "" {
		if _, err := s.repos.Groups.Get(ctx, st.GroupID); err != nil {
			return notFound(err, ErrGroupNotFound)
		}
	}
	if err := s.repos.Students.Create(ctx, st); err != nil {
		return err
	}
	s.audit(ctx, "student.created", "student", st.ID, st.FullName())
	return nil
}

func (s *Service) UpdateStudent(ctx context.Context, st *roster.Student) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if err := s.repos.Students.Update(ctx, st); err != nil {
		return notFound(err, ErrStudentNotFound)
	}
	s.audit(ctx, "student.updated", "student", st.ID, st.FullName())
	return nil
}

func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	if err := s.repos.Students.Delete(ctx, id); err != nil {
		return notFound(err, ErrStudentNotFound)
	}
	s.audit(ctx, "student.deleted", "student", id, "")
	return nil
}

func (s *Service) Instructor(ctx context.Context, id string) (*roster.Instructor, error) {
	in, err := s.repos.Instructors.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInstructorNotFound)
	}
	return in, nil
}

func (s *Service) Instructors(ctx context.Context, activeOnly bool) ([]roster.Instructor, error) {
	return s.repos.Instructors.List(ctx, activeOnly)
}

func (s *Service) AddInstructor(ctx context.Context, in *roster.Instructor) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.repos.Instructors.Create(ctx, in); err != nil {
		return err
	}
	s.audit(ctx, "instructor.created", "instructor", in.ID, in.FullName())
	return nil
}

func (s *Service) UpdateInstructor(ctx context.Context, in *roster.Instructor) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.repos.Instructors.Update(ctx, in); err != nil {
		return notFound(err, ErrInstructorNotFound)
	}
	s.audit(ctx, "instructor.updated", "instructor", in.ID, in.FullName())
	return nil
}

func (s *Service) Groups(ctx context.Context) ([]roster.Group, error) {
	return s.repos.Groups.List(ctx)
}

func (s *Service) AddGroup(ctx context.Context, g *roster.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.repos.Groups.Create(ctx, g); err != nil {
		return err
	}
	s.audit(ctx, "group.created", "group", g.ID, g.Name)
	return nil
}

func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	if err := s.repos.Groups.Delete(ctx, id); err != nil {
		return notFound(err, ErrGroupNotFound)
	}
	s.audit(ctx, "group.deleted", "group", id, "")
	return nil
}
