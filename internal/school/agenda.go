package school

import (
	"context"
	"time"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/store"
)

// Agenda lays out the non-cancelled classes of the week containing
// weekStart on the configured grid.
func (s *Service) Agenda(ctx context.Context, weekStart time.Time) (schedule.Week, error) {
	start := schedule.WeekStart(weekStart)
	g, err := s.Grid(ctx)
	if err != nil {
		return schedule.Week{}, err
	}
	recs, err := s.repos.Classes.List(ctx, store.ClassFilter{
		DateFrom: start.Format(time.DateOnly),
		DateTo:   start.AddDate(0, 0, 6).Format(time.DateOnly),
	})
	if err != nil {
		return schedule.Week{}, err
	}
	return schedule.WeekGrid(active(recs), start, g), nil
}

// DayClasses returns the classes on date ("YYYY-MM-DD"), ordered by start.
func (s *Service) DayClasses(ctx context.Context, date string) ([]classes.Record, error) {
	return s.repos.Classes.List(ctx, store.ClassFilter{DateFrom: date, DateTo: date})
}

// Classes lists classes matching f.
func (s *Service) Classes(ctx context.Context, f store.ClassFilter) ([]classes.Record, error) {
	return s.repos.Classes.List(ctx, f)
}

func active(recs []classes.Record) []classes.Record {
	out := make([]classes.Record, 0, len(recs))
	for _, r := range recs {
		if !r.IsCancelled() {
			out = append(out, r)
		}
	}
	return out
}
