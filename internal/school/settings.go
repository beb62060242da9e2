package school

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/abhisek/drivedesk/internal/schedule"
)

// Setting keys understood by the service.
const (
	SettingOverlapCheck   = "schedule.overlap_check"
	SettingGridStartHour  = "agenda.start_hour"
	SettingGridHours      = "agenda.hours"
	SettingGridSlotHeight = "agenda.slot_height_px"
)

type settingSpec struct {
	def   string
	check func(string) error
}

var settingSpecs = map[string]settingSpec{
	SettingOverlapCheck: {
		def: string(schedule.ModeExact),
		check: func(v string) error {
			if v != string(schedule.ModeExact) && v != string(schedule.ModeOverlap) {
				return fmt.Errorf("must be %q or %q", schedule.ModeExact, schedule.ModeOverlap)
			}
			return nil
		},
	},
	SettingGridStartHour:  {def: strconv.Itoa(schedule.DefaultGrid.StartHour), check: intBetween(0, 23)},
	SettingGridHours:      {def: strconv.Itoa(schedule.DefaultGrid.Hours), check: intBetween(1, 24)},
	SettingGridSlotHeight: {def: strconv.Itoa(schedule.DefaultGrid.SlotHeightPx), check: intBetween(10, 200)},
}

func intBetween(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("must be an integer between %d and %d", lo, hi)
		}
		return nil
	}
}

// SettingKeys lists the known setting keys in order.
func SettingKeys() []string {
	return slices.Sorted(maps.Keys(settingSpecs))
}

// Settings returns every known setting, with defaults filled in.
func (s *Service) Settings(ctx context.Context) (map[string]string, error) {
	stored, err := s.repos.Settings.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settingSpecs))
	for k, rule := range settingSpecs {
		out[k] = rule.def
		if v, ok := stored[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Setting returns one setting, or its default when unset.
func (s *Service) Setting(ctx context.Context, key string) (string, error) {
	rule, ok := settingSpecs[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", ErrInvalid, key)
	}
	v, found, err := s.repos.Settings.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !found {
		return rule.def, nil
	}
	return v, nil
}

// SetSetting validates and stores a setting.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	rule, ok := settingSpecs[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", ErrInvalid, key)
	}
	if err := rule.check(value); err != nil {
		return fmt.Errorf("%w: %s %v", ErrInvalid, key, err)
	}
	if key == SettingGridStartHour || key == SettingGridHours {
		g, err := s.Grid(ctx)
		if err != nil {
			return err
		}
		n, _ := strconv.Atoi(value)
		if key == SettingGridStartHour {
			g.StartHour = n
		} else {
			g.Hours = n
		}
		if g.EndHour() > 24 {
			return fmt.Errorf("%w: agenda must end by 24:00", ErrInvalid)
		}
	}
	if err := s.repos.Settings.Set(ctx, key, value); err != nil {
		return err
	}
	s.audit(ctx, "setting.updated", "setting", key, value)
	return nil
}

// OverlapMode returns the configured instructor conflict mode.
func (s *Service) OverlapMode(ctx context.Context) (schedule.OverlapMode, error) {
	v, err := s.Setting(ctx, SettingOverlapCheck)
	if err != nil {
		return schedule.ModeExact, err
	}
	return schedule.ParseOverlapMode(v), nil
}

// Grid returns the configured agenda grid. Stored values that no longer
// parse fall back to the defaults.
func (s *Service) Grid(ctx context.Context) (schedule.Grid, error) {
	all, err := s.Settings(ctx)
	if err != nil {
		return schedule.DefaultGrid, err
	}
	g := schedule.DefaultGrid
	if n, err := strconv.Atoi(all[SettingGridStartHour]); err == nil {
		g.StartHour = n
	}
	if n, err := strconv.Atoi(all[SettingGridHours]); err == nil {
		g.Hours = n
	}
	if n, err := strconv.Atoi(all[SettingGridSlotHeight]); err == nil {
		g.SlotHeightPx = n
	}
	return g, nil
}
