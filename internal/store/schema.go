package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions. Dates and clock times of classes are kept as text so
// that malformed values survive a round trip.
var (
	groupsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "name", Type: field.TypeString},
		{Name: "start_date", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	groupsTable = &schema.Table{
		Name:       "student_groups",
		Columns:    groupsColumns,
		PrimaryKey: []*schema.Column{groupsColumns[0]},
	}

	studentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "first_name", Type: field.TypeString},
		{Name: "last_name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "phone", Type: field.TypeString, Default: ""},
		{Name: "permit_number", Type: field.TypeString, Default: ""},
		{Name: "completed_hours", Type: field.TypeFloat64, Default: 0},
		{Name: "current_phase", Type: field.TypeInt, Nullable: true},
		{Name: "status", Type: field.TypeString, Default: "active"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "group_id", Type: field.TypeString, Size: 36, Nullable: true},
	}
	studentsTable = &schema.Table{
		Name:       "students",
		Columns:    studentsColumns,
		PrimaryKey: []*schema.Column{studentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "students_groups_students",
				Columns:    []*schema.Column{studentsColumns[10]},
				RefColumns: []*schema.Column{groupsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "student_last_name_first_name", Columns: []*schema.Column{studentsColumns[2], studentsColumns[1]}},
		},
	}

	instructorsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "first_name", Type: field.TypeString},
		{Name: "last_name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "phone", Type: field.TypeString, Default: ""},
		{Name: "active", Type: field.TypeBool, Default: true},
	}
	instructorsTable = &schema.Table{
		Name:       "instructors",
		Columns:    instructorsColumns,
		PrimaryKey: []*schema.Column{instructorsColumns[0]},
	}

	classesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "title", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "date", Type: field.TypeString, Default: ""},
		{Name: "start_time", Type: field.TypeString, Default: ""},
		{Name: "end_time", Type: field.TypeString, Default: ""},
		{Name: "notes", Type: field.TypeString, Default: ""},
		{Name: "attendance_status", Type: field.TypeString, Nullable: true},
		{Name: "completion_status", Type: field.TypeString, Default: "scheduled"},
		{Name: "instructor_feedback", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "instructor_id", Type: field.TypeString, Size: 36, Nullable: true},
		{Name: "group_id", Type: field.TypeString, Size: 36, Nullable: true},
		{Name: "student_id", Type: field.TypeString, Size: 36, Nullable: true},
	}
	classesTable = &schema.Table{
		Name:       "classes",
		Columns:    classesColumns,
		PrimaryKey: []*schema.Column{classesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "classes_instructors_classes",
				Columns:    []*schema.Column{classesColumns[11]},
				RefColumns: []*schema.Column{instructorsColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "classes_groups_classes",
				Columns:    []*schema.Column{classesColumns[12]},
				RefColumns: []*schema.Column{groupsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "classes_students_classes",
				Columns:    []*schema.Column{classesColumns[13]},
				RefColumns: []*schema.Column{studentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "class_date_start_time", Columns: []*schema.Column{classesColumns[3], classesColumns[4]}},
			{Name: "class_instructor_id_date", Columns: []*schema.Column{classesColumns[11], classesColumns[3]}},
		},
	}

	activityColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "actor", Type: field.TypeString, Default: ""},
		{Name: "action", Type: field.TypeString},
		{Name: "entity_type", Type: field.TypeString},
		{Name: "entity_id", Type: field.TypeString},
		{Name: "detail", Type: field.TypeString, Default: ""},
	}
	activityTable = &schema.Table{
		Name:       "activity_events",
		Columns:    activityColumns,
		PrimaryKey: []*schema.Column{activityColumns[0]},
		Indexes: []*schema.Index{
			{Name: "activityevent_timestamp", Columns: []*schema.Column{activityColumns[2]}},
			{Name: "activityevent_entity_type_entity_id", Columns: []*schema.Column{activityColumns[5], activityColumns[6]}},
		},
	}

	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "student_id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
	}
	snapshotsTable = &schema.Table{
		Name:       "progress_snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progresssnapshot_student_id_timestamp", Columns: []*schema.Column{snapshotsColumns[1], snapshotsColumns[3]}},
		},
	}

	settingsColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Default: ""},
	}
	settingsTable = &schema.Table{
		Name:       "settings",
		Columns:    settingsColumns,
		PrimaryKey: []*schema.Column{settingsColumns[0]},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		groupsTable,
		studentsTable,
		instructorsTable,
		classesTable,
		activityTable,
		snapshotsTable,
		settingsTable,
		sequenceTable,
	}
)

func init() {
	studentsTable.ForeignKeys[0].RefTable = groupsTable
	classesTable.ForeignKeys[0].RefTable = instructorsTable
	classesTable.ForeignKeys[1].RefTable = groupsTable
	classesTable.ForeignKeys[2].RefTable = studentsTable
}

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
