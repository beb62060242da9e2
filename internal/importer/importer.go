// Package importer moves school data in and out as a single JSON
// document. Documents are checked against an embedded JSON Schema before
// any row is written.
package importer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/store"
)

// CurrentVersion is the document version written by Export.
const CurrentVersion = 1

//go:embed export.schema.json
var schemaJSON []byte

const schemaURL = "schema://drivedesk/export.json"

// ErrInvalidDocument is wrapped by every parse or schema failure.
var ErrInvalidDocument = errors.New("invalid export document")

// Document is the export file layout.
type Document struct {
	Version     int                 `json:"version"`
	Groups      []roster.Group      `json:"groups"`
	Instructors []roster.Instructor `json:"instructors"`
	Students    []roster.Student    `json:"students"`
	Classes     []classes.Record    `json:"classes"`
}

// Result counts the rows written by Import.
type Result struct {
	Groups      int `json:"groups"`
	Instructors int `json:"instructors"`
	Students    int `json:"students"`
	Classes     int `json:"classes"`
}

// Repos are the stores an import writes to.
type Repos struct {
	Groups      store.GroupRepo
	Instructors store.InstructorRepo
	Students    store.StudentRepo
	Classes     store.ClassRepo
}

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// Parse reads and validates a document.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	sch, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	return &doc, nil
}

// Import writes the document's rows, parents before children. Rows are
// validated with the same rules as interactive input; the first failure
// stops the import and is returned with the counts written so far.
func Import(ctx context.Context, repos Repos, doc *Document) (Result, error) {
	var res Result
	for i := range doc.Groups {
		g := &doc.Groups[i]
		if err := g.Validate(); err != nil {
			return res, fmt.Errorf("group %s: %w", g.ID, err)
		}
		if err := repos.Groups.Create(ctx, g); err != nil {
			return res, fmt.Errorf("group %s: %w", g.ID, err)
		}
		res.Groups++
	}
	for i := range doc.Instructors {
		in := &doc.Instructors[i]
		if err := in.Validate(); err != nil {
			return res, fmt.Errorf("instructor %s: %w", in.ID, err)
		}
		if err := repos.Instructors.Create(ctx, in); err != nil {
			return res, fmt.Errorf("instructor %s: %w", in.ID, err)
		}
		res.Instructors++
	}
	for i := range doc.Students {
		st := &doc.Students[i]
		if err := st.Validate(); err != nil {
			return res, fmt.Errorf("student %s: %w", st.ID, err)
		}
		if err := repos.Students.Create(ctx, st); err != nil {
			return res, fmt.Errorf("student %s: %w", st.ID, err)
		}
		res.Students++
	}
	if len(doc.Classes) > 0 {
		created, err := repos.Classes.Create(ctx, doc.Classes)
		if err != nil {
			return res, err
		}
		res.Classes = len(created)
	}
	return res, nil
}

// Export reads every row into a document.
func Export(ctx context.Context, repos Repos) (*Document, error) {
	doc := &Document{Version: CurrentVersion}
	var err error
	if doc.Groups, err = repos.Groups.List(ctx); err != nil {
		return nil, err
	}
	if doc.Instructors, err = repos.Instructors.List(ctx, false); err != nil {
		return nil, err
	}
	if doc.Students, err = repos.Students.List(ctx, store.StudentFilter{}); err != nil {
		return nil, err
	}
	if doc.Classes, err = repos.Classes.List(ctx, store.ClassFilter{}); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReposFrom returns the repos backed by s.
func ReposFrom(s *store.Store) Repos {
	return Repos{
		Groups:      s.GroupRepo(),
		Instructors: s.InstructorRepo(),
		Students:    s.StudentRepo(),
		Classes:     s.ClassRepo(),
	}
}
