package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/stackprep/ent/schema"
)

// Table names, following ent's naming of the schema types.
const (
	tableSessionEvents = "session_events"
	tableAnswerEvents  = "answer_events"
	tableLLMRequests   = "llm_request_events"
	tableSnapshots     = "snapshots"
)

// entities maps each table to the ent schema describing it.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableSessionEvents, entschema.SessionEvent{}},
	{tableAnswerEvents, entschema.AnswerEvent{}},
	{tableLLMRequests, entschema.LLMRequestEvent{}},
	{tableSnapshots, entschema.Snapshot{}},
}

// migrate creates or updates every table with ent's schema migrator.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables := make([]*schema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// tableFor builds the migration table for an ent schema from its field
// and index descriptors, mixins first.
func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	byName := map[string]*schema.Column{id.Name: id}
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     int64(d.Size),
			Comment:  d.Comment,
		}
		// Function defaults (time.Now) are applied by the repos, not the database.
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		t.Columns = append(t.Columns, col)
		byName[col.Name] = col
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*schema.Column, 0, len(d.Fields))
		for _, fname := range d.Fields {
			col, ok := byName[fname]
			if !ok {
				return nil, fmt.Errorf("%s: index on unknown field %q", name, fname)
			}
			cols = append(cols, col)
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t, nil
}
