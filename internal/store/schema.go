package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	recordsTable = "records"

	colUUID         = "uuid"
	colMediaFile    = "media_file"
	colQuestion     = "question"
	colResponse     = "response"
	colCreationDate = "creation_date"
	colStartMs      = "start_ms"
	colEndMs        = "end_ms"
	colAttribution  = "attribution"
)

var (
	// RecordsColumns holds the columns for the "records" table.
	RecordsColumns = []*schema.Column{
		{Name: colUUID, Type: field.TypeString, Unique: true},
		{Name: colMediaFile, Type: field.TypeString, Default: ""},
		{Name: colQuestion, Type: field.TypeString},
		{Name: colResponse, Type: field.TypeString},
		{Name: colCreationDate, Type: field.TypeString, Size: 10},
		{Name: colStartMs, Type: field.TypeInt64, Nullable: true},
		{Name: colEndMs, Type: field.TypeInt64, Nullable: true},
		{Name: colAttribution, Type: field.TypeString, Default: ""},
	}
	// RecordsTable holds the schema information for the "records" table.
	RecordsTable = &schema.Table{
		Name:       recordsTable,
		Columns:    RecordsColumns,
		PrimaryKey: []*schema.Column{RecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "record_question_response",
				Unique:  true,
				Columns: []*schema.Column{RecordsColumns[2], RecordsColumns[3]},
			},
			{
				Name:    "record_creation_date",
				Unique:  false,
				Columns: []*schema.Column{RecordsColumns[4]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		RecordsTable,
	}
)

var recordColumns = []string{
	colUUID, colMediaFile, colQuestion, colResponse,
	colCreationDate, colStartMs, colEndMs, colAttribution,
}
