package database

import (
	"github.com/huandu/go-sqlbuilder"
)

// Flavored builder constructors so repositories never repeat the dialect
// choice. The staging store is SQLite.

func NewInsertBuilder() *sqlbuilder.InsertBuilder {
	return sqlbuilder.SQLite.NewInsertBuilder()
}

func NewSelectBuilder() *sqlbuilder.SelectBuilder {
	return sqlbuilder.SQLite.NewSelectBuilder()
}

func NewDeleteBuilder() *sqlbuilder.DeleteBuilder {
	return sqlbuilder.SQLite.NewDeleteBuilder()
}
