package server

import _ "embed"

//go:embed postgres_up.sql
var postgresUpSql string

//go:embed postgres_down.sql
var postgresDownSql string

//go:embed sqlite_up.sql
var sqliteUpSql string
