// Package env holds the environment variable names shared by the commands
package env

const (
	// Prefix is prepended to every flag-backed environment variable
	Prefix = "PTAX"

	// DBURLSuffix is the suffix of the Postgres connection URL variable
	DBURLSuffix = "_DB_URL"
)
