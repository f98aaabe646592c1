// internal/db/initdb.go
package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strings"
)

// CreateDatabaseIfNotExists connects to the default postgres database and
// creates the target database named in connString when it is missing.
// connString must be in postgres:// URL form.
func CreateDatabaseIfNotExists(connString string) error {
	u, err := url.Parse(connString)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("connection string has no database name")
	}

	root := *u
	root.Path = "/postgres"

	conn, err := sql.Open("postgres", root.String())
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close()

	var exists bool
	err = conn.QueryRow("SELECT 1 FROM pg_database WHERE datname = $1", dbName).Scan(&exists)
	if err == sql.ErrNoRows {
		log.Printf("Creating database: %s", dbName)
		if _, err := conn.Exec("CREATE DATABASE " + pqQuoteIdentifier(dbName)); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		log.Printf("Database %s created successfully", dbName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	return nil
}

// pqQuoteIdentifier double-quotes an identifier for use in CREATE DATABASE,
// which cannot take the name as a bind parameter.
func pqQuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
