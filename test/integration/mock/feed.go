package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
)

// FeedTable is the clinical system table the feed repository reads.
const FeedTable = "transactions"

// feedColumns mirrors the Spanish column naming of the clinical system.
var feedColumns = []string{
	"id", "monto", "saldo", "hora", "paciente", "doctor",
	"tratamiento", "estado", "metodo_pago", "created_at",
}

var feedOnce sync.Once
var feedConn *sql.DB

// NewFeed returns the shared in-memory clinical system database.
func NewFeed() *sql.DB {
	feedOnce.Do(func() {
		conn, err := sql.Open("sqlite", "file:clinical_feed?mode=memory&cache=shared")
		if err != nil {
			panic(err)
		}
		conn.SetMaxOpenConns(1)
		feedConn = conn
	})
	return feedConn
}

// ClearFeed recreates the feed table empty.
func ClearFeed(conn *sql.DB) error {
	if _, err := conn.Exec("DROP TABLE IF EXISTS " + FeedTable); err != nil {
		return err
	}
	columns := make([]string, len(feedColumns))
	for i, c := range feedColumns {
		columns[i] = c + " TEXT"
	}
	_, err := conn.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", FeedTable, strings.Join(columns, ", ")))
	return err
}

// DropFeed removes the feed table so every read fails.
func DropFeed(conn *sql.DB) error {
	_, err := conn.Exec("DROP TABLE IF EXISTS " + FeedTable)
	return err
}

// InsertFeedRow inserts one row. Unknown keys are rejected.
func InsertFeedRow(conn *sql.DB, row map[string]string) error {
	names := make([]string, 0, len(row))
	values := make([]any, 0, len(row))
	for key, value := range row {
		if !isFeedColumn(key) {
			return fmt.Errorf("unknown feed column %q", key)
		}
		names = append(names, key)
		values = append(values, value)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", FeedTable, strings.Join(names, ", "), placeholders)
	_, err := conn.Exec(query, values...)
	return err
}

func isFeedColumn(name string) bool {
	for _, c := range feedColumns {
		if c == name {
			return true
		}
	}
	return false
}
