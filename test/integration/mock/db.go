package mock

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ledgerOnce sync.Once
	ledgerDb   *Db
)

// Db is the in-memory local ledger shared by every scenario. Models are keyed
// by table name so steps can count rows without knowing the Go type.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens the shared ledger database named name and migrates models.
func NewDb(name string, models map[string]any) *Db {
	ledgerOnce.Do(func() {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
		conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			panic("failed to open ledger database: " + err.Error())
		}

		sqlDB, err := conn.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)

		ledgerDb = &Db{DbConn: conn, models: models}
		if err := conn.AutoMigrate(ledgerDb.orderedModels()...); err != nil {
			panic("failed to migrate ledger database: " + err.Error())
		}
	})
	return ledgerDb
}

// ClearDB hard deletes every row, soft deleted ones included, and restarts
// the id sequences so scenarios can address rows by id.
func (d *Db) ClearDB() error {
	// transactions reference categories, so children go first.
	models := d.orderedModels()
	for i := len(models) - 1; i >= 0; i-- {
		model := models[i]
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}

	for _, table := range d.tableNames() {
		err := d.DbConn.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
		if err != nil && !strings.Contains(err.Error(), "no such table") {
			return err
		}
	}
	return nil
}

func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}

func (d *Db) tableNames() []string {
	names := make([]string, 0, len(d.models))
	for name := range d.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// orderedModels returns the models sorted by table name. categories sorts
// before transactions, which is also the migration order the foreign key needs.
func (d *Db) orderedModels() []any {
	names := d.tableNames()
	models := make([]any, 0, len(names))
	for _, name := range names {
		models = append(models, d.models[name])
	}
	return models
}
