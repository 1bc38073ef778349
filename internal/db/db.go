package db

import (
	"database/sql"
	"fmt"
	"strings"

	"lifemanage/internal/auth"
	"lifemanage/internal/store"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite" // pure Go sqlite driver, no CGO
)

// Connect opens the database behind dsn. A postgres URL gets the postgres
// dialector; anything else is treated as a sqlite file path (or :memory:)
// over the pure Go driver.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	conn, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	gdb, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := gdb.Exec("PRAGMA foreign_keys = ON;").Error; err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&auth.User{},
		&store.UserSettings{},
		&store.Project{},
		&store.Conversation{},
		&store.Task{},
		&store.Note{},
	); err != nil {
		return err
	}

	// Query-path indexes. The list sorts are fixed per entity, so cover the
	// owner column together with each sort key.
	stmts := []string{
		`create index if not exists idx_projects_user_prio on projects(user_id, priority desc, updated_at desc);`,
		`create index if not exists idx_convs_user_updated on conversations(user_id, updated_at desc);`,
		`create index if not exists idx_convs_user_project on conversations(user_id, project_id);`,
		`create index if not exists idx_tasks_user_due on tasks(user_id, due_date);`,
		`create index if not exists idx_tasks_user_project on tasks(user_id, project_id);`,
		`create index if not exists idx_notes_user_project on notes(user_id, project_id, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
