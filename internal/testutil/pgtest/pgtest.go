//go:build integration

// Package pgtest поднимает Postgres в контейнере и применяет миграции
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-CalendarService/internal/infra/migrations"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
)

const (
	image    = "postgres:16-alpine"
	user     = "calendar"
	password = "calendar"
	dbName   = "calendar"
)

// Database запущенная база с примененной схемой
type Database struct {
	DB  *sql.DB
	DSN string
}

// Start запускает контейнер; он останавливается в t.Cleanup
func Start(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       dbName,
		},
		// Postgres перезапускается после init-скриптов, ждем второе сообщение
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), user, password, dbName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if _, err := migrations.NewRunner(db, logger.Nop()).Run(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return &Database{DB: db, DSN: dsn}
}

// Truncate очищает все таблицы календаря
func (d *Database) Truncate(t *testing.T) {
	t.Helper()
	_, err := d.DB.Exec(`TRUNCATE sessions, slots, customers, slots_recurring_dates`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SeedCustomer вставляет клиента напрямую: у сервиса нет API для клиентов
func (d *Database) SeedCustomer(t *testing.T, name string) string {
	t.Helper()
	var id string
	err := d.DB.QueryRow(
		`INSERT INTO customers (name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		name, name+"@example.com", "+70000000000",
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return id
}
