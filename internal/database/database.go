// Package database is the optional Postgres backing for the question bank.
package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id    INTEGER PRIMARY KEY,
	text  TEXT NOT NULL,
	truth TEXT NOT NULL
)`

// Service wraps a pgx connection pool.
type Service struct {
	pool *pgxpool.Pool
}

// New connects to url and makes sure the questions table exists.
func New(ctx context.Context, url string) (*Service, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create questions table: %w", err)
	}
	return &Service{pool: pool}, nil
}

// Questions returns the stored question bank in id order.
func (s *Service) Questions(ctx context.Context) ([]internal.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, text, truth FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	qs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.Question, error) {
		var q internal.Question
		err := row.Scan(&q.ID, &q.Text, &q.Truth)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return qs, nil
}

// ReplaceQuestions swaps the stored bank for qs in one transaction.
func (s *Service) ReplaceQuestions(ctx context.Context, qs []internal.Question) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM questions`); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}

		batch := &pgx.Batch{}
		for _, q := range qs {
			batch.Queue(`INSERT INTO questions (id, text, truth) VALUES ($1, $2, $3)`, q.ID, q.Text, q.Truth)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Ping the database
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("database health check failed")
		return stats
	}

	// Database is up, add more statistics
	stats["status"] = "up"
	stats["message"] = "It's healthy"

	// Get database stats (like open connections, in use, idle, etc.)
	poolStats := s.pool.Stat()
	stats["total_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["acquired_connections"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["max_connections"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	// Evaluate stats to provide a health message
	if poolStats.TotalConns() >= poolStats.MaxConns() {
		stats["message"] = "The database is experiencing heavy load."
	}
	if poolStats.EmptyAcquireCount() > 1000 {
		stats["message"] = "The database has a high number of waits for a free connection, indicating potential bottlenecks."
	}

	return stats
}

func (s *Service) Close() {
	log.Info().Msg("disconnected from database")
	s.pool.Close()
}
