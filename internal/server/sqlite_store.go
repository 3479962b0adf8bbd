package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore keeps everything in a single SQLite file. Used for development
// and tests where no Postgres server is available.
type SQLiteStore struct {
	db        *sql.DB
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Store = (*SQLiteStore)(nil)

func CreateSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec(sqliteUpSql); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteStore{db: db, writeLock: new(sync.Mutex)}, nil
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}

func isSQLiteUnique(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}

	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}

	return false
}

func sqlNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

func affected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) InsertUser(ctx context.Context, user User) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := "INSERT INTO users (id, name, email, pass, created_at) VALUES (?, ?, ?, ?, ?)"
	_, err = tx.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Pass, user.CreatedAt.Unix())
	if err != nil {
		if isSQLiteUnique(err) {
			return ErrUserExists
		}

		return err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO user_exp (user_id, exp) VALUES (?, 0)", user.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) FindUser(ctx context.Context, id string) (User, error) {
	user := User{ID: id}
	var createdAt int64

	query := "SELECT name, email, pass, created_at FROM users WHERE id = ?"
	err := s.db.QueryRowContext(ctx, query, id).Scan(&user.Name, &user.Email, &user.Pass, &createdAt)
	user.CreatedAt = time.Unix(createdAt, 0).UTC()

	return user, sqlNoRows(err)
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (User, error) {
	user := User{Email: email}
	var createdAt int64

	query := "SELECT id, name, pass, created_at FROM users WHERE email = ?"
	err := s.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Name, &user.Pass, &createdAt)
	user.CreatedAt = time.Unix(createdAt, 0).UTC()

	return user, sqlNoRows(err)
}

func (s *SQLiteStore) RenameUser(ctx context.Context, id string, name string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	result, err := s.db.ExecContext(ctx, "UPDATE users SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}

	return affected(result)
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_missions WHERE user_id = ?", id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_exp WHERE user_id = ?", id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}

	if err := affected(result); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) InsertMission(ctx context.Context, m DailyMission) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_missions WHERE user_id = ?", m.UserID).Scan(&count); err != nil {
		return err
	}

	if count >= MISSION_CAPACITY {
		return ErrCapacity
	}

	query := "INSERT INTO daily_missions (id, user_id, title, description, is_complete, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := tx.ExecContext(ctx, query, m.ID, m.UserID, m.Title, m.Description, m.IsComplete, m.CreatedAt.Unix()); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) FindMission(ctx context.Context, userID string, missionID string) (DailyMission, error) {
	m := DailyMission{ID: missionID, UserID: userID}
	var createdAt int64

	query := "SELECT title, description, is_complete, created_at FROM daily_missions WHERE id = ? AND user_id = ?"
	err := s.db.QueryRowContext(ctx, query, missionID, userID).Scan(&m.Title, &m.Description, &m.IsComplete, &createdAt)
	m.CreatedAt = time.Unix(createdAt, 0).UTC()

	return m, sqlNoRows(err)
}

func (s *SQLiteStore) FindMissions(ctx context.Context, userID string) ([]DailyMission, error) {
	ms := make([]DailyMission, 0)

	query := "SELECT id, title, description, is_complete, created_at FROM daily_missions WHERE user_id = ? ORDER BY seq"
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return ms, err
	}
	defer rows.Close()

	for rows.Next() {
		m := DailyMission{UserID: userID}
		var createdAt int64

		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.IsComplete, &createdAt); err != nil {
			return ms, err
		}

		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		ms = append(ms, m)
	}

	return ms, rows.Err()
}

func (s *SQLiteStore) UpdateMission(ctx context.Context, m DailyMission) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	query := "UPDATE daily_missions SET title = ?, description = ? WHERE id = ? AND user_id = ?"
	result, err := s.db.ExecContext(ctx, query, m.Title, m.Description, m.ID, m.UserID)
	if err != nil {
		return err
	}

	return affected(result)
}

func (s *SQLiteStore) DeleteMission(ctx context.Context, userID string, missionID string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM daily_missions WHERE id = ? AND user_id = ?", missionID, userID)
	if err != nil {
		return err
	}

	return affected(result)
}

func (s *SQLiteStore) CompleteMission(ctx context.Context, userID string, missionID string, exp int64) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var isComplete bool
	query := "SELECT is_complete FROM daily_missions WHERE id = ? AND user_id = ?"
	if err := tx.QueryRowContext(ctx, query, missionID, userID).Scan(&isComplete); err != nil {
		return sqlNoRows(err)
	}

	if isComplete {
		return ErrAlreadyCompleted
	}

	if _, err := tx.ExecContext(ctx, "UPDATE daily_missions SET is_complete = 1 WHERE id = ?", missionID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE user_exp SET exp = exp + ? WHERE user_id = ?", exp, userID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ResetMissions(ctx context.Context) (int64, error) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	result, err := s.db.ExecContext(ctx, "UPDATE daily_missions SET is_complete = 0 WHERE is_complete = 1")
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (s *SQLiteStore) FindExp(ctx context.Context, userID string) (int64, error) {
	var exp int64

	err := s.db.QueryRowContext(ctx, "SELECT exp FROM user_exp WHERE user_id = ?", userID).Scan(&exp)

	return exp, sqlNoRows(err)
}
