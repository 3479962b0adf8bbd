package server

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func CreatePostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) CreateTables(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresUpSql)

	return err
}

// Be careful since this function will delete all generated tables.
func (s *PostgresStore) DropTables(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresDownSql)

	return err
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

func (s *PostgresStore) InsertUser(ctx context.Context, user User) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := "INSERT INTO users (id, name, email, pass, created_at) VALUES ($1, $2, $3, $4, $5)"
	_, err = tx.Exec(ctx, query, user.ID, user.Name, user.Email, user.Pass, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}

		return err
	}

	_, err = tx.Exec(ctx, "INSERT INTO user_exp (user_id, exp) VALUES ($1, 0)", user.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) FindUser(ctx context.Context, id string) (User, error) {
	user := User{ID: id}

	query := "SELECT name, email, pass, created_at FROM users WHERE id = $1"
	err := s.db.QueryRow(ctx, query, id).Scan(&user.Name, &user.Email, &user.Pass, &user.CreatedAt)

	return user, noRows(err)
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (User, error) {
	user := User{Email: email}

	query := "SELECT id, name, pass, created_at FROM users WHERE email = $1"
	err := s.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Pass, &user.CreatedAt)

	return user, noRows(err)
}

func (s *PostgresStore) RenameUser(ctx context.Context, id string, name string) error {
	tag, err := s.db.Exec(ctx, "UPDATE users SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM daily_missions WHERE user_id = $1", id); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM user_exp WHERE user_id = $1", id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) InsertMission(ctx context.Context, m DailyMission) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// lock the owner so concurrent inserts cannot exceed the capacity
	var id string
	if err := tx.QueryRow(ctx, "SELECT id FROM users WHERE id = $1 FOR UPDATE", m.UserID).Scan(&id); err != nil {
		return noRows(err)
	}

	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM daily_missions WHERE user_id = $1", m.UserID).Scan(&count); err != nil {
		return err
	}

	if count >= MISSION_CAPACITY {
		return ErrCapacity
	}

	query := "INSERT INTO daily_missions (id, user_id, title, description, is_complete, created_at) VALUES ($1, $2, $3, $4, $5, $6)"
	if _, err := tx.Exec(ctx, query, m.ID, m.UserID, m.Title, m.Description, m.IsComplete, m.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) FindMission(ctx context.Context, userID string, missionID string) (DailyMission, error) {
	m := DailyMission{ID: missionID, UserID: userID}

	query := "SELECT title, description, is_complete, created_at FROM daily_missions WHERE id = $1 AND user_id = $2"
	err := s.db.QueryRow(ctx, query, missionID, userID).Scan(&m.Title, &m.Description, &m.IsComplete, &m.CreatedAt)

	return m, noRows(err)
}

func (s *PostgresStore) FindMissions(ctx context.Context, userID string) ([]DailyMission, error) {
	ms := make([]DailyMission, 0)

	query := "SELECT id, title, description, is_complete, created_at FROM daily_missions WHERE user_id = $1 ORDER BY seq"
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return ms, err
	}
	defer rows.Close()

	for rows.Next() {
		m := DailyMission{UserID: userID}

		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.IsComplete, &m.CreatedAt); err != nil {
			return ms, err
		}

		ms = append(ms, m)
	}

	return ms, rows.Err()
}

func (s *PostgresStore) UpdateMission(ctx context.Context, m DailyMission) error {
	query := "UPDATE daily_missions SET title = $1, description = $2 WHERE id = $3 AND user_id = $4"
	tag, err := s.db.Exec(ctx, query, m.Title, m.Description, m.ID, m.UserID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) DeleteMission(ctx context.Context, userID string, missionID string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM daily_missions WHERE id = $1 AND user_id = $2", missionID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) CompleteMission(ctx context.Context, userID string, missionID string, exp int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var isComplete bool
	query := "SELECT is_complete FROM daily_missions WHERE id = $1 AND user_id = $2 FOR UPDATE"
	if err := tx.QueryRow(ctx, query, missionID, userID).Scan(&isComplete); err != nil {
		return noRows(err)
	}

	if isComplete {
		return ErrAlreadyCompleted
	}

	if _, err := tx.Exec(ctx, "UPDATE daily_missions SET is_complete = TRUE WHERE id = $1", missionID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "UPDATE user_exp SET exp = exp + $1 WHERE user_id = $2", exp, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) ResetMissions(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "UPDATE daily_missions SET is_complete = FALSE WHERE is_complete = TRUE")
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (s *PostgresStore) FindExp(ctx context.Context, userID string) (int64, error) {
	var exp int64

	err := s.db.QueryRow(ctx, "SELECT exp FROM user_exp WHERE user_id = $1", userID).Scan(&exp)

	return exp, noRows(err)
}
