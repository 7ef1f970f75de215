package applications

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists applications in Postgres through a pgx pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

const appColumns = `id::text, user_id::text, company, job_title,
	COALESCE(job_link, ''), COALESCE(location, ''), status,
	applied_at, follow_up_reminder, follow_up_done,
	COALESCE(tags, '{}'), created_at`

func scanApplication(row pgx.Row, app *Application) error {
	return row.Scan(
		&app.ID,
		&app.UserID,
		&app.Company,
		&app.JobTitle,
		&app.JobLink,
		&app.Location,
		&app.Status,
		&app.AppliedAt,
		&app.FollowUpReminder,
		&app.FollowUpDone,
		&app.Tags,
		&app.CreatedAt,
	)
}

func (s *PostgresStore) Insert(ctx context.Context, app *Application) error {
	return s.Pool.QueryRow(ctx,
		`INSERT INTO applications
			(user_id, company, job_title, job_link, location, status,
			 applied_at, follow_up_reminder, follow_up_done, tags)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id::text, created_at`,
		app.UserID, app.Company, app.JobTitle, app.JobLink, app.Location,
		app.Status, app.AppliedAt, app.FollowUpReminder, app.FollowUpDone,
		app.Tags,
	).Scan(&app.ID, &app.CreatedAt)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, userID string) ([]Application, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE user_id = $1::uuid
		 ORDER BY applied_at DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (s *PostgresStore) GetByID(ctx context.Context, userID, id string) (*Application, error) {
	var app Application
	err := scanApplication(s.Pool.QueryRow(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE id = $1::uuid AND user_id = $2::uuid`,
		id, userID,
	), &app)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *PostgresStore) Save(ctx context.Context, app *Application) error {
	ct, err := s.Pool.Exec(ctx,
		`UPDATE applications
		 SET company = $3, job_title = $4, job_link = $5, location = $6,
		     status = $7, applied_at = $8, follow_up_reminder = $9,
		     follow_up_done = $10, tags = $11
		 WHERE id = $1::uuid AND user_id = $2::uuid`,
		app.ID, app.UserID, app.Company, app.JobTitle, app.JobLink,
		app.Location, app.Status, app.AppliedAt, app.FollowUpReminder,
		app.FollowUpDone, app.Tags,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	ct, err := s.Pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1::uuid AND user_id = $2::uuid`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	ct, err := s.Pool.Exec(ctx,
		`DELETE FROM applications WHERE user_id = $1::uuid`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (s *PostgresStore) DueFollowUps(ctx context.Context, userID string, until time.Time) ([]Application, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE user_id = $1::uuid
		   AND follow_up_done = FALSE
		   AND follow_up_reminder IS NOT NULL
		   AND follow_up_reminder <= $2
		 ORDER BY follow_up_reminder ASC`,
		userID, until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (s *PostgresStore) CountByOwner(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE user_id = $1::uuid`,
		userID,
	).Scan(&n)
	return n, err
}

func (s *PostgresStore) MonthlyCounts(ctx context.Context, userID string) (map[int]int, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT EXTRACT(MONTH FROM applied_at)::int AS month, COUNT(*)::int
		 FROM applications
		 WHERE user_id = $1::uuid AND applied_at IS NOT NULL
		 GROUP BY 1
		 ORDER BY 1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var month, n int
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		counts[month] = n
	}
	return counts, rows.Err()
}

func (s *PostgresStore) DailyCounts(ctx context.Context, userID string) ([]DayCount, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT to_char(applied_at, 'YYYY-MM-DD') AS day, COUNT(*)::int
		 FROM applications
		 WHERE user_id = $1::uuid
		 GROUP BY 1
		 ORDER BY 1 ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *PostgresStore) StatusCounts(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT COALESCE(status, ''), COUNT(*)::int
		 FROM applications
		 WHERE user_id = $1::uuid
		 GROUP BY 1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func collectApplications(rows pgx.Rows) ([]Application, error) {
	var out []Application
	for rows.Next() {
		var app Application
		if err := scanApplication(rows, &app); err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}
