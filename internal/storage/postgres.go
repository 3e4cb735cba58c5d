package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Users ---

// CreateUser inserts a new user
func (r *PostgresRepository) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.pool.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *PostgresRepository) getUser(ctx context.Context, field, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, created_at, last_sign_in_at
		FROM users
		WHERE %s = $1
	`, field)

	var u models.User
	var lastSignIn sql.NullTime

	err := r.pool.QueryRow(ctx, query, value).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&lastSignIn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastSignIn.Valid {
		u.LastSignInAt = &lastSignIn.Time
	}

	return &u, nil
}

// UpdateUserLastSignIn stamps the last successful sign-in
func (r *PostgresRepository) UpdateUserLastSignIn(ctx context.Context, id string, at time.Time) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET last_sign_in_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to update user last_sign_in_at: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}

	return nil
}

// --- Tasks ---

const taskColumns = `id, user_id, title, context, status, energy_cost, due_date, completed_at, tags, revenue, type, total_pages, current_page, created_at`

// CreateTask inserts a new task
func (r *PostgresRepository) CreateTask(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		string(t.Context),
		string(t.Status),
		t.EnergyCost,
		nullDate(t.DueDate),
		nullTime(t.CompletedAt),
		nonNilTags(t.Tags),
		t.Revenue,
		string(t.Type),
		t.TotalPages,
		t.CurrentPage,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by ID
func (r *PostgresRepository) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	t, err := scanTask(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// UpdateTask updates an existing task. Ownership never changes.
func (r *PostgresRepository) UpdateTask(ctx context.Context, t *models.Task) error {
	if err := updateTask(ctx, r.pool, t); err != nil {
		return err
	}
	return nil
}

// execer is satisfied by the pool and by transactions
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateTask(ctx context.Context, db execer, t *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, context = $4, status = $5, energy_cost = $6, due_date = $7, completed_at = $8,
		    tags = $9, revenue = $10, type = $11, total_pages = $12, current_page = $13
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		string(t.Context),
		string(t.Status),
		t.EnergyCost,
		nullDate(t.DueDate),
		nullTime(t.CompletedAt),
		nonNilTags(t.Tags),
		t.Revenue,
		string(t.Type),
		t.TotalPages,
		t.CurrentPage,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("task not found: %s", t.ID)
	}

	return nil
}

// DeleteTask deletes a task by ID
func (r *PostgresRepository) DeleteTask(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("task not found: %s", id)
	}

	return nil
}

// ListTasks returns the user's tasks, newest first
func (r *PostgresRepository) ListTasks(ctx context.Context, userID string, filters models.TaskFilters) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []interface{}{userID}
	argNum := 2

	if filters.Context != "" {
		query += fmt.Sprintf(" AND context = $%d", argNum)
		args = append(args, string(filters.Context))
		argNum++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}

	if filters.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, string(filters.Type))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var contextStr, statusStr, typeStr string
	var dueDate, completedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&contextStr,
		&statusStr,
		&t.EnergyCost,
		&dueDate,
		&completedAt,
		&t.Tags,
		&t.Revenue,
		&typeStr,
		&t.TotalPages,
		&t.CurrentPage,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Context = models.TaskContext(contextStr)
	t.Status = models.TaskStatus(statusStr)
	t.Type = models.TaskType(typeStr)

	if dueDate.Valid {
		// DATE columns come back as UTC midnight
		t.DueDate = models.DateOf(dueDate.Time.UTC())
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	return &t, nil
}

// --- Reading ---

// SaveReadingProgress updates the task's page and appends the reading
// session in a single transaction
func (r *PostgresRepository) SaveReadingProgress(ctx context.Context, t *models.Task, s *models.ReadingSession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := updateTask(ctx, tx, t); err != nil {
		return err
	}

	query := `
		INSERT INTO reading_sessions (id, user_id, task_id, pages_read, session_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, query, s.ID, s.UserID, s.TaskID, s.PagesRead, s.SessionDate); err != nil {
		return fmt.Errorf("failed to create reading session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reading progress: %w", err)
	}

	return nil
}

// ListReadingTotals sums pages read per task since the given instant
func (r *PostgresRepository) ListReadingTotals(ctx context.Context, userID string, since time.Time) ([]models.ReadingTotal, error) {
	query := `
		SELECT task_id, SUM(pages_read)
		FROM reading_sessions
		WHERE user_id = $1 AND session_date >= $2
		GROUP BY task_id
		ORDER BY task_id
	`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list reading totals: %w", err)
	}
	defer rows.Close()

	totals := make([]models.ReadingTotal, 0)
	for rows.Next() {
		var rt models.ReadingTotal
		if err := rows.Scan(&rt.TaskID, &rt.PagesRead); err != nil {
			return nil, fmt.Errorf("failed to scan reading total: %w", err)
		}
		totals = append(totals, rt)
	}

	return totals, rows.Err()
}

// --- Courses ---

// CreateCourse inserts a new course
func (r *PostgresRepository) CreateCourse(ctx context.Context, c *models.Course) error {
	query := `
		INSERT INTO courses (id, user_id, name, code, instructor, day_of_week, start_time, end_time, color, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Code, c.Instructor, c.DayOfWeek,
		c.StartTime, c.EndTime, string(c.Color), nullString(c.Location),
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetCourse retrieves a course by ID
func (r *PostgresRepository) GetCourse(ctx context.Context, userID, id string) (*models.Course, error) {
	query := `
		SELECT id, user_id, name, code, instructor, day_of_week, start_time, end_time, color, location
		FROM courses
		WHERE id = $1 AND user_id = $2
	`

	c, err := scanCourse(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return c, nil
}

// UpdateCourse updates an existing course
func (r *PostgresRepository) UpdateCourse(ctx context.Context, c *models.Course) error {
	query := `
		UPDATE courses
		SET name = $3, code = $4, instructor = $5, day_of_week = $6, start_time = $7, end_time = $8, color = $9, location = $10
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Code, c.Instructor, c.DayOfWeek,
		c.StartTime, c.EndTime, string(c.Color), nullString(c.Location),
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("course not found: %s", c.ID)
	}

	return nil
}

// DeleteCourse deletes a course by ID
func (r *PostgresRepository) DeleteCourse(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("course not found: %s", id)
	}

	return nil
}

// ListCourses returns the user's courses ordered by weekday and start time
func (r *PostgresRepository) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	query := `
		SELECT id, user_id, name, code, instructor, day_of_week, start_time, end_time, color, location
		FROM courses
		WHERE user_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *c)
	}

	return courses, rows.Err()
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var c models.Course
	var color string
	var location sql.NullString

	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Code, &c.Instructor, &c.DayOfWeek,
		&c.StartTime, &c.EndTime, &color, &location,
	); err != nil {
		return nil, err
	}

	c.Color = models.CourseColor(color)
	c.Location = location.String
	return &c, nil
}

// --- Assignments ---

// CreateAssignment inserts a new assignment
func (r *PostgresRepository) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, user_id, course_id, title, due_date, type, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.CourseID, a.Title, a.DueDate, string(a.Type), a.IsCompleted)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// GetAssignment retrieves an assignment by ID
func (r *PostgresRepository) GetAssignment(ctx context.Context, userID, id string) (*models.Assignment, error) {
	query := `
		SELECT id, user_id, course_id, title, due_date, type, is_completed
		FROM assignments
		WHERE id = $1 AND user_id = $2
	`

	a, err := scanAssignment(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}

// UpdateAssignment updates an existing assignment
func (r *PostgresRepository) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	query := `
		UPDATE assignments
		SET course_id = $3, title = $4, due_date = $5, type = $6, is_completed = $7
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.CourseID, a.Title, a.DueDate, string(a.Type), a.IsCompleted)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("assignment not found: %s", a.ID)
	}

	return nil
}

// DeleteAssignment deletes an assignment by ID
func (r *PostgresRepository) DeleteAssignment(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM assignments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("assignment not found: %s", id)
	}

	return nil
}

// ListAssignments returns the user's assignments, soonest due first
func (r *PostgresRepository) ListAssignments(ctx context.Context, userID string) ([]models.Assignment, error) {
	query := `
		SELECT id, user_id, course_id, title, due_date, type, is_completed
		FROM assignments
		WHERE user_id = $1
		ORDER BY due_date ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]models.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}

	return assignments, rows.Err()
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var a models.Assignment
	var typeStr string

	if err := row.Scan(&a.ID, &a.UserID, &a.CourseID, &a.Title, &a.DueDate, &typeStr, &a.IsCompleted); err != nil {
		return nil, err
	}

	a.Type = models.AssignmentType(typeStr)
	return &a, nil
}

// --- Graph ---

// CreateNode inserts a new graph node
func (r *PostgresRepository) CreateNode(ctx context.Context, n *models.Node) error {
	query := `INSERT INTO nodes (id, user_id, label, group_id, val) VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.pool.Exec(ctx, query, n.ID, n.UserID, n.Label, n.Group, n.Val); err != nil {
		return fmt.Errorf("failed to create node: %w", err)
	}

	return nil
}

// GetNode retrieves a node by ID
func (r *PostgresRepository) GetNode(ctx context.Context, userID, id string) (*models.Node, error) {
	query := `SELECT id, user_id, label, group_id, val FROM nodes WHERE id = $1 AND user_id = $2`

	var n models.Node
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(&n.ID, &n.UserID, &n.Label, &n.Group, &n.Val)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return &n, nil
}

// UpdateNode updates an existing node
func (r *PostgresRepository) UpdateNode(ctx context.Context, n *models.Node) error {
	query := `UPDATE nodes SET label = $3, group_id = $4, val = $5 WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, n.ID, n.UserID, n.Label, n.Group, n.Val)
	if err != nil {
		return fmt.Errorf("failed to update node: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("node not found: %s", n.ID)
	}

	return nil
}

// DeleteNode deletes a node and every link touching it
func (r *PostgresRepository) DeleteNode(ctx context.Context, userID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM links WHERE user_id = $1 AND (source = $2 OR target = $2)`, userID, id); err != nil {
		return fmt.Errorf("failed to delete node links: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM nodes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("node not found: %s", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit node deletion: %w", err)
	}

	return nil
}

// ListNodes returns the user's nodes
func (r *PostgresRepository) ListNodes(ctx context.Context, userID string) ([]models.Node, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, label, group_id, val FROM nodes WHERE user_id = $1 ORDER BY label`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]models.Node, 0)
	for rows.Next() {
		var n models.Node
		if err := rows.Scan(&n.ID, &n.UserID, &n.Label, &n.Group, &n.Val); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}

// CreateLinks inserts links, skipping ones that already exist
func (r *PostgresRepository) CreateLinks(ctx context.Context, userID string, links []models.Link) error {
	if len(links) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range links {
		batch.Queue(
			`INSERT INTO links (user_id, source, target) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			userID, l.Source, l.Target,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range links {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create link: %w", err)
		}
	}

	return nil
}

// ListLinks returns the user's links
func (r *PostgresRepository) ListLinks(ctx context.Context, userID string) ([]models.Link, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, target FROM links WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]models.Link, 0)
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// --- Focus sessions ---

// CreateFocusSession appends a focus session
func (r *PostgresRepository) CreateFocusSession(ctx context.Context, s *models.FocusSession) error {
	query := `
		INSERT INTO focus_sessions (id, user_id, task_id, started_at, ended_at, duration_minutes, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.UserID,
		nullString(s.TaskID),
		s.StartedAt,
		nullTime(s.EndedAt),
		s.DurationMinutes,
		s.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to create focus session: %w", err)
	}

	return nil
}

// ListFocusSessions returns sessions started at or after since, newest first
func (r *PostgresRepository) ListFocusSessions(ctx context.Context, userID string, since time.Time) ([]models.FocusSession, error) {
	query := `
		SELECT id, user_id, task_id, started_at, ended_at, duration_minutes, completed
		FROM focus_sessions
		WHERE user_id = $1 AND started_at >= $2
		ORDER BY started_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list focus sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.FocusSession, 0)
	for rows.Next() {
		var s models.FocusSession
		var taskID sql.NullString
		var endedAt sql.NullTime

		if err := rows.Scan(&s.ID, &s.UserID, &taskID, &s.StartedAt, &endedAt, &s.DurationMinutes, &s.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan focus session: %w", err)
		}

		s.TaskID = taskID.String
		if endedAt.Valid {
			s.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullDate(d models.Date) sql.NullTime {
	if d.IsZero() {
		return sql.NullTime{}
	}
	t, err := d.In(time.UTC)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
