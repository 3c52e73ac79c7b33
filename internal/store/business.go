package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Job statuses.
const (
	JobPending    = "pending"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadDead      = "dead"
)

// Client is a customer of the agency.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`

	// Derived on list queries.
	JobCount   int     `json:"job_count"`
	TotalSpent float64 `json:"total_spent"`
}

// Job is one unit of paid work for a client.
type Job struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	ClientName  string     `json:"client_name,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AgentType   string     `json:"agent_type"`
	Price       float64    `json:"price"`
	Paid        float64    `json:"paid"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Transaction is one income or expense entry.
type Transaction struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id,omitempty"`
	JobTitle    string    `json:"job_title,omitempty"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// Note is a free-form workspace note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lead is an inbound prospect not yet converted to a client.
type Lead struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	ClientName  string    `json:"client_name"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	Budget      string    `json:"budget"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// RevenuePoint is one day's income total for the revenue chart.
type RevenuePoint struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// DashboardStats is the headline summary shown on the dashboard.
type DashboardStats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	MonthRevenue  float64 `json:"month_revenue"`
	ClientCount   int     `json:"client_count"`
	ActiveJobs    int     `json:"active_jobs"`
	CompletedJobs int     `json:"completed_jobs"`
	NewLeads      int     `json:"new_leads"`
	RecentJobs    []Job   `json:"recent_jobs"`
}

// Business is the record store for the agency: clients, jobs, leads, notes,
// and transactions.
type Business struct {
	db *DB
}

// NewBusiness creates a business store using the given database.
func NewBusiness(db *DB) *Business {
	return &Business{db: db}
}

func now() string {
	return time.Now().UTC().Format(time.DateTime)
}

func parseStamp(s string) time.Time {
	t, _ := time.Parse(time.DateTime, s)
	return t
}

// --- clients ---

// AddClient inserts a new client and returns it.
func (b *Business) AddClient(name, email, company, source, notes string) (*Client, error) {
	c := &Client{
		ID: uuid.New().String(), Name: name, Email: email,
		Company: company, Source: source, Notes: notes,
		CreatedAt: time.Now().UTC(),
	}
	_, err := b.db.sql.Exec(
		`INSERT INTO clients (id, name, email, company, source, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Company, c.Source, c.Notes, c.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting client: %w", err)
	}
	return c, nil
}

// ListClients returns all clients with derived job counts and completed
// revenue, newest first.
func (b *Business) ListClients() ([]Client, error) {
	rows, err := b.db.sql.Query(`
		SELECT c.id, c.name, c.email, c.company, c.source, c.notes, c.created_at,
		       (SELECT COUNT(*) FROM jobs WHERE client_id = c.id) AS job_count,
		       (SELECT COALESCE(SUM(price), 0) FROM jobs WHERE client_id = c.id AND status = 'completed') AS total_spent
		FROM clients c
		ORDER BY c.created_at DESC, c.id`)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Source, &c.Notes,
			&createdAt, &c.JobCount, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		c.CreatedAt = parseStamp(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetClient returns one client by ID.
func (b *Business) GetClient(id string) (*Client, error) {
	var c Client
	var createdAt string
	err := b.db.sql.QueryRow(
		`SELECT id, name, email, company, source, notes, created_at FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Source, &c.Notes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting client: %w", err)
	}
	c.CreatedAt = parseStamp(createdAt)
	return &c, nil
}

// UpdateClient replaces a client's editable fields.
func (b *Business) UpdateClient(id, name, email, company, source, notes string) error {
	res, err := b.db.sql.Exec(
		`UPDATE clients SET name=?, email=?, company=?, source=?, notes=? WHERE id=?`,
		name, email, company, source, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return requireRow(res)
}

// DeleteClient removes a client. Their jobs are kept with the client link
// cleared.
func (b *Business) DeleteClient(id string) error {
	res, err := b.db.sql.Exec(`DELETE FROM clients WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- jobs ---

// AddJob inserts a new pending job and returns it.
func (b *Business) AddJob(clientID, title, description, agentType string, price float64, notes string) (*Job, error) {
	j := &Job{
		ID: uuid.New().String(), ClientID: clientID, Title: title,
		Description: description, Status: JobPending, AgentType: agentType,
		Price: price, Notes: notes, CreatedAt: time.Now().UTC(),
	}
	_, err := b.db.sql.Exec(
		`INSERT INTO jobs (id, client_id, title, description, status, agent_type, price, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, nullable(j.ClientID), j.Title, j.Description, j.Status, j.AgentType,
		j.Price, j.Notes, j.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return j, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ListJobs returns jobs newest first, optionally filtered by status.
func (b *Business) ListJobs(status string) ([]Job, error) {
	q := `SELECT j.id, COALESCE(j.client_id, ''), COALESCE(c.name, ''), j.title, j.description,
	             j.status, j.agent_type, j.price, j.paid, j.notes, j.created_at, j.started_at, j.completed_at
	      FROM jobs j LEFT JOIN clients c ON c.id = j.client_id`
	args := []any{}
	if status != "" {
		q += ` WHERE j.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY j.created_at DESC, j.id`

	rows, err := b.db.sql.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var createdAt string
	var startedAt, completedAt sql.NullString
	if err := row.Scan(&j.ID, &j.ClientID, &j.ClientName, &j.Title, &j.Description,
		&j.Status, &j.AgentType, &j.Price, &j.Paid, &j.Notes,
		&createdAt, &startedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	j.CreatedAt = parseStamp(createdAt)
	if startedAt.Valid {
		t := parseStamp(startedAt.String)
		j.StartedAt = &t
	}
	if completedAt.Valid {
		t := parseStamp(completedAt.String)
		j.CompletedAt = &t
	}
	return &j, nil
}

// GetJob returns one job by ID.
func (b *Business) GetJob(id string) (*Job, error) {
	row := b.db.sql.QueryRow(
		`SELECT j.id, COALESCE(j.client_id, ''), COALESCE(c.name, ''), j.title, j.description,
		        j.status, j.agent_type, j.price, j.paid, j.notes, j.created_at, j.started_at, j.completed_at
		 FROM jobs j LEFT JOIN clients c ON c.id = j.client_id WHERE j.id = ?`, id)
	return scanJob(row)
}

// UpdateJob replaces a job's editable fields.
func (b *Business) UpdateJob(id, title, description, agentType string, price float64, notes string) error {
	res, err := b.db.sql.Exec(
		`UPDATE jobs SET title=?, description=?, agent_type=?, price=?, notes=? WHERE id=?`,
		title, description, agentType, price, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	return requireRow(res)
}

// UpdateJobStatus transitions a job. Moving to in_progress stamps
// started_at; completing stamps completed_at and books an income
// transaction for the job's price when it is non-zero.
func (b *Business) UpdateJobStatus(id, status string) error {
	tx, err := b.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback()

	var res sql.Result
	switch status {
	case JobInProgress:
		res, err = tx.Exec(`UPDATE jobs SET status=?, started_at=? WHERE id=?`, status, now(), id)
	case JobCompleted:
		res, err = tx.Exec(`UPDATE jobs SET status=?, completed_at=? WHERE id=?`, status, now(), id)
	default:
		res, err = tx.Exec(`UPDATE jobs SET status=? WHERE id=?`, status, id)
	}
	if err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if status == JobCompleted {
		var price float64
		var title string
		if err := tx.QueryRow(`SELECT price, title FROM jobs WHERE id=?`, id).Scan(&price, &title); err != nil {
			return fmt.Errorf("reading completed job: %w", err)
		}
		if price > 0 {
			_, err := tx.Exec(
				`INSERT INTO transactions (id, job_id, amount, type, description, date) VALUES (?, ?, ?, 'income', ?, ?)`,
				uuid.New().String(), id, price, "Payment for: "+title, now(),
			)
			if err != nil {
				return fmt.Errorf("booking income: %w", err)
			}
		}
	}
	return tx.Commit()
}

// DeleteJob removes a job together with its booked transactions, so revenue
// totals never retain income from deleted work.
func (b *Business) DeleteJob(id string) error {
	tx, err := b.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin job delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transactions WHERE job_id=?`, id); err != nil {
		return fmt.Errorf("deleting job transactions: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// --- leads ---

// AddLead inserts a new lead and returns it.
func (b *Business) AddLead(source, clientName, email, description, budget, notes string) (*Lead, error) {
	l := &Lead{
		ID: uuid.New().String(), Source: source, ClientName: clientName,
		Email: email, Description: description, Budget: budget,
		Status: LeadNew, Notes: notes, CreatedAt: time.Now().UTC(),
	}
	_, err := b.db.sql.Exec(
		`INSERT INTO leads (id, source, client_name, email, description, budget, status, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Source, l.ClientName, l.Email, l.Description, l.Budget, l.Status, l.Notes,
		l.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting lead: %w", err)
	}
	return l, nil
}

// ListLeads returns all leads, newest first.
func (b *Business) ListLeads() ([]Lead, error) {
	rows, err := b.db.sql.Query(
		`SELECT id, source, client_name, email, description, budget, status, notes, created_at
		 FROM leads ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		var l Lead
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Source, &l.ClientName, &l.Email, &l.Description,
			&l.Budget, &l.Status, &l.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		l.CreatedAt = parseStamp(createdAt)
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateLeadStatus sets a lead's status.
func (b *Business) UpdateLeadStatus(id, status string) error {
	res, err := b.db.sql.Exec(`UPDATE leads SET status=? WHERE id=?`, status, id)
	if err != nil {
		return fmt.Errorf("updating lead status: %w", err)
	}
	return requireRow(res)
}

// ConvertLead turns a lead into a client plus an initial job priced from
// the lead's budget text, and marks the lead converted. Returns the new
// client and job IDs.
func (b *Business) ConvertLead(leadID string) (clientID, jobID string, err error) {
	tx, err := b.db.sql.Begin()
	if err != nil {
		return "", "", fmt.Errorf("begin conversion: %w", err)
	}
	defer tx.Rollback()

	var l Lead
	err = tx.QueryRow(
		`SELECT source, client_name, email, description, budget, notes FROM leads WHERE id=?`, leadID,
	).Scan(&l.Source, &l.ClientName, &l.Email, &l.Description, &l.Budget, &l.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("reading lead: %w", err)
	}

	clientID = uuid.New().String()
	if _, err := tx.Exec(
		`INSERT INTO clients (id, name, email, source, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		clientID, l.ClientName, l.Email, l.Source, l.Notes, now(),
	); err != nil {
		return "", "", fmt.Errorf("creating client: %w", err)
	}

	jobID = uuid.New().String()
	if _, err := tx.Exec(
		`INSERT INTO jobs (id, client_id, title, description, status, price, created_at) VALUES (?, ?, ?, ?, 'pending', ?, ?)`,
		jobID, clientID, "Project for "+l.ClientName, l.Description, ParseBudget(l.Budget), now(),
	); err != nil {
		return "", "", fmt.Errorf("creating job: %w", err)
	}

	if _, err := tx.Exec(`UPDATE leads SET status='converted' WHERE id=?`, leadID); err != nil {
		return "", "", fmt.Errorf("marking lead converted: %w", err)
	}
	return clientID, jobID, tx.Commit()
}

// ParseBudget extracts a price from free-form budget text ("$1,500" -> 1500).
// Unparseable text yields zero.
func ParseBudget(budget string) float64 {
	var sb strings.Builder
	for _, r := range budget {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// --- notes ---

// AddNote inserts a new note and returns it.
func (b *Business) AddNote(title, content, category string) (*Note, error) {
	if category == "" {
		category = "general"
	}
	stamp := time.Now().UTC()
	n := &Note{
		ID: uuid.New().String(), Title: title, Content: content,
		Category: category, CreatedAt: stamp, UpdatedAt: stamp,
	}
	_, err := b.db.sql.Exec(
		`INSERT INTO notes (id, title, content, category, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, n.Category,
		stamp.Format(time.DateTime), stamp.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting note: %w", err)
	}
	return n, nil
}

// ListNotes returns all notes, pinned first, then most recently updated.
func (b *Business) ListNotes() ([]Note, error) {
	rows, err := b.db.sql.Query(
		`SELECT id, title, content, category, pinned, created_at, updated_at
		 FROM notes ORDER BY pinned DESC, updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		var createdAt, updatedAt string
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Category, &n.Pinned,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.CreatedAt = parseStamp(createdAt)
		n.UpdatedAt = parseStamp(updatedAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdateNote replaces a note's content and bumps its update stamp.
func (b *Business) UpdateNote(id, title, content, category string) error {
	res, err := b.db.sql.Exec(
		`UPDATE notes SET title=?, content=?, category=?, updated_at=? WHERE id=?`,
		title, content, category, now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}
	return requireRow(res)
}

// ToggleNotePin flips a note's pinned flag.
func (b *Business) ToggleNotePin(id string) error {
	res, err := b.db.sql.Exec(`UPDATE notes SET pinned = NOT pinned WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("toggling pin: %w", err)
	}
	return requireRow(res)
}

// DeleteNote removes a note.
func (b *Business) DeleteNote(id string) error {
	res, err := b.db.sql.Exec(`DELETE FROM notes WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return requireRow(res)
}

// --- transactions ---

// AddTransaction books an income or expense entry.
func (b *Business) AddTransaction(jobID string, amount float64, txType, description string) (*Transaction, error) {
	if txType == "" {
		txType = "income"
	}
	t := &Transaction{
		ID: uuid.New().String(), JobID: jobID, Amount: amount,
		Type: txType, Description: description, Date: time.Now().UTC(),
	}
	_, err := b.db.sql.Exec(
		`INSERT INTO transactions (id, job_id, amount, type, description, date) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, nullable(t.JobID), t.Amount, t.Type, t.Description, t.Date.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the most recent transactions with their job
// titles, up to limit (default 50).
func (b *Business) ListTransactions(limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := b.db.sql.Query(
		`SELECT t.id, COALESCE(t.job_id, ''), COALESCE(j.title, ''), t.amount, t.type, t.description, t.date
		 FROM transactions t LEFT JOIN jobs j ON j.id = t.job_id
		 ORDER BY t.date DESC, t.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.JobID, &t.JobTitle, &t.Amount, &t.Type, &t.Description, &date); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Date = parseStamp(date)
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- dashboard ---

// Stats returns the dashboard summary.
func (b *Business) Stats() (*DashboardStats, error) {
	s := &DashboardStats{}

	monthStart := time.Now().UTC().Format("2006-01") + "-01 00:00:00"
	queries := []struct {
		dest  any
		query string
		args  []any
	}{
		{&s.TotalRevenue, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type='income'`, nil},
		{&s.MonthRevenue, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type='income' AND date >= ?`, []any{monthStart}},
		{&s.ClientCount, `SELECT COUNT(*) FROM clients`, nil},
		{&s.ActiveJobs, `SELECT COUNT(*) FROM jobs WHERE status IN ('pending', 'in_progress')`, nil},
		{&s.CompletedJobs, `SELECT COUNT(*) FROM jobs WHERE status='completed'`, nil},
		{&s.NewLeads, `SELECT COUNT(*) FROM leads WHERE status='new'`, nil},
	}
	for _, q := range queries {
		if err := b.db.sql.QueryRow(q.query, q.args...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("dashboard stats: %w", err)
		}
	}

	rows, err := b.db.sql.Query(
		`SELECT j.id, COALESCE(j.client_id, ''), COALESCE(c.name, ''), j.title, j.description,
		        j.status, j.agent_type, j.price, j.paid, j.notes, j.created_at, j.started_at, j.completed_at
		 FROM jobs j LEFT JOIN clients c ON c.id = j.client_id
		 ORDER BY j.created_at DESC, j.id LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("recent jobs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		s.RecentJobs = append(s.RecentJobs, *j)
	}
	return s, rows.Err()
}

// RevenueByDay returns per-day income totals for the last N days (default 30).
func (b *Business) RevenueByDay(days int) ([]RevenuePoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.DateTime)
	rows, err := b.db.sql.Query(
		`SELECT DATE(date) AS day, SUM(amount) AS total
		 FROM transactions
		 WHERE type='income' AND date >= ?
		 GROUP BY day ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	defer rows.Close()

	var out []RevenuePoint
	for rows.Next() {
		var p RevenuePoint
		if err := rows.Scan(&p.Day, &p.Total); err != nil {
			return nil, fmt.Errorf("scanning revenue: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
