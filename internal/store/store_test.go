package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/cerberus/internal/logging"
)

func testDB(t *testing.T) *Business {
	t.Helper()
	db, err := Open(":memory:", logging.New(nil, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBusiness(db)
}

func TestOpenOnDisk(t *testing.T) {
	path := t.TempDir() + "/nested/dir/cerberus.db"
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopen: migrations must be recorded, not re-run.
	db, err = Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.SQL().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestOpenAppliesBusyTimeout(t *testing.T) {
	db, err := Open(":memory:", logging.New(nil, "silent"))
	require.NoError(t, err)
	defer db.Close()

	var timeout int
	require.NoError(t, db.SQL().QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestClientCRUD(t *testing.T) {
	b := testDB(t)

	c, err := b.AddClient("Acme Corp", "ops@acme.io", "Acme", "referral", "big fish")
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	got, err := b.GetClient(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, "ops@acme.io", got.Email)

	require.NoError(t, b.UpdateClient(c.ID, "Acme Corp", "billing@acme.io", "Acme", "referral", ""))
	got, err = b.GetClient(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "billing@acme.io", got.Email)

	require.NoError(t, b.DeleteClient(c.ID))
	_, err = b.GetClient(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientNotFound(t *testing.T) {
	b := testDB(t)
	_, err := b.GetClient("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, b.UpdateClient("nope", "", "", "", "", ""), ErrNotFound)
	assert.ErrorIs(t, b.DeleteClient("nope"), ErrNotFound)
}

func TestListClientsDerivedFields(t *testing.T) {
	b := testDB(t)

	c, err := b.AddClient("Acme", "", "", "", "")
	require.NoError(t, err)

	j1, err := b.AddJob(c.ID, "Site build", "", "custom", 1000, "")
	require.NoError(t, err)
	_, err = b.AddJob(c.ID, "Maintenance", "", "custom", 200, "")
	require.NoError(t, err)
	require.NoError(t, b.UpdateJobStatus(j1.ID, JobCompleted))

	clients, err := b.ListClients()
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 2, clients[0].JobCount)
	assert.Equal(t, 1000.0, clients[0].TotalSpent, "only completed jobs count as spend")
}

func TestJobStatusTransitions(t *testing.T) {
	b := testDB(t)
	c, err := b.AddClient("Acme", "", "", "", "")
	require.NoError(t, err)
	j, err := b.AddJob(c.ID, "Automation setup", "wire the agents", "data_entry", 750, "")
	require.NoError(t, err)
	assert.Equal(t, JobPending, j.Status)

	require.NoError(t, b.UpdateJobStatus(j.ID, JobInProgress))
	got, err := b.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, JobInProgress, got.Status)
	require.NotNil(t, got.StartedAt)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, b.UpdateJobStatus(j.ID, JobCompleted))
	got, err = b.GetJob(j.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)

	// Completion books the income automatically.
	txs, err := b.ListTransactions(0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 750.0, txs[0].Amount)
	assert.Equal(t, "income", txs[0].Type)
	assert.Equal(t, "Payment for: Automation setup", txs[0].Description)
	assert.Equal(t, "Automation setup", txs[0].JobTitle)
}

func TestJobCompletionZeroPriceBooksNothing(t *testing.T) {
	b := testDB(t)
	j, err := b.AddJob("", "Pro bono", "", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, b.UpdateJobStatus(j.ID, JobCompleted))

	txs, err := b.ListTransactions(0)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestJobStatusNotFound(t *testing.T) {
	b := testDB(t)
	assert.ErrorIs(t, b.UpdateJobStatus("missing", JobCompleted), ErrNotFound)
}

func TestListJobsFilter(t *testing.T) {
	b := testDB(t)
	j1, err := b.AddJob("", "One", "", "", 0, "")
	require.NoError(t, err)
	_, err = b.AddJob("", "Two", "", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, b.UpdateJobStatus(j1.ID, JobCancelled))

	all, err := b.ListJobs("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := b.ListJobs(JobPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Two", pending[0].Title)
}

func TestDeleteClientKeepsJobs(t *testing.T) {
	b := testDB(t)
	c, err := b.AddClient("Acme", "", "", "", "")
	require.NoError(t, err)
	j, err := b.AddJob(c.ID, "Work", "", "", 100, "")
	require.NoError(t, err)

	require.NoError(t, b.DeleteClient(c.ID))

	got, err := b.GetJob(j.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ClientID, "client link cleared, job survives")
}

func TestDeleteJobRemovesItsTransactions(t *testing.T) {
	b := testDB(t)
	j, err := b.AddJob("", "Logo design", "", "", 350, "")
	require.NoError(t, err)
	require.NoError(t, b.UpdateJobStatus(j.ID, JobCompleted))

	stats, err := b.Stats()
	require.NoError(t, err)
	require.Equal(t, 350.0, stats.TotalRevenue)

	require.NoError(t, b.DeleteJob(j.ID))

	txns, err := b.ListTransactions(0)
	require.NoError(t, err)
	assert.Empty(t, txns)

	stats, err = b.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.TotalRevenue)
}

func TestDeleteJobKeepsUnrelatedTransactions(t *testing.T) {
	b := testDB(t)
	_, err := b.AddTransaction("", 90, "income", "retainer")
	require.NoError(t, err)
	j, err := b.AddJob("", "Audit", "", "", 0, "")
	require.NoError(t, err)

	require.NoError(t, b.DeleteJob(j.ID))

	txns, err := b.ListTransactions(0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "retainer", txns[0].Description)
}

func TestConvertLead(t *testing.T) {
	b := testDB(t)
	l, err := b.AddLead("upwork", "Jane Roe", "jane@roe.io", "Needs invoice automation", "$1,500", "warm")
	require.NoError(t, err)
	assert.Equal(t, LeadNew, l.Status)

	clientID, jobID, err := b.ConvertLead(l.ID)
	require.NoError(t, err)

	client, err := b.GetClient(clientID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", client.Name)
	assert.Equal(t, "upwork", client.Source)

	job, err := b.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, "Project for Jane Roe", job.Title)
	assert.Equal(t, 1500.0, job.Price)
	assert.Equal(t, JobPending, job.Status)

	leads, err := b.ListLeads()
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, LeadConverted, leads[0].Status)
}

func TestConvertLeadNotFound(t *testing.T) {
	b := testDB(t)
	_, _, err := b.ConvertLead("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseBudget(t *testing.T) {
	cases := map[string]float64{
		"$1,500":          1500,
		"1500":            1500,
		"about 2k... 2.5": 0, // digits and dots concatenate into an unparseable string
		"":                0,
		"negotiable":      0,
		"99.95 USD":       99.95,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseBudget(in), "input %q", in)
	}
}

func TestNotesPinnedOrdering(t *testing.T) {
	b := testDB(t)
	_, err := b.AddNote("first", "alpha", "")
	require.NoError(t, err)
	n2, err := b.AddNote("second", "beta", "ideas")
	require.NoError(t, err)

	require.NoError(t, b.ToggleNotePin(n2.ID))

	notes, err := b.ListNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Title)
	assert.True(t, notes[0].Pinned)
	assert.Equal(t, "general", notes[1].Category)

	require.NoError(t, b.ToggleNotePin(n2.ID))
	notes, err = b.ListNotes()
	require.NoError(t, err)
	assert.False(t, notes[0].Pinned)
}

func TestNoteUpdateAndDelete(t *testing.T) {
	b := testDB(t)
	n, err := b.AddNote("draft", "text", "general")
	require.NoError(t, err)

	require.NoError(t, b.UpdateNote(n.ID, "final", "new text", "work"))
	notes, err := b.ListNotes()
	require.NoError(t, err)
	assert.Equal(t, "final", notes[0].Title)
	assert.Equal(t, "work", notes[0].Category)

	require.NoError(t, b.DeleteNote(n.ID))
	notes, err = b.ListNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestTransactionsAndLimit(t *testing.T) {
	b := testDB(t)
	_, err := b.AddTransaction("", 100, "income", "consulting")
	require.NoError(t, err)
	_, err = b.AddTransaction("", 40, "expense", "hosting")
	require.NoError(t, err)

	txs, err := b.ListTransactions(1)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	txs, err = b.ListTransactions(0)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestDashboardStats(t *testing.T) {
	b := testDB(t)
	c, err := b.AddClient("Acme", "", "", "", "")
	require.NoError(t, err)
	j, err := b.AddJob(c.ID, "Big build", "", "custom", 2000, "")
	require.NoError(t, err)
	_, err = b.AddJob(c.ID, "Ongoing", "", "custom", 500, "")
	require.NoError(t, err)
	require.NoError(t, b.UpdateJobStatus(j.ID, JobCompleted))
	_, err = b.AddLead("web", "Prospect", "", "", "", "")
	require.NoError(t, err)

	stats, err := b.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2000.0, stats.TotalRevenue)
	assert.Equal(t, 2000.0, stats.MonthRevenue)
	assert.Equal(t, 1, stats.ClientCount)
	assert.Equal(t, 1, stats.ActiveJobs)
	assert.Equal(t, 1, stats.CompletedJobs)
	assert.Equal(t, 1, stats.NewLeads)
	assert.Len(t, stats.RecentJobs, 2)
	assert.Equal(t, "Acme", stats.RecentJobs[0].ClientName)
}

func TestRevenueByDay(t *testing.T) {
	b := testDB(t)
	_, err := b.AddTransaction("", 100, "income", "a")
	require.NoError(t, err)
	_, err = b.AddTransaction("", 50, "income", "b")
	require.NoError(t, err)
	_, err = b.AddTransaction("", 999, "expense", "ignored")
	require.NoError(t, err)

	points, err := b.RevenueByDay(30)
	require.NoError(t, err)
	require.Len(t, points, 1, "all booked today")
	assert.Equal(t, 150.0, points[0].Total)
}
