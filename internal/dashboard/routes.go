package dashboard

import (
	"net/http"
	"strconv"

	"github.com/soyeahso/cerberus/internal/agent"
	"github.com/soyeahso/cerberus/internal/hooks"
	"github.com/soyeahso/cerberus/internal/store"
)

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws/events", s.handleEvents)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleAddClient)
	mux.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)

	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/jobs", s.handleAddJob)
	mux.HandleFunc("PUT /api/jobs/{id}", s.handleUpdateJob)
	mux.HandleFunc("POST /api/jobs/{id}/status", s.handleJobStatus)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)

	mux.HandleFunc("GET /api/leads", s.handleListLeads)
	mux.HandleFunc("POST /api/leads", s.handleAddLead)
	mux.HandleFunc("POST /api/leads/{id}/status", s.handleLeadStatus)
	mux.HandleFunc("POST /api/leads/{id}/convert", s.handleConvertLead)

	mux.HandleFunc("GET /api/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/notes", s.handleAddNote)
	mux.HandleFunc("PUT /api/notes/{id}", s.handleUpdateNote)
	mux.HandleFunc("POST /api/notes/{id}/pin", s.handleToggleNotePin)
	mux.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)

	mux.HandleFunc("GET /api/revenue", s.handleRevenue)

	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/agents/{name}/run", s.handleRunAgent)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.biz.Stats()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Clients

type clientPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Source  string `json:"source"`
	Notes   string `json:"notes"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.biz.ListClients()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (s *Server) handleAddClient(w http.ResponseWriter, r *http.Request) {
	var p clientPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	client, err := s.biz.AddClient(p.Name, p.Email, p.Company, p.Source, p.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var p clientPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.biz.UpdateClient(r.PathValue("id"), p.Name, p.Email, p.Company, p.Source, p.Notes); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.biz.DeleteClient(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// Jobs

type jobPayload struct {
	ClientID    string  `json:"client_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AgentType   string  `json:"agent_type"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.biz.ListJobs(r.URL.Query().Get("status"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleAddJob(w http.ResponseWriter, r *http.Request) {
	var p jobPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	job, err := s.biz.AddJob(p.ClientID, p.Title, p.Description, p.AgentType, p.Price, p.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var p jobPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.biz.UpdateJob(r.PathValue("id"), p.Title, p.Description, p.AgentType, p.Price, p.Notes); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

type jobStatusPayload struct {
	Status string `json:"status"`
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	var p jobStatusPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	id := r.PathValue("id")
	if err := s.biz.UpdateJobStatus(id, p.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	if p.Status == store.JobCompleted && s.hooks != nil {
		s.hooks.Emit(r.Context(), hooks.EventJobCompleted, map[string]any{
			"job_id": id,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true, "status": p.Status})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.biz.DeleteJob(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// Leads

type leadPayload struct {
	Source      string `json:"source"`
	ClientName  string `json:"client_name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Budget      string `json:"budget"`
	Notes       string `json:"notes"`
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.biz.ListLeads()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (s *Server) handleAddLead(w http.ResponseWriter, r *http.Request) {
	var p leadPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.ClientName == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}
	lead, err := s.biz.AddLead(p.Source, p.ClientName, p.Email, p.Description, p.Budget, p.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

type leadStatusPayload struct {
	Status string `json:"status"`
}

func (s *Server) handleLeadStatus(w http.ResponseWriter, r *http.Request) {
	var p leadStatusPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	if err := s.biz.UpdateLeadStatus(r.PathValue("id"), p.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true, "status": p.Status})
}

func (s *Server) handleConvertLead(w http.ResponseWriter, r *http.Request) {
	clientID, jobID, err := s.biz.ConvertLead(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"converted": true,
		"client_id": clientID,
		"job_id":    jobID,
	})
}

// Notes

type notePayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.biz.ListNotes()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var p notePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	note, err := s.biz.AddNote(p.Title, p.Content, p.Category)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var p notePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.biz.UpdateNote(r.PathValue("id"), p.Title, p.Content, p.Category); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (s *Server) handleToggleNotePin(w http.ResponseWriter, r *http.Request) {
	if err := s.biz.ToggleNotePin(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"toggled": true})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.biz.DeleteNote(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// Transactions

type transactionPayload struct {
	JobID       string  `json:"job_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 50)
	txns, err := s.biz.ListTransactions(limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	txn, err := s.biz.AddTransaction(p.JobID, p.Amount, p.Type, p.Description)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

// Revenue

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	points, err := s.biz.RevenueByDay(days)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"revenue": points})
}

// Agents

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.orch.ListAgents()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Status())
}

type runAgentPayload struct {
	Task   string         `json:"task"`
	Params map[string]any `json:"params"`
}

func (s *Server) handleRunAgent(w http.ResponseWriter, r *http.Request) {
	var p runAgentPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Task == "" {
		writeError(w, http.StatusBadRequest, "task is required")
		return
	}
	result := s.orch.RunAgent(r.Context(), r.PathValue("name"), p.Task, agent.Params(p.Params))
	writeJSON(w, http.StatusOK, result)
}

// intQuery parses an integer query parameter, returning fallback when the
// parameter is absent or malformed.
func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
