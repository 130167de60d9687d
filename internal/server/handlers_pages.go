package server

import (
	"net/http"
	"sort"
	"time"

	"farmledger.dev/farmledger/internal/views"
)

// handleIndex routes the bare domain to the landing view for the
// current session state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Current(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleNotFound serves the not-found page for unmatched paths.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(w, r, "Not Found")
	if err := s.renderer.render(w, "notfound", http.StatusNotFound, data); err != nil {
		s.logger.Error("failed to render not-found page", "error", err)
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// handleDashboard serves the stat cards and the upcoming task list.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(w, r, "Dashboard")

	for _, desc := range views.All() {
		res := s.resources[desc.Kind]
		n, err := res.count(r.Context())
		if err != nil {
			s.logger.Error("failed to count records", "entity", desc.Kind, "error", err)
			n = 0
		}
		data.Stats = append(data.Stats, statCard{
			Title: desc.Title,
			Count: n,
			Path:  desc.Path,
			Icon:  desc.Icon,
		})
	}

	tasks, err := s.repos.Tasks.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
	} else {
		now := time.Now().UTC()
		upcoming := tasks[:0:0]
		for _, t := range tasks {
			if t.Status == "pending" || t.Status == "in-progress" {
				if t.ScheduledDate.After(now.AddDate(0, 0, -1)) {
					upcoming = append(upcoming, t)
				}
			}
		}
		sort.Slice(upcoming, func(i, j int) bool {
			return upcoming[i].ScheduledDate.Before(upcoming[j].ScheduledDate)
		})
		if len(upcoming) > 5 {
			upcoming = upcoming[:5]
		}
		for i := range upcoming {
			m, err := toMap(&upcoming[i])
			if err != nil {
				continue
			}
			data.UpcomingTasks = append(data.UpcomingTasks, m)
		}
	}

	if err := s.renderer.render(w, "dashboard", http.StatusOK, data); err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleEntityPage serves a generic entity list page, filtered by the
// q query parameter.
func (s *Server) handleEntityPage(desc views.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		records, err := s.resources[desc.Kind].list(r.Context(), query)
		if err != nil {
			s.logger.Error("failed to list records", "entity", desc.Kind, "error", err)
			s.sessions.AddFlash(w, r, "error", "Failed to load "+desc.Title)
			records = nil
		}

		data := s.newPageData(w, r, desc.Title)
		data.Desc = desc
		data.Records = records
		data.Query = query

		if err := s.renderer.render(w, "entity", http.StatusOK, data); err != nil {
			s.logger.Error("failed to render entity page", "entity", desc.Kind, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// handleEntityForm handles the no-script form posts from an entity
// page. Delete is the only destructive action reachable without the
// JSON API; it fires immediately on click and deleting an id that is
// already gone still reads as success.
func (s *Server) handleEntityForm(desc views.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := r.PostFormValue("_action")
		id := r.PostFormValue("id")

		if action != "delete" || id == "" {
			http.Redirect(w, r, desc.Path, http.StatusSeeOther)
			return
		}

		if err := s.resources[desc.Kind].remove(r.Context(), id); err != nil {
			s.logger.Error("failed to delete record", "entity", desc.Kind, "id", id, "error", err)
			s.sessions.AddFlash(w, r, "error", "Failed to delete record")
		} else {
			s.sessions.AddFlash(w, r, "success", "Record deleted successfully")
		}
		http.Redirect(w, r, desc.Path, http.StatusSeeOther)
	}
}

func (s *Server) newPageData(w http.ResponseWriter, r *http.Request, title string) *pageData {
	data := &pageData{
		Title:   title,
		Nav:     views.All(),
		Flashes: s.sessions.PopFlashes(w, r),
	}
	if id, ok := s.sessions.Current(r); ok {
		data.Identity = &id
	}
	return data
}
