package server

import (
	"errors"
	"net/http"

	"farmledger.dev/farmledger/internal/auth"
	"farmledger.dev/farmledger/internal/store"
)

// handleLoginPage serves the login view. A signed-in user has no
// business here and is sent to the default landing view instead.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Current(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r, "")
}

// handleLogin signs a user in with email and password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := s.authSvc.SignIn(r.Context(), email, password)
	if err != nil {
		s.countAuth("sign_in", false)
		if errors.Is(err, store.ErrInvalidCredentials) {
			s.renderLogin(w, r, "Invalid email or password.")
			return
		}
		s.logger.Error("sign-in failed", "error", err)
		s.renderLogin(w, r, "Sign in is unavailable right now. Please try again.")
		return
	}

	if err := s.establishSession(w, r, user); err != nil {
		return
	}
	s.countAuth("sign_in", true)
	s.sessions.AddFlash(w, r, "success", "Signed in successfully")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleSignup registers a new account and signs it in immediately;
// there is no separate confirmation step between sign-up and access.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := s.authSvc.SignUp(r.Context(), email, password)
	if err != nil {
		s.countAuth("sign_up", false)
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			s.renderLogin(w, r, "That email is already registered.")
		case store.IsValidation(err):
			s.renderLogin(w, r, "Email and password are required.")
		default:
			s.logger.Error("sign-up failed", "error", err)
			s.renderLogin(w, r, "Sign up is unavailable right now. Please try again.")
		}
		return
	}

	if err := s.establishSession(w, r, user); err != nil {
		return
	}
	s.countAuth("sign_up", true)
	s.sessions.AddFlash(w, r, "success", "Account created successfully")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout clears the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(w, r); err != nil {
		s.logger.Error("failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, user *store.User) error {
	err := s.sessions.Establish(w, r, auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("failed to establish session", "error", err)
		s.renderLogin(w, r, "Sign in is unavailable right now. Please try again.")
	}
	return err
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, authError string) {
	data := &pageData{
		Title:     "Sign In",
		Flashes:   s.sessions.PopFlashes(w, r),
		AuthError: authError,
	}
	status := http.StatusOK
	if authError != "" {
		status = http.StatusUnauthorized
	}
	if err := s.renderer.render(w, "login", status, data); err != nil {
		s.logger.Error("failed to render login", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) countAuth(op string, success bool) {
	if s.metrics == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	switch op {
	case "sign_in":
		s.metrics.SignIns.WithLabelValues(result).Inc()
	case "sign_up":
		s.metrics.SignUps.WithLabelValues(result).Inc()
	}
}
