package api

import (
	"encoding/json"
	"net/http"

	"user-session-api/internal/authorization"
	"user-session-api/internal/models"
)

// @Summary      Get current user
// @Description  Returns the profile of the user that owns the session_id cookie. Sessions older than the renewal threshold are extended and the cookie is re-issued.
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  models.Profile
// @Failure      400  {object}  apperror.Response "Malformed session_id"
// @Failure      401  {object}  apperror.Response "Session expired"
// @Failure      403  {object}  apperror.Response "Missing read:session feature"
// @Failure      500  {object}  apperror.Response "Internal Server Error"
// @Router       /user [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipalFromContext(r.Context())
	if err := authorization.Authorize(principal, authorization.FeatureReadSession); err != nil {
		s.writeError(w, r, err)
		return
	}

	balances, err := s.store.GetUserBalances(r.Context(), principal.User.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.commitRenewal(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.NewProfile(principal.User, balances))
}
