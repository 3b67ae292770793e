package server

import (
	"net/http"

	"riot-reimagined/internal/domain"
)

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	identity, err := s.matches.ResolveAccount(r.Context(), r.PathValue("gameName"), r.PathValue("tagLine"))
	if err != nil {
		s.writeError(w, r, err, accountPolicy)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (s *Server) handleLeagueByPuuid(w http.ResponseWriter, r *http.Request) {
	result, err := s.matches.GetLeagueHistoryByPuuid(r.Context(), r.PathValue("puuid"))
	if err != nil {
		s.writeError(w, r, err, historyPolicy)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeagueByRiotID(w http.ResponseWriter, r *http.Request) {
	s.serveHistory(w, r, domain.GameLeague, r.PathValue("gameName"), r.PathValue("tagLine"))
}

func (s *Server) handleValorant(w http.ResponseWriter, r *http.Request) {
	s.serveHistory(w, r, domain.GameValorant, r.PathValue("name"), r.PathValue("tag"))
}

func (s *Server) serveHistory(w http.ResponseWriter, r *http.Request, game domain.Game, gameName, tagLine string) {
	result, err := s.matches.GetMatchHistory(r.Context(), game, gameName, tagLine)
	if err != nil {
		s.writeError(w, r, err, historyPolicy)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
