package server

import "net/http"

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	body, err := s.feeds.News(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err, feedPolicy)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleEsportsSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := s.feeds.EsportsSchedule(r.Context(), q.Get("region"), q.Get("league"))
	if err != nil {
		s.writeError(w, r, err, feedPolicy)
		return
	}
	writeRaw(w, http.StatusOK, body)
}
