package api

import (
	"encoding/json"
	"net/http"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

// apiError is how handlers report failure: a transport status plus a
// human-readable detail, translated to JSON at the boundary.
type apiError struct {
	Status int
	Detail string
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, apiErr *apiError) {
	respondJSON(w, apiErr.Status, &detailResponse{Detail: apiErr.Detail})
}
