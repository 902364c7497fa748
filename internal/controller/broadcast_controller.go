package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

type BroadcastController struct {
	BroadcastService *service.BroadcastService
}

// CreateBroadcast persists the broadcast and triggers its dispatch. The
// response is the freshly created row; the client polls status afterwards.
func (c *BroadcastController) CreateBroadcast(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var body service.CreateBroadcastInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	broadcast, err := c.BroadcastService.Create(user.OrganizationID, body)
	if errors.Is(err, appErrors.ErrDispatchNotQueued) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(broadcast)
}

func (c *BroadcastController) ListBroadcasts(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	broadcasts, pagination, err := c.BroadcastService.List(user.OrganizationID, page, pageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       broadcasts,
		"pagination": pagination,
	})
}

func (c *BroadcastController) GetBroadcast(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid broadcast id", http.StatusBadRequest)
		return
	}

	details, err := c.BroadcastService.Details(user.OrganizationID, id)
	if err != nil {
		var notFound *appErrors.ErrBroadcastNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

func (c *BroadcastController) GetBroadcastLogs(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid broadcast id", http.StatusBadRequest)
		return
	}

	logs, err := c.BroadcastService.Logs(user.OrganizationID, id)
	if err != nil {
		var notFound *appErrors.ErrBroadcastNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}
