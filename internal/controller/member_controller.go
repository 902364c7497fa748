package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

type MemberController struct {
	MemberService *service.MemberService
}

func (c *MemberController) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	offset, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	members, err := c.MemberService.List(user.OrganizationID, offset, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

func (c *MemberController) CreateMember(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var body struct {
		Name        string             `json:"name"`
		PhoneNumber string             `json:"phone_number"`
		Status      model.MemberStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.PhoneNumber == "" {
		http.Error(w, "name and phone_number are required", http.StatusBadRequest)
		return
	}

	member, err := c.MemberService.Create(user.OrganizationID, body.Name, body.PhoneNumber, body.Status)
	if err != nil {
		if errors.Is(err, appErrors.ErrMemberLimitReached) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(member)
}

func (c *MemberController) UpdateMember(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}

	var body struct {
		Name        *string             `json:"name"`
		PhoneNumber *string             `json:"phone_number"`
		Status      *model.MemberStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	member, err := c.MemberService.Update(user.OrganizationID, id, body.Name, body.PhoneNumber, body.Status)
	if err != nil {
		var notFound *appErrors.ErrMemberNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(member)
}

func (c *MemberController) DeleteMember(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}

	if err := c.MemberService.Delete(user.OrganizationID, id); err != nil {
		var notFound *appErrors.ErrMemberNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"detail": "member deleted"})
}
