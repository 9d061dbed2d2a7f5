package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/roomkit/internal/pkg/message"
	"github.com/ferdiebergado/roomkit/internal/pkg/web"
)

const dateLayout = time.DateOnly

type UserService interface {
	List(ctx context.Context) ([]User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, params ProfileParams) (*User, error)
}

var _ UserService = (*Service)(nil)

type Handler struct {
	svc UserService
}

func NewHandler(svc UserService) *Handler {
	return &Handler{svc: svc}
}

// AccountData is the owner's view of an account.
type AccountData struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	EmailVerified bool            `json:"email_verified"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Country       Country         `json:"country"`
	Bio           string          `json:"bio"`
	Birthdate     string          `json:"birthdate,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	DateJoined    time.Time       `json:"date_joined"`
}

// ProfileData is what other members see.
type ProfileData struct {
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Country   Country `json:"country"`
	Bio       string  `json:"bio"`
}

type ListResponse struct {
	Users []AccountData `json:"users"`
}

func NewAccountData(u *User) *AccountData {
	data := &AccountData{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Country:       u.Country,
		Bio:           u.Bio,
		DateJoined:    u.DateJoined,
	}

	if len(u.Metadata) > 0 {
		data.Metadata = u.Metadata
	}

	if u.Birthdate != nil {
		data.Birthdate = u.Birthdate.Format(dateLayout)
	}

	return data
}

func newProfileData(u *User) *ProfileData {
	return &ProfileData{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Country:   u.Country,
		Bio:       u.Bio,
	}
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := FromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.LoginRequired, nil)
		return
	}

	web.RespondOK(w, nil, NewAccountData(u))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	u, err := h.svc.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.RespondNotFound(w, err, "User not found.", nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	web.RespondOK(w, nil, newProfileData(u))
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Country   string `json:"country" validate:"omitempty,oneof=FR BE DE EN ES IT LT PL UA"`
	Bio       string `json:"bio" validate:"max=500"`
	Birthdate string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current, err := FromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.LoginRequired, nil)
		return
	}

	req, err := web.ParamsFromContext[UpdateProfileRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	params := ProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   Country(req.Country),
		Bio:       req.Bio,
	}

	if req.Birthdate != "" {
		birthdate, err := time.Parse(dateLayout, req.Birthdate)
		if err != nil {
			web.RespondUnprocessableEntity(w, err, message.InvalidInput, map[string]string{
				"birthdate": "birthdate must be a date in the format 2006-01-02",
			})
			return
		}
		params.Birthdate = &birthdate
	}

	updated, err := h.svc.UpdateProfile(r.Context(), current.ID, params)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	msg := "Profile updated."
	web.RespondOK(w, &msg, NewAccountData(updated))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]AccountData, 0, len(users))
	for i := range users {
		data = append(data, *NewAccountData(&users[i]))
	}

	web.RespondOK(w, nil, &ListResponse{Users: data})
}
