package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"rolodex/internal/delivery/http/response"
	"rolodex/internal/domain/entity"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/usecase"
)

// birthdayLayout is the wire format for contact birthdays.
const birthdayLayout = "2006-01-02"

// ContactHandler holds dependencies for the contact-book handlers.
type ContactHandler struct {
	uc usecase.ContactUsecase
}

// NewContactHandler is the constructor for ContactHandler, injected by Fx.
func NewContactHandler(uc usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

type contactRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"max=50"`
	Birthday    string `json:"birthday" validate:"required"`
	Description string `json:"description" validate:"max=1000"`
}

type contactResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Birthday    string `json:"birthday"`
	Description string `json:"description,omitempty"`
}

func (r *contactRequest) toInput() (usecase.ContactInput, error) {
	birthday, err := time.Parse(birthdayLayout, r.Birthday)
	if err != nil {
		return usecase.ContactInput{}, domainerrors.ErrValidationFailed.
			WithDetails("birthday must use the YYYY-MM-DD format")
	}

	return usecase.ContactInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Birthday:    birthday,
		Description: r.Description,
	}, nil
}

func toContactResponse(contact *entity.Contact) contactResponse {
	return contactResponse{
		ID:          contact.ID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		PhoneNumber: contact.PhoneNumber,
		Birthday:    contact.Birthday.Format(birthdayLayout),
		Description: contact.Description,
	}
}

func toContactResponses(contacts []*entity.Contact) []contactResponse {
	resp := make([]contactResponse, 0, len(contacts))
	for _, contact := range contacts {
		resp = append(resp, toContactResponse(contact))
	}

	return resp
}

// List returns the account's contacts with limit/offset pagination.
func (h *ContactHandler) List(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	contacts, err := h.uc.List(c.Request().Context(), account.ID, usecase.ListContactsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toContactResponses(contacts), "")
}

// Get returns a single contact.
func (h *ContactHandler) Get(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	contact, err := h.uc.Get(c.Request().Context(), account.ID, contactID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toContactResponse(contact), "")
}

// Create adds a new contact to the account's book.
func (h *ContactHandler) Create(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	input, err := req.toInput()
	if err != nil {
		return errors.WithStack(err)
	}

	contact, err := h.uc.Create(c.Request().Context(), account.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toContactResponse(contact), "Contact created")
}

// Update replaces a contact's fields.
func (h *ContactHandler) Update(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	input, err := req.toInput()
	if err != nil {
		return errors.WithStack(err)
	}

	contact, err := h.uc.Update(c.Request().Context(), account.ID, contactID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toContactResponse(contact), "Contact updated")
}

// Delete removes a contact.
func (h *ContactHandler) Delete(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Delete(c.Request().Context(), account.ID, contactID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Contact deleted")
}

// Search filters the account's contacts by name and email fragments.
func (h *ContactHandler) Search(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	contacts, err := h.uc.Search(c.Request().Context(), account.ID, usecase.SearchContactsInput{
		FirstName: c.QueryParam("first_name"),
		LastName:  c.QueryParam("last_name"),
		Email:     c.QueryParam("email"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toContactResponses(contacts), "")
}

// UpcomingBirthdays returns contacts with a birthday in the next seven days.
func (h *ContactHandler) UpcomingBirthdays(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	contacts, err := h.uc.UpcomingBirthdays(c.Request().Context(), account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toContactResponses(contacts), "")
}

func parseContactID(c echo.Context) (int64, error) {
	contactID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || contactID <= 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails("contact id must be a positive integer")
	}

	return contactID, nil
}
