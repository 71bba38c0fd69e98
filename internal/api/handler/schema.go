package handler

import (
	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	Username string `json:"username"  validate:"omitempty,username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  *domain.Account `json:"user"`
}

// --- Users ---

type updateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Username *string `json:"username"  validate:"omitempty,username"`
}

type accountListResponse struct {
	Items []ports.AccountSummary `json:"items"`
}

// --- Admin ---

type createAccountRequest struct {
	FullName     string   `json:"fullName"     validate:"required"`
	Email        string   `json:"email"         validate:"required,email"`
	Password     string   `json:"password"      validate:"required"`
	Username     string   `json:"username"      validate:"omitempty,username"`
	ProfileImage string   `json:"profileImage" validate:"omitempty,url"`
	Roles        []string `json:"roles"`
}

// adminUpdateRequest leaves role names unvalidated here so the service can
// report every unknown role in one error.
type adminUpdateRequest struct {
	FullName *string  `json:"fullName" validate:"omitempty,min=1"`
	Email    *string  `json:"email"     validate:"omitempty,email"`
	Username *string  `json:"username"  validate:"omitempty,username"`
	Roles    []string `json:"roles"`
}
