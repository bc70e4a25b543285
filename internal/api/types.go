package api

import "github.com/kgrange/marquee/internal/domain"

// Request bodies

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response bodies

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type moviesResponse struct {
	Movies []domain.Movie `json:"movies"`
	Page   int            `json:"page,omitempty"`
	Query  string         `json:"query,omitempty"`
}

type recommendResponse struct {
	SourceMovie     string         `json:"source_movie"`
	Recommendations []domain.Movie `json:"recommendations"`
}

type titlesResponse struct {
	Titles []string `json:"titles"`
}

type tmdbKeyResponse struct {
	Key string `json:"key"`
}

// errorBody is the error envelope the backend uses for 4xx/5xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}
