package model

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email                   string `json:"email"`
	Password                string `json:"password"`
	BearerExpiresInSeconds  *int64 `json:"bearerExpiresInSeconds"`
	RefreshExpiresInSeconds *int64 `json:"refreshExpiresInSeconds"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest keeps the raw decoded values so that absent fields and
// wrongly-typed fields produce distinct validation failures.
type UpdateProfileRequest struct {
	FirstName any `json:"firstName"`
	LastName  any `json:"lastName"`
	DOB       any `json:"dob"`
	Address   any `json:"address"`
}
