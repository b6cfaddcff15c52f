package model

// User is a row in the users table. Profile fields and the stored
// refresh-token ciphertext are nullable.
type User struct {
	Email                  string
	Hash                   string
	FirstName              *string
	LastName               *string
	DOB                    *string
	Address                *string
	RefreshTokenCiphertext *string
}

// Profile is the public view of a user profile, returned to callers that are
// not the profile owner.
type Profile struct {
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// OwnerProfile adds the fields disclosed only to the authenticated owner.
type OwnerProfile struct {
	Profile
	DOB     *string `json:"dob"`
	Address *string `json:"address"`
}

// ProfileUpdate carries the four mandatory profile fields after validation.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	DOB       string
	Address   string
}

// TokenBundle is the wire shape of a single issued token.
type TokenBundle struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	BearerToken  TokenBundle `json:"bearerToken"`
	RefreshToken TokenBundle `json:"refreshToken"`
}
