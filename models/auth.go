// models/auth.go

package models

type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"` // "creator", "brand", "admin"
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"idToken"`
	Role    string `json:"role,omitempty"`
}

type AuthData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateProfileRequest struct {
	Name           string          `json:"name,omitempty"`
	SocialAccounts *SocialAccounts `json:"socialAccounts,omitempty"`
}
