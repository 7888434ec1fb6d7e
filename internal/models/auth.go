package models

type LoginRequest struct {
	LoginID  string `json:"loginId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OwnerLoginResponse is the backend's answer to an owner login
type OwnerLoginResponse struct {
	OwnerID     int64  `json:"ownerId"`
	Name        string `json:"name"`
	StoreID     *int64 `json:"storeId,omitempty"`
	AccessToken string `json:"accessToken"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	Name      string `json:"name"`
	StoreID   *int64 `json:"storeId,omitempty"`
}

// SignUpRequest creates a console account on the marketplace backend
type SignUpRequest struct {
	LoginID  string `json:"loginId" binding:"required,min=4,max=20"`
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Tel      string `json:"tel" binding:"required"`
}

type SignUpResponse struct {
	CustomerID int64 `json:"customerId"`
}
