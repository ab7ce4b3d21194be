package dto

// LoginRequest запрос входа.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AutoConnectRequest запрос автоматического входа по одноразовому токену.
type AutoConnectRequest struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordRequest запрос сброса пароля.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest смена пароля.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,nefield=CurrentPassword"`
}

// ResetPasswordRequest установка пароля после автоматического входа.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// TaxRequest входные данные калькулятора налогов.
type TaxRequest struct {
	TypeFiscal string  `json:"typeFiscal" validate:"required,oneof=VP VU VF"`
	CO2        float64 `json:"co2" validate:"gte=0"`
	Energie    string  `json:"energie" validate:"required,oneof=ESSENCE DIESEL E85 HEV PHEV MHEV BEV"`
	Poids      float64 `json:"poids" validate:"gte=0"`
	Duree      int     `json:"duree" validate:"gt=0"`
}

// AenRequest входные данные калькулятора AEN.
type AenRequest struct {
	Carburant    string  `json:"carburant" validate:"required"`
	IsBEV        bool    `json:"isBEV"`
	IsEcoScore   bool    `json:"isEcoScore"`
	Loyer        float64 `json:"loyer" validate:"gte=0"`
	PrixVehicule float64 `json:"prixVehicule" validate:"gte=0"`
	Remise       float64 `json:"remise" validate:"gte=0,lte=100"`
}
