package api

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /api/auth/login.
type LoginResponse struct {
	Success bool `json:"success"`
}

// MeResponse is the body of GET /api/auth/me. The probe always answers
// 200; Admin is false for missing, malformed, expired, or tampered
// cookies.
type MeResponse struct {
	Admin bool `json:"admin"`
}

// LogoutResponse is the body of POST /api/auth/logout.
type LogoutResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the stable failure shape for all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
