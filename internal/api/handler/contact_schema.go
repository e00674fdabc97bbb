package handler

// Validation rules mirror the front-end form: the server-side check is the
// authoritative one.

type contactRequest struct {
	Name           string `json:"name"           validate:"required,min=2,max=100"`
	Email          string `json:"email"          validate:"required,email"`
	Phone          string `json:"phone"          validate:"omitempty,e164"`
	CourseInterest string `json:"courseInterest" validate:"omitempty,oneof=web-development data-science design mobile-dev ai-ml business other"`
	Message        string `json:"message"        validate:"required,min=10,max=2000"`
	Subscribe      bool   `json:"subscribe"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type rateLimitData struct {
	Remaining  int    `json:"remaining"`
	Limit      int    `json:"limit"`
	ResetAfter int    `json:"resetAfter"`
	IsLimited  bool   `json:"isLimited"`
	Window     string `json:"window"`
}

type rateLimitStatusResponse struct {
	Success bool          `json:"success"`
	Data    rateLimitData `json:"data"`
}
