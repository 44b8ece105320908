package models

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type CredentialRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

type SelectRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type RawInfoRequest struct {
	RawInfo string `json:"raw_info" validate:"required"`
}

type DraftRequest struct {
	HTML string `json:"html" validate:"required"`
}

// GenerateRequest falls back to the session's raw info when RawInfo is empty.
type GenerateRequest struct {
	RawInfo    string   `json:"raw_info"`
	ImageURL   string   `json:"image_url" validate:"omitempty,url"`
	FormatType string   `json:"format_type" validate:"omitempty,oneof=Chronological Functional Combination"`
	Theme      string   `json:"theme"`
	Styles     []string `json:"styles" validate:"omitempty,dive,oneof=Modern Classic Creative"`
}

type RefineRequest struct {
	EditRequest string `json:"edit_request" validate:"required"`
	Theme       string `json:"theme"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type RateRequest struct {
	Image string `json:"image"`
}

type FormatRequest struct {
	// RawInfo falls back to the session's current raw info when empty.
	RawInfo string `json:"raw_info"`
}

type CommitEditRequest struct {
	HTML string `json:"html"`
}

type JobAcceptedResponse struct {
	JobID  string `json:"job_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

type ImportResponse struct {
	PageCount int `json:"page_count"`
	Length    int `json:"length"`
}

type ThemeResponse struct {
	Name     string `json:"name"`
	Main     string `json:"main"`
	Gradient string `json:"gradient,omitempty"`
}
