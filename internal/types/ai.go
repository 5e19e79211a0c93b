//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Platform is the host the user is installing from.
type Platform string

// Supported host platforms.
const (
	PlatformWindows Platform = "windows"
	PlatformWSL     Platform = "wsl"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
)

// AIQueryRequest is a question for the assistant.
type AIQueryRequest struct {
	Query          string      `json:"query" validate:"required,min=1,max=500"`
	DistroID       string      `json:"distro_id,omitempty"`
	Platform       Platform    `json:"platform" validate:"required,oneof=windows wsl macos linux"`
	UserProfile    UserProfile `json:"user_profile"`
	AllowHostedISO bool        `json:"allow_hosted_iso"`
}

// UserProfile describes the asker.
type UserProfile struct {
	SkillLevel TargetUser `json:"skill_level" validate:"required,oneof=beginner intermediate advanced"`
}

// AIResponse is the structured assistant answer.
type AIResponse struct {
	AnswerMD     string        `json:"answer_md" validate:"required"`
	Steps        []AIStep      `json:"steps" validate:"dive"`
	Commands     []AICommand   `json:"commands" validate:"dive"`
	Sources      []AISource    `json:"sources" validate:"dive"`
	Followup     *string       `json:"followup"`
	Verification *Verification `json:"verification"`
}

// AIStep is a step suggested by the assistant.
type AIStep struct {
	ID               string `json:"id" validate:"required"`
	Title            string `json:"title" validate:"required"`
	DetailMD         string `json:"detail_md"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Risk             string `json:"risk" validate:"oneof=low medium high"`
}

// AICommand is a command suggested by the assistant.
type AICommand struct {
	Command         string `json:"command" validate:"required"`
	Platform        string `json:"platform"`
	Explanation     string `json:"explanation"`
	ConfirmRequired bool   `json:"confirm_required"`
}

// AISource is a citation.
type AISource struct {
	Label string `json:"label" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// Verification carries checksum details for a download.
type Verification struct {
	Checksum     *string `json:"checksum"`
	ISOURL       *string `json:"iso_url" validate:"omitempty,url"`
	LastVerified *string `json:"last_verified"`
}

// AIHealth reports provider availability.
type AIHealth struct {
	Provider        string   `json:"provider"`
	BaseURL         string   `json:"base_url,omitempty"`
	Model           string   `json:"model"`
	Running         bool     `json:"running"`
	ModelAvailable  bool     `json:"model_available"`
	AvailableModels []string `json:"available_models,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Healthy reports whether the provider can serve requests.
func (h AIHealth) Healthy() bool {
	return h.Running && h.ModelAvailable
}

// Validate validates the AIQueryRequest using the validator.
func (r *AIQueryRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Normalize fills nil slices so the response always serializes arrays.
func (r *AIResponse) Normalize() {
	if r.Steps == nil {
		r.Steps = []AIStep{}
	}
	for i := range r.Steps {
		if r.Steps[i].Risk == "" {
			r.Steps[i].Risk = "low"
		}
	}
	if r.Commands == nil {
		r.Commands = []AICommand{}
	}
	if r.Sources == nil {
		r.Sources = []AISource{}
	}
}

// Validate validates the AIResponse using the validator.
func (r *AIResponse) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
