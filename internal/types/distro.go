// Package types provides type definitions for structured data used throughout the distro catalog.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Family is the lineage a distribution derives from.
type Family string

// Known distribution families.
const (
	FamilyDebian      Family = "Debian"
	FamilyArch        Family = "Arch"
	FamilyRedHat      Family = "Red Hat"
	FamilySUSE        Family = "SUSE"
	FamilyGentoo      Family = "Gentoo"
	FamilySlackware   Family = "Slackware"
	FamilyIndependent Family = "Independent"
	FamilyAndroid     Family = "Android"
	FamilyOther       Family = "Other"
)

// TargetUser is an audience tag drawn from a closed set.
type TargetUser string

// Known audience tags.
const (
	TargetBeginner     TargetUser = "beginner"
	TargetIntermediate TargetUser = "intermediate"
	TargetAdvanced     TargetUser = "advanced"
	TargetEnterprise   TargetUser = "enterprise"
	TargetDeveloper    TargetUser = "developer"
	TargetServer       TargetUser = "server"
)

// Families lists every valid Family in declaration order.
func Families() []Family {
	return []Family{
		FamilyDebian, FamilyArch, FamilyRedHat, FamilySUSE, FamilyGentoo,
		FamilySlackware, FamilyIndependent, FamilyAndroid, FamilyOther,
	}
}

// IsSkillLevel reports whether t is one of the three quiz skill levels.
func (t TargetUser) IsSkillLevel() bool {
	return t == TargetBeginner || t == TargetIntermediate || t == TargetAdvanced
}

// Distro is one catalog record. Records are immutable once loaded.
type Distro struct {
	// Core identification
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required,min=1"`
	Family Family `json:"family" validate:"required,oneof=Debian Arch 'Red Hat' SUSE Gentoo Slackware Independent Android Other"`

	// Version information
	LatestVersion string `json:"latest_version" validate:"required"`
	Codename      string `json:"codename,omitempty"`
	ReleaseDate   string `json:"release_date" validate:"required,datetime=2006-01-02"`

	// Audience
	TargetUsers []TargetUser `json:"target_users" validate:"required,min=1,dive,oneof=beginner intermediate advanced enterprise developer server"`

	// Technical specifications
	DesktopEnvironments []string `json:"desktop_environments"`
	PackageManager      string   `json:"package_manager" validate:"required"`
	Kernel              string   `json:"kernel" validate:"required"`
	MinRAMMB            int      `json:"min_ram_mb" validate:"gt=0"`
	MinStorageMB        int      `json:"min_storage_mb" validate:"gt=0"`

	// Downloads
	ISOFiles        []ISOFile `json:"iso_files" validate:"required,min=1,dive"`
	ISOSizesMB      []float64 `json:"iso_sizes_mb,omitempty"`
	SHA256Checksums []string  `json:"sha256_checksums,omitempty"`

	// Installation guidance
	InstallGuideMarkdown string        `json:"install_guide_markdown,omitempty"`
	InstallSteps         []InstallStep `json:"install_steps" validate:"dive"`

	OfficialDocsURL string   `json:"official_docs_url" validate:"required,url"`
	Screenshots     []string `json:"screenshots,omitempty" validate:"omitempty,dive,url"`

	License      string `json:"license" validate:"required"`
	PrivacyNotes string `json:"privacy_notes,omitempty"`

	// Metadata
	PopularityRank *int         `json:"popularity_rank,omitempty" validate:"omitempty,gt=0"`
	Tags           []string     `json:"tags"`
	LastVerified   string       `json:"last_verified" validate:"required,datetime=2006-01-02"`
	Maintainers    []Maintainer `json:"maintainers,omitempty" validate:"omitempty,dive"`
	Notes          string       `json:"notes,omitempty"`
}

// ISOFile is a downloadable installation image.
type ISOFile struct {
	ID       string  `json:"id" validate:"required"`
	URL      string  `json:"url" validate:"required,url"`
	Filename string  `json:"filename" validate:"required"`
	SizeMB   float64 `json:"size_mb" validate:"gt=0"`
	SHA256   string  `json:"sha256" validate:"required,len=64,hexadecimal"`
	Region   string  `json:"region,omitempty"`
	Protocol string  `json:"protocol,omitempty" validate:"omitempty,oneof=http https torrent ftp"`
	Hosted   bool    `json:"hosted"`
}

// InstallStep is a single structured installation step.
type InstallStep struct {
	ID               string        `json:"id" validate:"required"`
	Title            string        `json:"title" validate:"required"`
	DetailMD         string        `json:"detail_md"`
	EstimatedMinutes int           `json:"estimated_minutes" validate:"gt=0"`
	Risk             string        `json:"risk,omitempty" validate:"omitempty,oneof=low medium high"`
	Commands         []StepCommand `json:"commands,omitempty" validate:"omitempty,dive"`
}

// StepCommand is a shell command attached to an install step.
type StepCommand struct {
	Command     string `json:"command" validate:"required"`
	Platform    string `json:"platform" validate:"required,oneof=windows linux macos wsl"`
	Explanation string `json:"explanation"`
}

// Maintainer is a project maintainer entry.
type Maintainer struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role,omitempty"`
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
}

// HasTargetUser reports whether the distro lists the given audience.
func (d *Distro) HasTargetUser(t TargetUser) bool {
	for _, u := range d.TargetUsers {
		if u == t {
			return true
		}
	}
	return false
}

// Rank returns the popularity rank, or the given sentinel when unranked.
func (d *Distro) Rank(sentinel int) int {
	if d.PopularityRank == nil {
		return sentinel
	}
	return *d.PopularityRank
}

// ApplyDefaults fills optional fields with the values the catalog format implies.
func (d *Distro) ApplyDefaults() {
	for i := range d.ISOFiles {
		if d.ISOFiles[i].Protocol == "" {
			d.ISOFiles[i].Protocol = "https"
		}
	}
	for i := range d.InstallSteps {
		if d.InstallSteps[i].Risk == "" {
			d.InstallSteps[i].Risk = "low"
		}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.DesktopEnvironments == nil {
		d.DesktopEnvironments = []string{}
	}
}

// Validate validates the Distro using the validator.
func (d *Distro) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}
