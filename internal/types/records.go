// Package types provides type definitions for structured data used throughout the dossier builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RecordKind discriminates the TrainingRecord union.
type RecordKind string

const (
	KindRotation RecordKind = "rotation"
	KindCourse   RecordKind = "course"
	KindSaved    RecordKind = "saved"
	KindPreset   RecordKind = "preset"
)

// TrainingRecord is one source record feeding the manifest. It is implemented by
// *RotationRecord, *CourseRecord, *SavedSubCertificate and *PresetEntry.
type TrainingRecord interface {
	RecordKind() RecordKind
	RecordID() string
}

// Person is a supervisor, course leader or other named certifier.
type Person struct {
	Name           string `json:"name,omitempty"`
	Speciality     string `json:"speciality,omitempty"`
	Workplace      string `json:"workplace,omitempty"`
	PersonalNumber string `json:"personal_number,omitempty"`
}

// Empty reports whether no identifying field is set.
func (p Person) Empty() bool {
	return p.Name == "" && p.Speciality == "" && p.Workplace == ""
}

// Signer types recognised on course and rotation certificates.
const (
	SignerCourseLeader = "KURSLEDARE"
	SignerSupervisor   = "HANDLEDARE"
	SignerOther        = "OTHER"
)

// Signer is the person issuing a certificate when it is not the default signer.
type Signer struct {
	Type     string `json:"type,omitempty"`
	UseOther bool   `json:"use_other,omitempty"`
	Person
}

// RotationRecord is a clinical rotation (placement), auskultation or project period.
type RotationRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	PercentFTE  float64  `json:"percent_fte,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Site        string   `json:"site,omitempty"`
	Description string   `json:"description,omitempty"`
	HowVerified string   `json:"how_verified,omitempty"`
	Milestones  []string `json:"milestones,omitempty"`
	// PrimaryCare and AcuteCare mark base training service in primary care
	// and in acute care, listed separately on the completion certificate.
	PrimaryCare bool   `json:"primary_care,omitempty"`
	AcuteCare   bool   `json:"acute_care,omitempty"`
	Supervisor  Person `json:"supervisor"`
	Signer      Signer `json:"signer"`
}

func (r *RotationRecord) RecordKind() RecordKind { return KindRotation }
func (r *RotationRecord) RecordID() string       { return r.ID }

// CourseRecord is a course with an optional certificate date.
type CourseRecord struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	CertificateDate string   `json:"certificate_date,omitempty"`
	StartDate       string   `json:"start_date,omitempty"`
	EndDate         string   `json:"end_date,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Site            string   `json:"site,omitempty"`
	Description     string   `json:"description,omitempty"`
	Milestones      []string `json:"milestones,omitempty"`
	ShowOnTimeline  *bool    `json:"show_on_timeline,omitempty"`
	CourseLeader    Person   `json:"course_leader"`
	Supervisor      Person   `json:"supervisor"`
	Signer          Signer   `json:"signer"`
}

func (r *CourseRecord) RecordKind() RecordKind { return KindCourse }
func (r *CourseRecord) RecordID() string       { return r.ID }

// SavedSubCertificate is a previously prepared certificate the user may attach.
type SavedSubCertificate struct {
	Key     string            `json:"key"`
	Label   string            `json:"label,omitempty"`
	Date    string            `json:"date,omitempty"`
	Goals   []string          `json:"goals,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Signer  Signer            `json:"signer"`
	Visible bool              `json:"visible"`
}

func (r *SavedSubCertificate) RecordKind() RecordKind { return KindSaved }
func (r *SavedSubCertificate) RecordID() string       { return r.Key }

// PresetEntry is a boilerplate attachment produced from an active preset toggle.
type PresetEntry struct {
	PresetKey  string `json:"preset_key"`
	FixedLabel string `json:"fixed_label"`
	Date       string `json:"date,omitempty"`
	Signer     Signer `json:"signer"`
}

func (r *PresetEntry) RecordKind() RecordKind { return KindPreset }
func (r *PresetEntry) RecordID() string       { return r.PresetKey }

// PresetToggle is the caller's state for one preset key.
type PresetToggle struct {
	Enabled bool   `json:"enabled"`
	Date    string `json:"date,omitempty"`
	Signer  Signer `json:"signer"`
}

// PresetToggles maps preset keys to their toggle state.
type PresetToggles map[string]PresetToggle
