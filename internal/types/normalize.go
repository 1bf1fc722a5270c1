package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Alias tables map every known spelling of a field to its canonical name.
var (
	titleKeys       = []string{"title", "name", "label", "subject"}
	siteKeys        = []string{"site", "clinic", "tjanstestalle", "workplace", "location"}
	descriptionKeys = []string{"description", "desc", "notes", "note", "summary", "text"}
	tagKeys         = []string{"tags", "type", "kind", "category"}
	milestoneKeys   = []string{"milestones", "goals", "delmal"}
	specialityKeys  = []string{"speciality", "specialty", "spec"}
	workplaceKeys   = []string{"workplace", "site", "tjanstestalle", "clinic"}
	personNumKeys   = []string{"personal_number", "personalNumber", "personnummer"}
	howVerifiedKeys = []string{"how_verified", "howVerified", "btAssessment", "controlHow", "howVerifiedText", "controlText"}
	recordKindKeys  = []string{"record", "record_type", "recordType"}
	kindValueKeys   = []string{"kind", "type"}
	useOtherKeys    = []string{"use_other_signer", "useOtherSigner", "someoneElseCertifies", "someoneElseSigns", "otherSigner"}
)

type rawDossier struct {
	Edition string           `json:"edition"`
	Profile map[string]any   `json:"profile"`
	Records []map[string]any `json:"records"`
	Presets PresetToggles    `json:"presets"`
	Prior   *Manifest        `json:"prior_manifest"`
	Order   []string         `json:"order"`
}

// ParseDossier decodes dossier input JSON and normalizes every profile and record alias.
func ParseDossier(data []byte) (*Dossier, error) {
	var raw rawDossier
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dossier JSON: %w", err)
	}

	d := &Dossier{
		Edition: strings.TrimSpace(raw.Edition),
		Profile: NormalizeProfile(raw.Profile),
		Presets: raw.Presets,
		Prior:   raw.Prior,
		Order:   raw.Order,
	}
	for _, r := range raw.Records {
		rec, ok := NormalizeRecord(r)
		if !ok {
			d.Skipped++
			continue
		}
		d.Records = append(d.Records, rec)
	}
	return d, nil
}

// NormalizeProfile maps a free-form profile object to the canonical Profile.
func NormalizeProfile(raw map[string]any) Profile {
	p := Profile{
		FirstName:        str(raw, "first_name", "firstName", "givenName", "given_name"),
		LastName:         str(raw, "last_name", "lastName", "surname", "familyName", "family_name"),
		PersonalNumber:   str(raw, personNumKeys...),
		Speciality:       str(raw, specialityKeys...),
		HomeClinic:       str(raw, "home_clinic", "homeClinic", "clinic", "workplace"),
		Address:          str(raw, "address"),
		PostalCode:       str(raw, "postal_code", "postalCode"),
		City:             str(raw, "city"),
		Mobile:           str(raw, "mobile", "phone"),
		Email:            str(raw, "email"),
		PhoneWork:        str(raw, "phone_work", "phoneWork"),
		MedDegreeCountry: str(raw, "med_degree_country", "medDegreeCountry"),
		MedDegreeDate:    str(raw, "med_degree_date", "medDegreeDate"),
	}

	if p.FirstName == "" || p.LastName == "" {
		first, last := SplitName(str(raw, "name", "full_name", "fullName"))
		if p.FirstName == "" {
			p.FirstName = first
		}
		if p.LastName == "" {
			p.LastName = last
		}
	}

	p.Supervisor = person(raw, "supervisor", "mainSupervisor", "main_supervisor")
	if p.Supervisor.Name == "" {
		p.Supervisor.Name = str(raw, "supervisorName", "supervisor_name")
	}
	if p.Supervisor.Speciality == "" {
		p.Supervisor.Speciality = str(raw, "supervisorSpeciality", "supervisorSpecialty", "supervisor_speciality")
	}
	if p.Supervisor.Workplace == "" {
		p.Supervisor.Workplace = str(raw, "supervisorWorkplace", "supervisorSite", "supervisor_workplace")
	}

	p.Manager = person(raw, "manager", "verksamhetschef", "head_of_department")
	if p.Manager.Name == "" {
		p.Manager.Name = str(raw, "managerName", "manager_name", "verksamhetschefNamn")
	}

	p.ExternalAssessor = person(raw, "external_assessor", "externalAssessor", "externAssessor")
	if p.ExternalAssessor.Name == "" {
		p.ExternalAssessor.Name = str(raw, "btExtAssessorName", "externalAssessorName")
	}
	if p.ExternalAssessor.Speciality == "" {
		p.ExternalAssessor.Speciality = str(raw, "btExtAssessorSpec", "btExtAssessorSpeciality", "btExtAssessorSpecialty")
	}
	if p.ExternalAssessor.Workplace == "" {
		p.ExternalAssessor.Workplace = str(raw, "btExtAssessorWorkplace", "btExtAssessorSite")
	}

	if list, ok := raw["foreign_licenses"].([]any); ok {
		p.ForeignLicenses = foreignLicenses(list)
	} else if list, ok := raw["foreignLicenses"].([]any); ok {
		p.ForeignLicenses = foreignLicenses(list)
	}
	return p
}

// SplitName splits a full name into first names and a final surname.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// NormalizeRecord maps a free-form record to one TrainingRecord variant.
// It reports false when the record matches no known shape.
func NormalizeRecord(raw map[string]any) (TrainingRecord, bool) {
	if raw == nil {
		return nil, false
	}
	switch detectKind(raw) {
	case KindRotation:
		return normalizeRotation(raw), true
	case KindCourse:
		return normalizeCourse(raw), true
	case KindSaved:
		return normalizeSaved(raw), true
	case KindPreset:
		return &PresetEntry{
			PresetKey:  str(raw, "preset_key", "presetKey"),
			FixedLabel: str(raw, "fixed_label", "fixedLabel", "label"),
			Date:       str(raw, "date"),
		}, true
	default:
		return nil, false
	}
}

func detectKind(raw map[string]any) RecordKind {
	switch strings.ToLower(str(raw, recordKindKeys...)) {
	case "rotation", "placement":
		return KindRotation
	case "course", "kurs":
		return KindCourse
	case "saved", "certificate", "saved_certificate":
		return KindSaved
	case "preset":
		return KindPreset
	case "":
	default:
		return ""
	}

	// kind and type double as tag aliases, so only the two record words
	// settle the kind; any other value is left to the tags.
	switch strings.ToLower(str(raw, kindValueKeys...)) {
	case "rotation", "placement", "placering":
		return KindRotation
	case "course", "kurs":
		return KindCourse
	}

	switch {
	case has(raw, "preset_key", "presetKey"):
		return KindPreset
	case has(raw, "key") && has(raw, milestoneKeys...):
		return KindSaved
	case has(raw, "certificate_date", "certificateDate", "certDate", "show_on_timeline", "showOnTimeline", "showInTimeline"):
		return KindCourse
	case has(raw, "start_date", "startDate"):
		return KindRotation
	default:
		return ""
	}
}

func normalizeRotation(raw map[string]any) *RotationRecord {
	r := &RotationRecord{
		ID:          str(raw, "id"),
		Title:       str(raw, titleKeys...),
		StartDate:   str(raw, "start_date", "startDate"),
		EndDate:     str(raw, "end_date", "endDate"),
		PercentFTE:  num(raw, "percent_fte", "percentFTE", "percent", "attendance"),
		Tags:        list(raw, tagKeys...),
		Site:        str(raw, siteKeys...),
		Description: str(raw, descriptionKeys...),
		HowVerified: str(raw, howVerifiedKeys...),
		Milestones:  list(raw, milestoneKeys...),
		Supervisor:  supervisor(raw),
		Signer:      signer(raw),
	}
	r.PrimaryCare, _ = boolean(raw, "primary_care", "primaryCare", "primarvard")
	r.AcuteCare, _ = boolean(raw, "acute_care", "acuteCare", "akutsjukvard")
	return r
}

func normalizeCourse(raw map[string]any) *CourseRecord {
	c := &CourseRecord{
		ID:              str(raw, "id"),
		Title:           str(raw, titleKeys...),
		CertificateDate: str(raw, "certificate_date", "certificateDate", "certDate"),
		StartDate:       str(raw, "start_date", "startDate"),
		EndDate:         str(raw, "end_date", "endDate"),
		Tags:            list(raw, tagKeys...),
		Site:            str(raw, siteKeys...),
		Description:     str(raw, descriptionKeys...),
		Milestones:      list(raw, milestoneKeys...),
		CourseLeader:    person(raw, "course_leader", "courseLeader"),
		Supervisor:      supervisor(raw),
		Signer:          signer(raw),
	}
	if c.CourseLeader.Name == "" {
		c.CourseLeader.Name = str(raw, "courseLeaderName", "course_leader_name", "kursledare")
	}
	if v, ok := boolean(raw, "show_on_timeline", "showOnTimeline", "showInTimeline"); ok {
		c.ShowOnTimeline = &v
	}
	return c
}

func normalizeSaved(raw map[string]any) *SavedSubCertificate {
	s := &SavedSubCertificate{
		Key:    str(raw, "key"),
		Label:  str(raw, titleKeys...),
		Date:   str(raw, "date", "savedAt", "saved_at"),
		Goals:  list(raw, milestoneKeys...),
		Signer: signer(raw),
	}
	s.Visible, _ = boolean(raw, "visible", "show", "include")
	if fields, ok := raw["fields"].(map[string]any); ok {
		s.Fields = make(map[string]string, len(fields))
		for k, v := range fields {
			if text := scalar(v); text != "" {
				s.Fields[k] = text
			}
		}
	}
	return s
}

func supervisor(raw map[string]any) Person {
	p := person(raw, "supervisor", "mainSupervisor", "main_supervisor")
	if p.Name == "" {
		p.Name = str(raw, "supervisorName", "supervisor_name", "supervisor")
	}
	if p.Speciality == "" {
		p.Speciality = str(raw, "supervisorSpeciality", "supervisorSpecialty", "supervisorSpec")
	}
	if p.Workplace == "" {
		p.Workplace = str(raw, "supervisorWorkplace", "supervisorSite", "supervisorTjanstestalle")
	}
	return p
}

func signer(raw map[string]any) Signer {
	s := Signer{Person: person(raw, "signer")}
	if obj, ok := raw["signer"].(map[string]any); ok {
		s.Type = strings.ToUpper(str(obj, "type", "role"))
		s.UseOther, _ = boolean(obj, "use_other", "useOther", "isOther", "other", "checked")
	}
	if v, ok := boolean(raw, useOtherKeys...); ok && v {
		s.UseOther = true
	}
	switch s.Type {
	case SignerOther, "ANNAN", "ÖVRIG":
		s.Type = SignerOther
		s.UseOther = true
	}
	return s
}

func person(raw map[string]any, keys ...string) Person {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case map[string]any:
			return Person{
				Name:           str(v, "name"),
				Speciality:     str(v, specialityKeys...),
				Workplace:      str(v, workplaceKeys...),
				PersonalNumber: str(v, personNumKeys...),
			}
		case string:
			if strings.TrimSpace(v) != "" {
				return Person{Name: strings.TrimSpace(v)}
			}
		}
	}
	return Person{}
}

func foreignLicenses(list []any) []ForeignLicense {
	out := make([]ForeignLicense, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, ForeignLicense{Country: str(obj, "country"), Date: str(obj, "date")})
		}
	}
	return out
}

func has(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return true
		}
	}
	return false
}

// str returns the first non-empty scalar value among keys.
func str(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if text := scalar(raw[key]); text != "" {
			return text
		}
	}
	return ""
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func num(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch t := raw[key].(type) {
		case float64:
			return t
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(t), "%"), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func boolean(raw map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		switch t := raw[key].(type) {
		case bool:
			return t, true
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

// list collects string values from every alias; comma-separated strings are split.
func list(raw map[string]any, keys ...string) []string {
	var out []string
	for _, key := range keys {
		switch t := raw[key].(type) {
		case []any:
			for _, item := range t {
				if text := scalar(item); text != "" {
					out = append(out, text)
				}
			}
		case string:
			for _, part := range strings.Split(t, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}
