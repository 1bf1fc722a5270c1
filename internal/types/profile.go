package types

// ForeignLicense is a medical licence issued outside Sweden.
type ForeignLicense struct {
	Country string `json:"country"`
	Date    string `json:"date"`
}

// Profile is the applicant as printed on every certificate.
type Profile struct {
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	PersonalNumber   string           `json:"personal_number"`
	Speciality       string           `json:"speciality"`
	HomeClinic       string           `json:"home_clinic,omitempty"`
	Address          string           `json:"address,omitempty"`
	PostalCode       string           `json:"postal_code,omitempty"`
	City             string           `json:"city,omitempty"`
	Mobile           string           `json:"mobile,omitempty"`
	Email            string           `json:"email,omitempty"`
	PhoneWork        string           `json:"phone_work,omitempty"`
	MedDegreeCountry string           `json:"med_degree_country,omitempty"`
	MedDegreeDate    string           `json:"med_degree_date,omitempty"`
	ForeignLicenses  []ForeignLicense `json:"foreign_licenses,omitempty"`
	Supervisor       Person           `json:"supervisor"`
	// Manager is the head of department (verksamhetschef).
	Manager          Person `json:"manager"`
	ExternalAssessor Person `json:"external_assessor"`
}

// Dossier is a parsed, alias-normalized dossier input.
type Dossier struct {
	Edition string           `json:"edition"`
	Profile Profile          `json:"profile"`
	Records []TrainingRecord `json:"-"`
	Presets PresetToggles    `json:"presets,omitempty"`
	Prior   *Manifest        `json:"prior_manifest,omitempty"`
	// Order is an explicit caller-supplied item order, applied after building.
	Order []string `json:"order,omitempty"`
	// Skipped counts raw records that matched no known record shape.
	Skipped int `json:"-"`
}
