package domain

import "time"

// ClientType distinguishes individuals from companies.
type ClientType string

const (
	ClientIndividual ClientType = "individual"
	ClientCompany    ClientType = "company"
)

// MaritalStatus values accepted for individual clients.
type MaritalStatus string

const (
	MaritalSingle     MaritalStatus = "single"
	MaritalMarried    MaritalStatus = "married"
	MaritalDivorced   MaritalStatus = "divorced"
	MaritalWidowed    MaritalStatus = "widowed"
	MaritalSeparated  MaritalStatus = "separated"
	MaritalCohabiting MaritalStatus = "cohabiting"
)

// Address is the structured street address stored as JSON.
type Address struct {
	PostalCode   string `json:"postal_code,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// Guardian holds the legal guardian of a minor client.
type Guardian struct {
	Name         string `json:"name,omitempty"`
	CPF          string `json:"cpf,omitempty"`
	RG           string `json:"rg,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// Client is a person or company served by the office.
type Client struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name       string     `json:"name"`
	CPFCNPJ    string     `json:"cpf_cnpj"`
	ClientType ClientType `json:"client_type"`

	BirthDate     string        `json:"birth_date,omitempty"`
	Nationality   string        `json:"nationality,omitempty"`
	BirthPlace    string        `json:"birth_place,omitempty"`
	MaritalStatus MaritalStatus `json:"marital_status,omitempty"`
	Profession    string        `json:"profession,omitempty"`
	MothersName   string        `json:"mothers_name,omitempty"`
	FathersName   string        `json:"fathers_name,omitempty"`

	Email          string `json:"email"`
	Phone          string `json:"phone"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`

	Documents map[string]string `json:"documents,omitempty"`
	Address   *Address          `json:"address,omitempty"`

	IsMinor  bool      `json:"is_minor"`
	Guardian *Guardian `json:"guardian,omitempty"`

	LGPDConsent     bool       `json:"lgpd_consent"`
	LGPDConsentDate *time.Time `json:"lgpd_consent_date,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
