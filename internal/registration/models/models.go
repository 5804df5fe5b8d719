package models

import "time"

// PaymentStatus is the admin-driven payment state of a registration.
// All three states are mutually reachable by repeated admin action.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusApproved PaymentStatus = "approved"
	StatusRejected PaymentStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ShirtSizes is the fixed size enumeration offered on the form.
var ShirtSizes = []string{"PP", "P", "M", "G", "GG", "XG"}

// ValidShirtSize reports whether size is in the fixed enumeration.
func ValidShirtSize(size string) bool {
	for _, s := range ShirtSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ReceiptRefPrefix marks a receiptUrl that must be resolved through the
// receipt store instead of being fetched directly.
const ReceiptRefPrefix = "kv://receipt/"

// Registration is the summary record the admin surface works with. It
// is a lossy projection of the FullRegistration kept for listing.
//
// WantsShirt is deliberately a string: only the literals "true" and
// "false" are meaningful on the wire, and anything else reads as
// "false".
type Registration struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Age           string        `json:"age,omitempty"`
	Church        string        `json:"church,omitempty"`
	City          string        `json:"city,omitempty"`
	WantsShirt    string        `json:"wantsShirt"`
	ShirtSize     string        `json:"shirtSize,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	ReceiptURL    string        `json:"receiptUrl,omitempty"`
	CreatedAt     string        `json:"createdAt"`
}

// CreatedAtTime parses CreatedAt, returning the zero time when the
// stored value is unparseable so sorting stays total.
func (r *Registration) CreatedAtTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Submission is the registration payload as submitted by the public
// form. Wire names follow the form field names.
type Submission struct {
	// Responsible party
	ResponsibleFirstName string `json:"nomeResponsavel"`
	ResponsibleLastName  string `json:"sobrenomeResponsavel"`
	ResponsibleCPF       string `json:"cpfResponsavel"`
	ResponsibleBirthDate string `json:"dataNascimentoResponsavel"`
	ResponsibleGender    string `json:"generoResponsavel"`
	ResponsibleZip       string `json:"cepResponsavel"`
	ResponsibleNumber    string `json:"numeroResponsavel"`
	ResponsibleCity      string `json:"cidadeResponsavel"`
	ResponsibleState     string `json:"estadoResponsavel"`
	ResponsiblePhone     string `json:"celularResponsavel"`
	ResponsibleEmail     string `json:"emailResponsavel"`

	// Camper
	CamperName         string `json:"nomeAcampante"`
	CamperGender       string `json:"generoAcampante"`
	CamperAge          string `json:"idadeAcampante"`
	CamperBirthDate    string `json:"dataNascimentoAcampante"`
	LegalGuardianName  string `json:"nomeResponsavelLegal"`
	LegalGuardianPhone string `json:"celularResponsavelLegal"`
	Notes              string `json:"observacoes,omitempty"`

	// Optional second camper
	SecondCamperName         string `json:"nomeSegundoAcampante,omitempty"`
	SecondCamperGender       string `json:"generoSegundoAcampante,omitempty"`
	SecondCamperAge          string `json:"idadeSegundoAcampante,omitempty"`
	SecondCamperBirthDate    string `json:"dataNascimentoSegundoAcampante,omitempty"`
	SecondLegalGuardianName  string `json:"nomeResponsavelLegalSegundo,omitempty"`
	SecondLegalGuardianPhone string `json:"celularResponsavelLegalSegundo,omitempty"`

	// Shirt
	WantsShirt bool   `json:"queroCamisa"`
	ShirtSize  string `json:"tamanhoCamisa,omitempty"`
}

// FullRegistration is the complete record persisted at submission time.
// It is never mutated and is the system of record for the personal data
// shown on the payment page.
type FullRegistration struct {
	Submission

	RegistrationFee int `json:"valorInscricao"`
	ShirtFee        int `json:"valorCamisa"`
	Total           int `json:"valorTotal"`

	CreatedAt string `json:"dataInscricao"`
	ID        string `json:"id"`
}

// Summary projects the admin listing record out of a full registration.
// Church is not collected by the current form and projects empty.
func (f *FullRegistration) Summary() *Registration {
	wantsShirt := "false"
	shirtSize := ""
	if f.WantsShirt {
		wantsShirt = "true"
		shirtSize = f.ShirtSize
	}
	return &Registration{
		ID:            f.ID,
		Name:          f.CamperName,
		Phone:         f.LegalGuardianPhone,
		Age:           f.CamperAge,
		City:          f.ResponsibleCity,
		WantsShirt:    wantsShirt,
		ShirtSize:     shirtSize,
		PaymentStatus: StatusPending,
		CreatedAt:     f.CreatedAt,
	}
}
