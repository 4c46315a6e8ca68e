package types

import (
	"errors"
	"time"
)

var ErrUnknownApplicationType = errors.New("unknown application type")

type ApplicationType string

const (
	ApplicationTypeInvestor         ApplicationType = "investor"
	ApplicationTypeStrategicPartner ApplicationType = "strategic-partner"
	ApplicationTypeSponsorship      ApplicationType = "sponsorship"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var AllApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range AllApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// AttachmentSlot names one of the fixed places a file can be attached to an
// application. The vocabulary is closed.
type AttachmentSlot string

const (
	SlotIDPassport        AttachmentSlot = "idPassport"
	SlotLicense           AttachmentSlot = "license"
	SlotTradeRegistration AttachmentSlot = "tradeRegistration"
	SlotBusinessProposal  AttachmentSlot = "businessProposal"
	SlotBusinessPlan      AttachmentSlot = "businessPlan"
	SlotLogo              AttachmentSlot = "logo"
	SlotMOUSigned         AttachmentSlot = "mouSigned"
	SlotContractSigned    AttachmentSlot = "contractSigned"
)

var AllAttachmentSlots = []AttachmentSlot{
	SlotIDPassport,
	SlotLicense,
	SlotTradeRegistration,
	SlotBusinessProposal,
	SlotBusinessPlan,
	SlotLogo,
	SlotMOUSigned,
	SlotContractSigned,
}

func (s AttachmentSlot) Valid() bool {
	for _, v := range AllAttachmentSlots {
		if s == v {
			return true
		}
	}
	return false
}

// Application is the record the backend returns for a submitted
// investment, partnership or sponsorship request.
type Application struct {
	ID              string                    `json:"id"`
	Type            ApplicationType           `json:"type"`
	Name            string                    `json:"name"`
	Email           string                    `json:"email"`
	Phone           string                    `json:"phone"`
	WhatsApp        *string                   `json:"whatsapp,omitempty"`
	Telegram        *string                   `json:"telegram,omitempty"`
	CompanyName     *string                   `json:"companyName,omitempty"`
	Sector          *string                   `json:"sector,omitempty"`
	InvestmentType  *string                   `json:"investmentType,omitempty"`
	Motto           *string                   `json:"motto,omitempty"`
	SpecialPackages *string                   `json:"specialPackages,omitempty"`
	Messages        *string                   `json:"messages,omitempty"`
	EffectiveDate   *string                   `json:"effectiveDate,omitempty"`
	ExpiryDate      *string                   `json:"expiryDate,omitempty"`
	Enquiries       *string                   `json:"enquiries,omitempty"`
	Attachments     map[AttachmentSlot]string `json:"attachments"`
	Status          ApplicationStatus         `json:"status"`
	Notes           *string                   `json:"notes,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// ApplicationForm is a submission for one application type. Each variant
// carries only the fields that belong to its type.
type ApplicationForm interface {
	Kind() ApplicationType
	ContactDetails() *Contact
	// Fields returns the populated text fields in a stable order, including
	// the type discriminator. Empty optional fields are left out.
	Fields() []FormField
}

// Contact holds the fields every application type shares.
type Contact struct {
	Name        string `form:"name" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Phone       string `form:"phone" validate:"required"`
	WhatsApp    string `form:"whatsapp"`
	Telegram    string `form:"telegram"`
	CompanyName string `form:"companyName"`
	Enquiries   string `form:"enquiries"`
}

func (c *Contact) ContactDetails() *Contact {
	return c
}

func (c *Contact) fields(kind ApplicationType) []FormField {
	fields := []FormField{{Name: "type", Value: string(kind)}}
	fields = appendIfSet(fields, "name", c.Name)
	fields = appendIfSet(fields, "email", c.Email)
	fields = appendIfSet(fields, "phone", c.Phone)
	fields = appendIfSet(fields, "whatsapp", c.WhatsApp)
	fields = appendIfSet(fields, "telegram", c.Telegram)
	fields = appendIfSet(fields, "companyName", c.CompanyName)
	return fields
}

type InvestorForm struct {
	Contact
	Sector         string `form:"sector" validate:"required"`
	InvestmentType string `form:"investmentType" validate:"required"`
}

func (f *InvestorForm) Kind() ApplicationType { return ApplicationTypeInvestor }

func (f *InvestorForm) Fields() []FormField {
	fields := f.Contact.fields(f.Kind())
	fields = appendIfSet(fields, "sector", f.Sector)
	fields = appendIfSet(fields, "investmentType", f.InvestmentType)
	return appendIfSet(fields, "enquiries", f.Enquiries)
}

type StrategicPartnerForm struct {
	Contact
	Sector string `form:"sector" validate:"required"`
}

func (f *StrategicPartnerForm) Kind() ApplicationType { return ApplicationTypeStrategicPartner }

func (f *StrategicPartnerForm) Fields() []FormField {
	fields := f.Contact.fields(f.Kind())
	fields = appendIfSet(fields, "sector", f.Sector)
	return appendIfSet(fields, "enquiries", f.Enquiries)
}

type SponsorshipForm struct {
	Contact
	Motto           string `form:"motto"`
	SpecialPackages string `form:"specialPackages"`
	Messages        string `form:"messages"`
	EffectiveDate   string `form:"effectiveDate" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate      string `form:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
}

func (f *SponsorshipForm) Kind() ApplicationType { return ApplicationTypeSponsorship }

func (f *SponsorshipForm) Fields() []FormField {
	fields := f.Contact.fields(f.Kind())
	fields = appendIfSet(fields, "motto", f.Motto)
	fields = appendIfSet(fields, "specialPackages", f.SpecialPackages)
	fields = appendIfSet(fields, "messages", f.Messages)
	fields = appendIfSet(fields, "effectiveDate", f.EffectiveDate)
	fields = appendIfSet(fields, "expiryDate", f.ExpiryDate)
	return appendIfSet(fields, "enquiries", f.Enquiries)
}

// NewApplicationForm returns an empty variant for the given type.
func NewApplicationForm(kind ApplicationType) (ApplicationForm, error) {
	switch kind {
	case ApplicationTypeInvestor:
		return new(InvestorForm), nil
	case ApplicationTypeStrategicPartner:
		return new(StrategicPartnerForm), nil
	case ApplicationTypeSponsorship:
		return new(SponsorshipForm), nil
	}
	return nil, ErrUnknownApplicationType
}
