package forms

import (
	"investportal/pkg/types"
)

const (
	// InvestmentMaxFileBytes caps each attachment on an application.
	InvestmentMaxFileBytes int64 = 10 << 20
	// WomenInitiativeMaxFileBytes caps each file on the women's initiative form.
	WomenInitiativeMaxFileBytes int64 = 5 << 20
)

type InputKind string

const (
	InputText     InputKind = "text"
	InputEmail    InputKind = "email"
	InputTel      InputKind = "tel"
	InputDate     InputKind = "date"
	InputTextarea InputKind = "textarea"
	InputSelect   InputKind = "select"
)

// FieldSpec describes one input the form renders for a variant.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     InputKind
	Required bool
	Options  []string
}

// AttachmentSpec describes one file input the form renders for a variant.
type AttachmentSpec struct {
	Slot  types.AttachmentSlot
	Label string
}

// Variant is the field set presented for one application type.
type Variant struct {
	Type         types.ApplicationType
	Label        string
	Fields       []FieldSpec
	Attachments  []AttachmentSpec
	MaxFileBytes int64
}

// Accepts reports whether the slot belongs to this variant.
func (v *Variant) Accepts(slot types.AttachmentSlot) bool {
	for _, a := range v.Attachments {
		if a.Slot == slot {
			return true
		}
	}
	return false
}

// Required returns the names of the fields that must be filled in.
func (v *Variant) Required() []string {
	out := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

var Sectors = []string{
	"Technology",
	"Agriculture",
	"Manufacturing",
	"Healthcare",
	"Energy",
	"Tourism & Hospitality",
	"Finance",
	"Real Estate",
	"Other",
}

var InvestmentTypes = []string{
	"Equity Investment",
	"Debt Financing",
	"Joint Venture",
	"Grant",
	"Other",
}

var leadingFields = []FieldSpec{
	{Name: "name", Label: "Full name", Kind: InputText, Required: true},
	{Name: "email", Label: "Email", Kind: InputEmail, Required: true},
	{Name: "phone", Label: "Phone", Kind: InputTel, Required: true},
	{Name: "whatsapp", Label: "WhatsApp", Kind: InputTel},
	{Name: "telegram", Label: "Telegram", Kind: InputText},
	{Name: "companyName", Label: "Company name", Kind: InputText},
}

var enquiriesField = FieldSpec{Name: "enquiries", Label: "Enquiries", Kind: InputTextarea}

func withCommon(specific ...FieldSpec) []FieldSpec {
	fields := make([]FieldSpec, 0, len(leadingFields)+len(specific)+1)
	fields = append(fields, leadingFields...)
	fields = append(fields, specific...)
	return append(fields, enquiriesField)
}

var Variants = map[types.ApplicationType]*Variant{
	types.ApplicationTypeInvestor: {
		Type:  types.ApplicationTypeInvestor,
		Label: "Investor",
		Fields: withCommon(
			FieldSpec{Name: "sector", Label: "Sector", Kind: InputSelect, Required: true, Options: Sectors},
			FieldSpec{Name: "investmentType", Label: "Investment type", Kind: InputSelect, Required: true, Options: InvestmentTypes},
		),
		Attachments: []AttachmentSpec{
			{Slot: types.SlotIDPassport, Label: "ID / Passport"},
			{Slot: types.SlotLicense, Label: "Business license"},
			{Slot: types.SlotTradeRegistration, Label: "Trade registration"},
		},
		MaxFileBytes: InvestmentMaxFileBytes,
	},
	types.ApplicationTypeStrategicPartner: {
		Type:  types.ApplicationTypeStrategicPartner,
		Label: "Strategic partner",
		Fields: withCommon(
			FieldSpec{Name: "sector", Label: "Sector", Kind: InputSelect, Required: true, Options: Sectors},
		),
		Attachments: []AttachmentSpec{
			{Slot: types.SlotBusinessProposal, Label: "Business proposal"},
			{Slot: types.SlotBusinessPlan, Label: "Business plan"},
			{Slot: types.SlotLogo, Label: "Logo"},
			{Slot: types.SlotMOUSigned, Label: "Signed MOU"},
			{Slot: types.SlotContractSigned, Label: "Signed contract"},
		},
		MaxFileBytes: InvestmentMaxFileBytes,
	},
	types.ApplicationTypeSponsorship: {
		Type:  types.ApplicationTypeSponsorship,
		Label: "Sponsorship",
		Fields: withCommon(
			FieldSpec{Name: "motto", Label: "Motto", Kind: InputText},
			FieldSpec{Name: "specialPackages", Label: "Special packages", Kind: InputTextarea},
			FieldSpec{Name: "messages", Label: "Messages", Kind: InputTextarea},
			FieldSpec{Name: "effectiveDate", Label: "Effective date", Kind: InputDate},
			FieldSpec{Name: "expiryDate", Label: "Expiry date", Kind: InputDate},
		),
		Attachments: []AttachmentSpec{
			{Slot: types.SlotLogo, Label: "Logo"},
			{Slot: types.SlotMOUSigned, Label: "Signed MOU"},
			{Slot: types.SlotContractSigned, Label: "Signed contract"},
		},
		MaxFileBytes: InvestmentMaxFileBytes,
	},
}

// VariantOrder is the order the type selector lists the variants in.
var VariantOrder = []types.ApplicationType{
	types.ApplicationTypeInvestor,
	types.ApplicationTypeStrategicPartner,
	types.ApplicationTypeSponsorship,
}

// VariantFor returns the field set for the type, or false when the type is
// not one of the known variants.
func VariantFor(kind types.ApplicationType) (*Variant, bool) {
	v, ok := Variants[kind]
	return v, ok
}

var WomenInitiativeFields = []FieldSpec{
	{Name: "fullName", Label: "Full name", Kind: InputText, Required: true},
	{Name: "email", Label: "Email", Kind: InputEmail, Required: true},
	{Name: "phone", Label: "Phone", Kind: InputTel, Required: true},
	{Name: "region", Label: "Region", Kind: InputText},
	{Name: "businessName", Label: "Business name", Kind: InputText},
	{Name: "businessSector", Label: "Business sector", Kind: InputSelect, Required: true, Options: Sectors},
	{Name: "yearsInOperation", Label: "Years in operation", Kind: InputText},
	{Name: "support", Label: "Support needed", Kind: InputTextarea},
	{Name: "message", Label: "Message", Kind: InputTextarea},
}

type WomenInitiativeAttachmentSpec struct {
	Slot  types.WomenInitiativeSlot
	Label string
}

var WomenInitiativeAttachments = []WomenInitiativeAttachmentSpec{
	{Slot: types.SlotIDFile, Label: "ID document"},
	{Slot: types.SlotProfilePhoto, Label: "Profile photo"},
	{Slot: types.SlotCertificates, Label: "Certificates"},
}
