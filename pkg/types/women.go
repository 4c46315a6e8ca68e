package types

// WomenInitiativeSlot names one of the three file inputs on the women's
// initiative intake form.
type WomenInitiativeSlot string

const (
	SlotIDFile       WomenInitiativeSlot = "idFile"
	SlotProfilePhoto WomenInitiativeSlot = "profilePhoto"
	SlotCertificates WomenInitiativeSlot = "certificates"
)

var AllWomenInitiativeSlots = []WomenInitiativeSlot{
	SlotIDFile,
	SlotProfilePhoto,
	SlotCertificates,
}

func (s WomenInitiativeSlot) Valid() bool {
	for _, v := range AllWomenInitiativeSlots {
		if s == v {
			return true
		}
	}
	return false
}

type WomenInitiativeForm struct {
	FullName         string `form:"fullName" validate:"required"`
	Email            string `form:"email" validate:"required,email"`
	Phone            string `form:"phone" validate:"required"`
	Region           string `form:"region"`
	BusinessName     string `form:"businessName"`
	BusinessSector   string `form:"businessSector" validate:"required"`
	YearsInOperation string `form:"yearsInOperation" validate:"omitempty,numeric"`
	Support          string `form:"support"`
	Message          string `form:"message"`
}

func (f *WomenInitiativeForm) Fields() []FormField {
	fields := make([]FormField, 0, 9)
	fields = appendIfSet(fields, "fullName", f.FullName)
	fields = appendIfSet(fields, "email", f.Email)
	fields = appendIfSet(fields, "phone", f.Phone)
	fields = appendIfSet(fields, "region", f.Region)
	fields = appendIfSet(fields, "businessName", f.BusinessName)
	fields = appendIfSet(fields, "businessSector", f.BusinessSector)
	fields = appendIfSet(fields, "yearsInOperation", f.YearsInOperation)
	fields = appendIfSet(fields, "support", f.Support)
	return appendIfSet(fields, "message", f.Message)
}
