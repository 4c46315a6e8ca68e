package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"investportal/internal/forms"
	"investportal/pkg/types"

	"github.com/sirupsen/logrus"
)

// Submitter is the part of the API client used to send fixture applications.
type Submitter interface {
	SubmitApplication(ctx context.Context, form types.ApplicationForm, files []types.FilePart) (*types.Application, error)
}

type fakeApplicant struct {
	Name        string
	Email       string
	Phone       string
	CompanyName string
}

var fakeApplicants = []fakeApplicant{
	{Name: "Ava Williams", Email: "ava.williams+seed1@example.com", Phone: "+255700000001", CompanyName: "Williams Agro Ltd"},
	{Name: "Liam Johnson", Email: "liam.johnson+seed2@example.com", Phone: "+255700000002", CompanyName: "Johnson Capital"},
	{Name: "Noah Brown", Email: "noah.brown+seed3@example.com", Phone: "+255700000003"},
	{Name: "Mia Davis", Email: "mia.davis+seed4@example.com", Phone: "+255700000004", CompanyName: "Davis Health"},
	{Name: "Elijah Garcia", Email: "elijah.garcia+seed5@example.com", Phone: "+255700000005", CompanyName: "Garcia Solar"},
	{Name: "Olivia Miller", Email: "olivia.miller+seed6@example.com", Phone: "+255700000006"},
	{Name: "Ethan Moore", Email: "ethan.moore+seed7@example.com", Phone: "+255700000007", CompanyName: "Moore Logistics"},
	{Name: "Sophia Taylor", Email: "sophia.taylor+seed8@example.com", Phone: "+255700000008", CompanyName: "Taylor Events"},
}

var fakeEnquiries = []string{
	"Looking for a co-investment opportunity in the region.",
	"Interested in a long-term partnership with local producers.",
	"Would like to discuss sponsorship of the annual forum.",
	"Requesting details on the incentives available to foreign investors.",
	"Exploring a joint venture for processing and export.",
}

type weightedType struct {
	Type   types.ApplicationType
	Weight int
}

var weightedTypes = []weightedType{
	{Type: types.ApplicationTypeInvestor, Weight: 50},
	{Type: types.ApplicationTypeStrategicPartner, Weight: 30},
	{Type: types.ApplicationTypeSponsorship, Weight: 20},
}

// SeedFakeApplications submits count generated applications through the
// backend, exactly as the public form would. Every enquiry is prefixed with
// "[seed]" so the records are easy to find and remove.
func SeedFakeApplications(ctx context.Context, submitter Submitter, logger *logrus.Logger, rng *rand.Rand, count int) ([]*types.Application, error) {
	if count <= 0 {
		logger.Info("skipping fake applications seed because count <= 0")
		return nil, nil
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	created := make([]*types.Application, 0, count)
	for i := 0; i < count; i++ {
		form := fakeApplication(rng, pickWeightedType(rng))

		app, err := submitter.SubmitApplication(ctx, form, fakeAttachments(rng, form.Kind()))
		if err != nil {
			return created, fmt.Errorf("failed to submit fake application %d: %w", i+1, err)
		}

		logger.WithFields(logrus.Fields{
			"id":   app.ID,
			"type": app.Type,
			"name": app.Name,
		}).Debug("seeded application")

		created = append(created, app)
	}

	logger.WithField("count", len(created)).Info("fake applications seeded")
	return created, nil
}

func fakeApplication(rng *rand.Rand, kind types.ApplicationType) types.ApplicationForm {
	applicant := fakeApplicants[rng.Intn(len(fakeApplicants))]

	contact := types.Contact{
		Name:        applicant.Name,
		Email:       applicant.Email,
		Phone:       applicant.Phone,
		CompanyName: applicant.CompanyName,
		Enquiries:   "[seed] " + fakeEnquiries[rng.Intn(len(fakeEnquiries))],
	}
	if rng.Intn(100) < 40 {
		contact.WhatsApp = applicant.Phone
	}

	sector := forms.Sectors[rng.Intn(len(forms.Sectors))]

	switch kind {
	case types.ApplicationTypeStrategicPartner:
		return &types.StrategicPartnerForm{Contact: contact, Sector: sector}
	case types.ApplicationTypeSponsorship:
		effective := time.Now().AddDate(0, rng.Intn(3), 0)
		return &types.SponsorshipForm{
			Contact:         contact,
			Motto:           "Growing together",
			SpecialPackages: "Gold package",
			EffectiveDate:   effective.Format("2006-01-02"),
			ExpiryDate:      effective.AddDate(1, 0, 0).Format("2006-01-02"),
		}
	default:
		return &types.InvestorForm{
			Contact:        contact,
			Sector:         sector,
			InvestmentType: forms.InvestmentTypes[rng.Intn(len(forms.InvestmentTypes))],
		}
	}
}

// fakeAttachments returns a small text document for roughly half of the
// slots the type accepts.
func fakeAttachments(rng *rand.Rand, kind types.ApplicationType) []types.FilePart {
	variant, ok := forms.VariantFor(kind)
	if !ok {
		return nil
	}

	var parts []types.FilePart
	for _, a := range variant.Attachments {
		if rng.Intn(2) == 0 {
			continue
		}

		data := []byte(fmt.Sprintf("[seed] %s\n", a.Label))
		parts = append(parts, types.FilePart{
			Name: string(a.Slot),
			Upload: &types.Upload{
				Filename:    strings.ToLower(string(a.Slot)) + ".txt",
				ContentType: "text/plain",
				Size:        int64(len(data)),
				Data:        data,
			},
		})
	}
	return parts
}

func pickWeightedType(rng *rand.Rand) types.ApplicationType {
	total := 0
	for _, item := range weightedTypes {
		total += item.Weight
	}

	if total == 0 {
		return types.ApplicationTypeInvestor
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range weightedTypes {
		running += item.Weight
		if roll < running {
			return item.Type
		}
	}

	return types.ApplicationTypeInvestor
}
