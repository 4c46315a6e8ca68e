package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"investportal/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivedSubmission struct {
	fields map[string]string
	files  map[string][]byte
}

func submissionServer(t *testing.T, got *receivedSubmission) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/investments", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		got.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got.fields[k] = v[0]
		}
		got.files = map[string][]byte{}
		for k, fhs := range r.MultipartForm.File {
			f, err := fhs[0].Open()
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			f.Close()
			got.files[k] = data
		}

		attachments := map[string]string{}
		for k := range got.files {
			attachments[k] = "uploads/" + k
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"investment": map[string]any{
				"id":          "new-1",
				"type":        got.fields["type"],
				"name":        got.fields["name"],
				"email":       got.fields["email"],
				"phone":       got.fields["phone"],
				"status":      "pending",
				"attachments": attachments,
			},
		})
	}))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestSubmitApplication_InvestorWithoutFiles(t *testing.T) {
	var got receivedSubmission
	srv := submissionServer(t, &got)
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)

	form := &types.InvestorForm{
		Contact: types.Contact{
			Name:  "Jane",
			Email: "jane@x.com",
			Phone: "+251911111111",
		},
		Sector:         "Technology",
		InvestmentType: "Equity Investment",
	}

	app, err := client.SubmitApplication(context.Background(), form, nil)
	require.NoError(t, err)

	assert.Equal(t, types.ApplicationStatusPending, app.Status)
	assert.Empty(t, app.Attachments)
	assert.NotNil(t, app.Attachments)

	assert.Equal(t, []string{"email", "investmentType", "name", "phone", "sector", "type"}, keys(got.fields))
	assert.Equal(t, "investor", got.fields["type"])
	assert.Empty(t, got.files)
}

func TestSubmitApplication_SendsOnlyPopulatedFields(t *testing.T) {
	var got receivedSubmission
	srv := submissionServer(t, &got)
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)

	form := &types.SponsorshipForm{
		Contact: types.Contact{
			Name:     "Abebe",
			Email:    "abebe@example.com",
			Phone:    "+251900000000",
			Telegram: "@abebe",
		},
		Motto:         "Grow together",
		EffectiveDate: "2025-01-01",
	}
	files := []types.FilePart{
		{Name: string(types.SlotLogo), Upload: &types.Upload{Filename: "logo.png", ContentType: "image/png", Data: []byte("png")}},
	}

	app, err := client.SubmitApplication(context.Background(), form, files)
	require.NoError(t, err)

	assert.Equal(t, []string{"effectiveDate", "email", "motto", "name", "phone", "telegram", "type"}, keys(got.fields))
	assert.Equal(t, []byte("png"), got.files["logo"])
	assert.Equal(t, "uploads/logo", app.Attachments[types.SlotLogo])
}

func TestSubmitApplication_BackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	_, err := client.SubmitApplication(context.Background(), &types.StrategicPartnerForm{}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email already registered", UserMessage(err, "Submission failed"))
}

func TestUserMessage_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	_, err := client.Applications(context.Background(), Credentials{Token: "t"})
	require.Error(t, err)
	assert.Equal(t, "Failed to load applications", UserMessage(err, "Failed to load applications"))

	assert.Equal(t, "fallback", UserMessage(errors.New("dial tcp: refused"), "fallback"))
}

func TestApplications_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"a1","type":"investor","name":"Jane","status":"pending"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	apps, err := client.Applications(context.Background(), Credentials{Token: "secret-token"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "a1", apps[0].ID)
}

func TestUpdateApplicationStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/investments/abc123/status", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "approved", body["status"])
		assert.Equal(t, "Looks good", body["notes"])

		_, _ = w.Write([]byte(`{"id":"abc123","status":"approved","notes":"Looks good"}`))
	}))
	defer srv.Close()

	notes := "Looks good"
	client := NewClient(srv.URL, 5*time.Second, nil)
	app, err := client.UpdateApplicationStatus(context.Background(), Credentials{Token: "t"}, "abc123", StatusUpdate{
		Status: types.ApplicationStatusApproved,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusApproved, app.Status)
}

func TestUpdateApplicationStatus_OmitsEmptyNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "notes")
		_, _ = w.Write([]byte(`{"id":"x","status":"reviewed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	_, err := client.UpdateApplicationStatus(context.Background(), Credentials{}, "x", StatusUpdate{Status: types.ApplicationStatusReviewed})
	require.NoError(t, err)
}

func TestSubmitWomenInitiative(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/women-initiative", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(10<<20))
			assert.Equal(t, "Hana", r.FormValue("fullName"))
			assert.NotContains(t, r.MultipartForm.Value, "region")
			assert.Contains(t, r.MultipartForm.File, "idFile")
			w.WriteHeader(status)
		}))

		client := NewClient(srv.URL, 5*time.Second, nil)
		err := client.SubmitWomenInitiative(context.Background(), &types.WomenInitiativeForm{
			FullName:       "Hana",
			Email:          "hana@example.com",
			Phone:          "+251922222222",
			BusinessSector: "Agriculture",
		}, []types.FilePart{{Name: "idFile", Upload: &types.Upload{Filename: "id.jpg", Data: []byte("jpg")}}})
		assert.NoError(t, err)
		srv.Close()
	}
}

func TestBookingEndpoints(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"id":"b1","status":"pending","service":{"name":"Consulting","price":100}}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := Credentials{Token: "t"}
	client := NewClient(srv.URL, 5*time.Second, nil)

	bookings, err := client.Bookings(ctx, creds)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Consulting", bookings[0].Service.Name)

	require.NoError(t, client.UpdateBooking(ctx, creds, "b1", types.BookingUpdate{Date: "2025-03-01", Note: "later"}))
	require.NoError(t, client.CancelBooking(ctx, creds, "b1"))
	require.NoError(t, client.DeleteBooking(ctx, creds, "b1"))

	assert.Equal(t, []string{
		"GET /bookings/my",
		"PUT /bookings/b1",
		"PATCH /bookings/b1/cancel",
		"DELETE /bookings/b1",
	}, calls)
}
