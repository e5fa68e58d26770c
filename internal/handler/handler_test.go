package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/auth"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/email"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/forms"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/queue"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/recaptcha"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/upload"
)

// call runs h against a fresh request and decodes a JSON body into out
// when out is non-nil.
func call(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string, out any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, h(c))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

// ---- tours ----

type fakeTourStore struct {
	tours    []model.Tour
	created  *model.Tour
	draftSet *bool
	CreateFn func(t *model.Tour) error
	DeleteFn func(id uint64, confirmed bool) error
}

func (f *fakeTourStore) ListPublished(context.Context) ([]model.Tour, error) {
	var out []model.Tour
	for _, t := range f.tours {
		if !t.IsDraft {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTourStore) ListAll(context.Context) ([]model.Tour, error) { return f.tours, nil }

func (f *fakeTourStore) GetBySlug(_ context.Context, slug string) (model.Tour, error) {
	for _, t := range f.tours {
		if t.Slug == slug {
			return t, nil
		}
	}
	return model.Tour{}, repository.ErrTourNotFound
}

func (f *fakeTourStore) GetByID(_ context.Context, id uint64) (model.Tour, error) {
	for _, t := range f.tours {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Tour{}, repository.ErrTourNotFound
}

func (f *fakeTourStore) Create(_ context.Context, t *model.Tour) error {
	if f.CreateFn != nil {
		if err := f.CreateFn(t); err != nil {
			return err
		}
	}
	t.ID = 100
	f.created = t
	return nil
}

func (f *fakeTourStore) Update(_ context.Context, id uint64, t *model.Tour) error {
	if _, err := f.GetByID(context.Background(), id); err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (f *fakeTourStore) SetDraft(_ context.Context, _ uint64, draft bool) error {
	f.draftSet = &draft
	return nil
}

func (f *fakeTourStore) Delete(_ context.Context, id uint64, confirmed bool) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(id, confirmed)
	}
	if !confirmed {
		return repository.ErrNotConfirmed
	}
	return nil
}

type fakeTourBookings struct {
	list []model.Booking
}

func (f fakeTourBookings) ListByTour(context.Context, uint64) ([]model.Booking, error) {
	return f.list, nil
}

func catalogTours() *fakeTourStore {
	return &fakeTourStore{tours: []model.Tour{
		{ID: 1, Slug: "char-dham", Name: "Char Dham", Cost: 45000, Duration: "12 Days", TotalCapacity: 50, Description: "Four **shrines**"},
		{ID: 2, Slug: "varanasi", Name: "Varanasi", Cost: 15000, Duration: "3 Days", TotalCapacity: 20},
		{ID: 3, Slug: "secret", Name: "Secret", Cost: 1000, IsDraft: true, TotalCapacity: 10},
	}}
}

func TestPublicListFilters(t *testing.T) {
	h := NewPublicTourHandler(catalogTours(), fakeTourBookings{})
	var out struct {
		Items    []model.Tour `json:"items"`
		Total    int          `json:"total"`
		Filtered int          `json:"filtered"`
	}
	rec := call(t, h.List, http.MethodGet, "/api/tours?price=budget", "", nil, &out)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, out.Total, "drafts are not listed")
	require.Len(t, out.Items, 1)
	assert.Equal(t, "varanasi", out.Items[0].Slug)
}

func TestPublicDetail(t *testing.T) {
	bookings := fakeTourBookings{list: []model.Booking{
		{Status: model.BookingConfirmed, NumberOfPeople: 42},
		{Status: model.BookingPending, NumberOfPeople: 5},
	}}
	h := NewPublicTourHandler(catalogTours(), bookings)

	var out struct {
		Slug            string `json:"slug"`
		DescriptionHTML string `json:"description_html"`
		Availability    struct {
			Remaining int    `json:"remaining"`
			Level     string `json:"level"`
			CanBook   bool   `json:"can_book"`
		} `json:"availability"`
	}
	rec := call(t, h.Detail, http.MethodGet, "/api/tours/char-dham", "", map[string]string{"slug": "char-dham"}, &out)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, out.DescriptionHTML, "<strong>shrines</strong>")
	assert.Equal(t, 8, out.Availability.Remaining)
	assert.True(t, out.Availability.CanBook)

	rec = call(t, h.Detail, http.MethodGet, "/api/tours/secret", "", map[string]string{"slug": "secret"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = call(t, h.Detail, http.MethodGet, "/api/tours/nope", "", map[string]string{"slug": "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminTourCreate(t *testing.T) {
	store := catalogTours()
	h := NewAdminTourHandler(store)

	rec := call(t, h.Create, http.MethodPost, "/api/admin/tours", `{"name":""}`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)

	rec = call(t, h.Create, http.MethodPost, "/api/admin/tours", `{"name":"Kailash Mansarovar Yatra","cost":"180000","highlights":"[\"Parikrama\"]","isDraft":true}`, nil, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "kailash-mansarovar-yatra", store.created.Slug)
	assert.Equal(t, int64(180000), store.created.Cost)
	assert.Equal(t, []string{"Parikrama"}, store.created.Highlights)
	assert.Equal(t, model.DefaultCapacity, store.created.TotalCapacity)

	store.CreateFn = func(*model.Tour) error { return repository.ErrDuplicate }
	rec = call(t, h.Create, http.MethodPost, "/api/admin/tours", `{"name":"Char Dham","slug":"char-dham"}`, nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h.Create, http.MethodPost, "/api/admin/tours", `{"name":"X","departure_date":"next spring"}`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "departure_date")
}

func TestAdminTourGetIsEditShaped(t *testing.T) {
	h := NewAdminTourHandler(catalogTours())
	var out model.Tour
	rec := call(t, h.Get, http.MethodGet, "/api/admin/tours/2", "", map[string]string{"id": "2"}, &out)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{""}, out.Highlights)
	require.Len(t, out.Itinerary, 1)

	rec = call(t, h.Get, http.MethodGet, "/api/admin/tours/x", "", map[string]string{"id": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminTourDraftToggle(t *testing.T) {
	store := catalogTours()
	h := NewAdminTourHandler(store)

	rec := call(t, h.Draft, http.MethodPatch, "/api/admin/tours/3/draft", "", map[string]string{"id": "3"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.draftSet)
	assert.False(t, *store.draftSet, "draft tour is published by a toggle")

	rec = call(t, h.Draft, http.MethodPatch, "/api/admin/tours/1/draft", `{"isDraft":true}`, map[string]string{"id": "1"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *store.draftSet)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	h := NewAdminTourHandler(catalogTours())
	rec := call(t, h.Delete, http.MethodDelete, "/api/admin/tours/1", "", map[string]string{"id": "1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirmation_required")

	rec = call(t, h.Delete, http.MethodDelete, "/api/admin/tours/1?confirm=true", "", map[string]string{"id": "1"}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// ---- forms ----

type fakeForms struct {
	BookingFn    func(forms.BookingRequest) (forms.BookingReceipt, error)
	NewsletterFn func(forms.NewsletterRequest) (forms.NewsletterReceipt, error)
	SendFn       func(email.Payload) error
}

func (f fakeForms) SubmitBooking(_ context.Context, r forms.BookingRequest) (forms.BookingReceipt, error) {
	return f.BookingFn(r)
}

func (f fakeForms) SubmitEnquiry(context.Context, forms.EnquiryRequest) (forms.Receipt, error) {
	return forms.Receipt{Stage: forms.StageDone}, nil
}

func (f fakeForms) SubmitContact(context.Context, forms.ContactRequest) (forms.Receipt, error) {
	return forms.Receipt{}, &forms.FlowError{Stage: forms.StageSubmitting, Kind: forms.KindRemote, Err: errors.New("500")}
}

func (f fakeForms) SubscribeNewsletter(_ context.Context, r forms.NewsletterRequest) (forms.NewsletterReceipt, error) {
	return f.NewsletterFn(r)
}

func (f fakeForms) SendEmail(_ context.Context, p email.Payload, _ string) error {
	return f.SendFn(p)
}

func TestBookingEndpoint(t *testing.T) {
	var got forms.BookingRequest
	h := NewFormHandler(fakeForms{BookingFn: func(r forms.BookingRequest) (forms.BookingReceipt, error) {
		got = r
		switch r.RecaptchaToken {
		case "":
			return forms.BookingReceipt{}, &forms.FlowError{Stage: forms.StageVerifying, Kind: forms.KindVerification, Err: recaptcha.ErrMissingToken}
		case "bad-field":
			return forms.BookingReceipt{}, &forms.FlowError{Stage: forms.StageValidating, Kind: forms.KindInvalid, Field: "email", Err: forms.ValidationError{Field: "email", Msg: "is required"}}
		}
		return forms.BookingReceipt{Booking: model.PublicBooking{ID: 5, Status: model.BookingPending}, EmailSent: false, EmailError: "notification email could not be sent"}, nil
	}})

	rec := call(t, h.Booking, http.MethodPost, "/api/bookings", `{"tour_id":1,"number_of_people":"2","recaptchaToken":"ok"}`, nil, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, "email failure still reports success")
	assert.Contains(t, rec.Body.String(), `"email_sent":false`)
	assert.Equal(t, model.Count(2), got.NumberOfPeople)

	rec = call(t, h.Booking, http.MethodPost, "/api/bookings", `{"tour_id":1}`, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification_required")

	rec = call(t, h.Booking, http.MethodPost, "/api/bookings", `{"recaptchaToken":"bad-field"}`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
}

func TestNewsletterEndpoint(t *testing.T) {
	h := NewFormHandler(fakeForms{NewsletterFn: func(r forms.NewsletterRequest) (forms.NewsletterReceipt, error) {
		return forms.NewsletterReceipt{Email: r.Email, AlreadySubscribed: r.Email == "old@example.com"}, nil
	}})
	rec := call(t, h.Newsletter, http.MethodPost, "/api/newsletter", `{"email":"old@example.com"}`, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"already_subscribed":true`)

	rec = call(t, h.Newsletter, http.MethodPost, "/api/newsletter", `{"email":"new@example.com"}`, nil, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestContactRemoteFailureIs502(t *testing.T) {
	h := NewFormHandler(fakeForms{})
	rec := call(t, h.Contact, http.MethodPost, "/api/contact", `{"name":"A"}`, nil, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSendEmailContract(t *testing.T) {
	h := NewFormHandler(fakeForms{SendFn: func(p email.Payload) error {
		if p.Type == email.KindContact {
			return nil
		}
		return &forms.FlowError{Stage: forms.StageSubmitting, Kind: forms.KindRemote, Err: errors.New("resend 500")}
	}})
	var out sendEmailResp
	rec := call(t, h.SendEmail, http.MethodPost, "/api/send-email", `{"type":"contact","name":"A","email":"a@example.com"}`, nil, &out)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, out.Success)

	out = sendEmailResp{}
	rec = call(t, h.SendEmail, http.MethodPost, "/api/send-email", `{"type":"enquiry","name":"A","email":"a@example.com"}`, nil, &out)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
}

// ---- bookings ----

type fakeBookingStore struct {
	bookings map[uint64]model.BookingWithTour
	updates  []repository.BookingUpdate
	statuses []string
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (model.BookingWithTour, error) {
	b, ok := f.bookings[id]
	if !ok {
		return b, repository.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingStore) ListWithTour(context.Context) ([]model.BookingWithTour, error) {
	var out []model.BookingWithTour
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, id uint64, status, _ string) error {
	b := f.bookings[id]
	b.Status = status
	f.bookings[id] = b
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeBookingStore) Update(_ context.Context, id uint64, u repository.BookingUpdate, _ string) error {
	if _, ok := f.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	f.updates = append(f.updates, u)
	return nil
}

func (f *fakeBookingStore) Delete(_ context.Context, _ uint64, confirmed bool) error {
	if !confirmed {
		return repository.ErrNotConfirmed
	}
	return nil
}

type fakePayments struct {
	rows []model.BookingPayment
}

func (f *fakePayments) Create(_ context.Context, p *model.BookingPayment) error {
	p.ID = uint64(len(f.rows) + 1)
	p.CreatedAt = time.Now()
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakePayments) ListByBooking(_ context.Context, id uint64) ([]model.BookingPayment, error) {
	var out []model.BookingPayment
	for _, p := range f.rows {
		if p.BookingID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) SumByBooking(_ context.Context, id uint64) (float64, error) {
	var sum float64
	for _, p := range f.rows {
		if p.BookingID == id {
			sum += p.Amount
		}
	}
	return sum, nil
}

type recordingPublisher struct {
	events []queue.BookingEvent
}

func (r *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func bookingFixture() *fakeBookingStore {
	name := "Char Dham"
	cost := int64(45000)
	tourID := uint64(1)
	return &fakeBookingStore{bookings: map[uint64]model.BookingWithTour{
		7: {Booking: model.Booking{ID: 7, TourID: &tourID, CustomerName: "Asha", NumberOfPeople: 2, PaymentAmount: 90000,
			DiscountAmount: 5000, Status: model.BookingPending, PaymentStatus: model.PaymentPending}, TourName: &name, TourCost: &cost},
	}}
}

func TestBookingStatusPublishesChange(t *testing.T) {
	store := bookingFixture()
	events := &recordingPublisher{}
	h := NewAdminBookingHandler(store, &fakePayments{}, events)

	rec := call(t, h.Status, http.MethodPatch, "/api/admin/bookings/7/status", `{"status":"shipped"}`, map[string]string{"id": "7"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.Status, http.MethodPatch, "/api/admin/bookings/7/status", `{"status":"Confirmed"}`, map[string]string{"id": "7"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{model.BookingConfirmed}, store.statuses)
	require.Len(t, events.events, 1)
	assert.Equal(t, queue.EventBookingStatusChanged, events.events[0].Type)
	assert.Equal(t, model.BookingPending, events.events[0].PreviousStatus)
	assert.Equal(t, "Char Dham", events.events[0].TourName)

	rec = call(t, h.Status, http.MethodPatch, "/api/admin/bookings/9/status", `{"status":"confirmed"}`, map[string]string{"id": "9"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordPaymentMovesPaymentStatus(t *testing.T) {
	store := bookingFixture()
	payments := &fakePayments{}
	h := NewAdminBookingHandler(store, payments, nil)
	params := map[string]string{"id": "7"}

	rec := call(t, h.RecordPayment, http.MethodPost, "/api/admin/bookings/7/payments", `{"amount":0}`, params, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out struct {
		PaidTotal     float64 `json:"paid_total"`
		PaymentStatus string  `json:"payment_status"`
	}
	rec = call(t, h.RecordPayment, http.MethodPost, "/api/admin/bookings/7/payments", `{"amount":"40000","payment_method":"upi"}`, params, &out)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 40000.0, out.PaidTotal)
	assert.Equal(t, model.PaymentPartial, out.PaymentStatus)

	rec = call(t, h.RecordPayment, http.MethodPost, "/api/admin/bookings/7/payments", `{"amount":45000}`, params, &out)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.PaymentPaid, out.PaymentStatus, "45000 x 2 - 5000 is covered")

	require.Len(t, store.updates, 2)
	for _, u := range store.updates {
		assert.Nil(t, u.PaymentAmount, "the price is never overwritten by a payment")
	}

	var ledger struct {
		Items     []model.BookingPayment `json:"items"`
		PaidTotal float64                `json:"paid_total"`
	}
	rec = call(t, h.ListPayments, http.MethodGet, "/api/admin/bookings/7/payments", "", params, &ledger)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ledger.Items, 2)
	assert.Equal(t, 85000.0, ledger.PaidTotal)
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, model.PaymentPending, PaymentStatusFor(0, 100))
	assert.Equal(t, model.PaymentPartial, PaymentStatusFor(50, 100))
	assert.Equal(t, model.PaymentPaid, PaymentStatusFor(100, 100))
	assert.Equal(t, model.PaymentPaid, PaymentStatusFor(10, 0))
}

func TestPatchRejectsUnknownPaymentStatus(t *testing.T) {
	h := NewAdminBookingHandler(bookingFixture(), &fakePayments{}, nil)
	rec := call(t, h.Patch, http.MethodPatch, "/api/admin/bookings/7", `{"payment_status":"maybe"}`, map[string]string{"id": "7"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.Patch, http.MethodPatch, "/api/admin/bookings/7", `{"internal_notes":"VIP"}`, map[string]string{"id": "7"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVoucherIsPDF(t *testing.T) {
	h := NewAdminBookingHandler(bookingFixture(), &fakePayments{}, nil)
	rec := call(t, h.Voucher, http.MethodGet, "/api/admin/bookings/7/voucher.pdf", "", map[string]string{"id": "7"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestDashboard(t *testing.T) {
	var out struct {
		Tours   int     `json:"tours"`
		Revenue float64 `json:"revenue"`
	}
	rec := call(t, Dashboard(catalogTours(), bookingFixture()), http.MethodGet, "/api/admin/dashboard", "", nil, &out)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, out.Tours)
	assert.Zero(t, out.Revenue, "pending bookings earn nothing")
}

// ---- auth ----

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, email, password string) (auth.Pair, error) {
	if password != "right" {
		return auth.Pair{}, auth.ErrInvalidCredentials
	}
	return auth.Pair{UserID: 1, Email: email, Access: auth.AccessToken{Token: "jwt", Exp: time.Now().Add(time.Hour)}}, nil
}

func (fakeAuth) Refresh(context.Context, string) (auth.Pair, error) {
	return auth.Pair{}, auth.ErrInvalidRefresh
}

func (fakeAuth) Logout(context.Context, string) error { return nil }

func TestLoginSetsSessionCookie(t *testing.T) {
	h := NewAuthHandler(fakeAuth{}, true)
	rec := call(t, h.Login, http.MethodPost, "/api/auth/login", `{"email":"ops@example.com","password":"right"}`, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "session=jwt")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")

	rec = call(t, h.Login, http.MethodPost, "/api/auth/login", `{"email":"ops@example.com","password":"wrong"}`, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h.Refresh, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"old"}`, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h.Logout, http.MethodPost, "/api/auth/logout", "", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

	var s auth.Session
	call(t, h.Session, http.MethodGet, "/api/auth/session", "", nil, &s)
	assert.Equal(t, auth.StateUnauthenticated, s.State)
}

// ---- uploads, pages, health ----

type fakeUploader struct {
	err error
}

func (f fakeUploader) Upload(context.Context, upload.Request) (upload.Result, error) {
	if f.err != nil {
		return upload.Result{}, f.err
	}
	return upload.Result{URL: "https://cdn.example.com/tours/a.png"}, nil
}

func TestUploadErrors(t *testing.T) {
	rec := call(t, Upload(fakeUploader{}), http.MethodPost, "/api/admin/uploads", `{"file":"data:image/png;base64,AA==","fileName":"a.png"}`, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cdn.example.com")

	rec = call(t, Upload(fakeUploader{err: upload.ErrTooLarge}), http.MethodPost, "/api/admin/uploads", `{}`, nil, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = call(t, Upload(fakeUploader{err: upload.ErrNotImage}), http.MethodPost, "/api/admin/uploads", `{}`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, Upload(fakeUploader{err: errors.New("cdn down")}), http.MethodPost, "/api/admin/uploads", `{}`, nil, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNotFound(t *testing.T) {
	p := Pages{Dir: t.TempDir()}
	rec := call(t, p.NotFound, http.MethodGet, "/api/nope", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")

	rec = call(t, p.NotFound, http.MethodGet, "/nowhere", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := call(t, Health(pinger{}), http.MethodGet, "/healthz", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, Health(pinger{err: errors.New("down")}), http.MethodGet, "/healthz", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
