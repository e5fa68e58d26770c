package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/email"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/queue"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/recaptcha"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
)

type fakeTours struct {
	GetByIDFn func(ctx context.Context, id uint64) (model.Tour, error)
}

func (f fakeTours) GetByID(ctx context.Context, id uint64) (model.Tour, error) {
	return f.GetByIDFn(ctx, id)
}

type fakeBookings struct {
	created []model.Booking
	list    []model.Booking
	stored  map[uint64]model.BookingWithTour
	err     error
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	if f.err != nil {
		return f.err
	}
	b.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeBookings) ListByTour(context.Context, uint64) ([]model.Booking, error) {
	return f.list, nil
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (model.BookingWithTour, error) {
	b, ok := f.stored[id]
	if !ok {
		return b, repository.ErrBookingNotFound
	}
	return b, nil
}

type fakeNewsletter struct {
	seen map[string]bool
}

func (f *fakeNewsletter) Subscribe(_ context.Context, addr string) (model.NewsletterSubscription, error) {
	if f.seen[addr] {
		return model.NewsletterSubscription{}, repository.ErrDuplicate
	}
	f.seen[addr] = true
	return model.NewsletterSubscription{ID: 1, Email: addr}, nil
}

func (f *fakeNewsletter) IsSubscribed(_ context.Context, addr string) (bool, error) {
	return f.seen[addr], nil
}

type fakeVerifier struct {
	calls    int
	VerifyFn func(token string) error
}

func (f *fakeVerifier) Verify(_ context.Context, token, _ string) error {
	f.calls++
	if f.VerifyFn != nil {
		return f.VerifyFn(token)
	}
	return nil
}

type fakeMailer struct {
	sent       []email.Payload
	DispatchFn func(p email.Payload) error
}

func (f *fakeMailer) Dispatch(_ context.Context, p email.Payload) error {
	f.sent = append(f.sent, p)
	if f.DispatchFn != nil {
		return f.DispatchFn(p)
	}
	return nil
}

type fakeEvents struct {
	events []queue.BookingEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.BookingEvent) error {
	f.events = append(f.events, ev)
	return errors.New("broker down")
}

func publishedTour() fakeTours {
	return fakeTours{GetByIDFn: func(_ context.Context, id uint64) (model.Tour, error) {
		if id != 9 {
			return model.Tour{}, repository.ErrTourNotFound
		}
		return model.Tour{ID: 9, Slug: "char-dham", Name: "Char Dham", Cost: 45000, TotalCapacity: 50}, nil
	}}
}

func validBooking() BookingRequest {
	return BookingRequest{
		TourID: 9, CustomerName: "Asha", Email: "asha@example.com",
		MobileNumber: "+91 98765 43210", NumberOfPeople: 2, RecaptchaToken: "tok",
	}
}

func TestBookingPersistsWhenEmailFails(t *testing.T) {
	bookings := &fakeBookings{}
	mailer := &fakeMailer{DispatchFn: func(email.Payload) error { return errors.New("status 500") }}
	events := &fakeEvents{}
	s := NewService(Deps{Tours: publishedTour(), Bookings: bookings, Verifier: &fakeVerifier{}, Mailer: mailer, Events: events})

	rec, err := s.SubmitBooking(context.Background(), validBooking())
	require.NoError(t, err)
	require.Len(t, bookings.created, 1)
	assert.Equal(t, model.BookingPending, bookings.created[0].Status)
	assert.Equal(t, model.PaymentPending, bookings.created[0].PaymentStatus)
	assert.Equal(t, model.Amount(90000), bookings.created[0].PaymentAmount)
	assert.False(t, rec.EmailSent)
	assert.NotEmpty(t, rec.EmailError)
	assert.Equal(t, uint64(1), rec.Booking.ID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, email.KindBooking, mailer.sent[0].Type)
	assert.Equal(t, uint64(1), mailer.sent[0].BookingID)
	require.Len(t, events.events, 1, "publish failure is ignored")
	assert.Equal(t, queue.EventBookingCreated, events.events[0].Type)
}

func TestBookingMissingTokenMakesNoRemoteCall(t *testing.T) {
	v := &fakeVerifier{}
	bookings := &fakeBookings{}
	s := NewService(Deps{Tours: publishedTour(), Bookings: bookings, Verifier: v, Mailer: &fakeMailer{}})

	req := validBooking()
	req.RecaptchaToken = " "
	_, err := s.SubmitBooking(context.Background(), req)
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, KindVerification, fe.Kind)
	assert.Equal(t, StageVerifying, fe.Stage)
	assert.ErrorIs(t, err, recaptcha.ErrMissingToken)
	assert.Zero(t, v.calls)
	assert.Empty(t, bookings.created)
}

func TestBookingValidationBeforeVerification(t *testing.T) {
	v := &fakeVerifier{}
	s := NewService(Deps{Tours: publishedTour(), Bookings: &fakeBookings{}, Verifier: v, Mailer: &fakeMailer{}})

	cases := map[string]func(*BookingRequest){
		"tour_id":          func(r *BookingRequest) { r.TourID = 0 },
		"customer_name":    func(r *BookingRequest) { r.CustomerName = "" },
		"email":            func(r *BookingRequest) { r.Email = "not-an-email" },
		"mobile_number":    func(r *BookingRequest) { r.MobileNumber = "call me" },
		"number_of_people": func(r *BookingRequest) { r.NumberOfPeople = 0 },
	}
	for field, mutate := range cases {
		req := validBooking()
		mutate(&req)
		_, err := s.SubmitBooking(context.Background(), req)
		fe, ok := AsFlowError(err)
		require.True(t, ok, field)
		assert.Equal(t, KindInvalid, fe.Kind, field)
		assert.Equal(t, field, fe.Field)
	}
	assert.Zero(t, v.calls)
}

func TestBookingRejectsReplayedToken(t *testing.T) {
	v := &fakeVerifier{VerifyFn: func(string) error { return recaptcha.ErrReplayed }}
	s := NewService(Deps{Tours: publishedTour(), Bookings: &fakeBookings{}, Verifier: v, Mailer: &fakeMailer{}})
	_, err := s.SubmitBooking(context.Background(), validBooking())
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, KindVerification, fe.Kind)
}

func TestBookingTourChecks(t *testing.T) {
	full := &fakeBookings{list: []model.Booking{{Status: model.BookingConfirmed, NumberOfPeople: 50}}}
	s := NewService(Deps{Tours: publishedTour(), Bookings: full, Verifier: &fakeVerifier{}, Mailer: &fakeMailer{}})
	_, err := s.SubmitBooking(context.Background(), validBooking())
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalid, fe.Kind)
	assert.Empty(t, full.created)

	req := validBooking()
	req.TourID = 3
	_, err = s.SubmitBooking(context.Background(), req)
	fe, _ = AsFlowError(err)
	require.NotNil(t, fe)
	assert.Equal(t, "tour_id", fe.Field)

	draft := fakeTours{GetByIDFn: func(context.Context, uint64) (model.Tour, error) {
		return model.Tour{ID: 9, IsDraft: true, TotalCapacity: 50}, nil
	}}
	s = NewService(Deps{Tours: draft, Bookings: &fakeBookings{}, Verifier: &fakeVerifier{}, Mailer: &fakeMailer{}})
	_, err = s.SubmitBooking(context.Background(), validBooking())
	fe, _ = AsFlowError(err)
	require.NotNil(t, fe)
	assert.Equal(t, KindInvalid, fe.Kind)
}

func TestBookingStoreFailureIsRemote(t *testing.T) {
	s := NewService(Deps{Tours: publishedTour(), Bookings: &fakeBookings{err: errors.New("db gone")}, Verifier: &fakeVerifier{}, Mailer: &fakeMailer{}})
	_, err := s.SubmitBooking(context.Background(), validBooking())
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, fe.Kind)
}

func TestNewsletterDuplicateIsAlreadySubscribed(t *testing.T) {
	store := &fakeNewsletter{seen: map[string]bool{}}
	mailer := &fakeMailer{}
	s := NewService(Deps{Newsletter: store, Verifier: &fakeVerifier{}, Mailer: mailer})

	rec, err := s.SubscribeNewsletter(context.Background(), NewsletterRequest{Email: "a@example.com", RecaptchaToken: "t1"})
	require.NoError(t, err)
	assert.False(t, rec.AlreadySubscribed)

	rec, err = s.SubscribeNewsletter(context.Background(), NewsletterRequest{Email: "a@example.com", RecaptchaToken: "t2"})
	require.NoError(t, err)
	assert.True(t, rec.AlreadySubscribed)
	assert.Len(t, store.seen, 1)
	assert.Len(t, mailer.sent, 1, "no welcome mail for a repeat signup")
}

func TestContactMailFailureIsRemote(t *testing.T) {
	mailer := &fakeMailer{DispatchFn: func(email.Payload) error { return errors.New("502") }}
	s := NewService(Deps{Verifier: &fakeVerifier{}, Mailer: mailer})
	_, err := s.SubmitContact(context.Background(), ContactRequest{Name: "A", Email: "a@example.com", Message: "hi", RecaptchaToken: "t"})
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, fe.Kind)
	assert.Equal(t, StageSubmitting, fe.Stage)
}

func TestEnquiryMessageOptional(t *testing.T) {
	mailer := &fakeMailer{}
	s := NewService(Deps{Verifier: &fakeVerifier{}, Mailer: mailer})
	rec, err := s.SubmitEnquiry(context.Background(), EnquiryRequest{Name: "A", Email: "a@example.com", Phone: "9876543210", TourName: "Kailash", RecaptchaToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, StageDone, rec.Stage)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, email.KindEnquiry, mailer.sent[0].Type)
}

func TestBookingLargerThanSeatsLeft(t *testing.T) {
	nearlyFull := &fakeBookings{list: []model.Booking{{Status: model.BookingConfirmed, NumberOfPeople: 49}}}
	s := NewService(Deps{Tours: publishedTour(), Bookings: nearlyFull, Verifier: &fakeVerifier{}, Mailer: &fakeMailer{}})

	_, err := s.SubmitBooking(context.Background(), validBooking())
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalid, fe.Kind)
	assert.Equal(t, "number_of_people", fe.Field)
	assert.Contains(t, fe.Error(), "only 1 seats left")
	assert.Empty(t, nearlyFull.created)

	req := validBooking()
	req.NumberOfPeople = 1
	_, err = s.SubmitBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, nearlyFull.created, 1)
}

func TestSendEmailBookingNeedsMatchingRecord(t *testing.T) {
	name, slug := "Char Dham Yatra", "char-dham-yatra"
	bookings := &fakeBookings{stored: map[uint64]model.BookingWithTour{
		99: {Booking: model.Booking{ID: 99, CustomerName: "Asha", Email: "asha@example.com", NumberOfPeople: 2}, TourName: &name, TourSlug: &slug},
	}}
	mailer := &fakeMailer{}
	s := NewService(Deps{Bookings: bookings, Verifier: &fakeVerifier{}, Mailer: mailer})

	refused := map[string]email.Payload{
		"unknown id":    {Type: email.KindBooking, Email: "asha@example.com", BookingID: 5, RecaptchaToken: "t"},
		"other address": {Type: email.KindBooking, Email: "someone@example.com", BookingID: 99, RecaptchaToken: "t"},
	}
	for name, p := range refused {
		err := s.SendEmail(context.Background(), p, "")
		fe, ok := AsFlowError(err)
		require.True(t, ok, name)
		assert.Equal(t, KindInvalid, fe.Kind, name)
		assert.Equal(t, "bookingId", fe.Field, name)
	}
	assert.Empty(t, mailer.sent)

	err := s.SendEmail(context.Background(), email.Payload{Type: email.KindBooking, Email: "ASHA@example.com", BookingID: 99, TourName: "Free Trip", RecaptchaToken: "t"}, "")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "asha@example.com", mailer.sent[0].Email)
	assert.Equal(t, "Char Dham Yatra", mailer.sent[0].TourName)
	assert.Equal(t, model.Count(2), mailer.sent[0].NumberOfPeople)
}

func TestSendEmailNewsletterNeedsSubscription(t *testing.T) {
	store := &fakeNewsletter{seen: map[string]bool{"a@example.com": true}}
	mailer := &fakeMailer{}
	s := NewService(Deps{Newsletter: store, Verifier: &fakeVerifier{}, Mailer: mailer})

	err := s.SendEmail(context.Background(), email.Payload{Type: email.KindNewsletter, Email: "b@example.com", RecaptchaToken: "t"}, "")
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, "email", fe.Field)
	assert.Empty(t, mailer.sent)

	require.NoError(t, s.SendEmail(context.Background(), email.Payload{Type: email.KindNewsletter, Email: "a@example.com", RecaptchaToken: "t"}, ""))
	assert.Len(t, mailer.sent, 1)
}

func TestSendEmailVerifyOnly(t *testing.T) {
	mailer := &fakeMailer{}
	v := &fakeVerifier{}
	s := NewService(Deps{Verifier: v, Mailer: mailer})

	require.NoError(t, s.SendEmail(context.Background(), email.Payload{Type: email.KindVerifyRecaptcha, RecaptchaToken: "t"}, ""))
	assert.Equal(t, 1, v.calls)
	assert.Empty(t, mailer.sent)

	err := s.SendEmail(context.Background(), email.Payload{Type: "fax"}, "")
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, "type", fe.Field)
}
