package forms

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/registry"
)

type submitRecorder struct {
	mu          sync.Mutex
	submissions []model.Submission
	err         error
	block       chan struct{}
}

func (r *submitRecorder) handler(ctx context.Context, submission model.Submission) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, submission)
	return r.err
}

func (r *submitRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}

func (r *submitRecorder) last(t *testing.T) model.Submission {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.submissions) == 0 {
		t.Fatalf("no submissions recorded")
	}
	return r.submissions[len(r.submissions)-1]
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("registry.Default() error = %v", err)
	}
	return reg
}

func fillGeneralInquiry(c *Controller) {
	c.SetValue("contactInfo.fullName", "Jane Doe")
	c.SetValue("contactInfo.email", "jane@example.com")
	c.SetValue("contactInfo.phone", "5551234567")
	c.SetValue("address.streetAddress", "123 Main St")
	c.SetValue("address.city", "Los Angeles")
	c.SetValue("address.state", "CA")
	c.SetValue("address.zip", "90001")
	c.SetValue("product", "Design Services")
	c.SetValue("subject", "Kitchen consult")
	c.SetValue("message", "We would like a consult next month.")
}

func TestGeneralInquiryHappyPath(t *testing.T) {
	recorder := &submitRecorder{}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	controller, err := NewGeneralInquiry(testRegistry(t), recorder.handler,
		WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("NewGeneralInquiry() error = %v", err)
	}

	fillGeneralInquiry(controller)
	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if recorder.count() != 1 {
		t.Fatalf("submit handler called %d times, want 1", recorder.count())
	}
	submission := recorder.last(t)
	if submission.FormID != FormGeneralInquiry {
		t.Errorf("FormID = %q", submission.FormID)
	}
	if !submission.SubmissionTime.Equal(at) {
		t.Errorf("SubmissionTime = %v, want %v", submission.SubmissionTime, at)
	}

	wantContact := map[string]any{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"phone":    "5551234567",
	}
	if diff := cmp.Diff(wantContact, submission.Values["contactInfo"]); diff != "" {
		t.Errorf("contactInfo mismatch (-want +got):\n%s", diff)
	}
	if controller.Status() != StatusEditing {
		t.Errorf("Status() = %q after success", controller.Status())
	}
}

func TestGeneralInquiryRejectsFormattedPhone(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewGeneralInquiry(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGeneralInquiry() error = %v", err)
	}

	fillGeneralInquiry(controller)
	controller.SetValue("contactInfo.phone", "555-123-4567")

	err = controller.Submit(context.Background())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Submit() error = %v, want *ValidationError", err)
	}
	if recorder.count() != 0 {
		t.Errorf("submit handler called %d times, want 0", recorder.count())
	}
	if msgs := controller.Errors()["contactInfo.phone"]; len(msgs) == 0 {
		t.Errorf("no error recorded for contactInfo.phone")
	}
	if got := controller.FocusTarget(); got != "contactInfo.phone" {
		t.Errorf("FocusTarget() = %q, want contactInfo.phone", got)
	}
}

func TestGeneralInquiryEmptySubmit(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewGeneralInquiry(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGeneralInquiry() error = %v", err)
	}

	err = controller.Submit(context.Background())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Submit() error = %v, want *ValidationError", err)
	}
	if recorder.count() != 0 {
		t.Errorf("submit handler called %d times, want 0", recorder.count())
	}
	if got := controller.FocusTarget(); got != "contactInfo.fullName" {
		t.Errorf("FocusTarget() = %q, want first priority field", got)
	}
	if len(controller.Errors()) == 0 {
		t.Errorf("expected field errors after empty submit")
	}
}

func fillGetEstimate(c *Controller) {
	c.SetValue("relationToProperty", "Real Estate Agent")
	c.SetValue("propertyAddress.streetAddress", "123 Main St")
	c.SetValue("propertyAddress.city", "Los Angeles")
	c.SetValue("propertyAddress.state", "CA")
	c.SetValue("propertyAddress.zip", "90001")
	c.SetValue("brokerage", "Equity Union")
	c.SetValue("agentInfo.fullName", "Jane Doe")
	c.SetValue("agentInfo.email", "jane@example.com")
	c.SetValue("agentInfo.phone", "5551234567")
}

func TestGetEstimateUploadSkipsVisitFields(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewGetEstimate(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGetEstimate() error = %v", err)
	}

	// rtDigitalSelection defaults to upload, so visit date and time are
	// not required.
	fillGetEstimate(controller)
	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if recorder.count() != 1 {
		t.Fatalf("submit handler called %d times, want 1", recorder.count())
	}
}

func TestGetEstimateVideoCallRequiresVisitFields(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewGetEstimate(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGetEstimate() error = %v", err)
	}

	fillGetEstimate(controller)
	controller.SetValue("rtDigitalSelection", "video-call")

	err = controller.Submit(context.Background())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Submit() error = %v, want *ValidationError", err)
	}
	if got := controller.FocusTarget(); got != "requestedVisitDateTime" {
		t.Errorf("FocusTarget() = %q, want requestedVisitDateTime", got)
	}

	controller.SetValue("requestedVisitDateTime", "2026-09-01")
	controller.SetValue("requestedVisitTime", "14:30")
	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() after filling visit fields error = %v", err)
	}

	submission := recorder.last(t)
	if got := submission.Values["requestedVisitDateTime"]; got != "2026-09-01T14:30:00Z" {
		t.Errorf("requestedVisitDateTime = %v, want combined instant", got)
	}
	if _, present := submission.Values["requestedVisitTime"]; present {
		t.Errorf("requestedVisitTime still present after combining")
	}
}

func TestGetEstimateCustomBrokerageRoundTrip(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewGetEstimate(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGetEstimate() error = %v", err)
	}

	fillGetEstimate(controller)
	controller.SetValue("brokerage", "Other")
	controller.SetValue("customBrokerage", "Acme Realty")
	controller.Blur("customBrokerage")

	if got := controller.Watch("customBrokerage"); got != "acmeRealty" {
		t.Fatalf("customBrokerage after blur = %v, want acmeRealty", got)
	}

	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	first := recorder.last(t)
	if got := first.Values["brokerage"]; got != "acmeRealty" {
		t.Errorf("effective brokerage = %v, want acmeRealty", got)
	}
	if _, present := first.Values["customBrokerage"]; present {
		t.Errorf("customBrokerage still present in payload")
	}

	// Resubmitting identical input must produce an identical payload.
	controller.Blur("customBrokerage")
	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}
	second := recorder.last(t)
	if diff := cmp.Diff(first.Values, second.Values); diff != "" {
		t.Errorf("resubmission payload differs (-first +second):\n%s", diff)
	}
}

func TestSubmitWhileSubmittingRefused(t *testing.T) {
	recorder := &submitRecorder{block: make(chan struct{})}
	controller, err := NewGeneralInquiry(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGeneralInquiry() error = %v", err)
	}
	fillGeneralInquiry(controller)

	done := make(chan error, 1)
	go func() {
		done <- controller.Submit(context.Background())
	}()

	// wait until the first submit holds the submitting state
	deadline := time.After(2 * time.Second)
	for controller.Status() != StatusSubmitting {
		select {
		case <-deadline:
			t.Fatalf("controller never reached submitting state")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := controller.Submit(context.Background()); !errors.Is(err, ErrSubmitInProgress) {
		t.Errorf("second Submit() error = %v, want ErrSubmitInProgress", err)
	}

	close(recorder.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if recorder.count() != 1 {
		t.Errorf("submit handler called %d times, want 1", recorder.count())
	}
}

func TestSubmitFailureReturnsToEditing(t *testing.T) {
	recorder := &submitRecorder{err: errors.New("backend down")}
	controller, err := NewGeneralInquiry(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGeneralInquiry() error = %v", err)
	}
	fillGeneralInquiry(controller)

	if err := controller.Submit(context.Background()); err == nil {
		t.Fatalf("Submit() expected error from failing handler")
	}
	if controller.Status() != StatusEditing {
		t.Errorf("Status() = %q, want editing after failure", controller.Status())
	}
	if controller.FormError() == "" {
		t.Errorf("FormError() empty after failed submit")
	}
	// Entered values survive the failure.
	if got := controller.Watch("contactInfo.fullName"); got != "Jane Doe" {
		t.Errorf("contactInfo.fullName = %v after failure, want preserved value", got)
	}
}

func TestAffiliateContractorGate(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewAffiliateInquiry(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewAffiliateInquiry() error = %v", err)
	}

	controller.SetValue("contactInfo.fullName", "Sam Builder")
	controller.SetValue("contactInfo.email", "sam@example.com")
	controller.SetValue("contactInfo.phone", "5559876543")
	controller.SetValue("address.streetAddress", "9 Trade Way")
	controller.SetValue("address.city", "Burbank")
	controller.SetValue("address.state", "CA")
	controller.SetValue("address.zip", "91502")
	controller.SetValue("companyName", "Builder Co")
	controller.SetValue("serviceType", "Plumbing")
	controller.SetValue("isGeneralContractor", "false")

	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v for non-contractor", err)
	}

	controller.SetValue("isGeneralContractor", "true")
	err = controller.Submit(context.Background())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Submit() error = %v, want *ValidationError for contractor without license", err)
	}
	if len(validationErr.Fields["contractorLicense"]) == 0 {
		t.Errorf("contractorLicense not flagged: %v", validationErr.Fields)
	}
}

func TestControllerFilesLifecycle(t *testing.T) {
	recorder := &submitRecorder{}
	controller, err := NewGetEstimate(testRegistry(t), recorder.handler)
	if err != nil {
		t.Fatalf("NewGetEstimate() error = %v", err)
	}

	controller.AttachFiles(
		model.UploadedFile{ID: "f1", Name: "a.jpg", Category: "images"},
		model.UploadedFile{ID: "f2", Name: "b.mp4", Category: "videos"},
	)
	controller.RemoveFile("f1")

	files := controller.Files()
	if len(files) != 1 || files[0].ID != "f2" {
		t.Fatalf("Files() = %+v, want only f2", files)
	}

	fillGetEstimate(controller)
	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	submission := recorder.last(t)
	if len(submission.Files) != 1 || submission.Files[0].ID != "f2" {
		t.Errorf("submission files = %+v, want only f2", submission.Files)
	}
}
