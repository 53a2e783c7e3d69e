package imaging

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/logger"
)

type State int

const (
	Idle State = iota
	Selected
	Validating
	Rejected
	Validated
	Compressing
	CompressFailed
	Ready
	Submitting
	SubmitFailed
	Submitted
)

var stateNames = [...]string{
	Idle:           "idle",
	Selected:       "selected",
	Validating:     "validating",
	Rejected:       "rejected",
	Validated:      "validated",
	Compressing:    "compressing",
	CompressFailed: "compress_failed",
	Ready:          "ready",
	Submitting:     "submitting",
	SubmitFailed:   "submit_failed",
	Submitted:      "submitted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

var (
	ErrInFlight     = stderrors.New("image operation already in progress")
	ErrNotValidated = stderrors.New("no validated image selected")
	ErrNotReady     = stderrors.New("image has not been processed")
	ErrSubmitted    = stderrors.New("submission already completed")
)

// Sender delivers a built upload to the backend.
type Sender func(ctx context.Context, body *UploadBody) error

// Submission tracks one attempt to upload an image, from selection to the
// backend accepting it. Methods are safe for concurrent use; a second
// Compress or Submit while one is running fails with ErrInFlight.
type Submission struct {
	ID        string
	Owner     string
	Policy    Policy
	CreatedAt time.Time

	mu         sync.Mutex
	state      State
	selected   *domain.SelectedImage
	preview    string
	normalized *domain.NormalizedImage
	err        error
}

func NewSubmission(owner string, policy Policy) *Submission {
	return &Submission{Owner: owner, Policy: policy, CreatedAt: time.Now(), state: Idle}
}

func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the failure that moved the submission into its current state, if any.
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Submission) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

func (s *Submission) Image() *domain.SelectedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Submission) busy() bool {
	return s.state == Compressing || s.state == Submitting
}

// Select replaces whatever was picked before with file and validates it.
func (s *Submission) Select(file Candidate) error {
	s.mu.Lock()
	if s.state == Submitted {
		s.mu.Unlock()
		return ErrSubmitted
	}
	if s.busy() {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.clear()
	s.state = Validating
	s.mu.Unlock()

	img, err := ValidateSelection(file, s.Policy)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Rejected
		s.err = err
		return err
	}
	s.selected = img
	s.preview = Preview(img)
	s.state = Validated
	return nil
}

// Compress normalizes the validated image. A CompressFailed submission may be
// retried with the same selection.
func (s *Submission) Compress(ctx context.Context) (*domain.NormalizedImage, error) {
	s.mu.Lock()
	switch s.state {
	case Compressing, Submitting:
		s.mu.Unlock()
		return nil, ErrInFlight
	case Ready, SubmitFailed:
		out := s.normalized
		s.mu.Unlock()
		return out, nil
	case Validated, CompressFailed:
	case Submitted:
		s.mu.Unlock()
		return nil, ErrSubmitted
	default:
		s.mu.Unlock()
		return nil, ErrNotValidated
	}
	s.state = Compressing
	s.err = nil
	img := s.selected
	s.mu.Unlock()

	if s.Policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Policy.Timeout)
		defer cancel()
	}
	out, err := Normalize(ctx, img, s.Policy.Target())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = CompressFailed
		s.err = err
		return nil, err
	}
	s.normalized = out
	s.state = Ready
	return out, nil
}

// Submit validates fields, compresses if needed, and hands the upload to send.
// Field validation happens before any image work.
func (s *Submission) Submit(ctx context.Context, send Sender, fields ...Field) error {
	if err := ValidateFields(fields); err != nil {
		return err
	}

	normalized, err := s.Compress(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	switch s.state {
	case Ready, SubmitFailed:
	case Compressing, Submitting:
		s.mu.Unlock()
		return ErrInFlight
	case Submitted:
		s.mu.Unlock()
		return ErrSubmitted
	default:
		s.mu.Unlock()
		return ErrNotReady
	}
	s.state = Submitting
	s.err = nil
	s.mu.Unlock()

	body, err := BuildUploadRequest(normalized, s.Policy.Filename, fields...)
	if err == nil {
		err = send(ctx, body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SubmitFailed
		s.err = err
		return err
	}
	logger.Log.Debug("image submitted", "policy", s.Policy.Name, "submission", s.ID, "bytes", len(normalized.Data))
	s.clear()
	s.state = Submitted
	return nil
}

// Reset drops the selection and returns to Idle. It is how the user dismisses
// a rejection or a failure. In-flight and completed submissions are left alone.
func (s *Submission) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() || s.state == Submitted {
		return
	}
	s.clear()
	s.state = Idle
}

func (s *Submission) clear() {
	s.selected = nil
	s.preview = ""
	s.normalized = nil
	s.err = nil
}
