package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// FlowState names a step of the passwordless login flow.
type FlowState string

const (
	StateEmailEntry      FlowState = "email-entry"
	StateCheckingExists  FlowState = "checking-existence"
	StateUserDetails     FlowState = "user-details-entry"
	StateOTPVerification FlowState = "otp-verification"
	StateSuccess         FlowState = "success"
)

// otpCountdownSeconds is how long a code stays usable, mirrored from the
// backend challenge TTL. The resend button unlocks when it hits zero.
const otpCountdownSeconds = 300

const defaultDestination = "/dashboard"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Classified verification failures.
var (
	ErrCodeExpired = errors.New("code has expired, request a new one")
	ErrCodeInvalid = errors.New("incorrect code, try again")
)

// FieldError is a local validation failure rendered next to the offending
// input. It never reaches the network.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// LoginResult is handed back on successful verification. ReplaceHistory tells
// the caller to replace the current history entry so back-navigation cannot
// land on the OTP screen again.
type LoginResult struct {
	Credentials    *Credentials
	Destination    string
	ReplaceHistory bool
}

// AuthFlow drives the email -> (login | register) -> verify state machine.
// All methods are safe for concurrent use with the countdown ticker.
type AuthFlow struct {
	api         AuthAPI
	destination string

	mu           sync.Mutex
	gen          uint64 // bumped by Back/Close; in-flight calls discard stale completions
	state        FlowState
	email        string
	firstName    string
	lastName     string
	registration bool
	remaining    int
	canResend    bool
	notice       string

	ticker     *time.Ticker
	tickerDone chan struct{}
	closed     bool
}

type FlowOption func(*AuthFlow)

// WithDestination overrides the post-login destination (default /dashboard).
func WithDestination(dest string) FlowOption {
	return func(f *AuthFlow) { f.destination = dest }
}

func NewAuthFlow(api AuthAPI, opts ...FlowOption) *AuthFlow {
	f := &AuthFlow{
		api:         api,
		destination: defaultDestination,
		state:       StateEmailEntry,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *AuthFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *AuthFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Remaining reports the countdown in seconds.
func (f *AuthFlow) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}

func (f *AuthFlow) CanResend() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canResend
}

// Notice is the user-facing status line (expiry message, error hints).
func (f *AuthFlow) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// SubmitEmail validates the address locally, then checks whether an account
// exists. An existing account gets a login code immediately; otherwise the
// flow moves on to collecting user details. An existence-check failure is
// deliberately treated as "not registered" so the user can still proceed
// through registration.
func (f *AuthFlow) SubmitEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !emailShape.MatchString(email) {
		return &FieldError{Field: "email", Message: "enter a valid email address"}
	}

	f.mu.Lock()
	if f.state != StateEmailEntry {
		f.mu.Unlock()
		return fmt.Errorf("submit email: flow is in state %q", f.state)
	}
	f.email = email
	f.state = StateCheckingExists
	gen := f.gen
	f.mu.Unlock()

	exists, err := f.api.CheckExists(ctx, email)
	if err != nil {
		// Fail open: an unreachable existence check must not dead-end the
		// flow, so the user is routed to registration.
		exists = false
	}

	if !exists {
		f.mu.Lock()
		if f.gen == gen {
			f.registration = true
			f.state = StateUserDetails
		}
		f.mu.Unlock()
		return nil
	}

	if err := f.api.SendLoginOTP(ctx, email); err != nil {
		f.mu.Lock()
		if f.gen == gen {
			f.state = StateEmailEntry
		}
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	if f.gen == gen {
		f.registration = false
		f.enterVerificationLocked()
	}
	f.mu.Unlock()
	return nil
}

// SubmitUserDetails collects the registration profile and requests a
// registration code.
func (f *AuthFlow) SubmitUserDetails(ctx context.Context, firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if len(firstName) < 2 {
		return &FieldError{Field: "first_name", Message: "first name must be at least 2 characters"}
	}
	if len(lastName) < 2 {
		return &FieldError{Field: "last_name", Message: "last name must be at least 2 characters"}
	}

	f.mu.Lock()
	if f.state != StateUserDetails {
		f.mu.Unlock()
		return fmt.Errorf("submit details: flow is in state %q", f.state)
	}
	email := f.email
	f.firstName, f.lastName = firstName, lastName
	gen := f.gen
	f.mu.Unlock()

	if err := f.api.SendRegisterOTP(ctx, email, firstName, lastName); err != nil {
		return err
	}

	f.mu.Lock()
	if f.gen == gen {
		f.enterVerificationLocked()
	}
	f.mu.Unlock()
	return nil
}

// SubmitCode verifies a 6-digit code. Anything but exactly six digits is
// rejected locally without a network call. Server failures are classified by
// the message substring: "expired" unlocks resend immediately, "invalid"
// keeps the countdown running.
func (f *AuthFlow) SubmitCode(ctx context.Context, code string) (*LoginResult, error) {
	code = strings.TrimSpace(code)
	if !isSixDigits(code) {
		return nil, &FieldError{Field: "code", Message: "enter the 6-digit code"}
	}

	f.mu.Lock()
	if f.state != StateOTPVerification {
		f.mu.Unlock()
		return nil, fmt.Errorf("submit code: flow is in state %q", f.state)
	}
	email := f.email
	gen := f.gen
	f.mu.Unlock()

	creds, err := f.api.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, f.classifyVerifyError(err, gen)
	}

	f.mu.Lock()
	if f.gen != gen {
		// The flow was abandoned while the verify call was in flight.
		f.mu.Unlock()
		return nil, fmt.Errorf("submit code: flow is in state %q", StateEmailEntry)
	}
	f.stopCountdownLocked()
	f.state = StateSuccess
	f.notice = ""
	dest := f.destination
	f.mu.Unlock()

	return &LoginResult{
		Credentials:    creds,
		Destination:    dest,
		ReplaceHistory: true,
	}, nil
}

func (f *AuthFlow) classifyVerifyError(err error, gen uint64) error {
	msg := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	msg = strings.ToLower(msg)

	f.mu.Lock()
	defer f.mu.Unlock()
	// An abandoned flow still gets the classified error but no state changes.
	live := f.gen == gen

	switch {
	case strings.Contains(msg, "expired"):
		// Server-side expiry overrides whatever the local timer believes.
		if live {
			f.canResend = true
			f.notice = "Your code has expired. Request a new one."
		}
		return fmt.Errorf("%w: %s", ErrCodeExpired, msg)
	case strings.Contains(msg, "invalid"):
		if live {
			f.notice = "Incorrect code. Check your email and try again."
		}
		return fmt.Errorf("%w: %s", ErrCodeInvalid, msg)
	default:
		if live {
			f.notice = "Something went wrong. Please try again."
		}
		return err
	}
}

// Resend requests a fresh code over the same path that entered verification
// (login vs registration) and restarts the countdown.
func (f *AuthFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateOTPVerification {
		f.mu.Unlock()
		return fmt.Errorf("resend: flow is in state %q", f.state)
	}
	email, first, last, registration := f.email, f.firstName, f.lastName, f.registration
	gen := f.gen
	f.mu.Unlock()

	var err error
	if registration {
		err = f.api.SendRegisterOTP(ctx, email, first, last)
	} else {
		err = f.api.SendLoginOTP(ctx, email)
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.gen == gen {
		f.enterVerificationLocked()
	}
	f.mu.Unlock()
	return nil
}

// Back abandons the current step and returns to the unified email entry
// screen, resetting the challenge.
func (f *AuthFlow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.stopCountdownLocked()
	f.state = StateEmailEntry
	f.email = ""
	f.firstName, f.lastName = "", ""
	f.registration = false
	f.remaining = 0
	f.canResend = false
	f.notice = ""
}

// Close releases the countdown ticker. The flow must not be reused after.
func (f *AuthFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.closed = true
	f.stopCountdownLocked()
}

// enterVerificationLocked moves to the verification step and (re)starts the
// countdown. Callers hold f.mu.
func (f *AuthFlow) enterVerificationLocked() {
	f.stopCountdownLocked()
	f.state = StateOTPVerification
	f.remaining = otpCountdownSeconds
	f.canResend = false
	f.notice = ""

	if f.closed {
		return
	}

	ticker := time.NewTicker(time.Second)
	done := make(chan struct{})
	f.ticker, f.tickerDone = ticker, done

	go func() {
		for {
			select {
			case <-ticker.C:
				if f.tickFor(done) {
					return
				}
			case <-done:
				return
			}
		}
	}()
}

// tickFor guards against a stale ticker goroutine firing into a countdown
// that was reset underneath it (e.g. by a resend).
func (f *AuthFlow) tickFor(done chan struct{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tickerDone != done {
		return true
	}
	return f.tickLocked()
}

// tick advances the countdown by one second and reports whether it finished.
// The resend unlock happens exactly once: after remaining reaches zero the
// ticker is stopped and further ticks are no-ops.
func (f *AuthFlow) tick() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickLocked()
}

func (f *AuthFlow) tickLocked() bool {
	if f.state != StateOTPVerification || f.remaining <= 0 {
		return true
	}

	f.remaining--
	if f.remaining > 0 {
		return false
	}

	f.canResend = true
	f.notice = "Your code has expired. Request a new one."
	f.stopCountdownLocked()
	return true
}

// stopCountdownLocked tears down the ticker goroutine. Callers hold f.mu.
func (f *AuthFlow) stopCountdownLocked() {
	if f.ticker != nil {
		f.ticker.Stop()
		close(f.tickerDone)
		f.ticker, f.tickerDone = nil, nil
	}
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
