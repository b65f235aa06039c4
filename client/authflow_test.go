package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthAPI records calls and returns scripted results.
type fakeAuthAPI struct {
	existsResult bool
	existsErr    error
	loginErr     error
	registerErr  error
	verifyCreds  *Credentials
	verifyErr    error

	checkCalls    int
	loginCalls    int
	registerCalls int
	verifyCalls   int
	lastCode      string
}

func (f *fakeAuthAPI) CheckExists(ctx context.Context, email string) (bool, error) {
	f.checkCalls++
	return f.existsResult, f.existsErr
}

func (f *fakeAuthAPI) SendLoginOTP(ctx context.Context, email string) error {
	f.loginCalls++
	return f.loginErr
}

func (f *fakeAuthAPI) SendRegisterOTP(ctx context.Context, email, firstName, lastName string) error {
	f.registerCalls++
	return f.registerErr
}

func (f *fakeAuthAPI) VerifyOTP(ctx context.Context, email, code string) (*Credentials, error) {
	f.verifyCalls++
	f.lastCode = code
	return f.verifyCreds, f.verifyErr
}

func newFlowForTests(t *testing.T, api AuthAPI) *AuthFlow {
	t.Helper()
	f := NewAuthFlow(api)
	t.Cleanup(f.Close)
	return f
}

func TestSubmitEmailRejectsMalformedWithoutNetwork(t *testing.T) {
	api := &fakeAuthAPI{}
	f := newFlowForTests(t, api)

	for _, email := range []string{"", "not-an-email", "a@b", "has space@x.com", "@missing.local"} {
		err := f.SubmitEmail(context.Background(), email)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr, "email %q should be rejected locally", email)
		assert.Equal(t, "email", fieldErr.Field)
	}

	assert.Equal(t, 0, api.checkCalls, "malformed email must not reach the network")
	assert.Equal(t, StateEmailEntry, f.State())
}

func TestSubmitEmailExistingUserGetsLoginCode(t *testing.T) {
	api := &fakeAuthAPI{existsResult: true}
	f := newFlowForTests(t, api)

	require.NoError(t, f.SubmitEmail(context.Background(), "Student@Uni.Edu "))

	assert.Equal(t, StateOTPVerification, f.State())
	assert.Equal(t, "student@uni.edu", f.Email())
	assert.Equal(t, 1, api.loginCalls)
	assert.Equal(t, 0, api.registerCalls)
	assert.Equal(t, 300, f.Remaining())
	assert.False(t, f.CanResend())
}

func TestSubmitEmailUnknownUserGoesToDetails(t *testing.T) {
	api := &fakeAuthAPI{existsResult: false}
	f := newFlowForTests(t, api)

	require.NoError(t, f.SubmitEmail(context.Background(), "new@uni.edu"))

	assert.Equal(t, StateUserDetails, f.State())
	assert.Equal(t, 0, api.loginCalls)
}

func TestSubmitEmailFailsOpenOnExistenceError(t *testing.T) {
	api := &fakeAuthAPI{existsErr: errors.New("backend unreachable")}
	f := newFlowForTests(t, api)

	err := f.SubmitEmail(context.Background(), "someone@uni.edu")

	require.NoError(t, err, "existence-check failure must not dead-end the flow")
	assert.Equal(t, StateUserDetails, f.State())
}

func TestSubmitUserDetailsValidatesLength(t *testing.T) {
	api := &fakeAuthAPI{existsResult: false}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "new@uni.edu"))

	err := f.SubmitUserDetails(context.Background(), "A", "Sharma")
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "first_name", fieldErr.Field)
	assert.Equal(t, 0, api.registerCalls)

	require.NoError(t, f.SubmitUserDetails(context.Background(), "Asha", "Sharma"))
	assert.Equal(t, StateOTPVerification, f.State())
	assert.Equal(t, 1, api.registerCalls)
}

func TestCountdownDecrementsAndUnlocksResendOnce(t *testing.T) {
	api := &fakeAuthAPI{existsResult: true}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))

	prev := f.Remaining()
	for i := 0; i < 299; i++ {
		f.tick()
		cur := f.Remaining()
		if cur != prev-1 {
			t.Fatalf("remaining jumped from %d to %d", prev, cur)
		}
		prev = cur
		if f.CanResend() {
			t.Fatalf("resend unlocked early at remaining=%d", cur)
		}
	}

	f.tick()
	assert.Equal(t, 0, f.Remaining())
	assert.True(t, f.CanResend(), "resend must unlock exactly when the countdown hits zero")

	// Further ticks are no-ops: remaining never goes negative.
	f.tick()
	assert.Equal(t, 0, f.Remaining())
	assert.True(t, f.CanResend())
}

func TestSubmitCodeRejectsNonSixDigitLocally(t *testing.T) {
	api := &fakeAuthAPI{existsResult: true}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))

	for _, code := range []string{"", "12345", "1234567", "12a456", "……1234"} {
		_, err := f.SubmitCode(context.Background(), code)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr, "code %q should be rejected locally", code)
	}
	assert.Equal(t, 0, api.verifyCalls)
}

func TestSubmitCodeExpiredUnlocksResend(t *testing.T) {
	api := &fakeAuthAPI{
		existsResult: true,
		verifyErr:    &APIError{StatusCode: 401, Message: "OTP has expired, please request a new one"},
	}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))
	require.False(t, f.CanResend())

	_, err := f.SubmitCode(context.Background(), "123456")

	require.ErrorIs(t, err, ErrCodeExpired)
	assert.True(t, f.CanResend(), "server-side expiry must unlock resend immediately")
	assert.Equal(t, StateOTPVerification, f.State())
}

func TestSubmitCodeInvalidKeepsCountdown(t *testing.T) {
	api := &fakeAuthAPI{
		existsResult: true,
		verifyErr:    &APIError{StatusCode: 401, Message: "Invalid OTP code"},
	}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))

	_, err := f.SubmitCode(context.Background(), "000000")

	require.ErrorIs(t, err, ErrCodeInvalid)
	assert.False(t, f.CanResend(), "a wrong code must not unlock resend")
	assert.Equal(t, StateOTPVerification, f.State())
}

func TestSubmitCodeSuccess(t *testing.T) {
	api := &fakeAuthAPI{
		existsResult: true,
		verifyCreds:  &Credentials{AccessToken: "acc", RefreshToken: "ref"},
	}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))

	res, err := f.SubmitCode(context.Background(), "  654321 ")

	require.NoError(t, err)
	assert.Equal(t, "654321", api.lastCode, "code is trimmed before the call")
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, "/dashboard", res.Destination)
	assert.True(t, res.ReplaceHistory, "success navigation must not be reachable via back")
	assert.Equal(t, "acc", res.Credentials.AccessToken)
}

func TestWithDestination(t *testing.T) {
	api := &fakeAuthAPI{existsResult: true, verifyCreds: &Credentials{AccessToken: "acc"}}
	f := NewAuthFlow(api, WithDestination("/papers/42"))
	t.Cleanup(f.Close)

	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))
	res, err := f.SubmitCode(context.Background(), "123456")

	require.NoError(t, err)
	assert.Equal(t, "/papers/42", res.Destination)
}

func TestResendRestartsCountdownOverSamePath(t *testing.T) {
	api := &fakeAuthAPI{existsResult: false}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "new@uni.edu"))
	require.NoError(t, f.SubmitUserDetails(context.Background(), "Asha", "Sharma"))

	for i := 0; i < 300; i++ {
		f.tick()
	}
	require.True(t, f.CanResend())

	require.NoError(t, f.Resend(context.Background()))

	assert.Equal(t, 2, api.registerCalls, "a registration flow resends over the register path")
	assert.Equal(t, 0, api.loginCalls)
	assert.Equal(t, 300, f.Remaining())
	assert.False(t, f.CanResend())
}

// blockingAuthAPI parks selected calls until released so tests can interleave
// Back() with an in-flight request.
type blockingAuthAPI struct {
	fakeAuthAPI
	blockExists bool
	blockLogin  bool
	entered     chan struct{}
	release     chan struct{}
}

func newBlockingAuthAPI() *blockingAuthAPI {
	return &blockingAuthAPI{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (b *blockingAuthAPI) CheckExists(ctx context.Context, email string) (bool, error) {
	if b.blockExists {
		b.entered <- struct{}{}
		<-b.release
	}
	return b.fakeAuthAPI.CheckExists(ctx, email)
}

func (b *blockingAuthAPI) SendLoginOTP(ctx context.Context, email string) error {
	if b.blockLogin {
		b.entered <- struct{}{}
		<-b.release
	}
	return b.fakeAuthAPI.SendLoginOTP(ctx, email)
}

func TestBackDuringExistenceCheckStaysAtEmailEntry(t *testing.T) {
	api := newBlockingAuthAPI()
	api.blockExists = true
	api.existsResult = false
	f := newFlowForTests(t, api)

	done := make(chan error, 1)
	go func() { done <- f.SubmitEmail(context.Background(), "new@uni.edu") }()

	<-api.entered
	f.Back()
	close(api.release)
	require.NoError(t, <-done)

	assert.Equal(t, StateEmailEntry, f.State(), "a check that completes after Back() must not advance the flow")
	assert.Empty(t, f.Email())
}

func TestBackDuringOTPSendStaysAtEmailEntry(t *testing.T) {
	api := newBlockingAuthAPI()
	api.blockLogin = true
	api.existsResult = true
	f := newFlowForTests(t, api)

	done := make(chan error, 1)
	go func() { done <- f.SubmitEmail(context.Background(), "student@uni.edu") }()

	<-api.entered
	f.Back()
	close(api.release)
	require.NoError(t, <-done)

	assert.Equal(t, StateEmailEntry, f.State())
	assert.Equal(t, 0, f.Remaining(), "no countdown starts for an abandoned flow")
	assert.False(t, f.CanResend())
}

func TestBackResetsToEmailEntry(t *testing.T) {
	api := &fakeAuthAPI{existsResult: true}
	f := newFlowForTests(t, api)
	require.NoError(t, f.SubmitEmail(context.Background(), "student@uni.edu"))

	f.Back()

	assert.Equal(t, StateEmailEntry, f.State())
	// Ticks after leaving verification must not do anything.
	f.tick()
	assert.Equal(t, StateEmailEntry, f.State())
}
