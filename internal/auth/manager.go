// Package auth orchestrates registration, login, OTP flows, logout and
// session bootstrap against the remote API, and owns the cached session.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// OTPLength is the number of digit slots in an OTP submission.
const OTPLength = 6

// State is the login-attempt state.
type State int

// Attempt states. An attempt moves Idle → Submitting → back to Idle on
// either outcome; the OTP flow parks in OtpRequested between the request
// and verify phases, and a failed verify returns there so the user can
// retry without re-requesting a code.
const (
	StateIdle State = iota
	StateOtpRequested
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOtpRequested:
		return "otp-requested"
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

var (
	// ErrBusy is returned when a submission is already in flight. The caller
	// disables the triggering control instead of issuing a duplicate.
	ErrBusy = errors.New("another request is in progress")

	// ErrNoOtpRequested is returned when verify is attempted before request.
	ErrNoOtpRequested = errors.New("no code requested yet")

	// ErrOtpEmailChanged is returned when the verify email differs from the
	// one the challenge was issued for. The flow restarts rather than
	// verifying against a stale challenge.
	ErrOtpEmailChanged = errors.New("email changed since the code was sent, request a new code")
)

// BootstrapMode selects how cached sessions are surfaced at startup.
type BootstrapMode int

const (
	// ValidateFirst never returns a session until the server confirms it.
	ValidateFirst BootstrapMode = iota

	// CachedFirst returns the cached session immediately and reconciles
	// against the server afterwards.
	CachedFirst
)

// Manager is the auth session manager. It owns the current session and the
// per-attempt state machine; callers read snapshots and dispatch intents.
type Manager struct {
	svc   service.Service
	store session.Store
	ttl   time.Duration

	mu       sync.Mutex
	state    State
	otpEmail string
	current  *service.UserSession
	inFlight bool
}

// NewManager creates a manager persisting sessions through store with the
// given cache lifetime.
func NewManager(svc service.Service, store session.Store, ttl time.Duration) *Manager {
	return &Manager{svc: svc, store: store, ttl: ttl}
}

// State returns the current attempt state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the session established during this run, if any.
func (m *Manager) Current() (service.UserSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return service.UserSession{}, false
	}
	return *m.current, true
}

// Cached returns the persisted session without contacting the server.
func (m *Manager) Cached() (service.UserSession, bool) {
	var sess service.UserSession
	if !m.store.Read(session.UserDataKey, &sess) || !sess.Authenticated {
		return service.UserSession{}, false
	}
	return sess, true
}

// begin moves the attempt into Submitting, enforcing the single-flight
// guard. rollback is the prior state, where a failed call should land.
func (m *Manager) begin() (rollback State, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return m.state, ErrBusy
	}
	rollback = m.state
	m.inFlight = true
	m.state = StateSubmitting
	return rollback, nil
}

func (m *Manager) finish(sess *service.UserSession, failState State, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if err != nil {
		m.state = failState
		return
	}
	m.state = StateIdle
	m.otpEmail = ""
	m.current = sess
}

// persist stores the normalized session. Called only on success.
func (m *Manager) persist(sess service.UserSession) {
	// Persisting is best-effort: a failed write costs a re-login after the
	// process exits, nothing more.
	_ = m.store.Write(session.UserDataKey, sess, m.ttl)
}

// clearLocal removes every locally cached credential artifact.
func (m *Manager) clearLocal() {
	_ = m.store.Clear(session.UserDataKey)
	_ = m.store.Clear(session.AuthTokenKey)
	_ = m.store.Clear(session.CookiesKey)
}

// Register validates and submits a registration. On success the session is
// persisted and returned.
func (m *Manager) Register(ctx context.Context, reg service.Registration) (service.UserSession, error) {
	if err := ValidateRegistration(reg); err != nil {
		return service.UserSession{}, err
	}
	if _, err := m.begin(); err != nil {
		return service.UserSession{}, err
	}
	sess, err := m.svc.Register(ctx, reg)
	if err != nil {
		m.finish(nil, StateIdle, err)
		return service.UserSession{}, err
	}
	m.persist(sess)
	m.finish(&sess, StateIdle, nil)
	return sess, nil
}

// LoginWithPassword validates and submits a password login.
func (m *Manager) LoginWithPassword(ctx context.Context, email, password string) (service.UserSession, error) {
	if err := ValidateLogin(email, password); err != nil {
		return service.UserSession{}, err
	}
	if _, err := m.begin(); err != nil {
		return service.UserSession{}, err
	}
	sess, err := m.svc.LoginWithPassword(ctx, email, password)
	if err != nil {
		m.finish(nil, StateIdle, err)
		return service.UserSession{}, err
	}
	m.persist(sess)
	m.finish(&sess, StateIdle, nil)
	return sess, nil
}

// RequestOTP asks the server to email a code and parks the attempt in
// OtpRequested, remembering the challenge email.
func (m *Manager) RequestOTP(ctx context.Context, email string) error {
	if err := ValidateOTPRequest(email); err != nil {
		return err
	}
	rollback, err := m.begin()
	if err != nil {
		return err
	}
	// A failed resend rolls back to OtpRequested: the previously issued
	// code is still live and the user may verify against it.
	if err := m.svc.SendOTP(ctx, email); err != nil {
		m.finish(nil, rollback, err)
		return err
	}
	m.mu.Lock()
	m.inFlight = false
	m.state = StateOtpRequested
	m.otpEmail = email
	m.mu.Unlock()
	return nil
}

// ResendOTP re-requests a code for the pending challenge. The collected
// digits belong to the superseded code; the caller must discard them.
func (m *Manager) ResendOTP(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateOtpRequested {
		m.mu.Unlock()
		return ErrNoOtpRequested
	}
	email := m.otpEmail
	m.mu.Unlock()
	return m.RequestOTP(ctx, email)
}

// OTPEmail returns the email the pending challenge was issued for.
func (m *Manager) OTPEmail() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateOtpRequested {
		return "", false
	}
	return m.otpEmail, true
}

// VerifyOTP submits the collected digit slots for the pending challenge.
// A failed verify returns to OtpRequested so the user can retry.
func (m *Manager) VerifyOTP(ctx context.Context, email string, slots []string) (service.UserSession, error) {
	m.mu.Lock()
	if m.state != StateOtpRequested {
		m.mu.Unlock()
		return service.UserSession{}, ErrNoOtpRequested
	}
	if email != m.otpEmail {
		m.mu.Unlock()
		return service.UserSession{}, ErrOtpEmailChanged
	}
	m.mu.Unlock()

	otp, err := JoinOTPDigits(slots)
	if err != nil {
		return service.UserSession{}, err
	}

	if _, err := m.begin(); err != nil {
		return service.UserSession{}, err
	}
	sess, err := m.svc.VerifyOTP(ctx, email, otp)
	if err != nil {
		m.finish(nil, StateOtpRequested, err)
		return service.UserSession{}, err
	}
	m.persist(sess)
	m.finish(&sess, StateIdle, nil)
	return sess, nil
}

// Logout ends the session. The remote call is fail-open (its error is
// returned for reporting) but local state is fail-closed: the cached
// session and token are cleared no matter what the server said.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.svc.Logout(ctx)

	m.clearLocal()
	m.mu.Lock()
	m.current = nil
	m.state = StateIdle
	m.otpEmail = ""
	m.mu.Unlock()
	return err
}

// Bootstrap establishes the session at startup.
//
// ValidateFirst asks the server before surfacing anything. CachedFirst
// surfaces the cached session immediately via onCached, then reconciles;
// if the server disagrees, everything local is cleared and the user is
// logged out. Either way a failed validation ends with an absent session.
func (m *Manager) Bootstrap(ctx context.Context, mode BootstrapMode, onCached func(service.UserSession)) (service.UserSession, error) {
	if mode == CachedFirst && onCached != nil {
		if cached, ok := m.Cached(); ok {
			onCached(cached)
		}
	}

	sess, err := m.svc.ValidateToken(ctx)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			m.clearLocal()
			m.mu.Lock()
			m.current = nil
			m.mu.Unlock()
			return service.UserSession{}, service.ErrUnauthenticated
		}
		// Transport failure: in cached-first mode the cache stays usable,
		// validate-first surfaces the error.
		if mode == CachedFirst {
			if cached, ok := m.Cached(); ok {
				return cached, nil
			}
		}
		return service.UserSession{}, err
	}

	m.persist(sess)
	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()
	return sess, nil
}
