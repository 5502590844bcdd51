// Package session owns the client session and the course catalog.
//
// The Manager is the only component allowed to mutate session state. The
// router and the presentational layer get read-only snapshots plus the
// operation methods below — nothing else writes the current user, the
// enrollment set, or the catalog.
//
// PERSISTENCE MODEL:
// Every mutation is mirrored into the store best-effort. A failed write is
// logged and the in-memory state stays authoritative; the operation still
// succeeds for its caller. Hydration is the opposite: anything unreadable
// or unparseable in the store clears the whole store and falls back to the
// signed-out initial state, so the manager never runs on partially corrupt
// data.
//
// The seed catalog is compiled in and re-seeded every start. Only authored
// courses are written to the courses slot, and nothing reads that slot
// back — the slot exists for external consumers. This asymmetry is
// deliberate product behaviour, preserved as-is.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/thakurAarusH/skillforge/internal/apperror"
	"github.com/thakurAarusH/skillforge/internal/auth"
	"github.com/thakurAarusH/skillforge/internal/model"
	"github.com/thakurAarusH/skillforge/internal/store"
)

// DefaultLoginDelay is the simulated network round-trip for login.
const DefaultLoginDelay = 1500 * time.Millisecond

// storedSession is the envelope persisted under the user slot. The token
// travels with the user so a hydrated session can be checked for tampering.
type storedSession struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Config carries the Manager's dependencies. Store, Tokens, and Logger are
// required; Clock and LoginDelay default to the system clock and
// DefaultLoginDelay when zero.
type Config struct {
	Store      store.Store
	Tokens     *auth.TokenService
	Logger     *slog.Logger
	Clock      Clock
	LoginDelay time.Duration
}

// Manager is the session and catalog state manager.
//
// All fields behind mu. Operations are atomic: the mutex serializes them,
// matching the one-event-at-a-time model the product is specified against.
type Manager struct {
	store  store.Store
	tokens *auth.TokenService
	logger *slog.Logger
	clock  Clock
	delay  time.Duration

	mu           sync.Mutex
	user         *model.User
	token        string
	pendingRole  model.Role
	loginPending bool
	enrollments  []string
	catalog      []model.Course
	seedLen      int // catalog[:seedLen] are seed courses, the rest authored
}

// NewManager builds a Manager and hydrates it from the store.
func NewManager(ctx context.Context, cfg Config) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}
	delay := cfg.LoginDelay
	if delay <= 0 {
		delay = DefaultLoginDelay
	}

	seed := model.SeedCourses()
	m := &Manager{
		store:   cfg.Store,
		tokens:  cfg.Tokens,
		logger:  cfg.Logger,
		clock:   clock,
		delay:   delay,
		catalog: seed,
		seedLen: len(seed),
	}
	m.hydrate(ctx)
	return m
}

// hydrate restores the user and enrollment set from the store. Any read or
// parse failure resets the whole store: partially corrupt state is worse
// than starting signed out.
func (m *Manager) hydrate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok, err := m.store.Get(ctx, store.KeyUser)
	if err != nil {
		m.logger.Warn("session hydration read failed",
			slog.String("slot", store.KeyUser),
			slog.String("error", err.Error()),
		)
		m.resetLocked(ctx)
		return
	}
	if ok {
		var stored storedSession
		if err := json.Unmarshal(raw, &stored); err != nil {
			m.logger.Warn("stored session did not parse, resetting store",
				slog.String("error", err.Error()),
			)
			m.resetLocked(ctx)
			return
		}
		subject, err := m.tokens.Validate(stored.Token, m.clock.Now())
		if err != nil || subject != stored.User.ID || !stored.User.Role.Valid() {
			m.logger.Warn("stored session failed verification, resetting store",
				slog.String("userId", stored.User.ID),
			)
			m.resetLocked(ctx)
			return
		}
		user := stored.User
		m.user = &user
		m.token = stored.Token
	}

	raw, ok, err = m.store.Get(ctx, store.KeyEnrollments)
	if err != nil {
		m.logger.Warn("session hydration read failed",
			slog.String("slot", store.KeyEnrollments),
			slog.String("error", err.Error()),
		)
		m.resetLocked(ctx)
		return
	}
	if ok {
		var enrollments []string
		if err := json.Unmarshal(raw, &enrollments); err != nil {
			m.logger.Warn("stored enrollments did not parse, resetting store",
				slog.String("error", err.Error()),
			)
			m.resetLocked(ctx)
			return
		}
		m.enrollments = enrollments
	}

	if m.user != nil {
		m.logger.Info("session hydrated",
			slog.String("userId", m.user.ID),
			slog.Int("enrollments", len(m.enrollments)),
		)
	}
}

// resetLocked clears the in-memory session and attempts to clear every
// store slot. Callers hold mu.
func (m *Manager) resetLocked(ctx context.Context) {
	m.user = nil
	m.token = ""
	m.enrollments = nil
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("store clear failed",
			slog.String("error", apperror.Storage("clear", err).Error()),
		)
	}
}

// SelectRole records the role the next sign-in or sign-up will use. It does
// not create a user.
func (m *Manager) SelectRole(role model.Role) error {
	if !role.Valid() {
		return apperror.ValidationFailed("role", "role must be student or teacher")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingRole = role
	return nil
}

// BeginLogin validates the credentials and schedules the simulated
// round-trip. Validation errors return synchronously; success resolves on
// the returned LoginAttempt after the configured delay, exactly once.
//
// Only one attempt may be in flight — a second BeginLogin while one is
// pending is rejected, which is how the "disable resubmission while
// loading" rule is enforced at the core rather than trusted to the UI.
func (m *Manager) BeginLogin(creds Credentials) (*LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loginPending {
		return nil, apperror.Conflict("a login attempt is already pending")
	}

	creds.Name = strings.TrimSpace(creds.Name)
	creds.Email = strings.TrimSpace(creds.Email)

	if creds.Email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if creds.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if creds.SignUp && creds.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if !m.pendingRole.Valid() {
		return nil, apperror.ValidationFailed("role", "no role selected")
	}

	attempt := newLoginAttempt()
	m.loginPending = true
	m.clock.AfterFunc(m.delay, func() {
		m.finishLogin(attempt, creds)
	})
	return attempt, nil
}

// finishLogin runs when the simulated delay elapses. It constructs the
// user, activates the session, persists it, and resolves the attempt.
func (m *Manager) finishLogin(attempt *LoginAttempt, creds Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := creds.Name
	if name == "" {
		// Sign-in without a name: derive one from the email local part.
		name = strings.SplitN(creds.Email, "@", 2)[0]
	}

	now := m.clock.Now()
	user := model.User{
		ID:         xid.New().String(),
		Name:       name,
		Email:      creds.Email,
		Role:       m.pendingRole,
		JoinedDate: now,
	}

	token, err := m.tokens.Mint(user.ID, now)
	if err != nil {
		// Signing with a static HMAC secret does not realistically fail;
		// if it somehow does, the session simply won't survive a restart.
		m.logger.Warn("session token mint failed", slog.String("error", err.Error()))
	}

	m.user = &user
	m.token = token
	m.enrollments = nil
	m.loginPending = false

	// A login can land on top of an existing session. The fresh user starts
	// with an empty enrollment set, so the persisted slot must go too or the
	// next hydration would attach the previous user's enrollments.
	ctx := context.Background()
	if err := m.store.Delete(ctx, store.KeyEnrollments); err != nil {
		m.logger.Warn("storage delete failed",
			slog.String("slot", store.KeyEnrollments),
			slog.String("error", apperror.Storage("delete", err).Error()),
		)
	}
	m.persistSessionLocked(ctx)

	m.logger.Info("login resolved",
		slog.String("userId", user.ID),
		slog.String("role", string(user.Role)),
		slog.Bool("signUp", creds.SignUp),
	)

	attempt.resolve(user)
}

// Logout clears the session and attempts to clear the store. Store
// failures are logged, never surfaced — the in-memory clear always happens.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user != nil {
		m.logger.Info("logout", slog.String("userId", m.user.ID))
	}
	m.pendingRole = ""
	m.resetLocked(ctx)
}

// ProfileUpdate is the whitelist of user fields a profile edit may touch.
// Nil fields are left unchanged. Role is deliberately not representable
// here — it is fixed at signup.
type ProfileUpdate struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Bio          *string `json:"bio"`
	StatusTag    *string `json:"statusTag"`
	ProfileImage *string `json:"profileImage"`
}

// UpdateUser merges the update into the current user, persists the result
// best-effort, and returns the merged user.
func (m *Manager) UpdateUser(ctx context.Context, update ProfileUpdate) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return model.User{}, apperror.Forbidden("no active session")
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return model.User{}, apperror.ValidationFailed("name", "name cannot be empty")
		}
		m.user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		if strings.TrimSpace(*update.Email) == "" {
			return model.User{}, apperror.ValidationFailed("email", "email cannot be empty")
		}
		m.user.Email = strings.TrimSpace(*update.Email)
	}
	if update.Bio != nil {
		m.user.Bio = *update.Bio
	}
	if update.StatusTag != nil {
		m.user.StatusTag = *update.StatusTag
	}
	if update.ProfileImage != nil {
		m.user.ProfileImage = *update.ProfileImage
	}

	m.persistSessionLocked(ctx)
	return *m.user, nil
}

// Enroll adds courseID to the enrollment set. Re-enrolling is a no-op that
// still succeeds — the set never holds duplicates.
func (m *Manager) Enroll(ctx context.Context, courseID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil, apperror.Forbidden("no active session")
	}
	if courseID == "" {
		return nil, apperror.ValidationFailed("courseId", "course id is required")
	}

	for _, id := range m.enrollments {
		if id == courseID {
			return append([]string(nil), m.enrollments...), nil
		}
	}

	m.enrollments = append(m.enrollments, courseID)
	m.persistEnrollmentsLocked(ctx)

	m.logger.Info("enrolled",
		slog.String("userId", m.user.ID),
		slog.String("courseId", courseID),
	)
	return append([]string(nil), m.enrollments...), nil
}

// CreateCourse validates the draft, assigns identity and zeroed aggregates,
// appends the course to the catalog, and persists the authored-course list
// best-effort. Only teachers author courses.
func (m *Manager) CreateCourse(ctx context.Context, draft model.CourseDraft) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return model.Course{}, apperror.Forbidden("no active session")
	}
	if m.user.Role != model.RoleTeacher {
		return model.Course{}, apperror.Forbidden("only teachers can create courses")
	}

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Duration = strings.TrimSpace(draft.Duration)

	if draft.Title == "" {
		return model.Course{}, apperror.ValidationFailed("title", "title is required")
	}
	if draft.Description == "" {
		return model.Course{}, apperror.ValidationFailed("description", "description is required")
	}
	if draft.Duration == "" {
		return model.Course{}, apperror.ValidationFailed("duration", "duration is required")
	}
	if draft.Price < 0 {
		return model.Course{}, apperror.ValidationFailed("price", "price cannot be negative")
	}
	if draft.Level == "" {
		draft.Level = model.LevelBeginner
	}
	if !draft.Level.Valid() {
		return model.Course{}, apperror.ValidationFailed("level", "unknown level")
	}
	if draft.Category == "" {
		draft.Category = model.CategoryProgramming
	}
	if !draft.Category.Valid() {
		return model.Course{}, apperror.ValidationFailed("category", "unknown category")
	}

	course := model.Course{
		ID:           xid.New().String(),
		Title:        draft.Title,
		Description:  draft.Description,
		Price:        draft.Price,
		Instructor:   m.user.Name,
		InstructorID: m.user.ID,
		Duration:     draft.Duration,
		Level:        draft.Level,
		Category:     draft.Category,
		Thumbnail:    model.CourseThumbnails[rand.IntN(len(model.CourseThumbnails))],
		Reviews:      []model.Review{},
	}

	m.catalog = append(m.catalog, course)
	m.persistCoursesLocked(ctx)

	m.logger.Info("course created",
		slog.String("courseId", course.ID),
		slog.String("instructorId", course.InstructorID),
		slog.String("title", course.Title),
	)
	return course, nil
}

// --- snapshot accessors -------------------------------------------------

// SignedIn reports whether a user session is active.
func (m *Manager) SignedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// CurrentUser returns a copy of the active user, if any.
func (m *Manager) CurrentUser() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// PendingRole returns the role recorded by SelectRole, "" if none.
func (m *Manager) PendingRole() model.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingRole
}

// LoginPending reports whether a login attempt is awaiting resolution.
func (m *Manager) LoginPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginPending
}

// Catalog returns a copy of the full course catalog, seed courses first,
// authored courses in creation order after them.
func (m *Manager) Catalog() []model.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Course(nil), m.catalog...)
}

// SearchCatalog filters the catalog by a case-insensitive title substring
// and a category. CategoryAll (or "") matches every category.
func (m *Manager) SearchCatalog(query string, category model.Category) []model.Course {
	m.mu.Lock()
	defer m.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Course, 0, len(m.catalog))
	for _, c := range m.catalog {
		if query != "" && !strings.Contains(strings.ToLower(c.Title), query) {
			continue
		}
		if category != "" && category != model.CategoryAll && c.Category != category {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Enrollments returns a copy of the enrolled course-ID list in enrollment
// order.
func (m *Manager) Enrollments() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.enrollments...)
}

// EnrolledCourses resolves the enrollment set against the catalog.
func (m *Manager) EnrolledCourses() []model.Course {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := make(map[string]model.Course, len(m.catalog))
	for _, c := range m.catalog {
		byID[c.ID] = c
	}
	out := make([]model.Course, 0, len(m.enrollments))
	for _, id := range m.enrollments {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// StudentStats projects the current user's dashboard numbers from the
// enrollment set.
func (m *Manager) StudentStats() model.StudentStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.ComputeStudentStats(len(m.enrollments))
}

// TeacherStats aggregates over the courses the current user authored.
func (m *Manager) TeacherStats() model.TeacherStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return model.TeacherStats{}
	}
	var authored []model.Course
	for _, c := range m.catalog {
		if c.InstructorID == m.user.ID {
			authored = append(authored, c)
		}
	}
	return model.ComputeTeacherStats(authored)
}

// --- persistence helpers ------------------------------------------------
//
// All writes are best-effort: failures are logged at Warn and the operation
// that triggered the write still succeeds. Callers hold mu.

func (m *Manager) persistSessionLocked(ctx context.Context) {
	raw, err := json.Marshal(storedSession{User: *m.user, Token: m.token})
	if err != nil {
		m.logger.Warn("session marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := m.store.Set(ctx, store.KeyUser, raw); err != nil {
		m.logger.Warn("storage write failed",
			slog.String("slot", store.KeyUser),
			slog.String("error", apperror.Storage("set", err).Error()),
		)
	}
}

func (m *Manager) persistEnrollmentsLocked(ctx context.Context) {
	raw, err := json.Marshal(m.enrollments)
	if err != nil {
		m.logger.Warn("enrollments marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := m.store.Set(ctx, store.KeyEnrollments, raw); err != nil {
		m.logger.Warn("storage write failed",
			slog.String("slot", store.KeyEnrollments),
			slog.String("error", apperror.Storage("set", err).Error()),
		)
	}
}

func (m *Manager) persistCoursesLocked(ctx context.Context) {
	// Authored courses only; the seed catalog never round-trips.
	raw, err := json.Marshal(m.catalog[m.seedLen:])
	if err != nil {
		m.logger.Warn("courses marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := m.store.Set(ctx, store.KeyCourses, raw); err != nil {
		m.logger.Warn("storage write failed",
			slog.String("slot", store.KeyCourses),
			slog.String("error", apperror.Storage("set", err).Error()),
		)
	}
}
