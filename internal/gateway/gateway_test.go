package gateway

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// fixedNow pins gateway time so rebate windows and receipt paths are stable.
var fixedNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

// fakeStore backs every storage interface in-memory, the same way the
// Postgres store backs them all with one type.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]models.User
	profiles      map[uuid.UUID]models.Profile
	condos        map[uuid.UUID]models.Condo
	condoStats    []models.CondoStats
	claims        []models.Claim
	details       []models.ClaimDetails
	summaries     []models.MonthlySummary
	registrations map[uuid.UUID]models.Registration
	stats         models.DashboardStats

	insertClaimErr error
	approvedTotal  decimal.Decimal
	approvedSince  time.Time
	lastUpdate     storage.ClaimStatusUpdate
}

var (
	_ storage.UserStore         = (*fakeStore)(nil)
	_ storage.ProfileStore      = (*fakeStore)(nil)
	_ storage.ClaimStore        = (*fakeStore)(nil)
	_ storage.CondoStore        = (*fakeStore)(nil)
	_ storage.RegistrationStore = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]models.User),
		profiles:      make(map[uuid.UUID]models.Profile),
		condos:        make(map[uuid.UUID]models.Condo),
		registrations: make(map[uuid.UUID]models.Registration),
	}
}

func (s *fakeStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.CreatedAt = fixedNow
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *fakeStore) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return profile, nil
}

func (s *fakeStore) InsertClaim(_ context.Context, claim models.Claim) (models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertClaimErr != nil {
		return models.Claim{}, s.insertClaimErr
	}
	claim.CreatedAt = fixedNow
	s.claims = append(s.claims, claim)
	return claim, nil
}

func (s *fakeStore) ClaimsForUser(_ context.Context, userID uuid.UUID) ([]models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Claim
	for _, claim := range s.claims {
		if claim.UserID == userID {
			out = append(out, claim)
		}
	}
	return out, nil
}

func (s *fakeStore) ClaimsWithDetails(_ context.Context, filters storage.ClaimFilters) ([]models.ClaimDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ClaimDetails
	for _, detail := range s.details {
		if filters.Status != "" && filters.Status != "all" && string(detail.Status) != filters.Status {
			continue
		}
		if filters.Condo != "" && detail.CondoName != filters.Condo {
			continue
		}
		out = append(out, detail)
	}
	return out, nil
}

func (s *fakeStore) UpdateClaimStatus(_ context.Context, claimID uuid.UUID, update storage.ClaimStatusUpdate) (models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdate = update
	for i, claim := range s.claims {
		if claim.ID == claimID {
			claim.Status = update.Status
			claim.ReviewedBy = &update.ReviewedBy
			claim.ReviewedAt = &update.ReviewedAt
			claim.RejectionReason = update.RejectionReason
			s.claims[i] = claim
			return claim, nil
		}
	}
	return models.Claim{}, storage.ErrNotFound
}

func (s *fakeStore) MonthlySummary(_ context.Context, _ uuid.UUID) ([]models.MonthlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries, nil
}

func (s *fakeStore) ApprovedRebateTotal(_ context.Context, _ uuid.UUID, since time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approvedSince = since
	return s.approvedTotal, nil
}

func (s *fakeStore) DashboardStats(_ context.Context) (models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, nil
}

func (s *fakeStore) AllCondos(_ context.Context) ([]models.Condo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Condo
	for _, condo := range s.condos {
		out = append(out, condo)
	}
	return out, nil
}

func (s *fakeStore) CondoByID(_ context.Context, id uuid.UUID) (models.Condo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	condo, ok := s.condos[id]
	if !ok {
		return models.Condo{}, storage.ErrNotFound
	}
	return condo, nil
}

func (s *fakeStore) CondoStats(_ context.Context) ([]models.CondoStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.condoStats, nil
}

func (s *fakeStore) CreateRegistration(_ context.Context, reg models.Registration) (models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg.CreatedAt = fixedNow
	s.registrations[reg.ID] = reg
	return reg, nil
}

func (s *fakeStore) PendingRegistrations(_ context.Context) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Registration
	for _, reg := range s.registrations {
		if reg.Status == models.RegistrationPending {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (s *fakeStore) ApproveRegistration(_ context.Context, id uuid.UUID, reviewedBy uuid.UUID, reviewedAt time.Time) (models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return models.Registration{}, storage.ErrNotFound
	}
	reg.Status = models.RegistrationApproved
	reg.ReviewedBy = &reviewedBy
	reg.ReviewedAt = &reviewedAt
	s.registrations[id] = reg
	return reg, nil
}

// fakeBlob records uploads and fails on demand.
type fakeBlob struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (b *fakeBlob) Upload(_ context.Context, path, _ string, body io.Reader) error {
	if b.err != nil {
		return b.err
	}
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	b.mu.Lock()
	b.uploads = append(b.uploads, path)
	b.mu.Unlock()
	return nil
}

func (b *fakeBlob) PublicURL(path string) string {
	return "https://receipts.test/" + path
}

func newTestGateway(store *fakeStore, blobStore *fakeBlob) *Gateway {
	g := New(Deps{
		Users:         store,
		Profiles:      store,
		Claims:        store,
		Condos:        store,
		Registrations: store,
		Receipts:      blobStore,
		Tokens:        auth.NewTokenManager("test-secret", "rebate-portal-test", time.Hour),
		Revoked:       auth.NewMemoryBlacklist(),
	})
	g.now = func() time.Time { return fixedNow }
	return g
}

// seedResident adds a condo with a 15% rebate rate and a resident living
// there, returning the user and a context carrying their principal.
func seedResident(store *fakeStore) (models.User, context.Context) {
	condo := models.Condo{
		ID:         uuid.New(),
		Name:       "Marina Heights",
		Tier:       "premium",
		RebateRate: decimal.RequireFromString("0.15"),
	}
	store.condos[condo.ID] = condo

	user := models.User{
		ID:            uuid.New(),
		Email:         "resident@example.com",
		Name:          "Lena Ortiz",
		VehicleNumber: "SGX1234A",
		Role:          models.RoleResident,
	}
	store.users[user.ID] = user
	store.profiles[user.ID] = models.Profile{ID: user.ID, CondoID: condo.ID, Condo: condo}

	ctx := auth.WithPrincipal(context.Background(), auth.Principal{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Vehicle: user.VehicleNumber,
		Role:    user.Role,
	})
	return user, ctx
}

// adminContext returns a context carrying an admin principal.
func adminContext() (uuid.UUID, context.Context) {
	adminID := uuid.New()
	ctx := auth.WithPrincipal(context.Background(), auth.Principal{
		UserID: adminID,
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
	})
	return adminID, ctx
}
