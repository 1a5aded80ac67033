package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/gate"
	"github.com/panelhub/panel-link-service/internal/infrastructure/metrics"
	"github.com/panelhub/panel-link-service/internal/qc"
	"github.com/panelhub/panel-link-service/internal/qc/detectors"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
)

var testMetrics = metrics.NewLinkMetrics()

// ============= FAKES =============

type fakeLinkStore struct {
	mu      sync.Mutex
	byID    map[string]*domain.SurveyLink
	byToken map[string]*domain.SurveyLink

	hasQuota   bool
	quotaLimit int64
	quotaUsed  int64

	completeCalls int

	// onUpdate runs at the start of UpdateFromStatus; tests use it to
	// interleave a concurrent transition
	onUpdate func()
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{
		byID:    make(map[string]*domain.SurveyLink),
		byToken: make(map[string]*domain.SurveyLink),
	}
}

func copyLink(link *domain.SurveyLink) *domain.SurveyLink {
	c := *link
	return &c
}

func (s *fakeLinkStore) CreateLink(link *domain.SurveyLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := copyLink(link)
	s.byID[c.ID] = c
	s.byToken[c.Token] = c
	return nil
}

func (s *fakeLinkStore) GetLinkByID(linkID string) (*domain.SurveyLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.byID[linkID]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return copyLink(link), nil
}

func (s *fakeLinkStore) GetLinkByToken(token string) (*domain.SurveyLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.byToken[token]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return copyLink(link), nil
}

func (s *fakeLinkStore) GetLinksByProjectID(projectID string, page, limit int64) ([]*domain.SurveyLink, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SurveyLink
	for _, link := range s.byID {
		if link.ProjectID == projectID {
			out = append(out, copyLink(link))
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeLinkStore) ListStaleClicked(olderThan time.Time) ([]*domain.SurveyLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SurveyLink
	for _, link := range s.byID {
		if link.Status == domain.StatusClicked && link.ClickedAt != nil && link.ClickedAt.Before(olderThan) {
			out = append(out, copyLink(link))
		}
	}
	return out, nil
}

func (s *fakeLinkStore) UpdateFromStatus(link *domain.SurveyLink, expected domain.LinkStatus) (bool, error) {
	if s.onUpdate != nil {
		s.onUpdate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[link.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	c := copyLink(link)
	s.byID[c.ID] = c
	s.byToken[c.Token] = c
	return true, nil
}

func (s *fakeLinkStore) UpdateVendor(linkID, vendorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[linkID]
	if !ok {
		return domain.ErrLinkNotFound
	}
	stored.VendorID = vendorID
	stored.VendorCorrected = true
	return nil
}

func (s *fakeLinkStore) SetManualReview(linkID string, review *domain.ManualReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[linkID]
	if !ok {
		return domain.ErrLinkNotFound
	}
	stored.ManualReview = review
	return nil
}

func (s *fakeLinkStore) CompleteWithQuota(link *domain.SurveyLink) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeCalls++

	stored, ok := s.byID[link.ID]
	if !ok {
		return false, domain.ErrLinkNotFound
	}
	if stored.Status != domain.StatusClicked {
		return false, domain.ErrInvalidLinkState
	}

	completed := true
	if s.hasQuota {
		if s.quotaUsed < s.quotaLimit {
			s.quotaUsed++
		} else {
			completed = false
		}
	}

	now := time.Now()
	link.Status = domain.StatusCompleted
	if !completed {
		link.Status = domain.StatusQuotaFull
	}
	link.CompletedAt = &now

	c := copyLink(link)
	s.byID[c.ID] = c
	s.byToken[c.Token] = c
	return completed, nil
}

type fakeProjectStore struct {
	projects map[string]*domain.Project
	vendors  map[string]*domain.Vendor
}

func (s *fakeProjectStore) GetProjectByID(projectID string) (*domain.Project, error) {
	project, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *fakeProjectStore) GetVendorByID(vendorID string) (*domain.Vendor, error) {
	vendor, ok := s.vendors[vendorID]
	if !ok {
		return nil, domain.ErrVendorNotFound
	}
	return vendor, nil
}

func (s *fakeProjectStore) GetVendorsByProjectID(projectID string) ([]*domain.Vendor, error) {
	var out []*domain.Vendor
	for _, v := range s.vendors {
		if v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeGeoResolver struct {
	mu      sync.Mutex
	calls   int
	network *domain.NetworkContext
}

func (r *fakeGeoResolver) Resolve(ctx context.Context, ip string) *domain.NetworkContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.network == nil {
		return &domain.NetworkContext{IP: ip, Unavailable: true}
	}
	c := *r.network
	c.IP = ip
	return &c
}

func (r *fakeGeoResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeQuotaStore struct {
	counters map[string]*domain.QuotaCounter
}

func (s *fakeQuotaStore) CreateCounter(counter *domain.QuotaCounter) error {
	if s.counters == nil {
		s.counters = make(map[string]*domain.QuotaCounter)
	}
	s.counters[counter.ProjectID+"/"+counter.VendorID] = counter
	return nil
}

func (s *fakeQuotaStore) GetCounter(projectID, vendorID string) (*domain.QuotaCounter, error) {
	counter, ok := s.counters[projectID+"/"+vendorID]
	if !ok {
		return nil, domain.ErrQuotaPoolNotFound
	}
	return counter, nil
}

func (s *fakeQuotaStore) TryIncrement(projectID, vendorID string) (*domain.QuotaCounter, bool, error) {
	counter, err := s.GetCounter(projectID, vendorID)
	if err != nil {
		return nil, true, nil
	}
	if counter.Current >= counter.Limit {
		return nil, false, nil
	}
	counter.Current++
	return counter, true, nil
}

type nilReputation struct{}

func (nilReputation) Lookup(ctx context.Context, dom string) (*domain.DomainVerdict, error) {
	return nil, nil
}

// ============= SETUP =============

func newTestLinkUsecase(store *fakeLinkStore, projects *fakeProjectStore, geo *fakeGeoResolver) *DefaultLinkUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := qc.NewScoringEngine(qc.DefaultScoringPolicy(), logger)
	engine.RegisterDetector(detectors.NewSpeedDetector())
	engine.RegisterDetector(detectors.NewHoneypotDetector())
	engine.RegisterDetector(detectors.NewFlatlineDetector())
	engine.RegisterDetector(detectors.NewGeneratedTextDetector())
	engine.RegisterDetector(detectors.NewBehavioralDetector())
	engine.RegisterDetector(detectors.NewDomainReputationDetector(nilReputation{}))

	return NewDefaultLinkUsecase(
		store,
		projects,
		&fakeQuotaStore{},
		geo,
		gate.NewGate(logger),
		engine,
		nil,
		testMetrics,
		logger,
	)
}

func defaultProjects() *fakeProjectStore {
	return &fakeProjectStore{
		projects: map[string]*domain.Project{
			"project-1": {ID: "project-1", Name: "brand tracker", IsActive: true, AnonymizedPolicy: domain.AnonymizedWarn},
		},
		vendors: map[string]*domain.Vendor{
			"vendor-1": {ID: "vendor-1", ProjectID: "project-1", IsActive: true},
			"vendor-2": {ID: "vendor-2", ProjectID: "project-1", IsActive: true},
			"foreign":  {ID: "foreign", ProjectID: "project-2", IsActive: true},
		},
	}
}

func seedLink(store *fakeLinkStore, id, token string, status domain.LinkStatus) *domain.SurveyLink {
	link := &domain.SurveyLink{
		ID:        id,
		ProjectID: "project-1",
		VendorID:  "vendor-1",
		RespID:    "al001",
		Token:     token,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if status != domain.StatusUnused {
		now := time.Now()
		link.ClickedAt = &now
		link.NetworkContext = &domain.NetworkContext{IP: "203.0.113.7", CountryCode: "US"}
	}
	_ = store.CreateLink(link)
	return link
}

func cleanCompletion(token string) *linkdto.RegisterCompletionInput {
	return &linkdto.RegisterCompletionInput{
		Token: token,
		Payload: &domain.ResponsePayload{Answers: []domain.Answer{
			{QuestionID: "q1", Kind: domain.AnswerChoice, Value: "2"},
			{QuestionID: "q2", Kind: domain.AnswerChoice, Value: "5"},
			{QuestionID: "q3", Kind: domain.AnswerChoice, Value: "1"},
			{QuestionID: "q4", Kind: domain.AnswerChoice, Value: "4"},
		}},
		Metadata: &domain.SubmissionMetadata{
			Timing: &domain.ResponseTiming{TotalSeconds: 320, QuestionCount: 10},
		},
	}
}

// ============= CLICK =============

func TestRegisterClick_FirstClick(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusUnused)
	geo := &fakeGeoResolver{network: &domain.NetworkContext{CountryCode: "US"}}
	uc := newTestLinkUsecase(store, defaultProjects(), geo)

	out, err := uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{
		Token:     "tok-1",
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64)",
	})
	require.NoError(t, err)
	assert.True(t, out.Decision.Allowed)
	assert.Equal(t, domain.StatusClicked, out.Link.Status)
	require.NotNil(t, out.Link.ClickedAt)
	require.NotNil(t, out.Link.NetworkContext)
	assert.Equal(t, "US", out.Link.NetworkContext.CountryCode)

	stored, err := store.GetLinkByID("link-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClicked, stored.Status)
	require.NotNil(t, stored.NetworkContext)
	assert.Equal(t, "Mozilla/5.0 (X11; Linux x86_64)", stored.NetworkContext.UserAgent)
	assert.Equal(t, 1, geo.callCount())
}

func TestRegisterClick_SecondClickIsIdempotent(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusUnused)
	geo := &fakeGeoResolver{network: &domain.NetworkContext{CountryCode: "US", IsVPN: true}}
	uc := newTestLinkUsecase(store, defaultProjects(), geo)

	first, err := uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{Token: "tok-1", IP: "203.0.113.7"})
	require.NoError(t, err)
	require.True(t, first.Decision.Allowed)
	require.Contains(t, first.Decision.Flags, gate.FlagAnonymizedWarn)

	second, err := uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{Token: "tok-1", IP: "198.51.100.9"})
	require.NoError(t, err)
	assert.True(t, second.Decision.Allowed)
	assert.Equal(t, domain.StatusClicked, second.Link.Status)
	// warnings captured at first click survive the replay
	assert.Contains(t, second.Decision.Flags, gate.FlagAnonymizedWarn)
	// the gate ran exactly once
	assert.Equal(t, 1, geo.callCount())
}

func TestRegisterClick_GeoDenied(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusUnused)
	geo := &fakeGeoResolver{network: &domain.NetworkContext{CountryCode: "BR"}}
	projects := defaultProjects()
	projects.projects["project-1"].AllowedCountries = []string{"US", "CA"}
	uc := newTestLinkUsecase(store, projects, geo)

	out, err := uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{Token: "tok-1", IP: "203.0.113.7"})
	require.NoError(t, err)
	assert.False(t, out.Decision.Allowed)
	assert.Equal(t, gate.ReasonGeoRestricted, out.Decision.Reason)
	assert.Equal(t, domain.StatusDisqualified, out.Link.Status)

	// the link is terminal now
	_, err = uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{Token: "tok-1", IP: "203.0.113.7"})
	assert.ErrorIs(t, err, domain.ErrInvalidLinkState)
}

func TestRegisterClick_UnknownToken(t *testing.T) {
	uc := newTestLinkUsecase(newFakeLinkStore(), defaultProjects(), &fakeGeoResolver{})

	_, err := uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{Token: "missing", IP: "203.0.113.7"})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestRegisterClick_LostRaceServesWinner(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusUnused)
	geo := &fakeGeoResolver{network: &domain.NetworkContext{CountryCode: "US"}}
	uc := newTestLinkUsecase(store, defaultProjects(), geo)

	// a concurrent click lands between the read and the conditional write
	store.onUpdate = func() {
		store.onUpdate = nil
		store.mu.Lock()
		now := time.Now()
		stored := store.byID["link-1"]
		stored.Status = domain.StatusClicked
		stored.ClickedAt = &now
		stored.NetworkContext = &domain.NetworkContext{IP: "198.51.100.9", CountryCode: "US"}
		store.mu.Unlock()
	}

	out, err := uc.RegisterClick(context.Background(), &linkdto.RegisterClickInput{Token: "tok-1", IP: "203.0.113.7"})
	require.NoError(t, err)
	assert.True(t, out.Decision.Allowed)
	assert.Equal(t, domain.StatusClicked, out.Link.Status)
	assert.Equal(t, "198.51.100.9", out.Link.NetworkContext.IP)
}

// ============= COMPLETION =============

func TestRegisterCompletion_Completed(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusClicked)
	uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

	out, err := uc.RegisterCompletion(context.Background(), cleanCompletion("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Link.Status)
	require.NotNil(t, out.QCResult)
	assert.Equal(t, domain.RecommendApprove, out.QCResult.Recommendation)
	require.NotNil(t, out.Link.CompletedAt)

	stored, err := store.GetLinkByID("link-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	require.NotNil(t, stored.QCResult)
}

func TestRegisterCompletion_RequiresClickedState(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusUnused)
	seedLink(store, "link-2", "tok-2", domain.StatusCompleted)
	uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

	_, err := uc.RegisterCompletion(context.Background(), cleanCompletion("tok-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidLinkState)

	_, err = uc.RegisterCompletion(context.Background(), cleanCompletion("tok-2"))
	assert.ErrorIs(t, err, domain.ErrInvalidLinkState)

	assert.Zero(t, store.completeCalls)
	assert.Zero(t, store.quotaUsed)
}

func TestRegisterCompletion_QuotaFull(t *testing.T) {
	store := newFakeLinkStore()
	store.hasQuota = true
	store.quotaLimit = 5
	store.quotaUsed = 5
	seedLink(store, "link-1", "tok-1", domain.StatusClicked)
	uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

	out, err := uc.RegisterCompletion(context.Background(), cleanCompletion("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuotaFull, out.Link.Status)
	require.NotNil(t, out.QCResult)
	assert.Equal(t, int64(5), store.quotaUsed)
}

func TestRegisterCompletion_LastSlotRace(t *testing.T) {
	store := newFakeLinkStore()
	store.hasQuota = true
	store.quotaLimit = 1
	seedLink(store, "link-1", "tok-1", domain.StatusClicked)
	seedLink(store, "link-2", "tok-2", domain.StatusClicked)
	uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

	var wg sync.WaitGroup
	results := make([]domain.LinkStatus, 2)
	for i, token := range []string{"tok-1", "tok-2"} {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			out, err := uc.RegisterCompletion(context.Background(), cleanCompletion(token))
			if assert.NoError(t, err) {
				results[i] = out.Link.Status
			}
		}(i, token)
	}
	wg.Wait()

	assert.ElementsMatch(t,
		[]domain.LinkStatus{domain.StatusCompleted, domain.StatusQuotaFull}, results)
	assert.Equal(t, int64(1), store.quotaUsed)
}

func TestRegisterCompletion_QCExclude(t *testing.T) {
	store := newFakeLinkStore()
	store.hasQuota = true
	store.quotaLimit = 100
	seedLink(store, "link-1", "tok-1", domain.StatusClicked)
	uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

	input := cleanCompletion("tok-1")
	input.Metadata.Timing = &domain.ResponseTiming{TotalSeconds: 12, QuestionCount: 10}

	out, err := uc.RegisterCompletion(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisqualified, out.Link.Status)
	require.NotNil(t, out.QCResult)
	assert.Equal(t, domain.RecommendExclude, out.QCResult.Recommendation)
	assert.Contains(t, out.QCResult.Flags, "SPEED:extreme_speed")

	// an excluded response never touches the quota
	assert.Zero(t, store.completeCalls)
	assert.Zero(t, store.quotaUsed)

	stored, err := store.GetLinkByID("link-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisqualified, stored.Status)
	require.NotNil(t, stored.QCResult)
}

func TestRegisterCompletion_GateRecheckUsesClickTimeContext(t *testing.T) {
	t.Run("policy tightened after click denies", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusClicked)
		store.byID["link-1"].NetworkContext = &domain.NetworkContext{IP: "203.0.113.7", CountryCode: "BR"}

		projects := defaultProjects()
		projects.projects["project-1"].AllowedCountries = []string{"US"}
		uc := newTestLinkUsecase(store, projects, &fakeGeoResolver{})

		// the submission claims an allowed country; the click-time
		// context still decides
		input := cleanCompletion("tok-1")
		input.Metadata.Network = &domain.NetworkContext{IP: "198.51.100.9", CountryCode: "US"}

		out, err := uc.RegisterCompletion(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDisqualified, out.Link.Status)
		assert.Nil(t, out.QCResult)
		assert.Zero(t, store.completeCalls)
	})

	t.Run("submitted context cannot force a denial", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusClicked)
		projects := defaultProjects()
		projects.projects["project-1"].AllowedCountries = []string{"US"}
		uc := newTestLinkUsecase(store, projects, &fakeGeoResolver{})

		input := cleanCompletion("tok-1")
		input.Metadata.Network = &domain.NetworkContext{IP: "198.51.100.9", CountryCode: "BR"}

		out, err := uc.RegisterCompletion(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, out.Link.Status)
	})
}

// ============= VENDOR CORRECTION =============

func TestCorrectVendorAssignment(t *testing.T) {
	t.Run("moves once between own vendors", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusUnused)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		link, err := uc.CorrectVendorAssignment(&linkdto.CorrectVendorInput{
			LinkID: "link-1", NewVendorID: "vendor-2", ActorID: "ops-7",
		})
		require.NoError(t, err)
		assert.Equal(t, "vendor-2", link.VendorID)
		assert.True(t, link.VendorCorrected)

		_, err = uc.CorrectVendorAssignment(&linkdto.CorrectVendorInput{
			LinkID: "link-1", NewVendorID: "vendor-1", ActorID: "ops-7",
		})
		assert.ErrorIs(t, err, domain.ErrVendorAlreadyCorrected)
	})

	t.Run("rejects a vendor of another project", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusUnused)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		_, err := uc.CorrectVendorAssignment(&linkdto.CorrectVendorInput{
			LinkID: "link-1", NewVendorID: "foreign", ActorID: "ops-7",
		})
		assert.ErrorIs(t, err, domain.ErrVendorProjectMismatch)
	})

	t.Run("rejects terminal links", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusCompleted)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		_, err := uc.CorrectVendorAssignment(&linkdto.CorrectVendorInput{
			LinkID: "link-1", NewVendorID: "vendor-2", ActorID: "ops-7",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLinkState)
	})

	t.Run("rejects unknown vendor", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusUnused)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		_, err := uc.CorrectVendorAssignment(&linkdto.CorrectVendorInput{
			LinkID: "link-1", NewVendorID: "nope", ActorID: "ops-7",
		})
		assert.ErrorIs(t, err, domain.ErrVendorNotFound)
	})
}

// ============= MANUAL REVIEW =============

func TestSetManualReview(t *testing.T) {
	scored := func(store *fakeLinkStore) {
		link := seedLink(store, "link-1", "tok-1", domain.StatusDisqualified)
		link.QCResult = &domain.QCResult{
			Score:          75,
			RiskLevel:      domain.RiskHigh,
			Recommendation: domain.RecommendExclude,
			Flags:          []string{"SPEED:too_fast"},
		}
		store.byID["link-1"].QCResult = link.QCResult
	}

	t.Run("records the disposition", func(t *testing.T) {
		store := newFakeLinkStore()
		scored(store)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		link, err := uc.SetManualReview(&linkdto.ManualReviewInput{
			LinkID:      "link-1",
			Disposition: domain.ReviewApproved,
			ReviewerID:  "reviewer-3",
			Comment:     "false positive, verified manually",
		})
		require.NoError(t, err)
		require.NotNil(t, link.ManualReview)
		assert.Equal(t, domain.ReviewApproved, link.ManualReview.Disposition)
		assert.False(t, link.ManualReview.ReviewedAt.IsZero())

		// the stored verdict is untouched
		stored, err := store.GetLinkByID("link-1")
		require.NoError(t, err)
		require.NotNil(t, stored.QCResult)
		assert.Equal(t, 75.0, stored.QCResult.Score)
		assert.Equal(t, domain.RecommendExclude, stored.QCResult.Recommendation)
	})

	t.Run("rejects unknown disposition", func(t *testing.T) {
		store := newFakeLinkStore()
		scored(store)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		_, err := uc.SetManualReview(&linkdto.ManualReviewInput{
			LinkID: "link-1", Disposition: "MAYBE", ReviewerID: "reviewer-3",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("requires a qc result", func(t *testing.T) {
		store := newFakeLinkStore()
		seedLink(store, "link-1", "tok-1", domain.StatusClicked)
		uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

		_, err := uc.SetManualReview(&linkdto.ManualReviewInput{
			LinkID: "link-1", Disposition: domain.ReviewRejected, ReviewerID: "reviewer-3",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLinkState)
	})
}

// ============= STALE CLICK MONITOR =============

func TestSweepStaleClicks_ResetsRecoveredProjects(t *testing.T) {
	store := newFakeLinkStore()
	seedLink(store, "link-1", "tok-1", domain.StatusClicked)
	past := time.Now().Add(-48 * time.Hour)
	store.byID["link-1"].ProjectID = "stale-sweep-project"
	store.byID["link-1"].ClickedAt = &past
	uc := newTestLinkUsecase(store, defaultProjects(), &fakeGeoResolver{})

	gauge := testMetrics.StaleClickedLinks.WithLabelValues("stale-sweep-project")
	olderThan := time.Now().Add(-24 * time.Hour)

	seen := uc.sweepStaleClicks(olderThan, make(map[string]bool))
	assert.Equal(t, 1.0, testutil.ToFloat64(gauge))
	assert.True(t, seen["stale-sweep-project"])

	// the stuck link resolves; the next sweep must not leave the last
	// reading on the gauge
	store.byID["link-1"].Status = domain.StatusCompleted
	uc.sweepStaleClicks(olderThan, seen)
	assert.Zero(t, testutil.ToFloat64(gauge))
}
