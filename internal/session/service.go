package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seligo-ai/seligo/internal/catalog"
	"github.com/seligo-ai/seligo/internal/feed"
	"github.com/seligo-ai/seligo/internal/picks"
	"github.com/seligo-ai/seligo/internal/profile"
	"github.com/seligo-ai/seligo/internal/scan"
)

// Session owns all mutable discovery state for one client: the profile
// aggregate, the candidate pool, the swipe reconciler and the current
// scan picks. Decisions are serialized through the session mutex; the
// profile carries its own lock so background refills and feed reads can
// consult it concurrently.
type Session struct {
	ID         string
	Profile    *profile.Profile
	Assembler  *feed.Assembler
	Reconciler *feed.Reconciler

	mu        sync.Mutex
	analysis  *scan.Analysis
	picks     []picks.Pick
	dismissed map[string]struct{}
	startedAt time.Time
}

// Service creates and looks up sessions. The durable profile store is
// shared: this is a single-profile product, sessions only add feed and
// undo state on top.
type Service struct {
	catalog     catalog.Catalog
	store       profile.Store
	pipeline    *scan.Pipeline
	pickBuilder *picks.Builder
	tuning      feed.Tuning
	scanTimeout time.Duration

	sessions   map[string]*Session
	sessionsMu sync.RWMutex
}

type Config struct {
	Tuning      feed.Tuning
	PickTuning  picks.Tuning
	ScanTimeout time.Duration
}

func NewService(cat catalog.Catalog, store profile.Store, pipeline *scan.Pipeline, cfg Config) *Service {
	if cfg.ScanTimeout == 0 {
		cfg.ScanTimeout = 25 * time.Second
	}
	if cfg.Tuning.InitialPageSize == 0 {
		cfg.Tuning = feed.DefaultTuning()
	}
	return &Service{
		catalog:     cat,
		store:       store,
		pipeline:    pipeline,
		pickBuilder: picks.NewBuilder(cfg.PickTuning),
		tuning:      cfg.Tuning,
		scanTimeout: cfg.ScanTimeout,
		sessions:    make(map[string]*Session),
	}
}

// Create hydrates a profile from the store and opens a session for it.
func (s *Service) Create() (*Session, error) {
	prof, err := profile.Load(s.store)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	asm := feed.NewAssembler(s.catalog, prof, s.tuning)
	sess := &Session{
		ID:         uuid.New().String(),
		Profile:    prof,
		Assembler:  asm,
		Reconciler: feed.NewReconciler(prof, asm),
		dismissed:  make(map[string]struct{}),
		startedAt:  time.Now(),
	}

	s.sessionsMu.Lock()
	s.sessions[sess.ID] = sess
	s.sessionsMu.Unlock()

	log.Printf("[SESSION] created %s", sess.ID)
	return sess, nil
}

// Get returns the session by ID.
func (s *Service) Get(id string) (*Session, bool) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SetInterests replaces the interest tags on the profile.
func (s *Service) SetInterests(sess *Session, tags []string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Profile.SetInterests(tags)
}

// StartFeed performs the initial multi-page load for the current
// interest tags.
func (s *Service) StartFeed(ctx context.Context, sess *Session) error {
	sess.mu.Lock()
	interests := sess.Profile.Interests()
	sess.mu.Unlock()
	return sess.Assembler.LoadInitial(ctx, interests)
}

// Decide applies a swipe decision, then triggers a background refill if
// the pool has run low. The catalog fetch never blocks the decision.
func (s *Service) Decide(sess *Session, direction feed.Direction) (catalog.Product, error) {
	sess.mu.Lock()
	var (
		item catalog.Product
		err  error
	)
	switch direction {
	case feed.DirectionPass:
		item, err = sess.Reconciler.Pass()
	case feed.DirectionLike:
		item, err = sess.Reconciler.Like()
	default:
		err = fmt.Errorf("unknown direction %q", direction)
	}
	interests := sess.Profile.Interests()
	sess.mu.Unlock()

	if err == nil {
		s.refillIfLow(sess, interests)
	}
	return item, err
}

// Resolve completes a pending like with save or bag.
func (s *Service) Resolve(sess *Session, sub feed.SubAction) (catalog.Product, error) {
	sess.mu.Lock()
	item, err := sess.Reconciler.Resolve(sub)
	interests := sess.Profile.Interests()
	sess.mu.Unlock()

	if err == nil {
		s.refillIfLow(sess, interests)
	}
	return item, err
}

// CancelLike abandons a pending like sub-decision.
func (s *Service) CancelLike(sess *Session) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Reconciler.CancelLike()
}

// Undo reverses the most recent decision.
func (s *Service) Undo(sess *Session) (*feed.DecisionRecord, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Reconciler.Undo()
}

func (s *Service) refillIfLow(sess *Session, interests []string) {
	go func() {
		if _, err := sess.Assembler.MaybeRefill(context.Background(), interests); err != nil {
			log.Printf("[SESSION] %s refill failed: %v", sess.ID, err)
		}
	}()
}

// Scan runs the analysis pipeline under the configured timeout, applies
// the completed analysis to the profile (bulk tag adjustments, interest
// merge, avoid-tag blocking) and rebuilds the scan picks. A failed
// analysis applies nothing.
func (s *Service) Scan(ctx context.Context, sess *Session, imageData []byte, text string) (*scan.Analysis, error) {
	if s.pipeline == nil {
		return nil, scan.ErrModelUnavailable
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	analysis, err := s.pipeline.Analyze(scanCtx, imageData, text)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Mutations happen only now, with the analysis fully available.
	var bump []string
	bump = append(bump, analysis.RecommendedTags...)
	for _, t := range analysis.VibeTags {
		if !containsString(bump, t) {
			bump = append(bump, t)
		}
	}
	if len(bump) > 0 {
		sess.Profile.AdjustTags(bump, 1)
	}

	var newInterests []string
	for _, c := range analysis.RecommendedCategories {
		if profile.IsInterestTag(c) {
			newInterests = append(newInterests, c)
		}
	}
	if len(newInterests) > 0 {
		sess.Profile.MergeInterests(newInterests)
	}
	for _, t := range analysis.AvoidTags {
		sess.Profile.BlockTag(t)
	}

	sess.analysis = analysis
	sess.dismissed = make(map[string]struct{})
	sess.picks = s.buildPicksLocked(sess, analysis)
	return analysis, nil
}

func (s *Service) buildPicksLocked(sess *Session, analysis *scan.Analysis) []picks.Pick {
	pool, _ := sess.Assembler.Pool()
	savedIDs := make(map[string]struct{})
	for _, p := range sess.Reconciler.Saved() {
		savedIDs[p.ID] = struct{}{}
	}
	return s.pickBuilder.Build(pool, analysis, sess.Profile.Score, func(id string) bool {
		_, ok := savedIDs[id]
		return ok
	})
}

// Picks returns the current picks minus any the user dismissed.
func (s *Service) Picks(sess *Session) []picks.Pick {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]picks.Pick, 0, len(sess.picks))
	for _, p := range sess.picks {
		if _, gone := sess.dismissed[p.Product.ID]; gone {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DismissPick hides a single pick until the next scan.
func (s *Service) DismissPick(sess *Session, productID string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.dismissed[productID] = struct{}{}
}

// ClearPicks wipes the pick list and analysis ahead of a rescan.
func (s *Service) ClearPicks(sess *Session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.picks = nil
	sess.analysis = nil
	sess.dismissed = make(map[string]struct{})
}

// Analysis returns the most recent completed analysis, if any.
func (s *Service) Analysis(sess *Session) (*scan.Analysis, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.analysis, sess.analysis != nil
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
