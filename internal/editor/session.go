// ABOUTME: Editor session tying interaction modes to the point store
// ABOUTME: Owns the current collection, persistence round-trips, and notices

// Package editor drives the point store the way an interactive front end
// does: one command per user action, persisted after every change.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/pointedit/internal/models"
	"github.com/harper/pointedit/internal/points"
	"github.com/harper/pointedit/internal/storage"
)

// Mode is the interaction mode of a session.
type Mode int

const (
	// ModeBrowsing is the idle mode; map clicks are ignored.
	ModeBrowsing Mode = iota
	// ModePlacing waits for a location for a new point.
	ModePlacing
	// ModeLabelingNew holds a placed location until its label is submitted.
	ModeLabelingNew
	// ModeEditingLabel edits the label of an existing point.
	ModeEditingLabel
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModePlacing:
		return "placing"
	case ModeLabelingNew:
		return "labeling"
	case ModeEditingLabel:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Notice messages.
const (
	MsgLoadFailed   = "Unable to load saved points"
	MsgSaveFailed   = "Unable to save points"
	MsgLocateFailed = "Unable to locate"
)

// DefaultNoticeTTL is how long a notice stays visible unless dismissed.
const DefaultNoticeTTL = 2 * time.Second

var (
	// ErrLabelRequired is returned when a submitted label is blank.
	ErrLabelRequired = errors.New("label is required")
	// ErrLabelTooLong is returned when a submitted label exceeds models.MaxLabelLength.
	ErrLabelTooLong = models.ErrLabelTooLong
	// ErrWrongMode is returned when an action is not valid in the current mode.
	ErrWrongMode = errors.New("action not available in current mode")
)

// Notice is a user-visible, auto-expiring message.
type Notice struct {
	Message   string
	ExpiresAt time.Time
}

// Session holds the editor state for one user.
// All methods are safe for concurrent use; commands are applied one at a time.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	store  storage.Store
	logger *log.Logger
	now    func() time.Time

	points      models.Collection
	mode        Mode
	pending     models.Location
	editIndex   int
	notice      *Notice
	noticeTTL   time.Duration
	labelPrompt bool
	loadErr     error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the time source used for notice expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithNoticeTTL sets how long notices stay visible.
func WithNoticeTTL(d time.Duration) Option {
	return func(s *Session) { s.noticeTTL = d }
}

// WithLabelPrompt makes Place wait for a label instead of adding the point
// immediately with its default label.
func WithLabelPrompt(enabled bool) Option {
	return func(s *Session) { s.labelPrompt = enabled }
}

// SetLabelPrompt switches label prompting on or off for later placements.
func (s *Session) SetLabelPrompt(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labelPrompt = enabled
}

// Open creates a session and rehydrates the collection from store.
// A load failure leaves the collection empty and raises a notice; it is
// reported by LoadErr rather than returned.
func Open(ctx context.Context, store storage.Store, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		store:     store,
		logger:    log.New(io.Discard),
		now:       time.Now,
		points:    models.Collection{},
		noticeTTL: DefaultNoticeTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id.String()[:8])

	loaded, err := store.Load(ctx)
	if err != nil {
		s.loadErr = err
		s.raise(MsgLoadFailed)
		s.logger.Warn("load failed, starting empty", "err", err)
		return s
	}
	s.points = loaded
	s.logger.Debug("loaded points", "count", len(loaded))
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// LoadErr returns the error from rehydration, if any.
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Points returns a copy of the current collection.
func (s *Session) Points() models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points.Clone()
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// PendingLocation returns the placed location awaiting a label.
func (s *Session) PendingLocation() (models.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.mode == ModeLabelingNew
}

// Dispatch applies cmd and persists the result.
// On a save failure the new collection is kept and a notice is raised.
func (s *Session) Dispatch(ctx context.Context, cmd points.Command) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, _, err := s.dispatch(ctx, cmd)
	return next, err
}

// DispatchAll applies cmds as one change: either all apply and the result is
// persisted once, or none do.
func (s *Session) DispatchAll(ctx context.Context, cmds ...points.Command) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, _, err := s.dispatch(ctx, cmds...)
	return next, err
}

// dispatch applies cmds and saves the result. committed reports whether the
// session's collection changed, which holds even when the save fails.
func (s *Session) dispatch(ctx context.Context, cmds ...points.Command) (next models.Collection, committed bool, err error) {
	next, err = points.ApplyAll(s.points, cmds...)
	if err != nil {
		s.logger.Debug("command rejected", "err", err)
		return s.points.Clone(), false, err
	}

	mutated := false
	for _, cmd := range cmds {
		if points.IsMutation(cmd) {
			mutated = true
			s.logger.Debug("applied", "command", cmd.Type())
		}
	}
	if !mutated {
		return s.points.Clone(), false, nil
	}

	s.points = next
	if err := s.store.Save(ctx, next); err != nil {
		s.raise(MsgSaveFailed)
		s.logger.Error("save failed", "err", err)
		return next.Clone(), true, fmt.Errorf("save points: %w", err)
	}
	return next.Clone(), true, nil
}

// Add appends a point in one step, bypassing the interaction modes.
// An empty label keeps the default. It returns the new point and its index
// as of the add. When only the save fails, both are returned with the error.
func (s *Session) Add(ctx context.Context, in models.LocationInput, label string) (int, models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	add, err := points.NewAddPoint(in)
	if err != nil {
		return 0, models.Point{}, err
	}
	index := len(s.points)
	cmds := []points.Command{add}
	if label != "" {
		cmds = append(cmds, points.NewLabelPoint(index, label))
	}
	next, committed, err := s.dispatch(ctx, cmds...)
	if !committed {
		return 0, models.Point{}, err
	}
	return index, next[index], err
}

// StartPlacing enters placing mode, abandoning any label in progress.
func (s *Session) StartPlacing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMode(ModePlacing)
}

// Place handles a map click. Outside placing mode the click is ignored and
// placed is false. With label prompting the session moves to labeling mode;
// otherwise the point is added at once with its default label and the session
// returns to browsing, even if saving fails.
func (s *Session) Place(ctx context.Context, in models.LocationInput) (placed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModePlacing {
		return false, nil
	}

	add, err := points.NewAddPoint(in)
	if err != nil {
		return false, err
	}

	if s.labelPrompt {
		s.pending = add.Location
		s.setMode(ModeLabelingNew)
		return true, nil
	}

	_, committed, err := s.dispatch(ctx, add)
	if committed {
		s.setMode(ModeBrowsing)
	}
	return committed, err
}

// BeginEditLabel enters label editing for the point at index and returns
// its current label.
func (s *Session) BeginEditLabel(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.points.InRange(index) {
		return "", fmt.Errorf("%w: %d (have %d points)", points.ErrIndexOutOfRange, index, len(s.points))
	}
	s.setMode(ModeEditingLabel)
	s.editIndex = index
	return s.points[index].Label, nil
}

// SubmitLabel finishes labeling a new point or editing an existing one.
// Blank or overlong labels are rejected and the mode is left unchanged.
// Once the label is applied the session returns to browsing, even if saving
// fails, so a retry cannot add the point twice.
func (s *Session) SubmitLabel(ctx context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateLabel(label); err != nil {
		if errors.Is(err, models.ErrLabelEmpty) {
			return ErrLabelRequired
		}
		return err
	}

	var cmds []points.Command
	switch s.mode {
	case ModeLabelingNew:
		cmds = []points.Command{
			points.AddPoint{Location: s.pending},
			points.NewLabelPoint(len(s.points), label),
		}
	case ModeEditingLabel:
		cmds = []points.Command{points.NewLabelPoint(s.editIndex, label)}
	default:
		return fmt.Errorf("%w: cannot submit a label while %s", ErrWrongMode, s.mode)
	}

	_, committed, err := s.dispatch(ctx, cmds...)
	if committed {
		s.setMode(ModeBrowsing)
	}
	return err
}

// Cancel abandons any in-progress action and returns to browsing.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMode(ModeBrowsing)
}

// ReportLocateFailure raises the locate notice. The collection is untouched.
func (s *Session) ReportLocateFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raise(MsgLocateFailed)
}

// Notice returns the active notice, or nil once it is dismissed or expired.
func (s *Session) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notice == nil {
		return nil
	}
	if !s.now().Before(s.notice.ExpiresAt) {
		s.notice = nil
		return nil
	}
	n := *s.notice
	return &n
}

// DismissNotice clears the active notice.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}

func (s *Session) raise(msg string) {
	s.notice = &Notice{Message: msg, ExpiresAt: s.now().Add(s.noticeTTL)}
}

// setMode switches modes, dropping state that belongs to the old one.
func (s *Session) setMode(m Mode) {
	if m != ModeLabelingNew {
		s.pending = models.Location{}
	}
	if m != ModeEditingLabel {
		s.editIndex = 0
	}
	if s.mode != m {
		s.logger.Debug("mode", "from", s.mode, "to", m)
	}
	s.mode = m
}
