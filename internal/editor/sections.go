// Package editor holds the client-side editing model: the section list for
// one portfolio kept in sync with the backend, the local-only canvas, and
// the rich content editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"portfolio-builder/internal/gateway"
	"portfolio-builder/internal/section"
)

// Op names the store operation an error came from
type Op string

const (
	OpLoad      Op = "load"
	OpCreate    Op = "create"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
	OpDuplicate Op = "duplicate"
	OpArchive   Op = "archive"
)

// OpError wraps the underlying gateway failure with operation context.
// Every operation is recoverable; the caller may retry.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsOp reports whether err is an OpError for the given operation
func IsOp(err error, op Op) bool {
	var opErr *OpError
	return errors.As(err, &opErr) && opErr.Op == op
}

// ErrBusy is returned when a mutation targets a section whose previous
// mutation is still in flight. At most one mutating call per section id.
var ErrBusy = errors.New("previous change for this section is still syncing")

// ErrUnknownSection is returned for operations on an id not in the list
var ErrUnknownSection = errors.New("section not found in this portfolio")

// default visual size applied until the user resizes a card
const (
	defaultSectionWidth  = 600
	defaultSectionHeight = 250
)

// Section is the store's local shape of one block. Width and Height are
// transient view state re-derived from measurement; the backend never
// sees them. Archived mirrors the inverse of the persisted visibility flag.
type Section struct {
	ID       uint64
	Type     string
	Title    string
	Content  section.Content
	Width    int
	Height   int
	Archived bool
	Order    int
}

// SectionGateway is the slice of the gateway client the store needs
type SectionGateway interface {
	ListSections(ctx context.Context, portfolioID uint64, includeHidden bool) ([]gateway.SectionRecord, error)
	CreateSection(ctx context.Context, portfolioID uint64, input gateway.SectionInput) (*gateway.SectionRecord, error)
	UpdateSection(ctx context.Context, id uint64, input gateway.SectionInput) (*gateway.SectionRecord, error)
	DeleteSection(ctx context.Context, id uint64) error
}

// SectionStore owns the ordered section list for one portfolio for the
// lifetime of an editing session. Updates and archive toggles are
// optimistic and reconciled by a full reload on failure; creates wait for
// the backend id and deletes wait for confirmation.
type SectionStore struct {
	portfolioID uint64
	gw          SectionGateway

	mu       sync.Mutex
	sections []Section
	pending  map[uint64]bool
}

func NewSectionStore(portfolioID uint64, gw SectionGateway) *SectionStore {
	return &SectionStore{
		portfolioID: portfolioID,
		gw:          gw,
		pending:     map[uint64]bool{},
	}
}

// Sections returns a copy of the current list in display order
func (s *SectionStore) Sections() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Load replaces the whole list with the backend's state, archived blocks
// included. On failure the previous list, if any, is left untouched.
func (s *SectionStore) Load(ctx context.Context) error {
	records, err := s.gw.ListSections(ctx, s.portfolioID, true)
	if err != nil {
		return &OpError{Op: OpLoad, Err: err}
	}

	loaded := make([]Section, 0, len(records))
	for _, rec := range records {
		loaded = append(loaded, fromRecord(rec))
	}

	s.mu.Lock()
	s.sections = loaded
	s.mu.Unlock()
	return nil
}

func fromRecord(rec gateway.SectionRecord) Section {
	return Section{
		ID:       rec.ID,
		Type:     rec.Type,
		Title:    rec.Title,
		Content:  section.ParseContent(rec.Content),
		Width:    defaultSectionWidth,
		Height:   defaultSectionHeight,
		Archived: !rec.IsVisible,
		Order:    rec.Order,
	}
}

// Add creates a fresh block at the end of the list. Creation is not
// optimistic: the canonical id comes from the backend, so nothing is
// appended until the create call succeeds.
func (s *SectionStore) Add(ctx context.Context) (*Section, error) {
	s.mu.Lock()
	next := len(s.sections) + 1
	s.mu.Unlock()

	title := fmt.Sprintf("Section %d", next)
	order := next
	visible := true

	rec, err := s.gw.CreateSection(ctx, s.portfolioID, gateway.SectionInput{
		Type:      "custom",
		Title:     &title,
		Content:   &section.Content{Images: []section.ImageRef{}},
		Order:     &order,
		IsVisible: &visible,
	})
	if err != nil {
		return nil, &OpError{Op: OpCreate, Err: err}
	}

	created := fromRecord(*rec)

	s.mu.Lock()
	s.sections = append(s.sections, created)
	s.mu.Unlock()
	return &created, nil
}

// Patch carries the fields a section update wants changed. Nil fields are
// untouched; a non-nil Images slice replaces the list wholesale.
type Patch struct {
	Title    *string
	HTML     *string
	Images   []section.ImageRef
	Archived *bool
}

// Update applies the patch locally first, then mirrors the changed,
// backend-relevant fields to the gateway. On gateway failure the store
// surfaces the error and reconciles by re-running Load: one rollback path
// for all optimistic mutations, rather than field-level undo.
func (s *SectionStore) Update(ctx context.Context, id uint64, patch Patch) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return &OpError{Op: OpUpdate, Err: ErrUnknownSection}
	}
	if s.pending[id] {
		s.mu.Unlock()
		return &OpError{Op: OpUpdate, Err: ErrBusy}
	}
	s.pending[id] = true

	// optimistic local apply
	sec := &s.sections[idx]
	if patch.Title != nil {
		sec.Title = *patch.Title
	}
	if patch.HTML != nil {
		sec.Content.HTML = *patch.HTML
	}
	if patch.Images != nil {
		sec.Content.Images = patch.Images
	}
	if patch.Archived != nil {
		sec.Archived = *patch.Archived
	}

	input := buildInput(*sec, patch)
	s.mu.Unlock()

	_, err := s.gw.UpdateSection(ctx, id, input)

	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()

	if err != nil {
		// discard the optimistic change by reloading authoritative state
		s.Load(ctx)
		return &OpError{Op: OpUpdate, Err: err}
	}
	return nil
}

// buildInput assembles only the changed, backend-relevant fields. Content
// is sent merged and whole whenever any part of it changed, in the
// structured form only.
func buildInput(sec Section, patch Patch) gateway.SectionInput {
	var input gateway.SectionInput
	if patch.Title != nil {
		input.Title = patch.Title
	}
	if patch.HTML != nil || patch.Images != nil {
		content := sec.Content
		input.Content = &content
	}
	if patch.Archived != nil {
		visible := !*patch.Archived
		input.IsVisible = &visible
	}
	return input
}

// Duplicate copies a block, inserting the new record immediately after its
// source. The copy goes through the same creation path as Add, so a
// gateway failure surfaces as a create error and leaves the list alone.
func (s *SectionStore) Duplicate(ctx context.Context, id uint64) (*Section, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, &OpError{Op: OpDuplicate, Err: ErrUnknownSection}
	}
	source := s.sections[idx]
	s.mu.Unlock()

	title := source.Title + " (copy)"
	order := source.Order + 1
	visible := true
	content := source.Content

	rec, err := s.gw.CreateSection(ctx, s.portfolioID, gateway.SectionInput{
		Type:      source.Type,
		Title:     &title,
		Content:   &content,
		Order:     &order,
		IsVisible: &visible,
	})
	if err != nil {
		return nil, &OpError{Op: OpCreate, Err: err}
	}

	created := fromRecord(*rec)
	created.Width = source.Width
	created.Height = source.Height
	created.Archived = false

	s.mu.Lock()
	// the source may have moved while the call was in flight
	at := s.indexOf(id)
	if at < 0 {
		at = len(s.sections) - 1
	}
	s.sections = append(s.sections, Section{})
	copy(s.sections[at+2:], s.sections[at+1:])
	s.sections[at+1] = created
	s.mu.Unlock()

	return &created, nil
}

// Remove deletes pessimistically: the local row only disappears after the
// backend confirms. A failed delete leaving a ghost-removed row would be
// worse than a stale one.
func (s *SectionStore) Remove(ctx context.Context, id uint64) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return &OpError{Op: OpDelete, Err: ErrUnknownSection}
	}
	if s.pending[id] {
		s.mu.Unlock()
		return &OpError{Op: OpDelete, Err: ErrBusy}
	}
	s.pending[id] = true
	s.mu.Unlock()

	err := s.gw.DeleteSection(ctx, id)

	s.mu.Lock()
	delete(s.pending, id)
	if err == nil {
		if idx := s.indexOf(id); idx >= 0 {
			// orders are not renumbered; gaps are tolerated
			s.sections = append(s.sections[:idx], s.sections[idx+1:]...)
		}
	}
	s.mu.Unlock()

	if err != nil {
		return &OpError{Op: OpDelete, Err: err}
	}
	return nil
}

// ToggleArchive flips the archived flag with the same optimistic
// discipline as Update, mirroring the inverse visibility flag to the
// backend and reconciling through Load on failure.
func (s *SectionStore) ToggleArchive(ctx context.Context, id uint64) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return &OpError{Op: OpArchive, Err: ErrUnknownSection}
	}
	if s.pending[id] {
		s.mu.Unlock()
		return &OpError{Op: OpArchive, Err: ErrBusy}
	}
	s.pending[id] = true

	s.sections[idx].Archived = !s.sections[idx].Archived
	visible := !s.sections[idx].Archived
	s.mu.Unlock()

	_, err := s.gw.UpdateSection(ctx, id, gateway.SectionInput{IsVisible: &visible})

	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()

	if err != nil {
		s.Load(ctx)
		return &OpError{Op: OpArchive, Err: err}
	}
	return nil
}

// CommitSize records the measured card size after a manual resize. Size is
// view state only and never reaches the gateway.
func (s *SectionStore) CommitSize(id uint64, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		s.sections[idx].Width = width
		s.sections[idx].Height = height
	}
}

// indexOf must be called with the lock held
func (s *SectionStore) indexOf(id uint64) int {
	for i := range s.sections {
		if s.sections[i].ID == id {
			return i
		}
	}
	return -1
}
