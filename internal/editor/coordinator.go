package editor

import (
	"context"
	"strings"

	"larder-cli/internal/model"
)

// Feedback wording. A single pair keeps the status line stable across
// mutation kinds.
const (
	feedbackSaved      = "Saved"
	feedbackSaveFailed = "Save failed"
)

// fieldState serializes mutations per logical field: one copy key, the theme
// record, or one product. The queue keeps persistence in call order; the
// confirmed value is the rollback target when a write fails.
type fieldState struct {
	confirmed any
	queue     []*pendingMutation
	inflight  bool
}

// pendingMutation is the explicit snapshot-apply-confirm/revert record for
// one optimistic write. The optimistic apply has already happened by the
// time the mutation is queued; only persist and the possible revert remain.
type pendingMutation struct {
	fieldID string
	next    any
	persist func(ctx context.Context) error
	revert  func(confirmed any)
}

// fieldFor returns the per-field state, creating it with the given baseline
// on first touch. Caller must hold s.mu.
func (s *Session) fieldFor(id string, baseline any) *fieldState {
	f, ok := s.fields[id]
	if !ok {
		f = &fieldState{confirmed: baseline}
		s.fields[id] = f
	}
	return f
}

// enqueue registers a pending mutation and starts the field's drain worker
// if none is running. Caller must hold s.mu.
func (s *Session) enqueue(f *fieldState, m *pendingMutation) {
	f.queue = append(f.queue, m)
	s.saving++
	s.setFeedback("", 0)
	if !f.inflight {
		f.inflight = true
		go s.drain(f)
	}
}

// drain issues the field's pending writes one at a time, in call order, and
// reconciles each outcome. Runs outside the UI path; the optimistic value is
// already visible before the first write is even issued.
func (s *Session) drain(f *fieldState) {
	for {
		s.mu.Lock()
		if s.closed || len(f.queue) == 0 {
			f.inflight = false
			s.mu.Unlock()
			return
		}
		m := f.queue[0]
		f.queue = f.queue[1:]
		timeout := s.cfg.PersistTimeout
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := m.persist(ctx)
		cancel()

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.saving--
		if err == nil {
			f.confirmed = m.next
			s.setFeedback(feedbackSaved, s.cfg.SuccessMessageTTL)
		} else {
			// Roll the field back to its last confirmed value -- unless a
			// newer mutation has already applied on top, in which case that
			// mutation's own outcome decides the field.
			if len(f.queue) == 0 {
				m.revert(f.confirmed)
			}
			s.setFeedback(feedbackSaveFailed, s.cfg.FailureMessageTTL)
		}
		s.mu.Unlock()
	}
}

// RequestCopyMutation applies a copy-string edit optimistically and persists
// it asynchronously. Silent no-op when unauthorized or the key is empty; the
// calling field editor is responsible for content validation.
func (s *Session) RequestCopyMutation(key, value string) {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.authorized || key == "" || s.gw == nil {
		return
	}

	f := s.fieldFor("copy:"+key, s.copyMap[key])
	s.copyMap[key] = value

	s.enqueue(f, &pendingMutation{
		fieldID: "copy:" + key,
		next:    value,
		persist: func(ctx context.Context) error {
			return s.gw.PersistCopy(ctx, key, value)
		},
		revert: func(confirmed any) {
			s.copyMap[key] = confirmed.(string)
		},
	})
}

// RequestThemeMutation applies a partial theme edit optimistically, projects
// the resulting record into the style sink in the same call, and persists the
// whole record asynchronously. On failure the prior record is restored and
// re-projected.
func (s *Session) RequestThemeMutation(patch ThemePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.authorized || patch.empty() || s.gw == nil {
		return
	}

	f := s.fieldFor("theme", s.theme)
	next := patch.applyTo(s.theme)
	if next == s.theme {
		return
	}
	s.theme = next
	s.projector.ApplyTheme(next)

	s.enqueue(f, &pendingMutation{
		fieldID: "theme",
		next:    next,
		persist: func(ctx context.Context) error {
			return s.gw.PersistTheme(ctx, next)
		},
		revert: func(confirmed any) {
			t := confirmed.(model.Theme)
			s.theme = t
			s.projector.ApplyTheme(t)
		},
	})
}

// RequestProductMutation applies a partial name/price edit to a tracked
// product and persists it asynchronously. Untracked products are a no-op:
// without a baseline there is nothing to roll back to.
func (s *Session) RequestProductMutation(productID string, fields ProductFields) {
	productID = strings.TrimSpace(productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.authorized || productID == "" || fields.empty() || s.gw == nil {
		return
	}
	current, ok := s.products[productID]
	if !ok {
		return
	}

	f := s.fieldFor("product:"+productID, current)
	next := fields.applyTo(current)
	if next == current {
		return
	}
	s.products[productID] = next

	s.enqueue(f, &pendingMutation{
		fieldID: "product:" + productID,
		next:    next,
		persist: func(ctx context.Context) error {
			return s.gw.PersistProductFields(ctx, productID, fields)
		},
		revert: func(confirmed any) {
			s.products[productID] = confirmed.(ProductState)
		},
	})
}
