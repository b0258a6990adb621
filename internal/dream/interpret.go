package dream

import (
	"context"
	"strings"
)

type InterpretInput struct {
	ID             string
	Interpretation string
	InterpretedBy  string
	Tags           []string
	IsPublic       bool
}

// Interpret attaches an interpretation and moves the dream to interpreted.
// Repeating it overwrites the previous interpretation.
func (s *Service) Interpret(ctx context.Context, in InterpretInput) (Dream, error) {
	text := strings.TrimSpace(in.Interpretation)
	if text == "" {
		return Dream{}, &ValidationError{Problems: []string{"Interpretation is required"}}
	}
	if runes(text) < MinInterpretationLen {
		return Dream{}, &ValidationError{Problems: []string{"Interpretation must be at least 10 characters long"}}
	}

	by := strings.TrimSpace(in.InterpretedBy)
	if by == "" {
		by = s.InterpreterName
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.clock().UTC()
	status := StatusInterpreted
	public := in.IsPublic

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.Store.Update(ctx, in.ID, Patch{
		Interpretation: &text,
		InterpretedAt:  &now,
		InterpretedBy:  &by,
		Status:         &status,
		Tags:           &tags,
		IsPublic:       &public,
	})
}

// Archive moves a dream to archived, keeping any interpretation.
func (s *Service) Archive(ctx context.Context, id string) (Dream, error) {
	status := StatusArchived

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.Store.Update(ctx, id, Patch{Status: &status})
}

// TogglePublic flips the public flag.
func (s *Service) TogglePublic(ctx context.Context, id string) (Dream, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.Store.Update(ctx, id, Patch{Mutate: func(d *Dream) {
		d.IsPublic = !d.IsPublic
	}})
}

// AddTags merges tags into the dream's existing set.
func (s *Service) AddTags(ctx context.Context, id string, tags []string) (Dream, error) {
	added := append([]string(nil), tags...)

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.Store.Update(ctx, id, Patch{Mutate: func(d *Dream) {
		d.Tags = MergeTags(d.Tags, added)
	}})
}
