package dream

import (
	"context"
	"strings"
)

type SubmitInput struct {
	Name          string
	Gender        string
	MaritalStatus string
	Dream         string
	// ClientIP keys the rate limiter and is stored as the dream's address.
	ClientIP string
}

// Submit accepts one public dream. The attempt counts against the client's
// window before validation runs, so invalid retries are limited too.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Dream, error) {
	ip := strings.TrimSpace(in.ClientIP)
	if ip == "" {
		ip = UnknownIP
	}

	if s.Limiter != nil && !s.Limiter.Allow(ip) {
		return Dream{}, ErrRateLimited
	}

	if err := s.validateSubmission(in); err != nil {
		return Dream{}, err
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return s.Store.Create(ctx, Dream{
		Name:          strings.TrimSpace(in.Name),
		Gender:        Gender(in.Gender),
		MaritalStatus: MaritalStatus(in.MaritalStatus),
		Dream:         strings.TrimSpace(in.Dream),
		IPAddress:     ip,
		Status:        StatusPending,
		Tags:          []string{},
		IsPublic:      false,
	})
}

func (s *Service) validateSubmission(in SubmitInput) error {
	ve := &ValidationError{}

	name := strings.TrimSpace(in.Name)
	if runes(name) < 2 {
		ve.add("Name must be at least 2 characters long")
	} else if runes(name) > MaxNameLen {
		ve.add("Name cannot exceed 100 characters")
	}
	if !Gender(in.Gender).Valid() {
		ve.add("Gender must be either male or female")
	}
	if !MaritalStatus(in.MaritalStatus).Valid() {
		ve.add("Marital status must be either single or married")
	}
	if runes(strings.TrimSpace(in.Dream)) < MinDreamLen {
		ve.add("Dream description must be at least 10 characters long")
	}
	if runes(in.Dream) > MaxDreamLen {
		ve.add("Dream description cannot exceed 5000 characters")
	}
	if s.Policy != nil && in.Dream != "" {
		if msg := s.Policy.Check(in.Dream); msg != "" {
			ve.add(msg)
		}
	}

	return ve.err()
}
