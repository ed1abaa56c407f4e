// Package ingest orchestrates the capture pipeline: credential checks, rate
// limiting, extraction, quota accounting, canonical post resolution, and the
// save into the user's library. It owns the ordering of those steps; the
// heavy lifting lives behind the injected service interfaces.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/bloom"
)

// ParseFunc parses captured markup into a queryable document.
type ParseFunc func(markup string) (postvault.DocumentSource, error)

// Service runs the capture pipeline. All fields except Now, Logger and
// Duplicates are required.
type Service struct {
	TokenService     postvault.TokenService
	UserService      postvault.UserService
	PostService      postvault.PostService
	SavedPostService postvault.SavedPostService
	Extractor        postvault.Extractor
	Limiter          postvault.RateLimiter

	// Parse turns captured markup into a document for ExtractDocument.
	Parse ParseFunc

	// Duplicates, when set, flags posts whose content was probably saved
	// before under a different or missing URL. Hits are logged, never
	// rejected: the filter is probabilistic.
	Duplicates *bloom.Filter

	Logger *slog.Logger
	Now    func() time.Time
}

// NewService creates a Service with default clock and logger. Callers fill
// in the service fields before use.
func NewService() *Service {
	return &Service{
		Logger: slog.Default(),
		Now:    time.Now,
	}
}

// SaveRequest captures one save attempt. Exactly one of Markup, Input, or
// Manual supplies the post; when several are set the first non-empty in that
// order wins. Markup is a document fragment captured in the page, Input is a
// pasted snippet or URL, Manual is user-entered content for when extraction
// failed.
type SaveRequest struct {
	// Credential is the raw extension token.
	Credential string

	Markup string
	Input  string
	Manual *postvault.Candidate

	Tags          []string
	Notes         string
	CollectionIDs []string
}

// SaveResult reports the outcome of a save.
type SaveResult struct {
	SavedPost *postvault.SavedPost `json:"savedPost"`

	// Created is false when the post deduplicated onto an existing row.
	Created bool `json:"created"`

	// Strategy names the extraction strategy that produced the post, empty
	// for manual entry.
	Strategy postvault.Strategy `json:"strategy,omitempty"`
}

// Save runs the full pipeline for one capture.
//
// Order matters: the credential is checked first, then the rate limit (keyed
// on the credential hash, counting the request even if a later step fails),
// then extraction, then the save quota, and only then the writes. Pro-tier
// users skip the quota step entirely.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	user, err := s.TokenService.AuthenticateToken(ctx, req.Credential)
	if err != nil {
		return nil, err
	}

	if !s.Limiter.Allow(postvault.HashCredential(req.Credential)) {
		return nil, postvault.Errorf(postvault.ERATELIMIT, "too many requests, slow down")
	}

	return s.save(ctx, user, req)
}

// SaveForUser runs the pipeline for an already-authenticated user, e.g. from
// the CLI. No credential is involved, so no rate limit applies; the quota
// still does.
func (s *Service) SaveForUser(ctx context.Context, userID string, req SaveRequest) (*SaveResult, error) {
	user, err := s.UserService.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, req)
}

func (s *Service) save(ctx context.Context, user *postvault.User, req SaveRequest) (*SaveResult, error) {
	candidate, err := s.extract(ctx, req.Markup, req.Input, req.Manual)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, postvault.Errorf(postvault.EINVALID, "could not extract a post from the input")
	}

	now := s.Now()
	if user.EffectiveTier(now) != postvault.TierPro {
		if err := s.UserService.ConsumeSaveQuota(ctx, user.ID, now); err != nil {
			return nil, err
		}
	}

	post := candidate.Post()
	created, err := s.PostService.ResolvePost(ctx, post)
	if err != nil {
		return nil, err
	}

	if s.Duplicates != nil && post.PostURL == "" && s.Duplicates.Seen(post.Content) {
		s.Logger.Warn("possible duplicate content",
			"post_id", post.ID,
			"user_id", user.ID,
		)
	}

	saved := &postvault.SavedPost{
		UserID: user.ID,
		PostID: post.ID,
		Tags:   req.Tags,
		Notes:  req.Notes,
	}
	if err := s.SavedPostService.CreateSavedPost(ctx, saved, req.CollectionIDs); err != nil {
		return nil, err
	}
	saved.Post = post

	s.Logger.Info("post saved",
		"post_id", post.ID,
		"user_id", user.ID,
		"strategy", string(candidate.Strategy),
		"created", created,
	)

	return &SaveResult{
		SavedPost: saved,
		Created:   created,
		Strategy:  candidate.Strategy,
	}, nil
}

// ExtractRequest captures one extraction-only attempt, e.g. a preview before
// saving. Credential is optional; when present it is authenticated and rate
// limited like a save.
type ExtractRequest struct {
	Credential string

	Markup string
	Input  string
}

// Extract runs extraction without writing anything. A nil candidate with a
// nil error means nothing could be derived and the caller should offer
// manual entry.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*postvault.Candidate, error) {
	if req.Credential != "" {
		if _, err := s.TokenService.AuthenticateToken(ctx, req.Credential); err != nil {
			return nil, err
		}
		if !s.Limiter.Allow(postvault.HashCredential(req.Credential)) {
			return nil, postvault.Errorf(postvault.ERATELIMIT, "too many requests, slow down")
		}
	}

	return s.extract(ctx, req.Markup, req.Input, nil)
}

// Quota reports the credential owner's save allowance.
func (s *Service) Quota(ctx context.Context, credential string) (*postvault.QuotaStatus, error) {
	user, err := s.TokenService.AuthenticateToken(ctx, credential)
	if err != nil {
		return nil, err
	}
	return s.UserService.SaveQuota(ctx, user.ID, s.Now())
}

func (s *Service) extract(ctx context.Context, markup, input string, manual *postvault.Candidate) (*postvault.Candidate, error) {
	switch {
	case markup != "":
		if s.Parse == nil {
			return nil, postvault.Errorf(postvault.EINVALID, "captured markup is not supported")
		}
		src, err := s.Parse(markup)
		if err != nil {
			return nil, postvault.Errorf(postvault.EINVALID, "could not parse captured markup")
		}
		return s.Extractor.ExtractDocument(src)

	case input != "":
		return s.Extractor.ExtractInput(ctx, input)

	case manual != nil:
		if postvault.CleanText(manual.Content) == "" {
			return nil, postvault.Errorf(postvault.EINVALID, "post content required")
		}
		c := *manual
		c.Content = postvault.CleanText(c.Content)
		c.PostURL = postvault.CanonicalURL(c.PostURL)
		c.AuthorURL = postvault.CanonicalURL(c.AuthorURL)
		c.Strategy = ""
		return &c, nil
	}

	return nil, postvault.Errorf(postvault.EINVALID, "nothing to extract")
}
