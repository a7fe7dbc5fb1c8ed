// Package search runs one scripture search from start to finish: the
// credit gate, the resolver call, the charge, the text lookup and the
// history write, in that order.
package search

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/versefinder/versefinder/internal/search Resolver,TextFetcher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/ai"
	"github.com/versefinder/versefinder/internal/auth"
	"github.com/versefinder/versefinder/internal/models"
	"github.com/versefinder/versefinder/internal/store"
)

// Resolver maps a story to a reference or a not-found verdict.
type Resolver interface {
	Resolve(ctx context.Context, story string) (ai.Outcome, error)
}

// TextFetcher returns the (already truncated) text of a reference.
type TextFetcher interface {
	FetchText(ctx context.Context, reference string) (string, error)
}

// Ledger is the credit balance of each user.
type Ledger interface {
	Balance(ctx context.Context, userID string) (credits int, found bool, err error)
	Decrement(ctx context.Context, userID string) (charged bool, err error)
}

// Recorder persists the outcome of each search.
type Recorder interface {
	Exists(ctx context.Context, userID, id string) (bool, error)
	Record(ctx context.Context, userID string, entry models.HistoryEntry, existingID string) (models.HistoryEntry, error)
}

const (
	msgUnauthenticated = "Authentication failed"
	msgNoCredits       = "You have no credits left"
	msgEmptyQuery      = "query must not be empty"
	msgStoryNotFound   = "story not found"
	msgInternal        = "Something went wrong. Please try again."
)

// Request is one search submitted by a signed-in user. StoryID is set when
// the user re-submits an earlier story, which is then edited in place.
type Request struct {
	Session auth.Session
	Query   string
	StoryID string
}

// Response is the JSON body returned to the client. Failures carry Text
// (and Error); completed searches carry the recorded entry.
type Response struct {
	Text          string     `json:"text,omitempty"`
	Error         string     `json:"error,omitempty"`
	ID            string     `json:"id,omitempty"`
	Story         string     `json:"story,omitempty"`
	Time          *time.Time `json:"time,omitempty"`
	Scripture     string     `json:"scripture,omitempty"`
	ScriptureText *string    `json:"scriptureText,omitempty"`
}

// Result pairs the HTTP status with the body for a finished run.
type Result struct {
	Status int
	Body   Response
}

type Pipeline struct {
	resolver Resolver
	fetcher  TextFetcher
	ledger   Ledger
	recorder Recorder
	log      *zap.Logger
}

func NewPipeline(resolver Resolver, fetcher TextFetcher, ledger Ledger, recorder Recorder, log *zap.Logger) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		fetcher:  fetcher,
		ledger:   ledger,
		recorder: recorder,
		log:      log.Named("search"),
	}
}

// Run executes the search. It never returns an error: every failure is
// already classified into the Result. At most one credit is deducted and
// at most one history entry written per call.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	userID := req.Session.UserID
	log := p.log.With(zap.String("user_id", userID))

	// 1. --- Identity ---
	if userID == "" {
		return failure(http.StatusUnauthorized, msgUnauthenticated, msgUnauthenticated)
	}
	if req.Query == "" {
		return Result{Status: http.StatusBadRequest, Body: Response{Text: msgEmptyQuery, Error: msgEmptyQuery}}
	}

	// 2. --- Edit target ---
	// An edit of an entry that does not exist would fail only after the
	// user had been charged, so it is rejected up front.
	if req.StoryID != "" {
		exists, err := p.recorder.Exists(ctx, userID, req.StoryID)
		if err != nil {
			log.Error("failed to look up story", zap.String("story_id", req.StoryID), zap.Error(err))
			return failure(http.StatusInternalServerError, msgInternal, "failed to look up story")
		}
		if !exists {
			return Result{Status: http.StatusNotFound, Body: Response{Text: msgStoryNotFound}}
		}
	}

	// 3. --- Credit gate ---
	// The read is a fast path; Decrement is what keeps the balance >= 0.
	credits, found, err := p.ledger.Balance(ctx, userID)
	if err != nil {
		log.Error("failed to read credits", zap.Error(err))
		return failure(http.StatusInternalServerError, msgInternal, "failed to read credits")
	}
	if found && credits <= 0 {
		log.Info("search refused, no credits")
		return Result{Status: http.StatusBadRequest, Body: Response{Text: msgNoCredits}}
	}
	if !found {
		log.Warn("no credit account, search allowed")
	} else {
		log.Info("credits checked", zap.Int("credits", credits))
	}

	// 4. --- Resolve ---
	log.Debug("resolving story", zap.String("story", req.Query))
	outcome, err := p.resolver.Resolve(ctx, req.Query)
	if err != nil {
		message := err.Error()
		var genErr *ai.GenerationError
		if errors.As(err, &genErr) {
			message = genErr.Message
		}
		log.Warn("resolver failed, nothing charged", zap.Error(err))
		return failure(http.StatusInternalServerError, message, message)
	}

	// 5. --- Charge ---
	// The model call is the metered resource: it is paid for whether or
	// not a reference came back, and whatever happens after this point.
	charged, err := p.ledger.Decrement(ctx, userID)
	if err != nil {
		log.Error("failed to deduct credit", zap.Error(err))
		return failure(http.StatusInternalServerError, msgInternal, "failed to deduct credit")
	}
	if !charged && found {
		log.Warn("credit not deducted, balance already exhausted by a concurrent search")
	}

	// 6. --- Lookup ---
	entry := models.HistoryEntry{Story: req.Query, Scripture: models.NotFoundScripture}
	status := http.StatusOK

	if ref, ok := outcome.Reference(); ok {
		entry.Scripture = ref
		text, err := p.fetcher.FetchText(ctx, ref)
		if err != nil {
			log.Warn("scripture lookup failed", zap.String("reference", ref), zap.Error(err))
			status = http.StatusBadRequest
		} else {
			entry.ScriptureText = &text
		}
	}

	// 7. --- Record ---
	saved, err := p.recorder.Record(ctx, userID, entry, req.StoryID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return Result{Status: http.StatusNotFound, Body: Response{Text: msgStoryNotFound}}
		}
		log.Error("failed to record history", zap.Error(err))
		return failure(http.StatusInternalServerError, msgInternal, "failed to save history")
	}

	log.Info("search recorded",
		zap.String("entry_id", saved.ID),
		zap.String("scripture", saved.Scripture),
		zap.Bool("edit", req.StoryID != ""),
		zap.Int("status", status))

	return Result{Status: status, Body: entryResponse(saved)}
}

func failure(status int, text, errMsg string) Result {
	return Result{Status: status, Body: Response{Text: text, Error: errMsg}}
}

func entryResponse(e models.HistoryEntry) Response {
	t := e.Time
	return Response{
		ID:            e.ID,
		Story:         e.Story,
		Time:          &t,
		Scripture:     e.Scripture,
		ScriptureText: e.ScriptureText,
	}
}
