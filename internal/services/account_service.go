package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"secretmsg/internal/auth"
	"secretmsg/internal/storage"
)

// CascadeStep records the outcome of one step of the account deletion
// cascade.
type CascadeStep struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// CascadeReport is the full, ordered outcome of an account deletion.
type CascadeReport struct {
	Steps []CascadeStep `json:"steps"`
}

// Failed returns the steps that reported an error.
func (r CascadeReport) Failed() []CascadeStep {
	var failed []CascadeStep
	for _, step := range r.Steps {
		if step.Err != nil {
			failed = append(failed, step)
		}
	}
	return failed
}

// AccountService removes an account and everything it owns.
type AccountService interface {
	// DeleteAccount runs the deletion cascade: every owned collection, then
	// relationship rows involving the user, then the profile row, then
	// sign-out (token revocation), then the identity row. The cascade is
	// best-effort: each step's failure is recorded and later steps still run,
	// so a half-deleted account never becomes un-removable. jti/tokenExp
	// identify the session token to revoke.
	DeleteAccount(ctx context.Context, userID uint, jti string, tokenExp time.Time) CascadeReport
}

type accountService struct {
	collections []storage.OwnedCollection
	requestRepo storage.FriendRequestRepository
	profileRepo storage.ProfileRepository
	userRepo    storage.UserRepository
	blacklist   auth.TokenBlacklist
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	collections []storage.OwnedCollection,
	requestRepo storage.FriendRequestRepository,
	profileRepo storage.ProfileRepository,
	userRepo storage.UserRepository,
	blacklist auth.TokenBlacklist,
) AccountService {
	return &accountService{
		collections: collections,
		requestRepo: requestRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		blacklist:   blacklist,
	}
}

func (s *accountService) DeleteAccount(ctx context.Context, userID uint, jti string, tokenExp time.Time) CascadeReport {
	var report CascadeReport

	record := func(name string, err error) {
		if err != nil {
			log.Printf("account deletion for user %d: step %q failed: %v", userID, name, err)
		}
		report.Steps = append(report.Steps, CascadeStep{Name: name, Err: err})
	}

	for _, collection := range s.collections {
		name := fmt.Sprintf("owned collection %s", collection.CollectionName())
		record(name, collection.DeleteAllByOwner(ctx, userID))
	}

	record("friend requests", s.requestRepo.DeleteAllInvolving(ctx, userID))
	record("profile", s.profileRepo.Delete(ctx, userID))

	if s.blacklist != nil && jti != "" {
		record("sign out", s.blacklist.Add(ctx, jti, tokenExp))
	}

	record("identity", s.userRepo.Delete(ctx, userID))

	return report
}
