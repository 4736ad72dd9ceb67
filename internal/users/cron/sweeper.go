package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
	"github.com/stepwise-app/stepwise-backend/internal/users/repository"
)

// Sweeper clears refresh tokens that have expired but were never rotated
// or logged out, so stale credentials don't sit in the users table forever.
type Sweeper struct {
	repo   *repository.UserRepository
	signer *token.Signer
}

func NewSweeper(repo *repository.UserRepository, signer *token.Signer) *Sweeper {
	return &Sweeper{repo: repo, signer: signer}
}

// Start initializes cron tasks
func (s *Sweeper) Start() {
	c := cron.New(cron.WithSeconds())

	// (12:00 AM)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.sweep()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (sweeping expired refresh tokens nightly at 12:00AM)")
	c.Start()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tokens, err := s.repo.ListRefreshTokens(ctx)
	if err != nil {
		log.Printf("Token sweep failed: %v", err)
		return
	}

	cleared := 0
	for userID, tok := range tokens {
		if _, err := s.signer.Parse(tok); err == nil {
			continue
		}
		if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
			log.Printf("Failed to clear token for user %s: %v", userID, err)
			continue
		}
		cleared++
	}

	log.Printf("Token sweep completed: %d of %d tokens cleared at %s",
		cleared, len(tokens), time.Now().Format(time.RFC1123))
}
