package seed

import (
	"fmt"
	"log"

	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with realistic development data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default options.
func NewSeeder(db *gorm.DB) *Seeder {
	return NewSeederWithOptions(db, Options{})
}

// NewSeederWithOptions creates a Seeder with explicit options.
func NewSeederWithOptions(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// Factory exposes the underlying entity factory for tests and presets.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// ClearAll removes all seeded data. Table order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"notifications",
		"message_reads",
		"messages",
		"reposts",
		"post_likes",
		"posts",
		"follows",
		"password_resets",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates users and a follow graph between them. Each user
// follows a random subset of the others, with counters kept consistent.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]*models.User, error) {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	if len(users) < 2 {
		return users, nil
	}

	// Follow a random 5-15% slice of the mesh
	for _, follower := range users {
		edges := s.factory.rng.Intn(len(users)/10+1) + 1
		seen := map[uint]bool{follower.ID: true}
		for e := 0; e < edges; e++ {
			followee := users[s.factory.rng.Intn(len(users))]
			if seen[followee.ID] {
				continue
			}
			seen[followee.ID] = true
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				log.Printf("Failed to create follow edge: %v", err)
			}
		}
	}

	log.Printf("Social mesh seeded: %d users", len(users))
	return users, nil
}

// SeedEngagement creates posts for the given users plus likes, reposts,
// messages and the notifications those interactions would have produced.
func (s *Seeder) SeedEngagement(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed posts for")
	}

	posts := make([]*models.Post, 0, numPosts)
	batch := make([]*models.Post, 0, 100)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		batch = append(batch, s.factory.BuildPost(author))
		if len(batch) == cap(batch) {
			if err := s.factory.CreatePostsBatch(batch); err != nil {
				return nil, fmt.Errorf("create posts: %w", err)
			}
			posts = append(posts, batch...)
			batch = batch[:0]
		}
	}
	if err := s.factory.CreatePostsBatch(batch); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	posts = append(posts, batch...)
	log.Printf("Created %d posts", len(posts))

	// Sprinkle likes and reposts from non-authors
	for _, post := range posts {
		likers := s.factory.rng.Intn(4)
		for l := 0; l < likers; l++ {
			user := users[s.factory.rng.Intn(len(users))]
			if user.ID == post.UserID {
				continue
			}
			if err := s.factory.CreateLike(user, post); err != nil {
				continue // duplicate like from the same user, skip
			}
			author := &models.User{ID: post.UserID}
			_, _ = s.factory.CreateNotification(author, user, models.NotificationContextLike)
		}

		if s.factory.rng.Float32() < 0.15 {
			user := users[s.factory.rng.Intn(len(users))]
			if user.ID != post.UserID {
				if err := s.factory.CreateRepost(user, post); err == nil {
					author := &models.User{ID: post.UserID}
					_, _ = s.factory.CreateNotification(author, user, models.NotificationContextRepost)
				}
			}
		}
	}

	// A few direct message threads
	for i := 0; i < len(users)/2; i++ {
		a := users[s.factory.rng.Intn(len(users))]
		b := users[s.factory.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		turns := s.factory.rng.Intn(6) + 2
		for t := 0; t < turns; t++ {
			sender, receiver := a, b
			if t%2 == 1 {
				sender, receiver = b, a
			}
			if _, err := s.factory.CreateMessage(sender, receiver); err != nil {
				log.Printf("Failed to create message: %v", err)
				break
			}
		}
	}

	log.Println("Engagement seeded")
	return posts, nil
}
