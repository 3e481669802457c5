package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository       *ProfileRepository
	PostRepository          *PostRepository
	ParticipationRepository *ParticipationRepository
	MessageRepository       *MessageRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:       NewProfileRepository(db),
		PostRepository:          NewPostRepository(db),
		ParticipationRepository: NewParticipationRepository(db),
		MessageRepository:       NewMessageRepository(db),
	}
}
