package file

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
)

// userRepository implements repository.UserRepository on top of the flat-file
// store. Every operation performs a full load; mutations rewrite the whole
// collection. A single mutex serializes all operations, which is what makes
// the username uniqueness check and the max-ID assignment safe under
// concurrent requests.
type userRepository struct {
	store *Store
	mu    sync.Mutex
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

// FindByID retrieves a single user by their numeric ID.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.ID == id {
			return toEntity(record), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

// FindByUsername retrieves a single user by their unique username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.Username == username {
			return toEntity(record), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

// Create persists a new user. The uniqueness check, identifier assignment and
// rewrite happen under one lock so concurrent registrations cannot both pass
// the check or collide on an ID.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.LoadAll()
	if err != nil {
		return err
	}

	var maxID int64
	for _, record := range records {
		if record.Username == user.Username {
			return repository.ErrUserExists
		}
		if record.ID > maxID {
			maxID = record.ID
		}
	}

	now := time.Now().UTC()
	user.ID = maxID + 1
	user.CreatedAt = now
	user.UpdatedAt = now

	records = append(records, toRecord(user))

	return r.store.Save(records)
}

// Update replaces the stored record matching the user's ID.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.LoadAll()
	if err != nil {
		return err
	}

	for i, record := range records {
		if record.ID != user.ID {
			continue
		}

		user.UpdatedAt = time.Now().UTC()
		records[i] = toRecord(user)

		return r.store.Save(records)
	}

	return errors.Wrapf(repository.ErrUserNotFound, "update user %d", user.ID)
}
