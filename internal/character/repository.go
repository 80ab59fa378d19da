package character

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"character-api/internal/store"
)

var ErrNotFound = errors.New("character not found")

type Character struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

type Input struct {
	Name     string `json:"name" validate:"required,min=3"`
	LastName string `json:"lastName" validate:"required,min=3"`
}

type Repository struct {
	characters store.Store[int64, Character]
	ids        *store.IDSource
	logger     *zap.Logger
}

func NewRepository(characters store.Store[int64, Character], logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		characters: characters,
		ids:        store.NewIDSource(),
		logger:     logger,
	}
}

func (r *Repository) List(ctx context.Context) ([]Character, error) {
	characters, err := r.characters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Character, error) {
	c, ok, err := r.characters.Get(ctx, id)
	if err != nil {
		return Character{}, fmt.Errorf("get character: %w", err)
	}
	if !ok {
		return Character{}, ErrNotFound
	}
	return c, nil
}

func (r *Repository) Create(ctx context.Context, input Input) (Character, error) {
	c := Character{
		ID:       r.ids.Next(),
		Name:     input.Name,
		LastName: input.LastName,
	}
	if err := r.characters.Set(ctx, c.ID, c); err != nil {
		return Character{}, fmt.Errorf("insert character: %w", err)
	}
	return c, nil
}

// Update replaces the stored character; the id from the path always wins over
// anything in the body.
func (r *Repository) Update(ctx context.Context, id int64, input Input) (Character, error) {
	_, ok, err := r.characters.Get(ctx, id)
	if err != nil {
		return Character{}, fmt.Errorf("get character: %w", err)
	}
	if !ok {
		r.logger.Warn("character_update_not_found", zap.Int64("id", id))
		return Character{}, ErrNotFound
	}

	c := Character{ID: id, Name: input.Name, LastName: input.LastName}
	if err := r.characters.Set(ctx, id, c); err != nil {
		return Character{}, fmt.Errorf("update character: %w", err)
	}
	return c, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	deleted, err := r.characters.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if !deleted {
		r.logger.Warn("character_delete_not_found", zap.Int64("id", id))
		return ErrNotFound
	}
	return nil
}
