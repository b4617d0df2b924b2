package services

import (
	"context"

	"github.com/google/uuid"

	"delice/internal/backend"
	"delice/internal/domain"
	"delice/internal/store"
)

type MenuService struct {
	Backend *backend.Client
	Cache   *store.Menu
	Bucket  string
}

func NewMenuService(b *backend.Client, cache *store.Menu, bucket string) *MenuService {
	return &MenuService{Backend: b, Cache: cache, Bucket: bucket}
}

// Menu serves the cache while it is valid and refetches otherwise.
func (s *MenuService) Menu(ctx context.Context, token string) ([]domain.MenuItem, error) {
	if items, ok := s.Cache.Items(); ok {
		return items, nil
	}
	return s.Refresh(ctx, token)
}

// Refresh always hits the remote table and re-primes the cache.
func (s *MenuService) Refresh(ctx context.Context, token string) ([]domain.MenuItem, error) {
	items, err := s.Backend.ListMenu(ctx, token)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(items)
	return items, nil
}

func (s *MenuService) Add(ctx context.Context, token string, it domain.MenuItem) (domain.MenuItem, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	saved, err := s.Backend.InsertMenuItem(ctx, token, it)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.Cache.Invalidate()
	return saved, nil
}

func (s *MenuService) Update(ctx context.Context, token string, it domain.MenuItem) (domain.MenuItem, error) {
	saved, err := s.Backend.UpdateMenuItem(ctx, token, it)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.Cache.Invalidate()
	return saved, nil
}

func (s *MenuService) Delete(ctx context.Context, token, id string) error {
	if err := s.Backend.DeleteMenuItem(ctx, token, id); err != nil {
		return err
	}
	s.Cache.Invalidate()
	return nil
}

// AttachImage uploads an item photo to the storage bucket and points
// the row's image_url at its public URL.
func (s *MenuService) AttachImage(ctx context.Context, token, id string, data []byte, contentType string) (string, error) {
	path := backend.ObjectName(contentType)
	if _, err := s.Backend.Upload(ctx, token, s.Bucket, path, data, contentType); err != nil {
		return "", err
	}
	url := s.Backend.PublicURL(s.Bucket, path)
	if err := s.Backend.SetMenuImage(ctx, token, id, url); err != nil {
		return "", err
	}
	s.Cache.Invalidate()
	return url, nil
}
