package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/google/uuid"
)

type siteService struct {
	sites repository.SiteRepo
}

func NewSiteService(sites repository.SiteRepo) SiteService {
	return &siteService{sites: sites}
}

func (s *siteService) Create(ctx context.Context, site *domain.Site) error {
	site.Code = strings.ToUpper(strings.TrimSpace(site.Code))
	if err := site.ValidateCode(); err != nil {
		return err
	}
	if strings.TrimSpace(site.Name) == "" {
		return fmt.Errorf("site name is required")
	}
	if existing, err := s.sites.GetByCode(ctx, site.Code); err == nil {
		return fmt.Errorf("site code %s is already used by %q", site.Code, existing.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now
	return s.sites.Create(ctx, site)
}

func (s *siteService) Resolve(ctx context.Context, ref string) (*domain.Site, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("site is required")
	}
	site, err := s.sites.GetByCode(ctx, strings.ToUpper(ref))
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.sites.GetByID(ctx, ref)
}

func (s *siteService) List(ctx context.Context) ([]*domain.Site, error) {
	return s.sites.List(ctx)
}
