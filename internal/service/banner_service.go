package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"Club_Hub/internal/pkg"
	"Club_Hub/internal/repository/mysql"

	"go.uber.org/zap"
)

// ImageStore is where processed banners end up.
type ImageStore interface {
	Put(ctx context.Context, prefix string, r io.Reader, size int64) (string, error)
}

type BannerService struct {
	store  ImageStore
	clubs  mysql.ClubStore
	events mysql.EventStore
	log    *zap.Logger
}

// NewBannerService accepts a nil store; uploads then fail with
// ErrBannerUnavailable.
func NewBannerService(store ImageStore, clubs mysql.ClubStore, events mysql.EventStore, log *zap.Logger) *BannerService {
	return &BannerService{store: store, clubs: clubs, events: events, log: log}
}

type BannerUpload struct {
	Data        []byte
	ContentType string
}

func (s *BannerService) SetClubBanner(ctx context.Context, actor Identity, clubID uint64, up BannerUpload) (string, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return "", storeErr("find club", err)
	}
	if err := gate(club, actor); err != nil {
		return "", err
	}

	url, err := s.upload(ctx, fmt.Sprintf("clubs/%d", clubID), up)
	if err != nil {
		return "", err
	}
	club.Banner = url
	if err := s.clubs.Update(ctx, club); err != nil {
		return "", storeErr("update club", err)
	}
	return url, nil
}

func (s *BannerService) SetEventBanner(ctx context.Context, actor Identity, eventID uint64, up BannerUpload) (string, error) {
	event, err := ownedEvent(ctx, s.events, s.clubs, actor, eventID)
	if err != nil {
		return "", err
	}

	url, err := s.upload(ctx, fmt.Sprintf("events/%d", eventID), up)
	if err != nil {
		return "", err
	}
	event.Banner = url
	if err := s.events.Update(ctx, event); err != nil {
		return "", storeErr("update event", err)
	}
	return url, nil
}

func (s *BannerService) upload(ctx context.Context, prefix string, up BannerUpload) (string, error) {
	if s.store == nil {
		return "", ErrBannerUnavailable
	}
	if len(up.Data) == 0 {
		return "", &ValidationError{FieldErrors: map[string]string{"banner": "banner file is required"}}
	}
	if len(up.Data) > pkg.MaxBannerBytes {
		return "", &ValidationError{FieldErrors: map[string]string{"banner": "banner must be at most 5MB"}}
	}

	buf, err := pkg.ProcessBanner(up.Data, up.ContentType)
	switch {
	case errors.Is(err, pkg.ErrUnsupportedImage):
		return "", &ValidationError{FieldErrors: map[string]string{"banner": "banner must be jpeg or png"}}
	case errors.Is(err, pkg.ErrImageTooLarge):
		return "", &ValidationError{FieldErrors: map[string]string{"banner": "banner must be at most 40 megapixels"}}
	case err != nil:
		return "", &ValidationError{FieldErrors: map[string]string{"banner": "banner could not be decoded"}}
	}

	url, err := s.store.Put(ctx, prefix, buf, int64(buf.Len()))
	if err != nil {
		s.log.Error("banner upload failed", zap.String("prefix", prefix), zap.Error(err))
		return "", &StoreError{Op: "upload banner", Err: err}
	}
	return url, nil
}
