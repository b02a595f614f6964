package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.LinkService = (*LinkService)(nil)

// LinkService is a mock implementation of newsdigest.LinkService.
type LinkService struct {
	CreateLinkFn   func(ctx context.Context, link *newsdigest.Link) error
	FindLinkByIDFn func(ctx context.Context, id string) (*newsdigest.Link, error)
	FindLinksFn    func(ctx context.Context, filter newsdigest.LinkFilter) ([]*newsdigest.Link, error)
	UpdateLinkFn   func(ctx context.Context, id string, upd newsdigest.LinkUpdate) (*newsdigest.Link, error)
	DeleteLinkFn   func(ctx context.Context, id string) error
}

func (s *LinkService) CreateLink(ctx context.Context, link *newsdigest.Link) error {
	return s.CreateLinkFn(ctx, link)
}

func (s *LinkService) FindLinkByID(ctx context.Context, id string) (*newsdigest.Link, error) {
	return s.FindLinkByIDFn(ctx, id)
}

func (s *LinkService) FindLinks(ctx context.Context, filter newsdigest.LinkFilter) ([]*newsdigest.Link, error) {
	return s.FindLinksFn(ctx, filter)
}

func (s *LinkService) UpdateLink(ctx context.Context, id string, upd newsdigest.LinkUpdate) (*newsdigest.Link, error) {
	return s.UpdateLinkFn(ctx, id, upd)
}

func (s *LinkService) DeleteLink(ctx context.Context, id string) error {
	return s.DeleteLinkFn(ctx, id)
}
