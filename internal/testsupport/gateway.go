package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"loom/internal/booking"
)

// FakeGateway is an in-memory booking.Gateway for tests. It records writes
// and can be primed to fail.
type FakeGateway struct {
	mu sync.Mutex

	Posts     []booking.Post
	ListErr   error
	CreateErr error
	CancelErr error

	Created   []booking.PostSpec
	Cancelled []string

	nextID int
}

var _ booking.Gateway = (*FakeGateway)(nil)

// ListFuturePosts returns the primed posts, honoring the platform filter.
func (g *FakeGateway) ListFuturePosts(_ context.Context, platforms ...string) ([]booking.Post, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ListErr != nil {
		return nil, g.ListErr
	}
	if len(platforms) == 0 {
		out := make([]booking.Post, len(g.Posts))
		copy(out, g.Posts)
		return out, nil
	}

	wanted := make(map[string]struct{}, len(platforms))
	for _, platform := range platforms {
		wanted[strings.ToLower(platform)] = struct{}{}
	}
	var out []booking.Post
	for _, post := range g.Posts {
		if _, ok := wanted[strings.ToLower(post.Platform)]; ok {
			out = append(out, post)
		}
	}
	return out, nil
}

// CreatePost records the spec and returns a generated id.
func (g *FakeGateway) CreatePost(_ context.Context, spec booking.PostSpec) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CreateErr != nil {
		return "", g.CreateErr
	}
	g.nextID++
	g.Created = append(g.Created, spec)
	return fmt.Sprintf("fake-%d", g.nextID), nil
}

// CancelPost records the id.
func (g *FakeGateway) CancelPost(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.CancelErr != nil {
		return g.CancelErr
	}
	g.Cancelled = append(g.Cancelled, id)
	return nil
}
