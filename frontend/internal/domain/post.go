package frontend_domain

import (
	"html/template"

	"github.com/pixora-dev/pixora/shared/domain"
)

// Post wraps domain.Post with rendered text. Caption is overwritten for HTML safety.
type Post struct {
	domain.Post
	Caption  template.HTML
	Comments []*Comment
}

type Comment struct {
	domain.Comment
	Text template.HTML
}
