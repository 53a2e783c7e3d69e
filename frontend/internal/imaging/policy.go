// Package imaging turns a user-selected photo into the square JPEG the
// backend stores: validate the selection, preview it, crop and scale it, then
// package it as a multipart upload.
package imaging

import (
	"time"

	"github.com/pixora-dev/pixora/shared/config"
)

// Policy is the set of limits for one upload flow. The post flow and the
// profile-picture flow each have their own.
type Policy struct {
	Name         string
	MaxSizeBytes int64
	TargetSide   int
	Quality      int
	Timeout      time.Duration
	Filename     string
}

// Target is what Normalize produces.
type Target struct {
	Side    int
	Quality int
}

func (p Policy) Target() Target {
	return Target{Side: p.TargetSide, Quality: p.Quality}
}

var PostPolicy = Policy{
	Name:         "post",
	MaxSizeBytes: 10 * 1024 * 1024,
	TargetSide:   1080,
	Quality:      85,
	Timeout:      20 * time.Second,
	Filename:     "post.jpg",
}

var ProfilePicturePolicy = Policy{
	Name:         "profile_picture",
	MaxSizeBytes: 500 * 1024,
	TargetSide:   400,
	Quality:      85,
	Timeout:      20 * time.Second,
	Filename:     "avatar.jpg",
}

// FromConfig overrides the limits of base with configured values.
func FromConfig(base Policy, cfg config.UploadPolicy, timeout time.Duration) Policy {
	p := base
	if cfg.MaxSizeBytes > 0 {
		p.MaxSizeBytes = cfg.MaxSizeBytes
	}
	if cfg.TargetSide > 0 {
		p.TargetSide = cfg.TargetSide
	}
	if cfg.Quality > 0 {
		p.Quality = cfg.Quality
	}
	if timeout > 0 {
		p.Timeout = timeout
	}
	return p
}
