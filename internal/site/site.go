// Package site translates paths between storage sites. Every site mounts the
// shared silos under a site-prefixed root, so "/prod/vfx" at site bne is
// reachable as "/bne_prod/vfx".
package site

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"shotpath/internal/config"
)

var (
	// ErrUnknownLocation means the current site or its remote could not be
	// determined from configuration.
	ErrUnknownLocation = errors.New("cannot determine location: set site.location or CE_LOCATION")
	// ErrInvalidPath is returned for paths that have no silo to translate.
	ErrInvalidPath = errors.New("path must be absolute and name a silo")
	// ErrNotSitePath is returned by LocalPath when the path does not live
	// under the given site.
	ErrNotSitePath = errors.New("path is not under the site root")
)

// Resolver knows the current location and which site it syncs with.
type Resolver struct {
	Location string
	Remotes  map[string]string
}

// NewResolver builds a Resolver from configuration.
func NewResolver(cfg *config.Config) Resolver {
	if cfg == nil {
		return Resolver{}
	}
	return Resolver{
		Location: strings.ToLower(strings.TrimSpace(cfg.Site.Location)),
		Remotes:  maps.Clone(cfg.Site.Remotes),
	}
}

// DefaultRemote returns the site the current location syncs with.
func (r Resolver) DefaultRemote() (string, error) {
	if r.Location == "" {
		return "", ErrUnknownLocation
	}
	remote, ok := r.Remotes[r.Location]
	if !ok || remote == "" {
		return "", fmt.Errorf("location %q has no remote site: %w", r.Location, ErrUnknownLocation)
	}
	return remote, nil
}

// SitePath returns path as seen from site:
//
//	SitePath("/prod/vfx/pipedev3", "bne") == "/bne_prod/vfx/pipedev3"
func SitePath(path, site string) (string, error) {
	silo, rest, err := splitSilo(path)
	if err != nil {
		return "", err
	}
	if site == "" {
		return "", fmt.Errorf("site path for %s: empty site", path)
	}
	return "/" + site + "_" + silo + rest, nil
}

// LocalPath is the inverse of SitePath.
func LocalPath(path, site string) (string, error) {
	silo, rest, err := splitSilo(path)
	if err != nil {
		return "", err
	}
	local, ok := strings.CutPrefix(silo, site+"_")
	if site == "" || !ok || local == "" {
		return "", fmt.Errorf("%s at site %q: %w", path, site, ErrNotSitePath)
	}
	return "/" + local + rest, nil
}

// splitSilo splits "/prod/vfx/x" into "prod" and "/vfx/x".
func splitSilo(path string) (string, string, error) {
	trimmed, ok := strings.CutPrefix(path, "/")
	if !ok {
		return "", "", fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	silo, rest, found := strings.Cut(trimmed, "/")
	if silo == "" {
		return "", "", fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	if found {
		rest = "/" + rest
	}
	return silo, rest, nil
}
