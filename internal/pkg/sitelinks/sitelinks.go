// Package sitelinks decides which host a path belongs to and whether a link to it
// stays on the current origin.
package sitelinks

import (
	"net/url"
	"strings"
)

type Site string

const (
	SiteMarketing Site = "marketing"
	SiteApp       Site = "app"
	SitePay       Site = "pay"
	SiteMobile    Site = "mobile"
)

// Hosts names the three public hosts. The mobile namespace lives on the app host.
type Hosts struct {
	Marketing string
	App       string
	Pay       string
}

type Link struct {
	Site Site   `json:"site"`
	Host string `json:"host"`
	Path string `json:"path"`
	Href string `json:"href"`
	// SameOrigin links can be rendered as in-app router links; the rest need a plain anchor.
	SameOrigin bool `json:"same_origin"`
}

type Resolver struct {
	hosts Hosts
}

func NewResolver(hosts Hosts) *Resolver {
	return &Resolver{hosts: hosts}
}

var (
	payPrefixes = []string{"/checkout", "/c/", "/pay", "/obrigado", "/thank-you"}
	appPrefixes = []string{
		"/login", "/auth", "/signup", "/cadastro", "/dashboard", "/vendedor", "/produtos",
		"/vendas", "/financeiro", "/admin", "/members", "/area", "/hub", "/minhas-compras",
		"/configuracoes", "/reset-password",
	}
)

// Classify maps a path to the site that serves it.
func Classify(path string) Site {
	p := normalizePath(path)
	switch {
	case p == "/mobile" || strings.HasPrefix(p, "/mobile/"):
		return SiteMobile
	case hasAnyPrefix(p, payPrefixes):
		return SitePay
	case hasAnyPrefix(p, appPrefixes):
		return SiteApp
	default:
		return SiteMarketing
	}
}

// Resolve builds the absolute link for path as seen from currentHost.
func (r *Resolver) Resolve(path, currentHost string) Link {
	p := normalizePath(path)
	site := Classify(p)
	host := r.hostFor(site)

	u := url.URL{Scheme: "https", Host: host, Path: p}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		if parsed, err := url.Parse(path[i:]); err == nil {
			u.RawQuery = parsed.RawQuery
			u.Fragment = parsed.Fragment
		}
	}

	return Link{
		Site:       site,
		Host:       host,
		Path:       p,
		Href:       u.String(),
		SameOrigin: strings.EqualFold(stripPort(currentHost), host),
	}
}

// URL is Resolve(path, "").Href.
func (r *Resolver) URL(path string) string {
	return r.Resolve(path, "").Href
}

func (r *Resolver) hostFor(site Site) string {
	switch site {
	case SitePay:
		return r.hosts.Pay
	case SiteApp, SiteMobile:
		return r.hosts.App
	default:
		return r.hosts.Marketing
	}
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return strings.ToLower(path)
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(p, prefix) {
				return true
			}
			continue
		}
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
