// Package dispatch decides, for each request, whether the response comes
// from a file in the document root or from the application.
package dispatch

import (
	"net/url"
	"strings"
)

//go:generate mockgen -destination mock/mock_filesystem.go -package mock gitlab.com/learnhub/devserver/internal/dispatch Filesystem

// Action is what the server does with a request
type Action int

const (
	// DelegateToApplication hands the request to the application front controller
	DelegateToApplication Action = iota
	// ServeStaticFile answers the request with a file from the document root
	ServeStaticFile
)

func (a Action) String() string {
	switch a {
	case ServeStaticFile:
		return "serve_static_file"
	default:
		return "delegate_to_application"
	}
}

// Rule is the dispatch rule that produced a Decision
type Rule int

const (
	// RuleFallback serves any existing file other than the root path and
	// delegates everything else
	RuleFallback Rule = iota
	// RuleAdminOverride delegates the admin section without looking at the
	// filesystem
	RuleAdminOverride
	// RuleStaticExtension serves existing files with a static extension
	RuleStaticExtension
)

func (r Rule) String() string {
	switch r {
	case RuleAdminOverride:
		return "admin_override"
	case RuleStaticExtension:
		return "static_extension"
	default:
		return "fallback"
	}
}

// Decision is the outcome of dispatching one request path
type Decision struct {
	Action Action
	Rule   Rule
	// Path is the request path without query string
	Path string
	// File is the resolved file to serve, set for ServeStaticFile only
	File string
}

// Filesystem resolves request paths against the document root
type Filesystem interface {
	// Resolve returns the file answering urlPath and whether one exists
	Resolve(urlPath string) (string, bool)
}

// Config is fixed for the lifetime of a Dispatcher
type Config struct {
	AdminPrefix      string
	StaticExtensions ExtensionSet
}

// Dispatcher applies the dispatch rules to request paths. It holds no
// mutable state and is safe for concurrent use.
type Dispatcher struct {
	fs          Filesystem
	adminPrefix string
	extensions  ExtensionSet
}

// New returns a Dispatcher resolving files through fs
func New(fs Filesystem, cfg Config) *Dispatcher {
	return &Dispatcher{
		fs:          fs,
		adminPrefix: cfg.AdminPrefix,
		extensions:  cfg.StaticExtensions,
	}
}

// Decide returns the decision for a percent-decoded request path, which may
// carry a query string. Rules are applied in order:
//
//  1. admin override: paths in the admin section go to the application
//     whatever exists on disk.
//  2. static extension: existing files with a static extension are served.
//  3. fallback: any other existing file is served, except for "/", and
//     everything else goes to the application.
func (d *Dispatcher) Decide(p string) Decision {
	return d.decide(StripQuery(p))
}

// DecideURI decodes a raw request URI, as sent on the request line, and
// decides on its path. URIs that cannot be decoded go to the application.
func (d *Dispatcher) DecideURI(requestURI string) Decision {
	u, err := url.ParseRequestURI(requestURI)
	if err != nil {
		return Decision{Action: DelegateToApplication, Rule: RuleFallback, Path: requestURI}
	}

	// u.Path is decoded, a '?' in it came from %3F and belongs to the path
	return d.decide(u.Path)
}

func (d *Dispatcher) decide(urlPath string) Decision {
	delegate := Decision{Action: DelegateToApplication, Rule: RuleFallback, Path: urlPath}

	if !strings.HasPrefix(urlPath, "/") {
		return delegate
	}

	// every rule sees the path the document root will resolve
	urlPath = CleanPath(urlPath)
	delegate.Path = urlPath

	if inAdminSection(urlPath, d.adminPrefix) {
		return Decision{Action: DelegateToApplication, Rule: RuleAdminOverride, Path: urlPath}
	}

	if urlPath == "/" {
		return delegate
	}

	file, exists := d.fs.Resolve(urlPath)
	if !exists {
		return delegate
	}

	rule := RuleFallback
	if hasStaticExtension(urlPath, d.extensions) {
		rule = RuleStaticExtension
	}

	return Decision{Action: ServeStaticFile, Rule: rule, Path: urlPath, File: file}
}
