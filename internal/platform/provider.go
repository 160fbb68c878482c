package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Reader        WindowReader
	WindowManager WindowManager
	Events        EventSource
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("tilewm has no native backend for %s/%s; use --dry-run for the in-memory desktop", runtime.GOOS, runtime.GOARCH)

// ErrNativeCallFailed wraps errors returned by a backend call.
var ErrNativeCallFailed = errors.New("native call failed")

// NewProviderFunc is set by platform-specific packages via init().
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// Validate checks that every backend is present.
func (p *Provider) Validate() error {
	if p.Reader == nil {
		return fmt.Errorf("window reader not available on this platform")
	}
	if p.WindowManager == nil {
		return fmt.Errorf("window management not available on this platform")
	}
	if p.Events == nil {
		return fmt.Errorf("event hook not available on this platform")
	}
	return nil
}

// NativeError tags err as a failed backend call on h.
func NativeError(op string, h Handle, err error) error {
	return fmt.Errorf("%w: %s on window %d: %v", ErrNativeCallFailed, op, h, err)
}
