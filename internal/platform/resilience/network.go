package resilience

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"os"
	"syscall"
)

// NetworkErrorKind names the transport failure behind an error that carried
// no HTTP response.
type NetworkErrorKind string

const (
	NetworkNone               NetworkErrorKind = ""
	NetworkTimeout            NetworkErrorKind = "timeout"
	NetworkConnectionAborted  NetworkErrorKind = "connection_aborted"
	NetworkUnreachable        NetworkErrorKind = "network_unreachable"
	NetworkConnectionReset    NetworkErrorKind = "connection_reset"
	NetworkConnectionRefused  NetworkErrorKind = "connection_refused"
	NetworkUnexpectedShutdown NetworkErrorKind = "unexpected_eof"
	NetworkCanceled           NetworkErrorKind = "canceled"
	NetworkOther              NetworkErrorKind = "other"
)

func ClassifyNetworkError(err error) NetworkErrorKind {
	switch {
	case err == nil:
		return NetworkNone
	case stderrors.Is(err, context.Canceled):
		return NetworkCanceled
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, os.ErrDeadlineExceeded):
		return NetworkTimeout
	case stderrors.Is(err, syscall.ECONNABORTED):
		return NetworkConnectionAborted
	case stderrors.Is(err, syscall.ECONNRESET), stderrors.Is(err, syscall.EPIPE):
		return NetworkConnectionReset
	case stderrors.Is(err, syscall.ENETUNREACH), stderrors.Is(err, syscall.EHOSTUNREACH):
		return NetworkUnreachable
	case stderrors.Is(err, syscall.ECONNREFUSED):
		return NetworkConnectionRefused
	case stderrors.Is(err, io.ErrUnexpectedEOF), stderrors.Is(err, io.EOF):
		return NetworkUnexpectedShutdown
	}

	var timeoutErr interface{ Timeout() bool }
	if stderrors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return NetworkTimeout
	}
	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return NetworkUnreachable
	}
	return NetworkOther
}
