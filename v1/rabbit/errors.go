package rabbit

import (
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Standardized errors for the AMQP reply codes the client can run into.
var (
	ErrConnectionClosed   = errors.New("connection closed")
	ErrChannelClosed      = errors.New("channel closed")
	ErrAccessDenied       = errors.New("access denied")
	ErrNotFound           = errors.New("exchange, queue or virtual host not found")
	ErrResourceLocked     = errors.New("resource locked")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrMessageTooLarge    = errors.New("message too large")
	ErrPublishFailed      = errors.New("publish failed")
	ErrNotAllowed         = errors.New("operation not allowed")
	ErrServerError        = errors.New("broker internal error")
	ErrProtocolError      = errors.New("protocol error")
)

// TranslateError maps AMQP errors onto the package sentinels. The
// original error stays in the chain; errors that are not *amqp.Error are
// returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, amqp.ErrClosed) {
		return errors.Join(ErrChannelClosed, err)
	}

	var amqpErr *amqp.Error
	if !errors.As(err, &amqpErr) {
		return err
	}

	var sentinel error
	switch amqpErr.Code {
	case amqp.ConnectionForced:
		sentinel = ErrConnectionClosed
	case amqp.AccessRefused:
		sentinel = ErrAccessDenied
	case amqp.NotFound, amqp.InvalidPath:
		sentinel = ErrNotFound
	case amqp.ResourceLocked:
		sentinel = ErrResourceLocked
	case amqp.PreconditionFailed:
		sentinel = ErrPreconditionFailed
	case amqp.ContentTooLarge:
		sentinel = ErrMessageTooLarge
	case amqp.NoRoute, amqp.NoConsumers:
		sentinel = ErrPublishFailed
	case amqp.NotAllowed:
		sentinel = ErrNotAllowed
	case amqp.InternalError, amqp.ResourceError, amqp.NotImplemented:
		sentinel = ErrServerError
	case amqp.SyntaxError, amqp.CommandInvalid, amqp.FrameError, amqp.UnexpectedFrame, amqp.ChannelError:
		sentinel = ErrProtocolError
	default:
		return err
	}
	return errors.Join(sentinel, err)
}

// IsRetryableError reports whether an operation failing with err may
// succeed after a reconnect.
func IsRetryableError(err error) bool {
	if errors.Is(err, amqp.ErrClosed) ||
		errors.Is(err, ErrConnectionClosed) ||
		errors.Is(err, ErrChannelClosed) ||
		errors.Is(err, ErrServerError) {
		return true
	}
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		return amqpErr.Recover || amqpErr.Code == amqp.ConnectionForced
	}
	return false
}
