package ports

// Logger is the leveled logging surface components receive at
// construction. Implementations must be safe for concurrent use.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
