package nasc

import (
	"errors"
	"sync"
)

type Logger interface {
	Log(msg string)
}

type ConsoleLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *ConsoleLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *ConsoleLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

type FileLogger struct{}

func (l *FileLogger) Log(string) {}

type Database interface {
	Connect() error
}

type MockDB struct {
	connected bool
}

func (db *MockDB) Connect() error {
	db.connected = true
	return nil
}

type UserService struct {
	Logger Logger
	DB     Database
}

func NewUserService(logger Logger, db Database) *UserService {
	return &UserService{Logger: logger, DB: db}
}

type Config struct {
	DSN string
}

// loggerDecorator wraps a Logger with a prefix; used by build rule tests.
type loggerDecorator struct {
	inner  Logger
	prefix string
}

func (d *loggerDecorator) Log(msg string) {
	d.inner.Log(d.prefix + msg)
}

// resource records lifecycle hooks.
type resource struct {
	name        string
	initialized bool
	disposed    bool
	log         *[]string
	disposeErr  error
}

func (r *resource) Initialize() error {
	r.initialized = true
	return nil
}

func (r *resource) Dispose() error {
	r.disposed = true
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	return r.disposeErr
}

var errBoom = errors.New("boom")
