package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another timer already holds the lock.
var ErrAlreadyRunning = errors.New("timer already running")

const (
	minLockPort = 20000
	maxLockPort = 39999
)

// InstanceLock keeps a single timer per user session by holding a localhost port
// derived from the application name.
type InstanceLock struct {
	listener net.Listener
}

// AcquireInstanceLock binds the port for appName or returns ErrAlreadyRunning.
func AcquireInstanceLock(appName string) (*InstanceLock, error) {
	listener, err := net.Listen("tcp", LockAddress(appName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the lock. It is safe to call on a nil lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// LockAddress returns the loopback address used for appName.
func LockAddress(appName string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	span := uint32(maxLockPort - minLockPort + 1)
	return fmt.Sprintf("127.0.0.1:%d", minLockPort+int(hash.Sum32()%span))
}
