// Package apusys stubs the low-level APU driver interface that the vendor
// runtime talks to through /dev/apusys. Applications occasionally poke
// this layer directly; without vendor hardware there is nothing to do, so
// every operation succeeds and reports a plausible device topology. The
// stubs exist to keep such applications alive, not to emulate the driver.
package apusys

import "neuroshim/internal/logging"

// Session is a stub driver session.
type Session struct{}

// Cmd is a stub command handle bound to a session.
type Cmd struct{}

// CreateSession opens a stub driver session.
func CreateSession(flags int) (*Session, error) {
	_ = flags
	log := logging.For("apusys")
	log.Debug().Msg("session created (stub)")
	return &Session{}, nil
}

// Close tears the session down.
func (s *Session) Close() error {
	log := logging.For("apusys")
	log.Debug().Msg("session destroyed (stub)")
	return nil
}

// NewCmd creates a stub command of the given type.
func (s *Session) NewCmd(cmdType int) (*Cmd, error) {
	_ = cmdType
	return &Cmd{}, nil
}

// Run pretends to execute the command.
func (c *Cmd) Run() error {
	log := logging.For("apusys")
	log.Debug().Msg("cmd run (stub, no-op)")
	return nil
}

// RunAsync pretends to start the command.
func (c *Cmd) RunAsync() error { return nil }

// Wait pretends the command completed within the timeout.
func (c *Cmd) Wait(timeoutMS int) error {
	_ = timeoutMS
	return nil
}

// MemAlloc really allocates: callers may write into the buffer.
func (s *Session) MemAlloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// PowerOn reports success.
func (s *Session) PowerOn() error { return nil }

// PowerOff reports success.
func (s *Session) PowerOff() error { return nil }

// DeviceCount reports one device of every type.
func DeviceCount(deviceType int) int {
	_ = deviceType
	return 1
}

// LoadFirmware accepts and ignores a firmware blob path.
func LoadFirmware(path string) error {
	log := logging.For("apusys")
	log.Debug().Str("path", path).Msg("load firmware ignored (stub)")
	return nil
}
