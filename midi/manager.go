package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-progression/debug"
)

// ErrScanTimeout is returned when the driver does not answer a port scan.
// CoreMIDI is known to hang here.
var ErrScanTimeout = errors.New("midi port scan timed out")

// ErrPortNotFound is returned when no output port matches the requested name
var ErrPortNotFound = errors.New("midi output port not found")

// DefaultScanTimeout bounds a single port scan
const DefaultScanTimeout = 3 * time.Second

// ignoredPorts are virtual/system ports never picked by a partial match
var ignoredPorts = []string{"midi through", "through port", "dummy"}

// OutPorts lists the available output ports, giving up after timeout
func OutPorts(timeout time.Duration) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(timeout):
		return nil, ErrScanTimeout
	}
}

// OutPortNames lists output port names, giving up after timeout
func OutPortNames(timeout time.Duration) ([]string, error) {
	outs, err := OutPorts(timeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// FindOut picks an output port by name, see MatchName. An empty name picks
// the first port that is not a virtual one.
func FindOut(outs []drivers.Out, name string) (drivers.Out, error) {
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	i := MatchName(names, name)
	if name == "" {
		i = FirstPort(names)
	}
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrPortNotFound, name)
	}
	return outs[i], nil
}

// MatchName returns the index of the exact name, falling back to the first
// case-insensitive partial match that is not a virtual port. -1 if none.
func MatchName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	want := strings.ToLower(name)
	if want == "" {
		return -1
	}
	for i, n := range names {
		got := strings.ToLower(n)
		if isIgnored(got) {
			continue
		}
		if strings.Contains(got, want) {
			return i
		}
	}
	return -1
}

// FirstPort returns the index of the first port that is not a virtual one,
// -1 if none
func FirstPort(names []string) int {
	for i, n := range names {
		if !isIgnored(strings.ToLower(n)) {
			return i
		}
	}
	return -1
}

func isIgnored(name string) bool {
	for _, p := range ignoredPorts {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// PortSink sends events to a hardware or virtual MIDI output port
type PortSink struct {
	*SenderSink
	port drivers.Out
}

// OpenOut finds the named output port and opens it for sending
func OpenOut(name string, timeout time.Duration) (*PortSink, error) {
	outs, err := OutPorts(timeout)
	if err != nil {
		return nil, err
	}
	port, err := FindOut(outs, name)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %q: %w", port.String(), err)
	}
	debug.Log("midi", "opened output %q", port.String())
	return &PortSink{SenderSink: NewSenderSink(send), port: port}, nil
}

// Name returns the opened port's name
func (p *PortSink) Name() string {
	return p.port.String()
}

// Close closes the port and shuts the driver down
func (p *PortSink) Close() error {
	err := p.port.Close()
	gomidi.CloseDriver()
	return err
}
