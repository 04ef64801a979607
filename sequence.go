package chromakey

import (
	"fmt"
	"strings"
)

// BackgroundPolicy selects which background frame pairs with a foreground frame.
type BackgroundPolicy int

const (
	// PolicyLoop plays the background forward and wraps around: i mod m.
	PolicyLoop BackgroundPolicy = iota
	// PolicyStatic always uses the first background frame.
	PolicyStatic
	// PolicyReverse plays the background backwards and wraps around: m-1-(i mod m).
	PolicyReverse
	// PolicyPingPong plays forward then backward without repeating the turning frames.
	PolicyPingPong
)

// ParseBackgroundPolicy parses static, loop, reverse or pingpong.
func ParseBackgroundPolicy(s string) (BackgroundPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loop":
		return PolicyLoop, nil
	case "static":
		return PolicyStatic, nil
	case "reverse":
		return PolicyReverse, nil
	case "pingpong", "ping-pong":
		return PolicyPingPong, nil
	default:
		return 0, fmt.Errorf("%w: unknown background policy %q", ErrInvalidParameter, s)
	}
}

func (p BackgroundPolicy) String() string {
	switch p {
	case PolicyLoop:
		return "loop"
	case PolicyStatic:
		return "static"
	case PolicyReverse:
		return "reverse"
	case PolicyPingPong:
		return "pingpong"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p BackgroundPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BackgroundPolicy) UnmarshalText(b []byte) error {
	v, err := ParseBackgroundPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p BackgroundPolicy) valid() bool {
	return p >= PolicyLoop && p <= PolicyPingPong
}

// Index maps foreground index i to a background index in [0, m).
// It returns -1 when m is not positive.
func (p BackgroundPolicy) Index(i, m int) int {
	if m <= 0 {
		return -1
	}
	if i < 0 {
		i = -i
	}
	switch p {
	case PolicyStatic:
		return 0
	case PolicyReverse:
		return m - 1 - i%m
	case PolicyPingPong:
		if m == 1 {
			return 0
		}
		period := 2*m - 2
		k := i % period
		if k < m {
			return k
		}
		return period - k
	default:
		return i % m
	}
}
