package measure

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// ProbeTerminalEmojiWidthFd is a convenience wrapper around
// ProbeTerminalEmojiWidth for the common case of probing directly against
// a terminal file descriptor: it puts fd into raw mode for the duration
// of the probe and restores the prior state afterward.
func ProbeTerminalEmojiWidthFd(ctx context.Context, f *os.File, timeout time.Duration) (EmojiPolicy, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return EmojiPolicyAuto, fmt.Errorf("measure: fd %d is not a terminal", fd)
	}

	prior, err := term.MakeRaw(fd)
	if err != nil {
		return EmojiPolicyAuto, fmt.Errorf("measure: enter raw mode for probe: %w", err)
	}
	defer term.Restore(fd, prior)

	return ProbeTerminalEmojiWidth(ctx, f, timeout)
}
